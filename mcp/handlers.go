package mcp

import (
	"context"
	"encoding/json"
)

// handleInitialize negotiates the protocol version and records the
// client's declared capabilities, grounded on the teacher's
// handleInitialize.
func (s *Server) handleInitialize(req RequestMessage) ResponseMessage {
	var params struct {
		ProtocolVersion string         `json:"protocolVersion"`
		Capabilities    map[string]any `json:"capabilities"`
	}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return ErrorResponse(req.ID, InvalidParams, "invalid initialize params")
		}
	}
	s.session.MarkInitialized(params.ProtocolVersion, params.Capabilities)

	return SuccessResponse(req.ID, map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{"listChanged": false},
			"logging": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    "windjammer-mcp",
			"version": "0.1.0",
		},
	})
}

// handleListTools renders every registered tool's client-facing metadata,
// grounded on the teacher's handleListTools + tools.GetDefinitions.
func (s *Server) handleListTools(req RequestMessage) ResponseMessage {
	return SuccessResponse(req.ID, map[string]any{"tools": s.tools.Definitions()})
}

// handleCallTool executes a named tool, grounded on the teacher's
// handleCallTool: unwrap {name, arguments}, run the handler, and adapt its
// return value into a CallToolResult.
func (s *Server) handleCallTool(ctx context.Context, req RequestMessage) ResponseMessage {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return ErrorResponse(req.ID, InvalidParams, "invalid tools/call params")
	}

	result, err := s.tools.Execute(ctx, params.Name, params.Arguments)
	if err != nil {
		if mcpErr, ok := err.(*MCPError); ok {
			return ErrorResponse(req.ID, mcpErr.Code, mcpErr.Message, mcpErr.Data)
		}
		return SuccessResponse(req.ID, errResult(err.Error()))
	}

	if res, ok := result.(*CallToolResult); ok {
		return SuccessResponse(req.ID, res)
	}
	return SuccessResponse(req.ID, result)
}

// handleSetLoggingLevel installs a new session logging level.
func (s *Server) handleSetLoggingLevel(req RequestMessage) ResponseMessage {
	var params struct {
		Level string `json:"level"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return ErrorResponse(req.ID, InvalidParams, "invalid logging/setLevel params")
	}
	s.session.SetLoggingLevel(params.Level)
	return SuccessResponse(req.ID, map[string]any{})
}
