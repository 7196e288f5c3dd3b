// Package mcp exposes the Windjammer compiler over the Model Context
// Protocol: a stdio JSON-RPC server whose tools are thin wrappers over
// querydb queries, so an editor-integrated agent sees the exact same
// incremental pipeline the CLI and LSP front-ends drive.
//
// Grounded on the teacher's mcp/types package (kept apart from the rest of
// mcp to avoid import cycles between the registry and the server), and its
// mcp/tools registry + base tool builder.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/oxhq/windjammer/internal/core"
	"github.com/oxhq/windjammer/internal/querydb"
)

// ServerInterface is what tool handlers need from the hosting server,
// grounded on the teacher's types.ServerInterface — narrowed from a
// multi-language file-processor/staging/safety surface to the one thing
// every Windjammer tool actually touches: a compile session.
type ServerInterface interface {
	DB() *querydb.DB
	Compiler() *core.Compiler
	SessionID() string
}

// ToolHandler is a function that handles a tool call, grounded on the
// teacher's types.ToolHandler.
type ToolHandler func(ctx context.Context, params json.RawMessage) (any, error)

// Component is a registrable MCP component (tool today; prompts/resources
// are a non-goal here).
type Component interface {
	Name() string
	Description() string
}

// Tool is an executable tool with a handler and declared input schema.
type Tool interface {
	Component
	Handler() ToolHandler
	InputSchema() map[string]any
}

// ToolDefinition mirrors the tool metadata exposed to clients via
// tools/list, grounded on the teacher's types.ToolDefinition.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"inputSchema,omitempty"`
}

// Error codes, grounded on the teacher's types error-code block.
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

// MCPError is an MCP/JSON-RPC protocol error.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *MCPError) Error() string { return e.Message }

// NewMCPError builds an MCPError.
func NewMCPError(code int, message string, data any) *MCPError {
	return &MCPError{Code: code, Message: message, Data: data}
}

// WrapError wraps err as an MCPError data payload.
func WrapError(code int, message string, err error) *MCPError {
	return NewMCPError(code, message, map[string]any{"error": err.Error()})
}

// ContentBlock is a unit of textual content returned by a tool call.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// CallToolResult models the standard MCP tool-call response payload.
type CallToolResult struct {
	Content           []ContentBlock `json:"content"`
	StructuredContent any            `json:"structuredContent,omitempty"`
	IsError           bool           `json:"isError,omitempty"`
}

// textResult wraps a single text block, the common case for every
// Windjammer tool below.
func textResult(text string, structured any) *CallToolResult {
	return &CallToolResult{
		Content:           []ContentBlock{{Type: "text", Text: text}},
		StructuredContent: structured,
	}
}

func errResult(message string) *CallToolResult {
	return &CallToolResult{
		Content: []ContentBlock{{Type: "text", Text: message}},
		IsError: true,
	}
}
