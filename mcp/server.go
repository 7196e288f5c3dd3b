package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/oxhq/windjammer/internal/core"
	"github.com/oxhq/windjammer/internal/querydb"
	"github.com/oxhq/windjammer/providers"
)

// protocolVersion is the MCP protocol version Windjammer's server
// implements and advertises during initialize.
const protocolVersion = "2024-11-05"

// Server hosts the Windjammer compiler over stdio JSON-RPC, grounded on
// the teacher's mcp.StdioServer — narrowed to the one resource kind the
// teacher's server manages many of (tools), since Windjammer has no
// prompts/resources/staging/safety surface to expose.
type Server struct {
	db       *querydb.DB
	compiler *core.Compiler
	tools    *ToolRegistry
	session  *SessionState
	log      *slog.Logger

	reader *bufio.Reader
	writer *bufio.Writer
}

// NewServer builds a Server compiling against backend, grounded on the
// teacher's NewStdioServer.
func NewServer(backend providers.Backend, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	s := &Server{
		compiler: core.NewCompiler(backend, log),
		tools:    NewToolRegistry(),
		session:  NewSessionState(),
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
		writer:   bufio.NewWriter(os.Stdout),
	}
	s.db = s.compiler.DB
	RegisterAll(s.tools, s)
	return s
}

// DB implements ServerInterface.
func (s *Server) DB() *querydb.DB { return s.db }

// Compiler implements ServerInterface.
func (s *Server) Compiler() *core.Compiler { return s.compiler }

// SessionID implements ServerInterface.
func (s *Server) SessionID() string { return unitPath }

// AttachSnapshot wires a persistent warm-start cache into the server's
// compile session.
func (s *Server) AttachSnapshot(snap *querydb.Snapshot) {
	s.compiler.AttachSnapshot(snap)
}

// Start reads JSON-RPC requests/notifications from stdin until EOF,
// grounded on the teacher's StdioServer.Start decode loop: peek the
// envelope to distinguish a request (has both id and method) from a bare
// notification, dispatch, and write one response line per request.
func (s *Server) Start(ctx context.Context) error {
	decoder := json.NewDecoder(s.reader)

	for {
		var raw json.RawMessage
		err := decoder.Decode(&raw)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			s.sendResponse(ErrorResponse(nil, ParseError, err.Error()))
			decoder = json.NewDecoder(s.reader)
			continue
		}

		var envelope struct {
			ID     *json.RawMessage `json:"id"`
			Method string           `json:"method"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			s.sendResponse(ErrorResponse(nil, ParseError, "invalid JSON-RPC message"))
			continue
		}

		if envelope.ID == nil {
			var note NotificationMessage
			if err := json.Unmarshal(raw, &note); err != nil {
				s.log.Warn("invalid notification", "error", err)
				continue
			}
			s.dispatchNotification(ctx, note)
			continue
		}

		var req RequestMessage
		if err := json.Unmarshal(raw, &req); err != nil {
			s.sendResponse(ErrorResponse(nil, ParseError, "invalid request"))
			continue
		}
		s.sendResponse(s.dispatchRequest(ctx, req))
	}
}

func (s *Server) dispatchRequest(ctx context.Context, req RequestMessage) ResponseMessage {
	if err := ensureVersion(req.JSONRPC); err != nil && req.JSONRPC != "" {
		return ErrorResponse(req.ID, InvalidRequest, err.Error())
	}
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "ping":
		return SuccessResponse(req.ID, map[string]any{})
	case "tools/list":
		return s.handleListTools(req)
	case "tools/call":
		return s.handleCallTool(ctx, req)
	case "logging/setLevel":
		return s.handleSetLoggingLevel(req)
	default:
		return ErrorResponse(req.ID, MethodNotFound, fmt.Sprintf("method not found: %s", req.Method))
	}
}

func (s *Server) dispatchNotification(ctx context.Context, note NotificationMessage) {
	switch note.Method {
	case "notifications/initialized":
		s.log.Debug("client initialized")
	default:
		s.log.Debug("unhandled notification", "method", note.Method)
	}
}

func (s *Server) sendResponse(resp ResponseMessage) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("marshal response failed", "error", err)
		return
	}
	fmt.Fprintf(s.writer, "%s\n", data)
	_ = s.writer.Flush()
}
