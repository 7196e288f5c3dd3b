package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/oxhq/windjammer/providers/rust"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(rust.New(), nil)
}

func mustMarshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func TestHandleInitialize(t *testing.T) {
	s := testServer(t)
	req := RequestMessage{
		ID:     1,
		Method: "initialize",
		Params: mustMarshal(t, map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities":    map[string]any{},
		}),
	}
	resp := s.handleInitialize(req)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("Result has unexpected type %T", resp.Result)
	}
	if result["protocolVersion"] != protocolVersion {
		t.Errorf("protocolVersion = %v, want %v", result["protocolVersion"], protocolVersion)
	}
	if !s.session.Initialized() {
		t.Error("session should be marked initialized")
	}
}

func TestHandleInitializeInvalidParams(t *testing.T) {
	s := testServer(t)
	req := RequestMessage{ID: 1, Method: "initialize", Params: json.RawMessage(`not json`)}
	resp := s.handleInitialize(req)
	if resp.Error == nil || resp.Error.Code != InvalidParams {
		t.Fatalf("expected InvalidParams error, got %+v", resp.Error)
	}
}

func TestHandleListTools(t *testing.T) {
	s := testServer(t)
	resp := s.handleListTools(RequestMessage{ID: 1})
	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("Result has unexpected type %T", resp.Result)
	}
	defs, ok := result["tools"].([]ToolDefinition)
	if !ok || len(defs) != 9 {
		t.Fatalf("tools = %+v, want 9 entries", result["tools"])
	}
}

func TestHandleCallToolParseCode(t *testing.T) {
	s := testServer(t)
	req := RequestMessage{
		ID:     2,
		Method: "tools/call",
		Params: mustMarshal(t, map[string]any{
			"name":      "parse_code",
			"arguments": mustMarshal(t, map[string]any{"source": "fn main() {}"}),
		}),
	}
	resp := s.handleCallTool(context.Background(), req)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	res, ok := resp.Result.(*CallToolResult)
	if !ok {
		t.Fatalf("Result has unexpected type %T", resp.Result)
	}
	if res.IsError {
		t.Errorf("parse_code reported an error result: %+v", res.Content)
	}
}

func TestHandleCallToolUnknownTool(t *testing.T) {
	s := testServer(t)
	req := RequestMessage{
		ID:     3,
		Method: "tools/call",
		Params: mustMarshal(t, map[string]any{"name": "does_not_exist", "arguments": json.RawMessage(`{}`)}),
	}
	resp := s.handleCallTool(context.Background(), req)
	if resp.Error != nil {
		t.Fatalf("tool-not-found is reported as a successful errResult, not a protocol error: %v", resp.Error)
	}
	res, ok := resp.Result.(*CallToolResult)
	if !ok || !res.IsError {
		t.Fatalf("expected an error CallToolResult, got %+v", resp.Result)
	}
}

func TestHandleSetLoggingLevel(t *testing.T) {
	s := testServer(t)
	req := RequestMessage{ID: 4, Method: "logging/setLevel", Params: mustMarshal(t, map[string]any{"level": "debug"})}
	resp := s.handleSetLoggingLevel(req)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	if s.session.LoggingLevel() != "debug" {
		t.Errorf("LoggingLevel() = %q, want debug", s.session.LoggingLevel())
	}
}

func TestDispatchRequestMethodNotFound(t *testing.T) {
	s := testServer(t)
	resp := s.dispatchRequest(context.Background(), RequestMessage{ID: 5, Method: "bogus/method"})
	if resp.Error == nil || resp.Error.Code != MethodNotFound {
		t.Fatalf("expected MethodNotFound, got %+v", resp.Error)
	}
}

func TestDispatchRequestPing(t *testing.T) {
	s := testServer(t)
	resp := s.dispatchRequest(context.Background(), RequestMessage{ID: 6, Method: "ping"})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
}
