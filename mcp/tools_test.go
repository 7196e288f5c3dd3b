package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/oxhq/windjammer/providers/rust"
)

func callTool(t *testing.T, reg *ToolRegistry, name string, params any) *CallToolResult {
	t.Helper()
	raw, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	result, err := reg.Execute(context.Background(), name, raw)
	if err != nil {
		t.Fatalf("Execute(%s): %v", name, err)
	}
	res, ok := result.(*CallToolResult)
	if !ok {
		t.Fatalf("Execute(%s) returned %T, want *CallToolResult", name, result)
	}
	return res
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(rust.New(), nil)
}

func TestParseCodeTool(t *testing.T) {
	s := newTestServer(t)
	res := callTool(t, s.tools, "parse_code", map[string]any{"source": "fn f() -> i32 {\n\tlet a = 1\n\ta\n}"})
	if res.IsError {
		t.Fatalf("parse_code reported an error: %+v", res.Content)
	}
	structured, ok := res.StructuredContent.(map[string]any)
	if !ok {
		t.Fatalf("StructuredContent has unexpected type %T", res.StructuredContent)
	}
	items, ok := structured["items"].([]string)
	if !ok || len(items) != 1 || items[0] != "fn f" {
		t.Fatalf("items = %v, want [fn f]", structured["items"])
	}
}

func TestParseCodeToolInvalidParams(t *testing.T) {
	s := newTestServer(t)
	_, err := s.tools.Execute(context.Background(), "parse_code", json.RawMessage(`not json`))
	mcpErr, ok := err.(*MCPError)
	if !ok || mcpErr.Code != InvalidParams {
		t.Fatalf("expected InvalidParams MCPError, got %#v", err)
	}
}

func TestExplainErrorTool(t *testing.T) {
	s := newTestServer(t)
	res := callTool(t, s.tools, "explain_error", map[string]any{"code": "wj0001"})
	if res.IsError {
		t.Fatalf("explain_error reported an error for a known code: %+v", res.Content)
	}

	res = callTool(t, s.tools, "explain_error", map[string]any{"code": "WJ9999"})
	if !res.IsError {
		t.Fatal("explain_error should report an error for an unknown code")
	}
}

func TestSearchWorkspaceTool(t *testing.T) {
	s := newTestServer(t)
	src := "fn fetchUser() -> i32 {\n\t0\n}\nfn fetchOrder() -> i32 {\n\t0\n}\nfn save() -> i32 {\n\t0\n}"
	res := callTool(t, s.tools, "search_workspace", map[string]any{"source": src, "pattern": "fetch*"})
	if res.IsError {
		t.Fatalf("search_workspace reported an error: %+v", res.Content)
	}
	structured := res.StructuredContent.(map[string]any)
	matches, _ := structured["matches"].([]string)
	if len(matches) != 2 {
		t.Fatalf("matches = %v, want 2 entries", matches)
	}
}

func TestSearchWorkspaceToolInvalidGlob(t *testing.T) {
	s := newTestServer(t)
	_, err := s.tools.Execute(context.Background(), "search_workspace",
		mustRaw(t, map[string]any{"source": "fn f() -> i32 {\n\t0\n}", "pattern": "["}))
	if err == nil {
		t.Fatal("an unparseable glob pattern should error")
	}
}

func TestRenameSymbolTool(t *testing.T) {
	s := newTestServer(t)
	src := "fn f() -> i32 {\n\tlet total = 1\n\ttotal + total\n}"
	res := callTool(t, s.tools, "rename_symbol", map[string]any{"source": src, "oldName": "total", "newName": "sum"})
	if res.IsError {
		t.Fatalf("rename_symbol reported an error: %+v", res.Content)
	}
	if strings.Contains(res.Content[0].Text, "total") {
		t.Errorf("renamed source still contains the old name: %s", res.Content[0].Text)
	}
	if strings.Count(res.Content[0].Text, "sum") != 3 {
		t.Errorf("expected 3 occurrences of sum (binding + 2 uses), got source: %s", res.Content[0].Text)
	}
}

func TestRenameSymbolToolNotFound(t *testing.T) {
	s := newTestServer(t)
	res := callTool(t, s.tools, "rename_symbol", map[string]any{
		"source": "fn f() -> i32 {\n\t0\n}", "oldName": "missing", "newName": "x",
	})
	if !res.IsError {
		t.Fatal("rename_symbol should report an error when oldName has no occurrences")
	}
}

func TestInlineVariableTool(t *testing.T) {
	s := newTestServer(t)
	src := "fn f() -> i32 {\n\tlet a = 1\n\ta + a\n}"
	res := callTool(t, s.tools, "inline_variable", map[string]any{"source": src, "name": "a"})
	if res.IsError {
		t.Fatalf("inline_variable reported an error: %+v", res.Content)
	}
	out := res.Content[0].Text
	if strings.Contains(out, "let a") {
		t.Errorf("inlined source still declares the binding: %s", out)
	}
	if strings.Count(out, "1") != 2 {
		t.Errorf("expected the initializer inlined at both use sites, got: %s", out)
	}
}

func TestExtractFunctionTool(t *testing.T) {
	s := newTestServer(t)
	src := "fn f() -> i32 {\n\tlet a = 1\n\tlet b = 2\n\ta + b\n}"
	res := callTool(t, s.tools, "extract_function", map[string]any{
		"source": src, "startLine": 1, "endLine": 2, "name": "setup",
	})
	if res.IsError {
		t.Fatalf("extract_function reported an error: %+v", res.Content)
	}
	out := res.Content[0].Text
	if !strings.Contains(out, "setup()") {
		t.Errorf("expected a call to the extracted function, got: %s", out)
	}
	if !strings.Contains(out, "fn setup()") {
		t.Errorf("expected a new setup function definition, got: %s", out)
	}
}

func TestExtractFunctionToolNoEnclosingFunc(t *testing.T) {
	s := newTestServer(t)
	res := callTool(t, s.tools, "extract_function", map[string]any{
		"source": "use std::io", "startLine": 0, "endLine": 0, "name": "x",
	})
	if !res.IsError {
		t.Fatal("extract_function should error when no function encloses the given range")
	}
}

func mustRaw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}
