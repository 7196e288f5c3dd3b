package mcp

import (
	"context"
	"encoding/json"
	"testing"
)

func echoTool(name string) Tool {
	return newTool(name, "echoes its input", schema(map[string]any{"v": map[string]any{"type": "string"}}),
		func(ctx context.Context, raw json.RawMessage) (any, error) {
			var p struct {
				V string `json:"v"`
			}
			if err := json.Unmarshal(raw, &p); err != nil {
				return nil, err
			}
			return p.V, nil
		})
}

func TestToolRegistryRegistrationOrder(t *testing.T) {
	reg := NewToolRegistry()
	reg.Register("b", echoTool("b"))
	reg.Register("a", echoTool("a"))
	reg.Register("b", echoTool("b")) // re-register must not move it in ordered

	names := make([]string, 0, 2)
	for _, tool := range reg.List() {
		names = append(names, tool.Name())
	}
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Fatalf("List() = %v, want [b a]", names)
	}
}

func TestToolRegistryExecute(t *testing.T) {
	reg := NewToolRegistry()
	reg.Register("echo", echoTool("echo"))

	result, err := reg.Execute(context.Background(), "echo", json.RawMessage(`{"v":"hi"}`))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result != "hi" {
		t.Errorf("result = %v, want hi", result)
	}

	if _, err := reg.Execute(context.Background(), "missing", nil); err == nil {
		t.Error("Execute on an unregistered tool should error")
	}
}

func TestToolRegistryDefinitions(t *testing.T) {
	reg := NewToolRegistry()
	reg.Register("echo", echoTool("echo"))
	defs := reg.Definitions()
	if len(defs) != 1 || defs[0].Name != "echo" || defs[0].Description != "echoes its input" {
		t.Fatalf("Definitions() = %+v", defs)
	}
}

func TestParseParams(t *testing.T) {
	type args struct {
		Name string `json:"name"`
	}
	p, err := ParseParams[args](json.RawMessage(`{"name":"x"}`))
	if err != nil {
		t.Fatalf("ParseParams: %v", err)
	}
	if p.Name != "x" {
		t.Errorf("Name = %q, want x", p.Name)
	}

	if _, err := ParseParams[args](json.RawMessage(`not json`)); err == nil {
		t.Error("ParseParams should error on malformed JSON")
	}
}
