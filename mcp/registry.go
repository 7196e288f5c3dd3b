package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// ToolRegistry manages the set of tools one server exposes, grounded on the
// teacher's mcp/tools.toolRegistry (mutex-guarded map + registration-order
// slice so tools/list is deterministic).
type ToolRegistry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	ordered []string
}

// NewToolRegistry returns an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]Tool)}
}

// Register adds or replaces a tool under name.
func (r *ToolRegistry) Register(name string, tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; !exists {
		r.ordered = append(r.ordered, name)
	}
	r.tools[name] = tool
}

// Get retrieves a tool by name.
func (r *ToolRegistry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns every tool in registration order.
func (r *ToolRegistry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.ordered))
	for _, name := range r.ordered {
		out = append(out, r.tools[name])
	}
	return out
}

// Execute runs the named tool with params.
func (r *ToolRegistry) Execute(ctx context.Context, name string, params json.RawMessage) (any, error) {
	tool, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("tool not found: %s", name)
	}
	return tool.Handler()(ctx, params)
}

// Definitions renders every registered tool's client-facing metadata.
func (r *ToolRegistry) Definitions() []ToolDefinition {
	tools := r.List()
	defs := make([]ToolDefinition, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, ToolDefinition{
			Name:        t.Name(),
			Title:       t.Name(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		})
	}
	return defs
}

// baseTool is the concrete Tool implementation every handler in tools.go
// is built from, grounded on the teacher's mcp/tools.BaseTool +
// ToolBuilder fluent construction.
type baseTool struct {
	name        string
	description string
	inputSchema map[string]any
	handler     ToolHandler
}

func (t *baseTool) Name() string                { return t.name }
func (t *baseTool) Description() string         { return t.description }
func (t *baseTool) InputSchema() map[string]any { return t.inputSchema }
func (t *baseTool) Handler() ToolHandler        { return t.handler }

// newTool builds a Tool from its four parts, the collapsed form of the
// teacher's NewTool(name).WithDescription(...).WithInputSchema(...).
// WithHandler(...).Build() chain — kept as a single constructor since every
// Windjammer tool sets all four fields unconditionally.
func newTool(name, description string, inputSchema map[string]any, handler ToolHandler) Tool {
	return &baseTool{name: name, description: description, inputSchema: inputSchema, handler: handler}
}

// ParseParams unmarshals params into T, grounded on the teacher's generic
// tools.ParseParams[T].
func ParseParams[T any](params json.RawMessage) (*T, error) {
	var result T
	if err := json.Unmarshal(params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
