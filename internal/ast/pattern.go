package ast

import "github.com/oxhq/windjammer/internal/token"

// Pattern is any pattern node (let bindings, match arms, for-loop targets).
type Pattern interface {
	Node
	patternNode()
}

type basePattern struct{ Sp token.Span }

func (basePattern) patternNode() {}

// WildcardPattern is "_".
type WildcardPattern struct{ basePattern }

func (p *WildcardPattern) Span() token.Span { return p.Sp }

// BindingPattern binds a new name, optionally declared mut at the binding
// site (rare; ownership inference usually fills this in instead).
type BindingPattern struct {
	basePattern
	Name string
}

func (p *BindingPattern) Span() token.Span { return p.Sp }

// LiteralPattern matches a literal value.
type LiteralPattern struct {
	basePattern
	Value Expr
}

func (p *LiteralPattern) Span() token.Span { return p.Sp }

// TuplePattern matches "(p1, p2, ...)".
type TuplePattern struct {
	basePattern
	Elems []Pattern
}

func (p *TuplePattern) Span() token.Span { return p.Sp }

// StructFieldPattern is one "name: pattern" (or shorthand "name") field.
type StructFieldPattern struct {
	Name    string
	Pattern Pattern // nil for shorthand, meaning a BindingPattern of Name
}

// StructPattern matches "Path { field: pattern, ... }" (Rest allows "..").
type StructPattern struct {
	basePattern
	Type   []string // qualified path segments, possibly multi-segment (§4.1)
	Fields []StructFieldPattern
	Rest   bool
}

func (p *StructPattern) Span() token.Span { return p.Sp }

// EnumVariantPattern matches "path::to::Enum::Variant(...)" or "{...}",
// supporting possibly-qualified multi-segment paths per §3/§4.1.
type EnumVariantPattern struct {
	basePattern
	Path   []string
	Tuple  []Pattern          // non-nil for tuple-variant patterns
	Fields []StructFieldPattern // non-nil for struct-variant patterns
}

func (p *EnumVariantPattern) Span() token.Span { return p.Sp }

// RangePattern matches "lo..hi" or "lo..=hi".
type RangePattern struct {
	basePattern
	Lo        Expr
	Hi        Expr
	Inclusive bool
}

func (p *RangePattern) Span() token.Span { return p.Sp }

// OrPattern matches "p1 | p2 | ...".
type OrPattern struct {
	basePattern
	Alternatives []Pattern
}

func (p *OrPattern) Span() token.Span { return p.Sp }
