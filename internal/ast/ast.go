// Package ast defines the Windjammer abstract syntax tree: a tagged union of
// item, statement, expression, pattern, and type nodes. Every node carries
// its source span (§3); visitors are plain Go type switches, never dynamic
// dispatch, per the teacher's "no class hierarchy" design note.
package ast

import "github.com/oxhq/windjammer/internal/token"

// Node is implemented by every AST node so generic tooling (the query
// database, span-preservation tests) can walk the tree without knowing the
// concrete variant.
type Node interface {
	Span() token.Span
}

// Attribute is a parsed decorator: '@name' or '@name(args...)'. Decorators
// are represented generically here; interpretation happens at codegen
// (internal/codegen/decorators.go), never in the parser.
type Attribute struct {
	Name string
	Args []Expr
	Sp   token.Span
}

func (a *Attribute) Span() token.Span { return a.Sp }

// File is the root node of one parsed source unit.
type File struct {
	Unit  string
	Items []Item
	Sp    token.Span
}

func (f *File) Span() token.Span { return f.Sp }

// ---- Items ----------------------------------------------------------------

// Item is any top-level or mod-level declaration.
type Item interface {
	Node
	itemNode()
}

type baseItem struct {
	Attrs []*Attribute
	Pub   bool
	Sp    token.Span
}

func (baseItem) itemNode() {}

// Param is one function parameter. Mode is filled in by the analyzer
// (Pass C §4.2 point 6); it is Unknown until then.
type Param struct {
	Name string
	Type Type
	Sp   token.Span
}

// FuncItem is a function or method declaration.
type FuncItem struct {
	baseItem
	Name       string
	TypeParams []TypeParam
	Receiver   *Param // non-nil for methods; Receiver.Type is nil (mode is inferred)
	Params     []Param
	Return     Type // nil means unit/void
	Body       *Block
}

func (f *FuncItem) Span() token.Span { return f.Sp }

// TypeParam is a generic type parameter with its trait-bound set.
type TypeParam struct {
	Name   string
	Bounds []Type
}

// Field is one struct field or enum-variant field.
type Field struct {
	Name string
	Type Type
	Sp   token.Span
}

// StructItem declares a struct type.
type StructItem struct {
	baseItem
	Name       string
	TypeParams []TypeParam
	Fields     []Field
	Tuple      bool // true for tuple-structs (unnamed positional fields)
}

func (s *StructItem) Span() token.Span { return s.Sp }

// Variant is one enum variant, with optional named or tuple fields.
type Variant struct {
	Name   string
	Fields []Field
	Tuple  bool
	Sp     token.Span
}

// EnumItem declares an enum type.
type EnumItem struct {
	baseItem
	Name       string
	TypeParams []TypeParam
	Variants   []Variant
}

func (e *EnumItem) Span() token.Span { return e.Sp }

// TraitItem declares a trait (method signatures only).
type TraitItem struct {
	baseItem
	Name    string
	Methods []*FuncItem
}

func (t *TraitItem) Span() token.Span { return t.Sp }

// ImplItem implements a trait (Trait != nil) or inherent methods for Type.
type ImplItem struct {
	baseItem
	TypeParams []TypeParam
	Trait      Type // nil for an inherent impl block
	Type       Type
	Methods    []*FuncItem
}

func (i *ImplItem) Span() token.Span { return i.Sp }

// ModItem declares a nested module.
type ModItem struct {
	baseItem
	Name  string
	Items []Item
}

func (m *ModItem) Span() token.Span { return m.Sp }

// UseItem imports names from a module path. Path elements after the last
// '::' may be a brace group ("use path::{a, b as c}") or '*' for a glob.
type UseItem struct {
	baseItem
	Relative bool // path begins with './' or '../'
	Segments []string
	Glob     bool
	Alias    string          // non-empty for "use path as alias"
	Group    []UseGroupEntry // non-nil for "use path::{a, b as c}"
}

func (u *UseItem) Span() token.Span { return u.Sp }

// UseGroupEntry is one member of a brace-grouped use statement.
type UseGroupEntry struct {
	Name  string
	Alias string
}

// TypeAliasItem declares "type Name<Params> = RHS".
type TypeAliasItem struct {
	baseItem
	Name       string
	TypeParams []TypeParam
	RHS        Type
}

func (t *TypeAliasItem) Span() token.Span { return t.Sp }

// ConstItem declares a module-level constant.
type ConstItem struct {
	baseItem
	Name  string
	Type  Type
	Value Expr
}

func (c *ConstItem) Span() token.Span { return c.Sp }
