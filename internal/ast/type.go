package ast

import "github.com/oxhq/windjammer/internal/token"

// Type is any type-position node: named, qualified-named, generic
// application, tuple, array, function, reference, option-of, result-of,
// impl-trait, dyn-trait, or self (§3).
type Type interface {
	Node
	typeNode()
}

type baseType struct{ Sp token.Span }

func (baseType) typeNode() {}

// NamedType is a single-segment or qualified-path type name, with optional
// generic arguments: "mod::Sub::Type<Args>" per §4.1.
type NamedType struct {
	baseType
	Segments []string
	Generics []Type
}

func (t *NamedType) Span() token.Span { return t.Sp }

// TupleType is "(T1, T2, ...)".
type TupleType struct {
	baseType
	Elems []Type
}

func (t *TupleType) Span() token.Span { return t.Sp }

// ArrayType is "[T; N]" (Size non-nil) or "[T]" (slice, Size nil).
type ArrayType struct {
	baseType
	Elem Type
	Size Expr
}

func (t *ArrayType) Span() token.Span { return t.Sp }

// FuncType is "fn(Params...) -> Return".
type FuncType struct {
	baseType
	Params []Type
	Return Type
}

func (t *FuncType) Span() token.Span { return t.Sp }

// RefType is "&T" or "&mut T".
type RefType struct {
	baseType
	Mut  bool
	Elem Type
}

func (t *RefType) Span() token.Span { return t.Sp }

// OptionType is the builtin "T?" / "Option<T>" sugar.
type OptionType struct {
	baseType
	Elem Type
}

func (t *OptionType) Span() token.Span { return t.Sp }

// ResultType is the builtin "Result<T, E>" sugar.
type ResultType struct {
	baseType
	Ok  Type
	Err Type
}

func (t *ResultType) Span() token.Span { return t.Sp }

// ImplTraitType is "impl Trait1 + Trait2".
type ImplTraitType struct {
	baseType
	Bounds []Type
}

func (t *ImplTraitType) Span() token.Span { return t.Sp }

// DynTraitType is "dyn Trait1 + Trait2".
type DynTraitType struct {
	baseType
	Bounds []Type
}

func (t *DynTraitType) Span() token.Span { return t.Sp }

// SelfType is the bare "Self" type, distinct from token.SelfType the
// keyword; it appears in impl-block method signatures.
type SelfType struct {
	baseType
}

func (t *SelfType) Span() token.Span { return t.Sp }
