package ast

import "github.com/oxhq/windjammer/internal/token"

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

type baseExpr struct{ Sp token.Span }

func (baseExpr) exprNode() {}

// IntLit is an integer literal; Base preserves the source radix for codegen
// (§4.3 "numeric literals are emitted in their original base").
type IntLit struct {
	baseExpr
	Value uint64
	Base  token.NumberBase
	Raw   string
}

func (e *IntLit) Span() token.Span { return e.Sp }

// FloatLit is a floating-point literal.
type FloatLit struct {
	baseExpr
	Value float64
	Raw   string
}

func (e *FloatLit) Span() token.Span { return e.Sp }

// StringSegment mirrors token.StringSegment but with the expression hole
// already parsed into an Expr.
type StringSegment struct {
	Text string
	Expr Expr // nil when this is a literal text chunk
}

// StringLit is a (possibly interpolated) string literal; non-nil Expr
// segments are lowered to the target's formatted-string form (§4.3).
type StringLit struct {
	baseExpr
	Segments []StringSegment
}

func (e *StringLit) Span() token.Span { return e.Sp }

// CharLit is a character literal.
type CharLit struct {
	baseExpr
	Value rune
}

func (e *CharLit) Span() token.Span { return e.Sp }

// BoolLit is a 'true'/'false' literal.
type BoolLit struct {
	baseExpr
	Value bool
}

func (e *BoolLit) Span() token.Span { return e.Sp }

// Ident is a bare identifier reference.
type Ident struct {
	baseExpr
	Name string
}

func (e *Ident) Span() token.Span { return e.Sp }

// Path is a qualified path "seg::seg::...::seg", legal in expression,
// pattern, and type positions per §4.1.
type Path struct {
	baseExpr
	Segments []string
	Generics []Type // generic arguments on the final segment, if any
}

func (e *Path) Span() token.Span { return e.Sp }

// FieldAccess is "target.name".
type FieldAccess struct {
	baseExpr
	Target Expr
	Name   string
}

func (e *FieldAccess) Span() token.Span { return e.Sp }

// IndexExpr is "target[index]". The §4.2 Vec-index special case keys off
// this node: a non-Copy result used in a moving position needs an
// auto-clone, regardless of whether Target is a local or a field
// projection.
type IndexExpr struct {
	baseExpr
	Target Expr
	Index  Expr
}

func (e *IndexExpr) Span() token.Span { return e.Sp }

// CallExpr is "callee(args...)".
type CallExpr struct {
	baseExpr
	Callee Expr
	Args   []Expr
}

func (e *CallExpr) Span() token.Span { return e.Sp }

// MethodCallExpr is "receiver.method(args...)", kept distinct from CallExpr
// so the analyzer can infer the receiver's self-mode (§4.2 point 5).
type MethodCallExpr struct {
	baseExpr
	Receiver Expr
	Method   string
	Generics []Type
	Args     []Expr
}

func (e *MethodCallExpr) Span() token.Span { return e.Sp }

// BinaryExpr is "lhs op rhs".
type BinaryExpr struct {
	baseExpr
	Op  string
	LHS Expr
	RHS Expr
}

func (e *BinaryExpr) Span() token.Span { return e.Sp }

// UnaryExpr is "op operand" for prefix operators ('-', '!', '~', '&', '&mut').
type UnaryExpr struct {
	baseExpr
	Op      string
	Operand Expr
}

func (e *UnaryExpr) Span() token.Span { return e.Sp }

// BlockExpr wraps a Block used in expression position.
type BlockExpr struct {
	baseExpr
	Block *Block
}

func (e *BlockExpr) Span() token.Span { return e.Sp }

// IfExpr is "if cond { then } else else_". Else may be nil, another IfExpr
// (else-if chain), or a BlockExpr.
type IfExpr struct {
	baseExpr
	Cond Expr
	Then *Block
	Else Expr
}

func (e *IfExpr) Span() token.Span { return e.Sp }

// MatchArm is one "pattern [if guard] => body" arm.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // nil when there is no guard
	Body    Expr
	Sp      token.Span
}

// MatchExpr is "match scrutinee { arms... }".
type MatchExpr struct {
	baseExpr
	Scrutinee Expr
	Arms      []MatchArm
}

func (e *MatchExpr) Span() token.Span { return e.Sp }

// LoopExpr is an unconditional "loop { body }", usable as an expression via
// "break value".
type LoopExpr struct {
	baseExpr
	Body *Block
}

func (e *LoopExpr) Span() token.Span { return e.Sp }

// ClosureParam is one closure parameter; Type is nil when inferred.
type ClosureParam struct {
	Name string
	Type Type
}

// ClosureExpr is "|params| body". Captures is filled in by the analyzer
// (Pass C point 7): the free-variable set with inferred capture modes.
type ClosureExpr struct {
	baseExpr
	Params   []ClosureParam
	Body     Expr
	Captures []Capture
}

func (e *ClosureExpr) Span() token.Span { return e.Sp }

// CaptureMode is the inferred by-value/by-reference mode of a closure
// capture (§3 "Capture mode").
type CaptureMode int

const (
	// CaptureUnknown marks a capture mode not yet computed.
	CaptureUnknown CaptureMode = iota
	// CaptureByRef captures the name by shared reference.
	CaptureByRef
	// CaptureByMutRef captures the name by mutable reference.
	CaptureByMutRef
	// CaptureByMove captures the name by value (moves it into the closure).
	CaptureByMove
)

// Capture is one free variable captured by a closure.
type Capture struct {
	Name string
	Mode CaptureMode
}

// TupleExpr is "(e1, e2, ...)".
type TupleExpr struct {
	baseExpr
	Elems []Expr
}

func (e *TupleExpr) Span() token.Span { return e.Sp }

// ArrayExpr is "[e1, e2, ...]" or "[value; count]" (Count non-nil).
type ArrayExpr struct {
	baseExpr
	Elems []Expr
	Value Expr // non-nil together with Count for the repeat form
	Count Expr
}

func (e *ArrayExpr) Span() token.Span { return e.Sp }

// StructFieldInit is one "name: value" (or shorthand "name") initializer.
type StructFieldInit struct {
	Name  string
	Value Expr // nil for shorthand "name" (value is the identifier 'name')
}

// StructLit is "Path { field: value, ..., ..spread }".
type StructLit struct {
	baseExpr
	Type   Type
	Fields []StructFieldInit
	Spread Expr // non-nil for "..rest" functional update
}

func (e *StructLit) Span() token.Span { return e.Sp }

// RangeExpr is "lo..hi" or "lo..=hi"; either bound may be nil.
type RangeExpr struct {
	baseExpr
	Lo        Expr
	Hi        Expr
	Inclusive bool
}

func (e *RangeExpr) Span() token.Span { return e.Sp }

// CastExpr is "expr as Type".
type CastExpr struct {
	baseExpr
	X    Expr
	Type Type
}

func (e *CastExpr) Span() token.Span { return e.Sp }

// AwaitExpr is "expr.await".
type AwaitExpr struct {
	baseExpr
	X Expr
}

func (e *AwaitExpr) Span() token.Span { return e.Sp }

// TryExpr is "expr?" (propagates a Result/Option error).
type TryExpr struct {
	baseExpr
	X Expr
}

func (e *TryExpr) Span() token.Span { return e.Sp }

// TernaryExpr is sugar for "cond ? then : else_"; codegen lowers it to the
// target's if-expression form (§4.3).
type TernaryExpr struct {
	baseExpr
	Cond Expr
	Then Expr
	Else Expr
}

func (e *TernaryExpr) Span() token.Span { return e.Sp }

// PipeExpr is sugar for "lhs |> callee(args...)"; codegen lowers it to
// "callee(lhs, args...)" (§4.3).
type PipeExpr struct {
	baseExpr
	LHS    Expr
	Callee Expr
	Args   []Expr
}

func (e *PipeExpr) Span() token.Span { return e.Sp }
