package ast

import "github.com/oxhq/windjammer/internal/token"

// Stmt is any statement inside a block.
type Stmt interface {
	Node
	stmtNode()
}

type baseStmt struct{ Sp token.Span }

func (baseStmt) stmtNode() {}

// LetStmt binds a pattern to an initializer. Mut is filled in by the
// analyzer (Pass C §4.2 point 3); it starts false.
type LetStmt struct {
	baseStmt
	Pattern Pattern
	Type    Type // nil when the type is inferred from Value (Pass B)
	Value   Expr
	Mut     bool
}

func (s *LetStmt) Span() token.Span { return s.Sp }

// AssignStmt is "target op= value" for op in {"", "+", "-", "*", "/", "%",
// "&", "|", "^"}; Op == "" is plain assignment.
type AssignStmt struct {
	baseStmt
	Target Expr
	Op     string
	Value  Expr
}

func (s *AssignStmt) Span() token.Span { return s.Sp }

// ExprStmt is an expression used as a statement. Implicit (final) means this
// is the last expression of a block, emitted as an implicit return per
// §4.3 rather than as a terminated statement.
type ExprStmt struct {
	baseStmt
	X        Expr
	Implicit bool
}

func (s *ExprStmt) Span() token.Span { return s.Sp }

// ReturnStmt is an explicit "return expr" or bare "return".
type ReturnStmt struct {
	baseStmt
	Value Expr // nil for bare return
}

func (s *ReturnStmt) Span() token.Span { return s.Sp }

// WhileStmt is a "while cond { body }" loop.
type WhileStmt struct {
	baseStmt
	Cond Expr
	Body *Block
}

func (s *WhileStmt) Span() token.Span { return s.Sp }

// ForStmt is a "for pattern in iter { body }" loop.
type ForStmt struct {
	baseStmt
	Pattern Pattern
	Iter    Expr
	Body    *Block
}

func (s *ForStmt) Span() token.Span { return s.Sp }

// BreakStmt exits the innermost loop, optionally with a value (loop-as-expr).
type BreakStmt struct {
	baseStmt
	Value Expr
}

func (s *BreakStmt) Span() token.Span { return s.Sp }

// ContinueStmt skips to the next iteration of the innermost loop.
type ContinueStmt struct {
	baseStmt
}

func (s *ContinueStmt) Span() token.Span { return s.Sp }

// Block is a brace-delimited sequence of statements. Tail, when non-nil, is
// the final expression used as the block's value (implicit return site).
type Block struct {
	Stmts []Stmt
	Tail  Expr
	Sp    token.Span
}

func (b *Block) Span() token.Span { return b.Sp }
