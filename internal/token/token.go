// Package token defines the lexical token kinds produced by the lexer and
// consumed by the parser.
package token

import "fmt"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	// EOF marks the end of the token stream.
	EOF Kind = iota
	// Illegal marks a lexeme the lexer could not classify.
	Illegal

	// Ident is an identifier: [A-Za-z_][A-Za-z0-9_]*, minus keywords.
	Ident
	// Int is an integer literal in any supported base.
	Int
	// Float is a floating point literal.
	Float
	// String is a double-quoted string literal, possibly interpolated.
	String
	// Char is a single-quoted character literal.
	Char

	keywordBegin
	// Fn is the 'fn' keyword.
	Fn
	// Let is the 'let' keyword.
	Let
	// Mut is the 'mut' keyword.
	Mut
	// If is the 'if' keyword.
	If
	// Else is the 'else' keyword.
	Else
	// Match is the 'match' keyword.
	Match
	// While is the 'while' keyword.
	While
	// For is the 'for' keyword.
	For
	// Loop is the 'loop' keyword.
	Loop
	// Break is the 'break' keyword.
	Break
	// Continue is the 'continue' keyword.
	Continue
	// Return is the 'return' keyword.
	Return
	// Struct is the 'struct' keyword.
	Struct
	// Enum is the 'enum' keyword.
	Enum
	// Trait is the 'trait' keyword.
	Trait
	// Impl is the 'impl' keyword.
	Impl
	// Mod is the 'mod' keyword.
	Mod
	// Use is the 'use' keyword.
	Use
	// Type is the 'type' keyword.
	Type
	// Const is the 'const' keyword.
	Const
	// True is the 'true' boolean literal keyword.
	True
	// False is the 'false' boolean literal keyword.
	False
	// SelfValue is the lowercase 'self' receiver keyword.
	SelfValue
	// SelfType is the uppercase 'Self' type keyword.
	SelfType
	// In is the 'in' keyword used in for-loops.
	In
	// As is the 'as' keyword used in cast expressions.
	As
	// Await is the 'await' postfix keyword (as in 'expr.await').
	Await
	// Pub is the 'pub' visibility keyword.
	Pub
	keywordEnd

	// At is the '@' decorator sigil.
	At
	// ColonColon is the '::' qualified-path separator.
	ColonColon
	// Arrow is the '->' function return-type arrow.
	Arrow
	// FatArrow is the '=>' match-arm arrow.
	FatArrow
	// PipeArrow is the '|>' pipe operator.
	PipeArrow
	// DotDot is the '..' range operator.
	DotDot
	// DotDotEq is the '..=' inclusive range operator.
	DotDotEq
	// Question is the '?' try-postfix operator.
	Question

	// Single-character and compound punctuation/operators.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Dot
	Colon
	Semicolon
	Plus
	Minus
	Star
	Slash
	Percent
	Amp
	AmpAmp
	Pipe
	PipePipe
	Caret
	Bang
	Tilde
	Shl
	Shr
	Eq
	EqEq
	NotEq
	Lt
	LtEq
	Gt
	GtEq
	PlusEq
	MinusEq
	StarEq
	SlashEq
	PercentEq
	AmpEq
	PipeEq
	CaretEq

	// Terminator is a real or ASI-inserted statement/item terminator.
	Terminator
)

var keywords = map[string]Kind{
	"fn": Fn, "let": Let, "mut": Mut, "if": If, "else": Else,
	"match": Match, "while": While, "for": For, "loop": Loop,
	"break": Break, "continue": Continue, "return": Return,
	"struct": Struct, "enum": Enum, "trait": Trait, "impl": Impl,
	"mod": Mod, "use": Use, "type": Type, "const": Const,
	"true": True, "false": False, "self": SelfValue, "Self": SelfType,
	"in": In, "as": As, "await": Await, "pub": Pub,
}

// LookupIdent classifies an identifier lexeme as a keyword Kind, or returns
// Ident if it is not reserved.
func LookupIdent(lit string) Kind {
	if k, ok := keywords[lit]; ok {
		return k
	}
	return Ident
}

// IsKeyword reports whether k is one of the reserved keyword kinds.
func IsKeyword(k Kind) bool {
	return k > keywordBegin && k < keywordEnd
}

var names = map[Kind]string{
	EOF: "EOF", Illegal: "ILLEGAL", Ident: "IDENT", Int: "INT", Float: "FLOAT",
	String: "STRING", Char: "CHAR",
	Fn: "fn", Let: "let", Mut: "mut", If: "if", Else: "else", Match: "match",
	While: "while", For: "for", Loop: "loop", Break: "break", Continue: "continue",
	Return: "return", Struct: "struct", Enum: "enum", Trait: "trait", Impl: "impl",
	Mod: "mod", Use: "use", Type: "type", Const: "const", True: "true", False: "false",
	SelfValue: "self", SelfType: "Self", In: "in", As: "as", Await: "await", Pub: "pub",
	At: "@", ColonColon: "::", Arrow: "->", FatArrow: "=>", PipeArrow: "|>",
	DotDot: "..", DotDotEq: "..=", Question: "?",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Comma: ",", Dot: ".", Colon: ":", Semicolon: ";",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	Amp: "&", AmpAmp: "&&", Pipe: "|", PipePipe: "||", Caret: "^", Bang: "!", Tilde: "~",
	Shl: "<<", Shr: ">>",
	Eq: "=", EqEq: "==", NotEq: "!=", Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=",
	PlusEq: "+=", MinusEq: "-=", StarEq: "*=", SlashEq: "/=", PercentEq: "%=",
	AmpEq: "&=", PipeEq: "|=", CaretEq: "^=",
	Terminator: ";(asi)",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// NumberBase records the radix a numeric literal was written in, so codegen
// can re-emit it verbatim.
type NumberBase int

const (
	// Decimal is the default base for integer and float literals.
	Decimal NumberBase = iota
	// Hex is the '0x' prefixed base.
	Hex
	// Binary is the '0b' prefixed base.
	Binary
	// Octal is the '0o' prefixed base.
	Octal
)

// StringSegment is one chunk of a possibly-interpolated string literal: a
// literal text chunk, or a nested token stream for a '{expr}' hole.
type StringSegment struct {
	// Text holds decoded literal text when Expr is nil.
	Text string
	// Expr holds the raw token stream inside an interpolation hole.
	// Populated only when this segment is an expression segment.
	Expr []Token
}

// Span locates a range of bytes within a named source unit.
type Span struct {
	Unit      string
	StartByte int
	EndByte   int
	Line      int
	Column    int
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return s.Unit == other.Unit && s.StartByte <= other.StartByte && other.EndByte <= s.EndByte
}

// Token is a single lexeme together with its classification, span, and any
// decoded literal payload.
type Token struct {
	Kind    Kind
	Literal string
	Span    Span

	// Base records the numeric base for Int/Float tokens.
	Base NumberBase
	// Segments holds the decoded chunks for a String token.
	Segments []StringSegment
	// Synthetic marks a Terminator inserted by ASI rather than lexed.
	Synthetic bool
}

func (t Token) String() string {
	if t.Literal != "" {
		return fmt.Sprintf("%s(%q)", t.Kind, t.Literal)
	}
	return t.Kind.String()
}
