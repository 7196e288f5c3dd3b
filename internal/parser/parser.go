// Package parser implements a recursive-descent, Pratt-precedence parser
// for Windjammer source, producing an *ast.File plus recoverable diagnostics.
//
// Grounded on the hand-rolled recursive-descent texture of the retrieval
// pack's standalone compiler files (a Parser holding a flat token buffer and
// a cursor, a synchronize() that skips to the next item boundary on error,
// and a Pratt-style binary-operator loop keyed by a precedence table) rather
// than on the teacher's tree-sitter-backed `internal/parser` (which parses
// existing languages via generated grammars, not a hand-authored one).
package parser

import (
	"fmt"

	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/token"
)

// Error is a single recoverable syntax diagnostic.
type Error struct {
	Span    token.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Span.Line, e.Span.Column, e.Message)
}

// Parser holds the token buffer and cursor for one source unit.
type Parser struct {
	unit string
	toks []token.Token
	pos  int
	errs []error

	// noStructLit suppresses parsing a bare "Ident { ... }" as a struct
	// literal while > 0, so "if cond { ... }" / "while cond { ... }" /
	// "for p in iter { ... }" don't swallow their own body as a literal.
	noStructLit int
}

// New creates a Parser over an already-tokenized unit.
func New(unit string, toks []token.Token) *Parser {
	return &Parser{unit: unit, toks: toks}
}

// Parse runs the parser to completion, synchronizing at item boundaries on
// error so a single run can surface multiple diagnostics (§4.1 "Failures").
func Parse(unit string, toks []token.Token) (*ast.File, []error) {
	p := New(unit, toks)
	file := &ast.File{Unit: unit}
	start := p.cur().Span
	for !p.atEOF() {
		p.skipTerminators()
		if p.atEOF() {
			break
		}
		item := p.parseItem()
		if item != nil {
			file.Items = append(file.Items, item)
		}
	}
	end := start
	if len(p.toks) > 0 {
		end = p.toks[len(p.toks)-1].Span
	}
	file.Sp = token.Span{Unit: unit, StartByte: start.StartByte, EndByte: end.EndByte, Line: start.Line, Column: start.Column}
	return file, p.errs
}

// ---- token cursor helpers --------------------------------------------------

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(offset int) token.Token {
	i := p.pos + offset
	if i >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[i]
}

func (p *Parser) atEOF() bool { return p.cur().Kind == token.EOF }

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) accept(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(k token.Kind) token.Token {
	if p.at(k) {
		return p.advance()
	}
	p.errorf(p.cur().Span, "expected %s, found %s", k, p.cur().Kind)
	return token.Token{Kind: k, Span: p.cur().Span}
}

func (p *Parser) errorf(span token.Span, format string, args ...any) {
	p.errs = append(p.errs, &Error{Span: span, Message: fmt.Sprintf(format, args...)})
}

// skipTerminators consumes any number of optional statement/item
// terminators (real ';' or ASI-synthesized), per §4.1 "optional semicolons
// are permitted at every statement and item boundary".
func (p *Parser) skipTerminators() {
	for p.at(token.Semicolon) || p.at(token.Terminator) {
		p.advance()
	}
}

// synchronize recovers from a parse error by skipping to the next token that
// can start a new item, so a single run surfaces multiple diagnostics.
func (p *Parser) synchronize() {
	for !p.atEOF() {
		if p.at(token.Semicolon) || p.at(token.Terminator) {
			p.advance()
			return
		}
		switch p.cur().Kind {
		case token.Fn, token.Struct, token.Enum, token.Trait, token.Impl,
			token.Mod, token.Use, token.Type, token.Const, token.At, token.Pub:
			return
		}
		p.advance()
	}
}

func spanFromTo(a, b token.Span) token.Span {
	return token.Span{Unit: a.Unit, StartByte: a.StartByte, EndByte: b.EndByte, Line: a.Line, Column: a.Column}
}
