package parser

import (
	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/token"
)

// assignOps maps an assignment token to its compound operator, "" for plain
// '='.
var assignOps = map[token.Kind]string{
	token.Eq:        "",
	token.PlusEq:    "+",
	token.MinusEq:   "-",
	token.StarEq:    "*",
	token.SlashEq:   "/",
	token.PercentEq: "%",
	token.AmpEq:     "&",
	token.PipeEq:    "|",
	token.CaretEq:   "^",
}

// parseBlock parses "{ stmt... [tail-expr] }". The last expression-statement
// with no trailing terminator becomes the block's Tail (implicit return,
// §4.3) rather than an ExprStmt.
func (p *Parser) parseBlock() *ast.Block {
	b := &ast.Block{}
	start := p.expect(token.LBrace).Span
	for {
		p.skipTerminators()
		if p.at(token.RBrace) || p.atEOF() {
			break
		}
		stmt, terminated := p.parseStmt()
		if stmt == nil {
			continue
		}
		if es, ok := stmt.(*ast.ExprStmt); ok && !terminated {
			if p.at(token.RBrace) {
				es.Implicit = true
				b.Tail = es.X
				break
			}
		}
		b.Stmts = append(b.Stmts, stmt)
	}
	end := p.expect(token.RBrace).Span
	b.Sp = spanFromTo(start, end)
	return b
}

// parseStmt parses one statement, reporting whether it was followed by an
// explicit or ASI-synthesized terminator.
func (p *Parser) parseStmt() (ast.Stmt, bool) {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.Let:
		s := p.parseLet()
		return s, p.consumeTerminator()
	case token.Return:
		p.advance()
		r := &ast.ReturnStmt{}
		if !p.at(token.Semicolon) && !p.at(token.Terminator) && !p.at(token.RBrace) && !p.atEOF() {
			r.Value = p.parseExpr()
		}
		r.Sp = start
		return r, p.consumeTerminator()
	case token.While:
		return p.parseWhile(), false
	case token.For:
		return p.parseFor(), false
	case token.Break:
		p.advance()
		br := &ast.BreakStmt{}
		if !p.at(token.Semicolon) && !p.at(token.Terminator) && !p.at(token.RBrace) && !p.atEOF() {
			br.Value = p.parseExpr()
		}
		br.Sp = start
		return br, p.consumeTerminator()
	case token.Continue:
		p.advance()
		c := &ast.ContinueStmt{}
		c.Sp = start
		return c, p.consumeTerminator()
	default:
		x := p.parseExpr()
		if op, ok := assignOps[p.cur().Kind]; ok {
			p.advance()
			rhs := p.parseExpr()
			a := &ast.AssignStmt{Target: x, Op: op, Value: rhs}
			a.Sp = spanFromTo(start, rhs.Span())
			return a, p.consumeTerminator()
		}
		es := &ast.ExprStmt{X: x}
		es.Sp = x.Span()
		return es, p.consumeTerminator()
	}
}

func (p *Parser) consumeTerminator() bool {
	if p.at(token.Semicolon) || p.at(token.Terminator) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) parseLet() *ast.LetStmt {
	start := p.expect(token.Let).Span
	pat := p.parsePattern()
	var typ ast.Type
	if _, ok := p.accept(token.Colon); ok {
		typ = p.parseType()
	}
	p.expect(token.Eq)
	val := p.parseExpr()
	s := &ast.LetStmt{Pattern: pat, Type: typ, Value: val}
	s.Sp = spanFromTo(start, val.Span())
	return s
}

func (p *Parser) parseWhile() *ast.WhileStmt {
	start := p.expect(token.While).Span
	p.noStructLit++
	cond := p.parseExpr()
	p.noStructLit--
	body := p.parseBlock()
	s := &ast.WhileStmt{Cond: cond, Body: body}
	s.Sp = spanFromTo(start, body.Sp)
	return s
}

func (p *Parser) parseFor() *ast.ForStmt {
	start := p.expect(token.For).Span
	pat := p.parsePattern()
	p.expect(token.In)
	p.noStructLit++
	iter := p.parseExpr()
	p.noStructLit--
	body := p.parseBlock()
	s := &ast.ForStmt{Pattern: pat, Iter: iter, Body: body}
	s.Sp = spanFromTo(start, body.Sp)
	return s
}
