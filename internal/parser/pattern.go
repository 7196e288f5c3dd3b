package parser

import (
	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/token"
)

// parsePattern parses one pattern, including a top-level '|'-separated
// or-pattern (§4.1 "or-patterns"); parseMatch additionally extends a bare
// pattern into an or-pattern across arm-leading '|' for readability, but
// patterns nested inside tuples/structs/variants call this directly.
func (p *Parser) parsePattern() ast.Pattern {
	first := p.parsePatternPrimary()
	if !p.at(token.Pipe) {
		return first
	}
	alts := []ast.Pattern{first}
	for {
		if _, ok := p.accept(token.Pipe); !ok {
			break
		}
		alts = append(alts, p.parsePatternPrimary())
	}
	or := &ast.OrPattern{Alternatives: alts}
	or.Sp = spanFromTo(first.Span(), alts[len(alts)-1].Span())
	return or
}

func (p *Parser) parsePatternPrimary() ast.Pattern {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.Ident:
		if p.cur().Literal == "_" {
			p.advance()
			w := &ast.WildcardPattern{}
			w.Sp = start
			return w
		}
		return p.parsePathOrBindingOrVariantPattern()
	case token.SelfType:
		return p.parsePathOrBindingOrVariantPattern()
	case token.LParen:
		return p.parseTuplePattern()
	case token.Minus, token.Int, token.Float, token.String, token.Char, token.True, token.False:
		return p.parseLiteralOrRangePattern()
	default:
		p.errorf(p.cur().Span, "unexpected token %s in pattern", p.cur().Kind)
		p.advance()
		w := &ast.WildcardPattern{}
		w.Sp = start
		return w
	}
}

func (p *Parser) parseTuplePattern() ast.Pattern {
	start := p.expect(token.LParen).Span
	var elems []ast.Pattern
	for !p.at(token.RParen) && !p.atEOF() {
		elems = append(elems, p.parsePattern())
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	end := p.expect(token.RParen).Span
	t := &ast.TuplePattern{Elems: elems}
	t.Sp = spanFromTo(start, end)
	return t
}

// parsePathOrBindingOrVariantPattern parses a single identifier binding, a
// qualified multi-segment enum-variant path (possibly with tuple or struct
// fields), or a struct pattern.
func (p *Parser) parsePathOrBindingOrVariantPattern() ast.Pattern {
	start := p.cur().Span
	segs := p.parseQualifiedSegments()
	switch {
	case p.at(token.LParen):
		p.advance()
		var elems []ast.Pattern
		for !p.at(token.RParen) && !p.atEOF() {
			elems = append(elems, p.parsePattern())
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		end := p.expect(token.RParen).Span
		v := &ast.EnumVariantPattern{Path: segs, Tuple: elems}
		v.Sp = spanFromTo(start, end)
		return v
	case p.at(token.LBrace):
		fields, rest, end := p.parseStructPatternFields()
		if len(segs) > 1 || isUpper(segs[len(segs)-1]) {
			v := &ast.EnumVariantPattern{Path: segs, Fields: fields}
			v.Sp = spanFromTo(start, end)
			return v
		}
		sp := &ast.StructPattern{Type: segs, Fields: fields, Rest: rest}
		sp.Sp = spanFromTo(start, end)
		return sp
	case len(segs) == 1:
		b := &ast.BindingPattern{Name: segs[0]}
		b.Sp = start
		return b
	default:
		v := &ast.EnumVariantPattern{Path: segs}
		v.Sp = spanFromTo(start, p.prevSpan())
		return v
	}
}

func isUpper(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

func (p *Parser) parseStructPatternFields() ([]ast.StructFieldPattern, bool, token.Span) {
	p.expect(token.LBrace)
	var fields []ast.StructFieldPattern
	rest := false
	for !p.at(token.RBrace) && !p.atEOF() {
		if _, ok := p.accept(token.DotDot); ok {
			rest = true
			break
		}
		name := p.expect(token.Ident).Literal
		var pat ast.Pattern
		if _, ok := p.accept(token.Colon); ok {
			pat = p.parsePattern()
		}
		fields = append(fields, ast.StructFieldPattern{Name: name, Pattern: pat})
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	end := p.expect(token.RBrace).Span
	return fields, rest, end
}

// parseLiteralOrRangePattern parses a literal pattern, or a range pattern
// "lo..hi" / "lo..=hi" over two literal bounds.
func (p *Parser) parseLiteralOrRangePattern() ast.Pattern {
	lo := p.parsePatternLiteral()
	if p.at(token.DotDot) || p.at(token.DotDotEq) {
		inclusive := p.at(token.DotDotEq)
		p.advance()
		hi := p.parsePatternLiteral()
		r := &ast.RangePattern{Lo: lo, Hi: hi, Inclusive: inclusive}
		r.Sp = spanFromTo(lo.Span(), hi.Span())
		return r
	}
	lit := &ast.LiteralPattern{Value: lo}
	lit.Sp = lo.Span()
	return lit
}

// parsePatternLiteral parses a (possibly negated) literal expression used
// as a pattern value or range bound.
func (p *Parser) parsePatternLiteral() ast.Expr {
	if _, ok := p.accept(token.Minus); ok {
		start := p.prevSpan()
		operand := p.parsePrimary()
		e := &ast.UnaryExpr{Op: "-", Operand: operand}
		e.Sp = spanFromTo(start, operand.Span())
		return e
	}
	return p.parsePrimary()
}
