package parser

import (
	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/token"
)

// parseType parses a type-position node: named/qualified-named with
// generics, tuple, sized-array/slice, function, reference, the builtin
// '?'/Result sugar, impl-trait, dyn-trait, or Self (§3, §4.1).
func (p *Parser) parseType() ast.Type {
	base := p.parseTypePrimary()
	for {
		if _, ok := p.accept(token.Question); ok {
			o := &ast.OptionType{Elem: base}
			o.Sp = spanFromTo(base.Span(), p.prevSpan())
			base = o
			continue
		}
		break
	}
	return base
}

func (p *Parser) parseTypePrimary() ast.Type {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.LParen:
		p.advance()
		var elems []ast.Type
		for !p.at(token.RParen) && !p.atEOF() {
			elems = append(elems, p.parseType())
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		end := p.expect(token.RParen).Span
		if len(elems) == 1 {
			return elems[0]
		}
		t := &ast.TupleType{Elems: elems}
		t.Sp = spanFromTo(start, end)
		return t
	case token.LBracket:
		p.advance()
		elem := p.parseType()
		var size ast.Expr
		if _, ok := p.accept(token.Semicolon); ok {
			size = p.parseExpr()
		}
		end := p.expect(token.RBracket).Span
		t := &ast.ArrayType{Elem: elem, Size: size}
		t.Sp = spanFromTo(start, end)
		return t
	case token.Fn:
		p.advance()
		p.expect(token.LParen)
		var params []ast.Type
		for !p.at(token.RParen) && !p.atEOF() {
			params = append(params, p.parseType())
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		end := p.expect(token.RParen).Span
		t := &ast.FuncType{Params: params}
		if _, ok := p.accept(token.Arrow); ok {
			t.Return = p.parseType()
			end = t.Return.Span()
		}
		t.Sp = spanFromTo(start, end)
		return t
	case token.Amp:
		p.advance()
		mut := false
		if _, ok := p.accept(token.Mut); ok {
			mut = true
		}
		elem := p.parseTypePrimary()
		t := &ast.RefType{Mut: mut, Elem: elem}
		t.Sp = spanFromTo(start, elem.Span())
		return t
	case token.Ident:
		return p.parseNamedOrSugarType()
	case token.SelfType:
		p.advance()
		t := &ast.SelfType{}
		t.Sp = start
		return t
	default:
		// 'impl' and 'dyn' are contextual keywords lexed as plain
		// identifiers; parseNamedOrSugarType below branches on their text.
		return p.parseNamedOrSugarType()
	}
}

func (p *Parser) parseNamedOrSugarType() ast.Type {
	start := p.cur().Span
	if p.at(token.Ident) && p.cur().Literal == "impl" {
		p.advance()
		bounds := p.parseBoundList()
		t := &ast.ImplTraitType{Bounds: bounds}
		t.Sp = spanFromTo(start, p.prevSpan())
		return t
	}
	if p.at(token.Ident) && p.cur().Literal == "dyn" {
		p.advance()
		bounds := p.parseBoundList()
		t := &ast.DynTraitType{Bounds: bounds}
		t.Sp = spanFromTo(start, p.prevSpan())
		return t
	}
	segs := p.parseQualifiedSegments()
	if len(segs) == 1 {
		switch segs[0] {
		case "Option":
			if p.at(token.Lt) {
				p.advance()
				elem := p.parseType()
				end := p.expect(token.Gt).Span
				t := &ast.OptionType{Elem: elem}
				t.Sp = spanFromTo(start, end)
				return t
			}
		case "Result":
			if p.at(token.Lt) {
				p.advance()
				ok := p.parseType()
				var errT ast.Type
				if _, has := p.accept(token.Comma); has {
					errT = p.parseType()
				}
				end := p.expect(token.Gt).Span
				t := &ast.ResultType{Ok: ok, Err: errT}
				t.Sp = spanFromTo(start, end)
				return t
			}
		}
	}
	var generics []ast.Type
	end := p.prevSpan()
	if _, ok := p.accept(token.Lt); ok {
		for !p.at(token.Gt) && !p.atEOF() {
			generics = append(generics, p.parseType())
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		end = p.expect(token.Gt).Span
	}
	t := &ast.NamedType{Segments: segs, Generics: generics}
	t.Sp = spanFromTo(start, end)
	return t
}

// parseBoundList parses "Trait1 + Trait2 + ..." for impl/dyn trait types.
func (p *Parser) parseBoundList() []ast.Type {
	bounds := []ast.Type{p.parseType()}
	for {
		if _, ok := p.accept(token.Plus); !ok {
			break
		}
		bounds = append(bounds, p.parseType())
	}
	return bounds
}
