package parser

import (
	"strconv"

	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/token"
)

// parseItem parses one top-level or mod-level item, recovering at the next
// item boundary on error (§4.1 "Failures").
func (p *Parser) parseItem() ast.Item {
	start := p.cur().Span
	attrs := p.parseAttributes()
	pub := false
	if _, ok := p.accept(token.Pub); ok {
		pub = true
	}

	var item ast.Item
	switch p.cur().Kind {
	case token.Fn:
		item = p.parseFunc()
	case token.Struct:
		item = p.parseStruct()
	case token.Enum:
		item = p.parseEnum()
	case token.Trait:
		item = p.parseTrait()
	case token.Impl:
		item = p.parseImpl()
	case token.Mod:
		item = p.parseMod()
	case token.Use:
		item = p.parseUse()
	case token.Type:
		item = p.parseTypeAlias()
	case token.Const:
		item = p.parseConst()
	default:
		p.errorf(p.cur().Span, "expected item, found %s", p.cur().Kind)
		p.synchronize()
		return nil
	}

	switch it := item.(type) {
	case *ast.FuncItem:
		it.Attrs, it.Pub, it.Sp = attrs, pub, spanFromTo(start, it.Sp)
	case *ast.StructItem:
		it.Attrs, it.Pub, it.Sp = attrs, pub, spanFromTo(start, it.Sp)
	case *ast.EnumItem:
		it.Attrs, it.Pub, it.Sp = attrs, pub, spanFromTo(start, it.Sp)
	case *ast.TraitItem:
		it.Attrs, it.Pub, it.Sp = attrs, pub, spanFromTo(start, it.Sp)
	case *ast.ImplItem:
		it.Attrs, it.Pub, it.Sp = attrs, pub, spanFromTo(start, it.Sp)
	case *ast.ModItem:
		it.Attrs, it.Pub, it.Sp = attrs, pub, spanFromTo(start, it.Sp)
	case *ast.UseItem:
		it.Attrs, it.Pub, it.Sp = attrs, pub, spanFromTo(start, it.Sp)
	case *ast.TypeAliasItem:
		it.Attrs, it.Pub, it.Sp = attrs, pub, spanFromTo(start, it.Sp)
	case *ast.ConstItem:
		it.Attrs, it.Pub, it.Sp = attrs, pub, spanFromTo(start, it.Sp)
	}
	p.skipTerminators()
	return item
}

// parseAttributes parses zero or more "@name" / "@name(args...)" decorators
// attached to the following item (§4.1 "Decorators").
func (p *Parser) parseAttributes() []*ast.Attribute {
	var attrs []*ast.Attribute
	for p.at(token.At) {
		start := p.advance().Span
		name := p.expect(token.Ident).Literal
		var args []ast.Expr
		if _, ok := p.accept(token.LParen); ok {
			for !p.at(token.RParen) && !p.atEOF() {
				args = append(args, p.parseExpr())
				if _, ok := p.accept(token.Comma); !ok {
					break
				}
			}
			end := p.expect(token.RParen).Span
			attrs = append(attrs, &ast.Attribute{Name: name, Args: args, Sp: spanFromTo(start, end)})
		} else {
			attrs = append(attrs, &ast.Attribute{Name: name, Sp: start})
		}
		p.skipTerminators()
	}
	return attrs
}

// parseTypeParams parses "<A: Bound1 + Bound2, B>".
func (p *Parser) parseTypeParams() []ast.TypeParam {
	if _, ok := p.accept(token.Lt); !ok {
		return nil
	}
	var params []ast.TypeParam
	for !p.at(token.Gt) && !p.atEOF() {
		name := p.expect(token.Ident).Literal
		var bounds []ast.Type
		if _, ok := p.accept(token.Colon); ok {
			bounds = append(bounds, p.parseType())
			for {
				if _, ok := p.accept(token.Plus); !ok {
					break
				}
				bounds = append(bounds, p.parseType())
			}
		}
		params = append(params, ast.TypeParam{Name: name, Bounds: bounds})
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.Gt)
	return params
}

func (p *Parser) parseQualifiedSegments() []string {
	segs := []string{p.expect(token.Ident).Literal}
	for p.at(token.ColonColon) {
		// Disambiguate "::<" generic turbofish from a further path segment.
		if p.peekAt(1).Kind == token.Lt {
			break
		}
		p.advance()
		segs = append(segs, p.expect(token.Ident).Literal)
	}
	return segs
}

func (p *Parser) parseFunc() *ast.FuncItem {
	f := &ast.FuncItem{}
	p.expect(token.Fn)
	f.Name = p.expect(token.Ident).Literal
	f.TypeParams = p.parseTypeParams()
	p.expect(token.LParen)

	hasReceiver := p.at(token.SelfValue) ||
		(p.at(token.Amp) && (p.peekAt(1).Kind == token.SelfValue ||
			(p.peekAt(1).Kind == token.Mut && p.peekAt(2).Kind == token.SelfValue)))
	moreParams := true
	if hasReceiver {
		recvStart := p.cur().Span
		p.accept(token.Amp)
		p.accept(token.Mut)
		p.expect(token.SelfValue)
		recv := ast.Param{Name: "self", Sp: recvStart}
		f.Receiver = &recv
		_, moreParams = p.accept(token.Comma)
	}
	if moreParams {
		for !p.at(token.RParen) && !p.atEOF() {
			name := p.expect(token.Ident).Literal
			p.expect(token.Colon)
			typ := p.parseType()
			f.Params = append(f.Params, ast.Param{Name: name, Type: typ, Sp: typ.Span()})
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
	}
	p.expect(token.RParen)
	if _, ok := p.accept(token.Arrow); ok {
		f.Return = p.parseType()
	}
	f.Body = p.parseBlock()
	f.Sp = f.Body.Sp
	return f
}

func (p *Parser) parseFields(terminator token.Kind) ([]ast.Field, bool) {
	tuple := p.at(token.LParen)
	open := token.LBrace
	if tuple {
		open = token.LParen
		terminator = token.RParen
	}
	p.expect(open)
	var fields []ast.Field
	idx := 0
	for !p.at(terminator) && !p.atEOF() {
		var name string
		var typ ast.Type
		if tuple {
			name = strconv.Itoa(idx)
			typ = p.parseType()
			idx++
		} else {
			name = p.expect(token.Ident).Literal
			p.expect(token.Colon)
			typ = p.parseType()
		}
		fields = append(fields, ast.Field{Name: name, Type: typ, Sp: typ.Span()})
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(terminator)
	return fields, tuple
}

func (p *Parser) parseStruct() *ast.StructItem {
	s := &ast.StructItem{}
	start := p.expect(token.Struct).Span
	s.Name = p.expect(token.Ident).Literal
	s.TypeParams = p.parseTypeParams()
	if p.at(token.Semicolon) || p.at(token.Terminator) || p.atEOF() {
		s.Sp = start
		return s
	}
	fields, tuple := p.parseFields(token.RBrace)
	s.Fields, s.Tuple = fields, tuple
	s.Sp = spanFromTo(start, p.prevSpan())
	return s
}

func (p *Parser) parseEnum() *ast.EnumItem {
	e := &ast.EnumItem{}
	start := p.expect(token.Enum).Span
	e.Name = p.expect(token.Ident).Literal
	e.TypeParams = p.parseTypeParams()
	p.expect(token.LBrace)
	for !p.at(token.RBrace) && !p.atEOF() {
		vStart := p.cur().Span
		name := p.expect(token.Ident).Literal
		v := ast.Variant{Name: name, Sp: vStart}
		if p.at(token.LParen) || p.at(token.LBrace) {
			v.Fields, v.Tuple = p.parseFields(token.RBrace)
		}
		e.Variants = append(e.Variants, v)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	end := p.expect(token.RBrace).Span
	e.Sp = spanFromTo(start, end)
	return e
}

func (p *Parser) parseTrait() *ast.TraitItem {
	t := &ast.TraitItem{}
	start := p.expect(token.Trait).Span
	t.Name = p.expect(token.Ident).Literal
	p.parseTypeParams()
	p.expect(token.LBrace)
	for !p.at(token.RBrace) && !p.atEOF() {
		p.skipTerminators()
		if p.at(token.RBrace) {
			break
		}
		p.parseAttributes()
		t.Methods = append(t.Methods, p.parseFunc())
		p.skipTerminators()
	}
	end := p.expect(token.RBrace).Span
	t.Sp = spanFromTo(start, end)
	return t
}

func (p *Parser) parseImpl() *ast.ImplItem {
	i := &ast.ImplItem{}
	start := p.expect(token.Impl).Span
	i.TypeParams = p.parseTypeParams()
	first := p.parseType()
	if _, ok := p.accept(token.For); ok {
		i.Trait = first
		i.Type = p.parseType()
	} else {
		i.Type = first
	}
	p.expect(token.LBrace)
	for !p.at(token.RBrace) && !p.atEOF() {
		p.skipTerminators()
		if p.at(token.RBrace) {
			break
		}
		p.parseAttributes()
		i.Methods = append(i.Methods, p.parseFunc())
		p.skipTerminators()
	}
	end := p.expect(token.RBrace).Span
	i.Sp = spanFromTo(start, end)
	return i
}

func (p *Parser) parseMod() *ast.ModItem {
	m := &ast.ModItem{}
	start := p.expect(token.Mod).Span
	m.Name = p.expect(token.Ident).Literal
	p.expect(token.LBrace)
	for !p.at(token.RBrace) && !p.atEOF() {
		p.skipTerminators()
		if p.at(token.RBrace) {
			break
		}
		it := p.parseItem()
		if it != nil {
			m.Items = append(m.Items, it)
		}
	}
	end := p.expect(token.RBrace).Span
	m.Sp = spanFromTo(start, end)
	return m
}

// parseUse parses "use [./|../] path::segs [as alias | :: { group } | :: *]",
// accepting relative forms per §4.1.
func (p *Parser) parseUse() *ast.UseItem {
	u := &ast.UseItem{}
	start := p.expect(token.Use).Span
	// Relative path markers lex as Dot/DotDot followed by Slash; treat
	// leading "./" or "../" as a relative-path prefix rather than an error.
	if p.at(token.Dot) || p.at(token.DotDot) {
		u.Relative = true
		p.advance()
		p.accept(token.Slash)
	}
	u.Segments = append(u.Segments, p.expect(token.Ident).Literal)
	for p.at(token.ColonColon) {
		p.advance()
		if _, ok := p.accept(token.Star); ok {
			u.Glob = true
			break
		}
		if _, ok := p.accept(token.LBrace); ok {
			for !p.at(token.RBrace) && !p.atEOF() {
				name := p.expect(token.Ident).Literal
				alias := ""
				if _, ok := p.accept(token.As); ok {
					alias = p.expect(token.Ident).Literal
				}
				u.Group = append(u.Group, ast.UseGroupEntry{Name: name, Alias: alias})
				if _, ok := p.accept(token.Comma); !ok {
					break
				}
			}
			p.expect(token.RBrace)
			break
		}
		u.Segments = append(u.Segments, p.expect(token.Ident).Literal)
	}
	if _, ok := p.accept(token.As); ok {
		u.Alias = p.expect(token.Ident).Literal
	}
	u.Sp = spanFromTo(start, p.prevSpan())
	return u
}

func (p *Parser) parseTypeAlias() *ast.TypeAliasItem {
	t := &ast.TypeAliasItem{}
	start := p.expect(token.Type).Span
	t.Name = p.expect(token.Ident).Literal
	t.TypeParams = p.parseTypeParams()
	p.expect(token.Eq)
	t.RHS = p.parseType()
	t.Sp = spanFromTo(start, t.RHS.Span())
	return t
}

func (p *Parser) parseConst() *ast.ConstItem {
	c := &ast.ConstItem{}
	start := p.expect(token.Const).Span
	c.Name = p.expect(token.Ident).Literal
	p.expect(token.Colon)
	c.Type = p.parseType()
	p.expect(token.Eq)
	c.Value = p.parseExpr()
	c.Sp = spanFromTo(start, c.Value.Span())
	return c
}
