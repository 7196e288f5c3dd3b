package parser

import (
	"strconv"

	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/token"
)

// parseExpr is the entry point into the precedence chain described in
// §4.1 ("assignment, pipe, ternary, logical-or, logical-and, equality,
// relational, bitwise-or, bitwise-xor, bitwise-and, shift, additive,
// multiplicative, cast, unary, postfix"). Assignment itself is handled one
// level up in parseStmt, since the AST models it as a statement, not an
// expression node.
func (p *Parser) parseExpr() ast.Expr {
	return p.parsePipe()
}

func (p *Parser) parsePipe() ast.Expr {
	lhs := p.parseRange()
	for p.at(token.PipeArrow) {
		start := lhs.Span()
		p.advance()
		callee := p.parsePostfixBase()
		var args []ast.Expr
		if _, ok := p.accept(token.LParen); ok {
			for !p.at(token.RParen) && !p.atEOF() {
				args = append(args, p.parseExpr())
				if _, ok := p.accept(token.Comma); !ok {
					break
				}
			}
			p.expect(token.RParen)
		}
		e := &ast.PipeExpr{LHS: lhs, Callee: callee, Args: args}
		e.Sp = spanFromTo(start, p.prevSpan())
		lhs = e
	}
	return lhs
}

func (p *Parser) parseRange() ast.Expr {
	var lo ast.Expr
	if !p.at(token.DotDot) && !p.at(token.DotDotEq) {
		lo = p.parseTernary()
	}
	if !p.at(token.DotDot) && !p.at(token.DotDotEq) {
		return lo
	}
	inclusive := p.at(token.DotDotEq)
	start := p.cur().Span
	if lo != nil {
		start = lo.Span()
	}
	p.advance()
	var hi ast.Expr
	if p.canStartExpr() {
		hi = p.parseTernary()
	}
	e := &ast.RangeExpr{Lo: lo, Hi: hi, Inclusive: inclusive}
	e.Sp = spanFromTo(start, p.prevSpan())
	return e
}

// canStartExpr reports whether the current token could begin an expression,
// used to distinguish a bounded range "lo..hi" from an open one "lo..".
func (p *Parser) canStartExpr() bool {
	switch p.cur().Kind {
	case token.RParen, token.RBrace, token.RBracket, token.Comma, token.Semicolon,
		token.Terminator, token.EOF, token.FatArrow, token.LBrace:
		return false
	default:
		return true
	}
}

func (p *Parser) parseTernary() ast.Expr {
	cond := p.parseLogicalOr()
	if _, ok := p.accept(token.Question); !ok {
		return cond
	}
	then := p.parseExpr()
	p.expect(token.Colon)
	els := p.parseExpr()
	e := &ast.TernaryExpr{Cond: cond, Then: then, Else: els}
	e.Sp = spanFromTo(cond.Span(), els.Span())
	return e
}

func (p *Parser) parseLogicalOr() ast.Expr {
	lhs := p.parseLogicalAnd()
	for p.at(token.PipePipe) {
		p.advance()
		rhs := p.parseLogicalAnd()
		lhs = binExpr(lhs, "||", rhs)
	}
	return lhs
}

func (p *Parser) parseLogicalAnd() ast.Expr {
	lhs := p.parseEquality()
	for p.at(token.AmpAmp) {
		p.advance()
		rhs := p.parseEquality()
		lhs = binExpr(lhs, "&&", rhs)
	}
	return lhs
}

var equalityOps = map[token.Kind]string{token.EqEq: "==", token.NotEq: "!="}

func (p *Parser) parseEquality() ast.Expr {
	lhs := p.parseRelational()
	for {
		op, ok := equalityOps[p.cur().Kind]
		if !ok {
			return lhs
		}
		p.advance()
		lhs = binExpr(lhs, op, p.parseRelational())
	}
}

var relationalOps = map[token.Kind]string{
	token.Lt: "<", token.LtEq: "<=", token.Gt: ">", token.GtEq: ">=",
}

func (p *Parser) parseRelational() ast.Expr {
	lhs := p.parseBitOr()
	for {
		op, ok := relationalOps[p.cur().Kind]
		if !ok {
			return lhs
		}
		p.advance()
		lhs = binExpr(lhs, op, p.parseBitOr())
	}
}

func (p *Parser) parseBitOr() ast.Expr {
	lhs := p.parseBitXor()
	for p.at(token.Pipe) {
		p.advance()
		lhs = binExpr(lhs, "|", p.parseBitXor())
	}
	return lhs
}

func (p *Parser) parseBitXor() ast.Expr {
	lhs := p.parseBitAnd()
	for p.at(token.Caret) {
		p.advance()
		lhs = binExpr(lhs, "^", p.parseBitAnd())
	}
	return lhs
}

func (p *Parser) parseBitAnd() ast.Expr {
	lhs := p.parseShift()
	for p.at(token.Amp) {
		p.advance()
		lhs = binExpr(lhs, "&", p.parseShift())
	}
	return lhs
}

var shiftOps = map[token.Kind]string{token.Shl: "<<", token.Shr: ">>"}

func (p *Parser) parseShift() ast.Expr {
	lhs := p.parseAdditive()
	for {
		op, ok := shiftOps[p.cur().Kind]
		if !ok {
			return lhs
		}
		p.advance()
		lhs = binExpr(lhs, op, p.parseAdditive())
	}
}

var additiveOps = map[token.Kind]string{token.Plus: "+", token.Minus: "-"}

func (p *Parser) parseAdditive() ast.Expr {
	lhs := p.parseMultiplicative()
	for {
		op, ok := additiveOps[p.cur().Kind]
		if !ok {
			return lhs
		}
		p.advance()
		lhs = binExpr(lhs, op, p.parseMultiplicative())
	}
}

var multiplicativeOps = map[token.Kind]string{token.Star: "*", token.Slash: "/", token.Percent: "%"}

func (p *Parser) parseMultiplicative() ast.Expr {
	lhs := p.parseCast()
	for {
		op, ok := multiplicativeOps[p.cur().Kind]
		if !ok {
			return lhs
		}
		p.advance()
		lhs = binExpr(lhs, op, p.parseCast())
	}
}

func (p *Parser) parseCast() ast.Expr {
	x := p.parseUnary()
	for p.at(token.As) {
		p.advance()
		typ := p.parseType()
		e := &ast.CastExpr{X: x, Type: typ}
		e.Sp = spanFromTo(x.Span(), typ.Span())
		x = e
	}
	return x
}

func binExpr(lhs ast.Expr, op string, rhs ast.Expr) *ast.BinaryExpr {
	e := &ast.BinaryExpr{Op: op, LHS: lhs, RHS: rhs}
	e.Sp = spanFromTo(lhs.Span(), rhs.Span())
	return e
}

var unaryOps = map[token.Kind]string{token.Minus: "-", token.Bang: "!", token.Tilde: "~"}

func (p *Parser) parseUnary() ast.Expr {
	start := p.cur().Span
	if op, ok := unaryOps[p.cur().Kind]; ok {
		p.advance()
		operand := p.parseUnary()
		e := &ast.UnaryExpr{Op: op, Operand: operand}
		e.Sp = spanFromTo(start, operand.Span())
		return e
	}
	if p.at(token.Amp) {
		p.advance()
		op := "&"
		if _, ok := p.accept(token.Mut); ok {
			op = "&mut"
		}
		operand := p.parseUnary()
		e := &ast.UnaryExpr{Op: op, Operand: operand}
		e.Sp = spanFromTo(start, operand.Span())
		return e
	}
	return p.parsePostfixBase()
}

// parsePostfixBase parses a primary expression followed by any chain of
// postfix operators (call, index, field access, '?', '.await').
func (p *Parser) parsePostfixBase() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case token.LParen:
			p.advance()
			var args []ast.Expr
			for !p.at(token.RParen) && !p.atEOF() {
				args = append(args, p.parseExpr())
				if _, ok := p.accept(token.Comma); !ok {
					break
				}
			}
			end := p.expect(token.RParen).Span
			e := &ast.CallExpr{Callee: x, Args: args}
			e.Sp = spanFromTo(x.Span(), end)
			x = e
		case token.LBracket:
			p.advance()
			idx := p.parseExpr()
			end := p.expect(token.RBracket).Span
			e := &ast.IndexExpr{Target: x, Index: idx}
			e.Sp = spanFromTo(x.Span(), end)
			x = e
		case token.Dot:
			p.advance()
			if _, ok := p.accept(token.Await); ok {
				e := &ast.AwaitExpr{X: x}
				e.Sp = spanFromTo(x.Span(), p.prevSpan())
				x = e
				continue
			}
			var name string
			if tok, ok := p.accept(token.Int); ok {
				name = tok.Literal
			} else {
				name = p.expect(token.Ident).Literal
			}
			if p.at(token.LParen) {
				p.advance()
				var generics []ast.Type
				var args []ast.Expr
				for !p.at(token.RParen) && !p.atEOF() {
					args = append(args, p.parseExpr())
					if _, ok := p.accept(token.Comma); !ok {
						break
					}
				}
				end := p.expect(token.RParen).Span
				e := &ast.MethodCallExpr{Receiver: x, Method: name, Generics: generics, Args: args}
				e.Sp = spanFromTo(x.Span(), end)
				x = e
			} else {
				e := &ast.FieldAccess{Target: x, Name: name}
				e.Sp = spanFromTo(x.Span(), p.prevSpan())
				x = e
			}
		case token.Question:
			// '?' followed by an operand is the ternary operator, left for
			// parseTernary; otherwise it is the try postfix.
			switch p.peekAt(1).Kind {
			case token.Ident, token.Int, token.Float, token.String, token.Char,
				token.True, token.False, token.SelfValue, token.Bang, token.LParen:
				return x
			}
			p.advance()
			e := &ast.TryExpr{X: x}
			e.Sp = spanFromTo(x.Span(), p.prevSpan())
			x = e
		default:
			return x
		}
	}
}

func (p *Parser) prevSpan() token.Span {
	if p.pos == 0 {
		return p.cur().Span
	}
	return p.toks[p.pos-1].Span
}

// parsePrimary parses a literal, identifier/path, parenthesized/tuple
// expression, array literal, struct literal, block, if/match/loop
// expression, or closure.
func (p *Parser) parsePrimary() ast.Expr {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.Int:
		tok := p.advance()
		v, _ := strconv.ParseUint(normalizeIntLiteral(tok.Literal, tok.Base), baseOf(tok.Base), 64)
		e := &ast.IntLit{Value: v, Base: tok.Base, Raw: tok.Literal}
		e.Sp = tok.Span
		return e
	case token.Float:
		tok := p.advance()
		v, _ := strconv.ParseFloat(tok.Literal, 64)
		e := &ast.FloatLit{Value: v, Raw: tok.Literal}
		e.Sp = tok.Span
		return e
	case token.String:
		tok := p.advance()
		e := &ast.StringLit{Segments: p.lowerStringSegments(tok.Segments)}
		e.Sp = tok.Span
		return e
	case token.Char:
		tok := p.advance()
		r := rune(0)
		for _, c := range tok.Literal {
			r = c
			break
		}
		e := &ast.CharLit{Value: r}
		e.Sp = tok.Span
		return e
	case token.True, token.False:
		tok := p.advance()
		e := &ast.BoolLit{Value: tok.Kind == token.True}
		e.Sp = tok.Span
		return e
	case token.SelfValue:
		tok := p.advance()
		e := &ast.Ident{Name: "self"}
		e.Sp = tok.Span
		return e
	case token.Pipe, token.PipePipe:
		return p.parseClosure()
	case token.LParen:
		return p.parseParenOrTuple()
	case token.LBracket:
		return p.parseArrayLit()
	case token.LBrace:
		blk := p.parseBlock()
		e := &ast.BlockExpr{Block: blk}
		e.Sp = blk.Sp
		return e
	case token.If:
		return p.parseIf()
	case token.Match:
		return p.parseMatch()
	case token.Loop:
		p.advance()
		body := p.parseBlock()
		e := &ast.LoopExpr{Body: body}
		e.Sp = spanFromTo(start, body.Sp)
		return e
	case token.Ident, token.SelfType:
		return p.parseIdentOrPathOrStructLit()
	default:
		p.errorf(p.cur().Span, "unexpected token %s in expression", p.cur().Kind)
		tok := p.advance()
		e := &ast.Ident{Name: "<error>"}
		e.Sp = tok.Span
		return e
	}
}

func baseOf(b token.NumberBase) int {
	switch b {
	case token.Hex:
		return 16
	case token.Binary:
		return 2
	case token.Octal:
		return 8
	default:
		return 10
	}
}

// normalizeIntLiteral strips the base prefix and underscore separators the
// lexer preserved verbatim in Raw, leaving the bare digits strconv expects.
func normalizeIntLiteral(raw string, base token.NumberBase) string {
	s := raw
	switch base {
	case token.Hex, token.Binary, token.Octal:
		if len(s) > 2 {
			s = s[2:]
		}
	}
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// lowerStringSegments converts lexer-level token.StringSegment (raw nested
// token streams for interpolation holes) into ast-level StringSegment
// (parsed Exprs), recursively parsing each hole (§4.1 "nested tokenization").
func (p *Parser) lowerStringSegments(segs []token.StringSegment) []ast.StringSegment {
	out := make([]ast.StringSegment, 0, len(segs))
	for _, s := range segs {
		if s.Expr == nil {
			out = append(out, ast.StringSegment{Text: s.Text})
			continue
		}
		sub := New(p.unit, s.Expr)
		expr := sub.parseExpr()
		p.errs = append(p.errs, sub.errs...)
		out = append(out, ast.StringSegment{Expr: expr})
	}
	return out
}

func (p *Parser) parseParenOrTuple() ast.Expr {
	start := p.expect(token.LParen).Span
	if _, ok := p.accept(token.RParen); ok {
		e := &ast.TupleExpr{}
		e.Sp = spanFromTo(start, p.prevSpan())
		return e
	}
	first := p.parseExpr()
	if !p.at(token.Comma) {
		p.expect(token.RParen)
		return first
	}
	elems := []ast.Expr{first}
	for {
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
		if p.at(token.RParen) {
			break
		}
		elems = append(elems, p.parseExpr())
	}
	end := p.expect(token.RParen).Span
	e := &ast.TupleExpr{Elems: elems}
	e.Sp = spanFromTo(start, end)
	return e
}

func (p *Parser) parseArrayLit() ast.Expr {
	start := p.expect(token.LBracket).Span
	if p.at(token.RBracket) {
		end := p.advance().Span
		e := &ast.ArrayExpr{}
		e.Sp = spanFromTo(start, end)
		return e
	}
	first := p.parseExpr()
	if _, ok := p.accept(token.Semicolon); ok {
		count := p.parseExpr()
		end := p.expect(token.RBracket).Span
		e := &ast.ArrayExpr{Value: first, Count: count}
		e.Sp = spanFromTo(start, end)
		return e
	}
	elems := []ast.Expr{first}
	for {
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
		if p.at(token.RBracket) {
			break
		}
		elems = append(elems, p.parseExpr())
	}
	end := p.expect(token.RBracket).Span
	e := &ast.ArrayExpr{Elems: elems}
	e.Sp = spanFromTo(start, end)
	return e
}

func (p *Parser) parseIf() ast.Expr {
	start := p.expect(token.If).Span
	p.noStructLit++
	cond := p.parseExpr()
	p.noStructLit--
	then := p.parseBlock()
	e := &ast.IfExpr{Cond: cond, Then: then}
	if _, ok := p.accept(token.Else); ok {
		if p.at(token.If) {
			e.Else = p.parseIf()
		} else {
			blk := p.parseBlock()
			be := &ast.BlockExpr{Block: blk}
			be.Sp = blk.Sp
			e.Else = be
		}
	}
	if e.Else != nil {
		e.Sp = spanFromTo(start, e.Else.Span())
	} else {
		e.Sp = spanFromTo(start, then.Sp)
	}
	return e
}

func (p *Parser) parseMatch() ast.Expr {
	start := p.expect(token.Match).Span
	p.noStructLit++
	scrutinee := p.parseExpr()
	p.noStructLit--
	p.expect(token.LBrace)
	var arms []ast.MatchArm
	for !p.at(token.RBrace) && !p.atEOF() {
		aStart := p.cur().Span
		pat := p.parsePattern()
		for p.at(token.Pipe) {
			p.advance()
			rhs := p.parsePattern()
			if or, ok := pat.(*ast.OrPattern); ok {
				or.Alternatives = append(or.Alternatives, rhs)
			} else {
				np := &ast.OrPattern{Alternatives: []ast.Pattern{pat, rhs}}
				np.Sp = spanFromTo(pat.Span(), rhs.Span())
				pat = np
			}
		}
		var guard ast.Expr
		if _, ok := p.accept(token.If); ok {
			guard = p.parseExpr()
		}
		p.expect(token.FatArrow)
		body := p.parseExpr()
		arms = append(arms, ast.MatchArm{Pattern: pat, Guard: guard, Body: body, Sp: spanFromTo(aStart, body.Span())})
		if _, ok := p.accept(token.Comma); !ok {
			p.skipTerminators()
		}
	}
	end := p.expect(token.RBrace).Span
	e := &ast.MatchExpr{Scrutinee: scrutinee, Arms: arms}
	e.Sp = spanFromTo(start, end)
	return e
}

func (p *Parser) parseClosure() ast.Expr {
	start := p.cur().Span
	var params []ast.ClosureParam
	if _, ok := p.accept(token.PipePipe); ok {
		// no params, '||' lexed as one token
	} else {
		p.expect(token.Pipe)
		for !p.at(token.Pipe) && !p.atEOF() {
			name := p.expect(token.Ident).Literal
			var typ ast.Type
			if _, ok := p.accept(token.Colon); ok {
				typ = p.parseType()
			}
			params = append(params, ast.ClosureParam{Name: name, Type: typ})
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		p.expect(token.Pipe)
	}
	body := p.parseExpr()
	e := &ast.ClosureExpr{Params: params, Body: body}
	e.Sp = spanFromTo(start, body.Span())
	return e
}

// parseIdentOrPathOrStructLit parses a (possibly qualified, possibly
// generic) identifier/path, then checks for a following struct-literal
// brace unless the parser is inside a struct-lit-suppressing context
// (if/while/for/match condition position).
func (p *Parser) parseIdentOrPathOrStructLit() ast.Expr {
	start := p.cur().Span
	segs := p.parseQualifiedSegments()
	var generics []ast.Type
	if p.at(token.ColonColon) && p.peekAt(1).Kind == token.Lt {
		p.advance()
		generics = p.parseGenericArgs()
	}
	end := p.prevSpan()
	var base ast.Expr
	if len(segs) == 1 && generics == nil {
		e := &ast.Ident{Name: segs[0]}
		e.Sp = start
		base = e
	} else {
		e := &ast.Path{Segments: segs, Generics: generics}
		e.Sp = spanFromTo(start, end)
		base = e
	}
	if p.noStructLit == 0 && p.at(token.LBrace) && p.looksLikeStructLitBody() {
		return p.parseStructLitBody(base, segs)
	}
	return base
}

// looksLikeStructLitBody peeks past '{' to check for "ident :" / "ident ,"
// / "ident }" / ".." so a following block (e.g. an if-body or standalone
// block) is never misparsed as a struct literal.
func (p *Parser) looksLikeStructLitBody() bool {
	if p.peekAt(1).Kind == token.RBrace {
		return true
	}
	if p.peekAt(1).Kind == token.DotDot {
		return true
	}
	if p.peekAt(1).Kind == token.Ident &&
		(p.peekAt(2).Kind == token.Colon || p.peekAt(2).Kind == token.Comma || p.peekAt(2).Kind == token.RBrace) {
		return true
	}
	return false
}

func (p *Parser) parseStructLitBody(base ast.Expr, segs []string) ast.Expr {
	start := base.Span()
	p.expect(token.LBrace)
	var fields []ast.StructFieldInit
	var spread ast.Expr
	for !p.at(token.RBrace) && !p.atEOF() {
		if _, ok := p.accept(token.DotDot); ok {
			spread = p.parseExpr()
			break
		}
		name := p.expect(token.Ident).Literal
		var value ast.Expr
		if _, ok := p.accept(token.Colon); ok {
			value = p.parseExpr()
		}
		fields = append(fields, ast.StructFieldInit{Name: name, Value: value})
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	end := p.expect(token.RBrace).Span
	typ := &ast.NamedType{Segments: segs}
	typ.Sp = start
	e := &ast.StructLit{Type: typ, Fields: fields, Spread: spread}
	e.Sp = spanFromTo(start, end)
	return e
}

// parseGenericArgs parses "<T1, T2, ...>" turbofish generic arguments.
func (p *Parser) parseGenericArgs() []ast.Type {
	p.expect(token.Lt)
	var args []ast.Type
	for !p.at(token.Gt) && !p.atEOF() {
		args = append(args, p.parseType())
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.Gt)
	return args
}
