package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/lexer"
	"github.com/oxhq/windjammer/internal/token"
)

func parseSrc(t *testing.T, src string) *ast.File {
	t.Helper()
	toks := lexer.New("t.wj", src).Tokenize()
	file, errs := Parse("t.wj", toks)
	require.Empty(t, errs, "unexpected parse errors: %v", errs)
	return file
}

func TestParseFuncWithParamsAndReturn(t *testing.T) {
	file := parseSrc(t, `fn add(a: i32, b: i32) -> i32 { a + b }`)
	require.Len(t, file.Items, 1)
	fn, ok := file.Items[0].(*ast.FuncItem)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	require.NotNil(t, fn.Return)
	require.NotNil(t, fn.Body.Tail)
	bin, ok := fn.Body.Tail.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
}

func TestParseMethodWithSelfReceiver(t *testing.T) {
	file := parseSrc(t, `
		impl Widget {
			fn name(&self) -> string { self.name }
			fn grow(&mut self, by: i32) { self.size += by }
		}
	`)
	require.Len(t, file.Items, 1)
	impl, ok := file.Items[0].(*ast.ImplItem)
	require.True(t, ok)
	require.Len(t, impl.Methods, 2)
	require.NotNil(t, impl.Methods[0].Receiver)
	require.NotNil(t, impl.Methods[1].Receiver)
}

func TestParseStructTupleAndNamed(t *testing.T) {
	file := parseSrc(t, `
		struct Point { x: i32, y: i32 }
		struct Pair(i32, i32)
	`)
	require.Len(t, file.Items, 2)
	named := file.Items[0].(*ast.StructItem)
	assert.False(t, named.Tuple)
	require.Len(t, named.Fields, 2)
	assert.Equal(t, "x", named.Fields[0].Name)

	tuple := file.Items[1].(*ast.StructItem)
	assert.True(t, tuple.Tuple)
	require.Len(t, tuple.Fields, 2)
	assert.Equal(t, "0", tuple.Fields[0].Name)
}

func TestParseEnumWithVariantFields(t *testing.T) {
	file := parseSrc(t, `
		enum Shape {
			Circle(f64),
			Rect { w: f64, h: f64 },
			Point,
		}
	`)
	e := file.Items[0].(*ast.EnumItem)
	require.Len(t, e.Variants, 3)
	assert.True(t, e.Variants[0].Tuple)
	assert.False(t, e.Variants[1].Tuple)
	assert.Empty(t, e.Variants[2].Fields)
}

// Qualified multi-segment enum-variant patterns must parse in match arms,
// covering the qualified-path-in-pattern scenario.
func TestParseQualifiedEnumVariantPattern(t *testing.T) {
	file := parseSrc(t, `
		fn describe(s: shapes::Shape) -> string {
			match s {
				shapes::Shape::Circle(r) => "circle",
				shapes::Shape::Rect { w, h } => "rect",
				_ => "other",
			}
		}
	`)
	fn := file.Items[0].(*ast.FuncItem)
	match := fn.Body.Tail.(*ast.MatchExpr)
	require.Len(t, match.Arms, 3)

	v0, ok := match.Arms[0].Pattern.(*ast.EnumVariantPattern)
	require.True(t, ok)
	assert.Equal(t, []string{"shapes", "Shape", "Circle"}, v0.Path)
	require.Len(t, v0.Tuple, 1)

	v1, ok := match.Arms[1].Pattern.(*ast.EnumVariantPattern)
	require.True(t, ok)
	assert.Equal(t, []string{"shapes", "Shape", "Rect"}, v1.Path)
	require.Len(t, v1.Fields, 2)

	_, ok = match.Arms[2].Pattern.(*ast.WildcardPattern)
	assert.True(t, ok)
}

func TestParseUseVariants(t *testing.T) {
	file := parseSrc(t, `
		use std::collections::HashMap
		use ./sibling::helper as h
		use std::io::{Read, Write as W}
		use std::prelude::*
	`)
	require.Len(t, file.Items, 4)

	u0 := file.Items[0].(*ast.UseItem)
	assert.Equal(t, []string{"std", "collections", "HashMap"}, u0.Segments)

	u1 := file.Items[1].(*ast.UseItem)
	assert.True(t, u1.Relative)
	assert.Equal(t, "h", u1.Alias)

	u2 := file.Items[2].(*ast.UseItem)
	require.Len(t, u2.Group, 2)
	assert.Equal(t, "W", u2.Group[1].Alias)

	u3 := file.Items[3].(*ast.UseItem)
	assert.True(t, u3.Glob)
}

func TestParsePrecedenceClimbing(t *testing.T) {
	file := parseSrc(t, `fn f() -> i32 { 1 + 2 * 3 == 7 && true }`)
	fn := file.Items[0].(*ast.FuncItem)
	top, ok := fn.Body.Tail.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "&&", top.Op)

	eq, ok := top.LHS.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "==", eq.Op)

	add, ok := eq.LHS.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", add.Op)

	mul, ok := add.RHS.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)
}

func TestParseTernaryAndPipeSugar(t *testing.T) {
	file := parseSrc(t, `
		fn f(x: i32) -> i32 {
			x |> double |> inc
		}
		fn g(x: i32) -> string {
			x > 0 ? "pos" : "nonpos"
		}
	`)
	f := file.Items[0].(*ast.FuncItem)
	pipe, ok := f.Body.Tail.(*ast.PipeExpr)
	require.True(t, ok)
	inner, ok := pipe.LHS.(*ast.PipeExpr)
	require.True(t, ok)
	assert.IsType(t, &ast.Ident{}, inner.LHS)

	g := file.Items[1].(*ast.FuncItem)
	tern, ok := g.Body.Tail.(*ast.TernaryExpr)
	require.True(t, ok)
	assert.NotNil(t, tern.Cond)
}

func TestParseIfDoesNotMisparseBodyAsStructLit(t *testing.T) {
	file := parseSrc(t, `
		fn f(flag: bool) -> i32 {
			if flag {
				1
			} else {
				2
			}
		}
	`)
	fn := file.Items[0].(*ast.FuncItem)
	ifExpr, ok := fn.Body.Tail.(*ast.IfExpr)
	require.True(t, ok)
	assert.IsType(t, &ast.Ident{}, ifExpr.Cond)
	assert.NotNil(t, ifExpr.Then.Tail)
	assert.NotNil(t, ifExpr.Else)
}

func TestParseStructLiteralWithSpreadAndShorthand(t *testing.T) {
	file := parseSrc(t, `
		fn f(base: Point, x: i32) -> Point {
			Point { x, ..base }
		}
	`)
	fn := file.Items[0].(*ast.FuncItem)
	lit, ok := fn.Body.Tail.(*ast.StructLit)
	require.True(t, ok)
	require.Len(t, lit.Fields, 1)
	assert.Equal(t, "x", lit.Fields[0].Name)
	assert.Nil(t, lit.Fields[0].Value)
	assert.NotNil(t, lit.Spread)
}

func TestParseClosureWithCaptures(t *testing.T) {
	file := parseSrc(t, `
		fn f(xs: [i32]) -> i32 {
			let add = |a, b| a + b
			xs[0]
		}
	`)
	fn := file.Items[0].(*ast.FuncItem)
	let := fn.Body.Stmts[0].(*ast.LetStmt)
	clos, ok := let.Value.(*ast.ClosureExpr)
	require.True(t, ok)
	require.Len(t, clos.Params, 2)
}

func TestParseImplicitReturnAfterLetSequence(t *testing.T) {
	// Regression: an implicit return must still be recognized as the block's
	// tail expression even when preceded by multiple let-bindings.
	file := parseSrc(t, `
		fn f() -> i32 {
			let a = 1
			let b = 2
			a + b
		}
	`)
	fn := file.Items[0].(*ast.FuncItem)
	require.Len(t, fn.Body.Stmts, 2)
	require.NotNil(t, fn.Body.Tail)
	bin, ok := fn.Body.Tail.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
}

func TestParseNumericBasesPreservedInAST(t *testing.T) {
	file := parseSrc(t, `const MASK: i32 = 0xFF00`)
	c := file.Items[0].(*ast.ConstItem)
	lit, ok := c.Value.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, token.Hex, lit.Base)
	assert.Equal(t, "0xFF00", lit.Raw)
}

func TestParseGenericsAndBounds(t *testing.T) {
	file := parseSrc(t, `
		fn max<T: Ord + Copy>(a: T, b: T) -> T {
			if a > b { a } else { b }
		}
	`)
	fn := file.Items[0].(*ast.FuncItem)
	require.Len(t, fn.TypeParams, 1)
	assert.Equal(t, "T", fn.TypeParams[0].Name)
	require.Len(t, fn.TypeParams[0].Bounds, 2)
}

func TestParseOptionAndResultSugar(t *testing.T) {
	file := parseSrc(t, `
		fn find(xs: [i32], v: i32) -> i32? { None }
		fn parse(s: string) -> Result<i32, string> { Ok(0) }
	`)
	f := file.Items[0].(*ast.FuncItem)
	_, ok := f.Return.(*ast.OptionType)
	assert.True(t, ok)

	g := file.Items[1].(*ast.FuncItem)
	res, ok := g.Return.(*ast.ResultType)
	require.True(t, ok)
	assert.NotNil(t, res.Ok)
	assert.NotNil(t, res.Err)
}

func TestSynchronizeRecoversAtNextItem(t *testing.T) {
	toks := lexer.New("t.wj", "fn f( { } struct Ok {}").Tokenize()
	file, errs := Parse("t.wj", toks)
	assert.NotEmpty(t, errs)
	// Recovery should still find the well-formed struct after the broken fn.
	var sawStruct bool
	for _, it := range file.Items {
		if _, ok := it.(*ast.StructItem); ok {
			sawStruct = true
		}
	}
	assert.True(t, sawStruct, "parser should recover and parse the item after a broken one")
}

func TestSpanPreservationOnTopLevelItems(t *testing.T) {
	src := "fn f() { 1 }"
	file := parseSrc(t, src)
	fn := file.Items[0].(*ast.FuncItem)
	sp := fn.Span()
	assert.Equal(t, 0, sp.StartByte)
	assert.True(t, sp.EndByte > sp.StartByte)
	assert.True(t, sp.Contains(fn.Body.Span()))
}
