package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/windjammer/internal/analyzer"
	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/lexer"
	"github.com/oxhq/windjammer/internal/parser"
)

// compile runs every analyzer pass over src (mirroring querydb's pass
// order) and returns the settled AST/Tables pair Emit expects, without
// pulling in the full querydb/core machinery this package must not depend
// on.
func compile(t *testing.T, src string) (*ast.File, *analyzer.Tables) {
	t.Helper()
	toks := lexer.New("t.wj", src).Tokenize()
	file, perrs := parser.Parse("t.wj", toks)
	require.Empty(t, perrs, "unexpected parse errors")
	require.NotNil(t, file)

	tables := analyzer.NewTables()
	tables, _ = analyzer.PassA(file, tables)
	tables, _ = analyzer.PassB(file, tables)
	tables, _ = analyzer.PassC(file, tables)
	tables, _ = analyzer.PassD(file, tables)

	return file, tables
}

func TestEmitSimpleFunction(t *testing.T) {
	file, tables := compile(t, "fn add(a: i32, b: i32) -> i32 {\n\ta + b\n}")
	out, diags := Emit(file, tables)
	assert.Empty(t, diags)
	assert.True(t, strings.Contains(out, "fn add"), "expected a fn add signature, got: %s", out)
	assert.True(t, strings.Contains(out, "a + b"), "expected the tail expression preserved, got: %s", out)
}

func TestEmitStructWithDerives(t *testing.T) {
	file, tables := compile(t, "struct Point {\n\tx: i32,\n\ty: i32,\n}")
	out, diags := Emit(file, tables)
	assert.Empty(t, diags)
	assert.True(t, strings.Contains(out, "struct Point"), "expected a struct Point declaration, got: %s", out)
	assert.True(t, strings.Contains(out, "#[derive("), "expected an inferred derive attribute, got: %s", out)
}

// S1: a local moved at a non-final call site and read again afterward must
// have ".clone()" inserted at that non-final site only.
func TestEmitAutoClonesNonFinalUse(t *testing.T) {
	src := "fn take(xs: Vec<int>) -> int { consume(xs) }\n" +
		"fn f() -> int {\n" +
		"\tlet xs = vec_of_ints();\n" +
		"\ttake(xs);\n" +
		"\txs.len()\n" +
		"}\n"
	file, tables := compile(t, src)
	out, diags := Emit(file, tables)
	require.Empty(t, diags)

	assert.Contains(t, out, "take(xs.clone());", "the non-final use of xs must be cloned")
	assert.Contains(t, out, "xs.len()", "the final use of xs must not be cloned")
	assert.NotContains(t, out, "xs.len().clone()")
}

// S3: indexing a Vec of a non-Copy element type in a moving (tail) position
// must emit ".clone()" on the index expression itself.
func TestEmitClonesVecIndexOfNonCopyElement(t *testing.T) {
	src := "fn g(parent: Node, i: int) -> Node {\n" +
		"\tlet cs = parent.kids();\n" +
		"\tcs[i]\n" +
		"}\n"
	file, tables := compile(t, src)
	out, diags := Emit(file, tables)
	require.Empty(t, diags)

	assert.Contains(t, out, "cs[i].clone()", "indexing a non-Copy element in a moving position must clone")
}

// S4: the exact derive sets for a Copy-eligible struct and a struct with a
// Vec field must match what the field-forwarding rules settle on.
func TestEmitDerivesExactSets(t *testing.T) {
	src := "struct P {\n\tx: int,\n\ty: int,\n}\n" +
		"struct U {\n\tname: string,\n\ttags: Vec<string>,\n}\n"
	file, tables := compile(t, src)
	out, diags := Emit(file, tables)
	require.Empty(t, diags)

	lines := strings.Split(out, "\n")
	var pDerive, uDerive string
	for i, l := range lines {
		if strings.HasPrefix(l, "#[derive(") {
			if i+1 < len(lines) && strings.Contains(lines[i+1], "struct P ") {
				pDerive = l
			}
			if i+1 < len(lines) && strings.Contains(lines[i+1], "struct U ") {
				uDerive = l
			}
		}
	}
	require.NotEmpty(t, pDerive, "no derive attribute found before struct P, got: %s", out)
	require.NotEmpty(t, uDerive, "no derive attribute found before struct U, got: %s", out)

	pTraits := deriveAttrTraits(t, pDerive)
	uTraits := deriveAttrTraits(t, uDerive)

	assert.ElementsMatch(t, []string{"Debug", "Clone", "Copy", "PartialEq", "Eq", "Hash", "Default"}, pTraits)
	assert.ElementsMatch(t, []string{"Debug", "Clone", "PartialEq", "Default"}, uTraits)
}

// deriveAttrTraits parses a "#[derive(A, B, ...)]" line into its exact
// trait tokens, so a check for "Eq" doesn't spuriously match "PartialEq".
func deriveAttrTraits(t *testing.T, line string) []string {
	t.Helper()
	inner := strings.TrimSuffix(strings.TrimPrefix(line, "#[derive("), ")]")
	var out []string
	for _, part := range strings.Split(inner, ",") {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

// Regression: a function whose body is a let-statement followed by a tail
// expression must emit that tail with no trailing semicolon and no wrapping
// "return" keyword - a known bug where the implicit return after a let was
// previously either dropped a semicolon too few or wrapped in "return ...;".
func TestEmitImplicitReturnAfterLet(t *testing.T) {
	src := "fn f() -> i32 {\n\tlet x = 1;\n\tx + 1\n}\n"
	file, tables := compile(t, src)
	out, diags := Emit(file, tables)
	require.Empty(t, diags)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	last := lines[len(lines)-2] // last line before the closing brace
	assert.Equal(t, "x + 1", strings.TrimSpace(last))
	assert.NotContains(t, out, "return x + 1")
}
