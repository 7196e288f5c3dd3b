package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/lexer"
	"github.com/oxhq/windjammer/internal/parser"
)

// parseUnit lexes and parses src into a *ast.File, failing the test on any
// lex/parse error so downstream pass tests only ever see well-formed input.
func parseUnit(t *testing.T, src string) *ast.File {
	t.Helper()
	lx := lexer.New("t.wj", src)
	toks := lx.Tokenize()
	require.Empty(t, lx.Errors())
	file, errs := parser.Parse("t.wj", toks)
	require.Empty(t, errs)
	return file
}

// runThroughOwnership runs Pass A-C over src and returns the settled tables.
func runThroughOwnership(t *testing.T, src string) *Tables {
	t.Helper()
	file := parseUnit(t, src)
	tables, diags := PassA(file, nil)
	require.Empty(t, diags)
	tables, diags = PassB(file, tables)
	require.Empty(t, diags)
	tables, diags = PassC(file, tables)
	require.Empty(t, diags)
	return tables
}

// findIndexExpr locates the single IndexExpr in fn's tail/body, used to
// check AutoClone bookkeeping against the exact node codegen will later see.
func findIndexExpr(t *testing.T, file *ast.File, fnName string) *ast.IndexExpr {
	t.Helper()
	for _, it := range file.Items {
		fn, ok := it.(*ast.FuncItem)
		if !ok || fn.Name != fnName || fn.Body == nil {
			continue
		}
		if idx, ok := fn.Body.Tail.(*ast.IndexExpr); ok {
			return idx
		}
		for _, st := range fn.Body.Stmts {
			if es, ok := st.(*ast.ExprStmt); ok {
				if idx, ok := es.X.(*ast.IndexExpr); ok {
					return idx
				}
			}
		}
	}
	t.Fatalf("no IndexExpr found in fn %s", fnName)
	return nil
}

// S1: a local used once in a moving (non-final) position and once more
// afterward must be cloned at the non-final site only.
func TestAutoCloneThroughLocalNonFinalUse(t *testing.T) {
	src := "fn take(xs: Vec<int>) -> int { xs.len() }\n" +
		"fn f() -> int {\n" +
		"\tlet xs = vec_of_ints();\n" +
		"\ttake(xs);\n" +
		"\txs.len()\n" +
		"}\n"
	tables := runThroughOwnership(t, src)
	ff := tables.Ownership.Funcs["f"]
	require.NotNil(t, ff)
	bf := ff.Locals["xs"]
	require.NotNil(t, bf)
	assert.True(t, bf.NonCopyType, "Vec<int> is not a Copy type")

	cloneCount := 0
	for _, c := range bf.AutoClone {
		if c {
			cloneCount++
		}
	}
	assert.Equal(t, 1, cloneCount, "exactly the non-final take(xs) site should be cloned")
}

// S3: indexing a Vec of a non-Copy element type in a moving position (the
// function's tail expression) must record an auto-clone obligation against
// the exact IndexExpr node codegen will emit, even though the index read
// of the container itself is read-only.
func TestAutoCloneOnVecIndexOfNonCopyElement(t *testing.T) {
	src := "fn g(parent: Node, i: int) -> Node {\n" +
		"\tlet cs = parent.kids();\n" +
		"\tcs[i]\n" +
		"}\n"
	file := parseUnit(t, src)
	tables, diags := PassA(file, nil)
	require.Empty(t, diags)
	tables, diags = PassB(file, tables)
	require.Empty(t, diags)
	tables, diags = PassC(file, tables)
	require.Empty(t, diags)

	idx := findIndexExpr(t, file, "g")
	ff := tables.Ownership.Funcs["g"]
	require.NotNil(t, ff)
	bf := ff.Locals["cs"]
	require.NotNil(t, bf, "cs must be tracked as a local binding")
	assert.True(t, bf.AutoClone[idx], "cs[i] in a moving tail position must be recorded as a clone obligation")
}

// §8.4: indexing a Vec of a Copy element type must never be cloned.
func TestNoAutoCloneOnVecIndexOfCopyElement(t *testing.T) {
	src := "fn h(xs: Vec<int>, i: int) -> int {\n" +
		"\tlet ys = xs;\n" +
		"\tys[i]\n" +
		"}\n"
	file := parseUnit(t, src)
	tables, diags := PassA(file, nil)
	require.Empty(t, diags)
	tables, diags = PassB(file, tables)
	require.Empty(t, diags)
	tables, diags = PassC(file, tables)
	require.Empty(t, diags)

	idx := findIndexExpr(t, file, "h")
	ff := tables.Ownership.Funcs["h"]
	require.NotNil(t, ff)
	bf := ff.Locals["ys"]
	require.NotNil(t, bf)
	assert.False(t, bf.AutoClone[idx], "indexing a Vec<int> must not be cloned, int is Copy")
}

// §8.4: a binding of a Copy type used in several moving positions must
// never accrue clone obligations, regardless of use count.
func TestNoAutoCloneOnCopyTypeRegardlessOfUseCount(t *testing.T) {
	src := "fn take(n: int) -> int { n }\n" +
		"fn f() -> int {\n" +
		"\tlet n = 1;\n" +
		"\ttake(n);\n" +
		"\ttake(n);\n" +
		"\ttake(n)\n" +
		"}\n"
	tables := runThroughOwnership(t, src)
	ff := tables.Ownership.Funcs["f"]
	require.NotNil(t, ff)
	bf := ff.Locals["n"]
	require.NotNil(t, bf)
	for _, c := range bf.AutoClone {
		assert.False(t, c, "a Copy-typed local must never be marked for cloning")
	}
}

// §8.4: a binding used only once, in its final (tail) position, needs no
// clone even though that final use is a move.
func TestNoAutoCloneOnSoleFinalUse(t *testing.T) {
	src := "fn take(xs: Vec<int>) -> int { xs.len() }\n" +
		"fn f() -> int {\n" +
		"\tlet xs = vec_of_ints();\n" +
		"\ttake(xs)\n" +
		"}\n"
	tables := runThroughOwnership(t, src)
	ff := tables.Ownership.Funcs["f"]
	require.NotNil(t, ff)
	bf := ff.Locals["xs"]
	require.NotNil(t, bf)
	for _, c := range bf.AutoClone {
		assert.False(t, c, "a binding's sole use being a final move needs no clone")
	}
}
