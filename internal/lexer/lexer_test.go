package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/windjammer/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeBasicFunc(t *testing.T) {
	toks := New("t.wj", "fn add(a: i32, b: i32) -> i32 { a + b }").Tokenize()
	require.NotEmpty(t, toks)
	assert.Equal(t, token.Fn, toks[0].Kind)
	assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)
}

// ASI must not fire mid-expression: a line break after a binary operator,
// or before a token that can only continue one, never inserts a terminator.
func TestASIDoesNotInterruptBinaryExpr(t *testing.T) {
	src := "let x =\n  1 +\n  2"
	toks := New("t.wj", src).Tokenize()
	ks := kinds(toks)
	// The complete statement is closed by one synthesized terminator at EOF.
	require.Equal(t, token.Terminator, ks[len(ks)-2])
	for _, k := range ks[:len(ks)-2] {
		assert.NotEqual(t, token.Terminator, k, "ASI must not fire across a binary operator continuation")
	}
}

func TestASIInsertsAtStatementBoundary(t *testing.T) {
	src := "let x = 1\nlet y = 2"
	toks := New("t.wj", src).Tokenize()
	found := false
	for _, tok := range toks {
		if tok.Kind == token.Terminator {
			found = true
			assert.True(t, tok.Synthetic)
		}
	}
	assert.True(t, found, "expected a synthesized terminator between the two statements")
}

func TestASISuppressedInsideBrackets(t *testing.T) {
	src := "let x = (\n  1\n)"
	toks := New("t.wj", src).Tokenize()
	ks := kinds(toks)
	// The complete statement is closed by one synthesized terminator at EOF.
	require.Equal(t, token.Terminator, ks[len(ks)-2])
	for _, k := range ks[:len(ks)-2] {
		assert.NotEqual(t, token.Terminator, k)
	}
}

func TestNumberBasesPreserveRawText(t *testing.T) {
	cases := []struct {
		src  string
		base token.NumberBase
	}{
		{"0xFF", token.Hex},
		{"0b1010", token.Binary},
		{"0o17", token.Octal},
		{"1_000_000", token.Decimal},
	}
	for _, c := range cases {
		toks := New("t.wj", c.src).Tokenize()
		require.Equal(t, token.Int, toks[0].Kind)
		assert.Equal(t, c.base, toks[0].Base)
	}
}

func TestFloatLiteralWithExponent(t *testing.T) {
	toks := New("t.wj", "1.5e10").Tokenize()
	require.Equal(t, token.Float, toks[0].Kind)
	assert.Equal(t, "1.5e10", toks[0].Literal)
}

func TestStringInterpolationNestedTokenization(t *testing.T) {
	toks := New("t.wj", `"hello {name}!"`).Tokenize()
	require.Equal(t, token.String, toks[0].Kind)
	segs := toks[0].Segments
	require.Len(t, segs, 3)
	assert.Equal(t, "hello ", segs[0].Text)
	require.NotNil(t, segs[1].Expr)
	assert.Equal(t, token.Ident, segs[1].Expr[0].Kind)
	assert.Equal(t, "name", segs[1].Expr[0].Literal)
	assert.Equal(t, "!", segs[2].Text)
}

func TestStringInterpolationRecursesNestedBraces(t *testing.T) {
	toks := New("t.wj", `"{ m[k] }"`).Tokenize()
	segs := toks[0].Segments
	require.Len(t, segs, 1)
	require.NotNil(t, segs[0].Expr)
	assert.Equal(t, token.Ident, segs[0].Expr[0].Kind)
}

func TestQualifiedPathTokens(t *testing.T) {
	toks := New("t.wj", "std::Sub::Type").Tokenize()
	got := kinds(toks[:len(toks)-2]) // drop trailing EOF/terminator
	assert.Equal(t, []token.Kind{token.Ident, token.ColonColon, token.Ident, token.ColonColon, token.Ident}, got)
}

func TestKeywordsAreClassified(t *testing.T) {
	toks := New("t.wj", "struct enum trait impl self Self pub").Tokenize()
	want := []token.Kind{token.Struct, token.Enum, token.Trait, token.Impl, token.SelfValue, token.SelfType, token.Pub}
	for i, k := range want {
		assert.Equal(t, k, toks[i].Kind)
	}
}

func TestUnterminatedStringProducesError(t *testing.T) {
	l := New("t.wj", `"abc`)
	l.Tokenize()
	assert.NotEmpty(t, l.Errors())
}
