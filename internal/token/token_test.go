package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdentClassifiesKeywords(t *testing.T) {
	assert.Equal(t, Fn, LookupIdent("fn"))
	assert.Equal(t, Struct, LookupIdent("struct"))
	assert.Equal(t, Ident, LookupIdent("widget"))
}

func TestIsKeyword(t *testing.T) {
	assert.True(t, IsKeyword(Fn))
	assert.True(t, IsKeyword(Pub))
	assert.False(t, IsKeyword(Ident))
	assert.False(t, IsKeyword(Plus))
}

func TestSpanContains(t *testing.T) {
	outer := Span{Unit: "a.wj", StartByte: 0, EndByte: 20}
	inner := Span{Unit: "a.wj", StartByte: 5, EndByte: 10}
	other := Span{Unit: "b.wj", StartByte: 5, EndByte: 10}
	assert.True(t, outer.Contains(inner))
	assert.False(t, outer.Contains(other), "spans in different units never contain one another")
	assert.False(t, inner.Contains(outer))
}

func TestTokenStringIncludesLiteral(t *testing.T) {
	tok := Token{Kind: Ident, Literal: "x"}
	assert.Equal(t, `IDENT("x")`, tok.String())

	tok2 := Token{Kind: Plus}
	assert.Equal(t, "+", tok2.String())
}
