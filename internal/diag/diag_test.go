package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxhq/windjammer/internal/token"
)

func TestHasErrors(t *testing.T) {
	assert.False(t, HasErrors(nil))
	assert.False(t, HasErrors([]Diagnostic{Warn("WJ0400", token.Span{}, "no effect")}))
	assert.True(t, HasErrors([]Diagnostic{
		Warn("WJ0400", token.Span{}, "no effect"),
		New("WJ0200", token.Span{}, "unresolved name %s", "foo"),
	}))
}

func TestNewAndWarnSeverity(t *testing.T) {
	e := New("WJ0200", token.Span{Unit: "a.wj", Line: 1, Column: 2}, "unresolved name %s", "foo")
	assert.Equal(t, Error, e.Severity)
	assert.Equal(t, "unresolved name foo", e.Message)

	w := Warn("WJ0400", token.Span{}, "derive override has no effect on %s", "Point")
	assert.Equal(t, Warning, w.Severity)
}

func TestDiagnosticErrorString(t *testing.T) {
	d := New("WJ0200", token.Span{Unit: "a.wj", Line: 3, Column: 5}, "unresolved name %s", "xs")
	assert.Equal(t, "a.wj:3:5: error: [WJ0200] unresolved name xs", d.Error())
}

func TestWithFixAppendsWithoutMutatingShared(t *testing.T) {
	base := New("WJ0012", token.Span{}, "expected '::' between path segments")
	fixed := base.WithFix(Fix{Description: "replace '.' with '::'", Replacement: "::"})
	assert.Empty(t, base.Fixes, "WithFix must not mutate the receiver's underlying slice")
	assert.Len(t, fixed.Fixes, 1)
	assert.Equal(t, "::", fixed.Fixes[0].Replacement)
}

func TestWithSecondaryAppendsWithoutMutatingShared(t *testing.T) {
	base := New("WJ0201", token.Span{}, "ambiguous glob import")
	sp := token.Span{Unit: "b.wj", Line: 10}
	withSecondary := base.WithSecondary(sp)
	assert.Empty(t, base.Secondary)
	assert.Equal(t, []token.Span{sp}, withSecondary.Secondary)
}

func TestWrap(t *testing.T) {
	cause := assertError{"disk full"}
	d := Wrap("WJ0900", token.Span{}, "write output", cause)
	assert.Equal(t, "WJ0900", d.Code)
	assert.Equal(t, Error, d.Severity)
	assert.Contains(t, d.Message, "write output")
	assert.Contains(t, d.Message, "disk full")
}

type assertError struct{ msg string }

func (e assertError) Error() string { return e.msg }

func TestSuggest(t *testing.T) {
	candidates := []string{"parent", "parentNode", "paren"}
	best, ok := Suggest("parnt", candidates, 2)
	assert.True(t, ok)
	assert.Equal(t, "parent", best)

	_, ok = Suggest("completely_different", candidates, 2)
	assert.False(t, ok)

	_, ok = Suggest("x", nil, 5)
	assert.False(t, ok)
}

func TestCatalogLookup(t *testing.T) {
	e, ok := Lookup("WJ0501")
	assert.True(t, ok)
	assert.Equal(t, "WJ0501", e.Code)
	assert.NotEmpty(t, e.Short)
	assert.NotEmpty(t, e.Long)

	_, ok = Lookup("WJ9999")
	assert.False(t, ok)
}
