package querydb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoFnSrc = "fn add(a: i32, b: i32) -> i32 {\n\ta + b\n}\n\nfn sub(a: i32, b: i32) -> i32 {\n\ta - b\n}\n"

func TestASTCachedAcrossRepeatedCalls(t *testing.T) {
	db := New()
	db.Open("u.wj", "fn f() -> i32 { 1 }")

	_, diags := db.AST("u.wj")
	require.Empty(t, diags)
	assert.Equal(t, int64(1), db.Stats().Misses)

	_, diags = db.AST("u.wj")
	require.Empty(t, diags)
	stats := db.Stats()
	assert.Equal(t, int64(1), stats.Misses, "a second AST() call against unchanged content must hit the cache")
	assert.Equal(t, int64(1), stats.Hits)
}

func TestASTOnUnknownUnit(t *testing.T) {
	db := New()
	_, diags := db.AST("missing.wj")
	require.NotEmpty(t, diags)
	assert.Equal(t, "WJ0900", diags[0].Code)
}

func TestEditInvalidatesDownstreamPasses(t *testing.T) {
	db := New()
	db.Open("u.wj", twoFnSrc)

	_, err := db.Diagnostics("u.wj")
	require.NoError(t, err)
	missesAfterFirst := db.Stats().Misses

	// Re-opening the identical text bumps Version regardless, so every pass
	// for this unit must recompute once more.
	db.Edit("u.wj", twoFnSrc)
	_, err = db.Diagnostics("u.wj")
	require.NoError(t, err)
	assert.Greater(t, db.Stats().Misses, missesAfterFirst)
}

func TestDerivesRunsPriorPassesInOrder(t *testing.T) {
	db := New()
	db.Open("u.wj", "struct Point { x: i32, y: i32 }")

	_, err := db.Derives("u.wj")
	require.NoError(t, err)

	tables := db.Tables()
	require.NotNil(t, tables.Types, "Derives must have run Types (Pass B) first")
	require.NotNil(t, tables.Ownership, "Derives must have run Ownership (Pass C) first")
	require.NotNil(t, tables.Derives)
	assert.Contains(t, tables.Derives.Set("Point"), "Copy")
}

func TestUnitVersionIncrementsOnReopen(t *testing.T) {
	db := New()
	u1 := db.Open("u.wj", "fn f() -> i32 { 1 }")
	assert.Equal(t, 1, u1.Version)
	u2 := db.Open("u.wj", "fn f() -> i32 { 2 }")
	assert.Equal(t, 2, u2.Version)

	got, ok := db.Unit("u.wj")
	require.True(t, ok)
	assert.Equal(t, 2, got.Version)
}

func TestLockStripeDistributesDistinctKeys(t *testing.T) {
	stripe := newLockStripe(8)
	a := stripe.for_(Key{Kind: KindParse, ID: "a.wj"})
	b := stripe.for_(Key{Kind: KindParse, ID: "b.wj"})
	// Not a hard guarantee for every possible pair (hash collisions are
	// legal), but these two specific keys are chosen to land in different
	// buckets, exercising the actual hash-based routing rather than a
	// single shared lock.
	assert.NotSame(t, a, b)
}
