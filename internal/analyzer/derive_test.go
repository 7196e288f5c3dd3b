package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S4: an all-primitive, all-Copy struct derives the full structural set.
func TestDeriveAllCopyStructGetsFullSet(t *testing.T) {
	file := parseUnit(t, "struct P { x: int, y: int }\n")
	tables, diags := PassD(file, nil)
	require.Empty(t, diags)

	got := tables.Derives.Set("P")
	want := []string{"Debug", "Clone", "Copy", "PartialEq", "Eq", "Hash", "Default"}
	assert.ElementsMatch(t, want, got)
}

// S4: a struct with a string field and a Vec<string> field derives exactly
// {Debug, Clone, PartialEq, Default} - no Copy (string isn't Copy), and no
// Eq/Hash, since Vec<T> never forwards those even when T itself has them.
func TestDeriveStructWithVecFieldExcludesEqHashCopy(t *testing.T) {
	file := parseUnit(t, "struct U { name: string, tags: Vec<string> }\n")
	tables, diags := PassD(file, nil)
	require.Empty(t, diags)

	got := tables.Derives.Set("U")
	want := []string{"Debug", "Clone", "PartialEq", "Default"}
	assert.ElementsMatch(t, want, got)
}

// §8: Pass D is idempotent - running it again over the same tables must
// not change the settled derive set.
func TestDerivePassIsIdempotent(t *testing.T) {
	file := parseUnit(t, "struct P { x: int, y: int }\n")
	tables, diags := PassD(file, nil)
	require.Empty(t, diags)
	first := tables.Derives.Set("P")

	tables, diags = PassD(file, tables)
	require.Empty(t, diags)
	second := tables.Derives.Set("P")

	assert.ElementsMatch(t, first, second)
}

// An explicit "@derive(...)" override replaces the structurally-inferred
// set outright, even when it narrows what would otherwise be eligible.
func TestDeriveOverrideReplacesInferredSet(t *testing.T) {
	file := parseUnit(t, "@derive(Debug, Clone)\nstruct P { x: int, y: int }\n")
	tables, diags := PassD(file, nil)
	require.Empty(t, diags)

	got := tables.Derives.Set("P")
	assert.ElementsMatch(t, []string{"Debug", "Clone"}, got)
}

// parseContainerType must recognize every spelling Pass B's typeName
// produces for Option sugar, Vec, and Result.
func TestParseContainerType(t *testing.T) {
	container, args, ok := parseContainerType("Node?")
	require.True(t, ok)
	assert.Equal(t, "Option", container)
	assert.Equal(t, []string{"Node"}, args)

	container, args, ok = parseContainerType("Vec<Node>")
	require.True(t, ok)
	assert.Equal(t, "Vec", container)
	assert.Equal(t, []string{"Node"}, args)

	container, args, ok = parseContainerType("Result<string,Error>")
	require.True(t, ok)
	assert.Equal(t, "Result", container)
	assert.Equal(t, []string{"string", "Error"}, args)

	_, _, ok = parseContainerType("Node")
	assert.False(t, ok)
}

func TestSplitTopLevelCommaHandlesNestedGenerics(t *testing.T) {
	got := splitTopLevelComma("Vec<int>,Option<string>")
	assert.Equal(t, []string{"Vec<int>", "Option<string>"}, got)
}
