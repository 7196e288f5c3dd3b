package core

import (
	"context"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/windjammer/internal/diag"
	"github.com/oxhq/windjammer/providers/rust"
)

// renderDiff is a small helper so a mismatch between two compile outputs
// renders as a readable unified diff instead of two opaque strings,
// grounded on the teacher's providers/base Provider.generateDiff.
func renderDiff(t *testing.T, from, to string) string {
	t.Helper()
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(from),
		B:        difflib.SplitLines(to),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	require.NoError(t, err)
	return text
}

const sampleFn = "fn add(a: i32, b: i32) -> i32 {\n\ta + b\n}"

func TestCompileSimpleFunction(t *testing.T) {
	c := NewCompiler(rust.New(), nil)
	c.DB.Open("add.wj", sampleFn)

	result, err := c.Compile(context.Background(), "add.wj")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.False(t, diag.HasErrors(result.Diagnostics), "unexpected diagnostics: %+v", result.Diagnostics)
	assert.NotEmpty(t, result.CodeOut)
	assert.NotEmpty(t, result.Hash)
	assert.Equal(t, "rust", result.Engine.Target)
	assert.Equal(t, "add.wj", result.Path)
	assert.Positive(t, result.Stats.LinesProcessed)
}

func TestCompileUnitNotOpen(t *testing.T) {
	c := NewCompiler(rust.New(), nil)
	result, err := c.Compile(context.Background(), "missing.wj")
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestCompileHaltsBeforeCodegenOnParseError(t *testing.T) {
	c := NewCompiler(rust.New(), nil)
	c.DB.Open("broken.wj", "fn (")

	result, err := c.Compile(context.Background(), "broken.wj")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, diag.HasErrors(result.Diagnostics), "a malformed unit should report an error diagnostic")
	assert.Empty(t, result.CodeOut, "codegen must not run once a pass reports an error")
	assert.Empty(t, result.Hash)
}

// TestCompileDeterministic exercises §8's determinism property: compiling
// the same source from two independent sessions must produce byte-identical
// output. A mismatch is rendered as a unified diff rather than left as two
// raw strings in the test failure.
func TestCompileDeterministic(t *testing.T) {
	first := NewCompiler(rust.New(), nil)
	first.DB.Open("det.wj", sampleFn)
	r1, err := first.Compile(context.Background(), "det.wj")
	require.NoError(t, err)

	second := NewCompiler(rust.New(), nil)
	second.DB.Open("det.wj", sampleFn)
	r2, err := second.Compile(context.Background(), "det.wj")
	require.NoError(t, err)

	if r1.CodeOut != r2.CodeOut {
		t.Fatalf("non-deterministic codegen:\n%s", renderDiff(t, r1.CodeOut, r2.CodeOut))
	}
	assert.Equal(t, r1.Hash, r2.Hash)
}

// TestCompileIncrementalEquivalence exercises §8's incremental-equivalence
// property: re-editing a unit back to its original text and recompiling
// must settle on the same output a fresh compile of that text would,
// despite every pass's cached result having been invalidated in between.
func TestCompileIncrementalEquivalence(t *testing.T) {
	c := NewCompiler(rust.New(), nil)
	c.DB.Open("incr.wj", sampleFn)
	before, err := c.Compile(context.Background(), "incr.wj")
	require.NoError(t, err)

	c.DB.Edit("incr.wj", "fn add(a: i32, b: i32) -> i32 {\n\ta + b // trivial comment\n}")
	_, err = c.Compile(context.Background(), "incr.wj")
	require.NoError(t, err)

	c.DB.Edit("incr.wj", sampleFn)
	after, err := c.Compile(context.Background(), "incr.wj")
	require.NoError(t, err)

	if before.CodeOut != after.CodeOut {
		t.Fatalf("recompiling the original text after a round-trip edit diverged:\n%s",
			renderDiff(t, before.CodeOut, after.CodeOut))
	}
}

func TestCompileManifestSynthesis(t *testing.T) {
	c := NewCompiler(rust.New(), nil)
	c.DB.Open("manifest.wj", sampleFn)
	result, err := c.Compile(context.Background(), "manifest.wj")
	require.NoError(t, err)
	require.False(t, diag.HasErrors(result.Diagnostics))

	manifest, err := c.Backend.Manifest(nil)
	require.NoError(t, err)
	assert.True(t, strings.Contains(manifest, "[package]") || strings.Contains(manifest, "name"),
		"expected a Cargo.toml-shaped manifest, got: %s", manifest)
}
