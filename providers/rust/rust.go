// Package rust implements the providers.Backend contract for the Rust
// target, the only complete code-generation target today.
//
// Grounded on the teacher's concrete language providers (e.g.
// providers/golang), which wrap internal/core's tree-sitter machinery
// behind the Provider contract; here the wrapping is around
// internal/codegen.Emit instead.
package rust

import (
	"github.com/oxhq/windjammer/internal/analyzer"
	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/codegen"
	"github.com/oxhq/windjammer/internal/diag"
	"github.com/oxhq/windjammer/internal/manifest"
)

// Backend is the Rust providers.Backend implementation.
type Backend struct{}

// New returns a Rust backend.
func New() *Backend {
	return &Backend{}
}

// Name implements providers.Backend.
func (b *Backend) Name() string { return "rust" }

// FileExtension implements providers.Backend.
func (b *Backend) FileExtension() string { return ".rs" }

// Emit implements providers.Backend.
func (b *Backend) Emit(file *ast.File, tables *analyzer.Tables) (string, []diag.Diagnostic) {
	return codegen.Emit(file, tables)
}

// Manifest implements providers.Backend, synthesizing a Cargo.toml from the
// compiled program's stdlib module imports.
func (b *Backend) Manifest(imports []string) (string, error) {
	return manifest.Synthesize("windjammer-out", imports)
}
