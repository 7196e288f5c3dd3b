// Package providers defines the target-backend interface the code
// generator lowers to, plus the backend registry used by the compile
// session/CLI to look one up by name.
//
// Grounded on the teacher's providers.Provider contract and its paired
// Registry, generalized from "language the tool can analyze/transform" to
// "target ecosystem the compiler can emit into" — Rust is the only complete
// implementation today, but the interface anticipates WASM/C backends.
package providers

import (
	"github.com/oxhq/windjammer/internal/analyzer"
	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/diag"
)

// Backend lowers a resolved Windjammer file to one target ecosystem's
// source text and build manifest.
type Backend interface {
	// Name is the backend's canonical identifier (e.g. "rust").
	Name() string
	// FileExtension is the output source file's extension (e.g. ".rs").
	FileExtension() string
	// Emit lowers file using tables (the analyzer's fully-settled output)
	// to target source text.
	Emit(file *ast.File, tables *analyzer.Tables) (string, []diag.Diagnostic)
	// Manifest synthesizes the target's build manifest (e.g. Cargo.toml)
	// given the stdlib-module imports the compiled program used.
	Manifest(imports []string) (string, error)
}
