package analyzer

import (
	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/diag"
)

// PassE runs the final sanity checks over the Tables Pass A-D have already
// populated: every other pass emits its own diagnostics as it discovers
// them (WJ0200/WJ0201 in PassA, WJ0300 in PassB, WJ0400/WJ0401 in PassD);
// this pass catches the one failure that can only be seen once ownership
// and derive facts both exist side by side — a binding moved at a
// non-final use site whose type did not, in the end, derive Clone, so the
// auto-clone obligation PassC recorded cannot actually be satisfied by
// codegen.
func PassE(unit *ast.File, prior *Tables) (*Tables, []diag.Diagnostic) {
	tables := prior
	if tables == nil {
		tables = NewTables()
	}
	var diags []diag.Diagnostic
	if tables.Ownership == nil {
		return tables, diags
	}

	for fname, ff := range tables.Ownership.Funcs {
		checkBinding(fname, ff.Self, tables, &diags)
		for _, bf := range ff.Params {
			checkBinding(fname, bf, tables, &diags)
		}
		for _, bf := range ff.Locals {
			checkBinding(fname, bf, tables, &diags)
		}
	}
	return tables, diags
}

func checkBinding(fname string, bf *BindingFacts, tables *Tables, diags *[]diag.Diagnostic) {
	if bf == nil || len(bf.AutoClone) == 0 {
		return
	}
	if bf.TypeName == "" || tables.Derives == nil {
		// Type not yet resolved locally (Pass B ran before Pass D settled,
		// or the type lives in an unresolved module): too uncertain to
		// flag, matching the conservative default used throughout.
		return
	}
	if tables.typeDerivesTrait(bf.TypeName, "Clone") {
		return
	}
	for site := range bf.AutoClone {
		*diags = append(*diags, diag.New("WJ0502",
			site.Span(),
			"%s is used again after this point, but its type is not Clone so the compiler cannot insert the required copy",
			bf.Name))
	}
}
