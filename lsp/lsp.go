// Package lsp exposes editor-query-shaped functions (Hover, Definition,
// References, Rename, Completion, CodeActions) over a *querydb.DB. It has
// no transport of its own — an actual LSP server would wrap these in a
// gopls-style JSON-RPC-over-stdio loop, which is out of scope here; the MCP
// tool surface calls straight into these functions instead.
//
// Grounded on the teacher's own "thin query layer over a shared cache"
// shape (mcp/tools wrapping providers.Registry/core.FileProcessor calls),
// generalized from "AST query over a tree-sitter tree" to "query over the
// incremental analyzer Tables".
package lsp

import (
	"sort"
	"strings"

	"github.com/oxhq/windjammer/internal/analyzer"
	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/querydb"
	"github.com/oxhq/windjammer/internal/token"
)

// Position is a zero-based line/character location, matching the LSP wire
// protocol's own Position shape.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open [Start, End) span between two Positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func rangeFromSpan(sp token.Span) Range {
	return Range{
		Start: Position{Line: sp.Line - 1, Character: sp.Column - 1},
		End:   Position{Line: sp.Line - 1, Character: sp.Column - 1},
	}
}

// Hover describes the content shown when the cursor rests on a symbol.
type Hover struct {
	Contents string `json:"contents"`
	Range    Range  `json:"range"`
}

// HoverAt renders a hover card for the identifier at pos in path. When the
// identifier names a def with settled ownership facts, the inferred
// ownership mode ("&", "&mut", "owned") is appended as an inlay-hint-style
// suffix (§6).
func HoverAt(db *querydb.DB, path string, pos Position) (*Hover, error) {
	if _, err := db.Ownership(path); err != nil {
		return nil, err
	}
	tables := db.Tables()
	name, sp, ok := identAt(db, path, pos)
	if !ok {
		return nil, nil
	}

	var b strings.Builder
	b.WriteString(name)
	if defs, ok := tables.Lookup(name); ok && len(defs) > 0 {
		b.WriteString(": ")
		b.WriteString(defs[0].Kind.String())
	}
	if mode, ok := ownershipModeOf(tables, name); ok {
		b.WriteString(" (")
		b.WriteString(mode)
		b.WriteString(")")
	}
	return &Hover{Contents: b.String(), Range: rangeFromSpan(sp)}, nil
}

// ownershipModeOf does a best-effort scan of every function's facts for a
// binding named name, since hover has no notion of "current function"
// without a full position-to-enclosing-function index.
func ownershipModeOf(tables *analyzer.Tables, name string) (string, bool) {
	if tables == nil || tables.Ownership == nil {
		return "", false
	}
	for _, ff := range tables.Ownership.Funcs {
		if ff.Self != nil && ff.Self.Name == name {
			return ff.Self.Mode.String(), true
		}
		if bf, ok := ff.Params[name]; ok {
			return bf.Mode.String(), true
		}
		if bf, ok := ff.Locals[name]; ok {
			return bf.Mode.String(), true
		}
	}
	return "", false
}

// Location names a definition's defining span and containing unit.
type Location struct {
	Path  string `json:"path"`
	Range Range  `json:"range"`
}

// Definition resolves the identifier at pos to its defining location.
func Definition(db *querydb.DB, path string, pos Position) (*Location, error) {
	if _, err := db.Resolve(path); err != nil {
		return nil, err
	}
	tables := db.Tables()
	name, _, ok := identAt(db, path, pos)
	if !ok {
		return nil, nil
	}
	defs, ok := tables.Lookup(name)
	if !ok || len(defs) == 0 {
		return nil, nil
	}
	d := defs[0]
	return &Location{Path: d.Sp.Unit, Range: rangeFromSpan(d.Sp)}, nil
}

// References finds every use-site recorded for name by Pass C's ownership
// analysis (the only pass that tracks per-binding use sites today), across
// every function in the current session.
func References(db *querydb.DB, path string, pos Position) ([]Location, error) {
	if _, err := db.Ownership(path); err != nil {
		return nil, err
	}
	tables := db.Tables()
	name, _, ok := identAt(db, path, pos)
	if !ok || tables.Ownership == nil {
		return nil, nil
	}

	var locs []Location
	for _, ff := range tables.Ownership.Funcs {
		bf, ok := ff.Params[name]
		if !ok {
			bf, ok = ff.Locals[name]
		}
		if !ok {
			continue
		}
		for _, use := range bf.Uses {
			if use.Site == nil {
				continue
			}
			locs = append(locs, Location{Path: use.Site.Span().Unit, Range: rangeFromSpan(use.Site.Span())})
		}
	}
	return locs, nil
}

// RenameEdit is a single textual replacement a client should apply.
type RenameEdit struct {
	Location Location `json:"location"`
	NewText  string   `json:"newText"`
}

// Rename computes the edit set needed to rename the identifier at pos to
// newName: the definition site plus every reference found by References.
func Rename(db *querydb.DB, path string, pos Position, newName string) ([]RenameEdit, error) {
	def, err := Definition(db, path, pos)
	if err != nil {
		return nil, err
	}
	refs, err := References(db, path, pos)
	if err != nil {
		return nil, err
	}
	edits := make([]RenameEdit, 0, len(refs)+1)
	if def != nil {
		edits = append(edits, RenameEdit{Location: *def, NewText: newName})
	}
	for _, r := range refs {
		edits = append(edits, RenameEdit{Location: r, NewText: newName})
	}
	return edits, nil
}

// CompletionItem is one candidate offered at a completion request.
type CompletionItem struct {
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// Completion lists every def name in scope, ordered for determinism.
func Completion(db *querydb.DB, path string) ([]CompletionItem, error) {
	if _, err := db.Resolve(path); err != nil {
		return nil, err
	}
	tables := db.Tables()
	names := tables.Names()
	sort.Strings(names)
	items := make([]CompletionItem, 0, len(names))
	for _, name := range names {
		defs, _ := tables.Lookup(name)
		kind := "value"
		if len(defs) > 0 {
			kind = defs[0].Kind.String()
		}
		items = append(items, CompletionItem{Label: name, Kind: kind})
	}
	return items, nil
}

// CodeAction is a single machine-applicable fix, lifted directly from a
// diagnostic's suggested Fix (§9's "closing the loop from suggested fixes
// back into the LSP surface").
type CodeAction struct {
	Title string     `json:"title"`
	Edit  RenameEdit `json:"edit"`
}

// CodeActions renders every suggested fix attached to path's diagnostics as
// an applicable textual edit.
func CodeActions(db *querydb.DB, path string) ([]CodeAction, error) {
	diags, err := db.Diagnostics(path)
	if err != nil {
		return nil, err
	}
	var actions []CodeAction
	for _, d := range diags {
		for _, fix := range d.Fixes {
			actions = append(actions, CodeAction{
				Title: fix.Description,
				Edit: RenameEdit{
					Location: Location{Path: fix.Span.Unit, Range: rangeFromSpan(fix.Span)},
					NewText:  fix.Replacement,
				},
			})
		}
	}
	return actions, nil
}

// identAt finds the *ast.Ident covering pos by walking path's AST (a
// 1-file O(nodes) scan; acceptable at editor-interaction latency, and
// avoids needing a separate token-to-AST-node position index).
func identAt(db *querydb.DB, path string, pos Position) (string, token.Span, bool) {
	file, _ := db.AST(path)
	if file == nil {
		return "", token.Span{}, false
	}
	line, col := pos.Line+1, pos.Character+1
	var found *ast.Ident
	analyzer.Walk(file, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			sp := id.Span()
			if sp.Line == line && col >= sp.Column && col <= sp.Column+len(id.Name) {
				found = id
			}
		}
		return true
	})
	if found == nil {
		return "", token.Span{}, false
	}
	return found.Name, found.Span(), true
}
