// Package analyzer implements the four inference passes described in the
// semantic-analyzer design: module/name resolution (Pass A), local type
// reconstruction (Pass B), ownership/borrow/mutability inference (Pass C),
// and auto-derive eligibility (Pass D), plus a final diagnostic-collection
// pass (Pass E). Each pass is a pure function over the previous Tables,
// grounded on the teacher's core.Pipeline staged-apply design, generalized
// from a fixed "parse -> resolve -> select -> transform" chain to a
// compiler's lex/parse/resolve/type/own/derive/diagnose/codegen chain.
package analyzer

import (
	"fmt"

	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/diag"
	"github.com/oxhq/windjammer/internal/token"
)

// DefID stably identifies one Def within a Tables arena.
type DefID int

// DefKind classifies what a Def names.
type DefKind int

const (
	DefFunc DefKind = iota
	DefStruct
	DefEnum
	DefVariant
	DefTrait
	DefConst
	DefTypeAlias
	DefMod
)

func (k DefKind) String() string {
	switch k {
	case DefFunc:
		return "func"
	case DefStruct:
		return "struct"
	case DefEnum:
		return "enum"
	case DefVariant:
		return "variant"
	case DefTrait:
		return "trait"
	case DefConst:
		return "const"
	case DefTypeAlias:
		return "type"
	case DefMod:
		return "mod"
	default:
		return "unknown"
	}
}

// Def is one named declaration in the arena-indexed module graph.
type Def struct {
	ID     DefID
	Name   string // unqualified; variants are stored as "Enum::Variant"
	Kind   DefKind
	Module string // dotted module path ("" for the unit root)
	Unit   string
	Pub    bool
	Sp     token.Span
	Item   ast.Item // nil for synthetic variant defs
}

// QualifiedName is Module::Name, or just Name at the unit root.
func (d Def) QualifiedName() string {
	if d.Module == "" {
		return d.Name
	}
	return d.Module + "::" + d.Name
}

// Tables is the accumulated output of every analyzer pass, threaded from
// Pass A through Pass E. Passes after A only ever append to Diagnostics
// carried by their own return value; the Tables itself grows monotonically
// as more units are resolved into the same compile session.
type Tables struct {
	Defs   []Def
	ByName map[string][]DefID // unqualified name -> every Def with that name
	Edges  map[DefID][]DefID  // use-graph: importing def -> imported def

	// Types, Ownership and Derives are filled in by Pass B, C and D
	// respectively; nil until that pass has run at least once.
	Types     *TypeTable
	Ownership *OwnershipTable
	Derives   *DeriveTable
}

// NewTables returns an empty arena, the Tables prior passed to the very
// first PassA call of a compile session.
func NewTables() *Tables {
	return &Tables{
		ByName: map[string][]DefID{},
		Edges:  map[DefID][]DefID{},
	}
}

// clone returns a shallow copy of t so a pass can append to Defs/ByName/
// Edges without mutating the Tables a concurrent query still holds a
// reference to (the querydb memoizes each pass's *Tables by identity).
func (t *Tables) clone() *Tables {
	n := &Tables{
		Defs:      append([]Def(nil), t.Defs...),
		ByName:    make(map[string][]DefID, len(t.ByName)),
		Edges:     make(map[DefID][]DefID, len(t.Edges)),
		Types:     t.Types,
		Ownership: t.Ownership,
		Derives:   t.Derives,
	}
	for k, v := range t.ByName {
		n.ByName[k] = append([]DefID(nil), v...)
	}
	for k, v := range t.Edges {
		n.Edges[k] = append([]DefID(nil), v...)
	}
	return n
}

func (t *Tables) add(d Def) DefID {
	id := DefID(len(t.Defs))
	d.ID = id
	t.Defs = append(t.Defs, d)
	t.ByName[d.Name] = append(t.ByName[d.Name], id)
	return id
}

// Def returns the Def for id.
func (t *Tables) Def(id DefID) Def { return t.Defs[id] }

// Lookup returns every Def registered under the unqualified name.
func (t *Tables) Lookup(name string) ([]Def, bool) {
	ids, ok := t.ByName[name]
	if !ok {
		return nil, false
	}
	defs := make([]Def, len(ids))
	for i, id := range ids {
		defs[i] = t.Defs[id]
	}
	return defs, true
}

// Names returns every unqualified name currently registered, for Suggest
// candidate lists.
func (t *Tables) Names() []string {
	names := make([]string, 0, len(t.ByName))
	for n := range t.ByName {
		names = append(names, n)
	}
	return names
}

// PassA resolves one parsed unit's module tree, registers every top-level
// (and nested-mod) declaration as a Def, and resolves its use-items against
// the name table accumulated so far. It is re-run, and its result re-merged,
// every time a unit's parse tree changes; the querydb depends on PassA's
// result keyed by unit ID + version so downstream passes invalidate
// together.
func PassA(unit *ast.File, prior *Tables) (*Tables, []diag.Diagnostic) {
	tables := prior
	if tables == nil {
		tables = NewTables()
	} else {
		tables = tables.clone()
	}

	collectItems(tables, unit.Items, unit.Unit, "")

	var diags []diag.Diagnostic
	walkUses(tables, unit.Items, "", &diags)

	return tables, diags
}

func collectItems(t *Tables, items []ast.Item, unitName, module string) {
	for _, it := range items {
		switch v := it.(type) {
		case *ast.FuncItem:
			t.add(Def{Name: v.Name, Kind: DefFunc, Module: module, Unit: unitName, Pub: v.Pub, Sp: v.Sp, Item: v})
		case *ast.StructItem:
			t.add(Def{Name: v.Name, Kind: DefStruct, Module: module, Unit: unitName, Pub: v.Pub, Sp: v.Sp, Item: v})
		case *ast.EnumItem:
			t.add(Def{Name: v.Name, Kind: DefEnum, Module: module, Unit: unitName, Pub: v.Pub, Sp: v.Sp, Item: v})
			for _, variant := range v.Variants {
				t.add(Def{
					Name:   v.Name + "::" + variant.Name,
					Kind:   DefVariant,
					Module: module,
					Unit:   unitName,
					Pub:    v.Pub,
					Sp:     variant.Sp,
				})
			}
		case *ast.TraitItem:
			t.add(Def{Name: v.Name, Kind: DefTrait, Module: module, Unit: unitName, Pub: v.Pub, Sp: v.Sp, Item: v})
		case *ast.ConstItem:
			t.add(Def{Name: v.Name, Kind: DefConst, Module: module, Unit: unitName, Pub: v.Pub, Sp: v.Sp, Item: v})
		case *ast.TypeAliasItem:
			t.add(Def{Name: v.Name, Kind: DefTypeAlias, Module: module, Unit: unitName, Pub: v.Pub, Sp: v.Sp, Item: v})
		case *ast.ModItem:
			sub := v.Name
			if module != "" {
				sub = module + "::" + v.Name
			}
			t.add(Def{Name: v.Name, Kind: DefMod, Module: module, Unit: unitName, Pub: v.Pub, Sp: v.Sp, Item: v})
			collectItems(t, v.Items, unitName, sub)
		case *ast.ImplItem, *ast.UseItem:
			// ImplItem methods resolve against their Type's struct/enum def
			// lazily at call sites (Pass B); UseItems are resolved below.
		}
	}
}

// walkUses resolves every UseItem's imported name(s) against tables,
// emitting WJ0200 with a Suggest-backed fix when nothing matches.
func walkUses(t *Tables, items []ast.Item, module string, diags *[]diag.Diagnostic) {
	for _, it := range items {
		switch v := it.(type) {
		case *ast.UseItem:
			resolveUse(t, v, diags)
		case *ast.ModItem:
			sub := v.Name
			if module != "" {
				sub = module + "::" + v.Name
			}
			walkUses(t, v.Items, sub, diags)
		}
	}
}

func resolveUse(t *Tables, u *ast.UseItem, diags *[]diag.Diagnostic) {
	if len(u.Segments) == 0 {
		return
	}
	if u.Glob || u.Group != nil {
		// Glob and brace-group imports are resolved lazily per referencing
		// identifier in Pass B (they may legitimately name a crate this
		// compile session never parsed, e.g. a stdlib/target-crate path);
		// ambiguity between two globs is WJ0201, raised there once both
		// candidate sets are known.
		return
	}

	leaf := u.Segments[len(u.Segments)-1]
	if _, ok := t.Lookup(leaf); ok {
		return
	}
	// Only flag names that look like they belong to this compile session
	// (single-segment or a module path already registered); a multi-segment
	// path whose head isn't a known module is assumed to be an external
	// crate path and is left to the backend to resolve.
	if len(u.Segments) > 1 {
		head := u.Segments[0]
		if _, ok := t.Lookup(head); !ok {
			return
		}
	}

	msg := fmt.Sprintf("cannot find %q in scope", leaf)
	d := diag.New("WJ0200", u.Sp, "%s", msg)
	if sug, ok := diag.Suggest(leaf, t.Names(), 2); ok {
		d = d.WithFix(diag.Fix{
			Description: fmt.Sprintf("rename to %q", sug),
			Span:        u.Sp,
			Replacement: sug,
		})
	}
	*diags = append(*diags, d)
}
