// Package querydb implements the incremental query database shared by the
// CLI, LSP, and MCP front-ends: every compiler pass is a memoized query
// keyed by a source unit's path and content version. Memoization is per
// unit: editing any part of a unit recomputes every query of that unit.
//
// Grounded on the teacher's providers/base.ASTCache (a sync.Map-backed,
// lock-free cache of parsed trees keyed by content hash, with hit/miss/
// eviction counters), generalized from "cache one parsed tree" to "memoize
// an arbitrary chain of compiler queries with dependency tracking".
package querydb

import (
	"sync"
	"sync/atomic"

	"github.com/oxhq/windjammer/internal/analyzer"
	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/diag"
	"github.com/oxhq/windjammer/internal/source"
	"github.com/oxhq/windjammer/internal/token"
)

// Kind identifies which query produced a given cache entry.
type Kind int

const (
	KindTokens Kind = iota
	KindParse
	KindResolve
	KindTypes
	KindOwnership
	KindDerives
	KindCodegen
	KindDiagnostics
)

func (k Kind) String() string {
	switch k {
	case KindTokens:
		return "tokens"
	case KindParse:
		return "parse"
	case KindResolve:
		return "resolve"
	case KindTypes:
		return "types"
	case KindOwnership:
		return "ownership"
	case KindDerives:
		return "derives"
	case KindCodegen:
		return "codegen"
	case KindDiagnostics:
		return "all_diagnostics"
	default:
		return "unknown"
	}
}

// Key identifies one memoized query result: a Kind plus the path of the
// unit it was computed for. Every query, the analyzer passes included, is
// keyed per unit.
type Key struct {
	Kind Kind
	ID   string
}

// entry is a single memoized slot: a generation stamp (the source version
// it was computed against) plus the computed value and any diagnostics.
type entry struct {
	generation int64
	value      any
	diags      []diag.Diagnostic
}

// Stats mirrors the teacher's ASTCache.Stats() hit/miss/eviction counters,
// generalized across every query kind rather than just parsing.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

// DB is the incremental query database. One DB instance backs one compile
// session (one CLI invocation, or one long-lived LSP/MCP server process).
type DB struct {
	units   sync.Map // unit path -> *source.Unit
	results sync.Map // Key -> *entry
	locks   *lockStripe
	deps    sync.Map // Key -> map[Key]struct{} (what this key's computation read)

	tables atomic.Pointer[analyzer.Tables]

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64

	snapshot *Snapshot
}

// New returns an empty query database.
func New() *DB {
	return &DB{locks: newLockStripe(64)}
}

// AttachSnapshot wires a persistent warm-start cache: every subsequent
// pass result is loaded from/saved to snap instead of recomputing from
// scratch when the on-disk generation still matches.
func (db *DB) AttachSnapshot(snap *Snapshot) {
	db.snapshot = snap
}

// Stats reports the database's cumulative hit/miss/eviction counters.
func (db *DB) Stats() Stats {
	return Stats{
		Hits:      db.hits.Load(),
		Misses:    db.misses.Load(),
		Evictions: db.evictions.Load(),
	}
}

// Open registers (or replaces) a source unit, bumping its version so every
// query keyed to it is invalidated on next access.
func (db *DB) Open(path, text string) *source.Unit {
	u := source.New(path, text)
	if prior, ok := db.units.Load(path); ok {
		u.Version = prior.(*source.Unit).Version + 1
	}
	db.units.Store(path, u)
	db.invalidateUnit(path)
	return u
}

// Edit updates an already-open unit's text in place, bumping its version.
// It behaves exactly like Open: callers that only changed a small region
// still pay for a whole-unit re-lex/re-parse and a rerun of every analyzer
// pass, all of which are keyed by unit path.
func (db *DB) Edit(path, text string) *source.Unit {
	return db.Open(path, text)
}

// Unit returns the currently open unit for path, if any.
func (db *DB) Unit(path string) (*source.Unit, bool) {
	v, ok := db.units.Load(path)
	if !ok {
		return nil, false
	}
	return v.(*source.Unit), true
}

// invalidateUnit drops every cached query result keyed to path, and
// transitively anything that recorded a dependency on one of those keys.
// There is no early cutoff: dependents are dropped whether or not their
// inputs would recompute to the same value.
func (db *DB) invalidateUnit(path string) {
	var dropped []Key
	db.results.Range(func(k, _ any) bool {
		key := k.(Key)
		if key.ID == path {
			dropped = append(dropped, key)
		}
		return true
	})
	for _, key := range dropped {
		db.invalidateKey(key)
	}
}

func (db *DB) invalidateKey(key Key) {
	if _, ok := db.results.LoadAndDelete(key); ok {
		db.evictions.Add(1)
	}
	var dependents []Key
	db.deps.Range(func(k, v any) bool {
		set := v.(map[Key]struct{})
		if _, ok := set[key]; ok {
			dependents = append(dependents, k.(Key))
		}
		return true
	})
	for _, dep := range dependents {
		db.invalidateKey(dep)
	}
}

// Ctx is threaded through query computations so they can record which
// other keys they read (§9's dependency tracking, backing invalidation).
type Ctx struct {
	db   *DB
	self Key
	read map[Key]struct{}
}

// Depend records that the computation producing ctx's own key read the
// result of dependency — used on invalidation to transitively drop
// dependents of a changed key.
func (ctx *Ctx) Depend(dependency Key) {
	ctx.read[dependency] = struct{}{}
}

// compute runs fn under the striped lock for key, double-checking the
// cache after acquiring the lock (the teacher's execWithRetry pattern,
// generalized from "retry a locked sqlite write" to "don't race a
// concurrent recomputation of the same key").
func compute[T any](db *DB, key Key, generation int64, fn func(ctx *Ctx) (T, []diag.Diagnostic)) (T, []diag.Diagnostic) {
	if e, ok := db.results.Load(key); ok {
		if cached := e.(*entry); cached.generation == generation {
			db.hits.Add(1)
			return cached.value.(T), cached.diags
		}
	}

	mu := db.locks.for_(key)
	mu.Lock()
	defer mu.Unlock()

	if e, ok := db.results.Load(key); ok {
		if cached := e.(*entry); cached.generation == generation {
			db.hits.Add(1)
			return cached.value.(T), cached.diags
		}
	}

	db.misses.Add(1)
	ctx := &Ctx{db: db, self: key, read: make(map[Key]struct{})}
	value, diags := fn(ctx)
	db.deps.Store(key, ctx.read)
	db.results.Store(key, &entry{generation: generation, value: value, diags: diags})
	return value, diags
}

// AST returns the parsed file for path, lexing and parsing it if this is
// the first access (or the unit changed since the last one).
func (db *DB) AST(path string) (*ast.File, []diag.Diagnostic) {
	u, ok := db.Unit(path)
	if !ok {
		return nil, []diag.Diagnostic{diag.New("WJ0900", token.Span{}, "no such open unit: %s", path)}
	}
	key := Key{Kind: KindParse, ID: path}
	return compute(db, key, int64(u.Version), func(ctx *Ctx) (*ast.File, []diag.Diagnostic) {
		return parseUnit(u)
	})
}
