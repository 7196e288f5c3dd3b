package querydb

import (
	"github.com/oxhq/windjammer/internal/analyzer"
	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/diag"
	"github.com/oxhq/windjammer/internal/lexer"
	"github.com/oxhq/windjammer/internal/parser"
	"github.com/oxhq/windjammer/internal/source"
	"github.com/oxhq/windjammer/internal/token"
)

func parseUnit(u *source.Unit) (*ast.File, []diag.Diagnostic) {
	lx := lexer.New(u.Path, u.Text())
	toks := lx.Tokenize()

	var diags []diag.Diagnostic
	for _, err := range lx.Errors() {
		diags = append(diags, lexErrDiag(err))
	}

	file, perrs := parser.Parse(u.Path, toks)
	for _, err := range perrs {
		diags = append(diags, parseErrDiag(err))
	}
	return file, diags
}

func lexErrDiag(err error) diag.Diagnostic {
	if e, ok := err.(*lexer.Error); ok {
		return diag.New("WJ0001", e.Span, "%s", e.Message)
	}
	return diag.Wrap("WJ0900", token.Span{}, "lex error", err)
}

func parseErrDiag(err error) diag.Diagnostic {
	if e, ok := err.(*parser.Error); ok {
		return diag.New("WJ0100", e.Span, "%s", e.Message)
	}
	return diag.Wrap("WJ0900", token.Span{}, "parse error", err)
}

// currentTables returns the DB's accumulated analyzer tables, or a fresh
// empty set on first access.
func (db *DB) currentTables() *analyzer.Tables {
	if t := db.tables.Load(); t != nil {
		return t
	}
	return analyzer.NewTables()
}

// runPass threads unit's AST through a single analyzer pass, memoized on
// the unit's version, and folds the resulting Tables back into the DB's
// running session-wide table set (each pass's clone-on-write contract
// means this is always additive/tightening, never a regression).
func runPass(db *DB, path string, kind Kind, pass func(*ast.File, *analyzer.Tables) (*analyzer.Tables, []diag.Diagnostic)) ([]diag.Diagnostic, error) {
	u, ok := db.Unit(path)
	if !ok {
		return nil, errNoUnit(path)
	}
	file, parseDiags := db.AST(path)
	if file == nil {
		return parseDiags, nil
	}

	key := Key{Kind: kind, ID: path}
	if cached, ok := db.snapshot.Load(path, kind, int64(u.Version)); ok {
		db.hits.Add(1)
		return append(parseDiags, cached...), nil
	}
	diags, _ := compute(db, key, int64(u.Version), func(ctx *Ctx) ([]diag.Diagnostic, []diag.Diagnostic) {
		ctx.Depend(Key{Kind: KindParse, ID: path})
		tables, d := pass(file, db.currentTables())
		db.tables.Store(tables)
		return d, d
	})
	if err := db.snapshot.Save(path, kind, int64(u.Version), diags); err != nil {
		return nil, err
	}
	return append(parseDiags, diags...), nil
}

// Resolve runs Pass A (module/use resolution) over path.
func (db *DB) Resolve(path string) ([]diag.Diagnostic, error) {
	return runPass(db, path, KindResolve, analyzer.PassA)
}

// Types runs Pass B (local type reconstruction) over path, after Resolve.
func (db *DB) Types(path string) ([]diag.Diagnostic, error) {
	if _, err := db.Resolve(path); err != nil {
		return nil, err
	}
	return runPass(db, path, KindTypes, analyzer.PassB)
}

// Ownership runs Pass C (ownership/mutability/borrow-mode inference) over
// path, after Types.
func (db *DB) Ownership(path string) ([]diag.Diagnostic, error) {
	if _, err := db.Types(path); err != nil {
		return nil, err
	}
	return runPass(db, path, KindOwnership, analyzer.PassC)
}

// Derives runs Pass D (auto-derive inference) over path, after Ownership.
func (db *DB) Derives(path string) ([]diag.Diagnostic, error) {
	if _, err := db.Ownership(path); err != nil {
		return nil, err
	}
	return runPass(db, path, KindDerives, analyzer.PassD)
}

// Diagnostics runs every analyzer pass over path, including Pass E
// (diagnostic emission over the settled ownership/derive facts), and
// returns every diagnostic the whole pipeline produced for it.
func (db *DB) Diagnostics(path string) ([]diag.Diagnostic, error) {
	if _, err := db.Derives(path); err != nil {
		return nil, err
	}
	return runPass(db, path, KindDiagnostics, analyzer.PassE)
}

// Tables returns the current session-wide analyzer tables, settled as of
// the last pass run against any open unit.
func (db *DB) Tables() *analyzer.Tables {
	return db.currentTables()
}

type unitError struct{ path string }

func (e *unitError) Error() string { return "querydb: no such open unit: " + e.path }

func errNoUnit(path string) error { return &unitError{path: path} }
