// Package core orchestrates one end-to-end compile: Lex -> Parse -> Resolve
// -> TypeCheck -> InferOwnership -> InferDerives -> Diagnose -> CodeGen,
// threading a single querydb.DB through every stage so the CLI, LSP, and
// MCP front-ends all drive the same incremental pipeline.
//
// Grounded on the teacher's internal/core.Pipeline (an 8-step deterministic
// Apply pipeline: parse -> resolve operation -> select anchors -> plan
// edits -> detect overlaps -> apply edits -> post-process -> generate
// diff/finalize), generalized from "rewrite one file via tree-sitter
// queries" to "compile one file through the semantic analyzer and a
// pluggable target backend".
package core

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/oxhq/windjammer/internal/diag"
	"github.com/oxhq/windjammer/internal/querydb"
	"github.com/oxhq/windjammer/providers"
)

// Engine carries metadata about the compiler build that produced a result,
// grounded on the teacher's core.Engine{Version,Provider,Timestamp}.
type Engine struct {
	Version   string    `json:"version"`
	Target    string    `json:"target"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats mirrors the teacher's core.Stats execution counters, generalized
// from "bytes/lines processed by a text edit" to "units compiled".
type Stats struct {
	BytesProcessed int64         `json:"bytes_processed"`
	LinesProcessed int           `json:"lines_processed"`
	Duration       time.Duration `json:"duration"`
}

// Result is the core compile output for one unit, grounded on the
// teacher's core.PipelineResult.
type Result struct {
	Path        string            `json:"path"`
	CodeOut     string            `json:"code_out"`
	Hash        string            `json:"hash"`
	Manifest    string            `json:"manifest,omitempty"`
	Diagnostics []diag.Diagnostic `json:"diagnostics,omitempty"`
	Stats       Stats             `json:"stats"`
	Engine      Engine            `json:"engine"`
}

// Compiler threads a querydb.DB and a target providers.Backend through the
// Lex -> Parse -> Resolve -> TypeCheck -> InferOwnership -> InferDerives ->
// Diagnose -> CodeGen pipeline. A context.Context bounds each Compile call,
// grounded on the teacher's pervasive context.Context threading
// (parser.ParseCtx(context.TODO(), ...), cli.Runner.Run(ctx, ...)).
type Compiler struct {
	DB      *querydb.DB
	Backend providers.Backend
	Log     *slog.Logger
}

// NewCompiler builds a Compiler over a fresh query database targeting
// backend. A nil logger installs a discard logger.
func NewCompiler(backend providers.Backend, log *slog.Logger) *Compiler {
	if log == nil {
		log = slog.New(slog.NewTextHandler(discardWriter{}, nil))
	}
	return &Compiler{DB: querydb.New(), Backend: backend, Log: log}
}

// AttachSnapshot wires a persistent warm-start cache into the compiler's
// query database.
func (c *Compiler) AttachSnapshot(snap *querydb.Snapshot) {
	c.DB.AttachSnapshot(snap)
}

// Compile runs the full pipeline over the named unit, which must already be
// open in c.DB (via DB.Open). It returns a Result even on diagnostic-only
// failures; codegen is only skipped when a prior pass reports an error-
// severity diagnostic, since emitting Rust for a program with unresolved
// names or failed ownership inference would just produce garbage.
func (c *Compiler) Compile(ctx context.Context, path string) (*Result, error) {
	start := time.Now()
	c.Log.DebugContext(ctx, "compile starting", "unit", path)

	u, ok := c.DB.Unit(path)
	if !ok {
		return nil, fmt.Errorf("core: unit not open: %s", path)
	}

	diags, err := c.DB.Diagnostics(path)
	if err != nil {
		return nil, fmt.Errorf("core: analyze %s: %w", path, err)
	}

	result := &Result{
		Path:        path,
		Diagnostics: diags,
		Stats: Stats{
			BytesProcessed: int64(len(u.Text())),
			LinesProcessed: countLines(u.Text()),
		},
		Engine: Engine{Version: Version, Target: c.Backend.Name(), Timestamp: start},
	}

	if diag.HasErrors(diags) {
		c.Log.WarnContext(ctx, "compile halted before codegen", "unit", path, "diagnostics", len(diags))
		result.Stats.Duration = time.Since(start)
		return result, nil
	}

	file, parseDiags := c.DB.AST(path)
	if file == nil {
		result.Diagnostics = append(result.Diagnostics, parseDiags...)
		result.Stats.Duration = time.Since(start)
		return result, nil
	}

	code, genDiags := c.Backend.Emit(file, c.DB.Tables())
	result.Diagnostics = append(result.Diagnostics, genDiags...)
	result.CodeOut = code
	result.Hash = fmt.Sprintf("%x", sha256.Sum256([]byte(code)))
	result.Stats.Duration = time.Since(start)

	c.Log.InfoContext(ctx, "compile finished", "unit", path, "duration", result.Stats.Duration, "diagnostics", len(result.Diagnostics))
	return result, nil
}

func countLines(s string) int {
	n := 1
	for _, r := range s {
		if r == '\n' {
			n++
		}
	}
	return n
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
