package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/oxhq/windjammer/internal/analyzer"
	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/diag"
)

// unitPath is the single virtual document every MCP tool call edits,
// grounded on the teacher's CommonSchemas.Source ("Source code, for
// in-memory mode") — Windjammer's MCP surface only ever operates on
// in-memory source text passed by the client, never a file writer mode.
const unitPath = "mcp://session"

// commonSchemas mirrors the teacher's tools.CommonSchemas: reusable
// property fragments shared by more than one tool's input schema.
var commonSchemas = struct {
	Source map[string]any
	Line   map[string]any
	Col    map[string]any
}{
	Source: map[string]any{"type": "string", "description": "Windjammer source code"},
	Line:   map[string]any{"type": "integer", "description": "zero-based line number"},
	Col:    map[string]any{"type": "integer", "description": "zero-based character offset"},
}

func schema(props map[string]any, required ...string) map[string]any {
	return map[string]any{"type": "object", "properties": props, "required": required}
}

// RegisterAll installs every built-in Windjammer tool into reg, grounded on
// the teacher's tools.RegisterAll.
func RegisterAll(reg *ToolRegistry, srv ServerInterface) {
	reg.Register("parse_code", newParseCodeTool(srv))
	reg.Register("analyze_types", newAnalyzeTypesTool(srv))
	reg.Register("get_definition", newGetDefinitionTool(srv))
	reg.Register("search_workspace", newSearchWorkspaceTool(srv))
	reg.Register("explain_error", newExplainErrorTool(srv))
	reg.Register("generate_code", newGenerateCodeTool(srv))
	reg.Register("extract_function", newExtractFunctionTool(srv))
	reg.Register("inline_variable", newInlineVariableTool(srv))
	reg.Register("rename_symbol", newRenameSymbolTool(srv))
}

// --- parse_code ---

type parseCodeParams struct {
	Source string `json:"source"`
}

func newParseCodeTool(srv ServerInterface) Tool {
	return newTool("parse_code",
		"Lex and parse Windjammer source, reporting lexer/parser diagnostics and the top-level item names.",
		schema(map[string]any{"source": commonSchemas.Source}, "source"),
		func(ctx context.Context, raw json.RawMessage) (any, error) {
			p, err := ParseParams[parseCodeParams](raw)
			if err != nil {
				return nil, WrapError(InvalidParams, "invalid parse_code params", err)
			}
			db := srv.DB()
			db.Open(unitPath, p.Source)
			file, diags := db.AST(unitPath)

			var items []string
			if file != nil {
				for _, it := range file.Items {
					items = append(items, itemName(it))
				}
			}
			structured := map[string]any{"items": items, "diagnostics": diags}
			return textResult(fmt.Sprintf("parsed %d item(s), %d diagnostic(s)", len(items), len(diags)), structured), nil
		})
}

func itemName(it ast.Item) string {
	switch n := it.(type) {
	case *ast.FuncItem:
		return "fn " + n.Name
	case *ast.StructItem:
		return "struct " + n.Name
	case *ast.EnumItem:
		return "enum " + n.Name
	case *ast.TraitItem:
		return "trait " + n.Name
	case *ast.ImplItem:
		return "impl"
	case *ast.ModItem:
		return "mod " + n.Name
	case *ast.ConstItem:
		return "const " + n.Name
	case *ast.UseItem:
		return "use"
	case *ast.TypeAliasItem:
		return "type " + n.Name
	default:
		return "item"
	}
}

// --- analyze_types ---

type analyzeTypesParams struct {
	Source string `json:"source"`
}

func newAnalyzeTypesTool(srv ServerInterface) Tool {
	return newTool("analyze_types",
		"Run resolution and local type reconstruction (Pass A/B) over Windjammer source and report every diagnostic produced.",
		schema(map[string]any{"source": commonSchemas.Source}, "source"),
		func(ctx context.Context, raw json.RawMessage) (any, error) {
			p, err := ParseParams[analyzeTypesParams](raw)
			if err != nil {
				return nil, WrapError(InvalidParams, "invalid analyze_types params", err)
			}
			db := srv.DB()
			db.Open(unitPath, p.Source)
			diags, err := db.Types(unitPath)
			if err != nil {
				return errResult(err.Error()), nil
			}
			return textResult(fmt.Sprintf("%d diagnostic(s)", len(diags)), map[string]any{"diagnostics": diags}), nil
		})
}

// --- get_definition ---

type getDefinitionParams struct {
	Source string `json:"source"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func newGetDefinitionTool(srv ServerInterface) Tool {
	return newTool("get_definition",
		"Resolve the identifier at a line/column to its defining declaration.",
		schema(map[string]any{
			"source": commonSchemas.Source,
			"line":   commonSchemas.Line,
			"column": commonSchemas.Col,
		}, "source", "line", "column"),
		func(ctx context.Context, raw json.RawMessage) (any, error) {
			p, err := ParseParams[getDefinitionParams](raw)
			if err != nil {
				return nil, WrapError(InvalidParams, "invalid get_definition params", err)
			}
			db := srv.DB()
			db.Open(unitPath, p.Source)
			if _, err := db.Resolve(unitPath); err != nil {
				return errResult(err.Error()), nil
			}
			file, _ := db.AST(unitPath)
			name, ok := identAtLineCol(file, p.Line+1, p.Column+1)
			if !ok {
				return textResult("no identifier at that position", nil), nil
			}
			defs, ok := db.Tables().Lookup(name)
			if !ok || len(defs) == 0 {
				return textResult(fmt.Sprintf("%q has no known definition", name), nil), nil
			}
			d := defs[0]
			return textResult(fmt.Sprintf("%s defined at line %d, column %d", d.QualifiedName(), d.Sp.Line, d.Sp.Column),
				map[string]any{"name": d.QualifiedName(), "kind": d.Kind.String(), "line": d.Sp.Line, "column": d.Sp.Column}), nil
		})
}

// --- search_workspace ---

type searchWorkspaceParams struct {
	Source  string `json:"source"`
	Pattern string `json:"pattern"`
}

func newSearchWorkspaceTool(srv ServerInterface) Tool {
	return newTool("search_workspace",
		"Search declared definition names against a glob pattern (supports wildcards like Fetch* or *::new).",
		schema(map[string]any{
			"source":  commonSchemas.Source,
			"pattern": map[string]any{"type": "string", "description": "glob pattern, e.g. \"Fetch*\""},
		}, "source", "pattern"),
		func(ctx context.Context, raw json.RawMessage) (any, error) {
			p, err := ParseParams[searchWorkspaceParams](raw)
			if err != nil {
				return nil, WrapError(InvalidParams, "invalid search_workspace params", err)
			}
			db := srv.DB()
			db.Open(unitPath, p.Source)
			if _, err := db.Resolve(unitPath); err != nil {
				return errResult(err.Error()), nil
			}
			names := db.Tables().Names()
			sort.Strings(names)

			var matches []string
			for _, name := range names {
				ok, err := doublestar.Match(p.Pattern, name)
				if err != nil {
					return nil, WrapError(InvalidParams, "invalid glob pattern", err)
				}
				if ok {
					matches = append(matches, name)
				}
			}
			return textResult(strings.Join(matches, "\n"), map[string]any{"matches": matches}), nil
		})
}

// --- explain_error ---

type explainErrorParams struct {
	Code string `json:"code"`
}

func newExplainErrorTool(srv ServerInterface) Tool {
	return newTool("explain_error",
		"Look up a WJNNNN diagnostic code's short and long explanation.",
		schema(map[string]any{"code": map[string]any{"type": "string", "description": "diagnostic code, e.g. WJ0501"}}, "code"),
		func(ctx context.Context, raw json.RawMessage) (any, error) {
			p, err := ParseParams[explainErrorParams](raw)
			if err != nil {
				return nil, WrapError(InvalidParams, "invalid explain_error params", err)
			}
			code := strings.ToUpper(strings.TrimSpace(p.Code))
			exp, ok := diag.Catalog[code]
			if !ok {
				return errResult(fmt.Sprintf("unknown diagnostic code %q", code)), nil
			}
			return textResult(fmt.Sprintf("%s: %s\n\n%s", exp.Code, exp.Short, exp.Long), exp), nil
		})
}

// --- generate_code ---

type generateCodeParams struct {
	Source string `json:"source"`
}

func newGenerateCodeTool(srv ServerInterface) Tool {
	return newTool("generate_code",
		"Run the full compile pipeline and return the generated target source plus its build manifest.",
		schema(map[string]any{"source": commonSchemas.Source}, "source"),
		func(ctx context.Context, raw json.RawMessage) (any, error) {
			p, err := ParseParams[generateCodeParams](raw)
			if err != nil {
				return nil, WrapError(InvalidParams, "invalid generate_code params", err)
			}
			comp := srv.Compiler()
			comp.DB.Open(unitPath, p.Source)
			result, err := comp.Compile(ctx, unitPath)
			if err != nil {
				return errResult(err.Error()), nil
			}
			if diag.HasErrors(result.Diagnostics) {
				return textResult("compile halted before codegen: diagnostics present", result), nil
			}
			manifest, err := comp.Backend.Manifest(nil)
			if err != nil {
				return nil, WrapError(InternalError, "manifest synthesis failed", err)
			}
			result.Manifest = manifest
			return textResult(result.CodeOut, result), nil
		})
}

// --- extract_function ---

type extractFunctionParams struct {
	Source    string `json:"source"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	Name      string `json:"name"`
}

func newExtractFunctionTool(srv ServerInterface) Tool {
	return newTool("extract_function",
		"Extract the statements between startLine and endLine (inclusive, zero-based) inside the enclosing function into a new function, replacing them with a call.",
		schema(map[string]any{
			"source":    commonSchemas.Source,
			"startLine": commonSchemas.Line,
			"endLine":   commonSchemas.Line,
			"name":      map[string]any{"type": "string", "description": "name for the extracted function"},
		}, "source", "startLine", "endLine", "name"),
		func(ctx context.Context, raw json.RawMessage) (any, error) {
			p, err := ParseParams[extractFunctionParams](raw)
			if err != nil {
				return nil, WrapError(InvalidParams, "invalid extract_function params", err)
			}
			db := srv.DB()
			db.Open(unitPath, p.Source)
			file, _ := db.AST(unitPath)
			if file == nil {
				return errResult("source failed to parse"), nil
			}

			startLine, endLine := p.StartLine+1, p.EndLine+1
			startByte := byteOffsetOfLine(p.Source, startLine)
			endByte := byteOffsetOfLine(p.Source, endLine+1)
			fn, block := enclosingFunc(file, startByte, endByte)
			if fn == nil || block == nil {
				return errResult("no enclosing function covers that line range"), nil
			}
			stmts := stmtsInByteRange(block, startByte, endByte)
			if len(stmts) == 0 {
				return errResult("no statements found in that line range"), nil
			}

			extractStart := stmts[0].Span().StartByte
			extractEnd := stmts[len(stmts)-1].Span().EndByte
			body := p.Source[extractStart:extractEnd]
			call := fmt.Sprintf("%s()", p.Name)
			newFunc := fmt.Sprintf("\nfn %s() {\n%s\n}\n", p.Name, body)

			edited := p.Source[:extractStart] + call + p.Source[extractEnd:]
			shift := len(call) - (extractEnd - extractStart)
			insertAt := fn.Span().EndByte + shift
			if insertAt > len(edited) {
				insertAt = len(edited)
			}
			edited = edited[:insertAt] + newFunc + edited[insertAt:]

			return textResult(edited, map[string]any{"source": edited}), nil
		})
}

// --- inline_variable ---

type inlineVariableParams struct {
	Source string `json:"source"`
	Name   string `json:"name"`
}

func newInlineVariableTool(srv ServerInterface) Tool {
	return newTool("inline_variable",
		"Replace every use of a let-bound local with its initializer expression and remove the binding.",
		schema(map[string]any{
			"source": commonSchemas.Source,
			"name":   map[string]any{"type": "string", "description": "local variable name to inline"},
		}, "source", "name"),
		func(ctx context.Context, raw json.RawMessage) (any, error) {
			p, err := ParseParams[inlineVariableParams](raw)
			if err != nil {
				return nil, WrapError(InvalidParams, "invalid inline_variable params", err)
			}
			db := srv.DB()
			db.Open(unitPath, p.Source)
			file, _ := db.AST(unitPath)
			if file == nil {
				return errResult("source failed to parse"), nil
			}

			let, ok := findLet(file, p.Name)
			if !ok {
				return errResult(fmt.Sprintf("no let binding named %q found", p.Name)), nil
			}
			initText := p.Source[let.Value.Span().StartByte:let.Value.Span().EndByte]

			type span struct{ start, end int }
			var idents []span
			analyzer.Walk(file, func(n ast.Node) bool {
				if id, ok := n.(*ast.Ident); ok && id.Name == p.Name && id.Span() != let.Pattern.Span() {
					idents = append(idents, span{id.Span().StartByte, id.Span().EndByte})
				}
				return true
			})
			idents = append(idents, span{let.Span().StartByte, let.Span().EndByte})
			sort.Slice(idents, func(i, j int) bool { return idents[i].start > idents[j].start })

			out := p.Source
			for _, s := range idents {
				if s.start == let.Span().StartByte && s.end == let.Span().EndByte {
					out = out[:s.start] + out[s.end:]
					continue
				}
				out = out[:s.start] + initText + out[s.end:]
			}
			return textResult(out, map[string]any{"source": out}), nil
		})
}

// --- rename_symbol ---

type renameSymbolParams struct {
	Source  string `json:"source"`
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
}

func newRenameSymbolTool(srv ServerInterface) Tool {
	return newTool("rename_symbol",
		"Rename every occurrence of an identifier across the source, including its let/for binding sites (closure parameters and function parameter declarations are out of reach of the AST walk used here and are left untouched).",
		schema(map[string]any{
			"source":  commonSchemas.Source,
			"oldName": map[string]any{"type": "string"},
			"newName": map[string]any{"type": "string"},
		}, "source", "oldName", "newName"),
		func(ctx context.Context, raw json.RawMessage) (any, error) {
			p, err := ParseParams[renameSymbolParams](raw)
			if err != nil {
				return nil, WrapError(InvalidParams, "invalid rename_symbol params", err)
			}
			db := srv.DB()
			db.Open(unitPath, p.Source)
			file, _ := db.AST(unitPath)
			if file == nil {
				return errResult("source failed to parse"), nil
			}

			type span struct{ start, end int }
			var spans []span
			analyzer.Walk(file, func(n ast.Node) bool {
				switch id := n.(type) {
				case *ast.Ident:
					if id.Name == p.OldName {
						spans = append(spans, span{id.Span().StartByte, id.Span().EndByte})
					}
				case *ast.BindingPattern:
					if id.Name == p.OldName {
						spans = append(spans, span{id.Span().StartByte, id.Span().EndByte})
					}
				}
				return true
			})
			if len(spans) == 0 {
				return errResult(fmt.Sprintf("no occurrences of %q found", p.OldName)), nil
			}
			sort.Slice(spans, func(i, j int) bool { return spans[i].start > spans[j].start })

			out := p.Source
			for _, s := range spans {
				out = out[:s.start] + p.NewName + out[s.end:]
			}
			return textResult(out, map[string]any{"source": out, "occurrences": len(spans)}), nil
		})
}

// --- shared AST helpers ---

func identAtLineCol(file *ast.File, line, col int) (string, bool) {
	if file == nil {
		return "", false
	}
	var found string
	analyzer.Walk(file, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			sp := id.Span()
			if sp.Line == line && col >= sp.Column && col <= sp.Column+len(id.Name) {
				found = id.Name
			}
		}
		return true
	})
	return found, found != ""
}

// byteOffsetOfLine returns the byte offset of the start of the given
// 1-based line number within source (clamped to len(source) past EOF).
func byteOffsetOfLine(source string, line int) int {
	if line <= 1 {
		return 0
	}
	seen := 1
	for i, r := range source {
		if r == '\n' {
			seen++
			if seen == line {
				return i + 1
			}
		}
	}
	return len(source)
}

// enclosingFunc finds the innermost *ast.FuncItem whose body's byte range
// fully contains [startByte, endByte).
func enclosingFunc(file *ast.File, startByte, endByte int) (*ast.FuncItem, *ast.Block) {
	var fn *ast.FuncItem
	best := -1
	analyzer.Walk(file, func(n ast.Node) bool {
		f, ok := n.(*ast.FuncItem)
		if !ok || f.Body == nil {
			return true
		}
		sp := f.Body.Span()
		size := sp.EndByte - sp.StartByte
		if sp.StartByte <= startByte && endByte <= sp.EndByte && (best == -1 || size < best) {
			fn, best = f, size
		}
		return true
	})
	if fn == nil {
		return nil, nil
	}
	return fn, fn.Body
}

// stmtsInByteRange returns block's top-level statements that overlap
// [startByte, endByte), in source order.
func stmtsInByteRange(block *ast.Block, startByte, endByte int) []ast.Stmt {
	var out []ast.Stmt
	for _, st := range block.Stmts {
		sp := st.Span()
		if sp.StartByte < endByte && sp.EndByte > startByte {
			out = append(out, st)
		}
	}
	return out
}

// findLet locates the first LetStmt binding name directly (not a nested
// destructuring pattern — inline_variable only supports the common case).
func findLet(file *ast.File, name string) (*ast.LetStmt, bool) {
	var found *ast.LetStmt
	analyzer.Walk(file, func(n ast.Node) bool {
		if found != nil {
			return false
		}
		if let, ok := n.(*ast.LetStmt); ok {
			if bp, ok := let.Pattern.(*ast.BindingPattern); ok && bp.Name == name {
				found = let
				return false
			}
		}
		return true
	})
	return found, found != nil
}
