package codegen

import "github.com/oxhq/windjammer/internal/ast"

// decoratorRule expands one known decorator name to the Rust attribute(s)
// emitted immediately before the decorated item. Unknown decorators fall
// through to a literal passthrough ("#[name(args...)]"), so a user can
// reach for any Rust attribute the compiler doesn't specifically know about
// without the emitter rejecting it.
var decoratorRules = map[string]func(a *ast.Attribute, w *Writer){
	"test": func(a *ast.Attribute, w *Writer) {
		w.Line("#[test]")
	},
	"async": func(a *ast.Attribute, w *Writer) {
		// Handled structurally at the function signature (the "async fn"
		// keyword), not as an attribute; emitted here as a no-op marker so
		// emitDecorators' caller can still detect "this fn is async" by
		// attribute name without a second lookup table.
	},
	"component": func(a *ast.Attribute, w *Writer) {
		w.Line("#[component]")
	},
	"inline": func(a *ast.Attribute, w *Writer) {
		w.Line("#[inline]")
	},
	"cfg": func(a *ast.Attribute, w *Writer) {
		w.Line("#[cfg(%s)]", attrArgsText(a))
	},
	"derive": func(a *ast.Attribute, w *Writer) {
		// Derive emission is computed from analyzer.DeriveTable, not from
		// the raw attribute text (the attribute only carries the user's
		// override, §4.2 Pass D); emitItem calls emitDeriveAttr directly
		// and skips this entry.
	},
}

// emitDecorators writes every attribute in attrs that isn't @derive (derive
// is emitted separately, from the resolved trait set) or @async (structural,
// handled by the caller inspecting hasAsync).
func emitDecorators(attrs []*ast.Attribute, w *Writer) {
	for _, a := range attrs {
		if a.Name == "derive" || a.Name == "async" {
			continue
		}
		if rule, ok := decoratorRules[a.Name]; ok {
			rule(a, w)
			continue
		}
		w.Line("#[%s(%s)]", a.Name, attrArgsText(a))
	}
}

func hasAsyncAttr(attrs []*ast.Attribute) bool {
	for _, a := range attrs {
		if a.Name == "async" {
			return true
		}
	}
	return false
}

func attrArgsText(a *ast.Attribute) string {
	text := ""
	for i, arg := range a.Args {
		if i > 0 {
			text += ", "
		}
		text += exprText(arg)
	}
	return text
}

// exprText renders a decorator argument expression as plain text; decorator
// arguments are restricted to literals and identifiers at the parser level,
// so this is a small, non-recursive subset of full expression emission.
func exprText(x ast.Expr) string {
	switch v := x.(type) {
	case *ast.Ident:
		return v.Name
	case *ast.StringLit:
		text := ""
		for _, seg := range v.Segments {
			text += seg.Text
		}
		return "\"" + text + "\""
	case *ast.IntLit:
		return v.Raw
	case *ast.BoolLit:
		if v.Value {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
