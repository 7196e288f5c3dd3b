package codegen

import (
	"strings"

	"github.com/oxhq/windjammer/internal/ast"
)

// typeText renders t as a Rust type expression. Windjammer's builtin numeric
// and string type names already match the corresponding Rust primitives
// (i32, u64, f64, ...) except for "string", which maps to Rust's owned
// "String".
func typeText(t ast.Type) string {
	if t == nil {
		return "()"
	}
	switch v := t.(type) {
	case *ast.NamedType:
		name := rustPrimitiveName(strings.Join(v.Segments, "::"))
		if len(v.Generics) == 0 {
			return name
		}
		parts := make([]string, len(v.Generics))
		for i, g := range v.Generics {
			parts[i] = typeText(g)
		}
		return name + "<" + strings.Join(parts, ", ") + ">"
	case *ast.TupleType:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = typeText(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.ArrayType:
		if v.Size != nil {
			return "[" + typeText(v.Elem) + "; " + exprText(v.Size) + "]"
		}
		return "Vec<" + typeText(v.Elem) + ">"
	case *ast.FuncType:
		parts := make([]string, len(v.Params))
		for i, p := range v.Params {
			parts[i] = typeText(p)
		}
		return "fn(" + strings.Join(parts, ", ") + ") -> " + typeText(v.Return)
	case *ast.RefType:
		if v.Mut {
			return "&mut " + typeText(v.Elem)
		}
		return "&" + typeText(v.Elem)
	case *ast.OptionType:
		return "Option<" + typeText(v.Elem) + ">"
	case *ast.ResultType:
		return "Result<" + typeText(v.Ok) + ", " + typeText(v.Err) + ">"
	case *ast.ImplTraitType:
		return "impl " + boundsText(v.Bounds)
	case *ast.DynTraitType:
		return "dyn " + boundsText(v.Bounds)
	case *ast.SelfType:
		return "Self"
	default:
		return "()"
	}
}

func boundsText(bounds []ast.Type) string {
	parts := make([]string, len(bounds))
	for i, b := range bounds {
		parts[i] = typeText(b)
	}
	return strings.Join(parts, " + ")
}

// rustPrimitiveName maps a Windjammer builtin type name to its Rust
// spelling; any other name (a user struct/enum, a module-qualified path)
// passes through unchanged with "::" segment separators already matching
// Rust's own module syntax. "int"/"float" are the language's default
// numeric aliases and lower to Rust's own defaults, i64/f64.
func rustPrimitiveName(name string) string {
	switch name {
	case "string":
		return "String"
	case "int":
		return "i64"
	case "float":
		return "f64"
	default:
		return name
	}
}
