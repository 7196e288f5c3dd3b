package codegen

import (
	"strconv"
	"strings"

	"github.com/oxhq/windjammer/internal/ast"
)

// patternText renders p as a Rust pattern.
func patternText(p ast.Pattern, e *emitter) string {
	switch v := p.(type) {
	case *ast.WildcardPattern:
		return "_"
	case *ast.BindingPattern:
		return v.Name
	case *ast.LiteralPattern:
		return e.exprTextFull(v.Value)
	case *ast.TuplePattern:
		parts := make([]string, len(v.Elems))
		for i, el := range v.Elems {
			parts[i] = patternText(el, e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.StructPattern:
		return structPatternText(strings.Join(v.Type, "::"), v.Fields, v.Rest, e)
	case *ast.EnumVariantPattern:
		path := strings.Join(v.Path, "::")
		if v.Tuple != nil {
			parts := make([]string, len(v.Tuple))
			for i, el := range v.Tuple {
				parts[i] = patternText(el, e)
			}
			return path + "(" + strings.Join(parts, ", ") + ")"
		}
		if v.Fields != nil {
			return structPatternText(path, v.Fields, false, e)
		}
		return path
	case *ast.RangePattern:
		op := ".."
		if v.Inclusive {
			op = "..="
		}
		return e.exprTextFull(v.Lo) + op + e.exprTextFull(v.Hi)
	case *ast.OrPattern:
		parts := make([]string, len(v.Alternatives))
		for i, alt := range v.Alternatives {
			parts[i] = patternText(alt, e)
		}
		return strings.Join(parts, " | ")
	default:
		return "_"
	}
}

func structPatternText(path string, fields []ast.StructFieldPattern, rest bool, e *emitter) string {
	parts := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		if f.Pattern == nil {
			parts = append(parts, f.Name)
			continue
		}
		if bp, ok := f.Pattern.(*ast.BindingPattern); ok && bp.Name == f.Name {
			parts = append(parts, f.Name)
			continue
		}
		parts = append(parts, f.Name+": "+patternText(f.Pattern, e))
	}
	if rest {
		parts = append(parts, "..")
	}
	return path + " { " + strings.Join(parts, ", ") + " }"
}

// tupleFieldIndex parses a StructItem tuple field's positional name ("0",
// "1", ...) back to an int, for codegen's tuple-struct constructor calls.
func tupleFieldIndex(name string) int {
	n, _ := strconv.Atoi(name)
	return n
}
