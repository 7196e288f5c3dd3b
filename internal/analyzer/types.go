package analyzer

import (
	"fmt"
	"strings"

	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/diag"
)

// TypeTable is the result of Pass B: a per-expression inferred type name
// (the target-independent textual name, e.g. "i32", "string", "Point") plus
// a flow-insensitive per-local type map used while checking one function;
// Locals is restored after each function, so it is empty once the pass
// returns (Pass C rebuilds local types from Expr and the declarations).
// There is no unification engine here by design: Windjammer
// requires every let-binding and function boundary to either carry an
// explicit annotation or be inferable from a single local expression, so
// reconstruction is a single bidirectional pass with no backtracking.
type TypeTable struct {
	Expr   map[ast.Expr]string
	Locals map[string]string
}

func newTypeTable() *TypeTable {
	return &TypeTable{Expr: map[ast.Expr]string{}, Locals: map[string]string{}}
}

// PassB reconstructs local expression types for unit, consulting prior's
// Def arena to resolve struct/enum literal and call-result types. It
// installs the resulting TypeTable on a cloned Tables.
func PassB(unit *ast.File, prior *Tables) (*Tables, []diag.Diagnostic) {
	tables := prior
	if tables == nil {
		tables = NewTables()
	} else {
		tables = tables.clone()
	}
	tt := newTypeTable()
	tables.Types = tt

	var diags []diag.Diagnostic
	tc := &typeChecker{tables: tables, tt: tt, diags: &diags}

	for _, it := range unit.Items {
		tc.item(it)
	}
	return tables, diags
}

type typeChecker struct {
	tables *Tables
	tt     *TypeTable
	diags  *[]diag.Diagnostic
}

func (tc *typeChecker) item(it ast.Item) {
	switch v := it.(type) {
	case *ast.FuncItem:
		tc.withScope(func() {
			if v.Receiver != nil {
				tc.tt.Locals["self"] = receiverTypeName(v)
			}
			for _, p := range v.Params {
				tc.tt.Locals[p.Name] = typeName(p.Type)
			}
			if v.Body != nil {
				tc.block(v.Body, typeName(v.Return))
			}
		})
	case *ast.ImplItem:
		for _, m := range v.Methods {
			tc.item(m)
		}
	case *ast.ModItem:
		for _, sub := range v.Items {
			tc.item(sub)
		}
	case *ast.ConstItem:
		if v.Value != nil {
			tc.expr(v.Value, typeName(v.Type))
		}
	}
}

// receiverTypeName has no declared Type on the synthetic self Param (it is
// filled in from the enclosing impl block at the call site in real usage);
// Pass C only needs to know self exists, not its exact name, so this is a
// placeholder sentinel rather than a resolved type.
func receiverTypeName(v *ast.FuncItem) string { return "Self" }

func (tc *typeChecker) withScope(fn func()) {
	saved := make(map[string]string, len(tc.tt.Locals))
	for k, v := range tc.tt.Locals {
		saved[k] = v
	}
	fn()
	tc.tt.Locals = saved
}

func (tc *typeChecker) block(b *ast.Block, expected string) {
	for _, st := range b.Stmts {
		tc.stmt(st)
	}
	if b.Tail != nil {
		tc.expr(b.Tail, expected)
	}
}

func (tc *typeChecker) stmt(st ast.Stmt) {
	switch v := st.(type) {
	case *ast.LetStmt:
		expected := typeName(v.Type)
		got := tc.expr(v.Value, expected)
		name := expected
		if name == "" {
			name = got
		}
		if bp, ok := v.Pattern.(*ast.BindingPattern); ok {
			tc.tt.Locals[bp.Name] = name
		}
	case *ast.AssignStmt:
		tc.expr(v.Target, "")
		tc.expr(v.Value, "")
	case *ast.ExprStmt:
		tc.expr(v.X, "")
	case *ast.ReturnStmt:
		if v.Value != nil {
			tc.expr(v.Value, "")
		}
	case *ast.WhileStmt:
		tc.expr(v.Cond, "bool")
		tc.block(v.Body, "")
	case *ast.ForStmt:
		tc.expr(v.Iter, "")
		if bp, ok := v.Pattern.(*ast.BindingPattern); ok {
			tc.tt.Locals[bp.Name] = ""
		}
		tc.block(v.Body, "")
	case *ast.BreakStmt:
		if v.Value != nil {
			tc.expr(v.Value, "")
		}
	}
}

// expr infers x's type, recording it in tt.Expr, and (when expected is
// non-empty and the inference is confident) emits WJ0300 on mismatch.
// It returns the inferred type name, or "" when it could not be determined
// locally (e.g. the callee is in an unresolved module).
func (tc *typeChecker) expr(x ast.Expr, expected string) string {
	if x == nil {
		return ""
	}
	got := tc.inferExpr(x)
	if got != "" {
		tc.tt.Expr[x] = got
	}
	if expected != "" && got != "" && got != expected && !compatibleNumeric(got, expected) {
		*tc.diags = append(*tc.diags, diag.New("WJ0300", x.Span(),
			"expected %s, found %s", expected, got))
	}
	if expected != "" && got == "" {
		return expected
	}
	return got
}

func compatibleNumeric(got, expected string) bool {
	return isNumericTypeName(got) && isNumericTypeName(expected)
}

func isNumericTypeName(n string) bool {
	switch n {
	case "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64", "f32", "f64":
		return true
	default:
		return false
	}
}

func (tc *typeChecker) inferExpr(x ast.Expr) string {
	switch v := x.(type) {
	case *ast.IntLit:
		return "i32"
	case *ast.FloatLit:
		return "f64"
	case *ast.StringLit:
		for _, seg := range v.Segments {
			if seg.Expr != nil {
				tc.expr(seg.Expr, "")
			}
		}
		return "string"
	case *ast.CharLit:
		return "char"
	case *ast.BoolLit:
		return "bool"
	case *ast.Ident:
		if t, ok := tc.tt.Locals[v.Name]; ok {
			return t
		}
		return ""
	case *ast.Path:
		return ""
	case *ast.FieldAccess:
		tc.expr(v.Target, "")
		return tc.fieldType(v)
	case *ast.IndexExpr:
		tc.expr(v.Target, "")
		tc.expr(v.Index, "")
		return ""
	case *ast.CallExpr:
		for _, a := range v.Args {
			tc.expr(a, "")
		}
		return tc.callReturnType(v.Callee)
	case *ast.MethodCallExpr:
		tc.expr(v.Receiver, "")
		for _, a := range v.Args {
			tc.expr(a, "")
		}
		return ""
	case *ast.BinaryExpr:
		lt := tc.expr(v.LHS, "")
		rt := tc.expr(v.RHS, "")
		switch v.Op {
		case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
			return "bool"
		default:
			if lt != "" {
				return lt
			}
			return rt
		}
	case *ast.UnaryExpr:
		t := tc.expr(v.Operand, "")
		if v.Op == "!" {
			return "bool"
		}
		return t
	case *ast.BlockExpr:
		tc.block(v.Block, "")
		if v.Block.Tail != nil {
			return tc.tt.Expr[v.Block.Tail]
		}
		return ""
	case *ast.IfExpr:
		tc.expr(v.Cond, "bool")
		tc.block(v.Then, "")
		var thenT string
		if v.Then.Tail != nil {
			thenT = tc.tt.Expr[v.Then.Tail]
		}
		if v.Else != nil {
			tc.expr(v.Else, thenT)
		}
		return thenT
	case *ast.MatchExpr:
		tc.expr(v.Scrutinee, "")
		var result string
		for _, arm := range v.Arms {
			if arm.Guard != nil {
				tc.expr(arm.Guard, "bool")
			}
			t := tc.expr(arm.Body, "")
			if result == "" {
				result = t
			}
		}
		return result
	case *ast.LoopExpr:
		tc.block(v.Body, "")
		return ""
	case *ast.ClosureExpr:
		tc.withScope(func() {
			for _, p := range v.Params {
				tc.tt.Locals[p.Name] = typeName(p.Type)
			}
			tc.expr(v.Body, "")
		})
		return ""
	case *ast.TupleExpr:
		for _, e := range v.Elems {
			tc.expr(e, "")
		}
		return ""
	case *ast.ArrayExpr:
		for _, e := range v.Elems {
			tc.expr(e, "")
		}
		tc.expr(v.Value, "")
		tc.expr(v.Count, "")
		return ""
	case *ast.StructLit:
		for _, f := range v.Fields {
			if f.Value != nil {
				tc.expr(f.Value, "")
			}
		}
		tc.expr(v.Spread, "")
		return typeName(v.Type)
	case *ast.RangeExpr:
		tc.expr(v.Lo, "")
		tc.expr(v.Hi, "")
		return ""
	case *ast.CastExpr:
		tc.expr(v.X, "")
		return typeName(v.Type)
	case *ast.AwaitExpr:
		return tc.expr(v.X, "")
	case *ast.TryExpr:
		return tc.expr(v.X, "")
	case *ast.TernaryExpr:
		tc.expr(v.Cond, "bool")
		thenT := tc.expr(v.Then, "")
		tc.expr(v.Else, thenT)
		return thenT
	case *ast.PipeExpr:
		tc.expr(v.LHS, "")
		for _, a := range v.Args {
			tc.expr(a, "")
		}
		return tc.callReturnType(v.Callee)
	default:
		return ""
	}
}

func (tc *typeChecker) fieldType(fa *ast.FieldAccess) string {
	targetType := tc.tt.Expr[fa.Target]
	if targetType == "" {
		return ""
	}
	defs, ok := tc.tables.Lookup(targetType)
	if !ok {
		return ""
	}
	for _, d := range defs {
		s, ok := d.Item.(*ast.StructItem)
		if !ok {
			continue
		}
		for _, f := range s.Fields {
			if f.Name == fa.Name {
				return typeName(f.Type)
			}
		}
	}
	return ""
}

func (tc *typeChecker) callReturnType(callee ast.Expr) string {
	name, ok := callee.(*ast.Ident)
	if !ok {
		return ""
	}
	defs, ok := tc.tables.Lookup(name.Name)
	if !ok {
		return ""
	}
	for _, d := range defs {
		if fn, ok := d.Item.(*ast.FuncItem); ok {
			return typeName(fn.Return)
		}
	}
	return ""
}

// typeName renders t's textual name for comparison purposes; it is not a
// full mangled type signature, just enough to match against Def names and
// catalog the small set of cases Pass C/D key decisions off of (Copy
// primitives, Option/Result wrapping, reference-ness).
func typeName(t ast.Type) string {
	if t == nil {
		return ""
	}
	switch v := t.(type) {
	case *ast.NamedType:
		name := ""
		for i, seg := range v.Segments {
			if i > 0 {
				name += "::"
			}
			name += seg
		}
		if len(v.Generics) > 0 {
			parts := make([]string, len(v.Generics))
			for i, g := range v.Generics {
				parts[i] = typeName(g)
			}
			name += "<" + strings.Join(parts, ",") + ">"
		}
		return name
	case *ast.TupleType:
		return "tuple"
	case *ast.ArrayType:
		return "array"
	case *ast.FuncType:
		return "fn"
	case *ast.RefType:
		return typeName(v.Elem)
	case *ast.OptionType:
		return fmt.Sprintf("%s?", typeName(v.Elem))
	case *ast.ResultType:
		return fmt.Sprintf("Result<%s,%s>", typeName(v.Ok), typeName(v.Err))
	case *ast.ImplTraitType, *ast.DynTraitType:
		return "dyn"
	case *ast.SelfType:
		return "Self"
	default:
		return ""
	}
}
