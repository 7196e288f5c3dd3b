package analyzer

import "github.com/oxhq/windjammer/internal/ast"

// Selector walks an ast.Node tree depth-first and collects every node for
// which Predicate returns true. Grounded on the teacher's
// matcher.ASTMatcher.Find, generalized from a tree-sitter query over
// borrowed node handles to a plain Go type switch over our own ast.Node.
type Selector struct {
	Predicate func(ast.Node) bool
}

// Find walks root (including root itself) and returns every matching node.
func (s Selector) Find(root ast.Node) []ast.Node {
	var out []ast.Node
	Walk(root, func(n ast.Node) bool {
		if s.Predicate(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Walk visits node and, as long as visit keeps returning true, recurses into
// its children depth-first, left to right. A nil node is a no-op so callers
// never need to guard optional fields (an Else branch, a Tail expression).
func Walk(node ast.Node, visit func(ast.Node) bool) {
	if node == nil || !visit(node) {
		return
	}

	switch n := node.(type) {
	case *ast.File:
		for _, it := range n.Items {
			Walk(it, visit)
		}

	case *ast.FuncItem:
		for _, a := range n.Attrs {
			Walk(a, visit)
		}
		if n.Body != nil {
			Walk(n.Body, visit)
		}
	case *ast.StructItem:
		for _, a := range n.Attrs {
			Walk(a, visit)
		}
	case *ast.EnumItem:
		for _, a := range n.Attrs {
			Walk(a, visit)
		}
	case *ast.TraitItem:
		for _, m := range n.Methods {
			Walk(m, visit)
		}
	case *ast.ImplItem:
		for _, m := range n.Methods {
			Walk(m, visit)
		}
	case *ast.ModItem:
		for _, it := range n.Items {
			Walk(it, visit)
		}
	case *ast.ConstItem:
		Walk(n.Value, visit)
	case *ast.UseItem, *ast.TypeAliasItem:
		// no expression/statement children

	case *ast.Attribute:
		for _, a := range n.Args {
			Walk(a, visit)
		}

	case *ast.Block:
		for _, st := range n.Stmts {
			Walk(st, visit)
		}
		Walk(n.Tail, visit)
	case *ast.LetStmt:
		Walk(n.Pattern, visit)
		Walk(n.Value, visit)
	case *ast.AssignStmt:
		Walk(n.Target, visit)
		Walk(n.Value, visit)
	case *ast.ExprStmt:
		Walk(n.X, visit)
	case *ast.ReturnStmt:
		Walk(n.Value, visit)
	case *ast.WhileStmt:
		Walk(n.Cond, visit)
		Walk(n.Body, visit)
	case *ast.ForStmt:
		Walk(n.Pattern, visit)
		Walk(n.Iter, visit)
		Walk(n.Body, visit)
	case *ast.BreakStmt:
		Walk(n.Value, visit)
	case *ast.ContinueStmt:
		// leaf

	case *ast.FieldAccess:
		Walk(n.Target, visit)
	case *ast.IndexExpr:
		Walk(n.Target, visit)
		Walk(n.Index, visit)
	case *ast.CallExpr:
		Walk(n.Callee, visit)
		for _, a := range n.Args {
			Walk(a, visit)
		}
	case *ast.MethodCallExpr:
		Walk(n.Receiver, visit)
		for _, a := range n.Args {
			Walk(a, visit)
		}
	case *ast.BinaryExpr:
		Walk(n.LHS, visit)
		Walk(n.RHS, visit)
	case *ast.UnaryExpr:
		Walk(n.Operand, visit)
	case *ast.BlockExpr:
		Walk(n.Block, visit)
	case *ast.IfExpr:
		Walk(n.Cond, visit)
		Walk(n.Then, visit)
		Walk(n.Else, visit)
	case *ast.MatchExpr:
		Walk(n.Scrutinee, visit)
		for _, arm := range n.Arms {
			Walk(arm.Pattern, visit)
			Walk(arm.Guard, visit)
			Walk(arm.Body, visit)
		}
	case *ast.LoopExpr:
		Walk(n.Body, visit)
	case *ast.ClosureExpr:
		Walk(n.Body, visit)
	case *ast.TupleExpr:
		for _, e := range n.Elems {
			Walk(e, visit)
		}
	case *ast.ArrayExpr:
		for _, e := range n.Elems {
			Walk(e, visit)
		}
		Walk(n.Value, visit)
	case *ast.StructLit:
		for _, f := range n.Fields {
			Walk(f.Value, visit)
		}
		Walk(n.Spread, visit)
	case *ast.RangeExpr:
		Walk(n.Lo, visit)
		Walk(n.Hi, visit)
	case *ast.CastExpr:
		Walk(n.X, visit)
	case *ast.AwaitExpr:
		Walk(n.X, visit)
	case *ast.TryExpr:
		Walk(n.X, visit)
	case *ast.TernaryExpr:
		Walk(n.Cond, visit)
		Walk(n.Then, visit)
		Walk(n.Else, visit)
	case *ast.PipeExpr:
		Walk(n.LHS, visit)
		Walk(n.Callee, visit)
		for _, a := range n.Args {
			Walk(a, visit)
		}
	case *ast.Ident, *ast.Path, *ast.IntLit, *ast.FloatLit, *ast.StringLit, *ast.CharLit, *ast.BoolLit:
		// leaves

	case *ast.TuplePattern:
		for _, e := range n.Elems {
			Walk(e, visit)
		}
	case *ast.StructPattern:
		for _, f := range n.Fields {
			Walk(f.Pattern, visit)
		}
	case *ast.EnumVariantPattern:
		for _, e := range n.Tuple {
			Walk(e, visit)
		}
		for _, f := range n.Fields {
			Walk(f.Pattern, visit)
		}
	case *ast.RangePattern:
		Walk(n.Lo, visit)
		Walk(n.Hi, visit)
	case *ast.OrPattern:
		for _, alt := range n.Alternatives {
			Walk(alt, visit)
		}
	case *ast.LiteralPattern:
		Walk(n.Value, visit)
	case *ast.WildcardPattern, *ast.BindingPattern:
		// leaves
	}
}
