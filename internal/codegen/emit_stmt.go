package codegen

import "github.com/oxhq/windjammer/internal/ast"

// block emits b's statements, then its Tail expression (if any) with no
// trailing semicolon — Rust's implicit-return convention, which is exactly
// the semantics the parser already captured in Block.Tail (§4.3 "implicit
// -return placement").
func (e *emitter) block(b *ast.Block) {
	for _, st := range b.Stmts {
		e.stmt(st)
	}
	if b.Tail != nil {
		e.w.Line("%s", e.exprTextFull(b.Tail))
	}
}

func (e *emitter) stmt(st ast.Stmt) {
	switch v := st.(type) {
	case *ast.LetStmt:
		mut := ""
		if v.Mut || e.letIsMut(v) {
			mut = "mut "
		}
		ty := ""
		if v.Type != nil {
			ty = ": " + typeText(v.Type)
		}
		e.w.Line("let %s%s%s = %s;", mut, patternText(v.Pattern, e), ty, e.exprTextFull(v.Value))
	case *ast.AssignStmt:
		op := v.Op + "="
		if v.Op == "" {
			op = "="
		}
		e.w.Line("%s %s %s;", e.exprTextFull(v.Target), op, e.exprTextFull(v.Value))
	case *ast.ExprStmt:
		if v.Implicit {
			e.w.Line("%s", e.exprTextFull(v.X))
			return
		}
		e.w.Line("%s;", e.exprTextFull(v.X))
	case *ast.ReturnStmt:
		if v.Value == nil {
			e.w.Line("return;")
			return
		}
		e.w.Line("return %s;", e.exprTextFull(v.Value))
	case *ast.WhileStmt:
		e.w.Line("while %s {", e.exprTextFull(v.Cond))
		e.w.Indent()
		e.block(v.Body)
		e.w.Dedent()
		e.w.Line("}")
	case *ast.ForStmt:
		e.w.Line("for %s in %s {", patternText(v.Pattern, e), e.exprTextFull(v.Iter))
		e.w.Indent()
		e.block(v.Body)
		e.w.Dedent()
		e.w.Line("}")
	case *ast.BreakStmt:
		if v.Value != nil {
			e.w.Line("break %s;", e.exprTextFull(v.Value))
			return
		}
		e.w.Line("break;")
	case *ast.ContinueStmt:
		e.w.Line("continue;")
	}
}

// letIsMut looks up whether the binding this let introduces was inferred
// mutable by Pass C (§4.2 point 3); v.Mut itself only reflects an explicit
// source annotation, which is rare.
func (e *emitter) letIsMut(v *ast.LetStmt) bool {
	bp, ok := v.Pattern.(*ast.BindingPattern)
	if !ok || e.curFunc == nil {
		return false
	}
	bf, ok := e.curFunc.Locals[bp.Name]
	return ok && bf.Mut
}
