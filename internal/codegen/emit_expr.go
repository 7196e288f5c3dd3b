package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oxhq/windjammer/internal/analyzer"
	"github.com/oxhq/windjammer/internal/ast"
)

// exprTextFull renders x as Rust source text, applying auto-clone insertion
// at any site Pass C flagged (§4.2 point 4 / §4.3 "auto-clone insertion")
// and borrow prefixing at call argument sites whose callee parameter mode
// is borrowed or mutably-borrowed (§4.3 "borrow/mutable-borrow prefixing").
func (e *emitter) exprTextFull(x ast.Expr) string {
	if x == nil {
		return ""
	}
	text := e.exprText(x)
	if e.needsClone(x) {
		text = text + ".clone()"
		e.w.RecordEdit(Edit{Kind: "clone", Target: text, Span: x.Span()})
	}
	return text
}

// needsClone reports whether x is an auto-clone obligation site recorded
// against any binding tracked by the current function's Ownership Facts.
func (e *emitter) needsClone(x ast.Expr) bool {
	if e.curFunc == nil {
		return false
	}
	check := func(bf *analyzer.BindingFacts) bool {
		return bf != nil && bf.AutoClone[x]
	}
	if check(e.curFunc.Self) {
		return true
	}
	for _, bf := range e.curFunc.Params {
		if check(bf) {
			return true
		}
	}
	for _, bf := range e.curFunc.Locals {
		if check(bf) {
			return true
		}
	}
	return false
}

func (e *emitter) exprText(x ast.Expr) string {
	switch v := x.(type) {
	case *ast.IntLit:
		return v.Raw
	case *ast.FloatLit:
		return v.Raw
	case *ast.StringLit:
		return e.stringLitText(v)
	case *ast.CharLit:
		return "'" + string(v.Value) + "'"
	case *ast.BoolLit:
		if v.Value {
			return "true"
		}
		return "false"
	case *ast.Ident:
		return v.Name
	case *ast.Path:
		return strings.Join(v.Segments, "::")
	case *ast.FieldAccess:
		return e.exprTextFull(v.Target) + "." + v.Name
	case *ast.IndexExpr:
		return e.exprTextFull(v.Target) + "[" + e.exprTextFull(v.Index) + "]"
	case *ast.CallExpr:
		return e.callText(v.Callee, v.Args)
	case *ast.MethodCallExpr:
		generics := ""
		if len(v.Generics) > 0 {
			parts := make([]string, len(v.Generics))
			for i, g := range v.Generics {
				parts[i] = typeText(g)
			}
			generics = "::<" + strings.Join(parts, ", ") + ">"
		}
		args := e.argListText(v.Method, v.Args)
		return e.exprTextFull(v.Receiver) + "." + v.Method + generics + "(" + args + ")"
	case *ast.BinaryExpr:
		return e.exprTextFull(v.LHS) + " " + v.Op + " " + e.exprTextFull(v.RHS)
	case *ast.UnaryExpr:
		op := v.Op
		if op == "&mut" {
			return "&mut " + e.exprTextFull(v.Operand)
		}
		return op + e.exprTextFull(v.Operand)
	case *ast.BlockExpr:
		return e.blockExprText(v.Block)
	case *ast.IfExpr:
		return e.ifExprText(v)
	case *ast.MatchExpr:
		return e.matchExprText(v)
	case *ast.LoopExpr:
		return "loop " + e.blockExprText(v.Body)
	case *ast.ClosureExpr:
		return e.closureText(v)
	case *ast.TupleExpr:
		parts := make([]string, len(v.Elems))
		for i, el := range v.Elems {
			parts[i] = e.exprTextFull(el)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.ArrayExpr:
		if v.Value != nil {
			return "[" + e.exprTextFull(v.Value) + "; " + e.exprTextFull(v.Count) + "]"
		}
		parts := make([]string, len(v.Elems))
		for i, el := range v.Elems {
			parts[i] = e.exprTextFull(el)
		}
		return "vec![" + strings.Join(parts, ", ") + "]"
	case *ast.StructLit:
		return e.structLitText(v)
	case *ast.RangeExpr:
		op := ".."
		if v.Inclusive {
			op = "..="
		}
		lo, hi := "", ""
		if v.Lo != nil {
			lo = e.exprTextFull(v.Lo)
		}
		if v.Hi != nil {
			hi = e.exprTextFull(v.Hi)
		}
		return lo + op + hi
	case *ast.CastExpr:
		return e.exprTextFull(v.X) + " as " + typeText(v.Type)
	case *ast.AwaitExpr:
		return e.exprTextFull(v.X) + ".await"
	case *ast.TryExpr:
		return e.exprTextFull(v.X) + "?"
	case *ast.TernaryExpr:
		// Lowered to an if-expression (§4.3 "ternary->if-expr lowering").
		return fmt.Sprintf("if %s { %s } else { %s }", e.exprTextFull(v.Cond), e.exprTextFull(v.Then), e.exprTextFull(v.Else))
	case *ast.PipeExpr:
		// Lowered to a call (§4.3 "pipe->call lowering"): "lhs |> f(args)"
		// becomes "f(lhs, args)".
		args := append([]ast.Expr{v.LHS}, v.Args...)
		return e.callText(v.Callee, args)
	default:
		return ""
	}
}

func (e *emitter) callText(callee ast.Expr, args []ast.Expr) string {
	return e.exprTextFull(callee) + "(" + e.argListTextByCallee(callee, args) + ")"
}

// argListTextByCallee renders a call's argument list, prefixing each
// argument with '&'/'&mut' when the resolved callee's parameter at that
// position is borrowed/mutably-borrowed (§4.3 borrow prefixing). The callee
// must be a plain identifier naming a function in this compile session;
// anything else (an expression, an unresolved cross-module call) falls back
// to unprefixed emission.
func (e *emitter) argListTextByCallee(callee ast.Expr, args []ast.Expr) string {
	id, ok := callee.(*ast.Ident)
	if !ok || e.tables == nil || e.tables.Ownership == nil {
		return e.plainArgList(args)
	}
	ff, ok := e.tables.Ownership.Funcs[id.Name]
	if !ok {
		return e.plainArgList(args)
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = e.borrowPrefixedArg(a, ff, i)
	}
	return strings.Join(parts, ", ")
}

// argListText is argListTextByCallee specialized for a method call, looking
// up the callee's FuncFacts under "ImplType::method" using the current
// impl's type as a best-effort guess (exact receiver type resolution is
// Pass B's job; this degrades gracefully to unprefixed args otherwise).
func (e *emitter) argListText(method string, args []ast.Expr) string {
	if e.tables == nil || e.tables.Ownership == nil || e.curImplType == "" {
		return e.plainArgList(args)
	}
	ff, ok := e.tables.Ownership.Funcs[e.curImplType+"::"+method]
	if !ok {
		return e.plainArgList(args)
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = e.borrowPrefixedArg(a, ff, i)
	}
	return strings.Join(parts, ", ")
}

func (e *emitter) plainArgList(args []ast.Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = e.exprTextFull(a)
	}
	return strings.Join(parts, ", ")
}

func (e *emitter) borrowPrefixedArg(a ast.Expr, ff *analyzer.FuncFacts, index int) string {
	text := e.exprTextFull(a)
	if index >= len(ff.ParamOrder) {
		return text
	}
	bf := ff.Params[ff.ParamOrder[index]]
	if bf == nil || !bf.NonCopyType {
		return text
	}
	switch bf.Mode {
	case analyzer.ModeBorrowed:
		return "&" + text
	case analyzer.ModeMutBorrowed:
		return "&mut " + text
	default:
		return text
	}
}

func (e *emitter) blockExprText(b *ast.Block) string {
	inner := NewWriter()
	inner.Indent()
	savedW := e.w
	e.w = inner
	e.block(b)
	e.w = savedW
	return "{\n" + inner.String() + "}"
}

func (e *emitter) ifExprText(v *ast.IfExpr) string {
	text := "if " + e.exprTextFull(v.Cond) + " " + e.blockExprText(v.Then)
	if v.Else != nil {
		text += " else "
		if nested, ok := v.Else.(*ast.IfExpr); ok {
			text += e.ifExprText(nested)
		} else {
			text += e.exprTextFull(v.Else)
		}
	}
	return text
}

func (e *emitter) matchExprText(v *ast.MatchExpr) string {
	var b strings.Builder
	b.WriteString("match ")
	b.WriteString(e.exprTextFull(v.Scrutinee))
	b.WriteString(" {\n")
	for _, arm := range v.Arms {
		b.WriteString("    ")
		b.WriteString(patternText(arm.Pattern, e))
		if arm.Guard != nil {
			b.WriteString(" if ")
			b.WriteString(e.exprTextFull(arm.Guard))
		}
		b.WriteString(" => ")
		b.WriteString(e.exprTextFull(arm.Body))
		b.WriteString(",\n")
	}
	b.WriteString("}")
	return b.String()
}

func (e *emitter) closureText(v *ast.ClosureExpr) string {
	parts := make([]string, len(v.Params))
	for i, p := range v.Params {
		if p.Type != nil {
			parts[i] = p.Name + ": " + typeText(p.Type)
		} else {
			parts[i] = p.Name
		}
	}
	moveKw := ""
	for _, c := range v.Captures {
		if c.Mode == ast.CaptureByMove {
			moveKw = "move "
			break
		}
	}
	return moveKw + "|" + strings.Join(parts, ", ") + "| " + e.exprTextFull(v.Body)
}

func (e *emitter) structLitText(v *ast.StructLit) string {
	parts := make([]string, 0, len(v.Fields)+1)
	for _, f := range v.Fields {
		if f.Value == nil {
			parts = append(parts, f.Name)
			continue
		}
		parts = append(parts, f.Name+": "+e.exprTextFull(f.Value))
	}
	if v.Spread != nil {
		parts = append(parts, ".."+e.exprTextFull(v.Spread))
	}
	return typeText(v.Type) + " { " + strings.Join(parts, ", ") + " }"
}

// stringLitText lowers a (possibly interpolated) string literal to Rust's
// format! macro form when it has interpolation holes, or a plain quoted
// literal otherwise (§4.3 "string interpolation lowering").
func (e *emitter) stringLitText(v *ast.StringLit) string {
	hasHoles := false
	for _, seg := range v.Segments {
		if seg.Expr != nil {
			hasHoles = true
			break
		}
	}
	if !hasHoles {
		var lit strings.Builder
		for _, seg := range v.Segments {
			lit.WriteString(seg.Text)
		}
		return strconv.Quote(lit.String())
	}

	var format strings.Builder
	var args []string
	for _, seg := range v.Segments {
		if seg.Expr != nil {
			format.WriteString("{}")
			args = append(args, e.exprTextFull(seg.Expr))
			continue
		}
		format.WriteString(strings.ReplaceAll(seg.Text, "{", "{{"))
	}
	call := "format!(" + strconv.Quote(format.String())
	for _, a := range args {
		call += ", " + a
	}
	return call + ")"
}
