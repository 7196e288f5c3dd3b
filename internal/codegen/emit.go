package codegen

import (
	"strings"

	"github.com/oxhq/windjammer/internal/analyzer"
	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/diag"
)

// emitter carries the per-file state threaded through every emission
// function: the output Writer, the resolved Tables from the analyzer
// passes, and the current function's Ownership Facts (nil at top level,
// between functions).
type emitter struct {
	w       *Writer
	tables  *analyzer.Tables
	diags   []diag.Diagnostic
	curFunc *analyzer.FuncFacts
	// curImplType names the enclosing impl block's type, for builder
	// method lookups and Self-typed struct literals.
	curImplType string
}

// Emit lowers file to Rust source text, using tables (the fully-settled
// output of PassA through PassE) to drive auto-clone insertion, borrow
// prefixing, and derive-attribute emission. Per §4.3 failure semantics,
// codegen never fails outright: an internal invariant violation aborts only
// the offending item's emission (recorded as a WJ0900 diagnostic) and
// continues with the next.
func Emit(file *ast.File, tables *analyzer.Tables) (string, []diag.Diagnostic) {
	e := &emitter{w: NewWriter(), tables: tables}
	for _, it := range file.Items {
		e.safeItem(it)
	}
	return e.w.String(), e.diags
}

// safeItem wraps emitItem with a panic boundary: a bug in one item's
// emission logic should not take down the whole file, matching the internal
// "abort this function's emission, continue with the next" contract.
func (e *emitter) safeItem(it ast.Item) {
	defer func() {
		if r := recover(); r != nil {
			e.diags = append(e.diags, diag.Wrap("WJ0900", it.Span(), "internal codegen failure", panicErr(r)))
		}
	}()
	e.item(it)
}

func panicErr(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &panicValue{r}
}

type panicValue struct{ v any }

func (p *panicValue) Error() string { return "panic during emission" }

func (e *emitter) item(it ast.Item) {
	switch v := it.(type) {
	case *ast.FuncItem:
		e.emitFunc(v, "")
		e.w.Blank()
	case *ast.StructItem:
		e.emitStruct(v)
		e.w.Blank()
	case *ast.EnumItem:
		e.emitEnum(v)
		e.w.Blank()
	case *ast.TraitItem:
		e.emitTrait(v)
		e.w.Blank()
	case *ast.ImplItem:
		e.emitImpl(v)
		e.w.Blank()
	case *ast.ModItem:
		e.w.Line("mod %s {", v.Name)
		e.w.Indent()
		for _, sub := range v.Items {
			e.item(sub)
		}
		e.w.Dedent()
		e.w.Line("}")
		e.w.Blank()
	case *ast.UseItem:
		e.emitUse(v)
	case *ast.TypeAliasItem:
		e.w.Line("type %s%s = %s;", v.Name, typeParamsText(v.TypeParams), typeText(v.RHS))
	case *ast.ConstItem:
		e.w.Line("const %s: %s = %s;", v.Name, typeText(v.Type), e.exprTextFull(v.Value))
	}
}

func typeParamsText(tps []ast.TypeParam) string {
	if len(tps) == 0 {
		return ""
	}
	parts := make([]string, len(tps))
	for i, tp := range tps {
		if len(tp.Bounds) == 0 {
			parts[i] = tp.Name
			continue
		}
		parts[i] = tp.Name + ": " + boundsText(tp.Bounds)
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func (e *emitter) emitDeriveAttr(typeName string) {
	if e.tables == nil || e.tables.Derives == nil {
		return
	}
	set := e.tables.Derives.Set(typeName)
	if len(set) == 0 {
		return
	}
	e.w.Line("#[derive(%s)]", strings.Join(set, ", "))
	e.w.RecordEdit(Edit{Kind: "derive", Target: typeName})
}

func (e *emitter) emitStruct(v *ast.StructItem) {
	emitDecorators(v.Attrs, e.w)
	e.emitDeriveAttr(v.Name)
	pub := pubPrefix(v.Pub)
	if v.Tuple {
		parts := make([]string, len(v.Fields))
		for _, f := range v.Fields {
			parts[tupleFieldIndex(f.Name)] = pub + typeText(f.Type)
		}
		e.w.Line("%sstruct %s%s(%s);", pub, v.Name, typeParamsText(v.TypeParams), strings.Join(parts, ", "))
		return
	}
	e.w.Line("%sstruct %s%s {", pub, v.Name, typeParamsText(v.TypeParams))
	e.w.Indent()
	for _, f := range v.Fields {
		e.w.Line("%s%s: %s,", pub, f.Name, typeText(f.Type))
	}
	e.w.Dedent()
	e.w.Line("}")
}

func (e *emitter) emitEnum(v *ast.EnumItem) {
	emitDecorators(v.Attrs, e.w)
	e.emitDeriveAttr(v.Name)
	pub := pubPrefix(v.Pub)
	e.w.Line("%senum %s%s {", pub, v.Name, typeParamsText(v.TypeParams))
	e.w.Indent()
	for _, variant := range v.Variants {
		switch {
		case variant.Tuple:
			parts := make([]string, len(variant.Fields))
			for _, f := range variant.Fields {
				parts[tupleFieldIndex(f.Name)] = typeText(f.Type)
			}
			e.w.Line("%s(%s),", variant.Name, strings.Join(parts, ", "))
		case len(variant.Fields) > 0:
			e.w.Line("%s {", variant.Name)
			e.w.Indent()
			for _, f := range variant.Fields {
				e.w.Line("%s: %s,", f.Name, typeText(f.Type))
			}
			e.w.Dedent()
			e.w.Line("},")
		default:
			e.w.Line("%s,", variant.Name)
		}
	}
	e.w.Dedent()
	e.w.Line("}")
}

func (e *emitter) emitTrait(v *ast.TraitItem) {
	emitDecorators(v.Attrs, e.w)
	e.w.Line("%strait %s {", pubPrefix(v.Pub), v.Name)
	e.w.Indent()
	for _, m := range v.Methods {
		e.w.Line("%s;", funcSignature(m, e.curImplType))
	}
	e.w.Dedent()
	e.w.Line("}")
}

func (e *emitter) emitImpl(v *ast.ImplItem) {
	saved := e.curImplType
	e.curImplType = typeText(v.Type)
	defer func() { e.curImplType = saved }()

	if v.Trait != nil {
		e.w.Line("impl%s %s for %s {", typeParamsText(v.TypeParams), typeText(v.Trait), typeText(v.Type))
	} else {
		e.w.Line("impl%s %s {", typeParamsText(v.TypeParams), typeText(v.Type))
	}
	e.w.Indent()
	for i, m := range v.Methods {
		e.emitFunc(m, e.curImplType)
		if i < len(v.Methods)-1 {
			e.w.Blank()
		}
	}
	e.w.Dedent()
	e.w.Line("}")
}

func (e *emitter) emitUse(v *ast.UseItem) {
	path := strings.Join(v.Segments, "::")
	switch {
	case v.Group != nil:
		parts := make([]string, len(v.Group))
		for i, g := range v.Group {
			if g.Alias != "" {
				parts[i] = g.Name + " as " + g.Alias
			} else {
				parts[i] = g.Name
			}
		}
		e.w.Line("use %s::{%s};", path, strings.Join(parts, ", "))
	case v.Glob:
		e.w.Line("use %s::*;", path)
	case v.Alias != "":
		e.w.Line("use %s as %s;", path, v.Alias)
	default:
		e.w.Line("use %s;", path)
	}
}

func pubPrefix(pub bool) string {
	if pub {
		return "pub "
	}
	return ""
}

func funcSignature(v *ast.FuncItem, implType string) string {
	async := ""
	if hasAsyncAttr(v.Attrs) {
		async = "async "
	}
	parts := make([]string, 0, len(v.Params)+1)
	if v.Receiver != nil {
		parts = append(parts, receiverText(v, implType))
	}
	for _, p := range v.Params {
		parts = append(parts, p.Name+": "+typeText(p.Type))
	}
	ret := ""
	if v.Return != nil {
		ret = " -> " + typeText(v.Return)
	}
	return pubPrefix(v.Pub) + async + "fn " + v.Name + typeParamsText(v.TypeParams) + "(" + strings.Join(parts, ", ") + ")" + ret
}

func (e *emitter) emitFunc(v *ast.FuncItem, implType string) {
	emitDecorators(v.Attrs, e.w)

	var ff *analyzer.FuncFacts
	if e.tables != nil && e.tables.Ownership != nil {
		key := v.Name
		if implType != "" {
			key = implType + "::" + v.Name
		}
		ff = e.tables.Ownership.Funcs[key]
	}
	savedFF := e.curFunc
	e.curFunc = ff
	defer func() { e.curFunc = savedFF }()

	sig := funcSignatureWithModes(v, implType, ff)
	if v.Body == nil {
		e.w.Line("%s;", sig)
		return
	}
	e.w.Line("%s {", sig)
	e.w.Indent()
	e.block(v.Body)
	e.w.Dedent()
	e.w.Line("}")
}

// funcSignatureWithModes is funcSignature but with the receiver and every
// non-Copy parameter's borrow prefix drawn from ff (§4.3 "borrow/mutable
// -borrow prefixing"), falling back to an owned/by-value signature when ff
// is nil (ownership facts weren't computed, e.g. a trait method stub).
func funcSignatureWithModes(v *ast.FuncItem, implType string, ff *analyzer.FuncFacts) string {
	if ff == nil {
		return funcSignature(v, implType)
	}
	async := ""
	if hasAsyncAttr(v.Attrs) {
		async = "async "
	}
	parts := make([]string, 0, len(v.Params)+1)
	if v.Receiver != nil {
		parts = append(parts, selfReceiverText(ff.Self))
	}
	for _, p := range v.Params {
		bf := ff.Params[p.Name]
		parts = append(parts, p.Name+": "+paramTypeText(p.Type, bf))
	}
	ret := ""
	if v.Return != nil {
		ret = " -> " + typeText(v.Return)
	}
	return pubPrefix(v.Pub) + async + "fn " + v.Name + typeParamsText(v.TypeParams) + "(" + strings.Join(parts, ", ") + ")" + ret
}

func selfReceiverText(bf *analyzer.BindingFacts) string {
	if bf == nil {
		return "&self"
	}
	switch bf.Mode {
	case analyzer.ModeMutBorrowed:
		return "&mut self"
	case analyzer.ModeOwned:
		return "self"
	default:
		return "&self"
	}
}

func paramTypeText(t ast.Type, bf *analyzer.BindingFacts) string {
	base := typeText(t)
	if bf == nil || !bf.NonCopyType {
		return base
	}
	switch bf.Mode {
	case analyzer.ModeBorrowed:
		return "&" + base
	case analyzer.ModeMutBorrowed:
		return "&mut " + base
	default:
		return base
	}
}

func receiverText(v *ast.FuncItem, implType string) string {
	return "&self"
}
