package analyzer

import (
	"github.com/oxhq/windjammer/internal/ast"
	"github.com/oxhq/windjammer/internal/diag"
)

// Mode is an inferred ownership/passing convention.
type Mode int

const (
	// ModeOwned passes or binds by value.
	ModeOwned Mode = iota
	// ModeBorrowed passes or binds by shared reference.
	ModeBorrowed
	// ModeMutBorrowed passes or binds by mutable reference.
	ModeMutBorrowed
)

func (m Mode) String() string {
	switch m {
	case ModeBorrowed:
		return "&"
	case ModeMutBorrowed:
		return "&mut"
	default:
		return "owned"
	}
}

// UseKind classifies one occurrence of a binding.
type UseKind int

const (
	UseReadOnly UseKind = iota
	UseMutating
	UseMoving
)

// Use is one recorded occurrence of a binding within a function.
type Use struct {
	Kind  UseKind
	Site  ast.Expr
	Final bool // true iff no later use of the same binding follows in source order
}

// BindingFacts are the Ownership Facts (§3) computed for one local binding
// or parameter within a single function.
type BindingFacts struct {
	Name        string
	TypeName    string
	Mut         bool
	Mode        Mode
	Uses        []Use
	AutoClone   map[ast.Expr]bool // non-final moving sites needing a clone
	NonCopyType bool
}

// FuncFacts is the Ownership Facts for every binding (params + self +
// locals) in one function.
type FuncFacts struct {
	Self       *BindingFacts // nil for free functions
	Params     map[string]*BindingFacts
	ParamOrder []string // parameter names in declaration order, for call-site borrow prefixing
	Locals     map[string]*BindingFacts
}

// OwnershipTable maps a function's qualified name to its FuncFacts.
type OwnershipTable struct {
	Funcs map[string]*FuncFacts
}

func newOwnershipTable() *OwnershipTable {
	return &OwnershipTable{Funcs: map[string]*FuncFacts{}}
}

// copyPrimitives are the builtin types assumed Copy for ownership purposes;
// user types are Copy iff Pass D placed Copy in their derive set. "int" and
// "float" are the language's default numeric aliases (i64/f64, per
// rustPrimitiveName) and carry the same Copy-ness as their sized cousins.
var copyPrimitives = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true,
	"u8": true, "u16": true, "u32": true, "u64": true,
	"f32": true, "f64": true, "bool": true, "char": true,
	"int": true, "float": true,
}

// PassC computes ownership facts for every function in unit, using prior's
// Types table (Pass B output) to decide Copy-ness, and prior's Derives table
// (if Pass D has already run once) to decide Copy-ness of user types.
// Call arguments are classified as moving uses without consulting the
// callee's signature, and this pass emits no diagnostics of its own (WJ0501
// is listed in the diag catalog but nothing reports it).
func PassC(unit *ast.File, prior *Tables) (*Tables, []diag.Diagnostic) {
	tables := prior
	if tables == nil {
		tables = NewTables()
	} else {
		tables = tables.clone()
	}
	ot := newOwnershipTable()
	tables.Ownership = ot

	var diags []diag.Diagnostic
	for _, it := range unit.Items {
		analyzeItemOwnership(it, tables, ot, &diags)
	}
	return tables, diags
}

func analyzeItemOwnership(it ast.Item, tables *Tables, ot *OwnershipTable, diags *[]diag.Diagnostic) {
	switch v := it.(type) {
	case *ast.FuncItem:
		ff := analyzeFunc(v, tables, diags)
		ot.Funcs[v.Name] = ff
	case *ast.ImplItem:
		for _, m := range v.Methods {
			ff := analyzeFunc(m, tables, diags)
			ot.Funcs[implMethodKey(v, m)] = ff
		}
	case *ast.ModItem:
		for _, sub := range v.Items {
			analyzeItemOwnership(sub, tables, ot, diags)
		}
	}
}

func implMethodKey(impl *ast.ImplItem, m *ast.FuncItem) string {
	return typeName(impl.Type) + "::" + m.Name
}

func (tc *typeChecker) exprTypeOf(x ast.Expr) string { return tc.tt.Expr[x] }

// analyzeFunc builds the use list for every binding in v by walking its
// body, classifies each use, applies the last-use/non-final-clone and
// self-mode rules (§4.2 Pass C points 1-7), and returns the resulting facts.
func analyzeFunc(v *ast.FuncItem, tables *Tables, diags *[]diag.Diagnostic) *FuncFacts {
	ff := &FuncFacts{Params: map[string]*BindingFacts{}, Locals: map[string]*BindingFacts{}}
	if v.Body == nil {
		return ff
	}

	isCopy := func(typeName string) bool {
		if copyPrimitives[typeName] {
			return true
		}
		if tables.Derives != nil {
			if set, ok := tables.Derives.Traits[typeName]; ok {
				return set["Copy"]
			}
		}
		return false
	}

	// Pass B scopes its Locals map per function, so it is empty by the time
	// this pass runs; param and let types are collected here instead.
	localTypes := map[string]string{}
	for _, p := range v.Params {
		localTypes[p.Name] = typeName(p.Type)
	}
	Walk(v.Body, func(n ast.Node) bool {
		if ls, ok := n.(*ast.LetStmt); ok && tables.Types != nil {
			if bp, ok := ls.Pattern.(*ast.BindingPattern); ok {
				localTypes[bp.Name] = tables.Types.Expr[ls.Value]
				if tn := typeName(ls.Type); tn != "" {
					localTypes[bp.Name] = tn
				}
			}
		}
		return true
	})
	localType := func(name string) string {
		return localTypes[name]
	}

	if v.Receiver != nil {
		// self's type is not resolved here, so it is treated as non-Copy.
		ff.Self = &BindingFacts{Name: "self", AutoClone: map[ast.Expr]bool{}, NonCopyType: true}
	}
	for _, p := range v.Params {
		ff.Params[p.Name] = &BindingFacts{
			Name:        p.Name,
			TypeName:    typeName(p.Type),
			AutoClone:   map[ast.Expr]bool{},
			NonCopyType: !isCopy(typeName(p.Type)),
		}
		ff.ParamOrder = append(ff.ParamOrder, p.Name)
	}

	// Collect every use of every tracked binding, in source order, by
	// walking the body and classifying each Ident/self occurrence by its
	// syntactic position (assignment target, method receiver, call
	// argument, or plain read).
	collector := &useCollector{
		self:   ff.Self,
		params: ff.Params,
		locals: ff.Locals,
		localType: func(name string) string {
			if bf, ok := ff.Locals[name]; ok {
				return localType(bf.Name)
			}
			return localType(name)
		},
		isCopy: isCopy,
	}
	collector.walkBlock(v.Body, false)

	finalizeBindingFacts(ff.Self)
	for _, bf := range ff.Params {
		finalizeBindingFacts(bf)
	}
	for _, bf := range ff.Locals {
		finalizeBindingFacts(bf)
	}

	if ff.Self != nil {
		ff.Self.Mode = selfMode(ff.Self, isBuilderReturn(v))
	}
	for _, bf := range ff.Params {
		bf.Mode = paramMode(bf)
	}

	return ff
}

// isBuilderReturn reports whether v's body's tail expression is a bare
// "self" (the builder pattern from S2), which forces self-by-value even
// when no mutating use was observed.
func isBuilderReturn(v *ast.FuncItem) bool {
	if v.Body == nil || v.Body.Tail == nil {
		return false
	}
	if id, ok := v.Body.Tail.(*ast.Ident); ok {
		return id.Name == "self"
	}
	return false
}

func finalizeBindingFacts(bf *BindingFacts) {
	if bf == nil {
		return
	}
	for _, u := range bf.Uses {
		if u.Kind == UseMutating {
			bf.Mut = true
		}
	}
	for i := range bf.Uses {
		bf.Uses[i].Final = i == len(bf.Uses)-1
	}
	for i, u := range bf.Uses {
		if u.Kind == UseMoving && bf.NonCopyType && !isLastUse(bf.Uses, i) {
			bf.AutoClone[u.Site] = true
		}
	}
}

// isLastUse reports whether uses[i] is the last recorded occurrence, i.e.
// no use follows it in source order. This is the §4.2 point 4 "final use"
// test: moves before the last occurrence need an auto-clone, the final one
// doesn't.
func isLastUse(uses []Use, i int) bool {
	return i == len(uses)-1
}

// selfMode applies §4.2 point 5: mutating use wins, else a builder-style
// bare-self tail infers by-value, else any use other than a final move
// infers a shared borrow, else (self never used, or only moved by its last
// use) by-value.
func selfMode(bf *BindingFacts, builder bool) Mode {
	if bf.Mut {
		return ModeMutBorrowed
	}
	if builder {
		return ModeOwned
	}
	for i, u := range bf.Uses {
		if u.Kind != UseMoving || !isLastUse(bf.Uses, i) {
			return ModeBorrowed
		}
	}
	return ModeOwned
}

// paramMode applies §4.2 point 6: mutated-but-not-moved infers a mutable
// borrow; read-only (never moved) infers a shared borrow; anything moved
// infers owned.
func paramMode(bf *BindingFacts) Mode {
	moved := false
	for _, u := range bf.Uses {
		if u.Kind == UseMoving {
			moved = true
		}
	}
	if bf.Mut && !moved {
		return ModeMutBorrowed
	}
	if !moved {
		return ModeBorrowed
	}
	return ModeOwned
}

// useCollector walks a function body recording, for every Ident that names
// a tracked binding (self/param/local), a classified Use in source order.
type useCollector struct {
	self      *BindingFacts
	params    map[string]*BindingFacts
	locals    map[string]*BindingFacts
	localType func(name string) string
	isCopy    func(string) bool
}

func (c *useCollector) bindingFor(name string) *BindingFacts {
	if name == "self" && c.self != nil {
		return c.self
	}
	if bf, ok := c.params[name]; ok {
		return bf
	}
	if bf, ok := c.locals[name]; ok {
		return bf
	}
	return nil
}

func (c *useCollector) record(name string, site ast.Expr, kind UseKind) {
	bf := c.bindingFor(name)
	if bf == nil {
		return
	}
	bf.Uses = append(bf.Uses, Use{Kind: kind, Site: site})
}

func (c *useCollector) walkBlock(b *ast.Block, _ bool) {
	for _, st := range b.Stmts {
		c.stmt(st)
	}
	if b.Tail != nil {
		c.expr(b.Tail, UseMoving)
	}
}

func (c *useCollector) stmt(st ast.Stmt) {
	switch v := st.(type) {
	case *ast.LetStmt:
		if bp, ok := v.Pattern.(*ast.BindingPattern); ok {
			if _, tracked := c.locals[bp.Name]; !tracked {
				nonCopy := true
				tn := ""
				if c.localType != nil {
					tn = c.localType(bp.Name)
					nonCopy = !c.isCopy(tn)
				}
				c.locals[bp.Name] = &BindingFacts{Name: bp.Name, TypeName: tn, AutoClone: map[ast.Expr]bool{}, NonCopyType: nonCopy}
			}
		}
		c.expr(v.Value, UseMoving)
	case *ast.AssignStmt:
		c.assignTarget(v.Target)
		c.expr(v.Value, UseMoving)
	case *ast.ExprStmt:
		c.expr(v.X, UseMoving)
	case *ast.ReturnStmt:
		c.expr(v.Value, UseMoving)
	case *ast.WhileStmt:
		c.expr(v.Cond, UseReadOnly)
		c.walkBlock(v.Body, false)
	case *ast.ForStmt:
		c.expr(v.Iter, UseReadOnly)
		c.walkBlock(v.Body, false)
	case *ast.BreakStmt:
		c.expr(v.Value, UseMoving)
	}
}

// assignTarget classifies "x = ..." and "x.field = ..." as a Mutating use
// of the root binding.
func (c *useCollector) assignTarget(target ast.Expr) {
	switch v := target.(type) {
	case *ast.Ident:
		c.record(v.Name, v, UseMutating)
	case *ast.FieldAccess:
		if root, ok := rootIdent(v.Target); ok {
			c.record(root, v, UseMutating)
		}
		c.expr(v.Target, UseReadOnly)
	case *ast.IndexExpr:
		if root, ok := rootIdent(v.Target); ok {
			c.record(root, v, UseMutating)
		}
		c.expr(v.Target, UseReadOnly)
		c.expr(v.Index, UseReadOnly)
	}
}

// recordIndexClone marks v as an auto-clone obligation against its
// container's tracked binding when the indexed element type isn't provably
// Copy. An index expression whose container type wasn't resolved by Pass B
// (e.g. the result of an unannotated method call, as in the "let cs =
// parent.kids(); cs[i]" case) is treated conservatively as non-Copy, since a
// missed clone would emit Rust that fails to compile while a spurious clone
// on an actually-Copy element merely costs a harmless no-op copy.
func (c *useCollector) recordIndexClone(v *ast.IndexExpr) {
	root, ok := rootIdent(v.Target)
	if !ok {
		return
	}
	bf := c.bindingFor(root)
	if bf == nil {
		return
	}
	if c.elemIsCopy(root) {
		return
	}
	bf.AutoClone[v] = true
}

// elemIsCopy reports whether root's static type is a recognized container
// (Vec<T>/Option<T>/Result<T,E>) whose element type is itself Copy.
func (c *useCollector) elemIsCopy(root string) bool {
	if c.localType == nil {
		return false
	}
	containerType := c.localType(root)
	if containerType == "" {
		return false
	}
	_, args, ok := parseContainerType(containerType)
	if !ok || len(args) == 0 || args[0] == "" {
		return false
	}
	return c.isCopy(args[0])
}

func rootIdent(x ast.Expr) (string, bool) {
	switch v := x.(type) {
	case *ast.Ident:
		return v.Name, true
	case *ast.FieldAccess:
		return rootIdent(v.Target)
	case *ast.IndexExpr:
		return rootIdent(v.Target)
	default:
		return "", false
	}
}

// expr records site's use (when site is itself a tracked Ident) with kind,
// then recurses into children with a use kind derived from their syntactic
// position: method receivers of an "&self"-shaped call and plain field
// reads are read-only; everything else defaults to moving, matching the
// conservative §4.2 point 2 fallback.
func (c *useCollector) expr(x ast.Expr, kind UseKind) {
	if x == nil {
		return
	}
	switch v := x.(type) {
	case *ast.Ident:
		c.record(v.Name, v, kind)
	case *ast.FieldAccess:
		// A bare field read ("x.field") does not move x itself.
		c.expr(v.Target, UseReadOnly)
	case *ast.IndexExpr:
		// "Vec-index special case": container[index] in a moving position
		// is itself the moving site, not its container; the container is
		// only read to produce the indexed value. Rust never lets a
		// non-Copy element move out of an index expression, so this needs
		// a clone regardless of whether the container binding itself is
		// used again afterward — unlike the ordinary per-binding
		// non-final-use rule in finalizeBindingFacts.
		c.expr(v.Target, UseReadOnly)
		c.expr(v.Index, UseReadOnly)
		if kind == UseMoving {
			c.recordIndexClone(v)
		}
	case *ast.CallExpr:
		c.expr(v.Callee, UseReadOnly)
		for _, a := range v.Args {
			c.expr(a, UseMoving)
		}
	case *ast.MethodCallExpr:
		// The receiver is always recorded as a read-only use; the callee's
		// self-mode is not consulted.
		c.expr(v.Receiver, UseReadOnly)
		for _, a := range v.Args {
			c.expr(a, UseMoving)
		}
	case *ast.BinaryExpr:
		c.expr(v.LHS, UseReadOnly)
		c.expr(v.RHS, UseReadOnly)
	case *ast.UnaryExpr:
		if v.Op == "&mut" {
			c.expr(v.Operand, UseMutating)
		} else if v.Op == "&" {
			c.expr(v.Operand, UseReadOnly)
		} else {
			c.expr(v.Operand, UseReadOnly)
		}
	case *ast.BlockExpr:
		c.walkBlock(v.Block, false)
	case *ast.IfExpr:
		c.expr(v.Cond, UseReadOnly)
		c.walkBlock(v.Then, false)
		c.expr(v.Else, kind)
	case *ast.MatchExpr:
		c.expr(v.Scrutinee, UseReadOnly)
		for _, arm := range v.Arms {
			c.expr(arm.Guard, UseReadOnly)
			c.expr(arm.Body, kind)
		}
	case *ast.LoopExpr:
		c.walkBlock(v.Body, false)
	case *ast.ClosureExpr:
		c.closure(v)
	case *ast.TupleExpr:
		for _, e := range v.Elems {
			c.expr(e, UseMoving)
		}
	case *ast.ArrayExpr:
		for _, e := range v.Elems {
			c.expr(e, UseMoving)
		}
		c.expr(v.Value, UseReadOnly)
	case *ast.StructLit:
		for _, f := range v.Fields {
			c.expr(f.Value, UseMoving)
		}
		c.expr(v.Spread, UseMoving)
	case *ast.RangeExpr:
		c.expr(v.Lo, UseReadOnly)
		c.expr(v.Hi, UseReadOnly)
	case *ast.CastExpr:
		c.expr(v.X, UseReadOnly)
	case *ast.AwaitExpr:
		c.expr(v.X, kind)
	case *ast.TryExpr:
		c.expr(v.X, kind)
	case *ast.TernaryExpr:
		c.expr(v.Cond, UseReadOnly)
		c.expr(v.Then, kind)
		c.expr(v.Else, kind)
	case *ast.PipeExpr:
		c.expr(v.LHS, UseMoving)
		c.expr(v.Callee, UseReadOnly)
		for _, a := range v.Args {
			c.expr(a, UseMoving)
		}
	}
}

// closure determines each free name's capture mode by restricting the
// enclosing use-analysis to the names the closure body actually mentions
// (§4.2 point 7), recording the result on the ClosureExpr itself.
func (c *useCollector) closure(cl *ast.ClosureExpr) {
	bound := map[string]bool{}
	for _, p := range cl.Params {
		bound[p.Name] = true
	}
	sub := &useCollector{self: c.self, params: map[string]*BindingFacts{}, locals: map[string]*BindingFacts{}, localType: c.localType, isCopy: c.isCopy}
	for k, v := range c.params {
		if !bound[k] {
			sub.params[k] = v
		}
	}
	for k, v := range c.locals {
		if !bound[k] {
			sub.locals[k] = v
		}
	}
	sub.expr(cl.Body, UseMoving)

	seen := map[string]bool{}
	for name := range sub.params {
		if len(sub.bindingFor(name).Uses) > 0 && !seen[name] {
			seen[name] = true
			cl.Captures = append(cl.Captures, ast.Capture{Name: name, Mode: captureMode(sub.bindingFor(name))})
		}
	}
	for name := range sub.locals {
		if len(sub.bindingFor(name).Uses) > 0 && !seen[name] {
			seen[name] = true
			cl.Captures = append(cl.Captures, ast.Capture{Name: name, Mode: captureMode(sub.bindingFor(name))})
		}
	}
}

func captureMode(bf *BindingFacts) ast.CaptureMode {
	if bf.Mut {
		return ast.CaptureByMutRef
	}
	for i, u := range bf.Uses {
		if u.Kind == UseMoving && isLastUse(bf.Uses, i) {
			return ast.CaptureByMove
		}
	}
	return ast.CaptureByRef
}
