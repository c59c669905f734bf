// Package analyzer implements the static analysis pass that runs after
// parsing and before evaluation: symbol resolution by scope, arity checks
// against callee signatures, and the option/forward-reference rules of
// spec.md §4.6.
package analyzer

import (
	"github.com/shapescript/shapescript/ast"
	"github.com/shapescript/shapescript/errs"
	"github.com/shapescript/shapescript/stdlib"
)

// commandSignatures lists arity information for the non-pure built-ins
// (shapes, builders, CSG, structure, commands) that stdlib does not
// register as Symbols, since their evaluation needs scope/geometry access
// the stdlib package does not have (spec.md §4.5's shape/builder/CSG/
// structure/command groups). A command not listed here is treated as
// user-defined or arity-unchecked.
var commandSignatures = map[string]stdlib.Signature{
	"cube": {MinArgs: 0, MaxArgs: 1}, "sphere": {MinArgs: 0, MaxArgs: 1},
	"cone": {MinArgs: 0, MaxArgs: 1}, "cylinder": {MinArgs: 0, MaxArgs: 1},
	"circle": {MinArgs: 0, MaxArgs: 1}, "square": {MinArgs: 0, MaxArgs: 1},
	"roundrect": {MinArgs: 0, MaxArgs: 2}, "polygon": {MinArgs: 0, MaxArgs: -1},
	"path": {MinArgs: 0, MaxArgs: 0}, "point": {MinArgs: 1, MaxArgs: 3},
	"curve": {MinArgs: 1, MaxArgs: 3}, "text": {MinArgs: 1, MaxArgs: 1},
	"mesh": {MinArgs: 0, MaxArgs: 0},
	"fill": {MinArgs: 0, MaxArgs: 0}, "lathe": {MinArgs: 0, MaxArgs: 0},
	"extrude": {MinArgs: 0, MaxArgs: 1}, "loft": {MinArgs: 0, MaxArgs: 0},
	"hull": {MinArgs: 0, MaxArgs: 0}, "minkowski": {MinArgs: 0, MaxArgs: 0},
	"union": {MinArgs: 0, MaxArgs: 0}, "difference": {MinArgs: 0, MaxArgs: 0},
	"intersection": {MinArgs: 0, MaxArgs: 0}, "xor": {MinArgs: 0, MaxArgs: 0},
	"stencil": {MinArgs: 0, MaxArgs: 0},
	"group": {MinArgs: 0, MaxArgs: 0}, "object": {MinArgs: 0, MaxArgs: 0},
	"light": {MinArgs: 0, MaxArgs: 0}, "camera": {MinArgs: 0, MaxArgs: 0},
	"color": {MinArgs: 1, MaxArgs: 4}, "colour": {MinArgs: 1, MaxArgs: 4},
	"texture": {MinArgs: 0, MaxArgs: 1}, "opacity": {MinArgs: 1, MaxArgs: 1},
	"font": {MinArgs: 1, MaxArgs: 1}, "detail": {MinArgs: 1, MaxArgs: 1},
	"smoothing": {MinArgs: 1, MaxArgs: 1}, "position": {MinArgs: 1, MaxArgs: 3},
	"orientation": {MinArgs: 1, MaxArgs: 3}, "size": {MinArgs: 1, MaxArgs: 3},
	"translate": {MinArgs: 1, MaxArgs: 3}, "rotate": {MinArgs: 1, MaxArgs: 3},
	"scale": {MinArgs: 1, MaxArgs: 3}, "background": {MinArgs: 1, MaxArgs: 1},
	"print": {MinArgs: 0, MaxArgs: -1}, "assert": {MinArgs: 1, MaxArgs: 1},
	"debug": {MinArgs: 0, MaxArgs: -1}, "import": {MinArgs: 1, MaxArgs: 1},
	"seed": {MinArgs: 1, MaxArgs: 1},
}

// frame is one lexical scope during analysis: a parent-linked set of
// declared names, mirroring stdlib.Table's shape but tracking declaration
// order so forward references can be detected.
type frame struct {
	parent     *frame
	defined    map[string]bool // names defined so far, in source order, within this frame
	hoisted    map[string]bool // every name `define`d anywhere in this frame's block, regardless of order
	isBlockTop bool            // true while still at the top of a block body (option legality)
}

func newFrame(parent *frame) *frame {
	return &frame{parent: parent, defined: map[string]bool{}, hoisted: map[string]bool{}, isBlockTop: true}
}

func (f *frame) define(name string) { f.defined[name] = true }

func (f *frame) isDefined(name string) bool {
	for cur := f; cur != nil; cur = cur.parent {
		if cur.defined[name] {
			return true
		}
	}
	return false
}

// visibleNames collects every name defined so far in this frame or any
// ancestor, for use as "did you mean" candidates alongside stdlib/command
// names.
func (f *frame) visibleNames() []string {
	var names []string
	for cur := f; cur != nil; cur = cur.parent {
		for n := range cur.defined {
			names = append(names, n)
		}
	}
	return names
}

// isForwardReferenced reports whether name is declared later in this frame
// (or an ancestor's) block but not yet at the current point.
func (f *frame) isForwardReferenced(name string) bool {
	for cur := f; cur != nil; cur = cur.parent {
		if cur.hoisted[name] {
			return true
		}
	}
	return false
}

// hoistDefines pre-scans stmts for every name a DefineStmt or OptionStmt
// introduces, so forward references can be distinguished from genuinely
// unknown symbols.
func (f *frame) hoistDefines(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.DefineStmt:
			f.hoisted[s.Name] = true
		case *ast.OptionStmt:
			f.hoisted[s.Name] = true
		}
	}
}

// Analyzer runs the static pass against a symbol table root (the stdlib
// built-ins) and an AST program.
type Analyzer struct {
	root   *stdlib.Table
	errors errs.List
}

// New creates an Analyzer over root, typically stdlib.NewRoot().
func New(root *stdlib.Table) *Analyzer {
	return &Analyzer{root: root}
}

// Analyze runs the full pass and returns any errors found. The program is
// not mutated and no type annotations are recorded: the evaluator derives
// types dynamically from value.Value.Kind() at each expression.
func Analyze(prog *ast.Program, root *stdlib.Table) errs.List {
	a := New(root)
	f := newFrame(nil)
	a.analyzeBlockBody(prog.Statements, f)
	return a.errors
}

func (a *Analyzer) errorf(kind errs.Kind, n ast.Node, format string, args ...any) {
	a.errors.Add(errs.Newf(kind, n.Pos(), format, args...))
}

func (a *Analyzer) analyzeBlockBody(stmts []ast.Stmt, f *frame) {
	f.hoistDefines(stmts)
	for _, stmt := range stmts {
		a.analyzeStmt(stmt, f)
		if _, ok := stmt.(*ast.OptionStmt); !ok {
			f.isBlockTop = false
		}
	}
}

func (a *Analyzer) analyzeStmt(stmt ast.Stmt, f *frame) {
	switch s := stmt.(type) {
	case *ast.DefineStmt:
		if s.IsFunction() {
			child := newFrame(f)
			for _, p := range s.Params {
				child.define(p)
			}
			a.analyzeBlockBody(s.Body.Statements, child)
		} else if s.Value != nil {
			a.analyzeExpr(s.Value, f)
		}
		f.define(s.Name)
	case *ast.OptionStmt:
		if !f.isBlockTop {
			a.errorf(errs.InvalidOption, s, "'option' is only legal at the top of a block body")
		}
		if s.Default != nil {
			a.analyzeExpr(s.Default, f)
		}
		f.define(s.Name)
	case *ast.ForStmt:
		if s.Iterable != nil {
			a.analyzeExpr(s.Iterable, f)
		}
		child := newFrame(f)
		if s.Var != "" {
			child.define(s.Var)
		}
		a.analyzeBlockBody(s.Body.Statements, child)
	case *ast.IfStmt:
		if s.Cond != nil {
			a.analyzeExpr(s.Cond, f)
		}
		a.analyzeBlockBody(s.Then.Statements, newFrame(f))
		if s.Else != nil {
			a.analyzeStmt(s.Else, f)
		}
	case *ast.ImportStmt:
		if s.Path != nil {
			a.analyzeExpr(s.Path, f)
		}
	case *ast.CommandStmt:
		a.analyzeCommand(s, f)
	case *ast.ExprStmt:
		a.analyzeExpr(s.Expr, f)
	case *ast.Block:
		a.analyzeBlockBody(s.Statements, newFrame(f))
	}
}

func (a *Analyzer) analyzeCommand(c *ast.CommandStmt, f *frame) {
	a.resolveName(c.Name, c, f)
	if sig, ok := commandSignatures[c.Name]; ok {
		if !sig.Accepts(len(c.Args)) {
			a.errorf(errs.WrongArity, c, "wrong number of arguments for %q: got %d", c.Name, len(c.Args))
		}
	} else if sym, ok := a.root.Lookup(c.Name); ok && sym.Kind == stdlib.Function {
		if !sym.Signature.Accepts(len(c.Args)) {
			a.errorf(errs.WrongArity, c, "wrong number of arguments for %q: got %d", c.Name, len(c.Args))
		}
	}
	for _, arg := range c.Args {
		a.analyzeExpr(arg, f)
	}
	if c.Body != nil {
		a.analyzeBlockBody(c.Body.Statements, newFrame(f))
	}
}

func (a *Analyzer) analyzeExpr(e ast.Expr, f *frame) {
	switch x := e.(type) {
	case *ast.Ident:
		a.resolveName(x.Name, x, f)
	case *ast.TupleExpr:
		for _, el := range x.Elems {
			a.analyzeExpr(el, f)
		}
	case *ast.MemberExpr:
		a.analyzeExpr(x.Target, f)
	case *ast.SubscriptExpr:
		a.analyzeExpr(x.Target, f)
		a.analyzeExpr(x.Index, f)
	case *ast.RangeExpr:
		a.analyzeExpr(x.From, f)
		if x.To != nil {
			a.analyzeExpr(x.To, f)
		}
		if x.Step != nil {
			a.analyzeExpr(x.Step, f)
		}
	case *ast.InfixExpr:
		a.analyzeExpr(x.Left, f)
		if x.Right != nil {
			a.analyzeExpr(x.Right, f)
		}
	case *ast.PrefixExpr:
		if x.Operand != nil {
			a.analyzeExpr(x.Operand, f)
		}
	case *ast.CallExpr:
		a.resolveName(x.Name, x, f)
		if sym, ok := a.root.Lookup(x.Name); ok && sym.Kind == stdlib.Function {
			if !sym.Signature.Accepts(len(x.Args)) {
				a.errorf(errs.WrongArity, x, "wrong number of arguments for %q: got %d", x.Name, len(x.Args))
			}
		}
		for _, arg := range x.Args {
			a.analyzeExpr(arg, f)
		}
	case *ast.BlockCallExpr:
		a.resolveName(x.Name, x, f)
		for _, arg := range x.Args {
			a.analyzeExpr(arg, f)
		}
		if x.Body != nil {
			a.analyzeBlockBody(x.Body.Statements, newFrame(f))
		}
	case *ast.Literal:
		// no symbols to resolve
	}
}

// resolveName looks up name against both the user-define frame chain and
// the stdlib root, raising unknownSymbol (with a suggestion) or
// forwardReference as appropriate.
func (a *Analyzer) resolveName(name string, at ast.Node, f *frame) {
	if f.isDefined(name) {
		return
	}
	if _, ok := a.root.Lookup(name); ok {
		return
	}
	if _, ok := commandSignatures[name]; ok {
		return
	}
	if isControlKeyword(name) {
		return
	}
	if f.isForwardReferenced(name) {
		a.errors.Add(errs.Newf(errs.ForwardReference, at.Pos(), "%q is used before it is defined", name))
		return
	}
	candidates := a.root.Names()
	for n := range commandSignatures {
		candidates = append(candidates, n)
	}
	candidates = append(candidates, f.visibleNames()...)
	hint := ""
	if s := errs.Suggest(name, candidates); s != "" {
		hint = s
	}
	e := errs.Newf(errs.UnknownSymbol, at.Pos(), "unknown symbol %q", name)
	if hint != "" {
		e = e.WithHint(hint)
	}
	a.errors.Add(e)
}

func isControlKeyword(name string) bool {
	switch name {
	case "for", "if", "else", "define", "option", "to", "step", "in":
		return true
	}
	return false
}
