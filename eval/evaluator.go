package eval

import (
	"fmt"

	"github.com/shapescript/shapescript/ast"
	"github.com/shapescript/shapescript/errs"
	"github.com/shapescript/shapescript/geomcache"
	"github.com/shapescript/shapescript/scene"
	"github.com/shapescript/shapescript/source"
	"github.com/shapescript/shapescript/stdlib"
	"github.com/shapescript/shapescript/value"
)

// Options configures one evaluation: the import/logging delegate, the
// external geometry engine, the shared geometry cache, the cancellation
// oracle, and the recursion depth cap. Passed as an explicit struct
// rather than read from globals or the environment (spec.md §6, "No
// environment variables are consumed by the core").
type Options struct {
	Delegate     Delegate
	Engine       GeometryEngine
	Cache        *geomcache.Cache[value.Value]
	IsCancelled  func() bool
	MaxCallDepth int
}

// DefaultOptions returns the spec's suggested defaults: an always-false
// cancellation oracle, a fresh geometry cache, and a 1024 call depth cap
// (spec.md §4.7: "suggested 1024").
func DefaultOptions() Options {
	return Options{
		Cache:        geomcache.New[value.Value](),
		IsCancelled:  func() bool { return false },
		MaxCallDepth: 1024,
	}
}

// Evaluate walks prog under a fresh root Scope built from root, producing
// a scene.Scene, per spec.md §6's `evaluate(program, delegate, cache,
// isCancelled) -> Scene | RuntimeError`.
func Evaluate(prog *ast.Program, root *stdlib.Table, opts Options) (*scene.Scene, error) {
	if opts.Cache == nil {
		opts.Cache = geomcache.New[value.Value]()
	}
	if opts.IsCancelled == nil {
		opts.IsCancelled = func() bool { return false }
	}
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = 1024
	}
	depth := 0
	sh := &shared{
		root:        root,
		delegate:    opts.Delegate,
		engine:      opts.Engine,
		cache:       opts.Cache,
		isCancelled: opts.IsCancelled,
		depth:       &depth,
		maxDepth:    opts.MaxCallDepth,
		inFlight:    map[string]bool{},
	}
	rootScope := NewRootScope(root, sh)

	children, err := evalBlockStatements(prog.Statements, rootScope)
	if err != nil {
		return nil, err
	}

	rootGeom := scene.NewGeometry("group", prog.Range, scene.Identity(), scene.DefaultMaterial(), nil)
	for _, c := range children {
		scene.AttachTo(rootGeom, c)
	}
	return &scene.Scene{Root: rootGeom, Background: rootScope.background}, nil
}

// pollCancel checks the shared cancellation oracle, matching spec.md §5's
// "polls ... between statements, per loop iteration, and around every
// call into the geometry engine."
func (s *Scope) pollCancel(at source.Range) error {
	if s.shared.isCancelled() {
		return errs.New(errs.Cancelled, at, "evaluation cancelled")
	}
	return nil
}

// enterCall increments the shared call-depth counter, raising
// stackOverflow if it exceeds the configured cap (spec.md §4.7).
func (s *Scope) enterCall(at source.Range) error {
	*s.shared.depth++
	if *s.shared.depth > s.shared.maxDepth {
		return errs.Newf(errs.StackOverflow, at, "call depth exceeded %d", s.shared.maxDepth)
	}
	return nil
}

func (s *Scope) exitCall() { *s.shared.depth-- }

// evalBlockStatements evaluates stmts in sc, returning the geometry nodes
// produced directly by them (in source order), or the first error
// encountered.
func evalBlockStatements(stmts []ast.Stmt, sc *Scope) ([]*scene.Geometry, error) {
	var acc []*scene.Geometry
	for _, stmt := range stmts {
		if err := sc.pollCancel(stmt.Pos()); err != nil {
			return nil, err
		}
		if err := evalStmt(stmt, sc, &acc); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func evalStmt(stmt ast.Stmt, sc *Scope, acc *[]*scene.Geometry) error {
	switch s := stmt.(type) {
	case *ast.DefineStmt:
		return evalDefine(s, sc)
	case *ast.OptionStmt:
		return evalOption(s, sc)
	case *ast.ForStmt:
		return evalFor(s, sc, acc)
	case *ast.IfStmt:
		return evalIf(s, sc, acc)
	case *ast.ImportStmt:
		return evalImport(s, sc, acc)
	case *ast.CommandStmt:
		return evalCommand(s, sc, acc)
	case *ast.ExprStmt:
		_, err := evalExpr(s.Expr, sc)
		return err
	case *ast.Block:
		children, err := evalBlockStatements(s.Statements, sc.Child())
		if err != nil {
			return err
		}
		*acc = append(*acc, children...)
		return nil
	default:
		return fmt.Errorf("eval: unhandled statement %T", stmt)
	}
}

func evalDefine(s *ast.DefineStmt, sc *Scope) error {
	if s.IsFunction() {
		sc.blocks.define(s.Name, &userBlock{params: s.Params, body: s.Body, defScope: sc})
		return nil
	}
	v, err := evalExpr(s.Value, sc)
	if err != nil {
		return err
	}
	sc.Define(s.Name, v)
	return nil
}

// evalOption installs name's default value, unless a block invocation has
// already overridden it in this scope (spec.md §4.7, §9 option/define
// shadowing resolution in DESIGN.md).
func evalOption(s *ast.OptionStmt, sc *Scope) error {
	if _, ok := sc.symbols.LookupLocal(s.Name); ok {
		return nil // already bound by the invocation's override body
	}
	var def value.Value
	if s.Default != nil {
		v, err := evalExpr(s.Default, sc)
		if err != nil {
			return err
		}
		def = v
	}
	sc.Define(s.Name, def)
	return nil
}

func truthy(v value.Value) bool {
	if v.Kind() == value.KindNumber {
		return v.Number() != 0
	}
	return !v.IsUnset()
}

func evalFor(s *ast.ForStmt, sc *Scope, acc *[]*scene.Geometry) error {
	iterable, err := evalExpr(s.Iterable, sc)
	if err != nil {
		return err
	}
	items, err := iterate(iterable)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := sc.pollCancel(s.Range); err != nil {
			return err
		}
		child := sc.Child()
		if s.Var != "" {
			child.Define(s.Var, item)
		}
		children, err := evalBlockStatements(s.Body.Statements, child)
		if err != nil {
			return err
		}
		*acc = append(*acc, children...)
	}
	return nil
}

// iterate expands a range or tuple value into its constituent elements,
// per spec.md §8's range-iteration invariant.
func iterate(v value.Value) ([]value.Value, error) {
	switch v.Kind() {
	case value.KindRange:
		r := v.RangeVal()
		n := r.Count()
		out := make([]value.Value, n)
		for i := 0; i < n; i++ {
			out[i] = value.Number(r.At(i))
		}
		return out, nil
	case value.KindTuple:
		return v.Elems(), nil
	default:
		return nil, fmt.Errorf("cannot iterate a %s", v.Kind())
	}
}

func evalIf(s *ast.IfStmt, sc *Scope, acc *[]*scene.Geometry) error {
	cond, err := evalExpr(s.Cond, sc)
	if err != nil {
		return err
	}
	if truthy(cond) {
		children, err := evalBlockStatements(s.Then.Statements, sc.Child())
		if err != nil {
			return err
		}
		*acc = append(*acc, children...)
		return nil
	}
	if s.Else == nil {
		return nil
	}
	switch e := s.Else.(type) {
	case *ast.Block:
		children, err := evalBlockStatements(e.Statements, sc.Child())
		if err != nil {
			return err
		}
		*acc = append(*acc, children...)
		return nil
	default:
		return evalStmt(e, sc, acc)
	}
}
