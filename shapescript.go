// Package shapescript provides a pure Go ShapeScript compiler.
//
// ShapeScript is a DSL for procedural 3D geometry: a program describes a
// tree of shapes, boolean (CSG) operations, and mesh builders, with
// control flow, user-defined blocks, and a scoped transform/material
// state. This package compiles ShapeScript source text down to a
// scene.Scene of declared (not yet meshed) geometry nodes; realizing
// actual polygon meshes is a separate, explicit Scene.Build step, and
// requires an eval.GeometryEngine implementation supplied by the caller.
//
// The compilation pipeline is:
//  1. Parse ShapeScript source to an AST (lexer + parser)
//  2. Analyze the AST for symbol/arity errors (analyzer)
//  3. Evaluate the AST under a root scope into a scene.Scene (eval)
package shapescript

import (
	"errors"
	"fmt"

	"github.com/shapescript/shapescript/analyzer"
	"github.com/shapescript/shapescript/ast"
	"github.com/shapescript/shapescript/errs"
	"github.com/shapescript/shapescript/eval"
	"github.com/shapescript/shapescript/geomcache"
	"github.com/shapescript/shapescript/lexer"
	"github.com/shapescript/shapescript/parser"
	"github.com/shapescript/shapescript/scene"
	"github.com/shapescript/shapescript/stdlib"
	"github.com/shapescript/shapescript/value"
)

// CompileOptions configures one compilation.
type CompileOptions struct {
	// Delegate resolves imports and receives print/debug output. May be
	// nil if the source contains no `import` statements.
	Delegate eval.Delegate

	// Engine materializes primitive/builder/CSG meshes. May be nil if the
	// caller only needs the declared scene tree, not built meshes.
	Engine eval.GeometryEngine

	// Cache memoizes mesh results across evaluations. A fresh cache is
	// created if nil.
	Cache *geomcache.Cache[value.Value]

	// IsCancelled is polled between statements, per loop iteration, and
	// around every call into Engine. Treated as always-false if nil.
	IsCancelled func() bool

	// MaxCallDepth caps block/function call recursion (default 1024).
	MaxCallDepth int
}

// DefaultOptions returns the suggested defaults: a fresh geometry cache,
// an always-false cancellation oracle, and a 1024 call-depth cap.
func DefaultOptions() CompileOptions {
	opts := eval.DefaultOptions()
	return CompileOptions{
		Cache:        opts.Cache,
		IsCancelled:  opts.IsCancelled,
		MaxCallDepth: opts.MaxCallDepth,
	}
}

// Compile parses, analyzes, and evaluates source using DefaultOptions.
//
// This is the simplest way to compile a ShapeScript program. For more
// control, use CompileWithOptions or the individual Parse/Analyze/Evaluate
// functions.
func Compile(source string) (*scene.Scene, error) {
	return CompileWithOptions(source, DefaultOptions())
}

// CompileWithOptions parses, analyzes, and evaluates source with custom
// options.
func CompileWithOptions(source string, opts CompileOptions) (*scene.Scene, error) {
	prog, err := Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	root := stdlib.NewRoot()
	if err := Analyze(prog, root); err != nil {
		return nil, fmt.Errorf("analysis error: %w", err)
	}

	scn, err := Evaluate(prog, root, opts)
	if err != nil {
		return nil, fmt.Errorf("evaluation error: %w", err)
	}
	return scn, nil
}

// Parse parses ShapeScript source text to an AST.
//
// This is the first stage of compilation: lexing followed by recursive-
// descent parsing. The AST does not carry symbol resolution or arity
// information; that is the analyzer's job.
func Parse(source string) (*ast.Program, error) {
	normalized := lexer.Normalize([]byte(source))

	tokens, lexErrs := lexer.Tokenize(normalized)
	if len(lexErrs) > 0 {
		return nil, lexErrs[0]
	}

	prog, parseErrs := parser.Parse(tokens)
	if len(parseErrs) > 0 {
		return nil, parseErrs[0]
	}
	return prog, nil
}

// Analyze runs the static analyzer over prog against root, returning the
// first error encountered (if any). root is typically stdlib.NewRoot(),
// passed explicitly so callers that pre-populate their own symbols (e.g.
// for import re-entry) can analyze against that table instead.
func Analyze(prog *ast.Program, root *stdlib.Table) error {
	if analyzeErrs := analyzer.Analyze(prog, root); len(analyzeErrs) > 0 {
		return analyzeErrs[0]
	}
	return nil
}

// Evaluate walks prog under a fresh root scope built from root, producing
// a scene.Scene of declared geometry. Call Scene.Build to materialize
// meshes (requires opts.Engine).
func Evaluate(prog *ast.Program, root *stdlib.Table, opts CompileOptions) (*scene.Scene, error) {
	return eval.Evaluate(prog, root, eval.Options{
		Delegate:     opts.Delegate,
		Engine:       opts.Engine,
		Cache:        opts.Cache,
		IsCancelled:  opts.IsCancelled,
		MaxCallDepth: opts.MaxCallDepth,
	})
}

// FormatError renders err as the caret-aligned diagnostic spec.md §4.9
// describes, if err is (or wraps) an *errs.Error; otherwise it falls back
// to err.Error().
func FormatError(err error, source string) string {
	var e *errs.Error
	if errors.As(err, &e) {
		return e.Format(source)
	}
	return err.Error()
}
