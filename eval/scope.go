// Package eval implements the ShapeScript evaluator: an AST walk over a
// hierarchical Scope carrying transform, material, detail/smoothing,
// random state, and symbol tables, producing a scene.Scene (spec.md §4.7).
package eval

import (
	"github.com/shapescript/shapescript/ast"
	"github.com/shapescript/shapescript/geomcache"
	"github.com/shapescript/shapescript/scene"
	"github.com/shapescript/shapescript/stdlib"
	"github.com/shapescript/shapescript/value"
)

// userBlock is a `define NAME(params) body` or `define NAME { body }`
// binding: a callable captured together with its defining scope, matching
// spec.md §3's "block(parameterless thunk captured with its defining
// scope)" generalized to accept parameters/options.
type userBlock struct {
	params   []string
	body     *ast.Block
	defScope *Scope
}

// blockTable is a parent-linked name->userBlock map, shaped like
// stdlib.Table but kept in this package since user blocks need Scope
// access that stdlib does not have.
type blockTable struct {
	parent *blockTable
	blocks map[string]*userBlock
}

func newBlockTable(parent *blockTable) *blockTable {
	return &blockTable{parent: parent, blocks: map[string]*userBlock{}}
}

func (t *blockTable) define(name string, b *userBlock) { t.blocks[name] = b }

func (t *blockTable) lookup(name string) (*userBlock, bool) {
	for cur := t; cur != nil; cur = cur.parent {
		if b, ok := cur.blocks[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// shared holds the state common to every Scope in one evaluation: the
// import delegate, the external geometry engine, the geometry cache, the
// cancellation oracle, and the recursion depth counter. Fields here are
// pointer-identity shared across Scope.Child() (they are evaluation-wide,
// not per-scope), unlike the ambient fields on Scope itself.
type shared struct {
	root        *stdlib.Table
	delegate    Delegate
	engine      GeometryEngine
	cache       *geomcache.Cache[value.Value]
	isCancelled func() bool
	depth       *int
	maxDepth    int
	inFlight    map[string]bool // import paths currently being resolved, for circularImport detection
}

// Scope is the evaluator's ambient state: symbol table, transform,
// material, detail/smoothing, and random seed, plus the user-block table.
// Entering a `{ ... }` block calls Child, which value-clones every ambient
// field (spec.md §4.7's "child scope by value-cloning"); because Scope is
// always passed onward as a freshly allocated struct, the parent's fields
// are never touched by the child's mutations, so "restore on scope exit"
// falls out of Go's value-copy semantics rather than needing an explicit
// restore step.
type Scope struct {
	symbols *stdlib.Table
	blocks  *blockTable

	transform  scene.Transform
	material   scene.Material
	detail     int
	smoothing  int
	seed       uint32
	background value.Value

	// pointSink, when non-nil, redirects `point`/`curve` commands to
	// append to it instead of emitting a Geometry node, for a path body
	// under construction (spec.md §4.5's `path point curve` group).
	pointSink *[]value.Value

	shared *shared
}

// NewRootScope creates the outermost scope for one evaluation.
func NewRootScope(root *stdlib.Table, sh *shared) *Scope {
	return &Scope{
		symbols:    root,
		blocks:     newBlockTable(nil),
		transform:  scene.Identity(),
		material:   scene.DefaultMaterial(),
		detail:     16,
		smoothing:  0,
		seed:       0,
		background: value.Color(1, 1, 1, 1),
		shared:     sh,
	}
}

// Child creates a nested scope for a `{ ... }` body: a value copy of every
// ambient field, with fresh child symbol/block tables parented to this
// scope's. transform is the one field reset to Identity rather than
// inherited: each Geometry node's Local transform is only the delta
// accumulated within its own immediate scope, with ancestor composition
// handled separately by scene.AttachTo (spec.md §3's "world transform is
// the product of ancestor transforms composed with its local transform").
// Carrying the cumulative matrix forward here would double-apply it once
// AttachTo composes against the parent node's already-cumulative World.
func (s *Scope) Child() *Scope {
	child := *s
	child.symbols = s.symbols.Child()
	child.blocks = newBlockTable(s.blocks)
	child.transform = scene.Identity()
	return &child
}

// Define binds name to a constant value in this scope's symbol table,
// shadowing any outer binding (spec.md §4.5).
func (s *Scope) Define(name string, v value.Value) {
	s.symbols.Define(stdlib.Symbol{Name: name, Kind: stdlib.Constant, Const: v})
}

// Lookup resolves name against this scope's symbol table.
func (s *Scope) Lookup(name string) (stdlib.Symbol, bool) {
	return s.symbols.Lookup(name)
}

// rnd advances the scope's LCG and returns the next value in [0,1), per
// spec.md §4.7's "rnd reads from the current scope's LCG state, advances
// it, returns a double in [0,1)".
func (s *Scope) rnd() float64 {
	// Numerical Recipes' 32-bit LCG constants; chosen for a long period
	// and good bit mixing across the whole 32-bit state, not for
	// cryptographic strength.
	s.seed = s.seed*1664525 + 1013904223
	return float64(s.seed) / 4294967296.0
}

// reseed resets the LCG state to the low 32 bits of n, per spec.md §4.7's
// "seed x resets the state to the low 32 bits of x modulo 2^32".
func (s *Scope) reseed(n float64) {
	s.seed = uint32(int64(n) & 0xFFFFFFFF)
}
