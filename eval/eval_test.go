package eval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shapescript/shapescript/analyzer"
	"github.com/shapescript/shapescript/ast"
	"github.com/shapescript/shapescript/errs"
	"github.com/shapescript/shapescript/lexer"
	"github.com/shapescript/shapescript/parser"
	"github.com/shapescript/shapescript/stdlib"
	"github.com/shapescript/shapescript/value"
)

// rgb is a 3-field comparable used with require.Equal for color-triple
// assertions, since AsVectorLike returns three separate float64s.
type rgb struct{ R, G, B float64 }

type fakeEngine struct{ calls int }

func (e *fakeEngine) BuildPrimitive(kind string, params value.Value, detail, smoothing int) (value.Value, int, error) {
	e.calls++
	return value.Opaque(value.KindMesh, map[string]any{"name": value.String(kind)}), 6, nil
}

func (e *fakeEngine) BuildBuilder(kind string, children []value.Value, params value.Value) (value.Value, int, error) {
	e.calls++
	return value.Opaque(value.KindMesh, map[string]any{"name": value.String(kind)}), 12, nil
}

func (e *fakeEngine) BuildCSG(op string, children []value.Value) (value.Value, int, error) {
	e.calls++
	return value.Opaque(value.KindMesh, map[string]any{"name": value.String(op)}), 18, nil
}

func compile(t *testing.T, src string) (*ast.Program, *stdlib.Table) {
	t.Helper()
	toks, lexErrs := lexer.Tokenize(src)
	if lexErrs.HasErrors() {
		t.Fatalf("lex errors: %v", lexErrs)
	}
	prog, parseErrs := parser.Parse(toks)
	if parseErrs.HasErrors() {
		t.Fatalf("parse errors: %v", parseErrs)
	}
	root := stdlib.NewRoot()
	if analyzeErrs := analyzer.Analyze(prog, root); analyzeErrs.HasErrors() {
		t.Fatalf("analyze errors: %v", analyzeErrs)
	}
	return prog, root
}

func TestEvaluateMinimalCubeProgram(t *testing.T) {
	prog, root := compile(t, "cube\n")
	engine := &fakeEngine{}
	scn, err := Evaluate(prog, root, Options{Engine: engine})
	if err != nil {
		t.Fatal(err)
	}
	if len(scn.Root.Children) != 1 {
		t.Fatalf("got %d top-level nodes, want 1", len(scn.Root.Children))
	}
	cube := scn.Root.Children[0]
	if cube.Kind != "cube" {
		t.Fatalf("got kind %q, want cube", cube.Kind)
	}
	if err := cube.Build(nil); err != nil {
		t.Fatal(err)
	}
	if cube.Mesh().IsUnset() {
		t.Fatalf("expected a built mesh")
	}
	if engine.calls != 1 {
		t.Fatalf("got %d engine calls, want 1", engine.calls)
	}
}

func TestScopeChildRestoresColorOnExit(t *testing.T) {
	prog, root := compile(t, "color 1 0 0\n{ color 0 1 0 }\ncube\n")
	scn, err := Evaluate(prog, root, Options{Engine: &fakeEngine{}})
	if err != nil {
		t.Fatal(err)
	}
	if len(scn.Root.Children) != 1 {
		t.Fatalf("got %d top-level nodes, want 1", len(scn.Root.Children))
	}
	cube := scn.Root.Children[0]
	x, y, z, ok := cube.Material.Color.AsVectorLike()
	require.True(t, ok, "expected cube material color to be vector-like")
	require.Equal(t, rgb{1, 0, 0}, rgb{x, y, z}, "block's color mutation should not leak to a sibling")
}

func TestScopeChildResetsTransformDelta(t *testing.T) {
	// The inner translate should offset only the inner cube, not the outer
	// one, since each block's transform delta starts at identity.
	prog, root := compile(t, "cube\ngroup { translate 5 0 0 cube }\n")
	scn, err := Evaluate(prog, root, Options{Engine: &fakeEngine{}})
	if err != nil {
		t.Fatal(err)
	}
	outer := scn.Root.Children[0]
	if outer.World[3] != 0 {
		t.Fatalf("got outer translation %v, want 0", outer.World[3])
	}
	group := scn.Root.Children[1]
	inner := group.Children[0]
	if inner.World[3] != 5 {
		t.Fatalf("got inner world translation %v, want 5", inner.World[3])
	}
}

func TestLCGDeterministicGivenSameSeed(t *testing.T) {
	sh := &shared{depth: new(int), maxDepth: 1024, isCancelled: func() bool { return false }, inFlight: map[string]bool{}}
	a := NewRootScope(stdlib.NewRoot(), sh)
	b := NewRootScope(stdlib.NewRoot(), sh)
	a.reseed(42)
	b.reseed(42)
	for i := 0; i < 5; i++ {
		av, bv := a.rnd(), b.rnd()
		if av != bv {
			t.Fatalf("sequence diverged at step %d: %v vs %v", i, av, bv)
		}
	}
}

func TestCancellationAbortsEvaluation(t *testing.T) {
	prog, root := compile(t, "for i in 1 to 1000000 { cube }\n")
	opts := Options{Engine: &fakeEngine{}, IsCancelled: func() bool { return true }}
	_, err := Evaluate(prog, root, opts)
	if err == nil {
		t.Fatalf("expected cancellation to abort evaluation")
	}
	e, ok := err.(*errs.Error)
	if !ok || e.Kind != errs.Cancelled {
		t.Fatalf("got %v, want a cancelled error", err)
	}
}

func TestCSGMaterialInheritsFirstChild(t *testing.T) {
	prog, root := compile(t, "difference {\n  color 1 0 0\n  cube\n  color 0 1 0\n  sphere\n}\n")
	scn, err := Evaluate(prog, root, Options{Engine: &fakeEngine{}})
	if err != nil {
		t.Fatal(err)
	}
	diff := scn.Root.Children[0]
	x, y, z, _ := diff.Material.Color.AsVectorLike()
	require.Equal(t, rgb{1, 0, 0}, rgb{x, y, z}, "difference should inherit its first child's material")
}

func TestStencilMaterialInheritsSecondChild(t *testing.T) {
	prog, root := compile(t, "stencil {\n  color 1 0 0\n  cube\n  color 0 1 0\n  sphere\n}\n")
	scn, err := Evaluate(prog, root, Options{Engine: &fakeEngine{}})
	if err != nil {
		t.Fatal(err)
	}
	st := scn.Root.Children[0]
	x, y, z, _ := st.Material.Color.AsVectorLike()
	require.Equal(t, rgb{0, 1, 0}, rgb{x, y, z}, "stencil should inherit its second child's material")
}

func TestBlockInvocationOptionOverride(t *testing.T) {
	src := "define star(n) {\n  option points 5\n  for i in 1 to points*2 {\n    cube\n  }\n}\nstar(1) { points 6 }\n"
	prog, root := compile(t, src)
	scn, err := Evaluate(prog, root, Options{Engine: &fakeEngine{}})
	if err != nil {
		t.Fatal(err)
	}
	group := scn.Root
	if len(group.Children) != 12 {
		t.Fatalf("got %d children, want 12 (points=6 overridden via invocation body)", len(group.Children))
	}
}
