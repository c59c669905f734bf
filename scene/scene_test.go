package scene

import (
	"testing"

	"github.com/shapescript/shapescript/source"
	"github.com/shapescript/shapescript/value"
)

func TestWorldTransformIsAncestorComposition(t *testing.T) {
	root := NewGeometry("group", source.Range{}, Transform{Translate: [3]float64{1, 0, 0}, Scale: [3]float64{1, 1, 1}}, DefaultMaterial(), nil)
	child := NewGeometry("cube", source.Range{Start: 1, End: 2}, Transform{Translate: [3]float64{0, 2, 0}, Scale: [3]float64{1, 1, 1}}, DefaultMaterial(), nil)
	AttachTo(root, child)

	// World translation should combine both translations: (1,2,0).
	if child.World[3] != 1 || child.World[7] != 2 {
		t.Fatalf("got world translation (%v, %v), want (1, 2)", child.World[3], child.World[7])
	}
}

func TestBuildTransitionsDeclaredToBuilt(t *testing.T) {
	g := NewGeometry("cube", source.Range{}, Identity(), DefaultMaterial(), func() (value.Value, int, error) {
		return value.Number(1), 12, nil
	})
	if g.State() != Declared {
		t.Fatalf("expected Declared before Build")
	}
	if err := g.Build(nil); err != nil {
		t.Fatal(err)
	}
	if g.State() != Built {
		t.Fatalf("got state %v, want Built", g.State())
	}
}

func TestBuildCancellation(t *testing.T) {
	root := NewGeometry("group", source.Range{}, Identity(), DefaultMaterial(), nil)
	child := NewGeometry("cube", source.Range{}, Identity(), DefaultMaterial(), func() (value.Value, int, error) {
		return value.Number(1), 1, nil
	})
	AttachTo(root, child)

	err := root.Build(func() bool { return true })
	if err == nil {
		t.Fatalf("expected cancellation to produce an error")
	}
}

func TestSceneBuildReturnsFalseOnCancellation(t *testing.T) {
	root := NewGeometry("group", source.Range{}, Identity(), DefaultMaterial(), func() (value.Value, int, error) {
		return value.Unset, 0, nil
	})
	s := &Scene{Root: root}
	ok, err := s.Build(func() bool { return true })
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatalf("expected Build to report false when cancelled")
	}
}

func TestMarkExportedOnlyAfterBuilt(t *testing.T) {
	g := NewGeometry("cube", source.Range{}, Identity(), DefaultMaterial(), func() (value.Value, int, error) {
		return value.Number(1), 1, nil
	})
	g.MarkExported()
	if g.State() != Declared {
		t.Fatalf("expected MarkExported before Build to be a no-op")
	}
	g.Build(nil)
	g.MarkExported()
	if g.State() != Exported {
		t.Fatalf("got state %v, want Exported", g.State())
	}
}

func TestStableIDDerivedFromRange(t *testing.T) {
	a := NewGeometry("cube", source.Range{Start: 10, End: 20}, Identity(), DefaultMaterial(), nil)
	b := NewGeometry("cube", source.Range{Start: 10, End: 20}, Identity(), DefaultMaterial(), nil)
	if a.ID != b.ID {
		t.Fatalf("expected identical ranges to produce identical IDs, got %q vs %q", a.ID, b.ID)
	}
}
