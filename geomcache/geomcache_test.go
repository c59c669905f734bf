package geomcache

import "testing"

func TestPutGetRoundTrip(t *testing.T) {
	c := New[string]()
	key := (&KeyBuilder{}).WriteString("cube").WriteFloat(1).WriteFloat(2).WriteFloat(3).Build()
	c.Put(key, "mesh-data", 12)
	got, ok := c.Get(key)
	if !ok || got != "mesh-data" {
		t.Fatalf("got %v, %v", got, ok)
	}
}

func TestKeyBuilderDeterministic(t *testing.T) {
	build := func() Fingerprint {
		return (&KeyBuilder{}).WriteString("sphere").WriteFloat(4).WriteInt(16).Build()
	}
	a, b := build(), build()
	if a != b {
		t.Fatalf("expected identical inputs to produce identical fingerprints")
	}
}

func TestKeyBuilderDistinguishesInputs(t *testing.T) {
	k1 := (&KeyBuilder{}).WriteString("cube").WriteFloat(1).Build()
	k2 := (&KeyBuilder{}).WriteString("cube").WriteFloat(2).Build()
	if k1 == k2 {
		t.Fatalf("expected different parameters to produce different fingerprints")
	}
}

func TestChildrenUnorderedIsCommutative(t *testing.T) {
	var fp1, fp2 Fingerprint
	fp1[0] = 1
	fp2[0] = 2
	k1 := (&KeyBuilder{}).WriteString("union").WriteChildrenUnordered([]Fingerprint{fp1, fp2}).Build()
	k2 := (&KeyBuilder{}).WriteString("union").WriteChildrenUnordered([]Fingerprint{fp2, fp1}).Build()
	if k1 != k2 {
		t.Fatalf("expected commutative child ordering to produce the same fingerprint")
	}
}

func TestPutZeroCostFallsBackToOne(t *testing.T) {
	c := NewWithLimits[string](0, 5)
	k := (&KeyBuilder{}).WriteString("degenerate").Build()
	c.Put(k, "empty-mesh", 0)
	if c.Cost() != 1 {
		t.Fatalf("got cost %d, want 1 (fallback)", c.Cost())
	}
}

func TestClosingDocumentClearsCache(t *testing.T) {
	c := New[string]()
	k := (&KeyBuilder{}).WriteString("cube").Build()
	c.Put(k, "mesh", 1)
	c.Clear()
	if _, ok := c.Get(k); ok {
		t.Fatalf("expected cache to be empty after Clear")
	}
}
