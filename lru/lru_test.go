package lru

import "testing"

func TestPutGetRoundTrip(t *testing.T) {
	c := New[string, int](10, 0)
	c.Put("a", 1, 1)
	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Fatalf("got %v, %v", v, ok)
	}
}

func TestGetOnEvictedKeyReturnsAbsent(t *testing.T) {
	c := New[string, int](2, 0)
	c.Put("a", 1, 1)
	c.Put("b", 2, 1)
	c.Put("c", 3, 1) // evicts "a"
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected 'a' to be evicted")
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatalf("got %v, %v", v, ok)
	}
}

func TestCountLimitEnforced(t *testing.T) {
	c := New[string, int](3, 0)
	for i := 0; i < 10; i++ {
		c.Put(string(rune('a'+i)), i, 1)
	}
	if c.Len() > 3 {
		t.Fatalf("got len %d, want <= 3", c.Len())
	}
}

func TestCostLimitEnforced(t *testing.T) {
	c := New[string, int](0, 10)
	c.Put("a", 1, 5)
	c.Put("b", 2, 4)
	c.Put("c", 3, 4) // pushes total to 13, must evict "a"
	if c.Cost() > 10 {
		t.Fatalf("got cost %d, want <= 10", c.Cost())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected 'a' to have been evicted to satisfy the cost bound")
	}
}

func TestPeekDoesNotPromote(t *testing.T) {
	c := New[string, int](2, 0)
	c.Put("a", 1, 1)
	c.Put("b", 2, 1)
	c.Peek("a")
	c.Put("c", 3, 1) // should still evict "a" since Peek didn't promote it
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected 'a' to be evicted despite the Peek")
	}
}

func TestOrderedIterationLeastToMostRecent(t *testing.T) {
	c := New[string, int](10, 0)
	c.Put("a", 1, 1)
	c.Put("b", 2, 1)
	c.Put("c", 3, 1)
	keys := c.Keys()
	want := []string{"a", "b", "c"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("got %v, want %v", keys, want)
		}
	}
}

func TestClearEmptiesCache(t *testing.T) {
	c := New[string, int](10, 0)
	c.Put("a", 1, 1)
	c.Clear()
	if c.Len() != 0 || c.Cost() != 0 {
		t.Fatalf("got len=%d cost=%d after Clear", c.Len(), c.Cost())
	}
}

func TestRemove(t *testing.T) {
	c := New[string, int](10, 0)
	c.Put("a", 1, 5)
	if !c.Remove("a") {
		t.Fatalf("expected Remove to report success")
	}
	if c.Cost() != 0 {
		t.Fatalf("expected cost to drop to 0, got %d", c.Cost())
	}
	if c.Remove("a") {
		t.Fatalf("expected a second Remove to report false")
	}
}

func TestSetLimitsTighteningEvictsImmediately(t *testing.T) {
	c := New[string, int](10, 0)
	c.Put("a", 1, 1)
	c.Put("b", 2, 1)
	c.Put("c", 3, 1)
	c.SetLimits(1, 0)
	if c.Len() != 1 {
		t.Fatalf("got len %d, want 1", c.Len())
	}
}
