package value

import "testing"

func TestColorClampsOnConstruct(t *testing.T) {
	c := Color(-1, 0.5, 2, 1.5)
	if c.nums[0] != 0 || c.nums[1] != 0.5 || c.nums[2] != 1 || c.nums[3] != 1 {
		t.Fatalf("got %+v", c.nums)
	}
}

func TestRangeCount(t *testing.T) {
	cases := []struct {
		r    RangeVal
		want int
	}{
		{RangeVal{1, 10, 1}, 10},
		{RangeVal{1, 10, 2}, 5},
		{RangeVal{10, 1, 1}, 0},
		{RangeVal{10, 1, -1}, 10},
		{RangeVal{1, 10, 0}, 0},
	}
	for _, c := range cases {
		if got := c.r.Count(); got != c.want {
			t.Errorf("Count(%+v) = %d, want %d", c.r, got, c.want)
		}
	}
}

func TestAddElementwiseBroadcast(t *testing.T) {
	v := Vector(1, 2, 3)
	sum, err := Add(v, Number(1))
	if err != nil {
		t.Fatal(err)
	}
	x, y, z, ok := sum.AsVectorLike()
	if !ok || x != 2 || y != 3 || z != 4 {
		t.Fatalf("got %+v", sum)
	}
}

func TestMulTruncatesToShorterTuple(t *testing.T) {
	a := Tuple(Number(2), Number(3), Number(4))
	b := Tuple(Number(10), Number(10))
	prod, err := Mul(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if len(prod.Elems()) != 2 {
		t.Fatalf("got %d elements, want 2", len(prod.Elems()))
	}
}

func TestAddPreservesLeftTupleLength(t *testing.T) {
	a := Tuple(Number(1), Number(2), Number(3))
	b := Tuple(Number(10), Number(10))
	sum, err := Add(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if len(sum.Elems()) != 3 {
		t.Fatalf("got %d elements, want 3", len(sum.Elems()))
	}
	if sum.Elems()[2].Number() != 3 {
		t.Fatalf("missing right-hand element should pad with zero, got %v", sum.Elems()[2])
	}
}

func TestHexColorCoercion(t *testing.T) {
	c, ok := Coerce(String("ff0000ff"), KindColor)
	if !ok {
		t.Fatalf("expected coercion to succeed")
	}
	if c.nums[0] != 1 || c.nums[1] != 0 || c.nums[2] != 0 {
		t.Fatalf("got %+v", c.nums)
	}
}

func TestNumericStringCoercion(t *testing.T) {
	n, ok := Coerce(String("3.5"), KindNumber)
	if !ok || n.Number() != 3.5 {
		t.Fatalf("got %+v, %v", n, ok)
	}
}

func TestEmptyTupleIsUnset(t *testing.T) {
	if !Tuple().IsUnset() {
		t.Fatalf("expected empty tuple to be unset")
	}
	if Tuple(Number(1)).IsUnset() {
		t.Fatalf("expected a non-empty tuple not to be unset")
	}
}

func TestMemberAccess(t *testing.T) {
	v := Vector(1, 2, 3)
	x, ok := v.Member("x")
	if !ok || x.Number() != 1 {
		t.Fatalf("got %+v", x)
	}
	z, ok := v.Member("z")
	if !ok || z.Number() != 3 {
		t.Fatalf("got %+v", z)
	}
}

func TestSubscriptNegativeIndex(t *testing.T) {
	tup := Tuple(Number(1), Number(2), Number(3))
	last, err := tup.Subscript(Number(-1))
	if err != nil {
		t.Fatal(err)
	}
	if last.Number() != 3 {
		t.Fatalf("got %v", last)
	}
}

func TestInRange(t *testing.T) {
	r := Range(1, 10, 2)
	ok, err := In(Number(5), r)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("expected 5 to be in range(1,10,2)")
	}
	ok, err = In(Number(6), r)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatalf("expected 6 not to be in range(1,10,2)")
	}
}

func TestInObjectKeyExistence(t *testing.T) {
	obj := Object([]string{"a", "b"}, []Value{Number(1), Number(2)})
	ok, err := In(String("a"), obj)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("expected key 'a' to be present")
	}
}

func TestObjectSortedIteration(t *testing.T) {
	obj := Object([]string{"z", "a", "m"}, []Value{Number(1), Number(2), Number(3)})
	sorted := obj.Sorted()
	want := []string{"a", "m", "z"}
	for i, k := range want {
		if sorted[i] != k {
			t.Fatalf("got %v, want %v", sorted, want)
		}
	}
}

func TestEqualStructural(t *testing.T) {
	a := Tuple(Number(1), Number(2))
	b := Tuple(Number(1), Number(2))
	if !Equal(a, b) {
		t.Fatalf("expected structurally equal tuples to compare equal")
	}
}
