package stdlib

import (
	"testing"

	"github.com/shapescript/shapescript/value"
)

func TestLookupBuiltin(t *testing.T) {
	table := NewRoot()
	sym, ok := table.Lookup("sqrt")
	if !ok || sym.Kind != Function {
		t.Fatalf("got %+v, %v", sym, ok)
	}
	out, err := sym.Func([]value.Value{value.Number(16)})
	if err != nil {
		t.Fatal(err)
	}
	if out.Number() != 4 {
		t.Fatalf("got %v", out.Number())
	}
}

func TestChildScopeShadowsBuiltin(t *testing.T) {
	root := NewRoot()
	child := root.Child()
	child.Define(constVal("red", value.Number(42)))

	sym, ok := child.Lookup("red")
	if !ok || sym.Kind != Constant || sym.Const.Number() != 42 {
		t.Fatalf("got %+v", sym)
	}

	rootSym, _ := root.Lookup("red")
	if rootSym.Const.Kind() != value.KindColor {
		t.Fatalf("expected the outer scope's 'red' to remain the color constant")
	}
}

func TestColorAliasGreyMatchesGray(t *testing.T) {
	table := NewRoot()
	gray, _ := table.Lookup("gray")
	grey, _ := table.Lookup("grey")
	if !value.Equal(gray.Const, grey.Const) {
		t.Fatalf("expected 'grey' to alias 'gray'")
	}
}

func TestSumAcceptsTupleOrVarargs(t *testing.T) {
	table := NewRoot()
	sym, _ := table.Lookup("sum")
	fromVarargs, err := sym.Func([]value.Value{value.Number(1), value.Number(2), value.Number(3)})
	if err != nil {
		t.Fatal(err)
	}
	fromTuple, err := sym.Func([]value.Value{value.Tuple(value.Number(1), value.Number(2), value.Number(3))})
	if err != nil {
		t.Fatal(err)
	}
	if fromVarargs.Number() != 6 || fromTuple.Number() != 6 {
		t.Fatalf("got %v, %v", fromVarargs.Number(), fromTuple.Number())
	}
}

func TestSignatureAccepts(t *testing.T) {
	sig := Signature{MinArgs: 1, MaxArgs: 3}
	if !sig.Accepts(2) || sig.Accepts(0) || sig.Accepts(4) {
		t.Fatalf("got unexpected Accepts results")
	}
	unbounded := Signature{MinArgs: 1, MaxArgs: -1}
	if !unbounded.Accepts(100) {
		t.Fatalf("expected an unbounded max to accept any count >= min")
	}
}

func TestNamesIncludeOuterScope(t *testing.T) {
	root := NewRoot()
	child := root.Child()
	child.Define(constVal("myConst", value.Number(1)))
	names := child.Names()
	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	if !found["myConst"] || !found["sqrt"] || !found["red"] {
		t.Fatalf("expected names to include both local and inherited symbols, got %v", names)
	}
}
