// Package stdlib defines ShapeScript's symbol table shape and registers
// the built-in constants and pure functions (spec.md §4.5); shapes,
// builders and commands are not registered here.
package stdlib

import (
	"errors"

	"github.com/shapescript/shapescript/value"
)

var errExpectedTwoNumbers = errors.New("expected two numbers")

// SymbolKind distinguishes the four call conventions spec.md §4.5 names.
type SymbolKind uint8

const (
	// Constant is a named value, e.g. a color or pi.
	Constant SymbolKind = iota
	// Function is pure: no side effects, returns a Value.
	Function
	// Block is evaluated with a child scope and may emit geometry.
	Block
	// Command is impure: may mutate scope state (transform, material, seed).
	Command
)

func (k SymbolKind) String() string {
	switch k {
	case Constant:
		return "constant"
	case Function:
		return "function"
	case Block:
		return "block"
	case Command:
		return "command"
	default:
		return "unknown"
	}
}

// Signature describes a callable's expected argument arity, used by the
// static analyzer (spec.md §4.6). MinArgs/MaxArgs of -1 means unbounded.
type Signature struct {
	MinArgs int
	MaxArgs int
}

// Accepts reports whether n arguments satisfy the signature.
func (s Signature) Accepts(n int) bool {
	if n < s.MinArgs {
		return false
	}
	if s.MaxArgs >= 0 && n > s.MaxArgs {
		return false
	}
	return true
}

// FuncImpl is a pure built-in function's implementation.
type FuncImpl func(args []value.Value) (value.Value, error)

// Symbol is one entry in the symbol table: a name bound to a kind,
// signature, and (for constants) a value or (for functions) an
// implementation. Blocks and commands are resolved by name at evaluation
// time against the eval package's own registries, since their behavior
// needs scope/geometry access this package does not have.
type Symbol struct {
	Name      string
	Kind      SymbolKind
	Signature Signature
	Const     value.Value
	Func      FuncImpl
}

// Table is a lexically scoped symbol table: a flat map plus a parent
// pointer, matching spec.md §4.5's "each scope has a parent pointer;
// lookup walks outward."
type Table struct {
	parent  *Table
	symbols map[string]Symbol
}

// NewRoot creates the outermost table, pre-populated with the built-in
// constants and functions (spec.md §4.5's non-exhaustive list).
func NewRoot() *Table {
	t := &Table{symbols: make(map[string]Symbol)}
	registerMath(t)
	registerTrig(t)
	registerLinearAlgebra(t)
	registerStrings(t)
	registerColors(t)
	return t
}

// Child creates a nested scope's symbol table, parented to t.
func (t *Table) Child() *Table {
	return &Table{parent: t, symbols: make(map[string]Symbol)}
}

// Define installs sym in this table, shadowing any same-named symbol in an
// outer scope (spec.md §4.5: "User defines shadow built-ins within their
// scope").
func (t *Table) Define(sym Symbol) {
	t.symbols[sym.Name] = sym
}

// Lookup resolves name, walking outward through parent scopes.
func (t *Table) Lookup(name string) (Symbol, bool) {
	for cur := t; cur != nil; cur = cur.parent {
		if sym, ok := cur.symbols[name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// LookupLocal resolves name against this table only, without walking to
// parent scopes. Used to tell "already bound in this exact scope" apart
// from "visible via an outer scope."
func (t *Table) LookupLocal(name string) (Symbol, bool) {
	sym, ok := t.symbols[name]
	return sym, ok
}

// Names returns every symbol name visible from t, innermost scope first,
// for building "did you mean" suggestion candidate lists.
func (t *Table) Names() []string {
	seen := map[string]bool{}
	var out []string
	for cur := t; cur != nil; cur = cur.parent {
		for name := range cur.symbols {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

func fn(name string, min, max int, impl FuncImpl) Symbol {
	return Symbol{Name: name, Kind: Function, Signature: Signature{MinArgs: min, MaxArgs: max}, Func: impl}
}

func constVal(name string, v value.Value) Symbol {
	return Symbol{Name: name, Kind: Constant, Signature: Signature{MinArgs: 0, MaxArgs: 0}, Const: v}
}
