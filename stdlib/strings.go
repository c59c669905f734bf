package stdlib

import (
	"fmt"
	"strings"

	"github.com/shapescript/shapescript/value"
)

func registerStrings(t *Table) {
	t.Define(fn("split", 2, 2, func(args []value.Value) (value.Value, error) {
		if args[0].Kind() != value.KindString || args[1].Kind() != value.KindString {
			return value.Value{}, fmt.Errorf("split expects two strings")
		}
		parts := strings.Split(args[0].String(), args[1].String())
		out := make([]value.Value, len(parts))
		for i, p := range parts {
			out[i] = value.String(p)
		}
		return value.Tuple(out...), nil
	}))
	t.Define(fn("join", 1, 2, func(args []value.Value) (value.Value, error) {
		if args[0].Kind() != value.KindTuple {
			return value.Value{}, fmt.Errorf("join expects a tuple of strings")
		}
		sep := ""
		if len(args) == 2 {
			if args[1].Kind() != value.KindString {
				return value.Value{}, fmt.Errorf("join's separator must be a string")
			}
			sep = args[1].String()
		}
		parts := make([]string, len(args[0].Elems()))
		for i, e := range args[0].Elems() {
			if e.Kind() != value.KindString {
				return value.Value{}, fmt.Errorf("join expects a tuple of strings")
			}
			parts[i] = e.String()
		}
		return value.String(strings.Join(parts, sep)), nil
	}))
	t.Define(fn("trim", 1, 1, func(args []value.Value) (value.Value, error) {
		if args[0].Kind() != value.KindString {
			return value.Value{}, fmt.Errorf("trim expects a string")
		}
		return value.String(strings.TrimSpace(args[0].String())), nil
	}))
}
