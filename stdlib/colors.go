package stdlib

import "github.com/shapescript/shapescript/value"

// registerColors installs the named color constants and their recognized
// aliases (spec.md §4.5).
func registerColors(t *Table) {
	named := map[string]value.Value{
		"red":     value.Color(1, 0, 0, 1),
		"green":   value.Color(0, 1, 0, 1),
		"blue":    value.Color(0, 0, 1, 1),
		"cyan":    value.Color(0, 1, 1, 1),
		"magenta": value.Color(1, 0, 1, 1),
		"yellow":  value.Color(1, 1, 0, 1),
		"black":   value.Color(0, 0, 0, 1),
		"white":   value.Color(1, 1, 1, 1),
		"gray":    value.Color(0.5, 0.5, 0.5, 1),
		"orange":  value.Color(1, 0.5, 0, 1),
	}
	for name, v := range named {
		t.Define(constVal(name, v))
	}
	// Aliases: "grey" for "gray", and the American/British spelling of the
	// `colour`/`color` command name is handled at the command dispatch
	// layer (eval), not here.
	t.Define(constVal("grey", named["gray"]))
}
