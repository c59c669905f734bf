package errs

import (
	"strings"
	"testing"

	"github.com/shapescript/shapescript/source"
)

func TestErrorFormat(t *testing.T) {
	src := "translate cos x y\n"
	e := New(UnknownSymbol, source.Range{Start: 16, End: 17}, "unknown symbol 'y'").WithHint("Did you mean 'x'?")
	out := e.Format(src)

	if !strings.Contains(out, "unknown symbol 'y'") {
		t.Errorf("Format missing message: %q", out)
	}
	if !strings.Contains(out, "translate cos x y") {
		t.Errorf("Format missing source line: %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("Format missing caret: %q", out)
	}
	if !strings.Contains(out, "Did you mean 'x'?") {
		t.Errorf("Format missing hint: %q", out)
	}
}

func TestErrorInnermost(t *testing.T) {
	inner := New(FileNotFound, source.Range{Start: 1, End: 2}, "missing.shape not found")
	wrapped := Wrap(inner, "missing.shape", "import \"x\"\n")

	got, src := wrapped.Innermost("outer source")
	if got != inner {
		t.Errorf("Innermost returned %v, want %v", got, inner)
	}
	if src != "import \"x\"\n" {
		t.Errorf("Innermost source = %q", src)
	}
}

func TestListFormat(t *testing.T) {
	var l List
	l.Add(New(UnexpectedToken, source.Range{}, "first"))
	l.Add(New(UnexpectedToken, source.Range{}, "second"))
	if !l.HasErrors() {
		t.Fatal("expected HasErrors true")
	}
	if got := l.Error(); !strings.Contains(got, "and 1 more error") {
		t.Errorf("List.Error() = %q", got)
	}
}

func TestSuggest(t *testing.T) {
	candidates := []string{"x", "y", "position", "points"}
	if got := Suggest("pointz", candidates); got != "Did you mean 'points'?" {
		t.Errorf("Suggest = %q", got)
	}
	if got := Suggest("zzzzzzzzzz", candidates); got != "" {
		t.Errorf("Suggest should suppress distant matches, got %q", got)
	}
}
