package lexer

import (
	"testing"

	"github.com/shapescript/shapescript/errs"
	"github.com/shapescript/shapescript/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeCube(t *testing.T) {
	toks, errors := Tokenize("cube")
	if errors.HasErrors() {
		t.Fatalf("unexpected errors: %v", errors)
	}
	got := kinds(toks)
	want := []token.Kind{token.Identifier, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeNumbers(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"5", 5},
		{"0.5", 0.5},
		{".5", 0.5},
		{"1e3", 1000},
		{"1.5e-2", 0.015},
	}
	for _, c := range cases {
		toks, errors := Tokenize(c.src)
		if errors.HasErrors() {
			t.Fatalf("%s: unexpected errors: %v", c.src, errors)
		}
		if toks[0].Kind != token.Number {
			t.Fatalf("%s: first token kind = %v", c.src, toks[0].Kind)
		}
		if toks[0].Number != c.want {
			t.Errorf("%s: number = %v, want %v", c.src, toks[0].Number, c.want)
		}
	}
}

func TestTokenizeString(t *testing.T) {
	toks, errors := Tokenize(`"a\nb\"c"`)
	if errors.HasErrors() {
		t.Fatalf("unexpected errors: %v", errors)
	}
	if toks[0].Kind != token.String {
		t.Fatalf("kind = %v", toks[0].Kind)
	}
	want := "a\nb\"c"
	if toks[0].Str != want {
		t.Errorf("str = %q, want %q", toks[0].Str, want)
	}
}

func TestTokenizeInvalidEscape(t *testing.T) {
	_, errors := Tokenize(`"a\qb"`)
	if !errors.HasErrors() || errors[0].Kind != errs.InvalidEscapeSequence {
		t.Fatalf("expected InvalidEscapeSequence, got %v", errors)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, errors := Tokenize("\"abc\ndef")
	if !errors.HasErrors() || errors[0].Kind != errs.UnterminatedString {
		t.Fatalf("expected UnterminatedString, got %v", errors)
	}
}

func TestTokenizeHexColor(t *testing.T) {
	cases := map[string]string{
		"#fff":     "ffffffff",
		"#f00f":    "ff0000ff",
		"#ff0000":  "ff0000ff",
		"#ff0000ff": "ff0000ff",
	}
	for src, want := range cases {
		toks, errors := Tokenize(src)
		if errors.HasErrors() {
			t.Fatalf("%s: unexpected errors: %v", src, errors)
		}
		if toks[0].Kind != token.HexColor {
			t.Fatalf("%s: kind = %v", src, toks[0].Kind)
		}
		if toks[0].Str != want {
			t.Errorf("%s: normalized = %q, want %q", src, toks[0].Str, want)
		}
	}
}

func TestTokenizeInvalidHexColor(t *testing.T) {
	_, errors := Tokenize("#ab")
	if !errors.HasErrors() {
		t.Fatalf("expected error for #ab")
	}
}

func TestTokenizeOperatorsAndPunctuation(t *testing.T) {
	toks, errors := Tokenize("( ) { } , . + - * / % = <> < <= > >=")
	if errors.HasErrors() {
		t.Fatalf("unexpected errors: %v", errors)
	}
	want := []token.Kind{
		token.LParen, token.RParen, token.LBrace, token.RBrace, token.Comma, token.Dot,
		token.Plus, token.Minus, token.Star, token.Slash, token.Percent, token.Assign,
		token.NotEqual, token.Less, token.LessEq, token.Greater, token.GreaterEq, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeKeywords(t *testing.T) {
	toks, _ := Tokenize("define option for in if else to step and or not import")
	want := []token.Kind{
		token.KwDefine, token.KwOption, token.KwFor, token.KwIn, token.KwIf, token.KwElse,
		token.KwTo, token.KwStep, token.KwAnd, token.KwOr, token.KwNot, token.KwImport, token.EOF,
	}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLineBreaksSignificant(t *testing.T) {
	toks, _ := Tokenize("cube\nsphere")
	got := kinds(toks)
	want := []token.Kind{token.Identifier, token.LineBreak, token.Identifier, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestCRLFCollapsesToOneLineBreak(t *testing.T) {
	toks, _ := Tokenize(Normalize([]byte("cube\r\nsphere")))
	got := kinds(toks)
	want := []token.Kind{token.Identifier, token.LineBreak, token.Identifier, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestNormalizeCRLF(t *testing.T) {
	got := Normalize([]byte("a\r\nb\rc"))
	if got != "a\nb\nc" {
		t.Errorf("Normalize = %q", got)
	}
}

func TestNormalizeStripsBOM(t *testing.T) {
	got := Normalize([]byte("\xEF\xBB\xBFcube"))
	if got != "cube" {
		t.Errorf("Normalize = %q", got)
	}
}

func TestCommentsIgnored(t *testing.T) {
	toks, _ := Tokenize("cube // a comment\nsphere /* block\ncomment */ cone")
	got := kinds(toks)
	want := []token.Kind{token.Identifier, token.LineBreak, token.Identifier, token.Identifier, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSignAdjacency(t *testing.T) {
	// "1 -2": '-' has a space before it but is glued to '2', so it is not
	// infix; adjacency info is recorded for the parser to use.
	toks, _ := Tokenize("1 -2")
	if toks[1].Kind != token.Minus {
		t.Fatalf("expected Minus token, got %v", toks[1].Kind)
	}
	if !toks[1].SpaceBefore {
		t.Errorf("expected SpaceBefore on '-' in '1 -2'")
	}
	if toks[1].SpaceAfter {
		t.Errorf("expected no SpaceAfter on '-' glued to '2' in '1 -2'")
	}
}
