package source

import "testing"

func TestFilePosition(t *testing.T) {
	f := NewFile("abc\ndef\nghi")

	cases := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{3, 1, 4},
		{4, 2, 1},
		{7, 2, 4},
		{8, 3, 1},
		{10, 3, 3},
	}
	for _, c := range cases {
		got := f.Position(c.offset)
		if got.Line != c.line || got.Column != c.column {
			t.Errorf("Position(%d) = %+v, want line=%d column=%d", c.offset, got, c.line, c.column)
		}
	}
}

func TestFileLine(t *testing.T) {
	f := NewFile("abc\ndef\nghi")
	if got := f.Line(2); got != "def" {
		t.Errorf("Line(2) = %q, want %q", got, "def")
	}
	if got := f.Line(99); got != "" {
		t.Errorf("Line(99) = %q, want empty", got)
	}
}

func TestRangeJoinContains(t *testing.T) {
	a := Range{Start: 2, End: 5}
	b := Range{Start: 4, End: 9}
	joined := a.Join(b)
	if joined != (Range{Start: 2, End: 9}) {
		t.Errorf("Join = %+v, want {2 9}", joined)
	}
	if !joined.Contains(a) || !joined.Contains(b) {
		t.Errorf("joined range should contain both operands")
	}
	if a.Contains(b) {
		t.Errorf("a should not contain b")
	}
}
