// Package source models half-open byte-offset ranges into ShapeScript
// source text, and the line/column positions derived from them.
package source

import "strings"

// Range is a half-open interval [Start, End) of byte offsets into a source
// string. Every AST node and token carries one.
type Range struct {
	Start int
	End   int
}

// Empty reports whether the range spans zero bytes.
func (r Range) Empty() bool { return r.Start >= r.End }

// Contains reports whether other lies entirely within r.
func (r Range) Contains(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Join returns the smallest range spanning both r and other.
func (r Range) Join(other Range) Range {
	joined := r
	if other.Start < joined.Start {
		joined.Start = other.Start
	}
	if other.End > joined.End {
		joined.End = other.End
	}
	return joined
}

// Position is a 1-based line/column location, paired with its byte offset.
type Position struct {
	Offset int
	Line   int
	Column int
}

// File indexes the line breaks of a source string so that byte offsets can
// be converted to line/column positions without re-scanning the source on
// every lookup.
type File struct {
	source      string
	lineOffsets []int // byte offset of the start of each line; lineOffsets[0] == 0
}

// NewFile indexes src for position lookups.
func NewFile(src string) *File {
	offsets := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return &File{source: src, lineOffsets: offsets}
}

// Source returns the indexed source text.
func (f *File) Source() string { return f.source }

// Position converts a byte offset into a line/column position. Offsets past
// the end of the source clamp to the final position.
func (f *File) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.source) {
		offset = len(f.source)
	}
	line := sort_SearchLines(f.lineOffsets, offset)
	col := offset - f.lineOffsets[line] + 1
	return Position{Offset: offset, Line: line + 1, Column: col}
}

// sort_SearchLines returns the index of the last line offset <= offset.
func sort_SearchLines(offsets []int, offset int) int {
	lo, hi := 0, len(offsets)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if offsets[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// Line returns the text of the 1-based line number, without its trailing
// newline.
func (f *File) Line(lineNum int) string {
	if lineNum < 1 || lineNum > len(f.lineOffsets) {
		return ""
	}
	start := f.lineOffsets[lineNum-1]
	end := len(f.source)
	if lineNum < len(f.lineOffsets) {
		end = f.lineOffsets[lineNum] - 1
	}
	if end < start {
		end = start
	}
	return strings.TrimRight(f.source[start:end], "\r")
}

// Text returns the substring of the source spanned by r.
func (f *File) Text(r Range) string {
	start, end := r.Start, r.End
	if start < 0 {
		start = 0
	}
	if end > len(f.source) {
		end = len(f.source)
	}
	if start > end {
		return ""
	}
	return f.source[start:end]
}
