// Package errs defines ShapeScript's flat error taxonomy (spec.md §4.9) and
// the caret-aligned diagnostic formatter shared by every pipeline stage.
package errs

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shapescript/shapescript/source"
)

// Kind is one member of the flat error taxonomy from spec.md §4.9.
type Kind string

const (
	// Lexer
	InvalidCharacter      Kind = "invalidCharacter"
	UnterminatedString    Kind = "unterminatedString"
	InvalidEscapeSequence Kind = "invalidEscapeSequence"
	InvalidNumber         Kind = "invalidNumber"

	// Parser
	UnexpectedToken     Kind = "unexpectedToken"
	UnexpectedEOF       Kind = "unexpectedEOF"
	MissingClosingBrace Kind = "missingClosingBrace"
	ExpectedExpression  Kind = "expectedExpression"
	TrailingComma       Kind = "trailingComma"

	// Static analysis
	UnknownSymbol    Kind = "unknownSymbol"
	TypeMismatch     Kind = "typeMismatch"
	WrongArity       Kind = "wrongArity"
	InvalidOption    Kind = "invalidOption"
	ForwardReference Kind = "forwardReference"

	// Runtime
	AssertionFailure      Kind = "assertionFailure"
	FileAccessRestricted  Kind = "fileAccessRestricted"
	FileNotFound          Kind = "fileNotFound"
	FileTimedOut          Kind = "fileTimedOut"
	CircularImport        Kind = "circularImport"
	StackOverflow         Kind = "stackOverflow"
	Cancelled             Kind = "cancelled"
	ImportError           Kind = "importError"
	UnknownMember         Kind = "unknownMember"
	IndexOutOfRange       Kind = "indexOutOfRange"
	InvalidIndex          Kind = "invalidIndex"
)

// Error is a single diagnostic: a kind, a human-readable message, the
// source range it refers to, and an optional "did you mean" hint.
//
// When an Error wraps a failure raised while evaluating an imported file,
// Inner/InnerSource preserve that failure's own range and source text so
// that Format can unwrap recursively and report the innermost location
// (spec.md §4.9, §7).
type Error struct {
	Kind    Kind
	Message string
	Range   source.Range
	Hint    string

	Inner       *Error
	InnerSource string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Inner != nil {
		return e.Inner.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

// Unwrap exposes the inner error to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	if e.Inner == nil {
		return nil
	}
	return e.Inner
}

// Innermost walks the Inner chain and returns the deepest error, along with
// the source text it should be rendered against.
func (e *Error) Innermost(source string) (*Error, string) {
	cur, src := e, source
	for cur.Inner != nil {
		src = cur.InnerSource
		cur = cur.Inner
	}
	return cur, src
}

// Format renders a single multi-line diagnostic in the shape required by
// spec.md §4.9:
//
//	<Message><location>.
//
//	    <line of source>
//	    <caret underline aligned to range>
//
//	<optional hint>
//
// It unwraps to the innermost wrapped error before rendering, so an error
// raised deep inside an imported file is reported at its own location.
func (e *Error) Format(src string) string {
	inner, innerSrc := e.Innermost(src)

	var sb strings.Builder
	file := source.NewFile(innerSrc)
	pos := file.Position(inner.Range.Start)

	if inner.Range.Empty() && pos.Line == 1 && pos.Column == 1 && innerSrc == "" {
		sb.WriteString(inner.Message + ".")
		return sb.String()
	}

	fmt.Fprintf(&sb, "%s at line %d, column %d.\n\n", inner.Message, pos.Line, pos.Column)

	line := file.Line(pos.Line)
	sb.WriteString("    " + line + "\n")
	sb.WriteString("    " + caret(line, pos.Column, inner.Range) + "\n")

	if inner.Hint != "" {
		sb.WriteString("\n" + inner.Hint)
	}
	return sb.String()
}

// caret builds a caret-underline aligned to the error's range, compensating
// for wide/emoji glyphs which visually occupy about 1.25 normal columns
// (spec.md §4.9).
func caret(line string, column int, rng source.Range) string {
	// column and rng count bytes; the glyph loops below count runes.
	startByte := min(max(column-1, 0), len(line))
	endByte := min(startByte+max(rng.End-rng.Start, 1), len(line))
	start := utf8.RuneCountInString(line[:startByte])
	width := max(utf8.RuneCountInString(line[startByte:endByte]), 1)

	runes := []rune(line)
	var pad float64
	for i := 0; i < start && i < len(runes); i++ {
		pad += glyphWidth(runes[i])
	}

	var caretWidth float64
	for i := start; i < start+width && i < len(runes); i++ {
		caretWidth += glyphWidth(runes[i])
	}
	if caretWidth < 1 {
		caretWidth = 1
	}

	return strings.Repeat(" ", int(pad+0.5)) + strings.Repeat("^", int(caretWidth+0.5))
}

// glyphWidth approximates a rune's rendered column width: wide/emoji
// glyphs count for 1.25 columns, everything else for 1.
func glyphWidth(r rune) float64 {
	if isWide(r) {
		return 1.25
	}
	return 1
}

func isWide(r rune) bool {
	switch {
	case r >= 0x1100 && r <= 0x115F: // Hangul Jamo
		return true
	case r >= 0x2E80 && r <= 0xA4CF: // CJK, radicals, etc.
		return true
	case r >= 0xAC00 && r <= 0xD7A3: // Hangul syllables
		return true
	case r >= 0xF900 && r <= 0xFAFF: // CJK compatibility
		return true
	case r >= 0x1F300 && r <= 0x1FAFF: // emoji blocks
		return true
	case r >= 0x20000 && r <= 0x3FFFD: // CJK extensions
		return true
	}
	return false
}

// List aggregates diagnostics produced across a single pipeline stage
// (lexing, parsing, or static analysis may each raise several before
// giving up), mirroring wgsl.SourceErrors.
type List []*Error

// Error implements the error interface, summarizing the first error and
// the count of the rest.
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more error(s))", l[0].Error(), len(l)-1)
	}
}

// Add appends err to the list.
func (l *List) Add(err *Error) { *l = append(*l, err) }

// HasErrors reports whether the list is non-empty.
func (l List) HasErrors() bool { return len(l) > 0 }

// FormatAll renders every error in the list against src, separated by blank
// lines.
func (l List) FormatAll(src string) string {
	var sb strings.Builder
	for i, e := range l {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(e.Format(src))
	}
	return sb.String()
}

// New constructs an Error of the given kind at rng.
func New(kind Kind, rng source.Range, message string) *Error {
	return &Error{Kind: kind, Message: message, Range: rng}
}

// Newf constructs an Error with a formatted message.
func Newf(kind Kind, rng source.Range, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Range: rng}
}

// WithHint attaches a "did you mean" hint and returns the receiver for
// chaining at the call site.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// Wrap produces an importError whose Inner is err, preserving err's own
// range so formatting reports the innermost location (spec.md §7).
func Wrap(err *Error, file string, innerSource string) *Error {
	return &Error{
		Kind:        ImportError,
		Message:     fmt.Sprintf("error in imported file %q", file),
		Range:       err.Range,
		Inner:       err,
		InnerSource: innerSource,
	}
}
