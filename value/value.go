// Package value implements the ShapeScript runtime value model: a closed
// sum type over numbers, strings, colors, vectors, tuples, objects, ranges,
// paths, meshes, and blocks (spec.md §3, §4.4).
package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which variant of the sum type a Value holds.
type Kind uint8

const (
	KindUnset Kind = iota
	KindNumber
	KindString
	KindColor
	KindVector
	KindSize
	KindRotation
	KindTuple
	KindObject
	KindRange
	KindPath
	KindMesh
	KindPolygon
	KindPoint
	KindBlock
)

func (k Kind) String() string {
	switch k {
	case KindUnset:
		return "unset"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindColor:
		return "color"
	case KindVector:
		return "vector"
	case KindSize:
		return "size"
	case KindRotation:
		return "rotation"
	case KindTuple:
		return "tuple"
	case KindObject:
		return "object"
	case KindRange:
		return "range"
	case KindPath:
		return "path"
	case KindMesh:
		return "mesh"
	case KindPolygon:
		return "polygon"
	case KindPoint:
		return "point"
	case KindBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Block is a callable block value: its parameter names and an Invoke
// closure. The defining environment is captured inside Invoke, so this
// package never sees the eval package's scope type (avoiding an import
// cycle).
type Block struct {
	Params []string
	Invoke func(args []Value) (Value, error)
}

// RangeVal is start/end/step for a `range` value, inclusive of both ends.
type RangeVal struct {
	Start, End, Step float64
}

// Count returns the number of values the range enumerates, per spec.md §8:
// floor((end-start)/step) + 1 when increasing toward end, else 0.
func (r RangeVal) Count() int {
	if r.Step == 0 {
		return 0
	}
	if r.Step > 0 {
		if r.Start > r.End {
			return 0
		}
		return int(math.Floor((r.End-r.Start)/r.Step)) + 1
	}
	if r.Start < r.End {
		return 0
	}
	return int(math.Floor((r.Start-r.End)/-r.Step)) + 1
}

// At returns the i'th value in the range (0-based).
func (r RangeVal) At(i int) float64 { return r.Start + float64(i)*r.Step }

// Value is an immutable, structurally-shared runtime value.
type Value struct {
	kind Kind

	num    float64
	str    string
	nums   [4]float64 // color/vector/size/rotation channels
	elems  []Value    // tuple elements, path points, mesh polygons
	keys   []string   // object keys, insertion order
	vals   []Value    // object values, index-paired with keys
	rng    RangeVal
	block  *Block
	extra  map[string]any // escape hatch for path/mesh/polygon/point payloads carried opaquely
}

// Unset is the empty-tuple "no value" sentinel (spec.md §4.4 coercion rule).
var Unset = Value{kind: KindUnset}

func Number(n float64) Value { return Value{kind: KindNumber, num: n} }
func String(s string) Value  { return Value{kind: KindString, str: s} }

// Bool encodes ShapeScript's boolean convention: true=1, false=0.
func Bool(b bool) Value {
	if b {
		return Number(1)
	}
	return Number(0)
}

// Color clamps each channel to [0,1] on construction (spec.md §3 invariant).
func Color(r, g, b, a float64) Value {
	return Value{kind: KindColor, nums: [4]float64{clamp01(r), clamp01(g), clamp01(b), clamp01(a)}}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func Vector(x, y, z float64) Value   { return Value{kind: KindVector, nums: [4]float64{x, y, z, 0}} }
func Size(w, h, d float64) Value     { return Value{kind: KindSize, nums: [4]float64{w, h, d, 0}} }
func Rotation(r, y, p float64) Value { return Value{kind: KindRotation, nums: [4]float64{r, y, p, 0}} }

// Tuple builds the universal compound value from its elements.
func Tuple(elems ...Value) Value { return Value{kind: KindTuple, elems: elems} }

// Range builds a range value; a zero step is constructible but treated as
// an empty enumeration everywhere it is consumed (spec.md §3 invariant).
func Range(start, end, step float64) Value {
	return Value{kind: KindRange, rng: RangeVal{Start: start, End: end, Step: step}}
}

func BlockValue(b *Block) Value { return Value{kind: KindBlock, block: b} }

// Object builds an object value; keys are deduplicated, last write wins,
// and insertion order is preserved for Keys() while Sorted() gives the
// iteration order mandated for determinism (spec.md §3).
func Object(keys []string, vals []Value) Value {
	o := Value{kind: KindObject}
	seen := map[string]int{}
	for i, k := range keys {
		if idx, ok := seen[k]; ok {
			o.vals[idx] = vals[i]
			continue
		}
		seen[k] = len(o.keys)
		o.keys = append(o.keys, k)
		o.vals = append(o.vals, vals[i])
	}
	return o
}

// Opaque wraps an externally-defined payload (path/mesh/polygon/point data
// produced by the out-of-core geometry engine) under the given kind, so the
// evaluator can carry it through scope/cache plumbing without this package
// needing to know its shape.
func Opaque(kind Kind, payload map[string]any) Value {
	return Value{kind: kind, extra: payload}
}

func (v Value) Kind() Kind       { return v.kind }
func (v Value) IsUnset() bool    { return v.kind == KindUnset || (v.kind == KindTuple && len(v.elems) == 0) }
func (v Value) Number() float64  { return v.num }
func (v Value) String() string   { return v.str }
func (v Value) Bool() bool       { return v.num != 0 }
func (v Value) Elems() []Value   { return v.elems }
func (v Value) RangeVal() RangeVal { return v.rng }
func (v Value) Block() *Block    { return v.block }
func (v Value) Extra() map[string]any { return v.extra }

func (v Value) Keys() []string { return v.keys }

// Sorted returns the object's keys in sorted order, the iteration order
// spec.md §3 mandates for objects ("iterated in sorted order").
func (v Value) Sorted() []string {
	out := append([]string(nil), v.keys...)
	sort.Strings(out)
	return out
}

func (v Value) Field(key string) (Value, bool) {
	for i, k := range v.keys {
		if k == key {
			return v.vals[i], true
		}
	}
	return Value{}, false
}

// AsVectorLike returns the (x,y,z) triple shared structurally by vector,
// size, rotation, color (rgb), and 3-element tuples.
func (v Value) AsVectorLike() (x, y, z float64, ok bool) {
	switch v.kind {
	case KindVector, KindSize, KindRotation:
		return v.nums[0], v.nums[1], v.nums[2], true
	case KindColor:
		return v.nums[0], v.nums[1], v.nums[2], true
	case KindTuple:
		if len(v.elems) == 3 && allNumbers(v.elems) {
			return v.elems[0].num, v.elems[1].num, v.elems[2].num, true
		}
	}
	return 0, 0, 0, false
}

func allNumbers(vs []Value) bool {
	for _, v := range vs {
		if v.kind != KindNumber {
			return false
		}
	}
	return true
}

// Coerce attempts structural/string coercion toward want, per spec.md §4.4:
// hex color strings to color, numeric strings to number, empty tuple to
// unset. Returns the original value unchanged (ok=false) when no coercion
// applies.
func Coerce(v Value, want Kind) (Value, bool) {
	if v.kind == want {
		return v, true
	}
	switch want {
	case KindUnset:
		if v.IsUnset() {
			return Unset, true
		}
	case KindNumber:
		if v.kind == KindString {
			if f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64); err == nil {
				return Number(f), true
			}
		}
	case KindColor:
		if v.kind == KindString {
			if c, ok := ParseHexColor(v.str); ok {
				return c, true
			}
		}
		if v.kind == KindTuple {
			switch len(v.elems) {
			case 3:
				if allNumbers(v.elems) {
					return Color(v.elems[0].num, v.elems[1].num, v.elems[2].num, 1), true
				}
			case 4:
				if allNumbers(v.elems) {
					return Color(v.elems[0].num, v.elems[1].num, v.elems[2].num, v.elems[3].num), true
				}
			}
		}
	case KindVector, KindSize, KindRotation:
		if x, y, z, ok := v.AsVectorLike(); ok {
			switch want {
			case KindVector:
				return Vector(x, y, z), true
			case KindSize:
				return Size(x, y, z), true
			case KindRotation:
				return Rotation(x, y, z), true
			}
		}
	}
	if want == KindTuple && v.kind != KindTuple {
		return Tuple(v), true
	}
	return v, false
}

// ParseHexColor parses a normalized "RRGGBBAA" string (as produced by
// lexer.normalizeHex) into a color value.
func ParseHexColor(hex string) (Value, bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 8 {
		return Value{}, false
	}
	channels := make([]float64, 4)
	for i := 0; i < 4; i++ {
		b, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return Value{}, false
		}
		channels[i] = float64(b) / 255
	}
	return Color(channels[0], channels[1], channels[2], channels[3]), true
}

// Member looks up a named member on v (spec.md §4.4's member list).
func (v Value) Member(name string) (Value, bool) {
	switch name {
	case "x", "red":
		if x, _, _, ok := v.AsVectorLike(); ok {
			return Number(x), true
		}
	case "y", "green":
		if _, y, _, ok := v.AsVectorLike(); ok {
			return Number(y), true
		}
	case "z", "blue":
		if _, _, z, ok := v.AsVectorLike(); ok {
			return Number(z), true
		}
	case "alpha":
		if v.kind == KindColor {
			return Number(v.nums[3]), true
		}
	case "width":
		if v.kind == KindSize {
			return Number(v.nums[0]), true
		}
	case "height":
		if v.kind == KindSize {
			return Number(v.nums[1]), true
		}
	case "depth":
		if v.kind == KindSize {
			return Number(v.nums[2]), true
		}
	case "roll":
		if v.kind == KindRotation {
			return Number(v.nums[0]), true
		}
	case "yaw":
		if v.kind == KindRotation {
			return Number(v.nums[1]), true
		}
	case "pitch":
		if v.kind == KindRotation {
			return Number(v.nums[2]), true
		}
	case "first":
		if v.kind == KindTuple && len(v.elems) > 0 {
			return v.elems[0], true
		}
	case "second":
		if v.kind == KindTuple && len(v.elems) > 1 {
			return v.elems[1], true
		}
	case "last":
		if v.kind == KindTuple && len(v.elems) > 0 {
			return v.elems[len(v.elems)-1], true
		}
	case "count":
		switch v.kind {
		case KindTuple:
			return Number(float64(len(v.elems))), true
		case KindString:
			return Number(float64(len([]rune(v.str)))), true
		case KindRange:
			return Number(float64(v.rng.Count())), true
		case KindObject:
			return Number(float64(len(v.keys))), true
		}
	case "allButFirst":
		if v.kind == KindTuple && len(v.elems) > 0 {
			return Tuple(v.elems[1:]...), true
		}
	case "allButLast":
		if v.kind == KindTuple && len(v.elems) > 0 {
			return Tuple(v.elems[:len(v.elems)-1]...), true
		}
	case "lines":
		if v.kind == KindString {
			return stringsToTuple(strings.Split(v.str, "\n")), true
		}
	case "words":
		if v.kind == KindString {
			return stringsToTuple(strings.Fields(v.str)), true
		}
	case "characters":
		if v.kind == KindString {
			var out []Value
			for _, r := range v.str {
				out = append(out, String(string(r)))
			}
			return Tuple(out...), true
		}
	case "points", "polygons", "bounds", "center", "material", "name", "position", "isCurved", "color":
		if v.extra != nil {
			if payload, ok := v.extra[name]; ok {
				if vv, ok := payload.(Value); ok {
					return vv, true
				}
			}
		}
	}
	if v.kind == KindObject {
		return v.Field(name)
	}
	return Value{}, false
}

func stringsToTuple(ss []string) Value {
	out := make([]Value, len(ss))
	for i, s := range ss {
		out[i] = String(s)
	}
	return Tuple(out...)
}

// Subscript implements `target[index]`: string keys look up object fields,
// integer indexes are 0-based with negative indexing from the end
// (spec.md §4.4).
func (v Value) Subscript(index Value) (Value, error) {
	if index.kind == KindString {
		if out, ok := v.Member(index.str); ok {
			return out, nil
		}
		return Value{}, fmt.Errorf("unknown member %q", index.str)
	}
	if index.kind != KindNumber {
		return Value{}, fmt.Errorf("invalid index type %s", index.kind)
	}
	i := int(index.num)
	var seq []Value
	switch v.kind {
	case KindTuple:
		seq = v.elems
	case KindString:
		runes := []rune(v.str)
		if i < 0 {
			i += len(runes)
		}
		if i < 0 || i >= len(runes) {
			return Value{}, fmt.Errorf("index %d out of range", int(index.num))
		}
		return String(string(runes[i])), nil
	default:
		return Value{}, fmt.Errorf("cannot subscript a %s", v.kind)
	}
	if i < 0 {
		i += len(seq)
	}
	if i < 0 || i >= len(seq) {
		return Value{}, fmt.Errorf("index %d out of range", int(index.num))
	}
	return seq[i], nil
}

// Equal implements `=`/`<>` structural equality.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		if an, aok := tryNumber(a); aok {
			if bn, bok := tryNumber(b); bok {
				return an == bn
			}
		}
		return false
	}
	switch a.kind {
	case KindUnset:
		return true
	case KindNumber:
		return a.num == b.num
	case KindString:
		return a.str == b.str
	case KindColor, KindVector, KindSize, KindRotation:
		return a.nums == b.nums
	case KindTuple:
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !Equal(a.elems[i], b.elems[i]) {
				return false
			}
		}
		return true
	case KindRange:
		return a.rng == b.rng
	case KindObject:
		if len(a.keys) != len(b.keys) {
			return false
		}
		for i, k := range a.keys {
			bv, ok := b.Field(k)
			if !ok || !Equal(a.vals[i], bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func tryNumber(v Value) (float64, bool) {
	if v.kind == KindNumber {
		return v.num, true
	}
	return 0, false
}

// Compare orders numbers and strings for `< <= > >=`; other kinds are
// incomparable.
func Compare(a, b Value) (int, bool) {
	if a.kind == KindNumber && b.kind == KindNumber {
		switch {
		case a.num < b.num:
			return -1, true
		case a.num > b.num:
			return 1, true
		default:
			return 0, true
		}
	}
	if a.kind == KindString && b.kind == KindString {
		return strings.Compare(a.str, b.str), true
	}
	return 0, false
}

// In implements the `in` operator: membership in a range, tuple, string
// (substring), or object (key existence).
func In(needle, haystack Value) (bool, error) {
	switch haystack.kind {
	case KindRange:
		if haystack.rng.Step == 0 || needle.kind != KindNumber {
			return false, nil
		}
		n := haystack.rng.Count()
		for i := 0; i < n; i++ {
			if haystack.rng.At(i) == needle.num {
				return true, nil
			}
		}
		return false, nil
	case KindTuple:
		for _, e := range haystack.elems {
			if Equal(e, needle) {
				return true, nil
			}
		}
		return false, nil
	case KindString:
		if needle.kind != KindString {
			return false, fmt.Errorf("'in' a string requires a string operand")
		}
		return strings.Contains(haystack.str, needle.str), nil
	case KindObject:
		if needle.kind != KindString {
			return false, fmt.Errorf("'in' an object requires a string key")
		}
		_, ok := haystack.Field(needle.str)
		return ok, nil
	default:
		return false, fmt.Errorf("cannot use 'in' with a %s", haystack.kind)
	}
}
