package value

import "fmt"

// Add implements `+`: number-number adds; tuple-number and tuple-tuple add
// elementwise; a tuple plus a scalar broadcasts the scalar. Length mismatch
// between two tuples preserves the left operand's length (spec.md §4.4).
func Add(a, b Value) (Value, error) { return arith(a, b, "+", func(x, y float64) float64 { return x + y }) }

// Sub implements `-` with the same broadcasting rules as Add.
func Sub(a, b Value) (Value, error) { return arith(a, b, "-", func(x, y float64) float64 { return x - y }) }

// Mul implements `*`. Tuple-tuple multiplication truncates to the shorter
// operand's length (spec.md §4.4), unlike Add/Sub.
func Mul(a, b Value) (Value, error) { return arithTrunc(a, b, "*", func(x, y float64) float64 { return x * y }) }

// Div implements `/` with the same truncating rule as Mul.
func Div(a, b Value) (Value, error) {
	return arithTrunc(a, b, "/", func(x, y float64) float64 { return x / y })
}

// Mod implements `%` with the same truncating rule as Mul.
func Mod(a, b Value) (Value, error) {
	return arithTrunc(a, b, "%", func(x, y float64) float64 {
		m := x - y*float64(int(x/y))
		return m
	})
}

// Neg implements unary `-`.
func Neg(a Value) (Value, error) {
	switch a.kind {
	case KindNumber:
		return Number(-a.num), nil
	case KindTuple:
		out := make([]Value, len(a.elems))
		for i, e := range a.elems {
			n, err := Neg(e)
			if err != nil {
				return Value{}, err
			}
			out[i] = n
		}
		return Tuple(out...), nil
	case KindVector:
		return Vector(-a.nums[0], -a.nums[1], -a.nums[2]), nil
	default:
		return Value{}, fmt.Errorf("cannot negate a %s", a.kind)
	}
}

// arith implements the Add/Sub length rule: a tuple op tuple keeps the
// left operand's length, padding missing right-hand elements with zero.
func arith(a, b Value, op string, fn func(x, y float64) float64) (Value, error) {
	if a.kind == KindNumber && b.kind == KindNumber {
		return Number(fn(a.num, b.num)), nil
	}
	if a.kind == KindString && b.kind == KindString && op == "+" {
		return String(a.str + b.str), nil
	}
	aElems, aIsSeq := asElems(a)
	bElems, bIsSeq := asElems(b)
	switch {
	case aIsSeq && bIsSeq:
		out := make([]Value, len(aElems))
		for i := range aElems {
			var rhs float64
			if i < len(bElems) {
				rhs = bElems[i].num
			}
			out[i] = Number(fn(aElems[i].num, rhs))
		}
		return rewrap(a, out), nil
	case aIsSeq && b.kind == KindNumber:
		out := make([]Value, len(aElems))
		for i := range aElems {
			out[i] = Number(fn(aElems[i].num, b.num))
		}
		return rewrap(a, out), nil
	case a.kind == KindNumber && bIsSeq:
		out := make([]Value, len(bElems))
		for i := range bElems {
			out[i] = Number(fn(a.num, bElems[i].num))
		}
		return rewrap(b, out), nil
	}
	return Value{}, fmt.Errorf("cannot apply %s to %s and %s", op, a.kind, b.kind)
}

// arithTrunc implements the Mul/Div/Mod length rule: tuple op tuple
// truncates to the shorter operand.
func arithTrunc(a, b Value, op string, fn func(x, y float64) float64) (Value, error) {
	if a.kind == KindNumber && b.kind == KindNumber {
		return Number(fn(a.num, b.num)), nil
	}
	aElems, aIsSeq := asElems(a)
	bElems, bIsSeq := asElems(b)
	switch {
	case aIsSeq && bIsSeq:
		n := len(aElems)
		if len(bElems) < n {
			n = len(bElems)
		}
		out := make([]Value, n)
		for i := 0; i < n; i++ {
			out[i] = Number(fn(aElems[i].num, bElems[i].num))
		}
		return rewrap(a, out), nil
	case aIsSeq && b.kind == KindNumber:
		out := make([]Value, len(aElems))
		for i := range aElems {
			out[i] = Number(fn(aElems[i].num, b.num))
		}
		return rewrap(a, out), nil
	case a.kind == KindNumber && bIsSeq:
		out := make([]Value, len(bElems))
		for i := range bElems {
			out[i] = Number(fn(a.num, bElems[i].num))
		}
		return rewrap(b, out), nil
	}
	return Value{}, fmt.Errorf("cannot apply %s to %s and %s", op, a.kind, b.kind)
}

// asElems views v as a sequence of numeric channels, for vector/size/
// rotation/color/tuple values.
func asElems(v Value) ([]Value, bool) {
	switch v.kind {
	case KindTuple:
		return v.elems, true
	case KindVector, KindSize, KindRotation:
		return []Value{Number(v.nums[0]), Number(v.nums[1]), Number(v.nums[2])}, true
	case KindColor:
		return []Value{Number(v.nums[0]), Number(v.nums[1]), Number(v.nums[2]), Number(v.nums[3])}, true
	default:
		return nil, false
	}
}

// rewrap reconstructs a value of shape's kind from numeric results,
// falling back to a plain tuple when the element count no longer matches
// the original structural kind.
func rewrap(shape Value, nums []Value) Value {
	switch shape.kind {
	case KindVector:
		if len(nums) == 3 {
			return Vector(nums[0].num, nums[1].num, nums[2].num)
		}
	case KindSize:
		if len(nums) == 3 {
			return Size(nums[0].num, nums[1].num, nums[2].num)
		}
	case KindRotation:
		if len(nums) == 3 {
			return Rotation(nums[0].num, nums[1].num, nums[2].num)
		}
	case KindColor:
		if len(nums) == 4 {
			return Color(nums[0].num, nums[1].num, nums[2].num, nums[3].num)
		}
	}
	return Tuple(nums...)
}
