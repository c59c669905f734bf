package stdlib

import (
	"fmt"
	"math"

	"github.com/shapescript/shapescript/value"
)

func vec3(v value.Value) (x, y, z float64, ok bool) { return v.AsVectorLike() }

func registerLinearAlgebra(t *Table) {
	t.Define(fn("dot", 2, 2, func(args []value.Value) (value.Value, error) {
		ax, ay, az, ok1 := vec3(args[0])
		bx, by, bz, ok2 := vec3(args[1])
		if !ok1 || !ok2 {
			return value.Value{}, fmt.Errorf("dot expects two vector-like arguments")
		}
		return value.Number(ax*bx + ay*by + az*bz), nil
	}))
	t.Define(fn("cross", 2, 2, func(args []value.Value) (value.Value, error) {
		ax, ay, az, ok1 := vec3(args[0])
		bx, by, bz, ok2 := vec3(args[1])
		if !ok1 || !ok2 {
			return value.Value{}, fmt.Errorf("cross expects two vector-like arguments")
		}
		return value.Vector(ay*bz-az*by, az*bx-ax*bz, ax*by-ay*bx), nil
	}))
	t.Define(fn("length", 1, 1, func(args []value.Value) (value.Value, error) {
		x, y, z, ok := vec3(args[0])
		if !ok {
			return value.Value{}, fmt.Errorf("length expects a vector-like argument")
		}
		return value.Number(math.Sqrt(x*x + y*y + z*z)), nil
	}))
	t.Define(fn("normalize", 1, 1, func(args []value.Value) (value.Value, error) {
		x, y, z, ok := vec3(args[0])
		if !ok {
			return value.Value{}, fmt.Errorf("normalize expects a vector-like argument")
		}
		mag := math.Sqrt(x*x + y*y + z*z)
		if mag == 0 {
			return value.Vector(0, 0, 0), nil
		}
		return value.Vector(x/mag, y/mag, z/mag), nil
	}))
}
