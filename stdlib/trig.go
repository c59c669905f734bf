package stdlib

import (
	"math"

	"github.com/shapescript/shapescript/value"
)

// Trig functions operate in degrees, ShapeScript's convention for angles
// elsewhere in the language (rotation members, the `to`/`step` grammar's
// numeric literals).

func registerTrig(t *Table) {
	unary := func(name string, f func(float64) float64) {
		t.Define(fn(name, 1, 1, func(args []value.Value) (value.Value, error) {
			n, err := num1(args)
			if err != nil {
				return value.Value{}, err
			}
			return value.Number(f(n)), nil
		}))
	}
	unaryInv := func(name string, f func(float64) float64) {
		t.Define(fn(name, 1, 1, func(args []value.Value) (value.Value, error) {
			n, err := num1(args)
			if err != nil {
				return value.Value{}, err
			}
			return value.Number(radToDeg(f(n))), nil
		}))
	}

	unary("sin", func(d float64) float64 { return math.Sin(degToRad(d)) })
	unary("cos", func(d float64) float64 { return math.Cos(degToRad(d)) })
	unary("tan", func(d float64) float64 { return math.Tan(degToRad(d)) })
	unaryInv("asin", math.Asin)
	unaryInv("acos", math.Acos)
	unaryInv("atan", math.Atan)

	t.Define(fn("atan2", 2, 2, func(args []value.Value) (value.Value, error) {
		if args[0].Kind() != value.KindNumber || args[1].Kind() != value.KindNumber {
			return value.Value{}, errExpectedTwoNumbers
		}
		return value.Number(radToDeg(math.Atan2(args[0].Number(), args[1].Number()))), nil
	}))
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }
func radToDeg(r float64) float64 { return r * 180 / math.Pi }
