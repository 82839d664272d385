package vm

import (
	"math"

	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/perrors"
)

// bothInt reports whether a and b are both Integer, in which case an
// arithmetic op that is closed under integers (add/sub/mul/neg/abs/min/
// max) should stay integer per spec.md §4.9; results that overflow int32
// demote to Real rather than erroring (spec.md §7: "Arithmetic overflow
// demotes integer results to real and continues").
func bothInt(a, b object.Object) bool {
	return a.Kind == object.Integer && b.Kind == object.Integer
}

func pushNumericResult(v *VM, f float64, asInt bool) {
	if asInt && f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 {
		v.Push(object.NewInteger(int32(f)))
		return
	}
	v.Push(object.NewReal(f))
}

func registerMathOps(v *VM) {
	binNum := func(opName string, fn func(a, b float64) float64, intClosed bool) {
		v.def(opName, func(v *VM) error {
			b, err := v.Pop()
			if err != nil {
				return err
			}
			a, err := v.Pop()
			if err != nil {
				return err
			}
			af, ok1 := a.AsReal()
			bf, ok2 := b.AsReal()
			if !ok1 || !ok2 {
				return perrors.New(perrors.TypeCheck, opName)
			}
			pushNumericResult(v, fn(af, bf), intClosed && bothInt(a, b))
			return nil
		})
	}
	unNum := func(opName string, fn func(a float64) float64, intClosed bool) {
		v.def(opName, func(v *VM) error {
			a, err := v.Pop()
			if err != nil {
				return err
			}
			af, ok := a.AsReal()
			if !ok {
				return perrors.New(perrors.TypeCheck, opName)
			}
			pushNumericResult(v, fn(af), intClosed && a.Kind == object.Integer)
			return nil
		})
	}

	binNum("add", func(a, b float64) float64 { return a + b }, true)
	binNum("sub", func(a, b float64) float64 { return a - b }, true)
	binNum("mul", func(a, b float64) float64 { return a * b }, true)
	binNum("div", func(a, b float64) float64 { return a / b }, false)
	binNum("min", math.Min, true)
	binNum("max", math.Max, true)
	unNum("neg", func(a float64) float64 { return -a }, true)
	unNum("abs", math.Abs, true)
	unNum("sqrt", math.Sqrt, false)
	unNum("ceiling", math.Ceil, false)
	unNum("floor", math.Floor, false)
	unNum("round", math.Round, false)
	unNum("truncate", math.Trunc, false)
	unNum("ln", math.Log, false)
	unNum("log", math.Log10, false)
	unNum("sin", func(a float64) float64 { return math.Sin(a * math.Pi / 180) }, false)
	unNum("cos", func(a float64) float64 { return math.Cos(a * math.Pi / 180) }, false)

	// "exp" is binary (base exponent exp -> base^exponent), unlike the
	// other unary transcendentals.
	v.def("exp", func(v *VM) error {
		exponent, err := v.popNumber("exp")
		if err != nil {
			return err
		}
		base, err := v.popNumber("exp")
		if err != nil {
			return err
		}
		v.Push(object.NewReal(math.Pow(base, exponent)))
		return nil
	})

	v.def("atan", func(v *VM) error {
		den, err := v.popNumber("atan")
		if err != nil {
			return err
		}
		num, err := v.popNumber("atan")
		if err != nil {
			return err
		}
		deg := math.Atan2(num, den) * 180 / math.Pi
		if deg < 0 {
			deg += 360
		}
		v.Push(object.NewReal(deg))
		return nil
	})

	v.def("idiv", func(v *VM) error {
		bo, err := v.Pop()
		if err != nil {
			return err
		}
		ao, err := v.Pop()
		if err != nil {
			return err
		}
		if ao.Kind != object.Integer || bo.Kind != object.Integer {
			return perrors.New(perrors.TypeCheck, "idiv")
		}
		if bo.Int == 0 {
			return perrors.New(perrors.UndefinedResult, "idiv")
		}
		v.Push(object.NewInteger(ao.Int / bo.Int))
		return nil
	})

	v.def("mod", func(v *VM) error {
		bo, err := v.Pop()
		if err != nil {
			return err
		}
		ao, err := v.Pop()
		if err != nil {
			return err
		}
		if ao.Kind != object.Integer || bo.Kind != object.Integer {
			return perrors.New(perrors.TypeCheck, "mod")
		}
		if bo.Int == 0 {
			return perrors.New(perrors.UndefinedResult, "mod")
		}
		v.Push(object.NewInteger(ao.Int % bo.Int))
		return nil
	})

	// Linear-congruential generator matching common PostScript
	// implementations' documented constants (a 1103515245/c 12345 LCG,
	// seeded by srand, re-seedable via rrand's readback).
	v.def("rand", func(v *VM) error {
		v.rngState = v.rngState*1103515245 + 12345
		v.Push(object.NewInteger(int32((v.rngState >> 16) & 0x7fffffff)))
		return nil
	})
	v.def("srand", func(v *VM) error {
		seed, err := v.popInt("srand")
		if err != nil {
			return err
		}
		v.rngState = uint32(seed)
		return nil
	})
	v.def("rrand", func(v *VM) error {
		v.Push(object.NewInteger(int32(v.rngState)))
		return nil
	})
}
