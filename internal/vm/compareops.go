package vm

import (
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/perrors"
)

// compareObjects implements the three-way comparison used by eq/ne/gt/lt/
// ge/le (spec.md §4.9): numeric compare for number types, lexical compare
// for strings (and names, by their text), identity compare (via eq/ne's
// own fallback) for everything else. ordered reports whether a strict
// ordering is meaningful for the pair (needed by gt/lt/ge/le, which
// typecheck when it is not).
func compareObjects(a, b object.Object) (cmp int, ordered, equal bool) {
	if af, ok1 := a.AsReal(); ok1 {
		if bf, ok2 := b.AsReal(); ok2 {
			switch {
			case af < bf:
				return -1, true, false
			case af > bf:
				return 1, true, false
			default:
				return 0, true, true
			}
		}
	}
	as, aIsStr := stringish(a)
	bs, bIsStr := stringish(b)
	if aIsStr && bIsStr {
		switch {
		case as < bs:
			return -1, true, false
		case as > bs:
			return 1, true, false
		default:
			return 0, true, true
		}
	}
	return 0, false, objectsIdentical(a, b)
}

func stringish(o object.Object) (string, bool) {
	switch o.Kind {
	case object.StringObj:
		if o.Str == nil {
			return "", true
		}
		return o.Str.String(), true
	case object.NameObj:
		return o.Nm.String(), true
	default:
		return "", false
	}
}

// objectsIdentical implements the "identity compare for others" clause:
// booleans compare by value, names by intern identity, and heap-backed
// composites by shared-pointer identity (two distinct arrays with equal
// contents are not eq).
func objectsIdentical(a, b object.Object) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case object.Null, object.Mark:
		return true
	case object.Boolean:
		return a.Bool == b.Bool
	case object.NameObj:
		return a.Nm.Equal(b.Nm)
	case object.ArrayObj:
		return a.Arr == b.Arr
	case object.DictObj:
		return a.Dict == b.Dict
	case object.StringObj:
		return a.Str == b.Str
	case object.OperatorObj:
		return a.Op == b.Op
	case object.FileObj:
		return a.File == b.File
	case object.PathObj:
		return a.Path == b.Path
	default:
		return false
	}
}

func registerCompareOps(v *VM) {
	v.def("eq", func(v *VM) error {
		b, err := v.Pop()
		if err != nil {
			return err
		}
		a, err := v.Pop()
		if err != nil {
			return err
		}
		_, _, equal := compareObjects(a, b)
		v.Push(object.NewBoolean(equal))
		return nil
	})
	v.def("ne", func(v *VM) error {
		b, err := v.Pop()
		if err != nil {
			return err
		}
		a, err := v.Pop()
		if err != nil {
			return err
		}
		_, _, equal := compareObjects(a, b)
		v.Push(object.NewBoolean(!equal))
		return nil
	})

	ordered := func(opName string, want func(cmp int) bool) {
		v.def(opName, func(v *VM) error {
			b, err := v.Pop()
			if err != nil {
				return err
			}
			a, err := v.Pop()
			if err != nil {
				return err
			}
			cmp, ok, _ := compareObjects(a, b)
			if !ok {
				return perrors.New(perrors.TypeCheck, opName)
			}
			v.Push(object.NewBoolean(want(cmp)))
			return nil
		})
	}
	ordered("gt", func(c int) bool { return c > 0 })
	ordered("lt", func(c int) bool { return c < 0 })
	ordered("ge", func(c int) bool { return c >= 0 })
	ordered("le", func(c int) bool { return c <= 0 })

	v.def("not", func(v *VM) error {
		o, err := v.Pop()
		if err != nil {
			return err
		}
		switch o.Kind {
		case object.Boolean:
			v.Push(object.NewBoolean(!o.Bool))
		case object.Integer:
			v.Push(object.NewInteger(^o.Int))
		default:
			return perrors.New(perrors.TypeCheck, "not")
		}
		return nil
	})

	binBitwise := func(opName string, boolFn func(a, b bool) bool, intFn func(a, b int32) int32) {
		v.def(opName, func(v *VM) error {
			b, err := v.Pop()
			if err != nil {
				return err
			}
			a, err := v.Pop()
			if err != nil {
				return err
			}
			if a.Kind == object.Boolean && b.Kind == object.Boolean {
				v.Push(object.NewBoolean(boolFn(a.Bool, b.Bool)))
				return nil
			}
			if a.Kind == object.Integer && b.Kind == object.Integer {
				v.Push(object.NewInteger(intFn(a.Int, b.Int)))
				return nil
			}
			return perrors.New(perrors.TypeCheck, opName)
		})
	}
	binBitwise("and", func(a, b bool) bool { return a && b }, func(a, b int32) int32 { return a & b })
	binBitwise("or", func(a, b bool) bool { return a || b }, func(a, b int32) int32 { return a | b })
	binBitwise("xor", func(a, b bool) bool { return a != b }, func(a, b int32) int32 { return a ^ b })

	v.def("bitshift", func(v *VM) error {
		shift, err := v.popInt("bitshift")
		if err != nil {
			return err
		}
		val, err := v.popInt("bitshift")
		if err != nil {
			return err
		}
		if shift >= 0 {
			v.Push(object.NewInteger(val << uint(shift)))
		} else {
			v.Push(object.NewInteger(val >> uint(-shift)))
		}
		return nil
	})
}
