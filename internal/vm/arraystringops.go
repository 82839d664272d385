package vm

import (
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/perrors"
)

// opGet and opPut implement "get"/"put" polymorphically over array,
// string, and dictionary (spec.md §4.6, §4.5), matching real PostScript's
// single get/put operator pair that dispatches on the composite's type.
func opGet(v *VM) error {
	idxOrKey, err := v.Pop()
	if err != nil {
		return err
	}
	composite, err := v.Pop()
	if err != nil {
		return err
	}
	switch composite.Kind {
	case object.ArrayObj:
		i, ok := intIndex(idxOrKey)
		if !ok {
			return perrors.New(perrors.TypeCheck, "get")
		}
		o, err := composite.Arr.Get(i)
		if err != nil {
			return err
		}
		v.Push(o)
		return nil
	case object.StringObj:
		i, ok := intIndex(idxOrKey)
		if !ok {
			return perrors.New(perrors.TypeCheck, "get")
		}
		b, err := composite.Str.Get(i)
		if err != nil {
			return err
		}
		v.Push(object.NewInteger(int32(b)))
		return nil
	case object.DictObj:
		if idxOrKey.Kind != object.NameObj {
			return perrors.New(perrors.TypeCheck, "get")
		}
		val, ok := composite.Dict.Get(idxOrKey.Nm)
		if !ok {
			return perrors.New(perrors.Undefined, "get")
		}
		v.Push(val)
		return nil
	default:
		return perrors.New(perrors.TypeCheck, "get")
	}
}

func opPut(v *VM) error {
	val, err := v.Pop()
	if err != nil {
		return err
	}
	idxOrKey, err := v.Pop()
	if err != nil {
		return err
	}
	composite, err := v.Pop()
	if err != nil {
		return err
	}
	switch composite.Kind {
	case object.ArrayObj:
		i, ok := intIndex(idxOrKey)
		if !ok {
			return perrors.New(perrors.TypeCheck, "put")
		}
		return composite.Arr.Put(i, val)
	case object.StringObj:
		i, ok := intIndex(idxOrKey)
		if !ok {
			return perrors.New(perrors.TypeCheck, "put")
		}
		bv, ok := intIndex(val)
		if !ok {
			return perrors.New(perrors.TypeCheck, "put")
		}
		return composite.Str.Put(i, byte(bv))
	case object.DictObj:
		if idxOrKey.Kind != object.NameObj {
			return perrors.New(perrors.TypeCheck, "put")
		}
		composite.Dict.Put(idxOrKey.Nm, val)
		return nil
	default:
		return perrors.New(perrors.TypeCheck, "put")
	}
}

func intIndex(o object.Object) (int, bool) {
	switch o.Kind {
	case object.Integer:
		return int(o.Int), true
	case object.Real:
		return int(o.Real), true
	default:
		return 0, false
	}
}

// registerArrayStringOps installs length/getinterval/putinterval/aload/
// astore and array/string construction (spec.md §4.6); get/put are
// installed by registerDictOps and forall by registerControlOps.
func registerArrayStringOps(v *VM) {
	v.def("length", func(v *VM) error {
		o, err := v.Pop()
		if err != nil {
			return err
		}
		switch o.Kind {
		case object.ArrayObj:
			v.Push(object.NewInteger(int32(o.Arr.Length())))
		case object.StringObj:
			v.Push(object.NewInteger(int32(o.Str.Length())))
		case object.DictObj:
			v.Push(object.NewInteger(int32(o.Dict.Length())))
		case object.NameObj:
			v.Push(object.NewInteger(int32(len(o.Nm.String()))))
		default:
			return perrors.New(perrors.TypeCheck, "length")
		}
		return nil
	})

	v.def("array", func(v *VM) error {
		n, err := v.popInt("array")
		if err != nil {
			return err
		}
		if n < 0 {
			return perrors.New(perrors.RangeCheck, "array")
		}
		v.Push(object.Object{Kind: object.ArrayObj, Arr: object.NewArray(int(n))})
		return nil
	})

	v.def("string", func(v *VM) error {
		n, err := v.popInt("string")
		if err != nil {
			return err
		}
		if n < 0 {
			return perrors.New(perrors.RangeCheck, "string")
		}
		v.Push(object.Object{Kind: object.StringObj, Str: object.NewPString(int(n))})
		return nil
	})

	v.def("getinterval", func(v *VM) error {
		count, err := v.popInt("getinterval")
		if err != nil {
			return err
		}
		index, err := v.popInt("getinterval")
		if err != nil {
			return err
		}
		composite, err := v.Pop()
		if err != nil {
			return err
		}
		switch composite.Kind {
		case object.ArrayObj:
			sub, err := composite.Arr.GetInterval(int(index), int(count))
			if err != nil {
				return err
			}
			v.Push(object.Object{Kind: object.ArrayObj, Arr: sub})
		case object.StringObj:
			sub, err := composite.Str.GetInterval(int(index), int(count))
			if err != nil {
				return err
			}
			v.Push(object.Object{Kind: object.StringObj, Str: sub})
		default:
			return perrors.New(perrors.TypeCheck, "getinterval")
		}
		return nil
	})

	v.def("putinterval", func(v *VM) error {
		src, err := v.Pop()
		if err != nil {
			return err
		}
		index, err := v.popInt("putinterval")
		if err != nil {
			return err
		}
		composite, err := v.Pop()
		if err != nil {
			return err
		}
		switch composite.Kind {
		case object.ArrayObj:
			if src.Kind != object.ArrayObj {
				return perrors.New(perrors.TypeCheck, "putinterval")
			}
			return composite.Arr.PutInterval(int(index), src.Arr)
		case object.StringObj:
			if src.Kind != object.StringObj {
				return perrors.New(perrors.TypeCheck, "putinterval")
			}
			return composite.Str.PutInterval(int(index), src.Str)
		default:
			return perrors.New(perrors.TypeCheck, "putinterval")
		}
	})

	v.def("aload", func(v *VM) error {
		arr, err := v.popArray("aload")
		if err != nil {
			return err
		}
		arr.ForEach(func(o object.Object) bool {
			v.Push(o)
			return true
		})
		v.Push(object.Object{Kind: object.ArrayObj, Arr: arr})
		return nil
	})

	v.def("astore", func(v *VM) error {
		arr, err := v.popArray("astore")
		if err != nil {
			return err
		}
		n := arr.Length()
		if n > len(v.Operand) {
			return perrors.New(perrors.StackUnderflow, "astore")
		}
		start := len(v.Operand) - n
		for i := 0; i < n; i++ {
			_ = arr.Put(i, v.Operand[start+i])
		}
		v.Operand = v.Operand[:start]
		v.Push(object.Object{Kind: object.ArrayObj, Arr: arr})
		return nil
	})

}
