package vm

import (
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/perrors"
)

// registerDictOps installs the dictionary and dictionary-stack operators
// (spec.md §4.5, §4.9).
func registerDictOps(v *VM) {
	v.def("dict", func(v *VM) error {
		n, err := v.popInt("dict")
		if err != nil {
			return err
		}
		if n < 0 {
			return perrors.New(perrors.RangeCheck, "dict")
		}
		v.Push(object.Object{Kind: object.DictObj, Dict: object.NewDict(int(n))})
		return nil
	})

	v.def("begin", func(v *VM) error {
		d, err := v.popDict("begin")
		if err != nil {
			return err
		}
		v.Dicts.Begin(d)
		return nil
	})

	v.def("end", func(v *VM) error {
		return v.Dicts.End()
	})

	v.def("def", func(v *VM) error {
		val, err := v.Pop()
		if err != nil {
			return err
		}
		key, err := v.popName("def")
		if err != nil {
			return err
		}
		v.Dicts.Def(key.Nm, val)
		return nil
	})

	v.def("store", func(v *VM) error {
		val, err := v.Pop()
		if err != nil {
			return err
		}
		key, err := v.popName("store")
		if err != nil {
			return err
		}
		v.Dicts.Store(key.Nm, val)
		return nil
	})

	v.def("load", func(v *VM) error {
		key, err := v.popName("load")
		if err != nil {
			return err
		}
		val, err := v.Dicts.Load(key.Nm)
		if err != nil {
			return err
		}
		v.Push(val)
		return nil
	})

	v.def("where", func(v *VM) error {
		key, err := v.popName("where")
		if err != nil {
			return err
		}
		d, ok := v.Dicts.Where(key.Nm)
		if !ok {
			v.Push(object.NewBoolean(false))
			return nil
		}
		v.Push(object.Object{Kind: object.DictObj, Dict: d})
		v.Push(object.NewBoolean(true))
		return nil
	})

	v.def("known", func(v *VM) error {
		key, err := v.popName("known")
		if err != nil {
			return err
		}
		d, err := v.popDict("known")
		if err != nil {
			return err
		}
		v.Push(object.NewBoolean(d.Contains(key.Nm)))
		return nil
	})

	v.def("undef", func(v *VM) error {
		key, err := v.popName("undef")
		if err != nil {
			return err
		}
		d, err := v.popDict("undef")
		if err != nil {
			return err
		}
		d.Remove(key.Nm)
		return nil
	})

	v.def("get", func(v *VM) error {
		return opGet(v)
	})
	v.def("put", func(v *VM) error {
		return opPut(v)
	})

	v.def("currentdict", func(v *VM) error {
		v.Push(object.Object{Kind: object.DictObj, Dict: v.Dicts.CurrentDict()})
		return nil
	})

	v.def("countdictstack", func(v *VM) error {
		v.Push(object.NewInteger(int32(v.Dicts.Depth())))
		return nil
	})

	v.def("dictstack", func(v *VM) error {
		arrObj, err := v.popArray("dictstack")
		if err != nil {
			return err
		}
		frames := v.Dicts.Frames()
		if arrObj.Length() < len(frames) {
			return perrors.New(perrors.RangeCheck, "dictstack")
		}
		for i, d := range frames {
			_ = arrObj.Put(i, object.Object{Kind: object.DictObj, Dict: d})
		}
		sub, _ := arrObj.GetInterval(0, len(frames))
		v.Push(object.Object{Kind: object.ArrayObj, Arr: sub})
		return nil
	})

	v.def("save", func(v *VM) error {
		v.Push(v.Save())
		return nil
	})
	v.def("restore", func(v *VM) error {
		s, err := v.Pop()
		if err != nil {
			return err
		}
		return v.Restore(s)
	})

	v.def("cleardictstack", func(v *VM) error {
		for v.Dicts.Depth() > 2 {
			if err := v.Dicts.End(); err != nil {
				break
			}
		}
		return nil
	})

	v.def("gcheck", func(v *VM) error {
		if _, err := v.Pop(); err != nil {
			return err
		}
		v.Push(object.NewBoolean(false))
		return nil
	})
}
