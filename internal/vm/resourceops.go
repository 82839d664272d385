package vm

import (
	"github.com/waavs-go/pslang/internal/name"
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/perrors"
)

// registerResourceOps installs the resource-subsystem operators (spec.md
// §4.10): findresource/defineresource/resourcestatus/resourceforall.
func registerResourceOps(v *VM) {
	v.def("defineresource", func(v *VM) error {
		category, err := v.popName("defineresource")
		if err != nil {
			return err
		}
		val, err := v.Pop()
		if err != nil {
			return err
		}
		key, err := v.popName("defineresource")
		if err != nil {
			return err
		}
		v.Resources.DefineResource(category.Nm.String(), key.Nm, val)
		v.Push(val)
		return nil
	})

	v.def("findresource", func(v *VM) error {
		category, err := v.popName("findresource")
		if err != nil {
			return err
		}
		key, err := v.popName("findresource")
		if err != nil {
			return err
		}
		val, err := v.Resources.FindResource(category.Nm.String(), key.Nm)
		if err != nil {
			return err
		}
		v.Push(val)
		return nil
	})

	v.def("resourcestatus", func(v *VM) error {
		category, err := v.popName("resourcestatus")
		if err != nil {
			return err
		}
		key, err := v.popName("resourcestatus")
		if err != nil {
			return err
		}
		level, ok := v.Resources.ResourceStatus(category.Nm.String(), key.Nm)
		if !ok {
			v.Push(object.NewBoolean(false))
			return nil
		}
		v.Push(object.NewInteger(0))
		v.Push(object.NewInteger(int32(level)))
		v.Push(object.NewBoolean(true))
		return nil
	})

	v.def("resourceforall", func(v *VM) error {
		proc, err := v.popProcedure("resourceforall")
		if err != nil {
			return err
		}
		_, err = v.Pop() // pattern template (unused: this core's keys aren't glob-matched)
		if err != nil {
			return err
		}
		category, err := v.popName("resourceforall")
		if err != nil {
			return err
		}
		var outerErr error
		v.Resources.ResourceForAll(category.Nm.String(), func(key name.Name, val object.Object) bool {
			v.Push(object.NewName(key, false))
			if outerErr = v.ExecuteTop(proc); outerErr != nil {
				return false
			}
			if v.consumeExit() || v.Stopped() {
				return false
			}
			return true
		})
		return outerErr
	})

	v.def("resourcepush", func(v *VM) error {
		v.Resources.Push()
		return nil
	})
	v.def("resourcepop", func(v *VM) error {
		if !v.Resources.Pop() {
			return perrors.New(perrors.RangeCheck, "resourcepop")
		}
		return nil
	})
}
