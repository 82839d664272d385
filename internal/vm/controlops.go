package vm

import (
	"github.com/waavs-go/pslang/internal/name"
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/perrors"
)

// registerControlOps installs if/ifelse/repeat/loop/for/forall/exec/exit/
// stop/stopped (spec.md §4.4, §4.9). Each executes its procedure body via
// ExecuteTop, which recurses one Go frame per nesting level of control
// flow (bounded by source structure, not data size) while procedure-body
// iteration itself stays flattened inside drain().
func registerControlOps(v *VM) {
	v.def("if", func(v *VM) error {
		proc, err := v.popProcedure("if")
		if err != nil {
			return err
		}
		cond, err := v.popBool("if")
		if err != nil {
			return err
		}
		if cond {
			return v.ExecuteTop(proc)
		}
		return nil
	})

	v.def("ifelse", func(v *VM) error {
		proc2, err := v.popProcedure("ifelse")
		if err != nil {
			return err
		}
		proc1, err := v.popProcedure("ifelse")
		if err != nil {
			return err
		}
		cond, err := v.popBool("ifelse")
		if err != nil {
			return err
		}
		if cond {
			return v.ExecuteTop(proc1)
		}
		return v.ExecuteTop(proc2)
	})

	v.def("repeat", func(v *VM) error {
		proc, err := v.popProcedure("repeat")
		if err != nil {
			return err
		}
		n, err := v.popInt("repeat")
		if err != nil {
			return err
		}
		if n < 0 {
			return perrors.New(perrors.RangeCheck, "repeat")
		}
		for i := int32(0); i < n; i++ {
			if err := v.ExecuteTop(proc); err != nil {
				return err
			}
			if v.consumeExit() || v.Stopped() {
				return nil
			}
		}
		return nil
	})

	v.def("loop", func(v *VM) error {
		proc, err := v.popProcedure("loop")
		if err != nil {
			return err
		}
		for {
			if err := v.ExecuteTop(proc); err != nil {
				return err
			}
			if v.consumeExit() || v.Stopped() {
				return nil
			}
		}
	})

	v.def("for", func(v *VM) error {
		proc, err := v.popProcedure("for")
		if err != nil {
			return err
		}
		limit, err := v.popNumber("for")
		if err != nil {
			return err
		}
		step, err := v.popNumber("for")
		if err != nil {
			return err
		}
		initial, err := v.popNumber("for")
		if err != nil {
			return err
		}
		if step == 0 {
			return perrors.New(perrors.RangeCheck, "for")
		}
		asInt := isIntForLoop(initial, step, limit)
		for cur := initial; (step > 0 && cur <= limit) || (step < 0 && cur >= limit); cur += step {
			if asInt {
				v.Push(object.NewInteger(int32(cur)))
			} else {
				v.Push(object.NewReal(cur))
			}
			if err := v.ExecuteTop(proc); err != nil {
				return err
			}
			if v.consumeExit() || v.Stopped() {
				return nil
			}
		}
		return nil
	})

	v.def("forall", func(v *VM) error {
		proc, err := v.popProcedure("forall")
		if err != nil {
			return err
		}
		container, err := v.Pop()
		if err != nil {
			return err
		}
		switch container.Kind {
		case object.ArrayObj:
			container.Arr.ForEach(func(item object.Object) bool {
				v.Push(item)
				if err = v.ExecuteTop(proc); err != nil {
					return false
				}
				if v.consumeExit() || v.Stopped() {
					return false
				}
				return true
			})
			return err
		case object.StringObj:
			for _, b := range container.Str.Bytes() {
				v.Push(object.NewInteger(int32(b)))
				if err := v.ExecuteTop(proc); err != nil {
					return err
				}
				if v.consumeExit() || v.Stopped() {
					return nil
				}
			}
			return nil
		case object.DictObj:
			var outerErr error
			container.Dict.ForEach(func(k name.Name, val object.Object) bool {
				v.Push(object.NewName(k, false))
				v.Push(val)
				if outerErr = v.ExecuteTop(proc); outerErr != nil {
					return false
				}
				if v.consumeExit() || v.Stopped() {
					return false
				}
				return true
			})
			return outerErr
		default:
			return perrors.New(perrors.TypeCheck, "forall")
		}
	})

	v.def("exec", func(v *VM) error {
		o, err := v.Pop()
		if err != nil {
			return err
		}
		return v.ExecuteTop(o)
	})

	v.def("exit", func(v *VM) error {
		v.RequestExit()
		return nil
	})

	v.def("stop", func(v *VM) error {
		v.RequestStop()
		return nil
	})

	v.def("stopped", func(v *VM) error {
		proc, err := v.Pop()
		if err != nil {
			return err
		}
		prevStop := v.clearStop()
		if err := v.ExecuteTop(proc); err != nil {
			return err
		}
		caught := v.clearStop()
		if prevStop {
			v.RequestStop()
		}
		v.Push(object.NewBoolean(caught))
		return nil
	})
}

// isIntForLoop reports whether a "for" loop should push Integer operands:
// true only when the initial value, step, and limit are all whole numbers
// representable without fractional parts, matching spec.md §4.9's "for
// supports real steps" (i.e. any fractional operand forces Real).
func isIntForLoop(initial, step, limit float64) bool {
	whole := func(f float64) bool { return f == float64(int64(f)) }
	return whole(initial) && whole(step) && whole(limit)
}
