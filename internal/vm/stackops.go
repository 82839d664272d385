package vm

import (
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/perrors"
)

// registerStackOps installs the standard stack-discipline operators
// (spec.md §4.9): dup/pop/exch/copy/index/roll/mark/cleartomark/
// counttomark/clear/count. Underflow is a stackunderflow; index/roll/copy
// additionally typecheck their integer operand.
func registerStackOps(v *VM) {
	v.def("dup", func(v *VM) error {
		o, err := v.Top()
		if err != nil {
			return err
		}
		v.Push(o)
		return nil
	})

	v.def("pop", func(v *VM) error {
		_, err := v.Pop()
		return err
	})

	v.def("exch", func(v *VM) error {
		b, err := v.Pop()
		if err != nil {
			return err
		}
		a, err := v.Pop()
		if err != nil {
			return err
		}
		v.Push(b)
		v.Push(a)
		return nil
	})

	v.def("copy", func(v *VM) error {
		n, err := v.popInt("copy")
		if err != nil {
			return err
		}
		if n < 0 {
			return perrors.New(perrors.RangeCheck, "copy")
		}
		if int(n) > len(v.Operand) {
			return perrors.New(perrors.StackUnderflow, "copy")
		}
		start := len(v.Operand) - int(n)
		v.Operand = append(v.Operand, v.Operand[start:]...)
		return nil
	})

	v.def("index", func(v *VM) error {
		n, err := v.popInt("index")
		if err != nil {
			return err
		}
		if n < 0 {
			return perrors.New(perrors.RangeCheck, "index")
		}
		o, err := v.Nth(int(n))
		if err != nil {
			return perrors.New(perrors.StackUnderflow, "index")
		}
		v.Push(o)
		return nil
	})

	v.def("roll", func(v *VM) error {
		j, err := v.popInt("roll")
		if err != nil {
			return err
		}
		n, err := v.popInt("roll")
		if err != nil {
			return err
		}
		if n < 0 {
			return perrors.New(perrors.RangeCheck, "roll")
		}
		if int(n) > len(v.Operand) {
			return perrors.New(perrors.StackUnderflow, "roll")
		}
		if n == 0 {
			return nil
		}
		start := len(v.Operand) - int(n)
		seg := v.Operand[start:]
		shift := int(j) % int(n)
		if shift < 0 {
			shift += int(n)
		}
		rolled := make([]object.Object, n)
		for i := 0; i < int(n); i++ {
			rolled[(i+shift)%int(n)] = seg[i]
		}
		copy(seg, rolled)
		return nil
	})

	v.def("mark", func(v *VM) error {
		v.Push(object.NewMark())
		return nil
	})

	v.def("cleartomark", func(v *VM) error {
		i, err := v.markIndex()
		if err != nil {
			return err
		}
		v.Operand = v.Operand[:i]
		return nil
	})

	v.def("counttomark", func(v *VM) error {
		i, err := v.markIndex()
		if err != nil {
			return err
		}
		v.Push(object.NewInteger(int32(len(v.Operand) - i - 1)))
		return nil
	})

	v.def("clear", func(v *VM) error {
		v.Operand = v.Operand[:0]
		return nil
	})

	v.def("count", func(v *VM) error {
		v.Push(object.NewInteger(int32(len(v.Operand))))
		return nil
	})
}

// markIndex finds the topmost mark object's index, failing with
// unmatchedmark if none is present.
func (v *VM) markIndex() (int, error) {
	for i := len(v.Operand) - 1; i >= 0; i-- {
		if v.Operand[i].Kind == object.Mark {
			return i, nil
		}
	}
	return 0, perrors.New(perrors.UnmatchedMark, "")
}
