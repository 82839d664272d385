package vm

import (
	"fmt"

	"github.com/waavs-go/pslang/internal/object"
)

// registerPrintOps installs the printing operators ("="/"=="/"print"/
// "stack"/"pstack") used throughout spec.md §8's concrete scenarios. They
// write to v.Out (stdout by default), matching how a REPL/batch runner
// observes program output.
func registerPrintOps(v *VM) {
	v.def("=", func(v *VM) error {
		o, err := v.Pop()
		if err != nil {
			return err
		}
		fmt.Fprintln(v.Out, object.Format(o))
		return nil
	})

	v.def("==", func(v *VM) error {
		o, err := v.Pop()
		if err != nil {
			return err
		}
		fmt.Fprintln(v.Out, object.ReprDeep(o))
		return nil
	})

	v.def("print", func(v *VM) error {
		s, err := v.popString("print")
		if err != nil {
			return err
		}
		fmt.Fprint(v.Out, s.String())
		return nil
	})

	v.def("stack", func(v *VM) error {
		for i := len(v.Operand) - 1; i >= 0; i-- {
			fmt.Fprintln(v.Out, object.Format(v.Operand[i]))
		}
		return nil
	})

	v.def("pstack", func(v *VM) error {
		for i := len(v.Operand) - 1; i >= 0; i-- {
			fmt.Fprintln(v.Out, object.ReprDeep(v.Operand[i]))
		}
		return nil
	})

	v.def("flush", func(v *VM) error { return nil })
}
