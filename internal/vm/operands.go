package vm

import (
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/perrors"
)

// The helpers below give operator implementations typed, error-wrapped
// access to the operand stack, matching spec.md §4.9's "preconditions on
// operand types ... typecheck" contract uniformly instead of repeating
// type switches in every operator.

func (v *VM) popNumber(op string) (float64, error) {
	o, err := v.Pop()
	if err != nil {
		return 0, err
	}
	f, ok := o.AsReal()
	if !ok {
		return 0, perrors.New(perrors.TypeCheck, op)
	}
	return f, nil
}

func (v *VM) popInt(op string) (int32, error) {
	o, err := v.Pop()
	if err != nil {
		return 0, err
	}
	switch o.Kind {
	case object.Integer:
		return o.Int, nil
	case object.Real:
		return int32(o.Real), nil
	default:
		return 0, perrors.New(perrors.TypeCheck, op)
	}
}

func (v *VM) popBool(op string) (bool, error) {
	o, err := v.Pop()
	if err != nil {
		return false, err
	}
	if o.Kind != object.Boolean {
		return false, perrors.New(perrors.TypeCheck, op)
	}
	return o.Bool, nil
}

func (v *VM) popName(op string) (object.Object, error) {
	o, err := v.Pop()
	if err != nil {
		return object.Object{}, err
	}
	if o.Kind != object.NameObj {
		return object.Object{}, perrors.New(perrors.TypeCheck, op)
	}
	return o, nil
}

func (v *VM) popString(op string) (*object.PString, error) {
	o, err := v.Pop()
	if err != nil {
		return nil, err
	}
	if o.Kind != object.StringObj {
		return nil, perrors.New(perrors.TypeCheck, op)
	}
	return o.Str, nil
}

func (v *VM) popArray(op string) (*object.Array, error) {
	o, err := v.Pop()
	if err != nil {
		return nil, err
	}
	if o.Kind != object.ArrayObj {
		return nil, perrors.New(perrors.TypeCheck, op)
	}
	return o.Arr, nil
}

func (v *VM) popProcedure(op string) (object.Object, error) {
	o, err := v.Pop()
	if err != nil {
		return object.Object{}, err
	}
	if !o.IsProcedure() {
		return object.Object{}, perrors.New(perrors.TypeCheck, op)
	}
	return o, nil
}

func (v *VM) popDict(op string) (*object.Dict, error) {
	o, err := v.Pop()
	if err != nil {
		return nil, err
	}
	if o.Kind != object.DictObj {
		return nil, perrors.New(perrors.TypeCheck, op)
	}
	return o.Dict, nil
}

// stackSnapshot renders the operand stack bottom-to-top as printable
// strings, the form perrors.Error.WithOperands takes. raiseError does not
// call it, so $error holds no operand snapshot.
func (v *VM) stackSnapshot() []string {
	out := make([]string, len(v.Operand))
	for i, o := range v.Operand {
		out[i] = object.Format(o)
	}
	return out
}
