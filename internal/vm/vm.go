// Package vm implements the PostScript virtual machine (spec.md §4.4): the
// four stacks (operand, execution, dictionary, graphics), the run loop
// that drives deferred execution, and the built-in operator set registered
// into systemdict. Exec-stack frames are iterated with an explicit
// pending-array-iterator record rather than host recursion, per spec.md
// §9's "process exec-stack frames iteratively" design note; only the
// control-flow combinators (if/ifelse/repeat/loop/for/forall/exec/stopped)
// recurse in Go, bounded by source nesting depth rather than data size.
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/waavs-go/pslang/internal/dictstack"
	"github.com/waavs-go/pslang/internal/geom"
	"github.com/waavs-go/pslang/internal/gstate"
	"github.com/waavs-go/pslang/internal/name"
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/internal/parse"
	"github.com/waavs-go/pslang/perrors"
	"github.com/waavs-go/pslang/internal/resource"
)

// Func is the signature every built-in operator implements. object.Operator
// carries it as an `any` (to avoid an object<->vm import cycle); the VM
// type-asserts it back here when dispatching.
type Func func(v *VM) error

// frame is one entry of the execution stack. A frame with Arr != nil is an
// iterating procedure (spec.md §9's "procedure pointer + current index");
// a frame with Arr == nil holds a single pending object (deferred literal,
// name-to-resolve, or operator-to-invoke).
type frame struct {
	Obj object.Object
	Arr *object.Array
	Idx int
}

// VM holds the four stacks plus the ambient subsystems (resources,
// graphics sink, RNG) that the built-in operators close over.
type VM struct {
	Operand []object.Object
	exec    []frame

	Dicts       *dictstack.Stack
	SystemDict  *object.Dict
	GlobalDict  *object.Dict
	UserDict    *object.Dict
	ErrorDict   *object.Dict
	ErrorState  *object.Dict // "$error"

	Gfx       *gstate.Stack
	Resources *resource.Stack
	Sink      Sink
	fonts     FontProvider

	CurrentFile object.Object // currentfile, for "run"/token-from-stdin-style operators

	Out io.Writer

	// Trace, when non-nil, receives one line per operator dispatched,
	// mirroring the teacher's optional *Trace fields (nil means disabled,
	// checked at the point of use rather than branching on a bool).
	Trace io.Writer

	rngState uint32

	saveSeq    uint64
	gfxDepths  []int
	dictDepths []int

	stopFlag bool
	exitFlag bool
	Quit     bool // when set by the host, ends drain and RunSource; no operator sets it
}

// New returns a VM with an identity device CTM and no graphics sink
// (suitable for headless/non-rendering tests); call SetSink to attach one.
func New() *VM {
	return NewWithCTM(geom.Identity())
}

// NewWithCTM returns a VM whose initial graphics state uses ctm as the
// device transform (e.g. a raster sink's page-to-device matrix).
func NewWithCTM(ctm geom.Matrix) *VM {
	sys := object.NewDict(512)
	global := object.NewDict(64)
	user := object.NewDict(64)
	errDict := object.NewDict(32)
	errState := object.NewDict(16)

	v := &VM{
		Dicts:      dictstack.New(sys, user),
		SystemDict: sys,
		GlobalDict: global,
		UserDict:   user,
		ErrorDict:  errDict,
		ErrorState: errState,
		Gfx:        gstate.NewStack(ctm),
		Resources:  resource.NewStack(),
		Out:        os.Stdout,
		rngState:   1,
	}
	RegisterBuiltins(v)
	registerErrorHandlers(v)
	return v
}

// SetSink attaches the external graphics collaborator (spec.md §6); a VM
// without one still executes every non-graphics operator, which is how the
// unit tests exercise the interpreter without a rasterizer.
func (v *VM) SetSink(s Sink) { v.Sink = s }

// ---- operand stack helpers ----

// Push appends o to the operand stack.
func (v *VM) Push(o object.Object) { v.Operand = append(v.Operand, o) }

// Pop removes and returns the top of the operand stack.
func (v *VM) Pop() (object.Object, error) {
	n := len(v.Operand)
	if n == 0 {
		return object.Object{}, perrors.New(perrors.StackUnderflow, "")
	}
	o := v.Operand[n-1]
	v.Operand = v.Operand[:n-1]
	return o, nil
}

// Top returns the top of the operand stack without popping it.
func (v *VM) Top() (object.Object, error) {
	n := len(v.Operand)
	if n == 0 {
		return object.Object{}, perrors.New(perrors.StackUnderflow, "")
	}
	return v.Operand[n-1], nil
}

// Nth returns the element i-from-top (0 = the top), without popping.
func (v *VM) Nth(i int) (object.Object, error) {
	n := len(v.Operand)
	if i < 0 || i >= n {
		return object.Object{}, perrors.New(perrors.StackUnderflow, "")
	}
	return v.Operand[n-1-i], nil
}

// ---- dispatch ----

// resolveSystemName is the parser's SystemResolver collaborator: "//name"
// resolves against systemdict only, immediately at parse time (spec.md
// §4.2's "immediately-evaluated name").
func (v *VM) resolveSystemName(n name.Name) (object.Object, bool) {
	return v.SystemDict.Get(n)
}

// RunSource parses src and executes each top-level object in turn, exactly
// as the top-level interpreter loop does when reading from currentfile.
func (v *VM) RunSource(src []byte) error {
	p := parse.NewParser(src)
	p.SetSystemResolver(v.resolveSystemName)
	for {
		obj, ok, err := p.Next()
		if err != nil {
			v.raiseError(err)
			return nil
		}
		if !ok {
			return nil
		}
		// A procedure literal read at the top level is data, not a
		// command: "{...}" pushes itself onto the operand stack exactly
		// like currentfile's token reader would (spec.md §8 scenario 4);
		// it only runs later via an executable name bound to it or an
		// operator that explicitly invokes a popped procedure.
		if obj.IsProcedure() {
			v.Push(obj)
			continue
		}
		if err := v.ExecuteTop(obj); err != nil {
			return err
		}
		if v.Quit {
			return nil
		}
	}
}

// ExecuteTop pushes obj as a new exec-stack frame and drains the machine
// back down to the depth it started at (spec.md §4.4's run loop).
func (v *VM) ExecuteTop(obj object.Object) error {
	base := len(v.exec)
	v.pushFrame(obj)
	return v.drain(base)
}

// pushFrame installs obj as the new top-of-exec-stack entry: an iterating
// frame for a procedure (executable array), a singular frame otherwise.
func (v *VM) pushFrame(obj object.Object) {
	if obj.IsProcedure() {
		v.exec = append(v.exec, frame{Arr: obj.Arr})
		return
	}
	v.exec = append(v.exec, frame{Obj: obj})
}

// drain runs the machine until the exec stack is back to depth base, an
// error/stop propagates, or the host sets Quit.
func (v *VM) drain(base int) error {
	for len(v.exec) > base {
		top := len(v.exec) - 1
		f := &v.exec[top]

		if f.Arr != nil {
			if f.Idx >= f.Arr.Length() {
				v.exec = v.exec[:top]
				continue
			}
			item, _ := f.Arr.Get(f.Idx)
			f.Idx++
			// A nested procedure literal encountered while iterating an
			// enclosing procedure's body is data, same as at the top
			// level: push it rather than auto-running it. Only a name
			// resolution (step()'s NameObj&&Exec case) or an operator's
			// own explicit ExecuteTop/Exec on a popped operand may turn
			// a procedure into an iterating frame.
			if item.IsProcedure() {
				v.Push(item)
			} else {
				v.pushFrame(item)
			}
			continue
		}

		obj := f.Obj
		v.exec = v.exec[:top]

		if err := v.step(obj); err != nil {
			v.raiseError(err)
		}
		if v.stopFlag || v.exitFlag || v.Quit {
			v.exec = v.exec[:base]
			return nil
		}
	}
	return nil
}

// step executes a single (non-procedure-iterating) object per spec.md
// §4.4's frame-kind dispatch.
func (v *VM) step(obj object.Object) error {
	switch {
	case obj.Kind == object.NameObj && obj.Exec:
		val, err := v.Dicts.Load(obj.Nm)
		if err != nil {
			return perrors.New(perrors.Undefined, obj.Nm.String())
		}
		v.pushFrame(val)
		return nil

	case obj.Kind == object.ArrayObj && obj.Exec:
		// Reached only when an executable array is encountered as a
		// "singular" frame (e.g. pushed directly by exec/if); re-enter
		// pushFrame so it becomes an iterating frame.
		v.pushFrame(obj)
		return nil

	case obj.Kind == object.OperatorObj:
		fn, ok := obj.Op.Fn.(Func)
		if !ok {
			return perrors.Newf(perrors.VMError, obj.Op.Name.String(), "%s", "operator has no implementation")
		}
		if v.Trace != nil {
			fmt.Fprintf(v.Trace, "%s\t%d\n", obj.Op.Name.String(), len(v.Operand))
		}
		return fn(v)

	case obj.Kind == object.StringObj && obj.Exec:
		return v.execString(obj.Str)

	default:
		v.Push(obj)
		return nil
	}
}

// execString parses an executable string as source (spec.md §4.4: "parse
// it as source on demand and execute the resulting object stream") and
// drains it as a procedure body.
func (v *VM) execString(s *object.PString) error {
	objs, err := parseAll(s.Bytes(), v.resolveSystemName)
	if err != nil {
		return err
	}
	arr := object.NewArray(len(objs))
	for i, o := range objs {
		_ = arr.Put(i, o)
	}
	return v.ExecuteTop(object.Object{Kind: object.ArrayObj, Exec: true, Arr: arr})
}

func parseAll(src []byte, resolve parse.SystemResolver) ([]object.Object, error) {
	p := parse.NewParser(src)
	p.SetSystemResolver(resolve)
	var out []object.Object
	for {
		obj, ok, err := p.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, obj)
	}
}

// Exec runs obj as the "exec" operator does: execute-if-executable, push
// otherwise, recursing (in Go) one level for the duration of obj's body.
func (v *VM) Exec(obj object.Object) error {
	base := len(v.exec)
	v.pushFrame(obj)
	return v.drain(base)
}

// RequestExit sets the exit flag consumed by the nearest enclosing
// repeat/loop/for/forall (spec.md §4.4's cancellation semantics).
func (v *VM) RequestExit() { v.exitFlag = true }

// RequestStop sets the stop flag, unwound by the nearest "stopped" guard.
func (v *VM) RequestStop() { v.stopFlag = true }

// consumeExit clears and reports the exit flag, used by loop constructs
// after each iteration.
func (v *VM) consumeExit() bool {
	if v.exitFlag {
		v.exitFlag = false
		return true
	}
	return false
}

// Stopped is true while a stop is propagating and not yet caught.
func (v *VM) Stopped() bool { return v.stopFlag }

// clearStop clears the stop flag, returning its previous value (used by
// the "stopped" operator to scope catching to its own procedure call).
func (v *VM) clearStop() bool {
	caught := v.stopFlag
	v.stopFlag = false
	return caught
}

// raiseError routes err through errordict per spec.md §7: look up a
// handler keyed by the error kind, record context into $error, and invoke
// stop. Unknown kinds fall back to a default handler that still stops.
func (v *VM) raiseError(err error) {
	pe, ok := err.(*perrors.Error)
	if !ok {
		pe = perrors.Newf(perrors.VMError, "", "%s", err.Error())
	}
	v.ErrorState.Put(name.Intern("newerror"), object.NewBoolean(true))
	v.ErrorState.Put(name.Intern("errorname"), object.NewName(name.Intern(string(pe.Kind)), false))
	v.ErrorState.Put(name.Intern("command"), object.NewName(name.Intern(pe.Op), false))
	if handler, ok := v.ErrorDict.Get(name.Intern(string(pe.Kind))); ok && (handler.IsProcedure() || handler.Kind == object.OperatorObj) {
		_ = v.Exec(handler)
		return
	}
	v.RequestStop()
}

// Save captures the current graphics-stack and dict-stack depths so
// Restore can roll composite-object-independent state back (spec.md
// §4.4's save/restore: "for this spec: rolls back graphics state and the
// dictionary stack; full VM save of composite mutations is an
// implementation choice"). Composite-object mutations and the resource
// stack are not rolled back.
func (v *VM) Save() object.Object {
	v.saveSeq++
	v.gfxDepths = append(v.gfxDepths, v.Gfx.Depth())
	v.dictDepths = append(v.dictDepths, v.Dicts.Depth())
	return object.NewSave(v.saveSeq)
}

// Restore rolls the graphics and dictionary stacks back to the depth
// recorded by the matching Save.
func (v *VM) Restore(s object.Object) error {
	if s.Kind != object.SaveObj || len(v.gfxDepths) == 0 {
		return perrors.New(perrors.InvalidAccess, "restore")
	}
	n := len(v.gfxDepths)
	gd, dd := v.gfxDepths[n-1], v.dictDepths[n-1]
	v.gfxDepths = v.gfxDepths[:n-1]
	v.dictDepths = v.dictDepths[:n-1]
	for v.Gfx.Depth() > gd {
		v.Gfx.Restore()
	}
	for v.Dicts.Depth() > dd {
		_ = v.Dicts.End()
	}
	return nil
}
