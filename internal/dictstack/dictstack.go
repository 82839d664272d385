// Package dictstack implements the dictionary stack (spec.md §4.5): a
// LIFO of *object.Dict frames with name resolution searching top-down,
// and a protected base of permanent system/user dictionaries.
package dictstack

import (
	"github.com/waavs-go/pslang/internal/name"
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/perrors"
)

// Stack is a dictionary stack with a fixed-size protected base (typically
// systemdict and userdict) that begin/end cannot pop past.
type Stack struct {
	frames    []*object.Dict
	permanent int
}

// New returns a Stack whose initial frames are permanent: end() refuses
// to pop any of them.
func New(base ...*object.Dict) *Stack {
	frames := append([]*object.Dict(nil), base...)
	return &Stack{frames: frames, permanent: len(frames)}
}

// CurrentDict returns the top frame.
func (s *Stack) CurrentDict() *object.Dict {
	return s.frames[len(s.frames)-1]
}

// Begin pushes d as the new top frame.
func (s *Stack) Begin(d *object.Dict) {
	s.frames = append(s.frames, d)
}

// End pops the top frame, failing with dictstackunderflow if that would
// remove one of the permanent base frames.
func (s *Stack) End() error {
	if len(s.frames) <= s.permanent {
		return perrors.New(perrors.DictStackUnderflow, "end")
	}
	s.frames = s.frames[:len(s.frames)-1]
	return nil
}

// Depth returns the number of frames currently on the stack.
func (s *Stack) Depth() int { return len(s.frames) }

// Def writes name/value into the top (current) dictionary.
func (s *Stack) Def(n name.Name, v object.Object) {
	s.CurrentDict().Put(n, v)
}

// Store searches top-down for a dictionary already containing name and
// updates it there; if none is found, it defs into the top dictionary.
func (s *Stack) Store(n name.Name, v object.Object) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Contains(n) {
			s.frames[i].Put(n, v)
			return
		}
	}
	s.Def(n, v)
}

// Load searches top-down and returns the first binding found.
func (s *Stack) Load(n name.Name) (object.Object, error) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].Get(n); ok {
			return v, nil
		}
	}
	return object.Object{}, perrors.New(perrors.Undefined, n.String())
}

// Where searches top-down and reports which dictionary defines name.
func (s *Stack) Where(n name.Name) (*object.Dict, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Contains(n) {
			return s.frames[i], true
		}
	}
	return nil, false
}

// Frames returns the stack's frames, bottom first, for operators like
// "countdictstack"/"dictstack" that need to snapshot or enumerate it.
func (s *Stack) Frames() []*object.Dict {
	return s.frames
}
