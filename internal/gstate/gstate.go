// Package gstate implements the PostScript graphics state (spec.md §4.8):
// CTM, stroke/fill attributes, current path and clip, and a gsave/grestore
// stack that pools frames rather than allocating on every save.
package gstate

import (
	"github.com/waavs-go/pslang/internal/geom"
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/internal/pathmodel"
)

// LineCap and LineJoin mirror the PostScript integer enumerations
// (0/1/2) for butt/round/square caps and miter/round/bevel joins.
type LineCap int

const (
	ButtCap LineCap = iota
	RoundCap
	SquareCap
)

type LineJoin int

const (
	MiterJoin LineJoin = iota
	RoundJoin
	BevelJoin
)

// State is one frame of the graphics-state stack.
type State struct {
	CTM geom.Matrix

	LineWidth   float64
	LineCap     LineCap
	LineJoin    LineJoin
	MiterLimit  float64
	Flatness    float64
	DashPattern []float64
	DashOffset  float64
	StrokeAdjust bool

	FillPaint   Paint
	StrokePaint Paint

	Font *object.Font

	Path *pathmodel.Path
	Clip *pathmodel.Path
}

// defaultState returns a fresh State with the PostScript-mandated
// defaults: identity CTM (callers substitute the device CTM before use),
// 1-unit line width, butt cap, miter join, miter limit 10, flatness 1, black
// fill/stroke, no path/clip.
func defaultState() *State {
	return &State{
		CTM:         geom.Identity(),
		LineWidth:   1,
		LineCap:     ButtCap,
		LineJoin:    MiterJoin,
		MiterLimit:  10,
		Flatness:    1,
		FillPaint:   NewGray(0),
		StrokePaint: NewGray(0),
	}
}

// clone deep-copies the mutable parts of s (path/dash) so that a gsave'd
// state and its later mutations don't alias the saved one; the clip path
// is shared, as explained below.
func (s *State) clone() *State {
	c := *s
	if s.DashPattern != nil {
		c.DashPattern = append([]float64(nil), s.DashPattern...)
	}
	if s.Path != nil {
		c.Path = s.Path.Clone()
	}
	// Clip is copy-on-write from the sink's perspective; sharing the
	// pointer is safe since clip/eoclip/initclip always install a new
	// Path rather than mutating one in place.
	return &c
}

// Stack is the gsave/grestore stack. Popped frames are kept on a free
// list and reused by the next gsave, avoiding an allocation per
// save/restore pair in tight gsave/grestore loops.
type Stack struct {
	frames []*State
	free   []*State
}

// NewStack returns a Stack with one initial state (the result of
// erasepage/the VM's startup state), seeded with ctm as the device
// transform.
func NewStack(ctm geom.Matrix) *Stack {
	s := defaultState()
	s.CTM = ctm
	return &Stack{frames: []*State{s}}
}

// Current returns the top-of-stack state.
func (s *Stack) Current() *State {
	return s.frames[len(s.frames)-1]
}

// Save pushes a clone of the current state.
func (s *Stack) Save() {
	cur := s.Current()
	var next *State
	if n := len(s.free); n > 0 {
		next = s.free[n-1]
		s.free = s.free[:n-1]
		*next = *cur.clone()
	} else {
		next = cur.clone()
	}
	s.frames = append(s.frames, next)
}

// Restore pops the top state, recycling it to the free list. It refuses
// to pop the bottommost (initial) frame.
func (s *Stack) Restore() bool {
	if len(s.frames) <= 1 {
		return false
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	s.free = append(s.free, top)
	return true
}

// Depth reports the number of frames (1 means no gsave is outstanding).
func (s *Stack) Depth() int { return len(s.frames) }
