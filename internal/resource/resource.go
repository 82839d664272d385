// Package resource implements the resource subsystem (spec.md §4.10): a
// stack of category dictionaries (Font, Pattern, ColorSpace, ProcSet,
// Generic, ...), searched top-down for findresource and written to the
// top for defineresource.
package resource

import (
	"github.com/waavs-go/pslang/internal/name"
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/perrors"
)

// Category names used by the built-in resource categories; a host is
// free to define additional category names at runtime.
const (
	Font       = "Font"
	Pattern    = "Pattern"
	ColorSpace = "ColorSpace"
	ProcSet    = "ProcSet"
	Generic    = "Generic"
)

// level is one frame of the resource stack: category name -> (key ->
// value) dictionary.
type level struct {
	categories map[string]*object.Dict
}

func newLevel() *level {
	return &level{categories: make(map[string]*object.Dict)}
}

func (l *level) categoryDict(category string, create bool) *object.Dict {
	d, ok := l.categories[category]
	if !ok {
		if !create {
			return nil
		}
		d = object.NewDict(8)
		l.categories[category] = d
	}
	return d
}

// Stack is the resource stack (spec.md §4.10). A fresh Stack starts with
// one level. Further levels come and go only through explicit Push/Pop
// calls (the resourcepush/resourcepop operators); save/restore and
// gsave/grestore do not touch this stack.
type Stack struct {
	levels []*level
}

// NewStack returns a Stack with a single base level.
func NewStack() *Stack {
	return &Stack{levels: []*level{newLevel()}}
}

// Push adds a new (initially empty) level on top.
func (s *Stack) Push() {
	s.levels = append(s.levels, newLevel())
}

// Pop removes the top level, refusing to pop the last remaining one.
func (s *Stack) Pop() bool {
	if len(s.levels) <= 1 {
		return false
	}
	s.levels = s.levels[:len(s.levels)-1]
	return true
}

// DefineResource writes key -> value into category at the top level.
func (s *Stack) DefineResource(category string, key name.Name, value object.Object) {
	top := s.levels[len(s.levels)-1]
	top.categoryDict(category, true).Put(key, value)
}

// FindResource searches top-down for key within category.
func (s *Stack) FindResource(category string, key name.Name) (object.Object, error) {
	for i := len(s.levels) - 1; i >= 0; i-- {
		if d := s.levels[i].categoryDict(category, false); d != nil {
			if v, ok := d.Get(key); ok {
				return v, nil
			}
		}
	}
	return object.Object{}, perrors.New(perrors.Undefined, "findresource")
}

// ResourceStatus reports whether key is present in category and, if so,
// which level index (0 = bottom) defines it.
func (s *Stack) ResourceStatus(category string, key name.Name) (levelIndex int, ok bool) {
	for i := len(s.levels) - 1; i >= 0; i-- {
		if d := s.levels[i].categoryDict(category, false); d != nil {
			if d.Contains(key) {
				return i, true
			}
		}
	}
	return 0, false
}

// ResourceForAll invokes fn for every (category-matching) key/value pair
// visible across the whole stack, level by level. It does not
// deduplicate keys shadowed by a higher level, matching "iterates all
// instances across the stack" in spec.md §4.10.
func (s *Stack) ResourceForAll(category string, fn func(key name.Name, value object.Object) bool) {
	for _, lvl := range s.levels {
		d := lvl.categoryDict(category, false)
		if d == nil {
			continue
		}
		cont := true
		d.ForEach(func(k name.Name, v object.Object) bool {
			cont = fn(k, v)
			return cont
		})
		if !cont {
			return
		}
	}
}
