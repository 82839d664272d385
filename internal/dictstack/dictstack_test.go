package dictstack

import (
	"testing"

	"github.com/waavs-go/pslang/internal/name"
	"github.com/waavs-go/pslang/internal/object"
)

func TestDefWritesToTopFrame(t *testing.T) {
	sys := object.NewDict(4)
	user := object.NewDict(4)
	s := New(sys, user)

	k := name.Intern("x")
	s.Def(k, object.NewInteger(1))

	if v, ok := user.Get(k); !ok || v.Int != 1 {
		t.Fatalf("def should write to top (user) dict, got %v, %v", v, ok)
	}
	if sys.Contains(k) {
		t.Fatalf("def should not write to lower frames")
	}
}

func TestLoadSearchesTopDown(t *testing.T) {
	sys := object.NewDict(4)
	user := object.NewDict(4)
	k := name.Intern("y")
	sys.Put(k, object.NewInteger(10))
	user.Put(k, object.NewInteger(20))

	s := New(sys, user)
	v, err := s.Load(k)
	if err != nil || v.Int != 20 {
		t.Fatalf("Load() = %v, %v, want 20, nil", v, err)
	}
}

func TestLoadUndefinedFails(t *testing.T) {
	s := New(object.NewDict(4))
	_, err := s.Load(name.Intern("nope"))
	if err == nil {
		t.Fatal("expected undefined error")
	}
}

func TestStoreUpdatesExistingFrame(t *testing.T) {
	sys := object.NewDict(4)
	user := object.NewDict(4)
	k := name.Intern("z")
	sys.Put(k, object.NewInteger(1))

	s := New(sys, user)
	s.Store(k, object.NewInteger(2))

	if v, _ := sys.Get(k); v.Int != 2 {
		t.Errorf("Store should update the defining frame (sys), got %v", v.Int)
	}
	if user.Contains(k) {
		t.Errorf("Store should not also write into user when sys already defines the key")
	}
}

func TestStoreDefsIntoTopWhenUndefinedAnywhere(t *testing.T) {
	sys := object.NewDict(4)
	user := object.NewDict(4)
	k := name.Intern("w")

	s := New(sys, user)
	s.Store(k, object.NewInteger(9))

	if v, ok := user.Get(k); !ok || v.Int != 9 {
		t.Fatalf("Store with no existing binding should def into top, got %v, %v", v, ok)
	}
}

func TestBeginEndRespectsPermanentBase(t *testing.T) {
	s := New(object.NewDict(4), object.NewDict(4))
	if err := s.End(); err == nil {
		t.Fatal("End() on permanent base should dictstackunderflow")
	}

	s.Begin(object.NewDict(4))
	if s.Depth() != 3 {
		t.Fatalf("Depth() = %d, want 3", s.Depth())
	}
	if err := s.End(); err != nil {
		t.Fatalf("End() on pushed frame: %v", err)
	}
	if s.Depth() != 2 {
		t.Fatalf("Depth() after End() = %d, want 2", s.Depth())
	}
}

func TestWhereFindsDefiningDict(t *testing.T) {
	sys := object.NewDict(4)
	user := object.NewDict(4)
	k := name.Intern("q")
	sys.Put(k, object.NewInteger(1))

	s := New(sys, user)
	d, ok := s.Where(k)
	if !ok || d != sys {
		t.Fatalf("Where() = %v, %v, want sys dict", d, ok)
	}
}
