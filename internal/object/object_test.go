package object

import (
	"testing"

	"github.com/waavs-go/pslang/internal/name"
)

func TestDictPutGetRemove(t *testing.T) {
	d := NewDict(4)
	k := name.Intern("foo")

	if _, ok := d.Get(k); ok {
		t.Fatalf("expected missing key before put")
	}

	d.Put(k, NewInteger(42))
	v, ok := d.Get(k)
	if !ok || v.Int != 42 {
		t.Errorf("Get after Put = (%v, %v), want (42, true)", v, ok)
	}

	if !d.Remove(k) {
		t.Fatalf("Remove reported key missing")
	}
	if _, ok := d.Get(k); ok {
		t.Errorf("Get after Remove still found key")
	}
}

func TestDictLengthTracksDistinctKeys(t *testing.T) {
	d := NewDict(4)
	for i := 0; i < 50; i++ {
		d.Put(name.Intern(string(rune('a'+i%26))+string(rune(i))), NewInteger(int32(i)))
	}
	if d.Length() != 50 {
		t.Errorf("Length() = %d, want 50", d.Length())
	}
}

func TestDictGrowsPastLoadFactor(t *testing.T) {
	d := NewDict(4)
	for i := 0; i < 100; i++ {
		d.Put(name.Intern(string(rune(i))+"x"), NewInteger(int32(i)))
	}
	if d.loadFactor() > 0.75 {
		t.Errorf("loadFactor() = %v after growth, want <= 0.75", d.loadFactor())
	}
}

func TestArrayGetPutBounds(t *testing.T) {
	a := NewArray(3)
	if err := a.Put(0, NewInteger(1)); err != nil {
		t.Fatalf("Put(0): %v", err)
	}
	if _, err := a.Get(3); err == nil {
		t.Errorf("Get(3) on length-3 array should rangecheck")
	}
}

func TestArrayGetIntervalSharesStorage(t *testing.T) {
	a := NewArray(5)
	for i := 0; i < 5; i++ {
		_ = a.Put(i, NewInteger(int32(i)))
	}
	view, err := a.GetInterval(1, 2)
	if err != nil {
		t.Fatalf("GetInterval: %v", err)
	}
	_ = view.Put(0, NewInteger(99))
	got, _ := a.Get(1)
	if got.Int != 99 {
		t.Errorf("mutation through view not visible in original array: got %v", got.Int)
	}
}

func TestPStringPutExtendsLength(t *testing.T) {
	s := NewPString(4)
	if s.Length() != 4 {
		t.Fatalf("NewPString should set length == capacity, got %d", s.Length())
	}
	if err := s.SetLength(0); err != nil {
		t.Fatalf("SetLength(0): %v", err)
	}
	if err := s.Put(2, 'a'); err != nil {
		t.Fatalf("Put(2): %v", err)
	}
	if s.Length() != 3 {
		t.Errorf("Put(2) on a length-0 string -> Length() = %d, want 3", s.Length())
	}
	small := &PString{data: make([]byte, 0), length: 0}
	if err := small.Put(0, 'a'); err == nil {
		t.Errorf("Put at index >= capacity should rangecheck")
	}
}

func TestPStringReadStringTruncatesLength(t *testing.T) {
	s := NewPString(10)
	if err := s.SetLength(3); err != nil {
		t.Fatalf("SetLength: %v", err)
	}
	if s.Length() != 3 {
		t.Errorf("SetLength(3) -> Length() = %d, want 3", s.Length())
	}
	if s.Capacity() != 10 {
		t.Errorf("Capacity() should be unaffected by SetLength, got %d", s.Capacity())
	}
}
