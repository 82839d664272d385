package object

import "github.com/waavs-go/pslang/perrors"

// Array is a dense, shared vector of Objects, addressable by 0-based index
// (spec.md §3, §4.6). Whether an Array acts as a literal array or a
// procedure is carried by the Exec bit of the Object that references it,
// not by the Array itself, so dup/put/aload stay type-agnostic per the
// design note in spec.md §9.
type Array struct {
	items []Object
}

// NewArray allocates an array of the given length, filled with nulls.
func NewArray(length int) *Array {
	return &Array{items: make([]Object, length)}
}

// NewArrayFrom wraps an existing slice without copying (used by
// getinterval views and astore).
func NewArrayFrom(items []Object) *Array {
	return &Array{items: items}
}

// Length returns the number of elements.
func (a *Array) Length() int { return len(a.items) }

// Get returns the element at i.
func (a *Array) Get(i int) (Object, error) {
	if i < 0 || i >= len(a.items) {
		return Object{}, perrors.New(perrors.RangeCheck, "get")
	}
	return a.items[i], nil
}

// Put stores value at i.
func (a *Array) Put(i int, value Object) error {
	if i < 0 || i >= len(a.items) {
		return perrors.New(perrors.RangeCheck, "put")
	}
	a.items[i] = value
	return nil
}

// Append grows the array by one element (used by the path-construction
// "append" style helpers and test fixtures; real PostScript arrays have
// fixed length, so operators never call this on user-level arrays).
func (a *Array) Append(value Object) {
	a.items = append(a.items, value)
}

// GetInterval returns a view sharing backing storage with a, starting at
// index for count elements (spec.md §4.6: "view — shares backing storage
// semantics").
func (a *Array) GetInterval(index, count int) (*Array, error) {
	if index < 0 || count < 0 || index+count > len(a.items) {
		return nil, perrors.New(perrors.RangeCheck, "getinterval")
	}
	return &Array{items: a.items[index : index+count : index+count]}, nil
}

// PutInterval overwrites count elements of a starting at offset with the
// contents of src.
func (a *Array) PutInterval(offset int, src *Array) error {
	if offset < 0 || offset+src.Length() > len(a.items) {
		return perrors.New(perrors.RangeCheck, "putinterval")
	}
	copy(a.items[offset:offset+src.Length()], src.items)
	return nil
}

// Items returns the backing slice directly; callers must not retain it
// across a PutInterval/Append that could reallocate.
func (a *Array) Items() []Object { return a.items }

// ForEach calls fn for every element in order, stopping early if fn
// returns false.
func (a *Array) ForEach(fn func(Object) bool) {
	for _, o := range a.items {
		if !fn(o) {
			return
		}
	}
}
