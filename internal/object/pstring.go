package object

import "github.com/waavs-go/pslang/perrors"

// PString is a mutable byte buffer with capacity/length distinction
// (spec.md §3): length never exceeds capacity, and put(i,b) with
// i >= length extends length to i+1 (used by readstring-style fills).
type PString struct {
	data   []byte
	length int
}

// NewPString allocates a zero-filled string whose capacity and length are
// both n, since PostScript strings are created with a fixed length (e.g.
// via "(literal)" or "N string").
func NewPString(n int) *PString {
	return &PString{data: make([]byte, n), length: n}
}

// NewPStringFromBytes copies b into a new PString of matching length.
func NewPStringFromBytes(b []byte) *PString {
	data := make([]byte, len(b))
	copy(data, b)
	return &PString{data: data, length: len(b)}
}

// Capacity returns the backing buffer's capacity.
func (s *PString) Capacity() int { return len(s.data) }

// Length returns the current logical length.
func (s *PString) Length() int { return s.length }

// SetLength truncates or extends (within capacity) the logical length,
// used by readstring to report how many bytes were actually read.
func (s *PString) SetLength(n int) error {
	if n < 0 || n > len(s.data) {
		return perrors.New(perrors.RangeCheck, "setlength")
	}
	s.length = n
	return nil
}

// Get returns the byte at i.
func (s *PString) Get(i int) (byte, error) {
	if i < 0 || i >= s.length {
		return 0, perrors.New(perrors.RangeCheck, "get")
	}
	return s.data[i], nil
}

// Put writes value at index i, extending length to i+1 when i >= length,
// and fails when i >= capacity (spec.md §3 invariant).
func (s *PString) Put(i int, value byte) error {
	if i < 0 || i >= len(s.data) {
		return perrors.New(perrors.RangeCheck, "put")
	}
	s.data[i] = value
	if i >= s.length {
		s.length = i + 1
	}
	return nil
}

// Bytes returns the logical (length-bounded) contents. Callers must not
// retain across a mutating call.
func (s *PString) Bytes() []byte { return s.data[:s.length] }

// GetInterval returns a view sharing backing storage, starting at index
// for count bytes.
func (s *PString) GetInterval(index, count int) (*PString, error) {
	if index < 0 || count < 0 || index+count > s.length {
		return nil, perrors.New(perrors.RangeCheck, "getinterval")
	}
	sub := s.data[index : index+count : index+count]
	return &PString{data: sub, length: count}, nil
}

// PutInterval overwrites bytes of s starting at offset with src's
// contents.
func (s *PString) PutInterval(offset int, src *PString) error {
	if offset < 0 || offset+src.length > len(s.data) {
		return perrors.New(perrors.RangeCheck, "putinterval")
	}
	copy(s.data[offset:offset+src.length], src.Bytes())
	if offset+src.length > s.length {
		s.length = offset + src.length
	}
	return nil
}

// String renders the logical contents for printing ("=", "print").
func (s *PString) String() string { return string(s.data[:s.length]) }
