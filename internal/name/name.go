// Package name implements the process-wide name table: interning of byte
// sequences to stable identity handles. Two names compare equal iff their
// handles are identical (spec.md §4.1).
package name

import "sync"

// Name is a stable handle produced by interning a byte sequence. The zero
// value is not a valid name. Names are trivially copyable and compare with
// ==.
type Name struct {
	entry *entry
}

type entry struct {
	text string
	seq  uint64
}

// Table is a process-wide pool mapping byte sequences to stable handles.
// Entries never move once installed, so a *entry pointer doubles as the
// hash/equality key for the Name that wraps it.
type Table struct {
	mu     sync.Mutex
	pool   map[string]*entry
	nextSeq uint64
}

var global = newTable()

func newTable() *Table {
	return &Table{pool: make(map[string]*entry, 256)}
}

// Intern returns the stable Name for s, allocating a new table entry the
// first time s is seen. Safe for concurrent use.
func (t *Table) Intern(s string) Name {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.pool[s]; ok {
		return Name{entry: e}
	}
	t.nextSeq++
	e := &entry{text: s, seq: t.nextSeq}
	t.pool[s] = e
	return Name{entry: e}
}

// InternBytes interns a byte slice without requiring the caller to convert
// it to a string first when the bytes are known not to be retained.
func (t *Table) InternBytes(b []byte) Name {
	return t.Intern(string(b))
}

// Intern interns s in the process-wide table.
func Intern(s string) Name { return global.Intern(s) }

// InternBytes interns b in the process-wide table.
func InternBytes(b []byte) Name { return global.InternBytes(b) }

// String returns the original byte sequence as a string.
func (n Name) String() string {
	if n.entry == nil {
		return ""
	}
	return n.entry.text
}

// Valid reports whether n was produced by Intern (as opposed to the zero
// value).
func (n Name) Valid() bool { return n.entry != nil }

// Equal reports whether n and other were interned from the same bytes.
// Implemented as pointer identity on the underlying entry, per spec.md's
// invariant that name equality is pointer-identity on the intern handle.
func (n Name) Equal(other Name) bool { return n.entry == other.entry }

// HashKey returns a stable integer derived from the intern handle, usable
// directly as a hash table key (spec.md §3: "A name handle doubles as its
// hash key").
func (n Name) HashKey() uint64 {
	if n.entry == nil {
		return 0
	}
	return n.entry.seq
}

// Less provides an arbitrary but stable total order over names, useful for
// deterministic iteration in tests and dumps; it is not lexical order.
func (n Name) Less(other Name) bool {
	return n.entry.seq < other.entry.seq
}
