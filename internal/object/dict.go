package object

import "github.com/waavs-go/pslang/internal/name"

// slotState tracks whether a Dict slot is empty, occupied, or tombstoned
// after a remove (spec.md §4.5).
type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTombstone
)

type dictSlot struct {
	state slotState
	key   name.Name
	value Object
}

// Dict is an open-addressed hash table keyed by interned-name identity,
// with linear probing, load factor ceiling 3/4, and growth by doubling
// (spec.md §4.5).
type Dict struct {
	slots []dictSlot
	count int // occupied, excludes tombstones
}

const dictMinCapacity = 8

// NewDict allocates a dictionary sized for at least capacityHint entries.
func NewDict(capacityHint int) *Dict {
	cap := dictMinCapacity
	for cap < capacityHint*2 {
		cap *= 2
	}
	return &Dict{slots: make([]dictSlot, cap)}
}

// Length returns the number of live (non-tombstoned) entries.
func (d *Dict) Length() int { return d.count }

func (d *Dict) loadFactor() float64 {
	return float64(d.count) / float64(len(d.slots))
}

// index computes the starting probe slot for key.
func (d *Dict) index(key name.Name) int {
	return int(key.HashKey() % uint64(len(d.slots)))
}

// findSlot returns the slot index holding key if present.
func (d *Dict) findSlot(key name.Name) (int, bool) {
	n := len(d.slots)
	i := d.index(key)
	for probed := 0; probed < n; probed++ {
		slot := &d.slots[i]
		switch slot.state {
		case slotEmpty:
			return 0, false
		case slotOccupied:
			if slot.key.Equal(key) {
				return i, true
			}
		case slotTombstone:
			// keep probing past tombstones
		}
		i = (i + 1) % n
	}
	return 0, false
}

// findSlotForUpsert returns a slot suitable for inserting/updating key:
// the occupied slot for key if it exists, else the first empty-or-tombstone
// slot seen along the probe sequence.
func (d *Dict) findSlotForUpsert(key name.Name) int {
	n := len(d.slots)
	i := d.index(key)
	firstFree := -1
	for probed := 0; probed < n; probed++ {
		slot := &d.slots[i]
		switch slot.state {
		case slotEmpty:
			if firstFree >= 0 {
				return firstFree
			}
			return i
		case slotTombstone:
			if firstFree < 0 {
				firstFree = i
			}
		case slotOccupied:
			if slot.key.Equal(key) {
				return i
			}
		}
		i = (i + 1) % n
	}
	if firstFree >= 0 {
		return firstFree
	}
	return -1 // table full of non-tombstone occupied slots and no match; caller must grow
}

func (d *Dict) grow() {
	old := d.slots
	d.slots = make([]dictSlot, len(old)*2)
	d.count = 0
	for _, s := range old {
		if s.state == slotOccupied {
			d.insertFresh(s.key, s.value)
		}
	}
}

// insertFresh inserts into a table known to have room, without load-factor
// checks (used by grow, which has already resized).
func (d *Dict) insertFresh(key name.Name, value Object) {
	i := d.findSlotForUpsert(key)
	if d.slots[i].state != slotOccupied {
		d.count++
	}
	d.slots[i] = dictSlot{state: slotOccupied, key: key, value: value}
}

// Put is insert-or-update.
func (d *Dict) Put(key name.Name, value Object) {
	if float64(d.count+1) > 0.75*float64(len(d.slots)) {
		d.grow()
	}
	i := d.findSlotForUpsert(key)
	if i < 0 {
		d.grow()
		i = d.findSlotForUpsert(key)
	}
	if d.slots[i].state != slotOccupied {
		d.count++
	}
	d.slots[i] = dictSlot{state: slotOccupied, key: key, value: value}
}

// Get retrieves the value for key.
func (d *Dict) Get(key name.Name) (Object, bool) {
	i, ok := d.findSlot(key)
	if !ok {
		return Object{}, false
	}
	return d.slots[i].value, true
}

// Contains reports whether key is present ("known").
func (d *Dict) Contains(key name.Name) bool {
	_, ok := d.findSlot(key)
	return ok
}

// Remove tombstones the slot for key, if present.
func (d *Dict) Remove(key name.Name) bool {
	i, ok := d.findSlot(key)
	if !ok {
		return false
	}
	d.slots[i] = dictSlot{state: slotTombstone}
	d.count--
	return true
}

// ForEach visits occupied slots in arbitrary (table) order, stopping early
// if fn returns false.
func (d *Dict) ForEach(fn func(name.Name, Object) bool) {
	for _, s := range d.slots {
		if s.state == slotOccupied {
			if !fn(s.key, s.value) {
				return
			}
		}
	}
}

// Clear empties the dictionary back to its minimum capacity.
func (d *Dict) Clear() {
	d.slots = make([]dictSlot, dictMinCapacity)
	d.count = 0
}
