package search

import "math"

// TimestampFlags is a set of ids that can be emptied in O(1).
//
// Every id remembers the epoch in which it was last raised; an id counts as
// raised if that epoch is the current one. ResetAll starts a new epoch and
// only rewrites the stamps when the 16-bit epoch counter wraps around.
type TimestampFlags struct {
	lastSeen []uint16
	current  uint16
}

// NewTimestampFlags returns an empty set for ids in [0, n).
func NewTimestampFlags(n uint32) *TimestampFlags {
	return &TimestampFlags{lastSeen: make([]uint16, n), current: 1}
}

// IsRaised reports whether id was raised since the last ResetAll.
func (f *TimestampFlags) IsRaised(id uint32) bool {
	return f.lastSeen[id] == f.current
}

// Raise adds id to the set.
func (f *TimestampFlags) Raise(id uint32) {
	f.lastSeen[id] = f.current
}

// ResetAll removes every id from the set.
func (f *TimestampFlags) ResetAll() {
	if f.current == math.MaxUint16 {
		clear(f.lastSeen)
		f.current = 1
		return
	}
	f.current++
}

// Len returns the size of the id range.
func (f *TimestampFlags) Len() uint32 { return uint32(len(f.lastSeen)) }
