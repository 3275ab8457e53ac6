package search

import "strconv"

// OptID is an optional id. The zero value holds no id.
//
// The id is stored shifted by one so that every uint32 below MaxUint32 is
// representable and no real id can be mistaken for "none".
type OptID struct {
	v uint32
}

// None is the empty OptID.
var None = OptID{}

// Some wraps id. id must be below math.MaxUint32.
func Some(id uint32) OptID { return OptID{v: id + 1} }

// Valid reports whether o holds an id.
func (o OptID) Valid() bool { return o.v != 0 }

// ID returns the held id and whether there was one.
func (o OptID) ID() (uint32, bool) {
	if o.v == 0 {
		return 0, false
	}
	return o.v - 1, true
}

// MustID returns the held id and panics on None.
func (o OptID) MustID() uint32 {
	if o.v == 0 {
		panic("search: MustID on empty OptID")
	}
	return o.v - 1
}

func (o OptID) String() string {
	if o.v == 0 {
		return "none"
	}
	return strconv.FormatUint(uint64(o.v-1), 10)
}
