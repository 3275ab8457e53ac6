// Package plf evaluates periodic piecewise-linear travel time functions.
//
// A PLF maps a departure time in [0, period) onto a travel time. It is given
// by a cyclic sequence of interpolation points (IPPs) with strictly increasing
// departure times; the function is linear between consecutive IPPs and the
// last IPP connects to the first IPP shifted forward by one period.
package plf

// Period is one day in milliseconds.
const Period uint32 = 24 * 60 * 60 * 1000

// IPP is an interpolation point of a PLF.
type IPP struct {
	DepartureTime uint32
	TravelTime    uint32
}

// Equal reports whether two IPPs sit at the same departure time. The travel
// time is not part of an IPP's identity.
func (p IPP) Equal(q IPP) bool {
	return p.DepartureTime == q.DepartureTime
}

// shift moves an IPP forward by one period.
func (p IPP) shift(period uint32) IPP {
	return IPP{DepartureTime: p.DepartureTime + period, TravelTime: p.TravelTime}
}

// PLF is a read-only random access view of a periodic PLF.
// Implementations must hold at least one IPP.
type PLF interface {
	Period() uint32
	IPPCount() uint32
	IPPDepartureTime(i uint32) uint32
	IPPTravelTime(i uint32) uint32
}

// ArcPLF is the PLF of one arc inside the flat per-graph IPP arrays.
type ArcPLF struct {
	period    uint32
	departure []uint32
	travel    []uint32
}

// NewArcPLF slices the PLF of arc out of the graph-wide IPP arrays.
// firstIPPOfArc has one entry per arc plus a trailing sentinel.
func NewArcPLF(arc, period uint32, firstIPPOfArc, ippDepartureTime, ippTravelTime []uint32) ArcPLF {
	begin, end := firstIPPOfArc[arc], firstIPPOfArc[arc+1]
	return ArcPLF{
		period:    period,
		departure: ippDepartureTime[begin:end:end],
		travel:    ippTravelTime[begin:end:end],
	}
}

func (p ArcPLF) Period() uint32 { return p.period }
func (p ArcPLF) IPPCount() uint32 { return uint32(len(p.departure)) }
func (p ArcPLF) IPPDepartureTime(i uint32) uint32 { return p.departure[i] }
func (p ArcPLF) IPPTravelTime(i uint32) uint32 { return p.travel[i] }

// IPPList is a PLF backed by a slice of IPPs. It is mostly useful for
// building small functions by hand.
type IPPList struct {
	period uint32
	ipps   []IPP
}

// NewIPPList wraps ipps, which must be sorted by strictly increasing
// departure time, all below period.
func NewIPPList(period uint32, ipps []IPP) IPPList {
	return IPPList{period: period, ipps: ipps}
}

func (p IPPList) Period() uint32 { return p.period }
func (p IPPList) IPPCount() uint32 { return uint32(len(p.ipps)) }
func (p IPPList) IPPDepartureTime(i uint32) uint32 { return p.ipps[i].DepartureTime }
func (p IPPList) IPPTravelTime(i uint32) uint32 { return p.ipps[i].TravelTime }

func ippAt[P PLF](p P, i uint32) IPP {
	return IPP{DepartureTime: p.IPPDepartureTime(i), TravelTime: p.IPPTravelTime(i)}
}
