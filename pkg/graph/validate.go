package graph

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidGraph is returned for malformed topology arrays.
	ErrInvalidGraph = errors.New("invalid graph")
	// ErrInvalidIPP is returned for malformed time-dependent weights.
	ErrInvalidIPP = errors.New("invalid IPP data")
	// ErrNotPermutation is returned for a node order that is not a
	// permutation of the node ids.
	ErrNotPermutation = errors.New("not a permutation")
)

// maxTravelTime bounds a single IPP travel time so that arrival times of
// realistic paths stay below search.InfWeight.
const maxTravelTime = math.MaxInt32 / 2

// CheckCSR validates a CSR adjacency structure over numNodes nodes.
func CheckCSR(firstOut, head []uint32) error {
	if len(firstOut) == 0 {
		return fmt.Errorf("%w: first_out is empty", ErrInvalidGraph)
	}
	if firstOut[0] != 0 {
		return fmt.Errorf("%w: first_out[0] is %d, not 0", ErrInvalidGraph, firstOut[0])
	}
	numNodes := uint32(len(firstOut) - 1)
	if firstOut[numNodes] != uint32(len(head)) {
		return fmt.Errorf("%w: first_out ends at %d but head has %d entries", ErrInvalidGraph, firstOut[numNodes], len(head))
	}
	for i := uint32(1); i <= numNodes; i++ {
		if firstOut[i] < firstOut[i-1] {
			return fmt.Errorf("%w: first_out not monotonic at %d: %d < %d", ErrInvalidGraph, i, firstOut[i], firstOut[i-1])
		}
	}
	for a, h := range head {
		if h >= numNodes {
			return fmt.Errorf("%w: head[%d]=%d is not below node count %d", ErrInvalidGraph, a, h, numNodes)
		}
	}
	return nil
}

// CheckArcIPPs validates the time-dependent weights of arcCount arcs: every
// arc has at least one IPP, departure times are strictly increasing within
// an arc and lie in [0, period), and travel times are bounded.
func CheckArcIPPs(period, arcCount uint32, firstIPPOfArc, ippDepartureTime, ippTravelTime []uint32) error {
	if uint32(len(firstIPPOfArc)) != arcCount+1 {
		return fmt.Errorf("%w: first_ipp_of_arc has %d entries, want %d", ErrInvalidIPP, len(firstIPPOfArc), arcCount+1)
	}
	if len(ippDepartureTime) != len(ippTravelTime) {
		return fmt.Errorf("%w: %d departure times but %d travel times", ErrInvalidIPP, len(ippDepartureTime), len(ippTravelTime))
	}
	if firstIPPOfArc[0] != 0 {
		return fmt.Errorf("%w: first_ipp_of_arc[0] is %d, not 0", ErrInvalidIPP, firstIPPOfArc[0])
	}
	if firstIPPOfArc[arcCount] != uint32(len(ippDepartureTime)) {
		return fmt.Errorf("%w: first_ipp_of_arc ends at %d but there are %d IPPs", ErrInvalidIPP, firstIPPOfArc[arcCount], len(ippDepartureTime))
	}
	for a := uint32(0); a < arcCount; a++ {
		begin, end := firstIPPOfArc[a], firstIPPOfArc[a+1]
		if end <= begin {
			return fmt.Errorf("%w: arc %d has no IPP", ErrInvalidIPP, a)
		}
		for i := begin; i < end; i++ {
			if ippDepartureTime[i] >= period {
				return fmt.Errorf("%w: arc %d: departure time %d not below period %d", ErrInvalidIPP, a, ippDepartureTime[i], period)
			}
			if i > begin && ippDepartureTime[i] <= ippDepartureTime[i-1] {
				return fmt.Errorf("%w: arc %d: departure times not strictly increasing at IPP %d", ErrInvalidIPP, a, i)
			}
			if ippTravelTime[i] > maxTravelTime {
				return fmt.Errorf("%w: arc %d: travel time %d too large", ErrInvalidIPP, a, ippTravelTime[i])
			}
		}
	}
	return nil
}

// CheckTDGraph validates topology, weights and optional coordinates of g.
func CheckTDGraph(period uint32, g *TDGraph) error {
	if err := CheckCSR(g.FirstOut, g.Head); err != nil {
		return err
	}
	if err := CheckArcIPPs(period, g.NumArcs(), g.FirstIPPOfArc, g.IPPDepartureTime, g.IPPTravelTime); err != nil {
		return err
	}
	if len(g.Latitude) != len(g.Longitude) {
		return fmt.Errorf("%w: %d latitudes but %d longitudes", ErrInvalidGraph, len(g.Latitude), len(g.Longitude))
	}
	if len(g.Latitude) != 0 && uint32(len(g.Latitude)) != g.NumNodes() {
		return fmt.Errorf("%w: %d coordinates for %d nodes", ErrInvalidGraph, len(g.Latitude), g.NumNodes())
	}
	return nil
}

// IsPermutation reports whether p holds every value in [0, len(p)) exactly
// once.
func IsPermutation(p []uint32) bool {
	seen := make([]bool, len(p))
	for _, x := range p {
		if x >= uint32(len(p)) || seen[x] {
			return false
		}
		seen[x] = true
	}
	return true
}

// CheckOrder validates a node order for nodeCount nodes.
func CheckOrder(order []uint32, nodeCount uint32) error {
	if uint32(len(order)) != nodeCount {
		return fmt.Errorf("%w: order has %d entries for %d nodes", ErrInvalidGraph, len(order), nodeCount)
	}
	if !IsPermutation(order) {
		return ErrNotPermutation
	}
	return nil
}

// InvertPermutation returns q with q[p[i]] = i.
func InvertPermutation(p []uint32) []uint32 {
	q := make([]uint32, len(p))
	for i, x := range p {
		q[x] = uint32(i)
	}
	return q
}
