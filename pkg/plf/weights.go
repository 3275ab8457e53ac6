package plf

// The functions below derive one static weight per arc from the flat
// per-graph IPP arrays. firstIPPOfArc holds arc_count+1 offsets.

// MinWeights returns the free-flow weight of every arc.
func MinWeights(period uint32, firstIPPOfArc, ippDepartureTime, ippTravelTime []uint32) []uint32 {
	return mapArcs(firstIPPOfArc, func(arc uint32) uint32 {
		return Minimum(NewArcPLF(arc, period, firstIPPOfArc, ippDepartureTime, ippTravelTime))
	})
}

// MaxWeights returns the worst-case weight of every arc.
func MaxWeights(period uint32, firstIPPOfArc, ippDepartureTime, ippTravelTime []uint32) []uint32 {
	return mapArcs(firstIPPOfArc, func(arc uint32) uint32 {
		return Maximum(NewArcPLF(arc, period, firstIPPOfArc, ippDepartureTime, ippTravelTime))
	})
}

// TimeWindowAvgWeights returns the average travel time of every arc over the
// window [begin, end). The window may wrap past the end of the period but
// must not be empty.
func TimeWindowAvgWeights(begin, end, period uint32, firstIPPOfArc, ippDepartureTime, ippTravelTime []uint32) []uint32 {
	length := uint64(WindowLength(period, begin, end))
	return mapArcs(firstIPPOfArc, func(arc uint32) uint32 {
		return uint32(Integral(NewArcPLF(arc, period, firstIPPOfArc, ippDepartureTime, ippTravelTime), begin, end) / length)
	})
}

// TimePointWeights returns the travel time of every arc when departing at
// timePoint, which must lie in [0, period).
func TimePointWeights(timePoint, period uint32, firstIPPOfArc, ippDepartureTime, ippTravelTime []uint32) []uint32 {
	return mapArcs(firstIPPOfArc, func(arc uint32) uint32 {
		return Evaluate(NewArcPLF(arc, period, firstIPPOfArc, ippDepartureTime, ippTravelTime), timePoint)
	})
}

func mapArcs(firstIPPOfArc []uint32, f func(arc uint32) uint32) []uint32 {
	if len(firstIPPOfArc) == 0 {
		return nil
	}
	weight := make([]uint32, len(firstIPPOfArc)-1)
	for arc := range weight {
		weight[arc] = f(uint32(arc))
	}
	return weight
}
