package plf

// interpolate returns the travel time at departureTime on the segment
// before -> after. Requires before.DepartureTime <= departureTime <=
// after.DepartureTime and a non-empty segment.
func interpolate(before, after IPP, departureTime uint32) uint32 {
	pos := uint64(departureTime - before.DepartureTime)
	length := uint64(after.DepartureTime - before.DepartureTime)
	return uint32((uint64(before.TravelTime)*(length-pos) + uint64(after.TravelTime)*pos) / length)
}

// interpolateWrapped is interpolate for a segment that may cross the end of
// the period. Departure times of both IPPs must be at most period and
// departureTime must be below period.
func interpolateWrapped(period uint32, before, after IPP, departureTime uint32) uint32 {
	if after.DepartureTime <= before.DepartureTime {
		after.DepartureTime += period
	}
	if departureTime < before.DepartureTime {
		departureTime += period
	}
	return interpolate(before, after, departureTime)
}

// Evaluate returns the travel time when departing at departureTime, which
// must lie in [0, period).
func Evaluate[P PLF](p P, departureTime uint32) uint32 {
	first, last := uint32(0), p.IPPCount()-1
	if first == last {
		return p.IPPTravelTime(first)
	}

	if departureTime < p.IPPDepartureTime(first) || p.IPPDepartureTime(last) <= departureTime {
		return interpolateWrapped(p.Period(), ippAt(p, last), ippAt(p, first), departureTime)
	}

	for last-first > 1 {
		mid := (first + last) / 2
		switch d := p.IPPDepartureTime(mid); {
		case d < departureTime:
			first = mid
		case d > departureTime:
			last = mid
		default:
			return p.IPPTravelTime(mid)
		}
	}
	return interpolate(ippAt(p, first), ippAt(p, last), departureTime)
}

// EvaluatePeriodic is Evaluate for an arbitrary absolute time; the time is
// reduced modulo the period first.
func EvaluatePeriodic[P PLF](p P, t uint32) uint32 {
	return Evaluate(p, t%p.Period())
}

// EvaluateWithStabbing evaluates p at departureTime starting the bracket
// search at *stab, the index of the IPP that opened the bracket used by the
// previous call. The cursor only moves forward (wrapping at the end), so a
// non-decreasing sequence of departure times inside one period costs
// amortized O(1) per call. Any other sequence still gives correct results
// but may walk the whole IPP array.
func EvaluateWithStabbing[P PLF](p P, departureTime uint32, stab *uint32) uint32 {
	count := p.IPPCount()
	if count == 1 {
		return p.IPPTravelTime(0)
	}
	if *stab >= count {
		*stab = 0
	}

	for {
		next := *stab + 1
		if next == count {
			// Bracket between the last IPP and the first IPP of the next period.
			period := p.Period()
			last, first := ippAt(p, *stab), ippAt(p, 0).shift(period)
			if departureTime <= p.IPPDepartureTime(0) {
				return interpolate(last, first, departureTime+period)
			}
			if last.DepartureTime <= departureTime {
				return interpolate(last, first, departureTime)
			}
			next = 0
		} else if p.IPPDepartureTime(*stab) <= departureTime && departureTime <= p.IPPDepartureTime(next) {
			return interpolate(ippAt(p, *stab), ippAt(p, next), departureTime)
		}
		*stab = next
	}
}

// Minimum returns the smallest travel time of p. Extrema of a PLF are
// always attained at an IPP.
func Minimum[P PLF](p P) uint32 {
	x := p.IPPTravelTime(0)
	for i := uint32(1); i < p.IPPCount(); i++ {
		x = min(x, p.IPPTravelTime(i))
	}
	return x
}

// Maximum returns the largest travel time of p.
func Maximum[P PLF](p P) uint32 {
	x := p.IPPTravelTime(0)
	for i := uint32(1); i < p.IPPCount(); i++ {
		x = max(x, p.IPPTravelTime(i))
	}
	return x
}
