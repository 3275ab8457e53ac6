package plf

// integralTimesTwo returns twice the area under p over [begin, end) with
// begin <= end <= period.
//
// Each linear piece from (ax, ay) to (bx, by) has the antiderivative
// I(x) / (2*dx) with I(x) = x*(dy*x + 2*(by*dx - dy*bx)). I itself needs more
// than 64 bits, so the difference is formed in 128-bit arithmetic before it
// is divided by dx.
func integralTimesTwo[P PLF](p P, begin, end uint32) uint64 {
	period := p.Period()
	count := p.IPPCount()

	var sumTimesTwo uint64
	lo, hi := int64(begin), int64(end)
	piece := func(ax, ay, bx, by int64) {
		if hi <= ax || bx <= lo {
			return
		}
		dx, dy := bx-ax, by-ay
		c := 2 * (by*dx - dy*bx)
		antiderivative := func(x int64) int128 {
			return mul128(x, dy*x+c)
		}
		ax, bx = max(ax, lo), min(bx, hi)
		sumTimesTwo += uint64(antiderivative(bx).sub(antiderivative(ax)).quo(uint64(dx)))
	}

	for i := uint32(0); i+1 < count; i++ {
		piece(
			int64(p.IPPDepartureTime(i)), int64(p.IPPTravelTime(i)),
			int64(p.IPPDepartureTime(i+1)), int64(p.IPPTravelTime(i+1)),
		)
	}

	// The wrap piece covers [last, first+period); its part before the first
	// IPP is reached by shifting the window one period forward.
	wrapAX, wrapAY := int64(p.IPPDepartureTime(count-1)), int64(p.IPPTravelTime(count-1))
	wrapBX, wrapBY := int64(p.IPPDepartureTime(0))+int64(period), int64(p.IPPTravelTime(0))
	piece(wrapAX, wrapAY, wrapBX, wrapBY)
	lo += int64(period)
	hi += int64(period)
	piece(wrapAX, wrapAY, wrapBX, wrapBY)

	return sumTimesTwo
}

// Integral returns the integral of p over [begin, end). Both bounds must lie
// in [0, period]. If begin > end the window wraps past the end of the
// period and is split into [begin, period) and [0, end).
func Integral[P PLF](p P, begin, end uint32) uint64 {
	if begin <= end {
		return integralTimesTwo(p, begin, end) / 2
	}
	return (integralTimesTwo(p, begin, p.Period()) + integralTimesTwo(p, 0, end)) / 2
}

// WindowLength returns the length of [begin, end), taking a wrap past the
// end of the period into account.
func WindowLength(period, begin, end uint32) uint32 {
	if begin < end {
		return end - begin
	}
	return period + end - begin
}
