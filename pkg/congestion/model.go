// Package congestion simulates realtime traffic on top of the predicted
// travel time functions: a few runs of arcs along a route get slowed down,
// and the slowdown fades back to the prediction over the following hour.
package congestion

import (
	"td_router/pkg/search"
)

const (
	// FadeTime is how long an injected slowdown takes to disappear.
	FadeTime = 60 * 60 * 1000
	// Slowdown multiplies the predicted travel time of a slowed arc.
	Slowdown = 5
	// Injections is the number of congested stretches per route.
	Injections = 3
	// InjectionLength is the free-flow travel time covered by one stretch.
	InjectionLength = 4 * 60 * 1000
)

// Model combines predicted travel times with injected congestion. It is
// not safe for concurrent use; Clear must be called before reuse.
type Model struct {
	predicted search.WeightFunc
	freeFlow  []uint32

	slowed     []bool
	slowedList []uint32
	now        uint32
}

// NewModel returns a congestion-free model. predicted must accept absolute
// times of any size; freeFlow holds the free-flow weight of every arc.
func NewModel(predicted search.WeightFunc, freeFlow []uint32) *Model {
	return &Model{
		predicted: predicted,
		freeFlow:  freeFlow,
		slowed:    make([]bool, len(freeFlow)),
	}
}

// SetNow sets the time at which the congestion is observed.
func (m *Model) SetNow(t uint32) { m.now = t }

// Now returns the time set by SetNow.
func (m *Model) Now() uint32 { return m.now }

// IsSlowed reports whether arc carries injected congestion.
func (m *Model) IsSlowed(arc uint32) bool { return m.slowed[arc] }

// SlowedArcs returns the slowed arcs in injection order. Arcs hit by more
// than one injection are listed once.
func (m *Model) SlowedArcs() []uint32 { return m.slowedList }

// Inject slows Injections stretches of arcPath. Each stretch starts at a
// pseudo-random position derived from seed and extends along the path until
// InjectionLength of free-flow time is covered or the path ends.
func (m *Model) Inject(seed uint32, arcPath []uint32) {
	if len(arcPath) == 0 {
		return
	}
	r := newMinstd(seed)
	for range Injections {
		var length uint32
		for i := r.next() % uint32(len(arcPath)); i < uint32(len(arcPath)) && length < InjectionLength; i++ {
			arc := arcPath[i]
			if !m.slowed[arc] {
				m.slowed[arc] = true
				m.slowedList = append(m.slowedList, arc)
			}
			length += m.freeFlow[arc]
		}
	}
}

// Clear removes all congestion in time proportional to the number of
// slowed arcs.
func (m *Model) Clear() {
	for _, arc := range m.slowedList {
		m.slowed[arc] = false
	}
	m.slowedList = m.slowedList[:0]
}

// Weight returns the travel time of arc when entering it at t. Slowed arcs
// start at Slowdown times their prediction and lose one millisecond of
// delay per millisecond until they meet the prediction FadeTime after now.
// The result never drops below the prediction at t. Times before now are
// treated as uncongested.
func (m *Model) Weight(arc, t uint32) uint32 {
	predicted := m.predicted.Weight(arc, t)
	sinceNow := t - m.now
	if !m.slowed[arc] || sinceNow >= FadeTime {
		return predicted
	}

	current := Slowdown * predicted
	faded := m.predicted.Weight(arc, t+FadeTime)
	if faded >= current || FadeTime < current-faded {
		return predicted
	}

	breakTime := FadeTime - (current - faded)
	if sinceNow < breakTime {
		return current
	}
	return max(current-(sinceNow-breakTime), predicted)
}

// Predicted returns the congestion-free weight function.
func (m *Model) Predicted() search.WeightFunc { return m.predicted }

// CurrentWeights fills dst with the weight of every arc when entered now
// and returns it. dst is reallocated if it is too short.
func (m *Model) CurrentWeights(dst []uint32) []uint32 {
	if len(dst) < len(m.freeFlow) {
		dst = make([]uint32, len(m.freeFlow))
	}
	dst = dst[:len(m.freeFlow)]
	for arc := range dst {
		dst[arc] = m.Weight(uint32(arc), m.now)
	}
	return dst
}

// ArrivalAlong returns the arrival time when following arcPath from
// departureTime under w.
func ArrivalAlong(w search.WeightFunc, departureTime uint32, arcPath []uint32) uint32 {
	t := departureTime
	for _, arc := range arcPath {
		t += w.Weight(arc, t)
	}
	return t
}
