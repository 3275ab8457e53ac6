// Package search implements time-dependent Dijkstra and the reusable
// per-query state it runs on.
package search

import "slices"

// Dijkstra is a label-setting search over a fixed graph whose arc costs are
// supplied per run by a WeightFunc. Keys are arrival times, so a run seeded
// at a departure time yields earliest arrival times.
//
// All state is allocated once and reset in O(1) amortized time between
// runs. A Dijkstra must not be used by more than one goroutine at a time.
type Dijkstra struct {
	firstOut []uint32
	head     []uint32

	tentative      []uint32
	predecessor    []OptID
	predecessorArc []uint32
	settled        *TimestampFlags
	queue          *MinIDQueue

	settledCount int
}

// NewDijkstra prepares a search for the graph given in CSR form. The slices
// are borrowed and must not change while the Dijkstra is in use.
func NewDijkstra(firstOut, head []uint32) *Dijkstra {
	n := uint32(len(firstOut) - 1)
	return &Dijkstra{
		firstOut:       firstOut,
		head:           head,
		tentative:      make([]uint32, n),
		predecessor:    make([]OptID, n),
		predecessorArc: make([]uint32, n),
		settled:        NewTimestampFlags(n),
		queue:          NewMinIDQueue(n),
	}
}

// NodeCount returns the number of nodes of the searched graph.
func (d *Dijkstra) NodeCount() uint32 { return uint32(len(d.tentative)) }

// Clear forgets the previous run.
func (d *Dijkstra) Clear() {
	d.queue.Clear()
	d.settled.ResetAll()
	d.settledCount = 0
}

// AddSource seeds node with the given departure time.
func (d *Dijkstra) AddSource(node, departureTime uint32) {
	d.tentative[node] = departureTime
	d.predecessor[node] = None
	if d.queue.Contains(node) {
		d.queue.DecreaseKey(node, departureTime)
		return
	}
	d.queue.Push(node, departureTime)
}

// Finished reports whether the queue ran empty.
func (d *Dijkstra) Finished() bool { return d.queue.Empty() }

// Settle pops the queued node with the smallest arrival time, finalizes it
// and relaxes its outgoing arcs. The queue must not be empty.
func (d *Dijkstra) Settle(w WeightFunc) IDKey {
	p := d.queue.Pop()
	d.tentative[p.ID] = p.Key
	d.settled.Raise(p.ID)
	d.settledCount++

	for a := d.firstOut[p.ID]; a < d.firstOut[p.ID+1]; a++ {
		h := d.head[a]
		if d.settled.IsRaised(h) {
			continue
		}
		weight := w.Weight(a, p.Key)
		if weight >= InfWeight {
			continue
		}
		arrival := p.Key + weight
		if d.queue.Contains(h) {
			if !d.queue.DecreaseKey(h, arrival) {
				continue
			}
		} else {
			d.queue.Push(h, arrival)
		}
		d.predecessor[h] = Some(p.ID)
		d.predecessorArc[h] = a
	}
	return p
}

// Run computes the earliest arrival at target when leaving source at
// departureTime. The search stops as soon as target is settled.
func (d *Dijkstra) Run(source, departureTime, target uint32, w WeightFunc) {
	d.Clear()
	d.AddSource(source, departureTime)
	for !d.Finished() {
		if d.Settle(w).ID == target {
			return
		}
	}
}

// RunAll computes earliest arrival times at every node reachable from
// source.
func (d *Dijkstra) RunAll(source, departureTime uint32, w WeightFunc) {
	d.Clear()
	d.AddSource(source, departureTime)
	for !d.Finished() {
		d.Settle(w)
	}
}

// WasSettled reports whether x was finalized by the last run.
func (d *Dijkstra) WasSettled(x uint32) bool { return d.settled.IsRaised(x) }

// SettledCount returns the number of nodes finalized by the last run.
func (d *Dijkstra) SettledCount() int { return d.settledCount }

// DistanceTo returns the arrival time at x, or InfWeight if x was not
// settled.
func (d *Dijkstra) DistanceTo(x uint32) uint32 {
	if !d.settled.IsRaised(x) {
		return InfWeight
	}
	return d.tentative[x]
}

// PathTo returns the nodes from a source to x, or nil if x was not settled.
func (d *Dijkstra) PathTo(x uint32) []uint32 {
	if !d.settled.IsRaised(x) {
		return nil
	}
	path := []uint32{x}
	for {
		p, ok := d.predecessor[x].ID()
		if !ok {
			break
		}
		x = p
		path = append(path, x)
	}
	slices.Reverse(path)
	return path
}

// ArcPathTo returns the arcs from a source to x. The result is empty if x
// is a source and nil if x was not settled.
func (d *Dijkstra) ArcPathTo(x uint32) []uint32 {
	if !d.settled.IsRaised(x) {
		return nil
	}
	path := []uint32{}
	for {
		p, ok := d.predecessor[x].ID()
		if !ok {
			break
		}
		path = append(path, d.predecessorArc[x])
		x = p
	}
	slices.Reverse(path)
	return path
}
