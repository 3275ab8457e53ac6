package ch

import (
	"slices"

	"td_router/pkg/search"
)

// overlay is one direction of an upward graph in CSR form.
type overlay struct {
	firstOut []uint32
	head     []uint32
	weight   []uint32
}

// biSearch is the bidirectional upward Dijkstra shared by CH and CCH
// queries. Forward and backward searches only follow upward edges and
// alternate until neither queue can improve the best meeting point.
//
// Per-node state is reset through the touched list, so a query costs time
// proportional to the search space rather than the graph size.
type biSearch struct {
	distFwd, distBwd []uint32
	predFwd, predBwd []search.OptID
	edgeFwd, edgeBwd []uint32 // overlay index of the edge from the predecessor
	touched          []uint32
	fwdPQ, bwdPQ     minHeap

	meet search.OptID
	mu   uint32
}

func newBiSearch(n uint32) *biSearch {
	s := &biSearch{
		distFwd: make([]uint32, n),
		distBwd: make([]uint32, n),
		predFwd: make([]search.OptID, n),
		predBwd: make([]search.OptID, n),
		edgeFwd: make([]uint32, n),
		edgeBwd: make([]uint32, n),
		touched: make([]uint32, 0, 1024),
		fwdPQ:   minHeap{items: make([]heapItem, 0, 256)},
		bwdPQ:   minHeap{items: make([]heapItem, 0, 256)},
		mu:      search.InfWeight,
	}
	for i := range s.distFwd {
		s.distFwd[i] = search.InfWeight
		s.distBwd[i] = search.InfWeight
	}
	return s
}

func (s *biSearch) numNodes() uint32 { return uint32(len(s.distFwd)) }

// reset clears only the touched entries.
func (s *biSearch) reset() {
	for _, x := range s.touched {
		s.distFwd[x] = search.InfWeight
		s.distBwd[x] = search.InfWeight
		s.predFwd[x] = search.None
		s.predBwd[x] = search.None
	}
	s.touched = s.touched[:0]
	s.fwdPQ.Reset()
	s.bwdPQ.Reset()
	s.meet = search.None
	s.mu = search.InfWeight
}

func (s *biSearch) touch(x uint32) {
	if s.distFwd[x] == search.InfWeight && s.distBwd[x] == search.InfWeight {
		s.touched = append(s.touched, x)
	}
}

func (s *biSearch) addSource(x, dist uint32) {
	if dist >= s.distFwd[x] {
		return
	}
	s.touch(x)
	s.distFwd[x] = dist
	s.predFwd[x] = search.None
	s.fwdPQ.Push(x, dist)
}

func (s *biSearch) addTarget(x, dist uint32) {
	if dist >= s.distBwd[x] {
		return
	}
	s.touch(x)
	s.distBwd[x] = dist
	s.predBwd[x] = search.None
	s.bwdPQ.Push(x, dist)
}

// step settles one node of one direction.
func (s *biSearch) step(pq *minHeap, dist, other []uint32, pred []search.OptID, edge []uint32, g overlay) {
	item := pq.Pop()
	u, d := item.node, item.dist
	if d > dist[u] {
		return // stale entry
	}

	if other[u] < search.InfWeight {
		if candidate := d + other[u]; candidate < s.mu {
			s.mu = candidate
			s.meet = search.Some(u)
		}
	}

	for ei := g.firstOut[u]; ei < g.firstOut[u+1]; ei++ {
		w := g.weight[ei]
		if w >= search.InfWeight {
			continue
		}
		v := g.head[ei]
		newDist := d + w
		if newDist < dist[v] && newDist < search.InfWeight {
			s.touch(v)
			dist[v] = newDist
			pred[v] = search.Some(u)
			edge[v] = ei
			pq.Push(v, newDist)
		}
	}
}

// run alternates forward and backward steps until both queue minima reach
// the best meeting distance.
func (s *biSearch) run(fwd, bwd overlay) {
	for {
		fwdOpen := s.fwdPQ.Len() > 0 && s.fwdPQ.PeekDist() < s.mu
		bwdOpen := s.bwdPQ.Len() > 0 && s.bwdPQ.PeekDist() < s.mu
		if !fwdOpen && !bwdOpen {
			return
		}
		if fwdOpen {
			s.step(&s.fwdPQ, s.distFwd, s.distBwd, s.predFwd, s.edgeFwd, fwd)
		}
		if bwdOpen {
			s.step(&s.bwdPQ, s.distBwd, s.distFwd, s.predBwd, s.edgeBwd, bwd)
		}
	}
}

// found reports whether the last run connected a source and a target.
func (s *biSearch) found() bool { return s.meet.Valid() }

// upPath returns the forward overlay edges from a source up to the meeting
// node, in path order.
func (s *biSearch) upPath() []uint32 {
	var path []uint32
	x := s.meet.MustID()
	for {
		p, ok := s.predFwd[x].ID()
		if !ok {
			break
		}
		path = append(path, s.edgeFwd[x])
		x = p
	}
	slices.Reverse(path)
	return path
}

// downPath returns the backward overlay edges from the meeting node down to
// a target, in path order.
func (s *biSearch) downPath() []uint32 {
	var path []uint32
	x := s.meet.MustID()
	for {
		p, ok := s.predBwd[x].ID()
		if !ok {
			break
		}
		path = append(path, s.edgeBwd[x])
		x = p
	}
	return path
}
