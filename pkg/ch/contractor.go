// Package ch builds and queries the static shortest path oracles used to
// prune time-dependent searches: classic contraction hierarchies over one
// weight vector, and customizable contraction hierarchies whose metric can
// be replaced without recomputing the topology.
package ch

import (
	"container/heap"
	"fmt"

	log "github.com/sirupsen/logrus"

	"td_router/pkg/graph"
	"td_router/pkg/search"
)

// adjEntry is an edge in the mutable adjacency lists used during
// contraction. In outAdj it points to the head, in inAdj to the tail.
type adjEntry struct {
	to     uint32
	weight uint32
	edge   uint32 // arc id, or NumArcs + shortcut index
}

// Contract builds a contraction hierarchy of g under weight, which holds
// one static weight per arc. Self-loops are dropped since they never lie on
// a shortest path.
func Contract(g *graph.TDGraph, weight []uint32) (*graph.CHGraph, error) {
	if uint32(len(weight)) != g.NumArcs() {
		return nil, fmt.Errorf("%w: %d weights for %d arcs", graph.ErrInvalidGraph, len(weight), g.NumArcs())
	}
	n := g.NumNodes()
	c := &contractor{
		numArcs:    g.NumArcs(),
		outAdj:     make([][]adjEntry, n),
		inAdj:      make([][]adjEntry, n),
		contracted: make([]bool, n),
	}
	if n == 0 {
		return &graph.CHGraph{FwdFirstOut: []uint32{0}, BwdFirstOut: []uint32{0}}, nil
	}

	for u := uint32(0); u < n; u++ {
		start, end := g.EdgesFrom(u)
		for a := start; a < end; a++ {
			v := g.Head[a]
			if v == u {
				continue
			}
			c.outAdj[u] = append(c.outAdj[u], adjEntry{to: v, weight: weight[a], edge: a})
			c.inAdj[v] = append(c.inAdj[v], adjEntry{to: u, weight: weight[a], edge: a})
		}
	}

	rank := c.run(n)
	log.Infof("contraction complete: %d shortcuts (%.2fx input arcs)",
		len(c.shortcutFirst), float64(len(c.shortcutFirst))/float64(max(g.NumArcs(), 1)))
	return c.overlay(n, rank), nil
}

type contractor struct {
	numArcs    uint32
	outAdj     [][]adjEntry
	inAdj      [][]adjEntry
	contracted []bool

	shortcutFirst  []uint32
	shortcutSecond []uint32
}

// run contracts all nodes in order of increasing priority and returns the
// rank of every node.
func (c *contractor) run(n uint32) []uint32 {
	rank := make([]uint32, n)
	contractedNeighbors := make([]int, n)
	level := make([]int, n)

	pq := make(priorityQueue, n)
	for i := uint32(0); i < n; i++ {
		pq[i] = &pqEntry{node: i, priority: c.priority(i, 0, 0), index: int(i)}
	}
	heap.Init(&pq)

	ws := newWitnessState(n)
	log.Infof("contracting %d nodes", n)

	order := uint32(0)
	for pq.Len() > 0 {
		entry := heap.Pop(&pq).(*pqEntry)
		node := entry.node
		if c.contracted[node] {
			continue
		}

		// Lazy update: re-insert if the priority got worse than the next best.
		newPriority := c.priority(node, contractedNeighbors[node], level[node])
		if newPriority > entry.priority && pq.Len() > 0 && newPriority > pq[0].priority {
			entry.priority = newPriority
			heap.Push(&pq, entry)
			continue
		}

		for _, sc := range c.findShortcuts(ws, node) {
			id := c.numArcs + uint32(len(c.shortcutFirst))
			c.shortcutFirst = append(c.shortcutFirst, sc.first)
			c.shortcutSecond = append(c.shortcutSecond, sc.second)
			c.outAdj[sc.from] = append(c.outAdj[sc.from], adjEntry{to: sc.to, weight: sc.weight, edge: id})
			c.inAdj[sc.to] = append(c.inAdj[sc.to], adjEntry{to: sc.from, weight: sc.weight, edge: id})
		}

		c.contracted[node] = true
		rank[node] = order
		order++

		for _, adj := range [][]adjEntry{c.outAdj[node], c.inAdj[node]} {
			for _, e := range adj {
				if !c.contracted[e.to] {
					contractedNeighbors[e.to]++
					level[e.to] = max(level[e.to], level[node]+1)
				}
			}
		}

		if order%logInterval(n-order) == 0 {
			log.Debugf("contracted %d/%d nodes, %d shortcuts so far", order, n, len(c.shortcutFirst))
		}
	}
	return rank
}

// logInterval logs more often as contraction approaches the dense top.
func logInterval(remaining uint32) uint32 {
	switch {
	case remaining < 1000:
		return 100
	case remaining < 10000:
		return 1000
	case remaining < 100000:
		return 10000
	default:
		return 50000
	}
}

// shortcut is an edge from -> to that replaces the path first, second.
type shortcut struct {
	from, to      uint32
	weight        uint32
	first, second uint32
}

// findShortcuts determines which shortcuts are needed when contracting a
// node. One witness search runs per incoming neighbor and is checked
// against all outgoing neighbors.
func (c *contractor) findShortcuts(ws *witnessState, node uint32) []shortcut {
	var incoming, outgoing []adjEntry
	// Unusable edges never become part of a shortcut.
	for _, e := range c.inAdj[node] {
		if !c.contracted[e.to] && e.weight < search.InfWeight {
			incoming = append(incoming, e)
		}
	}
	for _, e := range c.outAdj[node] {
		if !c.contracted[e.to] && e.weight < search.InfWeight {
			outgoing = append(outgoing, e)
		}
	}
	if len(incoming) == 0 || len(outgoing) == 0 {
		return nil
	}

	var shortcuts []shortcut
	for _, in := range incoming {
		var maxOut uint32
		hasTarget := false
		for _, out := range outgoing {
			if out.to != in.to {
				maxOut = max(maxOut, out.weight)
				hasTarget = true
			}
		}
		if !hasTarget {
			continue
		}

		batchWitnessSearch(ws, c.outAdj, in.to, node, in.weight+maxOut, c.contracted)

		for _, out := range outgoing {
			if out.to == in.to {
				continue
			}
			// A witness at most as long as the path through node makes the
			// shortcut unnecessary.
			w := in.weight + out.weight
			if w < search.InfWeight && ws.distance(out.to) > w {
				shortcuts = append(shortcuts, shortcut{
					from:   in.to,
					to:     out.to,
					weight: w,
					first:  in.edge,
					second: out.edge,
				})
			}
		}
	}
	return shortcuts
}

// priority returns the contraction priority of node (lower goes first):
// an estimated edge difference plus penalties that spread contraction
// evenly over the graph.
func (c *contractor) priority(node uint32, contractedNeighbors, level int) int {
	activeIn, activeOut := 0, 0
	for _, e := range c.inAdj[node] {
		if !c.contracted[e.to] {
			activeIn++
		}
	}
	for _, e := range c.outAdj[node] {
		if !c.contracted[e.to] {
			activeOut++
		}
	}
	edgeDifference := activeIn*activeOut - (activeIn + activeOut)
	return edgeDifference + 2*contractedNeighbors + level
}

// overlay creates the forward and backward upward CSR graphs.
func (c *contractor) overlay(n uint32, rank []uint32) *graph.CHGraph {
	type csrEdge struct {
		from, to     uint32
		weight, edge uint32
	}

	var fwdEdges, bwdEdges []csrEdge
	for u := uint32(0); u < n; u++ {
		for _, e := range c.outAdj[u] {
			if rank[u] < rank[e.to] {
				fwdEdges = append(fwdEdges, csrEdge{from: u, to: e.to, weight: e.weight, edge: e.edge})
			}
		}
		// An edge v -> u with rank[u] < rank[v] is stored as u -> v in the
		// backward graph, which is searched upward from the target.
		for _, e := range c.inAdj[u] {
			if rank[u] < rank[e.to] {
				bwdEdges = append(bwdEdges, csrEdge{from: u, to: e.to, weight: e.weight, edge: e.edge})
			}
		}
	}
	log.Debugf("overlay: %d forward upward edges, %d backward upward edges", len(fwdEdges), len(bwdEdges))

	buildCSR := func(edges []csrEdge) (firstOut, head, weight, edge []uint32) {
		firstOut = make([]uint32, n+1)
		head = make([]uint32, len(edges))
		weight = make([]uint32, len(edges))
		edge = make([]uint32, len(edges))
		for _, e := range edges {
			firstOut[e.from+1]++
		}
		for i := uint32(1); i <= n; i++ {
			firstOut[i] += firstOut[i-1]
		}
		pos := make([]uint32, n)
		copy(pos, firstOut[:n])
		for _, e := range edges {
			idx := pos[e.from]
			head[idx] = e.to
			weight[idx] = e.weight
			edge[idx] = e.edge
			pos[e.from]++
		}
		return
	}

	chg := &graph.CHGraph{
		NumNodes:       n,
		NumArcs:        c.numArcs,
		Rank:           rank,
		ShortcutFirst:  c.shortcutFirst,
		ShortcutSecond: c.shortcutSecond,
	}
	chg.FwdFirstOut, chg.FwdHead, chg.FwdWeight, chg.FwdEdge = buildCSR(fwdEdges)
	chg.BwdFirstOut, chg.BwdHead, chg.BwdWeight, chg.BwdEdge = buildCSR(bwdEdges)
	return chg
}

// Priority queue for contraction ordering.

type pqEntry struct {
	node     uint32
	priority int
	index    int
}

type priorityQueue []*pqEntry

func (pq priorityQueue) Len() int           { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool { return pq[i].priority < pq[j].priority }
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	entry := x.(*pqEntry)
	entry.index = len(*pq)
	*pq = append(*pq, entry)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	entry.index = -1
	*pq = old[:n-1]
	return entry
}
