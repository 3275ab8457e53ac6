package ch

import (
	"fmt"
	"slices"

	log "github.com/sirupsen/logrus"

	"td_router/pkg/graph"
	"td_router/pkg/search"
)

const noEdge = ^uint32(0)

// CCH is the metric independent part of a customizable contraction
// hierarchy: the chordal supergraph of the input graph under a fixed node
// order. Nodes are stored by rank. Every undirected edge {x, y} with x < y
// appears once, as an upward edge of x.
type CCH struct {
	rank  []uint32 // node -> rank
	order []uint32 // rank -> node

	firstOut []uint32
	head     []uint32 // sorted within each range

	// Input arc -> CCH edge, and whether the arc points from the lower to
	// the higher ranked endpoint. Self-loops map to noEdge.
	arcEdge []uint32
	arcUp   []bool
}

// BuildCCH computes the chordal supergraph of the graph given by firstOut
// and head under order, which lists the nodes from least to most
// important.
func BuildCCH(order, firstOut, head []uint32) (*CCH, error) {
	if err := graph.CheckCSR(firstOut, head); err != nil {
		return nil, err
	}
	n := uint32(len(firstOut) - 1)
	if err := graph.CheckOrder(order, n); err != nil {
		return nil, fmt.Errorf("cch order: %w", err)
	}
	c := &CCH{rank: graph.InvertPermutation(order), order: order}

	// Eliminating x in rank order turns its upper neighbors into a clique.
	// Adding them to the lowest upper neighbor suffices, the rest of the
	// clique follows when that neighbor is eliminated.
	upper := make([][]uint32, n)
	tail := graph.Tails(firstOut)
	for a, v := range head {
		x, y := c.rank[tail[a]], c.rank[v]
		if x == y {
			continue
		}
		lo, hi := min(x, y), max(x, y)
		upper[lo] = append(upper[lo], hi)
	}
	for x := range upper {
		slices.Sort(upper[x])
		upper[x] = slices.Compact(upper[x])
		if len(upper[x]) > 1 {
			p := upper[x][0]
			upper[p] = append(upper[p], upper[x][1:]...)
		}
	}

	c.firstOut = make([]uint32, n+1)
	for x, up := range upper {
		c.firstOut[x+1] = c.firstOut[x] + uint32(len(up))
	}
	c.head = make([]uint32, 0, c.firstOut[n])
	for _, up := range upper {
		c.head = append(c.head, up...)
	}

	c.arcEdge = make([]uint32, len(head))
	c.arcUp = make([]bool, len(head))
	for a, v := range head {
		x, y := c.rank[tail[a]], c.rank[v]
		if x == y {
			c.arcEdge[a] = noEdge
			continue
		}
		c.arcEdge[a] = c.findEdge(min(x, y), max(x, y))
		c.arcUp[a] = x < y
	}

	log.Infof("cch built: %d nodes, %d edges for %d arcs", n, len(c.head), len(head))
	return c, nil
}

// NumNodes returns the number of nodes.
func (c *CCH) NumNodes() uint32 { return uint32(len(c.rank)) }

// NumEdges returns the number of undirected CCH edges.
func (c *CCH) NumEdges() uint32 { return uint32(len(c.head)) }

// NumArcs returns the number of input arcs.
func (c *CCH) NumArcs() uint32 { return uint32(len(c.arcEdge)) }

// findEdge returns the edge {x, y} with x < y, or noEdge.
func (c *CCH) findEdge(x, y uint32) uint32 {
	begin, end := c.firstOut[x], c.firstOut[x+1]
	if i, ok := slices.BinarySearch(c.head[begin:end], y); ok {
		return begin + uint32(i)
	}
	return noEdge
}

// Metric holds one set of CCH edge weights. Up[e] is the weight of going
// from the lower to the higher endpoint of e, Down[e] the other direction.
// Each direction remembers how its weight was obtained: from an input arc
// or from a lower triangle through a middle node.
type Metric struct {
	cch *CCH

	Up, Down []uint32

	upVia, downVia []search.OptID // middle node rank
	upArc, downArc []uint32       // input arc, valid if no middle node
}

// NewMetric returns an uncustomized metric on c. All weights are infinite.
func NewMetric(c *CCH) *Metric {
	m := &Metric{
		cch:     c,
		Up:      make([]uint32, c.NumEdges()),
		Down:    make([]uint32, c.NumEdges()),
		upVia:   make([]search.OptID, c.NumEdges()),
		downVia: make([]search.OptID, c.NumEdges()),
		upArc:   make([]uint32, c.NumEdges()),
		downArc: make([]uint32, c.NumEdges()),
	}
	m.clear()
	return m
}

func (m *Metric) clear() {
	for e := range m.Up {
		m.Up[e], m.Down[e] = search.InfWeight, search.InfWeight
		m.upVia[e], m.downVia[e] = search.None, search.None
		m.upArc[e], m.downArc[e] = noEdge, noEdge
	}
}

// Customize replaces the metric by the one induced by weight, one entry per
// input arc. Weights at or above search.InfWeight mark unusable arcs.
func (m *Metric) Customize(weight []uint32) error {
	c := m.cch
	if uint32(len(weight)) != c.NumArcs() {
		return fmt.Errorf("%w: %d weights for %d arcs", graph.ErrInvalidGraph, len(weight), c.NumArcs())
	}
	m.clear()

	for a, e := range c.arcEdge {
		if e == noEdge || weight[a] >= search.InfWeight {
			continue
		}
		if c.arcUp[a] {
			if weight[a] < m.Up[e] {
				m.Up[e], m.upArc[e] = weight[a], uint32(a)
			}
		} else if weight[a] < m.Down[e] {
			m.Down[e], m.downArc[e] = weight[a], uint32(a)
		}
	}

	// Lower triangles: for x < y < z, y -> x -> z bounds y -> z and
	// z -> x -> y bounds z -> y. Processing x in rank order finalizes the
	// edges of x before they are used.
	for x := uint32(0); x < c.NumNodes(); x++ {
		begin, end := c.firstOut[x], c.firstOut[x+1]
		for i := begin; i < end; i++ {
			xy := i
			y := c.head[xy]
			for xz := i + 1; xz < end; xz++ {
				yz := c.findEdge(y, c.head[xz])
				if d := m.Down[xy] + m.Up[xz]; d < m.Up[yz] {
					m.Up[yz], m.upVia[yz] = d, search.Some(x)
				}
				if d := m.Down[xz] + m.Up[xy]; d < m.Down[yz] {
					m.Down[yz], m.downVia[yz] = d, search.Some(x)
				}
			}
		}
	}
	return nil
}

// unpack appends the input arcs of edge e traversed upward (up) or
// downward.
func (m *Metric) unpack(e uint32, up bool, out []uint32) []uint32 {
	type item struct {
		edge uint32
		up   bool
	}
	c := m.cch
	stack := []item{{e, up}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		via, arc := m.downVia[it.edge], m.downArc[it.edge]
		if it.up {
			via, arc = m.upVia[it.edge], m.upArc[it.edge]
		}
		x, ok := via.ID()
		if !ok {
			out = append(out, arc)
			continue
		}

		// The edge is {y, z} with y < z and the middle node x is below both.
		xy, xz := c.findEdge(x, c.tailOf(it.edge)), c.findEdge(x, c.head[it.edge])
		if it.up {
			// y -> x -> z
			stack = append(stack, item{xz, true}, item{xy, false})
		} else {
			// z -> x -> y
			stack = append(stack, item{xy, true}, item{xz, false})
		}
	}
	return out
}

// tailOf returns the lower endpoint of edge e.
func (c *CCH) tailOf(e uint32) uint32 {
	i, _ := slices.BinarySearchFunc(c.firstOut, e, func(off, e uint32) int {
		if off <= e {
			return -1
		}
		return 1
	})
	return uint32(i - 1)
}

// CCHQuery answers shortest path queries on a customized metric. Like
// Query it is reset between queries and must not be shared between
// goroutines.
type CCHQuery struct {
	m *Metric
	s *biSearch
}

// NewCCHQuery returns a query on m. The metric may be re-customized
// between queries.
func NewCCHQuery(m *Metric) *CCHQuery {
	return &CCHQuery{m: m, s: newBiSearch(m.cch.NumNodes())}
}

// Reset forgets the previous sources, targets and result.
func (q *CCHQuery) Reset() *CCHQuery {
	q.s.reset()
	return q
}

// AddSource adds a source node with distance zero.
func (q *CCHQuery) AddSource(node uint32) *CCHQuery {
	q.s.addSource(q.m.cch.rank[node], 0)
	return q
}

// AddTarget adds a target node with distance zero.
func (q *CCHQuery) AddTarget(node uint32) *CCHQuery {
	q.s.addTarget(q.m.cch.rank[node], 0)
	return q
}

// Run computes the shortest path between the sources and targets.
func (q *CCHQuery) Run() *CCHQuery {
	c := q.m.cch
	q.s.run(overlay{c.firstOut, c.head, q.m.Up}, overlay{c.firstOut, c.head, q.m.Down})
	return q
}

// Found reports whether a path exists.
func (q *CCHQuery) Found() bool { return q.s.found() }

// Distance returns the shortest path length, or search.InfWeight.
func (q *CCHQuery) Distance() uint32 { return q.s.mu }

// ArcPath returns the input arcs along the shortest path, or nil.
func (q *CCHQuery) ArcPath() []uint32 {
	if !q.s.found() {
		return nil
	}
	path := []uint32{}
	for _, e := range q.s.upPath() {
		path = q.m.unpack(e, true, path)
	}
	for _, e := range q.s.downPath() {
		path = q.m.unpack(e, false, path)
	}
	return path
}
