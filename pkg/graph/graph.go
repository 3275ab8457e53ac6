// Package graph holds the time-dependent road graph, its on-disk vector
// representation and the contraction hierarchy data used as static oracle.
package graph

import "td_router/pkg/plf"

// TDGraph is a directed graph in CSR form whose arcs carry periodic
// piecewise-linear travel time functions.
//
// The PLF of arc a consists of the IPPs FirstIPPOfArc[a] up to but not
// including FirstIPPOfArc[a+1]. Latitude and Longitude are optional and
// either empty or one entry per node.
type TDGraph struct {
	FirstOut []uint32 // len: NumNodes + 1
	Head     []uint32 // len: NumArcs

	FirstIPPOfArc    []uint32 // len: NumArcs + 1
	IPPDepartureTime []uint32 // ms since midnight, strictly increasing per arc
	IPPTravelTime    []uint32 // ms

	Latitude  []float32
	Longitude []float32
}

// NumNodes returns the number of nodes.
func (g *TDGraph) NumNodes() uint32 {
	if len(g.FirstOut) == 0 {
		return 0
	}
	return uint32(len(g.FirstOut) - 1)
}

// NumArcs returns the number of arcs.
func (g *TDGraph) NumArcs() uint32 { return uint32(len(g.Head)) }

// NumIPPs returns the total number of IPPs over all arcs.
func (g *TDGraph) NumIPPs() uint32 { return uint32(len(g.IPPDepartureTime)) }

// EdgesFrom returns the range of arc ids leaving u.
func (g *TDGraph) EdgesFrom(u uint32) (start, end uint32) {
	return g.FirstOut[u], g.FirstOut[u+1]
}

// HasCoordinates reports whether every node has a position.
func (g *TDGraph) HasCoordinates() bool {
	n := int(g.NumNodes())
	return n > 0 && len(g.Latitude) == n && len(g.Longitude) == n
}

// PLF returns the travel time function of arc.
func (g *TDGraph) PLF(arc uint32) plf.ArcPLF {
	return plf.NewArcPLF(arc, plf.Period, g.FirstIPPOfArc, g.IPPDepartureTime, g.IPPTravelTime)
}

// Weight returns the travel time of arc when entering it at the absolute
// time t. Times past midnight wrap into the next day.
func (g *TDGraph) Weight(arc, t uint32) uint32 {
	return plf.EvaluatePeriodic(g.PLF(arc), t)
}

// Tails returns the source node of every arc.
func (g *TDGraph) Tails() []uint32 {
	return Tails(g.FirstOut)
}

// Tails inverts a CSR offset array: the result holds, for every index in
// [0, firstOut[n]), the node whose range contains it.
func Tails(firstOut []uint32) []uint32 {
	if len(firstOut) == 0 {
		return nil
	}
	tail := make([]uint32, firstOut[len(firstOut)-1])
	for u := 0; u+1 < len(firstOut); u++ {
		for a := firstOut[u]; a < firstOut[u+1]; a++ {
			tail[a] = uint32(u)
		}
	}
	return tail
}

// CHGraph is a contraction hierarchy over one static weight per arc.
//
// Edge ids below NumArcs are arcs of the input graph. An id e at or above
// NumArcs is the shortcut e-NumArcs, which stands for the edge
// ShortcutFirst[e-NumArcs] followed by ShortcutSecond[e-NumArcs]. Children
// always have smaller ids than their shortcut.
type CHGraph struct {
	NumNodes uint32
	NumArcs  uint32
	Rank     []uint32

	// Forward upward graph (edges where rank[source] < rank[target]).
	FwdFirstOut []uint32
	FwdHead     []uint32
	FwdWeight   []uint32
	FwdEdge     []uint32

	// Backward upward graph: an entry v -> u stands for the edge u -> v with
	// rank[v] < rank[u].
	BwdFirstOut []uint32
	BwdHead     []uint32
	BwdWeight   []uint32
	BwdEdge     []uint32

	ShortcutFirst  []uint32
	ShortcutSecond []uint32
}

// NumShortcuts returns the number of shortcut edges.
func (c *CHGraph) NumShortcuts() uint32 { return uint32(len(c.ShortcutFirst)) }

// IsShortcut reports whether edge is a shortcut.
func (c *CHGraph) IsShortcut(edge uint32) bool { return edge >= c.NumArcs }

// Children returns the two edges a shortcut consists of.
func (c *CHGraph) Children(edge uint32) (first, second uint32) {
	s := edge - c.NumArcs
	return c.ShortcutFirst[s], c.ShortcutSecond[s]
}

// Order returns the nodes sorted by increasing rank.
func (c *CHGraph) Order() []uint32 { return InvertPermutation(c.Rank) }
