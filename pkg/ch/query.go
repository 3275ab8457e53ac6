package ch

import (
	"errors"
	"fmt"

	"td_router/pkg/graph"
)

// ErrNodeCountMismatch is returned when hierarchies that must share a graph
// disagree on its size.
var ErrNodeCountMismatch = errors.New("hierarchy has wrong number of nodes")

// CheckNodeCount verifies that every hierarchy covers numNodes nodes.
func CheckNodeCount(numNodes uint32, hierarchies ...*graph.CHGraph) error {
	for i, c := range hierarchies {
		if c.NumNodes != numNodes {
			return fmt.Errorf("%w: hierarchy %d has %d nodes, graph has %d", ErrNodeCountMismatch, i, c.NumNodes, numNodes)
		}
	}
	return nil
}

// Query answers shortest path queries on a contraction hierarchy. One
// Query can be pointed at different hierarchies of the same graph with
// Reset, reusing its per-node state:
//
//	path := q.Reset(chg).AddSource(s).AddTarget(t).Run().ArcPath()
//
// A Query must not be used by more than one goroutine at a time.
type Query struct {
	chg *graph.CHGraph
	s   *biSearch
}

// NewQuery returns a query bound to chg.
func NewQuery(chg *graph.CHGraph) *Query {
	return &Query{chg: chg, s: newBiSearch(chg.NumNodes)}
}

// Reset binds the query to chg and forgets the previous sources, targets
// and result.
func (q *Query) Reset(chg *graph.CHGraph) *Query {
	if q.s == nil || q.s.numNodes() != chg.NumNodes {
		q.s = newBiSearch(chg.NumNodes)
	} else {
		q.s.reset()
	}
	q.chg = chg
	return q
}

// AddSource adds a source node with distance zero.
func (q *Query) AddSource(node uint32) *Query {
	q.s.addSource(node, 0)
	return q
}

// AddTarget adds a target node with distance zero.
func (q *Query) AddTarget(node uint32) *Query {
	q.s.addTarget(node, 0)
	return q
}

// Run computes the shortest path between the sources and targets.
func (q *Query) Run() *Query {
	q.s.run(
		overlay{q.chg.FwdFirstOut, q.chg.FwdHead, q.chg.FwdWeight},
		overlay{q.chg.BwdFirstOut, q.chg.BwdHead, q.chg.BwdWeight},
	)
	return q
}

// Found reports whether a path exists.
func (q *Query) Found() bool { return q.s.found() }

// Distance returns the shortest path length, or search.InfWeight if there
// is no path.
func (q *Query) Distance() uint32 { return q.s.mu }

// ArcPath returns the arcs of the input graph along the shortest path, or
// nil if there is no path.
func (q *Query) ArcPath() []uint32 {
	if !q.s.found() {
		return nil
	}
	path := []uint32{}
	for _, ei := range q.s.upPath() {
		path = unpackEdge(q.chg, q.chg.FwdEdge[ei], path)
	}
	for _, ei := range q.s.downPath() {
		path = unpackEdge(q.chg, q.chg.BwdEdge[ei], path)
	}
	return path
}

// unpackEdge appends the input arcs that edge stands for. Shortcuts are
// expanded with an explicit stack; children are always older than their
// shortcut so the expansion terminates.
func unpackEdge(chg *graph.CHGraph, edge uint32, out []uint32) []uint32 {
	stack := []uint32{edge}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !chg.IsShortcut(e) {
			out = append(out, e)
			continue
		}
		first, second := chg.Children(e)
		// Push the second half first so the first half is expanded first.
		stack = append(stack, second, first)
	}
	return out
}

