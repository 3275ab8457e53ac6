package ch

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"td_router/pkg/graph"
	"td_router/pkg/search"
)

type testArc struct{ from, to, weight uint32 }

// buildTestGraph returns a graph whose arcs have constant travel times,
// together with the weight vector in arc order.
func buildTestGraph(n uint32, arcs []testArc) (*graph.TDGraph, []uint32) {
	arcs = slices.Clone(arcs)
	slices.SortStableFunc(arcs, func(a, b testArc) int { return cmp.Compare(a.from, b.from) })

	g := &graph.TDGraph{
		FirstOut:         make([]uint32, n+1),
		Head:             make([]uint32, len(arcs)),
		FirstIPPOfArc:    make([]uint32, len(arcs)+1),
		IPPDepartureTime: make([]uint32, len(arcs)),
		IPPTravelTime:    make([]uint32, len(arcs)),
	}
	for i, a := range arcs {
		g.FirstOut[a.from+1]++
		g.Head[i] = a.to
		g.FirstIPPOfArc[i+1] = uint32(i + 1)
		g.IPPTravelTime[i] = a.weight
	}
	for x := uint32(1); x <= n; x++ {
		g.FirstOut[x] += g.FirstOut[x-1]
	}
	return g, slices.Clone(g.IPPTravelTime)
}

// gridGraph is a bidirectional 2x3 grid:
//
//	0 ---100--- 1 ---200--- 2
//	|                       |
//	300                    400
//	|                       |
//	3 ---500--- 4 ---600--- 5
func gridGraph() (*graph.TDGraph, []uint32) {
	var arcs []testArc
	for _, e := range []testArc{{0, 1, 100}, {1, 2, 200}, {0, 3, 300}, {2, 5, 400}, {3, 4, 500}, {4, 5, 600}} {
		arcs = append(arcs, e, testArc{e.to, e.from, e.weight})
	}
	return buildTestGraph(6, arcs)
}

// randomGraph includes parallel arcs, self-loops and some one-way streets.
func randomGraph(r *rand.Rand, n, m uint32) (*graph.TDGraph, []uint32) {
	arcs := make([]testArc, 0, m)
	for range m {
		arcs = append(arcs, testArc{r.Uint32N(n), r.Uint32N(n), 1 + r.Uint32N(1000)})
	}
	return buildTestGraph(n, arcs)
}

// referenceDistances returns the Dijkstra distances from source.
func referenceDistances(g *graph.TDGraph, weight []uint32, source uint32) []uint32 {
	d := search.NewDijkstra(g.FirstOut, g.Head)
	d.RunAll(source, 0, search.StaticWeight(weight))
	dist := make([]uint32, g.NumNodes())
	for x := range dist {
		dist[x] = d.DistanceTo(uint32(x))
	}
	return dist
}

// requireWalk checks that path is a walk from s to t of the given length.
func requireWalk(t *testing.T, g *graph.TDGraph, weight []uint32, path []uint32, s, target, length uint32) {
	t.Helper()
	tail := g.Tails()
	at := s
	var sum uint32
	for _, a := range path {
		require.Less(t, a, g.NumArcs())
		require.Equal(t, at, tail[a], "path is not connected")
		at = g.Head[a]
		sum += weight[a]
	}
	require.Equal(t, target, at)
	require.Equal(t, length, sum)
}
