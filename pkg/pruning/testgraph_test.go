package pruning

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"td_router/pkg/ch"
	"td_router/pkg/graph"
	"td_router/pkg/plf"
)

type testArc struct {
	from, to uint32
	travel   []uint32 // one IPP every six hours
}

func buildTestGraph(n uint32, arcs []testArc) *graph.TDGraph {
	arcs = slices.Clone(arcs)
	slices.SortStableFunc(arcs, func(a, b testArc) int { return cmp.Compare(a.from, b.from) })
	g := &graph.TDGraph{
		FirstOut:      make([]uint32, n+1),
		Head:          make([]uint32, len(arcs)),
		FirstIPPOfArc: []uint32{0},
	}
	for i, a := range arcs {
		g.FirstOut[a.from+1]++
		g.Head[i] = a.to
		for k, tt := range a.travel {
			g.IPPDepartureTime = append(g.IPPDepartureTime, uint32(k)*6*60*60*1000)
			g.IPPTravelTime = append(g.IPPTravelTime, tt)
		}
		g.FirstIPPOfArc = append(g.FirstIPPOfArc, uint32(len(g.IPPTravelTime)))
	}
	for x := uint32(1); x <= n; x++ {
		g.FirstOut[x] += g.FirstOut[x-1]
	}
	return g
}

// randomTDGraph has slowly varying travel times, so waiting never pays off.
func randomTDGraph(r *rand.Rand, n, m uint32) *graph.TDGraph {
	arcs := make([]testArc, 0, m)
	for range m {
		travel := make([]uint32, 1+r.IntN(4))
		for k := range travel {
			travel[k] = 1000 + r.Uint32N(60_000)
		}
		arcs = append(arcs, testArc{r.Uint32N(n), r.Uint32N(n), travel})
	}
	return buildTestGraph(n, arcs)
}

// windowHierarchies contracts the free-flow weights and two day windows.
func windowHierarchies(t *testing.T, g *graph.TDGraph) []*graph.CHGraph {
	t.Helper()
	weights := [][]uint32{
		plf.MinWeights(plf.Period, g.FirstIPPOfArc, g.IPPDepartureTime, g.IPPTravelTime),
		plf.TimeWindowAvgWeights(6*60*60*1000, 10*60*60*1000, plf.Period, g.FirstIPPOfArc, g.IPPDepartureTime, g.IPPTravelTime),
		plf.TimeWindowAvgWeights(15*60*60*1000, 19*60*60*1000, plf.Period, g.FirstIPPOfArc, g.IPPDepartureTime, g.IPPTravelTime),
	}
	var hierarchies []*graph.CHGraph
	for _, w := range weights {
		chg, err := ch.Contract(g, w)
		require.NoError(t, err)
		hierarchies = append(hierarchies, chg)
	}
	return hierarchies
}

// randomConstantGraph has one IPP per arc. Congestion on such a graph
// keeps waiting useless, so exact searches stay exact under congestion.
func randomConstantGraph(r *rand.Rand, n, m uint32) *graph.TDGraph {
	arcs := make([]testArc, 0, m)
	for range m {
		arcs = append(arcs, testArc{r.Uint32N(n), r.Uint32N(n), []uint32{1000 + r.Uint32N(60_000)}})
	}
	return buildTestGraph(n, arcs)
}
