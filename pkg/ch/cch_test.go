package ch

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"td_router/pkg/graph"
	"td_router/pkg/search"
)

func identityOrder(n uint32) []uint32 {
	order := make([]uint32, n)
	for i := range order {
		order[i] = uint32(i)
	}
	return order
}

func requireCCHMatchesDijkstra(t *testing.T, g *graph.TDGraph, w []uint32, q *CCHQuery) {
	t.Helper()
	n := g.NumNodes()
	for s := uint32(0); s < n; s++ {
		want := referenceDistances(g, w, s)
		for target := uint32(0); target < n; target++ {
			q.Reset().AddSource(s).AddTarget(target).Run()
			require.Equal(t, want[target], q.Distance(), "%d -> %d", s, target)
			if want[target] == search.InfWeight {
				require.False(t, q.Found())
				continue
			}
			requireWalk(t, g, w, q.ArcPath(), s, target, want[target])
		}
	}
}

func TestCCHGridIdentityOrder(t *testing.T) {
	g, w := gridGraph()
	c, err := BuildCCH(identityOrder(6), g.FirstOut, g.Head)
	require.NoError(t, err)

	m := NewMetric(c)
	require.NoError(t, m.Customize(w))
	requireCCHMatchesDijkstra(t, g, w, NewCCHQuery(m))
}

func TestCCHIsChordal(t *testing.T) {
	// A 4-cycle eliminated in the order 0..3 needs the chord {1, 3}.
	g, _ := buildTestGraph(4, []testArc{{0, 1, 1}, {1, 2, 1}, {2, 3, 1}, {3, 0, 1}})
	c, err := BuildCCH(identityOrder(4), g.FirstOut, g.Head)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), c.NumEdges())
	assert.NotEqual(t, noEdge, c.findEdge(1, 3))
}

func TestCCHRandomOrders(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for range 15 {
		n := 5 + r.Uint32N(35)
		g, w := randomGraph(r, n, 3*n)
		order := identityOrder(n)
		r.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		c, err := BuildCCH(order, g.FirstOut, g.Head)
		require.NoError(t, err)
		m := NewMetric(c)
		require.NoError(t, m.Customize(w))
		requireCCHMatchesDijkstra(t, g, w, NewCCHQuery(m))
	}
}

func TestCCHWithContractionOrder(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	g, w := randomGraph(r, 40, 120)
	chg, err := Contract(g, w)
	require.NoError(t, err)

	c, err := BuildCCH(chg.Order(), g.FirstOut, g.Head)
	require.NoError(t, err)
	m := NewMetric(c)
	require.NoError(t, m.Customize(w))
	requireCCHMatchesDijkstra(t, g, w, NewCCHQuery(m))
}

func TestMetricRecustomize(t *testing.T) {
	r := rand.New(rand.NewPCG(17, 19))
	g, w := randomGraph(r, 30, 90)
	c, err := BuildCCH(identityOrder(30), g.FirstOut, g.Head)
	require.NoError(t, err)
	m := NewMetric(c)
	q := NewCCHQuery(m)

	require.NoError(t, m.Customize(w))
	requireCCHMatchesDijkstra(t, g, w, q)

	// Block every third arc and reuse the same metric and query.
	blocked := make([]uint32, len(w))
	for i := range w {
		blocked[i] = w[i]
		if i%3 == 0 {
			blocked[i] = search.InfWeight
		}
	}
	require.NoError(t, m.Customize(blocked))
	requireCCHMatchesDijkstra(t, g, blocked, q)
}

func TestCCHSourceIsTarget(t *testing.T) {
	g, w := gridGraph()
	c, err := BuildCCH(identityOrder(6), g.FirstOut, g.Head)
	require.NoError(t, err)
	m := NewMetric(c)
	require.NoError(t, m.Customize(w))

	q := NewCCHQuery(m).AddSource(2).AddTarget(2).Run()
	assert.True(t, q.Found())
	assert.Equal(t, uint32(0), q.Distance())
	assert.Empty(t, q.ArcPath())
}

func TestCCHUncustomizedFindsNothing(t *testing.T) {
	g, _ := gridGraph()
	c, err := BuildCCH(identityOrder(6), g.FirstOut, g.Head)
	require.NoError(t, err)

	q := NewCCHQuery(NewMetric(c)).AddSource(0).AddTarget(5).Run()
	assert.False(t, q.Found())
	assert.Nil(t, q.ArcPath())
}

func TestBuildCCHRejectsBadOrder(t *testing.T) {
	g, _ := gridGraph()
	_, err := BuildCCH([]uint32{0, 1, 2}, g.FirstOut, g.Head)
	assert.ErrorIs(t, err, graph.ErrInvalidGraph)
	_, err = BuildCCH([]uint32{0, 1, 2, 3, 4, 4}, g.FirstOut, g.Head)
	assert.ErrorIs(t, err, graph.ErrNotPermutation)
}

func TestCustomizeWeightCountMismatch(t *testing.T) {
	g, _ := gridGraph()
	c, err := BuildCCH(identityOrder(6), g.FirstOut, g.Head)
	require.NoError(t, err)
	assert.ErrorIs(t, NewMetric(c).Customize([]uint32{1}), graph.ErrInvalidGraph)
}

func BenchmarkCustomize(b *testing.B) {
	r := rand.New(rand.NewPCG(1, 1))
	g, w := randomGraph(r, 2000, 6000)
	chg, err := Contract(g, w)
	if err != nil {
		b.Fatal(err)
	}
	c, err := BuildCCH(chg.Order(), g.FirstOut, g.Head)
	if err != nil {
		b.Fatal(err)
	}
	m := NewMetric(c)
	b.ResetTimer()
	for range b.N {
		if err := m.Customize(w); err != nil {
			b.Fatal(err)
		}
	}
}
