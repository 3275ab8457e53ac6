package pruning

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"td_router/pkg/graph"
	"td_router/pkg/plf"
)

func identityOrder(n uint32) []uint32 {
	order := make([]uint32, n)
	for i := range order {
		order[i] = uint32(i)
	}
	return order
}

func TestDynamicSessionOrdering(t *testing.T) {
	r := rand.New(rand.NewPCG(51, 52))
	g := randomConstantGraph(r, 40, 160)
	hierarchies := windowHierarchies(t, g)
	s, err := NewDynamicSession(g, hierarchies, hierarchies[0].Order())
	require.NoError(t, err)

	for range 40 {
		q := Query{Source: r.Uint32N(40), SourceTime: r.Uint32N(plf.Period), Target: r.Uint32N(40)}
		res, err := s.Run(q)
		require.NoError(t, err)
		assert.Empty(t, s.Model().SlowedArcs(), "congestion must not leak into the next query")

		require.Equal(t, res.Predicted.Found, res.Exact.Found)
		if !res.Exact.Found {
			assert.False(t, res.Pruned.Found)
			continue
		}
		// Congestion only slows arcs down.
		assert.GreaterOrEqual(t, res.Exact.TargetTime, res.Predicted.TargetTime)
		assert.GreaterOrEqual(t, res.PredictedPathArrival, res.Exact.TargetTime)
		if res.Pruned.Found {
			assert.GreaterOrEqual(t, res.Pruned.TargetTime, res.Exact.TargetTime)
		}
	}
}

func TestDynamicSessionFindsCongestedDetour(t *testing.T) {
	// Two parallel routes from 0 to 3: 0 -> 1 -> 3 is slightly faster
	// than 0 -> 2 -> 3. Congestion lands on the faster one, so the exact
	// search with congestion switches to the detour, and the customizable
	// hierarchy puts the detour into the mask.
	g := buildTestGraph(4, []testArc{
		{0, 1, []uint32{60_000}},
		{1, 3, []uint32{60_000}},
		{0, 2, []uint32{61_000}},
		{2, 3, []uint32{61_000}},
	})
	hierarchies := windowHierarchies(t, g)
	s, err := NewDynamicSession(g, hierarchies, identityOrder(4))
	require.NoError(t, err)

	q := Query{Source: 0, SourceTime: 1000, Target: 3}
	res, err := s.Run(q)
	require.NoError(t, err)

	require.True(t, res.Predicted.Found)
	assert.Equal(t, uint32(121_000), res.Predicted.TargetTime)
	require.True(t, res.Exact.Found)
	assert.Equal(t, uint32(123_000), res.Exact.TargetTime)
	assert.Greater(t, res.PredictedPathArrival, res.Exact.TargetTime)
	require.True(t, res.Pruned.Found)
	assert.Equal(t, res.Exact.TargetTime, res.Pruned.TargetTime)
	assert.Equal(t, res.Exact.ArcPath, res.Pruned.ArcPath)
}

func TestNewDynamicSessionRejectsBadOrder(t *testing.T) {
	g := buildTestGraph(3, []testArc{{0, 1, []uint32{100}}})
	hierarchies := windowHierarchies(t, g)

	_, err := NewDynamicSession(g, hierarchies, []uint32{0, 1})
	assert.ErrorIs(t, err, graph.ErrInvalidGraph)
	_, err = NewDynamicSession(g, hierarchies, []uint32{0, 0, 1})
	assert.ErrorIs(t, err, graph.ErrNotPermutation)
}
