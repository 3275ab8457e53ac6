package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"td_router/pkg/plf"
)

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(5)
	for i := range uint32(5) {
		assert.Equal(t, i, uf.Find(i))
	}

	assert.True(t, uf.Union(0, 1))
	assert.True(t, uf.Union(2, 3))
	assert.False(t, uf.Union(1, 0))
	assert.Equal(t, uf.Find(0), uf.Find(1))
	assert.NotEqual(t, uf.Find(0), uf.Find(2))

	uf.Union(1, 3)
	assert.Equal(t, uf.Find(0), uf.Find(3))
	assert.NotEqual(t, uf.Find(0), uf.Find(4))
}

// twoComponents is 0 <-> 1 <-> 2 and 3 <-> 4, arcs carry distinct PLFs.
func twoComponents() *TDGraph {
	return &TDGraph{
		FirstOut:         []uint32{0, 1, 3, 4, 5, 6},
		Head:             []uint32{1, 0, 2, 1, 4, 3},
		FirstIPPOfArc:    []uint32{0, 1, 2, 4, 5, 6, 7},
		IPPDepartureTime: []uint32{0, 0, 0, 1000, 0, 0, 0},
		IPPTravelTime:    []uint32{10, 11, 12, 13, 14, 15, 16},
		Latitude:         []float32{0, 1, 2, 3, 4},
		Longitude:        []float32{5, 6, 7, 8, 9},
	}
}

func TestLargestComponent(t *testing.T) {
	assert.Equal(t, []uint32{0, 1, 2}, LargestComponent(twoComponents()))
	assert.Nil(t, LargestComponent(&TDGraph{}))
}

func TestFilterToComponent(t *testing.T) {
	g := twoComponents()
	sub := FilterToComponent(g, []uint32{3, 4})
	require.NoError(t, CheckTDGraph(plf.Period, sub))
	assert.Equal(t, []uint32{0, 1, 2}, sub.FirstOut)
	assert.Equal(t, []uint32{1, 0}, sub.Head)
	assert.Equal(t, []uint32{15, 16}, sub.IPPTravelTime)
	assert.Equal(t, []float32{3, 4}, sub.Latitude)

	sub = FilterToComponent(g, LargestComponent(g))
	require.NoError(t, CheckTDGraph(plf.Period, sub))
	assert.Equal(t, uint32(4), sub.NumArcs())
	assert.Equal(t, []uint32{0, 1, 2, 4, 5}, sub.FirstIPPOfArc)
	assert.Equal(t, []uint32{0, 0, 0, 1000, 0}, sub.IPPDepartureTime)
}

func TestFilterToComponentEmpty(t *testing.T) {
	sub := FilterToComponent(twoComponents(), nil)
	assert.Equal(t, uint32(0), sub.NumNodes())
	assert.NoError(t, CheckCSR(sub.FirstOut, sub.Head))
}
