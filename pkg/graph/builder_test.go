package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	osmparser "td_router/pkg/osm"
	"td_router/pkg/plf"
)

func TestBuildSimpleGraph(t *testing.T) {
	g := Build(testParseResult())
	require.NoError(t, CheckTDGraph(plf.Period, g))

	assert.Equal(t, uint32(3), g.NumNodes())
	assert.Equal(t, uint32(3), g.NumArcs())
	assert.True(t, g.HasCoordinates())
	for u := uint32(0); u < g.NumNodes(); u++ {
		start, end := g.EdgesFrom(u)
		assert.Equal(t, uint32(1), end-start, "node %d", u)
	}

	// Node ids are assigned in order of first appearance: 300, 100, 200.
	assert.Equal(t, float32(49.0), g.Latitude[0])
	assert.Equal(t, float32(8.5), g.Longitude[0])

	// Local arcs are constant, the motorway arc follows the rush hours.
	local := g.PLF(0)
	require.Equal(t, uint32(1), local.IPPCount())
	assert.Equal(t, uint32(100_000), local.IPPTravelTime(0))

	motorway := g.PLF(1)
	assert.Equal(t, uint32(len(rushHour)), motorway.IPPCount())
	assert.Equal(t, uint32(100_000), plf.Minimum(motorway))
	assert.Equal(t, uint32(180_000), plf.Maximum(motorway))
	assert.Equal(t, uint32(170_000), plf.Evaluate(motorway, 7*hour+hour/2))
}

func TestBuildEmptyGraph(t *testing.T) {
	g := Build(&osmparser.ParseResult{})
	assert.Equal(t, uint32(0), g.NumNodes())
	assert.Equal(t, uint32(0), g.NumArcs())
	assert.NoError(t, CheckCSR(g.FirstOut, g.Head))
}

func TestBuildSortsArcsBySource(t *testing.T) {
	g := Build(testParseResult())
	tails := g.Tails()
	for a := 1; a < len(tails); a++ {
		assert.LessOrEqual(t, tails[a-1], tails[a])
	}
}

func TestAppendProfileExposure(t *testing.T) {
	dep, tt := appendProfile(nil, nil, 1000, osmparser.ClassTertiary)
	require.Len(t, dep, len(rushHour))
	// Tertiary roads get 40% of the evening peak slowdown.
	assert.Equal(t, uint32(1320), tt[6])
	assert.Equal(t, uint32(1000), tt[0])
}
