package graph

import (
	"cmp"
	"slices"

	"github.com/paulmach/osm"

	"td_router/pkg/geo"
	osmparser "td_router/pkg/osm"
)

const hour = 60 * 60 * 1000

// rushHour is the slowdown over the day of a road that is fully exposed to
// commuter traffic, in per mille of the free-flow travel time.
var rushHour = []struct {
	at     uint32
	factor uint32
}{
	{0, 1000},
	{6 * hour, 1000},
	{7*hour + hour/2, 1700},
	{9 * hour, 1200},
	{12 * hour, 1150},
	{16 * hour, 1300},
	{17*hour + hour/2, 1800},
	{19 * hour, 1200},
	{22 * hour, 1000},
}

// exposure is how strongly a road class follows rushHour, in per mille.
// Local roads keep their free-flow time all day.
func exposure(c osmparser.RoadClass) uint32 {
	switch c {
	case osmparser.ClassMotorway:
		return 1000
	case osmparser.ClassTrunk:
		return 900
	case osmparser.ClassPrimary:
		return 800
	case osmparser.ClassSecondary:
		return 600
	case osmparser.ClassTertiary:
		return 400
	default:
		return 0
	}
}

// appendProfile appends the IPPs of an arc with the given free-flow travel
// time and road class.
func appendProfile(dep, tt []uint32, freeFlow uint32, c osmparser.RoadClass) ([]uint32, []uint32) {
	e := exposure(c)
	if e == 0 {
		return append(dep, 0), append(tt, freeFlow)
	}
	for _, p := range rushHour {
		slowdown := 1000 + uint64(e)*uint64(p.factor-1000)/1000
		dep = append(dep, p.at)
		tt = append(tt, uint32(uint64(freeFlow)*slowdown/1000))
	}
	return dep, tt
}

// Build creates a TDGraph from parsed OSM edges. Every arc gets a synthetic
// daily travel time profile derived from its length, speed and road class.
func Build(result *osmparser.ParseResult) *TDGraph {
	edges := result.Edges
	if len(edges) == 0 {
		return &TDGraph{FirstOut: []uint32{0}, FirstIPPOfArc: []uint32{0}}
	}

	nodeSet := make(map[osm.NodeID]uint32)
	var nodeIDs []osm.NodeID
	addNode := func(id osm.NodeID) uint32 {
		if idx, ok := nodeSet[id]; ok {
			return idx
		}
		idx := uint32(len(nodeIDs))
		nodeSet[id] = idx
		nodeIDs = append(nodeIDs, id)
		return idx
	}
	for i := range edges {
		addNode(edges[i].FromNodeID)
		addNode(edges[i].ToNodeID)
	}
	numNodes := uint32(len(nodeIDs))

	type compactEdge struct {
		from, to uint32
		freeFlow uint32
		class    osmparser.RoadClass
	}
	compact := make([]compactEdge, len(edges))
	for i, e := range edges {
		compact[i] = compactEdge{
			from:     nodeSet[e.FromNodeID],
			to:       nodeSet[e.ToNodeID],
			freeFlow: geo.TravelTimeMillis(e.LengthMM, e.SpeedKMH),
			class:    e.Class,
		}
	}
	slices.SortStableFunc(compact, func(a, b compactEdge) int {
		return cmp.Or(cmp.Compare(a.from, b.from), cmp.Compare(a.to, b.to))
	})

	g := &TDGraph{
		FirstOut:      make([]uint32, numNodes+1),
		Head:          make([]uint32, len(compact)),
		FirstIPPOfArc: make([]uint32, len(compact)+1),
	}
	for i, e := range compact {
		g.FirstOut[e.from+1]++
		g.Head[i] = e.to
		g.FirstIPPOfArc[i] = uint32(len(g.IPPDepartureTime))
		g.IPPDepartureTime, g.IPPTravelTime = appendProfile(g.IPPDepartureTime, g.IPPTravelTime, e.freeFlow, e.class)
	}
	g.FirstIPPOfArc[len(compact)] = uint32(len(g.IPPDepartureTime))
	for i := uint32(1); i <= numNodes; i++ {
		g.FirstOut[i] += g.FirstOut[i-1]
	}

	g.Latitude = make([]float32, numNodes)
	g.Longitude = make([]float32, numNodes)
	for id, idx := range nodeSet {
		g.Latitude[idx] = float32(result.NodeLat[id])
		g.Longitude[idx] = float32(result.NodeLon[id])
	}
	return g
}
