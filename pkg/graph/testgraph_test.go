package graph

import (
	"github.com/paulmach/osm"

	osmparser "td_router/pkg/osm"
)

// squareGraph is a bidirectional square with one time-dependent arc:
//
//	0 <--> 1
//	^      ^
//	v      v
//	3 <--> 2
//
// Arc 0 (0 -> 1) costs 100 at midnight and 200 at noon, every other arc
// costs 1000 all day.
func squareGraph() *TDGraph {
	return &TDGraph{
		FirstOut: []uint32{0, 2, 4, 6, 8},
		Head:     []uint32{1, 3, 0, 2, 1, 3, 2, 0},
		FirstIPPOfArc: []uint32{
			0, 2, 3, 4, 5, 6, 7, 8, 9,
		},
		IPPDepartureTime: []uint32{0, 43_200_000, 0, 0, 0, 0, 0, 0, 0},
		IPPTravelTime:    []uint32{100, 200, 1000, 1000, 1000, 1000, 1000, 1000, 1000},
	}
}

func testParseResult() *osmparser.ParseResult {
	return &osmparser.ParseResult{
		Edges: []osmparser.RawEdge{
			{FromNodeID: 300, ToNodeID: 100, LengthMM: 1_000_000, Class: osmparser.ClassLocal, SpeedKMH: 36},
			{FromNodeID: 100, ToNodeID: 200, LengthMM: 1_000_000, Class: osmparser.ClassMotorway, SpeedKMH: 36},
			{FromNodeID: 200, ToNodeID: 300, LengthMM: 2_000_000, Class: osmparser.ClassLocal, SpeedKMH: 72},
		},
		NodeLat: map[osm.NodeID]float64{100: 49.0, 200: 49.1, 300: 49.0},
		NodeLon: map[osm.NodeID]float64{100: 8.4, 200: 8.4, 300: 8.5},
	}
}
