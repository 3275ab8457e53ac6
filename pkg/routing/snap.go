package routing

import (
	"errors"
	"math"

	"github.com/tidwall/rtree"

	"td_router/pkg/geo"
	"td_router/pkg/graph"
)

// ErrPointTooFar is returned when no node lies within the snap radius.
var ErrPointTooFar = errors.New("point too far from road")

// ErrNoCoordinates is returned when snapping on a graph without node
// coordinates.
var ErrNoCoordinates = errors.New("graph has no coordinates")

// SnapResult is a query point moved onto the nearest node.
type SnapResult struct {
	Node uint32
	Dist float64 // meters
}

// Snapper finds the nearest node of a graph. Nodes are indexed as points
// in an R-tree keyed by (lon, lat).
type Snapper struct {
	tr  rtree.RTreeG[uint32]
	lat []float32
	lon []float32
}

// NewSnapper indexes every node of g. Nodes without any arc are skipped,
// since a route can neither start nor end there.
func NewSnapper(g *graph.TDGraph) (*Snapper, error) {
	if !g.HasCoordinates() {
		return nil, ErrNoCoordinates
	}
	s := &Snapper{lat: g.Latitude, lon: g.Longitude}
	hasArc := make([]bool, g.NumNodes())
	for x := uint32(0); x < g.NumNodes(); x++ {
		start, end := g.EdgesFrom(x)
		if start < end {
			hasArc[x] = true
		}
		for a := start; a < end; a++ {
			hasArc[g.Head[a]] = true
		}
	}
	for x, ok := range hasArc {
		if !ok {
			continue
		}
		p := [2]float64{float64(g.Longitude[x]), float64(g.Latitude[x])}
		s.tr.Insert(p, p, uint32(x))
	}
	return s, nil
}

// Len returns the number of indexed nodes.
func (s *Snapper) Len() int { return s.tr.Len() }

// Snap returns the node closest to (lat, lng) within maxMeters.
func (s *Snapper) Snap(lat, lng, maxMeters float64) (SnapResult, error) {
	minLat, minLon, maxLat, maxLon := geo.Box(lat, lng, maxMeters)

	best, bestRank := SnapResult{}, math.Inf(1)
	s.tr.Search([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat},
		func(_, _ [2]float64, x uint32) bool {
			d := geo.EquirectangularDist(lat, lng, float64(s.lat[x]), float64(s.lon[x]))
			if d < bestRank || (d == bestRank && x < best.Node) {
				best.Node, bestRank = x, d
			}
			return true
		})
	if math.IsInf(bestRank, 1) {
		return SnapResult{}, ErrPointTooFar
	}

	best.Dist = geo.Haversine(lat, lng, float64(s.lat[best.Node]), float64(s.lon[best.Node]))
	if best.Dist > maxMeters {
		return SnapResult{}, ErrPointTooFar
	}
	return best, nil
}
