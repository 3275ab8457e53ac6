// Package osm extracts a directed car network from an OSM PBF extract.
package osm

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	log "github.com/sirupsen/logrus"

	"td_router/pkg/geo"
)

// RoadClass groups highway tag values that share a speed and a daily
// congestion pattern.
type RoadClass uint8

const (
	ClassMotorway RoadClass = iota
	ClassTrunk
	ClassPrimary
	ClassSecondary
	ClassTertiary
	ClassLocal
)

func (c RoadClass) String() string {
	switch c {
	case ClassMotorway:
		return "motorway"
	case ClassTrunk:
		return "trunk"
	case ClassPrimary:
		return "primary"
	case ClassSecondary:
		return "secondary"
	case ClassTertiary:
		return "tertiary"
	default:
		return "local"
	}
}

// DefaultSpeed is the free-flow speed in km/h assumed when a way has no
// usable maxspeed tag.
func (c RoadClass) DefaultSpeed() float64 {
	switch c {
	case ClassMotorway:
		return 120
	case ClassTrunk:
		return 100
	case ClassPrimary:
		return 80
	case ClassSecondary:
		return 70
	case ClassTertiary:
		return 50
	default:
		return 30
	}
}

// RawEdge is a directed road segment between two OSM nodes.
type RawEdge struct {
	FromNodeID osm.NodeID
	ToNodeID   osm.NodeID
	LengthMM   uint32
	Class      RoadClass
	SpeedKMH   float64
}

// ParseResult holds the output of parsing an OSM PBF file.
type ParseResult struct {
	Edges   []RawEdge
	NodeLat map[osm.NodeID]float64
	NodeLon map[osm.NodeID]float64
}

// carHighways maps highway tag values accessible by car to their class.
var carHighways = map[string]RoadClass{
	"motorway":       ClassMotorway,
	"motorway_link":  ClassMotorway,
	"trunk":          ClassTrunk,
	"trunk_link":     ClassTrunk,
	"primary":        ClassPrimary,
	"primary_link":   ClassPrimary,
	"secondary":      ClassSecondary,
	"secondary_link": ClassSecondary,
	"tertiary":       ClassTertiary,
	"tertiary_link":  ClassTertiary,
	"unclassified":   ClassLocal,
	"residential":    ClassLocal,
	"living_street":  ClassLocal,
	"service":        ClassLocal,
}

// roadClass returns the class of a car accessible way.
func roadClass(tags osm.Tags) (RoadClass, bool) {
	c, ok := carHighways[tags.Find("highway")]
	if !ok {
		return 0, false
	}
	if tags.Find("area") == "yes" {
		return 0, false
	}
	switch tags.Find("access") {
	case "no", "private":
		return 0, false
	}
	if tags.Find("motor_vehicle") == "no" {
		return 0, false
	}
	return c, true
}

// directionFlags returns (forward, backward) based on highway type and
// oneway tags.
func directionFlags(tags osm.Tags) (forward, backward bool) {
	forward, backward = true, true

	hw := tags.Find("highway")
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		backward = false
	}

	switch tags.Find("oneway") {
	case "yes", "true", "1":
		forward, backward = true, false
	case "-1", "reverse":
		forward, backward = false, true
	case "no":
		forward, backward = true, true
	case "reversible":
		// Direction changes over the day and is not tagged with a schedule.
		forward, backward = false, false
	}
	return forward, backward
}

// parseMaxSpeed reads a maxspeed tag in km/h. Plain numbers and the "mph"
// suffix are understood; symbolic values such as "none" or "DE:urban" are
// not.
func parseMaxSpeed(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	factor := 1.0
	if s, ok := strings.CutSuffix(v, "mph"); ok {
		v = strings.TrimSpace(s)
		factor = 1.609344
	}
	speed, err := strconv.ParseFloat(v, 64)
	if err != nil || speed <= 0 || math.IsInf(speed, 0) || math.IsNaN(speed) {
		return 0, false
	}
	return speed * factor, true
}

func waySpeed(tags osm.Tags, c RoadClass) float64 {
	if s, ok := parseMaxSpeed(tags.Find("maxspeed")); ok {
		return s
	}
	return c.DefaultSpeed()
}

type wayInfo struct {
	NodeIDs  []osm.NodeID
	Forward  bool
	Backward bool
	Class    RoadClass
	Speed    float64
}

// BBox defines a geographic bounding box for filtering.
// If non-zero, only edges with both endpoints inside the box are kept.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains returns true if the point is inside the bounding box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// ParseOptions configures the OSM parser.
type ParseOptions struct {
	BBox BBox
}

// Parse reads an OSM PBF file and returns directed edges for car routing.
// The reader is consumed twice, ways first and nodes second, so it must be
// seekable.
func Parse(ctx context.Context, rs io.ReadSeeker, opt ParseOptions) (*ParseResult, error) {
	referencedNodes := make(map[osm.NodeID]struct{})
	var ways []wayInfo

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok || len(w.Nodes) < 2 {
			continue
		}
		class, ok := roadClass(w.Tags)
		if !ok {
			continue
		}
		fwd, bwd := directionFlags(w.Tags)
		if !fwd && !bwd {
			continue
		}

		nodeIDs := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			nodeIDs[i] = wn.ID
			referencedNodes[wn.ID] = struct{}{}
		}
		ways = append(ways, wayInfo{
			NodeIDs:  nodeIDs,
			Forward:  fwd,
			Backward: bwd,
			Class:    class,
			Speed:    waySpeed(w.Tags, class),
		})
	}
	err := scanner.Err()
	scanner.Close()
	if err != nil {
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	log.Debugf("pass 1 complete: %d ways, %d referenced nodes", len(ways), len(referencedNodes))

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	nodeLat := make(map[osm.NodeID]float64, len(referencedNodes))
	nodeLon := make(map[osm.NodeID]float64, len(referencedNodes))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referencedNodes[n.ID]; !needed {
			continue
		}
		nodeLat[n.ID] = n.Lat
		nodeLon[n.ID] = n.Lon
	}
	err = scanner.Err()
	scanner.Close()
	if err != nil {
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	log.Debugf("pass 2 complete: %d node coordinates collected", len(nodeLat))

	result := &ParseResult{NodeLat: nodeLat, NodeLon: nodeLon}
	var skipped, filtered int
	for _, w := range ways {
		s, f := result.addWay(w, opt.BBox)
		skipped += s
		filtered += f
	}

	if skipped > 0 {
		log.Warnf("skipped %d segments with missing node coordinates", skipped)
	}
	if filtered > 0 {
		log.Infof("filtered %d segments outside bounding box", filtered)
	}
	log.Infof("built %d directed edges", len(result.Edges))
	return result, nil
}

// addWay appends the segments of w. It returns the number of segments
// skipped for missing coordinates and filtered by bbox.
func (r *ParseResult) addWay(w wayInfo, bbox BBox) (skipped, filtered int) {
	for i := 0; i+1 < len(w.NodeIDs); i++ {
		fromID, toID := w.NodeIDs[i], w.NodeIDs[i+1]
		fromLat, fromOk := r.NodeLat[fromID]
		toLat, toOk := r.NodeLat[toID]
		if !fromOk || !toOk {
			skipped++
			continue
		}
		fromLon, toLon := r.NodeLon[fromID], r.NodeLon[toID]
		if !bbox.IsZero() && (!bbox.Contains(fromLat, fromLon) || !bbox.Contains(toLat, toLon)) {
			filtered++
			continue
		}

		length := uint32(math.Round(geo.Haversine(fromLat, fromLon, toLat, toLon) * 1000))
		length = max(length, 1)

		if w.Forward {
			r.Edges = append(r.Edges, RawEdge{FromNodeID: fromID, ToNodeID: toID, LengthMM: length, Class: w.Class, SpeedKMH: w.Speed})
		}
		if w.Backward {
			r.Edges = append(r.Edges, RawEdge{FromNodeID: toID, ToNodeID: fromID, LengthMM: length, Class: w.Class, SpeedKMH: w.Speed})
		}
	}
	return skipped, filtered
}
