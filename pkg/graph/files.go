package graph

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// Files names the vector files of a TDGraph. Latitude and Longitude are
// optional.
type Files struct {
	FirstOut         string `toml:"first_out"`
	Head             string `toml:"head"`
	FirstIPPOfArc    string `toml:"first_ipp_of_arc"`
	IPPDepartureTime string `toml:"ipp_departure_time"`
	IPPTravelTime    string `toml:"ipp_travel_time"`
	Latitude         string `toml:"latitude"`
	Longitude        string `toml:"longitude"`
}

// FilesIn returns the conventional file names inside dir.
func FilesIn(dir string) Files {
	return Files{
		FirstOut:         filepath.Join(dir, "first_out"),
		Head:             filepath.Join(dir, "head"),
		FirstIPPOfArc:    filepath.Join(dir, "first_ipp_of_arc"),
		IPPDepartureTime: filepath.Join(dir, "ipp_departure_time"),
		IPPTravelTime:    filepath.Join(dir, "ipp_travel_time"),
		Latitude:         filepath.Join(dir, "latitude"),
		Longitude:        filepath.Join(dir, "longitude"),
	}
}

// Load reads the vectors named by f. It does not validate them; see
// CheckTDGraph.
func Load(f Files) (*TDGraph, error) {
	g := &TDGraph{}
	u32 := []struct {
		name string
		path string
		dst  *[]uint32
	}{
		{"first_out", f.FirstOut, &g.FirstOut},
		{"head", f.Head, &g.Head},
		{"first_ipp_of_arc", f.FirstIPPOfArc, &g.FirstIPPOfArc},
		{"ipp_departure_time", f.IPPDepartureTime, &g.IPPDepartureTime},
		{"ipp_travel_time", f.IPPTravelTime, &g.IPPTravelTime},
	}
	for _, v := range u32 {
		x, err := LoadVector[uint32](v.path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", v.name, err)
		}
		*v.dst = x
	}

	if f.Latitude != "" && f.Longitude != "" {
		lat, err := LoadVector[float32](f.Latitude)
		if err != nil {
			return nil, fmt.Errorf("load latitude: %w", err)
		}
		lon, err := LoadVector[float32](f.Longitude)
		if err != nil {
			return nil, fmt.Errorf("load longitude: %w", err)
		}
		g.Latitude, g.Longitude = lat, lon
	}

	log.WithFields(log.Fields{
		"nodes": g.NumNodes(),
		"arcs":  g.NumArcs(),
		"ipps":  g.NumIPPs(),
	}).Debug("graph loaded")
	return g, nil
}

// Save writes g to the files named by f. Coordinates are written only if
// g has them.
func Save(f Files, g *TDGraph) error {
	u32 := []struct {
		name string
		path string
		v    []uint32
	}{
		{"first_out", f.FirstOut, g.FirstOut},
		{"head", f.Head, g.Head},
		{"first_ipp_of_arc", f.FirstIPPOfArc, g.FirstIPPOfArc},
		{"ipp_departure_time", f.IPPDepartureTime, g.IPPDepartureTime},
		{"ipp_travel_time", f.IPPTravelTime, g.IPPTravelTime},
	}
	for _, v := range u32 {
		if err := SaveVector(v.path, v.v); err != nil {
			return fmt.Errorf("save %s: %w", v.name, err)
		}
	}
	if g.HasCoordinates() {
		if err := SaveVector(f.Latitude, g.Latitude); err != nil {
			return fmt.Errorf("save latitude: %w", err)
		}
		if err := SaveVector(f.Longitude, g.Longitude); err != nil {
			return fmt.Errorf("save longitude: %w", err)
		}
	}
	return nil
}
