package routing

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"td_router/pkg/graph"
	"td_router/pkg/plf"
	"td_router/pkg/pruning"
	"td_router/pkg/search"
)

// ErrNoRoute is returned when no route exists between the two points.
var ErrNoRoute = errors.New("no route found")

// ErrInvalidQuery is returned for node ids or times outside the graph's
// range.
var ErrInvalidQuery = errors.New("invalid query")

// LatLng represents a geographic coordinate.
type LatLng struct {
	Lat float64
	Lng float64
}

// Location is either a node id or a coordinate to be snapped.
type Location struct {
	Node   search.OptID
	LatLng LatLng
}

// NodeLocation returns the location of node x.
func NodeLocation(x uint32) Location { return Location{Node: search.Some(x)} }

// Request is one time-dependent route query.
type Request struct {
	Source, Target Location
	DepartureTime  uint32 // ms since midnight
}

// Route is one search outcome.
type Route struct {
	Found       bool
	ArrivalTime uint32
	TravelTime  uint32
	ArcPath     []uint32
	Duration    time.Duration
}

// RouteResult is the output of a route query: the exact time-dependent
// route and the TD-S approximation of it.
type RouteResult struct {
	SourceNode    uint32
	TargetNode    uint32
	DepartureTime uint32
	SnapMeters    [2]float64
	Exact         Route
	Pruned        Route
	Geometry      []LatLng // nodes along the exact route, if known
}

// Router is the interface for route queries.
type Router interface {
	Route(ctx context.Context, req Request) (*RouteResult, error)
}

// Engine implements Router with a fixed pool of TD-S sessions. Each
// in-flight query owns one session; queries beyond the pool size wait.
type Engine struct {
	g             *graph.TDGraph
	snapper       *Snapper
	maxSnapMeters float64
	pool          chan *pruning.Session
}

// NewEngine creates poolSize sessions over g and hierarchies. Coordinate
// queries are only possible if g has coordinates.
func NewEngine(g *graph.TDGraph, hierarchies []*graph.CHGraph, poolSize int, maxSnapMeters float64) (*Engine, error) {
	if poolSize <= 0 {
		return nil, fmt.Errorf("pool size must be positive, got %d", poolSize)
	}
	e := &Engine{
		g:             g,
		maxSnapMeters: maxSnapMeters,
		pool:          make(chan *pruning.Session, poolSize),
	}
	for range poolSize {
		s, err := pruning.NewSession(g, hierarchies)
		if err != nil {
			return nil, err
		}
		e.pool <- s
	}
	if g.HasCoordinates() {
		s, err := NewSnapper(g)
		if err != nil {
			return nil, err
		}
		e.snapper = s
		log.Infof("snap index built over %d nodes", s.Len())
	}
	return e, nil
}

// Graph returns the routed graph.
func (e *Engine) Graph() *graph.TDGraph { return e.g }

// PoolSize returns the number of sessions.
func (e *Engine) PoolSize() int { return cap(e.pool) }

// resolve turns a location into a node id and the snap distance.
func (e *Engine) resolve(loc Location) (uint32, float64, error) {
	if x, ok := loc.Node.ID(); ok {
		if x >= e.g.NumNodes() {
			return 0, 0, fmt.Errorf("%w: node %d out of range", ErrInvalidQuery, x)
		}
		return x, 0, nil
	}
	if e.snapper == nil {
		return 0, 0, ErrNoCoordinates
	}
	r, err := e.snapper.Snap(loc.LatLng.Lat, loc.LatLng.Lng, e.maxSnapMeters)
	if err != nil {
		return 0, 0, err
	}
	return r.Node, r.Dist, nil
}

// Route runs the exact search and the TD-S search for req.
func (e *Engine) Route(ctx context.Context, req Request) (*RouteResult, error) {
	if req.DepartureTime > plf.Period {
		return nil, fmt.Errorf("%w: departure time %d after end of day", ErrInvalidQuery, req.DepartureTime)
	}
	res := &RouteResult{DepartureTime: req.DepartureTime}
	var err error
	if res.SourceNode, res.SnapMeters[0], err = e.resolve(req.Source); err != nil {
		return nil, err
	}
	if res.TargetNode, res.SnapMeters[1], err = e.resolve(req.Target); err != nil {
		return nil, err
	}

	var s *pruning.Session
	select {
	case s = <-e.pool:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { e.pool <- s }()

	q := pruning.Query{Source: res.SourceNode, SourceTime: req.DepartureTime, Target: res.TargetNode}
	res.Exact = route(s.Exact(q), q.SourceTime)
	if !res.Exact.Found {
		return nil, ErrNoRoute
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Pruned = route(s.Pruned(q), q.SourceTime)

	if e.g.HasCoordinates() {
		res.Geometry = e.geometry(res.SourceNode, res.Exact.ArcPath)
	}
	return res, nil
}

func route(r pruning.Result, sourceTime uint32) Route {
	out := Route{Found: r.Found, ArcPath: r.ArcPath, Duration: r.Duration}
	if r.Found {
		out.ArrivalTime = r.TargetTime
		out.TravelTime = r.TravelTime(sourceTime)
	}
	return out
}

// geometry returns the coordinates of the nodes along arcPath.
func (e *Engine) geometry(source uint32, arcPath []uint32) []LatLng {
	geom := make([]LatLng, 0, len(arcPath)+1)
	geom = append(geom, e.latLng(source))
	for _, a := range arcPath {
		geom = append(geom, e.latLng(e.g.Head[a]))
	}
	return geom
}

func (e *Engine) latLng(x uint32) LatLng {
	return LatLng{Lat: float64(e.g.Latitude[x]), Lng: float64(e.g.Longitude[x])}
}
