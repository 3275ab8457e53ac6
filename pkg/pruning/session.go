// Package pruning speeds up time-dependent searches by restricting them to
// the union of a few static shortest paths. Each static path comes from a
// contraction hierarchy built for one time window's weights; the dynamic
// variant adds the path of a customizable hierarchy that knows about the
// current congestion.
//
// The restriction is a heuristic: if the time-dependent optimum leaves all
// candidate paths, the pruned result is worse than the exact one or missing.
package pruning

import (
	"errors"
	"time"

	"td_router/pkg/ch"
	"td_router/pkg/graph"
	"td_router/pkg/search"
)

// ErrNoHierarchy is returned when a session is created without any time
// window hierarchy.
var ErrNoHierarchy = errors.New("no time window hierarchy")

// Query is one source/target pair with a departure time in milliseconds
// since midnight.
type Query struct {
	Source     uint32
	SourceTime uint32
	Target     uint32
}

// Result is the outcome of one search. No path is a valid outcome with
// Found set to false.
type Result struct {
	Found      bool
	TargetTime uint32
	ArcPath    []uint32
	Duration   time.Duration
}

// TravelTime returns the time spent between departure and arrival.
func (r Result) TravelTime(sourceTime uint32) uint32 { return r.TargetTime - sourceTime }

// Session holds the reusable state of TD-S queries on one graph. A session
// must not be used by more than one goroutine at a time.
type Session struct {
	g           *graph.TDGraph
	hierarchies []*graph.CHGraph

	dij  *search.Dijkstra
	chq  *ch.Query
	mask *Mask
}

// NewSession prepares TD-S queries on g pruned by hierarchies, one per time
// window. All hierarchies must cover every node of g.
func NewSession(g *graph.TDGraph, hierarchies []*graph.CHGraph) (*Session, error) {
	if len(hierarchies) == 0 {
		return nil, ErrNoHierarchy
	}
	if err := ch.CheckNodeCount(g.NumNodes(), hierarchies...); err != nil {
		return nil, err
	}
	return &Session{
		g:           g,
		hierarchies: hierarchies,
		dij:         search.NewDijkstra(g.FirstOut, g.Head),
		chq:         ch.NewQuery(hierarchies[0]),
		mask:        NewMask(g.NumArcs()),
	}, nil
}

// Graph returns the graph the session searches.
func (s *Session) Graph() *graph.TDGraph { return s.g }

// NumWindows returns the number of time window hierarchies.
func (s *Session) NumWindows() int { return len(s.hierarchies) }

// run searches from q.Source to q.Target under w and collects the result.
func (s *Session) run(q Query, w search.WeightFunc) Result {
	s.dij.Run(q.Source, q.SourceTime, q.Target, w)
	r := Result{TargetTime: s.dij.DistanceTo(q.Target)}
	if r.TargetTime != search.InfWeight {
		r.Found = true
		r.ArcPath = s.dij.ArcPathTo(q.Target)
	}
	return r
}

// Exact runs the unrestricted time-dependent search.
func (s *Session) Exact(q Query) Result {
	start := time.Now()
	r := s.run(q, s.g)
	r.Duration = time.Since(start)
	return r
}

// buildMask replaces the mask by the union of the window hierarchies'
// shortest paths, followed by extra.
func (s *Session) buildMask(q Query, extra ...[]uint32) {
	s.mask.Reset()
	for _, h := range s.hierarchies {
		s.mask.Add(s.chq.Reset(h).AddSource(q.Source).AddTarget(q.Target).Run().ArcPath())
	}
	for _, p := range extra {
		s.mask.Add(p)
	}
}

// Pruned runs the TD-S search: the time-dependent search restricted to the
// arcs of the window hierarchies' shortest paths. The duration includes the
// hierarchy queries.
func (s *Session) Pruned(q Query) Result {
	start := time.Now()
	s.buildMask(q)
	r := s.run(q, s.mask.Restrict(s.g))
	r.Duration = time.Since(start)
	return r
}

// Mask returns the allowed arcs of the last pruned search.
func (s *Session) Mask() *Mask { return s.mask }

// SettledCount returns the number of nodes settled by the last search.
func (s *Session) SettledCount() int { return s.dij.SettledCount() }
