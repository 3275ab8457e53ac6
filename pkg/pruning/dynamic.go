package pruning

import (
	"fmt"
	"time"

	"td_router/pkg/ch"
	"td_router/pkg/congestion"
	"td_router/pkg/graph"
	"td_router/pkg/plf"
)

// DynamicResult is the outcome of one TD-S+D query.
type DynamicResult struct {
	// Predicted is the exact search without congestion.
	Predicted Result
	// PredictedPathArrival is the arrival time when following the
	// predicted path through the congestion.
	PredictedPathArrival uint32
	// Exact is the unrestricted search with congestion.
	Exact Result
	// Pruned is the TD-S+D search with congestion.
	Pruned Result
	// CCHUpdate is the time spent recomputing weights and customizing.
	CCHUpdate time.Duration
}

// DynamicSession holds the reusable state of TD-S+D queries. Besides the
// window hierarchies, it keeps a customizable hierarchy whose metric
// follows the current congestion.
type DynamicSession struct {
	*Session

	model   *congestion.Model
	metric  *ch.Metric
	cchq    *ch.CCHQuery
	current []uint32
}

// NewDynamicSession prepares TD-S+D queries. order is the contraction
// order of the customizable hierarchy.
func NewDynamicSession(g *graph.TDGraph, hierarchies []*graph.CHGraph, order []uint32) (*DynamicSession, error) {
	s, err := NewSession(g, hierarchies)
	if err != nil {
		return nil, err
	}
	if err := graph.CheckOrder(order, g.NumNodes()); err != nil {
		return nil, fmt.Errorf("cch order: %w", err)
	}
	c, err := ch.BuildCCH(order, g.FirstOut, g.Head)
	if err != nil {
		return nil, err
	}
	freeFlow := plf.MinWeights(plf.Period, g.FirstIPPOfArc, g.IPPDepartureTime, g.IPPTravelTime)
	metric := ch.NewMetric(c)
	return &DynamicSession{
		Session: s,
		model:   congestion.NewModel(g, freeFlow),
		metric:  metric,
		cchq:    ch.NewCCHQuery(metric),
	}, nil
}

// Model returns the congestion model. Its state is only meaningful during
// Run.
func (s *DynamicSession) Model() *congestion.Model { return s.model }

// Run answers one TD-S+D query. Congestion is injected along the predicted
// path, seeded with the departure time, and removed again before Run
// returns.
func (s *DynamicSession) Run(q Query) (DynamicResult, error) {
	var res DynamicResult
	s.model.SetNow(q.SourceTime)
	defer s.model.Clear()

	res.Predicted = s.Exact(q)
	s.model.Inject(q.SourceTime, res.Predicted.ArcPath)

	start := time.Now()
	s.current = s.model.CurrentWeights(s.current)
	if err := s.metric.Customize(s.current); err != nil {
		return res, err
	}
	res.CCHUpdate = time.Since(start)

	start = time.Now()
	res.Exact = s.run(q, s.model)
	res.Exact.Duration = time.Since(start)

	res.PredictedPathArrival = congestion.ArrivalAlong(s.model, q.SourceTime, res.Predicted.ArcPath)

	start = time.Now()
	cchPath := s.cchq.Reset().AddSource(q.Source).AddTarget(q.Target).Run().ArcPath()
	s.buildMask(q, cchPath)
	res.Pruned = s.run(q, s.mask.Restrict(s.model))
	res.Pruned.Duration = time.Since(start)
	return res, nil
}
