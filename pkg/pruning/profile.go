package pruning

import (
	"time"

	"td_router/pkg/plf"
)

// SampleStep is the spacing of departure times in a travel time profile.
const SampleStep = 10 * 60 * 1000

// Sample is the travel time for one departure time.
type Sample struct {
	DepartureTime uint32
	TravelTime    uint32
}

// Profile is the sampled travel time function between two nodes.
type Profile struct {
	Samples  []Sample
	Duration time.Duration
}

// Found reports whether at least the first sample has a path.
func (p Profile) Found() bool { return len(p.Samples) > 0 }

// Profile runs the TD-S+P search: one pruned search per SampleStep over the
// whole period, all sharing the mask built for q. Sampling stops at the
// first departure time without a path, so Samples may be shorter than a
// full day. q.SourceTime is not used for sampling.
func (s *Session) Profile(q Query) Profile {
	start := time.Now()
	s.buildMask(q)
	w := s.mask.Restrict(s.g)

	var p Profile
	for dep := uint32(0); dep < plf.Period; dep += SampleStep {
		r := s.run(Query{Source: q.Source, SourceTime: dep, Target: q.Target}, w)
		if !r.Found {
			break
		}
		p.Samples = append(p.Samples, Sample{DepartureTime: dep, TravelTime: r.TravelTime(dep)})
	}
	p.Duration = time.Since(start)
	return p
}
