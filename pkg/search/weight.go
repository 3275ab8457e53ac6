package search

import "math"

// InfWeight marks an arc that must not be relaxed. Arrival times and
// distances at or above it are treated as unreachable.
const InfWeight uint32 = math.MaxInt32

// WeightFunc returns the travel time of arc when entering it at
// arrivalTime, or InfWeight if the arc is unusable.
//
// A WeightFunc is built per query and may capture whatever state the query
// needs (a mask, congestion flags, a snapshot of now). It must return the
// same value for the same arguments for the duration of one run.
type WeightFunc interface {
	Weight(arc, arrivalTime uint32) uint32
}

// WeightFuncOf adapts an ordinary function to WeightFunc.
type WeightFuncOf func(arc, arrivalTime uint32) uint32

func (f WeightFuncOf) Weight(arc, arrivalTime uint32) uint32 { return f(arc, arrivalTime) }

// StaticWeight ignores the time and looks the weight up in a vector.
type StaticWeight []uint32

func (w StaticWeight) Weight(arc, _ uint32) uint32 { return w[arc] }
