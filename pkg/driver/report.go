package driver

import (
	"fmt"
	"io"

	"td_router/pkg/pruning"
)

func writeHeader(w io.Writer, q pruning.Query) {
	fmt.Fprintf(w, "source node : %d\n", q.Source)
	fmt.Fprintf(w, "source time [ms since midnight] : %d\n", q.SourceTime)
	fmt.Fprintf(w, "target node : %d\n", q.Target)
}

func writeTiming(w io.Writer, label string, musec int64) {
	fmt.Fprintf(w, "%s [musec] : %d\n", label, musec)
}

// writeRoute writes the arrival, travel time and arc path of r.
func writeRoute(w io.Writer, label string, sourceTime, targetTime uint32, arcPath []uint32) {
	fmt.Fprintf(w, "%s target time [ms since midnight] : %d\n", label, targetTime)
	fmt.Fprintf(w, "%s travel time [ms since midnight] : %d\n", label, targetTime-sourceTime)
	fmt.Fprintf(w, "%s arc path :", label)
	for _, a := range arcPath {
		fmt.Fprintf(w, " %d", a)
	}
	fmt.Fprintln(w)
}

func writeResult(w io.Writer, label string, sourceTime uint32, r pruning.Result) {
	if !r.Found {
		fmt.Fprintf(w, "%s : No path\n", label)
		return
	}
	writeRoute(w, label, sourceTime, r.TargetTime, r.ArcPath)
}

// TDS reports the exact search and the TD-S search.
type TDS struct {
	Session *pruning.Session
}

func (h TDS) Handle(w io.Writer, q pruning.Query) error {
	exact := h.Session.Exact(q)
	pruned := h.Session.Pruned(q)

	writeHeader(w, q)
	writeTiming(w, "Dijkstra running time", exact.Duration.Microseconds())
	writeTiming(w, "TD-S query running time", pruned.Duration.Microseconds())
	if !exact.Found {
		fmt.Fprintln(w, "No path")
		return nil
	}
	writeResult(w, "Exact", q.SourceTime, exact)
	writeResult(w, "TD-S", q.SourceTime, pruned)
	return nil
}

// TDSD reports the congested exact search, the predicted path and the
// TD-S+D search.
type TDSD struct {
	Session *pruning.DynamicSession
}

func (h TDSD) Handle(w io.Writer, q pruning.Query) error {
	res, err := h.Session.Run(q)
	if err != nil {
		return err
	}

	writeHeader(w, q)
	writeTiming(w, "Dijkstra baseline running time", res.Exact.Duration.Microseconds())
	writeTiming(w, "TD-S+D query running time", res.Pruned.Duration.Microseconds())
	writeTiming(w, "CCH update time", res.CCHUpdate.Microseconds())
	if !res.Exact.Found {
		fmt.Fprintln(w, "No path")
		return nil
	}
	writeResult(w, "Exact", q.SourceTime, res.Exact)
	writeRoute(w, "Predicted Path", q.SourceTime, res.PredictedPathArrival, res.Predicted.ArcPath)
	writeResult(w, "TD-S+D", q.SourceTime, res.Pruned)
	return nil
}

// TDSP reports the TD-S travel time profile as CSV.
type TDSP struct {
	Session *pruning.Session
}

func (h TDSP) Handle(w io.Writer, q pruning.Query) error {
	p := h.Session.Profile(q)

	writeHeader(w, q)
	writeTiming(w, "query running time", p.Duration.Microseconds())
	if !p.Found() {
		fmt.Fprintln(w, "No path")
		return nil
	}
	fmt.Fprintln(w, "departure_time,travel_time")
	for _, s := range p.Samples {
		fmt.Fprintf(w, "%d,%d\n", s.DepartureTime, s.TravelTime)
	}
	fmt.Fprintln(w)
	return nil
}
