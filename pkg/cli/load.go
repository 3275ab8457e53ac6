package cli

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"td_router/pkg/ch"
	"td_router/pkg/config"
	"td_router/pkg/graph"
	"td_router/pkg/plf"
)

// inputs names the files a query driver or the server reads.
type inputs struct {
	files    graph.Files
	cchOrder string
	chFiles  []string
}

// inputsFromArgs reads the positional form
// first_out head first_ipp_of_arc ipp_departure_time ipp_travel_time [cch_order] ch_file...
func inputsFromArgs(args []string, withOrder bool) inputs {
	in := inputs{files: graph.Files{
		FirstOut:         args[0],
		Head:             args[1],
		FirstIPPOfArc:    args[2],
		IPPDepartureTime: args[3],
		IPPTravelTime:    args[4],
	}}
	rest := args[5:]
	if withOrder {
		in.cchOrder, rest = rest[0], rest[1:]
	}
	in.chFiles = rest
	return in
}

func inputsFromConfig(cfg *config.Config) inputs {
	return inputs{
		files:    cfg.Graph.Files,
		cchOrder: cfg.Graph.CCHOrder,
		chFiles:  cfg.Graph.TimeWindowCH,
	}
}

type loaded struct {
	g           *graph.TDGraph
	hierarchies []*graph.CHGraph
	order       []uint32
}

// load reads and validates everything in. Progress goes to w.
func (in inputs) load(w io.Writer) (*loaded, error) {
	l := &loaded{}
	err := step(w, "Loading", func() (err error) {
		if l.g, err = graph.Load(in.files); err != nil {
			return err
		}
		for _, path := range in.chFiles {
			chg, err := graph.ReadCH(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			l.hierarchies = append(l.hierarchies, chg)
		}
		if in.cchOrder != "" {
			l.order, err = graph.LoadVector[uint32](in.cchOrder)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	err = step(w, "Validity tests", func() error {
		if err := graph.CheckTDGraph(plf.Period, l.g); err != nil {
			return err
		}
		if err := ch.CheckNodeCount(l.g.NumNodes(), l.hierarchies...); err != nil {
			return err
		}
		if in.cchOrder != "" {
			if err := graph.CheckOrder(l.order, l.g.NumNodes()); err != nil {
				return fmt.Errorf("cch order: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"nodes":       l.g.NumNodes(),
		"arcs":        l.g.NumArcs(),
		"ipps":        l.g.NumIPPs(),
		"hierarchies": len(l.hierarchies),
	}).Info("inputs loaded")
	return l, nil
}
