package cli

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"td_router/pkg/ch"
	"td_router/pkg/graph"
)

func newContractCmd() *cobra.Command {
	var orderOut string
	cmd := &cobra.Command{
		Use:   "contract first_out head weight_file ch_file",
		Short: "Build a contraction hierarchy from a static weight vector",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			g := &graph.TDGraph{}
			var weight []uint32
			var err error
			if g.FirstOut, err = graph.LoadVector[uint32](args[0]); err != nil {
				return err
			}
			if g.Head, err = graph.LoadVector[uint32](args[1]); err != nil {
				return err
			}
			if weight, err = graph.LoadVector[uint32](args[2]); err != nil {
				return err
			}
			if err := graph.CheckCSR(g.FirstOut, g.Head); err != nil {
				return err
			}
			log.Infof("contracting %d nodes, %d arcs", g.NumNodes(), g.NumArcs())

			chg, err := ch.Contract(g, weight)
			if err != nil {
				return err
			}
			if err := graph.WriteCH(args[3], chg); err != nil {
				return err
			}
			if orderOut != "" {
				if err := graph.SaveVector(orderOut, chg.Order()); err != nil {
					return err
				}
				log.Infof("contraction order written to %s", orderOut)
			}

			if info, err := os.Stat(args[3]); err == nil {
				log.Infof("done in %s, %s is %.1f MB",
					time.Since(start).Round(time.Millisecond), args[3], float64(info.Size())/(1024*1024))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&orderOut, "order-out", "", "also write the contraction order as a node order vector")
	return cmd
}
