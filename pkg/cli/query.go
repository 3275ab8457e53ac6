package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"td_router/pkg/config"
	"td_router/pkg/driver"
	"td_router/pkg/pruning"
)

const graphArgs = "first_out head first_ipp_of_arc ipp_departure_time ipp_travel_time"

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Answer source/time/target triples read from stdin",
	}
	cmd.AddCommand(
		newDriverCmd("td-s", graphArgs+" ch_file...", "Exact search and TD-S search per query", false,
			func(l *loaded) (driver.Handler, error) {
				s, err := pruning.NewSession(l.g, l.hierarchies)
				return driver.TDS{Session: s}, err
			}),
		newDriverCmd("td-s-d", graphArgs+" cch_order ch_file...", "Congested exact search and TD-S+D search per query", true,
			func(l *loaded) (driver.Handler, error) {
				s, err := pruning.NewDynamicSession(l.g, l.hierarchies, l.order)
				return driver.TDSD{Session: s}, err
			}),
		newDriverCmd("td-s-p", graphArgs+" ch_file...", "TD-S travel time profile per query", false,
			func(l *loaded) (driver.Handler, error) {
				s, err := pruning.NewSession(l.g, l.hierarchies)
				return driver.TDSP{Session: s}, err
			}),
	)
	return cmd
}

// newDriverCmd builds one query driver. Inputs come either from the
// positional arguments or from a session file given with --config.
func newDriverCmd(name, argsUse, short string, withOrder bool, newHandler func(*loaded) (driver.Handler, error)) *cobra.Command {
	var configPath string
	minArgs := 6
	if withOrder {
		minArgs = 7
	}
	cmd := &cobra.Command{
		Use:   name + " " + argsUse,
		Short: short,
		Args: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(minArgs)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var in inputs
			if configPath != "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				in = inputsFromConfig(cfg)
				if withOrder && in.cchOrder == "" {
					return fmt.Errorf("%w: graph.cch_order is not set", config.ErrIncomplete)
				}
				if !withOrder {
					in.cchOrder = ""
				}
			} else {
				in = inputsFromArgs(args, withOrder)
			}

			l, err := in.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			h, err := newHandler(l)
			if err != nil {
				return err
			}
			return driver.Loop(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), l.g.NumNodes(), h)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "session file naming the inputs")
	return cmd
}
