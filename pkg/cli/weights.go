package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"td_router/pkg/graph"
	"td_router/pkg/plf"
)

// deriveFunc turns the IPP arrays of a graph into one weight per arc.
type deriveFunc func(firstIPPOfArc, ippDepartureTime, ippTravelTime []uint32) []uint32

const ippArgs = "first_ipp_of_arc ipp_departure_time ipp_travel_time weight_file"

func newFreeflowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "freeflow " + ippArgs,
		Short: "Write the minimum travel time of every arc",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deriveWeights(cmd.OutOrStdout(), args, func(first, dep, tt []uint32) []uint32 {
				return plf.MinWeights(plf.Period, first, dep, tt)
			})
		},
	}
}

func newMaxWeightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "maxweight " + ippArgs,
		Short: "Write the maximum travel time of every arc",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deriveWeights(cmd.OutOrStdout(), args, func(first, dep, tt []uint32) []uint32 {
				return plf.MaxWeights(plf.Period, first, dep, tt)
			})
		},
	}
}

func newWindowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "window bucket_begin bucket_end " + ippArgs,
		Short: "Write the average travel time of every arc over [bucket_begin, bucket_end)",
		Args:  cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			begin, err := parseTime("bucket begin", args[0])
			if err != nil {
				return err
			}
			end, err := parseTime("bucket end", args[1])
			if err != nil {
				return err
			}
			if begin >= end {
				return errors.New("bucket begin must be before bucket end")
			}
			if end > plf.Period {
				return errors.New("bucket end must be smaller than the period")
			}
			return deriveWeights(cmd.OutOrStdout(), args[2:], func(first, dep, tt []uint32) []uint32 {
				return plf.TimeWindowAvgWeights(begin, end, plf.Period, first, dep, tt)
			})
		},
	}
}

func newTimePointCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timepoint time " + ippArgs,
		Short: "Write the travel time of every arc when departing at time",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseTime("time", args[0])
			if err != nil {
				return err
			}
			if t >= plf.Period {
				return errors.New("time must be smaller than the period")
			}
			return deriveWeights(cmd.OutOrStdout(), args[1:], func(first, dep, tt []uint32) []uint32 {
				return plf.TimePointWeights(t, plf.Period, first, dep, tt)
			})
		},
	}
}

func parseTime(name, s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return uint32(v), nil
}

// deriveWeights loads the IPP vectors named by args[0:3], validates them,
// applies f and saves the result to args[3].
func deriveWeights(out io.Writer, args []string, f deriveFunc) error {
	var first, dep, tt, weight []uint32
	err := step(out, "Loading", func() (err error) {
		if first, err = graph.LoadVector[uint32](args[0]); err != nil {
			return err
		}
		if dep, err = graph.LoadVector[uint32](args[1]); err != nil {
			return err
		}
		tt, err = graph.LoadVector[uint32](args[2])
		return err
	})
	if err != nil {
		return err
	}

	err = step(out, "Validity tests", func() error {
		if len(first) == 0 {
			return fmt.Errorf("%w: first_ipp_of_arc is empty", graph.ErrInvalidIPP)
		}
		return graph.CheckArcIPPs(plf.Period, uint32(len(first)-1), first, dep, tt)
	})
	if err != nil {
		return err
	}

	err = step(out, "Computing weights", func() error {
		weight = f(first, dep, tt)
		return nil
	})
	if err != nil {
		return err
	}

	return step(out, "Saving", func() error {
		return graph.SaveVector(args[3], weight)
	})
}
