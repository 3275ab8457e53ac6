// Package cli implements the tdroute command line: derived weight
// utilities, hierarchy contraction, OSM import, the interactive query
// drivers and the HTTP server.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Execute is the entry point to running the CLI.
func Execute(ctx context.Context, version string) {
	rootCmd := NewRootCmd(version)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. The context passed to
// ExecuteContext ends the query loops and the server.
func NewRootCmd(version string) *cobra.Command {
	var verbose bool
	rootCmd := &cobra.Command{
		Use:           "tdroute",
		Short:         "Time-dependent routing with time-window pruning",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		newFreeflowCmd(),
		newWindowCmd(),
		newTimePointCmd(),
		newMaxWeightCmd(),
		newContractCmd(),
		newImportCmd(),
		newQueryCmd(),
		newServeCmd(),
	)
	return rootCmd
}

// step prints "what ... " to w, runs f and terminates the line with "done"
// on success.
func step(w io.Writer, what string, f func() error) error {
	fmt.Fprintf(w, "%s ... ", what)
	if err := f(); err != nil {
		fmt.Fprintln(w)
		return err
	}
	fmt.Fprintln(w, "done")
	return nil
}
