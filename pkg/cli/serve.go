package cli

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"td_router/pkg/api"
	"td_router/pkg/config"
	"td_router/pkg/routing"
)

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve exact and TD-S queries over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			in := inputsFromConfig(cfg)
			in.cchOrder = ""
			l, err := in.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			engine, err := routing.NewEngine(l.g, l.hierarchies, cfg.Server.MaxConcurrent, cfg.Server.MaxSnapMeters)
			if err != nil {
				return err
			}
			stats := api.StatsResponse{
				NumNodes:   l.g.NumNodes(),
				NumArcs:    l.g.NumArcs(),
				NumIPPs:    l.g.NumIPPs(),
				NumWindows: len(l.hierarchies),
				PoolSize:   engine.PoolSize(),
			}
			srv := api.NewServer(cfg.Server, api.NewHandlers(engine, stats))
			log.Infof("ready in %s", time.Since(start).Round(time.Millisecond))
			return api.ListenAndServe(cmd.Context(), srv)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "session file naming the inputs and server settings")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}
