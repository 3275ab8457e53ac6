package cli

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"td_router/pkg/graph"
	osmparser "td_router/pkg/osm"
	"td_router/pkg/plf"
)

func newImportCmd() *cobra.Command {
	var bbox string
	cmd := &cobra.Command{
		Use:   "import input.osm.pbf output_dir",
		Short: "Build a time-dependent graph from an OSM PBF extract",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts osmparser.ParseOptions
			if bbox != "" {
				b, err := parseBBox(bbox)
				if err != nil {
					return err
				}
				opts.BBox = b
				log.Infof("using bounding box filter: lat [%.4f, %.4f], lng [%.4f, %.4f]",
					b.MinLat, b.MaxLat, b.MinLng, b.MaxLng)
			}

			start := time.Now()
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open input file: %w", err)
			}
			defer f.Close()

			log.Info("parsing OSM data")
			parsed, err := osmparser.Parse(cmd.Context(), f, opts)
			if err != nil {
				return fmt.Errorf("parse OSM data: %w", err)
			}
			log.Infof("parsed %d edges, %d nodes", len(parsed.Edges), len(parsed.NodeLat))

			g := graph.Build(parsed)
			log.Infof("graph: %d nodes, %d arcs, %d IPPs", g.NumNodes(), g.NumArcs(), g.NumIPPs())

			component := graph.LargestComponent(g)
			if n := g.NumNodes(); n > 0 {
				log.Infof("largest component: %d nodes (%.1f%%)", len(component), float64(len(component))/float64(n)*100)
			}
			g = graph.FilterToComponent(g, component)

			if err := graph.CheckTDGraph(plf.Period, g); err != nil {
				return err
			}
			if err := os.MkdirAll(args[1], 0o755); err != nil {
				return err
			}
			if err := graph.Save(graph.FilesIn(args[1]), g); err != nil {
				return err
			}
			log.Infof("done in %s, %d nodes, %d arcs written to %s",
				time.Since(start).Round(time.Second), g.NumNodes(), g.NumArcs(), args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&bbox, "bbox", "", "bounding box filter: minLat,minLng,maxLat,maxLng")
	return cmd
}

func parseBBox(s string) (osmparser.BBox, error) {
	var b osmparser.BBox
	if _, err := fmt.Sscanf(s, "%f,%f,%f,%f", &b.MinLat, &b.MinLng, &b.MaxLat, &b.MaxLng); err != nil {
		return b, fmt.Errorf("invalid bbox format (expected minLat,minLng,maxLat,maxLng): %w", err)
	}
	if b.MinLat >= b.MaxLat || b.MinLng >= b.MaxLng {
		return b, fmt.Errorf("invalid bbox %q: minimum must be below maximum", s)
	}
	return b, nil
}
