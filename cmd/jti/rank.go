package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jtindex/jtindex/pkg/scoring"
	"github.com/jtindex/jtindex/pkg/surface"
	"github.com/jtindex/jtindex/pkg/table"
)

func newRankCmd() *cobra.Command {
	var (
		configPath string
		scoredPath string
		year       int
		limit      int
		outPath    string
		outputFmt  string
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank LADs by composite score for one year",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			path := firstNonEmpty(scoredPath, cfg.Outputs.ScoredTable)
			scored, err := table.ReadCSVFile(path)
			if err != nil {
				return fmt.Errorf("loading scored table: %w", err)
			}

			ranking, err := scoring.Rank(scored, year)
			if err != nil {
				return err
			}

			if outPath != "" {
				if err := table.WriteCSVFile(outPath, ranking); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "Wrote %s\n", outPath)
			}

			snap := &surface.Snapshot{
				Year:    year,
				Summary: scoring.Summarise(scored),
				Ranking: ranking,
			}
			var renderer surface.Renderer
			if outputFmt == "json" {
				renderer = &surface.JSONRenderer{}
			} else {
				renderer = &surface.TerminalRenderer{Limit: limit}
			}
			return renderer.Render(os.Stdout, snap)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: nearest jti.yaml)")
	cmd.Flags().StringVar(&scoredPath, "scored", "", "Scored table path (default: from config)")
	cmd.Flags().IntVar(&year, "year", 0, "Year to rank (required)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Rows to display (0 = all)")
	cmd.Flags().StringVar(&outPath, "out", "", "Also write the ranking as CSV to this path")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}
