package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/jtindex/jtindex/internal/store"
)

func newRunsCmd() *cobra.Command {
	var (
		configPath string
		dbURL      string
		runID      string
		year       int
		top        int
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List persisted scoring runs, or a run's top-scoring LADs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			url := firstNonEmpty(dbURL, cfg.DatabaseURL)
			if url == "" {
				return fmt.Errorf("no database configured; pass --db or set database_url")
			}

			db, err := sql.Open("postgres", url)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			svc := store.NewService(db)
			if runID != "" {
				return printTopScores(cmd.Context(), svc, runID, year, top)
			}
			return printRuns(cmd.Context(), svc)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: nearest jti.yaml)")
	cmd.Flags().StringVar(&dbURL, "db", "", "Postgres URL (default: from config)")
	cmd.Flags().StringVar(&runID, "run", "", "Show top scores for this run instead of listing runs")
	cmd.Flags().IntVar(&year, "year", 0, "Year to show scores for (with --run)")
	cmd.Flags().IntVar(&top, "top", 10, "Number of LADs to show (with --run)")

	return cmd
}

func printRuns(ctx context.Context, svc *store.Service) error {
	runs, err := svc.ListRuns(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  %d rows, %d LADs, years %d–%d\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Rows, r.LADs, r.YearMin, r.YearMax)
	}
	return nil
}

func printTopScores(ctx context.Context, svc *store.Service, runID string, year, top int) error {
	scores, err := svc.TopScores(ctx, runID, year, top)
	if err != nil {
		return err
	}
	if len(scores) == 0 {
		fmt.Printf("No scores for run %s, year %d.\n", runID, year)
		return nil
	}
	for i, sc := range scores {
		composite := "—"
		if sc.Composite != nil {
			composite = fmt.Sprintf("%.3f", *sc.Composite)
		}
		fmt.Printf("%2d. %-10s %-30s %s\n", i+1, sc.LADCode, sc.LADName, composite)
	}
	return nil
}
