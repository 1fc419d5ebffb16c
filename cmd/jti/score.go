package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/jtindex/jtindex/internal/store"
	"github.com/jtindex/jtindex/pkg/scoring"
	"github.com/jtindex/jtindex/pkg/table"
)

func newScoreCmd() *cobra.Command {
	var (
		configPath string
		basePath   string
		outPath    string
		runID      string
		dbURL      string
		storeBlobs bool
		outputFmt  string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Derive, normalise, and score the composed base table",
		Long: `Reads the composed base table, computes derived and normalised metrics,
appends category and composite scores, and writes the scored table plus a
scoring summary report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.Context(), scoreOpts{
				configPath: configPath,
				basePath:   basePath,
				outPath:    outPath,
				runID:      runID,
				dbURL:      dbURL,
				storeBlobs: storeBlobs,
				outputFmt:  outputFmt,
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: nearest jti.yaml)")
	cmd.Flags().StringVar(&basePath, "base", "", "Base table path (default: from config)")
	cmd.Flags().StringVar(&outPath, "out", "", "Scored table output path (default: from config)")
	cmd.Flags().StringVar(&runID, "run-id", "", "Run ID for artifact storage (default: new UUID)")
	cmd.Flags().StringVar(&dbURL, "db", "", "Postgres URL to persist the run (default: from config)")
	cmd.Flags().BoolVar(&storeBlobs, "store", false, "Also upload artifacts to the configured storage backend")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")

	return cmd
}

type scoreOpts struct {
	configPath string
	basePath   string
	outPath    string
	runID      string
	dbURL      string
	storeBlobs bool
	outputFmt  string
}

func runScore(ctx context.Context, opts scoreOpts) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	basePath := firstNonEmpty(opts.basePath, cfg.Outputs.BaseTable)
	fmt.Fprintf(os.Stderr, "Step 1/3: Loading base table %s...\n", basePath)
	base, err := table.ReadCSVFile(basePath)
	if err != nil {
		return fmt.Errorf("loading base table: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Step 2/3: Scoring...\n")
	scored, summary, err := scoring.DefaultEngine().Score(base)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Step 3/3: Writing artifacts...\n")
	outPath := firstNonEmpty(opts.outPath, cfg.Outputs.ScoredTable)
	if err := table.WriteCSVFile(outPath, scored); err != nil {
		return err
	}
	reportPath := filepath.Join(cfg.Outputs.DiagnosticsDir, "scoring_report.json")
	if err := table.WriteJSONFile(reportPath, summary); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "  Wrote %s and %s\n", outPath, reportPath)

	if dbURL := firstNonEmpty(opts.dbURL, cfg.DatabaseURL); dbURL != "" {
		run, err := persistRun(ctx, dbURL, summary, scored)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "  Persisted run %s\n", run.ID)
	}

	if opts.storeBlobs {
		runID := firstNonEmpty(opts.runID, uuid.NewString())
		storage, err := storageFromConfig(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := table.WriteCSV(&buf, scored); err != nil {
			return err
		}
		if err := storage.PutTable(ctx, runID, "scored", buf.Bytes()); err != nil {
			return err
		}
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling summary: %w", err)
		}
		if err := storage.PutReport(ctx, runID, "scoring_report", data); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "  Stored artifacts under run %s\n", runID)
	}

	if opts.outputFmt == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	fmt.Printf("Scored %d rows (%d LADs, years %d–%d)\n",
		summary.Rows, summary.LADs, summary.Years.Min, summary.Years.Max)
	return nil
}

func persistRun(ctx context.Context, dbURL string, summary scoring.Summary, scored *table.Table) (*store.Run, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := store.AutoMigrate(db); err != nil {
		return nil, err
	}

	svc := store.NewService(db)
	run, err := svc.CreateRun(ctx, summary)
	if err != nil {
		return nil, err
	}
	if err := svc.SaveScores(ctx, run.ID, scored); err != nil {
		return nil, err
	}
	return run, nil
}
