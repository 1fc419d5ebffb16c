package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jtindex/jtindex/pkg/compose"
	"github.com/jtindex/jtindex/pkg/config"
	"github.com/jtindex/jtindex/pkg/table"
)

func newComposeCmd() *cobra.Command {
	var (
		configPath string
		outPath    string
		runID      string
		store      bool
	)

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Harmonise source tables and compose the LAD-year base table",
		Long: `Reads the canonical per-source tables, normalises their keys, joins them
into one base table, and writes the table plus a join-coverage report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompose(cmd.Context(), composeOpts{
				configPath: configPath,
				outPath:    outPath,
				runID:      runID,
				store:      store,
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: nearest jti.yaml)")
	cmd.Flags().StringVar(&outPath, "out", "", "Base table output path (default: from config)")
	cmd.Flags().StringVar(&runID, "run-id", "", "Run ID for artifact storage (default: new UUID)")
	cmd.Flags().BoolVar(&store, "store", false, "Also upload artifacts to the configured storage backend")

	return cmd
}

type composeOpts struct {
	configPath string
	outPath    string
	runID      string
	store      bool
}

func runCompose(ctx context.Context, opts composeOpts) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Step 1/3: Harmonising sources...\n")
	harmonizer := &compose.Harmonizer{
		Prefixes: cfg.Jurisdictions,
		YearMin:  cfg.Years.Min,
		YearMax:  cfg.Years.Max,
	}

	emissions, err := loadSource(harmonizer, "desnz", cfg.Sources.Emissions)
	if err != nil {
		return err
	}
	fuel, err := loadSource(harmonizer, "dft", cfg.Sources.Fuel)
	if err != nil {
		return err
	}
	population, err := loadSource(harmonizer, "ons", cfg.Sources.Population)
	if err != nil {
		return err
	}

	inputs := compose.Inputs{Emissions: emissions, Fuel: fuel, Population: population}
	if cfg.Sources.Deprivation != "" {
		imd, err := loadSource(harmonizer, "imd", cfg.Sources.Deprivation)
		if err != nil {
			return err
		}
		inputs.Deprivation = &imd
	}

	fmt.Fprintf(os.Stderr, "Step 2/3: Composing base table...\n")
	base, report, err := compose.Compose(inputs)
	if err != nil {
		return err
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(os.Stderr, "  Warning: %s\n", w)
	}
	fmt.Fprintf(os.Stderr, "  Base table: %d rows x %d columns\n", len(base.Rows), len(base.Columns))

	fmt.Fprintf(os.Stderr, "Step 3/3: Writing artifacts...\n")
	outPath := firstNonEmpty(opts.outPath, cfg.Outputs.BaseTable)
	if err := table.WriteCSVFile(outPath, base); err != nil {
		return err
	}
	reportPath := filepath.Join(cfg.Outputs.DiagnosticsDir, "composer_report.json")
	if err := table.WriteJSONFile(reportPath, report); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "  Wrote %s and %s\n", outPath, reportPath)

	if opts.store {
		runID := firstNonEmpty(opts.runID, uuid.NewString())
		if err := storeComposeArtifacts(ctx, cfg, runID, base, report); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "  Stored artifacts under run %s\n", runID)
	}
	return nil
}

func loadSource(h *compose.Harmonizer, label, path string) (compose.Source, error) {
	t, err := table.ReadCSVFile(path)
	if err != nil {
		return compose.Source{}, fmt.Errorf("loading source %q: %w", label, err)
	}
	return h.FilterAndNormalise(compose.Source{Label: label, Table: t})
}

func storeComposeArtifacts(ctx context.Context, cfg *config.Config, runID string, base *table.Table, report *compose.CoverageReport) error {
	storage, err := storageFromConfig(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := table.WriteCSV(&buf, base); err != nil {
		return err
	}
	if err := storage.PutTable(ctx, runID, "base", buf.Bytes()); err != nil {
		return err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return storage.PutReport(ctx, runID, "composer_report", data)
}
