// Package store persists scoring runs and their per-LAD-year scores in
// Postgres, so independent consumers can query past runs without reparsing
// the CSV artifacts.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jtindex/jtindex/pkg/scoring"
	"github.com/jtindex/jtindex/pkg/table"
)

// Service provides run and score persistence backed by Postgres.
type Service struct {
	db *sql.DB
}

// Run records one completed scoring run.
type Run struct {
	ID        string
	CreatedAt time.Time
	Rows      int
	LADs      int
	YearMin   int
	YearMax   int
}

// LADScore is one LAD-year's persisted scores. Nil score fields mark
// values that were missing in the scored table.
type LADScore struct {
	RunID           string
	LADCode         string
	LADName         string
	Year            int
	EmissionsScore  *float64
	TransportScore  *float64
	StructuralScore *float64
	Composite       *float64
}

// NewService creates a new store Service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// CreateRun records a completed scoring run from its summary diagnostics.
func (s *Service) CreateRun(ctx context.Context, summary scoring.Summary) (*Run, error) {
	r := &Run{
		ID:      uuid.NewString(),
		Rows:    summary.Rows,
		LADs:    summary.LADs,
		YearMin: summary.Years.Min,
		YearMax: summary.Years.Max,
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO runs (id, row_count, lad_count, year_min, year_max)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		r.ID, r.Rows, r.LADs, r.YearMin, r.YearMax,
	).Scan(&r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	return r, nil
}

// SaveScores persists the score columns of a scored table under a run.
func (s *Service) SaveScores(ctx context.Context, runID string, scored *table.Table) error {
	for _, row := range scored.Rows {
		k, ok := row.Key()
		if !ok {
			continue
		}
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO lad_scores
			   (run_id, lad_code, lad_name, year,
			    emissions_score, transport_score, structural_score, jti_score)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			runID, k.LAD, row[table.ColLADName].String(), k.Year,
			nullable(row, scoring.ColEmissionsScore),
			nullable(row, scoring.ColTransportScore),
			nullable(row, scoring.ColStructuralScore),
			nullable(row, scoring.ColComposite),
		)
		if err != nil {
			return fmt.Errorf("save score (%s, %d): %w", k.LAD, k.Year, err)
		}
	}
	return nil
}

// ListRuns returns all recorded runs, most recent first.
func (s *Service) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, row_count, lad_count, year_min, year_max
		 FROM runs ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Rows, &r.LADs, &r.YearMin, &r.YearMax); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// TopScores returns a run's highest-scoring LADs for a year, composite
// descending with missing scores last.
func (s *Service) TopScores(ctx context.Context, runID string, year, limit int) ([]LADScore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, lad_code, lad_name, year,
		        emissions_score, transport_score, structural_score, jti_score
		 FROM lad_scores
		 WHERE run_id = $1 AND year = $2
		 ORDER BY jti_score DESC NULLS LAST, lad_code
		 LIMIT $3`,
		runID, year, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	defer rows.Close()

	var scores []LADScore
	for rows.Next() {
		var sc LADScore
		if err := rows.Scan(&sc.RunID, &sc.LADCode, &sc.LADName, &sc.Year,
			&sc.EmissionsScore, &sc.TransportScore, &sc.StructuralScore, &sc.Composite); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, sc)
	}
	return scores, rows.Err()
}

// nullable extracts a float column as a SQL-nullable value.
func nullable(r table.Row, col string) sql.NullFloat64 {
	f, ok := r[col].Float()
	return sql.NullFloat64{Float64: f, Valid: ok}
}
