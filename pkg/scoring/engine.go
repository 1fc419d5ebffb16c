package scoring

import (
	"fmt"
	"math"

	"github.com/jtindex/jtindex/pkg/table"
)

// Engine runs the full scoring pass over a composed base table:
// derivation, normalisation, and weighted aggregation.
type Engine struct {
	categories []Category
}

// NewEngine creates a scoring engine with the given categories.
func NewEngine(categories ...Category) *Engine {
	return &Engine{categories: categories}
}

// DefaultEngine creates an engine with the default policy categories.
func DefaultEngine() *Engine {
	return NewEngine(DefaultCategories()...)
}

// Score produces the scored table and its summary diagnostics. The base
// table is never mutated; the result carries the base columns plus every
// derived, normalised, and score column, in that order, sorted by
// (lad_code, year).
func (e *Engine) Score(base *table.Table) (*table.Table, Summary, error) {
	if base == nil {
		return nil, Summary{}, fmt.Errorf("base table is nil")
	}

	scored, err := Derive(base)
	if err != nil {
		return nil, Summary{}, err
	}

	// Structural pressure reads the magnitude of population change, not
	// its direction, so the absolute value feeds normalisation.
	scored.AddColumn("population_yoy_abs")
	for _, r := range scored.Rows {
		v, ok := r["population_yoy_pct"].Float()
		if !ok {
			r["population_yoy_abs"] = table.MissingCell()
			continue
		}
		r["population_yoy_abs"] = table.FloatCell(math.Abs(v))
	}

	for _, nc := range normalisedColumns {
		NormaliseColumn(scored, nc.src, nc.dst)
	}

	if err := Aggregate(scored, e.categories, ColComposite); err != nil {
		return nil, Summary{}, err
	}

	return scored, Summarise(scored), nil
}
