package compose

import (
	"fmt"

	"github.com/jtindex/jtindex/pkg/table"
)

// Inputs are the harmonised source tables for one composition run. The
// join order is fixed and significant: emissions, then fuel, then
// population, then the optional static deprivation source.
type Inputs struct {
	Emissions  Source
	Fuel       Source
	Population Source

	// Deprivation is a static, year-independent source joined on LAD code
	// alone. Nil skips the join.
	Deprivation *Source
}

// ColPopulation is the population column carried from the population
// source. A population column on the emissions source is superseded by
// join order, never averaged.
const ColPopulation = "population"

// requiredColumns is the minimal column contract per source. A source
// missing one of these is a fatal configuration error.
var requiredColumns = map[string][]string{
	"emissions":   {table.ColLADCode, table.ColLADName, table.ColYear, "total_emissions_scope_ktco2"},
	"fuel":        {table.ColLADCode, table.ColYear, "total_fuel_ktoe"},
	"population":  {table.ColLADCode, table.ColYear, ColPopulation},
	"deprivation": {table.ColLADCode, "imd_rank_avg"},
}

// Compose inner-joins the harmonised sources into the canonical base
// table, keyed by (lad_code, year) with at most one row per key, sorted
// ascending. The returned report carries pre-join coverage diagnostics and
// any non-fatal warnings; it is produced even when the join drops rows.
func Compose(in Inputs) (*table.Table, *CoverageReport, error) {
	if err := checkColumns(in.Emissions, "emissions"); err != nil {
		return nil, nil, err
	}
	if err := checkColumns(in.Fuel, "fuel"); err != nil {
		return nil, nil, err
	}
	if err := checkColumns(in.Population, "population"); err != nil {
		return nil, nil, err
	}
	if in.Deprivation != nil {
		if err := checkColumns(*in.Deprivation, "deprivation"); err != nil {
			return nil, nil, err
		}
	}

	// Coverage gaps are computed from the pre-join key sets of the annual
	// sources, independent of whether the join itself keeps any rows.
	report := MissingCombinations([]Source{in.Emissions, in.Fuel, in.Population})

	base, err := joinOnKey(in.Emissions, in.Fuel)
	if err != nil {
		return nil, nil, err
	}

	// The population source supersedes any population column carried by
	// the emissions source: last writer wins by join order.
	base.Table.DropColumn(ColPopulation)
	pop := restrict(in.Population, table.ColLADCode, table.ColYear, ColPopulation)
	base, err = joinOnKey(base, pop)
	if err != nil {
		return nil, nil, err
	}

	if in.Deprivation != nil {
		base, err = joinOnLAD(base, *in.Deprivation)
		if err != nil {
			return nil, nil, err
		}
	}

	out := base.Table
	out.SortByKey()
	if len(out.Rows) == 0 {
		report.Warnings = append(report.Warnings,
			"composition produced zero rows; check key normalisation across sources")
	}
	return out, report, nil
}

func checkColumns(src Source, role string) error {
	for _, col := range requiredColumns[role] {
		if !src.Table.HasColumn(col) {
			return &table.SchemaError{Source: src.Label, Column: col, Reason: "required column is missing"}
		}
	}
	return nil
}

// restrict returns a view of src carrying only the named columns.
func restrict(src Source, cols ...string) Source {
	out := table.New(cols...)
	for _, r := range src.Table.Rows {
		row := make(table.Row, len(cols))
		for _, c := range cols {
			row[c] = r[c]
		}
		out.Rows = append(out.Rows, row)
	}
	return Source{Label: src.Label, Table: out}
}

// keyIndex maps each (lad_code, year) in src to its row. A duplicate key
// would fan out the join, which the base-table invariant forbids, so it is
// a fatal error.
func keyIndex(src Source) (map[table.Key]table.Row, error) {
	idx := make(map[table.Key]table.Row, len(src.Table.Rows))
	for _, r := range src.Table.Rows {
		k, ok := r.Key()
		if !ok {
			continue
		}
		if _, dup := idx[k]; dup {
			return nil, &table.SchemaError{
				Source: src.Label,
				Reason: fmt.Sprintf("duplicate key (%s, %d)", k.LAD, k.Year),
			}
		}
		idx[k] = r
	}
	return idx, nil
}

// joinOnKey inner-joins right onto left on (lad_code, year). Columns the
// left table already carries keep the left's value: the first-joined
// source wins descriptive duplicates, and the right's copy is dropped.
func joinOnKey(left, right Source) (Source, error) {
	ridx, err := keyIndex(right)
	if err != nil {
		return Source{}, err
	}

	out := table.New(left.Table.Columns...)
	carried := carriedColumns(left.Table, right.Table, table.ColLADCode, table.ColYear)
	for _, c := range carried {
		out.AddColumn(c)
	}

	for _, lr := range left.Table.Rows {
		k, ok := lr.Key()
		if !ok {
			continue
		}
		rr, ok := ridx[k]
		if !ok {
			continue
		}
		row := lr.Clone()
		for _, c := range carried {
			row[c] = rr[c]
		}
		out.Rows = append(out.Rows, row)
	}
	return Source{Label: left.Label, Table: out}, nil
}

// joinOnLAD inner-joins a static source onto left on lad_code alone, so a
// single static row fans across all of a LAD's years.
func joinOnLAD(left, right Source) (Source, error) {
	ridx := make(map[string]table.Row, len(right.Table.Rows))
	for _, r := range right.Table.Rows {
		c := r[table.ColLADCode]
		if c.Kind != table.KindText || c.Text == "" {
			continue
		}
		if _, dup := ridx[c.Text]; dup {
			return Source{}, &table.SchemaError{
				Source: right.Label,
				Reason: fmt.Sprintf("duplicate LAD code %s in static source", c.Text),
			}
		}
		ridx[c.Text] = r
	}

	out := table.New(left.Table.Columns...)
	carried := carriedColumns(left.Table, right.Table, table.ColLADCode)
	for _, c := range carried {
		out.AddColumn(c)
	}

	for _, lr := range left.Table.Rows {
		lad := lr[table.ColLADCode]
		rr, ok := ridx[lad.Text]
		if !ok {
			continue
		}
		row := lr.Clone()
		for _, c := range carried {
			row[c] = rr[c]
		}
		out.Rows = append(out.Rows, row)
	}
	return Source{Label: left.Label, Table: out}, nil
}

// carriedColumns lists right's columns that survive the join: everything
// except the join keys and columns the left table already carries.
func carriedColumns(left, right *table.Table, keys ...string) []string {
	keySet := make(map[string]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}
	var out []string
	for _, c := range right.Columns {
		if keySet[c] || left.HasColumn(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}
