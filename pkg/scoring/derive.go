// Package scoring implements the Just Transition Index scoring engine: it
// derives per-capita, ratio, density, and year-over-year metrics from the
// composed base table, normalises them, and combines them into category and
// composite scores.
package scoring

import (
	"math"

	"github.com/jtindex/jtindex/pkg/table"
)

// Source metric columns the deriver reads from the base table.
const (
	ColEmissions   = "total_emissions_scope_ktco2"
	ColTerritorial = "territorial_emissions_ktco2e"
	ColFuel        = "total_fuel_ktoe"
	ColPersonal    = "personal_transport_ktoe"
	ColFreight     = "freight_transport_ktoe"
	ColBioenergy   = "bioenergy_ktoe"
	ColArea        = "area_km2"
	ColPopulation  = "population"
)

// numericColumns are coerced to numbers before derivation; cells that do
// not parse become missing rather than corrupting a computation.
var numericColumns = []string{
	ColEmissions, ColTerritorial, ColFuel, ColPersonal,
	ColFreight, ColBioenergy, ColArea, ColPopulation,
}

// requiredColumns must be present on the base table for derivation.
var requiredColumns = []string{
	ColEmissions, ColFuel, ColPersonal, ColFreight,
	ColBioenergy, ColArea, ColPopulation,
}

// yoyColumns maps each year-over-year output to its source metric.
var yoyColumns = []struct{ src, dst string }{
	{ColEmissions, "emissions_yoy_pct"},
	{ColFuel, "fuel_yoy_pct"},
	{ColPopulation, "population_yoy_pct"},
}

// Derive computes the derived metric columns from the base table. It is a
// pure function of its input: the base table is untouched and the result
// has exactly the same row count, sorted by (lad_code, year).
//
// Every division guards its denominator: population, fuel, or area of zero
// yields a missing value, never infinity. A LAD's first observed year has
// no prior period, so its year-over-year change is missing.
func Derive(base *table.Table) (*table.Table, error) {
	for _, col := range requiredColumns {
		if !base.HasColumn(col) {
			return nil, &table.SchemaError{Source: "base table", Column: col, Reason: "required column is missing"}
		}
	}

	out := base.Clone()
	for _, col := range numericColumns {
		if out.HasColumn(col) {
			coerceNumeric(out, col)
		}
	}
	out.SortByKey()

	derived := []string{
		"emissions_pc_tco2",
		"fuel_pc_ktoe_per_1000",
		"personal_pc_ktoe_per_1000",
		"freight_pc_ktoe_per_1000",
		"freight_share",
		"personal_share",
		"bioenergy_share",
		"emissions_density_tco2_per_km2",
	}
	for _, c := range derived {
		out.AddColumn(c)
	}
	for _, y := range yoyColumns {
		out.AddColumn(y.dst)
	}

	for _, r := range out.Rows {
		pop := num(r, ColPopulation)
		fuel := num(r, ColFuel)
		area := num(r, ColArea)

		r["emissions_pc_tco2"] = table.FloatCell(div(num(r, ColEmissions)*1000, pop))
		r["fuel_pc_ktoe_per_1000"] = table.FloatCell(div(fuel*1000, pop))
		r["personal_pc_ktoe_per_1000"] = table.FloatCell(div(num(r, ColPersonal)*1000, pop))
		r["freight_pc_ktoe_per_1000"] = table.FloatCell(div(num(r, ColFreight)*1000, pop))

		r["freight_share"] = table.FloatCell(div(num(r, ColFreight), fuel))
		r["personal_share"] = table.FloatCell(div(num(r, ColPersonal), fuel))
		r["bioenergy_share"] = table.FloatCell(div(num(r, ColBioenergy), fuel))

		r["emissions_density_tco2_per_km2"] = table.FloatCell(div(num(r, ColEmissions)*1000, area))
	}

	deriveYearOverYear(out)
	return out, nil
}

// deriveYearOverYear computes percent change from the previous observed
// year within each LAD. Rows are already sorted by (lad_code, year).
func deriveYearOverYear(t *table.Table) {
	prevLAD := ""
	prev := make(map[string]float64, len(yoyColumns))

	for _, r := range t.Rows {
		k, ok := r.Key()
		if !ok || k.LAD != prevLAD {
			for _, y := range yoyColumns {
				prev[y.src] = math.NaN()
			}
			prevLAD = k.LAD
		}
		for _, y := range yoyColumns {
			cur := num(r, y.src)
			r[y.dst] = table.FloatCell(div(cur-prev[y.src], prev[y.src]))
			prev[y.src] = cur
		}
	}
}

// coerceNumeric replaces text cells with their parsed value, or missing
// when they do not parse.
func coerceNumeric(t *table.Table, col string) {
	for _, r := range t.Rows {
		c := r[col]
		if c.IsMissing() || c.Kind != table.KindText {
			continue
		}
		if f, ok := c.Float(); ok {
			r[col] = table.FloatCell(f)
		} else {
			r[col] = table.MissingCell()
		}
	}
}

func num(r table.Row, col string) float64 {
	f, ok := r[col].Float()
	if !ok {
		return math.NaN()
	}
	return f
}

// div is the missing-propagating division every derivation uses: a zero or
// missing denominator, or a missing numerator, yields missing.
func div(numerator, denominator float64) float64 {
	if denominator == 0 || math.IsNaN(denominator) || math.IsNaN(numerator) {
		return math.NaN()
	}
	return numerator / denominator
}
