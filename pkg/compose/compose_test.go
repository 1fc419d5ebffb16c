package compose_test

import (
	"errors"
	"testing"

	"github.com/jtindex/jtindex/pkg/compose"
	"github.com/jtindex/jtindex/pkg/table"
)

var testLADs = []struct {
	code, name string
}{
	{"E06000001", "Hartlepool"},
	{"E06000002", "Middlesbrough"},
}

var testYears = []int{2020, 2021}

func emissionsSource() compose.Source {
	t := table.New(table.ColLADCode, table.ColLADName, table.ColYear,
		"total_emissions_scope_ktco2", "area_km2", "population")
	for _, lad := range testLADs {
		for _, year := range testYears {
			t.Rows = append(t.Rows, table.Row{
				table.ColLADCode:              table.TextCell(lad.code),
				table.ColLADName:              table.TextCell(lad.name),
				table.ColYear:                 table.IntCell(year),
				"total_emissions_scope_ktco2": table.FloatCell(420.5),
				"area_km2":                    table.FloatCell(93.8),
				"population":                  table.FloatCell(90000), // superseded by ONS
			})
		}
	}
	return compose.Source{Label: "desnz", Table: t}
}

func fuelSource() compose.Source {
	t := table.New(table.ColLADCode, table.ColLADName, table.ColYear,
		"total_fuel_ktoe", "personal_transport_ktoe", "freight_transport_ktoe", "bioenergy_ktoe")
	for _, lad := range testLADs {
		for _, year := range testYears {
			t.Rows = append(t.Rows, table.Row{
				table.ColLADCode:          table.TextCell(lad.code),
				table.ColLADName:          table.TextCell(lad.name + " (DfT)"),
				table.ColYear:             table.IntCell(year),
				"total_fuel_ktoe":         table.FloatCell(50),
				"personal_transport_ktoe": table.FloatCell(30),
				"freight_transport_ktoe":  table.FloatCell(15),
				"bioenergy_ktoe":          table.FloatCell(5),
			})
		}
	}
	return compose.Source{Label: "dft", Table: t}
}

func populationSource() compose.Source {
	t := table.New(table.ColLADCode, table.ColLADName, table.ColYear, "population")
	for _, lad := range testLADs {
		for _, year := range testYears {
			t.Rows = append(t.Rows, table.Row{
				table.ColLADCode: table.TextCell(lad.code),
				table.ColLADName: table.TextCell(lad.name + " (ONS)"),
				table.ColYear:    table.IntCell(year),
				"population":     table.FloatCell(92339),
			})
		}
	}
	return compose.Source{Label: "ons", Table: t}
}

func deprivationSource() compose.Source {
	t := table.New(table.ColLADCode, table.ColLADName, "imd_rank_avg")
	for _, lad := range testLADs {
		t.Rows = append(t.Rows, table.Row{
			table.ColLADCode: table.TextCell(lad.code),
			table.ColLADName: table.TextCell(lad.name + " (IMD)"),
			"imd_rank_avg":   table.FloatCell(7043.2),
		})
	}
	return compose.Source{Label: "imd", Table: t}
}

func fullInputs() compose.Inputs {
	imd := deprivationSource()
	return compose.Inputs{
		Emissions:   emissionsSource(),
		Fuel:        fuelSource(),
		Population:  populationSource(),
		Deprivation: &imd,
	}
}

func TestComposeFullCoverage(t *testing.T) {
	base, report, err := compose.Compose(fullInputs())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if got := len(base.Rows); got != 4 {
		t.Fatalf("rows = %d, want 4 (2 LADs x 2 years)", got)
	}
	for _, cov := range report.Sources {
		if cov.MissingCount != 0 {
			t.Errorf("missing_count = %d, want 0", cov.MissingCount)
		}
	}
	if len(report.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", report.Warnings)
	}

	// No fan-out: each key appears exactly once.
	seen := make(map[table.Key]bool)
	for _, r := range base.Rows {
		k, ok := r.Key()
		if !ok {
			t.Fatal("composed row has no key")
		}
		if seen[k] {
			t.Fatalf("key %+v appears more than once", k)
		}
		seen[k] = true
	}
}

func TestComposeColumnPrecedence(t *testing.T) {
	base, _, err := compose.Compose(fullInputs())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	r := base.Rows[0]

	// First-joined source wins descriptive duplicates.
	if got := r[table.ColLADName].Text; got != "Hartlepool" {
		t.Errorf("lad_name = %q, want the emissions source's %q", got, "Hartlepool")
	}
	// Population comes from the population source, last writer by join order.
	if got, _ := r["population"].Float(); got != 92339 {
		t.Errorf("population = %v, want ONS value 92339", got)
	}
	// Static source's metric is carried.
	if got, _ := r["imd_rank_avg"].Float(); got != 7043.2 {
		t.Errorf("imd_rank_avg = %v, want 7043.2", got)
	}

	// Exactly one lad_name column survives.
	count := 0
	for _, c := range base.Columns {
		if c == table.ColLADName {
			count++
		}
	}
	if count != 1 {
		t.Errorf("lad_name column count = %d, want 1", count)
	}
}

func TestComposeSortedOutput(t *testing.T) {
	// Reverse the emissions rows; output order must not depend on input order.
	in := fullInputs()
	rows := in.Emissions.Table.Rows
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}

	base, _, err := compose.Compose(in)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	for i := 1; i < len(base.Rows); i++ {
		prev, _ := base.Rows[i-1].Key()
		cur, _ := base.Rows[i].Key()
		if !prev.Less(cur) {
			t.Fatalf("rows not sorted by (lad_code, year) at %d", i)
		}
	}
}

func TestComposeInnerJoinDropsPartialCoverage(t *testing.T) {
	in := fullInputs()
	// Drop one LAD-year from the fuel source.
	in.Fuel.Table.Rows = in.Fuel.Table.Rows[:len(in.Fuel.Table.Rows)-1]

	base, report, err := compose.Compose(in)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got := len(base.Rows); got != 3 {
		t.Errorf("rows = %d, want 3 (one key dropped by inner join)", got)
	}
	if got := report.Sources["dft"].MissingCount; got != 1 {
		t.Errorf("dft missing_count = %d, want 1", got)
	}
}

func TestComposeStaticJoinIsInner(t *testing.T) {
	in := fullInputs()
	// Deprivation covers only the first LAD.
	in.Deprivation.Table.Rows = in.Deprivation.Table.Rows[:1]

	base, _, err := compose.Compose(in)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got := len(base.Rows); got != 2 {
		t.Errorf("rows = %d, want 2 (second LAD dropped)", got)
	}
}

func TestComposeWithoutStaticSource(t *testing.T) {
	in := fullInputs()
	in.Deprivation = nil

	base, _, err := compose.Compose(in)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if base.HasColumn("imd_rank_avg") {
		t.Error("imd_rank_avg should not appear without the static source")
	}
	if got := len(base.Rows); got != 4 {
		t.Errorf("rows = %d, want 4", got)
	}
}

func TestComposeMissingRequiredColumnIsFatal(t *testing.T) {
	in := fullInputs()
	in.Fuel.Table.DropColumn("total_fuel_ktoe")

	_, _, err := compose.Compose(in)
	if err == nil {
		t.Fatal("expected error for missing required column")
	}
	var schemaErr *table.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error = %v, want SchemaError", err)
	}
	if schemaErr.Source != "dft" || schemaErr.Column != "total_fuel_ktoe" {
		t.Errorf("SchemaError names %q/%q, want dft/total_fuel_ktoe", schemaErr.Source, schemaErr.Column)
	}
}

func TestComposeDuplicateKeyIsFatal(t *testing.T) {
	in := fullInputs()
	in.Fuel.Table.Rows = append(in.Fuel.Table.Rows, in.Fuel.Table.Rows[0].Clone())

	_, _, err := compose.Compose(in)
	if err == nil {
		t.Fatal("expected error for duplicate key in a source")
	}
	var schemaErr *table.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error = %v, want SchemaError", err)
	}
}

func TestComposeZeroRowsWarns(t *testing.T) {
	in := fullInputs()
	// Fuel keyed on years with no overlap: the join yields nothing.
	for _, r := range in.Fuel.Table.Rows {
		y, _ := r[table.ColYear].Int()
		r[table.ColYear] = table.IntCell(y + 100)
	}

	base, report, err := compose.Compose(in)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(base.Rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(base.Rows))
	}
	if len(report.Warnings) == 0 {
		t.Error("expected a zero-row warning in the report")
	}
}
