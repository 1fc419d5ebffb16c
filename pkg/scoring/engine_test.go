package scoring_test

import (
	"bytes"
	"testing"

	"github.com/jtindex/jtindex/pkg/scoring"
	"github.com/jtindex/jtindex/pkg/table"
)

func scoringFixture() *table.Table {
	return baseTable(
		observation{"E06000001", 2019, 400, 92000},
		observation{"E06000001", 2020, 380, 92500},
		observation{"E06000002", 2019, 900, 140000},
		observation{"E06000002", 2020, 950, 141000},
		observation{"E06000003", 2019, 120, 60000},
		observation{"E06000003", 2020, 118, 60200},
	)
}

func TestEngineScoreColumnsAndBounds(t *testing.T) {
	scored, summary, err := scoring.DefaultEngine().Score(scoringFixture())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	for _, col := range []string{
		"population_yoy_abs",
		"norm_emissions_pc",
		"norm_bioenergy_share",
		scoring.ColEmissionsScore,
		scoring.ColTransportScore,
		scoring.ColStructuralScore,
		scoring.ColComposite,
	} {
		if !scored.HasColumn(col) {
			t.Errorf("scored table missing column %q", col)
		}
	}

	for _, r := range scored.Rows {
		v, ok := r[scoring.ColComposite].Float()
		if !ok {
			// First-year rows carry no year-over-year values, so their
			// structural category and composite stay missing.
			y, _ := r[table.ColYear].Int()
			if y != 2019 {
				t.Errorf("composite missing for year %d", y)
			}
			continue
		}
		if v < 0 || v > 1 {
			t.Errorf("composite = %v, want within [0, 1]", v)
		}
	}

	if summary.Rows != 6 || summary.LADs != 3 {
		t.Errorf("summary rows/lads = %d/%d, want 6/3", summary.Rows, summary.LADs)
	}
	if summary.Years.Min != 2019 || summary.Years.Max != 2020 {
		t.Errorf("summary years = %+v, want 2019-2020", summary.Years)
	}
}

func TestEngineMissingInputPropagates(t *testing.T) {
	base := scoringFixture()
	base.Rows[1][scoring.ColEmissions] = table.MissingCell()

	scored, _, err := scoring.DefaultEngine().Score(base)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	var hit bool
	for _, r := range scored.Rows {
		code := r[table.ColLADCode].String()
		year, _ := r[table.ColYear].Int()
		if code != "E06000001" || year != 2020 {
			continue
		}
		hit = true
		if !r["emissions_pc_tco2"].IsMissing() {
			t.Error("per-capita emissions should be missing when the input is missing")
		}
		if !r[scoring.ColEmissionsScore].IsMissing() {
			t.Error("emissions category should be missing, not zeroed")
		}
		if !r[scoring.ColComposite].IsMissing() {
			t.Error("composite should be missing when a category is missing")
		}
	}
	if !hit {
		t.Fatal("sentinel row not found in scored output")
	}
}

func TestEngineDeterministicOutput(t *testing.T) {
	run := func() []byte {
		scored, _, err := scoring.DefaultEngine().Score(scoringFixture())
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		var buf bytes.Buffer
		if err := table.WriteCSV(&buf, scored); err != nil {
			t.Fatalf("WriteCSV: %v", err)
		}
		return buf.Bytes()
	}

	if !bytes.Equal(run(), run()) {
		t.Error("two runs over identical inputs produced different CSV bytes")
	}
}

func TestEngineDoesNotMutateBase(t *testing.T) {
	base := scoringFixture()
	cols := len(base.Columns)

	if _, _, err := scoring.DefaultEngine().Score(base); err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(base.Columns) != cols {
		t.Errorf("base grew from %d to %d columns", cols, len(base.Columns))
	}
	if base.HasColumn(scoring.ColComposite) {
		t.Error("base table gained a score column")
	}
}
