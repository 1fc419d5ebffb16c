package scoring

import "github.com/jtindex/jtindex/pkg/table"

// YearRange is the observed span of years in a table.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Summary is the scoring diagnostics record: shape, year span, and
// distinct-key counts of a table.
type Summary struct {
	Rows  int       `json:"rows"`
	Cols  int       `json:"cols"`
	Years YearRange `json:"years"`
	LADs  int       `json:"lads"`
}

// Summarise computes the summary for a table. It is read-only; persisting
// the record is the caller's concern.
func Summarise(t *table.Table) Summary {
	s := Summary{
		Rows: len(t.Rows),
		Cols: len(t.Columns),
		LADs: t.DistinctLADs(),
	}
	if min, max, ok := t.Years(); ok {
		s.Years = YearRange{Min: min, Max: max}
	}
	return s
}
