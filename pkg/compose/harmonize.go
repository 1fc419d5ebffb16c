// Package compose harmonises independently-sourced LAD-year tables and
// joins them into the canonical base table that scoring consumes.
package compose

import (
	"strings"

	"github.com/jtindex/jtindex/pkg/table"
)

// A Source is one labelled input table. The label names the source in
// diagnostics and error messages ("desnz", "dft", "ons", "imd").
type Source struct {
	Label string
	Table *table.Table
}

// droppedKeys are literal strings a stringified null turns into upstream.
// Rows carrying them have no usable LAD code and are treated as missing.
var droppedKeys = map[string]bool{
	"nan":  true,
	"NaN":  true,
	"None": true,
}

// Harmonizer normalises source tables onto the common key before any join:
// LAD codes become clean strings, rows outside the accepted jurisdictions
// drop, and years coerce to integers.
type Harmonizer struct {
	// Prefixes are accepted jurisdiction prefixes for LAD codes, following
	// the single-character administrative-code convention ("E" England,
	// "W" Wales).
	Prefixes []string

	// YearMin and YearMax optionally restrict annual sources to a common
	// window. Zero values leave the window unbounded.
	YearMin int
	YearMax int
}

// FilterAndNormalise returns a harmonised copy of src. The caller's table
// is never mutated. Rows with a null or unusable LAD code drop silently;
// a year that will not coerce to an integer is a fatal SchemaError.
func (h *Harmonizer) FilterAndNormalise(src Source) (Source, error) {
	in := src.Table
	out := table.New(in.Columns...)
	hasYear := in.HasColumn(table.ColYear)

	for _, r := range in.Rows {
		lad, ok := normaliseKey(r[table.ColLADCode])
		if !ok {
			continue
		}
		if !h.accepted(lad) {
			continue
		}

		row := r.Clone()
		row[table.ColLADCode] = table.TextCell(lad)

		if hasYear {
			yc := row[table.ColYear]
			if yc.IsMissing() {
				return Source{}, &table.SchemaError{
					Source: src.Label,
					Column: table.ColYear,
					Reason: "year is missing",
				}
			}
			year, ok := yc.Int()
			if !ok {
				return Source{}, &table.SchemaError{
					Source: src.Label,
					Column: table.ColYear,
					Reason: "year " + yc.String() + " is not an integer",
				}
			}
			if h.YearMin != 0 && year < h.YearMin {
				continue
			}
			if h.YearMax != 0 && year > h.YearMax {
				continue
			}
			row[table.ColYear] = table.IntCell(year)
		}

		out.Rows = append(out.Rows, row)
	}

	return Source{Label: src.Label, Table: out}, nil
}

// normaliseKey coerces an LAD code cell to a clean string key. ok is false
// for missing cells and stringified nulls.
func normaliseKey(c table.Cell) (string, bool) {
	if c.IsMissing() {
		return "", false
	}
	s := c.String()
	if s == "" || droppedKeys[s] {
		return "", false
	}
	return s, true
}

func (h *Harmonizer) accepted(lad string) bool {
	for _, p := range h.Prefixes {
		if strings.HasPrefix(lad, p) {
			return true
		}
	}
	return false
}
