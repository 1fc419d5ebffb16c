// Package table defines the tabular data model shared across the pipeline.
// These types are the common vocabulary for harmonisation, composition,
// and scoring: every stage consumes a Table and returns a new one.
package table

import (
	"encoding/json"
	"sort"
)

// Canonical key and descriptive column names.
const (
	ColLADCode = "lad_code"
	ColLADName = "lad_name"
	ColYear    = "year"
)

// Key identifies one LAD-year observation.
type Key struct {
	LAD  string
	Year int
}

// Less orders keys lexicographically by LAD code, then year ascending.
func (k Key) Less(other Key) bool {
	if k.LAD != other.LAD {
		return k.LAD < other.LAD
	}
	return k.Year < other.Year
}

// MarshalJSON renders a key as a [lad_code, year] pair, the shape the
// diagnostics artifact uses.
func (k Key) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{k.LAD, k.Year})
}

// Row maps column names to cells. Columns absent from a row read as missing.
type Row map[string]Cell

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Key extracts the (lad_code, year) identity of the row. ok is false when
// the LAD code is missing or the year cell does not coerce to an integer.
func (r Row) Key() (Key, bool) {
	lad := r[ColLADCode]
	if lad.Kind != KindText || lad.Text == "" {
		return Key{}, false
	}
	year, ok := r[ColYear].Int()
	if !ok {
		return Key{}, false
	}
	return Key{LAD: lad.Text, Year: year}, true
}

// Table is an in-memory tabular dataset with a stable column order.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Clone returns a deep copy. Stages never mutate their input, so cloning
// up front is what makes copy-on-write cheap to reason about.
func (t *Table) Clone() *Table {
	out := New(t.Columns...)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// HasColumn reports whether name is in the column order.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends name to the column order if not already present.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// DropColumn removes name from the column order and from every row.
func (t *Table) DropColumn(name string) {
	cols := t.Columns[:0]
	for _, c := range t.Columns {
		if c != name {
			cols = append(cols, c)
		}
	}
	t.Columns = cols
	for _, r := range t.Rows {
		delete(r, name)
	}
}

// SortByKey orders rows by (lad_code, year) ascending. The ordering is a
// guarantee consumers depend on, e.g. for year-over-year windows.
func (t *Table) SortByKey() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		ki, _ := t.Rows[i].Key()
		kj, _ := t.Rows[j].Key()
		return ki.Less(kj)
	})
}

// NumColumn extracts a column as float64s, one per row, with NaN marking
// missing or non-numeric cells.
func (t *Table) NumColumn(name string) []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		f, ok := r[name].Float()
		if !ok {
			out[i] = nan()
			continue
		}
		out[i] = f
	}
	return out
}

// Years returns the minimum and maximum year present. ok is false when no
// row carries a usable year.
func (t *Table) Years() (min, max int, ok bool) {
	for _, r := range t.Rows {
		y, yok := r[ColYear].Int()
		if !yok {
			continue
		}
		if !ok || y < min {
			min = y
		}
		if !ok || y > max {
			max = y
		}
		ok = true
	}
	return min, max, ok
}

// DistinctLADs counts distinct LAD codes.
func (t *Table) DistinctLADs() int {
	seen := make(map[string]bool)
	for _, r := range t.Rows {
		if c := r[ColLADCode]; c.Kind == KindText {
			seen[c.Text] = true
		}
	}
	return len(seen)
}
