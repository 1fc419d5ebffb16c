package table

import (
	"encoding/json"
	"math"
	"strconv"
)

func nan() float64 { return math.NaN() }

// Kind classifies the content of a Cell.
type Kind int

const (
	KindMissing Kind = iota
	KindText
	KindInt
	KindFloat
)

// Cell is a single table value: text, integer, float, or missing.
// The zero value is a missing cell.
type Cell struct {
	Kind Kind
	Text string
	Num  float64
}

// TextCell returns a text-valued cell.
func TextCell(s string) Cell {
	return Cell{Kind: KindText, Text: s}
}

// IntCell returns an integer-valued cell.
func IntCell(i int) Cell {
	return Cell{Kind: KindInt, Num: float64(i)}
}

// FloatCell returns a float-valued cell. NaN maps to missing, so a
// computation that produced an undefined result stores as missing.
func FloatCell(f float64) Cell {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Cell{}
	}
	return Cell{Kind: KindFloat, Num: f}
}

// MissingCell returns the explicit missing value.
func MissingCell() Cell {
	return Cell{}
}

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool {
	return c.Kind == KindMissing
}

// Float returns the cell as a float64. Text cells that parse as numbers
// convert; everything else reports ok=false.
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case KindInt, KindFloat:
		return c.Num, true
	case KindText:
		f, err := strconv.ParseFloat(c.Text, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Int returns the cell as an int. Floats convert only when whole; text
// converts only when it parses as a whole number.
func (c Cell) Int() (int, bool) {
	f, ok := c.Float()
	if !ok {
		return 0, false
	}
	if f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// MarshalJSON renders text as a string, numbers as numbers, and missing
// as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindText:
		return json.Marshal(c.Text)
	case KindInt:
		return json.Marshal(int(c.Num))
	case KindFloat:
		return json.Marshal(c.Num)
	}
	return []byte("null"), nil
}

// String renders the cell for display and CSV output. Missing renders as
// the empty string; floats use the shortest representation that round-trips.
func (c Cell) String() string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindInt:
		return strconv.Itoa(int(c.Num))
	case KindFloat:
		return strconv.FormatFloat(c.Num, 'g', -1, 64)
	}
	return ""
}
