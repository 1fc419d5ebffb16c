package scoring

import (
	"math"

	"github.com/jtindex/jtindex/pkg/table"
)

// MinMax rescales values onto [0,1] using the column's own minimum and
// maximum across all non-missing entries. Degenerate columns - all values
// equal, fewer than two usable values, or all missing - map every entry to
// the neutral midpoint 0.5, signalling "no discriminating signal" instead
// of propagating an undefined division. In the non-degenerate case missing
// inputs pass through as missing; normalisation never imputes.
func MinMax(values []float64) []float64 {
	min, max := math.NaN(), math.NaN()
	usable := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		usable++
		if math.IsNaN(min) || v < min {
			min = v
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}

	out := make([]float64, len(values))
	if usable < 2 || min == max || math.IsNaN(min) || math.IsNaN(max) {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}

	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		out[i] = (v - min) / (max - min)
	}
	return out
}

// NormaliseColumn appends dst to t holding the min-max normalisation of
// src over the full dataset.
func NormaliseColumn(t *table.Table, src, dst string) {
	norm := MinMax(t.NumColumn(src))
	t.AddColumn(dst)
	for i, r := range t.Rows {
		r[dst] = table.FloatCell(norm[i])
	}
}
