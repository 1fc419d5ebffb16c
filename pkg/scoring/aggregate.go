package scoring

import (
	"fmt"
	"math"

	"github.com/jtindex/jtindex/pkg/table"
)

// Component is one normalised input to a category score. Polarity is
// explicit per component: an inverted component is one where a higher
// value is judged favourable, so it contributes 1 - value to the mean.
type Component struct {
	Column   string
	Inverted bool
}

// Category groups thematically related components into one sub-score.
// Weight is this category's share of the composite; weights across all
// categories must sum to 1.0.
type Category struct {
	Name       string
	Column     string
	Weight     float64
	Components []Component
}

// Aggregate appends each category's sub-score column and the weighted
// composite column to t. Category scores are unweighted arithmetic means
// of their components; a missing component makes the category missing, and
// a missing category makes the composite missing - no silent substitution.
func Aggregate(t *table.Table, categories []Category, compositeColumn string) error {
	var sum float64
	for _, cat := range categories {
		sum += cat.Weight
		for _, comp := range cat.Components {
			if !t.HasColumn(comp.Column) {
				return fmt.Errorf("category %s: component column %q not present", cat.Name, comp.Column)
			}
		}
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("category weights sum to %g, want 1.0", sum)
	}

	for _, cat := range categories {
		t.AddColumn(cat.Column)
	}
	t.AddColumn(compositeColumn)

	for _, r := range t.Rows {
		composite := 0.0
		for _, cat := range categories {
			score := categoryScore(r, cat)
			r[cat.Column] = table.FloatCell(score)
			composite += cat.Weight * score
		}
		r[compositeColumn] = table.FloatCell(composite)
	}
	return nil
}

func categoryScore(r table.Row, cat Category) float64 {
	total := 0.0
	for _, comp := range cat.Components {
		v, ok := r[comp.Column].Float()
		if !ok {
			return math.NaN()
		}
		if comp.Inverted {
			v = 1.0 - v
		}
		total += v
	}
	return total / float64(len(cat.Components))
}
