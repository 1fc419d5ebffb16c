package compose

import (
	"sort"

	"github.com/jtindex/jtindex/pkg/table"
)

// maxMissingExamples bounds the sample of coverage gaps kept per source.
// The true count is always preserved separately.
const maxMissingExamples = 20

// Coverage records one source's join-coverage gaps: LAD-year keys present
// in the union of all sources but absent from this one.
type Coverage struct {
	MissingCount    int         `json:"missing_count"`
	MissingExamples []table.Key `json:"missing_examples"`
}

// CoverageReport is the composition diagnostics artifact. It is
// report-only: it never alters or gates the join that follows.
type CoverageReport struct {
	Sources  map[string]Coverage `json:"sources"`
	Warnings []string            `json:"warnings,omitempty"`
}

// MissingCombinations builds the union of LAD-year keys across all sources
// and reports, per source, the keys it lacks. Examples are ordered
// lexicographically and truncated to the first 20 so reruns produce an
// identical artifact.
func MissingCombinations(sources []Source) *CoverageReport {
	sets := make([]map[table.Key]bool, len(sources))
	union := make(map[table.Key]bool)
	for i, src := range sources {
		set := make(map[table.Key]bool)
		for _, r := range src.Table.Rows {
			if k, ok := r.Key(); ok {
				set[k] = true
				union[k] = true
			}
		}
		sets[i] = set
	}

	report := &CoverageReport{Sources: make(map[string]Coverage, len(sources))}
	for i, src := range sources {
		var missing []table.Key
		for k := range union {
			if !sets[i][k] {
				missing = append(missing, k)
			}
		}
		sort.Slice(missing, func(a, b int) bool { return missing[a].Less(missing[b]) })

		cov := Coverage{MissingCount: len(missing)}
		if len(missing) > maxMissingExamples {
			missing = missing[:maxMissingExamples]
		}
		cov.MissingExamples = missing
		report.Sources[src.Label] = cov
	}
	return report
}
