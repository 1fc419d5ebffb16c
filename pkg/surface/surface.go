// Package surface defines output rendering for ranked index snapshots.
// Implementations handle different output targets: terminal and JSON.
package surface

import (
	"io"

	"github.com/jtindex/jtindex/pkg/scoring"
	"github.com/jtindex/jtindex/pkg/table"
)

// Snapshot is a ranked one-year extract of the scored table together with
// the summary of the full dataset it came from.
type Snapshot struct {
	Year    int             `json:"year"`
	Summary scoring.Summary `json:"summary"`
	Ranking *table.Table    `json:"-"`
}

// Renderer produces formatted output from a ranked snapshot.
type Renderer interface {
	// Render writes the formatted snapshot to the writer.
	Render(w io.Writer, snap *Snapshot) error
}
