package surface

import (
	"encoding/json"
	"io"

	"github.com/jtindex/jtindex/pkg/scoring"
	"github.com/jtindex/jtindex/pkg/table"
)

// JSONRenderer marshals a snapshot to indented JSON, one object per
// ranked row.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, snap *Snapshot) error {
	out := struct {
		Year    int             `json:"year"`
		Summary scoring.Summary `json:"summary"`
		Ranking []table.Row     `json:"ranking"`
	}{
		Year:    snap.Year,
		Summary: snap.Summary,
		Ranking: snap.Ranking.Rows,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
