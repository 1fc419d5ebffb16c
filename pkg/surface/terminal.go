package surface

import (
	"fmt"
	"io"
	"os"

	pretty "github.com/jedib0t/go-pretty/v6/table"

	"github.com/jtindex/jtindex/pkg/scoring"
	"github.com/jtindex/jtindex/pkg/table"
)

// TerminalRenderer renders a ranked snapshot as a terminal table.
// Limit > 0 shows only the top entries.
type TerminalRenderer struct {
	Limit int
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
)

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

// scoreColor flags transition pressure: high composite scores red, middle
// yellow, low green.
func scoreColor(score float64) string {
	if noColor() {
		return ""
	}
	switch {
	case score >= 0.66:
		return colorRed
	case score >= 0.33:
		return colorYellow
	default:
		return colorGreen
	}
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

// displayColumns is the compact column set shown on the terminal; the full
// snapshot stays in the CSV/JSON artifacts.
var displayColumns = []string{
	scoring.ColRank,
	table.ColLADCode,
	table.ColLADName,
	scoring.ColComposite,
	scoring.ColEmissionsScore,
	scoring.ColTransportScore,
	scoring.ColStructuralScore,
}

func (r *TerminalRenderer) Render(w io.Writer, snap *Snapshot) error {
	fmt.Fprintf(w, "%s\n", bold(fmt.Sprintf("Just Transition Index — %d snapshot", snap.Year)))
	fmt.Fprintf(w, "%d LADs, years %d–%d, %d scored rows\n\n",
		snap.Summary.LADs, snap.Summary.Years.Min, snap.Summary.Years.Max, snap.Summary.Rows)

	var cols []string
	for _, c := range displayColumns {
		if snap.Ranking.HasColumn(c) {
			cols = append(cols, c)
		}
	}

	tw := pretty.NewWriter()
	tw.SetStyle(pretty.StyleLight)
	header := make(pretty.Row, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	tw.AppendHeader(header)

	rows := snap.Ranking.Rows
	if r.Limit > 0 && len(rows) > r.Limit {
		rows = rows[:r.Limit]
	}
	for _, row := range rows {
		out := make(pretty.Row, len(cols))
		for i, c := range cols {
			cell := row[c]
			if c == scoring.ColComposite {
				if f, ok := cell.Float(); ok {
					out[i] = colored(fmt.Sprintf("%.3f", f), scoreColor(f))
					continue
				}
			}
			out[i] = cell.String()
		}
		tw.AppendRow(out)
	}

	fmt.Fprintln(w, tw.Render())
	if r.Limit > 0 && len(snap.Ranking.Rows) > r.Limit {
		fmt.Fprintf(w, "... and %d more\n", len(snap.Ranking.Rows)-r.Limit)
	}
	return nil
}
