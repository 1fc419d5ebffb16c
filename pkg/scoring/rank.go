package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/jtindex/jtindex/pkg/table"
)

// ColRank is the 1-based position assigned by Rank.
const ColRank = "rank"

// snapshotColumns is the trimmed, ordered column set a ranked snapshot
// carries; columns absent from the scored table are skipped.
var snapshotColumns = []string{
	table.ColLADCode,
	table.ColLADName,
	"region",
	ColComposite,
	ColEmissionsScore,
	ColTransportScore,
	ColStructuralScore,
	"emissions_pc_tco2",
	"fuel_pc_ktoe_per_1000",
	"freight_share",
	"bioenergy_share",
	ColPopulation,
	ColArea,
}

// Rank filters the scored table to one year and orders LADs by composite
// score, highest transition pressure first. Ties and missing scores order
// by LAD code so reruns produce identical output.
func Rank(scored *table.Table, year int) (*table.Table, error) {
	if !scored.HasColumn(ColComposite) {
		return nil, fmt.Errorf("table has no %s column; score it first", ColComposite)
	}

	var rows []table.Row
	for _, r := range scored.Rows {
		if y, ok := r[table.ColYear].Int(); ok && y == year {
			rows = append(rows, r)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		si, iok := rows[i][ColComposite].Float()
		sj, jok := rows[j][ColComposite].Float()
		if !iok {
			si = math.Inf(-1)
		}
		if !jok {
			sj = math.Inf(-1)
		}
		if si != sj {
			return si > sj
		}
		return rows[i][table.ColLADCode].Text < rows[j][table.ColLADCode].Text
	})

	cols := []string{ColRank}
	for _, c := range snapshotColumns {
		if scored.HasColumn(c) {
			cols = append(cols, c)
		}
	}

	out := table.New(cols...)
	for i, r := range rows {
		row := make(table.Row, len(cols))
		row[ColRank] = table.IntCell(i + 1)
		for _, c := range cols[1:] {
			row[c] = r[c]
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
