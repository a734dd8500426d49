// Package crossasset compares two indicator series: date alignment,
// correlation, relative strength and trading-range statistics.
package crossasset

import (
	"time"

	"github.com/newthinker/pairlens/internal/core"
	"github.com/newthinker/pairlens/internal/indicator"
)

// Row is one date present in both series.
type Row struct {
	Date    time.Time
	CloseA  float64
	CloseB  float64
	ReturnA core.Value
	ReturnB core.Value
}

// Align inner-joins a and b on date. Dates present in only one series are
// dropped. Both inputs must be sorted ascending.
func Align(a, b indicator.Series) []Row {
	var rows []Row
	i, j := 0, 0
	for i < len(a.Dates) && j < len(b.Dates) {
		da, db := a.Dates[i], b.Dates[j]
		switch {
		case da.Before(db):
			i++
		case db.Before(da):
			j++
		default:
			rows = append(rows, Row{
				Date:    da,
				CloseA:  a.Close[i],
				CloseB:  b.Close[j],
				ReturnA: a.DailyReturnPct[i],
				ReturnB: b.DailyReturnPct[j],
			})
			i++
			j++
		}
	}
	return rows
}
