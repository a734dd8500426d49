package crossasset

import (
	"github.com/newthinker/pairlens/internal/core"
	"github.com/newthinker/pairlens/internal/indicator"
)

// Report bundles the cross-asset results for a pair.
type Report struct {
	Rows            int
	Correlation     Correlation
	Relative        Relative
	RangeA          RangeStats
	RangeB          RangeStats
	VolatilityRatio core.Value
}

// Analyze runs alignment, correlation, relative strength and range analysis.
// Both series must be non-empty.
func Analyze(a, b indicator.Series) Report {
	rows := Align(a, b)
	rel, _ := RelativeStrength(a, b)
	ra, _ := Range(a)
	rb, _ := Range(b)
	return Report{
		Rows:            len(rows),
		Correlation:     Correlate(rows),
		Relative:        rel,
		RangeA:          ra,
		RangeB:          rb,
		VolatilityRatio: VolatilityRatio(indicator.Last(a.Volatility), indicator.Last(b.Volatility)),
	}
}
