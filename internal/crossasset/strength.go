package crossasset

import (
	"time"

	"github.com/newthinker/pairlens/internal/core"
	"github.com/newthinker/pairlens/internal/indicator"
)

// Leader names the asset with the larger percentage change.
type Leader string

const (
	LeaderA   Leader = "A"
	LeaderB   Leader = "B"
	LeaderTie Leader = "tie"
)

// Relative compares the two assets' percentage change over their windows.
type Relative struct {
	ChangeA  float64
	ChangeB  float64
	Spread   float64 // ChangeA - ChangeB
	Stronger Leader
}

// PctChange returns (last/first - 1) * 100 for the series' close column.
func PctChange(s indicator.Series) (float64, bool) {
	first, ok := s.FirstClose()
	if !ok || first <= 0 {
		return 0, false
	}
	last, _ := s.LastClose()
	return (last/first - 1) * 100, true
}

// RelativeStrength compares a and b. ok is false when either is empty.
func RelativeStrength(a, b indicator.Series) (Relative, bool) {
	ca, okA := PctChange(a)
	cb, okB := PctChange(b)
	if !okA || !okB {
		return Relative{}, false
	}
	rel := Relative{ChangeA: ca, ChangeB: cb, Spread: ca - cb, Stronger: LeaderTie}
	switch {
	case rel.Spread > 0:
		rel.Stronger = LeaderA
	case rel.Spread < 0:
		rel.Stronger = LeaderB
	}
	return rel, true
}

// RangeStats summarises where a series traded over its window.
type RangeStats struct {
	Max              float64
	MaxDate          time.Time
	Min              float64
	MinDate          time.Time
	Last             float64
	TradingRangePct  float64
	RangePositionPct float64
}

// DegeneratePosition is the range position reported when max == min.
const DegeneratePosition = 50

// Range computes RangeStats over the close column. Ties keep the earliest
// date. ok is false for an empty series.
func Range(s indicator.Series) (RangeStats, bool) {
	if s.Len() == 0 {
		return RangeStats{}, false
	}
	st := RangeStats{
		Max: s.Close[0], MaxDate: s.Dates[0],
		Min: s.Close[0], MinDate: s.Dates[0],
	}
	for i, c := range s.Close {
		if c > st.Max {
			st.Max, st.MaxDate = c, s.Dates[i]
		}
		if c < st.Min {
			st.Min, st.MinDate = c, s.Dates[i]
		}
	}
	st.Last, _ = s.LastClose()
	if st.Min > 0 {
		st.TradingRangePct = (st.Max - st.Min) / st.Min * 100
	}
	st.RangePositionPct = PositionIn(st.Last, st.Min, st.Max)
	return st, true
}

// PositionIn places v within [lo, hi] as a percentage (0 at lo, 100 at hi).
// A degenerate range yields DegeneratePosition.
func PositionIn(v, lo, hi float64) float64 {
	if hi-lo <= 0 {
		return DegeneratePosition
	}
	return (v - lo) / (hi - lo) * 100
}

// VolatilityRatio returns a/b, undefined unless both are defined and b > 0.
func VolatilityRatio(a, b core.Value) core.Value {
	va, okA := a.Get()
	vb, okB := b.Get()
	if !okA || !okB || vb <= 0 {
		return core.Undefined()
	}
	return core.Of(va / vb)
}
