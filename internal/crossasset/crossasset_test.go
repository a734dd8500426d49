package crossasset

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/pairlens/internal/core"
	"github.com/newthinker/pairlens/internal/indicator"
)

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// build creates an indicator series; closes[i] is dated start+offsets[i] days.
func build(t *testing.T, symbol string, closes []float64, offsets []int) indicator.Series {
	t.Helper()
	points := make([]core.PricePoint, len(closes))
	for i, c := range closes {
		off := i
		if offsets != nil {
			off = offsets[i]
		}
		points[i] = core.PricePoint{Date: start.AddDate(0, 0, off), Close: decimal.NewFromFloat(c)}
	}
	ts, err := core.NewTimeSeries(symbol, points)
	require.NoError(t, err)
	return indicator.Compute(ts, indicator.DefaultParams())
}

func noisy(n int, seed float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 10*math.Sin(float64(i)*seed) + float64(i)*0.3
	}
	return out
}

func TestAlign_InnerJoin(t *testing.T) {
	a := build(t, "A", []float64{1, 2, 3, 4}, []int{0, 1, 2, 4})
	b := build(t, "B", []float64{10, 20, 30}, []int{1, 3, 4})

	rows := Align(a, b)
	require.Len(t, rows, 2)
	assert.Equal(t, start.AddDate(0, 0, 1), rows[0].Date)
	assert.Equal(t, 2.0, rows[0].CloseA)
	assert.Equal(t, 10.0, rows[0].CloseB)
	assert.Equal(t, start.AddDate(0, 0, 4), rows[1].Date)
	assert.Equal(t, 4.0, rows[1].CloseA)
	assert.Equal(t, 30.0, rows[1].CloseB)
}

func TestCorrelate_SelfIsOne(t *testing.T) {
	a := build(t, "A", noisy(60, 0.7), nil)

	c := Correlate(Align(a, a))
	require.True(t, c.Computed())
	assert.InDelta(t, 1.0, c.PriceCorr, 1e-9)

	rc, ok := c.ReturnCorr.Get()
	require.True(t, ok)
	assert.InDelta(t, 1.0, rc, 1e-9)
	assert.Equal(t, 60, c.Overlap)
}

func TestCorrelate_Inverse(t *testing.T) {
	up := make([]float64, 30)
	down := make([]float64, 30)
	for i := range up {
		up[i] = 100 + float64(i)
		down[i] = 200 - float64(i)
	}
	c := Correlate(Align(build(t, "A", up, nil), build(t, "B", down, nil)))
	require.True(t, c.Computed())
	assert.InDelta(t, -1.0, c.PriceCorr, 1e-9)
}

func TestCorrelate_NoOverlap(t *testing.T) {
	a := build(t, "A", []float64{1, 2, 3}, []int{0, 1, 2})
	b := build(t, "B", []float64{1, 2, 3}, []int{10, 11, 12})

	c := Correlate(Align(a, b))
	assert.False(t, c.Computed())
	assert.Equal(t, CorrelationUnavailable, c.Kind)
	assert.NotEmpty(t, c.Reason)
}

func TestCorrelate_ZeroVarianceIsUnavailable(t *testing.T) {
	flat := make([]float64, 90)
	for i := range flat {
		flat[i] = 50
	}
	c := Correlate(Align(build(t, "A", noisy(90, 0.3), nil), build(t, "B", flat, nil)))

	assert.False(t, c.Computed())
	assert.False(t, c.ReturnCorr.Defined())
	assert.Equal(t, 90, c.Overlap)
}

func TestCorrelate_ReturnsNeedPairs(t *testing.T) {
	// Overlap on day 0 and day 5 only: returns are defined at day 5 in both,
	// which leaves a single return pair.
	a := build(t, "A", []float64{10, 11, 12, 13, 14, 15}, nil)
	b := build(t, "B", []float64{20, 25}, []int{0, 5})

	c := Correlate(Align(a, b))
	require.True(t, c.Computed())
	assert.False(t, c.ReturnCorr.Defined())
}

func TestRelativeStrength(t *testing.T) {
	a := build(t, "A", []float64{100, 150, 200}, nil)
	b := build(t, "B", []float64{50, 50, 55}, nil)

	rel, ok := RelativeStrength(a, b)
	require.True(t, ok)
	assert.InDelta(t, 100.0, rel.ChangeA, 1e-9)
	assert.InDelta(t, 10.0, rel.ChangeB, 1e-9)
	assert.InDelta(t, 90.0, rel.Spread, 1e-9)
	assert.Equal(t, LeaderA, rel.Stronger)

	rel, _ = RelativeStrength(b, a)
	assert.Equal(t, LeaderB, rel.Stronger)

	rel, _ = RelativeStrength(a, a)
	assert.Equal(t, LeaderTie, rel.Stronger)

	_, ok = RelativeStrength(a, indicator.Series{})
	assert.False(t, ok)
}

func TestRange(t *testing.T) {
	s := build(t, "A", []float64{100, 80, 120, 120, 90, 110}, nil)

	st, ok := Range(s)
	require.True(t, ok)
	assert.Equal(t, 120.0, st.Max)
	assert.Equal(t, start.AddDate(0, 0, 2), st.MaxDate, "ties keep the earliest date")
	assert.Equal(t, 80.0, st.Min)
	assert.Equal(t, start.AddDate(0, 0, 1), st.MinDate)
	assert.InDelta(t, 50.0, st.TradingRangePct, 1e-9)
	assert.InDelta(t, 75.0, st.RangePositionPct, 1e-9)

	_, ok = Range(indicator.Series{})
	assert.False(t, ok)
}

func TestPositionIn(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi float64
		want      float64
	}{
		{"at minimum", 10, 10, 20, 0},
		{"at maximum", 20, 10, 20, 100},
		{"midpoint", 15, 10, 20, 50},
		{"degenerate", 7, 7, 7, DegeneratePosition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PositionIn(tt.v, tt.lo, tt.hi), 1e-9)
		})
	}
}

func TestRange_FlatSeries(t *testing.T) {
	st, ok := Range(build(t, "B", []float64{50, 50, 50}, nil))
	require.True(t, ok)
	assert.Equal(t, 0.0, st.TradingRangePct)
	assert.Equal(t, 50.0, st.RangePositionPct)
}

func TestVolatilityRatio(t *testing.T) {
	r, ok := VolatilityRatio(core.Of(3), core.Of(1.5)).Get()
	require.True(t, ok)
	assert.InDelta(t, 2.0, r, 1e-12)

	assert.False(t, VolatilityRatio(core.Of(3), core.Of(0)).Defined())
	assert.False(t, VolatilityRatio(core.Undefined(), core.Of(1)).Defined())
	assert.False(t, VolatilityRatio(core.Of(1), core.Undefined()).Defined())
}

func TestAnalyze(t *testing.T) {
	a := build(t, "A", noisy(60, 0.5), nil)
	b := build(t, "B", noisy(60, 0.9), nil)

	rep := Analyze(a, b)
	assert.Equal(t, 60, rep.Rows)
	assert.True(t, rep.Correlation.Computed())
	assert.True(t, rep.VolatilityRatio.Defined())
	assert.NotZero(t, rep.RangeA.Max)
	assert.NotZero(t, rep.RangeB.Max)
}
