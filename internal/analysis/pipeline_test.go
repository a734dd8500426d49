package analysis

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/pairlens/internal/core"
	"github.com/newthinker/pairlens/internal/crossasset"
	"github.com/newthinker/pairlens/internal/insight"
	"github.com/newthinker/pairlens/internal/trend"
)

var origin = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func series(t *testing.T, symbol string, n int, close func(i int) float64) core.TimeSeries {
	t.Helper()
	points := make([]core.PricePoint, n)
	for i := range points {
		points[i] = core.PricePoint{Date: origin.AddDate(0, 0, i), Close: decimal.NewFromFloat(close(i))}
	}
	ts, err := core.NewTimeSeries(symbol, points)
	require.NoError(t, err)
	return ts
}

func linearAndFlat(t *testing.T) (Asset, Asset) {
	a := Asset{Label: "BTC", Name: "Bitcoin", Series: series(t, "BTC-USD", 90, func(i int) float64 { return 100 + float64(i) })}
	b := Asset{Label: "ETH", Name: "Ethereum", Series: series(t, "ETH-USD", 90, func(int) float64 { return 50 })}
	return a, b
}

func TestRun_LinearVersusFlat(t *testing.T) {
	a, b := linearAndFlat(t)

	res, err := Run(DefaultParams(), a, b)
	require.NoError(t, err)

	assert.Equal(t, trend.KindClassified, res.A.Trend.Kind)
	assert.Equal(t, trend.DirectionUp, res.A.Trend.Direction)
	assert.Equal(t, trend.StrengthStrong, res.A.Trend.Strength)
	assert.Equal(t, trend.OutlookPositive, res.A.Trend.Outlook())

	assert.Equal(t, trend.KindUnavailable, res.B.Trend.Kind)
	assert.Equal(t, trend.OutlookNeutral, res.B.Trend.Outlook())

	assert.Equal(t, crossasset.LeaderA, res.Cross.Relative.Stronger)
	assert.InDelta(t, 89, res.Cross.Relative.Spread, 1e-9)
	assert.False(t, res.Cross.Correlation.Computed(), "flat prices have no correlation")
	assert.False(t, res.Cross.VolatilityRatio.Defined())

	text := res.Report.String()
	assert.True(t, strings.HasPrefix(text, "# Comprehensive BTC/ETH Analysis for 2024"))
	assert.Contains(t, text, "BTC Trend Assessment: Strong uptrend")
	assert.Contains(t, text, "ETH Trend Assessment: Trend analysis unavailable")
	assert.Contains(t, text, "Relative Strength: Bitcoin has outperformed by 89.00%")
	assert.Contains(t, text, "BTC Starting Price (Jan 2024): $100.00")
	assert.Contains(t, text, "BTC Current Price: $189.00")

	recs, ok := res.Report.Section(insight.HeadingRecommendations)
	require.True(t, ok)
	joined := strings.Join(recs.Lines, "\n")
	assert.Contains(t, joined, "Bitcoin shows stronger performance; consider overweighting BTC in your portfolio.")
	assert.Contains(t, joined, "Oversold conditions")
	assert.Contains(t, joined, "high end of the trading range")
	assert.NotContains(t, joined, "diversification")
}

func TestRun_CutsAfterComputing(t *testing.T) {
	a, b := linearAndFlat(t)
	p := DefaultParams()
	p.AnalysisStart = origin.AddDate(0, 0, 60)

	res, err := Run(p, a, b)
	require.NoError(t, err)

	ind := res.A.Indicators
	require.Equal(t, 30, ind.Len())
	assert.Equal(t, p.AnalysisStart, ind.Dates[0])
	assert.True(t, ind.MALong[0].Defined(), "history before the cut feeds the long MA")
	assert.True(t, ind.RSI[0].Defined())
	assert.Contains(t, res.Report.String(), "BTC Starting Price (Mar 2024): $160.00")
}

func TestRun_Deterministic(t *testing.T) {
	a, b := linearAndFlat(t)
	first, err := Run(DefaultParams(), a, b)
	require.NoError(t, err)
	second, err := Run(DefaultParams(), a, b)
	require.NoError(t, err)
	assert.Equal(t, first.Report.String(), second.Report.String())
}

func TestRun_NoData(t *testing.T) {
	a, b := linearAndFlat(t)

	empty := Asset{Label: "ETH", Name: "Ethereum", Series: series(t, "ETH-USD", 0, nil)}
	_, err := Run(DefaultParams(), a, empty)
	assert.True(t, errors.Is(err, core.ErrNoData))

	p := DefaultParams()
	p.AnalysisStart = origin.AddDate(1, 0, 0)
	_, err = Run(p, a, b)
	assert.True(t, errors.Is(err, core.ErrNoData))
}

func TestNew_InvalidParams(t *testing.T) {
	p := DefaultParams()
	p.TrendWindow = 2
	_, err := New(p)
	assert.True(t, errors.Is(err, core.ErrConfigInvalid))

	p = DefaultParams()
	p.Indicator.RSIPeriod = 0
	_, err = New(p)
	assert.True(t, errors.Is(err, core.ErrConfigInvalid))
}

func TestRun_ShortHistory(t *testing.T) {
	a := Asset{Label: "BTC", Name: "Bitcoin", Series: series(t, "BTC-USD", 10, func(i int) float64 { return 100 + float64(i) })}
	b := Asset{Label: "ETH", Name: "Ethereum", Series: series(t, "ETH-USD", 10, func(i int) float64 { return 50 - float64(i) })}

	res, err := Run(DefaultParams(), a, b)
	require.NoError(t, err)

	assert.Equal(t, trend.KindInsufficientData, res.A.Trend.Kind)
	text := res.Report.String()
	assert.Contains(t, text, "BTC Trend Assessment: Insufficient data")
	assert.Contains(t, text, "BTC 50-day Moving Average Signal: Unavailable")
	assert.Contains(t, text, "BTC Recent Volatility (20-day): n/a")
	assert.Contains(t, text, "Price Correlation: -1.0000")
}

func TestResult_Summary(t *testing.T) {
	a, b := linearAndFlat(t)
	res, err := Run(DefaultParams(), a, b)
	require.NoError(t, err)

	s := res.Summary()
	assert.Equal(t, "2024", s.Period)
	assert.Equal(t, "2024-01-01", s.Start)
	assert.Equal(t, "2024-03-30", s.End)
	require.Len(t, s.Assets, 2)
	assert.Equal(t, "classified", s.Assets[0].Trend.Kind)
	assert.Equal(t, "up", s.Assets[0].Trend.Direction)
	assert.Equal(t, "unavailable", s.Assets[1].Trend.Kind)
	assert.NotEmpty(t, s.Assets[1].Trend.Reason)
	assert.False(t, s.Correlation.Available)
	assert.Nil(t, s.VolatilityRatio)
	assert.Equal(t, "A", s.Relative.Stronger)

	raw, err := res.JSON()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Nil(t, decoded["volatility_ratio"])
	assert.Len(t, decoded["recommendations"], 3)
}
