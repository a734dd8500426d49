package chart

import (
	"bytes"
	"image/png"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"github.com/newthinker/pairlens/internal/core"
	"github.com/newthinker/pairlens/internal/indicator"
)

func asset(t *testing.T, label string, n int, f func(i int) float64) Asset {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]core.PricePoint, n)
	for i := range points {
		points[i] = core.PricePoint{Date: start.AddDate(0, 0, i), Close: decimal.NewFromFloat(f(i))}
	}
	ts, err := core.NewTimeSeries(label+"-USD", points)
	require.NoError(t, err)
	return Asset{Label: label, Name: label, Series: indicator.Compute(ts, indicator.DefaultParams())}
}

func decode(t *testing.T, raw []byte) (int, int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestRenderOverview(t *testing.T) {
	a := asset(t, "BTC", 120, func(i int) float64 { return 40000 + 500*math.Sin(float64(i)/7) + 50*float64(i) })
	b := asset(t, "ETH", 120, func(i int) float64 { return 2200 + 80*math.Cos(float64(i)/5) })

	raw, err := RenderOverview(a, b, Options{Width: 6 * vg.Inch, Height: 6 * vg.Inch, Period: "2024"})
	require.NoError(t, err)

	w, h := decode(t, raw)
	assert.Greater(t, w, 0)
	assert.Equal(t, w, h)
}

func TestRenderTechnical(t *testing.T) {
	a := asset(t, "BTC", 60, func(i int) float64 { return 100 + float64(i%9) })
	b := asset(t, "ETH", 60, func(i int) float64 { return 50 + float64(i%4) })

	raw, err := RenderTechnical(a, b, DefaultOptions())
	require.NoError(t, err)
	w, h := decode(t, raw)
	assert.Greater(t, w, h, "default canvas is landscape")
}

func TestRender_ShortSeriesWithoutIndicators(t *testing.T) {
	a := asset(t, "BTC", 5, func(i int) float64 { return 100 + float64(i) })
	b := asset(t, "ETH", 1, func(int) float64 { return 50 })

	_, err := RenderOverview(a, b, Options{Width: 4 * vg.Inch, Height: 4 * vg.Inch})
	require.NoError(t, err)
	_, err = RenderTechnical(a, b, Options{Width: 4 * vg.Inch, Height: 4 * vg.Inch})
	require.NoError(t, err)
}

func TestPoints_SkipsUndefined(t *testing.T) {
	dates := []time.Time{time.Unix(0, 0), time.Unix(86400, 0), time.Unix(172800, 0)}
	xys := points(dates, []core.Value{core.Undefined(), core.Of(2), core.Of(3)})
	require.Len(t, xys, 2)
	assert.Equal(t, 86400.0, xys[0].X)
	assert.Equal(t, 3.0, xys[1].Y)
}
