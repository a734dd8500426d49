// Package chart renders indicator tables to PNG with gonum/plot.
package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/newthinker/pairlens/internal/core"
	"github.com/newthinker/pairlens/internal/indicator"
)

// Asset is one series to draw.
type Asset struct {
	Label  string
	Name   string
	Series indicator.Series
}

// Options sizes the output image.
type Options struct {
	Width  vg.Length
	Height vg.Length
	// Period labels titles, e.g. "2024".
	Period string
}

// DefaultOptions returns a 14x10 inch canvas.
func DefaultOptions() Options {
	return Options{Width: 14 * vg.Inch, Height: 10 * vg.Inch}
}

var (
	colorA      = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	colorB      = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	colorShort  = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	colorLong   = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	colorBand   = color.RGBA{R: 44, G: 160, B: 44, A: 200}
	colorFill   = color.RGBA{R: 44, G: 160, B: 44, A: 30}
	dashPattern = []vg.Length{vg.Points(6), vg.Points(3)}
)

// RenderOverview draws each asset's close with its moving averages, then a
// panel comparing the rolling volatility of both.
func RenderOverview(a, b Asset, opts Options) ([]byte, error) {
	pa, err := pricePanel(a, colorA, opts)
	if err != nil {
		return nil, err
	}
	pb, err := pricePanel(b, colorB, opts)
	if err != nil {
		return nil, err
	}

	pv := newPlot("Volatility Comparison", "Rolling Volatility (%)")
	for _, s := range []struct {
		asset Asset
		c     color.Color
	}{{a, colorA}, {b, colorB}} {
		if err := addLine(pv, s.asset.Series.Dates, s.asset.Series.Volatility,
			s.asset.Label+" Volatility", s.c, false); err != nil {
			return nil, err
		}
	}

	return render([]*plot.Plot{pa, pb, pv}, opts)
}

// RenderTechnical draws each asset's close inside its Bollinger bands.
func RenderTechnical(a, b Asset, opts Options) ([]byte, error) {
	var plots []*plot.Plot
	for _, s := range []struct {
		asset Asset
		c     color.Color
	}{{a, colorA}, {b, colorB}} {
		p, err := bollingerPanel(s.asset, s.c, opts)
		if err != nil {
			return nil, err
		}
		plots = append(plots, p)
	}
	return render(plots, opts)
}

func pricePanel(a Asset, c color.Color, opts Options) (*plot.Plot, error) {
	s := a.Series
	p := newPlot(title(fmt.Sprintf("%s Price with Moving Averages", a.Name), opts.Period), a.Name+" Price (USD)")
	if err := addLine(p, s.Dates, closes(s), a.Label+" Close", c, false); err != nil {
		return nil, err
	}
	if err := addLine(p, s.Dates, s.MAShort, a.Label+" Short MA", colorShort, true); err != nil {
		return nil, err
	}
	if err := addLine(p, s.Dates, s.MALong, a.Label+" Long MA", colorLong, true); err != nil {
		return nil, err
	}
	return p, nil
}

func bollingerPanel(a Asset, c color.Color, opts Options) (*plot.Plot, error) {
	s := a.Series
	p := newPlot(title(fmt.Sprintf("%s Technical Analysis with Bollinger Bands", a.Name), opts.Period), a.Name+" Price (USD)")

	upper := points(s.Dates, s.BollingerUpper)
	lower := points(s.Dates, s.BollingerLower)
	if len(upper) > 1 && len(upper) == len(lower) {
		ring := make(plotter.XYs, 0, 2*len(upper))
		ring = append(ring, upper...)
		for i := len(lower) - 1; i >= 0; i-- {
			ring = append(ring, lower[i])
		}
		band, err := plotter.NewPolygon(ring)
		if err != nil {
			return nil, fmt.Errorf("band polygon: %w", err)
		}
		band.Color = colorFill
		band.LineStyle.Width = 0
		p.Add(band)
	}

	if err := addLine(p, s.Dates, closes(s), a.Label+" Close", c, false); err != nil {
		return nil, err
	}
	if err := addLine(p, s.Dates, s.BollingerUpper, "Upper Band", colorBand, true); err != nil {
		return nil, err
	}
	if err := addLine(p, s.Dates, s.BollingerMid, "Middle Band", colorBand, false); err != nil {
		return nil, err
	}
	if err := addLine(p, s.Dates, s.BollingerLower, "Lower Band", colorBand, true); err != nil {
		return nil, err
	}
	return p, nil
}

func newPlot(titleText, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = titleText
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 02"}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())
	return p
}

func title(text, period string) string {
	if period == "" {
		return text
	}
	return text + " (" + period + ")"
}

// addLine plots the defined entries of values. A column with no defined
// entries is left out.
func addLine(p *plot.Plot, dates []time.Time, values []core.Value, label string, c color.Color, dashed bool) error {
	xys := points(dates, values)
	if len(xys) == 0 {
		return nil
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	line.Color = c
	line.Width = vg.Points(1.2)
	if dashed {
		line.Dashes = dashPattern
	}
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}

func points(dates []time.Time, values []core.Value) plotter.XYs {
	xys := make(plotter.XYs, 0, len(values))
	for i, v := range values {
		if y, ok := v.Get(); ok && i < len(dates) {
			xys = append(xys, plotter.XY{X: float64(dates[i].Unix()), Y: y})
		}
	}
	return xys
}

func closes(s indicator.Series) []core.Value {
	out := make([]core.Value, len(s.Close))
	for i, c := range s.Close {
		out[i] = core.Of(c)
	}
	return out
}

// render stacks plots vertically on one canvas and encodes it as PNG.
func render(plots []*plot.Plot, opts Options) ([]byte, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		d := DefaultOptions()
		opts.Width, opts.Height = d.Width, d.Height
	}

	img := vgimg.New(opts.Width, opts.Height)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      5 * vg.Millimeter,
		PadTop:    3 * vg.Millimeter,
		PadBottom: 3 * vg.Millimeter,
		PadLeft:   3 * vg.Millimeter,
		PadRight:  3 * vg.Millimeter,
	}

	grid := make([][]*plot.Plot, len(plots))
	for i, p := range plots {
		grid[i] = []*plot.Plot{p}
	}
	canvases := plot.Align(grid, tiles, dc)
	for i := range grid {
		grid[i][0].Draw(canvases[i][0])
	}

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, core.WrapError(core.ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}
