// Package insight turns the analysis results for a pair of assets into an
// ordered, rule-based narrative report.
package insight

import (
	"fmt"
	"math"

	"github.com/newthinker/pairlens/internal/core"
	"github.com/newthinker/pairlens/internal/crossasset"
	"github.com/newthinker/pairlens/internal/indicator"
	"github.com/newthinker/pairlens/internal/trend"
)

// AssetSnapshot is everything the generator needs to know about one asset.
type AssetSnapshot struct {
	Label string // short ticker, e.g. "BTC"
	Name  string // display name, e.g. "Bitcoin"

	StartClose float64
	EndClose   float64
	ChangePct  float64

	MALong           core.Value
	MALongPeriod     int
	RSI              core.Value
	RSIPeriod        int
	Volatility       core.Value
	VolatilityWindow int

	Trend trend.Result
	Range crossasset.RangeStats
}

// NewSnapshot extracts the last indicator readings of s.
func NewSnapshot(label, name string, s indicator.Series, p indicator.Params, tr trend.Result, rs crossasset.RangeStats) AssetSnapshot {
	snap := AssetSnapshot{
		Label:            label,
		Name:             name,
		MALong:           indicator.Last(s.MALong),
		MALongPeriod:     p.LongMA,
		RSI:              indicator.Last(s.RSI),
		RSIPeriod:        p.RSIPeriod,
		Volatility:       indicator.Last(s.Volatility),
		VolatilityWindow: p.VolatilityWindow,
		Trend:            tr,
		Range:            rs,
	}
	snap.StartClose, _ = s.FirstClose()
	snap.EndClose, _ = s.LastClose()
	snap.ChangePct, _ = crossasset.PctChange(s)
	return snap
}

// Outlook is the asset's investment outlook.
func (a AssetSnapshot) Outlook() trend.Outlook {
	return a.Trend.Outlook()
}

// Input is the full set of results for one run.
type Input struct {
	// Period labels the analysis window in headings, e.g. "2024".
	Period string
	// StartLabel labels the first close, e.g. "Jan 2024".
	StartLabel string

	A     AssetSnapshot
	B     AssetSnapshot
	Cross crossasset.Report
}

// Generate builds the report. It is deterministic in its input.
func Generate(in Input) Report {
	return Report{
		Title: fmt.Sprintf("Comprehensive %s/%s Analysis for %s", in.A.Label, in.B.Label, in.Period),
		Sections: []Section{
			{HeadingPerformance, performance(in)},
			{HeadingTechnical, technical(in)},
			{HeadingVolatility, volatility(in)},
			{HeadingRange, priceRange(in)},
			{HeadingCorrelation, correlation(in)},
			{HeadingOutlook, outlook(in)},
			{HeadingRecommendations, Recommendations(in)},
		},
	}
}

func performance(in Input) []string {
	var lines []string
	for i, a := range []AssetSnapshot{in.A, in.B} {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines,
			fmt.Sprintf("%s Starting Price (%s): %s", a.Label, in.StartLabel, price(a.StartClose)),
			fmt.Sprintf("%s Current Price: %s", a.Label, price(a.EndClose)),
			fmt.Sprintf("%s Price Change: %s", a.Label, pct(a.ChangePct)),
		)
	}

	rel := in.Cross.Relative
	lines = append(lines, "")
	switch rel.Stronger {
	case crossasset.LeaderA:
		lines = append(lines, fmt.Sprintf("Relative Strength: %s has outperformed by %s", in.A.Name, pct(math.Abs(rel.Spread))))
	case crossasset.LeaderB:
		lines = append(lines, fmt.Sprintf("Relative Strength: %s has outperformed by %s", in.B.Name, pct(math.Abs(rel.Spread))))
	default:
		lines = append(lines, "Relative Strength: both assets performed equally")
	}
	return lines
}

func technical(in Input) []string {
	pair := []AssetSnapshot{in.A, in.B}
	var lines []string
	for _, a := range pair {
		lines = append(lines, fmt.Sprintf("%s Trend Assessment: %s", a.Label, a.Trend.Describe()))
	}
	lines = append(lines, "")
	for _, a := range pair {
		lines = append(lines, fmt.Sprintf("%s %d-day Moving Average Signal: %s",
			a.Label, a.MALongPeriod, MovingAverageSignal(a.EndClose, a.MALong)))
	}
	lines = append(lines, "")
	for _, a := range pair {
		lines = append(lines, fmt.Sprintf("%s RSI (%d-day): %s - %s",
			a.Label, a.RSIPeriod, number(a.RSI), ClassifyRSI(a.RSI)))
	}
	return lines
}

func volatility(in Input) []string {
	var lines []string
	for _, a := range []AssetSnapshot{in.A, in.B} {
		v := "n/a"
		if x, ok := a.Volatility.Get(); ok {
			v = pct(x)
		}
		lines = append(lines, fmt.Sprintf("%s Recent Volatility (%d-day): %s", a.Label, a.VolatilityWindow, v))
	}
	if r, ok := in.Cross.VolatilityRatio.Get(); ok {
		lines = append(lines, fmt.Sprintf("%s/%s Volatility Ratio: %.2fx", in.A.Label, in.B.Label, r))
	}
	return lines
}

func priceRange(in Input) []string {
	var lines []string
	for i, a := range []AssetSnapshot{in.A, in.B} {
		if i > 0 {
			lines = append(lines, "")
		}
		r := a.Range
		lines = append(lines,
			fmt.Sprintf("%s %s High: %s on %s", a.Label, in.Period, price(r.Max), r.MaxDate.Format(core.DateLayout)),
			fmt.Sprintf("%s %s Low: %s on %s", a.Label, in.Period, price(r.Min), r.MinDate.Format(core.DateLayout)),
			fmt.Sprintf("%s Trading Range: %s", a.Label, pct(r.TradingRangePct)),
			fmt.Sprintf("%s Current Position in Range: %s (0%%=at low, 100%%=at high)", a.Label, pct(r.RangePositionPct)),
		)
	}
	return lines
}

// correlation omits every line when the coefficients are unavailable.
func correlation(in Input) []string {
	c := in.Cross.Correlation
	if !c.Computed() {
		return nil
	}
	lines := []string{
		fmt.Sprintf("Price Correlation: %.4f (1=perfect correlation, 0=no correlation, -1=perfect inverse)", c.PriceCorr),
	}
	if r, ok := c.ReturnCorr.Get(); ok {
		lines = append(lines, fmt.Sprintf("Daily Return Correlation: %.4f", r))
	}
	return lines
}

func outlook(in Input) []string {
	return []string{
		fmt.Sprintf("%s Outlook: %s", in.A.Name, in.A.Outlook()),
		fmt.Sprintf("%s Outlook: %s", in.B.Name, in.B.Outlook()),
	}
}

// Recommendations applies the fixed recommendation rules in priority order.
// Each rule contributes at most one line.
func Recommendations(in Input) []string {
	a, b := in.A, in.B
	var lines []string

	posA := a.Outlook() == trend.OutlookPositive
	posB := b.Outlook() == trend.OutlookPositive
	switch {
	case posA && posB:
		lines = append(lines, bullet("Both assets show positive momentum; consider maintaining positions in both."))
	case posA:
		lines = append(lines, bullet(fmt.Sprintf("%s shows stronger performance; consider overweighting %s in your portfolio.", a.Name, a.Label)))
	case posB:
		lines = append(lines, bullet(fmt.Sprintf("%s shows stronger performance; consider overweighting %s in your portfolio.", b.Name, b.Label)))
	default:
		lines = append(lines, bullet("Both assets show caution signals; consider reducing exposure or implementing hedging strategies."))
	}

	switch {
	case rsiBelow(a, RSIOversold) || rsiBelow(b, RSIOversold):
		lines = append(lines, bullet("Oversold conditions present potential buying opportunities."))
	case rsiAbove(a, RSIOverbought) || rsiAbove(b, RSIOverbought):
		lines = append(lines, bullet("Overbought conditions suggest caution with new positions."))
	}

	if in.Cross.Correlation.Computed() {
		if r, ok := in.Cross.Correlation.ReturnCorr.Get(); ok && r < DiversificationCorrelation {
			lines = append(lines, bullet("Lower correlation between assets suggests diversification benefits."))
		}
	}

	switch {
	case a.Range.RangePositionPct > RangeHigh || b.Range.RangePositionPct > RangeHigh:
		lines = append(lines, bullet("Current prices are near the high end of the trading range; consider taking partial profits."))
	case a.Range.RangePositionPct < RangeLow || b.Range.RangePositionPct < RangeLow:
		lines = append(lines, bullet("Current prices are near the low end of the trading range; potential value entry points."))
	}

	return lines
}

func rsiBelow(a AssetSnapshot, threshold float64) bool {
	v, ok := a.RSI.Get()
	return ok && v < threshold
}

func rsiAbove(a AssetSnapshot, threshold float64) bool {
	v, ok := a.RSI.Get()
	return ok && v > threshold
}

func bullet(s string) string {
	return "• " + s
}

func price(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func number(v core.Value) string {
	if x, ok := v.Get(); ok {
		return fmt.Sprintf("%.2f", x)
	}
	return "n/a"
}
