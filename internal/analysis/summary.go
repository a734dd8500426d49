package analysis

import (
	"encoding/json"

	"github.com/newthinker/pairlens/internal/core"
	"github.com/newthinker/pairlens/internal/crossasset"
	"github.com/newthinker/pairlens/internal/indicator"
	"github.com/newthinker/pairlens/internal/insight"
	"github.com/newthinker/pairlens/internal/trend"
)

// Summary is the machine-readable companion of the insight report.
type Summary struct {
	Period      string             `json:"period"`
	Start       string             `json:"start"`
	End         string             `json:"end"`
	Assets      []AssetSummary     `json:"assets"`
	Correlation CorrelationSummary `json:"correlation"`
	Relative    RelativeSummary    `json:"relative_strength"`
	// VolatilityRatio is nil when either volatility is undefined.
	VolatilityRatio *float64 `json:"volatility_ratio"`
	Recommendations []string `json:"recommendations"`
}

// AssetSummary is one asset's last readings and classification.
type AssetSummary struct {
	Label      string       `json:"label"`
	Name       string       `json:"name"`
	Symbol     string       `json:"symbol"`
	Points     int          `json:"points"`
	StartClose float64      `json:"start_close"`
	EndClose   float64      `json:"end_close"`
	ChangePct  float64      `json:"change_pct"`
	MALong     *float64     `json:"ma_long"`
	RSI        *float64     `json:"rsi"`
	Volatility *float64     `json:"volatility"`
	Trend      TrendSummary `json:"trend"`
	Outlook    string       `json:"outlook"`
	RangeLow   float64      `json:"range_low"`
	RangeHigh  float64      `json:"range_high"`
	RangePos   float64      `json:"range_position_pct"`
}

// TrendSummary flattens a trend.Result.
type TrendSummary struct {
	Kind              string   `json:"kind"`
	Reason            string   `json:"reason,omitempty"`
	Direction         string   `json:"direction,omitempty"`
	Strength          string   `json:"strength,omitempty"`
	AnnualizedRatePct *float64 `json:"annualized_rate_pct,omitempty"`
	PValue            *float64 `json:"p_value,omitempty"`
	RSquared          *float64 `json:"r_squared,omitempty"`
}

// CorrelationSummary flattens a crossasset.Correlation.
type CorrelationSummary struct {
	Available bool     `json:"available"`
	Reason    string   `json:"reason,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	Returns   *float64 `json:"returns,omitempty"`
	Overlap   int      `json:"overlap"`
}

// RelativeSummary flattens a crossasset.Relative.
type RelativeSummary struct {
	ChangeA  float64 `json:"change_a_pct"`
	ChangeB  float64 `json:"change_b_pct"`
	Spread   float64 `json:"spread_pct"`
	Stronger string  `json:"stronger"`
}

// Summary builds the summary document.
func (r *Result) Summary() Summary {
	s := Summary{
		Period:          r.periodLabel(),
		Assets:          []AssetSummary{legSummary(r.A, r.Cross.RangeA), legSummary(r.B, r.Cross.RangeB)},
		Correlation:     correlationSummary(r.Cross.Correlation),
		VolatilityRatio: ptr(r.Cross.VolatilityRatio),
		Relative: RelativeSummary{
			ChangeA:  r.Cross.Relative.ChangeA,
			ChangeB:  r.Cross.Relative.ChangeB,
			Spread:   r.Cross.Relative.Spread,
			Stronger: string(r.Cross.Relative.Stronger),
		},
	}
	if sec, ok := r.Report.Section(insight.HeadingRecommendations); ok {
		s.Recommendations = sec.Lines
	}
	if d := r.A.Indicators.Dates; len(d) > 0 {
		s.Start = d[0].Format(core.DateLayout)
		s.End = d[len(d)-1].Format(core.DateLayout)
	}
	return s
}

// JSON renders the summary as indented JSON.
func (r *Result) JSON() ([]byte, error) {
	return json.MarshalIndent(r.Summary(), "", "  ")
}

func (r *Result) periodLabel() string {
	if r.Params.PeriodLabel != "" {
		return r.Params.PeriodLabel
	}
	if !r.Params.AnalysisStart.IsZero() {
		return r.Params.AnalysisStart.Format("2006")
	}
	if d := r.A.Indicators.Dates; len(d) > 0 {
		return d[0].Format("2006")
	}
	return ""
}

func legSummary(l Leg, rs crossasset.RangeStats) AssetSummary {
	s := l.Indicators
	out := AssetSummary{
		Label:      l.Label,
		Name:       l.Name,
		Symbol:     s.Symbol,
		Points:     s.Len(),
		MALong:     ptr(indicator.Last(s.MALong)),
		RSI:        ptr(indicator.Last(s.RSI)),
		Volatility: ptr(indicator.Last(s.Volatility)),
		Trend:      trendSummary(l.Trend),
		Outlook:    string(l.Trend.Outlook()),
		RangeLow:   rs.Min,
		RangeHigh:  rs.Max,
		RangePos:   rs.RangePositionPct,
	}
	out.StartClose, _ = s.FirstClose()
	out.EndClose, _ = s.LastClose()
	out.ChangePct, _ = crossasset.PctChange(s)
	return out
}

func trendSummary(t trend.Result) TrendSummary {
	out := TrendSummary{Kind: t.Kind.String(), Reason: t.Reason}
	if _, ok := t.Classified(); ok {
		out.Direction = string(t.Direction)
		out.Strength = string(t.Strength)
		out.AnnualizedRatePct = ptr(core.Of(t.AnnualizedRatePct))
		out.PValue = ptr(core.Of(t.PValue))
		out.RSquared = ptr(core.Of(t.RSquared))
	}
	return out
}

func correlationSummary(c crossasset.Correlation) CorrelationSummary {
	out := CorrelationSummary{Available: c.Computed(), Reason: c.Reason, Overlap: c.Overlap}
	if c.Computed() {
		out.Price = ptr(core.Of(c.PriceCorr))
		out.Returns = ptr(c.ReturnCorr)
	}
	return out
}

// ptr maps an undefined value to JSON null.
func ptr(v core.Value) *float64 {
	x, ok := v.Get()
	if !ok {
		return nil
	}
	return &x
}
