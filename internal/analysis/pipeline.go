// Package analysis runs the full indicator, trend, cross-asset and insight
// pipeline over a pair of close series.
package analysis

import (
	"fmt"
	"sync"
	"time"

	"github.com/newthinker/pairlens/internal/core"
	"github.com/newthinker/pairlens/internal/crossasset"
	"github.com/newthinker/pairlens/internal/indicator"
	"github.com/newthinker/pairlens/internal/insight"
	"github.com/newthinker/pairlens/internal/trend"
)

// Params configures a pipeline run.
type Params struct {
	Indicator   indicator.Params
	TrendWindow int
	// AnalysisStart cuts the indicator tables after computation. The zero
	// time keeps the whole history.
	AnalysisStart time.Time
	// PeriodLabel names the analysis window in the report. Defaults to the
	// year of AnalysisStart.
	PeriodLabel string
}

// DefaultParams returns the standard indicator windows and a 30-point trend
// window over the whole history.
func DefaultParams() Params {
	return Params{
		Indicator:   indicator.DefaultParams(),
		TrendWindow: trend.DefaultWindow,
	}
}

// Asset is one side of the pair.
type Asset struct {
	Label  string
	Name   string
	Series core.TimeSeries
}

// Leg holds the per-asset results.
type Leg struct {
	Label      string
	Name       string
	Indicators indicator.Series
	Trend      trend.Result
}

// Result is the output of Run.
type Result struct {
	Params Params
	A      Leg
	B      Leg
	Cross  crossasset.Report
	Report insight.Report
}

// Pipeline runs the analysis with fixed parameters.
type Pipeline struct {
	params Params
}

// New validates p and returns a Pipeline.
func New(p Params) (*Pipeline, error) {
	if err := p.Indicator.Validate(); err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid, err)
	}
	if p.TrendWindow < 3 {
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("trend window must be at least 3, got %d", p.TrendWindow))
	}
	return &Pipeline{params: p}, nil
}

// Run analyses a against b. Indicators are computed on the full histories
// and then cut to AnalysisStart, so the first rows of the window already
// carry their moving averages.
func (p *Pipeline) Run(a, b Asset) (*Result, error) {
	for _, asset := range []Asset{a, b} {
		if asset.Series.Empty() {
			return nil, core.WrapError(core.ErrNoData, fmt.Errorf("%s: empty series", asset.Label))
		}
	}

	var sa, sb indicator.Series
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sa = indicator.Compute(a.Series, p.params.Indicator)
	}()
	go func() {
		defer wg.Done()
		sb = indicator.Compute(b.Series, p.params.Indicator)
	}()
	wg.Wait()

	if !p.params.AnalysisStart.IsZero() {
		sa = sa.Since(p.params.AnalysisStart)
		sb = sb.Since(p.params.AnalysisStart)
	}
	for _, leg := range []struct {
		label string
		s     indicator.Series
	}{{a.Label, sa}, {b.Label, sb}} {
		if leg.s.Len() == 0 {
			return nil, core.WrapError(core.ErrNoData,
				fmt.Errorf("%s: no points on or after %s", leg.label, p.params.AnalysisStart.Format(core.DateLayout)))
		}
	}

	res := &Result{
		Params: p.params,
		A:      Leg{Label: a.Label, Name: a.Name, Indicators: sa, Trend: trend.Analyze(sa.Close, p.params.TrendWindow)},
		B:      Leg{Label: b.Label, Name: b.Name, Indicators: sb, Trend: trend.Analyze(sb.Close, p.params.TrendWindow)},
		Cross:  crossasset.Analyze(sa, sb),
	}

	period, startLabel := p.labels(sa)
	res.Report = insight.Generate(insight.Input{
		Period:     period,
		StartLabel: startLabel,
		A:          insight.NewSnapshot(a.Label, a.Name, sa, p.params.Indicator, res.A.Trend, res.Cross.RangeA),
		B:          insight.NewSnapshot(b.Label, b.Name, sb, p.params.Indicator, res.B.Trend, res.Cross.RangeB),
		Cross:      res.Cross,
	})
	return res, nil
}

// Run is a convenience wrapper around New and Pipeline.Run.
func Run(p Params, a, b Asset) (*Result, error) {
	pl, err := New(p)
	if err != nil {
		return nil, err
	}
	return pl.Run(a, b)
}

func (p *Pipeline) labels(s indicator.Series) (period, start string) {
	from := p.params.AnalysisStart
	if from.IsZero() {
		from = s.Dates[0]
	}
	period = p.params.PeriodLabel
	if period == "" {
		period = from.Format("2006")
	}
	return period, from.Format("Jan 2006")
}
