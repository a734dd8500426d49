// Package trend fits an ordinary least squares line over the trailing window
// of a close series and classifies its direction and strength.
package trend

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultWindow is the number of trailing points fitted.
const DefaultWindow = 30

const (
	// SignificanceLevel is the p-value above which no trend is reported.
	SignificanceLevel = 0.05
	// StrongCorrelation is the r above which a trend is strong.
	StrongCorrelation = 0.8

	// flatTolerance is the relative standard deviation treated as a flat window.
	flatTolerance = 1e-12
)

// Kind tags which variant a Result holds.
type Kind int

const (
	KindInsufficientData Kind = iota
	KindUnavailable
	KindClassified
)

func (k Kind) String() string {
	switch k {
	case KindInsufficientData:
		return "insufficient_data"
	case KindUnavailable:
		return "unavailable"
	case KindClassified:
		return "classified"
	default:
		return "unknown"
	}
}

// Direction of a classified trend.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionNone Direction = "none"
)

// Strength of a directional trend. Empty for DirectionNone.
type Strength string

const (
	StrengthStrong   Strength = "strong"
	StrengthModerate Strength = "moderate"
)

// Outlook is the investment outlook derived from a trend.
type Outlook string

const (
	OutlookPositive Outlook = "Positive"
	OutlookNegative Outlook = "Negative"
	OutlookNeutral  Outlook = "Neutral"
)

// Result is a tagged variant: only the fields of its Kind are meaningful.
// Reason is set for KindUnavailable; the fit fields for KindClassified.
type Result struct {
	Kind   Kind
	Reason string

	Direction         Direction
	Strength          Strength
	Slope             float64
	Intercept         float64
	R                 float64
	RSquared          float64
	AnnualizedRatePct float64
	PValue            float64
	Window            int
}

// Classified returns the result and true when a fit was classified.
func (r Result) Classified() (Result, bool) {
	return r, r.Kind == KindClassified
}

// Outlook maps the trend onto an investment outlook. Anything other than a
// classified up or down trend is neutral.
func (r Result) Outlook() Outlook {
	if r.Kind != KindClassified {
		return OutlookNeutral
	}
	switch r.Direction {
	case DirectionUp:
		return OutlookPositive
	case DirectionDown:
		return OutlookNegative
	default:
		return OutlookNeutral
	}
}

// Describe renders the trend assessment shown in reports.
func (r Result) Describe() string {
	switch r.Kind {
	case KindInsufficientData:
		return "Insufficient data"
	case KindUnavailable:
		return "Trend analysis unavailable"
	}
	if r.Direction == DirectionNone {
		return "No clear trend"
	}
	strength := "Moderate"
	if r.Strength == StrengthStrong {
		strength = "Strong"
	}
	return fmt.Sprintf("%s %strend (projected annual return: %.1f%%)", strength, r.Direction, r.AnnualizedRatePct)
}

// Analyze fits prices[len-window:] against x = 0..window-1. A fit that
// cannot be computed is reported as KindUnavailable rather than an error.
func Analyze(prices []float64, window int) Result {
	if window <= 0 || len(prices) < window {
		return Result{Kind: KindInsufficientData, Window: window}
	}
	if window < 3 {
		return unavailable(window, "window of %d leaves no degrees of freedom", window)
	}

	y := prices[len(prices)-window:]
	x := make([]float64, window)
	for i := range x {
		x[i] = float64(i)
	}

	mean, sd := stat.MeanStdDev(y, nil)
	if sd <= flatTolerance*math.Abs(mean) {
		return unavailable(window, "zero price variance over %d points", window)
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)
	r := stat.Correlation(x, y, nil)
	if !finite(intercept, slope, r) {
		return unavailable(window, "non-finite regression output")
	}
	r = math.Max(-1, math.Min(1, r))

	pValue := slopePValue(r, window-2)
	annualized := slope * 365 / float64(window) * 100 / y[0]
	if !finite(pValue, annualized) {
		return unavailable(window, "non-finite significance or rate")
	}

	res := Result{
		Kind:              KindClassified,
		Slope:             slope,
		Intercept:         intercept,
		R:                 r,
		RSquared:          r * r,
		AnnualizedRatePct: annualized,
		PValue:            pValue,
		Window:            window,
	}

	switch {
	case pValue > SignificanceLevel:
		res.Direction = DirectionNone
	case slope > 0:
		res.Direction = DirectionUp
		res.Strength = strength(r)
	default:
		res.Direction = DirectionDown
		res.Strength = strength(r)
	}
	return res
}

// strength compares the signed r, so downtrends (r < 0) read as moderate.
func strength(r float64) Strength {
	if r > StrongCorrelation {
		return StrengthStrong
	}
	return StrengthModerate
}

// slopePValue is the two-sided p-value of the slope t-statistic with df
// degrees of freedom.
func slopePValue(r float64, df int) float64 {
	denom := (1 - r) * (1 + r)
	if denom <= 0 {
		return 0
	}
	t := r * math.Sqrt(float64(df)/denom)
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	return 2 * dist.Survival(math.Abs(t))
}

func unavailable(window int, format string, args ...any) Result {
	return Result{Kind: KindUnavailable, Reason: fmt.Sprintf(format, args...), Window: window}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
