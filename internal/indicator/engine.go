package indicator

import (
	"fmt"
	"time"

	"github.com/newthinker/pairlens/internal/core"
)

// Params holds the rolling window sizes used by Compute.
type Params struct {
	ShortMA          int
	LongMA           int
	RSIPeriod        int
	VolatilityWindow int
	BollingerPeriod  int
	BollingerK       float64
	// RSIEpsilon replaces a zero average loss.
	RSIEpsilon float64
}

// DefaultParams returns the standard 20/50 MA, RSI(14), 20-day volatility
// and 20-period, 2-sigma Bollinger configuration.
func DefaultParams() Params {
	return Params{
		ShortMA:          20,
		LongMA:           50,
		RSIPeriod:        14,
		VolatilityWindow: 20,
		BollingerPeriod:  20,
		BollingerK:       2,
		RSIEpsilon:       1e-5,
	}
}

// Validate checks window sizes and constants.
func (p Params) Validate() error {
	windows := map[string]int{
		"short_ma":          p.ShortMA,
		"long_ma":           p.LongMA,
		"rsi_period":        p.RSIPeriod,
		"volatility_window": p.VolatilityWindow,
		"bollinger_period":  p.BollingerPeriod,
	}
	for name, w := range windows {
		if w < 2 {
			return fmt.Errorf("%s must be at least 2, got %d", name, w)
		}
	}
	if p.BollingerK <= 0 {
		return fmt.Errorf("bollinger_k must be positive, got %f", p.BollingerK)
	}
	if p.RSIEpsilon <= 0 {
		return fmt.Errorf("rsi_epsilon must be positive, got %g", p.RSIEpsilon)
	}
	return nil
}

// Series is the indicator table for one asset. Every column is index-aligned
// with Dates and Close.
type Series struct {
	Symbol string
	Dates  []time.Time
	Close  []float64

	DailyReturnPct []core.Value
	MAShort        []core.Value
	MALong         []core.Value
	RSI            []core.Value
	Volatility     []core.Value
	BollingerMid   []core.Value
	BollingerUpper []core.Value
	BollingerLower []core.Value
	BollingerStd   []core.Value
}

// Compute derives every indicator column from ts. It has no side effects.
func Compute(ts core.TimeSeries, p Params) Series {
	closes := ts.Closes()
	n := len(closes)

	returns := make([]core.Value, n)
	for i := 1; i < n; i++ {
		returns[i] = core.Of((closes[i]/closes[i-1] - 1) * 100)
	}

	mid := MovingAverage(closes, p.BollingerPeriod)
	std := RollingStdDev(Defined(closes), p.BollingerPeriod)
	upper := make([]core.Value, n)
	lower := make([]core.Value, n)
	for i := range closes {
		m, okM := mid[i].Get()
		sd, okS := std[i].Get()
		if !okM || !okS {
			continue
		}
		upper[i] = core.Of(m + p.BollingerK*sd)
		lower[i] = core.Of(m - p.BollingerK*sd)
	}

	return Series{
		Symbol:         ts.Symbol(),
		Dates:          ts.Dates(),
		Close:          closes,
		DailyReturnPct: returns,
		MAShort:        MovingAverage(closes, p.ShortMA),
		MALong:         MovingAverage(closes, p.LongMA),
		RSI:            RSI(closes, p.RSIPeriod, p.RSIEpsilon),
		Volatility:     RollingStdDev(returns, p.VolatilityWindow),
		BollingerMid:   mid,
		BollingerUpper: upper,
		BollingerLower: lower,
		BollingerStd:   std,
	}
}

// Len returns the number of rows.
func (s Series) Len() int {
	return len(s.Close)
}

// Since returns the rows dated on or after date. Indicator values keep the
// history they were computed from.
func (s Series) Since(date time.Time) Series {
	i := core.SinceIndex(s.Dates, date)
	return Series{
		Symbol:         s.Symbol,
		Dates:          s.Dates[i:],
		Close:          s.Close[i:],
		DailyReturnPct: s.DailyReturnPct[i:],
		MAShort:        s.MAShort[i:],
		MALong:         s.MALong[i:],
		RSI:            s.RSI[i:],
		Volatility:     s.Volatility[i:],
		BollingerMid:   s.BollingerMid[i:],
		BollingerUpper: s.BollingerUpper[i:],
		BollingerLower: s.BollingerLower[i:],
		BollingerStd:   s.BollingerStd[i:],
	}
}

// FirstClose returns the first close, if any.
func (s Series) FirstClose() (float64, bool) {
	if len(s.Close) == 0 {
		return 0, false
	}
	return s.Close[0], true
}

// LastClose returns the last close, if any.
func (s Series) LastClose() (float64, bool) {
	if len(s.Close) == 0 {
		return 0, false
	}
	return s.Close[len(s.Close)-1], true
}
