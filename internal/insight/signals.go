package insight

import "github.com/newthinker/pairlens/internal/core"

// RSI thresholds.
const (
	RSIOversold   = 30
	RSIOverbought = 70
)

// Range position thresholds for the profit-taking and entry notes.
const (
	RangeHigh = 80
	RangeLow  = 20
)

// DiversificationCorrelation is the return correlation below which the pair
// is reported as diversifying.
const DiversificationCorrelation = 0.5

// MASignal compares the last close with the long moving average.
type MASignal string

const (
	MABullish     MASignal = "Bullish"
	MABearish     MASignal = "Bearish"
	MAUnavailable MASignal = "Unavailable"
)

// RSISignal classifies the last RSI reading.
type RSISignal string

const (
	RSIOversoldSignal   RSISignal = "Oversold (buying opportunity)"
	RSIOverboughtSignal RSISignal = "Overbought (selling opportunity)"
	RSINeutralSignal    RSISignal = "Neutral"
	RSIUnavailable      RSISignal = "Unavailable"
)

// MovingAverageSignal is bullish when close is above the long MA.
func MovingAverageSignal(close float64, maLong core.Value) MASignal {
	ma, ok := maLong.Get()
	if !ok {
		return MAUnavailable
	}
	if close > ma {
		return MABullish
	}
	return MABearish
}

// ClassifyRSI maps an RSI reading onto a signal.
func ClassifyRSI(rsi core.Value) RSISignal {
	v, ok := rsi.Get()
	switch {
	case !ok:
		return RSIUnavailable
	case v < RSIOversold:
		return RSIOversoldSignal
	case v > RSIOverbought:
		return RSIOverboughtSignal
	default:
		return RSINeutralSignal
	}
}
