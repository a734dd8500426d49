package indicator

import "github.com/newthinker/pairlens/internal/core"

// RSI computes the Relative Strength Index using trailing simple means of
// gains and losses over period price changes. The first defined entry is at
// index period. A zero average loss is replaced by epsilon, so a series
// without losses reads close to 100 (or 0 when it has no gains either).
func RSI(prices []float64, period int, epsilon float64) []core.Value {
	out := make([]core.Value, len(prices))
	if period <= 0 || len(prices) <= period {
		return out
	}

	gains := make([]float64, len(prices)-1)
	losses := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gains[i-1] = delta
		} else {
			losses[i-1] = -delta
		}
	}

	avgGain := SMA(gains, period)
	avgLoss := SMA(losses, period)

	// avgGain[k] covers deltas ending at price index k+period.
	// Rolling sums can leave tiny negative residues; clamp before dividing.
	for k := range avgGain {
		gain := max(avgGain[k], 0)
		loss := avgLoss[k]
		if loss <= 0 {
			loss = epsilon
		}
		rs := gain / loss
		out[k+period] = core.Of(100 - 100/(1+rs))
	}
	return out
}
