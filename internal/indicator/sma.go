package indicator

import "github.com/newthinker/pairlens/internal/core"

// SMA calculates Simple Moving Average
// Returns slice of length: len(prices) - period + 1
func SMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return []float64{}
	}

	result := make([]float64, 0, len(prices)-period+1)

	// Calculate first SMA
	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	result = append(result, sum/float64(period))

	// Rolling calculation
	for i := period; i < len(prices); i++ {
		sum = sum - prices[i-period] + prices[i]
		result = append(result, sum/float64(period))
	}

	return result
}

// MovingAverage returns the trailing simple moving average aligned with
// prices: entry i averages prices[i-period+1..i] and entries before
// period-1 are undefined.
func MovingAverage(prices []float64, period int) []core.Value {
	return align(SMA(prices, period), len(prices))
}

// align right-aligns a trimmed rolling result into a full-length column.
func align(trimmed []float64, n int) []core.Value {
	out := make([]core.Value, n)
	offset := n - len(trimmed)
	for i, v := range trimmed {
		out[offset+i] = core.Of(v)
	}
	return out
}
