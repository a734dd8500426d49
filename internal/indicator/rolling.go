package indicator

import (
	"gonum.org/v1/gonum/stat"

	"github.com/newthinker/pairlens/internal/core"
)

// RollingStdDev returns the trailing sample standard deviation (n-1
// denominator) over period entries. A window containing an undefined entry
// yields an undefined result.
func RollingStdDev(values []core.Value, period int) []core.Value {
	out := make([]core.Value, len(values))
	if period < 2 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		window, ok := core.Floats(values[i-period+1 : i+1])
		if !ok {
			continue
		}
		out[i] = core.Of(stat.StdDev(window, nil))
	}
	return out
}

// Defined wraps a fully populated column.
func Defined(values []float64) []core.Value {
	out := make([]core.Value, len(values))
	for i, v := range values {
		out[i] = core.Of(v)
	}
	return out
}

// Last returns the final entry of a column, undefined for an empty column.
func Last(column []core.Value) core.Value {
	if len(column) == 0 {
		return core.Undefined()
	}
	return column[len(column)-1]
}
