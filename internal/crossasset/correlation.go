package crossasset

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/newthinker/pairlens/internal/core"
)

// CorrelationKind tags the Correlation variant.
type CorrelationKind int

const (
	CorrelationUnavailable CorrelationKind = iota
	CorrelationComputed
)

// Correlation holds Pearson coefficients over the aligned rows. PriceCorr is
// meaningful only when Kind is CorrelationComputed; ReturnCorr may still be
// undefined when too few rows carry both daily returns.
type Correlation struct {
	Kind       CorrelationKind
	Reason     string
	PriceCorr  float64
	ReturnCorr core.Value
	Overlap    int
}

// Computed reports whether a price correlation is available.
func (c Correlation) Computed() bool {
	return c.Kind == CorrelationComputed
}

// Correlate computes the price and daily-return correlations of rows.
func Correlate(rows []Row) Correlation {
	if len(rows) == 0 {
		return Correlation{Reason: "no overlapping dates"}
	}

	xa := make([]float64, len(rows))
	xb := make([]float64, len(rows))
	var ra, rb []float64
	for i, row := range rows {
		xa[i], xb[i] = row.CloseA, row.CloseB
		a, okA := row.ReturnA.Get()
		b, okB := row.ReturnB.Get()
		if okA && okB {
			ra = append(ra, a)
			rb = append(rb, b)
		}
	}

	price, ok := pearson(xa, xb)
	if !ok {
		return Correlation{
			Reason:  fmt.Sprintf("price correlation undefined over %d rows", len(rows)),
			Overlap: len(rows),
		}
	}

	res := Correlation{
		Kind:      CorrelationComputed,
		PriceCorr: price,
		Overlap:   len(rows),
	}
	if r, ok := pearson(ra, rb); ok {
		res.ReturnCorr = core.Of(r)
	}
	return res
}

// pearson is undefined for fewer than two pairs or a zero-variance input.
func pearson(x, y []float64) (float64, bool) {
	if len(x) < 2 || len(x) != len(y) {
		return 0, false
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return 0, false
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return math.Max(-1, math.Min(1, r)), true
}
