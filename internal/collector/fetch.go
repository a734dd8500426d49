package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/newthinker/pairlens/internal/core"
)

// Fetch downloads daily bars for symbol over [start, end] and converts them
// into a validated TimeSeries.
func Fetch(ctx context.Context, c Collector, symbol string, start, end time.Time) (core.TimeSeries, error) {
	bars, err := c.FetchHistory(ctx, symbol, start, end, "1d")
	if err != nil {
		return core.TimeSeries{}, core.WrapError(core.ErrCollectorFailed,
			fmt.Errorf("%s: %s: %w", c.Name(), symbol, err))
	}
	if len(bars) == 0 {
		return core.TimeSeries{}, core.WrapError(core.ErrNoData,
			fmt.Errorf("%s: no bars for %s between %s and %s",
				c.Name(), symbol, start.Format(core.DateLayout), end.Format(core.DateLayout)))
	}
	ts, err := core.SeriesFromBars(symbol, bars)
	if err != nil {
		return core.TimeSeries{}, err
	}
	if ts.Empty() {
		return core.TimeSeries{}, core.WrapError(core.ErrNoData,
			fmt.Errorf("%s: no positive closes for %s", c.Name(), symbol))
	}
	return ts, nil
}
