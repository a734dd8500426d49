package collector

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/newthinker/pairlens/internal/core"
)

// Config holds collector configuration
type Config struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	// BaseURL overrides the provider endpoint. Empty selects the public API.
	BaseURL string
}

// DefaultConfig returns a 10s timeout and two requests per second.
func DefaultConfig() Config {
	return Config{Timeout: 10 * time.Second, RequestsPerSecond: 2}
}

// Collector fetches historical bars for one symbol.
type Collector interface {
	Name() string
	FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.OHLCV, error)
}

// NewLimiter returns a token bucket allowing rps requests per second with a
// burst of one. A non-positive rps disables limiting.
func NewLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}
