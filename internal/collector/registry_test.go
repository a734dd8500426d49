package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/pairlens/internal/core"
)

// mockCollector for testing
type mockCollector struct {
	name string
	bars []core.OHLCV
	err  error

	gotInterval string
}

func (m *mockCollector) Name() string { return m.name }
func (m *mockCollector) FetchHistory(_ context.Context, symbol string, start, end time.Time, interval string) ([]core.OHLCV, error) {
	m.gotInterval = interval
	return m.bars, m.err
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockCollector{name: "mock"})

	c, ok := r.Get("mock")
	require.True(t, ok, "expected to find registered collector")
	assert.Equal(t, "mock", c.Name())
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry(&mockCollector{name: "yahoo"}, &mockCollector{name: "binance"})
	assert.Equal(t, []string{"binance", "yahoo"}, r.Names())
}

func TestRegistry_LookupUnknown(t *testing.T) {
	r := NewRegistry(&mockCollector{name: "yahoo"})

	_, err := r.Lookup("bloomberg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfigInvalid))
	assert.Contains(t, err.Error(), "bloomberg")

	c, err := r.Lookup("yahoo")
	require.NoError(t, err)
	assert.Equal(t, "yahoo", c.Name())
}

func TestNewLimiter(t *testing.T) {
	assert.Equal(t, 2.0, float64(NewLimiter(2).Limit()))
	assert.True(t, NewLimiter(0).Allow())
	assert.True(t, NewLimiter(0).Allow(), "disabled limiter never blocks")
}
