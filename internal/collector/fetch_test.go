package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/pairlens/internal/core"
)

var (
	jan1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jan5 = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
)

func TestFetch_BuildsSeries(t *testing.T) {
	m := &mockCollector{name: "mock", bars: []core.OHLCV{
		{Close: decimal.RequireFromString("42000.12"), Time: jan1},
		{Close: decimal.RequireFromString("43000.5"), Time: jan1.AddDate(0, 0, 1)},
	}}

	ts, err := Fetch(context.Background(), m, "BTC-USD", jan1, jan5)
	require.NoError(t, err)
	assert.Equal(t, "1d", m.gotInterval)
	assert.Equal(t, "BTC-USD", ts.Symbol())
	assert.Equal(t, 2, ts.Len())

	first, _ := ts.First()
	assert.True(t, first.Close.Equal(decimal.RequireFromString("42000.12")))
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name string
		m    *mockCollector
		want *core.Error
	}{
		{"provider error", &mockCollector{name: "mock", err: errors.New("boom")}, core.ErrCollectorFailed},
		{"no bars", &mockCollector{name: "mock"}, core.ErrNoData},
		{"only zero closes", &mockCollector{name: "mock", bars: []core.OHLCV{{Close: decimal.Zero, Time: jan1}}}, core.ErrNoData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fetch(context.Background(), tt.m, "BTC-USD", jan1, jan5)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
