package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/newthinker/pairlens/internal/collector"
	"github.com/newthinker/pairlens/internal/core"
)

const (
	baseURL = "https://api.binance.com"
	// pageLimit is the maximum number of klines per request.
	pageLimit = 1000
)

// Binance implements the collector for Binance spot klines
type Binance struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
}

// New creates a Binance collector from cfg.
func New(cfg collector.Config) *Binance {
	if cfg.Timeout <= 0 {
		cfg.Timeout = collector.DefaultConfig().Timeout
	}
	b := &Binance{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: collector.NewLimiter(cfg.RequestsPerSecond),
		baseURL: baseURL,
	}
	if cfg.BaseURL != "" {
		b.baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return b
}

func (b *Binance) Name() string {
	return "binance"
}

// ToPair maps a quote-style symbol onto a Binance pair: BTC-USD and btc/usd
// become BTCUSDT. Symbols already in pair form pass through.
func ToPair(symbol string) string {
	s := strings.ToUpper(symbol)
	for _, sep := range []string{"-", "/", "_"} {
		if base, quote, ok := strings.Cut(s, sep); ok {
			if quote == "USD" {
				quote = "USDT"
			}
			return base + quote
		}
	}
	return s
}

// FetchHistory pages through the klines endpoint until end is reached.
func (b *Binance) FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.OHLCV, error) {
	pair := ToPair(symbol)
	if pair == "" {
		return nil, fmt.Errorf("symbol cannot be empty")
	}

	var data []core.OHLCV
	from := start
	for from.Before(end) {
		page, err := b.fetchPage(ctx, pair, from, end, interval)
		if err != nil {
			return nil, err
		}
		for i := range page {
			page[i].Symbol = symbol
		}
		data = append(data, page...)
		if len(page) < pageLimit {
			break
		}
		from = page[len(page)-1].Time.Add(time.Millisecond)
	}
	return data, nil
}

func (b *Binance) fetchPage(ctx context.Context, pair string, start, end time.Time, interval string) ([]core.OHLCV, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("symbol", pair)
	q.Set("interval", b.toInterval(interval))
	q.Set("startTime", fmt.Sprint(start.UnixMilli()))
	q.Set("endTime", fmt.Sprint(end.UnixMilli()))
	q.Set("limit", fmt.Sprint(pageLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/api/v3/klines?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Msg != "" {
			return nil, fmt.Errorf("binance error %d: %s", apiErr.Code, apiErr.Msg)
		}
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var klines [][]any
	if err := json.NewDecoder(resp.Body).Decode(&klines); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	data := make([]core.OHLCV, 0, len(klines))
	for _, k := range klines {
		bar, err := parseKline(k, interval)
		if err != nil {
			return nil, err
		}
		data = append(data, bar)
	}
	return data, nil
}

// parseKline reads [openTime, open, high, low, close, volume, ...] with
// prices as decimal strings.
func parseKline(k []any, interval string) (core.OHLCV, error) {
	if len(k) < 6 {
		return core.OHLCV{}, fmt.Errorf("kline has %d fields, want at least 6", len(k))
	}
	openTime, ok := k[0].(float64)
	if !ok {
		return core.OHLCV{}, fmt.Errorf("kline open time is %T", k[0])
	}

	var cols [5]decimal.Decimal
	for i := range cols {
		s, ok := k[i+1].(string)
		if !ok {
			return core.OHLCV{}, fmt.Errorf("kline field %d is %T, want string", i+1, k[i+1])
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return core.OHLCV{}, fmt.Errorf("kline field %d: %w", i+1, err)
		}
		cols[i] = d
	}

	return core.OHLCV{
		Interval: interval,
		Open:     cols[0],
		High:     cols[1],
		Low:      cols[2],
		Close:    cols[3],
		Volume:   cols[4],
		Time:     time.UnixMilli(int64(openTime)).UTC(),
	}, nil
}

func (b *Binance) toInterval(interval string) string {
	switch interval {
	case "1m", "5m", "15m", "30m":
		return interval
	case "1h", "2h", "4h":
		return interval
	case "1d":
		return "1d"
	case "1w":
		return "1w"
	default:
		return "1d"
	}
}

type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}
