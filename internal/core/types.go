package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format used in config, flags and reports.
const DateLayout = "2006-01-02"

// OHLCV represents a candlestick/bar as delivered by a collector. Prices are
// kept as decimals so that exchange strings survive unchanged.
type OHLCV struct {
	Symbol   string
	Interval string // "1d", "1h"
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	Volume   decimal.Decimal
	Time     time.Time
}

// PricePoint is a single daily close.
type PricePoint struct {
	Date  time.Time
	Close decimal.Decimal
}

// Float returns the close as float64 for numeric work.
func (p PricePoint) Float() float64 {
	return p.Close.InexactFloat64()
}

// Day truncates t to a UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}
