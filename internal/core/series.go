package core

import (
	"fmt"
	"sort"
	"time"
)

// TimeSeries is the ordered daily close history of one asset. Dates are
// strictly increasing and every close is positive; NewTimeSeries enforces both.
type TimeSeries struct {
	symbol string
	points []PricePoint
}

// NewTimeSeries validates points and builds a series. The slice is copied.
func NewTimeSeries(symbol string, points []PricePoint) (TimeSeries, error) {
	if symbol == "" {
		return TimeSeries{}, WrapError(ErrInvalidSeries, fmt.Errorf("symbol cannot be empty"))
	}
	cp := make([]PricePoint, len(points))
	for i, p := range points {
		if !p.Close.IsPositive() {
			return TimeSeries{}, WrapError(ErrInvalidSeries,
				fmt.Errorf("%s: close must be positive at %s, got %s", symbol, p.Date.Format(DateLayout), p.Close))
		}
		p.Date = Day(p.Date)
		if i > 0 && !p.Date.After(cp[i-1].Date) {
			return TimeSeries{}, WrapError(ErrInvalidSeries,
				fmt.Errorf("%s: dates not strictly increasing at %s", symbol, p.Date.Format(DateLayout)))
		}
		cp[i] = p
	}
	return TimeSeries{symbol: symbol, points: cp}, nil
}

// SeriesFromBars converts collector bars into a TimeSeries. Bars are sorted by
// time, collapsed to one per calendar day (the last bar of the day wins) and
// bars with a non-positive close are dropped.
func SeriesFromBars(symbol string, bars []OHLCV) (TimeSeries, error) {
	sorted := make([]OHLCV, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	points := make([]PricePoint, 0, len(sorted))
	for _, b := range sorted {
		if !b.Close.IsPositive() {
			continue
		}
		day := Day(b.Time)
		if n := len(points); n > 0 && points[n-1].Date.Equal(day) {
			points[n-1].Close = b.Close
			continue
		}
		points = append(points, PricePoint{Date: day, Close: b.Close})
	}
	return NewTimeSeries(symbol, points)
}

func (s TimeSeries) Symbol() string { return s.symbol }

func (s TimeSeries) Len() int { return len(s.points) }

func (s TimeSeries) Empty() bool { return len(s.points) == 0 }

// At returns the i-th point; ok is false when i is out of range.
func (s TimeSeries) At(i int) (PricePoint, bool) {
	if i < 0 || i >= len(s.points) {
		return PricePoint{}, false
	}
	return s.points[i], true
}

func (s TimeSeries) First() (PricePoint, bool) { return s.At(0) }

func (s TimeSeries) Last() (PricePoint, bool) { return s.At(len(s.points) - 1) }

// Closes returns the close column as float64.
func (s TimeSeries) Closes() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Float()
	}
	return out
}

// Dates returns the date column.
func (s TimeSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.points))
	for i, p := range s.points {
		out[i] = p.Date
	}
	return out
}

// Since returns the suffix of the series starting at the first point on or
// after date.
func (s TimeSeries) Since(date time.Time) TimeSeries {
	i := SinceIndex(s.Dates(), date)
	return TimeSeries{symbol: s.symbol, points: s.points[i:]}
}

// SinceIndex returns the index of the first date on or after date, or
// len(dates) when there is none.
func SinceIndex(dates []time.Time, date time.Time) int {
	day := Day(date)
	return sort.Search(len(dates), func(i int) bool { return !dates[i].Before(day) })
}
