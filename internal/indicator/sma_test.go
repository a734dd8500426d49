package indicator

import (
	"math"
	"testing"
)

func TestSMA_Calculate(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14, 15}

	sma := SMA(prices, 3)

	// SMA(3) for [10,11,12,13,14,15]:
	// [0] = (10+11+12)/3 = 11
	// [1] = (11+12+13)/3 = 12
	// [2] = (12+13+14)/3 = 13
	// [3] = (13+14+15)/3 = 14
	expected := []float64{11, 12, 13, 14}

	if len(sma) != len(expected) {
		t.Fatalf("expected %d values, got %d", len(expected), len(sma))
	}

	for i, v := range expected {
		if sma[i] != v {
			t.Errorf("sma[%d] = %f, want %f", i, sma[i], v)
		}
	}
}

func TestSMA_NotEnoughData(t *testing.T) {
	prices := []float64{10, 11}
	sma := SMA(prices, 5)

	if len(sma) != 0 {
		t.Errorf("expected empty slice, got %d values", len(sma))
	}
}

func TestMovingAverage_Aligned(t *testing.T) {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + float64(i%7)*3.5 - float64(i)/4
	}

	ma := MovingAverage(prices, 20)

	if len(ma) != len(prices) {
		t.Fatalf("expected %d entries, got %d", len(prices), len(ma))
	}
	for i := 0; i < 19; i++ {
		if ma[i].Defined() {
			t.Errorf("ma[%d] should be undefined", i)
		}
	}
	for i := 19; i < len(prices); i++ {
		var sum float64
		for j := i - 19; j <= i; j++ {
			sum += prices[j]
		}
		got, ok := ma[i].Get()
		if !ok {
			t.Fatalf("ma[%d] should be defined", i)
		}
		if !almostEqual(got, sum/20, 1e-9) {
			t.Errorf("ma[%d] = %f, want %f", i, got, sum/20)
		}
	}
}

func TestMovingAverage_ShortSeries(t *testing.T) {
	ma := MovingAverage([]float64{1, 2, 3}, 5)
	if len(ma) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(ma))
	}
	for i, v := range ma {
		if v.Defined() {
			t.Errorf("ma[%d] should be undefined", i)
		}
	}
}

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}
