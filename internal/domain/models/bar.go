package models

import (
	"sort"
	"time"
)

// PriceBar represents one daily OHLCV record. Bars are immutable once built.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// BarSeries is an ordered sequence of bars, ascending by date, unique dates.
type BarSeries []PriceBar

// AsOf returns the prefix of the series containing only bars dated at or
// before t. This is the single slicing boundary for walk-forward analysis:
// nothing past t is reachable through the returned slice.
func (s BarSeries) AsOf(t time.Time) BarSeries {
	n := sort.Search(len(s), func(i int) bool { return s[i].Date.After(t) })
	return s[:n]
}

// IndexOf returns the position of the bar dated exactly t, or -1.
func (s BarSeries) IndexOf(t time.Time) int {
	n := sort.Search(len(s), func(i int) bool { return !s[i].Date.Before(t) })
	if n < len(s) && s[n].Date.Equal(t) {
		return n
	}
	return -1
}

// Closes extracts the close column.
func (s BarSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Close
	}
	return out
}

// Last returns the most recent bar and true, or a zero bar and false.
func (s BarSeries) Last() (PriceBar, bool) {
	if len(s) == 0 {
		return PriceBar{}, false
	}
	return s[len(s)-1], true
}
