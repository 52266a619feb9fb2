package entity

import (
	"math"
	"sort"
	"time"
)

// PriceQuote is a daily close.
type PriceQuote struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is ordered by ascending date.
type PriceSeries []PriceQuote

// NewPriceSeries drops quotes without a date or with a non-finite or
// non-positive close and sorts the rest chronologically.
func NewPriceSeries(quotes []PriceQuote) PriceSeries {
	series := make(PriceSeries, 0, len(quotes))
	for _, q := range quotes {
		if q.Date.IsZero() || math.IsNaN(q.Close) || math.IsInf(q.Close, 0) || q.Close <= 0 {
			continue
		}
		series = append(series, q)
	}
	sort.SliceStable(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series
}

// Last returns the most recent quote.
func (s PriceSeries) Last() (PriceQuote, bool) {
	if len(s) == 0 {
		return PriceQuote{}, false
	}
	return s[len(s)-1], true
}

// First returns the oldest quote.
func (s PriceSeries) First() (PriceQuote, bool) {
	if len(s) == 0 {
		return PriceQuote{}, false
	}
	return s[0], true
}
