package models

import (
	"math"
	"time"
)

// PriceBar is one daily close observation for a single instrument.
type PriceBar struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Source string    `json:"source,omitempty"`
}

// PriceTable is a date-aligned matrix of daily closes. Dates are sorted
// ascending and unique; each ticker column has exactly len(Dates) values with
// NaN marking days the instrument did not trade.
type PriceTable struct {
	Dates   []time.Time
	Tickers []string
	Values  map[string][]float64
}

// NewPriceTable allocates a table with NaN-filled columns for the given
// date axis and tickers.
func NewPriceTable(dates []time.Time, tickers []string) *PriceTable {
	values := make(map[string][]float64, len(tickers))
	for _, t := range tickers {
		col := make([]float64, len(dates))
		for i := range col {
			col[i] = math.NaN()
		}
		values[t] = col
	}
	return &PriceTable{Dates: dates, Tickers: tickers, Values: values}
}

// Column returns the close series for ticker, or nil when absent.
func (pt *PriceTable) Column(ticker string) []float64 {
	return pt.Values[ticker]
}

// Len returns the number of rows on the date axis.
func (pt *PriceTable) Len() int {
	return len(pt.Dates)
}
