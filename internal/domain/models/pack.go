package models

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
)

// TradingDays is the annualization assumption used across all price-derived
// metrics.
const TradingDays = 252

// Instrument types stored in the pack and emitted by the starter synthesizer.
const (
	TypeStock   = "stock"
	TypeETF     = "etf"
	TypeBondETF = "bond_etf"
)

// TickerMetrics holds the price-derived metrics and metadata for one instrument.
// CAGR, Vol and Trend use NaN as a "not enough data / degenerate input" sentinel;
// NaN is never serialized, it crosses the JSON boundary as null.
type TickerMetrics struct {
	LastPrice float64
	CAGR      float64
	Vol       float64
	Trend     float64
	Type      string
	Name      string
	Sector    string // empty when unknown; only populated for stocks
}

type tickerMetricsJSON struct {
	LastPrice *float64 `json:"last_price"`
	CAGR      *float64 `json:"cagr"`
	Vol       *float64 `json:"vol"`
	Trend     *float64 `json:"trend"`
	Type      string   `json:"type"`
	Name      string   `json:"name"`
	Sector    string   `json:"sector,omitempty"`
}

func floatToNullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func nullableToFloat(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

func (m TickerMetrics) MarshalJSON() ([]byte, error) {
	return json.Marshal(tickerMetricsJSON{
		LastPrice: floatToNullable(m.LastPrice),
		CAGR:      floatToNullable(m.CAGR),
		Vol:       floatToNullable(m.Vol),
		Trend:     floatToNullable(m.Trend),
		Type:      m.Type,
		Name:      m.Name,
		Sector:    m.Sector,
	})
}

func (m *TickerMetrics) UnmarshalJSON(b []byte) error {
	var aux tickerMetricsJSON
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	m.LastPrice = nullableToFloat(aux.LastPrice)
	m.CAGR = nullableToFloat(aux.CAGR)
	m.Vol = nullableToFloat(aux.Vol)
	m.Trend = nullableToFloat(aux.Trend)
	m.Type = aux.Type
	m.Name = aux.Name
	m.Sector = aux.Sector
	return nil
}

// CorrelationEdge is one entry of a ticker's top-N correlation list.
// Edges are stored directed but the underlying relation is symmetric;
// each side truncates independently, so the index is not guaranteed symmetric.
type CorrelationEdge struct {
	Ticker string  `json:"t"`
	Corr   float64 `json:"c"`
}

// PackSource records build provenance for an analytics pack.
type PackSource struct {
	ETFCSV                string `json:"etf_csv"`
	StocksCSV             string `json:"stocks_csv"`
	TradingDaysAssumption int    `json:"tradingDaysAssumption"`
}

// AnalyticsPack is the serialized artifact produced by the offline builder and
// consumed read-only by every online scoring component. It is loaded once at
// startup and never mutated afterwards; replacing it means restarting the
// serving process.
type AnalyticsPack struct {
	AsOf           string                       `json:"asOf,omitempty"`
	Source         PackSource                   `json:"source"`
	Tickers        map[string]TickerMetrics     `json:"tickers"`
	CorrelationTop map[string][]CorrelationEdge `json:"correlationTop"`
}

// Has reports whether ticker is part of the pack universe.
func (p *AnalyticsPack) Has(ticker string) bool {
	_, ok := p.Tickers[ticker]
	return ok
}

// SearchTickers returns up to limit pack tickers containing the query
// substring (case-insensitive), sorted alphabetically.
func (p *AnalyticsPack) SearchTickers(query string, limit int) []string {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}
	var matches []string
	for t := range p.Tickers {
		if strings.Contains(t, q) {
			matches = append(matches, t)
		}
	}
	sort.Strings(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// LoadPack reads an analytics pack JSON file.
func LoadPack(path string) (*AnalyticsPack, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pack: %w", err)
	}
	var p AnalyticsPack
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse pack: %w", err)
	}
	if p.Tickers == nil {
		p.Tickers = map[string]TickerMetrics{}
	}
	if p.CorrelationTop == nil {
		p.CorrelationTop = map[string][]CorrelationEdge{}
	}
	return &p, nil
}

// Save writes the pack as indented JSON.
func (p *AnalyticsPack) Save(path string) error {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal pack: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write pack: %w", err)
	}
	return nil
}
