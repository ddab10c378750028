package models

import (
	"encoding/json"
	"math"
	"path/filepath"
	"strings"
	"testing"
)

func TestTickerMetricsNaNSerializesAsNull(t *testing.T) {
	m := TickerMetrics{
		LastPrice: 101.5,
		CAGR:      math.NaN(),
		Vol:       0.22,
		Trend:     math.NaN(),
		Type:      TypeStock,
		Name:      "Test Corp",
		Sector:    "Technology",
	}
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, `"cagr":null`) {
		t.Fatalf("NaN cagr not serialized as null: %s", s)
	}
	if !strings.Contains(s, `"vol":0.22`) {
		t.Fatalf("finite vol mangled: %s", s)
	}

	var back TickerMetrics
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !math.IsNaN(back.CAGR) || !math.IsNaN(back.Trend) {
		t.Fatalf("null did not round-trip to NaN: %+v", back)
	}
	if back.Vol != 0.22 || back.LastPrice != 101.5 {
		t.Fatalf("finite values did not round-trip: %+v", back)
	}
}

func TestPackSaveLoadRoundTrip(t *testing.T) {
	pack := &AnalyticsPack{
		AsOf: "2025-08-29",
		Source: PackSource{
			ETFCSV:                "etf.csv",
			StocksCSV:             "stocks.csv",
			TradingDaysAssumption: TradingDays,
		},
		Tickers: map[string]TickerMetrics{
			"VOO":  {LastPrice: 560, CAGR: 0.11, Vol: 0.17, Trend: 0.0005, Type: TypeETF, Name: "Vanguard S&P 500 ETF"},
			"THIN": {LastPrice: 10, CAGR: math.NaN(), Vol: math.NaN(), Trend: math.NaN(), Type: TypeStock, Name: "unknown"},
		},
		CorrelationTop: map[string][]CorrelationEdge{
			"VOO": {{Ticker: "SPY", Corr: 0.999}},
		},
	}

	path := filepath.Join(t.TempDir(), "pack.json")
	if err := pack.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadPack(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.AsOf != pack.AsOf {
		t.Fatalf("asOf = %q, want %q", loaded.AsOf, pack.AsOf)
	}
	if !math.IsNaN(loaded.Tickers["THIN"].CAGR) {
		t.Fatalf("sparse metrics should come back NaN")
	}
	if got := loaded.CorrelationTop["VOO"]; len(got) != 1 || got[0].Ticker != "SPY" {
		t.Fatalf("correlationTop mangled: %+v", got)
	}
}

func TestLoadPackMissingFile(t *testing.T) {
	if _, err := LoadPack(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing pack")
	}
}

func TestSearchTickers(t *testing.T) {
	p := &AnalyticsPack{Tickers: map[string]TickerMetrics{
		"VOO": {}, "VTI": {}, "VEA": {}, "AAPL": {},
	}}
	got := p.SearchTickers("v", 2)
	if len(got) != 2 || got[0] != "VEA" || got[1] != "VOO" {
		t.Fatalf("search = %v, want [VEA VOO]", got)
	}
	if got := p.SearchTickers("", 10); got != nil {
		t.Fatalf("empty query should match nothing, got %v", got)
	}
	if got := p.SearchTickers("zzz", 10); len(got) != 0 {
		t.Fatalf("no-match query returned %v", got)
	}
}
