package analytics

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"FolioPulse/internal/domain/models"
)

func investAmount(v float64) *float64 { return &v }

type fakePriceSource struct {
	table    *models.PriceTable
	err      error
	lastFrom time.Time
}

func (f *fakePriceSource) DailyCloses(_ context.Context, tickers []string, from, _ time.Time) (*models.PriceTable, error) {
	f.lastFrom = from
	if f.err != nil {
		return nil, f.err
	}
	return f.table, nil
}

func (f *fakePriceSource) Health(context.Context) error { return nil }
func (f *fakePriceSource) Close() error                 { return nil }

func priceTable(cols map[string][]float64) *models.PriceTable {
	n := 0
	var tickers []string
	for t, vs := range cols {
		n = len(vs)
		tickers = append(tickers, t)
	}
	dates := make([]time.Time, n)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = day.AddDate(0, 0, i)
	}
	pt := models.NewPriceTable(dates, tickers)
	for t, vs := range cols {
		copy(pt.Values[t], vs)
	}
	return pt
}

func TestSimulateMetrics(t *testing.T) {
	// Portfolio returns are 2% then 4% per day.
	src := &fakePriceSource{table: priceTable(map[string][]float64{
		"VOO": {100, 102, 106.08},
	})}
	eng := NewSimulationEngine(src, SimulationConfig{LookbackDays: 365, HighCorrThreshold: 0.85})

	resp, err := eng.Simulate(context.Background(), models.SimulateRequest{Tickers: []string{"voo"}, Investment: investAmount(500)})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if resp.Tickers[0] != "VOO" {
		t.Fatalf("ticker not uppercased: %v", resp.Tickers)
	}
	if len(resp.Allocations) != 1 || resp.Allocations[0] != 500 {
		t.Fatalf("allocations = %v", resp.Allocations)
	}

	mean := (0.02 + 0.04) / 2
	std := math.Sqrt((math.Pow(0.02-mean, 2) + math.Pow(0.04-mean, 2)) / 1)
	wantRet := mean * 252
	wantVol := std * math.Sqrt(252)
	wantSharpe := wantRet / wantVol

	if math.Abs(resp.ReturnAnnualized-wantRet) > 1e-9 {
		t.Fatalf("return = %v, want %v", resp.ReturnAnnualized, wantRet)
	}
	if math.Abs(resp.VolatilityAnnualized-wantVol) > 1e-9 {
		t.Fatalf("vol = %v, want %v", resp.VolatilityAnnualized, wantVol)
	}
	if math.Abs(resp.SharpeRatio-wantSharpe) > 1e-9 {
		t.Fatalf("sharpe = %v, want %v", resp.SharpeRatio, wantSharpe)
	}

	if len(resp.Positions) != 1 {
		t.Fatalf("positions = %v", resp.Positions)
	}
	pos := resp.Positions[0]
	if pos.BuyPrice != 100 || math.Abs(pos.Shares-5) > 1e-9 {
		t.Fatalf("position = %+v, want buy 100 / 5 shares", pos)
	}
}

func TestSimulateZeroVolZeroSharpe(t *testing.T) {
	// Constant 1% daily growth: sample std of returns is 0.
	src := &fakePriceSource{table: priceTable(map[string][]float64{
		"X": {100, 101, 102.01, 103.0301},
	})}
	eng := NewSimulationEngine(src, SimulationConfig{})

	resp, err := eng.Simulate(context.Background(), models.SimulateRequest{Tickers: []string{"X"}})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if resp.VolatilityAnnualized > 1e-9 {
		t.Fatalf("vol = %v, want 0", resp.VolatilityAnnualized)
	}
	if resp.SharpeRatio != 0 {
		t.Fatalf("sharpe = %v, want 0 when volatility is 0", resp.SharpeRatio)
	}
}

func TestSimulateHighCorrPairs(t *testing.T) {
	src := &fakePriceSource{table: priceTable(map[string][]float64{
		"A": {100, 102, 101, 104, 103},
		"B": {50, 51, 50.5, 52, 51.5},
	})}
	eng := NewSimulationEngine(src, SimulationConfig{HighCorrThreshold: 0.85})

	resp, err := eng.Simulate(context.Background(), models.SimulateRequest{Tickers: []string{"A", "B"}})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if len(resp.HighCorrPairs) != 1 {
		t.Fatalf("pairs = %+v, want one", resp.HighCorrPairs)
	}
	if resp.HighCorrPairs[0].Corr < 0.85 {
		t.Fatalf("pair corr = %v, below threshold", resp.HighCorrPairs[0].Corr)
	}
}

func TestSimulateGapFill(t *testing.T) {
	vals := []float64{100, math.NaN(), 102, 103}
	src := &fakePriceSource{table: priceTable(map[string][]float64{"X": vals})}
	eng := NewSimulationEngine(src, SimulationConfig{})

	resp, err := eng.Simulate(context.Background(), models.SimulateRequest{Tickers: []string{"X"}})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if resp.ReturnAnnualized == 0 {
		t.Fatalf("gap should be filled, got zero metrics")
	}
}

func TestSimulateValidation(t *testing.T) {
	eng := NewSimulationEngine(&fakePriceSource{}, SimulationConfig{})
	if _, err := eng.Simulate(context.Background(), models.SimulateRequest{}); !errors.Is(err, ErrNoTickers) {
		t.Fatalf("err = %v, want ErrNoTickers", err)
	}
	if _, err := eng.Simulate(context.Background(), models.SimulateRequest{
		Tickers: []string{"VOO"}, Investment: investAmount(-5),
	}); !errors.Is(err, ErrBadInvestment) {
		t.Fatalf("err = %v, want ErrBadInvestment", err)
	}
	if _, err := eng.Simulate(context.Background(), models.SimulateRequest{
		Tickers: []string{"VOO"}, Investment: investAmount(0),
	}); !errors.Is(err, ErrBadInvestment) {
		t.Fatalf("err = %v, want ErrBadInvestment for explicit zero", err)
	}
}

func TestSimulateStartDateOverridesLookback(t *testing.T) {
	src := &fakePriceSource{table: priceTable(map[string][]float64{
		"VOO": {100, 102, 106.08},
	})}
	eng := NewSimulationEngine(src, SimulationConfig{})

	if _, err := eng.Simulate(context.Background(), models.SimulateRequest{
		Tickers: []string{"VOO"}, StartDate: "2025-06-02",
	}); err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	want := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if !src.lastFrom.Equal(want) {
		t.Fatalf("window start = %v, want %v", src.lastFrom, want)
	}

	_, err := eng.Simulate(context.Background(), models.SimulateRequest{
		Tickers: []string{"VOO"}, StartDate: "17-12-2024",
	})
	if err == nil {
		t.Fatal("expected error for malformed start date")
	}
}

func TestSimulateSourceError(t *testing.T) {
	boom := errors.New("clickhouse down")
	eng := NewSimulationEngine(&fakePriceSource{err: boom}, SimulationConfig{})
	if _, err := eng.Simulate(context.Background(), models.SimulateRequest{Tickers: []string{"VOO"}}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped source error", err)
	}
}

func TestSimulateEmptyWindowYieldsZeroMetrics(t *testing.T) {
	src := &fakePriceSource{table: models.NewPriceTable(nil, []string{"VOO"})}
	eng := NewSimulationEngine(src, SimulationConfig{})
	resp, err := eng.Simulate(context.Background(), models.SimulateRequest{Tickers: []string{"VOO"}})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if resp.ReturnAnnualized != 0 || resp.VolatilityAnnualized != 0 || resp.SharpeRatio != 0 {
		t.Fatalf("empty window metrics = %+v, want zeros", resp)
	}
}
