package analytics

import (
	"errors"
	"math"
	"strings"
	"testing"

	"FolioPulse/internal/domain/models"
)

func testPack() *models.AnalyticsPack {
	return &models.AnalyticsPack{
		AsOf: "2025-08-29",
		Tickers: map[string]models.TickerMetrics{
			"AAPL": {LastPrice: 230, CAGR: 0.15, Vol: 0.28, Trend: 0.0009, Type: models.TypeStock, Name: "Apple Inc.", Sector: "Technology"},
			"MSFT": {LastPrice: 420, CAGR: 0.12, Vol: 0.25, Trend: 0.0008, Type: models.TypeStock, Name: "Microsoft Corp.", Sector: "Technology"},
			"JNJ":  {LastPrice: 155, CAGR: 0.04, Vol: 0.15, Trend: 0.0002, Type: models.TypeStock, Name: "Johnson & Johnson", Sector: "Healthcare"},
			"JPM":  {LastPrice: 210, CAGR: 0.10, Vol: 0.22, Trend: 0.0006, Type: models.TypeStock, Name: "JPMorgan Chase", Sector: "Financials"},
			"VOO":  {LastPrice: 560, CAGR: 0.11, Vol: 0.17, Trend: 0.0005, Type: models.TypeETF, Name: "Vanguard S&P 500 ETF"},
			"BND":  {LastPrice: 72, CAGR: 0.02, Vol: 0.06, Trend: 0.0001, Type: models.TypeETF, Name: "Vanguard Total Bond"},
			"NODATA": {
				LastPrice: 10, CAGR: math.NaN(), Vol: math.NaN(), Trend: math.NaN(),
				Type: models.TypeStock, Name: "unknown",
			},
		},
		CorrelationTop: map[string][]models.CorrelationEdge{},
	}
}

func TestHealthSubScoresBoundedAndSum(t *testing.T) {
	s := NewScorer(testPack())
	resp, err := s.Health([]models.Holding{
		{Ticker: "AAPL", Weight: 0.25},
		{Ticker: "JNJ", Weight: 0.25},
		{Ticker: "JPM", Weight: 0.25},
		{Ticker: "VOO", Weight: 0.25},
	}, models.FocusGrowth)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}

	subs := []int{
		resp.SubScores.AllocationEquality,
		resp.SubScores.Concentration,
		resp.SubScores.SectorBalance,
		resp.SubScores.GoalAlignment,
	}
	sum := 0
	for _, v := range subs {
		if v < 0 || v > 25 {
			t.Fatalf("subscore out of range: %v", subs)
		}
		sum += v
	}
	if resp.Score != sum {
		t.Fatalf("score %d != subscore sum %d", resp.Score, sum)
	}
	if resp.AsOf != "2025-08-29" {
		t.Fatalf("asOf = %q", resp.AsOf)
	}
	if len(resp.Explainability) != 4 {
		t.Fatalf("explainability entries = %d, want 4", len(resp.Explainability))
	}
}

func TestHealthEqualWeightsScoreFullEquality(t *testing.T) {
	s := NewScorer(testPack())
	equal, err := s.Health([]models.Holding{
		{Ticker: "AAPL", Weight: 0.25},
		{Ticker: "JNJ", Weight: 0.25},
		{Ticker: "JPM", Weight: 0.25},
		{Ticker: "VOO", Weight: 0.25},
	}, models.FocusStability)
	if err != nil {
		t.Fatalf("Health equal: %v", err)
	}
	if equal.SubScores.AllocationEquality != 25 {
		t.Fatalf("equal weights allocationEquality = %d, want 25", equal.SubScores.AllocationEquality)
	}

	skewed, err := s.Health([]models.Holding{
		{Ticker: "AAPL", Weight: 0.85},
		{Ticker: "JNJ", Weight: 0.05},
		{Ticker: "JPM", Weight: 0.05},
		{Ticker: "VOO", Weight: 0.05},
	}, models.FocusStability)
	if err != nil {
		t.Fatalf("Health skewed: %v", err)
	}
	if skewed.SubScores.AllocationEquality >= equal.SubScores.AllocationEquality {
		t.Fatalf("skewed equality %d should be below equal %d",
			skewed.SubScores.AllocationEquality, equal.SubScores.AllocationEquality)
	}
}

func TestHealthAllTechIsOverexposed(t *testing.T) {
	s := NewScorer(testPack())
	resp, err := s.Health([]models.Holding{
		{Ticker: "AAPL", Weight: 0.5},
		{Ticker: "MSFT", Weight: 0.5},
	}, models.FocusGrowth)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if resp.SubScores.SectorBalance != 0 {
		t.Fatalf("sectorBalance = %d, want 0 for a 100%% single sector portfolio", resp.SubScores.SectorBalance)
	}
	found := false
	for _, r := range resp.TopRisks {
		if strings.Contains(r, "Sector overexposure") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no sector overexposure risk in %v", resp.TopRisks)
	}
}

func TestHealthUnknownTicker(t *testing.T) {
	s := NewScorer(testPack())
	_, err := s.Health([]models.Holding{{Ticker: "ZZZZ", Weight: 1}}, models.FocusGrowth)
	if !errors.Is(err, ErrUnknownTicker) {
		t.Fatalf("err = %v, want ErrUnknownTicker", err)
	}
	if !strings.Contains(err.Error(), "ZZZZ") {
		t.Fatalf("error should name the ticker: %v", err)
	}
}

func TestHealthNaNMetricsUseNeutralDefaults(t *testing.T) {
	s := NewScorer(testPack())
	resp, err := s.Health([]models.Holding{{Ticker: "NODATA", Weight: 1}}, models.FocusStability)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	// Neutral vol 0.25 maps between the 0.12 and 0.35 stability thresholds.
	want := linearScore(neutralVol, 0.12, 0.35)
	if resp.SubScores.GoalAlignment != want {
		t.Fatalf("goalAlignment = %d, want %d", resp.SubScores.GoalAlignment, want)
	}
}

func TestGini(t *testing.T) {
	if g := gini([]float64{0.25, 0.25, 0.25, 0.25}); math.Abs(g) > 1e-12 {
		t.Fatalf("gini of equal weights = %v, want 0", g)
	}
	mild := gini([]float64{0.4, 0.3, 0.2, 0.1})
	harsh := gini([]float64{0.85, 0.05, 0.05, 0.05})
	if !(mild > 0 && harsh > mild) {
		t.Fatalf("gini not monotonic in skew: mild=%v harsh=%v", mild, harsh)
	}
	if g := gini(nil); g != 1.0 {
		t.Fatalf("gini of empty = %v, want 1", g)
	}
	if g := gini([]float64{0, 0}); g != 1.0 {
		t.Fatalf("gini of zeros = %v, want 1", g)
	}
}

func TestLinearScore(t *testing.T) {
	if got := linearScore(0.05, 0.10, 0.50); got != 25 {
		t.Fatalf("at/below good = %d, want 25", got)
	}
	if got := linearScore(0.60, 0.10, 0.50); got != 0 {
		t.Fatalf("at/above bad = %d, want 0", got)
	}
	if got := linearScore(0.30, 0.10, 0.50); got != 13 {
		t.Fatalf("midpoint = %d, want 13", got)
	}
}
