package analytics

import (
	"math"
	"testing"

	"FolioPulse/internal/domain/models"
)

func starterPack() *models.AnalyticsPack {
	tickers := map[string]models.TickerMetrics{}
	for _, t := range []string{
		"VTI", "VOO", "SPY", "IVV", "QQQ", "QQQM", "VEA", "IEFA",
		"BND", "AGG", "IEF", "TLT", "SHY",
		"AAPL", "MSFT", "JNJ", "JPM", "XOM", "PG", "COST", "UNH",
	} {
		tickers[t] = models.TickerMetrics{LastPrice: 100, Type: models.TypeETF}
	}
	return &models.AnalyticsPack{AsOf: "2025-08-29", Tickers: tickers}
}

func sumWeights(allocs []models.StarterAllocation) float64 {
	s := 0.0
	for _, a := range allocs {
		s += a.Weight
	}
	return s
}

func TestStarterWeightsSumToOne(t *testing.T) {
	syn := NewSynthesizer(starterPack(), 0)
	reqs := []models.StarterPortfolioRequest{
		{InvestmentStyle: "Long-term", AssetInterest: "I don't know", Focus: "Growth", Involvement: "Set & forget"},
		{InvestmentStyle: "Conservative", AssetInterest: "Bonds", Focus: "Stability", Involvement: "Monthly", AgeRange: "65+"},
		{InvestmentStyle: "Active", AssetInterest: "Stocks", Focus: "Active returns", Involvement: "Tweak", AgeRange: "20-35"},
		{InvestmentStyle: "Long-term", AssetInterest: "All of the above", Focus: "Dividend", Involvement: "Monthly", AgeRange: "51-65"},
		{InvestmentStyle: "Long-term", AssetInterest: "ETFs", Focus: "Growth", Involvement: "Tweak", AgeRange: "36-50"},
	}
	for _, req := range reqs {
		resp, err := syn.Build(req)
		if err != nil {
			t.Fatalf("%s: Build: %v", req.AssetInterest, err)
		}
		if got := sumWeights(resp.Allocations); math.Abs(got-1.0) > 0.002 {
			t.Fatalf("%s: weights sum to %v", req.AssetInterest, got)
		}
		for _, a := range resp.Allocations {
			if a.Weight <= 0 {
				t.Fatalf("%s: non-positive weight %+v", req.AssetInterest, a)
			}
			if a.Reason == "" {
				t.Fatalf("%s: allocation without reason %+v", req.AssetInterest, a)
			}
		}
		if len(resp.Notes) == 0 {
			t.Fatalf("%s: no notes", req.AssetInterest)
		}
	}
}

func TestStarterCapSplitsOverweight(t *testing.T) {
	syn := NewSynthesizer(starterPack(), 0.12)
	// 65+ conservative bond target 0.55; the bond core far exceeds the cap
	// and must be split across the bond substitute pool.
	resp, err := syn.Build(models.StarterPortfolioRequest{
		InvestmentStyle: "Conservative",
		AssetInterest:   "I don't know",
		Focus:           "Stability",
		Involvement:     "Set & forget",
		AgeRange:        "65+",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, a := range resp.Allocations {
		if a.Weight > 0.12+1e-9 {
			t.Fatalf("allocation above cap: %+v", a)
		}
	}
	if got := sumWeights(resp.Allocations); math.Abs(got-1.0) > 0.002 {
		t.Fatalf("weights sum to %v after split", got)
	}
}

func TestStarterStrategyShapes(t *testing.T) {
	syn := NewSynthesizer(starterPack(), 1.0) // cap disabled so shapes stay raw

	resp, err := syn.Build(models.StarterPortfolioRequest{
		InvestmentStyle: "Long-term", AssetInterest: "I don't know",
		Focus: "Growth", Involvement: "Set & forget",
	})
	if err != nil {
		t.Fatalf("Build three-fund: %v", err)
	}
	if len(resp.Allocations) != 3 {
		t.Fatalf("three-fund allocations = %d, want 3", len(resp.Allocations))
	}

	resp, err = syn.Build(models.StarterPortfolioRequest{
		InvestmentStyle: "Long-term", AssetInterest: "Bonds",
		Focus: "Stability", Involvement: "Set & forget",
	})
	if err != nil {
		t.Fatalf("Build bonds: %v", err)
	}
	if len(resp.Allocations) != 2 {
		t.Fatalf("simple bond allocations = %d, want 2", len(resp.Allocations))
	}

	resp, err = syn.Build(models.StarterPortfolioRequest{
		InvestmentStyle: "Long-term", AssetInterest: "Stocks",
		Focus: "Growth", Involvement: "Tweak",
	})
	if err != nil {
		t.Fatalf("Build stocks: %v", err)
	}
	if len(resp.Allocations) != 9 { // ETF core + 8 stocks
		t.Fatalf("stock basket allocations = %d, want 9", len(resp.Allocations))
	}
}

func TestStarterAgeAndStyleTargets(t *testing.T) {
	syn := NewSynthesizer(starterPack(), 1.0)
	resp, err := syn.Build(models.StarterPortfolioRequest{
		InvestmentStyle: "Long-term", AssetInterest: "I don't know",
		Focus: "Growth", Involvement: "Set & forget", AgeRange: "20-35",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var bondW float64
	for _, a := range resp.Allocations {
		if a.Type == models.TypeBondETF {
			bondW += a.Weight
		}
	}
	if math.Abs(bondW-0.10) > 1e-4 {
		t.Fatalf("20-35 bond weight = %v, want 0.10", bondW)
	}
}

func TestStarterRejectsBadEnums(t *testing.T) {
	syn := NewSynthesizer(starterPack(), 0)
	_, err := syn.Build(models.StarterPortfolioRequest{
		InvestmentStyle: "YOLO", AssetInterest: "Stocks",
		Focus: "Growth", Involvement: "Monthly",
	})
	if err == nil {
		t.Fatalf("expected error for unknown investment style")
	}
}

func TestStarterAcceptsCurlyApostrophe(t *testing.T) {
	syn := NewSynthesizer(starterPack(), 0)
	resp, err := syn.Build(models.StarterPortfolioRequest{
		InvestmentStyle: "Long-term", AssetInterest: "I don’t know",
		Focus: "Growth", Involvement: "Set & forget",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(resp.Allocations) == 0 {
		t.Fatal("no allocations for curly-apostrophe answer")
	}
	var total float64
	for _, a := range resp.Allocations {
		total += a.Weight
	}
	if math.Abs(total-1.0) > 1e-6 {
		t.Fatalf("weights sum to %v, want 1", total)
	}
}
