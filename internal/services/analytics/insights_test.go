package analytics

import (
	"strings"
	"testing"

	"FolioPulse/internal/domain/models"
)

func insightsPack() *models.AnalyticsPack {
	p := testPack()
	p.CorrelationTop = map[string][]models.CorrelationEdge{
		"AAPL": {
			{Ticker: "MSFT", Corr: 0.93},
			{Ticker: "JPM", Corr: 0.72},
			{Ticker: "JNJ", Corr: 0.40},
		},
		"MSFT": {
			{Ticker: "AAPL", Corr: 0.91}, // lower than AAPL's view; max must win
			{Ticker: "VOO", Corr: 0.85},
		},
		"VOO": {
			{Ticker: "BND", Corr: 0.10},
		},
	}
	return p
}

func TestInsightsWarningTiers(t *testing.T) {
	s := NewScorer(insightsPack())
	resp, err := s.Insights([]models.Holding{
		{Ticker: "AAPL", Weight: 0.25},
		{Ticker: "MSFT", Weight: 0.25},
		{Ticker: "JPM", Weight: 0.25},
		{Ticker: "VOO", Weight: 0.25},
	}, models.FocusGrowth)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}

	if len(resp.MostCorrelatedPairs) != 3 {
		t.Fatalf("pairs = %+v, want 3", resp.MostCorrelatedPairs)
	}
	first := resp.MostCorrelatedPairs[0]
	if first.A != "AAPL" || first.B != "MSFT" || first.Corr != 0.93 {
		t.Fatalf("top pair = %+v, want AAPL/MSFT at 0.93", first)
	}

	var verySimilar, high, moderate bool
	for _, w := range resp.CorrelationWarnings {
		switch {
		case strings.Contains(w, "move very similarly"):
			verySimilar = true
		case strings.Contains(w, "highly correlated"):
			high = true
		case strings.Contains(w, "moderately correlated"):
			moderate = true
		}
	}
	if !verySimilar || !high || !moderate {
		t.Fatalf("expected one warning per tier, got %v", resp.CorrelationWarnings)
	}
}

func TestInsightsOnlyHeldPairs(t *testing.T) {
	s := NewScorer(insightsPack())
	resp, err := s.Insights([]models.Holding{
		{Ticker: "AAPL", Weight: 0.5},
		{Ticker: "JNJ", Weight: 0.5},
	}, models.FocusGrowth)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	for _, p := range resp.MostCorrelatedPairs {
		if p.A == "MSFT" || p.B == "MSFT" {
			t.Fatalf("pair references unheld ticker: %+v", p)
		}
	}
}

func TestInsightsNoStrongOverlap(t *testing.T) {
	s := NewScorer(insightsPack())
	resp, err := s.Insights([]models.Holding{
		{Ticker: "VOO", Weight: 0.6},
		{Ticker: "BND", Weight: 0.4},
	}, models.FocusStability)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if len(resp.CorrelationWarnings) != 1 || !strings.Contains(resp.CorrelationWarnings[0], "No strong correlation overlaps") {
		t.Fatalf("warnings = %v", resp.CorrelationWarnings)
	}
	if len(resp.MostCorrelatedPairs) != 1 {
		t.Fatalf("pairs = %+v, want the 0.10 pair reported without warning", resp.MostCorrelatedPairs)
	}
}

func TestInsightsMissingCorrelationIndex(t *testing.T) {
	p := testPack()
	p.CorrelationTop = map[string][]models.CorrelationEdge{}
	s := NewScorer(p)
	resp, err := s.Insights([]models.Holding{{Ticker: "AAPL", Weight: 1}}, models.FocusGrowth)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if len(resp.CorrelationWarnings) != 1 || !strings.Contains(resp.CorrelationWarnings[0], "aren't available") {
		t.Fatalf("warnings = %v", resp.CorrelationWarnings)
	}
}
