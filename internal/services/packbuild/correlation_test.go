package packbuild

import (
	"math"
	"testing"
	"time"

	"FolioPulse/internal/domain/models"
)

func returnsTable(t *testing.T, cols map[string][]float64) *models.PriceTable {
	t.Helper()
	n := 0
	var tickers []string
	for tk, vs := range cols {
		n = len(vs)
		tickers = append(tickers, tk)
	}
	dates := make([]time.Time, n)
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = day.AddDate(0, 0, i)
	}
	pt := models.NewPriceTable(dates, tickers)
	for tk, vs := range cols {
		copy(pt.Values[tk], vs)
	}
	return pt
}

func TestBuildCorrelationTop(t *testing.T) {
	base := []float64{0.01, -0.02, 0.015, -0.005, 0.02, -0.01, 0.005, 0.012}
	inverse := make([]float64, len(base))
	noisy := make([]float64, len(base))
	for i, v := range base {
		inverse[i] = -v
		noisy[i] = v + 0.001*float64(i%3)
	}
	rets := returnsTable(t, map[string][]float64{
		"A": base,
		"B": base, // perfectly correlated with A
		"C": inverse,
		"D": noisy,
	})

	top := BuildCorrelationTop(rets, 2, 5)

	edges, ok := top["A"]
	if !ok {
		t.Fatalf("no edges for A")
	}
	if len(edges) != 2 {
		t.Fatalf("topN not enforced: got %d edges", len(edges))
	}
	if edges[0].Ticker != "B" || math.Abs(edges[0].Corr-1.0) > 1e-9 {
		t.Fatalf("first edge = %+v, want B at 1.0", edges[0])
	}
	for _, e := range edges {
		if e.Ticker == "A" {
			t.Fatalf("self edge present")
		}
	}
	// C correlates -1 with A so it must not beat B or D.
	if edges[1].Ticker == "C" {
		t.Fatalf("anticorrelated ticker ranked above positive one")
	}
}

func TestBuildCorrelationTopMinObs(t *testing.T) {
	long := []float64{0.01, -0.02, 0.015, -0.005, 0.02, -0.01}
	sparse := []float64{0.01, math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()}
	rets := returnsTable(t, map[string][]float64{
		"A": long,
		"B": long,
		"S": sparse,
	})
	top := BuildCorrelationTop(rets, 8, 5)
	if _, ok := top["S"]; ok {
		t.Fatalf("sparse ticker should be excluded")
	}
	for _, e := range top["A"] {
		if e.Ticker == "S" {
			t.Fatalf("edge to sparse ticker present")
		}
	}
}

func TestBuildCorrelationTopTieBreak(t *testing.T) {
	base := []float64{0.01, -0.02, 0.015, -0.005, 0.02, -0.01}
	rets := returnsTable(t, map[string][]float64{
		"A": base,
		"C": base,
		"B": base,
	})
	top := BuildCorrelationTop(rets, 8, 5)
	edges := top["A"]
	if len(edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(edges))
	}
	if edges[0].Ticker != "B" || edges[1].Ticker != "C" {
		t.Fatalf("tie not broken alphabetically: %+v", edges)
	}
}
