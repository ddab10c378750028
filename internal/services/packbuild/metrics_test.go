package packbuild

import (
	"math"
	"testing"
	"time"

	"FolioPulse/internal/domain/models"
)

func TestCAGRAnnualization(t *testing.T) {
	// 25 observations from 100 to 126 span 24 trading days.
	got := CAGR(100, 126, 24)
	want := math.Pow(1.26, 252.0/24.0) - 1.0
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("CAGR = %v, want %v", got, want)
	}
}

func TestCAGRDegenerateInputs(t *testing.T) {
	cases := []struct {
		name  string
		first float64
		last  float64
		span  int
	}{
		{"zero first", 0, 100, 10},
		{"negative last", 100, -5, 10},
		{"nan first", math.NaN(), 100, 10},
		{"zero span", 100, 110, 0},
	}
	for _, tc := range cases {
		if got := CAGR(tc.first, tc.last, tc.span); !math.IsNaN(got) {
			t.Fatalf("%s: CAGR = %v, want NaN", tc.name, got)
		}
	}

	// Two valid observations is the smallest span that still annualizes.
	if got := CAGR(100, 110, 1); math.IsNaN(got) {
		t.Fatalf("CAGR over one-day span = %v, want a value", got)
	}
}

func TestAnnualizedVol(t *testing.T) {
	few := []float64{0.01, -0.02, 0.005}
	if got := AnnualizedVol(few); !math.IsNaN(got) {
		t.Fatalf("vol with %d returns = %v, want NaN", len(few), got)
	}

	flat := make([]float64, 30)
	for i := range flat {
		flat[i] = 0.01
	}
	// Sample stdev of identical floats carries rounding noise, so allow it.
	if got := AnnualizedVol(flat); math.Abs(got) > 1e-12 {
		t.Fatalf("vol of constant returns = %v, want ~0", got)
	}
}

func TestTrendLogSlope(t *testing.T) {
	// Price grows by exactly 1% per day, so the log slope is ln(1.01).
	prices := make([]float64, 40)
	p := 100.0
	for i := range prices {
		prices[i] = p
		p *= 1.01
	}
	got := TrendLogSlope(prices)
	want := math.Log(1.01)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("trend slope = %v, want %v", got, want)
	}

	if got := TrendLogSlope(prices[:10]); !math.IsNaN(got) {
		t.Fatalf("trend slope of short series = %v, want NaN", got)
	}
}

func TestBuildTickerMetrics(t *testing.T) {
	n := 30
	dates := make([]time.Time, n)
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = day.AddDate(0, 0, i)
	}
	pt := models.NewPriceTable(dates, []string{"VOO", "AAPL", "SPARSE"})
	p := 100.0
	for i := 0; i < n; i++ {
		pt.Values["VOO"][i] = p
		pt.Values["AAPL"][i] = 200 + float64(i)
		p *= 1.002
	}
	pt.Values["SPARSE"][0] = 50 // only one observation

	refs := References{
		ETFSymbols: map[string]bool{"VOO": true},
		Names:      map[string]string{"VOO": "Vanguard S&P 500 ETF"},
		Sectors:    map[string]string{"AAPL": "Technology"},
	}
	out := BuildTickerMetrics(pt, refs)

	if _, ok := out["SPARSE"]; ok {
		t.Fatalf("sparse ticker should be skipped")
	}
	voo, ok := out["VOO"]
	if !ok {
		t.Fatalf("VOO missing from metrics")
	}
	if voo.Type != models.TypeETF {
		t.Fatalf("VOO type = %q, want %q", voo.Type, models.TypeETF)
	}
	if voo.Name != "Vanguard S&P 500 ETF" {
		t.Fatalf("VOO name = %q", voo.Name)
	}
	if voo.Sector != "" {
		t.Fatalf("ETF should carry no sector, got %q", voo.Sector)
	}

	aapl := out["AAPL"]
	if aapl.Type != models.TypeStock {
		t.Fatalf("AAPL type = %q, want %q", aapl.Type, models.TypeStock)
	}
	if aapl.Sector != "Technology" {
		t.Fatalf("AAPL sector = %q", aapl.Sector)
	}
	if aapl.Name != "unknown" {
		t.Fatalf("unmapped name = %q, want unknown", aapl.Name)
	}
	if aapl.LastPrice != 229 {
		t.Fatalf("AAPL last price = %v, want 229", aapl.LastPrice)
	}
	wantCAGR := CAGR(200, 229, n-1)
	if math.Abs(aapl.CAGR-wantCAGR) > 1e-12 {
		t.Fatalf("AAPL cagr = %v, want %v", aapl.CAGR, wantCAGR)
	}
}
