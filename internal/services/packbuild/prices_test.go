package packbuild

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"FolioPulse/internal/domain/models"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestReadWidePricesCSV(t *testing.T) {
	path := writeTempCSV(t, "etf.csv", `Date,VOO,SPY
12/18/24,556.10,605.00
12/17/24,555.45,604.29
not-a-date,1,2
12/19/24,,606.11
`)
	pt, err := ReadWidePricesCSV(path)
	if err != nil {
		t.Fatalf("ReadWidePricesCSV: %v", err)
	}
	if pt.Len() != 3 {
		t.Fatalf("rows = %d, want 3", pt.Len())
	}
	if !pt.Dates[0].Before(pt.Dates[1]) || !pt.Dates[1].Before(pt.Dates[2]) {
		t.Fatalf("dates not sorted ascending: %v", pt.Dates)
	}
	if pt.Values["VOO"][0] != 555.45 {
		t.Fatalf("VOO first = %v, want 555.45", pt.Values["VOO"][0])
	}
	if !math.IsNaN(pt.Values["VOO"][2]) {
		t.Fatalf("blank cell should be NaN, got %v", pt.Values["VOO"][2])
	}
	if pt.Values["SPY"][2] != 606.11 {
		t.Fatalf("SPY last = %v, want 606.11", pt.Values["SPY"][2])
	}
}

func TestReadWidePricesCSVMissingDateColumn(t *testing.T) {
	path := writeTempCSV(t, "bad.csv", "Day,VOO\n2024-12-17,555.45\n")
	if _, err := ReadWidePricesCSV(path); err == nil {
		t.Fatalf("expected error for missing Date column")
	}
}

func TestMergePriceTablesFirstWins(t *testing.T) {
	d1 := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	d3 := d1.AddDate(0, 0, 2)

	a := models.NewPriceTable([]time.Time{d1, d2}, []string{"VOO"})
	a.Values["VOO"][0] = 100
	// d2 left as NaN in the first table

	b := models.NewPriceTable([]time.Time{d2, d3}, []string{"VOO", "AAPL"})
	b.Values["VOO"][0] = 101
	b.Values["VOO"][1] = 102
	b.Values["AAPL"][0] = 250

	merged, err := MergePriceTables(a, b)
	if err != nil {
		t.Fatalf("MergePriceTables: %v", err)
	}
	if merged.Len() != 3 {
		t.Fatalf("rows = %d, want 3", merged.Len())
	}
	if got := merged.Values["VOO"][1]; got != 101 {
		t.Fatalf("gap should be filled from second table, got %v", got)
	}
	if got := merged.Values["VOO"][2]; got != 102 {
		t.Fatalf("VOO d3 = %v, want 102", got)
	}
	if !math.IsNaN(merged.Values["AAPL"][0]) {
		t.Fatalf("AAPL d1 should be NaN")
	}
}

func TestDailyReturns(t *testing.T) {
	d := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	dates := []time.Time{d, d.AddDate(0, 0, 1), d.AddDate(0, 0, 2), d.AddDate(0, 0, 3)}
	pt := models.NewPriceTable(dates, []string{"X"})
	pt.Values["X"][0] = 100
	pt.Values["X"][1] = 110
	// day 2 missing
	pt.Values["X"][3] = 121

	rets := DailyReturns(pt)
	if !math.IsNaN(rets.Values["X"][0]) {
		t.Fatalf("first row must be NaN")
	}
	if got := rets.Values["X"][1]; math.Abs(got-0.10) > 1e-12 {
		t.Fatalf("return = %v, want 0.10", got)
	}
	if !math.IsNaN(rets.Values["X"][2]) || !math.IsNaN(rets.Values["X"][3]) {
		t.Fatalf("returns around a gap must be NaN")
	}
}
