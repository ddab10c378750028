package packbuild

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strings"

	"FolioPulse/internal/domain/models"
)

// minObservations is the floor below which a price series is considered too
// sparse to derive metrics from.
const minObservations = 20

// References carries the instrument metadata joined onto price-derived
// metrics: which tickers are ETFs, display names, and stock sectors.
type References struct {
	ETFSymbols map[string]bool
	Names      map[string]string
	Sectors    map[string]string
}

// LoadETFSymbols reads a newline-delimited symbol list. A missing file yields
// an empty set, not an error, so builds without ETF metadata still work.
func LoadETFSymbols(path string) (map[string]bool, error) {
	out := make(map[string]bool)
	if path == "" {
		return out, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("open etf symbols: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.ToUpper(strings.TrimSpace(sc.Text()))
		if s != "" {
			out[s] = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan etf symbols: %w", err)
	}
	return out, nil
}

// LoadNameMap reads ticker display names from the first two columns of a CSV
// with a header row. Missing files yield an empty map.
func LoadNameMap(path string) (map[string]string, error) {
	out := make(map[string]string)
	if path == "" {
		return out, nil
	}
	rows, err := readCSVRows(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, err
	}
	for _, rec := range rows {
		if len(rec) < 2 {
			continue
		}
		t := strings.ToUpper(strings.TrimSpace(rec[0]))
		name := strings.TrimSpace(rec[1])
		if t != "" && name != "" {
			out[t] = name
		}
	}
	return out, nil
}

// LoadSectorMap reads a symbol-to-sector CSV. It prefers columns named
// "symbol" and "sector" and falls back to the first two. Index-style class
// share symbols are folded to their dash form (BRK.B becomes BRK-B).
func LoadSectorMap(path string) (map[string]string, error) {
	out := make(map[string]string)
	if path == "" {
		return out, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("open sector map: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read sector map %s: %w", path, err)
	}
	if len(records) < 2 {
		return out, nil
	}

	symIdx, secIdx := 0, 1
	for i, col := range records[0] {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "symbol":
			symIdx = i
		case "sector":
			secIdx = i
		}
	}
	for _, rec := range records[1:] {
		if symIdx >= len(rec) || secIdx >= len(rec) {
			continue
		}
		sym := strings.ToUpper(strings.TrimSpace(rec[symIdx]))
		sym = strings.ReplaceAll(sym, ".", "-")
		sec := strings.TrimSpace(rec[secIdx])
		if sym != "" && sec != "" {
			out[sym] = sec
		}
	}
	return out, nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(records) <= 1 {
		return nil, nil
	}
	return records[1:], nil
}

// CAGR annualizes the growth from first to last over spanDays trading days.
// Degenerate inputs (non-positive prices, span under two observations) give
// NaN.
func CAGR(first, last float64, spanDays int) float64 {
	if math.IsNaN(first) || math.IsNaN(last) || first <= 0 || last <= 0 {
		return math.NaN()
	}
	if spanDays < 1 {
		return math.NaN()
	}
	years := float64(spanDays) / models.TradingDays
	return math.Pow(last/first, 1.0/years) - 1.0
}

// AnnualizedVol is the sample standard deviation of daily returns scaled by
// sqrt(252). Fewer than 20 returns gives NaN.
func AnnualizedVol(returns []float64) float64 {
	valid := compact(returns)
	if len(valid) < minObservations {
		return math.NaN()
	}
	mean := 0.0
	for _, r := range valid {
		mean += r
	}
	mean /= float64(len(valid))
	ss := 0.0
	for _, r := range valid {
		d := r - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(valid)-1))
	return std * math.Sqrt(models.TradingDays)
}

// TrendLogSlope fits log(price) against the observation index by least
// squares and returns the slope per trading day. Fewer than 20 observations
// gives NaN.
func TrendLogSlope(prices []float64) float64 {
	valid := compact(prices)
	if len(valid) < minObservations {
		return math.NaN()
	}
	n := float64(len(valid))
	var sumX, sumY, sumXY, sumXX float64
	for i, p := range valid {
		if p <= 0 {
			return math.NaN()
		}
		x := float64(i)
		y := math.Log(p)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return math.NaN()
	}
	return (n*sumXY - sumX*sumY) / denom
}

func compact(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// BuildTickerMetrics derives per-instrument metrics from the merged price
// table. Tickers with fewer than 20 valid observations are skipped entirely.
func BuildTickerMetrics(pt *models.PriceTable, refs References) map[string]models.TickerMetrics {
	out := make(map[string]models.TickerMetrics, len(pt.Tickers))
	for _, t := range pt.Tickers {
		valid := compact(pt.Values[t])
		if len(valid) < minObservations {
			continue
		}

		// Returns between consecutive valid observations; gap days collapse.
		rets := make([]float64, 0, len(valid)-1)
		for i := 1; i < len(valid); i++ {
			if valid[i-1] != 0 {
				rets = append(rets, valid[i]/valid[i-1]-1.0)
			}
		}

		typ := models.TypeStock
		if refs.ETFSymbols[t] {
			typ = models.TypeETF
		}
		name := refs.Names[t]
		if name == "" {
			name = "unknown"
		}
		sector := ""
		if typ == models.TypeStock {
			sector = refs.Sectors[t]
		}

		out[t] = models.TickerMetrics{
			LastPrice: valid[len(valid)-1],
			CAGR:      CAGR(valid[0], valid[len(valid)-1], len(valid)-1),
			Vol:       AnnualizedVol(rets),
			Trend:     TrendLogSlope(pt.Values[t]),
			Type:      typ,
			Name:      name,
			Sector:    sector,
		}
	}
	return out
}
