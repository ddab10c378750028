package packbuild

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"FolioPulse/internal/domain/models"
	"FolioPulse/pkg/util"
)

// ReadWidePricesCSV loads a wide-format price file: a Date column plus one
// column per ticker. Rows with an unparseable date are dropped; cell values
// that fail to parse become NaN. Rows come back sorted by date ascending with
// duplicate dates collapsed, first non-NaN value winning.
func ReadWidePricesCSV(path string) (*models.PriceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open prices csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read prices csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	header := records[0]
	dateIdx := -1
	for i, col := range header {
		if strings.TrimSpace(col) == "Date" {
			dateIdx = i
			break
		}
	}
	if dateIdx < 0 {
		return nil, fmt.Errorf("%s: missing required column 'Date'", path)
	}

	tickers := make([]string, 0, len(header)-1)
	colIdx := make(map[string]int, len(header)-1)
	for i, col := range header {
		if i == dateIdx {
			continue
		}
		t := strings.ToUpper(strings.TrimSpace(col))
		if t == "" {
			continue
		}
		tickers = append(tickers, t)
		colIdx[t] = i
	}

	type row struct {
		date   time.Time
		values map[string]float64
	}
	byDate := make(map[int64]*row)
	var order []int64

	for _, rec := range records[1:] {
		if dateIdx >= len(rec) {
			continue
		}
		d, ok := util.ParseDate(rec[dateIdx])
		if !ok {
			continue
		}
		key := d.Unix()
		cur, exists := byDate[key]
		if !exists {
			cur = &row{date: d, values: make(map[string]float64, len(tickers))}
			for _, t := range tickers {
				cur.values[t] = math.NaN()
			}
			byDate[key] = cur
			order = append(order, key)
		}
		for _, t := range tickers {
			idx := colIdx[t]
			if idx >= len(rec) {
				continue
			}
			if !math.IsNaN(cur.values[t]) {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx]), 64)
			if err == nil {
				cur.values[t] = v
			}
		}
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	dates := make([]time.Time, len(order))
	for i, key := range order {
		dates[i] = byDate[key].date
	}
	pt := models.NewPriceTable(dates, tickers)
	for i, key := range order {
		for _, t := range tickers {
			pt.Values[t][i] = byDate[key].values[t]
		}
	}
	return pt, nil
}

// MergePriceTables outer-joins tables on the date axis. When a ticker appears
// in more than one table, the first non-NaN value for a date wins, in table
// order.
func MergePriceTables(tables ...*models.PriceTable) (*models.PriceTable, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("no price tables provided")
	}

	dateSet := make(map[int64]time.Time)
	var tickers []string
	seen := make(map[string]bool)
	for _, tb := range tables {
		for _, d := range tb.Dates {
			dateSet[d.Unix()] = d
		}
		for _, t := range tb.Tickers {
			if !seen[t] {
				seen[t] = true
				tickers = append(tickers, t)
			}
		}
	}

	keys := make([]int64, 0, len(dateSet))
	for k := range dateSet {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	dates := make([]time.Time, len(keys))
	rowOf := make(map[int64]int, len(keys))
	for i, k := range keys {
		dates[i] = dateSet[k]
		rowOf[k] = i
	}

	merged := models.NewPriceTable(dates, tickers)
	for _, tb := range tables {
		for _, t := range tb.Tickers {
			src := tb.Values[t]
			dst := merged.Values[t]
			for i, d := range tb.Dates {
				j := rowOf[d.Unix()]
				if math.IsNaN(dst[j]) && !math.IsNaN(src[i]) {
					dst[j] = src[i]
				}
			}
		}
	}
	return merged, nil
}

// DailyReturns computes aligned simple returns. A return exists only where
// the price on both the day and the previous day is present; everything else
// is NaN. The first row is always NaN.
func DailyReturns(pt *models.PriceTable) *models.PriceTable {
	rets := models.NewPriceTable(pt.Dates, pt.Tickers)
	for _, t := range pt.Tickers {
		px := pt.Values[t]
		out := rets.Values[t]
		for i := 1; i < len(px); i++ {
			prev, cur := px[i-1], px[i]
			if math.IsNaN(prev) || math.IsNaN(cur) || prev == 0 {
				continue
			}
			out[i] = cur/prev - 1.0
		}
	}
	return rets
}
