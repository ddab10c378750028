package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"FolioPulse/internal/domain/models"
	"FolioPulse/internal/domain/repository"
	"FolioPulse/pkg/util"
)

// ErrNoTickers marks an empty simulation request.
var ErrNoTickers = errors.New("no tickers provided")

// ErrBadInvestment marks a non-positive investment amount.
var ErrBadInvestment = errors.New("investment must be positive")

// SimulationConfig tunes the equal-weight backtest.
type SimulationConfig struct {
	LookbackDays      int
	HighCorrThreshold float64
	RiskFreeRate      float64
}

// SimulationEngine runs an equal-weight backtest over daily close history
// and reports annualized metrics plus high-correlation pairs.
type SimulationEngine struct {
	prices repository.PriceSource
	cfg    SimulationConfig
}

func NewSimulationEngine(prices repository.PriceSource, cfg SimulationConfig) *SimulationEngine {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 365
	}
	if cfg.HighCorrThreshold <= 0 {
		cfg.HighCorrThreshold = 0.85
	}
	return &SimulationEngine{prices: prices, cfg: cfg}
}

// Simulate fetches the lookback window, fills small per-ticker gaps, and
// computes annualized return, volatility and Sharpe for an equal-weight
// portfolio. A window with no usable returns yields zero metrics rather
// than an error.
func (e *SimulationEngine) Simulate(ctx context.Context, req models.SimulateRequest) (*models.SimulateResponse, error) {
	if len(req.Tickers) == 0 {
		return nil, ErrNoTickers
	}
	investment := 1000.0
	if req.Investment != nil {
		investment = *req.Investment
	}
	if investment <= 0 {
		return nil, ErrBadInvestment
	}

	tickers := make([]string, len(req.Tickers))
	for i, t := range req.Tickers {
		tickers[i] = strings.ToUpper(strings.TrimSpace(t))
	}

	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -e.cfg.LookbackDays)
	if req.StartDate != "" {
		d, ok := util.ParseDate(req.StartDate)
		if !ok {
			return nil, fmt.Errorf("invalid start date %q", req.StartDate)
		}
		from = d
	}
	pt, err := e.prices.DailyCloses(ctx, tickers, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch daily closes: %w", err)
	}

	fillGaps(pt)

	perAsset := investment / float64(len(tickers))
	allocations := make([]float64, len(tickers))
	for i := range allocations {
		allocations[i] = perAsset
	}

	resp := &models.SimulateResponse{
		Tickers:       tickers,
		Allocations:   allocations,
		Positions:     positions(pt, tickers, perAsset),
		HighCorrPairs: []models.CorrPair{},
	}
	if pt.Len() > 0 {
		resp.StartDate = util.FormatDate(pt.Dates[0])
		resp.EndDate = util.FormatDate(pt.Dates[pt.Len()-1])
	}

	rets, kept := completeReturns(pt, tickers)
	if len(kept) == 0 || len(rets) == 0 {
		return resp, nil
	}

	n := len(kept)
	portDaily := make([]float64, len(rets))
	for i, row := range rets {
		sum := 0.0
		for _, v := range row {
			sum += v
		}
		portDaily[i] = sum / float64(n)
	}

	mean, std := meanStd(portDaily)
	retAnn := mean * models.TradingDays
	volAnn := std * math.Sqrt(models.TradingDays)
	sharpe := 0.0
	if volAnn != 0 {
		sharpe = (retAnn - e.cfg.RiskFreeRate) / volAnn
	}

	resp.ReturnAnnualized = zeroIfNaN(retAnn)
	resp.VolatilityAnnualized = zeroIfNaN(volAnn)
	resp.SharpeRatio = zeroIfNaN(sharpe)
	resp.HighCorrPairs = highCorrPairs(rets, kept, e.cfg.HighCorrThreshold)
	return resp, nil
}

// positions prices each equal slice at the first valid close in the window.
func positions(pt *models.PriceTable, tickers []string, perAsset float64) []models.SimPosition {
	out := make([]models.SimPosition, len(tickers))
	for i, t := range tickers {
		p := models.SimPosition{Ticker: t, Allocation: perAsset}
		for _, v := range pt.Values[t] {
			if !math.IsNaN(v) && v > 0 {
				p.BuyPrice = v
				p.Shares = perAsset / v
				break
			}
		}
		out[i] = p
	}
	return out
}

// fillGaps forward-fills then back-fills each ticker column so short trading
// halts do not knock rows out of the aligned return matrix.
func fillGaps(pt *models.PriceTable) {
	for _, t := range pt.Tickers {
		col := pt.Values[t]
		last := math.NaN()
		for i := range col {
			if math.IsNaN(col[i]) {
				col[i] = last
			} else {
				last = col[i]
			}
		}
		next := math.NaN()
		for i := len(col) - 1; i >= 0; i-- {
			if math.IsNaN(col[i]) {
				col[i] = next
			} else {
				next = col[i]
			}
		}
	}
}

// completeReturns builds the aligned daily return matrix, dropping tickers
// with no data at all and rows where any kept ticker is still missing.
func completeReturns(pt *models.PriceTable, tickers []string) ([][]float64, []string) {
	var kept []string
	for _, t := range tickers {
		col := pt.Values[t]
		hasData := false
		for _, v := range col {
			if !math.IsNaN(v) {
				hasData = true
				break
			}
		}
		if hasData {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 || pt.Len() < 2 {
		return nil, nil
	}

	var rows [][]float64
	for i := 1; i < pt.Len(); i++ {
		row := make([]float64, len(kept))
		ok := true
		for j, t := range kept {
			prev, cur := pt.Values[t][i-1], pt.Values[t][i]
			if math.IsNaN(prev) || math.IsNaN(cur) || prev == 0 {
				ok = false
				break
			}
			row[j] = cur/prev - 1.0
		}
		if ok {
			rows = append(rows, row)
		}
	}
	return rows, kept
}

func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	if len(xs) < 2 {
		return mean, 0
	}
	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(xs)-1))
}

// highCorrPairs reports ticker pairs whose return correlation meets the
// threshold, ordered by the kept-ticker ordering.
func highCorrPairs(rows [][]float64, tickers []string, threshold float64) []models.CorrPair {
	pairs := []models.CorrPair{}
	if len(rows) < 2 {
		return pairs
	}
	cols := make([][]float64, len(tickers))
	for j := range tickers {
		col := make([]float64, len(rows))
		for i, row := range rows {
			col[i] = row[j]
		}
		cols[j] = col
	}
	for i := 0; i < len(tickers); i++ {
		for j := i + 1; j < len(tickers); j++ {
			c, ok := correlate(cols[i], cols[j])
			if ok && c >= threshold {
				pairs = append(pairs, models.CorrPair{A: tickers[i], B: tickers[j], Corr: c})
			}
		}
	}
	return pairs
}

func correlate(x, y []float64) (float64, bool) {
	n := len(x)
	if n < 2 {
		return 0, false
	}
	var mx, my float64
	for i := 0; i < n; i++ {
		mx += x[i]
		my += y[i]
	}
	mx /= float64(n)
	my /= float64(n)
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, false
	}
	return sxy / math.Sqrt(sxx*syy), true
}

func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
