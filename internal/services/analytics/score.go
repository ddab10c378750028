package analytics

import (
	"fmt"
	"math"
	"sort"

	"FolioPulse/internal/domain/models"
)

// Neutral fallbacks used when a pack metric is missing for a held ticker.
const (
	neutralCAGR  = 0.0
	neutralVol   = 0.25
	neutralTrend = 0.0
)

// Scorer computes the composite portfolio health score against a loaded
// analytics pack. The pack is read-only; Scorer never mutates it.
type Scorer struct {
	pack *models.AnalyticsPack
}

func NewScorer(pack *models.AnalyticsPack) *Scorer {
	return &Scorer{pack: pack}
}

// Health scores a normalized portfolio on four 0-25 subscores and derives
// plain-English risks and explanations.
func (s *Scorer) Health(holdings []models.Holding, focus models.Focus) (*models.HealthResponse, error) {
	normalized, err := models.NormalizeHoldings(holdings)
	if err != nil {
		return nil, err
	}
	if unknown := s.unknownTickers(normalized); len(unknown) > 0 {
		return nil, unknownTickerError(unknown)
	}

	weights := make([]float64, len(normalized))
	topTicker, topW := "", 0.0
	for i, h := range normalized {
		weights[i] = h.Weight
		if h.Weight > topW {
			topTicker, topW = h.Ticker, h.Weight
		}
	}

	g := gini(weights)
	allocScore := int(math.Round(25 * (1.0 - clamp01(g))))
	concScore := linearScore(topW, 0.10, 0.50)
	sectorScore, sectorExpl, sectorW := s.sectorBalance(normalized)
	goalScore, goalExpl := s.goalAlignment(normalized, focus)

	total := allocScore + concScore + sectorScore + goalScore
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	maxSector, maxSectorW := maxEntry(sectorW)

	var risks []string
	if topW >= 0.30 {
		risks = append(risks, fmt.Sprintf("Top holding %s is %.1f%% of your portfolio (concentration risk).", topTicker, topW*100))
	} else if topW >= 0.20 {
		risks = append(risks, fmt.Sprintf("Top holding %s is %.1f%% - consider trimming if you want more balance.", topTicker, topW*100))
	}
	if maxSectorW >= 0.45 {
		risks = append(risks, fmt.Sprintf("Sector overexposure: '%s' is %.1f%% (high).", maxSector, maxSectorW*100))
	} else if maxSectorW >= 0.30 {
		risks = append(risks, fmt.Sprintf("Sector tilt: '%s' is %.1f%% (moderate).", maxSector, maxSectorW*100))
	}
	if allocScore <= 10 {
		risks = append(risks, "Your allocations are uneven across holdings (low allocation equality).")
	}
	if len(risks) == 0 {
		risks = append(risks, "No major red flags detected.")
	}
	if len(risks) > 5 {
		risks = risks[:5]
	}

	return &models.HealthResponse{
		AsOf:  s.pack.AsOf,
		Score: total,
		SubScores: models.SubScores{
			AllocationEquality: allocScore,
			Concentration:      concScore,
			SectorBalance:      sectorScore,
			GoalAlignment:      goalScore,
		},
		TopRisks: risks,
		Explainability: map[string]string{
			"allocationEquality": fmt.Sprintf("Gini(weights) = %.2f -> %d/25.", g, allocScore),
			"concentration":      fmt.Sprintf("Top holding %s = %.1f%% -> %d/25.", topTicker, topW*100, concScore),
			"sectorBalance":      fmt.Sprintf("%s -> %d/25.", sectorExpl, sectorScore),
			"goalAlignment":      fmt.Sprintf("%s -> %d/25.", goalExpl, goalScore),
		},
	}, nil
}

func (s *Scorer) unknownTickers(holdings []models.Holding) []string {
	var unknown []string
	for _, h := range holdings {
		if !s.pack.Has(h.Ticker) {
			unknown = append(unknown, h.Ticker)
		}
	}
	return unknown
}

// metric returns a pack metric with a neutral fallback when the ticker or
// the value itself is missing.
func (s *Scorer) metric(ticker string, get func(models.TickerMetrics) float64, fallback float64) float64 {
	m, ok := s.pack.Tickers[ticker]
	if !ok {
		return fallback
	}
	v := get(m)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func (s *Scorer) sectorBalance(holdings []models.Holding) (int, string, map[string]float64) {
	sectorW := make(map[string]float64)
	for _, h := range holdings {
		sector := "unknown"
		if m, ok := s.pack.Tickers[h.Ticker]; ok && m.Sector != "" {
			sector = m.Sector
		}
		sectorW[sector] += h.Weight
	}
	maxSector, maxW := maxEntry(sectorW)
	score := linearScore(maxW, 0.20, 0.45)
	expl := fmt.Sprintf("Largest sector is '%s' at %.1f%% (<=20%% is ideal for full points)", maxSector, maxW*100)
	return score, expl, sectorW
}

func (s *Scorer) goalAlignment(holdings []models.Holding, focus models.Focus) (int, string) {
	var wCAGR, wVol, wTrend float64
	for _, h := range holdings {
		wCAGR += h.Weight * s.metric(h.Ticker, func(m models.TickerMetrics) float64 { return m.CAGR }, neutralCAGR)
		wVol += h.Weight * s.metric(h.Ticker, func(m models.TickerMetrics) float64 { return m.Vol }, neutralVol)
		wTrend += h.Weight * s.metric(h.Ticker, func(m models.TickerMetrics) float64 { return m.Trend }, neutralTrend)
	}

	switch focus {
	case models.FocusGrowth:
		score := int(math.Round(25 * clamp01(wCAGR/0.12)))
		return score, fmt.Sprintf("Weighted 1Y growth proxy (CAGR) = %.1f%%", wCAGR*100)

	case models.FocusStability:
		score := linearScore(wVol, 0.12, 0.35)
		return score, fmt.Sprintf("Weighted volatility proxy = %.1f%% (lower is more stable)", wVol*100)

	case models.FocusDividend:
		// No yield data; approximate dividend-friendliness as moderate vol
		// combined with non-negative growth.
		volScore := linearScore(wVol, 0.14, 0.40)
		cagrScore := int(math.Round(25 * clamp01((wCAGR+0.02)/0.10)))
		score := int(math.Round(0.6*float64(volScore) + 0.4*float64(cagrScore)))
		return score, fmt.Sprintf("No yield data; using proxies. Vol = %.1f%%, growth proxy = %.1f%%", wVol*100, wCAGR*100)

	default: // Active returns
		trendScore := int(math.Round(25 * clamp01(wTrend/0.0015)))
		volPenalty := linearScore(wVol, 0.18, 0.55)
		score := int(math.Round(0.6*float64(trendScore) + 0.4*float64(volPenalty)))
		return score, fmt.Sprintf("Using trend+vol proxies. Trend = %.5f (log-slope/day), vol = %.1f%%", wTrend, wVol*100)
	}
}

// gini computes the standard Gini coefficient over non-negative weights.
// Empty or all-zero input counts as maximal inequality.
func gini(weights []float64) float64 {
	w := make([]float64, 0, len(weights))
	sum := 0.0
	for _, x := range weights {
		if x < 0 {
			x = 0
		}
		w = append(w, x)
		sum += x
	}
	if len(w) == 0 || sum == 0 {
		return 1.0
	}
	sort.Float64s(w)
	n := float64(len(w))
	cum := 0.0
	for i, x := range w {
		cum += float64(i+1) * x
	}
	return (2*cum)/(n*sum) - (n+1)/n
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// linearScore maps value onto [25..0] linearly between the good and bad
// thresholds.
func linearScore(value, goodAtOrBelow, badAtOrAbove float64) int {
	if value <= goodAtOrBelow {
		return 25
	}
	if value >= badAtOrAbove {
		return 0
	}
	frac := (value - goodAtOrBelow) / (badAtOrAbove - goodAtOrBelow)
	return int(math.Round(25 * (1.0 - frac)))
}

func maxEntry(m map[string]float64) (string, float64) {
	bestK, bestV := "", math.Inf(-1)
	for k, v := range m {
		if v > bestV || (v == bestV && k < bestK) {
			bestK, bestV = k, v
		}
	}
	if bestK == "" {
		return "", 0
	}
	return bestK, bestV
}
