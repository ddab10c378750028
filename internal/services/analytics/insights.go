package analytics

import (
	"fmt"
	"sort"

	"FolioPulse/internal/domain/models"
)

// Insights surfaces correlation overlaps among the requested holdings. It
// only consults the pack's stored top-correlation index, so a pair can be
// missed when neither side lists the other in its top N.
func (s *Scorer) Insights(holdings []models.Holding, focus models.Focus) (*models.InsightsResponse, error) {
	normalized, err := models.NormalizeHoldings(holdings)
	if err != nil {
		return nil, err
	}
	if unknown := s.unknownTickers(normalized); len(unknown) > 0 {
		return nil, unknownTickerError(unknown)
	}

	if len(s.pack.CorrelationTop) == 0 {
		return &models.InsightsResponse{
			AsOf: s.pack.AsOf,
			CorrelationWarnings: []string{
				"Correlation insights aren't available (no correlation data in analytics pack).",
			},
			MostCorrelatedPairs: []models.CorrPair{},
		}, nil
	}

	held := make(map[string]bool, len(normalized))
	for _, h := range normalized {
		held[h.Ticker] = true
	}

	type pairKey struct{ a, b string }
	pairs := make(map[pairKey]float64)
	for _, h := range normalized {
		for _, edge := range s.pack.CorrelationTop[h.Ticker] {
			other := edge.Ticker
			if other == h.Ticker || !held[other] {
				continue
			}
			key := pairKey{h.Ticker, other}
			if key.b < key.a {
				key.a, key.b = key.b, key.a
			}
			if prev, ok := pairs[key]; !ok || edge.Corr > prev {
				pairs[key] = edge.Corr
			}
		}
	}

	top := make([]models.CorrPair, 0, len(pairs))
	for k, c := range pairs {
		top = append(top, models.CorrPair{A: k.a, B: k.b, Corr: c})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Corr != top[j].Corr {
			return top[i].Corr > top[j].Corr
		}
		if top[i].A != top[j].A {
			return top[i].A < top[j].A
		}
		return top[i].B < top[j].B
	})
	if len(top) > 10 {
		top = top[:10]
	}

	var warnings []string
	for i, p := range top {
		if i == 5 {
			break
		}
		switch {
		case p.Corr >= 0.90:
			warnings = append(warnings, fmt.Sprintf("%s and %s move very similarly (corr = %.2f). Diversification may be lower than it looks.", p.A, p.B, p.Corr))
		case p.Corr >= 0.80:
			warnings = append(warnings, fmt.Sprintf("%s and %s are highly correlated (corr = %.2f).", p.A, p.B, p.Corr))
		case p.Corr >= 0.70:
			warnings = append(warnings, fmt.Sprintf("%s and %s are moderately correlated (corr = %.2f).", p.A, p.B, p.Corr))
		}
	}
	if len(warnings) == 0 {
		warnings = append(warnings, "No strong correlation overlaps detected among your selected holdings.")
	}

	return &models.InsightsResponse{
		AsOf:                s.pack.AsOf,
		CorrelationWarnings: warnings,
		MostCorrelatedPairs: top,
	}, nil
}
