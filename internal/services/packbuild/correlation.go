package packbuild

import (
	"math"
	"sort"

	"FolioPulse/internal/domain/models"
)

// BuildCorrelationTop computes, for every ticker with at least minObs return
// observations, the topN most correlated other tickers by Pearson correlation
// over pairwise-complete observations. Pairs with fewer than minObs shared
// observations are skipped. Ties break alphabetically so the output is
// deterministic.
func BuildCorrelationTop(rets *models.PriceTable, topN, minObs int) map[string][]models.CorrelationEdge {
	if topN <= 0 {
		return map[string][]models.CorrelationEdge{}
	}

	var valid []string
	for _, t := range rets.Tickers {
		n := 0
		for _, v := range rets.Values[t] {
			if !math.IsNaN(v) {
				n++
			}
		}
		if n >= minObs {
			valid = append(valid, t)
		}
	}
	sort.Strings(valid)
	if len(valid) < 2 {
		return map[string][]models.CorrelationEdge{}
	}

	edges := make(map[string][]models.CorrelationEdge, len(valid))
	for i := 0; i < len(valid); i++ {
		for j := i + 1; j < len(valid); j++ {
			a, b := valid[i], valid[j]
			c, ok := pairwiseCorr(rets.Values[a], rets.Values[b], minObs)
			if !ok {
				continue
			}
			edges[a] = append(edges[a], models.CorrelationEdge{Ticker: b, Corr: c})
			edges[b] = append(edges[b], models.CorrelationEdge{Ticker: a, Corr: c})
		}
	}

	out := make(map[string][]models.CorrelationEdge, len(edges))
	for t, es := range edges {
		sort.Slice(es, func(i, j int) bool {
			if es[i].Corr != es[j].Corr {
				return es[i].Corr > es[j].Corr
			}
			return es[i].Ticker < es[j].Ticker
		})
		if len(es) > topN {
			es = es[:topN]
		}
		out[t] = es
	}
	return out
}

// pairwiseCorr is the Pearson correlation over rows where both series have a
// value. Degenerate variance or too few shared rows reports ok=false.
func pairwiseCorr(x, y []float64, minObs int) (float64, bool) {
	var xs, ys []float64
	for i := range x {
		if !math.IsNaN(x[i]) && !math.IsNaN(y[i]) {
			xs = append(xs, x[i])
			ys = append(ys, y[i])
		}
	}
	n := len(xs)
	if n < minObs || n < 2 {
		return 0, false
	}

	var mx, my float64
	for i := 0; i < n; i++ {
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(n)
	my /= float64(n)

	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, false
	}
	return sxy / math.Sqrt(sxx*syy), true
}
