package models

import (
	"errors"
	"fmt"
	"strings"
)

// Holding is one position in a user-submitted portfolio. Weight is either a
// fraction or a percentage; NormalizeHoldings resolves the ambiguity.
type Holding struct {
	Ticker string  `json:"ticker" validate:"required"`
	Weight float64 `json:"weight" validate:"gte=0"`
}

// ErrNoHoldings is returned when no holding carries positive weight.
var ErrNoHoldings = errors.New("no holdings with weight > 0 provided")

// NormalizeHoldings uppercases tickers, drops non-positive weights, detects
// percentage input (any weight above 1, or a total above 1.5, means the caller
// sent percentages) and rescales so the weights sum to exactly 1.
func NormalizeHoldings(holdings []Holding) ([]Holding, error) {
	cleaned := make([]Holding, 0, len(holdings))
	for _, h := range holdings {
		if h.Weight <= 0 {
			continue
		}
		cleaned = append(cleaned, Holding{
			Ticker: strings.ToUpper(strings.TrimSpace(h.Ticker)),
			Weight: h.Weight,
		})
	}
	if len(cleaned) == 0 {
		return nil, ErrNoHoldings
	}

	total, max := 0.0, 0.0
	for _, h := range cleaned {
		total += h.Weight
		if h.Weight > max {
			max = h.Weight
		}
	}
	if max > 1.0 || total > 1.5 {
		total = 0
		for i := range cleaned {
			cleaned[i].Weight /= 100.0
			total += cleaned[i].Weight
		}
	}
	if total <= 0 {
		return nil, ErrNoHoldings
	}
	for i := range cleaned {
		cleaned[i].Weight /= total
	}
	return cleaned, nil
}

// Focus is the user's stated investment goal.
type Focus string

const (
	FocusGrowth        Focus = "Growth"
	FocusDividend      Focus = "Dividend"
	FocusStability     Focus = "Stability"
	FocusActiveReturns Focus = "Active returns"
)

// ParseFocus normalizes a free-form focus string. Matching is
// case-insensitive and tolerates a missing space in "ActiveReturns".
func ParseFocus(s string) (Focus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "growth":
		return FocusGrowth, nil
	case "dividend":
		return FocusDividend, nil
	case "stability":
		return FocusStability, nil
	case "active returns", "activereturns":
		return FocusActiveReturns, nil
	}
	return "", fmt.Errorf("unknown focus %q", s)
}

// AssetInterest is the instrument preference from the starter questionnaire.
type AssetInterest string

const (
	AssetStocks  AssetInterest = "Stocks"
	AssetETFs    AssetInterest = "ETFs"
	AssetBonds   AssetInterest = "Bonds"
	AssetAll     AssetInterest = "All of the above"
	AssetUnknown AssetInterest = "I don't know"
)

// ParseAssetInterest normalizes a questionnaire answer. Curly apostrophes are
// folded to straight ones before matching.
func ParseAssetInterest(s string) (AssetInterest, error) {
	norm := strings.ReplaceAll(strings.TrimSpace(s), "’", "'")
	switch strings.ToLower(norm) {
	case "stocks":
		return AssetStocks, nil
	case "etfs":
		return AssetETFs, nil
	case "bonds":
		return AssetBonds, nil
	case "all of the above":
		return AssetAll, nil
	case "i don't know":
		return AssetUnknown, nil
	}
	return "", fmt.Errorf("unknown asset interest %q", s)
}

// InvestmentStyle is the risk posture from the starter questionnaire.
type InvestmentStyle string

const (
	StyleLongTerm     InvestmentStyle = "Long-term"
	StyleConservative InvestmentStyle = "Conservative"
	StyleActive       InvestmentStyle = "Active"
)

// ParseInvestmentStyle normalizes a questionnaire answer.
func ParseInvestmentStyle(s string) (InvestmentStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long-term", "long term":
		return StyleLongTerm, nil
	case "conservative":
		return StyleConservative, nil
	case "active":
		return StyleActive, nil
	}
	return "", fmt.Errorf("unknown investment style %q", s)
}
