package analytics

import (
	"fmt"
	"math"

	"FolioPulse/internal/domain/models"
)

// DefaultWeightCap bounds any single starter holding; overweight positions
// are split across similar instruments.
const DefaultWeightCap = 0.12

// Synthesizer builds starter portfolios from questionnaire answers. Each
// asset-interest category has its own build strategy; the shared pipeline
// then caps, merges and normalizes the result.
type Synthesizer struct {
	pack       *models.AnalyticsPack
	weightCap  float64
	strategies map[models.AssetInterest]starterStrategy
}

type starterStrategy func(*Synthesizer, *starterProfile) ([]models.StarterAllocation, []string)

// starterProfile is the questionnaire resolved into targets and building
// blocks available in the pack universe.
type starterProfile struct {
	style       models.InvestmentStyle
	interest    models.AssetInterest
	focus       models.Focus
	involvement string
	age         string

	equityTarget float64
	bondTarget   float64

	usCore     string
	usGrowth   string
	intlCore   string
	bondsCore  string
	longBonds  string
	shortBonds string
}

func NewSynthesizer(pack *models.AnalyticsPack, weightCap float64) *Synthesizer {
	if weightCap <= 0 {
		weightCap = DefaultWeightCap
	}
	s := &Synthesizer{pack: pack, weightCap: weightCap}
	s.strategies = map[models.AssetInterest]starterStrategy{
		models.AssetUnknown: (*Synthesizer).buildThreeFund,
		models.AssetBonds:   (*Synthesizer).buildBondHeavy,
		models.AssetStocks:  (*Synthesizer).buildStockBasket,
		models.AssetAll:     (*Synthesizer).buildBalancedMix,
		models.AssetETFs:    (*Synthesizer).buildETFOnly,
	}
	return s
}

// Build synthesizes a starter portfolio. Weights always sum to 1 and no
// holding exceeds the configured cap.
func (s *Synthesizer) Build(req models.StarterPortfolioRequest) (*models.StarterPortfolioResponse, error) {
	style, err := models.ParseInvestmentStyle(req.InvestmentStyle)
	if err != nil {
		return nil, err
	}
	interest, err := models.ParseAssetInterest(req.AssetInterest)
	if err != nil {
		return nil, err
	}
	focus, err := models.ParseFocus(req.Focus)
	if err != nil {
		return nil, err
	}

	p := s.newProfile(style, interest, focus, req.Involvement, req.AgeRange)
	build := s.strategies[interest]
	allocations, notes := build(s, p)

	allocations = s.splitOverweight(allocations)

	name := fmt.Sprintf("%s / %s / %s / %s / %s", req.InvestmentStyle, req.Focus, req.AssetInterest, req.Involvement, p.age)
	return &models.StarterPortfolioResponse{
		AsOf:        s.pack.AsOf,
		Name:        name,
		Allocations: allocations,
		Notes:       notes,
	}, nil
}

func (s *Synthesizer) newProfile(style models.InvestmentStyle, interest models.AssetInterest, focus models.Focus, involvement, age string) *starterProfile {
	if age == "" {
		age = "36-50"
	}

	var equity, bond float64
	switch age {
	case "20-35":
		equity, bond = 0.90, 0.10
	case "36-50":
		equity, bond = 0.80, 0.20
	case "51-65":
		equity, bond = 0.65, 0.35
	default: // 65+
		equity, bond = 0.55, 0.45
	}

	switch style {
	case models.StyleConservative:
		bond = math.Min(0.65, bond+0.10)
		equity = 1.0 - bond
	case models.StyleActive:
		equity = math.Min(0.95, equity+0.05)
		bond = 1.0 - equity
	}

	return &starterProfile{
		style:        style,
		interest:     interest,
		focus:        focus,
		involvement:  involvement,
		age:          age,
		equityTarget: equity,
		bondTarget:   bond,
		usCore:       s.pick("VTI", "VOO", "SPY", "IVV"),
		usGrowth:     s.pick("QQQ", "QQQM"),
		intlCore:     s.pick("VEA", "IEFA"),
		bondsCore:    s.pick("BND", "AGG", "IEF"),
		longBonds:    s.pick("TLT", "EDV", "IEF"),
		shortBonds:   s.pick("SHY", "VGSH", "BIL"),
	}
}

// pick returns the first option present in the pack universe, falling back
// to the first option so a sparse pack still yields a portfolio.
func (s *Synthesizer) pick(options ...string) string {
	for _, t := range options {
		if s.pack.Has(t) {
			return t
		}
	}
	return options[0]
}

func alloc(ticker, typ string, weight float64, reason string) models.StarterAllocation {
	return models.StarterAllocation{Ticker: ticker, Type: typ, Weight: round4(weight), Reason: reason}
}

func (s *Synthesizer) buildThreeFund(p *starterProfile) ([]models.StarterAllocation, []string) {
	allocations := []models.StarterAllocation{
		alloc(p.usCore, models.TypeETF, p.equityTarget*0.70, "Broad US market core (simple + diversified)."),
		alloc(p.intlCore, models.TypeETF, p.equityTarget*0.30, "International diversification (reduces single-country risk)."),
		alloc(p.bondsCore, models.TypeBondETF, p.bondTarget, "Bond buffer for stability (helps reduce drawdowns)."),
	}
	notes := []string{
		"Kept intentionally simple: US + International + Bonds.",
		"Good default if you're not sure where to start.",
		"This is a starting point, not trading advice. Adjust anytime.",
	}
	return allocations, notes
}

func (s *Synthesizer) buildBondHeavy(p *starterProfile) ([]models.StarterAllocation, []string) {
	equity := math.Min(0.35, p.equityTarget)
	bonds := 1.0 - equity

	var allocations []models.StarterAllocation
	if p.involvement == "Set & forget" {
		allocations = []models.StarterAllocation{
			alloc(p.bondsCore, models.TypeBondETF, bonds, "Core bond exposure."),
			alloc(p.usCore, models.TypeETF, equity, "Small equity core for growth."),
		}
	} else {
		allocations = []models.StarterAllocation{
			alloc(p.shortBonds, models.TypeBondETF, bonds*0.40, "Short-term bonds (typically less volatile)."),
			alloc(p.bondsCore, models.TypeBondETF, bonds*0.40, "Intermediate bond core."),
			alloc(p.longBonds, models.TypeBondETF, bonds*0.20, "Longer duration bonds (more rate sensitivity)."),
			alloc(p.usCore, models.TypeETF, equity, "Small equity core for growth."),
		}
	}
	notes := []string{
		"Bond-heavy starter portfolio (stability-focused).",
		"Equity allocation is intentionally small.",
		"This is a starting point, not trading advice. Adjust anytime.",
	}
	return allocations, notes
}

func (s *Synthesizer) stockCandidates() []string {
	return []string{
		s.pick("AAPL"),
		s.pick("MSFT"),
		s.pick("JNJ"),
		s.pick("JPM"),
		s.pick("XOM"),
		s.pick("PG"),
		s.pick("COST", "WMT"),
		s.pick("UNH"),
	}
}

func (s *Synthesizer) buildStockBasket(p *starterProfile) ([]models.StarterAllocation, []string) {
	coreWeight := 0.35
	stockCount := 8
	switch p.involvement {
	case "Set & forget":
		coreWeight, stockCount = 0.50, 4
	case "Monthly":
		coreWeight, stockCount = 0.40, 6
	}
	stockWeight := 1.0 - coreWeight

	picks := s.stockCandidates()[:stockCount]
	each := stockWeight / float64(len(picks))

	allocations := []models.StarterAllocation{
		alloc(p.usCore, models.TypeETF, coreWeight, "ETF core for broad diversification."),
	}
	for _, t := range picks {
		allocations = append(allocations, alloc(t, models.TypeStock, each, "Stock pick to add sector variety."))
	}
	notes := []string{
		"Stock-focused starter uses an ETF core + a small diversified stock basket.",
		"Replace stock basket with your own holdings anytime.",
		"This is a starting point, not trading advice. Adjust anytime.",
	}
	return allocations, notes
}

func (s *Synthesizer) buildBalancedMix(p *starterProfile) ([]models.StarterAllocation, []string) {
	etfShare, stockShare := 0.55, 0.45
	etfCount, stockCount, bondCount := 3, 5, 2
	switch p.involvement {
	case "Set & forget":
		etfShare, stockShare = 0.75, 0.25
		etfCount, stockCount, bondCount = 1, 2, 1
	case "Monthly":
		etfShare, stockShare = 0.65, 0.35
		etfCount, stockCount, bondCount = 2, 3, 1
	}

	var etfs []string
	if p.focus == models.FocusGrowth || p.focus == models.FocusActiveReturns {
		etfs = []string{p.usCore, p.usGrowth, p.intlCore}
	} else {
		etfs = []string{p.usCore, p.intlCore, p.bondsCore}
	}
	etfs = etfs[:etfCount]

	stocks := s.stockCandidates()[:stockCount]

	bondETFs := []string{p.bondsCore}
	if bondCount == 2 {
		bondETFs = []string{p.shortBonds, p.longBonds}
	}

	eachETF := p.equityTarget * etfShare / float64(len(etfs))
	eachStock := p.equityTarget * stockShare / float64(len(stocks))
	eachBond := p.bondTarget / float64(len(bondETFs))

	var allocations []models.StarterAllocation
	for _, t := range etfs {
		allocations = append(allocations, alloc(t, models.TypeETF, eachETF, "ETF core for broad diversification."))
	}
	for _, t := range stocks {
		allocations = append(allocations, alloc(t, models.TypeStock, eachStock, "Stock slice for added sector variety."))
	}
	for _, t := range bondETFs {
		allocations = append(allocations, alloc(t, models.TypeBondETF, eachBond, "Bond buffer to improve stability."))
	}

	notes := []string{
		"Balanced mix of ETFs + Stocks + Bonds (diversified baseline).",
		"Holdings count changes based on how hands-on you want to be.",
		"This is a starting point, not trading advice. Adjust anytime.",
	}
	return allocations, notes
}

func (s *Synthesizer) buildETFOnly(p *starterProfile) ([]models.StarterAllocation, []string) {
	var wUS, wGrowth, wIntl float64
	switch p.focus {
	case models.FocusGrowth:
		wUS, wGrowth, wIntl = 0.55, 0.35, 0.10
	case models.FocusStability:
		wUS, wGrowth, wIntl = 0.70, 0.10, 0.20
	case models.FocusDividend:
		wUS, wGrowth, wIntl = 0.75, 0.05, 0.20
	default: // Active returns
		wUS, wGrowth, wIntl = 0.40, 0.45, 0.15
	}
	wUS *= p.equityTarget
	wGrowth *= p.equityTarget
	wIntl *= p.equityTarget

	var allocations []models.StarterAllocation
	var notes []string
	switch p.involvement {
	case "Set & forget":
		allocations = []models.StarterAllocation{
			alloc(p.usCore, models.TypeETF, wUS+wGrowth, "Single US equity core (broad + growth tilt combined)."),
			alloc(p.intlCore, models.TypeETF, wIntl, "International diversification."),
			alloc(p.bondsCore, models.TypeBondETF, p.bondTarget, "Bond buffer for stability."),
		}
		notes = []string{"Simple 3-holding ETF starter (easy to maintain)."}
	case "Monthly":
		allocations = []models.StarterAllocation{
			alloc(p.usCore, models.TypeETF, wUS, "Broad US market core."),
			alloc(p.usGrowth, models.TypeETF, wGrowth, "Growth tilt."),
			alloc(p.intlCore, models.TypeETF, wIntl, "International diversification."),
			alloc(p.bondsCore, models.TypeBondETF, p.bondTarget, "Bond buffer for stability."),
		}
		notes = []string{"Balanced 4-holding ETF starter (monthly-friendly)."}
	default: // Tweak
		allocations = []models.StarterAllocation{
			alloc(p.usCore, models.TypeETF, wUS, "Broad US market core."),
			alloc(p.usGrowth, models.TypeETF, wGrowth, "Growth tilt."),
			alloc(p.intlCore, models.TypeETF, wIntl, "International diversification."),
			alloc(p.shortBonds, models.TypeBondETF, p.bondTarget*0.40, "Short-term bonds (lower rate sensitivity)."),
			alloc(p.longBonds, models.TypeBondETF, p.bondTarget*0.60, "Intermediate/long bonds (stability buffer)."),
		}
		notes = []string{"More granular ETF starter (for people who like to tweak)."}
	}
	notes = append(notes, "This is a starting point, not trading advice. Adjust anytime.")
	return allocations, notes
}

// replacementPools maps a ticker to similar instruments used when an
// overweight position has to be split.
var replacementPools = map[string][]string{
	"BND": {"AGG", "IEF", "TLT", "SHY"},
	"AGG": {"BND", "IEF", "TLT", "SHY"},
	"IEF": {"BND", "AGG", "TLT", "SHY"},

	"VTI": {"VOO", "SPY", "IVV"},
	"VOO": {"VTI", "SPY", "IVV"},
	"SPY": {"VTI", "VOO", "IVV"},
	"IVV": {"VTI", "VOO", "SPY"},

	"QQQ":  {"QQQM", "VUG", "XLK"},
	"QQQM": {"QQQ", "VUG", "XLK"},

	"VEA":  {"IEFA"},
	"IEFA": {"VEA"},
}

// splitOverweight enforces the weight cap. Positions above the cap are split
// into ceil(weight/cap) equal chunks, at least two, distributed round-robin
// over the base ticker and its in-pack substitutes. Chunks landing on the
// same (ticker, type) merge, and the result is normalized and rounded twice
// so the rounded weights still sum to 1.
func (s *Synthesizer) splitOverweight(allocations []models.StarterAllocation) []models.StarterAllocation {
	allocations = normalizeAllocations(allocations)

	var out []models.StarterAllocation
	for _, a := range allocations {
		if a.Weight <= s.weightCap {
			mergeAllocation(&out, a)
			continue
		}

		parts := int(math.Ceil(a.Weight/s.weightCap - 1e-12))
		if parts < 2 {
			parts = 2
		}
		pool := []string{a.Ticker}
		for _, sub := range replacementPools[a.Ticker] {
			if s.pack.Has(sub) {
				pool = append(pool, sub)
			}
		}
		chunk := a.Weight / float64(parts)
		for i := 0; i < parts; i++ {
			mergeAllocation(&out, models.StarterAllocation{
				Ticker: pool[i%len(pool)],
				Type:   a.Type,
				Weight: chunk,
				Reason: a.Reason + " (split for balance)",
			})
		}
	}

	out = normalizeAllocations(out)
	for i := range out {
		out[i].Weight = round4(out[i].Weight)
	}
	out = normalizeAllocations(out)
	for i := range out {
		out[i].Weight = round4(out[i].Weight)
	}
	return out
}

func mergeAllocation(out *[]models.StarterAllocation, a models.StarterAllocation) {
	for i := range *out {
		if (*out)[i].Ticker == a.Ticker && (*out)[i].Type == a.Type {
			(*out)[i].Weight += a.Weight
			return
		}
	}
	*out = append(*out, a)
}

func normalizeAllocations(allocations []models.StarterAllocation) []models.StarterAllocation {
	total := 0.0
	for _, a := range allocations {
		total += a.Weight
	}
	if total <= 0 {
		return allocations
	}
	for i := range allocations {
		allocations[i].Weight /= total
	}
	return allocations
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
