package models

// ServiceHealth is the GET /health payload.
type ServiceHealth struct {
	OK      bool   `json:"ok"`
	AsOf    string `json:"asOf,omitempty"`
	Tickers int    `json:"tickers"`
}

// UniverseEntry is one row of a universe search result.
type UniverseEntry struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name,omitempty"`
	Type   string `json:"type"`
}

// UniverseSearchResponse is the GET /api/universe/search payload.
type UniverseSearchResponse struct {
	Query   string          `json:"query"`
	Matches []UniverseEntry `json:"matches"`
}

// PortfolioRequest is the shared body for the health and insights endpoints.
type PortfolioRequest struct {
	Holdings []Holding `json:"holdings" validate:"required,min=1,dive"`
	Focus    string    `json:"focus" validate:"required"`
}

// SubScores breaks the composite health score into its four components,
// each in [0, 25].
type SubScores struct {
	AllocationEquality int `json:"allocationEquality"`
	Concentration      int `json:"concentration"`
	SectorBalance      int `json:"sectorBalance"`
	GoalAlignment      int `json:"goalAlignment"`
}

// HealthResponse is the POST /api/portfolio/health payload.
type HealthResponse struct {
	AsOf           string            `json:"asOf,omitempty"`
	Score          int               `json:"score"`
	SubScores      SubScores         `json:"subScores"`
	TopRisks       []string          `json:"topRisks"`
	Explainability map[string]string `json:"explainability"`
}

// CorrPair is one correlated ticker pair with its coefficient.
type CorrPair struct {
	A    string  `json:"a"`
	B    string  `json:"b"`
	Corr float64 `json:"corr"`
}

// InsightsResponse is the POST /api/portfolio/insights payload.
type InsightsResponse struct {
	AsOf                string     `json:"asOf,omitempty"`
	CorrelationWarnings []string   `json:"correlationWarnings"`
	MostCorrelatedPairs []CorrPair `json:"mostCorrelatedPairs"`
}

// StarterPortfolioRequest is the questionnaire body for the starter
// synthesizer. Enum values are validated by the parse helpers rather than
// struct tags because several answers contain spaces and apostrophes.
type StarterPortfolioRequest struct {
	InvestmentStyle string `json:"investmentStyle" validate:"required"`
	AssetInterest   string `json:"assetInterest" validate:"required"`
	Focus           string `json:"focus" validate:"required"`
	Involvement     string `json:"involvement" validate:"required,oneof='Set & forget' Monthly Tweak"`
	AgeRange        string `json:"ageRange" validate:"omitempty,oneof=20-35 36-50 51-65 65+"`
}

// StarterAllocation is one position of a synthesized starter portfolio.
type StarterAllocation struct {
	Ticker string  `json:"ticker"`
	Type   string  `json:"type"`
	Weight float64 `json:"weight"`
	Reason string  `json:"reason"`
}

// StarterPortfolioResponse is the POST /api/starter-portfolio payload.
type StarterPortfolioResponse struct {
	AsOf        string              `json:"asOf,omitempty"`
	Name        string              `json:"name"`
	Allocations []StarterAllocation `json:"allocations"`
	Notes       []string            `json:"notes"`
}

// SimulateRequest is the POST /api/portfolio/simulate body. Investment
// defaults to 1000 only when the field is omitted; an explicit zero or
// negative amount is rejected. StartDate overrides the configured
// lookback window when set.
type SimulateRequest struct {
	Tickers    []string `json:"tickers" validate:"required,min=1,dive,required"`
	Investment *float64 `json:"investment" default:"1000" validate:"omitempty,gt=0"`
	StartDate  string   `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
}

// SimPosition is one ticker's slice of the simulated portfolio. Shares is
// zero when the window held no usable price for the ticker.
type SimPosition struct {
	Ticker     string  `json:"ticker"`
	Allocation float64 `json:"allocation"`
	BuyPrice   float64 `json:"buyPrice"`
	Shares     float64 `json:"shares"`
}

// SimulateResponse reports equal-weight backtest metrics over the lookback
// window.
type SimulateResponse struct {
	Tickers              []string      `json:"tickers"`
	Allocations          []float64     `json:"allocations"`
	Positions            []SimPosition `json:"positions"`
	StartDate            string        `json:"startDate,omitempty"`
	EndDate              string        `json:"endDate,omitempty"`
	ReturnAnnualized     float64       `json:"returnAnnualized"`
	VolatilityAnnualized float64       `json:"volatilityAnnualized"`
	SharpeRatio          float64       `json:"sharpeRatio"`
	HighCorrPairs        []CorrPair    `json:"highCorrPairs"`
}

// SaveSimulationRequest is the POST /api/simulations body.
type SaveSimulationRequest struct {
	Email       string    `json:"email" validate:"required,email"`
	Tickers     []string  `json:"tickers" validate:"required,min=1,dive,required"`
	Allocations []float64 `json:"allocations" validate:"required,min=1"`
	TotalValue  float64   `json:"totalValue" validate:"gte=0"`
}

// SimulationRecord is a stored simulation snapshot, at most one per user per
// calendar day.
type SimulationRecord struct {
	Email       string    `json:"email"`
	Date        string    `json:"date"`
	Tickers     []string  `json:"tickers"`
	Allocations []float64 `json:"allocations"`
	TotalValue  float64   `json:"totalValue"`
}
