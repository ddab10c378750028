package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"FolioPulse/internal/domain/models"
	domrepo "FolioPulse/internal/domain/repository"
	"FolioPulse/internal/services/analytics"
	"FolioPulse/pkg/util"
)

// ErrSimulationUnavailable means the price history backend is not configured
// or not reachable; callers translate it to 503.
var ErrSimulationUnavailable = errors.New("simulation backend unavailable")

// ErrRecordsUnavailable means the record store is not configured.
var ErrRecordsUnavailable = errors.New("record store unavailable")

// ErrAllocationMismatch means tickers and allocations differ in length.
var ErrAllocationMismatch = errors.New("tickers and allocations length mismatch")

// PortfolioAdvisor wires the pack-backed scoring services and the optional
// stateful backends behind one use-case surface for the HTTP layer.
type PortfolioAdvisor struct {
	pack        *models.AnalyticsPack
	scorer      *analytics.Scorer
	synthesizer *analytics.Synthesizer
	engine      *analytics.SimulationEngine
	records     domrepo.RecordStore
}

func NewPortfolioAdvisor(
	pack *models.AnalyticsPack,
	scorer *analytics.Scorer,
	synthesizer *analytics.Synthesizer,
	engine *analytics.SimulationEngine,
	records domrepo.RecordStore,
) *PortfolioAdvisor {
	return &PortfolioAdvisor{
		pack:        pack,
		scorer:      scorer,
		synthesizer: synthesizer,
		engine:      engine,
		records:     records,
	}
}

// ServiceHealth reports readiness and the pack vintage.
func (a *PortfolioAdvisor) ServiceHealth() models.ServiceHealth {
	return models.ServiceHealth{OK: true, AsOf: a.pack.AsOf, Tickers: len(a.pack.Tickers)}
}

// SearchUniverse matches pack tickers by substring, alphabetical, capped at
// limit (default 10, max 50).
func (a *PortfolioAdvisor) SearchUniverse(query string, limit int) models.UniverseSearchResponse {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	matches := a.pack.SearchTickers(query, limit)
	entries := make([]models.UniverseEntry, 0, len(matches))
	for _, t := range matches {
		m := a.pack.Tickers[t]
		entries = append(entries, models.UniverseEntry{Ticker: t, Name: m.Name, Type: m.Type})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Ticker < entries[j].Ticker })
	return models.UniverseSearchResponse{Query: query, Matches: entries}
}

func (a *PortfolioAdvisor) Health(req models.PortfolioRequest) (*models.HealthResponse, error) {
	focus, err := models.ParseFocus(req.Focus)
	if err != nil {
		return nil, err
	}
	return a.scorer.Health(req.Holdings, focus)
}

func (a *PortfolioAdvisor) Insights(req models.PortfolioRequest) (*models.InsightsResponse, error) {
	focus, err := models.ParseFocus(req.Focus)
	if err != nil {
		return nil, err
	}
	return a.scorer.Insights(req.Holdings, focus)
}

func (a *PortfolioAdvisor) StarterPortfolio(req models.StarterPortfolioRequest) (*models.StarterPortfolioResponse, error) {
	return a.synthesizer.Build(req)
}

func (a *PortfolioAdvisor) Simulate(ctx context.Context, req models.SimulateRequest) (*models.SimulateResponse, error) {
	if a.engine == nil {
		return nil, ErrSimulationUnavailable
	}
	return a.engine.Simulate(ctx, req)
}

// SaveSimulation stores today's snapshot; one per user per day.
func (a *PortfolioAdvisor) SaveSimulation(ctx context.Context, req models.SaveSimulationRequest) (*models.SimulationRecord, error) {
	if a.records == nil {
		return nil, ErrRecordsUnavailable
	}
	if len(req.Tickers) != len(req.Allocations) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrAllocationMismatch, len(req.Tickers), len(req.Allocations))
	}
	tickers := make([]string, len(req.Tickers))
	for i, t := range req.Tickers {
		tickers[i] = strings.ToUpper(strings.TrimSpace(t))
	}
	rec := &models.SimulationRecord{
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Date:        util.FormatDate(time.Now().UTC()),
		Tickers:     tickers,
		Allocations: req.Allocations,
		TotalValue:  req.TotalValue,
	}
	if err := a.records.SaveSimulation(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (a *PortfolioAdvisor) LatestSimulation(ctx context.Context, email string) (*models.SimulationRecord, error) {
	if a.records == nil {
		return nil, ErrRecordsUnavailable
	}
	return a.records.LatestSimulation(ctx, strings.ToLower(strings.TrimSpace(email)))
}
