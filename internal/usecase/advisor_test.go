package usecase

import (
	"context"
	"errors"
	"testing"

	"FolioPulse/internal/domain/models"
	domrepo "FolioPulse/internal/domain/repository"
	"FolioPulse/internal/services/analytics"
)

type memRecordStore struct {
	records map[string]map[string]*models.SimulationRecord // email -> date -> record
	latest  map[string]*models.SimulationRecord
}

func newMemRecordStore() *memRecordStore {
	return &memRecordStore{
		records: map[string]map[string]*models.SimulationRecord{},
		latest:  map[string]*models.SimulationRecord{},
	}
}

func (m *memRecordStore) SaveSimulation(_ context.Context, rec *models.SimulationRecord) error {
	byDate, ok := m.records[rec.Email]
	if !ok {
		byDate = map[string]*models.SimulationRecord{}
		m.records[rec.Email] = byDate
	}
	if _, dup := byDate[rec.Date]; dup {
		return domrepo.ErrDuplicateSimulation
	}
	byDate[rec.Date] = rec
	m.latest[rec.Email] = rec
	return nil
}

func (m *memRecordStore) LatestSimulation(_ context.Context, email string) (*models.SimulationRecord, error) {
	rec, ok := m.latest[email]
	if !ok {
		return nil, domrepo.ErrSimulationNotFound
	}
	return rec, nil
}

func (m *memRecordStore) Health(context.Context) error { return nil }
func (m *memRecordStore) Close() error                 { return nil }

func advisorPack() *models.AnalyticsPack {
	return &models.AnalyticsPack{
		AsOf: "2025-08-29",
		Tickers: map[string]models.TickerMetrics{
			"VOO":  {LastPrice: 560, CAGR: 0.11, Vol: 0.17, Type: models.TypeETF, Name: "Vanguard S&P 500 ETF"},
			"AAPL": {LastPrice: 230, CAGR: 0.15, Vol: 0.28, Type: models.TypeStock, Name: "Apple Inc.", Sector: "Technology"},
		},
		CorrelationTop: map[string][]models.CorrelationEdge{},
	}
}

func newTestAdvisor(records domrepo.RecordStore) *PortfolioAdvisor {
	pack := advisorPack()
	return NewPortfolioAdvisor(pack, analytics.NewScorer(pack), analytics.NewSynthesizer(pack, 0), nil, records)
}

func TestAdvisorServiceHealth(t *testing.T) {
	a := newTestAdvisor(nil)
	h := a.ServiceHealth()
	if !h.OK || h.Tickers != 2 || h.AsOf != "2025-08-29" {
		t.Fatalf("health = %+v", h)
	}
}

func TestAdvisorSearchUniverse(t *testing.T) {
	a := newTestAdvisor(nil)
	resp := a.SearchUniverse("a", 10)
	if len(resp.Matches) != 1 || resp.Matches[0].Ticker != "AAPL" {
		t.Fatalf("matches = %+v", resp.Matches)
	}
	if resp.Matches[0].Name != "Apple Inc." || resp.Matches[0].Type != models.TypeStock {
		t.Fatalf("match metadata = %+v", resp.Matches[0])
	}
}

func TestAdvisorHealthRejectsBadFocus(t *testing.T) {
	a := newTestAdvisor(nil)
	_, err := a.Health(models.PortfolioRequest{
		Holdings: []models.Holding{{Ticker: "VOO", Weight: 1}},
		Focus:    "Vibes",
	})
	if err == nil {
		t.Fatalf("expected error for unknown focus")
	}
}

func TestAdvisorSimulateUnavailableWithoutEngine(t *testing.T) {
	a := newTestAdvisor(nil)
	_, err := a.Simulate(context.Background(), models.SimulateRequest{Tickers: []string{"VOO"}})
	if !errors.Is(err, ErrSimulationUnavailable) {
		t.Fatalf("err = %v, want ErrSimulationUnavailable", err)
	}
}

func TestAdvisorSaveSimulation(t *testing.T) {
	store := newMemRecordStore()
	a := newTestAdvisor(store)

	req := models.SaveSimulationRequest{
		Email:       "User@Example.com",
		Tickers:     []string{"voo", "aapl"},
		Allocations: []float64{500, 500},
		TotalValue:  1000,
	}
	rec, err := a.SaveSimulation(context.Background(), req)
	if err != nil {
		t.Fatalf("SaveSimulation: %v", err)
	}
	if rec.Email != "user@example.com" {
		t.Fatalf("email not lowercased: %q", rec.Email)
	}
	if rec.Tickers[0] != "VOO" {
		t.Fatalf("tickers not uppercased: %v", rec.Tickers)
	}
	if rec.Date == "" {
		t.Fatalf("date not stamped")
	}

	// Same user, same day: rejected.
	if _, err := a.SaveSimulation(context.Background(), req); !errors.Is(err, domrepo.ErrDuplicateSimulation) {
		t.Fatalf("duplicate err = %v", err)
	}

	got, err := a.LatestSimulation(context.Background(), "USER@example.com")
	if err != nil {
		t.Fatalf("LatestSimulation: %v", err)
	}
	if got.TotalValue != 1000 {
		t.Fatalf("latest = %+v", got)
	}
}

func TestAdvisorSaveSimulationLengthMismatch(t *testing.T) {
	a := newTestAdvisor(newMemRecordStore())
	_, err := a.SaveSimulation(context.Background(), models.SaveSimulationRequest{
		Email: "x@y.z", Tickers: []string{"VOO"}, Allocations: []float64{1, 2},
	})
	if err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestAdvisorRecordsUnavailable(t *testing.T) {
	a := newTestAdvisor(nil)
	if _, err := a.SaveSimulation(context.Background(), models.SaveSimulationRequest{
		Email: "x@y.z", Tickers: []string{"VOO"}, Allocations: []float64{1},
	}); !errors.Is(err, ErrRecordsUnavailable) {
		t.Fatalf("err = %v, want ErrRecordsUnavailable", err)
	}
	if _, err := a.LatestSimulation(context.Background(), "x@y.z"); !errors.Is(err, ErrRecordsUnavailable) {
		t.Fatalf("err = %v, want ErrRecordsUnavailable", err)
	}
}
