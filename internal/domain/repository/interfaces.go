package repository

import (
	"context"
	"errors"
	"time"

	"FolioPulse/internal/domain/models"
)

var (
	// ErrDuplicateSimulation means a record already exists for the email on
	// the current calendar day.
	ErrDuplicateSimulation = errors.New("simulation already exists for this email today")
	// ErrSimulationNotFound means no record exists for the email.
	ErrSimulationNotFound = errors.New("no simulation found for this email")
)

// PriceSource provides read-only access to daily close history for the
// simulation engine.
type PriceSource interface {
	DailyCloses(ctx context.Context, tickers []string, from, to time.Time) (*models.PriceTable, error)
	Health(ctx context.Context) error
	Close() error
}

// PriceStore is the write side fed by the ingestion pipeline.
type PriceStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, bar *models.PriceBar) error
	StoreBatch(ctx context.Context, bars []*models.PriceBar) error
	Health(ctx context.Context) error
	Close() error
}

// RecordStore persists user simulation snapshots.
type RecordStore interface {
	SaveSimulation(ctx context.Context, rec *models.SimulationRecord) error
	LatestSimulation(ctx context.Context, email string) (*models.SimulationRecord, error)
	Health(ctx context.Context) error
	Close() error
}

// Publisher emits messages to an external stream, used for the log
// aggregation sink.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
	Close() error
}

// Metrics abstracts the ingestion counters so pipeline code stays
// backend-agnostic.
type Metrics interface {
	RecordBarIngested(source, ticker string)
	RecordError(kind string)
	RecordLastPrice(ticker string, price float64)
	RecordLatency(operation string, seconds float64)
	RecordPackTickers(n int)
}
