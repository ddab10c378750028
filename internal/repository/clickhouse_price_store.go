package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"FolioPulse/internal/domain/models"
	"FolioPulse/internal/domain/repository"
)

// ClickHousePriceStore keeps daily close bars in ClickHouse and serves the
// simulation engine's history reads.
type ClickHousePriceStore struct {
	db    *sql.DB
	table string
}

// NewClickHousePriceStore creates the store over an existing connection pool.
func NewClickHousePriceStore(db *sql.DB, table string) *ClickHousePriceStore {
	return &ClickHousePriceStore{db: db, table: table}
}

var _ repository.PriceStore = (*ClickHousePriceStore)(nil)
var _ repository.PriceSource = (*ClickHousePriceStore)(nil)

func (s *ClickHousePriceStore) Init(ctx context.Context) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		date Date,
		ticker LowCardinality(String),
		close Float64,
		source LowCardinality(String) DEFAULT ''
	) ENGINE = ReplacingMergeTree
	ORDER BY (ticker, date)`, s.table)
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init price table: %w", err)
	}
	return nil
}

func (s *ClickHousePriceStore) Store(ctx context.Context, bar *models.PriceBar) error {
	q := fmt.Sprintf("INSERT INTO %s (date, ticker, close, source) VALUES (?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q, bar.Date, bar.Ticker, bar.Close, bar.Source)
	return err
}

func (s *ClickHousePriceStore) StoreBatch(ctx context.Context, bars []*models.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	const chunkSize = 2000
	for start := 0; start < len(bars); start += chunkSize {
		end := start + chunkSize
		if end > len(bars) {
			end = len(bars)
		}
		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*4)
		for _, b := range bars[start:end] {
			if b == nil || b.Ticker == "" || b.Date.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?)")
			args = append(args, b.Date, b.Ticker, b.Close, b.Source)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (date, ticker, close, source) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

// DailyCloses loads closes for the tickers in [from, to] and aligns them on
// a shared date axis with NaN gaps.
func (s *ClickHousePriceStore) DailyCloses(ctx context.Context, tickers []string, from, to time.Time) (*models.PriceTable, error) {
	if len(tickers) == 0 {
		return models.NewPriceTable(nil, nil), nil
	}

	placeholders := make([]string, len(tickers))
	args := make([]interface{}, 0, len(tickers)+2)
	for i, t := range tickers {
		placeholders[i] = "?"
		args = append(args, t)
	}
	args = append(args, from, to)

	q := fmt.Sprintf(
		"SELECT ticker, date, close FROM %s FINAL WHERE ticker IN (%s) AND date >= ? AND date <= ? ORDER BY date",
		s.table, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily closes: %w", err)
	}
	defer rows.Close()

	type obs struct {
		ticker string
		date   time.Time
		close  float64
	}
	var all []obs
	dateSet := make(map[int64]time.Time)
	for rows.Next() {
		var o obs
		if err := rows.Scan(&o.ticker, &o.date, &o.close); err != nil {
			return nil, fmt.Errorf("scan daily close: %w", err)
		}
		o.date = o.date.UTC().Truncate(24 * time.Hour)
		all = append(all, o)
		dateSet[o.date.Unix()] = o.date
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	keys := make([]int64, 0, len(dateSet))
	for k := range dateSet {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	dates := make([]time.Time, len(keys))
	rowOf := make(map[int64]int, len(keys))
	for i, k := range keys {
		dates[i] = dateSet[k]
		rowOf[k] = i
	}

	pt := models.NewPriceTable(dates, tickers)
	for _, o := range all {
		if col, ok := pt.Values[o.ticker]; ok {
			col[rowOf[o.date.Unix()]] = o.close
		}
	}
	return pt, nil
}

func (s *ClickHousePriceStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHousePriceStore) Close() error {
	return nil // pool is owned by pkg/clickhouse
}
