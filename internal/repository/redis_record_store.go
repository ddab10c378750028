package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"FolioPulse/internal/domain/models"
	"FolioPulse/internal/domain/repository"
	"FolioPulse/pkg/util"
)

// RedisRecordStore persists simulation snapshots in Redis. One hash per
// user keyed by calendar day, plus a "latest" pointer, so the daily
// uniqueness check and the latest lookup are both single-key reads.
type RedisRecordStore struct {
	cli *redis.Client
}

type RedisRecordConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisRecordStore(cfg RedisRecordConfig) *RedisRecordStore {
	cli := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	return &RedisRecordStore{cli: cli}
}

var _ repository.RecordStore = (*RedisRecordStore)(nil)

func recordKey(email, date string) string {
	return fmt.Sprintf("simrec:%s:%s", strings.ToLower(email), date)
}

func latestKey(email string) string {
	return fmt.Sprintf("simrec:%s:latest", strings.ToLower(email))
}

// SaveSimulation writes today's record for the email. A record already
// stored today reports ErrDuplicateSimulation.
func (s *RedisRecordStore) SaveSimulation(ctx context.Context, rec *models.SimulationRecord) error {
	if rec.Date == "" {
		rec.Date = util.FormatDate(time.Now().UTC())
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	key := recordKey(rec.Email, rec.Date)
	ok, err := s.cli.SetNX(ctx, key, payload, 0).Result()
	if err != nil {
		return fmt.Errorf("store record: %w", err)
	}
	if !ok {
		return repository.ErrDuplicateSimulation
	}
	if err := s.cli.Set(ctx, latestKey(rec.Email), payload, 0).Err(); err != nil {
		return fmt.Errorf("update latest pointer: %w", err)
	}
	return nil
}

// LatestSimulation returns the most recently saved record for the email.
func (s *RedisRecordStore) LatestSimulation(ctx context.Context, email string) (*models.SimulationRecord, error) {
	b, err := s.cli.Get(ctx, latestKey(email)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, repository.ErrSimulationNotFound
		}
		return nil, fmt.Errorf("load latest record: %w", err)
	}
	var rec models.SimulationRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &rec, nil
}

func (s *RedisRecordStore) Health(ctx context.Context) error {
	return s.cli.Ping(ctx).Err()
}

func (s *RedisRecordStore) Close() error {
	return s.cli.Close()
}
