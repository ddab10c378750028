package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"FolioPulse/internal/domain/models"
	domrepo "FolioPulse/internal/domain/repository"
	"FolioPulse/pkg/util"
)

// KafkaPriceHandler consumes daily price-bar messages and writes them to the
// price store feeding the simulation engine.
type KafkaPriceHandler struct {
	topic   string
	store   domrepo.PriceStore
	metrics domrepo.Metrics
}

func NewKafkaPriceHandler(topic string, store domrepo.PriceStore, metrics domrepo.Metrics) *KafkaPriceHandler {
	return &KafkaPriceHandler{topic: topic, store: store, metrics: metrics}
}

func (h *KafkaPriceHandler) Topic() string { return h.topic }

// incoming message schema: {ticker, date, close, source}
func (h *KafkaPriceHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Ticker string  `json:"ticker"`
		Date   string  `json:"date"`
		Close  float64 `json:"close"`
		Source string  `json:"source"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}

	ticker := strings.ToUpper(strings.TrimSpace(m.Ticker))
	if ticker == "" || m.Close <= 0 {
		h.metrics.RecordError("consumer_bad_bar")
		return fmt.Errorf("invalid price bar: ticker=%q close=%v", m.Ticker, m.Close)
	}
	date, ok := util.ParseDate(m.Date)
	if !ok {
		h.metrics.RecordError("consumer_bad_date")
		return fmt.Errorf("invalid bar date %q", m.Date)
	}
	source := m.Source
	if source == "" {
		source = "stream"
	}

	start := time.Now()
	err := h.store.Store(ctx, &models.PriceBar{
		Ticker: ticker,
		Date:   date,
		Close:  m.Close,
		Source: source,
	})
	h.metrics.RecordLatency("price_store_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordBarIngested(source, ticker)
	h.metrics.RecordLastPrice(ticker, m.Close)
	return nil
}
