package di

import (
	"context"
	"fmt"
	"time"

	"FolioPulse/internal/domain/models"
	domrepo "FolioPulse/internal/domain/repository"
	"FolioPulse/internal/handler/api"
	internalrepo "FolioPulse/internal/repository"
	icache "FolioPulse/internal/service/cache"
	"FolioPulse/internal/services/analytics"
	"FolioPulse/internal/usecase"
	pkgch "FolioPulse/pkg/clickhouse"
	"FolioPulse/pkg/config"
	pkgkafka "FolioPulse/pkg/kafka"
	"FolioPulse/pkg/metrics"
	"FolioPulse/pkg/server"

	applogger "FolioPulse/pkg/logger"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvidePack loads the analytics pack. The service cannot run without it.
func ProvidePack(cfg *config.Config, m domrepo.Metrics) (*models.AnalyticsPack, error) {
	pack, err := models.LoadPack(cfg.Pack.Path)
	if err != nil {
		return nil, fmt.Errorf("load pack %s: %w", cfg.Pack.Path, err)
	}
	m.RecordPackTickers(len(pack.Tickers))
	return pack, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client when the prices
// backend is enabled, nil otherwise.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.Prices.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvidePriceStore creates the daily close store and its table.
func ProvidePriceStore(chClient *pkgch.Client, cfg *config.Config) (*internalrepo.ClickHousePriceStore, error) {
	if chClient == nil {
		return nil, nil
	}
	store := internalrepo.NewClickHousePriceStore(chClient.DB(), cfg.ClickHouse.Database+"."+cfg.Prices.Table)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("price store schema: %w", err)
	}
	return store, nil
}

// ProvideSimulationEngine creates the backtest engine when price history
// is available.
func ProvideSimulationEngine(store *internalrepo.ClickHousePriceStore, cfg *config.Config) *analytics.SimulationEngine {
	if store == nil {
		return nil
	}
	return analytics.NewSimulationEngine(store, analytics.SimulationConfig{
		LookbackDays:      cfg.Simulation.LookbackDays,
		HighCorrThreshold: cfg.Simulation.HighCorrThreshold,
		RiskFreeRate:      cfg.Simulation.RiskFreeRate,
	})
}

// ProvideRecordStore creates the Redis simulation record store when enabled.
func ProvideRecordStore(cfg *config.Config) domrepo.RecordStore {
	if !cfg.Records.Enabled {
		return nil
	}
	return internalrepo.NewRedisRecordStore(internalrepo.RedisRecordConfig{
		Addr:     cfg.Records.Redis.Addr,
		Password: cfg.Records.Redis.Password,
		DB:       cfg.Records.Redis.DB,
	})
}

// ProvideKafkaProducer creates a Kafka producer when kafka is enabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaPriceHandler registers the handler for the daily price topic.
func ProvideKafkaPriceHandler(store *internalrepo.ClickHousePriceStore, m domrepo.Metrics, cfg *config.Config) *usecase.KafkaPriceHandler {
	if !cfg.Kafka.Enabled || store == nil {
		return nil
	}
	return usecase.NewKafkaPriceHandler(cfg.Kafka.PricesTopic, store, m)
}

// ProvideAdvisor assembles the portfolio advisor use case.
func ProvideAdvisor(
	pack *models.AnalyticsPack,
	engine *analytics.SimulationEngine,
	records domrepo.RecordStore,
	cfg *config.Config,
) *usecase.PortfolioAdvisor {
	return usecase.NewPortfolioAdvisor(
		pack,
		analytics.NewScorer(pack),
		analytics.NewSynthesizer(pack, cfg.Starter.WeightCap),
		engine,
		records,
	)
}

// ProvideCache selects the response cache backend.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	if !cfg.Cache.Enabled {
		return nil
	}
	if cfg.Cache.Backend == "redis" {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideHTTPHandler creates the Echo API handler.
func ProvideHTTPHandler(log *applogger.Logger, advisor *usecase.PortfolioAdvisor, cache icache.BytesCache) *api.PortfolioEchoHandler {
	h := api.NewPortfolioEchoHandler(log, advisor)
	if cache != nil {
		h.SetCache(cache)
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	h *api.PortfolioEchoHandler,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaPriceHandler,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	records domrepo.RecordStore,
) *server.App {
	var mh pkgkafka.MessageHandler
	if kh != nil {
		mh = kh
	}
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NewLoggingHook(log))
	}
	app := server.New(cfg, log, h, consumer, mh, chClient, producer)
	if records != nil {
		app.AddCloser(records.Close)
	}
	return app
}
