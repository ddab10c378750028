//go:build wireinject
// +build wireinject

package di

import (
	"FolioPulse/pkg/config"
	"FolioPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvidePack,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvidePriceStore,
		ProvideRecordStore,
		ProvideCache,

		// Analytics + use cases
		ProvideSimulationEngine,
		ProvideAdvisor,
		ProvideKafkaPriceHandler,

		// HTTP + application server
		ProvideHTTPHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
