//go:build wireinject
// +build wireinject

package di

import (
	"WaveCast/pkg/config"
	"WaveCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideRedisCache,
		ProvideCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideBarSource,
		ProvideResultStore,
		ProvidePredictionPublisher,

		// Analysis pipeline
		ProvideForecaster,
		ProvideRunner,

		// Use cases
		ProvideForecastUseCase,
		ProvideBacktestUseCase,

		// Background jobs and transport
		ProvideQueue,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
