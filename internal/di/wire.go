//go:build wireinject
// +build wireinject

package di

import (
	"HealthPull/internal/usecase"
	"HealthPull/pkg/config"
	"HealthPull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Infrastructure
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideMetrics,
		ProvideCacheStore,

		// Repositories
		ProvideResultCache,
		ProvideMetricsSource,
		ProvideEventPublisher,
		ProvideEventPipeline,

		// Use cases
		ProvideMetricLoader,
		ProvideDateRange,
		usecase.NewIdentityResolver,
		ProvideDashboardBuilder,

		// HTTP
		ProvideRateLimiter,
		ProvideHTTPHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
