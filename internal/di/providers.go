package di

import (
	"fmt"
	"time"

	"HealthPull/internal/domain/repository"
	"HealthPull/internal/handler/api"
	mid "HealthPull/internal/middleware"
	internalrepo "HealthPull/internal/repository"
	icache "HealthPull/internal/service/cache"
	"HealthPull/internal/service/ratelimit"
	"HealthPull/internal/service/spike"
	"HealthPull/internal/services/normalize"
	"HealthPull/internal/usecase"
	pkgcache "HealthPull/pkg/cache"
	"HealthPull/pkg/config"
	xhttp "HealthPull/pkg/http"
	pkgkafka "HealthPull/pkg/kafka"
	applogger "HealthPull/pkg/logger"
	"HealthPull/pkg/metrics"
	"HealthPull/pkg/server"

	"github.com/google/uuid"
)

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideLogger builds the app logger. With Kafka enabled, error logs are
// aggregated and shipped to the log topic.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogTopic,
			Publisher:      producer,
		})
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCacheStore builds the memo store. Keys carry a per-boot id so a
// shared Redis never serves results from a previous process.
func ProvideCacheStore(cfg *config.Config) (pkgcache.Service, error) {
	if cfg.Cache.Backend != "redis" {
		return pkgcache.NewMemoryCache(
			pkgcache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize),
			pkgcache.WithMemoryDefaultTTL(cfg.Cache.TTL),
		), nil
	}
	redis, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisAddr(cfg.Cache.Redis.Addr),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		pkgcache.WithRedisPool(cfg.Cache.Redis.Pool.Size, cfg.Cache.Redis.Pool.MinIdleConns, cfg.Cache.Redis.Pool.Timeout),
		pkgcache.WithRedisPrefix(cfg.Cache.Redis.Prefix+":"+uuid.NewString()),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(redis,
		pkgcache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize),
		pkgcache.WithLayeredMemoryTTL(cfg.Cache.TTL),
	), nil
}

// ProvideResultCache scopes the store by session.
func ProvideResultCache(store pkgcache.Service, cfg *config.Config) repository.ResultCache {
	return icache.NewSessionCache(store, "metrics", cfg.Cache.TTL)
}

// ProvideMetricsSource creates the metrics API client.
func ProvideMetricsSource(cfg *config.Config, m repository.Metrics) repository.MetricsSource {
	return spike.New(cfg.Spike.BaseURL, cfg.Spike.ClientSecret, cfg.Spike.Timeout, m)
}

// ProvideEventPublisher publishes load events to Kafka, or drops them when Kafka is disabled.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.EventPublisher {
	if producer == nil {
		return internalrepo.NoopEventPublisher{}
	}
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.Topic)
}

// ProvideEventPipeline buffers load events between the loader and the publisher.
func ProvideEventPipeline(pub repository.EventPublisher, m repository.Metrics, cfg *config.Config) *mid.EventPipeline {
	return mid.NewEventPipeline(pub, m,
		mid.WithBufferSize(cfg.Kafka.BufferSize),
		mid.WithBatch(100, time.Second),
	)
}

// ProvideMetricLoader creates the metric loader use case.
func ProvideMetricLoader(
	source repository.MetricsSource,
	cache repository.ResultCache,
	m repository.Metrics,
	pipeline *mid.EventPipeline,
	l *applogger.Logger,
) *usecase.MetricLoader {
	return usecase.NewMetricLoader(source, cache, normalize.Default(), m, pipeline, l)
}

// ProvideDateRange creates the date range controller.
func ProvideDateRange(cfg *config.Config) *usecase.DateRangeController {
	return usecase.NewDateRangeController(
		usecase.WithWindowDays(cfg.Dashboard.WindowDays),
		usecase.WithMaxDays(cfg.Dashboard.MaxDays),
		usecase.WithLocation(cfg.Location()),
	)
}

// ProvideDashboardBuilder creates the dashboard use case.
func ProvideDashboardBuilder(loader *usecase.MetricLoader, dates *usecase.DateRangeController) *usecase.DashboardBuilder {
	return usecase.NewDashboardBuilder(loader, dates)
}

// ProvideRateLimiter creates the per-session limiter.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

// ProvideHTTPHandler creates the dashboard handler.
func ProvideHTTPHandler(
	cfg *config.Config,
	l *applogger.Logger,
	loader *usecase.MetricLoader,
	builder *usecase.DashboardBuilder,
	dates *usecase.DateRangeController,
	identity *usecase.IdentityResolver,
	limiter *ratelimit.Limiter,
) (xhttp.Handler, error) {
	h, err := api.NewDashboardHandler(l, loader, builder, dates, identity, limiter, api.HandlerOptions{
		SecureCookies: cfg.Server.SecureCookies,
		APIBaseURL:    cfg.Spike.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// ProvideHTTPServer creates the echo server.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, l *applogger.Logger) *xhttp.Server {
	return xhttp.NewServer(h,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORSOrigins(cfg.Server.CORSOrigins),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	pipeline *mid.EventPipeline,
	producer *pkgkafka.Producer,
	store pkgcache.Service,
) *server.App {
	return server.New(cfg, l, srv, pipeline, producer, store)
}
