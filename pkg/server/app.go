package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	mid "HealthPull/internal/middleware"
	pkgcache "HealthPull/pkg/cache"
	"HealthPull/pkg/config"
	xhttp "HealthPull/pkg/http"
	pkgkafka "HealthPull/pkg/kafka"
	applogger "HealthPull/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	pipeline   *mid.EventPipeline
	producer   *pkgkafka.Producer
	cache      pkgcache.Service
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	pipeline *mid.EventPipeline,
	producer *pkgkafka.Producer,
	cache pkgcache.Service,
) *App {
	return &App{
		cfg:        cfg,
		log:        l,
		httpServer: httpServer,
		pipeline:   pipeline,
		producer:   producer,
		cache:      cache,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.pipeline != nil {
		a.pipeline.Start(ctx)
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("dashboard started",
		applogger.String("env", a.cfg.Environment),
		applogger.String("metrics_api", a.cfg.Spike.BaseURL),
		applogger.String("cache", a.cfg.Cache.Backend),
		applogger.Bool("kafka", a.producer != nil),
	)

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services. HTTP goes first so no new loads
// enqueue events while the pipeline drains.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.pipeline != nil {
		a.pipeline.Stop()
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")

	// the collector publishes through the producer, so it is flushed first
	a.log.RemoveCollector()
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	return nil
}
