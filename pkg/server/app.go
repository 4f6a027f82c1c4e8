package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "WaveCast/internal/domain/repository"
	pkgcache "WaveCast/pkg/cache"
	pkgch "WaveCast/pkg/clickhouse"
	"WaveCast/pkg/config"
	xhttp "WaveCast/pkg/http"
	applogger "WaveCast/pkg/logger"
	pkgqueue "WaveCast/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    xhttp.Handler
	httpServer *xhttp.Server
	queue      *pkgqueue.RedisQueue // nil when the job queue is disabled
	chClient   *pkgch.Client        // nil when persistence is disabled
	publisher  domrepo.PredictionPublisher
	cache      *pkgcache.RedisCache
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	queue *pkgqueue.RedisQueue,
	chClient *pkgch.Client,
	publisher domrepo.PredictionPublisher,
	cache *pkgcache.RedisCache,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		handler:   handler,
		queue:     queue,
		chClient:  chClient,
		publisher: publisher,
		cache:     cache,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithRequestMetrics(a.logger, time.Second),
	)

	if a.queue != nil {
		if err := a.queue.Start(); err != nil {
			a.logger.Error("queue start error", applogger.Error(err))
			return err
		}
		a.logger.Info("job queue started", applogger.Int("workers", a.cfg.Queue.Workers))
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Strings("symbols", a.cfg.MarketData.Symbols))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.queue != nil {
		if err := a.queue.Stop(ctx); err != nil {
			a.logger.Warn("queue stop error", applogger.Error(err))
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("redis close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
