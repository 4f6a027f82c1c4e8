package di

import (
	"context"
	"fmt"
	"time"

	"WaveCast/internal/backtest"
	domrepo "WaveCast/internal/domain/repository"
	"WaveCast/internal/handler/api"
	internalrepo "WaveCast/internal/repository"
	"WaveCast/internal/service/marketdata"
	"WaveCast/internal/usecase"
	"WaveCast/internal/wave"
	pkgcache "WaveCast/pkg/cache"
	pkgch "WaveCast/pkg/clickhouse"
	"WaveCast/pkg/config"
	xhttp "WaveCast/pkg/http"
	pkgkafka "WaveCast/pkg/kafka"
	applogger "WaveCast/pkg/logger"
	"WaveCast/pkg/metrics"
	pkgqueue "WaveCast/pkg/queue"
	"WaveCast/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideRedisCache creates the Redis cache client.
func ProvideRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	c, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Redis.Host),
		pkgcache.WithRedisPort(cfg.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
		pkgcache.WithRedisPool(cfg.Redis.PoolSize, cfg.Redis.MinIdleConns, cfg.Redis.PoolTimeout),
		pkgcache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return c, nil
}

// ProvideCache layers an in-memory L1 over Redis.
func ProvideCache(redis *pkgcache.RedisCache) pkgcache.Service {
	return pkgcache.NewLayeredCache(redis)
}

// ProvideBarSource creates the market data source with caching.
func ProvideBarSource(cfg *config.Config, c pkgcache.Service, l *applogger.Logger) domrepo.BarSource {
	stooq := marketdata.NewStooqSource(l,
		marketdata.WithBaseURL(cfg.MarketData.BaseURL),
		marketdata.WithHTTPClient(xhttp.NewClient(xhttp.WithTimeout(cfg.MarketData.Timeout))),
	)
	return marketdata.NewCachedSource(stooq, c, cfg.MarketData.CacheTTL, l)
}

// ProvideForecaster assembles the analysis pipeline from config.
func ProvideForecaster(cfg *config.Config) (*wave.Forecaster, error) {
	detector, err := wave.NewDetector(cfg.Analysis.ThresholdPct)
	if err != nil {
		return nil, fmt.Errorf("detector: %w", err)
	}
	labeler := wave.NewLabeler(cfg.Analysis.OverrunAllowance)
	return wave.NewForecaster(detector, labeler,
		wave.WithMinBars(cfg.Analysis.MinBars),
		wave.WithGenericPenalty(cfg.Analysis.GenericPenalty),
		wave.WithConfidenceWeights(wave.ConfidenceWeights{
			Coverage:  cfg.Analysis.Weights.Coverage,
			Stability: cfg.Analysis.Weights.Stability,
			Fibonacci: cfg.Analysis.Weights.Fibonacci,
		}),
	), nil
}

// ProvideRunner creates the walk-forward backtest runner.
func ProvideRunner(cfg *config.Config, f *wave.Forecaster) *backtest.Runner {
	return backtest.NewRunner(f, backtest.WithStride(cfg.Backtest.Stride))
}

// ProvideClickHouseClient creates a ClickHouse client and applies the
// schema. Returns nil when persistence is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.Schema); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideResultStore creates the backtest result store, nil when
// persistence is disabled.
func ProvideResultStore(chClient *pkgch.Client, l *applogger.Logger) domrepo.ResultStore {
	if chClient == nil {
		return nil
	}
	store := internalrepo.NewCHResultStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideKafkaProducer creates a Kafka producer, nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePredictionPublisher creates the prediction publisher; a no-op
// implementation stands in when no broker is configured.
func ProvidePredictionPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.PredictionPublisher {
	if producer == nil {
		return internalrepo.NoopPublisher{}
	}
	return internalrepo.NewKafkaPredictionPublisher(producer, cfg.Kafka.Topic)
}

// ProvideForecastUseCase creates the forecast use case.
func ProvideForecastUseCase(
	bars domrepo.BarSource,
	forecaster *wave.Forecaster,
	publisher domrepo.PredictionPublisher,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.ForecastUseCase {
	return usecase.NewForecastUseCase(bars, forecaster, publisher, m, l)
}

// ProvideBacktestUseCase creates the backtest use case.
func ProvideBacktestUseCase(
	bars domrepo.BarSource,
	runner *backtest.Runner,
	store domrepo.ResultStore,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.BacktestUseCase {
	return usecase.NewBacktestUseCase(bars, runner, store, m, l, cfg.Backtest.Workers)
}

// ProvideQueue creates the Redis job queue with the leaderboard refresh job
// registered. Returns nil when the queue is disabled.
func ProvideQueue(cfg *config.Config, l *applogger.Logger, redis *pkgcache.RedisCache, backtests *usecase.BacktestUseCase) *pkgqueue.RedisQueue {
	if !cfg.Queue.Enabled {
		return nil
	}
	q := pkgqueue.NewRedisQueue(l, &pkgqueue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		RetryLimit: 3,
		RetryDelay: 30 * time.Second,
	}, redis.Client(), pkgqueue.ModeProducerConsumer,
		pkgqueue.WithKeyPrefix(cfg.Redis.Prefix+":queue"))
	q.RegisterJob(usecase.NewLeaderboardRefreshJob(backtests, l))
	return q
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(
	l *applogger.Logger,
	forecasts *usecase.ForecastUseCase,
	backtests *usecase.BacktestUseCase,
	store domrepo.ResultStore,
	q *pkgqueue.RedisQueue,
) xhttp.Handler {
	var qs pkgqueue.QueueService
	if q != nil {
		qs = q
	}
	return api.NewForecastEchoHandler(l, forecasts, backtests, store, qs)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	q *pkgqueue.RedisQueue,
	chClient *pkgch.Client,
	publisher domrepo.PredictionPublisher,
	redis *pkgcache.RedisCache,
) *server.App {
	return server.New(cfg, l, handler, q, chClient, publisher, redis)
}
