package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"WaveCast/internal/backtest"
	"WaveCast/internal/domain/models"
	domrepo "WaveCast/internal/domain/repository"
	applogger "WaveCast/pkg/logger"
)

// BacktestUseCase runs walk-forward evaluations, persists the outcomes, and
// serves leaderboards either freshly computed or from the result store.
type BacktestUseCase struct {
	bars    domrepo.BarSource
	runner  *backtest.Runner
	store   domrepo.ResultStore // nil when persistence is disabled
	metrics domrepo.Metrics
	logger  *applogger.Logger
	workers int
}

func NewBacktestUseCase(
	bars domrepo.BarSource,
	runner *backtest.Runner,
	store domrepo.ResultStore,
	metrics domrepo.Metrics,
	logger *applogger.Logger,
	workers int,
) *BacktestUseCase {
	if workers <= 0 {
		workers = 1
	}
	return &BacktestUseCase{
		bars:    bars,
		runner:  runner,
		store:   store,
		metrics: metrics,
		logger:  logger,
		workers: workers,
	}
}

// RunSymbol backtests one symbol. When detailed is false the per-anchor
// results are stripped from the response but still persisted.
func (u *BacktestUseCase) RunSymbol(ctx context.Context, symbol string, period domrepo.Period, daysBack, testPeriod int, detailed bool) (*models.BacktestReport, error) {
	start := time.Now()

	series, err := u.bars.DailyBars(ctx, symbol, period)
	if err != nil {
		u.metrics.RecordError("market_data")
		return nil, err
	}

	report, err := u.runner.Run(ctx, symbol, series, daysBack, testPeriod)
	if err != nil {
		u.metrics.RecordError("backtest")
		return nil, err
	}

	u.metrics.RecordBacktestAnchors(symbol, report.Evaluated, report.Skipped)
	u.metrics.RecordLatency("backtest", time.Since(start).Seconds())
	u.logger.Info("backtest finished",
		applogger.String("symbol", symbol),
		applogger.Int("evaluated", report.Evaluated),
		applogger.Int("skipped", report.Skipped),
		applogger.Float64("directional_accuracy", report.DirectionalAccuracy),
		applogger.Float64("mape", report.MAPE))

	u.persist(ctx, report)

	if !detailed {
		trimmed := *report
		trimmed.Results = nil
		return &trimmed, nil
	}
	return report, nil
}

// RunMany backtests symbols in parallel with a bounded worker pool. Symbols
// that fail are logged and omitted; the call errors only when the context is
// cancelled.
func (u *BacktestUseCase) RunMany(ctx context.Context, symbols []string, period domrepo.Period, daysBack, testPeriod int) ([]*models.BacktestReport, error) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		reports []*models.BacktestReport
	)

	sem := make(chan struct{}, u.workers)
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(symbol string) {
			defer wg.Done()
			defer func() { <-sem }()

			report, err := u.RunSymbol(ctx, symbol, period, daysBack, testPeriod, false)
			if err != nil {
				u.logger.Warn("backtest skipped",
					applogger.String("symbol", symbol),
					applogger.Error(err))
				return
			}

			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Worker completion order is nondeterministic.
	sort.Slice(reports, func(i, j int) bool { return reports[i].Symbol < reports[j].Symbol })
	return reports, nil
}

// Leaderboard ranks freshly computed reports for the given symbols, or, when
// symbols is empty, serves the persisted leaderboard.
func (u *BacktestUseCase) Leaderboard(ctx context.Context, symbols []string, period domrepo.Period, daysBack, testPeriod, limit int) ([]models.LeaderboardEntry, error) {
	if len(symbols) == 0 {
		if u.store == nil {
			return nil, backtest.ErrNoEvaluableHistory
		}
		return u.store.LatestLeaderboard(ctx, limit)
	}

	reports, err := u.RunMany(ctx, symbols, period, daysBack, testPeriod)
	if err != nil {
		return nil, err
	}
	entries := backtest.Leaderboard(reports)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// persist writes the report to the result store, best-effort.
func (u *BacktestUseCase) persist(ctx context.Context, report *models.BacktestReport) {
	if u.store == nil {
		return
	}
	if err := u.store.SaveReport(ctx, report); err != nil {
		u.metrics.RecordError("result_store")
		u.logger.Warn("report persistence failed",
			applogger.String("symbol", report.Symbol),
			applogger.Error(err))
	}
}
