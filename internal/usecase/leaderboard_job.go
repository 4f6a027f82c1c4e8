package usecase

import (
	"context"
	"fmt"

	domrepo "WaveCast/internal/domain/repository"
	applogger "WaveCast/pkg/logger"
	"WaveCast/pkg/queue"
)

// LeaderboardRefreshType is the queue message type for async refreshes.
const LeaderboardRefreshType = "backtest.leaderboard"

// LeaderboardRefreshPayload carries the parameters of a queued refresh.
type LeaderboardRefreshPayload struct {
	Symbols    []string `json:"symbols"`
	Period     string   `json:"period"`
	DaysBack   int      `json:"days_back"`
	TestPeriod int      `json:"test_period"`
}

// LeaderboardRefreshJob recomputes and persists backtests for a symbol set
// in the background, so the persisted leaderboard stays current without
// blocking API requests.
type LeaderboardRefreshJob struct {
	backtests *BacktestUseCase
	logger    *applogger.Logger
}

func NewLeaderboardRefreshJob(backtests *BacktestUseCase, logger *applogger.Logger) *LeaderboardRefreshJob {
	return &LeaderboardRefreshJob{backtests: backtests, logger: logger}
}

var _ queue.Job = (*LeaderboardRefreshJob)(nil)

func (j *LeaderboardRefreshJob) Name() string { return "leaderboard-refresh" }
func (j *LeaderboardRefreshJob) Type() string { return LeaderboardRefreshType }

func (j *LeaderboardRefreshJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[LeaderboardRefreshPayload](payload)
	if err != nil {
		return fmt.Errorf("parse leaderboard payload: %w", err)
	}
	if len(p.Symbols) == 0 {
		return fmt.Errorf("leaderboard refresh requires symbols")
	}

	period := domrepo.NormalizePeriod(p.Period)
	reports, err := j.backtests.RunMany(ctx, p.Symbols, period, p.DaysBack, p.TestPeriod)
	if err != nil {
		return fmt.Errorf("run backtests: %w", err)
	}

	j.logger.Info("leaderboard refresh completed",
		applogger.Int("symbols", len(p.Symbols)),
		applogger.Int("reports", len(reports)))
	return nil
}
