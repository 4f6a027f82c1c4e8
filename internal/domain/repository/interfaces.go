package repository

import (
	"context"

	"WaveCast/internal/domain/models"
)

// BarSource yields daily OHLCV history for a symbol. The returned series is
// ascending by date with unique dates; callers treat it as read-only.
type BarSource interface {
	DailyBars(ctx context.Context, symbol string, period Period) (models.BarSeries, error)
}

// ResultStore persists backtest outcomes for later leaderboard queries.
type ResultStore interface {
	SaveReport(ctx context.Context, report *models.BacktestReport) error
	LatestLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	Health(ctx context.Context) error
}

// PredictionPublisher emits finished predictions for downstream consumers.
type PredictionPublisher interface {
	PublishPrediction(ctx context.Context, p *models.Prediction) error
	Close() error
}

// Metrics records operational counters for the forecast pipeline.
type Metrics interface {
	RecordForecast(symbol, outcome string)
	RecordConfidence(symbol string, confidence float64)
	RecordBacktestAnchors(symbol string, evaluated, skipped int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
