package usecase

import (
	"context"
	"errors"
	"time"

	"WaveCast/internal/domain/models"
	domrepo "WaveCast/internal/domain/repository"
	"WaveCast/internal/wave"
	applogger "WaveCast/pkg/logger"
)

// summaryHorizons are the forecast distances bundled into one summary call.
var summaryHorizons = []int{1, 5, 10, 30}

// ForecastUseCase wires the analysis pipeline to market data, metrics, and
// the optional downstream publisher.
type ForecastUseCase struct {
	bars       domrepo.BarSource
	forecaster *wave.Forecaster
	publisher  domrepo.PredictionPublisher
	metrics    domrepo.Metrics
	logger     *applogger.Logger
}

func NewForecastUseCase(
	bars domrepo.BarSource,
	forecaster *wave.Forecaster,
	publisher domrepo.PredictionPublisher,
	metrics domrepo.Metrics,
	logger *applogger.Logger,
) *ForecastUseCase {
	return &ForecastUseCase{
		bars:       bars,
		forecaster: forecaster,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
	}
}

// Forecast produces one prediction. A zero asOf anchors at the latest bar.
func (u *ForecastUseCase) Forecast(ctx context.Context, symbol string, period domrepo.Period, asOf time.Time, horizon int) (*models.Prediction, error) {
	start := time.Now()

	series, err := u.bars.DailyBars(ctx, symbol, period)
	if err != nil {
		u.metrics.RecordError("market_data")
		return nil, err
	}

	if asOf.IsZero() {
		last, ok := series.Last()
		if !ok {
			return nil, wave.ErrInsufficientData
		}
		asOf = last.Date
	}

	pred, err := u.forecaster.Forecast(symbol, series, asOf, horizon)
	if err != nil {
		if errors.Is(err, wave.ErrInsufficientData) {
			u.metrics.RecordForecast(symbol, "insufficient_data")
		} else {
			u.metrics.RecordError("forecast")
		}
		return nil, err
	}

	u.metrics.RecordForecast(symbol, "ok")
	u.metrics.RecordConfidence(symbol, pred.Confidence)
	u.metrics.RecordLatency("forecast", time.Since(start).Seconds())

	// Publishing is best-effort; a broker outage must not fail the request.
	if err := u.publisher.PublishPrediction(ctx, pred); err != nil {
		u.metrics.RecordError("publish")
		u.logger.Warn("prediction publish failed",
			applogger.String("symbol", symbol),
			applogger.Error(err))
	}

	u.logger.Info("forecast produced",
		applogger.String("symbol", symbol),
		applogger.String("current_wave", string(pred.CurrentWave)),
		applogger.String("next_wave", string(pred.NextWave)),
		applogger.String("direction", pred.Direction),
		applogger.Float64("confidence", pred.Confidence),
		applogger.Int("horizon_bars", horizon))
	return pred, nil
}

// Summary produces predictions across the standard horizons anchored at the
// latest bar. Horizons that fail with insufficient data are skipped; any
// other error aborts.
func (u *ForecastUseCase) Summary(ctx context.Context, symbol string, period domrepo.Period) (*models.PredictionSummary, error) {
	series, err := u.bars.DailyBars(ctx, symbol, period)
	if err != nil {
		u.metrics.RecordError("market_data")
		return nil, err
	}
	last, ok := series.Last()
	if !ok {
		return nil, wave.ErrInsufficientData
	}

	summary := &models.PredictionSummary{
		Symbol:       symbol,
		AnchorTime:   last.Date,
		CurrentPrice: last.Close,
	}
	for _, h := range summaryHorizons {
		pred, err := u.forecaster.Forecast(symbol, series, last.Date, h)
		if err != nil {
			if errors.Is(err, wave.ErrInsufficientData) {
				continue
			}
			return nil, err
		}
		summary.Predictions = append(summary.Predictions, *pred)
	}
	if len(summary.Predictions) == 0 {
		return nil, wave.ErrInsufficientData
	}
	return summary, nil
}
