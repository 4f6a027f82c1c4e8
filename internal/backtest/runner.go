package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"WaveCast/internal/domain/models"
	"WaveCast/internal/wave"
)

// ErrNoEvaluableHistory is returned when no anchor in the requested window
// produced an evaluable prediction.
var ErrNoEvaluableHistory = errors.New("backtest: no evaluable history in window")

const defaultStride = 2

// Runner walks a forecaster across historical anchors and scores each
// prediction against the price realized testPeriod bars later. Every anchor
// sees only bars up to its own date.
type Runner struct {
	forecaster *wave.Forecaster
	stride     int
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithStride sets the anchor step in bars. Larger strides trade resolution
// for speed.
func WithStride(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.stride = n
		}
	}
}

func NewRunner(f *wave.Forecaster, opts ...RunnerOption) *Runner {
	r := &Runner{forecaster: f, stride: defaultStride}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run backtests one symbol. daysBack bounds how far into history anchors
// reach; testPeriod is the forecast horizon each anchor is scored at.
func (r *Runner) Run(ctx context.Context, symbol string, series models.BarSeries, daysBack, testPeriod int) (*models.BacktestReport, error) {
	if testPeriod <= 0 {
		return nil, fmt.Errorf("test period must be positive, got %d", testPeriod)
	}
	if daysBack <= testPeriod {
		return nil, fmt.Errorf("days back (%d) must exceed test period (%d)", daysBack, testPeriod)
	}

	first := len(series) - 1 - daysBack
	if first < 0 {
		first = 0
	}
	last := len(series) - 1 - testPeriod

	report := &models.BacktestReport{
		Symbol:     symbol,
		RunAt:      time.Now().UTC(),
		DaysBack:   daysBack,
		TestPeriod: testPeriod,
	}

	var (
		dirHits, targetHits int
		apeSum, confSum     float64
	)

	for i := first; i <= last; i += r.stride {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		anchor := series[i].Date
		pred, err := r.forecaster.Forecast(symbol, series, anchor, testPeriod)
		if err != nil {
			if errors.Is(err, wave.ErrInsufficientData) {
				report.Skipped++
				continue
			}
			return nil, fmt.Errorf("forecast at %s: %w", anchor.Format("2006-01-02"), err)
		}

		realized := series[i+testPeriod].Close
		if realized <= 0 {
			report.Skipped++
			continue
		}

		res := score(symbol, pred, series[i+1:i+testPeriod+1], realized)
		report.Evaluated++
		if res.DirectionalHit {
			dirHits++
		}
		if res.TargetHit {
			targetHits++
		}
		apeSum += res.AbsPctError
		confSum += pred.Confidence
		report.Results = append(report.Results, res)
	}

	if report.Evaluated == 0 {
		return nil, ErrNoEvaluableHistory
	}

	n := float64(report.Evaluated)
	report.DirectionalAccuracy = float64(dirHits) / n
	report.TargetHitRate = float64(targetHits) / n
	report.MAPE = apeSum / n
	report.AvgConfidence = confSum / n
	return report, nil
}

// score compares one prediction against the window of bars between the
// anchor (exclusive) and the evaluation bar (inclusive).
func score(symbol string, pred *models.Prediction, window models.BarSeries, realized float64) models.BacktestResult {
	predictedUp := pred.Direction == models.DirectionUp
	realizedUp := realized > pred.CurrentPrice

	// Target hit: any bar in the window traded through the target band.
	targetHit := false
	for _, b := range window {
		if b.Low <= pred.TargetHigh && b.High >= pred.TargetLow {
			targetHit = true
			break
		}
	}

	ape := (realized - pred.TargetPrice) / realized
	if ape < 0 {
		ape = -ape
	}

	return models.BacktestResult{
		Symbol:         symbol,
		AnchorTime:     pred.AnchorTime,
		Prediction:     *pred,
		RealizedPrice:  realized,
		DirectionalHit: predictedUp == realizedUp,
		TargetHit:      targetHit,
		AbsPctError:    ape,
	}
}
