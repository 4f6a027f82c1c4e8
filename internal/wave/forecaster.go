package wave

import (
	"math"
	"time"

	"WaveCast/internal/domain/models"
	"WaveCast/pkg/util"
)

// ConfidenceWeights splits the confidence score across its three inputs.
// Weights should sum to 1; the score is clamped to [0,1] regardless.
type ConfidenceWeights struct {
	Coverage  float64 // share for how much of a full cycle was labeled
	Stability float64 // share for how few longer candidates were rejected
	Fibonacci float64 // share for proximity to canonical ratios
}

// DefaultConfidenceWeights returns the standard split.
func DefaultConfidenceWeights() ConfidenceWeights {
	return ConfidenceWeights{Coverage: 0.4, Stability: 0.3, Fibonacci: 0.3}
}

const (
	momentumWindow   = 14
	maShortWindow    = 20
	maLongWindow     = 50
	volatilityWindow = 20

	// horizonRef normalizes the time weight so a 30-bar horizon carries
	// full weight.
	horizonRef = 30.0

	defaultMinBars        = 30
	defaultGenericPenalty = 0.5
)

// Forecaster runs the full pipeline for one symbol and anchor: detect swings,
// label the structure, project the next wave, and blend in trend metrics for
// the point estimate and confidence score.
type Forecaster struct {
	detector  *Detector
	labeler   *Labeler
	projector *Projector

	weights        ConfidenceWeights
	genericPenalty float64
	minBars        int
}

// ForecasterOption customizes a Forecaster.
type ForecasterOption func(*Forecaster)

// WithConfidenceWeights overrides the confidence split.
func WithConfidenceWeights(w ConfidenceWeights) ForecasterOption {
	return func(f *Forecaster) { f.weights = w }
}

// WithGenericPenalty sets the multiplier applied to confidence when the
// forecast had to fall back to a generic projection.
func WithGenericPenalty(p float64) ForecasterOption {
	return func(f *Forecaster) { f.genericPenalty = p }
}

// WithMinBars sets the minimum restricted-series length required to attempt
// a forecast.
func WithMinBars(n int) ForecasterOption {
	return func(f *Forecaster) { f.minBars = n }
}

func NewForecaster(detector *Detector, labeler *Labeler, opts ...ForecasterOption) *Forecaster {
	f := &Forecaster{
		detector:       detector,
		labeler:        labeler,
		projector:      NewProjector(),
		weights:        DefaultConfidenceWeights(),
		genericPenalty: defaultGenericPenalty,
		minBars:        defaultMinBars,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Forecast produces a prediction for the given symbol using only bars dated
// at or before asOf. horizonBars is the forecast distance in trading days.
// Returns ErrInsufficientData when the restricted series cannot support a
// swing structure.
func (f *Forecaster) Forecast(symbol string, series models.BarSeries, asOf time.Time, horizonBars int) (*models.Prediction, error) {
	bars := series.AsOf(asOf)
	if len(bars) < f.minBars {
		return nil, ErrInsufficientData
	}

	swings := f.detector.Detect(bars)
	if len(swings) < 2 {
		return nil, ErrInsufficientData
	}

	labeled := f.labeler.Label(swings)

	var (
		proj        Projection
		currentWave models.WaveLabel
		generic     bool
	)
	if labeled.Sequence.Empty() {
		// No valid structure. Project a plain retracement of the last leg.
		last := models.Wave{
			Label: models.WaveUndetermined,
			Start: swings[len(swings)-2],
			End:   swings[len(swings)-1],
		}
		proj = f.projector.generic(last)
		currentWave = models.WaveUndetermined
		generic = true
	} else {
		var ok bool
		proj, ok = f.projector.Project(labeled.Sequence)
		if !ok {
			return nil, ErrInsufficientData
		}
		lastWave, _ := labeled.Sequence.Last()
		currentWave = lastWave.Label
		generic = proj.Generic
	}

	anchor, _ := bars.Last()
	current := anchor.Close
	closes := bars.Closes()
	metrics := computeTrendMetrics(closes)

	// Blend the structural target with trend context. Near horizons stay
	// close to the current price; the trend strength gates how much of the
	// remaining distance is credited.
	mid := (proj.PriceLow + proj.PriceHigh) / 2
	timeWeight := math.Log1p(float64(horizonBars)) / math.Log1p(horizonRef)
	if timeWeight > 1 {
		timeWeight = 1
	}
	pull := timeWeight * (0.5 + 0.5*metrics.TrendStrength)
	point := current + (mid-current)*pull

	// Widen the structural band by realized volatility scaled with horizon,
	// then clamp to a sane envelope around the current price.
	uncertainty := metrics.Volatility * math.Sqrt(float64(horizonBars)) * current
	low := math.Min(proj.PriceLow, point) - uncertainty
	high := math.Max(proj.PriceHigh, point) + uncertainty
	low = math.Max(low, current*0.7)
	high = math.Min(high, current*1.3)
	if low > high {
		low, high = high, low
	}

	direction := models.DirectionUp
	if point < current {
		direction = models.DirectionDown
	}

	confidence := f.confidence(labeled, generic)

	return &models.Prediction{
		Symbol:       symbol,
		AnchorTime:   anchor.Date,
		CurrentPrice: current,
		CurrentWave:  currentWave,
		NextWave:     proj.NextLabel,
		Direction:    direction,
		TargetPrice:  point,
		TargetLow:    low,
		TargetHigh:   high,
		TargetDate:   util.AddBusinessDays(anchor.Date, horizonBars),
		TimeLow:      proj.TimeLow,
		TimeHigh:     proj.TimeHigh,
		HorizonBars:  horizonBars,
		Confidence:   confidence,
		WavesLabeled: len(labeled.Sequence.Waves),
		Metrics:      metrics,
	}, nil
}

// confidence folds coverage, candidate stability and Fibonacci proximity
// into a single score in [0,1].
func (f *Forecaster) confidence(labeled LabelResult, generic bool) float64 {
	coverage := float64(len(labeled.Sequence.Waves)) / float64(maxWaves)
	stability := 1.0 / (1.0 + float64(labeled.Fallbacks))

	score := f.weights.Coverage*coverage +
		f.weights.Stability*stability +
		f.weights.Fibonacci*labeled.FibScore
	if generic {
		score *= f.genericPenalty
	}
	return clamp01(score)
}

// computeTrendMetrics derives momentum, trend strength and volatility from
// the close column. Windows shrink gracefully when the series is short.
func computeTrendMetrics(closes []float64) models.TrendMetrics {
	n := len(closes)
	current := closes[n-1]

	var m models.TrendMetrics

	if i := n - 1 - momentumWindow; i >= 0 && closes[i] != 0 {
		m.Momentum = (current - closes[i]) / closes[i]
	}

	maShort := movingAverage(closes, maShortWindow)
	maLong := movingAverage(closes, maLongWindow)
	score := 0.0
	if current > maShort {
		score++
	}
	if maShort > maLong {
		score++
	}
	if current > maLong {
		score++
	}
	m.TrendStrength = score / 3.0

	window := closes
	if n > volatilityWindow {
		window = closes[n-volatilityWindow:]
	}
	mean, std := meanStd(window)
	if mean != 0 {
		m.Volatility = std / mean
	}

	return m
}

// movingAverage averages the trailing w values, or everything when the
// series is shorter than w.
func movingAverage(vals []float64, w int) float64 {
	if len(vals) < w {
		w = len(vals)
	}
	if w == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals[len(vals)-w:] {
		sum += v
	}
	return sum / float64(w)
}

func meanStd(vals []float64) (float64, float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))

	ss := 0.0
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(vals)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
