package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	forecastsTotal  *prometheus.CounterVec
	confidence      *prometheus.GaugeVec
	backtestAnchors *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		forecastsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wavecast_forecasts_total",
				Help: "Total number of forecasts produced, by outcome",
			},
			[]string{"symbol", "outcome"},
		),
		confidence: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wavecast_forecast_confidence",
				Help: "Confidence of the most recent forecast for a symbol",
			},
			[]string{"symbol"},
		),
		backtestAnchors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wavecast_backtest_anchors_total",
				Help: "Backtest anchors processed, by disposition",
			},
			[]string{"symbol", "disposition"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wavecast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wavecast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordForecast records one forecast attempt and its outcome.
func (r *Recorder) RecordForecast(symbol, outcome string) {
	r.forecastsTotal.WithLabelValues(symbol, outcome).Inc()
}

// RecordConfidence records the confidence of the latest forecast.
func (r *Recorder) RecordConfidence(symbol string, confidence float64) {
	r.confidence.WithLabelValues(symbol).Set(confidence)
}

// RecordBacktestAnchors records evaluated and skipped anchor counts.
func (r *Recorder) RecordBacktestAnchors(symbol string, evaluated, skipped int) {
	r.backtestAnchors.WithLabelValues(symbol, "evaluated").Add(float64(evaluated))
	r.backtestAnchors.WithLabelValues(symbol, "skipped").Add(float64(skipped))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
