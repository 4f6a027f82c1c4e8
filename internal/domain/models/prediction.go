package models

import "time"

// Direction of the forecast move.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// TrendMetrics carries the technical indicators folded into a prediction.
type TrendMetrics struct {
	Momentum      float64 `json:"momentum"`       // fractional price change over the momentum window
	TrendStrength float64 `json:"trend_strength"` // 0..1 from MA20/MA50 alignment
	Volatility    float64 `json:"volatility"`     // stddev/mean of recent closes
}

// Prediction is the output of one forecast call: the current wave position,
// the projected target range for the next wave, and a confidence score.
type Prediction struct {
	Symbol       string       `json:"symbol"`
	AnchorTime   time.Time    `json:"anchor_time"`
	CurrentPrice float64      `json:"current_price"`
	CurrentWave  WaveLabel    `json:"current_wave"`
	NextWave     WaveLabel    `json:"next_wave"`
	Direction    string       `json:"direction"`
	TargetPrice  float64      `json:"target_price"` // point estimate
	TargetLow    float64      `json:"target_low"`
	TargetHigh   float64      `json:"target_high"`
	TargetDate   time.Time    `json:"target_date"`      // business-day horizon date
	TimeLow      time.Time    `json:"target_time_low"`  // ratio-scaled time range
	TimeHigh     time.Time    `json:"target_time_high"`
	HorizonBars  int          `json:"horizon_bars"`
	Confidence   float64      `json:"confidence"` // in [0,1]
	WavesLabeled int          `json:"waves_labeled"`
	Metrics      TrendMetrics `json:"metrics"`
}

// PredictionSummary bundles predictions over several horizons for one symbol.
type PredictionSummary struct {
	Symbol       string       `json:"symbol"`
	AnchorTime   time.Time    `json:"anchor_time"`
	CurrentPrice float64      `json:"current_price"`
	Predictions  []Prediction `json:"predictions"`
}
