package models

import "time"

// BacktestResult is the outcome of one walk-forward anchor: the prediction
// made as of the anchor date compared against the realized future price.
type BacktestResult struct {
	Symbol         string     `json:"symbol"`
	AnchorTime     time.Time  `json:"anchor_time"`
	Prediction     Prediction `json:"prediction"`
	RealizedPrice  float64    `json:"realized_price"`
	DirectionalHit bool       `json:"directional_hit"`
	TargetHit      bool       `json:"target_hit"`
	AbsPctError    float64    `json:"abs_pct_error"`
}

// BacktestReport aggregates results over all evaluated anchors for one symbol.
type BacktestReport struct {
	Symbol              string           `json:"symbol"`
	RunAt               time.Time        `json:"run_at"`
	DaysBack            int              `json:"days_back"`
	TestPeriod          int              `json:"test_period"`
	Evaluated           int              `json:"evaluated"`
	Skipped             int              `json:"skipped"`
	DirectionalAccuracy float64          `json:"directional_accuracy"` // hits / evaluated
	TargetHitRate       float64          `json:"target_hit_rate"`
	MAPE                float64          `json:"mape"`
	AvgConfidence       float64          `json:"avg_confidence"`
	Results             []BacktestResult `json:"results,omitempty"`
}

// LeaderboardEntry ranks one symbol in a multi-symbol backtest run.
type LeaderboardEntry struct {
	Rank                int     `json:"rank"`
	Symbol              string  `json:"symbol"`
	DirectionalAccuracy float64 `json:"directional_accuracy"`
	TargetHitRate       float64 `json:"target_hit_rate"`
	MAPE                float64 `json:"mape"`
	Evaluated           int     `json:"evaluated"`
}
