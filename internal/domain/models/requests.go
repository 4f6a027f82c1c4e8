package models

// Requests for forecast HTTP endpoints. Defined in domain for consistency and reuse.

type ForecastRequest struct {
	Symbol  string `query:"symbol" json:"symbol" validate:"required"`
	Period  string `query:"period" json:"period" default:"1y" validate:"oneof=6mo 1y 2y 5y"`
	Horizon int    `query:"horizon" json:"horizon" default:"5" validate:"gte=1,lte=60"`
	AsOf    string `query:"as_of" json:"as_of"` // RFC3339 or unix seconds; empty = latest bar
}

type SummaryRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Period string `query:"period" json:"period" default:"1y" validate:"oneof=6mo 1y 2y 5y"`
}

type BacktestRequest struct {
	Symbol     string `query:"symbol" json:"symbol" validate:"required"`
	Period     string `query:"period" json:"period" default:"1y" validate:"oneof=6mo 1y 2y 5y"`
	DaysBack   int    `query:"days_back" json:"days_back" default:"60" validate:"gte=10,lte=500"`
	TestPeriod int    `query:"test_period" json:"test_period" default:"5" validate:"gte=1,lte=30"`
	Detailed   bool   `query:"detailed" json:"detailed"`
}

type LeaderboardRequest struct {
	Symbols    string `query:"symbols" json:"symbols"` // comma-separated; empty = persisted leaderboard
	Period     string `query:"period" json:"period" default:"1y" validate:"oneof=6mo 1y 2y 5y"`
	DaysBack   int    `query:"days_back" json:"days_back" default:"60" validate:"gte=10,lte=500"`
	TestPeriod int    `query:"test_period" json:"test_period" default:"5" validate:"gte=1,lte=30"`
	Limit      int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=100"`
}
