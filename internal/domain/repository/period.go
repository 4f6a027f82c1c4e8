package repository

import "time"

// Period selects how much daily history to pull for a symbol.
type Period string

const (
	Period6Mo Period = "6mo"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
	Period5Y  Period = "5y"
)

// IsValidPeriod returns true if p is a supported history period.
func IsValidPeriod(p Period) bool {
	switch p {
	case Period6Mo, Period1Y, Period2Y, Period5Y:
		return true
	default:
		return false
	}
}

// DefaultPeriod returns the default history period.
func DefaultPeriod() Period { return Period1Y }

// NormalizePeriod converts a raw string to a valid period (or default).
func NormalizePeriod(s string) Period {
	if s == "" {
		return DefaultPeriod()
	}
	p := Period(s)
	if IsValidPeriod(p) {
		return p
	}
	return DefaultPeriod()
}

// StartFor returns the inclusive start date for a period ending at end.
func (p Period) StartFor(end time.Time) time.Time {
	switch p {
	case Period6Mo:
		return end.AddDate(0, -6, 0)
	case Period2Y:
		return end.AddDate(-2, 0, 0)
	case Period5Y:
		return end.AddDate(-5, 0, 0)
	default:
		return end.AddDate(-1, 0, 0)
	}
}
