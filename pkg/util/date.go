package util

import "time"

const dateLayout = "2006-01-02"

// ParseTime parses a YYYY-MM-DD date string in UTC.
func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

// ParseTimeDefault parses a YYYY-MM-DD date string, falling back to def when
// the input is empty or malformed.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if s == "" {
		return def
	}
	t, err := ParseTime(s)
	if err != nil {
		return def
	}
	return t
}

// FormatDate renders a time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// AddBusinessDays advances t by n weekdays, skipping Saturdays and Sundays.
// n must be non-negative.
func AddBusinessDays(t time.Time, n int) time.Time {
	for n > 0 {
		t = t.AddDate(0, 0, 1)
		switch t.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		default:
			n--
		}
	}
	return t
}
