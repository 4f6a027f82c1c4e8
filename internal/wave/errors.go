package wave

import "errors"

// ErrInsufficientData is returned when the restricted series is too short to
// contain a plausible swing structure. Recoverable: fetch more history or
// lower the swing threshold.
var ErrInsufficientData = errors.New("wave: insufficient data for analysis")
