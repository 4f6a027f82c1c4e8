package wave

import (
	"fmt"

	"WaveCast/internal/domain/models"
)

// Detector reduces a bar series to alternating swing points using a
// percentage-threshold zigzag filter. A swing is confirmed only once price
// moves away from the running extreme by at least the threshold in the
// opposite direction, so points are never emitted prematurely.
type Detector struct {
	threshold float64 // fractional, e.g. 0.02 for 2%
}

// NewDetector creates a swing detector. thresholdPct is expressed in percent
// (2.0 means 2%) and must be positive.
func NewDetector(thresholdPct float64) (*Detector, error) {
	if thresholdPct <= 0 {
		return nil, fmt.Errorf("swing threshold must be positive, got %v", thresholdPct)
	}
	return &Detector{threshold: thresholdPct / 100.0}, nil
}

// Detect scans the series once and returns confirmed swing points in time
// order. Output kinds strictly alternate. Series shorter than 3 bars yield
// nil; a series whose moves never exceed the threshold yields nil as well.
func (d *Detector) Detect(bars models.BarSeries) []models.SwingPoint {
	if len(bars) < 3 {
		return nil
	}

	const (
		dirNone = 0
		dirUp   = 1
		dirDown = -1
	)

	hi, lo := bars[0].Close, bars[0].Close
	hiIdx, loIdx := 0, 0
	dir := dirNone

	swings := make([]models.SwingPoint, 0, 8)
	confirm := func(idx int, price float64, kind models.SwingKind) {
		swings = append(swings, models.SwingPoint{
			Index: idx,
			Date:  bars[idx].Date,
			Price: price,
			Kind:  kind,
		})
	}

	for i := 1; i < len(bars); i++ {
		p := bars[i].Close

		// Track the running candidate extreme for the current direction.
		if dir != dirDown && p > hi {
			hi, hiIdx = p, i
		}
		if dir != dirUp && p < lo {
			lo, loIdx = p, i
		}

		switch dir {
		case dirNone:
			if hi > 0 && p <= hi*(1-d.threshold) {
				confirm(hiIdx, hi, models.SwingPeak)
				dir = dirDown
				lo, loIdx = p, i
			} else if lo > 0 && p >= lo*(1+d.threshold) {
				confirm(loIdx, lo, models.SwingTrough)
				dir = dirUp
				hi, hiIdx = p, i
			}
		case dirUp:
			if p <= hi*(1-d.threshold) {
				confirm(hiIdx, hi, models.SwingPeak)
				dir = dirDown
				lo, loIdx = p, i
			}
		case dirDown:
			if p >= lo*(1+d.threshold) {
				confirm(loIdx, lo, models.SwingTrough)
				dir = dirUp
				hi, hiIdx = p, i
			}
		}
	}

	// The leg in progress ends at the running extreme. Emit it only when it
	// already clears the threshold from the last confirmed point, keeping the
	// minimum-move invariant intact.
	if len(swings) > 0 {
		last := swings[len(swings)-1]
		switch dir {
		case dirUp:
			if hiIdx > last.Index && hi >= last.Price*(1+d.threshold) {
				confirm(hiIdx, hi, models.SwingPeak)
			}
		case dirDown:
			if loIdx > last.Index && lo <= last.Price*(1-d.threshold) {
				confirm(loIdx, lo, models.SwingTrough)
			}
		}
	}

	return swings
}
