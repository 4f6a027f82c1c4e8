package wave

import (
	"time"

	"WaveCast/internal/domain/models"
)

// Projection is a Fibonacci target for the wave expected after the last
// labeled one. Price bounds are ordered low <= high; the time window scales
// the reference wave's duration by the same ratios.
type Projection struct {
	NextLabel models.WaveLabel
	PriceLow  float64
	PriceHigh float64
	TimeLow   time.Time
	TimeHigh  time.Time
	Generic   bool      // true when no label-specific rule applied
	Ratios    []float64 // the two ratios behind the bounds, ascending
}

// Projector turns a labeled sequence into a target range for the next wave.
// Each transition uses its own reference wave and ratio pair; anything
// outside the known cycle falls back to a generic retracement of the last
// wave.
type Projector struct{}

func NewProjector() *Projector { return &Projector{} }

// nextLabel maps the canonical cycle order. After C the cycle restarts, so
// the next structure is treated as a fresh wave 1.
func nextLabel(l models.WaveLabel) models.WaveLabel {
	switch l {
	case models.Wave1:
		return models.Wave2
	case models.Wave2:
		return models.Wave3
	case models.Wave3:
		return models.Wave4
	case models.Wave4:
		return models.Wave5
	case models.Wave5:
		return models.WaveA
	case models.WaveA:
		return models.WaveB
	case models.WaveB:
		return models.WaveC
	case models.WaveC:
		return models.Wave1
	default:
		return models.WaveUndetermined
	}
}

// Project computes the target range for the wave following seq's last wave.
// ok is false when the sequence is empty.
func (p *Projector) Project(seq models.WaveSequence) (Projection, bool) {
	last, ok := seq.Last()
	if !ok {
		return Projection{}, false
	}

	next := nextLabel(last.Label)
	ref, ratios, found := p.rule(seq, next)
	if !found {
		return p.generic(last), true
	}

	// The projected wave moves opposite to the one just completed.
	up := !last.Up()
	proj := buildProjection(last.End, ref, ratios, up)
	proj.NextLabel = next
	return proj, true
}

// rule selects the reference wave and ratio pair for a given next label.
// Retracements measure against the wave being corrected; extensions measure
// against the wave being extended.
func (p *Projector) rule(seq models.WaveSequence, next models.WaveLabel) (models.Wave, []float64, bool) {
	switch next {
	case models.Wave2:
		if w1, ok := seq.ByLabel(models.Wave1); ok {
			return w1, []float64{0.382, 0.618}, true
		}
	case models.Wave3:
		if w1, ok := seq.ByLabel(models.Wave1); ok {
			return w1, []float64{1.618, 2.618}, true
		}
	case models.Wave4:
		if w3, ok := seq.ByLabel(models.Wave3); ok {
			return w3, []float64{0.382, 0.618}, true
		}
	case models.Wave5:
		w1, ok1 := seq.ByLabel(models.Wave1)
		w3, ok3 := seq.ByLabel(models.Wave3)
		if ok1 && ok3 {
			// Wave 5 commonly equals wave 1 or 0.618 of the net 1-3 advance.
			net := models.Wave{Start: w1.Start, End: w3.End}
			lo := 0.618 * net.AbsLength()
			hi := w1.AbsLength()
			ref := w1
			if lo > hi {
				lo, hi = hi, lo
				ref = net
			}
			return ref, []float64{lo / ref.AbsLength(), hi / ref.AbsLength()}, true
		}
		if ok1 {
			return w1, []float64{0.618, 1.0}, true
		}
	case models.WaveA:
		w1, ok1 := seq.ByLabel(models.Wave1)
		w5, ok5 := seq.ByLabel(models.Wave5)
		if ok1 && ok5 {
			net := models.Wave{Start: w1.Start, End: w5.End}
			return net, []float64{0.382, 0.618}, true
		}
	case models.WaveB:
		if a, ok := seq.ByLabel(models.WaveA); ok {
			return a, []float64{0.382, 0.618}, true
		}
	case models.WaveC:
		if a, ok := seq.ByLabel(models.WaveA); ok {
			return a, []float64{1.0, 1.618}, true
		}
	}
	return models.Wave{}, nil, false
}

// generic projects a plain retracement of the last wave when no
// label-specific rule is available.
func (p *Projector) generic(last models.Wave) Projection {
	proj := buildProjection(last.End, last, []float64{0.5, 0.618}, !last.Up())
	proj.NextLabel = models.WaveUndetermined
	proj.Generic = true
	return proj
}

// buildProjection anchors ratio multiples of the reference wave's length at
// the origin point, in the given direction, and scales the reference
// duration by the same ratios for the time window.
func buildProjection(origin models.SwingPoint, ref models.Wave, ratios []float64, up bool) Projection {
	r0, r1 := ratios[0], ratios[1]
	if r0 > r1 {
		r0, r1 = r1, r0
	}

	span := ref.AbsLength()
	a := origin.Price + directed(span*r0, up)
	b := origin.Price + directed(span*r1, up)
	if a > b {
		a, b = b, a
	}

	dur := ref.Duration()
	return Projection{
		PriceLow:  a,
		PriceHigh: b,
		TimeLow:   origin.Date.Add(time.Duration(float64(dur) * r0)),
		TimeHigh:  origin.Date.Add(time.Duration(float64(dur) * r1)),
		Ratios:    []float64{r0, r1},
	}
}

func directed(v float64, up bool) float64 {
	if up {
		return v
	}
	return -v
}
