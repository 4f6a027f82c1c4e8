package wave

import (
	"math"

	"WaveCast/internal/domain/models"
)

// LabelResult is the labeler output plus the bookkeeping the confidence
// score needs: how many longer candidates were rejected before one passed,
// and how closely the accepted structure tracks canonical Fibonacci
// proportions.
type LabelResult struct {
	Sequence  models.WaveSequence
	Fallbacks int
	FibScore  float64 // in [0,1], 0 when no structure
}

// maxWaves is a full Elliott cycle: 5 impulse legs plus 3 corrective legs.
const maxWaves = 8

// Labeler assigns Elliott labels to the most recent structurally valid
// trailing run of swing points. Candidates are tried longest-first; each is
// checked against an ordered rule list and the first passing candidate wins.
type Labeler struct {
	overrun float64 // allowed fractional overshoot of wave B past A's origin
	rules   []rule
}

// rule validates one structural constraint on a candidate. Returns false to
// reject the candidate length.
type rule func(c candidate) bool

// candidate is a trailing window of waves under consideration.
type candidate struct {
	waves   []models.Wave
	uptrend bool
	overrun float64
}

// NewLabeler creates a labeler. overrunPct is the allowance, in percent, for
// wave B to overshoot wave A's starting price before the corrective phase is
// rejected.
func NewLabeler(overrunPct float64) *Labeler {
	l := &Labeler{overrun: overrunPct / 100.0}
	l.rules = []rule{
		ruleNonDegenerate,
		ruleWave2Retracement,
		ruleWave3NotShortest,
		ruleWave4Overlap,
		ruleTrendAlternation,
		ruleCorrectionOverrun,
	}
	return l
}

// Label fits the longest valid trailing structure over the swing sequence.
// Returns an empty sequence when not even a 2-wave structure validates;
// callers treat that as insufficient structure, not an error.
func (l *Labeler) Label(swings []models.SwingPoint) LabelResult {
	if len(swings) < 3 {
		return LabelResult{}
	}

	longest := len(swings) - 1
	if longest > maxWaves {
		longest = maxWaves
	}

	fallbacks := 0
	for n := longest; n >= 2; n-- {
		c := buildCandidate(swings, n, l.overrun)
		if l.valid(c) {
			return LabelResult{
				Sequence:  models.WaveSequence{Waves: c.waves, Uptrend: c.uptrend},
				Fallbacks: fallbacks,
				FibScore:  fibProximity(c.waves),
			}
		}
		fallbacks++
	}
	return LabelResult{Fallbacks: fallbacks}
}

func (l *Labeler) valid(c candidate) bool {
	for _, r := range l.rules {
		if !r(c) {
			return false
		}
	}
	return true
}

// buildCandidate assembles the trailing n waves from the last n+1 swings and
// labels them 1..5 then A,B,C from the window start.
func buildCandidate(swings []models.SwingPoint, n int, overrun float64) candidate {
	window := swings[len(swings)-(n+1):]
	waves := make([]models.Wave, n)
	for i := 0; i < n; i++ {
		waves[i] = models.Wave{
			Label: labelAt(i),
			Start: window[i],
			End:   window[i+1],
		}
	}
	return candidate{
		waves:   waves,
		uptrend: waves[0].Length() > 0,
		overrun: overrun,
	}
}

func labelAt(i int) models.WaveLabel {
	if i < len(models.ImpulseLabels) {
		return models.ImpulseLabels[i]
	}
	return models.CorrectiveLabels[i-len(models.ImpulseLabels)]
}

// ruleNonDegenerate rejects zero-length legs; every later ratio computation
// divides by a wave length.
func ruleNonDegenerate(c candidate) bool {
	for _, w := range c.waves {
		if w.Length() == 0 {
			return false
		}
	}
	return true
}

// ruleWave2Retracement: wave 2 never retraces more than 100% of wave 1.
func ruleWave2Retracement(c candidate) bool {
	if len(c.waves) < 2 {
		return true
	}
	w1, w2 := c.waves[0], c.waves[1]
	if c.uptrend {
		return w2.End.Price > w1.Start.Price
	}
	return w2.End.Price < w1.Start.Price
}

// ruleWave3NotShortest: wave 3 is never the shortest of waves 1, 3, 5.
// Checked once all three impulse legs are present.
func ruleWave3NotShortest(c candidate) bool {
	if len(c.waves) < 5 {
		return true
	}
	l1 := c.waves[0].AbsLength()
	l3 := c.waves[2].AbsLength()
	l5 := c.waves[4].AbsLength()
	return !(l3 < l1 && l3 < l5)
}

// ruleWave4Overlap: wave 4 does not enter wave 1's price territory.
// Diagonal variants are not modeled; overlap is a hard rejection.
func ruleWave4Overlap(c candidate) bool {
	if len(c.waves) < 4 {
		return true
	}
	w1End := c.waves[0].End.Price
	w4End := c.waves[3].End.Price
	if c.uptrend {
		return w4End > w1End
	}
	return w4End < w1End
}

// ruleTrendAlternation: impulse legs 1/3/5 move with the trend, 2/4 against
// it, and the corrective phase alternates the same way off wave 5.
func ruleTrendAlternation(c candidate) bool {
	for i, w := range c.waves {
		withTrend := w.Up() == c.uptrend
		if i%2 == 0 && !withTrend {
			return false
		}
		if i%2 == 1 && withTrend {
			return false
		}
	}
	return true
}

// ruleCorrectionOverrun: wave B must not exceed wave A's starting price by
// more than the configured allowance.
func ruleCorrectionOverrun(c candidate) bool {
	if len(c.waves) < 7 {
		return true
	}
	a, b := c.waves[5], c.waves[6]
	if c.uptrend {
		return b.End.Price <= a.Start.Price*(1+c.overrun)
	}
	return b.End.Price >= a.Start.Price*(1-c.overrun)
}

// fibProximity scores how closely the labeled lengths track the canonical
// proportions (wave 3 ≈ 1.618×wave 1, wave 2 ≈ 0.618 retrace of wave 1,
// wave 4 ≈ 0.382 retrace of wave 3). Each available ratio contributes a
// value in [0,1]; the score is their mean.
func fibProximity(waves []models.Wave) float64 {
	type check struct {
		num, den int
		target   float64
	}
	checks := []check{
		{1, 0, 0.618}, // wave 2 vs wave 1
		{2, 0, 1.618}, // wave 3 vs wave 1
		{3, 2, 0.382}, // wave 4 vs wave 3
	}

	sum, n := 0.0, 0
	for _, ch := range checks {
		if ch.num >= len(waves) {
			continue
		}
		den := waves[ch.den].AbsLength()
		if den == 0 {
			continue
		}
		ratio := waves[ch.num].AbsLength() / den
		sum += ratioCloseness(ratio, ch.target)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// ratioCloseness maps an observed/target ratio pair to [0,1], 1 at an exact
// match, decaying with relative log distance.
func ratioCloseness(observed, target float64) float64 {
	if observed <= 0 || target <= 0 {
		return 0
	}
	return math.Exp(-math.Abs(math.Log(observed / target)))
}
