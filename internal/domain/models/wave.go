package models

import "time"

// SwingKind tags a swing point as a local top or bottom.
type SwingKind int

const (
	SwingTrough SwingKind = iota
	SwingPeak
)

func (k SwingKind) String() string {
	if k == SwingPeak {
		return "peak"
	}
	return "trough"
}

// SwingPoint is a confirmed local extremum used as a structural pivot.
// Kinds strictly alternate along a detected sequence.
type SwingPoint struct {
	Index int       // position in the source bar series
	Date  time.Time
	Price float64
	Kind  SwingKind
}

// WaveLabel identifies a leg inside an Elliott cycle.
type WaveLabel string

const (
	Wave1 WaveLabel = "1"
	Wave2 WaveLabel = "2"
	Wave3 WaveLabel = "3"
	Wave4 WaveLabel = "4"
	Wave5 WaveLabel = "5"
	WaveA WaveLabel = "A"
	WaveB WaveLabel = "B"
	WaveC WaveLabel = "C"

	// WaveUndetermined marks a forecast produced without a valid labeled
	// structure behind it.
	WaveUndetermined WaveLabel = "undetermined"
)

// ImpulseLabels and CorrectiveLabels list the canonical cycle order.
var (
	ImpulseLabels    = []WaveLabel{Wave1, Wave2, Wave3, Wave4, Wave5}
	CorrectiveLabels = []WaveLabel{WaveA, WaveB, WaveC}
)

// Wave is one leg between two consecutive swing points.
type Wave struct {
	Label WaveLabel
	Start SwingPoint
	End   SwingPoint
}

// Length returns the signed price delta of the wave.
func (w Wave) Length() float64 { return w.End.Price - w.Start.Price }

// AbsLength returns the unsigned price delta.
func (w Wave) AbsLength() float64 {
	d := w.Length()
	if d < 0 {
		return -d
	}
	return d
}

// Duration returns the elapsed time of the wave.
func (w Wave) Duration() time.Duration { return w.End.Date.Sub(w.Start.Date) }

// Up reports whether the wave moves upward.
func (w Wave) Up() bool { return w.Length() > 0 }

// WaveSequence is a contiguous run of labeled waves: each wave starts where
// the previous one ended. At most 8 waves (5 impulse + 3 corrective).
type WaveSequence struct {
	Waves   []Wave
	Uptrend bool // direction of the impulse phase
}

// Empty reports whether no structure was labeled.
func (ws WaveSequence) Empty() bool { return len(ws.Waves) == 0 }

// Last returns the most recent wave and true, or a zero wave and false.
func (ws WaveSequence) Last() (Wave, bool) {
	if len(ws.Waves) == 0 {
		return Wave{}, false
	}
	return ws.Waves[len(ws.Waves)-1], true
}

// ByLabel returns the wave carrying the given label, if present.
func (ws WaveSequence) ByLabel(l WaveLabel) (Wave, bool) {
	for _, w := range ws.Waves {
		if w.Label == l {
			return w, true
		}
	}
	return Wave{}, false
}
