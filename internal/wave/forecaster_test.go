package wave

import (
	"reflect"
	"testing"

	"WaveCast/internal/domain/models"
)

func newTestForecaster(t *testing.T) *Forecaster {
	t.Helper()
	d, err := NewDetector(3.0)
	if err != nil {
		t.Fatalf("NewDetector failed: %v", err)
	}
	return NewForecaster(d, NewLabeler(10.0), WithMinBars(30))
}

func impulseBars() models.BarSeries {
	// A five-wave advance with a partial correction, 10 bars per leg.
	return barsThroughPivots([]float64{100, 110, 104, 120, 114, 124, 116}, 10)
}

func TestForecastTooShort(t *testing.T) {
	f := newTestForecaster(t)
	bars := barsFromCloses([]float64{100, 102, 104, 106})
	last, _ := bars.Last()
	if _, err := f.Forecast("TEST", bars, last.Date, 10); err != ErrInsufficientData {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestForecastFlatSeries(t *testing.T) {
	f := newTestForecaster(t)
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100
	}
	bars := barsFromCloses(closes)
	last, _ := bars.Last()
	if _, err := f.Forecast("TEST", bars, last.Date, 10); err != ErrInsufficientData {
		t.Fatalf("expected ErrInsufficientData for flat series, got %v", err)
	}
}

func TestForecastImpulseSeries(t *testing.T) {
	f := newTestForecaster(t)
	bars := impulseBars()
	last, _ := bars.Last()

	p, err := f.Forecast("TEST", bars, last.Date, 10)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	if p.Symbol != "TEST" {
		t.Fatalf("unexpected symbol %q", p.Symbol)
	}
	if !p.AnchorTime.Equal(last.Date) {
		t.Fatalf("anchor %v, want %v", p.AnchorTime, last.Date)
	}
	if p.CurrentWave == models.WaveUndetermined {
		t.Fatal("expected a labeled current wave for a clean impulse")
	}
	if p.NextWave == models.WaveUndetermined {
		t.Fatal("expected a concrete next wave")
	}
	if p.TargetLow > p.TargetHigh {
		t.Fatalf("target bounds out of order: [%.2f, %.2f]", p.TargetLow, p.TargetHigh)
	}
	if p.TargetLow < p.CurrentPrice*0.7-1e-9 || p.TargetHigh > p.CurrentPrice*1.3+1e-9 {
		t.Fatalf("bounds [%.2f, %.2f] escape the envelope around %.2f", p.TargetLow, p.TargetHigh, p.CurrentPrice)
	}
	if p.Confidence <= 0.7 || p.Confidence > 1 {
		t.Fatalf("confidence %.3f outside (0.7,1] for a clean impulse", p.Confidence)
	}
	if p.Direction != models.DirectionUp && p.Direction != models.DirectionDown {
		t.Fatalf("unexpected direction %q", p.Direction)
	}
	if p.HorizonBars != 10 {
		t.Fatalf("horizon %d, want 10", p.HorizonBars)
	}
	if !p.TargetDate.After(p.AnchorTime) {
		t.Fatalf("target date %v not after anchor %v", p.TargetDate, p.AnchorTime)
	}
	if wd := p.TargetDate.Weekday(); wd == 0 || wd == 6 {
		t.Fatalf("target date %v falls on a weekend", p.TargetDate)
	}
	if p.WavesLabeled == 0 {
		t.Fatal("expected labeled waves")
	}
}

func TestForecastIgnoresBarsPastAnchor(t *testing.T) {
	f := newTestForecaster(t)
	bars := impulseBars()
	anchorIdx := 45
	anchor := bars[anchorIdx].Date

	before, err := f.Forecast("TEST", bars, anchor, 10)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	// Rewrite everything after the anchor; the prediction must not move.
	mutated := make(models.BarSeries, len(bars))
	copy(mutated, bars)
	for i := anchorIdx + 1; i < len(mutated); i++ {
		mutated[i].Open = 1
		mutated[i].High = 1
		mutated[i].Low = 1
		mutated[i].Close = 1
	}
	after, err := f.Forecast("TEST", mutated, anchor, 10)
	if err != nil {
		t.Fatalf("Forecast on mutated series failed: %v", err)
	}

	if !reflect.DeepEqual(before, after) {
		t.Fatalf("prediction changed when future bars changed:\nbefore: %+v\nafter:  %+v", before, after)
	}
}

func TestForecastConfidencePenalizesGeneric(t *testing.T) {
	d, _ := NewDetector(3.0)
	f := NewForecaster(d, NewLabeler(10.0), WithMinBars(30), WithGenericPenalty(0.5))

	// The second leg fully retraces the first, so no candidate labels and
	// the forecast takes the generic path.
	bars := barsThroughPivots([]float64{100, 115, 98}, 20)
	last, _ := bars.Last()
	p, err := f.Forecast("TEST", bars, last.Date, 10)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if p.CurrentWave != models.WaveUndetermined {
		t.Fatalf("expected undetermined wave, got %s", p.CurrentWave)
	}
	if p.Confidence >= 0.5 {
		t.Fatalf("expected penalized confidence below 0.5, got %.3f", p.Confidence)
	}
}

func TestForecastLongerHorizonWidensBounds(t *testing.T) {
	f := newTestForecaster(t)
	bars := impulseBars()
	last, _ := bars.Last()

	short, err := f.Forecast("TEST", bars, last.Date, 5)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	long, err := f.Forecast("TEST", bars, last.Date, 30)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	shortWidth := short.TargetHigh - short.TargetLow
	longWidth := long.TargetHigh - long.TargetLow
	if longWidth < shortWidth {
		t.Fatalf("expected wider bounds at longer horizon: %f < %f", longWidth, shortWidth)
	}
}
