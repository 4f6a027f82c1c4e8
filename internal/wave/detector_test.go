package wave

import (
	"testing"
	"time"

	"WaveCast/internal/domain/models"
)

var testStart = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// barsFromCloses builds a daily series from close prices. Open/high/low are
// derived so the bars stay internally consistent.
func barsFromCloses(closes []float64) models.BarSeries {
	bars := make(models.BarSeries, len(closes))
	d := testStart
	for i, c := range closes {
		bars[i] = models.PriceBar{
			Date:   d,
			Open:   c,
			High:   c * 1.002,
			Low:    c * 0.998,
			Close:  c,
			Volume: 1000,
		}
		d = d.AddDate(0, 0, 1)
	}
	return bars
}

// barsThroughPivots interpolates linearly between pivot prices, legLen bars
// per leg, so the detector sees clean directional runs.
func barsThroughPivots(pivots []float64, legLen int) models.BarSeries {
	closes := []float64{pivots[0]}
	for i := 1; i < len(pivots); i++ {
		from, to := pivots[i-1], pivots[i]
		for s := 1; s <= legLen; s++ {
			closes = append(closes, from+(to-from)*float64(s)/float64(legLen))
		}
	}
	return barsFromCloses(closes)
}

func TestNewDetectorRejectsNonPositiveThreshold(t *testing.T) {
	if _, err := NewDetector(0); err == nil {
		t.Fatal("expected error for zero threshold")
	}
	if _, err := NewDetector(-1); err == nil {
		t.Fatal("expected error for negative threshold")
	}
}

func TestDetectTooFewBars(t *testing.T) {
	d, err := NewDetector(2.0)
	if err != nil {
		t.Fatalf("NewDetector failed: %v", err)
	}
	if got := d.Detect(barsFromCloses([]float64{100, 101})); got != nil {
		t.Fatalf("expected nil for 2 bars, got %d swings", len(got))
	}
}

func TestDetectFlatSeries(t *testing.T) {
	d, _ := NewDetector(2.0)
	closes := make([]float64, 50)
	for i := range closes {
		closes[i] = 100
	}
	if got := d.Detect(barsFromCloses(closes)); len(got) != 0 {
		t.Fatalf("expected no swings for flat series, got %d", len(got))
	}
}

func TestDetectMonotonicSeries(t *testing.T) {
	d, _ := NewDetector(2.0)
	closes := make([]float64, 50)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	swings := d.Detect(barsFromCloses(closes))
	if len(swings) != 2 {
		t.Fatalf("expected trough+peak for monotonic rise, got %d swings", len(swings))
	}
	if swings[0].Kind != models.SwingTrough || swings[0].Index != 0 {
		t.Fatalf("expected trough at index 0, got %v at %d", swings[0].Kind, swings[0].Index)
	}
	if swings[1].Kind != models.SwingPeak || swings[1].Index != 49 {
		t.Fatalf("expected peak at index 49, got %v at %d", swings[1].Kind, swings[1].Index)
	}
}

func TestDetectAlternationAndThreshold(t *testing.T) {
	d, _ := NewDetector(3.0)
	bars := barsThroughPivots([]float64{100, 115, 105, 125, 112, 130, 118}, 6)
	swings := d.Detect(bars)
	if len(swings) < 4 {
		t.Fatalf("expected several swings, got %d", len(swings))
	}

	for i := 1; i < len(swings); i++ {
		prev, cur := swings[i-1], swings[i]
		if cur.Kind == prev.Kind {
			t.Fatalf("swings %d and %d have the same kind %v", i-1, i, cur.Kind)
		}
		if !cur.Date.After(prev.Date) {
			t.Fatalf("swing %d date %v not after %v", i, cur.Date, prev.Date)
		}
		move := (cur.Price - prev.Price) / prev.Price
		if move < 0 {
			move = -move
		}
		if move < 0.03 {
			t.Fatalf("swing %d move %.4f below threshold", i, move)
		}
		if cur.Kind == models.SwingPeak && cur.Price <= prev.Price {
			t.Fatalf("peak %d not above preceding trough", i)
		}
		if cur.Kind == models.SwingTrough && cur.Price >= prev.Price {
			t.Fatalf("trough %d not below preceding peak", i)
		}
	}
}

func TestDetectSmallOscillationsIgnored(t *testing.T) {
	d, _ := NewDetector(5.0)
	// 1% wiggles never clear a 5% threshold.
	closes := make([]float64, 60)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = 100
		} else {
			closes[i] = 101
		}
	}
	if got := d.Detect(barsFromCloses(closes)); len(got) != 0 {
		t.Fatalf("expected no swings for sub-threshold noise, got %d", len(got))
	}
}
