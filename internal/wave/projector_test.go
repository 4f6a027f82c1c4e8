package wave

import (
	"testing"

	"WaveCast/internal/domain/models"
)

func labeledSequence(t *testing.T, prices []float64) models.WaveSequence {
	t.Helper()
	res := NewLabeler(10.0).Label(swingsFromPrices(prices))
	if res.Sequence.Empty() {
		t.Fatalf("fixture prices %v did not label", prices)
	}
	return res.Sequence
}

func TestProjectEmptySequence(t *testing.T) {
	if _, ok := NewProjector().Project(models.WaveSequence{}); ok {
		t.Fatal("expected ok=false for empty sequence")
	}
}

func TestProjectAfterWave3(t *testing.T) {
	seq := labeledSequence(t, []float64{100, 110, 104, 120})
	proj, ok := NewProjector().Project(seq)
	if !ok {
		t.Fatal("expected a projection")
	}
	if proj.NextLabel != models.Wave4 {
		t.Fatalf("expected next wave 4, got %s", proj.NextLabel)
	}
	if proj.Generic {
		t.Fatal("expected a label-specific projection")
	}
	// Wave 4 corrects downward off the wave 3 top at 120.
	if proj.PriceLow > proj.PriceHigh {
		t.Fatalf("bounds out of order: %.2f > %.2f", proj.PriceLow, proj.PriceHigh)
	}
	if proj.PriceHigh >= 120 {
		t.Fatalf("expected correction below 120, got high %.2f", proj.PriceHigh)
	}
	// 0.382 and 0.618 retracements of the 16-point wave 3.
	wantLow, wantHigh := 120-0.618*16, 120-0.382*16
	if !closeTo(proj.PriceLow, wantLow) || !closeTo(proj.PriceHigh, wantHigh) {
		t.Fatalf("expected [%.3f, %.3f], got [%.3f, %.3f]", wantLow, wantHigh, proj.PriceLow, proj.PriceHigh)
	}
	if !proj.TimeHigh.After(proj.TimeLow) && !proj.TimeHigh.Equal(proj.TimeLow) {
		t.Fatalf("time bounds out of order: %v > %v", proj.TimeLow, proj.TimeHigh)
	}
}

func TestProjectAfterWave1Extension(t *testing.T) {
	seq := labeledSequence(t, []float64{100, 110, 104})
	proj, ok := NewProjector().Project(seq)
	if !ok {
		t.Fatal("expected a projection")
	}
	if proj.NextLabel != models.Wave3 {
		t.Fatalf("expected next wave 3, got %s", proj.NextLabel)
	}
	// Wave 3 extends upward: 1.618x and 2.618x of the 10-point wave 1
	// measured from the wave 2 bottom at 104.
	wantLow, wantHigh := 104+1.618*10, 104+2.618*10
	if !closeTo(proj.PriceLow, wantLow) || !closeTo(proj.PriceHigh, wantHigh) {
		t.Fatalf("expected [%.3f, %.3f], got [%.3f, %.3f]", wantLow, wantHigh, proj.PriceLow, proj.PriceHigh)
	}
}

func TestProjectAfterCycleRestartsGeneric(t *testing.T) {
	seq := models.WaveSequence{
		Waves: []models.Wave{{
			Label: models.WaveUndetermined,
			Start: models.SwingPoint{Price: 100, Date: testStart},
			End:   models.SwingPoint{Price: 90, Date: testStart.AddDate(0, 0, 10)},
		}},
	}
	proj, ok := NewProjector().Project(seq)
	if !ok {
		t.Fatal("expected a projection")
	}
	if !proj.Generic {
		t.Fatal("expected generic fallback for unlabeled wave")
	}
	if proj.NextLabel != models.WaveUndetermined {
		t.Fatalf("expected undetermined next label, got %s", proj.NextLabel)
	}
	// Retracement of a 10-point drop points back up from 90.
	if proj.PriceLow <= 90 {
		t.Fatalf("expected retracement above 90, got low %.2f", proj.PriceLow)
	}
}

func TestProjectBoundsAlwaysOrdered(t *testing.T) {
	fixtures := [][]float64{
		{100, 110, 104},
		{100, 110, 104, 120},
		{100, 110, 104, 120, 114},
		{100, 110, 104, 120, 114, 124},
		{100, 110, 104, 120, 114, 124, 115},
		{100, 110, 104, 120, 114, 124, 115, 120},
		{124, 114, 120, 104, 110, 100},
	}
	p := NewProjector()
	for _, prices := range fixtures {
		seq := labeledSequence(t, prices)
		proj, ok := p.Project(seq)
		if !ok {
			t.Fatalf("no projection for %v", prices)
		}
		if proj.PriceLow > proj.PriceHigh {
			t.Fatalf("prices %v: bounds out of order [%.2f, %.2f]", prices, proj.PriceLow, proj.PriceHigh)
		}
		if proj.TimeLow.After(proj.TimeHigh) {
			t.Fatalf("prices %v: time bounds out of order", prices)
		}
	}
}

func closeTo(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
