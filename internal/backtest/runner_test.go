package backtest

import (
	"context"
	"testing"
	"time"

	"WaveCast/internal/domain/models"
	"WaveCast/internal/wave"
)

func testSeries(closes []float64) models.BarSeries {
	bars := make(models.BarSeries, len(closes))
	d := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = models.PriceBar{
			Date: d, Open: c, High: c * 1.002, Low: c * 0.998, Close: c, Volume: 1000,
		}
		d = d.AddDate(0, 0, 1)
	}
	return bars
}

// trendingZigzag produces a rising series with repeated pullbacks so swing
// detection succeeds at every anchor.
func trendingZigzag(n int) models.BarSeries {
	closes := make([]float64, n)
	price := 100.0
	for i := 0; i < n; i++ {
		closes[i] = price
		// 12 bars up, 6 bars down, net drift upward.
		if i%18 < 12 {
			price *= 1.01
		} else {
			price *= 0.992
		}
	}
	return testSeries(closes)
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	d, err := wave.NewDetector(3.0)
	if err != nil {
		t.Fatalf("NewDetector failed: %v", err)
	}
	f := wave.NewForecaster(d, wave.NewLabeler(10.0), wave.WithMinBars(30))
	return NewRunner(f, WithStride(2))
}

func TestRunValidatesWindow(t *testing.T) {
	r := newTestRunner(t)
	series := trendingZigzag(150)

	if _, err := r.Run(context.Background(), "TEST", series, 60, 0); err == nil {
		t.Fatal("expected error for zero test period")
	}
	if _, err := r.Run(context.Background(), "TEST", series, 5, 5); err == nil {
		t.Fatal("expected error when days back does not exceed test period")
	}
}

func TestRunWalkForward(t *testing.T) {
	r := newTestRunner(t)
	series := trendingZigzag(150)

	report, err := r.Run(context.Background(), "TEST", series, 60, 5)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Anchors step by 2 from len-61 to len-6 inclusive.
	if got := report.Evaluated + report.Skipped; got != 28 {
		t.Fatalf("expected 28 anchors, got %d (evaluated %d, skipped %d)", got, report.Evaluated, report.Skipped)
	}
	if report.Evaluated == 0 {
		t.Fatal("expected evaluated anchors")
	}
	if len(report.Results) != report.Evaluated {
		t.Fatalf("results length %d does not match evaluated %d", len(report.Results), report.Evaluated)
	}

	for _, rate := range []float64{report.DirectionalAccuracy, report.TargetHitRate, report.AvgConfidence} {
		if rate < 0 || rate > 1 {
			t.Fatalf("rate %.3f outside [0,1]", rate)
		}
	}
	if report.MAPE < 0 {
		t.Fatalf("negative MAPE %.3f", report.MAPE)
	}

	// Every anchor's prediction must predate its realized bar.
	for _, res := range report.Results {
		idx := series.IndexOf(res.AnchorTime)
		if idx < 0 {
			t.Fatalf("anchor %v not found in series", res.AnchorTime)
		}
		if res.RealizedPrice != series[idx+5].Close {
			t.Fatalf("anchor %v: realized %.4f, want close at idx+5 %.4f", res.AnchorTime, res.RealizedPrice, series[idx+5].Close)
		}
	}
}

func TestRunNoEvaluableHistory(t *testing.T) {
	r := newTestRunner(t)
	closes := make([]float64, 150)
	for i := range closes {
		closes[i] = 100
	}

	_, err := r.Run(context.Background(), "TEST", testSeries(closes), 60, 5)
	if err != ErrNoEvaluableHistory {
		t.Fatalf("expected ErrNoEvaluableHistory, got %v", err)
	}
}

func TestRunHonorsContext(t *testing.T) {
	r := newTestRunner(t)
	series := trendingZigzag(150)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Run(ctx, "TEST", series, 60, 5); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	reports := []*models.BacktestReport{
		{Symbol: "BBB", Evaluated: 10, DirectionalAccuracy: 0.6, MAPE: 0.05},
		{Symbol: "AAA", Evaluated: 10, DirectionalAccuracy: 0.8, MAPE: 0.04},
		{Symbol: "CCC", Evaluated: 10, DirectionalAccuracy: 0.6, MAPE: 0.03},
		{Symbol: "DDD", Evaluated: 0},
		nil,
	}

	entries := Leaderboard(reports)
	if len(entries) != 3 {
		t.Fatalf("expected 3 ranked entries, got %d", len(entries))
	}
	wantOrder := []string{"AAA", "CCC", "BBB"}
	for i, sym := range wantOrder {
		if entries[i].Symbol != sym {
			t.Fatalf("rank %d: expected %s, got %s", i+1, sym, entries[i].Symbol)
		}
		if entries[i].Rank != i+1 {
			t.Fatalf("entry %s: expected rank %d, got %d", sym, i+1, entries[i].Rank)
		}
	}
}
