package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"WaveCast/internal/domain/repository"
	"WaveCast/pkg/logger"
)

const sampleCSV = `Date,Open,High,Low,Close,Volume
2024-03-11,170.5,172.1,169.8,171.2,51234000
2024-03-12,171.3,173.0,170.9,172.8,48765000
2024-03-13,172.5,172.9,170.1,170.6,50112000
`

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger.New failed: %v", err)
	}
	return log
}

func TestParseDailyCSV(t *testing.T) {
	bars, err := ParseDailyCSV([]byte(sampleCSV))
	if err != nil {
		t.Fatalf("ParseDailyCSV failed: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}

	first := bars[0]
	if !first.Date.Equal(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected first date %v", first.Date)
	}
	if first.Close != 171.2 {
		t.Fatalf("unexpected close %v", first.Close)
	}
	if first.Volume != 51234000 {
		t.Fatalf("unexpected volume %v", first.Volume)
	}

	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			t.Fatalf("bars not ascending at %d", i)
		}
	}
}

func TestParseDailyCSVSkipsBadRows(t *testing.T) {
	csv := "Date,Open,High,Low,Close,Volume\n" +
		"2024-03-11,170.5,172.1,169.8,171.2,51234000\n" +
		"not-a-date,1,2,3,4,5\n" +
		"2024-03-12,171.3,N/D,170.9,172.8,48765000\n" +
		"2024-03-13,172.5,172.9,170.1,170.6,50112000\n"

	bars, err := ParseDailyCSV([]byte(csv))
	if err != nil {
		t.Fatalf("ParseDailyCSV failed: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 valid bars, got %d", len(bars))
	}
}

func TestParseDailyCSVNoData(t *testing.T) {
	bars, err := ParseDailyCSV([]byte("No data"))
	if err != nil {
		t.Fatalf("ParseDailyCSV failed: %v", err)
	}
	if len(bars) != 0 {
		t.Fatalf("expected no bars, got %d", len(bars))
	}
}

func TestParseDailyCSVRejectsOutOfOrder(t *testing.T) {
	csv := "Date,Open,High,Low,Close,Volume\n" +
		"2024-03-12,171.3,173.0,170.9,172.8,48765000\n" +
		"2024-03-11,170.5,172.1,169.8,171.2,51234000\n"

	if _, err := ParseDailyCSV([]byte(csv)); err == nil {
		t.Fatal("expected error for out-of-order rows")
	}
}

func TestStooqSourceDailyBars(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"s":  r.URL.Query().Get("s"),
			"i":  r.URL.Query().Get("i"),
			"d1": r.URL.Query().Get("d1"),
			"d2": r.URL.Query().Get("d2"),
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	src := NewStooqSource(testLogger(t), WithBaseURL(srv.URL))
	bars, err := src.DailyBars(context.Background(), "AAPL.US", repository.Period1Y)
	if err != nil {
		t.Fatalf("DailyBars failed: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}

	if gotQuery["s"] != "aapl.us" {
		t.Fatalf("expected lowercased symbol, got %q", gotQuery["s"])
	}
	if gotQuery["i"] != "d" {
		t.Fatalf("expected daily interval, got %q", gotQuery["i"])
	}
	if gotQuery["d1"] == "" || gotQuery["d2"] == "" {
		t.Fatal("expected date range parameters")
	}
}

func TestStooqSourceNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("No data"))
	}))
	defer srv.Close()

	src := NewStooqSource(testLogger(t), WithBaseURL(srv.URL))
	if _, err := src.DailyBars(context.Background(), "NOPE", repository.Period1Y); err == nil {
		t.Fatal("expected error for empty history")
	}
}
