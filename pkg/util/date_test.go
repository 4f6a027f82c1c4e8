package util

import (
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	got, err := ParseTime("2024-03-15")
	if err != nil {
		t.Fatalf("ParseTime failed: %v", err)
	}
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if _, err := ParseTime("15/03/2024"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := ParseTimeDefault("", def); !got.Equal(def) {
		t.Fatalf("expected default for empty input, got %v", got)
	}
	if got := ParseTimeDefault("garbage", def); !got.Equal(def) {
		t.Fatalf("expected default for malformed input, got %v", got)
	}
	if got := ParseTimeDefault("2024-06-30", def); got.Equal(def) {
		t.Fatal("expected parsed date, got default")
	}
}

func TestAddBusinessDays(t *testing.T) {
	// Friday + 1 business day lands on Monday.
	friday := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	got := AddBusinessDays(friday, 1)
	want := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// Five business days from Monday is the next Monday.
	monday := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	got = AddBusinessDays(monday, 5)
	want = time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if got := AddBusinessDays(monday, 0); !got.Equal(monday) {
		t.Fatalf("expected unchanged date for n=0, got %v", got)
	}
}
