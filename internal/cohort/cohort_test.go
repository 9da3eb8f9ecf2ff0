package cohort

import (
	"testing"
	"time"
)

func TestForTimeMidweek(t *testing.T) {
	// Wednesday 2026-08-19 maps to Sunday 2026-08-16.
	wednesday := time.Date(2026, 8, 19, 15, 30, 0, 0, time.UTC)
	w := ForTime(wednesday)

	want := time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC)
	if !w.Anchor.Equal(want) {
		t.Errorf("expected anchor %v, got %v", want, w.Anchor)
	}
	if w.Key() != "2026-08-16" {
		t.Errorf("expected key 2026-08-16, got %q", w.Key())
	}
}

func TestForTimeOnSunday(t *testing.T) {
	sunday := time.Date(2026, 8, 16, 23, 59, 59, 0, time.UTC)
	w := ForTime(sunday)

	if w.Key() != "2026-08-16" {
		t.Errorf("expected same-day anchor on Sunday, got %q", w.Key())
	}
}

func TestForTimeConvertsToUTC(t *testing.T) {
	// Saturday 22:00 in UTC-5 is Sunday 03:00 UTC, landing in the new week.
	loc := time.FixedZone("UTC-5", -5*3600)
	local := time.Date(2026, 8, 15, 22, 0, 0, 0, loc)

	if got := ForTime(local).Key(); got != "2026-08-16" {
		t.Errorf("expected 2026-08-16 after UTC conversion, got %q", got)
	}
}

func TestForTimeStableWithinWeek(t *testing.T) {
	monday := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 8, 22, 23, 59, 59, 0, time.UTC)

	if ForTime(monday).Key() != ForTime(saturday).Key() {
		t.Error("expected the whole week to share one key")
	}
}
