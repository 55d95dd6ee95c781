package kpi

import (
	"errors"
	"testing"
	"time"

	"kpitrack/internal/domain/template"
)

func TestPeriodForContainsReference(t *testing.T) {
	reference := time.Date(2025, 5, 14, 15, 30, 45, 0, time.UTC)
	frequencies := []template.Frequency{
		template.FrequencyDaily,
		template.FrequencyWeekly,
		template.FrequencyMonthly,
		template.FrequencyQuarterly,
		template.FrequencyYearly,
	}
	for _, freq := range frequencies {
		period, err := PeriodFor(freq, reference)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", freq, err)
		}
		if !period.Contains(reference) {
			t.Fatalf("%s: window %v..%v does not contain %v", freq, period.Start, period.End, reference)
		}
		if !period.End.After(period.Start) {
			t.Fatalf("%s: end %v not after start %v", freq, period.End, period.Start)
		}
	}
}

func TestPeriodForDaily(t *testing.T) {
	reference := time.Date(2025, 3, 10, 18, 4, 0, 0, time.UTC)
	period, err := PeriodFor(template.FrequencyDaily, reference)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantStart := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !period.Start.Equal(wantStart) {
		t.Fatalf("expected start %v, got %v", wantStart, period.Start)
	}
	wantEnd := time.Date(2025, 3, 10, 23, 59, 59, 999000000, time.UTC)
	if !period.End.Equal(wantEnd) {
		t.Fatalf("expected end %v, got %v", wantEnd, period.End)
	}
}

func TestPeriodForWeeklyStartsMonday(t *testing.T) {
	// Sweep a full week including a Sunday, which belongs to the week that
	// started six days earlier.
	for day := 9; day <= 15; day++ {
		reference := time.Date(2025, 6, day, 11, 0, 0, 0, time.UTC)
		period, err := PeriodFor(template.FrequencyWeekly, reference)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if period.Start.Weekday() != time.Monday {
			t.Fatalf("day %d: week starts on %s", day, period.Start.Weekday())
		}
		span := period.End.Sub(period.Start) + time.Millisecond
		if span != 7*24*time.Hour {
			t.Fatalf("day %d: expected 7-day span, got %v", day, span)
		}
		if !period.Contains(reference) {
			t.Fatalf("day %d: reference outside window", day)
		}
	}
}

func TestPeriodForQuarterly(t *testing.T) {
	period, err := PeriodFor(template.FrequencyQuarterly, time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if period.Start.Month() != time.July || period.Start.Day() != 1 {
		t.Fatalf("expected quarter start Jul 1, got %v", period.Start)
	}
	if period.End.Month() != time.September || period.End.Day() != 30 {
		t.Fatalf("expected quarter end Sep 30, got %v", period.End)
	}
}

func TestPeriodForInvalidFrequency(t *testing.T) {
	_, err := PeriodFor(template.Frequency("fortnightly"), time.Now())
	if !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}
	_, err = PeriodKey(template.Frequency("fortnightly"), time.Now())
	if !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency from PeriodKey, got %v", err)
	}
}

func TestPeriodKeyMatchesWindowMembership(t *testing.T) {
	inWindow := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)   // Monday
	sameWeek := time.Date(2025, 1, 12, 23, 0, 0, 0, time.UTC) // following Sunday
	nextWeek := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)

	keyA, err := PeriodKey(template.FrequencyWeekly, inWindow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	keyB, _ := PeriodKey(template.FrequencyWeekly, sameWeek)
	keyC, _ := PeriodKey(template.FrequencyWeekly, nextWeek)
	if keyA != keyB {
		t.Fatalf("expected same week key, got %s and %s", keyA, keyB)
	}
	if keyA == keyC {
		t.Fatalf("expected different week keys, both %s", keyA)
	}

	quarterKey, _ := PeriodKey(template.FrequencyQuarterly, time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC))
	if quarterKey != "2025-Q3" {
		t.Fatalf("expected 2025-Q3, got %s", quarterKey)
	}
}
