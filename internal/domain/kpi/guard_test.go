package kpi

import (
	"errors"
	"testing"
	"time"

	"kpitrack/internal/domain/template"
)

func TestCheckCreateRejectsSecondEntryInWindow(t *testing.T) {
	now := time.Date(2025, 4, 2, 14, 0, 0, 0, time.UTC)
	existing := []Entry{{Status: StatusInitiated, CreatedAt: now.Add(-3 * time.Hour)}}

	err := CheckCreate(template.FrequencyDaily, existing, now)
	if !errors.Is(err, ErrPeriodConflict) {
		t.Fatalf("expected ErrPeriodConflict, got %v", err)
	}
}

func TestCheckCreatePermitsEntryAfterWindowElapses(t *testing.T) {
	now := time.Date(2025, 4, 3, 9, 0, 0, 0, time.UTC)
	existing := []Entry{{Status: StatusInitiated, CreatedAt: now.AddDate(0, 0, -1)}}

	if err := CheckCreate(template.FrequencyDaily, existing, now); err != nil {
		t.Fatalf("expected create to pass after window elapsed, got %v", err)
	}
}

func TestCheckCreateBlocksPairPermanentlyAfterGeneration(t *testing.T) {
	// Chosen policy: once the pair has a generated entry, creation stays
	// blocked no matter how many periods have elapsed.
	now := time.Date(2025, 4, 30, 9, 0, 0, 0, time.UTC)
	existing := []Entry{{Status: StatusGenerated, CreatedAt: now.AddDate(0, 0, -20)}}

	err := CheckCreate(template.FrequencyDaily, existing, now)
	if !errors.Is(err, ErrReportAlreadyGenerated) {
		t.Fatalf("expected ErrReportAlreadyGenerated, got %v", err)
	}
}

func TestCheckCreateInvalidFrequency(t *testing.T) {
	err := CheckCreate(template.Frequency("hourly"), nil, time.Now())
	if !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}
}

func TestCheckUpdateLockedEntry(t *testing.T) {
	entry := Entry{Status: StatusGenerated, CreatedAt: time.Now()}
	err := CheckUpdate(template.FrequencyMonthly, entry, time.Now())
	if !errors.Is(err, ErrEntryLocked) {
		t.Fatalf("expected ErrEntryLocked, got %v", err)
	}
}

func TestCheckUpdateWindowClosed(t *testing.T) {
	created := time.Date(2025, 2, 28, 10, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	entry := Entry{Status: StatusInitiated, CreatedAt: created}

	err := CheckUpdate(template.FrequencyMonthly, entry, now)
	if !errors.Is(err, ErrUpdateWindowClosed) {
		t.Fatalf("expected ErrUpdateWindowClosed, got %v", err)
	}
}

func TestCheckUpdateSamePeriodPasses(t *testing.T) {
	created := time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)  // Monday
	now := time.Date(2025, 2, 9, 22, 0, 0, 0, time.UTC)      // same ISO week, Sunday
	entry := Entry{Status: StatusInitiated, CreatedAt: created}

	if err := CheckUpdate(template.FrequencyWeekly, entry, now); err != nil {
		t.Fatalf("expected update to pass within the week, got %v", err)
	}
}
