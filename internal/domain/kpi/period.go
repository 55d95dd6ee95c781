package kpi

import (
	"fmt"
	"time"

	"kpitrack/internal/domain/template"
)

// Period is the inclusive calendar window covering one instance of a
// template's frequency.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls within [Start, End].
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// PeriodFor returns the period of the given frequency containing reference.
// Boundaries are computed in reference's location; the end is the last
// millisecond before the next period starts.
func PeriodFor(freq template.Frequency, reference time.Time) (Period, error) {
	year, month, day := reference.Date()
	loc := reference.Location()

	var start, next time.Time
	switch freq {
	case template.FrequencyDaily:
		start = time.Date(year, month, day, 0, 0, 0, 0, loc)
		next = start.AddDate(0, 0, 1)
	case template.FrequencyWeekly:
		// Weeks start on Monday.
		offset := int(reference.Weekday()) - 1
		if reference.Weekday() == time.Sunday {
			offset = 6
		}
		start = time.Date(year, month, day, 0, 0, 0, 0, loc).AddDate(0, 0, -offset)
		next = start.AddDate(0, 0, 7)
	case template.FrequencyMonthly:
		start = time.Date(year, month, 1, 0, 0, 0, 0, loc)
		next = start.AddDate(0, 1, 0)
	case template.FrequencyQuarterly:
		quarterMonth := time.Month((int(month)-1)/3*3 + 1)
		start = time.Date(year, quarterMonth, 1, 0, 0, 0, 0, loc)
		next = start.AddDate(0, 3, 0)
	case template.FrequencyYearly:
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		next = start.AddDate(1, 0, 0)
	default:
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, freq)
	}

	return Period{Start: start, End: next.Add(-time.Millisecond)}, nil
}

// PeriodKey returns the bucket label identifying the period of the given
// frequency that t falls into. Two instants share a key exactly when they
// share a period, which makes the key usable both for same-period checks and
// as the storage uniqueness bucket.
func PeriodKey(freq template.Frequency, t time.Time) (string, error) {
	switch freq {
	case template.FrequencyDaily:
		return t.Format("2006-01-02"), nil
	case template.FrequencyWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week), nil
	case template.FrequencyMonthly:
		return t.Format("2006-01"), nil
	case template.FrequencyQuarterly:
		quarter := (int(t.Month())-1)/3 + 1
		return fmt.Sprintf("%04d-Q%d", t.Year(), quarter), nil
	case template.FrequencyYearly:
		return fmt.Sprintf("%04d", t.Year()), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, freq)
	}
}
