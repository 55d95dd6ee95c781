package kpi

import (
	"time"

	"kpitrack/internal/domain/template"
)

// pairPermanentlyLocked decides whether a (template, member) pair may ever
// receive another entry once one of its entries has been generated. The
// current policy blocks the pair for good, regardless of elapsed periods;
// swap this function to re-open the pair on the next period boundary.
func pairPermanentlyLocked(existing []Entry) bool {
	for _, e := range existing {
		if e.Status == StatusGenerated {
			return true
		}
	}
	return false
}

// CheckCreate gates a new entry for a (template, member) pair given every
// existing entry for that pair. The window check is an early fail; the
// store's uniqueness constraint over (template, member, period key) is the
// authoritative guard under concurrency.
func CheckCreate(freq template.Frequency, existing []Entry, now time.Time) error {
	if pairPermanentlyLocked(existing) {
		return ErrReportAlreadyGenerated
	}
	window, err := PeriodFor(freq, now)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if window.Contains(e.CreatedAt) {
			return ErrPeriodConflict
		}
	}
	return nil
}

// CheckUpdate gates an edit to an existing entry: generated entries are
// immutable, and an initiated entry may only change while the current
// instant still falls in the period it was created in.
func CheckUpdate(freq template.Frequency, entry Entry, now time.Time) error {
	if entry.Status == StatusGenerated {
		return ErrEntryLocked
	}
	entryKey, err := PeriodKey(freq, entry.CreatedAt)
	if err != nil {
		return err
	}
	nowKey, err := PeriodKey(freq, now)
	if err != nil {
		return err
	}
	if entryKey != nowKey {
		return ErrUpdateWindowClosed
	}
	return nil
}
