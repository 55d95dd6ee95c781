package kpi

import (
	"context"
	"errors"
	"testing"

	"kpitrack/internal/domain/template"
)

func submitFor(t *testing.T, svc *Service, userID string, tickets float64) *Entry {
	t.Helper()
	entry, err := svc.CreateEntry(context.Background(), CreateEntryInput{
		KPITemplateID: "tmpl-1",
		CreatedFor:    userID,
		CreatedBy:     userID,
		Values:        []SubmittedValue{{Name: "tickets-closed", Value: valuePtr(template.NumberValue(tickets))}},
	})
	if err != nil {
		t.Fatalf("create for %s failed: %v", userID, err)
	}
	return entry
}

func TestGenerateDepartmentReport(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, engineeringRoster())
	submitFor(t, svc, "u1", 20) // score 5
	submitFor(t, svc, "u2", 3)  // score 2

	report, err := svc.GenerateDepartmentReport(context.Background(), "engineering", "tmpl-1", "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TemplateName != "Engineering Daily KPIs" {
		t.Fatalf("unexpected template name %q", report.TemplateName)
	}
	if len(report.Roles) != 2 {
		t.Fatalf("expected 2 role groups, got %d", len(report.Roles))
	}

	engineers := report.Roles[0]
	if engineers.Role != "engineer" {
		t.Fatalf("expected engineer group first, got %s", engineers.Role)
	}
	if engineers.Rankings[0].MemberID != "u1" || engineers.Rankings[0].Ranking != 1 {
		t.Fatalf("expected u1 ranked 1, got %+v", engineers.Rankings[0])
	}
	if engineers.Stats.CompletionRate != 100 {
		t.Fatalf("expected engineer completion 100, got %d", engineers.Stats.CompletionRate)
	}

	leads := report.Roles[1]
	if leads.Rankings[0].HasEntry {
		t.Fatal("lead without entry must have hasEntry=false")
	}

	if report.EntriesLocked != 2 {
		t.Fatalf("expected 2 locked entries, got %d", report.EntriesLocked)
	}
	// Department-wide stats cover the union: 2 of 3 members submitted.
	if report.Stats.CompletionRate != 67 {
		t.Fatalf("expected department completion 67, got %d", report.Stats.CompletionRate)
	}
	for _, e := range store.entries {
		if e.Status != StatusGenerated {
			t.Fatalf("entry %s not locked", e.ID)
		}
	}
}

func TestGenerateDepartmentReportNotIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, engineeringRoster())
	submitFor(t, svc, "u1", 20)
	submitFor(t, svc, "u2", 3)

	if _, err := svc.GenerateDepartmentReport(context.Background(), "engineering", "tmpl-1", "admin-1"); err != nil {
		t.Fatalf("first generation failed: %v", err)
	}

	// The second run only sees non-generated entries, so every previously
	// locked member reappears without an entry.
	second, err := svc.GenerateDepartmentReport(context.Background(), "engineering", "tmpl-1", "admin-1")
	if err != nil {
		t.Fatalf("second generation failed: %v", err)
	}
	for _, role := range second.Roles {
		for _, r := range role.Rankings {
			if r.HasEntry {
				t.Fatalf("member %s still has an entry on re-run", r.MemberID)
			}
		}
	}
	if second.EntriesLocked != 0 {
		t.Fatalf("expected 0 locked on re-run, got %d", second.EntriesLocked)
	}
}

func TestPreviewDepartmentReportDoesNotLock(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, engineeringRoster())
	entry := submitFor(t, svc, "u1", 20)

	report, err := svc.PreviewDepartmentReport(context.Background(), "engineering", "tmpl-1", "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.EntriesLocked != 0 {
		t.Fatalf("preview must not lock, got %d", report.EntriesLocked)
	}
	stored, err := store.GetByID(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("entry lookup failed: %v", err)
	}
	if stored.Status != StatusInitiated {
		t.Fatalf("preview changed entry status to %s", stored.Status)
	}
}

func TestGenerateDepartmentReportUnknownTemplate(t *testing.T) {
	svc := newTestService(newFakeStore(), engineeringRoster())
	_, err := svc.GenerateDepartmentReport(context.Background(), "engineering", "missing", "admin-1")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestGenerateDepartmentReportEmptyRoster(t *testing.T) {
	svc := newTestService(newFakeStore(), engineeringRoster())
	report, err := svc.GenerateDepartmentReport(context.Background(), "marketing", "tmpl-1", "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Roles) != 0 {
		t.Fatalf("expected no role groups, got %d", len(report.Roles))
	}
	if report.Stats != (Stats{}) {
		t.Fatalf("expected zero stats, got %+v", report.Stats)
	}
}
