package kpi

import "context"

// StoreAPI is the entry store contract the engine orchestrates around. The
// pgx implementation lives in store_data.go; tests use a fake.
type StoreAPI interface {
	GetByID(ctx context.Context, entryID string) (*Entry, error)
	ListByPair(ctx context.Context, templateID, createdFor string) ([]Entry, error)
	List(ctx context.Context, filter EntryFilter, limit, offset int) ([]Entry, int, error)
	// ListForReport returns every non-generated entry for the template whose
	// createdFor is in memberIDs.
	ListForReport(ctx context.Context, templateID string, memberIDs []string) ([]Entry, error)
	Create(ctx context.Context, entry Entry) (*Entry, error)
	UpdateValues(ctx context.Context, entryID string, values []EntryValue, totalScore float64) (*Entry, error)
	// MarkGenerated transitions the given entries to generated and reports
	// how many rows actually changed.
	MarkGenerated(ctx context.Context, entryIDs []string) (int, error)
}
