package kpi

import (
	"context"
	"errors"
	"time"

	"kpitrack/internal/domain/member"
	"kpitrack/internal/domain/template"
)

// MemberDirectory is the slice of the member directory the engine consumes.
type MemberDirectory interface {
	Get(ctx context.Context, userID string) (*member.Member, error)
	ListByDepartment(ctx context.Context, departmentSlug string) ([]member.Member, error)
}

// TemplateSource resolves templates; read-only to the engine.
type TemplateSource interface {
	Get(ctx context.Context, templateID string) (*template.Template, error)
}

type Service struct {
	Store     StoreAPI
	Members   MemberDirectory
	Templates TemplateSource

	now func() time.Time
}

func NewService(store StoreAPI, members MemberDirectory, templates TemplateSource) *Service {
	return &Service{Store: store, Members: members, Templates: templates, now: time.Now}
}

type CreateEntryInput struct {
	KPITemplateID string           `json:"kpiTemplateId"`
	CreatedFor    string           `json:"createdFor"`
	CreatedBy     string           `json:"createdBy"`
	Values        []SubmittedValue `json:"values"`
}

// CreateEntry validates, scores and persists a new entry for the current
// period. The in-process period check is a fast path; the store's unique
// index is what actually prevents duplicate writes under concurrency.
func (s *Service) CreateEntry(ctx context.Context, in CreateEntryInput) (*Entry, error) {
	tmpl, err := s.loadTemplate(ctx, in.KPITemplateID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Members.Get(ctx, in.CreatedFor); err != nil {
		if errors.Is(err, member.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	now := s.now()
	existing, err := s.Store.ListByPair(ctx, in.KPITemplateID, in.CreatedFor)
	if err != nil {
		return nil, err
	}
	if err := CheckCreate(tmpl.Frequency, existing, now); err != nil {
		return nil, err
	}

	values, err := ValidateValues(in.Values, tmpl.Items)
	if err != nil {
		return nil, err
	}
	periodKey, err := PeriodKey(tmpl.Frequency, now)
	if err != nil {
		return nil, err
	}

	return s.Store.Create(ctx, Entry{
		KPITemplateID: in.KPITemplateID,
		CreatedFor:    in.CreatedFor,
		CreatedBy:     in.CreatedBy,
		Values:        values,
		TotalScore:    TotalScore(values),
		Status:        StatusInitiated,
		PeriodKey:     periodKey,
	})
}

// UpdateEntry re-validates and re-scores an initiated entry while its
// creation period is still open.
func (s *Service) UpdateEntry(ctx context.Context, entryID string, submitted []SubmittedValue) (*Entry, error) {
	entry, err := s.Store.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	tmpl, err := s.loadTemplate(ctx, entry.KPITemplateID)
	if err != nil {
		return nil, err
	}
	if err := CheckUpdate(tmpl.Frequency, *entry, s.now()); err != nil {
		return nil, err
	}

	values, err := ValidateValues(submitted, tmpl.Items)
	if err != nil {
		return nil, err
	}
	return s.Store.UpdateValues(ctx, entryID, values, TotalScore(values))
}

func (s *Service) GetEntry(ctx context.Context, entryID string) (*Entry, error) {
	return s.Store.GetByID(ctx, entryID)
}

func (s *Service) ListEntries(ctx context.Context, filter EntryFilter, limit, offset int) ([]Entry, int, error) {
	return s.Store.List(ctx, filter, limit, offset)
}

func (s *Service) loadTemplate(ctx context.Context, templateID string) (*template.Template, error) {
	tmpl, err := s.Templates.Get(ctx, templateID)
	if err != nil {
		if errors.Is(err, template.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return tmpl, nil
}
