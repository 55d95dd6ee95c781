package template

import (
	"context"
	"fmt"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Get(ctx context.Context, templateID string) (*Template, error) {
	return s.Store.Get(ctx, templateID)
}

func (s *Service) List(ctx context.Context, role string) ([]Template, error) {
	return s.Store.List(ctx, role)
}

func (s *Service) Create(ctx context.Context, tmpl Template) (string, error) {
	if err := ValidateTemplate(tmpl); err != nil {
		return "", err
	}
	return s.Store.Create(ctx, tmpl)
}

// ValidateTemplate checks the structural invariants of a template before it
// is persisted: a known frequency, known kpi types and unique item names.
func ValidateTemplate(tmpl Template) error {
	if !tmpl.Frequency.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, tmpl.Frequency)
	}
	seen := make(map[string]bool, len(tmpl.Items))
	for _, item := range tmpl.Items {
		if !item.KPIType.Valid() {
			return fmt.Errorf("%w: item %q has type %q", ErrInvalidKPIType, item.Name, item.KPIType)
		}
		if seen[item.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateItem, item.Name)
		}
		seen[item.Name] = true
	}
	return nil
}
