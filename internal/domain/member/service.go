package member

import "context"

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Get(ctx context.Context, userID string) (*Member, error) {
	return s.Store.Get(ctx, userID)
}

func (s *Service) Search(ctx context.Context, filter SearchFilter, limit, offset int) (SearchResult, error) {
	return s.Store.Search(ctx, filter, limit, offset)
}

func (s *Service) ListByDepartment(ctx context.Context, departmentSlug string) ([]Member, error) {
	return s.Store.ListByDepartment(ctx, departmentSlug)
}
