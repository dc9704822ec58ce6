package store

import (
	"context"
	"rab-dashboard/internal/domain"
)

func (s *Store) ListProjects(ctx context.Context) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return load(ctx, s, s.projects)
}

func (s *Store) CreateProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return domain.Project{}, err
	}
	return create(ctx, s, s.projects, p)
}

func (s *Store) PatchProject(ctx context.Context, id string, patch domain.Patch) (domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return domain.Project{}, err
	}
	return update(ctx, s, s.projects, id, patch)
}

func (s *Store) RemoveProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	return remove(ctx, s, s.projects, id)
}

func (s *Store) ListPriceItems(ctx context.Context) ([]domain.PriceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return load(ctx, s, s.prices)
}

// CreatePriceItem stamps LastUpdated with the current time.
func (s *Store) CreatePriceItem(ctx context.Context, p domain.PriceItem) (domain.PriceItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return domain.PriceItem{}, err
	}
	p.LastUpdated = s.now()
	return create(ctx, s, s.prices, p)
}

func (s *Store) PatchPriceItem(ctx context.Context, id string, patch domain.Patch) (domain.PriceItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return domain.PriceItem{}, err
	}
	return update(ctx, s, s.prices, id, patch)
}

func (s *Store) RemovePriceItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	return remove(ctx, s, s.prices, id)
}

func (s *Store) ListWorkItems(ctx context.Context) ([]domain.WorkItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return load(ctx, s, s.workItems)
}

// CreateWorkItem stamps LastUpdated with the current time.
func (s *Store) CreateWorkItem(ctx context.Context, w domain.WorkItem) (domain.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return domain.WorkItem{}, err
	}
	w.LastUpdated = s.now()
	return create(ctx, s, s.workItems, w)
}

func (s *Store) PatchWorkItem(ctx context.Context, id string, patch domain.Patch) (domain.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return domain.WorkItem{}, err
	}
	return update(ctx, s, s.workItems, id, patch)
}

func (s *Store) RemoveWorkItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	return remove(ctx, s, s.workItems, id)
}
