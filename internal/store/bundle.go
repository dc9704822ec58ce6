package store

import (
	"context"
	"fmt"
	"rab-dashboard/internal/domain"
)

// Snapshot is the aggregate read served to the dashboard.
type Snapshot struct {
	Projects        []domain.Project        `json:"projects"`
	RabDocuments    []domain.BudgetDocument `json:"rabDocuments"`
	BqDocuments     []domain.BudgetDocument `json:"bqDocuments"`
	PriceDatabase   []domain.PriceItem      `json:"priceDatabase"`
	WorkItems       []domain.WorkItem       `json:"workItems"`
	PriceCategories []string                `json:"priceCategories"`
	WorkCategories  []string                `json:"workCategories"`
}

// Bundle holds full replacements for the collections written by ReplaceAll.
// Every collection must be present; an empty slice clears it, a nil one is
// rejected.
type Bundle struct {
	Projects      []domain.Project        `json:"projects" binding:"required"`
	RabDocuments  []domain.BudgetDocument `json:"rabDocuments" binding:"required"`
	BqDocuments   []domain.BudgetDocument `json:"bqDocuments" binding:"required"`
	PriceDatabase []domain.PriceItem      `json:"priceDatabase" binding:"required"`
	WorkItems     []domain.WorkItem       `json:"workItems" binding:"required"`
}

// NewBundle returns a bundle whose collections are all empty.
func NewBundle() Bundle {
	return Bundle{
		Projects:      []domain.Project{},
		RabDocuments:  []domain.BudgetDocument{},
		BqDocuments:   []domain.BudgetDocument{},
		PriceDatabase: []domain.PriceItem{},
		WorkItems:     []domain.WorkItem{},
	}
}

func (b Bundle) missing() string {
	switch {
	case b.Projects == nil:
		return KeyProjects
	case b.RabDocuments == nil:
		return KeyRabDocuments
	case b.BqDocuments == nil:
		return KeyBqDocuments
	case b.PriceDatabase == nil:
		return KeyPriceDatabase
	case b.WorkItems == nil:
		return KeyWorkItems
	}
	return ""
}

func emptySnapshot() Snapshot {
	return Snapshot{
		Projects:        []domain.Project{},
		RabDocuments:    []domain.BudgetDocument{},
		BqDocuments:     []domain.BudgetDocument{},
		PriceDatabase:   []domain.PriceItem{},
		WorkItems:       []domain.WorkItem{},
		PriceCategories: []string{},
		WorkCategories:  []string{},
	}
}

// FetchAll reads every dashboard collection. It never fails: each slice
// degrades to empty on its own, and categories are derived from what was read.
func (s *Store) FetchAll(ctx context.Context) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return emptySnapshot()
	}

	snap := Snapshot{
		Projects:      loadOrEmpty(ctx, s, s.projects),
		RabDocuments:  loadOrEmpty(ctx, s, s.rab),
		BqDocuments:   loadOrEmpty(ctx, s, s.bq),
		PriceDatabase: loadOrEmpty(ctx, s, s.prices),
		WorkItems:     loadOrEmpty(ctx, s, s.workItems),
	}
	snap.PriceCategories = ComputeCategories(snap.PriceDatabase, func(p domain.PriceItem) string { return p.Category })
	snap.WorkCategories = ComputeCategories(snap.WorkItems, func(w domain.WorkItem) string { return w.Category })
	return snap
}

// ReplaceAll overwrites the five dashboard collections as one batch. Every
// record is validated before anything is written; on any error no collection
// changes.
func (s *Store) ReplaceAll(ctx context.Context, b Bundle) error {
	if name := b.missing(); name != "" {
		return fmt.Errorf("%w: bundle is missing %s", ErrInvalidRecord, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}

	entries := make(map[string][]byte, 5)
	if err := stage(entries, s, s.projects, b.Projects); err != nil {
		return err
	}
	if err := stage(entries, s, s.rab, b.RabDocuments); err != nil {
		return err
	}
	if err := stage(entries, s, s.bq, b.BqDocuments); err != nil {
		return err
	}
	if err := stage(entries, s, s.prices, b.PriceDatabase); err != nil {
		return err
	}
	if err := stage(entries, s, s.workItems, b.WorkItems); err != nil {
		return err
	}

	if err := s.kv.SetMany(ctx, entries); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}
	return nil
}

// SaveAll reports whether the bundle was written.
func (s *Store) SaveAll(ctx context.Context, b Bundle) bool {
	if err := s.ReplaceAll(ctx, b); err != nil {
		logFailure("save all", "", err)
		return false
	}
	return true
}
