package store

import (
	"context"
	"errors"
	"fmt"
	"rab-dashboard/internal/domain"
)

func (s *Store) documents(kind domain.DocumentKind) (collection[domain.BudgetDocument], error) {
	switch kind {
	case domain.KindRAB:
		return s.rab, nil
	case domain.KindBQ:
		return s.bq, nil
	}
	return collection[domain.BudgetDocument]{}, fmt.Errorf("%w: unknown document kind %q", ErrInvalidRecord, kind)
}

// kindsFor returns the kinds whose collection may hold id: the one named by
// its namespace, or both for ids outside any known namespace.
func kindsFor(id string) []domain.DocumentKind {
	if kind, ok := domain.KindFromID(id); ok {
		return []domain.DocumentKind{kind}
	}
	return []domain.DocumentKind{domain.KindRAB, domain.KindBQ}
}

func (s *Store) ListDocuments(ctx context.Context, kind domain.DocumentKind) ([]domain.BudgetDocument, error) {
	c, err := s.documents(kind)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return load(ctx, s, c)
}

// GetDocument finds a document by id and reports which collection holds it.
func (s *Store) GetDocument(ctx context.Context, id string) (domain.BudgetDocument, domain.DocumentKind, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return domain.BudgetDocument{}, "", err
	}

	for _, kind := range kindsFor(id) {
		c, _ := s.documents(kind)
		doc, err := get(ctx, s, c, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return domain.BudgetDocument{}, "", err
		}
		return doc, kind, nil
	}
	return domain.BudgetDocument{}, "", ErrNotFound
}

// CreateDocument stores fields as a new document of kind. New documents start
// with sla 0, no detail items, pdfReady false and an empty revision history
// unless fields says otherwise.
func (s *Store) CreateDocument(ctx context.Context, fields domain.BudgetDocument, kind domain.DocumentKind) (domain.BudgetDocument, error) {
	c, err := s.documents(kind)
	if err != nil {
		return domain.BudgetDocument{}, err
	}

	if fields.DetailItems == nil {
		fields.DetailItems = []domain.DetailItem{}
	}
	if fields.RevisionHistory == nil {
		fields.RevisionHistory = []domain.Revision{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return domain.BudgetDocument{}, err
	}
	return create(ctx, s, c, fields)
}

// PatchDocument merges patch over the document with id, in whichever
// collection its namespace names.
func (s *Store) PatchDocument(ctx context.Context, id string, patch domain.Patch) (domain.BudgetDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return domain.BudgetDocument{}, err
	}

	for _, kind := range kindsFor(id) {
		c, _ := s.documents(kind)
		doc, err := update(ctx, s, c, id, patch)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return doc, err
	}
	return domain.BudgetDocument{}, ErrNotFound
}

func (s *Store) RemoveDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}

	for _, kind := range kindsFor(id) {
		c, _ := s.documents(kind)
		err := remove(ctx, s, c, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return err
	}
	return ErrNotFound
}

// UpdateDocument reports whether the patch was applied.
func (s *Store) UpdateDocument(ctx context.Context, id string, patch domain.Patch) bool {
	if _, err := s.PatchDocument(ctx, id, patch); err != nil {
		logFailure("update document", id, err)
		return false
	}
	return true
}

// DeleteDocument reports whether a document with id was removed.
func (s *Store) DeleteDocument(ctx context.Context, id string) bool {
	if err := s.RemoveDocument(ctx, id); err != nil {
		logFailure("delete document", id, err)
		return false
	}
	return true
}
