package document

import (
	"context"
	"rab-dashboard/internal/domain"
)

// DocumentRepository is implemented by *store.Store.
type DocumentRepository interface {
	ListDocuments(ctx context.Context, kind domain.DocumentKind) ([]domain.BudgetDocument, error)
	GetDocument(ctx context.Context, id string) (domain.BudgetDocument, domain.DocumentKind, error)
	CreateDocument(ctx context.Context, fields domain.BudgetDocument, kind domain.DocumentKind) (domain.BudgetDocument, error)
	PatchDocument(ctx context.Context, id string, patch domain.Patch) (domain.BudgetDocument, error)
	RemoveDocument(ctx context.Context, id string) error
}
