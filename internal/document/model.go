package document

import (
	"rab-dashboard/internal/domain"
	"rab-dashboard/internal/utils"
)

// PaginatedDocuments is one page of a document collection.
type PaginatedDocuments struct {
	Data []domain.BudgetDocument `json:"data"`
	Meta utils.PageMeta          `json:"meta"`
}

// DocumentResponse pairs a document with the collection holding it.
type DocumentResponse struct {
	Kind     domain.DocumentKind   `json:"kind"`
	Document domain.BudgetDocument `json:"document"`
}
