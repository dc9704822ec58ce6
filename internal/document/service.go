package document

import (
	"context"
	"fmt"
	"rab-dashboard/internal/audit"
	"rab-dashboard/internal/domain"
	"rab-dashboard/internal/errors"
	"rab-dashboard/internal/utils"
	"strings"
)

type Service interface {
	ListDocuments(ctx context.Context, actor domain.SafeUser, kind domain.DocumentKind, page, pageSize int) (*PaginatedDocuments, error)
	GetDocument(ctx context.Context, actor domain.SafeUser, id string) (*DocumentResponse, error)
	CreateDocument(ctx context.Context, actor domain.SafeUser, kind domain.DocumentKind, fields domain.BudgetDocument) (*domain.BudgetDocument, error)
	UpdateDocument(ctx context.Context, actor domain.SafeUser, id string, patch domain.Patch) (*domain.BudgetDocument, error)
	DeleteDocument(ctx context.Context, actor domain.SafeUser, id string) error
}

type DefaultService struct {
	repository DocumentRepository
	audit      audit.Recorder
}

func NewService(repository DocumentRepository, recorder audit.Recorder) Service {
	if recorder == nil {
		recorder = audit.Discard{}
	}
	return &DefaultService{repository: repository, audit: recorder}
}

// permission builds the "<kind>:<action>" id, e.g. "rab:edit".
func permission(kind domain.DocumentKind, action string) string {
	return strings.ToLower(string(kind)) + ":" + action
}

func authorize(actor domain.SafeUser, kind domain.DocumentKind, action string) error {
	perm := permission(kind, action)
	if !actor.HasPermission(perm) {
		return errors.Forbidden("Missing permission "+perm, nil)
	}
	return nil
}

func (s *DefaultService) ListDocuments(ctx context.Context, actor domain.SafeUser, kind domain.DocumentKind, page, pageSize int) (*PaginatedDocuments, error) {
	if err := authorize(actor, kind, "view"); err != nil {
		return nil, err
	}

	docs, err := s.repository.ListDocuments(ctx, kind)
	if err != nil {
		return nil, errors.FromStore(err, "Document")
	}

	data, meta := utils.Paginate(docs, page, pageSize)
	return &PaginatedDocuments{Data: data, Meta: meta}, nil
}

func (s *DefaultService) GetDocument(ctx context.Context, actor domain.SafeUser, id string) (*DocumentResponse, error) {
	doc, kind, err := s.repository.GetDocument(ctx, id)
	if err != nil {
		return nil, errors.FromStore(err, "Document")
	}
	if err := authorize(actor, kind, "view"); err != nil {
		return nil, err
	}
	return &DocumentResponse{Kind: kind, Document: doc}, nil
}

// CreateDocument stores fields as a new document of kind. The creator
// defaults to the acting user.
func (s *DefaultService) CreateDocument(ctx context.Context, actor domain.SafeUser, kind domain.DocumentKind, fields domain.BudgetDocument) (*domain.BudgetDocument, error) {
	if err := authorize(actor, kind, "create"); err != nil {
		return nil, err
	}
	if fields.CreatorName == "" {
		fields.CreatorName = actor.Name
	}

	doc, err := s.repository.CreateDocument(ctx, fields, kind)
	if err != nil {
		return nil, errors.FromStore(err, "Document")
	}

	s.audit.Record(actor.Username, "create document", doc.ID, fmt.Sprintf("%s %s", kind, doc.EMPR))
	return &doc, nil
}

// UpdateDocument merges patch over the document. Changing the approval
// fields also needs the approve permission.
func (s *DefaultService) UpdateDocument(ctx context.Context, actor domain.SafeUser, id string, patch domain.Patch) (*domain.BudgetDocument, error) {
	_, kind, err := s.repository.GetDocument(ctx, id)
	if err != nil {
		return nil, errors.FromStore(err, "Document")
	}
	if err := authorize(actor, kind, "edit"); err != nil {
		return nil, err
	}
	if patch.Has("approverName") || patch.Has("approvalRequestDetails") {
		if err := authorize(actor, kind, "approve"); err != nil {
			return nil, err
		}
	}

	doc, err := s.repository.PatchDocument(ctx, id, patch)
	if err != nil {
		return nil, errors.FromStore(err, "Document")
	}

	s.audit.Record(actor.Username, "update document", id, string(kind))
	return &doc, nil
}

func (s *DefaultService) DeleteDocument(ctx context.Context, actor domain.SafeUser, id string) error {
	_, kind, err := s.repository.GetDocument(ctx, id)
	if err != nil {
		return errors.FromStore(err, "Document")
	}
	if err := authorize(actor, kind, "delete"); err != nil {
		return err
	}

	if err := s.repository.RemoveDocument(ctx, id); err != nil {
		return errors.FromStore(err, "Document")
	}

	s.audit.Record(actor.Username, "delete document", id, string(kind))
	return nil
}
