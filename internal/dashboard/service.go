// Package dashboard serves the aggregate dashboard view, bulk saves, the
// announcement feed and the activity log.
package dashboard

import (
	"context"
	"fmt"
	"rab-dashboard/internal/audit"
	"rab-dashboard/internal/domain"
	"rab-dashboard/internal/errors"
	"rab-dashboard/internal/store"
	"rab-dashboard/internal/utils"
)

type Service interface {
	Snapshot(ctx context.Context) store.Snapshot
	SaveAll(ctx context.Context, actor string, bundle store.Bundle) error
	Posts(ctx context.Context) []domain.Post
	CreatePost(ctx context.Context, actor domain.SafeUser, form *FormPost) (*domain.Post, error)
	DeletePost(ctx context.Context, actor, id string) error
	Logs(ctx context.Context, page, pageSize int) (*PaginatedLogs, error)
}

type DefaultService struct {
	repository Repository
	audit      audit.Recorder
}

func NewService(repository Repository, recorder audit.Recorder) Service {
	if recorder == nil {
		recorder = audit.Discard{}
	}
	return &DefaultService{repository: repository, audit: recorder}
}

func (s *DefaultService) Snapshot(ctx context.Context) store.Snapshot {
	return s.repository.FetchAll(ctx)
}

// SaveAll replaces the five dashboard collections. Nothing changes on error.
func (s *DefaultService) SaveAll(ctx context.Context, actor string, bundle store.Bundle) error {
	if err := s.repository.ReplaceAll(ctx, bundle); err != nil {
		return errors.FromStore(err, "bundle")
	}

	s.audit.Record(actor, "save all", "", fmt.Sprintf("%d projects, %d RAB, %d BQ, %d prices, %d work items",
		len(bundle.Projects), len(bundle.RabDocuments), len(bundle.BqDocuments),
		len(bundle.PriceDatabase), len(bundle.WorkItems)))
	return nil
}

func (s *DefaultService) Posts(ctx context.Context) []domain.Post {
	return s.repository.FetchPosts(ctx)
}

func (s *DefaultService) CreatePost(ctx context.Context, actor domain.SafeUser, form *FormPost) (*domain.Post, error) {
	post, err := s.repository.CreatePost(ctx, domain.Post{
		Title:   form.Title,
		Content: form.Content,
		Author:  actor.Name,
	})
	if err != nil {
		return nil, errors.FromStore(err, "Post")
	}

	s.audit.Record(actor.Username, "create post", post.ID, post.Title)
	return &post, nil
}

func (s *DefaultService) DeletePost(ctx context.Context, actor, id string) error {
	if err := s.repository.RemovePost(ctx, id); err != nil {
		return errors.FromStore(err, "Post")
	}
	s.audit.Record(actor, "delete post", id, "")
	return nil
}

// Logs returns one page of the activity log, newest first.
func (s *DefaultService) Logs(ctx context.Context, page, pageSize int) (*PaginatedLogs, error) {
	entries, total, err := s.repository.ListLogs(ctx, page, pageSize)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return &PaginatedLogs{Data: entries, Meta: utils.NewPageMeta(total, page, pageSize)}, nil
}
