package dashboard

import (
	"context"
	"rab-dashboard/internal/domain"
	"rab-dashboard/internal/store"
)

// Repository is implemented by *store.Store.
type Repository interface {
	FetchAll(ctx context.Context) store.Snapshot
	ReplaceAll(ctx context.Context, b store.Bundle) error
	FetchPosts(ctx context.Context) []domain.Post
	CreatePost(ctx context.Context, p domain.Post) (domain.Post, error)
	RemovePost(ctx context.Context, id string) error
	ListLogs(ctx context.Context, page, perPage int) ([]domain.LogEntry, int, error)
}
