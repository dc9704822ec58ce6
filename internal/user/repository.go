package user

import (
	"context"
	"rab-dashboard/internal/domain"
)

// UserRepository is the slice of the store the user service needs.
// *store.Store implements it.
type UserRepository interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (domain.User, error)
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	PatchUser(ctx context.Context, id string, patch domain.Patch) (domain.User, error)
	RemoveUser(ctx context.Context, id string) error

	LoadSession(ctx context.Context) *domain.Session
	SaveSession(ctx context.Context, sess domain.Session) error
	ClearSession(ctx context.Context) error
}
