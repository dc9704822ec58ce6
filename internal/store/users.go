package store

import (
	"context"
	"rab-dashboard/internal/domain"
)

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return load(ctx, s, s.users)
}

func (s *Store) GetUser(ctx context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return domain.User{}, err
	}
	return get(ctx, s, s.users, id)
}

// CreateUser appends u with a fresh id. The caller sets PasswordHash;
// LastLogin defaults to now.
func (s *Store) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return domain.User{}, err
	}
	if u.LastLogin.IsZero() {
		u.LastLogin = s.now()
	}
	return create(ctx, s, s.users, u)
}

func (s *Store) PatchUser(ctx context.Context, id string, patch domain.Patch) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return domain.User{}, err
	}
	return update(ctx, s, s.users, id, patch)
}

func (s *Store) RemoveUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	return remove(ctx, s, s.users, id)
}

// UpdateUser reports whether the patch was applied.
func (s *Store) UpdateUser(ctx context.Context, id string, patch domain.Patch) bool {
	if _, err := s.PatchUser(ctx, id, patch); err != nil {
		logFailure("update user", id, err)
		return false
	}
	return true
}

// DeleteUser reports whether a user with id was removed.
func (s *Store) DeleteUser(ctx context.Context, id string) bool {
	if err := s.RemoveUser(ctx, id); err != nil {
		logFailure("delete user", id, err)
		return false
	}
	return true
}
