package store

import (
	"context"
	"log/slog"
	"rab-dashboard/internal/domain"
	"rab-dashboard/internal/kv"
)

// LoadSession returns the current session, or nil when logged out. An absent,
// corrupt or unreadable session record counts as logged out.
func (s *Store) LoadSession(ctx context.Context) *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil
	}

	sess, err := kv.GetJSON[*domain.Session](ctx, s.kv, s.key(KeyCurrentSession), nil)
	if err != nil {
		slog.Warn("cannot read session, treating as logged out", "error", err)
		return nil
	}
	if sess == nil || sess.User.ID == "" {
		return nil
	}
	return sess
}

func (s *Store) SaveSession(ctx context.Context, sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	return kv.SetJSON(ctx, s.kv, s.key(KeyCurrentSession), sess)
}

// ClearSession removes the session record only.
func (s *Store) ClearSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.kv.Delete(ctx, s.key(KeyCurrentSession))
}
