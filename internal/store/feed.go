package store

import (
	"context"
	"rab-dashboard/internal/domain"
	"sort"
)

// FetchPosts returns the announcement feed, newest first. It never fails;
// a substrate fault yields an empty feed.
func (s *Store) FetchPosts(ctx context.Context) []domain.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return []domain.Post{}
	}

	posts := loadOrEmpty(ctx, s, s.posts)
	// reverse first so equal timestamps come out newest-appended first
	for i, j := 0, len(posts)-1; i < j; i, j = i+1, j-1 {
		posts[i], posts[j] = posts[j], posts[i]
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

// CreatePost appends p; CreatedAt defaults to now.
func (s *Store) CreatePost(ctx context.Context, p domain.Post) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return domain.Post{}, err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	return create(ctx, s, s.posts, p)
}

func (s *Store) RemovePost(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	return remove(ctx, s, s.posts, id)
}

// AppendLog adds an activity log entry; Timestamp defaults to now.
func (s *Store) AppendLog(ctx context.Context, entry domain.LogEntry) (domain.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return domain.LogEntry{}, err
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	return create(ctx, s, s.logs, entry)
}

// ListLogs returns one page of the activity log, newest first, and the total count.
func (s *Store) ListLogs(ctx context.Context, page, perPage int) ([]domain.LogEntry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, 0, err
	}

	entries, err := load(ctx, s, s.logs)
	if err != nil {
		return nil, 0, err
	}
	total := len(entries)

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	start := (page - 1) * perPage
	if start >= total {
		return []domain.LogEntry{}, total, nil
	}
	end := min(start+perPage, total)

	out := make([]domain.LogEntry, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, entries[total-1-i])
	}
	return out, total, nil
}
