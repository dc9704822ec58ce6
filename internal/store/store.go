// Package store is the data access layer of the dashboard. It keeps every
// collection as one JSON array under its own substrate key and serialises all
// read-modify-write cycles through a single lock.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"rab-dashboard/auth"
	"rab-dashboard/internal/domain"
	"rab-dashboard/internal/kv"
	"rab-dashboard/internal/seed"
	"sync"
	"time"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidRecord = errors.New("invalid record")
	ErrClosed        = errors.New("store is closed")
)

// Substrate keys, before namespacing.
const (
	KeyUsers          = "Users"
	KeyProjects       = "Projects"
	KeyRabDocuments   = "RabDocuments"
	KeyBqDocuments    = "BqDocuments"
	KeyPriceDatabase  = "PriceDatabase"
	KeyWorkItems      = "WorkItems"
	KeyPosts          = "Posts"
	KeyLogs           = "Logs"
	KeyCurrentSession = "CurrentSession"
)

type Options struct {
	// Namespace prefixes every substrate key.
	Namespace kv.Keyspace
	// Seed overrides the built-in seed data.
	Seed *seed.Data
	// Now overrides the clock.
	Now func() time.Time
}

type Store struct {
	mu     sync.RWMutex
	kv     kv.Substrate
	keys   kv.Keyspace
	seed   *seed.Data
	now    func() time.Time
	closed bool

	users     collection[domain.User]
	projects  collection[domain.Project]
	rab       collection[domain.BudgetDocument]
	bq        collection[domain.BudgetDocument]
	prices    collection[domain.PriceItem]
	workItems collection[domain.WorkItem]
	posts     collection[domain.Post]
	logs      collection[domain.LogEntry]
}

// Open wraps substrate in a Store and checks the substrate is reachable.
func Open(ctx context.Context, substrate kv.Substrate, opts Options) (*Store, error) {
	data := opts.Seed
	if data == nil {
		var err error
		data, err = seed.Build(auth.HashPassword)
		if err != nil {
			return nil, fmt.Errorf("build seed data: %w", err)
		}
	}

	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	s := &Store{
		kv:   substrate,
		keys: opts.Namespace,
		seed: data,
		now:  now,
	}
	s.registerCollections()

	if _, err := substrate.Exists(ctx, s.key(KeyUsers)); err != nil {
		return nil, fmt.Errorf("substrate unavailable: %w", err)
	}

	return s, nil
}

// Close releases the substrate. Every later operation fails with ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.kv.Close()
}

func (s *Store) key(name string) string {
	return s.keys.Key(name)
}

func (s *Store) checkOpen() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Initialize writes every seed collection in one batch if the Users
// collection has never been written. An existing Users key means the
// database is initialized, even if other collections are missing.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}

	exists, err := s.kv.Exists(ctx, s.key(KeyUsers))
	if err != nil {
		return fmt.Errorf("check initialization: %w", err)
	}
	if exists {
		slog.Debug("store already initialized, skipping seed")
		return nil
	}

	entries := make(map[string][]byte, 8)
	stages := []func() error{
		func() error { return stage(entries, s, s.users, s.seed.Users) },
		func() error { return stage(entries, s, s.projects, s.seed.Projects) },
		func() error { return stage(entries, s, s.rab, s.seed.RabDocuments) },
		func() error { return stage(entries, s, s.bq, s.seed.BqDocuments) },
		func() error { return stage(entries, s, s.prices, s.seed.PriceDatabase) },
		func() error { return stage(entries, s, s.workItems, s.seed.WorkItems) },
		func() error { return stage(entries, s, s.posts, s.seed.Posts) },
		func() error { return stage(entries, s, s.logs, nil) },
	}
	for _, fn := range stages {
		if err := fn(); err != nil {
			return fmt.Errorf("stage seed: %w", err)
		}
	}

	if err := s.kv.SetMany(ctx, entries); err != nil {
		return fmt.Errorf("write seed: %w", err)
	}

	slog.Info("store initialized with seed data",
		"users", len(s.seed.Users),
		"projects", len(s.seed.Projects),
		"rab_documents", len(s.seed.RabDocuments),
		"bq_documents", len(s.seed.BqDocuments),
	)
	return nil
}

// logFailure reports a failed boundary operation. Not-found is expected traffic.
func logFailure(op, id string, err error) {
	if errors.Is(err, ErrNotFound) {
		slog.Info(op+" failed: not found", "id", id)
		return
	}
	slog.Error(op+" failed", "id", id, "error", err)
}
