package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"rab-dashboard/internal/domain"
	"strings"
	"time"

	"github.com/google/uuid"
)

// collection describes how one record type is keyed and stored.
type collection[T any] struct {
	name   string
	prefix string
	id     func(*T) *string
	// seed returns the fallback used when the key is missing or corrupt.
	seed func() []T
	// normalize coerces a decoded record, e.g. nil slices to empty ones.
	normalize func(*T)
	// accepts reports whether an id belongs in this collection.
	accepts func(id string) bool
}

func (s *Store) registerCollections() {
	s.users = collection[domain.User]{
		name: KeyUsers, prefix: "usr",
		id:   func(u *domain.User) *string { return &u.ID },
		seed: func() []domain.User { return cloneJSON(s.seed.Users) },
		normalize: func(u *domain.User) {
			if u.Permissions == nil {
				u.Permissions = domain.StringSet{}
			}
			if u.Plant == nil {
				u.Plant = domain.StringSet{}
			}
		},
	}
	s.projects = collection[domain.Project]{
		name: KeyProjects, prefix: "proj",
		id:   func(p *domain.Project) *string { return &p.ID },
		seed: func() []domain.Project { return cloneJSON(s.seed.Projects) },
		normalize: func(p *domain.Project) {
			if p.Team == nil {
				p.Team = []string{}
			}
			if p.Phases == nil {
				p.Phases = []domain.Phase{}
			}
		},
	}
	s.rab = documentCollection(KeyRabDocuments, domain.KindRAB, func() []domain.BudgetDocument {
		return cloneJSON(s.seed.RabDocuments)
	})
	s.bq = documentCollection(KeyBqDocuments, domain.KindBQ, func() []domain.BudgetDocument {
		return cloneJSON(s.seed.BqDocuments)
	})
	s.prices = collection[domain.PriceItem]{
		name: KeyPriceDatabase, prefix: "pd",
		id:   func(p *domain.PriceItem) *string { return &p.ID },
		seed: func() []domain.PriceItem { return cloneJSON(s.seed.PriceDatabase) },
	}
	s.workItems = collection[domain.WorkItem]{
		name: KeyWorkItems, prefix: "wi",
		id:   func(w *domain.WorkItem) *string { return &w.ID },
		seed: func() []domain.WorkItem { return cloneJSON(s.seed.WorkItems) },
		normalize: func(w *domain.WorkItem) {
			if w.DefaultAhs == nil {
				w.DefaultAhs = []domain.AhsComponent{}
			}
		},
	}
	s.posts = collection[domain.Post]{
		name: KeyPosts, prefix: "post",
		id:   func(p *domain.Post) *string { return &p.ID },
		seed: func() []domain.Post { return cloneJSON(s.seed.Posts) },
	}
	s.logs = collection[domain.LogEntry]{
		name: KeyLogs, prefix: "log",
		id:   func(l *domain.LogEntry) *string { return &l.ID },
		seed: func() []domain.LogEntry { return []domain.LogEntry{} },
	}
}

func documentCollection(name string, kind domain.DocumentKind, seedFn func() []domain.BudgetDocument) collection[domain.BudgetDocument] {
	return collection[domain.BudgetDocument]{
		name: name, prefix: kind.IDPrefix(),
		id:   func(d *domain.BudgetDocument) *string { return &d.ID },
		seed: seedFn,
		normalize: func(d *domain.BudgetDocument) {
			if d.DetailItems == nil {
				d.DetailItems = []domain.DetailItem{}
			}
		},
		accepts: func(id string) bool {
			other, ok := domain.KindFromID(id)
			return !ok || other == kind
		},
	}
}

// load reads a whole collection. A missing or unparsable key yields the seed
// fallback; records that fail to decode or validate are dropped. Only
// substrate faults are returned.
func load[T any](ctx context.Context, s *Store, c collection[T]) ([]T, error) {
	raw, ok, err := s.kv.Get(ctx, s.key(c.name))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.name, err)
	}
	if !ok {
		return c.seed(), nil
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		slog.Warn("corrupt collection, using seed fallback", "collection", c.name, "error", err)
		return c.seed(), nil
	}

	items := make([]T, 0, len(rows))
	for i, row := range rows {
		var item T
		if err := json.Unmarshal(row, &item); err != nil {
			slog.Warn("dropping undecodable record", "collection", c.name, "index", i, "error", err)
			continue
		}
		if c.normalize != nil {
			c.normalize(&item)
		}
		if err := domain.Validate(item); err != nil {
			slog.Warn("dropping invalid record", "collection", c.name, "index", i, "error", err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// loadOrEmpty is load for aggregate reads: a fault degrades to an empty slice.
func loadOrEmpty[T any](ctx context.Context, s *Store, c collection[T]) []T {
	items, err := load(ctx, s, c)
	if err != nil {
		slog.Error("fetch collection failed, returning empty", "collection", c.name, "error", err)
		return []T{}
	}
	return items
}

func save[T any](ctx context.Context, s *Store, c collection[T], items []T) error {
	raw, err := encode(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	if err := s.kv.Set(ctx, s.key(c.name), raw); err != nil {
		return fmt.Errorf("write %s: %w", c.name, err)
	}
	return nil
}

func encode[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

// stage validates a full replacement for c and adds its encoding to entries.
func stage[T any](entries map[string][]byte, s *Store, c collection[T], items []T) error {
	staged := make([]T, len(items))
	copy(staged, items)

	seen := make(map[string]struct{}, len(staged))
	for i := range staged {
		id := *c.id(&staged[i])
		if id == "" {
			return fmt.Errorf("%w: %s[%d] has no id", ErrInvalidRecord, c.name, i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s has duplicate id %q", ErrInvalidRecord, c.name, id)
		}
		seen[id] = struct{}{}
		if c.accepts != nil && !c.accepts(id) {
			return fmt.Errorf("%w: id %q does not belong in %s", ErrInvalidRecord, id, c.name)
		}
		if c.normalize != nil {
			c.normalize(&staged[i])
		}
		if err := validateRecord(staged[i]); err != nil {
			return err
		}
	}

	raw, err := encode(staged)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrInvalidRecord, c.name, err)
	}
	entries[s.key(c.name)] = raw
	return nil
}

func find[T any](c collection[T], items []T, id string) int {
	for i := range items {
		if *c.id(&items[i]) == id {
			return i
		}
	}
	return -1
}

func get[T any](ctx context.Context, s *Store, c collection[T], id string) (T, error) {
	var zero T
	items, err := load(ctx, s, c)
	if err != nil {
		return zero, err
	}
	i := find(c, items, id)
	if i < 0 {
		return zero, ErrNotFound
	}
	return items[i], nil
}

// create assigns a fresh id to rec, appends it and persists the collection.
func create[T any](ctx context.Context, s *Store, c collection[T], rec T) (T, error) {
	var zero T
	items, err := load(ctx, s, c)
	if err != nil {
		return zero, err
	}

	taken := make(map[string]struct{}, len(items))
	for i := range items {
		taken[*c.id(&items[i])] = struct{}{}
	}
	*c.id(&rec) = newID(c.prefix, taken)

	if c.normalize != nil {
		c.normalize(&rec)
	}
	if err := validateRecord(rec); err != nil {
		return zero, err
	}

	items = append(items, rec)
	if err := save(ctx, s, c, items); err != nil {
		return zero, err
	}
	return rec, nil
}

// update merges patch over the record with id and persists the collection.
func update[T any](ctx context.Context, s *Store, c collection[T], id string, patch domain.Patch) (T, error) {
	var zero T
	items, err := load(ctx, s, c)
	if err != nil {
		return zero, err
	}
	i := find(c, items, id)
	if i < 0 {
		return zero, ErrNotFound
	}

	merged, err := merge(items[i], patch)
	if err != nil {
		return zero, err
	}
	if c.normalize != nil {
		c.normalize(&merged)
	}
	if err := validateRecord(merged); err != nil {
		return zero, err
	}

	items[i] = merged
	if err := save(ctx, s, c, items); err != nil {
		return zero, err
	}
	return merged, nil
}

func remove[T any](ctx context.Context, s *Store, c collection[T], id string) error {
	items, err := load(ctx, s, c)
	if err != nil {
		return err
	}
	i := find(c, items, id)
	if i < 0 {
		return ErrNotFound
	}

	items = append(items[:i], items[i+1:]...)
	return save(ctx, s, c, items)
}

// merge overlays the top-level fields of patch on rec. The id never changes.
func merge[T any](rec T, patch domain.Patch) (T, error) {
	var out T
	base, err := json.Marshal(rec)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(base, &fields); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		fields[k] = v
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := json.Unmarshal(merged, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return out, nil
}

func validateRecord(rec any) error {
	if err := domain.Validate(rec); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}

// newID returns "<prefix>-<unix ms>-<8 hex>" not present in taken.
func newID(prefix string, taken map[string]struct{}) string {
	for {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		id := fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), suffix)
		if _, ok := taken[id]; !ok {
			return id
		}
	}
}

// cloneJSON deep-copies seed records so callers never share them.
func cloneJSON[T any](items []T) []T {
	out := []T{}
	raw, err := json.Marshal(items)
	if err != nil {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return []T{}
	}
	return out
}
