package audit

import (
	"context"
	"errors"
	"rab-dashboard/internal/domain"
	"rab-dashboard/internal/worker"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogStore struct {
	mu      sync.Mutex
	entries []domain.LogEntry
	err     error
}

func (f *fakeLogStore) AppendLog(ctx context.Context, entry domain.LogEntry) (domain.LogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.LogEntry{}, f.err
	}
	f.entries = append(f.entries, entry)
	return entry, nil
}

func TestPoolRecorder_AppendsThroughPool(t *testing.T) {
	pool := worker.NewWorkerPool(1)
	logs := &fakeLogStore{}
	rec := NewRecorder(pool, logs)

	rec.Record("admin.utama", "login", "usr-1", "")
	rec.Record("admin.utama", "delete document", "rab-init-1", "RAB")
	pool.Shutdown()

	require.Len(t, logs.entries, 2)
	assert.Equal(t, "login", logs.entries[0].Action)
	assert.Equal(t, "rab-init-1", logs.entries[1].Target)
	assert.False(t, logs.entries[0].Timestamp.IsZero())
}

func TestPoolRecorder_StoreFailureIsSwallowed(t *testing.T) {
	pool := worker.NewWorkerPool(1)
	logs := &fakeLogStore{err: errors.New("disk full")}
	rec := NewRecorder(pool, logs)

	assert.NotPanics(t, func() {
		rec.Record("gatot.proyek", "logout", "usr-3", "")
		pool.Shutdown()
	})
	assert.Empty(t, logs.entries)
}
