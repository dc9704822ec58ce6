// Package audit records user actions in the activity log off the request path.
package audit

import (
	"context"
	"fmt"
	"rab-dashboard/internal/domain"
	"rab-dashboard/internal/worker"
	"time"
)

// Recorder accepts activity log entries.
type Recorder interface {
	Record(actor, action, target, details string)
}

type LogStore interface {
	AppendLog(ctx context.Context, entry domain.LogEntry) (domain.LogEntry, error)
}

// PoolRecorder appends entries through a worker pool.
type PoolRecorder struct {
	pool  *worker.WorkerPool
	store LogStore
	now   func() time.Time
}

func NewRecorder(pool *worker.WorkerPool, store LogStore) *PoolRecorder {
	return &PoolRecorder{
		pool:  pool,
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Record stamps the entry now and queues the write. A full queue drops it.
func (r *PoolRecorder) Record(actor, action, target, details string) {
	entry := domain.LogEntry{
		Timestamp: r.now(),
		Actor:     actor,
		Action:    action,
		Target:    target,
		Details:   details,
	}
	r.pool.Submit(func(ctx context.Context) error {
		if _, err := r.store.AppendLog(ctx, entry); err != nil {
			return fmt.Errorf("append log %q: %w", action, err)
		}
		return nil
	})
}

// Discard drops every entry.
type Discard struct{}

func (Discard) Record(actor, action, target, details string) {}
