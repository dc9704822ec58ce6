package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// ErrClosed is returned by a substrate after Close.
var ErrClosed = errors.New("kv: substrate closed")

// Substrate is a durable string-keyed store of serialized values.
type Substrate interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes every entry or none of them.
	SetMany(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}

// Keyspace namespaces collection names inside a substrate.
type Keyspace string

func (ks Keyspace) Key(name string) string {
	if ks == "" {
		return name
	}
	return fmt.Sprintf("%s:%s", ks, name)
}

// GetJSON decodes the value at key into a T. A missing key or a value that
// does not parse yields fallback; only substrate faults are returned as errors.
func GetJSON[T any](ctx context.Context, s Substrate, key string, fallback T) (T, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return fallback, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return fallback, nil
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		slog.Warn("corrupt value in substrate, using fallback", "key", key, "error", err)
		return fallback, nil
	}
	return value, nil
}

// SetJSON encodes value and stores it under key.
func SetJSON(ctx context.Context, s Substrate, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
