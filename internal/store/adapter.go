package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ecoquest/community/internal/logging"
)

// Adapter loads and saves collections through a Backend. Every failure
// (missing backend, missing key, corrupt payload, rejected write) is logged
// and absorbed: loads fall back to the caller's default and writes are dropped.
type Adapter struct {
	backend Backend
}

// NewAdapter wraps the backend. A nil backend behaves as unavailable storage.
func NewAdapter(backend Backend) *Adapter {
	return &Adapter{backend: backend}
}

// Load returns the value stored under key, or fallback when it is missing,
// unreadable or not valid JSON for T.
func Load[T any](ctx context.Context, a *Adapter, key string, fallback T) T {
	logger := logging.FromContext(ctx)

	raw, err := a.get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("record load failed, using default", "key", key, "error", err)
		}
		return fallback
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		logger.Warn("record corrupt, using default", "key", key, "error", err)
		return fallback
	}
	return value
}

// Save encodes value and writes it under key. Failures are logged, never returned.
func (a *Adapter) Save(ctx context.Context, key string, value any) {
	logger := logging.FromContext(ctx)

	if a == nil || a.backend == nil {
		logger.Warn("record write skipped", "key", key, "error", ErrUnavailable)
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		logger.Warn("record encode failed, write skipped", "key", key, "error", err)
		return
	}

	if err := a.backend.Put(ctx, key, payload); err != nil {
		logger.Warn("record write failed, dropped", "key", key, "error", err)
	}
}

func (a *Adapter) get(ctx context.Context, key string) ([]byte, error) {
	if a == nil || a.backend == nil {
		return nil, ErrUnavailable
	}
	raw, err := a.backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrNotFound
	}
	return raw, nil
}
