package store

import (
	"context"
	"errors"
)

// Record keys, one per persisted collection.
const (
	KeyPosts   = "communityPosts_v1"
	KeyStories = "communityStories_v1"
	KeyThreads = "communityDM_v1"
)

var (
	// ErrNotFound indicates no value has been stored under the key.
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable indicates the backend is not configured or reachable.
	ErrUnavailable = errors.New("record store unavailable")
)

// Backend persists opaque JSON documents by key.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
