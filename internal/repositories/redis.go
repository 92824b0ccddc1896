package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ecoquest/community/internal/store"
)

// RedisRecordStore keeps each community record as a plain Redis string.
type RedisRecordStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisClient connects to addr and verifies the connection with PING.
func NewRedisClient(ctx context.Context, addr, password string, database int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       database,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// NewRedisRecordStore wraps client, namespacing keys with prefix.
func NewRedisRecordStore(client redis.Cmdable, prefix string) *RedisRecordStore {
	return &RedisRecordStore{client: client, prefix: prefix}
}

// Get reads the record stored under key.
func (s *RedisRecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

// Put writes the record without expiry; retention is the operator's policy.
func (s *RedisRecordStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

var _ store.Backend = (*RedisRecordStore)(nil)
