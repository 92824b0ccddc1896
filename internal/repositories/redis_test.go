package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ecoquest/community/internal/store"
)

// fakeRedis implements the two commands the record store issues.
type fakeRedis struct {
	redis.Cmdable
	data   map[string]string
	setErr error
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	value, ok := f.data[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(value)
	return cmd
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key, value)
	if f.setErr != nil {
		cmd.SetErr(f.setErr)
		return cmd
	}
	f.data[key] = string(value.([]byte))
	cmd.SetVal("OK")
	return cmd
}

func TestRedisRecordStore(t *testing.T) {
	ctx := context.Background()
	client := &fakeRedis{data: make(map[string]string)}
	records := NewRedisRecordStore(client, "community:")

	if _, err := records.Get(ctx, store.KeyStories); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}

	if err := records.Put(ctx, store.KeyStories, []byte(`[]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok := client.data["community:"+store.KeyStories]; !ok {
		t.Fatalf("expected prefixed key, have %v", client.data)
	}

	value, err := records.Get(ctx, store.KeyStories)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(value) != `[]` {
		t.Fatalf("unexpected value %q", value)
	}

	client.setErr = errors.New("OOM command not allowed")
	if err := records.Put(ctx, store.KeyStories, []byte(`[]`)); err == nil {
		t.Fatal("expected set error to surface from the backend")
	}
}
