//go:build integration

package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/cockroachdb/cockroach-go/v2/testserver"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecoquest/community/internal/community"
	"github.com/ecoquest/community/internal/models"
	"github.com/ecoquest/community/internal/store"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	server, err := testserver.NewTestServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "start cockroach test server: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, server.PGURL().String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to cockroach test server: %v\n", err)
		server.Stop()
		os.Exit(1)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "apply migrations: %v\n", err)
		pool.Close()
		server.Stop()
		os.Exit(1)
	}

	testPool = pool

	code := m.Run()

	pool.Close()
	server.Stop()

	os.Exit(code)
}

func TestPostgresRecordStore_GetAndPut(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	records := NewPostgresRecordStore(testPool)

	if _, err := records.Get(ctx, store.KeyPosts); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing record, got %v", err)
	}

	if err := records.Put(ctx, store.KeyPosts, []byte(`[{"id":"p1"}]`)); err != nil {
		t.Fatalf("put record: %v", err)
	}
	if err := records.Put(ctx, store.KeyPosts, []byte(`[{"id":"p2"},{"id":"p1"}]`)); err != nil {
		t.Fatalf("overwrite record: %v", err)
	}

	value, err := records.Get(ctx, store.KeyPosts)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}

	var got []map[string]string
	if err := json.Unmarshal(value, &got); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if len(got) != 2 || got[0]["id"] != "p2" {
		t.Fatalf("expected overwritten record, got %s", value)
	}
}

func TestPostgresRecordStore_BacksCommunityEngine(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	adapter := store.NewAdapter(NewPostgresRecordStore(testPool))
	engine := community.NewEngine(ctx, community.Options{Store: adapter})

	author := &models.UserSummary{ID: "u1", Name: "Ana"}
	res := engine.AddPost(ctx, author, community.PostInput{
		MediaURL:  "https://cdn.example.com/tree.jpg",
		MediaType: models.MediaTypeImage,
		Caption:   "Planted a tree",
	})
	engine.LikePost(ctx, res.Post.ID, "u2")
	engine.AddStory(ctx, author, community.StoryInput{MediaURL: "https://cdn.example.com/story.jpg"})

	reloaded := community.NewEngine(ctx, community.Options{Store: adapter})
	post, ok := reloaded.Post(res.Post.ID)
	if !ok {
		t.Fatal("expected post to survive reload")
	}
	if len(post.Likes) != 1 || !timesClose(post.CreatedAt, res.Post.CreatedAt, time.Millisecond) {
		t.Fatalf("unexpected reloaded post: %+v", post)
	}
	if len(reloaded.Stories()) != 1 {
		t.Fatalf("expected story to survive reload")
	}
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir := filepath.Join("..", "..", "migrations")
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
			continue
		}
		contents, err := os.ReadFile(filepath.Join(migrationsDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		if _, err := pool.Exec(ctx, string(contents)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func resetDatabase(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	conn, err := testPool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire connection: %v", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "TRUNCATE TABLE community_records"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func timesClose(a, b time.Time, delta time.Duration) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= delta
}
