package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ecoquest/community/internal/db"
	"github.com/ecoquest/community/internal/store"
)

// PostgresRecordStore keeps community records in the community_records table.
type PostgresRecordStore struct {
	pool db.Pool
	now  func() time.Time
}

// NewPostgresRecordStore constructs a record store backed by PostgreSQL.
func NewPostgresRecordStore(pool db.Pool) *PostgresRecordStore {
	return &PostgresRecordStore{pool: pool, now: func() time.Time { return time.Now().UTC() }}
}

// Get loads the JSON document stored under key.
func (r *PostgresRecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT value
        FROM community_records
        WHERE key = $1
    `, key)

	var value []byte
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("select record %s: %w", key, err)
	}

	return value, nil
}

// Put upserts the JSON document under key.
func (r *PostgresRecordStore) Put(ctx context.Context, key string, value []byte) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO community_records (key, value, updated_at)
        VALUES ($1, $2::jsonb, $3)
        ON CONFLICT (key)
        DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
    `, key, string(value), r.now())
	if err != nil {
		return fmt.Errorf("upsert record %s: %w", key, err)
	}

	return nil
}

var _ store.Backend = (*PostgresRecordStore)(nil)
