package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// KVRepository stores scoped string values in the kv_store table. It satisfies auth.KV.
type KVRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewKVRepository creates a new KVRepository with the given database connection
func NewKVRepository(db *sqlx.DB) *KVRepository {
	return &KVRepository{db: db, now: time.Now}
}

// Get returns the value stored under scope and key. A missing key is not an error.
func (r *KVRepository) Get(ctx context.Context, scope, key string) (string, bool, error) {
	var value string
	err := r.db.GetContext(ctx, &value, `SELECT value FROM kv_store WHERE scope = ? AND key = ?`, scope, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s/%s: %w", scope, key, err)
	}
	return value, true, nil
}

// Set inserts or replaces a value.
func (r *KVRepository) Set(ctx context.Context, scope, key, value string) error {
	query := `
		INSERT INTO kv_store (scope, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, scope, key, value, toMillis(r.now())); err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", scope, key, err)
	}
	return nil
}

func (r *KVRepository) Delete(ctx context.Context, scope, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv_store WHERE scope = ? AND key = ?`, scope, key); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", scope, key, err)
	}
	return nil
}

// Clear removes every key in scope.
func (r *KVRepository) Clear(ctx context.Context, scope string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv_store WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("failed to clear %s: %w", scope, err)
	}
	return nil
}

// Keys lists the keys held in scope, sorted.
func (r *KVRepository) Keys(ctx context.Context, scope string) ([]string, error) {
	keys := []string{}
	if err := r.db.SelectContext(ctx, &keys, `SELECT key FROM kv_store WHERE scope = ? ORDER BY key`, scope); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", scope, err)
	}
	return keys, nil
}
