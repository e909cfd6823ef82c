package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type queries struct {
	get    string
	set    string
	remove string
	list   string
	clear  string
}

var sqliteQueries = queries{
	get: `SELECT value FROM records WHERE key = ?`,
	set: `
		INSERT INTO records (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`,
	remove: `DELETE FROM records WHERE key = ?`,
	list:   `SELECT key, value FROM records`,
	clear:  `DELETE FROM records`,
}

var postgresQueries = queries{
	get: `SELECT value FROM records WHERE key = $1`,
	set: `
		INSERT INTO records (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`,
	remove: `DELETE FROM records WHERE key = $1`,
	list:   `SELECT key, value FROM records`,
	clear:  `DELETE FROM records`,
}

// SQLRepository implements Repository over an execer, so the same code
// serves both the pooled handle and an open transaction.
type SQLRepository struct {
	db execer
	q  queries
}

func newSQLRepository(db execer, q queries) *SQLRepository {
	return &SQLRepository{db: db, q: q}
}

func (r *SQLRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, r.q.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLRepository) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if _, err := r.db.ExecContext(ctx, r.q.set, key, value); err != nil {
		return fmt.Errorf("failed to set record[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLRepository) Remove(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, r.q.remove, key); err != nil {
		return fmt.Errorf("failed to remove record[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, r.q.clear); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}

func (r *SQLRepository) List(ctx context.Context) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, r.q.list)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate record rows: %w", err)
	}

	return result, nil
}
