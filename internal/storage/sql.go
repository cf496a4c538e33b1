// internal/storage/sql.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Dialect holds the per-driver SQL for the key-value table.
type Dialect struct {
	Name   string
	Driver string
	schema string
	get    string
	upsert string
	delete string
}

var (
	Postgres = Dialect{
		Name:   "postgres",
		Driver: "postgres",
		schema: `
			CREATE TABLE IF NOT EXISTS kv_store (
				store_key   TEXT PRIMARY KEY,
				store_value TEXT NOT NULL,
				updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
		get: `SELECT store_value FROM kv_store WHERE store_key = $1`,
		upsert: `
			INSERT INTO kv_store (store_key, store_value, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (store_key) DO UPDATE
			SET store_value = EXCLUDED.store_value,
			    updated_at = EXCLUDED.updated_at`,
		delete: `DELETE FROM kv_store WHERE store_key = $1`,
	}

	MySQL = Dialect{
		Name:   "mysql",
		Driver: "mysql",
		schema: `
			CREATE TABLE IF NOT EXISTS kv_store (
				store_key   VARCHAR(255) PRIMARY KEY,
				store_value MEDIUMTEXT NOT NULL,
				updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		get: `SELECT store_value FROM kv_store WHERE store_key = ?`,
		upsert: `
			INSERT INTO kv_store (store_key, store_value, updated_at)
			VALUES (?, ?, NOW())
			ON DUPLICATE KEY UPDATE
			store_value = VALUES(store_value),
			updated_at = VALUES(updated_at)`,
		delete: `DELETE FROM kv_store WHERE store_key = ?`,
	}

	SQLite = Dialect{
		Name:   "sqlite",
		Driver: "sqlite",
		schema: `
			CREATE TABLE IF NOT EXISTS kv_store (
				store_key   TEXT PRIMARY KEY,
				store_value TEXT NOT NULL,
				updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		get: `SELECT store_value FROM kv_store WHERE store_key = ?`,
		upsert: `
			INSERT INTO kv_store (store_key, store_value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (store_key) DO UPDATE
			SET store_value = excluded.store_value,
			    updated_at = excluded.updated_at`,
		delete: `DELETE FROM kv_store WHERE store_key = ?`,
	}
)

// SQLStore keeps values in a single kv_store table.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// EnsureSchema creates the kv_store table if it does not exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.schema); err != nil {
		return fmt.Errorf("create %s schema: %w", s.dialect.Name, err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.dialect.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.upsert, key, value); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.delete, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
