package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the contract every backend must satisfy.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "shoppingCart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "shoppingCart", `[{"id":3,"quantity":2}]`))
	v, ok, err := s.Get(ctx, "shoppingCart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":3,"quantity":2}]`, v)

	require.NoError(t, s.Set(ctx, "shoppingCart", `[]`))
	v, ok, err = s.Get(ctx, "shoppingCart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)

	require.NoError(t, s.Delete(ctx, "shoppingCart"))
	_, ok, err = s.Get(ctx, "shoppingCart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete(ctx, "never-set"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStoreEscapesKeys(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "../outside", "x"))
	_, err = os.Stat(filepath.Join(filepath.Dir(dir), "outside.json"))
	assert.True(t, os.IsNotExist(err))

	v, ok, err := s.Get(ctx, "../outside")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestSQLiteStore(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)

	s := NewSQLStore(db, SQLite)
	defer s.Close()
	require.NoError(t, s.EnsureSchema(context.Background()))
	require.NoError(t, s.EnsureSchema(context.Background()))
	exerciseStore(t, s)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	if err := db.Ping(); err != nil {
		t.Skipf("Postgres not available: %v", err)
	}

	s := NewSQLStore(db, Postgres)
	defer s.Close()
	require.NoError(t, s.EnsureSchema(context.Background()))
	exerciseStore(t, s)
}

func TestMySQLStore(t *testing.T) {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		t.Skip("MYSQL_DSN not set")
	}
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	s := NewSQLStore(db, MySQL)
	defer s.Close()
	require.NoError(t, s.EnsureSchema(context.Background()))
	exerciseStore(t, s)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	s := NewRedisStore(client, "storefront-test:")
	defer s.Close()
	client.Del(context.Background(), "storefront-test:shoppingCart")
	exerciseStore(t, s)
}

func TestFaultyStore(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	f := NewFaultyStore(inner)

	require.NoError(t, f.Set(ctx, "k", "v1"))

	f.FailWrites(nil)
	assert.ErrorIs(t, f.Set(ctx, "k", "v2"), ErrInjected)
	assert.ErrorIs(t, f.Delete(ctx, "k"), ErrInjected)
	v, _, err := f.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	f.FailReads(nil)
	_, _, err = f.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, 3, f.Injected())

	require.NoError(t, f.Corrupt(ctx, "k", "{not json"))
	f.Heal()
	v, ok, err := f.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "{not json", v)
}
