// internal/storage/open.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"storefront/internal/config"
)

// Open builds the backend named by cfg.Backend, wrapped in an AsyncStore when cfg.Async is set.
func Open(ctx context.Context, cfg config.Storage, logger *zap.Logger) (Store, error) {
	store, err := open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("storage opened",
		zap.String("backend", cfg.Backend),
		zap.Bool("async", cfg.Async))

	if cfg.Async {
		return NewAsyncStore(store, logger), nil
	}
	return store, nil
}

func open(ctx context.Context, cfg config.Storage) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendFile:
		return NewFileStore(cfg.Path)
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		return openSQL(ctx, SQLite, cfg.Path)
	case config.BackendPostgres:
		return openSQL(ctx, Postgres, cfg.DSN)
	case config.BackendMySQL:
		return openSQL(ctx, MySQL, cfg.DSN)
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect redis: %w", err)
		}
		return NewRedisStore(client, cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func openSQL(ctx context.Context, dialect Dialect, dsn string) (Store, error) {
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dialect.Name, err)
	}
	if dialect.Driver == SQLite.Driver {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", dialect.Name, err)
	}

	store := NewSQLStore(db, dialect)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
