package store

import (
	"context"
	"fmt"
	"log/slog"

	"tycoon/internal/config"
	"tycoon/internal/db"
)

type pgStore struct {
	*Postgres
	closePool func()
}

func (p pgStore) Close() error {
	p.closePool()
	return nil
}

// Open builds the store selected by cfg.Store.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (Store, error) {
	switch cfg.Store {
	case config.StoreMemory, "":
		return NewMemory(), nil
	case config.StoreRedis:
		return NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	case config.StorePostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return pgStore{Postgres: NewPostgres(pool), closePool: pool.Close}, nil
	case config.StoreSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
