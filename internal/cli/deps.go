package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"innosistemas/api/internal/cache"
	"innosistemas/api/internal/config"
	"innosistemas/api/internal/db"
	"innosistemas/api/internal/repository"
	"innosistemas/api/internal/repository/memory"
	"innosistemas/api/internal/repository/postgres"
)

// openStore returns the configured store and a function releasing it.
// PostgreSQL stores are migrated before use.
func openStore(ctx context.Context, cfg config.Config) (repository.Store, func(), error) {
	if cfg.UsesMemoryStore() {
		ctxlog.From(ctx).Warn("using in-memory store, data is lost on exit")
		return memory.New(), func() {}, nil
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return postgres.NewStore(pool), pool.Close, nil
}

func openDenylist(ctx context.Context, cfg config.Config) (cache.Denylist, func(), error) {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryDenylist(), func() {}, nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			ctxlog.From(ctx).Warn("redis close error", "error", err)
		}
	}
	return cache.NewRedisDenylist(client), closeFn, nil
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, goerr.Wrap(err, "load config")
	}
	return cfg, nil
}
