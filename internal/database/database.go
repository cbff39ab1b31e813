// Package database selects and opens the configured Store.
package database

import (
	"context"
	"fmt"
	"time"

	"topup/internal/config"
	"topup/internal/repositories"
	"topup/internal/repositories/cache"
	"topup/internal/repositories/memory"
	"topup/internal/repositories/postgres"

	"github.com/sirupsen/logrus"
)

// Open returns the Store named by cfg.StoreDriver. The choice is made once;
// a failing Postgres connection is an error, never a silent switch to memory.
func Open(ctx context.Context, cfg config.Config, log *logrus.Logger) (repositories.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warn("using in-memory store; data is lost on restart")
		return memory.New(), nil
	case config.StorePostgres:
		store, err := postgres.Open(ctx, postgres.Options{
			DSN:             cfg.DatabaseURL,
			MaxIdleConns:    cfg.MaxIdleConns,
			MaxOpenConns:    cfg.MaxOpenConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		}, log)
		if err != nil {
			return nil, err
		}
		log.Info("PostgreSQL connected and migrations applied")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// OpenCache returns a Redis-backed cache when REDIS_ADDR is set and an
// in-process cache otherwise.
func OpenCache(ctx context.Context, cfg config.Config, log *logrus.Logger) (repositories.CacheRepository, error) {
	ttl := cfg.UserCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, using in-process cache")
		return cache.NewMemoryCache(ttl), nil
	}

	client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, err
	}
	log.WithField("addr", cfg.RedisAddr).Info("redis connected")
	return cache.NewCacheService(client, ttl), nil
}
