package repositories

import (
	"context"
	"time"
)

// CacheRepository is a JSON value cache. A miss is (false, nil).
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}
