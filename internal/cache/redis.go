package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// queryTimeout bounds individual Redis operations so a slow backing store
// cannot stall the pipeline. Cache calls are assumed fast and local.
const queryTimeout = 5 * time.Second

// Redis is a Store backed by a shared Redis instance, letting multiple
// service replicas share resolved results. Expiry is delegated to native
// Redis key TTLs.
type Redis struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedis wraps an existing client. The caller owns the client lifecycle.
func NewRedis(client *redis.Client, logger *slog.Logger) *Redis {
	return &Redis{client: client, logger: logger}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	qctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	data, err := r.client.Get(qctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		// Degrade to a miss: the caller re-resolves instead of failing.
		r.logger.Warn("cache read failed, treating as miss", "key", key, "error", err)
		return nil, false
	}
	return data, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	qctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.client.Set(qctx, key, value, ttl).Err()
}

// CheckReadiness pings the backing Redis instance.
func (r *Redis) CheckReadiness(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
