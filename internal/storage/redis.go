package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"example.com/kiosk/pkg/storage"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultDisplayTTL keeps a display for a working day after its last update.
	DefaultDisplayTTL = 12 * time.Hour

	connectRetryInterval = 2 * time.Second
)

// RedisStorage keeps display state under display:<id> keys with a sliding TTL.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
	retry  time.Duration
}

var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage parses redisURL (redis://host:port/db) without dialing.
// A non-positive ttl falls back to DefaultDisplayTTL.
func NewRedisStorage(redisURL string, ttl time.Duration, logger *slog.Logger) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultDisplayTTL
	}
	return &RedisStorage{
		client: redis.NewClient(opt),
		logger: logger.With("component", "storage"),
		ttl:    ttl,
		retry:  connectRetryInterval,
	}, nil
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis: %w", err)
	}
	r.logger.Info("Display storage closed")
	return nil
}

// Client exposes the connection pool so events and the request queue can share it.
func (r *RedisStorage) Client() *redis.Client {
	return r.client
}

// WaitForConnection pings until Redis answers or ctx ends. Kiosk containers
// usually start before Redis does.
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		err := r.Ping(ctx)
		if err == nil {
			r.logger.Info("Display storage reachable", "attempts", attempt, "ttl", r.ttl)
			return nil
		}
		r.logger.Debug("Redis not ready yet", "error", err, "attempt", attempt)

		select {
		case <-ctx.Done():
			return fmt.Errorf("redis unavailable after %d attempts: %w", attempt, ctx.Err())
		case <-ticker.C:
		}
	}
}
