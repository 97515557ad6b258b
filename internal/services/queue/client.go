package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Client is the Redis connection behind the request queue.
type Client struct {
	rdb    *redis.Client
	logger *slog.Logger
	owned  bool
}

// NewClient dials redisURL and fails unless the server answers a ping.
// Workers use their own connection so blocking pops never hold up storage calls.
func NewClient(ctx context.Context, redisURL string, logger *slog.Logger) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	c := &Client{
		rdb:    redis.NewClient(opt),
		logger: logger.With("component", "queue"),
		owned:  true,
	}
	if err := c.Ping(ctx); err != nil {
		_ = c.rdb.Close()
		return nil, err
	}

	c.logger.Info("Request queue connected", "addr", opt.Addr, "db", opt.DB, "key", RequestsKey)
	return c, nil
}

// NewClientWithRedis shares rdb with the caller, who stays responsible for closing it.
func NewClientWithRedis(rdb *redis.Client, logger *slog.Logger) *Client {
	return &Client{
		rdb:    rdb,
		logger: logger.With("component", "queue"),
	}
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	return nil
}

// Close is a no-op for shared connections.
func (c *Client) Close() error {
	if !c.owned {
		return nil
	}
	return c.rdb.Close()
}
