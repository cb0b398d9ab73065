package redis

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/quorumbot/logger"
	"github.com/kbukum/quorumbot/provider"
)

// Client is the small slice of go-redis the session store needs.
type Client struct {
	rdb    *goredis.Client
	log    *logger.Logger
	closed atomic.Bool
}

var _ provider.Provider = (*Client)(nil)

// New builds a client for an enabled config. Nothing is dialed until the
// first command.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	if !cfg.Enabled {
		return nil, errors.New("redis: not enabled")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	log.Info("redis session store configured", logger.Fields(
		"addr", cfg.Addr, "db", cfg.DB, "prefix", cfg.KeyPrefix,
	))
	return &Client{rdb: goredis.NewClient(cfg.options()), log: log}, nil
}

func (c *Client) Name() string { return "redis" }

// IsAvailable is false once closed or while PING fails.
func (c *Client) IsAvailable(ctx context.Context) bool {
	return !c.closed.Load() && c.Ping(ctx) == nil
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

// Get fails with an error matched by IsNil when key is absent.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.rdb.Get(ctx, key).Result()
}

// Set stores value under key; ttl 0 never expires.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

// IsNil reports a missing key.
func IsNil(err error) bool { return errors.Is(err, goredis.Nil) }

// Close is idempotent.
func (c *Client) Close() error {
	if c == nil || c.closed.Swap(true) {
		return nil
	}
	c.log.Info("closing redis connection")
	return c.rdb.Close()
}
