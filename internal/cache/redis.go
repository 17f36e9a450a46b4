// Package cache holds the Redis-backed read caches: single posts, unread
// notification counts and the university catalogue.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"studyoverflow/internal/observability"

	"github.com/redis/go-redis/v9"
)

const connectTimeout = 5 * time.Second

var client *redis.Client

// errorCountingHook feeds failed commands into the Redis error metric. Misses
// (redis.Nil) are part of normal cache-aside traffic and are not counted.
type errorCountingHook struct{}

func (errorCountingHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (errorCountingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (errorCountingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		// A WATCH conflict is an expected outcome of a guarded cache fill.
		if err != nil && !errors.Is(err, redis.Nil) && !errors.Is(err, redis.TxFailedErr) {
			observability.RedisErrorRate.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// parseRedisOptions accepts either a redis:// URL or a bare host:port.
func parseRedisOptions(addr string) (*redis.Options, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("empty address")
	}
	if strings.Contains(addr, "://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: addr}, nil
}

// InitRedis connects the cache to addr. Any failure leaves caching disabled;
// the API then reads straight from the database.
func InitRedis(addr string) {
	logger := observability.GlobalLogger
	if strings.TrimSpace(addr) == "" {
		logger.Info("post and notification caches disabled: REDIS_URL not set")
		client = nil
		return
	}

	opts, err := parseRedisOptions(addr)
	if err != nil {
		logger.Warn("post and notification caches disabled", slog.String("error", err.Error()))
		client = nil
		return
	}

	c := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		logger.Warn("post and notification caches disabled: redis unreachable",
			slog.String("addr", opts.Addr),
			slog.String("error", err.Error()),
		)
		_ = c.Close()
		client = nil
		return
	}

	SetClient(c)
	logger.Info("redis cache connected", slog.String("addr", opts.Addr), slog.Int("db", opts.DB))
}

// GetClient returns the current Redis client instance.
func GetClient() *redis.Client {
	return client
}

// SetClient replaces the package client. Passing nil disables caching.
func SetClient(c *redis.Client) {
	if c != nil {
		c.AddHook(errorCountingHook{})
	}
	client = c
}
