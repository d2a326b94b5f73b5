// Package cache holds the process-wide Redis client and the read-through
// caches for users, posts and matchmaking posts. Every helper is a no-op
// when Redis is not connected.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sportsync/internal/middleware"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// errorCounter feeds failed commands into the redis_errors_total metric.
type errorCounter struct{}

func (errorCounter) DialHook(next redis.DialHook) redis.DialHook { return next }

func (errorCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		countError(cmd.Name(), err)
		return err
	}
}

func (errorCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		countError("pipeline", err)
		return err
	}
}

func countError(op string, err error) {
	if err != nil && !errors.Is(err, redis.Nil) {
		middleware.RedisErrors.WithLabelValues(op).Inc()
	}
}

// clientOptions accepts a redis:// URL or a bare host:port.
func clientOptions(addr string) (*redis.Options, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("empty address")
	}
	if !strings.Contains(addr, "://") {
		return &redis.Options{Addr: addr}, nil
	}
	opts, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return opts, nil
}

// InitRedis connects the package client. When Redis cannot be reached the
// client stays nil: caching, realtime push and rate limiting switch off.
func InitRedis(addr string) {
	client = nil

	opts, err := clientOptions(addr)
	if err != nil {
		middleware.Logger.Warn("Redis disabled", slog.String("error", err.Error()))
		return
	}

	c := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis unavailable, continuing without it",
			slog.String("addr", opts.Addr), slog.String("error", err.Error()))
		_ = c.Close()
		return
	}

	SetClient(c)
	middleware.Logger.Info("Redis connected", slog.String("addr", opts.Addr))
}

// SetClient replaces the package client. Tests point it at miniredis.
func SetClient(c *redis.Client) {
	client = c
	if c != nil {
		c.AddHook(errorCounter{})
	}
}

// GetClient returns the current Redis client, or nil.
func GetClient() *redis.Client {
	return client
}

// Enabled reports whether a Redis client is connected.
func Enabled() bool {
	return client != nil
}
