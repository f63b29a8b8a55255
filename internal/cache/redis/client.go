package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/btr-engine/backend/internal/metrics"
	"github.com/btr-engine/backend/pkg/circuitbreaker"
	"github.com/btr-engine/backend/pkg/logger"
	"github.com/btr-engine/backend/pkg/retry"
)

// Kind namespaces cached payloads.
type Kind string

const (
	KindChart Kind = "chart"
	KindSweep Kind = "sweep"
)

func Key(kind Kind, hash string) string {
	return fmt.Sprintf("%s:%s", kind, hash)
}

type Options struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// Client caches rendered chart and sweep responses. Reads and writes go
// through a circuit breaker so an unavailable server degrades to cache misses.
type Client struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

func isFailure(err error) bool {
	return err != nil && !errors.Is(err, redis.Nil)
}

// pingErr marks server replies such as NOAUTH or WRONGPASS as permanent;
// only transport errors are worth another attempt.
func pingErr(err error) error {
	var reply redis.Error
	if errors.As(err, &reply) {
		return retry.Permanent(err)
	}
	return err
}

func NewClient(ctx context.Context, opts Options) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	cfg := retry.DefaultConfig()
	cfg.Logger = logger.Log
	err := retry.Do(ctx, cfg, func() error {
		return pingErr(client.Ping(ctx).Err())
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}

	logger.Info("Redis client initialized", zap.String("addr", addr), zap.Duration("ttl", opts.TTL))

	return &Client{
		client: client,
		ttl:    opts.TTL,
		breaker: circuitbreaker.NewCircuitBreaker("redis", circuitbreaker.Config{
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
			IsFailure:        isFailure,
			Logger:           logger.Log,
		}),
	}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Status is the state of the cache circuit breaker.
func (c *Client) Status() string {
	return c.breaker.State().String()
}

func (c *Client) Set(ctx context.Context, kind Kind, hash string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", kind, err)
	}

	err = c.breaker.Execute(ctx, func() error {
		return c.client.Set(ctx, Key(kind, hash), data, c.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to set %s cache: %w", kind, err)
	}

	logger.Debug("Response cached", zap.String("kind", string(kind)), zap.String("hash", hash), zap.Duration("ttl", c.ttl))
	return nil
}

// Get returns the cached JSON for hash. A miss is (nil, false, nil).
func (c *Client) Get(ctx context.Context, kind Kind, hash string) ([]byte, bool, error) {
	data, err := circuitbreaker.ExecuteWithResult(ctx, c.breaker, func() ([]byte, error) {
		return c.client.Get(ctx, Key(kind, hash)).Bytes()
	})
	if errors.Is(err, redis.Nil) {
		metrics.CacheMisses.WithLabelValues(string(kind)).Inc()
		return nil, false, nil
	}
	if err != nil {
		metrics.CacheMisses.WithLabelValues(string(kind)).Inc()
		return nil, false, fmt.Errorf("failed to get %s cache: %w", kind, err)
	}

	metrics.CacheHits.WithLabelValues(string(kind)).Inc()
	logger.Debug("Cache hit", zap.String("kind", string(kind)), zap.String("hash", hash))
	return data, true, nil
}

// Invalidate drops every cached entry of kind.
func (c *Client) Invalidate(ctx context.Context, kind Kind) error {
	iter := c.client.Scan(ctx, 0, Key(kind, "*"), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warn("Failed to delete cache key", zap.String("key", iter.Val()), zap.Error(err))
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to iterate cache keys: %w", err)
	}

	logger.Info("Cache invalidated", zap.String("kind", string(kind)))
	return nil
}
