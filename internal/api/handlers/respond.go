package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/btr-engine/backend/internal/astro"
	rediscache "github.com/btr-engine/backend/internal/cache/redis"
	"github.com/btr-engine/backend/internal/metrics"
	"github.com/btr-engine/backend/internal/middleware/validation"
	"github.com/btr-engine/backend/internal/search"
	"github.com/btr-engine/backend/pkg/logger"
	"github.com/btr-engine/backend/pkg/utils"
)

// Cache stores rendered responses. The Redis client satisfies it; a nil
// Cache disables caching.
type Cache interface {
	Get(ctx context.Context, kind rediscache.Kind, hash string) ([]byte, bool, error)
	Set(ctx context.Context, kind rediscache.Kind, hash string, v any) error
}

// birthInput returns the input checked by the validation middleware, or
// parses and validates the body itself when the route is not covered.
func birthInput(c *fiber.Ctx) (*search.Input, search.Request, error) {
	if in, ok := validation.Input(c); ok {
		req, _ := validation.Request(c)
		return in, req, nil
	}

	var req search.Request
	if err := c.BodyParser(&req); err != nil {
		return nil, req, fmt.Errorf("%w: invalid request body", search.ErrIncompleteInput)
	}
	in, err := req.Validate()
	return in, req, err
}

// writeError maps the engine's sentinel errors onto HTTP responses. No-result
// outcomes are informational and answered with 200.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, search.ErrIncompleteInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, search.ErrNoResult), errors.Is(err, astro.ErrNoSunrise):
		return c.JSON(fiber.Map{
			"found":   false,
			"message": err.Error(),
		})
	}

	logger.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

// track records duration and outcome of one operation. A no-result outcome
// still counts as ok.
func track[T any](op string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	metrics.RequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	status := "ok"
	if err != nil && !errors.Is(err, search.ErrNoResult) {
		status = "error"
	}
	metrics.RequestTotal.WithLabelValues(op, status).Inc()
	return v, err
}

// serveCached answers from cache when possible, otherwise computes, stores and
// sends the response. Cache failures only cost a recomputation.
func serveCached(c *fiber.Ctx, cache Cache, kind rediscache.Kind, key any, compute func() (any, error)) error {
	var hash string
	if cache != nil {
		h, err := utils.HashJSON(key)
		if err != nil {
			logger.Warn("Failed to hash cache key", zap.Error(err))
		} else {
			hash = h
		}
	}

	ctx := c.UserContext()
	if hash != "" {
		data, ok, err := cache.Get(ctx, kind, hash)
		if err != nil {
			logger.Warn("Cache read failed", zap.String("kind", string(kind)), zap.Error(err))
		}
		if ok {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			c.Set("X-Cache", "HIT")
			return c.Send(data)
		}
	}

	v, err := compute()
	if err != nil {
		return writeError(c, err)
	}

	if hash != "" {
		if err := cache.Set(ctx, kind, hash, v); err != nil {
			logger.Warn("Cache write failed", zap.String("kind", string(kind)), zap.Error(err))
		}
		c.Set("X-Cache", "MISS")
	}
	return c.JSON(v)
}
