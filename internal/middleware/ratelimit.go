// ratelimit.go implements a per-IP rate limiter backed by Redis using a
// fixed window counter (INCR + EXPIRE). Designed for the login endpoints:
// counters survive process restarts and are shared across replicas, which
// an in-process map cannot provide.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Limiter counts hits per key in fixed windows. If Redis is unreachable
// it fails open — availability of login matters more than strict
// throttling.
type Limiter struct {
	rdb    *redis.Client
	max    int
	window time.Duration
}

// NewLimiter creates a limiter allowing max hits per key within window.
func NewLimiter(rdb *redis.Client, max int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, max: max, window: window}
}

// Allow records one hit against key and reports whether it is within the
// window's budget.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		slog.Warn("rate limiter unavailable, allowing request",
			slog.Any("error", err),
		)
		return true
	}

	// First hit in this window starts the clock.
	if count == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			slog.Warn("setting rate limit window failed", slog.Any("error", err))
		}
	}

	return count <= int64(l.max)
}

// RateLimit returns middleware that applies the limiter per IP and route.
// Returns 429 when exceeded.
func RateLimit(limiter *Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("ratelimit:%s:%s", c.Path(), c.RealIP())
			if !limiter.Allow(c.Request().Context(), key) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error":   "Too Many Requests",
					"message": "Rate limit exceeded. Please try again later.",
				})
			}
			return next(c)
		}
	}
}
