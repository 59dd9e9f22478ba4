package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// counterScript increments the fixed-window counter and sets its TTL in
// one atomic step, so a counter can never be left without an expiry.
var counterScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('EXPIRE', KEYS[1], ARGV[1])
	end
	return count
`)

// RateLimit applies a fixed-window counter per client IP and route.
// Intended for the credential endpoints where brute force is the concern.
// A nil client or a Redis failure disables the limit rather than blocking
// logins.
func RateLimit(client *redis.Client, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if client == nil {
				return next(c)
			}
			key := "rl:" + c.Path() + ":" + c.RealIP()
			ctx := c.Request().Context()
			count, err := counterScript.Run(ctx, client,
				[]string{key}, int64(window/time.Second)).Int64()
			if err != nil {
				return next(c)
			}
			if count > int64(limit) {
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "Too many requests"})
			}
			return next(c)
		}
	}
}
