package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// windowScript counts a hit and starts the window expiry on the first hit.
// A key left without a TTL is given one so it cannot block a client forever.
var windowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 or redis.call("PTTL", KEYS[1]) == -1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RateLimit counts requests per client IP in fixed windows stored in Redis.
// When Redis is unreachable requests are let through.
func RateLimit(client *redis.Client, maxRequests int, window time.Duration) echo.MiddlewareFunc {
	if client == nil {
		panic("redis client cannot be nil for RateLimit middleware")
	}
	if maxRequests <= 0 || window <= 0 {
		panic("RateLimit needs a positive limit and window")
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := "ratelimit:" + c.RealIP()

			count, err := windowScript.Run(ctx, client, []string{key}, window.Milliseconds()).Int64()
			if err != nil {
				logrus.WithError(err).Warn("rate limit: redis script failed")
				return next(c)
			}

			remaining := int64(maxRequests) - count
			if remaining < 0 {
				remaining = 0
			}
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(maxRequests))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(maxRequests) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}
