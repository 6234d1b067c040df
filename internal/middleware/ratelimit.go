package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/edubase/house-enrolment/internal/config"
)

// Enrolment writes consume shared mastercode capacity, so the store
// endpoint sits behind a token bucket kept in Redis. The bucket state
// lives in a hash per key and is refilled and drained inside a single Lua
// script, which keeps the check atomic across service instances sharing
// the same Redis.

var bucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local cap = tonumber(ARGV[2])
	local refill = tonumber(ARGV[3])
	local step_ms = tonumber(ARGV[4])
	local ttl = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'stamp')
	local tokens = tonumber(state[1])
	local stamp = tonumber(state[2])
	if tokens == nil or stamp == nil then
		tokens = cap
		stamp = now
	end

	if step_ms > 0 and refill > 0 then
		local steps = math.floor(math.max(0, now - stamp) / step_ms)
		if steps > 0 then
			tokens = math.min(cap, tokens + steps * refill)
			stamp = stamp + steps * step_ms
		end
	end

	local ok = 0
	local wait_ms = 0
	if tokens > 0 then
		ok = 1
		tokens = tokens - 1
	else
		wait_ms = step_ms - (now - stamp)
		if wait_ms < 0 then wait_ms = 0 end
	end

	redis.call('HMSET', key, 'tokens', tokens, 'stamp', stamp)
	redis.call('EXPIRE', key, ttl)
	return { ok, tokens, wait_ms }
`)

// NewTokenBucket returns a rate-limiting middleware. Disabled configuration
// or a missing Redis client yields a pass-through; Redis errors at request
// time fail open so a cache outage never blocks enrolment.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg, c)
			args := []interface{}{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}
			vals, err := bucketScript.Run(c.Request().Context(), rdb, []string{key}, args...).Result()
			if err != nil {
				c.Logger().Warnf("ratelimit: redis error for key=%s: %v", key, err)
				return next(c)
			}
			arr, ok := vals.([]interface{})
			if !ok || len(arr) != 3 {
				c.Logger().Warnf("ratelimit: unexpected script result for key=%s: %#v", key, vals)
				return next(c)
			}
			allowed := toInt64(arr[0]) == 1
			remaining := toInt64(arr[1])
			waitMs := toInt64(arr[2])

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !allowed {
				secs := int(math.Ceil(float64(waitMs) / 1000.0))
				if secs < 0 {
					secs = 0
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"message":     "rate limit exceeded",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

// rateKey builds the bucket key from the configured strategy. The default
// combines client IP, authenticated user and route so one noisy student
// cannot starve a whole school behind a NAT.
func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	uid := "anon"
	if p, ok := Principal(c); ok {
		uid = strconv.FormatUint(p.ID, 10)
	}
	route := c.Request().Method + " " + c.Path()

	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "user":
		parts = append(parts, "user", uid)
	case "route":
		parts = append(parts, "route", route)
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	case "user_route":
		parts = append(parts, "user", uid, "route", route)
	default: // "ip_user_route"
		parts = append(parts, "ip", ip, "user", uid, "route", route)
	}
	return strings.Join(parts, ":")
}

func toInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
