package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	rateLimitIPPrefix = "ipvault:ratelimit:ip:"
	rateLimitIPTTL    = 10 * time.Second
)

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter decides whether a client identified by ip may proceed.
type Limiter interface {
	AllowIP(ctx context.Context, ip string) *RateLimitResult
}

// tokenBucketScript refills and consumes a per-key bucket atomically.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	tokens = math.min(burst, tokens + ((now - last_update) * rate))

	local allowed = 0
	local retry_after = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// RedisLimiter is a token bucket per client IP shared by every replica.
type RedisLimiter struct {
	client *redis.Client
	rate   float64
	burst  int
	logger *slog.Logger
}

// NewRedisLimiter creates a limiter allowing ratePerSecond with the given burst.
func NewRedisLimiter(c *Cache, ratePerSecond float64, burst int, logger *slog.Logger) *RedisLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLimiter{
		client: c.client,
		rate:   ratePerSecond,
		burst:  burst,
		logger: logger.With("component", "ratelimit.redis"),
	}
}

// AllowIP consumes one token for ip. Redis failures fail open.
func (l *RedisLimiter) AllowIP(ctx context.Context, ip string) *RateLimitResult {
	key := rateLimitIPPrefix + hashIP(ip)

	result, err := tokenBucketScript.Run(ctx, l.client,
		[]string{key},
		l.rate, l.burst, time.Now().Unix(), int(rateLimitIPTTL.Seconds()),
	).Int64Slice()
	if err != nil || len(result) != 3 {
		l.logger.Warn("rate limit check failed, allowing request", "error", err)
		return &RateLimitResult{Allowed: true, Remaining: int64(l.burst)}
	}

	return &RateLimitResult{
		Allowed:    result[0] == 1,
		RetryAfter: time.Duration(result[1]) * time.Second,
		Remaining:  result[2],
	}
}

// hashIP keeps raw client addresses out of Redis.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8])
}
