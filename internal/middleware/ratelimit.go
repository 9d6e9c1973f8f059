package middleware

import (
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/ipvault/ipvault/internal/cache"
	"github.com/ipvault/ipvault/internal/handler/dto"
)

// RateLimitConfig configures per-client rate limiting.
type RateLimitConfig struct {
	Enabled bool
	Limiter cache.Limiter
	Logger  *slog.Logger
}

// RateLimitIP limits requests per client IP. Rejected requests get 429 with
// Retry-After; allowed ones carry X-RateLimit-Remaining. Behind a proxy,
// mount chi's RealIP first so RemoteAddr holds the client address.
func RateLimitIP(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled || cfg.Limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			result := cfg.Limiter.AllowIP(r.Context(), ip)

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))

			if !result.Allowed {
				retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				if cfg.Logger != nil {
					cfg.Logger.Warn("rate limit exceeded",
						slog.String("request_id", GetRequestID(r.Context())),
						slog.String("path", r.URL.Path),
						slog.Int("retry_after", retryAfter),
					)
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writeError(w, http.StatusTooManyRequests, dto.KindRateLimited,
					fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", retryAfter))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the caller's address without port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
