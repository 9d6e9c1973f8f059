package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ipvault/ipvault/internal/cache"
	"github.com/ipvault/ipvault/internal/handler/dto"
	"github.com/ipvault/ipvault/internal/testutil"
)

type fakeLimiter struct {
	mu     sync.Mutex
	result cache.RateLimitResult
	seen   []string
}

func (f *fakeLimiter) AllowIP(_ context.Context, ip string) *cache.RateLimitResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, ip)
	r := f.result
	return &r
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitIP_Rejects(t *testing.T) {
	t.Parallel()

	limiter := &fakeLimiter{result: cache.RateLimitResult{Allowed: false, RetryAfter: 1500 * time.Millisecond}}
	handler := RateLimitIP(RateLimitConfig{Enabled: true, Limiter: limiter, Logger: testutil.DiscardLogger()})(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ai/search", nil))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if got := rec.Header().Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After = %q, want 2", got)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Kind != dto.KindRateLimited {
		t.Errorf("kind = %q, want %q", resp.Kind, dto.KindRateLimited)
	}
	if resp.Error != "Rate limit exceeded. Retry after 2 seconds." {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestRateLimitIP_AllowsAndReportsRemaining(t *testing.T) {
	t.Parallel()

	limiter := &fakeLimiter{result: cache.RateLimitResult{Allowed: true, Remaining: 7}}
	handler := RateLimitIP(RateLimitConfig{Enabled: true, Limiter: limiter})(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "7" {
		t.Errorf("X-RateLimit-Remaining = %q, want 7", got)
	}
}

func TestRateLimitIP_Disabled(t *testing.T) {
	t.Parallel()

	limiter := &fakeLimiter{result: cache.RateLimitResult{Allowed: false}}
	handler := RateLimitIP(RateLimitConfig{Enabled: false, Limiter: limiter})(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if len(limiter.seen) != 0 {
		t.Error("limiter consulted while disabled")
	}
}

func TestRateLimitIP_LocalLimiterBurst(t *testing.T) {
	t.Parallel()

	handler := RateLimitIP(RateLimitConfig{Enabled: true, Limiter: cache.NewLocalLimiter(0.001, 2)})(okHandler())

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		statuses = append(statuses, rec.Code)
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if statuses[i] != want[i] {
			t.Fatalf("statuses = %v, want %v", statuses, want)
		}
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		want       string
	}{
		{"ipv4 with port", "203.0.113.9:5123", "203.0.113.9"},
		{"ipv6 with port", "[2001:db8::1]:443", "2001:db8::1"},
		{"bare address from RealIP", "198.51.100.1", "198.51.100.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			req.Header.Set("X-Forwarded-For", "10.9.9.9")

			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
