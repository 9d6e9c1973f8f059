package cache

import (
	"context"
	"testing"
	"time"
)

func TestHashIP_Deterministic(t *testing.T) {
	t.Parallel()

	ip := "192.168.1.100"

	hash1 := hashIP(ip)
	hash2 := hashIP(ip)

	if hash1 != hash2 {
		t.Error("Same IP should produce same hash")
	}
}

func TestHashIP_Length(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ip   string
	}{
		{"IPv4", "192.168.1.1"},
		{"IPv4 localhost", "127.0.0.1"},
		{"IPv6 localhost", "::1"},
		{"IPv6 full", "2001:0db8:85a3:0000:0000:8a2e:0370:7334"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hash := hashIP(tt.ip)
			// hashIP uses first 8 bytes of SHA256, encoded as 16 hex chars
			if len(hash) != 16 {
				t.Errorf("hashIP(%q) length = %d, want 16", tt.ip, len(hash))
			}
		})
	}
}

func TestHashIP_Different(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ip1  string
		ip2  string
	}{
		{"different IPv4", "192.168.1.1", "192.168.1.2"},
		{"different last octet", "10.0.0.1", "10.0.0.2"},
		{"IPv4 vs IPv6", "127.0.0.1", "::1"},
		{"public vs private", "8.8.8.8", "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hash1 := hashIP(tt.ip1)
			hash2 := hashIP(tt.ip2)

			if hash1 == hash2 {
				t.Errorf("Different IPs should produce different hashes: %q and %q both produced %s", tt.ip1, tt.ip2, hash1)
			}
		})
	}
}

func TestLocalLimiter_BurstThenReject(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewLocalLimiter(1, 3)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if res := l.AllowIP(context.Background(), "10.0.0.1"); !res.Allowed {
			t.Fatalf("request %d rejected within burst", i+1)
		}
	}

	res := l.AllowIP(context.Background(), "10.0.0.1")
	if res.Allowed {
		t.Fatal("expected request beyond burst to be rejected")
	}
	if res.RetryAfter != time.Second {
		t.Errorf("RetryAfter = %v, want 1s", res.RetryAfter)
	}

	if res := l.AllowIP(context.Background(), "10.0.0.2"); !res.Allowed {
		t.Error("other IPs must have their own bucket")
	}

	now = now.Add(time.Second)
	if res := l.AllowIP(context.Background(), "10.0.0.1"); !res.Allowed {
		t.Error("expected a token to refill after one second")
	}
}

func TestLocalLimiter_Evict(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewLocalLimiter(5, 5)
	l.now = func() time.Time { return now }

	l.AllowIP(context.Background(), "a")
	l.AllowIP(context.Background(), "b")

	l.evict(now.Add(time.Minute))
	if l.size() != 2 {
		t.Fatalf("size = %d, want 2 before ttl", l.size())
	}

	l.evict(now.Add(visitorTTL + time.Second))
	if l.size() != 0 {
		t.Fatalf("size = %d, want 0 after ttl", l.size())
	}
}
