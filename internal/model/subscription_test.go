package model

import (
	"testing"
	"time"
)

func TestPlan_Details(t *testing.T) {
	t.Parallel()

	monthly, ok := PlanMonthly.Details()
	if !ok {
		t.Fatal("expected monthly plan to exist")
	}
	if monthly.Duration != 30*24*time.Hour {
		t.Errorf("monthly duration = %v", monthly.Duration)
	}
	if monthly.Discount != 0.5 {
		t.Errorf("monthly discount = %v", monthly.Discount)
	}

	yearly, ok := PlanYearly.Details()
	if !ok {
		t.Fatal("expected yearly plan to exist")
	}
	if yearly.Duration != 365*24*time.Hour {
		t.Errorf("yearly duration = %v", yearly.Duration)
	}

	if _, ok := Plan("weekly").Details(); ok {
		t.Error("expected unknown plan to be rejected")
	}
}

func TestSubscription_IsExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Second).UnixMilli()
	future := now.Add(time.Hour).UnixMilli()
	exact := now.UnixMilli()

	tests := []struct {
		name      string
		expiresAt *int64
		want      bool
	}{
		{"no expiry", nil, false},
		{"past", &past, true},
		{"future", &future, false},
		{"exactly now", &exact, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sub := Subscription{ExpiresAt: tt.expiresAt}
			if got := sub.IsExpired(now); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeAddress(t *testing.T) {
	t.Parallel()

	if got := NormalizeAddress("  0xAbC "); got != "0xabc" {
		t.Errorf("NormalizeAddress() = %q", got)
	}
}
