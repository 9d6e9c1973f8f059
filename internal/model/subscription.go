package model

import (
	"strings"
	"time"
)

// Plan identifies a premium subscription plan.
type Plan string

const (
	PlanMonthly Plan = "monthly"
	PlanYearly  Plan = "yearly"
)

// PlanDetails holds the fixed terms of a plan.
type PlanDetails struct {
	Price    float64
	Duration time.Duration
	Discount float64
}

// Plans lists every purchasable plan.
var Plans = map[Plan]PlanDetails{
	PlanMonthly: {
		Price:    9.99,
		Duration: 30 * 24 * time.Hour,
		Discount: 0.5,
	},
	PlanYearly: {
		Price:    99.99,
		Duration: 365 * 24 * time.Hour,
		Discount: 0.5,
	},
}

// Details returns the plan terms and whether the plan exists.
func (p Plan) Details() (PlanDetails, bool) {
	d, ok := Plans[p]
	return d, ok
}

// Subscription is the premium state of one wallet address.
// Timestamps are epoch milliseconds to match the public JSON shape.
type Subscription struct {
	Address     string  `json:"address"`
	IsPremium   bool    `json:"isPremium"`
	Plan        Plan    `json:"plan"`
	ExpiresAt   *int64  `json:"expiresAt"`
	Discount    float64 `json:"discount"`
	StartedAt   int64   `json:"startedAt"`
	PaymentHash *string `json:"paymentHash"`
}

// IsExpired reports whether the subscription expired before now.
// A subscription without an expiry never expires.
func (s *Subscription) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && *s.ExpiresAt < now.UnixMilli()
}

// ExpiryTime returns ExpiresAt as a time, or the zero time.
func (s *Subscription) ExpiryTime() time.Time {
	if s.ExpiresAt == nil {
		return time.Time{}
	}
	return time.UnixMilli(*s.ExpiresAt).UTC()
}

// NormalizeAddress lowercases a wallet address for use as a lookup key.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
