// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Outcome labels shared by recorders.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Search modes.
const (
	SearchModeMatch     = "match"
	SearchModeDiscovery = "discovery"
)

// Recorder captures metric events for the application.
type Recorder interface {
	// HTTP metrics
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)

	// Content store metrics
	IncItemIndexed(outcome string)
	IncSearch(mode string)

	// Analysis metrics
	ObserveAnalysis(outcome string, duration time.Duration)

	// Upstream metrics (service: "ai", "subgraph")
	IncUpstreamError(service string)

	// Premium metrics
	IncSubscriptionActivated(plan string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
