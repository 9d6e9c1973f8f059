package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {}

func (n *NoopRecorder) IncItemIndexed(outcome string) {}

func (n *NoopRecorder) IncSearch(mode string) {}

func (n *NoopRecorder) ObserveAnalysis(outcome string, duration time.Duration) {}

func (n *NoopRecorder) IncUpstreamError(service string) {}

func (n *NoopRecorder) IncSubscriptionActivated(plan string) {}
