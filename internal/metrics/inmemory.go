package metrics

import (
	"sync"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	HTTPRequests          uint64
	ItemsIndexed          map[string]uint64
	Searches              map[string]uint64
	AnalysisCount         map[string]uint64
	AnalysisDurationTotal time.Duration
	UpstreamErrors        map[string]uint64
	Subscriptions         map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu                    sync.Mutex
	httpRequests          uint64
	itemsIndexed          map[string]uint64
	searches              map[string]uint64
	analysisCount         map[string]uint64
	analysisDurationTotal time.Duration
	upstreamErrors        map[string]uint64
	subscriptions         map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		itemsIndexed:   make(map[string]uint64),
		searches:       make(map[string]uint64),
		analysisCount:  make(map[string]uint64),
		upstreamErrors: make(map[string]uint64),
		subscriptions:  make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		HTTPRequests:          m.httpRequests,
		ItemsIndexed:          copyCounts(m.itemsIndexed),
		Searches:              copyCounts(m.searches),
		AnalysisCount:         copyCounts(m.analysisCount),
		AnalysisDurationTotal: m.analysisDurationTotal,
		UpstreamErrors:        copyCounts(m.upstreamErrors),
		Subscriptions:         copyCounts(m.subscriptions),
	}
}

func (m *InMemoryRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.mu.Lock()
	m.httpRequests++
	m.mu.Unlock()
}

func (m *InMemoryRecorder) IncItemIndexed(outcome string) {
	m.inc(m.itemsIndexed, outcome)
}

func (m *InMemoryRecorder) IncSearch(mode string) {
	m.inc(m.searches, mode)
}

func (m *InMemoryRecorder) ObserveAnalysis(outcome string, duration time.Duration) {
	m.mu.Lock()
	m.analysisCount[outcome]++
	m.analysisDurationTotal += duration
	m.mu.Unlock()
}

func (m *InMemoryRecorder) IncUpstreamError(service string) {
	m.inc(m.upstreamErrors, service)
}

func (m *InMemoryRecorder) IncSubscriptionActivated(plan string) {
	m.inc(m.subscriptions, plan)
}

func (m *InMemoryRecorder) inc(counts map[string]uint64, label string) {
	m.mu.Lock()
	counts[label]++
	m.mu.Unlock()
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
