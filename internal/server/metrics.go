package server

import (
	"sync/atomic"
	"time"
)

// Metrics holds server runtime counters. All fields are atomics so the
// snapshot can be read while the accept loop is still serving.
type Metrics struct {
	RequestsTotal  atomic.Int64
	Errors4xx      atomic.Int64
	Errors5xx      atomic.Int64
	TotalLatencyNs atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordRequest records a completed request
func (m *Metrics) RecordRequest(statusCode int, duration time.Duration) {
	m.RequestsTotal.Add(1)
	m.TotalLatencyNs.Add(duration.Nanoseconds())

	switch {
	case statusCode >= 500:
		m.Errors5xx.Add(1)
	case statusCode >= 400:
		m.Errors4xx.Add(1)
	}
}

// AverageLatency returns the mean request latency so far
func (m *Metrics) AverageLatency() time.Duration {
	total := m.RequestsTotal.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.TotalLatencyNs.Load() / total)
}

// MetricsSnapshot is a point-in-time copy for shutdown reporting
type MetricsSnapshot struct {
	RequestsTotal  int64
	Errors4xx      int64
	Errors5xx      int64
	AverageLatency time.Duration
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		RequestsTotal:  m.RequestsTotal.Load(),
		Errors4xx:      m.Errors4xx.Load(),
		Errors5xx:      m.Errors5xx.Load(),
		AverageLatency: m.AverageLatency(),
	}
}
