// Package metrics provides lightweight in-process counters for the RPC
// client, balance cache, and gift submissions. Counters are atomic and
// safe for concurrent use.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics holds application counters.
type Metrics struct {
	// RPC metrics
	rpcCallsTotal   atomic.Int64
	rpcErrorsTotal  atomic.Int64
	rpcLatencyNanos atomic.Int64

	// Gift submission metrics
	submissionsTotal  atomic.Int64
	submissionsErrors atomic.Int64

	// Balance cache metrics
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
}

// Global is the process-wide metrics instance.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordRPCCall records a JSON-RPC call with its duration and outcome.
func (m *Metrics) RecordRPCCall(duration time.Duration, err error) {
	m.rpcCallsTotal.Add(1)
	m.rpcLatencyNanos.Add(duration.Nanoseconds())

	if err != nil {
		m.rpcErrorsTotal.Add(1)
	}
}

// RecordSubmission records a gift transaction submission attempt.
func (m *Metrics) RecordSubmission(err error) {
	m.submissionsTotal.Add(1)
	if err != nil {
		m.submissionsErrors.Add(1)
	}
}

// RecordCacheHit records a balance cache hit.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordCacheMiss records a balance cache miss.
func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Add(1)
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	RPCCallsTotal     int64
	RPCErrorsTotal    int64
	RPCLatencyNanos   int64
	SubmissionsTotal  int64
	SubmissionsErrors int64
	CacheHits         int64
	CacheMisses       int64
}

// Snapshot returns a point-in-time copy of all counters.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		RPCCallsTotal:     m.rpcCallsTotal.Load(),
		RPCErrorsTotal:    m.rpcErrorsTotal.Load(),
		RPCLatencyNanos:   m.rpcLatencyNanos.Load(),
		SubmissionsTotal:  m.submissionsTotal.Load(),
		SubmissionsErrors: m.submissionsErrors.Load(),
		CacheHits:         m.cacheHits.Load(),
		CacheMisses:       m.cacheMisses.Load(),
	}
}

// RPCLatencyAvgMs returns the average RPC latency in milliseconds.
// Returns 0 if no calls have been made.
func (m *Metrics) RPCLatencyAvgMs() float64 {
	calls := m.rpcCallsTotal.Load()
	if calls == 0 {
		return 0
	}
	nanos := m.rpcLatencyNanos.Load()
	return float64(nanos) / float64(calls) / 1e6
}

// CacheHitRate returns the balance cache hit rate as a percentage (0-100).
// Returns 0 if no cache lookups have occurred.
func (m *Metrics) CacheHitRate() float64 {
	hits := m.cacheHits.Load()
	misses := m.cacheMisses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// Reset resets all counters to zero. Useful for testing.
func (m *Metrics) Reset() {
	m.rpcCallsTotal.Store(0)
	m.rpcErrorsTotal.Store(0)
	m.rpcLatencyNanos.Store(0)
	m.submissionsTotal.Store(0)
	m.submissionsErrors.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
}
