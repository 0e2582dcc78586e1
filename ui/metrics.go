package ui

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// LatencyTracker keeps a bounded ring of durations for percentile estimates.
type LatencyTracker struct {
	mu      sync.Mutex
	samples []time.Duration
	count   int
	idx     int
}

func NewLatencyTracker(size int) *LatencyTracker {
	if size <= 0 {
		size = 256
	}
	return &LatencyTracker{samples: make([]time.Duration, size)}
}

func (t *LatencyTracker) Observe(d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.samples[t.idx] = d
	t.idx = (t.idx + 1) % len(t.samples)
	if t.count < len(t.samples) {
		t.count++
	}
	t.mu.Unlock()
}

type LatencySnapshot struct {
	P50 time.Duration
	P99 time.Duration
	N   int
}

func (t *LatencyTracker) Snapshot() LatencySnapshot {
	if t == nil {
		return LatencySnapshot{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.count == 0 {
		return LatencySnapshot{}
	}
	values := make([]time.Duration, t.count)
	copy(values, t.samples[:t.count])
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	p50 := values[t.count/2]
	p99 := values[int(float64(t.count-1)*0.99)]
	return LatencySnapshot{P50: p50, P99: p99, N: t.count}
}

// Metrics tracks poll outcomes and frame/poll latency for the status line.
type Metrics struct {
	pollLatency  *LatencyTracker
	frameLatency *LatencyTracker
	frames       atomic.Uint64
	polls        atomic.Uint64
	failures     atomic.Uint64
	lastPoll     atomic.Int64
	lastSuccess  atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{
		pollLatency:  NewLatencyTracker(128),
		frameLatency: NewLatencyTracker(512),
	}
}

// ObservePoll records one poll attempt that reached a decision.
func (m *Metrics) ObservePoll(d time.Duration, ok bool, at time.Time) {
	if m == nil {
		return
	}
	m.pollLatency.Observe(d)
	m.polls.Add(1)
	m.lastPoll.Store(at.UnixNano())
	if ok {
		m.lastSuccess.Store(at.UnixNano())
	} else {
		m.failures.Add(1)
	}
}

func (m *Metrics) ObserveFrame(d time.Duration) {
	if m == nil {
		return
	}
	m.frames.Add(1)
	m.frameLatency.Observe(d)
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Frames      uint64
	Polls       uint64
	Failures    uint64
	LastPoll    time.Time
	LastSuccess time.Time
	Poll        LatencySnapshot
	Frame       LatencySnapshot
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		Frames:      m.frames.Load(),
		Polls:       m.polls.Load(),
		Failures:    m.failures.Load(),
		LastPoll:    unixNanoTime(m.lastPoll.Load()),
		LastSuccess: unixNanoTime(m.lastSuccess.Load()),
		Poll:        m.pollLatency.Snapshot(),
		Frame:       m.frameLatency.Snapshot(),
	}
}

func unixNanoTime(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(0, v)
}
