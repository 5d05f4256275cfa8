// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package hazard

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics receives runtime measurements from a Domain. Implementations must
// be safe for concurrent use. A nil Metrics (the default) disables
// measurement entirely; Domain skips every report when no Metrics is
// configured, leaving only the start-time read in Load, Swap and Cleanup.
type Metrics interface {
	// ObserveLoad records the latency of a completed Load call.
	ObserveLoad(d time.Duration)
	// ObserveSwap records the latency of a completed Swap call.
	ObserveSwap(d time.Duration)
	// ObserveCleanup records the latency of a completed Cleanup call.
	ObserveCleanup(d time.Duration)
	// RetiredBacklog reports the current size of the retired-but-not-yet-
	// reclaimed list, sampled whenever RetirePointer parks a value on that
	// list and at the end of each Cleanup call.
	RetiredBacklog(n int)
	// Reclaimed reports that n values were reclaimed (freed) in one batch.
	Reclaimed(n int)
}

// LatencyMetrics is a ready-to-use [Metrics] implementation tracking P50,
// P90 and P99 latency estimates per operation via the streaming P² quantile
// algorithm, plus simple counters for reclaimed values and a gauge for the
// retired backlog. It never retains individual samples, so its memory
// footprint is constant regardless of call volume.
type LatencyMetrics struct {
	mu sync.Mutex

	load    [3]*pSquareQuantile
	swap    [3]*pSquareQuantile
	cleanup [3]*pSquareQuantile

	reclaimedTotal atomic.Uint64
	retiredGauge   atomic.Int64
}

// NewLatencyMetrics constructs a LatencyMetrics tracking P50/P90/P99 for
// Load, Swap and Cleanup independently.
func NewLatencyMetrics() *LatencyMetrics {
	return &LatencyMetrics{
		load:    newQuantileSet(),
		swap:    newQuantileSet(),
		cleanup: newQuantileSet(),
	}
}

func newQuantileSet() [3]*pSquareQuantile {
	return [3]*pSquareQuantile{
		newPSquareQuantile(0.50),
		newPSquareQuantile(0.90),
		newPSquareQuantile(0.99),
	}
}

func (m *LatencyMetrics) ObserveLoad(d time.Duration)    { m.observe(m.load, d) }
func (m *LatencyMetrics) ObserveSwap(d time.Duration)    { m.observe(m.swap, d) }
func (m *LatencyMetrics) ObserveCleanup(d time.Duration) { m.observe(m.cleanup, d) }

func (m *LatencyMetrics) observe(set [3]*pSquareQuantile, d time.Duration) {
	v := float64(d.Nanoseconds())
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range set {
		q.observe(v)
	}
}

func (m *LatencyMetrics) RetiredBacklog(n int) { m.retiredGauge.Store(int64(n)) }

func (m *LatencyMetrics) Reclaimed(n int) { m.reclaimedTotal.Add(uint64(n)) }

// Snapshot is a point-in-time read of a LatencyMetrics instance's state.
type Snapshot struct {
	LoadP50, LoadP90, LoadP99       time.Duration
	SwapP50, SwapP90, SwapP99       time.Duration
	CleanupP50, CleanupP90, CleanupP99 time.Duration
	ReclaimedTotal                 uint64
	RetiredBacklogCurrent           int64
}

// Snapshot returns the current state of all tracked quantiles and counters.
func (m *LatencyMetrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns := func(q *pSquareQuantile) time.Duration { return time.Duration(q.value()) }
	return Snapshot{
		LoadP50:    ns(m.load[0]),
		LoadP90:    ns(m.load[1]),
		LoadP99:    ns(m.load[2]),
		SwapP50:    ns(m.swap[0]),
		SwapP90:    ns(m.swap[1]),
		SwapP99:    ns(m.swap[2]),
		CleanupP50: ns(m.cleanup[0]),
		CleanupP90: ns(m.cleanup[1]),
		CleanupP99: ns(m.cleanup[2]),
		ReclaimedTotal:        m.reclaimedTotal.Load(),
		RetiredBacklogCurrent: m.retiredGauge.Load(),
	}
}
