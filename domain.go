// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package hazard

import (
	"sync/atomic"
	"time"
)

// Flags selects the reclamation policy used by [Domain.RetirePointer] and
// [Domain.Cleanup]. The zero value is Block, matching the original
// algorithm's flags == 0 convention: an uninitialized Flags defaults to the
// safe (if potentially slower) policy rather than silently deferring work.
type Flags int

const (
	// Block waits (via a bounded spin-then-yield backoff, never a mutex)
	// until no hazard record protects the value(s) in question, reclaiming
	// them before the call returns.
	Block Flags = 0
	// Defer places the value(s) on the retired list and returns
	// immediately; reclamation happens on a later Cleanup call once no
	// hazard record protects them.
	Defer Flags = 1
)

// Domain coordinates readers and reclaimers for values of type T. The zero
// Domain is not usable; construct one with [New]. A Domain must not be
// copied after first use.
type Domain[T any] struct {
	hazards *slotList[T]
	retired *slotList[T]

	destructor func(*T)
	logger     Logger
	metrics    Metrics
	spinLimit  int

	closed atomic.Bool
}

// New constructs a Domain ready for use, applying opts in order. The
// default configuration discards diagnostic output ([NoOpLogger]), disables
// metrics, uses a no-op destructor (reclamation relies solely on the Go
// garbage collector), and bounds Block-policy spinning at a small fixed
// iteration count before yielding.
func New[T any](opts ...Option[T]) (*Domain[T], error) {
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	d := &Domain[T]{
		hazards:    newSlotList[T](o.allocHazard),
		retired:    newSlotList[T](o.allocRetired),
		destructor: o.destructor,
		logger:     o.logger,
		metrics:    o.metrics,
		spinLimit:  o.spinLimit,
	}
	if d.destructor == nil {
		d.destructor = func(*T) {}
	}
	return d, nil
}

// Load reads slot while publishing a hazard record protecting the observed
// value from reclamation, using the classical load-protect-reconfirm
// sequence: a value is only returned once it has been re-read from slot
// after its hazard record was published, guaranteeing no intervening Swap
// could have already handed it to a reclaimer. A nil slot value is returned
// as (nil, nil) without publishing anything.
//
// The caller must eventually pass the returned value to [Domain.Drop],
// exactly once, once it is done using it.
func (d *Domain[T]) Load(slot *atomic.Pointer[T]) (*T, error) {
	start := time.Now()
	defer d.observe(d.metrics != nil, func(m Metrics, dur time.Duration) { m.ObserveLoad(dur) }, start)

	for {
		v := slot.Load()
		if v == nil {
			return nil, nil
		}

		n, err := d.hazards.insertOrAppend(v)
		if err != nil {
			logf(d.logger, LevelError, "load", "hazard record allocation failed")
			return nil, wrapAllocErr("load")
		}

		if slot.Load() == v {
			return v, nil
		}

		// slot changed between our read and publishing the hazard; the
		// value we briefly protected may already be retired elsewhere.
		// Release the stale claim and retry against the current value. If
		// our node no longer holds v, another goroutine's remove(v) cleared
		// it in place of its own record, so clear some other record of v.
		if !n.value.CompareAndSwap(v, nil) {
			d.hazards.remove(v)
		}
	}
}

// Drop releases the hazard record published by a prior [Domain.Load] call
// that returned value. Calling Drop with a value never returned by Load (or
// already dropped) is misuse the original algorithm leaves undefined; this
// implementation reports it to the configured [Logger] and otherwise
// no-ops, rather than panicking or corrupting bookkeeping.
func (d *Domain[T]) Drop(value *T) {
	if value == nil {
		return
	}
	if !d.hazards.remove(value) {
		logf(d.logger, LevelError, "load", "Drop called for a value with no matching hazard record")
	}
}

// Swap publishes a hazard record protecting newVal, then atomically installs
// it into slot and returns the value it replaced (nil if slot was empty).
// Publishing the hazard before the exchange guarantees newVal is already
// protected the instant any reader can observe it through slot, closing the
// window in which a concurrent RetirePointer(newVal, ...) could otherwise
// find no hazard and reclaim it out from under the caller.
//
// The returned old value is not automatically retired: the caller must pass
// it to [Domain.RetirePointer] once it intends no further concurrent
// readers to observe it through slot. The caller must also eventually
// balance the protection this call published on newVal with a
// [Domain.Drop](newVal).
func (d *Domain[T]) Swap(slot *atomic.Pointer[T], newVal *T) (*T, error) {
	start := time.Now()
	defer d.observe(d.metrics != nil, func(m Metrics, dur time.Duration) { m.ObserveSwap(dur) }, start)

	if newVal != nil {
		if _, err := d.hazards.insertOrAppend(newVal); err != nil {
			logf(d.logger, LevelError, "swap", "hazard record allocation failed")
			return nil, wrapAllocErr("swap")
		}
	}

	return slot.Swap(newVal), nil
}

// RetirePointer marks value as no longer reachable from any protected slot.
// It first checks whether any hazard record currently protects value: if
// none does, value is reclaimed immediately and synchronously, regardless
// of flags — there is nothing to wait or park for. Only when a hazard does
// protect value does flags matter: under [Block] the call waits for the
// hazard to clear and reclaims value before returning; under [Defer] value
// is recorded on the retired list and the call returns immediately, leaving
// reclamation to a later [Domain.Cleanup].
//
// If the retired-list bookkeeping cannot grow (see [ErrAllocation]) while
// parking a still-protected value, the call is logged and value is left
// untracked rather than retried indefinitely: RetirePointer's contract
// (matching the original algorithm) has no error return, and spinning
// forever on an allocator that will never recover would be worse than a
// diagnosed, one-off leak.
func (d *Domain[T]) RetirePointer(value *T, flags Flags) {
	if value == nil {
		return
	}

	if !d.hazards.contains(value) {
		d.destructor(value)
		if d.metrics != nil {
			d.metrics.Reclaimed(1)
		}
		return
	}

	n, err := d.retired.insertOrAppend(value)
	if err != nil {
		logf(d.logger, LevelError, "retire", "retired-list allocation failed, value will not be reclaimed")
		return
	}

	if d.metrics != nil {
		d.metrics.RetiredBacklog(d.retiredLen())
	}

	if flags == Block {
		d.reclaimNode(value, n)
	}
}

// reclaimNode waits until value is unprotected, then claims and destructs
// it via the given retired-list node.
func (d *Domain[T]) reclaimNode(value *T, n *node[T]) {
	sw := newSpinWaiter(d.spinLimit)
	for d.hazards.contains(value) {
		sw.wait()
	}
	if n.value.CompareAndSwap(value, nil) {
		d.destructor(value)
		if d.metrics != nil {
			d.metrics.Reclaimed(1)
		}
	}
}

// Cleanup scans the retired list and reclaims every entry no longer
// protected by a hazard record. Under [Defer] it performs a single pass and
// returns, leaving any still-protected entries for a future call. Under
// [Block] it repeats the scan (spinning between attempts) until the
// retired list is empty, guaranteeing every entry retired before the call
// began has been reclaimed by the time it returns — assuming readers
// eventually Drop their hazard records.
func (d *Domain[T]) Cleanup(flags Flags) {
	start := time.Now()
	defer d.observe(d.metrics != nil, func(m Metrics, dur time.Duration) { m.ObserveCleanup(dur) }, start)

	d.reclaimPass()

	if flags == Block {
		sw := newSpinWaiter(d.spinLimit)
		for d.retiredLen() > 0 {
			sw.wait()
			d.reclaimPass()
		}
	}

	if d.metrics != nil {
		d.metrics.RetiredBacklog(d.retiredLen())
	}
}

// reclaimPass performs one scan of the retired list, reclaiming every
// currently-unprotected entry.
func (d *Domain[T]) reclaimPass() {
	claimed := d.retired.claimIf(func(v *T) bool { return !d.hazards.contains(v) })
	if len(claimed) == 0 {
		return
	}
	for _, v := range claimed {
		d.destructor(v)
	}
	if d.metrics != nil {
		d.metrics.Reclaimed(len(claimed))
	}
}

func (d *Domain[T]) retiredLen() int {
	var n int
	d.retired.forEach(func(*T) { n++ })
	return n
}

// Close releases everything still outstanding on the retired list,
// reclaiming it unconditionally (regardless of hazard protection) since no
// further Load/Swap/RetirePointer calls are expected once Close has been
// called. Close is idempotent; subsequent calls are no-ops.
func (d *Domain[T]) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	drained := d.retired.drainAll()
	for _, v := range drained {
		d.destructor(v)
	}
	if d.metrics != nil && len(drained) > 0 {
		d.metrics.Reclaimed(len(drained))
	}
	return nil
}

// observe is a small helper centralising the "only call the reporter if
// metrics are configured" branch used by Load, Swap and Cleanup.
func (d *Domain[T]) observe(enabled bool, report func(Metrics, time.Duration), start time.Time) {
	if !enabled {
		return
	}
	report(d.metrics, time.Since(start))
}
