// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package hazard

import "sync/atomic"

// node is a single element of a slotList. Its value is cleared (CAS to nil)
// rather than the node being unlinked, so the list never needs its own
// reclamation scheme: every node allocated into a list lives for the
// lifetime of that list.
type node[T any] struct {
	value atomic.Pointer[T]
	next  atomic.Pointer[node[T]]
}

// slotList is a lock-free, intrusive singly-linked list of *T slots. A nil
// slot value means the slot is free for reuse; a non-nil value means it is
// occupied. Both hazard records and retired entries are tracked using this
// same structure, following the original algorithm's single list type
// reused for both roles.
//
// Every method is safe for concurrent use. A zero slotList is not usable;
// construct one with newSlotList.
type slotList[T any] struct {
	head  atomic.Pointer[node[T]]
	alloc func() *node[T]
}

// newSlotList constructs an empty slotList. alloc must return a freshly
// allocated, zero-valued *node[T], or nil to signal allocation failure; a
// nil alloc defaults to the ordinary Go allocator, which never fails
// synchronously.
func newSlotList[T any](alloc func() *node[T]) *slotList[T] {
	if alloc == nil {
		alloc = func() *node[T] { return &node[T]{} }
	}
	return &slotList[T]{alloc: alloc}
}

// insertOrAppend publishes v into the list: it first scans for a free
// (nil-valued) slot and claims it with a single CAS, falling back to
// allocating and prepending a new node only if no free slot was found. This
// keeps steady-state memory use bounded to the high-water mark of
// simultaneously-published values, mirroring the original list_insert_or_append.
//
// Returns ErrAllocation if a new node was required and the configured
// allocator reported failure.
func (l *slotList[T]) insertOrAppend(v *T) (*node[T], error) {
	for n := l.head.Load(); n != nil; n = n.next.Load() {
		if n.value.CompareAndSwap(nil, v) {
			return n, nil
		}
	}

	nn := l.alloc()
	if nn == nil {
		return nil, ErrAllocation
	}
	nn.value.Store(v)

	for {
		head := l.head.Load()
		nn.next.Store(head)
		if l.head.CompareAndSwap(head, nn) {
			return nn, nil
		}
	}
}

// remove clears exactly one slot currently holding v (logical deletion: CAS
// the slot back to nil) and reports whether a match was found. It stops at
// the first match rather than clearing every occurrence: if the same value
// is published into more than one slot concurrently (two readers calling
// Load on a slot holding the same pointer before either Drops it), each
// remove call must release exactly one outstanding claim, not all of them,
// or a still-active reader's protection would be silently dropped (see the
// duplicate-publish scenario covered by TestSlotList_RemoveReleasesOneClaim).
func (l *slotList[T]) remove(v *T) bool {
	for n := l.head.Load(); n != nil; n = n.next.Load() {
		if n.value.CompareAndSwap(v, nil) {
			return true
		}
	}
	return false
}

// contains reports whether v currently occupies any slot in the list.
func (l *slotList[T]) contains(v *T) bool {
	for n := l.head.Load(); n != nil; n = n.next.Load() {
		if n.value.Load() == v {
			return true
		}
	}
	return false
}

// forEach invokes fn for the value held by every currently-occupied slot, in
// list (most-recently-appended-first) order. fn must not block or mutate
// the list; it is used for point-in-time scans such as counting the
// retired backlog.
func (l *slotList[T]) forEach(fn func(*T)) {
	for n := l.head.Load(); n != nil; n = n.next.Load() {
		if v := n.value.Load(); v != nil {
			fn(v)
		}
	}
}

// claimIf clears every occupied slot whose value satisfies pred, returning
// the claimed values. Each clear is an independent CAS, so a value observed
// as matching pred but concurrently released (or re-claimed) by another
// goroutine is simply skipped rather than double-counted.
func (l *slotList[T]) claimIf(pred func(*T) bool) []*T {
	var claimed []*T
	for n := l.head.Load(); n != nil; n = n.next.Load() {
		v := n.value.Load()
		if v == nil || !pred(v) {
			continue
		}
		if n.value.CompareAndSwap(v, nil) {
			claimed = append(claimed, v)
		}
	}
	return claimed
}

// drainAll clears every occupied slot and returns the values that were
// cleared. It is used to tear down a Domain's retired list on Close,
// handing back anything still pending reclamation.
func (l *slotList[T]) drainAll() []*T {
	var drained []*T
	for n := l.head.Load(); n != nil; n = n.next.Load() {
		for {
			v := n.value.Load()
			if v == nil {
				break
			}
			if n.value.CompareAndSwap(v, nil) {
				drained = append(drained, v)
				break
			}
		}
	}
	return drained
}
