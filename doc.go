// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package hazard implements hazard-pointer based safe memory reclamation
// (SMR) for concurrently-accessed heap values.
//
// # Architecture
//
// A [Domain] coordinates readers and reclaimers sharing values of type T
// through caller-owned "protected slots" ([atomic.Pointer] of T). Readers
// call [Domain.Load] to read a slot while publishing a hazard record that
// protects the value from reclamation; writers call [Domain.Swap] to install
// a new value and retire the old one. Retired values are reclaimed only once
// no outstanding hazard record still references them, via [Domain.Cleanup]
// (explicit) or synchronously inside [Domain.RetirePointer] under [Block]
// policy.
//
// Internally a Domain owns two instances of the same lock-free, intrusive
// singly-linked list: one tracking published hazard pointers, one tracking
// retired-but-not-yet-reclaimed values. Both use logical removal (CAS a slot
// back to its zero value) rather than physically unlinking nodes, so that
// the bookkeeping structure itself never needs its own reclamation scheme.
//
// # Thread Safety
//
// Every exported method on [Domain] is safe for concurrent use by any number
// of goroutines, including concurrent calls to the same method. A single
// [Domain] value must not be copied after first use.
//
// # Usage
//
//	dom, err := hazard.New[MyPayload]()
//	if err != nil {
//		// invalid option
//	}
//	defer dom.Close()
//
//	var slot atomic.Pointer[MyPayload]
//	slot.Store(&MyPayload{})
//
//	// reader goroutine
//	v, err := dom.Load(&slot)
//	if err != nil {
//		// allocation failure (see ErrAllocation)
//	}
//	defer dom.Drop(v)
//	use(v)
//
//	// writer goroutine
//	newVal := &MyPayload{}
//	old, err := dom.Swap(&slot, newVal)
//	if err == nil {
//		dom.Drop(newVal) // release the hazard Swap published for newVal
//		dom.RetirePointer(old, hazard.Defer)
//	}
//
// # Error Types
//
// The only failure mode exposed by this package is [ErrAllocation], returned
// when the (normally unbounded) bookkeeping allocator is exhausted. Misuse
// that the original algorithm leaves undefined — such as calling [Domain.Drop]
// on a value never returned by [Domain.Load] — is reported to the configured
// [Logger] rather than causing a panic.
package hazard
