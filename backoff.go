// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package hazard

import "runtime"

// defaultSpinLimit is the number of pure-spin iterations a spinWaiter
// performs before yielding the processor, absent an explicit WithSpinLimit.
const defaultSpinLimit = 64

// spinWaiter implements the bounded spin-then-yield backoff used by
// Block-policy waits: it never falls back to a mutex or channel, trading
// worst-case wake latency for the absence of any blocking-progress
// guarantee the original algorithm never offered either.
type spinWaiter struct {
	limit int
	tries int
}

func newSpinWaiter(limit int) spinWaiter {
	if limit <= 0 {
		limit = defaultSpinLimit
	}
	return spinWaiter{limit: limit}
}

// wait performs one backoff step: a pure spin while under the configured
// limit, then runtime.Gosched to let other goroutines (including the ones
// this call is waiting on) make progress.
func (s *spinWaiter) wait() {
	s.tries++
	if s.tries <= s.limit {
		return
	}
	s.tries = 0
	runtime.Gosched()
}
