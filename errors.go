// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package hazard

import (
	"errors"
	"fmt"
)

// ErrAllocation is returned by [Domain.Load] and [Domain.Swap] when
// publishing a hazard record requires growing the underlying slot list and
// the configured allocator refuses. The default allocator never fails; this
// exists so callers can exercise the failure path (via [WithNodeAllocator])
// and so the public API matches the original algorithm's fallible
// allocation contract.
var ErrAllocation = errors.New("hazard: node allocation failed")

// wrapAllocErr annotates ErrAllocation with which operation triggered it,
// while remaining unwrappable to ErrAllocation via errors.Is.
func wrapAllocErr(op string) error {
	return fmt.Errorf("hazard: %s: %w", op, ErrAllocation)
}
