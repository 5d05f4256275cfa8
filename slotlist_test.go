// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package hazard

import (
	"sync"
	"testing"
)

func TestSlotList_InsertOrAppendReusesFreedSlot(t *testing.T) {
	l := newSlotList[int](nil)

	a := 1
	n1, err := l.insertOrAppend(&a)
	if err != nil {
		t.Fatalf("insertOrAppend: %v", err)
	}

	// free the slot
	n1.value.Store(nil)

	b := 2
	n2, err := l.insertOrAppend(&b)
	if err != nil {
		t.Fatalf("insertOrAppend: %v", err)
	}
	if n2 != n1 {
		t.Fatal("expected the freed slot to be reused rather than a new node allocated")
	}
}

func TestSlotList_InsertOrAppendAllocatesWhenNoFreeSlot(t *testing.T) {
	l := newSlotList[int](nil)

	a, b := 1, 2
	n1, err := l.insertOrAppend(&a)
	if err != nil {
		t.Fatalf("insertOrAppend: %v", err)
	}
	n2, err := l.insertOrAppend(&b)
	if err != nil {
		t.Fatalf("insertOrAppend: %v", err)
	}
	if n1 == n2 {
		t.Fatal("expected a distinct node for the second concurrently-occupied value")
	}
	if !l.contains(&a) || !l.contains(&b) {
		t.Fatal("both values should be present")
	}
}

func TestSlotList_InsertOrAppendPropagatesAllocationFailure(t *testing.T) {
	l := newSlotList[int](func() *node[int] { return nil })

	a := 1
	if _, err := l.insertOrAppend(&a); err != ErrAllocation {
		t.Fatalf("expected ErrAllocation, got %v", err)
	}
}

func TestSlotList_RemoveReleasesOneClaim(t *testing.T) {
	l := newSlotList[int](nil)

	v := 42
	if _, err := l.insertOrAppend(&v); err != nil {
		t.Fatalf("insertOrAppend: %v", err)
	}
	if _, err := l.insertOrAppend(&v); err != nil {
		t.Fatalf("insertOrAppend: %v", err)
	}

	if !l.remove(&v) {
		t.Fatal("expected remove to find a match")
	}
	if !l.contains(&v) {
		t.Fatal("expected the second occurrence of v to remain after removing one claim")
	}
	if !l.remove(&v) {
		t.Fatal("expected remove to find the remaining match")
	}
	if l.contains(&v) {
		t.Fatal("expected no occurrences of v to remain")
	}
}

func TestSlotList_RemoveReportsNoMatch(t *testing.T) {
	l := newSlotList[int](nil)
	v := 1
	if l.remove(&v) {
		t.Fatal("expected remove on an empty list to report no match")
	}
}

func TestSlotList_ClaimIfOnlyClearsMatchingPredicate(t *testing.T) {
	l := newSlotList[int](nil)

	a, b, c := 1, 2, 3
	for _, v := range []*int{&a, &b, &c} {
		if _, err := l.insertOrAppend(v); err != nil {
			t.Fatalf("insertOrAppend: %v", err)
		}
	}

	claimed := l.claimIf(func(v *int) bool { return *v != 2 })
	if len(claimed) != 2 {
		t.Fatalf("expected 2 claimed values, got %d", len(claimed))
	}
	if !l.contains(&b) {
		t.Fatal("value excluded by predicate should remain")
	}
	if l.contains(&a) || l.contains(&c) {
		t.Fatal("values matching predicate should have been claimed")
	}
}

func TestSlotList_DrainAllClearsEverything(t *testing.T) {
	l := newSlotList[int](nil)
	a, b := 1, 2
	l.insertOrAppend(&a)
	l.insertOrAppend(&b)

	drained := l.drainAll()
	if len(drained) != 2 {
		t.Fatalf("expected 2 drained values, got %d", len(drained))
	}
	if l.contains(&a) || l.contains(&b) {
		t.Fatal("expected list to be empty after drainAll")
	}
}

func TestSlotList_ConcurrentInsertAndRemove(t *testing.T) {
	l := newSlotList[int](nil)

	const n = 64
	values := make([]int, n)
	for i := range values {
		values[i] = i
	}

	var wg sync.WaitGroup
	wg.Add(n)
	for i := range values {
		v := &values[i]
		go func() {
			defer wg.Done()
			if _, err := l.insertOrAppend(v); err != nil {
				t.Errorf("insertOrAppend: %v", err)
				return
			}
			if !l.remove(v) {
				t.Errorf("remove: expected to find value %d", *v)
			}
		}()
	}
	wg.Wait()

	for i := range values {
		if l.contains(&values[i]) {
			t.Fatalf("expected value %d to have been removed", i)
		}
	}
}
