// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package hazard

// Option configures a Domain at construction time. See [WithLogger],
// [WithMetrics] and [WithSpinLimit].
type Option[T any] interface {
	apply(*domainOptions[T]) error
}

type domainOptions[T any] struct {
	logger       Logger
	metrics      Metrics
	spinLimit    int
	allocHazard  func() *node[T]
	allocRetired func() *node[T]
	destructor   func(*T)
}

func defaultDomainOptions[T any]() *domainOptions[T] {
	return &domainOptions[T]{
		logger:    NoOpLogger{},
		spinLimit: defaultSpinLimit,
	}
}

type optionFunc[T any] func(*domainOptions[T]) error

func (f optionFunc[T]) apply(o *domainOptions[T]) error { return f(o) }

// WithLogger configures the [Logger] a Domain reports diagnostic and misuse
// events to. The default is [NoOpLogger].
func WithLogger[T any](l Logger) Option[T] {
	return optionFunc[T](func(o *domainOptions[T]) error {
		if l != nil {
			o.logger = l
		}
		return nil
	})
}

// WithMetrics configures the [Metrics] sink a Domain reports latency and
// reclamation measurements to. The default is nil (disabled).
func WithMetrics[T any](m Metrics) Option[T] {
	return optionFunc[T](func(o *domainOptions[T]) error {
		o.metrics = m
		return nil
	})
}

// WithSpinLimit bounds the number of pure-spin iterations [Domain.RetirePointer]
// and [Domain.Cleanup] perform under [Block] policy before yielding the
// processor via runtime.Gosched. n must be positive; values <= 0 are
// ignored.
func WithSpinLimit[T any](n int) Option[T] {
	return optionFunc[T](func(o *domainOptions[T]) error {
		if n > 0 {
			o.spinLimit = n
		}
		return nil
	})
}

// WithDestructor configures the function invoked on each value once it is
// safe to reclaim (no hazard record references it). The default is a no-op,
// leaving reclamation entirely to the Go garbage collector; supply a
// destructor to release non-memory resources (file handles, pooled buffers)
// attached to T.
func WithDestructor[T any](fn func(*T)) Option[T] {
	return optionFunc[T](func(o *domainOptions[T]) error {
		o.destructor = fn
		return nil
	})
}

// WithNodeAllocator overrides the allocator used to grow the hazard list and
// the retired list independently. It exists to deterministically exercise
// [ErrAllocation] in tests; production code should not need it.
func WithNodeAllocator[T any](hazard, retired func() *node[T]) Option[T] {
	return optionFunc[T](func(o *domainOptions[T]) error {
		o.allocHazard = hazard
		o.allocRetired = retired
		return nil
	})
}

func resolveOptions[T any](opts []Option[T]) (*domainOptions[T], error) {
	o := defaultDomainOptions[T]()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}
