package disposable

import (
	"go.llib.dev/dispose/pkg/option"
)

// NewFailing returns an iterator over values that fails with cause
// when Next reaches the failAt-th position (counted from 1), instead of advancing.
// The failure is an ErrDomain, which wraps cause when one is given.
func NewFailing[T any](name string, values []T, failAt int, cause error, opts ...Option) *Failing[T] {
	return &Failing[T]{
		lifecycle: newLifecycle(name, option.Use[Config](opts)),
		values:    values,
		failAt:    failAt,
		cause:     ErrDomain.Wrap(cause),
		index:     -1,
	}
}

// Failing models a source whose element production breaks mid traversal.
// The failure is reported through Err and is never mistaken for exhaustion.
type Failing[T any] struct {
	lifecycle
	values []T
	failAt int
	cause  error
	index  int
	failed bool
}

func (i *Failing[T]) Next() bool {
	if !i.guard() {
		return false
	}
	if i.failed {
		return false
	}
	if i.index < len(i.values) {
		i.index++
	}
	if i.index+1 == i.failAt {
		i.failed = true
		i.fail(i.cause)
		return false
	}
	return i.index < len(i.values)
}

func (i *Failing[T]) Value() T {
	var zero T
	if !i.guard() {
		return zero
	}
	if i.failed || i.index < 0 || len(i.values) <= i.index {
		return zero
	}
	return i.values[i.index]
}

// Reset rewinds the cursor and clears a previous failure.
func (i *Failing[T]) Reset() error {
	if !i.guard() {
		return i.err
	}
	i.index = -1
	i.failed = false
	i.err = nil
	return nil
}

func (i *Failing[T]) Err() error {
	return i.err
}

func (i *Failing[T]) Close() error {
	return i.release(append([]func() error{i.emitDisposed}, i.hooks()...)...)
}
