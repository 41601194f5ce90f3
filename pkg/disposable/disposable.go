// Package disposable implements iterators that own or borrow an external resource,
// and release it exactly once when the iteration ends.
//
// # Summary
//
// A disposable iterator is a pull based cursor (Next, Value, Reset) with a Close method.
// Close is idempotent, and after Close every traversal call fails with ErrDisposed
// instead of returning stale data.
//
// Release is coupled to the consuming scope rather than to the garbage collector:
// ForEach obtains an iterator from an Iterable, drives it to exhaustion,
// and closes it on every exit path, including errors returned by the iterator or the callback,
// an early Break, or a panic.
//
// Composite iterators (Wrapper and Nesting) forward Close to the iterators they hold,
// always releasing themselves first, then their inner iterators.
package disposable

import (
	"io"

	"go.llib.dev/dispose/pkg/errorkit"
	"go.llib.dev/dispose/pkg/option"
	"go.llib.dev/dispose/pkg/signal"
)

const (
	// ErrDisposed is the invalid use error, returned when a released iterator is traversed.
	ErrDisposed errorkit.Error = "ErrDisposed"
	// ErrDomain is the default failure of element production.
	ErrDomain errorkit.Error = "ErrDomain"
	// ErrNoCurrent is returned when an operation needs a current element, but the cursor is not on one.
	ErrNoCurrent errorkit.Error = "ErrNoCurrent"
	// ErrResetUnsupported is returned by iterators whose source can't be rewound.
	ErrResetUnsupported errorkit.Error = "ErrResetUnsupported"
	// Break can be returned from a ForEach callback to end the iteration early without an error.
	Break errorkit.Error = "disposable:break"
)

// Iterator define a separate object that encapsulates accessing and traversing an aggregate object,
// while it owns or borrows the resource behind the aggregate.
type Iterator[T any] interface {
	// Closer releases the resources behind the iterator.
	// It must be idempotent: only the first call has side effects.
	io.Closer
	// Next moves the cursor to the next element.
	// It returns true if a current element exists.
	// When Next returns false, Err tells apart exhaustion (nil) from failure.
	Next() bool
	// Value returns the element under the cursor.
	// It is only meaningful after Next returned true.
	Value() T
	// Reset rewinds the cursor to before the first element.
	Reset() error
	// Err return the error cause.
	Err() error
}

// Iterable is the factory of a fresh Iterator for every iteration.
type Iterable[T any] interface {
	Iterator() (Iterator[T], error)
}

type IterableFunc[T any] func() (Iterator[T], error)

func (fn IterableFunc[T]) Iterator() (Iterator[T], error) { return fn() }

type Config struct {
	Sink    signal.Sink
	OnClose []func() error
}

type Option = option.Option[Config]

// WithSink sets where the iterator reports its lifecycle signals.
func WithSink(sink signal.Sink) Option {
	return option.Func[Config](func(c *Config) { c.Sink = sink })
}

// OnClose registers a hook that runs once, as part of the iterator's release.
func OnClose(fn func() error) Option {
	return option.Func[Config](func(c *Config) { c.OnClose = append(c.OnClose, fn) })
}
