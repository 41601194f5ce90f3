package disposable

import (
	"io"

	"go.llib.dev/dispose/pkg/option"
	"go.llib.dev/dispose/pkg/resource"
)

// Open acquires a resource.Connection and returns a Plain iterator that owns it.
// The connection reports its signals as "<name>.conn".
func Open[T any](name string, values []T, opts ...Option) *Plain[T] {
	c := option.Use[Config](opts)
	conn := resource.Connect(name+".conn", resource.WithSink(c.Sink))
	return NewPlain[T](name, conn, values, opts...)
}

// NewPlain returns an iterator over a finite sequence of values,
// which owns res and releases it on Close.
// res can be nil when there is nothing to release besides the iterator itself.
func NewPlain[T any](name string, res io.Closer, values []T, opts ...Option) *Plain[T] {
	return &Plain[T]{
		lifecycle: newLifecycle(name, option.Use[Config](opts)),
		res:       res,
		values:    values,
		index:     -1,
	}
}

// Plain is an iterator over a fixed sequence, backed by an owned resource.
type Plain[T any] struct {
	lifecycle
	res    io.Closer
	values []T
	index  int
}

func (i *Plain[T]) Next() bool {
	if !i.guard() {
		return false
	}
	if i.index < len(i.values) {
		i.index++
	}
	return i.index < len(i.values)
}

func (i *Plain[T]) Value() T {
	var zero T
	if !i.guard() {
		return zero
	}
	if i.index < 0 || len(i.values) <= i.index {
		return zero
	}
	return i.values[i.index]
}

func (i *Plain[T]) Reset() error {
	if !i.guard() {
		return i.err
	}
	i.index = -1
	return nil
}

func (i *Plain[T]) Err() error {
	return i.err
}

// Close releases the owned resource first, then reports the iterator as disposed.
func (i *Plain[T]) Close() error {
	steps := []func() error{i.closeResource, i.emitDisposed}
	return i.release(append(steps, i.hooks()...)...)
}

func (i *Plain[T]) closeResource() error {
	if i.res == nil {
		return nil
	}
	return i.res.Close()
}

// Slice returns an Iterable that creates a Plain iterator over values for each iteration.
// The iterators own no resource.
func Slice[T any](values []T, opts ...Option) Iterable[T] {
	return IterableFunc[T](func() (Iterator[T], error) {
		return NewPlain[T]("slice", nil, values, opts...), nil
	})
}
