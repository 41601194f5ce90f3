package disposable

import (
	"go.llib.dev/dispose/pkg/option"
)

// Wrap returns an iterator that takes ownership of inner.
// Traversal is forwarded to inner unchanged.
// Close releases the Wrapper first, then inner.
func Wrap[T any](name string, inner Iterator[T], opts ...Option) *Wrapper[T] {
	return &Wrapper[T]{
		lifecycle: newLifecycle(name, option.Use[Config](opts)),
		inner:     inner,
	}
}

type Wrapper[T any] struct {
	lifecycle
	inner Iterator[T]
}

func (i *Wrapper[T]) Next() bool {
	if !i.guard() {
		return false
	}
	return i.inner.Next()
}

func (i *Wrapper[T]) Value() T {
	if !i.guard() {
		var zero T
		return zero
	}
	return i.inner.Value()
}

func (i *Wrapper[T]) Reset() error {
	if !i.guard() {
		return i.err
	}
	return i.inner.Reset()
}

func (i *Wrapper[T]) Err() error {
	if i.err != nil {
		return i.err
	}
	return i.inner.Err()
}

func (i *Wrapper[T]) Close() error {
	steps := append([]func() error{i.emitDisposed}, i.hooks()...)
	return i.release(append(steps, i.inner.Close)...)
}

// WrapIterable applies Wrap on every iterator the iterable creates.
func WrapIterable[T any](name string, iterable Iterable[T], opts ...Option) Iterable[T] {
	return IterableFunc[T](func() (Iterator[T], error) {
		inner, err := iterable.Iterator()
		if err != nil {
			return nil, err
		}
		return Wrap[T](name, inner, opts...), nil
	})
}
