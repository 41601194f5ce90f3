package disposable

import (
	"go.llib.dev/dispose/pkg/errorkit"
	"go.llib.dev/dispose/pkg/option"
)

// NewNesting returns an outer iterator over outer values,
// which can spawn an independently scoped inner iteration for its current value with Inner.
func NewNesting[O, I any](name string, outer []O, spawn func(O) Iterator[I], opts ...Option) *Nesting[O, I] {
	return &Nesting[O, I]{
		lifecycle: newLifecycle(name, option.Use[Config](opts)),
		outer:     outer,
		spawn:     spawn,
		index:     -1,
	}
}

// Nesting is an outer iterator which keeps a reference to the inner iterators it spawned.
//
// Inner iterators are meant to be released by their own scope (a nested ForEach).
// Any inner iterator still referenced is released before the outer advances,
// and when the outer itself is released, after the outer's own disposal.
// Since Close is idempotent, inners released by their own scope are not released twice.
// When a leftover inner fails to close, the outer fails and stays failed until Reset.
type Nesting[O, I any] struct {
	lifecycle
	outer  []O
	spawn  func(O) Iterator[I]
	index  int
	inners []Iterator[I]
	failed bool
}

func (i *Nesting[O, I]) Next() bool {
	if !i.guard() {
		return false
	}
	if i.failed {
		return false
	}
	if err := i.closeInners(); err != nil {
		i.failed = true
		i.fail(err)
		return false
	}
	if i.index < len(i.outer) {
		i.index++
	}
	return i.index < len(i.outer)
}

func (i *Nesting[O, I]) Value() O {
	var zero O
	if !i.guard() {
		return zero
	}
	if i.failed || !i.hasCurrent() {
		return zero
	}
	return i.outer[i.index]
}

func (i *Nesting[O, I]) Reset() error {
	if !i.guard() {
		return i.err
	}
	if err := i.closeInners(); err != nil {
		return err
	}
	i.index = -1
	i.failed = false
	i.err = nil
	return nil
}

func (i *Nesting[O, I]) Err() error {
	return i.err
}

// Inner returns an Iterable which spawns the inner iteration of the current outer element.
// The outer keeps a reference to every spawned inner iterator until it advances or gets released.
func (i *Nesting[O, I]) Inner() Iterable[I] {
	return IterableFunc[I](func() (Iterator[I], error) {
		if i.disposed {
			return nil, ErrDisposed
		}
		if i.failed || !i.hasCurrent() {
			return nil, ErrNoCurrent.F("%s has no current element to iterate", i.name)
		}
		inner := i.spawn(i.outer[i.index])
		i.inners = append(i.inners, inner)
		return inner, nil
	})
}

// Close reports the outer as disposed first, then releases the inner iterators it still references.
func (i *Nesting[O, I]) Close() error {
	steps := append([]func() error{i.emitDisposed}, i.hooks()...)
	return i.release(append(steps, i.closeInners)...)
}

func (i *Nesting[O, I]) hasCurrent() bool {
	return 0 <= i.index && i.index < len(i.outer)
}

func (i *Nesting[O, I]) closeInners() error {
	inners := i.inners
	i.inners = nil
	var errs []error
	for _, inner := range inners {
		errs = append(errs, inner.Close())
	}
	return errorkit.Merge(errs...)
}
