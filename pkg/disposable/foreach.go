package disposable

import (
	"errors"

	"go.llib.dev/dispose/pkg/errorkit"
)

// ForEach obtains an iterator from iterable and calls fn with every element, until the iteration ends.
//
// The iterator is closed exactly once on every exit path, before ForEach returns:
// exhaustion, an iterator failure, an error from fn, fn returning Break, or a panic.
// Errors are returned unchanged.
// A Close error is only returned when the iteration itself ended without an error.
// If the iterable fails to create an iterator, its error is returned and nothing is released.
func ForEach[T any](iterable Iterable[T], fn func(T) error) error {
	itr, err := iterable.Iterator()
	if err != nil {
		return err
	}
	return Drive[T](itr, fn)
}

// Drive takes ownership of an already obtained iterator,
// and drives it with the same release guarantees as ForEach.
func Drive[T any](itr Iterator[T], fn func(T) error) (rErr error) {
	defer errorkit.Finish(&rErr, itr.Close)
	for itr.Next() {
		if err := fn(itr.Value()); err != nil {
			if errors.Is(err, Break) {
				return nil
			}
			return err
		}
	}
	return itr.Err()
}

// Collect drives the iterable to exhaustion and returns the collected elements.
// On failure, the elements collected until the failure are returned along with the error.
func Collect[T any](iterable Iterable[T]) ([]T, error) {
	var vs []T
	err := ForEach[T](iterable, func(v T) error {
		vs = append(vs, v)
		return nil
	})
	return vs, err
}
