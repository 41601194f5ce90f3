// Package sqlrows allow you to use the disposable iterator pattern with sql.Rows.
// The rows are the resource owned by the iterator, and they are closed when the iterator is released,
// which returns the underlying connection to the pool.
package sqlrows

import (
	"context"
	"database/sql"
	"io"

	"go.llib.dev/dispose/pkg/disposable"
	"go.llib.dev/dispose/pkg/option"
	"go.llib.dev/dispose/pkg/signal"
)

type Rows interface {
	io.Closer
	Next() bool
	Err() error
	Scan(dest ...any) error
}

type Scanner interface {
	Scan(dest ...any) error
}

type Mapper[T any] interface {
	Map(s Scanner) (T, error)
}

type MapperFunc[T any] func(Scanner) (T, error)

func (fn MapperFunc[T]) Map(s Scanner) (T, error) { return fn(s) }

// Queryer is implemented by *sql.DB, *sql.Conn and *sql.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Query returns an Iterable that executes the query for every iteration.
// A query error is returned from Iterator, and nothing needs to be released in that case.
func Query[T any](ctx context.Context, name string, db Queryer, mapper Mapper[T], query string, args []any, opts ...disposable.Option) disposable.Iterable[T] {
	return disposable.IterableFunc[T](func() (disposable.Iterator[T], error) {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		return FromRows[T](name, rows, mapper, opts...), nil
	})
}

// FromRows takes ownership of the rows and maps each of them with mapper.
//
// The rows report their signals as "<name>.rows".
// On Close, the iterator is disposed first, then the rows are closed.
// Rows can't be rewound, so Reset returns disposable.ErrResetUnsupported.
func FromRows[T any](name string, rows Rows, mapper Mapper[T], opts ...disposable.Option) *disposable.Wrapper[T] {
	c := option.Use[disposable.Config](opts)
	r := &rowsIterator[T]{
		name:   name + ".rows",
		sink:   c.Sink,
		rows:   rows,
		mapper: mapper,
	}
	signal.Emit(r.sink, signal.Signal{Kind: signal.Opened, Source: r.name})
	return disposable.Wrap[T](name, r, opts...)
}

type rowsIterator[T any] struct {
	name   string
	sink   signal.Sink
	rows   Rows
	mapper Mapper[T]

	value  T
	err    error
	closed bool
}

func (i *rowsIterator[T]) Next() bool {
	var zero T
	i.value = zero
	if i.err != nil || i.closed {
		return false
	}
	if !i.rows.Next() {
		if err := i.rows.Err(); err != nil {
			i.fail(err)
		}
		return false
	}
	v, err := i.mapper.Map(i.rows)
	if err != nil {
		i.fail(err)
		return false
	}
	i.value = v
	return true
}

func (i *rowsIterator[T]) fail(err error) {
	i.err = err
	signal.Emit(i.sink, signal.Signal{Kind: signal.Failed, Source: i.name, Err: err})
}

func (i *rowsIterator[T]) Value() T {
	return i.value
}

func (i *rowsIterator[T]) Reset() error {
	return disposable.ErrResetUnsupported
}

func (i *rowsIterator[T]) Err() error {
	return i.err
}

func (i *rowsIterator[T]) Close() error {
	if i.closed {
		return nil
	}
	i.closed = true
	err := i.rows.Close()
	signal.Emit(i.sink, signal.Signal{Kind: signal.Closed, Source: i.name, Err: err})
	return err
}
