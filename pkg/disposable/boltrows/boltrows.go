// Package boltrows iterates the key value pairs of a bolt bucket.
//
// Every iteration runs in its own read-only transaction,
// which is the resource owned by the iterator.
// The transaction is rolled back when the iterator is released,
// so a forgotten iterator would keep the database from closing,
// use disposable.ForEach to scope the iteration.
package boltrows

import (
	"bytes"

	"github.com/boltdb/bolt"

	"go.llib.dev/dispose/pkg/disposable"
	"go.llib.dev/dispose/pkg/option"
	"go.llib.dev/dispose/pkg/signal"
)

// KV is a key value pair of a bucket.
// Both slices are copies, so they remain valid after the transaction ends.
type KV struct {
	Key   []byte
	Value []byte
}

// Bucket returns an Iterable over the pairs of the named bucket, in key order.
// A missing bucket results in an empty iteration.
func Bucket(db *bolt.DB, bucket string, opts ...disposable.Option) disposable.Iterable[KV] {
	return disposable.IterableFunc[KV](func() (disposable.Iterator[KV], error) {
		tx, err := db.Begin(false)
		if err != nil {
			return nil, err
		}
		return FromTx(bucket, tx, opts...), nil
	})
}

// FromTx takes ownership of a read transaction and iterates the named bucket within it.
// The transaction reports its signals as "<bucket>.tx".
// On Close, the iterator is disposed first, then the transaction is rolled back.
func FromTx(bucket string, tx *bolt.Tx, opts ...disposable.Option) *disposable.Wrapper[KV] {
	c := option.Use[disposable.Config](opts)
	cur := &cursor{
		name: bucket + ".tx",
		sink: c.Sink,
		tx:   tx,
	}
	if b := tx.Bucket([]byte(bucket)); b != nil {
		cur.cursor = b.Cursor()
	}
	signal.Emit(cur.sink, signal.Signal{Kind: signal.Opened, Source: cur.name, Data: tx.ID()})
	return disposable.Wrap[KV](bucket, cur, opts...)
}

type cursor struct {
	name   string
	sink   signal.Sink
	tx     *bolt.Tx
	cursor *bolt.Cursor

	started bool
	done    bool
	value   KV
	closed  bool
}

func (c *cursor) Next() bool {
	if c.closed || c.done || c.cursor == nil {
		return false
	}
	var k, v []byte
	if c.started {
		k, v = c.cursor.Next()
	} else {
		k, v = c.cursor.First()
		c.started = true
	}
	if k == nil {
		c.done = true
		c.value = KV{}
		return false
	}
	c.value = KV{Key: bytes.Clone(k), Value: bytes.Clone(v)}
	return true
}

func (c *cursor) Value() KV {
	return c.value
}

func (c *cursor) Reset() error {
	c.started = false
	c.done = false
	c.value = KV{}
	return nil
}

func (c *cursor) Err() error {
	return nil
}

func (c *cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	err := c.tx.Rollback()
	signal.Emit(c.sink, signal.Signal{Kind: signal.Closed, Source: c.name, Err: err})
	return err
}
