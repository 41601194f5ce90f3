// Package netmsg iterates newline delimited messages read from a network connection.
// The connection is the resource owned by the iterator, and it is closed when the iterator is released.
package netmsg

import (
	"bufio"
	"net"

	"go.llib.dev/dispose/pkg/disposable"
	"go.llib.dev/dispose/pkg/option"
	"go.llib.dev/dispose/pkg/signal"
)

// Dialer opens the connection for a new iteration, such as a func wrapping net.Dial.
type Dialer func() (net.Conn, error)

// Messages returns an Iterable that dials a new connection for every iteration.
// A dial error is returned from Iterator, and nothing needs to be released in that case.
func Messages(name string, dial Dialer, opts ...disposable.Option) disposable.Iterable[string] {
	return disposable.IterableFunc[string](func() (disposable.Iterator[string], error) {
		conn, err := dial()
		if err != nil {
			return nil, err
		}
		return FromConn(name, conn, opts...), nil
	})
}

// FromConn takes ownership of conn and returns an iterator of the messages read from it.
//
// The connection reports its signals as "<name>.conn".
// On Close, the iterator is disposed first, then the connection gets closed.
// A connection can't be rewound, so Reset returns disposable.ErrResetUnsupported.
func FromConn(name string, conn net.Conn, opts ...disposable.Option) *disposable.Wrapper[string] {
	c := option.Use[disposable.Config](opts)
	r := &reader{
		name:    name + ".conn",
		sink:    c.Sink,
		conn:    conn,
		scanner: bufio.NewScanner(conn),
	}
	signal.Emit(r.sink, signal.Signal{Kind: signal.Opened, Source: r.name, Data: conn.RemoteAddr().String()})
	return disposable.Wrap[string](name, r, opts...)
}

type reader struct {
	name    string
	sink    signal.Sink
	conn    net.Conn
	scanner *bufio.Scanner
	value   string
	err     error
	closed  bool
}

func (r *reader) Next() bool {
	if r.err != nil || r.closed {
		return false
	}
	if r.scanner.Scan() {
		r.value = r.scanner.Text()
		return true
	}
	if err := r.scanner.Err(); err != nil {
		r.err = err
		signal.Emit(r.sink, signal.Signal{Kind: signal.Failed, Source: r.name, Err: err})
	}
	r.value = ""
	return false
}

func (r *reader) Value() string {
	return r.value
}

func (r *reader) Reset() error {
	return disposable.ErrResetUnsupported
}

func (r *reader) Err() error {
	return r.err
}

func (r *reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	err := r.conn.Close()
	signal.Emit(r.sink, signal.Signal{Kind: signal.Closed, Source: r.name, Err: err})
	return err
}
