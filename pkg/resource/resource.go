// Package resource models a releasable external resource, such as a database connection or a socket.
// A resource is acquired when it is constructed and released exactly once.
package resource

import (
	"go.llib.dev/dispose/pkg/option"
	"go.llib.dev/dispose/pkg/signal"

	uuid "github.com/satori/go.uuid"
)

// Connection is a logical connection that must be closed exactly once.
// Closing an already closed Connection is a no-op.
type Connection struct {
	id     string
	name   string
	sink   signal.Sink
	isOpen bool
}

type Config struct {
	Sink signal.Sink
}

type Option = option.Option[Config]

func WithSink(sink signal.Sink) Option {
	return option.Func[Config](func(c *Config) { c.Sink = sink })
}

// Connect acquires a new Connection and emits the Opened signal.
func Connect(name string, opts ...Option) *Connection {
	c := option.Use[Config](opts)
	conn := &Connection{
		id:   uuid.NewV4().String(),
		name: name,
		sink: c.Sink,
	}
	conn.isOpen = true
	signal.Emit(conn.sink, signal.Signal{Kind: signal.Opened, Source: conn.name, Data: conn.id})
	return conn
}

func (c *Connection) ID() string   { return c.id }
func (c *Connection) Name() string { return c.name }
func (c *Connection) IsOpen() bool { return c.isOpen }

// Close releases the connection.
// Only the first call emits the Closed signal, the rest are no-op.
func (c *Connection) Close() error {
	if !c.isOpen {
		return nil
	}
	c.isOpen = false
	signal.Emit(c.sink, signal.Signal{Kind: signal.Closed, Source: c.name, Data: c.id})
	return nil
}
