package disposable

import (
	"go.llib.dev/dispose/pkg/signal"
	"go.llib.dev/dispose/pkg/teardown"
)

// lifecycle is the release state shared by every iterator variant.
type lifecycle struct {
	name     string
	sink     signal.Sink
	onClose  []func() error
	disposed bool
	err      error
}

func newLifecycle(name string, c Config) lifecycle {
	return lifecycle{name: name, sink: c.Sink, onClose: c.OnClose}
}

// Name returns the source name the iterator uses in its signals.
func (l *lifecycle) Name() string { return l.name }

// IsDisposed reports whether the iterator has been released.
func (l *lifecycle) IsDisposed() bool { return l.disposed }

// guard records ErrDisposed and reports false when the iterator is already released.
func (l *lifecycle) guard() bool {
	if l.disposed {
		l.err = ErrDisposed
		return false
	}
	return true
}

func (l *lifecycle) fail(err error) {
	l.err = err
	l.emit(signal.Signal{Kind: signal.Failed, Source: l.name, Err: err})
}

func (l *lifecycle) emit(s signal.Signal) {
	signal.Emit(l.sink, s)
}

func (l *lifecycle) emitDisposed() error {
	l.emit(signal.Signal{Kind: signal.Disposed, Source: l.name})
	return nil
}

func (l *lifecycle) hooks() []func() error {
	return l.onClose
}

// release runs the steps in the given order, exactly once.
// The disposed flag flips before the first step runs,
// so a Close reached again from within a step is a no-op.
// Every step runs, even if a previous one panics.
func (l *lifecycle) release(steps ...func() error) error {
	if l.disposed {
		return nil
	}
	l.disposed = true
	var td teardown.Teardown
	for i := len(steps) - 1; 0 <= i; i-- {
		if steps[i] == nil {
			continue
		}
		td.Defer(steps[i])
	}
	return td.Finish()
}
