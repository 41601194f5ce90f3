// Package signal is the observable boundary of resource lifecycles.
// Resources and iterators emit a Signal whenever they are opened, closed, disposed or when they fail,
// and the order of these signals is the externally visible contract of the release protocol.
package signal

import (
	"context"
	"fmt"
	"sync"

	"go.llib.dev/dispose/pkg/logger"
)

type Kind string

func (k Kind) String() string { return string(k) }

const (
	Opened   Kind = "opened"
	Closed   Kind = "closed"
	Disposed Kind = "disposed"
	Failed   Kind = "failed"
	Value    Kind = "value"
)

type Signal struct {
	Kind   Kind
	Source string
	// Err is the cause of a Failed signal.
	Err error
	// Data is an optional payload, such as the element for a Value signal.
	Data any
}

func (s Signal) String() string {
	return fmt.Sprintf("%s:%s", s.Source, s.Kind)
}

// Sink receives the signals emitted during a resource lifecycle.
type Sink interface {
	Emit(Signal)
}

type SinkFunc func(Signal)

func (fn SinkFunc) Emit(s Signal) { fn(s) }

// Discard is a Sink that drops every signal.
var Discard Sink = SinkFunc(func(Signal) {})

// Emit sends the signal to the sink, or drops it when sink is nil.
func Emit(sink Sink, s Signal) {
	if sink == nil {
		return
	}
	sink.Emit(s)
}

// Tee fans out every signal to the given sinks, in order.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(s Signal) {
		for _, sink := range sinks {
			Emit(sink, s)
		}
	})
}

// Recorder keeps an ordered trace of the received signals.
type Recorder struct {
	mutex   sync.Mutex
	signals []Signal
}

func (r *Recorder) Emit(s Signal) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.signals = append(r.signals, s)
}

// Signals returns a copy of the recorded trace.
func (r *Recorder) Signals() []Signal {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]Signal{}, r.signals...)
}

// Strings returns the recorded trace in "<source>:<kind>" format.
// When kinds are given, only signals with those kinds are returned.
func (r *Recorder) Strings(kinds ...Kind) []string {
	var out = []string{}
	for _, s := range r.Signals() {
		if !match(s.Kind, kinds) {
			continue
		}
		out = append(out, s.String())
	}
	return out
}

// Count returns how many times source emitted kind.
func (r *Recorder) Count(kind Kind, source string) int {
	var n int
	for _, s := range r.Signals() {
		if s.Kind == kind && s.Source == source {
			n++
		}
	}
	return n
}

// Index returns the position of the first matching signal in the trace, or -1.
func (r *Recorder) Index(kind Kind, source string) int {
	for i, s := range r.Signals() {
		if s.Kind == kind && s.Source == source {
			return i
		}
	}
	return -1
}

func (r *Recorder) Reset() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.signals = nil
}

func match(kind Kind, kinds []Kind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// LogSink writes each signal as a structured log entry.
// Failed signals are logged on error level, the rest on debug level.
type LogSink struct {
	Context context.Context
	// Logger is optional, when nil, logger.Default is used.
	Logger *logger.Logger
}

func (ls LogSink) Emit(s Signal) {
	l := logger.Default
	if ls.Logger != nil {
		l = *ls.Logger
	}
	ctx := ls.Context
	if ctx == nil {
		ctx = context.Background()
	}
	fields := logger.Fields{
		"source": s.Source,
		"signal": s.Kind.String(),
	}
	if s.Data != nil {
		fields["data"] = fmt.Sprint(s.Data)
	}
	if s.Kind == Failed {
		l.Error(ctx, s.String(), fields, logger.ErrField(s.Err))
		return
	}
	l.Debug(ctx, s.String(), fields)
}
