// Package logger provides tooling for structured logging.
// With logger, you can use context to add logging details to your call stack.
package logger

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"go.llib.dev/testcase/clock"
)

type Logger struct {
	Out io.Writer

	// Level is the minimum level that will be written to the output.
	// When empty, the level is resolved from the environment (LOG_LEVEL), or it defaults to info.
	Level Level

	Separator string

	MessageKey   string
	LevelKey     string
	TimestampKey string

	// MarshalFunc is used to serialise the logging message event.
	// When nil it defaults to JSON format.
	MarshalFunc func(any) ([]byte, error)
}

const (
	levelDefaultKey   = "level"
	messageDefaultKey = "message"
	timestampKey      = "timestamp"
)

// outLock serialises writes, so entries from loggers sharing an output don't interleave.
var outLock sync.Mutex

func (l Logger) Debug(ctx context.Context, msg string, ds ...LoggingDetail) {
	l.log(ctx, LevelDebug, msg, ds)
}

func (l Logger) Info(ctx context.Context, msg string, ds ...LoggingDetail) {
	l.log(ctx, LevelInfo, msg, ds)
}

func (l Logger) Warn(ctx context.Context, msg string, ds ...LoggingDetail) {
	l.log(ctx, LevelWarn, msg, ds)
}

func (l Logger) Error(ctx context.Context, msg string, ds ...LoggingDetail) {
	l.log(ctx, LevelError, msg, ds)
}

func (l Logger) Fatal(ctx context.Context, msg string, ds ...LoggingDetail) {
	l.log(ctx, LevelFatal, msg, ds)
}

func (l Logger) log(ctx context.Context, level Level, msg string, ds []LoggingDetail) {
	if !isLevelEnabled(l.level(), level) {
		return
	}
	entry := l.toLogEntry(logEvent{
		Context:   ctx,
		Level:     level,
		Message:   msg,
		Details:   ds,
		Timestamp: clock.Now(),
	})
	bs, err := l.marshalFunc()(entry)
	if err != nil {
		return
	}
	outLock.Lock()
	defer outLock.Unlock()
	_, _ = l.writer().Write(append(bs, []byte(l.separator())...))
}

type logEvent struct {
	Context   context.Context
	Level     Level
	Message   string
	Timestamp time.Time
	Details   []LoggingDetail
}

func (l Logger) level() Level {
	if l.Level != "" {
		return l.Level
	}
	return defaultLevel
}

func (l Logger) writer() io.Writer {
	if l.Out != nil {
		return l.Out
	}
	return os.Stdout
}

func (l Logger) marshalFunc() func(any) ([]byte, error) {
	if l.MarshalFunc != nil {
		return l.MarshalFunc
	}
	return json.Marshal
}

func coalesce(key, defaultKey string) string {
	if key != "" {
		return key
	}
	return defaultKey
}

func (l Logger) toLogEntry(event logEvent) logEntry {
	le := make(logEntry)
	le.Merge(getLoggingDetailsFromContext(event.Context))
	for _, ld := range event.Details {
		ld.addTo(le)
	}
	le[coalesce(l.LevelKey, levelDefaultKey)] = event.Level
	le[coalesce(l.MessageKey, messageDefaultKey)] = event.Message
	le[coalesce(l.TimestampKey, timestampKey)] = event.Timestamp.Format(time.RFC3339)
	return le
}

func (l Logger) separator() string {
	if l.Separator != "" {
		return l.Separator
	}
	switch os.PathSeparator {
	case '\\':
		return "\r\n"
	default:
		return "\n"
	}
}
