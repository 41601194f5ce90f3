package logger

import (
	"context"
)

type ctxKeyDetails struct{}

type ctxValue struct {
	Super    *ctxValue
	LogEntry logEntry
}

// ContextWith attaches logging details to the context.
// Every log entry made with the returned context will include them.
func ContextWith(ctx context.Context, lds ...LoggingDetail) context.Context {
	if len(lds) == 0 {
		return ctx
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var v ctxValue
	if prev, ok := lookupValue(ctx); ok {
		v.Super = prev
	}
	v.LogEntry = make(logEntry)
	for _, ld := range lds {
		ld.addTo(v.LogEntry)
	}
	return context.WithValue(ctx, ctxKeyDetails{}, &v)
}

// getLoggingDetailsFromContext returns the details attached to the context
func getLoggingDetailsFromContext(ctx context.Context) logEntry {
	d := make(logEntry)
	if ctx == nil {
		return d
	}
	v, ok := lookupValue(ctx)
	if !ok {
		return d
	}
	var chain []*ctxValue
	for ; v != nil; v = v.Super {
		chain = append(chain, v)
	}
	// details attached later override the earlier ones
	for i := len(chain) - 1; 0 <= i; i-- {
		d.Merge(chain[i].LogEntry)
	}
	return d
}

func lookupValue(ctx context.Context) (*ctxValue, bool) {
	if ptr, ok := ctx.Value(ctxKeyDetails{}).(*ctxValue); ok {
		return ptr, true
	}
	return nil, false
}
