package logger

import (
	"fmt"
)

type LoggingDetail interface{ addTo(logEntry) }

func Field(key string, value any) LoggingDetail {
	return field{Key: key, Value: value}
}

type field struct {
	Key   string
	Value any
}

func (f field) addTo(e logEntry) {
	val := toFieldValue(f.Value)
	if _, ok := val.(nullLoggingDetail); ok {
		return
	}
	e[f.Key] = val
}

type Fields map[string]any

func (fields Fields) addTo(e logEntry) {
	for k, v := range fields {
		Field(k, v).addTo(e)
	}
}

func ErrField(err error) LoggingDetail {
	if err == nil {
		return nullLoggingDetail{}
	}
	return Field("error", Fields{
		"message": err.Error(),
		"type":    fmt.Sprintf("%T", err),
	})
}

func toFieldValue(val any) any {
	switch val := val.(type) {
	case nil:
		return nil
	case logEntry:
		vs := map[string]any{}
		for k, v := range val {
			vs[k] = toFieldValue(v)
		}
		return vs
	case field:
		le := logEntry{}
		val.addTo(le)
		return toFieldValue(le)
	case Fields:
		le := logEntry{}
		val.addTo(le)
		return toFieldValue(le)
	case []LoggingDetail:
		le := logEntry{}
		for _, v := range val {
			v.addTo(le)
		}
		return toFieldValue(le)
	case nullLoggingDetail:
		return val
	case error:
		return val.Error()
	case fmt.Stringer:
		return val.String()
	default:
		return val
	}
}

type logEntry map[string]any

func (ld logEntry) addTo(entry logEntry) { entry.Merge(ld) }

func (ld logEntry) Merge(oth logEntry) logEntry {
	for k, v := range oth {
		ld[k] = v
	}
	return ld
}

type nullLoggingDetail struct{}

func (nullLoggingDetail) addTo(logEntry) {}
