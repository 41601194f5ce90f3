// Package env provides typed lookup of configuration values from the environment.
package env

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"go.llib.dev/dispose/pkg/errorkit"
)

const ErrLoadInvalidData errorkit.Error = "ErrLoadInvalidData"

// Lookup retrieves the value of the environment variable named by the key and parses it into T.
// Supported types are string, bool, the integer and float kinds, time.Duration and slices of those.
// The boolean reports whether the variable (or its default value) was present.
func Lookup[T any](key string, opts ...LookupOption) (T, bool, error) {
	var conf lookupEnvOptions
	for _, opt := range opts {
		opt.configure(&conf)
	}
	var zero T
	raw, ok := os.LookupEnv(key)
	if !ok && conf.DefaultValue != nil {
		raw, ok = *conf.DefaultValue, true
	}
	if !ok {
		if conf.IsRequired {
			return zero, false, errMissingEnvironmentVariable(key)
		}
		return zero, false, nil
	}
	rv, err := parse(reflect.TypeOf(zero), raw, conf)
	if err != nil {
		return zero, false, ErrLoadInvalidData.F("%s: %w", key, err)
	}
	return rv.Interface().(T), true, nil
}

type LookupOption interface{ configure(*lookupEnvOptions) }

type funcLookupOption func(*lookupEnvOptions)

func (fn funcLookupOption) configure(options *lookupEnvOptions) { fn(options) }

func ListSeparator[SEP rune | string](sep SEP) LookupOption {
	return funcLookupOption(func(options *lookupEnvOptions) {
		s := string(sep)
		options.Separator = &s
	})
}

func DefaultValue(val string) LookupOption {
	return funcLookupOption(func(options *lookupEnvOptions) {
		options.DefaultValue = &val
	})
}

func Required() LookupOption {
	return funcLookupOption(func(options *lookupEnvOptions) {
		options.IsRequired = true
	})
}

type lookupEnvOptions struct {
	DefaultValue *string
	Separator    *string
	IsRequired   bool
}

func (o lookupEnvOptions) separator() string {
	if o.Separator != nil {
		return *o.Separator
	}
	return ","
}

var durationType = reflect.TypeOf(time.Duration(0))

func parse(typ reflect.Type, raw string, opts lookupEnvOptions) (reflect.Value, error) {
	rv := reflect.New(typ).Elem()
	if typ == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return rv, err
		}
		rv.SetInt(int64(d))
		return rv, nil
	}
	switch typ.Kind() {
	case reflect.String:
		rv.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return rv, err
		}
		rv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, typ.Bits())
		if err != nil {
			return rv, err
		}
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, typ.Bits())
		if err != nil {
			return rv, err
		}
		rv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, typ.Bits())
		if err != nil {
			return rv, err
		}
		rv.SetFloat(f)
	case reflect.Slice:
		var parts []string
		if raw != "" {
			parts = strings.Split(raw, opts.separator())
		}
		list := reflect.MakeSlice(typ, 0, len(parts))
		for _, part := range parts {
			elem, err := parse(typ.Elem(), strings.TrimSpace(part), opts)
			if err != nil {
				return rv, err
			}
			list = reflect.Append(list, elem)
		}
		rv.Set(list)
	default:
		return rv, fmt.Errorf("unsupported type: %s", typ.String())
	}
	return rv, nil
}

func errMissingEnvironmentVariable(key string) error {
	return fmt.Errorf("missing environment variable: %s", key)
}
