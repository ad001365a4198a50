package gateway

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"
)

// Param is one query-string field. Value may be a scalar, a slice, a pointer
// to either, or nil.
type Param struct {
	Key   string
	Value any
}

// P is shorthand for Param{Key: key, Value: value}.
func P(key string, value any) Param { return Param{Key: key, Value: value} }

// BuildQuery encodes params into a query string without the leading '?'.
//
//   - nil, nil pointers, empty strings, empty slices and zero times are omitted
//   - slices are emitted as repeated keys, preserving element order
//   - time.Time is formatted as RFC 3339
//   - everything else goes through fmt.Sprint
//
// Keys appear in argument order, so equal input always yields equal output.
func BuildQuery(params ...Param) string {
	var b strings.Builder
	add := func(key, val string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(val))
	}

	for _, p := range params {
		if p.Key == "" {
			continue
		}
		rv := reflect.ValueOf(p.Value)
		for rv.IsValid() && rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				rv = reflect.Value{}
				break
			}
			rv = rv.Elem()
		}
		if !rv.IsValid() {
			continue
		}

		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			for i := 0; i < rv.Len(); i++ {
				if s, ok := formatScalar(rv.Index(i)); ok {
					add(p.Key, s)
				}
			}
			continue
		}
		if s, ok := formatScalar(rv); ok {
			add(p.Key, s)
		}
	}
	return b.String()
}

func formatScalar(rv reflect.Value) (string, bool) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	if t, ok := rv.Interface().(time.Time); ok {
		if t.IsZero() {
			return "", false
		}
		return t.Format(time.RFC3339), true
	}
	s := fmt.Sprint(rv.Interface())
	if s == "" {
		return "", false
	}
	return s, true
}

// withQuery appends a non-empty encoded query to path.
func withQuery(path string, params ...Param) string {
	if qs := BuildQuery(params...); qs != "" {
		return path + "?" + qs
	}
	return path
}

// Int returns a pointer to v; handy for optional numeric filter fields.
func Int(v int) *int { return &v }
