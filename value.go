package goshape

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
)

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined marks an absent value: a missing record key, or a root value the
// caller did not supply. nil stands for an explicit null.
var Undefined any = undefined{}

// IsAbsent reports whether v is nil or Undefined.
func IsAbsent(v any) bool { return v == nil || v == Undefined }

// sameValue reports whether b is the same value as a: the same map, the same
// slice window, the same pointer, or an equal comparable scalar.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if !ta.Comparable() {
		return false
	}
	if va.CanFloat() && math.IsNaN(va.Float()) {
		return math.IsNaN(vb.Float())
	}
	return a == b
}

// sequence returns the elements of a slice or array value.
func sequence(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	default:
		return nil, false
	}
}

func isSequence(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]any); ok {
		return true
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

func isRecord(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// parseJSON decodes text into a loose value, reporting false on malformed
// input.
func parseJSON(s string) (any, bool) {
	var out any
	if err := gojson.Unmarshal([]byte(s), &out); err != nil {
		return nil, false
	}
	return out, true
}

// printValue renders a value for messages.
func printValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case undefined:
		return "undefined"
	case string:
		return t
	case float64:
		if math.IsNaN(t) {
			return "NaN"
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if b, err := gojson.Marshal(v); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(v)
}

// equalValue compares enum members: numbers by value, everything else with
// reflect.DeepEqual.
func equalValue(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func joinValues(vals []any) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = printValue(v)
	}
	return strings.Join(parts, ", ")
}
