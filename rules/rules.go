// Package rules provides reusable goshape tests: comparisons against literal
// or referenced bounds, uniqueness inside arrays, expr-lang expressions and
// Redis-backed membership checks.
package rules

import (
	"fmt"
	"reflect"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/internal/pathexpr"
)

// Op defines simple comparison operators.
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

func (op Op) String() string {
	switch op {
	case Eq:
		return "=="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// Cmp returns a test comparing the value with want, which may be a
// *goshape.Reference. Absent values pass.
func Cmp(op Op, want any, msg ...string) *goshape.Test {
	return &goshape.Test{
		Name:    "cmp",
		Message: message(msg, "${path} must be "+op.String()+" ${want}"),
		Params:  goshape.Params{"want": want, "op": op.String()},
		Fn: func(tc *goshape.TestContext, value any) (bool, error) {
			if goshape.IsAbsent(value) {
				return true, nil
			}
			return compare(value, op, tc.Resolve(want)), nil
		},
	}
}

// Matching returns a predicate for goshape.Is that compares a condition
// value with want.
func Matching(op Op, want any) func(any) bool {
	return func(v any) bool { return compare(v, op, want) }
}

// UniqueBy returns an array test requiring the value at keyPath (dot/bracket
// syntax, relative to each element) to be unique. An empty keyPath compares
// whole elements. The error points at the first repeated element.
func UniqueBy(keyPath string, msg ...string) *goshape.Test {
	var segs []pathexpr.Segment
	if keyPath != "" {
		var err error
		if segs, err = pathexpr.Parse(keyPath); err != nil {
			panic(fmt.Sprintf("rules: UniqueBy(%q): %v", keyPath, err))
		}
	}
	return &goshape.Test{
		Name:    "uniqueBy",
		Message: message(msg, "${path} must be unique"),
		Params:  goshape.Params{"key": keyPath},
		Fn: func(tc *goshape.TestContext, value any) (bool, error) {
			rv := reflect.ValueOf(value)
			if value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
				return true, nil
			}
			seen := map[string]int{}
			for i := 0; i < rv.Len(); i++ {
				elem := rv.Index(i).Interface()
				key := elem
				if len(segs) > 0 {
					kv, ok := pathexpr.Get(elem, segs)
					if !ok {
						continue
					}
					key = kv
				}
				ks := fmt.Sprintf("%T:%v", key, key)
				if first, dup := seen[ks]; dup {
					p := pathexpr.Index(tc.Path, i)
					if keyPath != "" {
						p += "." + keyPath
					}
					return false, tc.CreateError(
						goshape.ErrorPath(p),
						goshape.ErrorParams(goshape.Params{"first": first}),
					)
				}
				seen[ks] = i
			}
			return true, nil
		},
	}
}

func message(msg []string, def string) string {
	if len(msg) > 0 && msg[0] != "" {
		return msg[0]
	}
	return def
}

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return equal(cur, want)
	case Ne:
		return !equal(cur, want)
	case Lt, Le, Gt, Ge:
		return compareOrdered(cur, op, want)
	default:
		return false
	}
}

func equal(a, b any) bool {
	if fa, ok := toFloat64(a); ok {
		if fb, ok := toFloat64(b); ok {
			return fa == fb
		}
	}
	return reflect.DeepEqual(a, b)
}

func compareOrdered(cur any, op Op, want any) bool {
	if a, ok := toFloat64(cur); ok {
		if b, ok := toFloat64(want); ok {
			return ordered(a, b, op)
		}
	}
	if a, ok := cur.(string); ok {
		if b, ok := want.(string); ok {
			return ordered(a, b, op)
		}
	}
	return false
}

func ordered[T float64 | string](a, b T, op Op) bool {
	switch op {
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	}
	return false
}

func toFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
