package goshape

import (
	"context"
	"math"
	"reflect"

	"github.com/reoring/goshape/internal/pathexpr"
)

// ArraySchema accepts slices and arrays. JSON text is decoded during cast,
// and elements are cast and validated against the inner schema.
type ArraySchema struct {
	core
	inner Schema
}

// Array returns an array schema, optionally with an element schema.
func Array(inner ...Schema) *ArraySchema {
	s := &ArraySchema{core: newCore(KindArray, isSequence)}
	if len(inner) > 0 && !isNilSchema(inner[0]) {
		s.inner = inner[0]
	}
	s.addTransform(func(v, _ any, o *options) (any, error) {
		if text, ok := v.(string); ok {
			parsed, ok := parseJSON(text)
			if !ok {
				o.logger.Debug("array json coercion failed", "path", o.path)
			}
			v = parsed
		}
		if isSequence(v) {
			return v, nil
		}
		return nil, nil
	})
	return s
}

// Inner returns the element schema, or nil.
func (s *ArraySchema) Inner() Schema { return s.inner }

func (s *ArraySchema) blocks() bool {
	return s.hasAsyncTests() || (s.inner != nil && s.inner.mayBlock())
}

func (s *ArraySchema) castValue(raw any, o *options) (any, error) {
	value, err := s.castBase(raw, o)
	if err != nil {
		return nil, err
	}
	items, ok := sequence(value)
	if !ok || s.inner == nil {
		return value, nil
	}
	changed := false
	out := make([]any, len(items))
	for i, item := range items {
		v, err := cast(s.inner, item, o.child(pathexpr.Index(o.path, i)))
		if err != nil {
			return nil, err
		}
		if !sameValue(v, item) {
			changed = true
		}
		out[i] = v
	}
	if !changed {
		return value, nil
	}
	return out, nil
}

func (s *ArraySchema) validateValue(ctx context.Context, raw any, o *options) (any, error) {
	endEarly := o.isAbortEarly(s.spec)
	original := raw
	if o.hasOriginal && o.originalValue != nil {
		original = o.originalValue
	}

	var errs []*ValidationError
	value, err := validateBase(ctx, s, raw, o)
	if err != nil {
		ve, ok := AsValidationError(err)
		if !ok || endEarly {
			return value, err
		}
		errs = append(errs, ve)
	}

	items, isSeq := sequence(value)
	if !o.isRecursive(s.spec) || s.inner == nil || !isSeq {
		if len(errs) > 0 {
			return value, errs[0]
		}
		return value, nil
	}
	originals, _ := sequence(original)
	strict := true
	async := s.inner.mayBlock()
	tasks := make([]task, len(items))
	for i, item := range items {
		co := o.child(pathexpr.Index(o.path, i))
		co.strict = &strict
		co.parent = value
		co.index = i
		if i < len(originals) {
			co.originalValue, co.hasOriginal = originals[i], true
		}
		inner := s.inner
		tasks[i] = task{async: async, run: func(ctx context.Context) error {
			_, err := validate(ctx, inner, item, co)
			return err
		}}
	}
	ro := runOptions{sync: o.sync, endEarly: endEarly, path: o.path, value: value, errors: errs, logger: o.logger}
	return value, runTasks(ctx, ro, tasks)
}

// Describe exports the schema structure, including the element schema.
func (s *ArraySchema) Describe() *Description {
	d := describeCore(&s.core)
	if s.inner != nil {
		d.InnerType = s.inner.Describe()
	}
	return d
}

// Of sets the element schema. It panics with a *ConfigError when inner is
// nil.
func (s *ArraySchema) Of(inner Schema) *ArraySchema {
	if isNilSchema(inner) {
		panic(notSchema("array.of", inner))
	}
	n := s.Clone()
	n.inner = inner
	return n
}

// Length requires exactly n elements. n may be a *Reference.
func (s *ArraySchema) Length(n any, msg ...string) *ArraySchema {
	return s.with(func(c *core) { c.addTest(lengthTest(TestLength, "array.length", n, first(msg), seqLen, cmpEQ)) })
}

// Min requires at least n elements. n may be a *Reference.
func (s *ArraySchema) Min(n any, msg ...string) *ArraySchema {
	return s.with(func(c *core) { c.addTest(lengthTest(TestMin, "array.min", n, first(msg), seqLen, cmpGE)) })
}

// Max allows at most n elements. n may be a *Reference.
func (s *ArraySchema) Max(n any, msg ...string) *ArraySchema {
	return s.with(func(c *core) { c.addTest(lengthTest(TestMax, "array.max", n, first(msg), seqLen, cmpLE)) })
}

// Ensure defaults to an empty array and wraps a single non-array value.
func (s *ArraySchema) Ensure() *ArraySchema {
	return s.DefaultFunc(func() any { return []any{} }).with(func(c *core) {
		c.addTransform(func(v, original any, _ *options) (any, error) {
			if isSequence(v) {
				return v, nil
			}
			if original == nil {
				return []any{}, nil
			}
			return []any{original}, nil
		})
	})
}

// Compact drops elements for which reject returns true. Without a rejector,
// falsy elements (null, undefined, false, zero, empty string, NaN) are
// dropped.
func (s *ArraySchema) Compact(reject func(v any, i int) bool) *ArraySchema {
	if reject == nil {
		reject = func(v any, _ int) bool { return !truthy(v) }
	}
	return s.with(func(c *core) {
		c.addTransform(func(v, _ any, _ *options) (any, error) {
			items, ok := sequence(v)
			if !ok {
				return v, nil
			}
			out := make([]any, 0, len(items))
			for i, item := range items {
				if !reject(item, i) {
					out = append(out, item)
				}
			}
			return out, nil
		})
	})
}

func truthy(v any) bool {
	if IsAbsent(v) {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	}
	if f, ok := toFloat(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

func isNilSchema(s Schema) bool {
	if s == nil {
		return true
	}
	rv := reflect.ValueOf(s)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
