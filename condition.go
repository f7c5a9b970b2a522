package goshape

import (
	"reflect"
)

// ConditionFunc derives the effective schema from the values of the
// condition's references. Returning nil keeps s unchanged.
type ConditionFunc func(values []any, s Schema) Schema

type condition struct {
	refs []*Reference
	fn   ConditionFunc
}

func newCondition(keys []string, fn ConditionFunc) *condition {
	if fn == nil {
		panic(configErr("when", ErrInvalidCondition))
	}
	c := &condition{fn: fn}
	for _, k := range keys {
		c.refs = append(c.refs, Ref(k))
	}
	return c
}

func (c *condition) resolve(s Schema, ro ResolveOptions) (Schema, error) {
	values := make([]any, len(c.refs))
	for i, r := range c.refs {
		values[i] = r.resolveIn(ro)
	}
	out := c.fn(values, s)
	if out == nil {
		return s, nil
	}
	if rv := reflect.ValueOf(out); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, configErr("when", ErrInvalidCondition)
	}
	return out, nil
}

func (c *condition) dependencies() []string {
	var deps []string
	for _, r := range c.refs {
		deps = append(deps, r.dependencies()...)
	}
	return deps
}

// Is builds a ConditionFunc that applies then when every referenced value
// equals want (or satisfies it, when want is a func(any) bool), and otherwise
// when not. Either branch may be nil.
func Is(want any, then, otherwise func(Schema) Schema) ConditionFunc {
	return func(values []any, s Schema) Schema {
		match := len(values) > 0
		for _, v := range values {
			if pred, ok := want.(func(any) bool); ok {
				match = match && pred(v)
			} else {
				match = match && equalValue(v, want)
			}
		}
		if match && then != nil {
			return then(s)
		}
		if !match && otherwise != nil {
			return otherwise(s)
		}
		return s
	}
}
