package goshape

import (
	"context"
	"fmt"

	"github.com/reoring/goshape/internal/pathexpr"
)

// Reach returns the schema nested at path, resolving conditions and lazy
// schemas against value along the way.
func Reach(s Schema, path string, value any, opts ...Option) (Schema, error) {
	sub, _, _, err := reach(s, path, value, newOptions(opts))
	return sub, err
}

// reach walks path through object fields and array element schemas. It
// returns the nested schema together with the sub-value and its container.
func reach(s Schema, path string, value any, o *options) (Schema, any, any, error) {
	segs, err := pathexpr.Parse(path)
	if err != nil {
		return nil, nil, nil, configErr("reach", fmt.Errorf("%w: %v", ErrPathNotFound, err))
	}
	notFound := func() error {
		return configErr("reach", fmt.Errorf("%w: %q", ErrPathNotFound, path))
	}
	cur, v, parent := s, value, o.parent
	for _, seg := range segs {
		r, err := cur.resolveWith(ResolveOptions{Value: v, Parent: parent, Context: o.context, From: o.from})
		if err != nil {
			return nil, nil, nil, err
		}
		switch t := r.(type) {
		case *ArraySchema:
			if t.inner == nil || !seg.IsIndex {
				return nil, nil, nil, notFound()
			}
			next := Undefined
			if items, ok := sequence(v); ok && seg.Index >= 0 && seg.Index < len(items) {
				next = items[seg.Index]
			}
			cur, parent, v = t.inner, v, next
		case *ObjectSchema:
			f, ok := t.fields[seg.Name()].(Schema)
			if !ok {
				return nil, nil, nil, notFound()
			}
			next := Undefined
			if rec, ok := v.(map[string]any); ok {
				if fv, ok := rec[seg.Name()]; ok {
					next = fv
				}
			}
			cur, parent, v = f, v, next
		default:
			return nil, nil, nil, notFound()
		}
	}
	r, err := cur.resolveWith(ResolveOptions{Value: v, Parent: parent, Context: o.context, From: o.from})
	if err != nil {
		return nil, nil, nil, err
	}
	return r, v, parent, nil
}

func validateAt(ctx context.Context, s Schema, path string, value any, o *options) (any, error) {
	sub, v, parent, err := reach(s, path, value, o)
	if err != nil {
		return nil, err
	}
	o.parent = parent
	o.path = path
	return validate(ctx, sub, v, o)
}
