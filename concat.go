package goshape

import (
	"fmt"
	"slices"
)

// Concat merges b over a. Both must have the same kind, except that a mixed
// schema concatenates into any kind. Spec flags come from b, transforms and
// tests are appended, and array inner types and object fields are merged
// recursively. Lazy schemas cannot be concatenated.
func Concat(a, b Schema) (Schema, error) {
	if isNilSchema(b) {
		return a, nil
	}
	if isNilSchema(a) {
		return b, nil
	}
	if a.Type() == KindLazy || b.Type() == KindLazy {
		return nil, configErr("concat", ErrUnsupportedConcat)
	}
	if a.Type() != b.Type() && a.Type() != KindMixed {
		return nil, configErr("concat", fmt.Errorf("%w: cannot concat %s with %s", ErrKindMismatch, a.Type(), b.Type()))
	}
	merged := mergeCores(a.node(), b.node())

	switch bt := b.(type) {
	case *ArraySchema:
		n := *bt
		n.core = merged
		at, ok := a.(*ArraySchema)
		if !ok || at.inner == nil {
			return &n, nil
		}
		n.inner = at.inner
		if bt.inner != nil {
			inner, err := Concat(at.inner, bt.inner)
			if err != nil {
				return nil, err
			}
			n.inner = inner
		}
		return &n, nil
	case *ObjectSchema:
		n := *bt
		n.core = merged
		at, ok := a.(*ObjectSchema)
		if !ok {
			return &n, nil
		}
		fields, keys, err := at.concatFields(bt)
		if err != nil {
			return nil, err
		}
		return n.withFields(fields, keys, append(slices.Clip(at.excludes), bt.excludes...))
	default:
		return b.withNode(func(c *core) { *c = merged }), nil
	}
}

func mustConcat(a, b Schema) Schema {
	out, err := Concat(a, b)
	if err != nil {
		panic(err)
	}
	return out
}
