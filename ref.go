package goshape

import (
	"fmt"
	"strings"

	"github.com/reoring/goshape/internal/pathexpr"
)

// Reference points at another value of the current validation context. It is
// resolved lazily, at cast or validate time.
//
//	Ref("b")        sibling field b of the enclosing record
//	Ref("b.c[0]")   nested value below sibling b
//	Ref("$tenant")  key tenant of the context bag (WithContext)
//	Ref(".")        the value under test itself
//	Ref("^b")       field b of the grandparent record (one ^ per level)
type Reference struct {
	key       string
	segs      []pathexpr.Segment
	isContext bool
	isValue   bool
	ancestors int
	mapFn     func(any) any
}

// RefOption configures a Reference.
type RefOption func(*Reference)

// RefMap applies fn to the resolved value.
func RefMap(fn func(any) any) RefOption {
	return func(r *Reference) { r.mapFn = fn }
}

// Ref builds a Reference. It panics with a *ConfigError on an empty or
// malformed path.
func Ref(key string, opts ...RefOption) *Reference {
	r, err := NewRef(key, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// NewRef is like Ref but returns the error.
func NewRef(key string, opts ...RefOption) (*Reference, error) {
	k := strings.TrimSpace(key)
	if k == "" {
		return nil, configErr("ref", fmt.Errorf("%w: empty key", ErrInvalidReference))
	}
	r := &Reference{key: k}
	rest := k
	switch {
	case strings.HasPrefix(rest, "$"):
		r.isContext = true
		rest = rest[1:]
	case rest == ".":
		r.isValue = true
		rest = ""
	case strings.HasPrefix(rest, "."):
		r.isValue = true
		rest = rest[1:]
	default:
		for strings.HasPrefix(rest, "^") {
			r.ancestors++
			rest = rest[1:]
		}
	}
	if rest != "" {
		segs, err := pathexpr.Parse(rest)
		if err != nil {
			return nil, configErr("ref", fmt.Errorf("%w: %v", ErrInvalidReference, err))
		}
		r.segs = segs
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Key returns the reference as written.
func (r *Reference) Key() string { return r.key }

// IsContext reports whether the reference reads the context bag.
func (r *Reference) IsContext() bool { return r.isContext }

// IsSibling reports whether the reference reads a field of the enclosing
// record.
func (r *Reference) IsSibling() bool { return !r.isContext && !r.isValue && r.ancestors == 0 }

func (r *Reference) String() string { return "Ref(" + r.key + ")" }

// GetValue resolves the reference.
func (r *Reference) GetValue(value, parent any, context map[string]any, from []Ancestor) any {
	var root any
	switch {
	case r.isContext:
		if context == nil {
			root = Undefined
		} else {
			root = context
		}
	case r.isValue:
		root = value
	case r.ancestors > 0:
		if r.ancestors < len(from) {
			root = from[r.ancestors].Value
		} else {
			root = Undefined
		}
	default:
		root = parent
	}
	result := root
	if len(r.segs) > 0 {
		if IsAbsent(root) {
			result = Undefined
		} else if v, ok := pathexpr.Get(root, r.segs); ok {
			result = v
		} else {
			result = Undefined
		}
	}
	if r.mapFn != nil {
		result = r.mapFn(result)
	}
	return result
}

func (r *Reference) resolveIn(ro ResolveOptions) any {
	return r.GetValue(ro.Value, ro.Parent, ro.Context, ro.From)
}

// dependencies returns the sibling key the reference reads, if any.
func (r *Reference) dependencies() []string {
	if !r.IsSibling() || len(r.segs) == 0 {
		return nil
	}
	return []string{r.segs[0].Name()}
}

// Describe reports the reference as a field description.
func (r *Reference) Describe() *Description {
	return &Description{Type: "ref", Key: r.key}
}
