package goshape

import (
	"log/slog"

	"github.com/reoring/goshape/internal/logging"
)

// Option configures a single Cast or Validate call.
type Option func(*options)

// Strict skips casting during validation; the raw value is checked as-is.
func Strict(enabled bool) Option {
	return func(o *options) { o.strict = &enabled }
}

// AbortEarly selects fail-fast (true, the default) or collect-all reporting.
func AbortEarly(enabled bool) Option {
	return func(o *options) { o.abortEarly = &enabled }
}

// StripUnknown drops record keys that are not declared by the object schema.
func StripUnknown(enabled bool) Option {
	return func(o *options) { o.stripUnknown = &enabled }
}

// Recursive controls whether composite schemas validate their children.
func Recursive(enabled bool) Option {
	return func(o *options) { o.recursive = &enabled }
}

// WithContext supplies the external context bag read by `$` references.
func WithContext(ctx map[string]any) Option {
	return func(o *options) { o.context = ctx }
}

// WithLogger configures the structured logger used for debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithPath sets the path prefix reported for the root value.
func WithPath(path string) Option {
	return func(o *options) { o.path = path }
}

// WithParent sets the container of the root value, as seen by sibling
// references and conditions.
func WithParent(parent any) Option {
	return func(o *options) { o.parent = parent }
}

// options is threaded explicitly through every recursive call. Children get
// shallow copies; slices are never appended in place.
type options struct {
	strict       *bool
	abortEarly   *bool
	stripUnknown *bool
	recursive    *bool
	context      map[string]any
	logger       *slog.Logger
	sync         bool

	path          string
	parent        any
	from          []Ancestor
	originalValue any
	hasOriginal   bool
	index         int
	// validating is set by object validation so field-level strict skips
	// casting only while validating.
	validating bool
}

func newOptions(opts []Option) *options {
	o := &options{index: -1}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	o.logger = logging.OrNop(o.logger)
	return o
}

func (o *options) child(path string) *options {
	c := *o
	c.path = path
	c.hasOriginal = false
	c.originalValue = nil
	c.index = -1
	return &c
}

func (o *options) isStrict(s Spec) bool {
	if o.strict != nil {
		return *o.strict
	}
	return s.Strict
}

func (o *options) isAbortEarly(s Spec) bool {
	if o.abortEarly != nil {
		return *o.abortEarly
	}
	if s.AbortEarly != nil {
		return *s.AbortEarly
	}
	return true
}

func (o *options) isRecursive(s Spec) bool {
	if o.recursive != nil {
		return *o.recursive
	}
	if s.Recursive != nil {
		return *s.Recursive
	}
	return true
}

func (o *options) resolveOptions(value any) ResolveOptions {
	return ResolveOptions{Value: value, Parent: o.parent, Context: o.context, From: o.from}
}

// ResolveOptions is the context a lazy builder or condition sees.
type ResolveOptions struct {
	Value   any
	Parent  any
	Context map[string]any
	From    []Ancestor
}

// Ancestor is one level of the enclosing record chain, innermost first.
type Ancestor struct {
	Schema Schema
	Value  any
}

func pushAncestor(from []Ancestor, a Ancestor) []Ancestor {
	out := make([]Ancestor, 0, len(from)+1)
	out = append(out, a)
	return append(out, from...)
}
