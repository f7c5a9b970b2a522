package goshape

import "context"

// Fluent setters shared by every concrete kind. Each call returns a modified
// copy; the receiver is never changed.

// MixedSchema

func (s *MixedSchema) with(f func(*core)) *MixedSchema {
	n := *s
	f(&n.core)
	return &n
}

func (s *MixedSchema) node() *core                   { return &s.core }
func (s *MixedSchema) withNode(f func(*core)) Schema { return s.with(f) }
func (s *MixedSchema) mayBlock() bool                { return s.hasAsyncTests() }
func (s *MixedSchema) dependencies() []string        { return s.core.dependencies() }

func (s *MixedSchema) resolveWith(ro ResolveOptions) (Schema, error) { return resolveConditions(s, ro) }

// Type returns the kind tag.
func (s *MixedSchema) Type() string { return s.kind }

// Resolve applies the schema's conditions for the given context.
func (s *MixedSchema) Resolve(ro ResolveOptions) (Schema, error) { return s.resolveWith(ro) }

// Cast coerces value without validating it.
func (s *MixedSchema) Cast(value any, opts ...Option) (any, error) { return castRoot(s, value, opts) }

// Validate casts (unless strict) and validates value.
func (s *MixedSchema) Validate(ctx context.Context, value any, opts ...Option) (any, error) {
	return validateRoot(ctx, s, value, opts)
}

// ValidateSync validates value on the calling goroutine; asynchronous tests fail with ErrAsyncInSync.
func (s *MixedSchema) ValidateSync(value any, opts ...Option) (any, error) {
	return validateSyncRoot(s, value, opts)
}

// ValidateAt validates the value found at path against the schema found at path.
func (s *MixedSchema) ValidateAt(ctx context.Context, path string, value any, opts ...Option) (any, error) {
	return validateAt(ctx, s, path, value, newOptions(opts))
}

func (s *MixedSchema) ValidateSyncAt(path string, value any, opts ...Option) (any, error) {
	o := newOptions(opts)
	o.sync = true
	return validateAt(context.Background(), s, path, value, o)
}

// IsValid reports whether value passes validation.
func (s *MixedSchema) IsValid(ctx context.Context, value any, opts ...Option) (bool, error) {
	return isValidRoot(ctx, s, value, opts)
}

// Clone returns an independent copy.
func (s *MixedSchema) Clone() *MixedSchema { return s.with(func(*core) {}) }

// Required rejects null and undefined.
func (s *MixedSchema) Required(msg ...string) *MixedSchema {
	return s.with(func(c *core) { c.required(first(msg)) })
}

// Defined rejects undefined but lets null through.
func (s *MixedSchema) Defined(msg ...string) *MixedSchema {
	return s.with(func(c *core) { c.defined(first(msg)) })
}

// NotRequired drops the required and defined tests.
func (s *MixedSchema) NotRequired() *MixedSchema { return s.with(func(c *core) { c.notRequired() }) }

// Optional is NotRequired plus Nullable.
func (s *MixedSchema) Optional() *MixedSchema {
	return s.with(func(c *core) {
		c.notRequired()
		c.spec.Nullable = true
	})
}

// Nullable accepts null as a value of this kind.
func (s *MixedSchema) Nullable() *MixedSchema {
	return s.with(func(c *core) { c.spec.Nullable = true })
}

func (s *MixedSchema) NonNullable() *MixedSchema {
	return s.with(func(c *core) { c.spec.Nullable = false })
}

// Default substitutes v when the cast value is undefined.
func (s *MixedSchema) Default(v any) *MixedSchema { return s.with(func(c *core) { c.setDefault(v) }) }

// DefaultFunc substitutes fn() when the cast value is undefined.
func (s *MixedSchema) DefaultFunc(fn func() any) *MixedSchema {
	return s.with(func(c *core) { c.setDefault(fn) })
}

// Strip removes the value from its parent record after validation.
func (s *MixedSchema) Strip() *MixedSchema { return s.with(func(c *core) { c.spec.Strip = true }) }

// Strict disables casting during validation.
func (s *MixedSchema) Strict(enabled bool) *MixedSchema {
	return s.with(func(c *core) { c.spec.Strict = enabled })
}

// AbortEarly sets the node's reporting policy; call options take precedence.
func (s *MixedSchema) AbortEarly(enabled bool) *MixedSchema {
	return s.with(func(c *core) { c.spec.AbortEarly = &enabled })
}

func (s *MixedSchema) Label(label string) *MixedSchema {
	return s.with(func(c *core) { c.spec.Label = label })
}

// Meta merges m into the node metadata.
func (s *MixedSchema) Meta(m map[string]any) *MixedSchema {
	return s.with(func(c *core) { c.setMeta(m) })
}

// Test appends t. Exclusive tests replace earlier tests of the same name.
func (s *MixedSchema) Test(t *Test) *MixedSchema {
	cp := *validateTest(t)
	return s.with(func(c *core) { c.addTest(&cp) })
}

// Transform appends fn to the cast pipeline.
func (s *MixedSchema) Transform(fn Transform) *MixedSchema {
	return s.with(func(c *core) {
		c.addTransform(func(v, original any, _ *options) (any, error) { return fn(v, original) })
	})
}

// When resolves the schema through fn, given the values of keys. Keys follow the reference syntax.
func (s *MixedSchema) When(keys []string, fn ConditionFunc) *MixedSchema {
	cond := newCondition(keys, fn)
	return s.with(func(c *core) { c.addCondition(cond) })
}

// TypeError replaces the message reported when the value is not of this kind.
func (s *MixedSchema) TypeError(msg string) *MixedSchema {
	return s.with(func(c *core) { c.setTypeError(msg) })
}

// OneOf restricts the value to values. Undefined always passes.
func (s *MixedSchema) OneOf(values []any, msg ...string) *MixedSchema {
	return s.with(func(c *core) { c.oneOfValues(values, first(msg), false) })
}

func (s *MixedSchema) NotOneOf(values []any, msg ...string) *MixedSchema {
	return s.with(func(c *core) { c.oneOfValues(values, first(msg), true) })
}

// Concat combines s with other of any kind; the result has other's kind.
func (s *MixedSchema) Concat(other Schema) Schema { return mustConcat(s, other) }

// StringSchema

func (s *StringSchema) with(f func(*core)) *StringSchema {
	n := *s
	f(&n.core)
	return &n
}

func (s *StringSchema) node() *core                   { return &s.core }
func (s *StringSchema) withNode(f func(*core)) Schema { return s.with(f) }
func (s *StringSchema) mayBlock() bool                { return s.hasAsyncTests() }
func (s *StringSchema) dependencies() []string        { return s.core.dependencies() }

func (s *StringSchema) resolveWith(ro ResolveOptions) (Schema, error) {
	return resolveConditions(s, ro)
}

// Type returns the kind tag.
func (s *StringSchema) Type() string { return s.kind }

func (s *StringSchema) Resolve(ro ResolveOptions) (Schema, error) { return s.resolveWith(ro) }

func (s *StringSchema) Cast(value any, opts ...Option) (any, error) { return castRoot(s, value, opts) }

func (s *StringSchema) Validate(ctx context.Context, value any, opts ...Option) (any, error) {
	return validateRoot(ctx, s, value, opts)
}

func (s *StringSchema) ValidateSync(value any, opts ...Option) (any, error) {
	return validateSyncRoot(s, value, opts)
}

func (s *StringSchema) ValidateAt(ctx context.Context, path string, value any, opts ...Option) (any, error) {
	return validateAt(ctx, s, path, value, newOptions(opts))
}

func (s *StringSchema) ValidateSyncAt(path string, value any, opts ...Option) (any, error) {
	o := newOptions(opts)
	o.sync = true
	return validateAt(context.Background(), s, path, value, o)
}

func (s *StringSchema) IsValid(ctx context.Context, value any, opts ...Option) (bool, error) {
	return isValidRoot(ctx, s, value, opts)
}

func (s *StringSchema) Clone() *StringSchema { return s.with(func(*core) {}) }

func (s *StringSchema) Required(msg ...string) *StringSchema {
	return s.with(func(c *core) { c.required(first(msg)) })
}

func (s *StringSchema) Defined(msg ...string) *StringSchema {
	return s.with(func(c *core) { c.defined(first(msg)) })
}

func (s *StringSchema) NotRequired() *StringSchema { return s.with(func(c *core) { c.notRequired() }) }

func (s *StringSchema) Optional() *StringSchema {
	return s.with(func(c *core) {
		c.notRequired()
		c.spec.Nullable = true
	})
}

func (s *StringSchema) Nullable() *StringSchema {
	return s.with(func(c *core) { c.spec.Nullable = true })
}

func (s *StringSchema) NonNullable() *StringSchema {
	return s.with(func(c *core) { c.spec.Nullable = false })
}

func (s *StringSchema) Default(v any) *StringSchema { return s.with(func(c *core) { c.setDefault(v) }) }

func (s *StringSchema) DefaultFunc(fn func() any) *StringSchema {
	return s.with(func(c *core) { c.setDefault(fn) })
}

func (s *StringSchema) Strip() *StringSchema { return s.with(func(c *core) { c.spec.Strip = true }) }

func (s *StringSchema) Strict(enabled bool) *StringSchema {
	return s.with(func(c *core) { c.spec.Strict = enabled })
}

func (s *StringSchema) AbortEarly(enabled bool) *StringSchema {
	return s.with(func(c *core) { c.spec.AbortEarly = &enabled })
}

func (s *StringSchema) Label(label string) *StringSchema {
	return s.with(func(c *core) { c.spec.Label = label })
}

func (s *StringSchema) Meta(m map[string]any) *StringSchema {
	return s.with(func(c *core) { c.setMeta(m) })
}

func (s *StringSchema) Test(t *Test) *StringSchema {
	cp := *validateTest(t)
	return s.with(func(c *core) { c.addTest(&cp) })
}

func (s *StringSchema) Transform(fn Transform) *StringSchema {
	return s.with(func(c *core) {
		c.addTransform(func(v, original any, _ *options) (any, error) { return fn(v, original) })
	})
}

func (s *StringSchema) When(keys []string, fn ConditionFunc) *StringSchema {
	cond := newCondition(keys, fn)
	return s.with(func(c *core) { c.addCondition(cond) })
}

func (s *StringSchema) TypeError(msg string) *StringSchema {
	return s.with(func(c *core) { c.setTypeError(msg) })
}

func (s *StringSchema) OneOf(values []any, msg ...string) *StringSchema {
	return s.with(func(c *core) { c.oneOfValues(values, first(msg), false) })
}

func (s *StringSchema) NotOneOf(values []any, msg ...string) *StringSchema {
	return s.with(func(c *core) { c.oneOfValues(values, first(msg), true) })
}

func (s *StringSchema) Concat(other *StringSchema) *StringSchema {
	return mustConcat(s, other).(*StringSchema)
}

// NumberSchema

func (s *NumberSchema) with(f func(*core)) *NumberSchema {
	n := *s
	f(&n.core)
	return &n
}

func (s *NumberSchema) node() *core                   { return &s.core }
func (s *NumberSchema) withNode(f func(*core)) Schema { return s.with(f) }
func (s *NumberSchema) mayBlock() bool                { return s.hasAsyncTests() }
func (s *NumberSchema) dependencies() []string        { return s.core.dependencies() }

func (s *NumberSchema) resolveWith(ro ResolveOptions) (Schema, error) {
	return resolveConditions(s, ro)
}

// Type returns the kind tag.
func (s *NumberSchema) Type() string { return s.kind }

func (s *NumberSchema) Resolve(ro ResolveOptions) (Schema, error) { return s.resolveWith(ro) }

func (s *NumberSchema) Cast(value any, opts ...Option) (any, error) { return castRoot(s, value, opts) }

func (s *NumberSchema) Validate(ctx context.Context, value any, opts ...Option) (any, error) {
	return validateRoot(ctx, s, value, opts)
}

func (s *NumberSchema) ValidateSync(value any, opts ...Option) (any, error) {
	return validateSyncRoot(s, value, opts)
}

func (s *NumberSchema) ValidateAt(ctx context.Context, path string, value any, opts ...Option) (any, error) {
	return validateAt(ctx, s, path, value, newOptions(opts))
}

func (s *NumberSchema) ValidateSyncAt(path string, value any, opts ...Option) (any, error) {
	o := newOptions(opts)
	o.sync = true
	return validateAt(context.Background(), s, path, value, o)
}

func (s *NumberSchema) IsValid(ctx context.Context, value any, opts ...Option) (bool, error) {
	return isValidRoot(ctx, s, value, opts)
}

func (s *NumberSchema) Clone() *NumberSchema { return s.with(func(*core) {}) }

func (s *NumberSchema) Required(msg ...string) *NumberSchema {
	return s.with(func(c *core) { c.required(first(msg)) })
}

func (s *NumberSchema) Defined(msg ...string) *NumberSchema {
	return s.with(func(c *core) { c.defined(first(msg)) })
}

func (s *NumberSchema) NotRequired() *NumberSchema { return s.with(func(c *core) { c.notRequired() }) }

func (s *NumberSchema) Optional() *NumberSchema {
	return s.with(func(c *core) {
		c.notRequired()
		c.spec.Nullable = true
	})
}

func (s *NumberSchema) Nullable() *NumberSchema {
	return s.with(func(c *core) { c.spec.Nullable = true })
}

func (s *NumberSchema) NonNullable() *NumberSchema {
	return s.with(func(c *core) { c.spec.Nullable = false })
}

func (s *NumberSchema) Default(v any) *NumberSchema { return s.with(func(c *core) { c.setDefault(v) }) }

func (s *NumberSchema) DefaultFunc(fn func() any) *NumberSchema {
	return s.with(func(c *core) { c.setDefault(fn) })
}

func (s *NumberSchema) Strip() *NumberSchema { return s.with(func(c *core) { c.spec.Strip = true }) }

func (s *NumberSchema) Strict(enabled bool) *NumberSchema {
	return s.with(func(c *core) { c.spec.Strict = enabled })
}

func (s *NumberSchema) AbortEarly(enabled bool) *NumberSchema {
	return s.with(func(c *core) { c.spec.AbortEarly = &enabled })
}

func (s *NumberSchema) Label(label string) *NumberSchema {
	return s.with(func(c *core) { c.spec.Label = label })
}

func (s *NumberSchema) Meta(m map[string]any) *NumberSchema {
	return s.with(func(c *core) { c.setMeta(m) })
}

func (s *NumberSchema) Test(t *Test) *NumberSchema {
	cp := *validateTest(t)
	return s.with(func(c *core) { c.addTest(&cp) })
}

func (s *NumberSchema) Transform(fn Transform) *NumberSchema {
	return s.with(func(c *core) {
		c.addTransform(func(v, original any, _ *options) (any, error) { return fn(v, original) })
	})
}

func (s *NumberSchema) When(keys []string, fn ConditionFunc) *NumberSchema {
	cond := newCondition(keys, fn)
	return s.with(func(c *core) { c.addCondition(cond) })
}

func (s *NumberSchema) TypeError(msg string) *NumberSchema {
	return s.with(func(c *core) { c.setTypeError(msg) })
}

func (s *NumberSchema) OneOf(values []any, msg ...string) *NumberSchema {
	return s.with(func(c *core) { c.oneOfValues(values, first(msg), false) })
}

func (s *NumberSchema) NotOneOf(values []any, msg ...string) *NumberSchema {
	return s.with(func(c *core) { c.oneOfValues(values, first(msg), true) })
}

func (s *NumberSchema) Concat(other *NumberSchema) *NumberSchema {
	return mustConcat(s, other).(*NumberSchema)
}

// BooleanSchema

func (s *BooleanSchema) with(f func(*core)) *BooleanSchema {
	n := *s
	f(&n.core)
	return &n
}

func (s *BooleanSchema) node() *core                   { return &s.core }
func (s *BooleanSchema) withNode(f func(*core)) Schema { return s.with(f) }
func (s *BooleanSchema) mayBlock() bool                { return s.hasAsyncTests() }
func (s *BooleanSchema) dependencies() []string        { return s.core.dependencies() }

func (s *BooleanSchema) resolveWith(ro ResolveOptions) (Schema, error) {
	return resolveConditions(s, ro)
}

// Type returns the kind tag.
func (s *BooleanSchema) Type() string { return s.kind }

func (s *BooleanSchema) Resolve(ro ResolveOptions) (Schema, error) { return s.resolveWith(ro) }

func (s *BooleanSchema) Cast(value any, opts ...Option) (any, error) { return castRoot(s, value, opts) }

func (s *BooleanSchema) Validate(ctx context.Context, value any, opts ...Option) (any, error) {
	return validateRoot(ctx, s, value, opts)
}

func (s *BooleanSchema) ValidateSync(value any, opts ...Option) (any, error) {
	return validateSyncRoot(s, value, opts)
}

func (s *BooleanSchema) ValidateAt(ctx context.Context, path string, value any, opts ...Option) (any, error) {
	return validateAt(ctx, s, path, value, newOptions(opts))
}

func (s *BooleanSchema) ValidateSyncAt(path string, value any, opts ...Option) (any, error) {
	o := newOptions(opts)
	o.sync = true
	return validateAt(context.Background(), s, path, value, o)
}

func (s *BooleanSchema) IsValid(ctx context.Context, value any, opts ...Option) (bool, error) {
	return isValidRoot(ctx, s, value, opts)
}

func (s *BooleanSchema) Clone() *BooleanSchema { return s.with(func(*core) {}) }

func (s *BooleanSchema) Required(msg ...string) *BooleanSchema {
	return s.with(func(c *core) { c.required(first(msg)) })
}

func (s *BooleanSchema) Defined(msg ...string) *BooleanSchema {
	return s.with(func(c *core) { c.defined(first(msg)) })
}

func (s *BooleanSchema) NotRequired() *BooleanSchema {
	return s.with(func(c *core) { c.notRequired() })
}

func (s *BooleanSchema) Optional() *BooleanSchema {
	return s.with(func(c *core) {
		c.notRequired()
		c.spec.Nullable = true
	})
}

func (s *BooleanSchema) Nullable() *BooleanSchema {
	return s.with(func(c *core) { c.spec.Nullable = true })
}

func (s *BooleanSchema) NonNullable() *BooleanSchema {
	return s.with(func(c *core) { c.spec.Nullable = false })
}

func (s *BooleanSchema) Default(v any) *BooleanSchema {
	return s.with(func(c *core) { c.setDefault(v) })
}

func (s *BooleanSchema) DefaultFunc(fn func() any) *BooleanSchema {
	return s.with(func(c *core) { c.setDefault(fn) })
}

func (s *BooleanSchema) Strip() *BooleanSchema { return s.with(func(c *core) { c.spec.Strip = true }) }

func (s *BooleanSchema) Strict(enabled bool) *BooleanSchema {
	return s.with(func(c *core) { c.spec.Strict = enabled })
}

func (s *BooleanSchema) AbortEarly(enabled bool) *BooleanSchema {
	return s.with(func(c *core) { c.spec.AbortEarly = &enabled })
}

func (s *BooleanSchema) Label(label string) *BooleanSchema {
	return s.with(func(c *core) { c.spec.Label = label })
}

func (s *BooleanSchema) Meta(m map[string]any) *BooleanSchema {
	return s.with(func(c *core) { c.setMeta(m) })
}

func (s *BooleanSchema) Test(t *Test) *BooleanSchema {
	cp := *validateTest(t)
	return s.with(func(c *core) { c.addTest(&cp) })
}

func (s *BooleanSchema) Transform(fn Transform) *BooleanSchema {
	return s.with(func(c *core) {
		c.addTransform(func(v, original any, _ *options) (any, error) { return fn(v, original) })
	})
}

func (s *BooleanSchema) When(keys []string, fn ConditionFunc) *BooleanSchema {
	cond := newCondition(keys, fn)
	return s.with(func(c *core) { c.addCondition(cond) })
}

func (s *BooleanSchema) TypeError(msg string) *BooleanSchema {
	return s.with(func(c *core) { c.setTypeError(msg) })
}

func (s *BooleanSchema) OneOf(values []any, msg ...string) *BooleanSchema {
	return s.with(func(c *core) { c.oneOfValues(values, first(msg), false) })
}

func (s *BooleanSchema) NotOneOf(values []any, msg ...string) *BooleanSchema {
	return s.with(func(c *core) { c.oneOfValues(values, first(msg), true) })
}

func (s *BooleanSchema) Concat(other *BooleanSchema) *BooleanSchema {
	return mustConcat(s, other).(*BooleanSchema)
}

// ArraySchema

func (s *ArraySchema) with(f func(*core)) *ArraySchema {
	n := *s
	f(&n.core)
	return &n
}

func (s *ArraySchema) node() *core                   { return &s.core }
func (s *ArraySchema) withNode(f func(*core)) Schema { return s.with(f) }
func (s *ArraySchema) mayBlock() bool                { return s.blocks() }
func (s *ArraySchema) dependencies() []string        { return s.core.dependencies() }

func (s *ArraySchema) resolveWith(ro ResolveOptions) (Schema, error) { return resolveConditions(s, ro) }

// Type returns the kind tag.
func (s *ArraySchema) Type() string { return s.kind }

func (s *ArraySchema) Resolve(ro ResolveOptions) (Schema, error) { return s.resolveWith(ro) }

func (s *ArraySchema) Cast(value any, opts ...Option) (any, error) { return castRoot(s, value, opts) }

func (s *ArraySchema) Validate(ctx context.Context, value any, opts ...Option) (any, error) {
	return validateRoot(ctx, s, value, opts)
}

func (s *ArraySchema) ValidateSync(value any, opts ...Option) (any, error) {
	return validateSyncRoot(s, value, opts)
}

func (s *ArraySchema) ValidateAt(ctx context.Context, path string, value any, opts ...Option) (any, error) {
	return validateAt(ctx, s, path, value, newOptions(opts))
}

func (s *ArraySchema) ValidateSyncAt(path string, value any, opts ...Option) (any, error) {
	o := newOptions(opts)
	o.sync = true
	return validateAt(context.Background(), s, path, value, o)
}

func (s *ArraySchema) IsValid(ctx context.Context, value any, opts ...Option) (bool, error) {
	return isValidRoot(ctx, s, value, opts)
}

func (s *ArraySchema) Clone() *ArraySchema { return s.with(func(*core) {}) }

func (s *ArraySchema) Required(msg ...string) *ArraySchema {
	return s.with(func(c *core) { c.required(first(msg)) })
}

func (s *ArraySchema) Defined(msg ...string) *ArraySchema {
	return s.with(func(c *core) { c.defined(first(msg)) })
}

func (s *ArraySchema) NotRequired() *ArraySchema { return s.with(func(c *core) { c.notRequired() }) }

func (s *ArraySchema) Optional() *ArraySchema {
	return s.with(func(c *core) {
		c.notRequired()
		c.spec.Nullable = true
	})
}

func (s *ArraySchema) Nullable() *ArraySchema {
	return s.with(func(c *core) { c.spec.Nullable = true })
}

func (s *ArraySchema) NonNullable() *ArraySchema {
	return s.with(func(c *core) { c.spec.Nullable = false })
}

func (s *ArraySchema) Default(v any) *ArraySchema { return s.with(func(c *core) { c.setDefault(v) }) }

func (s *ArraySchema) DefaultFunc(fn func() any) *ArraySchema {
	return s.with(func(c *core) { c.setDefault(fn) })
}

func (s *ArraySchema) Strip() *ArraySchema { return s.with(func(c *core) { c.spec.Strip = true }) }

func (s *ArraySchema) Strict(enabled bool) *ArraySchema {
	return s.with(func(c *core) { c.spec.Strict = enabled })
}

func (s *ArraySchema) AbortEarly(enabled bool) *ArraySchema {
	return s.with(func(c *core) { c.spec.AbortEarly = &enabled })
}

func (s *ArraySchema) Label(label string) *ArraySchema {
	return s.with(func(c *core) { c.spec.Label = label })
}

func (s *ArraySchema) Meta(m map[string]any) *ArraySchema {
	return s.with(func(c *core) { c.setMeta(m) })
}

func (s *ArraySchema) Test(t *Test) *ArraySchema {
	cp := *validateTest(t)
	return s.with(func(c *core) { c.addTest(&cp) })
}

func (s *ArraySchema) Transform(fn Transform) *ArraySchema {
	return s.with(func(c *core) {
		c.addTransform(func(v, original any, _ *options) (any, error) { return fn(v, original) })
	})
}

func (s *ArraySchema) When(keys []string, fn ConditionFunc) *ArraySchema {
	cond := newCondition(keys, fn)
	return s.with(func(c *core) { c.addCondition(cond) })
}

func (s *ArraySchema) TypeError(msg string) *ArraySchema {
	return s.with(func(c *core) { c.setTypeError(msg) })
}

func (s *ArraySchema) OneOf(values []any, msg ...string) *ArraySchema {
	return s.with(func(c *core) { c.oneOfValues(values, first(msg), false) })
}

func (s *ArraySchema) NotOneOf(values []any, msg ...string) *ArraySchema {
	return s.with(func(c *core) { c.oneOfValues(values, first(msg), true) })
}

func (s *ArraySchema) Concat(other *ArraySchema) *ArraySchema {
	return mustConcat(s, other).(*ArraySchema)
}

// ObjectSchema

func (s *ObjectSchema) with(f func(*core)) *ObjectSchema {
	n := *s
	f(&n.core)
	return &n
}

func (s *ObjectSchema) node() *core                   { return &s.core }
func (s *ObjectSchema) withNode(f func(*core)) Schema { return s.with(f) }
func (s *ObjectSchema) mayBlock() bool                { return s.blocks() }
func (s *ObjectSchema) dependencies() []string        { return s.core.dependencies() }

func (s *ObjectSchema) resolveWith(ro ResolveOptions) (Schema, error) {
	return resolveConditions(s, ro)
}

// Type returns the kind tag.
func (s *ObjectSchema) Type() string { return s.kind }

func (s *ObjectSchema) Resolve(ro ResolveOptions) (Schema, error) { return s.resolveWith(ro) }

func (s *ObjectSchema) Cast(value any, opts ...Option) (any, error) { return castRoot(s, value, opts) }

func (s *ObjectSchema) Validate(ctx context.Context, value any, opts ...Option) (any, error) {
	return validateRoot(ctx, s, value, opts)
}

func (s *ObjectSchema) ValidateSync(value any, opts ...Option) (any, error) {
	return validateSyncRoot(s, value, opts)
}

func (s *ObjectSchema) ValidateAt(ctx context.Context, path string, value any, opts ...Option) (any, error) {
	return validateAt(ctx, s, path, value, newOptions(opts))
}

func (s *ObjectSchema) ValidateSyncAt(path string, value any, opts ...Option) (any, error) {
	o := newOptions(opts)
	o.sync = true
	return validateAt(context.Background(), s, path, value, o)
}

func (s *ObjectSchema) IsValid(ctx context.Context, value any, opts ...Option) (bool, error) {
	return isValidRoot(ctx, s, value, opts)
}

func (s *ObjectSchema) Clone() *ObjectSchema { return s.with(func(*core) {}) }

func (s *ObjectSchema) Required(msg ...string) *ObjectSchema {
	return s.with(func(c *core) { c.required(first(msg)) })
}

func (s *ObjectSchema) Defined(msg ...string) *ObjectSchema {
	return s.with(func(c *core) { c.defined(first(msg)) })
}

func (s *ObjectSchema) NotRequired() *ObjectSchema { return s.with(func(c *core) { c.notRequired() }) }

func (s *ObjectSchema) Optional() *ObjectSchema {
	return s.with(func(c *core) {
		c.notRequired()
		c.spec.Nullable = true
	})
}

func (s *ObjectSchema) Nullable() *ObjectSchema {
	return s.with(func(c *core) { c.spec.Nullable = true })
}

func (s *ObjectSchema) NonNullable() *ObjectSchema {
	return s.with(func(c *core) { c.spec.Nullable = false })
}

func (s *ObjectSchema) Default(v any) *ObjectSchema { return s.with(func(c *core) { c.setDefault(v) }) }

func (s *ObjectSchema) DefaultFunc(fn func() any) *ObjectSchema {
	return s.with(func(c *core) { c.setDefault(fn) })
}

func (s *ObjectSchema) Strip() *ObjectSchema { return s.with(func(c *core) { c.spec.Strip = true }) }

func (s *ObjectSchema) Strict(enabled bool) *ObjectSchema {
	return s.with(func(c *core) { c.spec.Strict = enabled })
}

func (s *ObjectSchema) AbortEarly(enabled bool) *ObjectSchema {
	return s.with(func(c *core) { c.spec.AbortEarly = &enabled })
}

func (s *ObjectSchema) Label(label string) *ObjectSchema {
	return s.with(func(c *core) { c.spec.Label = label })
}

func (s *ObjectSchema) Meta(m map[string]any) *ObjectSchema {
	return s.with(func(c *core) { c.setMeta(m) })
}

func (s *ObjectSchema) Test(t *Test) *ObjectSchema {
	cp := *validateTest(t)
	return s.with(func(c *core) { c.addTest(&cp) })
}

func (s *ObjectSchema) Transform(fn Transform) *ObjectSchema {
	return s.with(func(c *core) {
		c.addTransform(func(v, original any, _ *options) (any, error) { return fn(v, original) })
	})
}

func (s *ObjectSchema) When(keys []string, fn ConditionFunc) *ObjectSchema {
	cond := newCondition(keys, fn)
	return s.with(func(c *core) { c.addCondition(cond) })
}

func (s *ObjectSchema) TypeError(msg string) *ObjectSchema {
	return s.with(func(c *core) { c.setTypeError(msg) })
}

func (s *ObjectSchema) OneOf(values []any, msg ...string) *ObjectSchema {
	return s.with(func(c *core) { c.oneOfValues(values, first(msg), false) })
}

func (s *ObjectSchema) NotOneOf(values []any, msg ...string) *ObjectSchema {
	return s.with(func(c *core) { c.oneOfValues(values, first(msg), true) })
}

func (s *ObjectSchema) Concat(other *ObjectSchema) *ObjectSchema {
	return mustConcat(s, other).(*ObjectSchema)
}
