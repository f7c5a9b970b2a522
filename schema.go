package goshape

import (
	"context"
	"fmt"
	"maps"
	"slices"
)

// Kind tags.
const (
	KindMixed   = "mixed"
	KindString  = "string"
	KindNumber  = "number"
	KindBoolean = "boolean"
	KindArray   = "array"
	KindObject  = "object"
	KindLazy    = "lazy"
)

// Field is anything that may sit in an object field map: a Schema or a
// *Reference.
type Field interface {
	Describe() *Description
	dependencies() []string
}

// Schema is implemented by every schema kind: *MixedSchema, *StringSchema,
// *NumberSchema, *BooleanSchema, *ArraySchema, *ObjectSchema and
// *LazySchema. The set is closed.
type Schema interface {
	Field
	// Type returns the kind tag.
	Type() string
	// Cast coerces value into the schema's shape. It never fails on shape
	// mismatches; errors are configuration or transform failures.
	Cast(value any, opts ...Option) (any, error)
	// Validate casts (unless Strict) and checks value. The error is nil, a
	// *ValidationError, or a fatal error.
	Validate(ctx context.Context, value any, opts ...Option) (any, error)
	// ValidateSync is Validate without asynchronous tests.
	ValidateSync(value any, opts ...Option) (any, error)
	// ValidateAt validates the sub-value at path against the nested schema.
	ValidateAt(ctx context.Context, path string, value any, opts ...Option) (any, error)
	ValidateSyncAt(path string, value any, opts ...Option) (any, error)
	// IsValid reports whether value passes; only fatal errors are returned.
	IsValid(ctx context.Context, value any, opts ...Option) (bool, error)
	// Resolve applies conditions and lazy builders and returns a concrete
	// schema.
	Resolve(ro ResolveOptions) (Schema, error)

	node() *core
	withNode(func(*core)) Schema
	resolveWith(ro ResolveOptions) (Schema, error)
	castValue(value any, o *options) (any, error)
	validateValue(ctx context.Context, value any, o *options) (any, error)
	mayBlock() bool
}

// Presence of a value.
type Presence int

const (
	PresenceOptional Presence = iota
	PresenceRequired
	PresenceDefined
)

// Spec holds the flags shared by every node.
type Spec struct {
	Nullable   bool
	Presence   Presence
	HasDefault bool
	// Default is a value, or a func() any evaluated on each use.
	Default    any
	Strip      bool
	Strict     bool
	AbortEarly *bool
	Recursive  *bool
	Label      string
	Meta       map[string]any
	// NoUnknown is used by object schemas: unknown keys are dropped on cast
	// and rejected by the noUnknown test.
	NoUnknown bool
}

// Transform rewrites a value during cast. original is the raw input.
type Transform func(value, original any) (any, error)

type transform struct {
	fn func(value, original any, o *options) (any, error)
}

// core is the state shared by every concrete kind. Methods mutate the
// receiver and are only ever called on fresh copies, so the collections they
// touch are copied before being changed.
type core struct {
	kind       string
	spec       Spec
	typeCheck  func(any) bool
	transforms []transform
	tests      []*Test
	exclusive  map[string]bool
	typeError  *Test
	oneOf      *Test
	notOneOf   *Test
	whitelist  []any
	blacklist  []any
	conditions []*condition
}

func newCore(kind string, check func(any) bool) core {
	c := core{kind: kind, typeCheck: check}
	c.setTypeError("")
	return c
}

func (c *core) isType(v any) bool {
	if c.spec.Nullable && v == nil {
		return true
	}
	return c.typeCheck(v)
}

func (c *core) defaultValue() any {
	if !c.spec.HasDefault {
		return Undefined
	}
	if fn, ok := c.spec.Default.(func() any); ok {
		return fn()
	}
	return c.spec.Default
}

func (c *core) addTransform(fn func(value, original any, o *options) (any, error)) {
	c.transforms = append(slices.Clip(c.transforms), transform{fn: fn})
}

// addTest registers t. A test joins the exclusivity of its name: once a name
// was registered as exclusive, later tests under it replace earlier ones.
func (c *core) addTest(t *Test) {
	validateTest(t)
	isExclusive := t.Exclusive || (t.Name != "" && c.exclusive[t.Name])
	if t.Name != "" {
		ex := maps.Clone(c.exclusive)
		if ex == nil {
			ex = map[string]bool{}
		}
		ex[t.Name] = t.Exclusive || ex[t.Name]
		c.exclusive = ex
	}
	next := make([]*Test, 0, len(c.tests)+1)
	for _, old := range c.tests {
		if isExclusive && old.Name == t.Name {
			continue
		}
		next = append(next, old)
	}
	c.tests = append(next, t)
}

func (c *core) removeTest(name string) {
	next := make([]*Test, 0, len(c.tests))
	for _, t := range c.tests {
		if t.Name != name {
			next = append(next, t)
		}
	}
	c.tests = next
}

func (c *core) hasTest(name string) bool {
	return slices.ContainsFunc(c.tests, func(t *Test) bool { return t.Name == name })
}

func (c *core) setTypeError(msg string) {
	kind := c.kind
	c.typeError = &Test{
		Name:      TestTypeError,
		Message:   msg,
		Exclusive: true,
		Params:    Params{"type": kind},
		tmplKey:   TestTypeError,
		Fn: func(tc *TestContext, value any) (bool, error) {
			if value == Undefined {
				return true, nil
			}
			return tc.Schema.node().isType(value), nil
		},
	}
}

func (c *core) initialTests() []*Test {
	out := make([]*Test, 0, 3)
	for _, t := range []*Test{c.typeError, c.oneOf, c.notOneOf} {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

func (c *core) required(msg string) {
	c.spec.Presence = PresenceRequired
	c.removeTest(TestDefined)
	c.addTest(&Test{
		Name:      TestRequired,
		Message:   msg,
		Exclusive: true,
		tmplKey:   TestRequired,
		Fn: func(tc *TestContext, value any) (bool, error) {
			return !IsAbsent(value), nil
		},
	})
}

func (c *core) defined(msg string) {
	c.spec.Presence = PresenceDefined
	c.removeTest(TestRequired)
	c.addTest(&Test{
		Name:      TestDefined,
		Message:   msg,
		Exclusive: true,
		tmplKey:   TestDefined,
		Fn: func(tc *TestContext, value any) (bool, error) {
			return value != Undefined, nil
		},
	})
}

func (c *core) notRequired() {
	c.spec.Presence = PresenceOptional
	c.removeTest(TestRequired)
	c.removeTest(TestDefined)
}

func (c *core) setDefault(v any) {
	c.spec.HasDefault = true
	c.spec.Default = v
}

func (c *core) setMeta(m map[string]any) {
	next := maps.Clone(c.spec.Meta)
	if next == nil {
		next = map[string]any{}
	}
	maps.Copy(next, m)
	c.spec.Meta = next
}

func (c *core) oneOfValues(values []any, msg string, negate bool) {
	vals := slices.Clone(values)
	name := TestOneOf
	if negate {
		name = TestNotOneOf
	}
	t := &Test{
		Name:      name,
		Message:   msg,
		Exclusive: true,
		Params:    Params{"values": joinValues(vals)},
		tmplKey:   name,
		Fn: func(tc *TestContext, value any) (bool, error) {
			if value == Undefined {
				return true, nil
			}
			found := false
			for _, v := range vals {
				if equalValue(tc.Resolve(v), value) {
					found = true
					break
				}
			}
			return found != negate, nil
		},
	}
	if negate {
		c.notOneOf, c.blacklist = t, vals
	} else {
		c.oneOf, c.whitelist = t, vals
	}
}

func (c *core) addCondition(cond *condition) {
	c.conditions = append(slices.Clip(c.conditions), cond)
}

// mergeCores combines base with other the way concat does: kind, type check
// and spec flags come from other, transforms and tests of base run first,
// and other's tests are re-registered so exclusive names replace base's.
func mergeCores(base, other *core) core {
	n := *other
	meta := maps.Clone(base.spec.Meta)
	if len(other.spec.Meta) > 0 {
		if meta == nil {
			meta = map[string]any{}
		}
		maps.Copy(meta, other.spec.Meta)
	}
	n.spec.Meta = meta
	n.transforms = append(slices.Clip(base.transforms), other.transforms...)
	n.tests = slices.Clone(base.tests)
	n.exclusive = maps.Clone(base.exclusive)
	for _, t := range other.tests {
		n.addTest(t)
	}
	if n.oneOf == nil {
		n.oneOf, n.whitelist = base.oneOf, base.whitelist
	}
	if n.notOneOf == nil {
		n.notOneOf, n.blacklist = base.notOneOf, base.blacklist
	}
	n.conditions = append(slices.Clip(base.conditions), other.conditions...)
	if n.hasTest(TestRequired) {
		n.spec.Presence = PresenceRequired
	}
	return n
}

func (c *core) dependencies() []string {
	var deps []string
	for _, cond := range c.conditions {
		deps = append(deps, cond.dependencies()...)
	}
	for _, t := range c.tests {
		for _, p := range t.Params {
			if r, ok := p.(*Reference); ok {
				deps = append(deps, r.dependencies()...)
			}
		}
	}
	return deps
}

func (c *core) hasAsyncTests() bool {
	return slices.ContainsFunc(c.tests, func(t *Test) bool { return t.Async })
}

// castBase runs the transform chain and substitutes the default for an
// Undefined result.
func (c *core) castBase(raw any, o *options) (any, error) {
	value := raw
	if raw != Undefined {
		for _, t := range c.transforms {
			v, err := t.fn(value, raw, o)
			if err != nil {
				return nil, err
			}
			value = v
		}
	}
	if value == Undefined {
		value = c.defaultValue()
	}
	return value, nil
}

// validateBase casts (unless strict), runs the type and membership tests
// fail-fast, then runs the node's own tests with the caller's policy.
func validateBase(ctx context.Context, s Schema, raw any, o *options) (any, error) {
	c := s.node()
	value := raw
	if !o.isStrict(c.spec) {
		v, err := s.castValue(raw, o)
		if err != nil {
			return nil, err
		}
		value = v
	}
	original := raw
	if o.hasOriginal {
		original = o.originalValue
	}
	args := &testArgs{value: value, originalValue: original, schema: s, label: c.spec.Label, o: o}
	endEarly := o.isAbortEarly(c.spec)
	ro := runOptions{sync: o.sync, endEarly: endEarly, path: o.path, value: value, logger: o.logger}
	if err := runTasks(ctx, ro, testTasks(c.initialTests(), args)); err != nil {
		return value, err
	}
	return value, runTasks(ctx, ro, testTasks(c.tests, args))
}

// cast resolves s against value and casts with the resolved schema.
func cast(s Schema, value any, o *options) (any, error) {
	r, err := s.resolveWith(o.resolveOptions(value))
	if err != nil {
		return nil, err
	}
	return r.castValue(value, o)
}

func validate(ctx context.Context, s Schema, value any, o *options) (any, error) {
	r, err := s.resolveWith(o.resolveOptions(value))
	if err != nil {
		return nil, err
	}
	return r.validateValue(ctx, value, o)
}

// resolveConditions applies s's conditions to a copy of s without them.
func resolveConditions(s Schema, ro ResolveOptions) (Schema, error) {
	c := s.node()
	if len(c.conditions) == 0 {
		return s, nil
	}
	conds := c.conditions
	next := s.withNode(func(n *core) { n.conditions = nil })
	for _, cond := range conds {
		r, err := cond.resolve(next, ro)
		if err != nil {
			return nil, err
		}
		next = r
	}
	return next.resolveWith(ro)
}

// Public entry points shared by every kind.

func castRoot(s Schema, value any, opts []Option) (any, error) {
	return cast(s, value, newOptions(opts))
}

func validateRoot(ctx context.Context, s Schema, value any, opts []Option) (any, error) {
	return validate(ctx, s, value, newOptions(opts))
}

func validateSyncRoot(s Schema, value any, opts []Option) (any, error) {
	o := newOptions(opts)
	o.sync = true
	return validate(context.Background(), s, value, o)
}

func isValidRoot(ctx context.Context, s Schema, value any, opts []Option) (bool, error) {
	_, err := validateRoot(ctx, s, value, opts)
	if err == nil {
		return true, nil
	}
	if IsValidationError(err) {
		return false, nil
	}
	return false, err
}

func describeCore(c *core) *Description {
	d := &Description{
		Type:     c.kind,
		Label:    c.spec.Label,
		Meta:     maps.Clone(c.spec.Meta),
		Nullable: c.spec.Nullable,
		Optional: c.spec.Presence != PresenceRequired,
		Tests:    []TestDescription{},
	}
	for _, v := range c.whitelist {
		d.OneOf = append(d.OneOf, describeParam(v))
	}
	for _, v := range c.blacklist {
		d.NotOneOf = append(d.NotOneOf, describeParam(v))
	}
	for _, t := range c.tests {
		if t.Name == "" {
			continue
		}
		td := TestDescription{Name: t.Name}
		if len(t.Params) > 0 {
			td.Params = make(map[string]any, len(t.Params))
			for k, v := range t.Params {
				td.Params[k] = describeParam(v)
			}
		}
		d.Tests = append(d.Tests, td)
	}
	return d
}

func notSchema(op string, v any) *ConfigError {
	return configErr(op, fmt.Errorf("%w: %T", ErrNotSchema, v))
}
