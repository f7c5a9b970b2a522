package goshape

import (
	"context"
	"fmt"
)

// LazyBuilder returns the schema to use for value.
type LazyBuilder func(value any, ro ResolveOptions) Schema

// LazySchema defers choosing a schema until a value is seen. The builder runs
// on every resolution; results are not cached.
type LazySchema struct {
	builder LazyBuilder
}

// Lazy returns a schema whose shape is chosen by builder. It panics with a
// *ConfigError when builder is nil.
func Lazy(builder LazyBuilder) *LazySchema {
	if builder == nil {
		panic(configErr("lazy", fmt.Errorf("%w: nil builder", ErrInvalidLazy)))
	}
	return &LazySchema{builder: builder}
}

func (s *LazySchema) resolveWith(ro ResolveOptions) (Schema, error) {
	out := s.builder(ro.Value, ro)
	if isNilSchema(out) {
		return nil, configErr("lazy", fmt.Errorf("%w: builder returned %T", ErrInvalidLazy, out))
	}
	return out.resolveWith(ro)
}

func (s *LazySchema) node() *core                 { return nil }
func (s *LazySchema) withNode(func(*core)) Schema { return s }
func (s *LazySchema) dependencies() []string      { return nil }
func (s *LazySchema) mayBlock() bool              { return true }

func (s *LazySchema) castValue(v any, o *options) (any, error) { return cast(s, v, o) }

func (s *LazySchema) validateValue(ctx context.Context, v any, o *options) (any, error) {
	return validate(ctx, s, v, o)
}

// Type returns "lazy".
func (s *LazySchema) Type() string { return KindLazy }

// Resolve runs the builder for ro.Value and resolves the result.
func (s *LazySchema) Resolve(ro ResolveOptions) (Schema, error) { return s.resolveWith(ro) }

func (s *LazySchema) Cast(value any, opts ...Option) (any, error) { return castRoot(s, value, opts) }

func (s *LazySchema) Validate(ctx context.Context, value any, opts ...Option) (any, error) {
	return validateRoot(ctx, s, value, opts)
}

func (s *LazySchema) ValidateSync(value any, opts ...Option) (any, error) {
	return validateSyncRoot(s, value, opts)
}

func (s *LazySchema) ValidateAt(ctx context.Context, path string, value any, opts ...Option) (any, error) {
	return validateAt(ctx, s, path, value, newOptions(opts))
}

func (s *LazySchema) ValidateSyncAt(path string, value any, opts ...Option) (any, error) {
	o := newOptions(opts)
	o.sync = true
	return validateAt(context.Background(), s, path, value, o)
}

func (s *LazySchema) IsValid(ctx context.Context, value any, opts ...Option) (bool, error) {
	return isValidRoot(ctx, s, value, opts)
}

// Describe returns nil: the shape is unknown until a value is seen.
func (s *LazySchema) Describe() *Description { return nil }
