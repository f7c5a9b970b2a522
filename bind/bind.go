// Package bind validates loose documents with a goshape schema and decodes
// the cast result into Go structs.
package bind

import (
	"context"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"

	goshape "github.com/reoring/goshape"
)

// Option configures a Binder.
type Option func(*config)

type config struct {
	tag         string
	errorUnused bool
}

// TagName selects the struct tag holding record keys; the default is "json".
func TagName(tag string) Option { return func(c *config) { c.tag = tag } }

// ErrorUnused fails decoding when the cast value carries keys that no struct
// field receives.
func ErrorUnused() Option { return func(c *config) { c.errorUnused = true } }

// Binder pairs a schema with the struct type T its values decode into.
type Binder[T any] struct {
	schema goshape.Schema
	cfg    config
}

// New returns a Binder for T. It panics when T is not a struct or a pointer
// to one.
func New[T any](s goshape.Schema, opts ...Option) *Binder[T] {
	rt := reflect.TypeFor[T]()
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		panic(fmt.Sprintf("bind: %s is not a struct type", rt))
	}
	cfg := config{tag: "json"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Binder[T]{schema: s, cfg: cfg}
}

// Schema returns the bound schema.
func (b *Binder[T]) Schema() goshape.Schema { return b.schema }

// Validate validates value and decodes the cast result.
func (b *Binder[T]) Validate(ctx context.Context, value any, opts ...goshape.Option) (T, error) {
	v, err := b.schema.Validate(ctx, value, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return b.Decode(v)
}

// ValidateSync is Validate without asynchronous tests.
func (b *Binder[T]) ValidateSync(value any, opts ...goshape.Option) (T, error) {
	v, err := b.schema.ValidateSync(value, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return b.Decode(v)
}

// Parse decodes src, validates the document and decodes the result.
func (b *Binder[T]) Parse(ctx context.Context, src goshape.Source, opts ...goshape.Option) (T, error) {
	v, err := goshape.Parse(ctx, b.schema, src, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return b.Decode(v)
}

// Decode converts an already validated value into T without validating it.
func (b *Binder[T]) Decode(v any) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     b.cfg.tag,
		ErrorUnused: b.cfg.errorUnused,
		Result:      &out,
		DecodeHook:  dropUndefined,
	})
	if err != nil {
		return out, fmt.Errorf("bind: %w", err)
	}
	if err := dec.Decode(v); err != nil {
		return out, fmt.Errorf("bind: decode %T: %w", out, err)
	}
	return out, nil
}

// Validate is a one-shot helper for New[T](s).Validate.
func Validate[T any](ctx context.Context, s goshape.Schema, value any, opts ...goshape.Option) (T, error) {
	return New[T](s).Validate(ctx, value, opts...)
}

// dropUndefined maps goshape.Undefined to nil so the target keeps its zero
// value.
func dropUndefined(_ reflect.Type, _ reflect.Type, data any) (any, error) {
	if data == goshape.Undefined {
		return nil, nil
	}
	return data, nil
}
