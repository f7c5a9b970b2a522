package goshape

import (
	"context"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"
)

// Source supplies a decoded document: records as map[string]any, sequences
// as []any and scalars as produced by the decoder.
type Source interface {
	Decode(ctx context.Context) (any, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (any, error)

func (f SourceFunc) Decode(ctx context.Context) (any, error) { return f(ctx) }

// Value wraps an already decoded document.
func Value(v any) Source {
	return SourceFunc(func(context.Context) (any, error) { return v, nil })
}

// JSONBytes decodes data as JSON.
func JSONBytes(data []byte) Source {
	return SourceFunc(func(ctx context.Context) (any, error) {
		var out any
		if err := gojson.UnmarshalContext(ctx, data, &out); err != nil {
			return nil, fmt.Errorf("goshape: decode json: %w", err)
		}
		return out, nil
	})
}

// JSONReader decodes a single JSON document from r.
func JSONReader(r io.Reader) Source {
	return SourceFunc(func(ctx context.Context) (any, error) {
		var out any
		if err := gojson.NewDecoder(r).DecodeContext(ctx, &out); err != nil {
			return nil, fmt.Errorf("goshape: decode json: %w", err)
		}
		return out, nil
	})
}

// Parse decodes src and validates the document against s, returning the cast
// value.
func Parse(ctx context.Context, s Schema, src Source, opts ...Option) (any, error) {
	doc, err := src.Decode(ctx)
	if err != nil {
		return nil, err
	}
	return s.Validate(ctx, doc, opts...)
}

// ParseSync is Parse with ValidateSync.
func ParseSync(ctx context.Context, s Schema, src Source, opts ...Option) (any, error) {
	doc, err := src.Decode(ctx)
	if err != nil {
		return nil, err
	}
	return s.ValidateSync(doc, opts...)
}
