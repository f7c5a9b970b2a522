// Package source decodes documents in the formats goshape schemas are
// commonly fed with. Every constructor returns a goshape.Source whose Decode
// yields records as map[string]any and sequences as []any, ready for Cast or
// Validate.
//
//	doc, err := source.YAMLBytes(data).Decode(ctx)
//	v, err := goshape.Parse(ctx, schema, source.StrictJSON(body))
package source
