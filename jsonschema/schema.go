package jsonschema

import (
	"slices"

	gojson "github.com/goccy/go-json"

	goshape "github.com/reoring/goshape"
)

// Draft is the dialect written into exported documents.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Schema is a minimal JSON Schema representation used for export.
type Schema struct {
	SchemaURI   string  `json:"$schema,omitempty"`
	Type        any     `json:"type,omitempty"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Enum        []any   `json:"enum,omitempty"`
	Not         *Schema `json:"not,omitempty"`

	// String
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	// Number
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty"`
}

// Export converts s into a JSON Schema document.
func Export(s goshape.Schema) *Schema {
	out := FromDescription(s.Describe())
	if out == nil {
		out = &Schema{}
	}
	out.SchemaURI = Draft
	return out
}

// Marshal renders s as indented JSON.
func Marshal(s *Schema) ([]byte, error) {
	return gojson.MarshalIndent(s, "", "  ")
}

// FromDescription converts one description node. Lazy schemas (nil
// descriptions) become the empty schema, which accepts anything. Tests with
// parameters that are references are left out.
func FromDescription(d *goshape.Description) *Schema {
	if d == nil {
		return &Schema{}
	}
	out := &Schema{Title: d.Label}
	if desc, ok := d.Meta["description"].(string); ok {
		out.Description = desc
	}
	switch d.Type {
	case goshape.KindString, goshape.KindNumber, goshape.KindBoolean, goshape.KindArray, goshape.KindObject:
		out.Type = d.Type
		if d.Nullable {
			out.Type = []string{d.Type, "null"}
		}
	}
	out.Enum = slices.Clone(d.OneOf)
	if len(d.NotOneOf) > 0 {
		out.Not = &Schema{Enum: slices.Clone(d.NotOneOf)}
	}

	for _, t := range d.Tests {
		applyTest(out, d.Type, t)
	}

	switch d.Type {
	case goshape.KindObject:
		out.Properties = make(map[string]*Schema, len(d.Fields))
		for _, key := range d.FieldKeys {
			f := d.Fields[key]
			out.Properties[key] = FromDescription(f)
			if f != nil && f.Type != "ref" && !f.Optional {
				out.Required = append(out.Required, key)
			}
		}
		for _, t := range d.Tests {
			if t.Name == goshape.TestNoUnknown {
				out.AdditionalProperties = false
			}
		}
	case goshape.KindArray:
		if d.InnerType != nil {
			out.Items = FromDescription(d.InnerType)
		}
	}
	return out
}

func applyTest(out *Schema, kind string, t goshape.TestDescription) {
	n, isNum := number(t.Params[t.Name])
	switch {
	case kind == goshape.KindString && isNum && t.Name == goshape.TestMin:
		out.MinLength = intPtr(n)
	case kind == goshape.KindString && isNum && t.Name == goshape.TestMax:
		out.MaxLength = intPtr(n)
	case kind == goshape.KindString && isNum && t.Name == goshape.TestLength:
		out.MinLength, out.MaxLength = intPtr(n), intPtr(n)
	case kind == goshape.KindString && t.Name == goshape.TestMatches:
		out.Pattern, _ = t.Params["regex"].(string)
	case kind == goshape.KindNumber && isNum && t.Name == goshape.TestMin:
		out.Minimum = &n
	case kind == goshape.KindNumber && isNum && t.Name == goshape.TestMax:
		out.Maximum = &n
	case kind == goshape.KindNumber && t.Name == goshape.TestInteger:
		switch out.Type.(type) {
		case string:
			out.Type = "integer"
		case []string:
			out.Type = []string{"integer", "null"}
		}
	case kind == goshape.KindArray && isNum && t.Name == goshape.TestMin:
		out.MinItems = intPtr(n)
	case kind == goshape.KindArray && isNum && t.Name == goshape.TestMax:
		out.MaxItems = intPtr(n)
	case kind == goshape.KindArray && isNum && t.Name == goshape.TestLength:
		out.MinItems, out.MaxItems = intPtr(n), intPtr(n)
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func intPtr(f float64) *int {
	n := int(f)
	return &n
}
