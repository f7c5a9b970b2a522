// Package openapi converts between goshape schemas and OpenAPI 3 schema
// objects. Import covers the structural subset used by Kubernetes CRDs:
// typed scalars with bounds, enums, objects with required properties and
// arrays with item schemas.
package openapi

import (
	"errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"
	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	goshape "github.com/reoring/goshape"
)

// ErrNoSchema is returned when a document carries no schema object.
var ErrNoSchema = errors.New("openapi: no schema found")

// PreserveUnknownFields is the extension that keeps undeclared keys.
const PreserveUnknownFields = "x-kubernetes-preserve-unknown-fields"

// ImportJSON decodes an OpenAPI schema object from JSON and imports it.
func ImportJSON(data []byte) (goshape.Schema, error) {
	var s openapi3.Schema
	if err := gojson.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("openapi: invalid schema json: %w", err)
	}
	return Import(&s)
}

// ImportCRD imports the schema of a Kubernetes CustomResourceDefinition
// given as YAML or JSON. The first served version wins; legacy
// spec.validation schemas are accepted too.
func ImportCRD(data []byte) (goshape.Schema, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("openapi: invalid crd: %w", err)
	}
	doc := unwrapCRDSchema(root)
	if doc == nil {
		if oas, ok := root["openAPIV3Schema"].(map[string]any); ok {
			doc = oas
		}
	}
	if doc == nil {
		return nil, ErrNoSchema
	}
	raw, err := gojson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("openapi: re-encode schema: %w", err)
	}
	return ImportJSON(raw)
}

func unwrapCRDSchema(root map[string]any) map[string]any {
	spec, ok := root["spec"].(map[string]any)
	if !ok {
		return nil
	}
	if vers, ok := spec["versions"].([]any); ok {
		var first map[string]any
		for _, v := range vers {
			vm, _ := v.(map[string]any)
			sch, _ := vm["schema"].(map[string]any)
			oas, _ := sch["openAPIV3Schema"].(map[string]any)
			if oas == nil {
				continue
			}
			if served, ok := vm["served"].(bool); !ok || served {
				return oas
			}
			if first == nil {
				first = oas
			}
		}
		if first != nil {
			return first
		}
	}
	if val, ok := spec["validation"].(map[string]any); ok {
		if oas, ok := val["openAPIV3Schema"].(map[string]any); ok {
			return oas
		}
	}
	return nil
}

// Import builds a schema from s. Unsupported keywords are ignored.
func Import(s *openapi3.Schema) (goshape.Schema, error) {
	return importSchema(s, false)
}

func importSchema(s *openapi3.Schema, required bool) (goshape.Schema, error) {
	if s == nil {
		return decorate(goshape.Mixed(), nil, required), nil
	}
	switch {
	case is(s, openapi3.TypeObject) || len(s.Properties) > 0:
		return importObject(s, required)
	case is(s, openapi3.TypeArray):
		arr := goshape.Array()
		if s.Items != nil && s.Items.Value != nil {
			inner, err := importSchema(s.Items.Value, false)
			if err != nil {
				return nil, err
			}
			arr = arr.Of(inner)
		}
		if s.MinItems > 0 {
			arr = arr.Min(int(s.MinItems))
		}
		if s.MaxItems != nil {
			arr = arr.Max(int(*s.MaxItems))
		}
		return decorate(arr, s, required), nil
	case is(s, openapi3.TypeString):
		str := goshape.String()
		if s.MinLength > 0 {
			str = str.Min(int(s.MinLength))
		}
		if s.MaxLength != nil {
			str = str.Max(int(*s.MaxLength))
		}
		if s.Pattern != "" {
			re, err := regexp.Compile(s.Pattern)
			if err != nil {
				return nil, fmt.Errorf("openapi: pattern %q: %w", s.Pattern, err)
			}
			str = str.Matches(re, false)
		}
		return decorate(str, s, required), nil
	case is(s, openapi3.TypeNumber) || is(s, openapi3.TypeInteger):
		num := goshape.Number()
		if is(s, openapi3.TypeInteger) {
			num = num.Integer()
		}
		if s.Min != nil {
			num = num.Min(*s.Min)
		}
		if s.Max != nil {
			num = num.Max(*s.Max)
		}
		return decorate(num, s, required), nil
	case is(s, openapi3.TypeBoolean):
		return decorate(goshape.Boolean(), s, required), nil
	}
	return decorate(goshape.Mixed(), s, required), nil
}

func importObject(s *openapi3.Schema, required bool) (goshape.Schema, error) {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	slices.Sort(names)
	entries := make([]goshape.Entry, 0, len(names))
	for _, name := range names {
		ref := s.Properties[name]
		var child *openapi3.Schema
		if ref != nil {
			child = ref.Value
		}
		f, err := importSchema(child, slices.Contains(s.Required, name))
		if err != nil {
			return nil, fmt.Errorf("openapi: property %s: %w", name, err)
		}
		entries = append(entries, goshape.Key(name, f))
	}
	obj, err := goshape.Object().TryShape(entries)
	if err != nil {
		return nil, err
	}
	preserve, _ := s.Extensions[PreserveUnknownFields].(bool)
	if has := s.AdditionalProperties.Has; has != nil && !*has && !preserve {
		obj = obj.NoUnknown(true)
	}
	return decorate(obj, s, required), nil
}

func is(s *openapi3.Schema, typ string) bool {
	return s.Type != nil && s.Type.Is(typ)
}

type fluent[T any] interface {
	goshape.Schema
	Required(msg ...string) T
	Nullable() T
	Label(label string) T
	Default(v any) T
	OneOf(values []any, msg ...string) T
	Meta(m map[string]any) T
}

// decorate applies the keywords every kind shares.
func decorate[T fluent[T]](out T, s *openapi3.Schema, required bool) T {
	if required {
		out = out.Required()
	}
	if s == nil {
		return out
	}
	if s.Nullable {
		out = out.Nullable()
	}
	if s.Title != "" {
		out = out.Label(s.Title)
	}
	if s.Description != "" {
		out = out.Meta(map[string]any{"description": s.Description})
	}
	if s.Default != nil {
		out = out.Default(s.Default)
	}
	if len(s.Enum) > 0 {
		out = out.OneOf(s.Enum)
	}
	return out
}

// Export converts s into an OpenAPI schema object. Lazy schemas export as
// the empty schema.
func Export(s goshape.Schema) *openapi3.Schema {
	return fromDescription(s.Describe())
}

func fromDescription(d *goshape.Description) *openapi3.Schema {
	if d == nil {
		return &openapi3.Schema{}
	}
	var out *openapi3.Schema
	switch d.Type {
	case goshape.KindString:
		out = openapi3.NewStringSchema()
	case goshape.KindNumber:
		out = openapi3.NewFloat64Schema()
	case goshape.KindBoolean:
		out = openapi3.NewBoolSchema()
	case goshape.KindArray:
		out = openapi3.NewArraySchema()
		if d.InnerType != nil {
			out.Items = openapi3.NewSchemaRef("", fromDescription(d.InnerType))
		}
	case goshape.KindObject:
		out = openapi3.NewObjectSchema()
		for _, key := range d.FieldKeys {
			f := d.Fields[key]
			out.Properties[key] = openapi3.NewSchemaRef("", fromDescription(f))
			if f != nil && f.Type != "ref" && !f.Optional {
				out.Required = append(out.Required, key)
			}
		}
	default:
		out = &openapi3.Schema{}
	}
	out.Title = d.Label
	out.Nullable = d.Nullable
	out.Enum = slices.Clone(d.OneOf)
	if desc, ok := d.Meta["description"].(string); ok {
		out.Description = desc
	}
	for _, t := range d.Tests {
		applyTest(out, d.Type, t)
	}
	return out
}

func applyTest(out *openapi3.Schema, kind string, t goshape.TestDescription) {
	bound, ok := t.Params[t.Name]
	n, isNum := toFloat(bound)
	switch t.Name {
	case goshape.TestNoUnknown:
		no := false
		out.AdditionalProperties = openapi3.AdditionalProperties{Has: &no}
	case goshape.TestInteger:
		out.Type = &openapi3.Types{openapi3.TypeInteger}
	case goshape.TestMatches:
		out.Pattern, _ = t.Params["regex"].(string)
	}
	if !ok || !isNum {
		return
	}
	u := uint64(n)
	switch {
	case kind == goshape.KindString && t.Name == goshape.TestMin:
		out.MinLength = u
	case kind == goshape.KindString && t.Name == goshape.TestMax:
		out.MaxLength = &u
	case kind == goshape.KindString && t.Name == goshape.TestLength:
		out.MinLength, out.MaxLength = u, &u
	case kind == goshape.KindNumber && t.Name == goshape.TestMin:
		out.Min = &n
	case kind == goshape.KindNumber && t.Name == goshape.TestMax:
		out.Max = &n
	case kind == goshape.KindArray && t.Name == goshape.TestMin:
		out.MinItems = u
	case kind == goshape.KindArray && t.Name == goshape.TestMax:
		out.MaxItems = &u
	case kind == goshape.KindArray && t.Name == goshape.TestLength:
		out.MinItems, out.MaxItems = u, &u
	}
}

func toFloat(v any) (float64, bool) {
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
