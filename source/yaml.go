package source

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	goshape "github.com/reoring/goshape"
)

// YAMLBytes decodes a single YAML document. Mappings become map[string]any;
// non-string keys are rendered with fmt.
func YAMLBytes(data []byte) goshape.Source {
	return goshape.SourceFunc(func(context.Context) (any, error) {
		var out any
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("source: decode yaml: %w", err)
		}
		return normalizeYAML(out), nil
	})
}

// YAMLReader decodes the first YAML document from r.
func YAMLReader(r io.Reader) goshape.Source {
	return goshape.SourceFunc(func(context.Context) (any, error) {
		var out any
		if err := yaml.NewDecoder(r).Decode(&out); err != nil {
			if err == io.EOF {
				return goshape.Undefined, nil
			}
			return nil, fmt.Errorf("source: decode yaml: %w", err)
		}
		return normalizeYAML(out), nil
	})
}

func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeYAML(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalizeYAML(val)
		}
		return t
	default:
		return v
	}
}
