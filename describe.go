package goshape

// Description is a read-only structural export of a schema, meant for tooling
// such as form generators or documentation.
type Description struct {
	Type      string                  `json:"type" yaml:"type"`
	Label     string                  `json:"label,omitempty" yaml:"label,omitempty"`
	Meta      map[string]any          `json:"meta,omitempty" yaml:"meta,omitempty"`
	Nullable  bool                    `json:"nullable" yaml:"nullable"`
	Optional  bool                    `json:"optional" yaml:"optional"`
	OneOf     []any                   `json:"oneOf,omitempty" yaml:"oneOf,omitempty"`
	NotOneOf  []any                   `json:"notOneOf,omitempty" yaml:"notOneOf,omitempty"`
	Tests     []TestDescription       `json:"tests" yaml:"tests"`
	Fields    map[string]*Description `json:"fields,omitempty" yaml:"fields,omitempty"`
	FieldKeys []string                `json:"fieldKeys,omitempty" yaml:"fieldKeys,omitempty"`
	InnerType *Description            `json:"innerType,omitempty" yaml:"innerType,omitempty"`
	// Key is set for reference fields.
	Key string `json:"key,omitempty" yaml:"key,omitempty"`
}

// TestDescription names a test and its parameters.
type TestDescription struct {
	Name   string         `json:"name" yaml:"name"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// RefDescription stands in for a *Reference inside test parameters.
type RefDescription struct {
	Ref string `json:"ref" yaml:"ref"`
}

func describeParam(v any) any {
	if r, ok := v.(*Reference); ok {
		return RefDescription{Ref: r.Key()}
	}
	return v
}
