package dsl

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/rules"
)

// ErrDefinition is wrapped by every error Build returns for a malformed
// definition.
var ErrDefinition = errors.New("dsl: invalid definition")

func defErr(path, format string, args ...any) error {
	if path == "" {
		path = "(root)"
	}
	return fmt.Errorf("%w at %s: %s", ErrDefinition, path, fmt.Sprintf(format, args...))
}

// Option configures Build.
type Option func(*builder)

// WithSetChecker enables the inSet and notInSet rules, backed by a Redis
// client.
func WithSetChecker(c rules.SetChecker) Option { return func(b *builder) { b.sets = c } }

type builder struct {
	sets rules.SetChecker
}

// Build converts def into a schema.
func Build(def *Definition, opts ...Option) (goshape.Schema, error) {
	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b.build(def, "", "")
}

func (b *builder) build(def *Definition, path, inherit string) (goshape.Schema, error) {
	if def == nil {
		return goshape.Mixed(), nil
	}
	typ := def.Type
	if typ == "" {
		typ = inherit
	}
	var base goshape.Schema
	switch typ {
	case "", goshape.KindMixed:
		base = goshape.Mixed()
	case goshape.KindString:
		base = goshape.String()
	case goshape.KindNumber:
		base = goshape.Number()
	case goshape.KindBoolean:
		base = goshape.Boolean()
	case goshape.KindArray:
		base = goshape.Array()
	case goshape.KindObject:
		base = goshape.Object()
	default:
		return nil, defErr(path, "unknown type %q", typ)
	}
	return b.configure(base, def, path)
}

// configure applies def on top of s, which already has def's kind.
func (b *builder) configure(s goshape.Schema, def *Definition, path string) (goshape.Schema, error) {
	if def.Type != "" && def.Type != s.Type() {
		return nil, defErr(path, "type %q does not match %q", def.Type, s.Type())
	}
	switch t := s.(type) {
	case *goshape.MixedSchema:
		if err := noBounds(def, path); err != nil {
			return nil, err
		}
		return common(b, t, def, path)
	case *goshape.StringSchema:
		return b.configureString(t, def, path)
	case *goshape.NumberSchema:
		return b.configureNumber(t, def, path)
	case *goshape.BooleanSchema:
		if err := noBounds(def, path); err != nil {
			return nil, err
		}
		return common(b, t, def, path)
	case *goshape.ArraySchema:
		return b.configureArray(t, def, path)
	case *goshape.ObjectSchema:
		return b.configureObject(t, def, path)
	}
	return nil, defErr(path, "cannot configure %s schema", s.Type())
}

func (b *builder) configureString(s *goshape.StringSchema, def *Definition, path string) (goshape.Schema, error) {
	if def.Trim {
		s = s.Trim()
	}
	if def.Lowercase {
		s = s.Lowercase()
	}
	min, max, length, err := bounds(def, path)
	if err != nil {
		return nil, err
	}
	if min != nil {
		s = s.Min(min)
	}
	if max != nil {
		s = s.Max(max)
	}
	if length != nil {
		s = s.Length(length)
	}
	if def.Matches != "" {
		re, err := regexp.Compile(def.Matches)
		if err != nil {
			return nil, defErr(path, "matches: %v", err)
		}
		s = s.Matches(re, false)
	}
	return common(b, s, def, path)
}

func (b *builder) configureNumber(s *goshape.NumberSchema, def *Definition, path string) (goshape.Schema, error) {
	if def.Integer {
		s = s.Integer()
	}
	min, max, length, err := bounds(def, path)
	if err != nil {
		return nil, err
	}
	if length != nil {
		return nil, defErr(path, "length is not supported for numbers")
	}
	if min != nil {
		s = s.Min(min)
	}
	if max != nil {
		s = s.Max(max)
	}
	return common(b, s, def, path)
}

func (b *builder) configureArray(s *goshape.ArraySchema, def *Definition, path string) (goshape.Schema, error) {
	if def.Of != nil {
		inner, err := b.build(def.Of, path+"[]", "")
		if err != nil {
			return nil, err
		}
		s = s.Of(inner)
	}
	if def.Ensure {
		s = s.Ensure()
	}
	if def.Compact {
		s = s.Compact(nil)
	}
	min, max, length, err := bounds(def, path)
	if err != nil {
		return nil, err
	}
	if min != nil {
		s = s.Min(min)
	}
	if max != nil {
		s = s.Max(max)
	}
	if length != nil {
		s = s.Length(length)
	}
	return common(b, s, def, path)
}

func (b *builder) configureObject(s *goshape.ObjectSchema, def *Definition, path string) (goshape.Schema, error) {
	if err := noBounds(def, path); err != nil {
		return nil, err
	}
	keys := slices.Sorted(maps.Keys(def.Fields))
	entries := make([]goshape.Entry, 0, len(keys))
	for _, key := range keys {
		fd := def.Fields[key]
		fpath := key
		if path != "" {
			fpath = path + "." + key
		}
		if fd != nil && fd.Ref != "" {
			ref, err := goshape.NewRef(fd.Ref)
			if err != nil {
				return nil, defErr(fpath, "ref: %v", err)
			}
			entries = append(entries, goshape.Key(key, ref))
			continue
		}
		f, err := b.build(fd, fpath, "")
		if err != nil {
			return nil, err
		}
		entries = append(entries, goshape.Key(key, f))
	}
	if len(entries) > 0 || len(def.Exclude) > 0 {
		next, err := s.TryShape(entries, def.Exclude...)
		if err != nil {
			return nil, defErr(path, "%v", err)
		}
		s = next
	}
	if def.NoUnknown {
		s = s.NoUnknown(true)
	}
	switch strings.ToLower(def.KeyCase) {
	case "":
	case "camel":
		s = s.CamelCase()
	case "snake":
		s = s.SnakeCase()
	case "constant":
		s = s.ConstantCase()
	default:
		return nil, defErr(path, "unknown keyCase %q", def.KeyCase)
	}
	return common(b, s, def, path)
}

type fluent[T any] interface {
	goshape.Schema
	Required(msg ...string) T
	Defined(msg ...string) T
	Nullable() T
	Label(label string) T
	Default(v any) T
	Strip() T
	Strict(enabled bool) T
	OneOf(values []any, msg ...string) T
	NotOneOf(values []any, msg ...string) T
	Meta(m map[string]any) T
	Test(t *goshape.Test) T
	When(keys []string, fn goshape.ConditionFunc) T
}

// common applies the settings every kind shares, then rules and conditions.
func common[T fluent[T]](b *builder, s T, def *Definition, path string) (goshape.Schema, error) {
	if def.Required {
		s = s.Required()
	}
	if def.Defined {
		s = s.Defined()
	}
	if def.Nullable {
		s = s.Nullable()
	}
	if def.Label != "" {
		s = s.Label(def.Label)
	}
	if def.Default != nil {
		s = s.Default(def.Default)
	}
	if def.Strip {
		s = s.Strip()
	}
	if def.Strict {
		s = s.Strict(true)
	}
	if len(def.OneOf) > 0 {
		s = s.OneOf(def.OneOf)
	}
	if len(def.NotOneOf) > 0 {
		s = s.NotOneOf(def.NotOneOf)
	}
	if len(def.Meta) > 0 {
		s = s.Meta(def.Meta)
	}
	for i, r := range def.Rules {
		t, err := b.rule(r)
		if err != nil {
			return nil, defErr(path, "rules[%d]: %v", i, err)
		}
		s = s.Test(t)
	}
	if w := def.When; w != nil {
		fn, err := b.condition(s, w, path)
		if err != nil {
			return nil, err
		}
		s = s.When([]string{w.Key}, fn)
	}
	return s, nil
}

func (b *builder) rule(r Rule) (*goshape.Test, error) {
	kinds := 0
	for _, set := range []bool{r.Expr != "", r.UniqueBy != nil, r.InSet != "", r.NotInSet != ""} {
		if set {
			kinds++
		}
	}
	if kinds > 1 {
		return nil, errors.New("a rule declares exactly one of expr, uniqueBy, inSet or notInSet")
	}
	if (r.InSet != "" || r.NotInSet != "") && b.sets == nil {
		return nil, errors.New("set rules need a Redis client")
	}
	var t *goshape.Test
	switch {
	case r.InSet != "":
		t = rules.InSet(b.sets, r.InSet, r.Message)
	case r.NotInSet != "":
		t = rules.NotInSet(b.sets, r.NotInSet, r.Message)
	}
	if t != nil {
		if r.Name != "" {
			t.Name = r.Name
		}
		return t, nil
	}
	switch {
	case r.Expr != "":
		name := r.Name
		if name == "" {
			name = "expr"
		}
		return rules.Expr(name, r.Expr, false, r.Message)
	case r.UniqueBy != nil:
		t := rules.UniqueBy(*r.UniqueBy, r.Message)
		if r.Name != "" {
			t.Name = r.Name
		}
		return t, nil
	}
	return nil, errors.New("rule declares no check")
}

// condition compiles a when block. Both branches are applied once here so
// configuration errors surface at build time rather than during validation.
func (b *builder) condition(base goshape.Schema, w *When, path string) (goshape.ConditionFunc, error) {
	if w.Key == "" {
		return nil, defErr(path, "when.key is required")
	}
	if _, err := goshape.NewRef(w.Key); err != nil {
		return nil, defErr(path, "when.key: %v", err)
	}
	for _, branch := range []*Definition{w.Then, w.Otherwise} {
		if branch == nil {
			continue
		}
		if _, err := b.configure(base, branch, path); err != nil {
			return nil, err
		}
	}
	apply := func(branch *Definition) func(goshape.Schema) goshape.Schema {
		if branch == nil {
			return nil
		}
		return func(s goshape.Schema) goshape.Schema {
			out, err := b.configure(s, branch, path)
			if err != nil {
				return s
			}
			return out
		}
	}
	return goshape.Is(matcher(w.Is), apply(w.Then), apply(w.Otherwise)), nil
}

// matcher turns `is` into a value or predicate for goshape.Is.
func matcher(is any) any {
	if m, ok := is.(map[string]any); ok && len(m) == 1 {
		if exists, ok := m["exists"].(bool); ok {
			return func(v any) bool { return goshape.IsAbsent(v) != exists }
		}
	}
	return is
}

// bounds converts min, max and length into ints/floats or references.
func bounds(def *Definition, path string) (min, max, length any, err error) {
	conv := func(name string, v any) (any, error) {
		switch t := v.(type) {
		case nil:
			return nil, nil
		case int, int64, float64:
			return t, nil
		case string:
			ref, err := goshape.NewRef(t)
			if err != nil {
				return nil, defErr(path, "%s: %v", name, err)
			}
			return ref, nil
		}
		return nil, defErr(path, "%s must be a number or reference, got %T", name, v)
	}
	if min, err = conv("min", def.Min); err != nil {
		return
	}
	if max, err = conv("max", def.Max); err != nil {
		return
	}
	length, err = conv("length", def.Length)
	return
}

func noBounds(def *Definition, path string) error {
	if def.Min != nil || def.Max != nil || def.Length != nil {
		return defErr(path, "min, max and length are not supported here")
	}
	return nil
}
