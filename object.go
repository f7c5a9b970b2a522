package goshape

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/reoring/goshape/internal/pathexpr"
	"github.com/reoring/goshape/internal/toposort"
)

// Entry is one declared object field.
type Entry struct {
	Key   string
	Field Field
}

// Key pairs a field name with a schema or *Reference.
func Key(name string, f Field) Entry { return Entry{Key: name, Field: f} }

// ObjectSchema accepts records (map[string]any). Fields are cast and
// validated in dependency order: a field that reads a sibling through a
// reference or condition is processed after that sibling.
type ObjectSchema struct {
	core
	fields map[string]Field
	// keys holds the declaration order, nodes the traversal order.
	keys     []string
	nodes    []string
	excludes [][2]string
}

// Object returns an object schema with the given fields. It panics with a
// *ConfigError when the fields reference each other cyclically.
func Object(entries ...Entry) *ObjectSchema {
	s := &ObjectSchema{core: newCore(KindObject, isRecord)}
	s.addTransform(func(v, _ any, o *options) (any, error) {
		if text, ok := v.(string); ok {
			parsed, ok := parseJSON(text)
			if !ok {
				o.logger.Debug("object json coercion failed", "path", o.path)
			}
			v = parsed
		}
		if isRecord(v) {
			return v, nil
		}
		return nil, nil
	})
	if len(entries) == 0 {
		return s
	}
	return s.Shape(entries)
}

// Fields returns the declared field names in declaration order.
func (s *ObjectSchema) Fields() []string { return slices.Clone(s.keys) }

// FieldOf returns the field declared under key, or nil.
func (s *ObjectSchema) FieldOf(key string) Field { return s.fields[key] }

func (s *ObjectSchema) blocks() bool {
	if s.hasAsyncTests() {
		return true
	}
	for _, f := range s.fields {
		if sc, ok := f.(Schema); ok && sc.mayBlock() {
			return true
		}
	}
	return false
}

// Shape merges entries into the field map and recomputes the traversal
// order. excludes lists field pairs whose mutual references must not be
// treated as dependencies. It panics with a *ConfigError on a cycle.
func (s *ObjectSchema) Shape(entries []Entry, excludes ...[2]string) *ObjectSchema {
	n, err := s.TryShape(entries, excludes...)
	if err != nil {
		panic(err)
	}
	return n
}

// TryShape is Shape returning configuration errors instead of panicking.
func (s *ObjectSchema) TryShape(entries []Entry, excludes ...[2]string) (*ObjectSchema, error) {
	fields := maps.Clone(s.fields)
	if fields == nil {
		fields = make(map[string]Field, len(entries))
	}
	keys := slices.Clone(s.keys)
	for _, e := range entries {
		if e.Field == nil || (isSchemaField(e.Field) && isNilSchema(e.Field.(Schema))) {
			return nil, notSchema("object.shape", e.Field)
		}
		if _, ok := fields[e.Key]; !ok {
			keys = append(keys, e.Key)
		}
		fields[e.Key] = e.Field
	}
	all := append(slices.Clip(s.excludes), excludes...)
	return s.withFields(fields, keys, all)
}

// withFields returns a copy of s over fields, re-deriving the traversal
// order.
func (s *ObjectSchema) withFields(fields map[string]Field, keys []string, excludes [][2]string) (*ObjectSchema, error) {
	nodes, err := sortFields(fields, keys, excludes)
	if err != nil {
		return nil, err
	}
	n := s.Clone()
	n.fields, n.keys, n.nodes, n.excludes = fields, keys, nodes, excludes
	return n, nil
}

func (s *ObjectSchema) mustFields(fields map[string]Field, keys []string, excludes [][2]string) *ObjectSchema {
	n, err := s.withFields(fields, keys, excludes)
	if err != nil {
		panic(err)
	}
	return n
}

// sortFields orders keys so that every field follows the siblings it reads.
func sortFields(fields map[string]Field, keys []string, excludes [][2]string) ([]string, error) {
	g := toposort.New(keys)
	for _, pair := range excludes {
		g.Exclude(pair[0], pair[1])
	}
	for _, key := range keys {
		for _, dep := range fields[key].dependencies() {
			g.AddEdge(dep, key)
		}
	}
	nodes, err := g.Sort()
	if err != nil {
		var cycle *toposort.CycleError
		if errors.As(err, &cycle) {
			err = fmt.Errorf("%w: %s", ErrCyclicDependency, strings.Join(cycle.Nodes, " -> "))
		} else {
			err = fmt.Errorf("%w: %w", ErrCyclicDependency, err)
		}
		return nil, configErr("object.shape", err)
	}
	return nodes, nil
}

// Field adds or replaces a single field.
func (s *ObjectSchema) Field(name string, f Field) *ObjectSchema {
	return s.Shape([]Entry{{Key: name, Field: f}})
}

// Pick keeps only the named fields.
func (s *ObjectSchema) Pick(keys ...string) *ObjectSchema {
	fields := map[string]Field{}
	var order []string
	for _, k := range keys {
		if f, ok := s.fields[k]; ok {
			if _, dup := fields[k]; !dup {
				order = append(order, k)
			}
			fields[k] = f
		}
	}
	return s.mustFields(fields, order, s.excludes)
}

// Omit drops the named fields.
func (s *ObjectSchema) Omit(keys ...string) *ObjectSchema {
	fields := maps.Clone(s.fields)
	for _, k := range keys {
		delete(fields, k)
	}
	order := slices.DeleteFunc(slices.Clone(s.keys), func(k string) bool { return slices.Contains(keys, k) })
	return s.mustFields(fields, order, s.excludes)
}

// NoUnknown rejects records holding undeclared keys when disallow is set. It
// also makes Cast drop those keys. The StripUnknown option overrides both.
func (s *ObjectSchema) NoUnknown(disallow bool, msg ...string) *ObjectSchema {
	return s.with(func(c *core) {
		c.spec.NoUnknown = disallow
		c.addTest(&Test{
			Name:      TestNoUnknown,
			Message:   first(msg),
			Exclusive: true,
			tmplKey:   "object.noUnknown",
			Fn: func(tc *TestContext, value any) (bool, error) {
				rec, ok := value.(map[string]any)
				if !ok || !disallow {
					return true, nil
				}
				obj, _ := tc.Schema.(*ObjectSchema)
				if obj == nil {
					return true, nil
				}
				unknown := obj.unknownKeys(rec)
				if len(unknown) == 0 {
					return true, nil
				}
				return false, tc.CreateError(ErrorParams(Params{"unknown": strings.Join(unknown, ", ")}))
			},
		})
	})
}

// Unknown is NoUnknown(!allow).
func (s *ObjectSchema) Unknown(allow bool, msg ...string) *ObjectSchema {
	return s.NoUnknown(!allow, msg...)
}

func (s *ObjectSchema) unknownKeys(rec map[string]any) []string {
	var out []string
	for _, k := range slices.Sorted(maps.Keys(rec)) {
		if _, ok := s.fields[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

// From moves the value found at path from (dot/bracket syntax) to key to
// before fields are cast. With alias the source key is kept.
func (s *ObjectSchema) From(from, to string, alias bool) *ObjectSchema {
	segs, err := pathexpr.Parse(from)
	if err != nil {
		panic(configErr("object.from", fmt.Errorf("%w: %v", ErrInvalidReference, err)))
	}
	return s.with(func(c *core) {
		c.addTransform(func(v, _ any, _ *options) (any, error) {
			rec, ok := v.(map[string]any)
			if !ok {
				return v, nil
			}
			got, ok := pathexpr.Get(rec, segs)
			if !ok {
				return v, nil
			}
			next := maps.Clone(rec)
			if !alias {
				delete(next, from)
			}
			next[to] = got
			return next, nil
		})
	})
}

// TransformKeys renames every top-level record key with fn during cast.
func (s *ObjectSchema) TransformKeys(fn func(string) string) *ObjectSchema {
	return s.with(func(c *core) {
		c.addTransform(func(v, _ any, _ *options) (any, error) {
			rec, ok := v.(map[string]any)
			if !ok {
				return v, nil
			}
			next := make(map[string]any, len(rec))
			for k, val := range rec {
				next[fn(k)] = val
			}
			return next, nil
		})
	})
}

func (s *ObjectSchema) CamelCase() *ObjectSchema { return s.TransformKeys(strcase.ToLowerCamel) }
func (s *ObjectSchema) SnakeCase() *ObjectSchema { return s.TransformKeys(strcase.ToSnake) }

func (s *ObjectSchema) ConstantCase() *ObjectSchema {
	return s.TransformKeys(strcase.ToScreamingSnake)
}

// defaultValue returns the explicit default, or a record built from the
// field defaults. Fields without a default are left out.
func (s *ObjectSchema) defaultValue() any {
	if s.spec.HasDefault {
		return s.core.defaultValue()
	}
	if len(s.nodes) == 0 {
		return Undefined
	}
	out := make(map[string]any, len(s.nodes))
	for _, key := range s.nodes {
		if v := fieldDefault(s.fields[key]); v != Undefined {
			out[key] = v
		}
	}
	return out
}

func fieldDefault(f Field) any {
	switch t := f.(type) {
	case *ObjectSchema:
		return t.defaultValue()
	case Schema:
		if n := t.node(); n != nil {
			return n.defaultValue()
		}
	}
	return Undefined
}

func (s *ObjectSchema) castValue(raw any, o *options) (any, error) {
	value, err := s.castBase(raw, o)
	if err != nil {
		return nil, err
	}
	if value == Undefined {
		return s.defaultValue(), nil
	}
	rec, ok := value.(map[string]any)
	if !ok {
		return value, nil
	}

	// NoUnknown drops undeclared keys on a plain cast only, so validation
	// still reports them.
	strip := s.spec.NoUnknown && !o.validating
	if o.stripUnknown != nil {
		strip = *o.stripUnknown
	}
	props := slices.Clone(s.nodes)
	for _, k := range slices.Sorted(maps.Keys(rec)) {
		if _, declared := s.fields[k]; !declared {
			props = append(props, k)
		}
	}

	out := make(map[string]any, len(props))
	base := *o
	base.parent = out
	base.from = pushAncestor(o.from, Ancestor{Schema: s, Value: rec})
	changed := false
	for _, prop := range props {
		input, exists := rec[prop]
		if !exists {
			input = Undefined
		}
		field, declared := s.fields[prop]
		switch {
		case declared:
			co := base.child(pathexpr.Field(o.path, prop))
			v, skip, err := castField(field, input, co)
			if err != nil {
				return nil, err
			}
			if skip {
				changed = changed || exists
				continue
			}
			if v != Undefined {
				out[prop] = v
			}
		case !strip:
			out[prop] = input
		}
		got, kept := out[prop]
		if kept != exists || (kept && !sameValue(got, input)) {
			changed = true
		}
	}
	if !changed {
		return value, nil
	}
	return out, nil
}

// castField casts one field value. skip reports a stripped field.
func castField(f Field, input any, o *options) (v any, skip bool, err error) {
	if r, ok := f.(*Reference); ok {
		return r.GetValue(input, o.parent, o.context, o.from), false, nil
	}
	sc := f.(Schema)
	resolved, err := sc.resolveWith(o.resolveOptions(input))
	if err != nil {
		return nil, false, err
	}
	spec := resolved.node().spec
	if spec.Strip {
		return nil, true, nil
	}
	if o.validating && spec.Strict {
		return input, false, nil
	}
	v, err = resolved.castValue(input, o)
	return v, false, err
}

func (s *ObjectSchema) validateValue(ctx context.Context, raw any, o *options) (any, error) {
	endEarly := o.isAbortEarly(s.spec)
	original := raw
	if o.hasOriginal && o.originalValue != nil {
		original = o.originalValue
	}
	self := *o
	self.validating = true
	self.originalValue, self.hasOriginal = original, true

	var errs []*ValidationError
	value, err := validateBase(ctx, s, raw, &self)
	if err != nil {
		ve, ok := AsValidationError(err)
		if !ok || endEarly {
			return value, err
		}
		errs = append(errs, ve)
	}

	rec, isRec := value.(map[string]any)
	if !o.isRecursive(s.spec) || !isRec {
		if len(errs) > 0 {
			return value, errs[0]
		}
		return value, nil
	}
	originals, _ := original.(map[string]any)
	if originals == nil {
		originals = rec
	}
	from := pushAncestor(o.from, Ancestor{Schema: s, Value: original})
	strict := true

	tasks := make([]task, 0, len(s.nodes))
	for _, key := range s.nodes {
		field, ok := s.fields[key].(Schema)
		if !ok {
			continue
		}
		item, exists := rec[key]
		if !exists {
			item = Undefined
		}
		co := self.child(pathexpr.Field(o.path, key))
		co.from = from
		co.strict = &strict
		co.parent = rec
		if ov, ok := originals[key]; ok {
			co.originalValue, co.hasOriginal = ov, true
		}
		tasks = append(tasks, task{async: field.mayBlock(), run: func(ctx context.Context) error {
			_, err := validate(ctx, field, item, co)
			return err
		}})
	}
	ro := runOptions{
		sync:     o.sync,
		endEarly: endEarly,
		sort:     s.errorOrder(o.path),
		path:     o.path,
		value:    value,
		errors:   errs,
		logger:   o.logger,
	}
	return value, runTasks(ctx, ro, tasks)
}

// errorOrder sorts child errors by the declaration index of the field they
// belong to.
func (s *ObjectSchema) errorOrder(path string) func(a, b *ValidationError) int {
	index := func(e *ValidationError) int {
		seg, ok := pathexpr.Head(path, e.Path)
		if !ok {
			return len(s.keys)
		}
		if i := slices.Index(s.keys, seg.Name()); i >= 0 {
			return i
		}
		return len(s.keys)
	}
	return func(a, b *ValidationError) int { return index(a) - index(b) }
}

// Describe exports the schema structure, including every field.
func (s *ObjectSchema) Describe() *Description {
	d := describeCore(&s.core)
	d.Fields = make(map[string]*Description, len(s.fields))
	for k, f := range s.fields {
		d.Fields[k] = f.Describe()
	}
	d.FieldKeys = slices.Clone(s.keys)
	return d
}

// concatFields merges other's fields over s's: keys declared by both are
// concatenated (s's field first), new keys are appended.
func (s *ObjectSchema) concatFields(other *ObjectSchema) (map[string]Field, []string, error) {
	fields := maps.Clone(s.fields)
	if fields == nil {
		fields = map[string]Field{}
	}
	keys := slices.Clone(s.keys)
	for _, k := range other.keys {
		next := other.fields[k]
		prev, ok := fields[k]
		if !ok {
			keys = append(keys, k)
			fields[k] = next
			continue
		}
		ps, pok := prev.(Schema)
		ns, nok := next.(Schema)
		if !pok || !nok {
			fields[k] = next
			continue
		}
		merged, err := Concat(ps, ns)
		if err != nil {
			return nil, nil, err
		}
		fields[k] = merged
	}
	return fields, keys, nil
}

func isSchemaField(f Field) bool {
	_, ok := f.(Schema)
	return ok
}
