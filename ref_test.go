package goshape_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goshape "github.com/reoring/goshape"
)

func TestRef_Kinds(t *testing.T) {
	parent := map[string]any{"a": map[string]any{"b": []any{"x", "y"}}}
	ctx := map[string]any{"tenant": "acme"}
	from := []goshape.Ancestor{{Value: parent}, {Value: map[string]any{"up": 1}}}

	assert.Equal(t, "y", goshape.Ref("a.b[1]").GetValue(nil, parent, ctx, from))
	assert.Equal(t, "acme", goshape.Ref("$tenant").GetValue(nil, parent, ctx, from))
	assert.Equal(t, 7, goshape.Ref(".").GetValue(7, parent, ctx, from))
	assert.Equal(t, 1, goshape.Ref("^up").GetValue(nil, parent, ctx, from))
	assert.Equal(t, goshape.Undefined, goshape.Ref("^^up").GetValue(nil, parent, ctx, from))
	assert.Equal(t, goshape.Undefined, goshape.Ref("missing").GetValue(nil, parent, ctx, from))
	assert.Equal(t, goshape.Undefined, goshape.Ref("$tenant").GetValue(nil, parent, nil, from))
	assert.Equal(t, goshape.Undefined, goshape.Ref("a").GetValue(nil, nil, nil, nil))

	upper := goshape.Ref("$tenant", goshape.RefMap(func(v any) any { return v.(string) + "!" }))
	assert.Equal(t, "acme!", upper.GetValue(nil, nil, ctx, nil))
}

func TestRef_Classification(t *testing.T) {
	assert.True(t, goshape.Ref("a.b").IsSibling())
	assert.False(t, goshape.Ref("$a").IsSibling())
	assert.True(t, goshape.Ref("$a").IsContext())
	assert.False(t, goshape.Ref("^a").IsSibling())
	assert.False(t, goshape.Ref(".a").IsSibling())
	assert.Equal(t, "a.b", goshape.Ref(" a.b ").Key())
	assert.Equal(t, "Ref(a)", goshape.Ref("a").String())
}

func TestRef_Invalid(t *testing.T) {
	for _, key := range []string{"", "   ", "a..b", "a[0"} {
		_, err := goshape.NewRef(key)
		assert.ErrorIs(t, err, goshape.ErrInvalidReference, key)
	}
	assert.Panics(t, func() { goshape.Ref("") })
}

func TestRef_ContextBound(t *testing.T) {
	s := goshape.Number().Max(goshape.Ref("$max"))
	_, err := s.ValidateSync(5, goshape.WithContext(map[string]any{"max": 3}))
	assert.Equal(t, "this must be less than or equal to 3", requireInvalid(t, err).Message)

	// An unresolvable bound does not fail the value.
	_, err = s.ValidateSync(5)
	assert.NoError(t, err)
}

func TestRef_ValueInOneOf(t *testing.T) {
	s := goshape.Object(
		goshape.Key("password", goshape.String()),
		goshape.Key("confirm", goshape.String().OneOf([]any{goshape.Ref("password")}, "passwords must match")),
	)
	_, err := s.ValidateSync(map[string]any{"password": "a", "confirm": "b"})
	ve := requireInvalid(t, err)
	assert.Equal(t, "confirm", ve.Path)
	assert.Equal(t, "passwords must match", ve.Message)

	_, err = s.ValidateSync(map[string]any{"password": "a", "confirm": "a"})
	assert.NoError(t, err)
}

func TestWhen_ContextKey(t *testing.T) {
	s := goshape.String().When([]string{"$strict"}, goshape.Is(true,
		func(s goshape.Schema) goshape.Schema { return s.(*goshape.StringSchema).Required() }, nil))
	_, err := s.ValidateSync(goshape.Undefined, goshape.WithContext(map[string]any{"strict": true}))
	assert.Error(t, err)
	_, err = s.ValidateSync(goshape.Undefined)
	assert.NoError(t, err)
}

func TestWhen_PredicateAndMultipleKeys(t *testing.T) {
	positive := func(v any) bool { f, ok := v.(float64); return ok && f > 0 }
	s := goshape.Object(
		goshape.Key("a", goshape.Number()),
		goshape.Key("b", goshape.Number()),
		goshape.Key("sum", goshape.Number().When([]string{"a", "b"}, goshape.Is(positive,
			func(s goshape.Schema) goshape.Schema { return s.(*goshape.NumberSchema).Required() }, nil))),
	)
	_, err := s.ValidateSync(map[string]any{"a": 1.0, "b": 2.0})
	assert.Equal(t, []string{"sum"}, leafPaths(requireInvalid(t, err)))
	_, err = s.ValidateSync(map[string]any{"a": 1.0, "b": -2.0})
	assert.NoError(t, err)
}

func TestWhen_ValuesPassedToFunc(t *testing.T) {
	var seen []any
	s := goshape.Object(
		goshape.Key("x", goshape.Mixed().When([]string{"y", "$c"}, func(values []any, s goshape.Schema) goshape.Schema {
			seen = values
			return nil
		})),
		goshape.Key("y", goshape.Number()),
	)
	_, err := s.Cast(map[string]any{"y": "2"}, goshape.WithContext(map[string]any{"c": "ctx"}))
	require.NoError(t, err)
	assert.Equal(t, []any{2.0, "ctx"}, seen)
}

func TestWhen_TypedNilIsConfigError(t *testing.T) {
	s := goshape.String().When([]string{"a"}, func([]any, goshape.Schema) goshape.Schema {
		var out *goshape.StringSchema
		return out
	})
	_, err := s.ValidateSync("x")
	assert.ErrorIs(t, err, goshape.ErrInvalidCondition)
	assert.Panics(t, func() { goshape.String().When([]string{"a"}, nil) })
}

func TestResolve(t *testing.T) {
	s := goshape.Number().When([]string{"$big"}, goshape.Is(true,
		func(s goshape.Schema) goshape.Schema { return s.(*goshape.NumberSchema).Min(100) }, nil))
	r, err := s.Resolve(goshape.ResolveOptions{Context: map[string]any{"big": true}})
	require.NoError(t, err)
	require.Len(t, r.Describe().Tests, 1)
	assert.Equal(t, goshape.TestMin, r.Describe().Tests[0].Name)

	// Resolving strips the condition, so the result is stable.
	again, err := r.Resolve(goshape.ResolveOptions{})
	require.NoError(t, err)
	assert.Len(t, again.Describe().Tests, 1)
}
