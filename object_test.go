package goshape_test

import (
	"context"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goshape "github.com/reoring/goshape"
)

func TestObject_CastFields(t *testing.T) {
	s := goshape.Object(
		goshape.Key("name", goshape.String().Trim()),
		goshape.Key("age", goshape.Number()),
	)
	got, err := s.Cast(map[string]any{"name": " ada ", "age": "36", "extra": true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "ada", "age": 36.0, "extra": true}, got)
}

func TestObject_CastFromJSONText(t *testing.T) {
	got, err := goshape.Object(goshape.Key("a", goshape.Number())).Cast(`{"a":"1"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1.0}, got)

	_, err = goshape.Object().ValidateSync("{broken")
	assert.Equal(t, []string{goshape.TestTypeError}, leafTypes(requireInvalid(t, err)))
}

func TestObject_CastKeepsIdentity(t *testing.T) {
	in := map[string]any{"a": "x", "b": 1.0}
	s := goshape.Object(goshape.Key("a", goshape.String()), goshape.Key("b", goshape.Number()))
	got, err := s.Cast(in)
	require.NoError(t, err)
	assert.Equal(t, reflect.ValueOf(in).Pointer(), reflect.ValueOf(got).Pointer())

	changed, err := s.Cast(map[string]any{"a": "x", "b": "1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "x", "b": 1.0}, changed)

	nan := map[string]any{"v": math.NaN()}
	got, err = goshape.Object(goshape.Key("v", goshape.Mixed())).Cast(nan)
	require.NoError(t, err)
	assert.Equal(t, reflect.ValueOf(nan).Pointer(), reflect.ValueOf(got).Pointer())
}

func TestObject_StripField(t *testing.T) {
	s := goshape.Object(
		goshape.Key("user", goshape.String()),
		goshape.Key("password", goshape.String().Strip()),
	)
	got, err := s.ValidateSync(map[string]any{"user": "u", "password": "secret"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"user": "u"}, got)
}

func TestObject_StripUnknownOption(t *testing.T) {
	s := goshape.Object(goshape.Key("a", goshape.Mixed()))
	in := map[string]any{"a": 1, "b": 2}

	got, err := s.Cast(in)
	require.NoError(t, err)
	assert.Equal(t, in, got)

	got, err = s.Cast(in, goshape.StripUnknown(true))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, got)
}

func TestObject_NoUnknown(t *testing.T) {
	s := goshape.Object(goshape.Key("a", goshape.Mixed())).NoUnknown(true)
	in := map[string]any{"a": 1, "b": 2, "c": 3}

	_, err := s.ValidateSync(in)
	ve := requireInvalid(t, err)
	assert.Equal(t, goshape.TestNoUnknown, ve.Type)
	assert.Equal(t, "this field has unspecified keys: b, c", ve.Message)

	got, err := s.Cast(in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, got)

	got, err = s.ValidateSync(in, goshape.StripUnknown(true))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, got)

	_, err = s.Unknown(true).ValidateSync(in)
	assert.NoError(t, err)
	_, err = s.NoUnknown(false).ValidateSync(in)
	assert.NoError(t, err)
}

func TestObject_NestedNoUnknownPath(t *testing.T) {
	s := goshape.Object(goshape.Key("inner", goshape.Object(goshape.Key("a", goshape.Mixed())).NoUnknown(true)))
	_, err := s.ValidateSync(map[string]any{"inner": map[string]any{"a": 1, "z": 1}})
	ve := requireInvalid(t, err)
	assert.Equal(t, []string{"inner"}, leafPaths(ve))
	assert.Equal(t, "inner field has unspecified keys: z", ve.Leaves()[0].Message)
}

func TestObject_DefaultSynthesis(t *testing.T) {
	s := goshape.Object(
		goshape.Key("role", goshape.String().Default("user")),
		goshape.Key("name", goshape.String()),
		goshape.Key("prefs", goshape.Object(goshape.Key("theme", goshape.String().Default("dark")))),
	)
	got, err := s.Cast(goshape.Undefined)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"role": "user", "prefs": map[string]any{"theme": "dark"}}, got)

	got, err = s.Cast(map[string]any{"name": "n"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"role": "user", "name": "n", "prefs": map[string]any{"theme": "dark"}}, got)

	got, err = s.Default(nil).Nullable().Cast(goshape.Undefined)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = goshape.Object().Required().ValidateSync(goshape.Undefined)
	assert.Equal(t, []string{goshape.TestRequired}, leafTypes(requireInvalid(t, err)))
}

func TestObject_NestedErrorPaths(t *testing.T) {
	s := goshape.Object(goshape.Key("user", goshape.Object(
		goshape.Key("name", goshape.String().Required()),
		goshape.Key("emails", goshape.Array(goshape.String().Min(3))),
	)))
	_, err := s.ValidateSync(map[string]any{"user": map[string]any{"emails": []any{"ok@x", "a"}}}, goshape.AbortEarly(false))
	ve := requireInvalid(t, err)
	assert.Equal(t, []string{"user.name", "user.emails[1]"}, leafPaths(ve))
	assert.Equal(t, "user.name is a required field", ve.Inner[0].Message)
}

func TestObject_FailFastReportsOneError(t *testing.T) {
	s := goshape.Object(
		goshape.Key("a", goshape.String().Required()),
		goshape.Key("b", goshape.String().Required()),
	)
	_, err := s.ValidateSync(map[string]any{})
	ve := requireInvalid(t, err)
	assert.Len(t, ve.Leaves(), 1)
	assert.Equal(t, "a", ve.Path)
}

func TestObject_CollectAllFollowsDeclarationOrder(t *testing.T) {
	s := goshape.Object(
		goshape.Key("confirm", goshape.String().Required().When([]string{"password"}, func(_ []any, s goshape.Schema) goshape.Schema { return s })),
		goshape.Key("password", goshape.String().Required()),
	)
	// password is traversed first because confirm reads it.
	_, err := s.ValidateSync(map[string]any{}, goshape.AbortEarly(false))
	ve := requireInvalid(t, err)
	assert.Equal(t, []string{"confirm", "password"}, leafPaths(ve))
}

func slowFail(d time.Duration) *goshape.Test {
	return &goshape.Test{
		Name:  "slow",
		Async: true,
		Fn: func(tc *goshape.TestContext, _ any) (bool, error) {
			select {
			case <-time.After(d):
			case <-tc.Context().Done():
			}
			return false, nil
		},
	}
}

func TestObject_AsyncCollectAllOrder(t *testing.T) {
	s := goshape.Object(
		goshape.Key("first", goshape.String().Test(slowFail(30*time.Millisecond))),
		goshape.Key("second", goshape.String().Test(slowFail(time.Millisecond))),
		goshape.Key("third", goshape.String().Required()),
	)
	_, err := s.Validate(context.Background(), map[string]any{"first": "a", "second": "b"}, goshape.AbortEarly(false))
	ve := requireInvalid(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, leafPaths(ve))
}

func TestObject_AsyncFailFast(t *testing.T) {
	s := goshape.Object(
		goshape.Key("slow", goshape.String().Test(slowFail(time.Second))),
		goshape.Key("fast", goshape.String().Test(slowFail(time.Millisecond))),
	)
	start := time.Now()
	_, err := s.Validate(context.Background(), map[string]any{"slow": "a", "fast": "b"})
	ve := requireInvalid(t, err)
	assert.Equal(t, "fast", ve.Path)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestObject_ReferenceField(t *testing.T) {
	s := goshape.Object(
		goshape.Key("alias", goshape.Ref("name")),
		goshape.Key("name", goshape.String().Trim()),
	)
	got, err := s.ValidateSync(map[string]any{"name": " x "})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "x", "alias": "x"}, got)
}

func TestObject_ConditionOnSibling(t *testing.T) {
	s := goshape.Object(
		goshape.Key("count", goshape.Number().When([]string{"isBig"}, goshape.Is(true,
			func(s goshape.Schema) goshape.Schema { return s.(*goshape.NumberSchema).Min(5) },
			func(s goshape.Schema) goshape.Schema { return s.(*goshape.NumberSchema).Max(2) },
		))),
		goshape.Key("isBig", goshape.Boolean()),
	)
	_, err := s.ValidateSync(map[string]any{"isBig": "true", "count": 3})
	assert.Equal(t, []string{"count"}, leafPaths(requireInvalid(t, err)))

	_, err = s.ValidateSync(map[string]any{"isBig": true, "count": 7})
	assert.NoError(t, err)

	_, err = s.ValidateSync(map[string]any{"isBig": false, "count": 3})
	assert.Error(t, err)
	_, err = s.ValidateSync(map[string]any{"count": 1})
	assert.NoError(t, err)
}

func TestObject_CyclicFields(t *testing.T) {
	keep := func(_ []any, s goshape.Schema) goshape.Schema { return s }
	entries := []goshape.Entry{
		goshape.Key("a", goshape.String().When([]string{"b"}, keep)),
		goshape.Key("b", goshape.String().When([]string{"a"}, keep)),
	}
	_, err := goshape.Object().TryShape(entries)
	require.Error(t, err)
	assert.ErrorIs(t, err, goshape.ErrCyclicDependency)
	assert.Contains(t, err.Error(), "a -> b")
	assert.Equal(t, 1, strings.Count(err.Error(), "cyclic dependency"))

	assert.Panics(t, func() { goshape.Object(entries...) })

	s, err := goshape.Object().TryShape(entries, [2]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, s.Fields())
}

func TestObject_CyclicReferences(t *testing.T) {
	entries := []goshape.Entry{
		goshape.Key("a", goshape.Ref("b")),
		goshape.Key("b", goshape.Ref("a")),
	}
	_, err := goshape.Object().TryShape(entries)
	assert.ErrorIs(t, err, goshape.ErrCyclicDependency)

	_, err = goshape.Object().TryShape(entries, [2]string{"a", "b"})
	assert.NoError(t, err)
}

func TestObject_ErrorOrderWithBracketKey(t *testing.T) {
	s := goshape.Object(
		goshape.Key("a]b", goshape.String().Required()),
		goshape.Key("c", goshape.String().Required()),
	)
	_, err := s.ValidateSync(map[string]any{}, goshape.AbortEarly(false))
	assert.Equal(t, []string{`["a]b"]`, "c"}, leafPaths(requireInvalid(t, err)))
}

func TestObject_NilFieldIsConfigError(t *testing.T) {
	var missing *goshape.StringSchema
	_, err := goshape.Object().TryShape([]goshape.Entry{goshape.Key("a", missing)})
	assert.ErrorIs(t, err, goshape.ErrNotSchema)
}

func TestObject_PickOmitField(t *testing.T) {
	s := goshape.Object(
		goshape.Key("a", goshape.String()),
		goshape.Key("b", goshape.Number()),
		goshape.Key("c", goshape.Boolean()),
	)
	assert.Equal(t, []string{"c", "a"}, s.Pick("c", "a", "missing").Fields())
	assert.Equal(t, []string{"a", "c"}, s.Omit("b").Fields())
	assert.Equal(t, []string{"a", "b", "c", "d"}, s.Field("d", goshape.Mixed()).Fields())
	assert.Equal(t, []string{"a", "b", "c"}, s.Fields())

	_, isNumber := s.Field("a", goshape.Number()).FieldOf("a").(*goshape.NumberSchema)
	assert.True(t, isNumber)
	assert.Nil(t, s.FieldOf("zzz"))
}

func TestObject_FromAndKeyCase(t *testing.T) {
	s := goshape.Object(goshape.Key("fullName", goshape.String()))
	got, err := s.From("name", "fullName", false).Cast(map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"fullName": "x"}, got)

	got, err = s.From("name", "fullName", true).Cast(map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "x", "fullName": "x"}, got)

	got, err = s.CamelCase().Cast(map[string]any{"full_name": "y"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"fullName": "y"}, got)

	got, err = goshape.Object().SnakeCase().Cast(map[string]any{"fullName": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"full_name": 1}, got)

	got, err = goshape.Object().ConstantCase().Cast(map[string]any{"fullName": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"FULL_NAME": 1}, got)
}

func TestObject_AncestorReference(t *testing.T) {
	s := goshape.Object(
		goshape.Key("limit", goshape.Number()),
		goshape.Key("child", goshape.Object(
			goshape.Key("v", goshape.Number().Max(goshape.Ref("^limit"))),
		)),
	)
	_, err := s.ValidateSync(map[string]any{"limit": 3, "child": map[string]any{"v": 5}})
	ve := requireInvalid(t, err)
	assert.Equal(t, "child.v", ve.Path)
	assert.Equal(t, "child.v must be less than or equal to 3", ve.Message)

	_, err = s.ValidateSync(map[string]any{"limit": 10, "child": map[string]any{"v": 5}})
	assert.NoError(t, err)
}

func TestObject_TestsSeeAncestors(t *testing.T) {
	var from []goshape.Ancestor
	inner := goshape.String().Test(&goshape.Test{
		Name: "spy",
		Fn: func(tc *goshape.TestContext, _ any) (bool, error) {
			from = tc.From
			return true, nil
		},
	})
	root := map[string]any{"child": map[string]any{"leaf": "x"}}
	_, err := goshape.Object(goshape.Key("child", goshape.Object(goshape.Key("leaf", inner)))).ValidateSync(root)
	require.NoError(t, err)
	require.Len(t, from, 2)
	assert.Equal(t, root["child"], from[0].Value)
	assert.Equal(t, root, from[1].Value)
}

func TestObject_RecursiveOff(t *testing.T) {
	s := goshape.Object(goshape.Key("a", goshape.String().Required()))
	_, err := s.ValidateSync(map[string]any{}, goshape.Recursive(false))
	assert.NoError(t, err)
}

func TestObject_FieldStrictSkipsCast(t *testing.T) {
	s := goshape.Object(goshape.Key("n", goshape.Number().Strict(true)))
	_, err := s.ValidateSync(map[string]any{"n": "5"})
	assert.Equal(t, []string{"n"}, leafPaths(requireInvalid(t, err)))

	got, err := s.Cast(map[string]any{"n": "5"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": 5.0}, got)
}
