package goshape_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goshape "github.com/reoring/goshape"
)

func nestedSchema() *goshape.ObjectSchema {
	return goshape.Object(
		goshape.Key("min", goshape.Number()),
		goshape.Key("user", goshape.Object(
			goshape.Key("name", goshape.String().Required()),
			goshape.Key("tags", goshape.Array(goshape.String().Max(3))),
		)),
		goshape.Key("alias", goshape.Ref("min")),
	)
}

func TestReach(t *testing.T) {
	s := nestedSchema()
	sub, err := goshape.Reach(s, "user.name", nil)
	require.NoError(t, err)
	assert.Equal(t, goshape.KindString, sub.Type())

	sub, err = goshape.Reach(s, "user.tags[0]", nil)
	require.NoError(t, err)
	assert.Equal(t, goshape.KindString, sub.Type())

	for _, path := range []string{"user.missing", "user.tags.x", "alias", "min.x", "user..name"} {
		_, err := goshape.Reach(s, path, nil)
		assert.ErrorIs(t, err, goshape.ErrPathNotFound, path)
	}
}

func TestReach_ResolvesLazyAlongTheWay(t *testing.T) {
	s := goshape.Object(goshape.Key("value", goshape.Lazy(func(v any, _ goshape.ResolveOptions) goshape.Schema {
		if _, ok := v.(map[string]any); ok {
			return goshape.Object(goshape.Key("n", goshape.Number()))
		}
		return goshape.String()
	})))
	sub, err := goshape.Reach(s, "value.n", map[string]any{"value": map[string]any{"n": 1}})
	require.NoError(t, err)
	assert.Equal(t, goshape.KindNumber, sub.Type())

	_, err = goshape.Reach(s, "value.n", map[string]any{"value": "text"})
	assert.ErrorIs(t, err, goshape.ErrPathNotFound)
}

func TestValidateAt(t *testing.T) {
	s := nestedSchema()
	doc := map[string]any{"user": map[string]any{"name": "ada", "tags": []any{"long tag"}}}

	_, err := s.ValidateSyncAt("user.tags[0]", doc)
	ve := requireInvalid(t, err)
	assert.Equal(t, "user.tags[0]", ve.Path)
	assert.Equal(t, "user.tags[0] must be at most 3 characters", ve.Message)

	got, err := s.ValidateAt(context.Background(), "user.name", doc)
	require.NoError(t, err)
	assert.Equal(t, "ada", got)

	_, err = s.ValidateSyncAt("user.name", map[string]any{"user": map[string]any{}})
	assert.Equal(t, []string{goshape.TestRequired}, leafTypes(requireInvalid(t, err)))

	_, err = s.ValidateSyncAt("nope", doc)
	assert.ErrorIs(t, err, goshape.ErrPathNotFound)
}

func TestValidateAt_SiblingReferences(t *testing.T) {
	s := goshape.Object(
		goshape.Key("min", goshape.Number()),
		goshape.Key("value", goshape.Number().Min(goshape.Ref("min"))),
	)
	_, err := s.ValidateSyncAt("value", map[string]any{"min": 5, "value": 3})
	assert.Equal(t, []string{"value"}, leafPaths(requireInvalid(t, err)))
}
