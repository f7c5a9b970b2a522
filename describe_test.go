package goshape_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goshape "github.com/reoring/goshape"
)

func TestDescribe_Object(t *testing.T) {
	s := goshape.Object(
		goshape.Key("name", goshape.String().Required().Label("Name").Max(10)),
		goshape.Key("role", goshape.String().OneOf([]any{"admin", "user"})),
		goshape.Key("tags", goshape.Array(goshape.String()).Nullable()),
		goshape.Key("copy", goshape.Ref("name")),
	).Meta(map[string]any{"description": "a user"})

	d := s.Describe()
	assert.Equal(t, goshape.KindObject, d.Type)
	assert.Equal(t, []string{"name", "role", "tags", "copy"}, d.FieldKeys)
	assert.Equal(t, "a user", d.Meta["description"])

	name := d.Fields["name"]
	assert.Equal(t, "Name", name.Label)
	assert.False(t, name.Optional)
	require.Len(t, name.Tests, 2)
	assert.Equal(t, goshape.TestRequired, name.Tests[0].Name)
	assert.Equal(t, goshape.TestMax, name.Tests[1].Name)
	assert.Equal(t, 10, name.Tests[1].Params["max"])

	assert.Equal(t, []any{"admin", "user"}, d.Fields["role"].OneOf)
	assert.True(t, d.Fields["role"].Optional)
	assert.Empty(t, d.Fields["role"].Tests)

	tags := d.Fields["tags"]
	assert.True(t, tags.Nullable)
	require.NotNil(t, tags.InnerType)
	assert.Equal(t, goshape.KindString, tags.InnerType.Type)

	assert.Equal(t, "ref", d.Fields["copy"].Type)
	assert.Equal(t, "name", d.Fields["copy"].Key)
}

func TestDescribe_ReferenceParams(t *testing.T) {
	d := goshape.Number().Min(goshape.Ref("floor")).NotOneOf([]any{goshape.Ref("$banned")}).Describe()
	require.Len(t, d.Tests, 1)
	assert.Equal(t, goshape.RefDescription{Ref: "floor"}, d.Tests[0].Params["min"])
	assert.Equal(t, []any{goshape.RefDescription{Ref: "$banned"}}, d.NotOneOf)
}

func TestDescribe_IsDetached(t *testing.T) {
	s := goshape.String().Min(1)
	d := s.Describe()
	d.Tests[0].Params["min"] = 99
	assert.Equal(t, 1, s.Describe().Tests[0].Params["min"])
}

func TestDescribe_MetaIsDetached(t *testing.T) {
	s := goshape.String().Meta(map[string]any{"a": 1})
	clone := s.Label("x")
	s.Describe().Meta["a"] = 99
	assert.Equal(t, map[string]any{"a": 1}, s.Describe().Meta)
	assert.Equal(t, map[string]any{"a": 1}, clone.Describe().Meta)
}
