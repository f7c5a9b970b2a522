package source_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/source"
)

func TestStrictJSON_NoDuplicates(t *testing.T) {
	v, err := source.StrictJSON([]byte(`{"a":1,"b":[{"a":2}],"c":{"a":3}}`)).Decode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": 1.0,
		"b": []any{map[string]any{"a": 2.0}},
		"c": map[string]any{"a": 3.0},
	}, v)
}

func TestStrictJSON_Duplicates(t *testing.T) {
	cases := map[string]struct {
		doc  string
		path string
		key  string
	}{
		"root":   {`{"a":1,"a":2}`, "/", "a"},
		"nested": {`{"x":{"b":1,"b":2}}`, "/x", "b"},
		"array":  {`[{"k":1},{"k":1,"k":2}]`, "/1", "k"},
		"deep":   {`{"list":[0,{"o":{"z":1,"z":1}}]}`, "/list/1/o", "z"},
		"escape": {`{"a/b":{"q":1,"q":1}}`, "/a~1b", "q"},
	}
	for name, c := range cases {
		_, err := source.StrictJSON([]byte(c.doc)).Decode(context.Background())
		var dup *source.DuplicateKeyError
		require.ErrorAs(t, err, &dup, name)
		assert.Equal(t, c.path, dup.Path, name)
		assert.Equal(t, c.key, dup.Key, name)
	}
}

func TestStrictJSON_Malformed(t *testing.T) {
	_, err := source.StrictJSON([]byte(`{"a":`)).Decode(context.Background())
	assert.Error(t, err)
}

func TestStrictJSONReader(t *testing.T) {
	_, err := source.StrictJSONReader(strings.NewReader(`{"a":1,"a":1}`)).Decode(context.Background())
	var dup *source.DuplicateKeyError
	assert.ErrorAs(t, err, &dup)
}

func TestYAML(t *testing.T) {
	doc := `
name: ada
age: 36
tags: [a, b]
nested:
  1: one
`
	v, err := source.YAMLBytes([]byte(doc)).Decode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":   "ada",
		"age":    36,
		"tags":   []any{"a", "b"},
		"nested": map[string]any{"1": "one"},
	}, v)

	v, err = source.YAMLReader(strings.NewReader("")).Decode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, goshape.Undefined, v)

	_, err = source.YAMLBytes([]byte("a: [")).Decode(context.Background())
	assert.Error(t, err)
}

func TestHCL(t *testing.T) {
	doc := `
name    = "web"
replicas = 3
enabled = true
ports   = [80, 443]
labels  = { tier = "front" }

volume {
  path = "/data"
}
volume {
  path = "/logs"
}

service "http" "public" {
  port = 8080
}
`
	v, err := source.HCLBytes([]byte(doc), "app.hcl").Decode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":     "web",
		"replicas": 3.0,
		"enabled":  true,
		"ports":    []any{80.0, 443.0},
		"labels":   map[string]any{"tier": "front"},
		"volume": []any{
			map[string]any{"path": "/data"},
			map[string]any{"path": "/logs"},
		},
		"service": map[string]any{
			"http": map[string]any{"public": map[string]any{"port": 8080.0}},
		},
	}, v)

	_, err = source.HCLBytes([]byte(`a = `), "bad.hcl").Decode(context.Background())
	assert.Error(t, err)

	_, err = source.HCLBytes([]byte(`a = var.x`), "vars.hcl").Decode(context.Background())
	assert.Error(t, err)
}

func TestParseWithSources(t *testing.T) {
	s := goshape.Object(
		goshape.Key("name", goshape.String().Required()),
		goshape.Key("replicas", goshape.Number().Integer().Min(1)),
	)
	ctx := context.Background()

	got, err := goshape.Parse(ctx, s, source.YAMLBytes([]byte("name: x\nreplicas: \"2\"\n")))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "x", "replicas": 2.0}, got)

	_, err = goshape.ParseSync(ctx, s, source.HCLBytes([]byte("replicas = 0\n"), "x.hcl"), goshape.AbortEarly(false))
	ve, ok := goshape.AsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Leaves(), 2)
}
