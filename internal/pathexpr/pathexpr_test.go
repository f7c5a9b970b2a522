package pathexpr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/goshape/internal/pathexpr"
)

func TestParse(t *testing.T) {
	cases := map[string][]pathexpr.Segment{
		"a":          {{Key: "a"}},
		"a.b":        {{Key: "a"}, {Key: "b"}},
		"a[0].b":     {{Key: "a"}, {Index: 0, IsIndex: true}, {Key: "b"}},
		`a["x.y"]`:   {{Key: "a"}, {Key: "x.y"}},
		"a['x']":     {{Key: "a"}, {Key: "x"}},
		"items[ 12]": {{Key: "items"}, {Index: 12, IsIndex: true}},
		"[3]":        {{Index: 3, IsIndex: true}},
		`a["x]y"].b`: {{Key: "a"}, {Key: "x]y"}, {Key: "b"}},
	}
	for in, want := range cases {
		got, err := pathexpr.Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{".a", "a.", "a..b", "a[0", "a[]"} {
		_, err := pathexpr.Parse(in)
		assert.Error(t, err, in)
	}
}

func TestGet(t *testing.T) {
	root := map[string]any{
		"a": map[string]any{"b": []any{10, 20}},
		"m": map[string]int{"k": 1},
	}
	segs, _ := pathexpr.Parse("a.b[1]")
	v, ok := pathexpr.Get(root, segs)
	require.True(t, ok)
	assert.Equal(t, 20, v)

	segs, _ = pathexpr.Parse("a.b.0")
	v, ok = pathexpr.Get(root, segs)
	require.True(t, ok)
	assert.Equal(t, 10, v)

	segs, _ = pathexpr.Parse("m.k")
	v, ok = pathexpr.Get(root, segs)
	require.True(t, ok)
	assert.Equal(t, 1, v)

	segs, _ = pathexpr.Parse("a.b[5]")
	_, ok = pathexpr.Get(root, segs)
	assert.False(t, ok)

	segs, _ = pathexpr.Parse("a.missing")
	_, ok = pathexpr.Get(root, segs)
	assert.False(t, ok)
}

func TestFieldAndIndex(t *testing.T) {
	assert.Equal(t, "a", pathexpr.Field("", "a"))
	assert.Equal(t, "a.b", pathexpr.Field("a", "b"))
	assert.Equal(t, `a["x.y"]`, pathexpr.Field("a", "x.y"))
	assert.Equal(t, "a[2]", pathexpr.Index("a", 2))
	assert.Equal(t, "[0]", pathexpr.Index("", 0))
}

func TestHead(t *testing.T) {
	seg, ok := pathexpr.Head("", "name.first")
	require.True(t, ok)
	assert.Equal(t, "name", seg.Name())

	seg, ok = pathexpr.Head("user", "user.tags[0]")
	require.True(t, ok)
	assert.Equal(t, "tags", seg.Name())

	seg, ok = pathexpr.Head("list", "list[3].x")
	require.True(t, ok)
	assert.Equal(t, "3", seg.Name())

	seg, ok = pathexpr.Head("", pathexpr.Field("", "a]b"))
	require.True(t, ok)
	assert.Equal(t, "a]b", seg.Name())

	_, ok = pathexpr.Head("other", "user.x")
	assert.False(t, ok)
}
