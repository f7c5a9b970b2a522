package toposort_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/goshape/internal/toposort"
)

func TestSort_DeclarationOrderWithoutEdges(t *testing.T) {
	out, err := toposort.New([]string{"c", "a", "b", "a"}).Sort()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, out)
}

func TestSort_DependenciesFirst(t *testing.T) {
	g := toposort.New([]string{"confirm", "password", "name"})
	g.AddEdge("password", "confirm")
	out, err := g.Sort()
	require.NoError(t, err)
	assert.Equal(t, []string{"password", "confirm", "name"}, out)
}

func TestSort_IgnoresUnknownAndSelfEdges(t *testing.T) {
	g := toposort.New([]string{"a", "b"})
	g.AddEdge("missing", "a")
	g.AddEdge("a", "a")
	out, err := g.Sort()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out)
}

func TestSort_Cycle(t *testing.T) {
	g := toposort.New([]string{"a", "b", "c"})
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")
	_, err := g.Sort()
	require.Error(t, err)
	assert.True(t, errors.Is(err, toposort.ErrCycle))

	var ce *toposort.CycleError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"b", "a", "b"}, ce.Nodes)
	assert.Equal(t, "cyclic dependency: b -> a -> b", ce.Error())
}

func TestSort_ExcludeBreaksCycle(t *testing.T) {
	g := toposort.New([]string{"a", "b"})
	g.Exclude("a", "b")
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")
	out, err := g.Sort()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out)
}
