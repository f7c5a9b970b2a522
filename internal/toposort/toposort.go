// Package toposort orders named nodes so that every node comes after the
// nodes it depends on. Ties are broken by declaration order.
package toposort

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is returned when the dependency graph contains a cycle.
var ErrCycle = errors.New("cyclic dependency")

// CycleError names the nodes taking part in a detected cycle.
type CycleError struct {
	Nodes []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCycle.Error(), strings.Join(e.Nodes, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// Edge states that To reads From, so From must be ordered first.
type Edge struct {
	From string
	To   string
}

// Graph is a directed graph over declared node names.
type Graph struct {
	order []string
	index map[string]int
	// deps[i] holds the node indexes that node i depends on.
	deps       []map[int]struct{}
	dependents []map[int]struct{}
	excluded   map[Edge]struct{}
}

// New returns a graph over nodes in declaration order. Duplicate names keep
// their first position.
func New(nodes []string) *Graph {
	g := &Graph{index: make(map[string]int, len(nodes)), excluded: map[Edge]struct{}{}}
	for _, n := range nodes {
		if _, ok := g.index[n]; ok {
			continue
		}
		g.index[n] = len(g.order)
		g.order = append(g.order, n)
		g.deps = append(g.deps, map[int]struct{}{})
		g.dependents = append(g.dependents, map[int]struct{}{})
	}
	return g
}

// Exclude suppresses the edge between a and b in both directions.
func (g *Graph) Exclude(a, b string) {
	g.excluded[Edge{From: a, To: b}] = struct{}{}
	g.excluded[Edge{From: b, To: a}] = struct{}{}
}

// AddEdge records that to depends on from. Edges naming undeclared nodes,
// self references and excluded pairs are ignored.
func (g *Graph) AddEdge(from, to string) {
	if from == to {
		return
	}
	if _, ok := g.excluded[Edge{From: from, To: to}]; ok {
		return
	}
	fi, ok := g.index[from]
	if !ok {
		return
	}
	ti, ok := g.index[to]
	if !ok {
		return
	}
	g.deps[ti][fi] = struct{}{}
	g.dependents[fi][ti] = struct{}{}
}

// Sort returns the nodes in dependency order using Kahn's algorithm. Among
// nodes that are ready at the same time the earliest declared wins.
func (g *Graph) Sort() ([]string, error) {
	n := len(g.order)
	indegree := make([]int, n)
	for i := range g.order {
		indegree[i] = len(g.deps[i])
	}
	done := make([]bool, n)
	out := make([]string, 0, n)
	for len(out) < n {
		next := -1
		for i := 0; i < n; i++ {
			if !done[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, &CycleError{Nodes: g.findCycle(done)}
		}
		done[next] = true
		out = append(out, g.order[next])
		for d := range g.dependents[next] {
			indegree[d]--
		}
	}
	return out, nil
}

// findCycle walks dependency edges among the unsorted nodes until a node
// repeats and returns that loop, starting and ending at the same name.
func (g *Graph) findCycle(done []bool) []string {
	start := -1
	for i := range g.order {
		if !done[i] {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}
	seen := map[int]int{}
	var path []int
	cur := start
	for {
		if at, ok := seen[cur]; ok {
			loop := path[at:]
			names := make([]string, 0, len(loop)+1)
			// path follows dependencies; report it in resolution order
			for i := len(loop) - 1; i >= 0; i-- {
				names = append(names, g.order[loop[i]])
			}
			names = append(names, g.order[loop[len(loop)-1]])
			return names
		}
		seen[cur] = len(path)
		path = append(path, cur)
		next := -1
		for d := range g.deps[cur] {
			if done[d] {
				continue
			}
			if next < 0 || d < next {
				next = d
			}
		}
		if next < 0 {
			return []string{g.order[cur]}
		}
		cur = next
	}
}
