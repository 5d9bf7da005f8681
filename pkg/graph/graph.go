// Package graph holds traversal helpers over id graphs.
//
// Graphs are given implicitly by a successor function, so callers can walk
// specialization chains, package imports or any other id reference without
// materializing an adjacency structure first.
package graph

import "strings"

// Successors returns the ids directly reachable from id.
// Unknown ids simply have no successors.
type Successors func(id string) []string

// Cycle is a closed walk. The first and last ids are the same.
type Cycle []string

// Nodes returns the distinct ids on the cycle, in walk order.
func (c Cycle) Nodes() []string {
	if len(c) < 2 {
		return c
	}
	return c[:len(c)-1]
}

// Contains reports whether id lies on the cycle.
func (c Cycle) Contains(id string) bool {
	for _, n := range c {
		if n == id {
			return true
		}
	}
	return false
}

func (c Cycle) String() string {
	return strings.Join(c, " -> ")
}

// FindCycle walks the graph depth-first from start and returns the first
// cycle it reaches. The cycle need not pass through start.
func FindCycle(next Successors, start string) (Cycle, bool) {
	visited := make(map[string]bool)
	onStack := make(map[string]int)
	var stack []string

	var visit func(id string) Cycle
	visit = func(id string) Cycle {
		if at, ok := onStack[id]; ok {
			cycle := make(Cycle, 0, len(stack)-at+1)
			cycle = append(cycle, stack[at:]...)
			return append(cycle, id)
		}
		if visited[id] {
			return nil
		}
		visited[id] = true
		onStack[id] = len(stack)
		stack = append(stack, id)

		for _, succ := range next(id) {
			if c := visit(succ); c != nil {
				return c
			}
		}

		stack = stack[:len(stack)-1]
		delete(onStack, id)
		return nil
	}

	if c := visit(start); c != nil {
		return c, true
	}
	return nil, false
}

// Reachable returns every id reachable from start, start included,
// in breadth-first order.
func Reachable(next Successors, start string) []string {
	visited := map[string]bool{start: true}
	queue := []string{start}
	var out []string

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		out = append(out, current)

		for _, succ := range next(current) {
			if !visited[succ] {
				visited[succ] = true
				queue = append(queue, succ)
			}
		}
	}
	return out
}

// FromMap adapts an adjacency map to Successors.
func FromMap(adj map[string][]string) Successors {
	return func(id string) []string { return adj[id] }
}
