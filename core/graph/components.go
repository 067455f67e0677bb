package graph

import "sort"

// Adjacency is an undirected duplicate graph keyed by person id. Edges are
// stored in both directions.
type Adjacency map[int64][]int64

// AddEdge links two person ids in both directions.
func (a Adjacency) AddEdge(left, right int64) {
	a[left] = append(a[left], right)
	a[right] = append(a[right], left)
}

// Components returns the connected components of the adjacency map, each
// sorted ascending and the component list ordered by its smallest id.
// Traversal is iterative with an explicit stack: duplicate clusters of
// frequent names get dense enough that recursion depth is not safe.
func Components(adjacency Adjacency) [][]int64 {
	visited := make(map[int64]bool, len(adjacency))

	// Deterministic iteration order for stable output.
	ids := make([]int64, 0, len(adjacency))
	for id := range adjacency {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var components [][]int64
	for _, start := range ids {
		if visited[start] {
			continue
		}
		var component []int64
		stack := []int64{start}
		visited[start] = true
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, current)
			for _, neighbor := range adjacency[current] {
				if !visited[neighbor] {
					visited[neighbor] = true
					stack = append(stack, neighbor)
				}
			}
		}
		sort.Slice(component, func(i, j int) bool { return component[i] < component[j] })
		components = append(components, component)
	}
	return components
}

// Canonical picks the canonical id of a component, the smallest one. Ids are
// assigned in insertion order, so the smallest id is the earliest record.
func Canonical(component []int64) int64 {
	canonical := component[0]
	for _, id := range component[1:] {
		if id < canonical {
			canonical = id
		}
	}
	return canonical
}
