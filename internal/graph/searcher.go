package graph

import (
	"sort"

	"github.com/dominikbraun/graph"
)

const (
	// DefaultDepth bounds transitive impact queries.
	DefaultDepth = 3
)

// Dependents answers "what would be affected if target changed": every node
// with an edge chain into target, up to depth hops away. Results are sorted
// by depth, then ID.
func (dg *DependencyGraph) Dependents(target string, depth int) []Result {
	return dg.traverse(target, depth, dg.dependents, func(e Edge) string { return e.From })
}

// DependenciesOf answers "what does target rely on", up to depth hops away.
func (dg *DependencyGraph) DependenciesOf(target string, depth int) []Result {
	return dg.traverse(target, depth, dg.depends, func(e Edge) string { return e.To })
}

// DirectDependents returns the provenance-tagged edges pointing at target.
func (dg *DependencyGraph) DirectDependents(target string) []Edge {
	return dg.dependents[target]
}

// Path returns the shortest dependency chain from one node to another, or
// nil when no chain exists.
func (dg *DependencyGraph) Path(from, to string) []string {
	path, err := graph.ShortestPath(dg.g, from, to)
	if err != nil {
		return nil
	}
	return path
}

func (dg *DependencyGraph) traverse(start string, depth int, index map[string][]Edge, next func(Edge) string) []Result {
	if depth <= 0 {
		depth = DefaultDepth
	}
	visited := map[string]bool{start: true}
	var results []Result

	frontier := []string{start}
	for d := 1; d <= depth && len(frontier) > 0; d++ {
		var nextFrontier []string
		for _, id := range frontier {
			for _, edge := range index[id] {
				hop := next(edge)
				if visited[hop] {
					continue
				}
				visited[hop] = true
				results = append(results, Result{ID: hop, Via: edge.Via, Depth: d})
				nextFrontier = append(nextFrontier, hop)
			}
		}
		frontier = nextFrontier
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Depth != results[j].Depth {
			return results[i].Depth < results[j].Depth
		}
		return results[i].ID < results[j].ID
	})
	return results
}
