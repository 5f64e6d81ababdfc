package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dominikbraun/graph"

	"github.com/railatlas/railatlas/internal/unit"
)

// DependencyGraph is the in-memory graph over extracted units plus the
// external names their edges point at. It is built once per run and queried
// read-only.
type DependencyGraph struct {
	g          graph.Graph[string, *Node]
	nodes      map[string]*Node
	dependents map[string][]Edge
	depends    map[string][]Edge
}

// Build assembles the graph from extractor output. Edge targets that no
// unit claims become external nodes, so impact queries still traverse
// through them.
func Build(units []unit.CodeUnit) (*DependencyGraph, error) {
	dg := &DependencyGraph{
		g:          graph.New(func(n *Node) string { return n.ID }, graph.Directed()),
		nodes:      make(map[string]*Node),
		dependents: make(map[string][]Edge),
		depends:    make(map[string][]Edge),
	}

	for i := range units {
		u := &units[i]
		node := &Node{ID: u.Identifier, Kind: NodeUnit, UnitKind: u.Kind}
		if err := dg.addNode(node); err != nil {
			return nil, err
		}
	}

	for i := range units {
		u := &units[i]
		for _, dep := range u.Dependencies {
			if _, known := dg.nodes[dep.Target]; !known {
				if err := dg.addNode(&Node{ID: dep.Target, Kind: NodeExternal}); err != nil {
					return nil, err
				}
			}
			edge := Edge{From: u.Identifier, To: dep.Target, Type: dep.Type, Via: dep.Via}
			// Parallel edges between the same pair (a unit referencing a
			// service twice via different techniques) collapse in the
			// underlying graph; the reverse indexes keep each provenance.
			if err := dg.g.AddEdge(edge.From, edge.To); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				if !errors.Is(err, graph.ErrEdgeCreatesCycle) {
					return nil, fmt.Errorf("failed to add edge %s -> %s: %w", edge.From, edge.To, err)
				}
			}
			dg.depends[edge.From] = append(dg.depends[edge.From], edge)
			dg.dependents[edge.To] = append(dg.dependents[edge.To], edge)
		}
	}
	return dg, nil
}

func (dg *DependencyGraph) addNode(node *Node) error {
	if existing, ok := dg.nodes[node.ID]; ok {
		// A unit node wins over a placeholder created for an edge target.
		if existing.Kind == NodeExternal && node.Kind == NodeUnit {
			existing.Kind = NodeUnit
			existing.UnitKind = node.UnitKind
		}
		return nil
	}
	if err := dg.g.AddVertex(node); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return fmt.Errorf("failed to add node %s: %w", node.ID, err)
	}
	dg.nodes[node.ID] = node
	return nil
}

// Node returns the node with the given ID, if present.
func (dg *DependencyGraph) Node(id string) (*Node, bool) {
	n, ok := dg.nodes[id]
	return n, ok
}

// Order returns the number of nodes.
func (dg *DependencyGraph) Order() int { return len(dg.nodes) }

// Size returns the number of recorded dependency edges, counting parallel
// provenance separately.
func (dg *DependencyGraph) Size() int {
	total := 0
	for _, edges := range dg.depends {
		total += len(edges)
	}
	return total
}

// NodeIDs returns all node IDs in sorted order.
func (dg *DependencyGraph) NodeIDs() []string {
	ids := make([]string, 0, len(dg.nodes))
	for id := range dg.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
