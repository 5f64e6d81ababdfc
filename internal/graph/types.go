// Package graph assembles the typed dependency edges of extracted code
// units into a queryable directed graph for impact analysis.
package graph

import (
	"github.com/railatlas/railatlas/internal/unit"
)

// NodeKind distinguishes nodes backed by an extracted unit from nodes that
// only exist as edge targets (a referenced gem, an unextracted service).
type NodeKind string

const (
	NodeUnit     NodeKind = "unit"
	NodeExternal NodeKind = "external"
)

// Node is one vertex of the dependency graph.
type Node struct {
	ID       string    `json:"id"`
	Kind     NodeKind  `json:"kind"`
	UnitKind unit.Kind `json:"unit_kind,omitempty"`
}

// Edge mirrors one dependency edge of a unit, keeping its provenance.
type Edge struct {
	From string       `json:"from"`
	To   string       `json:"to"`
	Type unit.DepType `json:"type"`
	Via  unit.Via     `json:"via"`
}

// Result is one hop of an impact query answer.
type Result struct {
	ID    string   `json:"id"`
	Via   unit.Via `json:"via"`
	Depth int      `json:"depth"`
}
