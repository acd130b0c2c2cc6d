// Package graph defines the attribute-tagged graph model consumed by the renderer.
package graph

import (
	"errors"
	"fmt"
)

// PartitionAttr is the reserved node attribute holding the bipartite level (0 or 1).
const PartitionAttr = "bipartite"

// Attrs maps attribute names to values.
type Attrs map[string]any

// Node is a graph node with its attribute mapping.
type Node struct {
	ID    string `json:"id"`
	Attrs Attrs  `json:"attrs,omitempty"`
}

// Edge is an undirected edge between two node IDs with its own attribute mapping.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Attrs  Attrs  `json:"attrs,omitempty"`
}

// Validation errors.
var (
	ErrEmptyNodeID      = errors.New("node id is required")
	ErrEmptyEndpoint    = errors.New("edge source and target are required")
	ErrSelfEdge         = errors.New("edge source and target cannot be the same")
	ErrMixedPartition   = errors.New("partition tags must be set on all nodes or none")
	ErrInvalidPartition = errors.New("partition tag must be 0 or 1")
)

// Graph is an undirected graph with attribute-tagged nodes and edges.
// Nodes iterate in insertion order; the renderer relies on this to keep
// output sequences aligned with input order.
type Graph struct {
	nodes   []Node
	nodeIdx map[string]int
	edges   []Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodeIdx: make(map[string]int)}
}

// AddNode adds a node, merging attributes if the node already exists.
func (g *Graph) AddNode(id string, attrs Attrs) error {
	if id == "" {
		return ErrEmptyNodeID
	}
	if idx, ok := g.nodeIdx[id]; ok {
		if g.nodes[idx].Attrs == nil && len(attrs) > 0 {
			g.nodes[idx].Attrs = make(Attrs, len(attrs))
		}
		for k, v := range attrs {
			g.nodes[idx].Attrs[k] = v
		}
		return nil
	}
	g.nodeIdx[id] = len(g.nodes)
	g.nodes = append(g.nodes, Node{ID: id, Attrs: cloneAttrs(attrs)})
	return nil
}

// cloneAttrs copies an attribute map so later caller-side mutation
// cannot change the graph.
func cloneAttrs(attrs Attrs) Attrs {
	if len(attrs) == 0 {
		return nil
	}
	out := make(Attrs, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

// AddEdge adds an undirected edge, creating missing endpoints without attributes.
func (g *Graph) AddEdge(source, target string, attrs Attrs) error {
	if source == "" || target == "" {
		return ErrEmptyEndpoint
	}
	if source == target {
		return ErrSelfEdge
	}
	for _, id := range []string{source, target} {
		if _, ok := g.nodeIdx[id]; !ok {
			if err := g.AddNode(id, nil); err != nil {
				return err
			}
		}
	}
	g.edges = append(g.edges, Edge{Source: source, Target: target, Attrs: cloneAttrs(attrs)})
	return nil
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// NumEdges returns the edge count.
func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodeIdx[id]
	return ok
}

// NodeIndex returns the insertion index of a node ID.
func (g *Graph) NodeIndex(id string) (int, bool) {
	idx, ok := g.nodeIdx[id]
	return idx, ok
}

// Partition returns the node's partition level and whether a tag is set.
func (g *Graph) Partition(id string) (int, bool) {
	idx, ok := g.nodeIdx[id]
	if !ok {
		return 0, false
	}
	return partitionOf(g.nodes[idx])
}

// partitionOf extracts the partition level from a node's attributes.
// JSON decoding yields float64, so numeric kinds are normalized.
func partitionOf(n Node) (int, bool) {
	v, ok := n.Attrs[PartitionAttr]
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

// Bipartite reports whether every node carries a partition tag.
func (g *Graph) Bipartite() bool {
	if len(g.nodes) == 0 {
		return false
	}
	for _, n := range g.nodes {
		if _, ok := partitionOf(n); !ok {
			return false
		}
	}
	return true
}

// ValidatePartition checks the all-or-none partition invariant and that
// every tag is 0 or 1.
func (g *Graph) ValidatePartition() error {
	tagged := 0
	for _, n := range g.nodes {
		level, ok := partitionOf(n)
		if !ok {
			continue
		}
		tagged++
		if level != 0 && level != 1 {
			return fmt.Errorf("node %s: %w", n.ID, ErrInvalidPartition)
		}
	}
	if tagged != 0 && tagged != len(g.nodes) {
		return ErrMixedPartition
	}
	return nil
}

// LevelNodes returns the nodes of one partition level in insertion order.
func (g *Graph) LevelNodes(level int) []Node {
	var out []Node
	for _, n := range g.nodes {
		if l, ok := partitionOf(n); ok && l == level {
			out = append(out, n)
		}
	}
	return out
}

// NodeAttrNames returns the set of attribute names observed on any node.
func (g *Graph) NodeAttrNames() map[string]bool {
	names := make(map[string]bool)
	for _, n := range g.nodes {
		for k := range n.Attrs {
			names[k] = true
		}
	}
	return names
}

// EdgeAttrNames returns the set of attribute names observed on any edge.
func (g *Graph) EdgeAttrNames() map[string]bool {
	names := make(map[string]bool)
	for _, e := range g.edges {
		for k := range e.Attrs {
			names[k] = true
		}
	}
	return names
}

// NodeValues returns the named attribute's value for every node in
// insertion order, substituting def for nodes lacking the attribute.
func (g *Graph) NodeValues(name string, def any) []any {
	out := make([]any, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = attrOrDefault(n.Attrs, name, def)
	}
	return out
}

// EdgeValues returns the named attribute's value for every edge in
// insertion order, substituting def for edges lacking the attribute.
func (g *Graph) EdgeValues(name string, def any) []any {
	out := make([]any, len(g.edges))
	for i, e := range g.edges {
		out[i] = attrOrDefault(e.Attrs, name, def)
	}
	return out
}

func attrOrDefault(attrs Attrs, name string, def any) any {
	if v, ok := attrs[name]; ok {
		return v
	}
	return def
}
