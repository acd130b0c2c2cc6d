package render

import "github.com/graphplot/graphplot/internal/graph"

// AttrCache caches a graph's observed attribute-name sets across draw
// calls. It is a pure performance optimization owned by the renderer:
// after mutating the graph, call Invalidate to see fresh names.
type AttrCache struct {
	g         *graph.Graph
	nodeAttrs map[string]bool
	edgeAttrs map[string]bool
}

// NewAttrCache creates a cache over the given graph.
func NewAttrCache(g *graph.Graph) *AttrCache {
	return &AttrCache{g: g}
}

// NodeAttrs returns the cached node attribute-name set.
func (c *AttrCache) NodeAttrs() map[string]bool {
	if c.nodeAttrs == nil {
		c.nodeAttrs = c.g.NodeAttrNames()
	}
	return c.nodeAttrs
}

// EdgeAttrs returns the cached edge attribute-name set.
func (c *AttrCache) EdgeAttrs() map[string]bool {
	if c.edgeAttrs == nil {
		c.edgeAttrs = c.g.EdgeAttrNames()
	}
	return c.edgeAttrs
}

// Invalidate drops the cached sets so the next lookup recomputes them.
func (c *AttrCache) Invalidate() {
	c.nodeAttrs = nil
	c.edgeAttrs = nil
}
