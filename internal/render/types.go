// Package render assembles displayable figures: it resolves per-channel
// draw parameters against a graph's attributes, maps attribute-driven
// channels through colormaps, and produces node and edge visual-property
// sequences plus interactive HTML output.
package render

import "github.com/graphplot/graphplot/internal/graph"

// Figure contains everything needed to display one plot.
type Figure struct {
	Nodes []FigureNode `json:"nodes"`
	Edges []FigureEdge `json:"edges"`

	Width  int `json:"width"`
	Height int `json:"height"`

	HoverNodes bool `json:"hoverNodes"`
	HoverEdges bool `json:"hoverEdges"`
}

// FigureNode is one node with resolved position and visual properties.
type FigureNode struct {
	ID string `json:"id"`

	X float64 `json:"x"`
	Y float64 `json:"y"`

	Marker string  `json:"marker"`
	Size   float64 `json:"size"`
	Color  string  `json:"color"`
	Alpha  float64 `json:"alpha"`

	// Level is the partition level, or -1 for one-mode graphs.
	Level int `json:"level"`

	// Attrs holds the tooltip data (partition tag excluded).
	Attrs graph.Attrs `json:"attrs,omitempty"`
}

// FigureEdge is one edge with resolved visual properties.
type FigureEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`

	Color string  `json:"color"`
	Width float64 `json:"width"`
	Alpha float64 `json:"alpha"`

	Attrs graph.Attrs `json:"attrs,omitempty"`
}

// IsEmpty reports whether the figure has no nodes.
func (f *Figure) IsEmpty() bool {
	return len(f.Nodes) == 0
}
