package render

import (
	"encoding/json"
	"fmt"
)

// CytoscapeElements is the Cytoscape.js elements format with preset
// positions in canvas pixels.
type CytoscapeElements struct {
	Nodes []CytoscapeNode `json:"nodes"`
	Edges []CytoscapeEdge `json:"edges"`
}

// CytoscapeNode wraps one node's data and preset position.
type CytoscapeNode struct {
	Data     CytoscapeNodeData `json:"data"`
	Position CytoscapePoint    `json:"position"`
}

// CytoscapeNodeData contains the node data fields consumed by the
// stylesheet and tooltip code.
type CytoscapeNodeData struct {
	ID      string         `json:"id"`
	Color   string         `json:"color"`
	Alpha   float64        `json:"alpha"`
	Size    float64        `json:"size"`
	Shape   string         `json:"shape"`
	Level   int            `json:"level"`
	Tooltip map[string]any `json:"tooltip,omitempty"`
}

// CytoscapePoint is a canvas coordinate.
type CytoscapePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CytoscapeEdge wraps one edge's data.
type CytoscapeEdge struct {
	Data CytoscapeEdgeData `json:"data"`
}

// CytoscapeEdgeData contains the edge data fields.
type CytoscapeEdgeData struct {
	ID      string         `json:"id"`
	Source  string         `json:"source"`
	Target  string         `json:"target"`
	Color   string         `json:"color"`
	Alpha   float64        `json:"alpha"`
	Width   float64        `json:"width"`
	Tooltip map[string]any `json:"tooltip,omitempty"`
}

// canvasMargin keeps glyphs away from the canvas border.
const canvasMargin = 40.0

// ToCytoscapeJSON converts the figure to Cytoscape.js elements JSON,
// mapping layout coordinates onto the canvas with the y axis flipped
// (screen y grows downward).
func (f *Figure) ToCytoscapeJSON() (string, error) {
	extent := 0.0
	for _, n := range f.Nodes {
		extent = maxAbs(extent, n.X, n.Y)
	}
	if extent == 0 {
		extent = 1
	}

	spanX := float64(f.Width) - 2*canvasMargin
	spanY := float64(f.Height) - 2*canvasMargin

	elements := CytoscapeElements{
		Nodes: make([]CytoscapeNode, 0, len(f.Nodes)),
		Edges: make([]CytoscapeEdge, 0, len(f.Edges)),
	}

	for _, n := range f.Nodes {
		elements.Nodes = append(elements.Nodes, CytoscapeNode{
			Data: CytoscapeNodeData{
				ID:      n.ID,
				Color:   n.Color,
				Alpha:   n.Alpha,
				Size:    n.Size,
				Shape:   markerShape(n.Marker),
				Level:   n.Level,
				Tooltip: nodeTooltip(n, f.HoverNodes),
			},
			Position: CytoscapePoint{
				X: canvasMargin + (n.X/extent+1)/2*spanX,
				Y: canvasMargin + (1-(n.Y/extent+1)/2)*spanY,
			},
		})
	}

	for i, e := range f.Edges {
		elements.Edges = append(elements.Edges, CytoscapeEdge{
			Data: CytoscapeEdgeData{
				ID:      fmt.Sprintf("%s--%s-%d", e.Source, e.Target, i),
				Source:  e.Source,
				Target:  e.Target,
				Color:   e.Color,
				Alpha:   e.Alpha,
				Width:   e.Width,
				Tooltip: edgeTooltip(e, f.HoverEdges),
			},
		})
	}

	jsonBytes, err := json.Marshal(elements)
	if err != nil {
		return "", fmt.Errorf("marshaling Cytoscape elements: %w", err)
	}
	return string(jsonBytes), nil
}

// markerShape maps marker names onto Cytoscape.js shapes.
func markerShape(marker string) string {
	switch marker {
	case "", "circle":
		return "ellipse"
	case "square":
		return "rectangle"
	case "triangle", "diamond", "hexagon", "star":
		return marker
	default:
		return "ellipse"
	}
}

// nodeTooltip builds the hover payload for a node, or nil when node
// hover is disabled.
func nodeTooltip(n FigureNode, enabled bool) map[string]any {
	if !enabled {
		return nil
	}
	tip := map[string]any{"_type": "node", "index": n.ID}
	for k, v := range n.Attrs {
		tip[k] = v
	}
	return tip
}

// edgeTooltip builds the hover payload for an edge, or nil when edge
// hover is disabled.
func edgeTooltip(e FigureEdge, enabled bool) map[string]any {
	if !enabled {
		return nil
	}
	tip := map[string]any{"_type": "edge", "_u": e.Source, "_v": e.Target}
	for k, v := range e.Attrs {
		tip[k] = v
	}
	return tip
}

func maxAbs(cur float64, vals ...float64) float64 {
	for _, v := range vals {
		if v < 0 {
			v = -v
		}
		if v > cur {
			cur = v
		}
	}
	return cur
}
