package render

import (
	"fmt"
	"strconv"

	"github.com/graphplot/graphplot/internal/colormap"
	"github.com/graphplot/graphplot/internal/graph"
	"github.com/graphplot/graphplot/internal/layout"
	"github.com/graphplot/graphplot/internal/palette"
	"github.com/graphplot/graphplot/internal/params"
)

// Params holds the per-channel draw inputs. Each field is a literal
// value, a graph attribute name, or (for node channels on bipartite
// graphs) a two-entry []any pair, one per partition level. Nil fields
// take the defaults from DefaultParams.
type Params struct {
	NodeMarker  any
	NodeSize    any
	NodeColor   any
	NodeAlpha   any
	NodePalette any

	EdgeSize    any
	EdgeColor   any
	EdgeAlpha   any
	EdgePalette any

	MaxColors any
}

// DefaultParams returns the default draw parameters.
func DefaultParams() Params {
	return Params{
		NodeMarker:  "circle",
		NodeSize:    9.0,
		NodeColor:   "firebrick",
		NodeAlpha:   0.9,
		NodePalette: "Category20",
		EdgeSize:    1.0,
		EdgeColor:   "navy",
		EdgeAlpha:   0.6,
		EdgePalette: "viridis",
		MaxColors:   -1,
	}
}

// withDefaults fills nil fields from DefaultParams.
func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.NodeMarker == nil {
		p.NodeMarker = d.NodeMarker
	}
	if p.NodeSize == nil {
		p.NodeSize = d.NodeSize
	}
	if p.NodeColor == nil {
		p.NodeColor = d.NodeColor
	}
	if p.NodeAlpha == nil {
		p.NodeAlpha = d.NodeAlpha
	}
	if p.NodePalette == nil {
		p.NodePalette = d.NodePalette
	}
	if p.EdgeSize == nil {
		p.EdgeSize = d.EdgeSize
	}
	if p.EdgeColor == nil {
		p.EdgeColor = d.EdgeColor
	}
	if p.EdgeAlpha == nil {
		p.EdgeAlpha = d.EdgeAlpha
	}
	if p.EdgePalette == nil {
		p.EdgePalette = d.EdgePalette
	}
	if p.MaxColors == nil {
		p.MaxColors = d.MaxColors
	}
	return p
}

// Options configures figure assembly.
type Options struct {
	Width      int
	Height     int
	HoverNodes bool
	HoverEdges bool
}

// DefaultOptions returns the default figure options.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 600, HoverNodes: false, HoverEdges: true}
}

// Renderer builds figures from one graph. Construct a new one per
// graph; call Invalidate after mutating the graph between draws.
type Renderer struct {
	g     *graph.Graph
	cache *AttrCache
	opts  Options
}

// New creates a renderer over the given graph.
func New(g *graph.Graph, opts Options) *Renderer {
	return &Renderer{g: g, cache: NewAttrCache(g), opts: opts}
}

// Invalidate drops the renderer's cached attribute-name sets.
func (r *Renderer) Invalidate() {
	r.cache.Invalidate()
}

// Draw assembles a figure from the node position table and draw
// parameters. Nodes of a bipartite graph are styled per partition level
// independently, then merged back into one node-ordered sequence.
func (r *Renderer) Draw(pos layout.Positions, p Params) (*Figure, error) {
	if err := r.g.ValidatePartition(); err != nil {
		return nil, err
	}
	p = p.withDefaults()

	resolver := params.NewResolver(r.cache.NodeAttrs(), r.cache.EdgeAttrs())

	fig := &Figure{
		Width:      r.opts.Width,
		Height:     r.opts.Height,
		HoverNodes: r.opts.HoverNodes,
		HoverEdges: r.opts.HoverEdges,
	}

	edges, err := r.renderEdges(resolver, p)
	if err != nil {
		return nil, err
	}
	fig.Edges = edges

	nodes, err := r.renderNodes(resolver, pos, p)
	if err != nil {
		return nil, err
	}
	fig.Nodes = nodes

	return fig, nil
}

// renderEdges resolves the edge channels. Edges are never partitioned;
// the alpha and width channels map through the numeric palette when
// attribute-driven.
func (r *Renderer) renderEdges(resolver *params.Resolver, p Params) ([]FigureEdge, error) {
	if r.g.NumEdges() == 0 {
		return nil, nil
	}

	paletteName, err := asString(p.EdgePalette, "edge_palette")
	if err != nil {
		return nil, err
	}
	maxColors, err := asInt(params.Normalize(p.MaxColors).Level0, "max_colors")
	if err != nil {
		return nil, err
	}

	edges := r.g.Edges()

	colors, err := r.edgeColorSeq(resolver, p.EdgeColor, paletteName, maxColors)
	if err != nil {
		return nil, err
	}
	alphas, err := r.edgeLevelSeq(resolver, p.EdgeAlpha, maxColors, "edge_alpha")
	if err != nil {
		return nil, err
	}
	widths, err := r.edgeLevelSeq(resolver, p.EdgeSize, maxColors, "edge_size")
	if err != nil {
		return nil, err
	}

	out := make([]FigureEdge, len(edges))
	for i, e := range edges {
		out[i] = FigureEdge{
			Source: e.Source,
			Target: e.Target,
			Color:  colors[i],
			Width:  widths[i],
			Alpha:  alphas[i],
			Attrs:  e.Attrs,
		}
	}
	return out, nil
}

// edgeColorSeq builds the per-edge color sequence for one channel input.
func (r *Renderer) edgeColorSeq(resolver *params.Resolver, v any, paletteName string, maxColors int) ([]string, error) {
	b := resolver.ResolveEdge(v)
	if b.Kind == params.AttrRef {
		cm, err := colormap.New(paletteName, maxColors)
		if err != nil {
			return nil, err
		}
		marks, err := cm.Map(r.g.EdgeValues(b.Attr, b.Attr))
		if err != nil {
			return nil, err
		}
		return colorStrings(marks), nil
	}
	return broadcastString(colorLiteral(b.Value), r.g.NumEdges()), nil
}

// edgeLevelSeq builds a per-edge numeric sequence (alpha or width).
func (r *Renderer) edgeLevelSeq(resolver *params.Resolver, v any, maxColors int, channel string) ([]float64, error) {
	b := resolver.ResolveEdge(v)
	if b.Kind == params.AttrRef {
		cm, err := colormap.New(colormap.PaletteNumeric, maxColors)
		if err != nil {
			return nil, err
		}
		marks, err := cm.Map(r.g.EdgeValues(b.Attr, b.Attr))
		if err != nil {
			return nil, err
		}
		return levelValues(marks), nil
	}
	lit, err := asFloat(b.Value, channel)
	if err != nil {
		return nil, err
	}
	return broadcastFloat(lit, r.g.NumEdges()), nil
}

// renderNodes resolves the node channels, per partition level for
// bipartite graphs, and merges the results in node insertion order.
func (r *Renderer) renderNodes(resolver *params.Resolver, pos layout.Positions, p Params) ([]FigureNode, error) {
	if r.g.NumNodes() == 0 {
		return nil, nil
	}

	markerP := params.Normalize(p.NodeMarker)
	sizeP := params.Normalize(p.NodeSize)
	colorP := params.Normalize(p.NodeColor)
	alphaP := params.Normalize(p.NodeAlpha)
	paletteP := params.Normalize(p.NodePalette)
	maxP := params.Normalize(p.MaxColors)

	bipartite := r.g.Bipartite()
	levels := []int{0}
	if bipartite {
		levels = []int{0, 1}
	}

	markerByID := make(map[string]string, r.g.NumNodes())
	sizeByID := make(map[string]float64, r.g.NumNodes())
	colorByID := make(map[string]string, r.g.NumNodes())
	alphaByID := make(map[string]float64, r.g.NumNodes())

	for _, level := range levels {
		nodes := r.g.Nodes()
		if bipartite {
			nodes = r.g.LevelNodes(level)
		}
		if len(nodes) == 0 {
			continue
		}

		paletteName, err := asString(paletteP.At(level), "node_palette")
		if err != nil {
			return nil, err
		}
		maxColors, err := asInt(maxP.At(level), "max_colors")
		if err != nil {
			return nil, err
		}
		marker, err := asString(markerP.At(level), "node_marker")
		if err != nil {
			return nil, err
		}

		colors, err := nodeColorSeq(resolver, nodes, colorP.At(level), paletteName, maxColors)
		if err != nil {
			return nil, err
		}
		sizes, err := nodeLevelSeq(resolver, nodes, sizeP.At(level), maxColors, "node_size")
		if err != nil {
			return nil, err
		}
		alphas, err := nodeLevelSeq(resolver, nodes, alphaP.At(level), maxColors, "node_alpha")
		if err != nil {
			return nil, err
		}

		for i, node := range nodes {
			markerByID[node.ID] = marker
			colorByID[node.ID] = colors[i]
			sizeByID[node.ID] = sizes[i]
			alphaByID[node.ID] = alphas[i]
		}
	}

	out := make([]FigureNode, 0, r.g.NumNodes())
	for _, node := range r.g.Nodes() {
		pt, ok := pos[node.ID]
		if !ok {
			return nil, fmt.Errorf("no position for node %s", node.ID)
		}
		level := -1
		if bipartite {
			level, _ = r.g.Partition(node.ID)
		}
		out = append(out, FigureNode{
			ID:     node.ID,
			X:      pt.X,
			Y:      pt.Y,
			Marker: markerByID[node.ID],
			Size:   sizeByID[node.ID],
			Color:  colorByID[node.ID],
			Alpha:  alphaByID[node.ID],
			Level:  level,
			Attrs:  tooltipAttrs(node.Attrs),
		})
	}
	return out, nil
}

// nodeColorSeq builds the color sequence for a node subset. Each level
// gets its own ColorMap and its own category universe.
func nodeColorSeq(resolver *params.Resolver, nodes []graph.Node, v any, paletteName string, maxColors int) ([]string, error) {
	b := resolver.ResolveNode(v).Level0 // already a single slot
	if b.Kind == params.AttrRef {
		cm, err := colormap.New(paletteName, maxColors)
		if err != nil {
			return nil, err
		}
		marks, err := cm.Map(subsetValues(nodes, b.Attr))
		if err != nil {
			return nil, err
		}
		return colorStrings(marks), nil
	}
	return broadcastString(colorLiteral(b.Value), len(nodes)), nil
}

// nodeLevelSeq builds a numeric sequence (size or alpha) for a node subset.
func nodeLevelSeq(resolver *params.Resolver, nodes []graph.Node, v any, maxColors int, channel string) ([]float64, error) {
	b := resolver.ResolveNode(v).Level0
	if b.Kind == params.AttrRef {
		cm, err := colormap.New(colormap.PaletteNumeric, maxColors)
		if err != nil {
			return nil, err
		}
		marks, err := cm.Map(subsetValues(nodes, b.Attr))
		if err != nil {
			return nil, err
		}
		return levelValues(marks), nil
	}
	lit, err := asFloat(b.Value, channel)
	if err != nil {
		return nil, err
	}
	return broadcastFloat(lit, len(nodes)), nil
}

// subsetValues collects one attribute across a node subset, falling
// back to the attribute name itself for nodes lacking it. The fallback
// is a deliberate placeholder: it yields a visually distinguishable
// category instead of failing the draw.
func subsetValues(nodes []graph.Node, name string) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		if v, ok := n.Attrs[name]; ok {
			out[i] = v
		} else {
			out[i] = name
		}
	}
	return out
}

// tooltipAttrs copies node attributes minus the reserved partition tag.
func tooltipAttrs(attrs graph.Attrs) graph.Attrs {
	if len(attrs) == 0 {
		return nil
	}
	out := make(graph.Attrs, len(attrs))
	for k, v := range attrs {
		if k == graph.PartitionAttr {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// colorStrings renders marks as colors. Numeric marks become grey
// levels so a numeric palette on a color channel still draws.
func colorStrings(marks []palette.Mark) []string {
	out := make([]string, len(marks))
	for i, m := range marks {
		if m.Numeric() {
			v := uint8(m.Level * 255)
			out[i] = fmt.Sprintf("#%02x%02x%02x", v, v, v)
		} else {
			out[i] = m.Hex
		}
	}
	return out
}

// levelValues extracts the numeric levels of marks.
func levelValues(marks []palette.Mark) []float64 {
	out := make([]float64, len(marks))
	for i, m := range marks {
		out[i] = m.Level
	}
	return out
}

func colorLiteral(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func broadcastString(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func broadcastFloat(f float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = f
	}
	return out
}

func asString(v any, channel string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %T", channel, v)
	}
	return s, nil
}

func asInt(v any, channel string) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		return int(x), nil
	case string:
		n, err := strconv.Atoi(x)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer: %w", channel, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be an integer, got %T", channel, v)
	}
}

func asFloat(v any, channel string) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be numeric or a known attribute name, got %q", channel, x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%s must be numeric, got %T", channel, v)
	}
}
