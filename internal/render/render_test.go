package render

import (
	"strings"
	"testing"

	"github.com/graphplot/graphplot/internal/graph"
	"github.com/graphplot/graphplot/internal/layout"
)

func zeroPositions(g *graph.Graph) layout.Positions {
	pos := make(layout.Positions, g.NumNodes())
	for _, n := range g.Nodes() {
		pos[n.ID] = layout.Point{}
	}
	return pos
}

func mustDraw(t *testing.T, g *graph.Graph, p Params) *Figure {
	t.Helper()
	fig, err := New(g, DefaultOptions()).Draw(zeroPositions(g), p)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	return fig
}

func TestDrawDefaults(t *testing.T) {
	g := graph.New()
	g.AddEdge("a", "b", nil)
	g.AddEdge("b", "c", nil)

	fig := mustDraw(t, g, Params{})

	if len(fig.Nodes) != 3 || len(fig.Edges) != 2 {
		t.Fatalf("got %d nodes, %d edges", len(fig.Nodes), len(fig.Edges))
	}
	for _, n := range fig.Nodes {
		if n.Marker != "circle" || n.Color != "firebrick" || n.Size != 9.0 || n.Alpha != 0.9 {
			t.Errorf("node %s = %+v, want defaults", n.ID, n)
		}
		if n.Level != -1 {
			t.Errorf("one-mode node %s has level %d, want -1", n.ID, n.Level)
		}
	}
	for i, e := range fig.Edges {
		if e.Color != "navy" || e.Width != 1.0 || e.Alpha != 0.6 {
			t.Errorf("edge %d = %+v, want defaults", i, e)
		}
	}
}

func TestDrawNodeOrderMatchesGraph(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"z", "m", "a"} {
		g.AddNode(id, nil)
	}
	fig := mustDraw(t, g, Params{})
	for i, want := range []string{"z", "m", "a"} {
		if fig.Nodes[i].ID != want {
			t.Errorf("node %d = %q, want %q", i, fig.Nodes[i].ID, want)
		}
	}
}

func TestDrawAttrDrivenNodeColor(t *testing.T) {
	g := graph.New()
	g.AddNode("a", graph.Attrs{"group": "x"})
	g.AddNode("b", graph.Attrs{"group": "y"})
	g.AddNode("c", graph.Attrs{"group": "x"})

	fig := mustDraw(t, g, Params{NodeColor: "group", NodePalette: "viridis"})

	if fig.Nodes[0].Color != fig.Nodes[2].Color {
		t.Errorf("same group, different colors: %q vs %q", fig.Nodes[0].Color, fig.Nodes[2].Color)
	}
	if fig.Nodes[0].Color == fig.Nodes[1].Color {
		t.Errorf("different groups share color %q", fig.Nodes[0].Color)
	}
	for _, n := range fig.Nodes {
		if !strings.HasPrefix(n.Color, "#") {
			t.Errorf("node %s color %q is not a hex color", n.ID, n.Color)
		}
	}
}

func TestDrawMissingAttrGetsPlaceholderCategory(t *testing.T) {
	g := graph.New()
	g.AddNode("a", graph.Attrs{"group": "x"})
	g.AddNode("b", nil)

	fig := mustDraw(t, g, Params{NodeColor: "group", NodePalette: "viridis"})

	// The untagged node forms its own category rather than failing
	// the draw.
	if fig.Nodes[0].Color == fig.Nodes[1].Color {
		t.Errorf("tagged and untagged nodes share color %q", fig.Nodes[0].Color)
	}
}

func TestDrawUnknownAttrNameIsLiteral(t *testing.T) {
	g := graph.New()
	g.AddNode("a", graph.Attrs{"group": "x"})

	fig := mustDraw(t, g, Params{NodeColor: "steelblue"})
	if fig.Nodes[0].Color != "steelblue" {
		t.Errorf("color = %q, want literal steelblue", fig.Nodes[0].Color)
	}
}

func TestDrawEdgeAlphaPreservesRank(t *testing.T) {
	g := graph.New()
	g.AddEdge("a", "b", graph.Attrs{"weight": 1.0})
	g.AddEdge("b", "c", graph.Attrs{"weight": 5.0})
	g.AddEdge("c", "d", graph.Attrs{"weight": 10.0})

	fig := mustDraw(t, g, Params{EdgeAlpha: "weight"})

	if !(fig.Edges[0].Alpha < fig.Edges[1].Alpha && fig.Edges[1].Alpha < fig.Edges[2].Alpha) {
		t.Errorf("alphas not increasing with weight: %v %v %v",
			fig.Edges[0].Alpha, fig.Edges[1].Alpha, fig.Edges[2].Alpha)
	}
	for i, e := range fig.Edges {
		if e.Alpha <= 0 || e.Alpha > 1 {
			t.Errorf("edge %d alpha %v outside (0, 1]", i, e.Alpha)
		}
	}
}

func TestDrawEdgeColorByAttr(t *testing.T) {
	g := graph.New()
	g.AddEdge("a", "b", graph.Attrs{"kind": "likes"})
	g.AddEdge("b", "c", graph.Attrs{"kind": "owns"})
	g.AddEdge("c", "a", graph.Attrs{"kind": "likes"})

	fig := mustDraw(t, g, Params{EdgeColor: "kind", EdgePalette: "viridis"})

	if fig.Edges[0].Color != fig.Edges[2].Color {
		t.Errorf("same kind, different colors: %q vs %q", fig.Edges[0].Color, fig.Edges[2].Color)
	}
	if fig.Edges[0].Color == fig.Edges[1].Color {
		t.Errorf("different kinds share color %q", fig.Edges[0].Color)
	}
}

func TestDrawNoEdges(t *testing.T) {
	g := graph.New()
	g.AddNode("solo", nil)

	fig := mustDraw(t, g, Params{EdgeColor: "weight"})
	if len(fig.Edges) != 0 {
		t.Errorf("got %d edges", len(fig.Edges))
	}
	if len(fig.Nodes) != 1 {
		t.Errorf("got %d nodes", len(fig.Nodes))
	}
}

func TestDrawEmptyGraph(t *testing.T) {
	fig := mustDraw(t, graph.New(), Params{})
	if !fig.IsEmpty() {
		t.Errorf("empty graph produced non-empty figure: %+v", fig)
	}
}

func TestDrawMissingPosition(t *testing.T) {
	g := graph.New()
	g.AddNode("a", nil)
	g.AddNode("b", nil)

	pos := layout.Positions{"a": {}}
	_, err := New(g, DefaultOptions()).Draw(pos, Params{})
	if err == nil {
		t.Fatal("expected error for missing position")
	}
	if !strings.Contains(err.Error(), "b") {
		t.Errorf("error %q does not name the missing node", err)
	}
}

func bipartiteTestGraph() *graph.Graph {
	g := graph.New()
	g.AddNode("u1", graph.Attrs{graph.PartitionAttr: 0, "age": 30})
	g.AddNode("v1", graph.Attrs{graph.PartitionAttr: 1, "food": "rice"})
	g.AddNode("u2", graph.Attrs{graph.PartitionAttr: 0, "age": 40})
	g.AddNode("v2", graph.Attrs{graph.PartitionAttr: 1, "food": "soup"})
	g.AddEdge("u1", "v1", nil)
	g.AddEdge("u2", "v2", nil)
	return g
}

func TestDrawBipartitePerLevelChannels(t *testing.T) {
	g := bipartiteTestGraph()

	fig := mustDraw(t, g, Params{
		NodeMarker:  []any{"circle", "square"},
		NodeColor:   []any{"age", "food"},
		NodePalette: []any{"viridis", "Category10"},
	})

	byID := make(map[string]FigureNode)
	for _, n := range fig.Nodes {
		byID[n.ID] = n
	}

	if byID["u1"].Marker != "circle" || byID["u2"].Marker != "circle" {
		t.Errorf("level 0 markers = %q, %q, want circle", byID["u1"].Marker, byID["u2"].Marker)
	}
	if byID["v1"].Marker != "square" || byID["v2"].Marker != "square" {
		t.Errorf("level 1 markers = %q, %q, want square", byID["v1"].Marker, byID["v2"].Marker)
	}

	if byID["u1"].Level != 0 || byID["v1"].Level != 1 {
		t.Errorf("levels = %d, %d, want 0, 1", byID["u1"].Level, byID["v1"].Level)
	}

	// Each level is colored independently from its own attribute.
	if byID["u1"].Color == byID["u2"].Color {
		t.Errorf("distinct ages share color %q", byID["u1"].Color)
	}
	if byID["v1"].Color == byID["v2"].Color {
		t.Errorf("distinct foods share color %q", byID["v1"].Color)
	}
}

func TestDrawBipartiteMergeOrder(t *testing.T) {
	g := bipartiteTestGraph()
	fig := mustDraw(t, g, Params{})

	// Output order follows graph insertion order, not level grouping.
	want := []string{"u1", "v1", "u2", "v2"}
	for i, n := range fig.Nodes {
		if n.ID != want[i] {
			t.Errorf("node %d = %q, want %q", i, n.ID, want[i])
		}
	}
}

func TestDrawBipartiteBroadcastScalar(t *testing.T) {
	g := bipartiteTestGraph()
	fig := mustDraw(t, g, Params{NodeSize: 12.0})
	for _, n := range fig.Nodes {
		if n.Size != 12.0 {
			t.Errorf("node %s size = %v, want 12", n.ID, n.Size)
		}
	}
}

func TestDrawRejectsMixedPartition(t *testing.T) {
	g := graph.New()
	g.AddNode("a", graph.Attrs{graph.PartitionAttr: 0})
	g.AddNode("b", nil)

	_, err := New(g, DefaultOptions()).Draw(zeroPositions(g), Params{})
	if err == nil {
		t.Fatal("expected error for mixed partition tags")
	}
}

func TestDrawTooltipAttrsOmitPartitionTag(t *testing.T) {
	g := bipartiteTestGraph()
	fig := mustDraw(t, g, Params{})
	for _, n := range fig.Nodes {
		if _, ok := n.Attrs[graph.PartitionAttr]; ok {
			t.Errorf("node %s tooltip attrs contain the partition tag", n.ID)
		}
	}
}

func TestDrawInvalidChannelValue(t *testing.T) {
	g := graph.New()
	g.AddNode("a", nil)

	_, err := New(g, DefaultOptions()).Draw(zeroPositions(g), Params{NodeSize: "not-an-attr"})
	if err == nil {
		t.Fatal("expected error for non-numeric size literal")
	}
}

func TestDrawNonScalarAttrValues(t *testing.T) {
	// JSONL data can carry list-valued attributes; styling by one must
	// fail with an error, not crash.
	g := graph.New()
	g.AddNode("a", graph.Attrs{"tags": []any{"x", "y"}})
	g.AddNode("b", graph.Attrs{"tags": []any{"z"}})

	_, err := New(g, DefaultOptions()).Draw(zeroPositions(g), Params{NodeColor: "tags"})
	if err == nil {
		t.Fatal("expected error for list-valued attribute")
	}
}

func TestAttrCacheInvalidate(t *testing.T) {
	g := graph.New()
	g.AddNode("a", graph.Attrs{"old": 1})

	cache := NewAttrCache(g)
	if !cache.NodeAttrs()["old"] {
		t.Fatal("cache missing initial attribute")
	}

	g.AddNode("b", graph.Attrs{"new": 2})
	if cache.NodeAttrs()["new"] {
		t.Error("cache refreshed without invalidation")
	}

	cache.Invalidate()
	if !cache.NodeAttrs()["new"] {
		t.Error("cache not refreshed after Invalidate")
	}
}
