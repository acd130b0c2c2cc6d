package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/graphplot/graphplot/internal/graph"
)

func testFigure(t *testing.T) *Figure {
	t.Helper()
	g := graph.New()
	g.AddNode("a", graph.Attrs{"group": "x"})
	g.AddNode("b", graph.Attrs{"group": "y"})
	g.AddEdge("a", "b", graph.Attrs{"weight": 2.0})
	return mustDraw(t, g, Params{})
}

func TestToCytoscapeJSON(t *testing.T) {
	raw, err := testFigure(t).ToCytoscapeJSON()
	if err != nil {
		t.Fatal(err)
	}

	var elements CytoscapeElements
	if err := json.Unmarshal([]byte(raw), &elements); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(elements.Nodes) != 2 || len(elements.Edges) != 1 {
		t.Fatalf("got %d nodes, %d edges", len(elements.Nodes), len(elements.Edges))
	}

	e := elements.Edges[0].Data
	if e.Source != "a" || e.Target != "b" {
		t.Errorf("edge endpoints = %q -> %q", e.Source, e.Target)
	}
	if e.Tooltip == nil {
		t.Error("edge tooltip missing with hover enabled")
	}
}

func TestToCytoscapeJSONPositionsWithinCanvas(t *testing.T) {
	fig := testFigure(t)
	raw, err := fig.ToCytoscapeJSON()
	if err != nil {
		t.Fatal(err)
	}

	var elements CytoscapeElements
	if err := json.Unmarshal([]byte(raw), &elements); err != nil {
		t.Fatal(err)
	}
	for _, n := range elements.Nodes {
		if n.Position.X < 0 || n.Position.X > float64(fig.Width) {
			t.Errorf("node %s x=%v outside canvas", n.Data.ID, n.Position.X)
		}
		if n.Position.Y < 0 || n.Position.Y > float64(fig.Height) {
			t.Errorf("node %s y=%v outside canvas", n.Data.ID, n.Position.Y)
		}
	}
}

func TestToCytoscapeJSONHoverDisabled(t *testing.T) {
	fig := testFigure(t)
	fig.HoverNodes = false
	fig.HoverEdges = false

	raw, err := fig.ToCytoscapeJSON()
	if err != nil {
		t.Fatal(err)
	}
	var elements CytoscapeElements
	if err := json.Unmarshal([]byte(raw), &elements); err != nil {
		t.Fatal(err)
	}
	for _, n := range elements.Nodes {
		if n.Data.Tooltip != nil {
			t.Errorf("node %s has a tooltip with hover disabled", n.Data.ID)
		}
	}
	for _, e := range elements.Edges {
		if e.Data.Tooltip != nil {
			t.Errorf("edge %s has a tooltip with hover disabled", e.Data.ID)
		}
	}
}

func TestMarkerShape(t *testing.T) {
	tests := []struct {
		marker string
		want   string
	}{
		{"circle", "ellipse"},
		{"", "ellipse"},
		{"square", "rectangle"},
		{"triangle", "triangle"},
		{"diamond", "diamond"},
		{"star", "star"},
		{"unknown", "ellipse"},
	}
	for _, tt := range tests {
		if got := markerShape(tt.marker); got != tt.want {
			t.Errorf("markerShape(%q) = %q, want %q", tt.marker, got, tt.want)
		}
	}
}

func TestGenerateHTML(t *testing.T) {
	html, err := GenerateHTML(testFigure(t), "My Graph")
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"<!DOCTYPE html>", "My Graph", "cytoscape", `"id":"a"`} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestGenerateHTMLDefaults(t *testing.T) {
	html, err := GenerateHTML(testFigure(t), "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "Graph Plot") {
		t.Error("default title missing")
	}
}

func TestGenerateHTMLEmptyFigure(t *testing.T) {
	html, err := GenerateHTML(&Figure{Width: 800, Height: 600}, "Empty")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "Empty") {
		t.Error("title missing from empty-state page")
	}
	if strings.Contains(html, "cytoscape(") {
		t.Error("empty-state page should not initialize cytoscape")
	}
}

func TestGenerateHTMLNilFigure(t *testing.T) {
	if _, err := GenerateHTML(nil, "x"); err == nil {
		t.Fatal("expected error for nil figure")
	}
}
