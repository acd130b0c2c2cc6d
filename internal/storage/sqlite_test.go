package storage

import (
	"path/filepath"
	"testing"

	"github.com/graphplot/graphplot/internal/graph"
)

type testRepo struct {
	db        *DB
	nodesPath string
	edgesPath string
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()

	db, err := OpenDB(filepath.Join(dir, "graph.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	r := &testRepo{
		db:        db,
		nodesPath: filepath.Join(dir, "nodes.jsonl"),
		edgesPath: filepath.Join(dir, "edges.jsonl"),
	}

	err = WriteNodes(r.nodesPath, []graph.Node{
		{ID: "a", Attrs: graph.Attrs{"group": "x"}},
		{ID: "b"},
	})
	if err != nil {
		t.Fatal(err)
	}
	err = WriteEdges(r.edgesPath, []graph.Edge{
		{Source: "a", Target: "b", Attrs: graph.Attrs{"weight": 1.5}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestRebuildFromJSONL(t *testing.T) {
	r := newTestRepo(t)

	nodes, edges, err := r.db.RebuildFromJSONL(r.nodesPath, r.edgesPath)
	if err != nil {
		t.Fatal(err)
	}
	if nodes != 2 || edges != 1 {
		t.Errorf("rebuild counts = %d, %d, want 2, 1", nodes, edges)
	}

	n, e, err := r.db.Counts()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || e != 1 {
		t.Errorf("Counts = %d, %d, want 2, 1", n, e)
	}
}

func TestLoadGraphFromCache(t *testing.T) {
	r := newTestRepo(t)
	if _, _, err := r.db.RebuildFromJSONL(r.nodesPath, r.edgesPath); err != nil {
		t.Fatal(err)
	}

	g, err := r.db.LoadGraph()
	if err != nil {
		t.Fatal(err)
	}

	if g.NumNodes() != 2 || g.NumEdges() != 1 {
		t.Fatalf("got %d nodes, %d edges", g.NumNodes(), g.NumEdges())
	}
	// Stored order matches JSONL order.
	if g.Nodes()[0].ID != "a" || g.Nodes()[1].ID != "b" {
		t.Errorf("node order = %q, %q", g.Nodes()[0].ID, g.Nodes()[1].ID)
	}
	if g.Nodes()[0].Attrs["group"] != "x" {
		t.Errorf("node attrs = %v", g.Nodes()[0].Attrs)
	}
	if g.Edges()[0].Attrs["weight"] != 1.5 {
		t.Errorf("edge attrs = %v", g.Edges()[0].Attrs)
	}
}

func TestStale(t *testing.T) {
	r := newTestRepo(t)

	// A cache with no recorded hashes is stale.
	stale, err := r.db.Stale(r.nodesPath, r.edgesPath)
	if err != nil {
		t.Fatal(err)
	}
	if !stale {
		t.Error("fresh empty cache not reported stale")
	}

	if _, _, err := r.db.RebuildFromJSONL(r.nodesPath, r.edgesPath); err != nil {
		t.Fatal(err)
	}
	stale, err = r.db.Stale(r.nodesPath, r.edgesPath)
	if err != nil {
		t.Fatal(err)
	}
	if stale {
		t.Error("just-rebuilt cache reported stale")
	}

	// Changing a JSONL file invalidates the cache.
	err = WriteNodes(r.nodesPath, []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	if err != nil {
		t.Fatal(err)
	}
	stale, err = r.db.Stale(r.nodesPath, r.edgesPath)
	if err != nil {
		t.Fatal(err)
	}
	if !stale {
		t.Error("cache not reported stale after JSONL change")
	}
}

func TestRebuildReplacesPreviousContent(t *testing.T) {
	r := newTestRepo(t)
	if _, _, err := r.db.RebuildFromJSONL(r.nodesPath, r.edgesPath); err != nil {
		t.Fatal(err)
	}

	err := WriteNodes(r.nodesPath, []graph.Node{{ID: "z"}})
	if err != nil {
		t.Fatal(err)
	}
	err = WriteEdges(r.edgesPath, nil)
	if err != nil {
		t.Fatal(err)
	}

	nodes, edges, err := r.db.RebuildFromJSONL(r.nodesPath, r.edgesPath)
	if err != nil {
		t.Fatal(err)
	}
	if nodes != 1 || edges != 0 {
		t.Errorf("rebuild counts = %d, %d, want 1, 0", nodes, edges)
	}

	g, err := r.db.LoadGraph()
	if err != nil {
		t.Fatal(err)
	}
	if g.NumNodes() != 1 || g.Nodes()[0].ID != "z" {
		t.Errorf("cache still holds old content: %v", g.Nodes())
	}
}
