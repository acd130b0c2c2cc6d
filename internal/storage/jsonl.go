// Package storage handles graph persistence: git-versionable JSONL as
// the source of truth plus an ephemeral SQLite cache for fast loads.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/graphplot/graphplot/internal/graph"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadNodes reads all node records from a JSONL file. A missing file
// yields an empty slice.
func ReadNodes(path string) ([]graph.Node, error) {
	var nodes []graph.Node
	err := readJSONL(path, "nodes", func(line []byte) error {
		var n graph.Node
		if err := json.Unmarshal(line, &n); err != nil {
			return err
		}
		nodes = append(nodes, n)
		return nil
	})
	return nodes, err
}

// ReadEdges reads all edge records from a JSONL file. A missing file
// yields an empty slice.
func ReadEdges(path string) ([]graph.Edge, error) {
	var edges []graph.Edge
	err := readJSONL(path, "edges", func(line []byte) error {
		var e graph.Edge
		if err := json.Unmarshal(line, &e); err != nil {
			return err
		}
		edges = append(edges, e)
		return nil
	})
	return edges, err
}

func readJSONL(path, what string, decode func([]byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening %s file: %w", what, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := decode(line); err != nil {
			return fmt.Errorf("parsing %s line %d: %w", what, lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s file: %w", what, err)
	}
	return nil
}

// WriteNodes writes all node records to a JSONL file, replacing
// existing content.
func WriteNodes(path string, nodes []graph.Node) error {
	return writeJSONL(path, "nodes", len(nodes), func(i int) any { return nodes[i] })
}

// WriteEdges writes all edge records to a JSONL file, replacing
// existing content.
func WriteEdges(path string, edges []graph.Edge) error {
	return writeJSONL(path, "edges", len(edges), func(i int) any { return edges[i] })
}

func writeJSONL(path, what string, n int, record func(int) any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s file: %w", what, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for i := 0; i < n; i++ {
		if err := enc.Encode(record(i)); err != nil {
			return fmt.Errorf("encoding %s record %d: %w", what, i, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing %s file: %w", what, err)
	}
	return nil
}

// LoadGraph builds a graph from node and edge JSONL files. Node records
// are added before edges so edge endpoints missing from nodes.jsonl
// become attribute-less nodes.
func LoadGraph(nodesPath, edgesPath string) (*graph.Graph, error) {
	nodes, err := ReadNodes(nodesPath)
	if err != nil {
		return nil, err
	}
	edges, err := ReadEdges(edgesPath)
	if err != nil {
		return nil, err
	}

	g := graph.New()
	for _, n := range nodes {
		if err := g.AddNode(n.ID, n.Attrs); err != nil {
			return nil, fmt.Errorf("adding node %s: %w", n.ID, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e.Source, e.Target, e.Attrs); err != nil {
			return nil, fmt.Errorf("adding edge %s-%s: %w", e.Source, e.Target, err)
		}
	}
	return g, nil
}
