package storage

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"

	"github.com/graphplot/graphplot/internal/graph"
)

// DB wraps the SQLite graph cache. The cache is ephemeral: it is
// rebuilt from the JSONL files whenever their content hashes change.
type DB struct {
	db *sql.DB
}

// Metadata keys for JSONL staleness detection.
const (
	metaNodesHash = "nodes_hash"
	metaEdgesHash = "edges_hash"
)

// OpenDB opens or creates the cache database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS nodes (
			idx INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			attrs_json TEXT
		);

		CREATE TABLE IF NOT EXISTS edges (
			idx INTEGER PRIMARY KEY,
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			attrs_json TEXT
		);

		-- JSONL content hashes for staleness detection
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`
	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the cache and repopulates it from the JSONL
// files, recording their content hashes. Returns the node and edge
// counts.
func (d *DB) RebuildFromJSONL(nodesPath, edgesPath string) (int, int, error) {
	nodes, err := ReadNodes(nodesPath)
	if err != nil {
		return 0, 0, fmt.Errorf("reading nodes JSONL: %w", err)
	}
	edges, err := ReadEdges(edgesPath)
	if err != nil {
		return 0, 0, fmt.Errorf("reading edges JSONL: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"nodes", "edges", "metadata"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return 0, 0, fmt.Errorf("clearing %s table: %w", table, err)
		}
	}

	nodeStmt, err := tx.Prepare("INSERT INTO nodes (idx, id, attrs_json) VALUES (?, ?, ?)")
	if err != nil {
		return 0, 0, fmt.Errorf("preparing node insert: %w", err)
	}
	defer nodeStmt.Close()

	for i, n := range nodes {
		attrsJSON, err := marshalAttrs(n.Attrs)
		if err != nil {
			return 0, 0, fmt.Errorf("encoding node %s attrs: %w", n.ID, err)
		}
		if _, err := nodeStmt.Exec(i, n.ID, attrsJSON); err != nil {
			return 0, 0, fmt.Errorf("inserting node %s: %w", n.ID, err)
		}
	}

	edgeStmt, err := tx.Prepare("INSERT INTO edges (idx, source, target, attrs_json) VALUES (?, ?, ?, ?)")
	if err != nil {
		return 0, 0, fmt.Errorf("preparing edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for i, e := range edges {
		attrsJSON, err := marshalAttrs(e.Attrs)
		if err != nil {
			return 0, 0, fmt.Errorf("encoding edge %s-%s attrs: %w", e.Source, e.Target, err)
		}
		if _, err := edgeStmt.Exec(i, e.Source, e.Target, attrsJSON); err != nil {
			return 0, 0, fmt.Errorf("inserting edge %s-%s: %w", e.Source, e.Target, err)
		}
	}

	for key, path := range map[string]string{metaNodesHash: nodesPath, metaEdgesHash: edgesPath} {
		hash, err := hashFile(path)
		if err != nil {
			return 0, 0, err
		}
		if _, err := tx.Exec("INSERT INTO metadata (key, value) VALUES (?, ?)", key, hash); err != nil {
			return 0, 0, fmt.Errorf("recording %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(nodes), len(edges), nil
}

// Stale reports whether the cache is out of date with respect to the
// JSONL files. A cache with no recorded hashes is stale.
func (d *DB) Stale(nodesPath, edgesPath string) (bool, error) {
	for key, path := range map[string]string{metaNodesHash: nodesPath, metaEdgesHash: edgesPath} {
		var stored string
		err := d.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&stored)
		if err == sql.ErrNoRows {
			return true, nil
		}
		if err != nil {
			return false, fmt.Errorf("reading %s: %w", key, err)
		}
		current, err := hashFile(path)
		if err != nil {
			return false, err
		}
		if stored != current {
			return true, nil
		}
	}
	return false, nil
}

// LoadGraph reads the cached graph in stored order.
func (d *DB) LoadGraph() (*graph.Graph, error) {
	g := graph.New()

	rows, err := d.db.Query("SELECT id, attrs_json FROM nodes ORDER BY idx")
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var attrsJSON sql.NullString
		if err := rows.Scan(&id, &attrsJSON); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		attrs, err := unmarshalAttrs(attrsJSON)
		if err != nil {
			return nil, fmt.Errorf("decoding node %s attrs: %w", id, err)
		}
		if err := g.AddNode(id, attrs); err != nil {
			return nil, fmt.Errorf("adding node %s: %w", id, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}

	edgeRows, err := d.db.Query("SELECT source, target, attrs_json FROM edges ORDER BY idx")
	if err != nil {
		return nil, fmt.Errorf("querying edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var source, target string
		var attrsJSON sql.NullString
		if err := edgeRows.Scan(&source, &target, &attrsJSON); err != nil {
			return nil, fmt.Errorf("scanning edge: %w", err)
		}
		attrs, err := unmarshalAttrs(attrsJSON)
		if err != nil {
			return nil, fmt.Errorf("decoding edge %s-%s attrs: %w", source, target, err)
		}
		if err := g.AddEdge(source, target, attrs); err != nil {
			return nil, fmt.Errorf("adding edge %s-%s: %w", source, target, err)
		}
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating edges: %w", err)
	}

	return g, nil
}

// Counts returns the cached node and edge counts.
func (d *DB) Counts() (int, int, error) {
	var nodes, edges int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&nodes); err != nil {
		return 0, 0, fmt.Errorf("counting nodes: %w", err)
	}
	if err := d.db.QueryRow("SELECT COUNT(*) FROM edges").Scan(&edges); err != nil {
		return 0, 0, fmt.Errorf("counting edges: %w", err)
	}
	return nodes, edges, nil
}

func marshalAttrs(attrs graph.Attrs) (sql.NullString, error) {
	if len(attrs) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalAttrs(s sql.NullString) (graph.Attrs, error) {
	if !s.Valid {
		return nil, nil
	}
	var attrs graph.Attrs
	if err := json.Unmarshal([]byte(s.String), &attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

// hashFile returns the BLAKE2b-256 hex digest of a file's content.
// A missing file hashes to the digest of no content.
func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
