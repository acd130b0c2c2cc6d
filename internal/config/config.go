// Package config handles repository and global configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents repository configuration stored in .graphplot/config.json.
type Config struct {
	Width       int    `json:"width,omitempty"`        // Figure width in pixels
	Height      int    `json:"height,omitempty"`       // Figure height in pixels
	NodePalette string `json:"node_palette,omitempty"` // Default node palette
	EdgePalette string `json:"edge_palette,omitempty"` // Default edge palette
	MaxColors   int    `json:"max_colors,omitempty"`   // Default category budget (-1 = unbounded)
	HoverNodes  bool   `json:"hover_nodes,omitempty"`  // Show node tooltips
	HoverEdges  bool   `json:"hover_edges,omitempty"`  // Show edge tooltips
}

const (
	GraphplotDir = ".graphplot"
	ConfigFile   = "config.json"
	NodesFile    = "nodes.jsonl"
	EdgesFile    = "edges.jsonl"
	CacheDir     = "cache"
	DBFile       = "graph.db"
)

// Default returns the default repository configuration.
func Default() *Config {
	return &Config{
		Width:       800,
		Height:      600,
		NodePalette: "Category20",
		EdgePalette: "viridis",
		MaxColors:   -1,
		HoverNodes:  false,
		HoverEdges:  true,
	}
}

// GraphplotPath returns the path to the .graphplot directory from a root path.
func GraphplotPath(root string) string {
	return filepath.Join(root, GraphplotDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, GraphplotDir, ConfigFile)
}

// NodesPath returns the path to nodes.jsonl from a root path.
func NodesPath(root string) string {
	return filepath.Join(root, GraphplotDir, NodesFile)
}

// EdgesPath returns the path to edges.jsonl from a root path.
func EdgesPath(root string) string {
	return filepath.Join(root, GraphplotDir, EdgesFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, GraphplotDir, CacheDir)
}

// DBPath returns the path to graph.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, GraphplotDir, CacheDir, DBFile)
}

// IsRepository checks if the given path contains a graphplot repository.
func IsRepository(root string) bool {
	info, err := os.Stat(GraphplotPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a graphplot
// repository. Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a graphplot repository (no .graphplot directory found)")
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root,
// falling back to defaults for a missing file.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
