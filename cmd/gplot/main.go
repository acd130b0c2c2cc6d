// Package main provides the gplot CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/graphplot/graphplot/internal/config"
	"github.com/graphplot/graphplot/internal/graph"
	"github.com/graphplot/graphplot/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	// Local env files override nothing that's already set
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gplot",
	Short: "Interactive graph plots from attribute-tagged graphs",
	Long: `gplot renders attribute-tagged graphs as interactive HTML plots.

Core features:
  - One-mode and two-mode (bipartite) graphs with per-node and per-edge attributes
  - Attribute-driven visual channels (color, size, alpha, marker) via palettes
  - Force-style and bipartite 2D layouts
  - Hover tooltips over node and edge attributes

Data is stored in git-versionable JSONL with an ephemeral SQLite cache.
All commands output JSON by default for scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// getStartingDirectory returns the directory to start searching for a
// repository. Checks global config data_path first, then the current
// working directory.
func getStartingDirectory() (string, int) {
	if root := config.GetDataPath(); root != "" {
		return root, 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}

// mustFindRepository finds and validates the repository, exits on error.
// Returns the repository root path.
func mustFindRepository() string {
	start, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	repoRoot, err := config.FindRepository(start)
	if err != nil {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}
	return repoRoot
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustOpenDatabase opens the SQLite cache, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(repoRoot string) *storage.DB {
	db, err := storage.OpenDB(config.DBPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// loadGraph loads the graph for a repository, preferring the cache when
// fresh and falling back to the JSONL files, refreshing the cache on
// the way.
func loadGraph(repoRoot string) (*graph.Graph, error) {
	nodesPath := config.NodesPath(repoRoot)
	edgesPath := config.EdgesPath(repoRoot)

	db, err := storage.OpenDB(config.DBPath(repoRoot))
	if err != nil {
		// Cache trouble never blocks a draw
		return storage.LoadGraph(nodesPath, edgesPath)
	}
	defer db.Close()

	stale, err := db.Stale(nodesPath, edgesPath)
	if err != nil {
		return storage.LoadGraph(nodesPath, edgesPath)
	}
	if stale {
		if _, _, err := db.RebuildFromJSONL(nodesPath, edgesPath); err != nil {
			return storage.LoadGraph(nodesPath, edgesPath)
		}
	}
	return db.LoadGraph()
}
