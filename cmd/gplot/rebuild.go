package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphplot/graphplot/internal/config"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the SQLite cache from the JSONL files",
	RunE:  runRebuild,
}

func runRebuild(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	nodes, edges, err := db.RebuildFromJSONL(config.NodesPath(repoRoot), config.EdgesPath(repoRoot))
	if err != nil {
		return fmt.Errorf("rebuilding cache: %w", err)
	}

	if humanOutput {
		outputHuman("Rebuilt cache: %d nodes, %d edges\n", nodes, edges)
		return nil
	}
	return outputJSON(map[string]int{"nodes": nodes, "edges": edges})
}
