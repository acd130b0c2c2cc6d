package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/graphplot/graphplot/internal/config"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a graphplot repository in the current directory",
	Long: `Initialize a graphplot repository.

Creates the .graphplot directory with a default config.json, empty
nodes.jsonl and edges.jsonl, and the cache directory.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if config.IsRepository(cwd) {
		return fmt.Errorf("already a graphplot repository: %s", cwd)
	}

	if err := os.MkdirAll(config.CachePath(cwd), 0755); err != nil {
		return fmt.Errorf("creating repository directories: %w", err)
	}

	if err := config.Default().Save(cwd); err != nil {
		return err
	}

	for _, path := range []string{config.NodesPath(cwd), config.EdgesPath(cwd)} {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		f.Close()
	}

	if humanOutput {
		outputHuman("Initialized graphplot repository in %s\n", config.GraphplotPath(cwd))
		return nil
	}
	return outputJSON(map[string]string{"initialized": config.GraphplotPath(cwd)})
}
