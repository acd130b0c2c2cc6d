package main

import (
	"sort"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show repository graph statistics",
	RunE:  runInfo,
}

type graphInfo struct {
	Root      string   `json:"root"`
	Nodes     int      `json:"nodes"`
	Edges     int      `json:"edges"`
	Bipartite bool     `json:"bipartite"`
	NodeAttrs []string `json:"node_attrs"`
	EdgeAttrs []string `json:"edge_attrs"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	g, err := loadGraph(repoRoot)
	if err != nil {
		exitWithError(ExitDataError, "loading graph: %v", err)
	}

	info := graphInfo{
		Root:      repoRoot,
		Nodes:     g.NumNodes(),
		Edges:     g.NumEdges(),
		Bipartite: g.Bipartite(),
		NodeAttrs: sortedNames(g.NodeAttrNames()),
		EdgeAttrs: sortedNames(g.EdgeAttrNames()),
	}

	if humanOutput {
		outputHuman("Repository: %s\n", info.Root)
		outputHuman("Nodes:      %d\n", info.Nodes)
		outputHuman("Edges:      %d\n", info.Edges)
		outputHuman("Bipartite:  %v\n", info.Bipartite)
		outputHuman("Node attrs: %v\n", info.NodeAttrs)
		outputHuman("Edge attrs: %v\n", info.EdgeAttrs)
		return nil
	}
	return outputJSON(info)
}

func sortedNames(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
