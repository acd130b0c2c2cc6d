package main

import (
	"github.com/spf13/cobra"

	"github.com/graphplot/graphplot/internal/palette"
)

func init() {
	rootCmd.AddCommand(palettesCmd)
}

var palettesCmd = &cobra.Command{
	Use:   "palettes",
	Short: "List the available palettes",
	RunE:  runPalettes,
}

type paletteInfo struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	MinSize int    `json:"min_size"`
	MaxSize int    `json:"max_size"`
}

func runPalettes(cmd *cobra.Command, args []string) error {
	var infos []paletteInfo
	for _, name := range palette.Names() {
		info := paletteInfo{Name: name}
		if palette.IsContinuous(name) {
			info.Kind = "continuous"
			info.MinSize = 1
			info.MaxSize = palette.MaxSize
		} else {
			info.Kind = "discrete"
			info.MinSize, info.MaxSize, _ = palette.DiscreteSizes(name)
		}
		infos = append(infos, info)
	}
	// Generated palettes have no fixed size limit.
	for _, name := range []string{"numeric", "random"} {
		infos = append(infos, paletteInfo{Name: name, Kind: "generated", MinSize: 1, MaxSize: -1})
	}

	if humanOutput {
		for _, info := range infos {
			if info.MaxSize < 0 {
				outputHuman("%-12s %-11s sizes %d+\n", info.Name, info.Kind, info.MinSize)
			} else {
				outputHuman("%-12s %-11s sizes %d-%d\n", info.Name, info.Kind, info.MinSize, info.MaxSize)
			}
		}
		return nil
	}
	return outputJSON(infos)
}
