package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphplot/graphplot/internal/colormap"
	"github.com/graphplot/graphplot/internal/config"
	"github.com/graphplot/graphplot/internal/graph"
	"github.com/graphplot/graphplot/internal/layout"
	"github.com/graphplot/graphplot/internal/render"
)

var drawFlags struct {
	output string
	layout string
	title  string
	width  int
	height int

	hoverNodes bool
	hoverEdges bool

	nodeMarker  string
	nodeSize    string
	nodeColor   string
	nodeAlpha   string
	nodePalette string

	edgeSize    string
	edgeColor   string
	edgeAlpha   string
	edgePalette string

	maxColors string
}

func init() {
	drawCmd.Flags().StringVarP(&drawFlags.output, "output", "o", "", "Output file path (default: stdout)")
	addChannelFlags(drawCmd)
	rootCmd.AddCommand(drawCmd)
}

// addChannelFlags registers the visual-channel flags shared by draw and serve.
func addChannelFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&drawFlags.layout, "layout", "", "Layout algorithm: spring or bipartite (default: by graph mode)")
	f.StringVar(&drawFlags.title, "title", "Graph Plot", "Page title")
	f.IntVar(&drawFlags.width, "width", 0, "Figure width in pixels (default: from config)")
	f.IntVar(&drawFlags.height, "height", 0, "Figure height in pixels (default: from config)")
	f.BoolVar(&drawFlags.hoverNodes, "hover-nodes", false, "Show node tooltips")
	f.BoolVar(&drawFlags.hoverEdges, "hover-edges", true, "Show edge tooltips")
	f.StringVar(&drawFlags.nodeMarker, "node-marker", "", "Node marker shape, or a level pair \"circle,square\"")
	f.StringVar(&drawFlags.nodeSize, "node-size", "", "Node size, attribute name, or level pair")
	f.StringVar(&drawFlags.nodeColor, "node-color", "", "Node color, attribute name, or level pair")
	f.StringVar(&drawFlags.nodeAlpha, "node-alpha", "", "Node alpha, attribute name, or level pair")
	f.StringVar(&drawFlags.nodePalette, "node-palette", "", "Node palette name, or a level pair")
	f.StringVar(&drawFlags.edgeSize, "edge-size", "", "Edge width or attribute name")
	f.StringVar(&drawFlags.edgeColor, "edge-color", "", "Edge color or attribute name")
	f.StringVar(&drawFlags.edgeAlpha, "edge-alpha", "", "Edge alpha or attribute name")
	f.StringVar(&drawFlags.edgePalette, "edge-palette", "", "Edge palette name")
	f.StringVar(&drawFlags.maxColors, "max-colors", "", "Category budget (-1 = unbounded), or a level pair")
}

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Render the graph as an interactive HTML plot",
	Long: `Render the repository graph as an interactive HTML plot.

Each visual channel takes a literal value or the name of a graph
attribute; attribute-driven channels are mapped through the selected
palette. On bipartite graphs, node channels accept a comma-separated
pair, one value per partition level.

Examples:
  # Color nodes by their degree attribute
  gplot draw --node-color degree --node-palette viridis --max-colors 8 -o graph.html

  # Bipartite graph, one palette per level
  gplot draw --node-color "age,food" --node-palette "viridis,Category10" -o graph.html

  # Edge transparency from weights
  gplot draw --edge-alpha weight --max-colors 256 -o graph.html`,
	RunE: runDraw,
}

func runDraw(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	html, err := renderRepo(repoRoot)
	if err != nil {
		if colormap.IsConfigurationError(err) {
			exitWithError(ExitConfigError, "%v", err)
		}
		return err
	}

	if drawFlags.output == "" {
		fmt.Print(html)
		return nil
	}
	if err := os.WriteFile(drawFlags.output, []byte(html), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	if humanOutput {
		outputHuman("Plot written to %s\n", drawFlags.output)
		return nil
	}
	return outputJSON(map[string]string{"output": drawFlags.output})
}

// renderRepo loads a repository's graph and renders it to HTML with the
// current draw flags. Shared by draw and serve.
func renderRepo(repoRoot string) (string, error) {
	cfg := mustLoadConfig(repoRoot)

	g, err := loadGraph(repoRoot)
	if err != nil {
		return "", fmt.Errorf("loading graph: %w", err)
	}
	if err := g.ValidatePartition(); err != nil {
		return "", fmt.Errorf("invalid graph: %w", err)
	}

	pos, err := computeLayout(g)
	if err != nil {
		return "", fmt.Errorf("computing layout: %w", err)
	}

	opts := render.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		HoverNodes: drawFlags.hoverNodes || cfg.HoverNodes,
		HoverEdges: drawFlags.hoverEdges && cfg.HoverEdges,
	}
	if drawFlags.width > 0 {
		opts.Width = drawFlags.width
	}
	if drawFlags.height > 0 {
		opts.Height = drawFlags.height
	}

	fig, err := render.New(g, opts).Draw(pos, drawParams(cfg))
	if err != nil {
		return "", err
	}

	return render.GenerateHTML(fig, drawFlags.title)
}

// computeLayout picks the layout by flag or graph mode.
func computeLayout(g *graph.Graph) (layout.Positions, error) {
	switch drawFlags.layout {
	case "spring":
		return layout.Spring(g, 1)
	case "bipartite":
		return layout.Bipartite(g, 1)
	case "":
		if g.Bipartite() {
			return layout.Bipartite(g, 1)
		}
		return layout.Spring(g, 1)
	default:
		return nil, fmt.Errorf("invalid layout %q: must be spring or bipartite", drawFlags.layout)
	}
}

// drawParams assembles render parameters from flags and config defaults.
func drawParams(cfg *config.Config) render.Params {
	p := render.Params{
		NodeMarker:  channelValue(drawFlags.nodeMarker),
		NodeSize:    channelValue(drawFlags.nodeSize),
		NodeColor:   channelValue(drawFlags.nodeColor),
		NodeAlpha:   channelValue(drawFlags.nodeAlpha),
		NodePalette: channelValue(drawFlags.nodePalette),
		EdgeSize:    channelValue(drawFlags.edgeSize),
		EdgeColor:   channelValue(drawFlags.edgeColor),
		EdgeAlpha:   channelValue(drawFlags.edgeAlpha),
		EdgePalette: channelValue(drawFlags.edgePalette),
		MaxColors:   channelValue(drawFlags.maxColors),
	}
	if p.NodePalette == nil && cfg.NodePalette != "" {
		p.NodePalette = cfg.NodePalette
	}
	if p.NodePalette == nil {
		if pal := config.GetDefaultPalette(); pal != "" {
			p.NodePalette = pal
		}
	}
	if p.EdgePalette == nil && cfg.EdgePalette != "" {
		p.EdgePalette = cfg.EdgePalette
	}
	if p.MaxColors == nil && cfg.MaxColors != 0 {
		p.MaxColors = cfg.MaxColors
	}
	return p
}

// channelValue parses a channel flag: empty means unset, a comma splits
// a per-level pair, and numeric text becomes a number so "9" is a size
// literal while "degree" stays an attribute name.
func channelValue(s string) any {
	if s == "" {
		return nil
	}
	if strings.Contains(s, ",") {
		parts := strings.SplitN(s, ",", 2)
		return []any{scalarValue(strings.TrimSpace(parts[0])), scalarValue(strings.TrimSpace(parts[1]))}
	}
	return scalarValue(s)
}

func scalarValue(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
