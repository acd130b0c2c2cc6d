// Package layout computes 2D node positions for rendering.
//
// One-mode graphs are positioned with classical multidimensional
// scaling over BFS shortest-path distances; two-mode graphs are laid
// out in two horizontal rows by partition level. Positions are scaled
// to [-scale, scale] on both axes.
package layout

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/mds"

	"github.com/graphplot/graphplot/internal/graph"
)

// Point is a 2D coordinate.
type Point struct {
	X float64
	Y float64
}

// Positions maps node IDs to coordinates.
type Positions map[string]Point

// unreachableDistance substitutes for node pairs with no connecting path.
const unreachableDistance = 10.0

// Spring computes positions for a graph of any mode with classical MDS
// (Torgerson scaling) over BFS shortest-path distances. Deterministic
// for a given node insertion order.
func Spring(g *graph.Graph, scale float64) (Positions, error) {
	n := g.NumNodes()
	if n == 0 {
		return Positions{}, nil
	}
	if n == 1 {
		return Positions{g.Nodes()[0].ID: {X: 0, Y: 0}}, nil
	}

	gg, ids := toGonum(g)

	dist, err := distanceMatrix(gg, n)
	if err != nil {
		return nil, err
	}

	coords, err := torgerson2D(dist)
	if err != nil {
		return nil, err
	}

	pos := make(Positions, n)
	for i, id := range ids {
		pos[id] = Point{X: coords.At(i, 0), Y: coords.At(i, 1)}
	}
	rescale(pos, scale)
	return pos, nil
}

// Bipartite lays a two-mode graph out in two horizontal rows: level 0
// on the bottom, level 1 on the top, each row evenly spaced and
// centered.
func Bipartite(g *graph.Graph, scale float64) (Positions, error) {
	if err := g.ValidatePartition(); err != nil {
		return nil, fmt.Errorf("bipartite layout: %w", err)
	}
	if !g.Bipartite() {
		return nil, fmt.Errorf("bipartite layout: graph has no partition tags")
	}

	pos := make(Positions, g.NumNodes())
	for level := 0; level <= 1; level++ {
		y := -scale
		if level == 1 {
			y = scale
		}
		nodes := g.LevelNodes(level)
		for i, node := range nodes {
			pos[node.ID] = Point{X: rowX(i, len(nodes), scale), Y: y}
		}
	}
	return pos, nil
}

// rowX spreads index i of a row of n nodes evenly over [-scale, scale].
func rowX(i, n int, scale float64) float64 {
	if n == 1 {
		return 0
	}
	return -scale + 2*scale*float64(i)/float64(n-1)
}

// toGonum converts the domain graph to a gonum graph with dense int64
// IDs assigned in node insertion order. Returns the ID table mapping
// dense index back to the node ID.
func toGonum(g *graph.Graph) (*simple.UndirectedGraph, []string) {
	gg := simple.NewUndirectedGraph()
	ids := make([]string, g.NumNodes())
	index := make(map[string]int64, g.NumNodes())

	for i, node := range g.Nodes() {
		id := int64(i)
		gg.AddNode(simple.Node(id))
		ids[i] = node.ID
		index[node.ID] = id
	}

	for _, e := range g.Edges() {
		f, t := index[e.Source], index[e.Target]
		if f == t || gg.HasEdgeBetween(f, t) {
			continue
		}
		gg.SetEdge(simple.Edge{F: simple.Node(f), T: simple.Node(t)})
	}

	return gg, ids
}

// distanceMatrix computes all-pairs BFS shortest-path distances.
// Unreachable pairs get unreachableDistance.
func distanceMatrix(gg *simple.UndirectedGraph, n int) (*mat.SymDense, error) {
	dist := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		distances := bfsDistances(gg, int64(i))
		for j := i; j < n; j++ {
			d, ok := distances[int64(j)]
			if !ok {
				d = unreachableDistance
			}
			dist.SetSym(i, j, d)
		}
	}
	return dist, nil
}

// bfsDistances computes hop counts from source to every reachable node.
func bfsDistances(gg *simple.UndirectedGraph, source int64) map[int64]float64 {
	distances := map[int64]float64{source: 0}
	queue := []int64{source}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		neighbors := gg.From(current)
		for neighbors.Next() {
			next := neighbors.Node().ID()
			if _, seen := distances[next]; !seen {
				distances[next] = distances[current] + 1
				queue = append(queue, next)
			}
		}
	}
	return distances
}

// torgerson2D applies classical MDS and returns the first two
// coordinate columns, zero-padded when the embedding is degenerate.
func torgerson2D(dist *mat.SymDense) (*mat.Dense, error) {
	var coords mat.Dense
	var eigenvals []float64

	k, _ := mds.TorgersonScaling(&coords, eigenvals, dist)
	if k == 0 {
		return nil, fmt.Errorf("scaling distances: no positive eigenvalues")
	}

	rows, cols := coords.Dims()
	out := mat.NewDense(rows, 2, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < 2 && j < cols; j++ {
			out.Set(i, j, coords.At(i, j))
		}
	}
	return out, nil
}

// rescale centers positions and scales the larger axis extent to
// [-scale, scale].
func rescale(pos Positions, scale float64) {
	if len(pos) == 0 || scale <= 0 {
		return
	}

	ids := make([]string, 0, len(pos))
	for id := range pos {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, id := range ids {
		p := pos[id]
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	extent := math.Max(maxX-minX, maxY-minY) / 2
	if extent == 0 {
		extent = 1
	}

	for _, id := range ids {
		p := pos[id]
		pos[id] = Point{
			X: (p.X - cx) / extent * scale,
			Y: (p.Y - cy) / extent * scale,
		}
	}
}
