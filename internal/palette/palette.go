// Package palette provides the catalog of named palettes: discrete
// categorical scales available at fixed sizes, continuous perceptual
// scales generatable at any size up to 256, evenly spaced numeric
// levels, and random colors.
package palette

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// MaxSize is the hard cap on palette size.
const MaxSize = 256

// MinDiscreteSize is the smallest size a discrete catalog entry supports.
const MinDiscreteSize = 3

// Mark is a single visual mark: a hex color string or a numeric level
// in (0, 1]. Exactly one of the two fields is meaningful.
type Mark struct {
	Hex   string
	Level float64
}

// Numeric reports whether the mark is a numeric level rather than a color.
func (m Mark) Numeric() bool {
	return m.Hex == ""
}

// String renders the mark as its hex color or formatted level.
func (m Mark) String() string {
	if m.Numeric() {
		return fmt.Sprintf("%g", m.Level)
	}
	return m.Hex
}

type rgb struct {
	r, g, b uint8
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}

// discrete holds the categorical palettes. A request for n colors takes
// the first n entries of the table; sizes beyond the table length are
// not available.
var discrete = map[string][]string{
	"Category10": {
		"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
		"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
	},
	"Category20": {
		"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
		"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
		"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
		"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
	},
	// Paul Tol's colorblind-safe qualitative scale.
	"Tol": {
		"#4477aa", "#ee6677", "#228833", "#ccbb44", "#66ccee",
		"#aa3377", "#bbbbbb", "#ee8866", "#44bb99", "#ffaabb",
	},
}

// continuous holds the RGB anchor tables of the perceptual scales.
// Arbitrary sizes are produced by linear interpolation over the anchors.
// Lookup is case-insensitive so "Viridis" and "viridis" name the same scale.
var continuous = map[string][]rgb{
	"viridis": {
		{68, 1, 84}, {72, 35, 116}, {64, 67, 135}, {52, 94, 141},
		{41, 120, 142}, {32, 144, 140}, {34, 167, 132}, {68, 190, 112},
		{121, 209, 81}, {189, 222, 38}, {253, 231, 37},
	},
	"plasma": {
		{13, 8, 135}, {75, 3, 161}, {125, 3, 168}, {168, 34, 150},
		{203, 70, 121}, {229, 107, 93}, {248, 148, 65}, {253, 195, 40},
		{240, 249, 33},
	},
	"inferno": {
		{0, 0, 4}, {40, 11, 84}, {101, 21, 110}, {159, 42, 99},
		{212, 72, 66}, {245, 125, 21}, {250, 193, 39}, {252, 255, 164},
	},
	"magma": {
		{0, 0, 4}, {28, 16, 68}, {79, 18, 123}, {129, 37, 129},
		{181, 54, 122}, {229, 80, 100}, {251, 135, 97}, {254, 194, 135},
		{252, 253, 191},
	},
	"cividis": {
		{0, 34, 78}, {42, 63, 108}, {84, 93, 110}, {121, 121, 120},
		{161, 152, 118}, {203, 185, 103}, {255, 234, 70},
	},
	"turbo": {
		{48, 18, 59}, {70, 107, 227}, {40, 188, 235}, {62, 238, 150},
		{170, 245, 57}, {252, 188, 58}, {240, 97, 36}, {122, 4, 3},
	},
	"grey": {
		{0, 0, 0}, {255, 255, 255},
	},
	"gray": {
		{0, 0, 0}, {255, 255, 255},
	},
}

// IsDiscrete reports whether name is a discrete catalog entry.
func IsDiscrete(name string) bool {
	_, ok := discrete[name]
	return ok
}

// IsContinuous reports whether name is a continuous scale.
func IsContinuous(name string) bool {
	_, ok := continuous[strings.ToLower(name)]
	return ok
}

// Discrete returns the first n colors of a discrete palette. The second
// return is false when the name is unknown or the size unsupported.
func Discrete(name string, n int) ([]Mark, bool) {
	colors, ok := discrete[name]
	if !ok || n < MinDiscreteSize || n > len(colors) {
		return nil, false
	}
	marks := make([]Mark, n)
	for i := 0; i < n; i++ {
		marks[i] = Mark{Hex: colors[i]}
	}
	return marks, true
}

// DiscreteSizes returns the supported size range of a discrete palette.
func DiscreteSizes(name string) (min, max int, ok bool) {
	colors, exists := discrete[name]
	if !exists {
		return 0, 0, false
	}
	return MinDiscreteSize, len(colors), true
}

// Continuous generates n colors from a continuous scale by interpolating
// its anchor table. The second return is false when the name is unknown
// or n is outside [1, MaxSize].
func Continuous(name string, n int) ([]Mark, bool) {
	anchors, ok := continuous[strings.ToLower(name)]
	if !ok || n < 1 || n > MaxSize {
		return nil, false
	}
	marks := make([]Mark, n)
	for i := 0; i < n; i++ {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		marks[i] = Mark{Hex: interpolate(anchors, t).hex()}
	}
	return marks, true
}

// interpolate evaluates the anchor table at t in [0, 1].
func interpolate(anchors []rgb, t float64) rgb {
	if t <= 0 {
		return anchors[0]
	}
	if t >= 1 {
		return anchors[len(anchors)-1]
	}
	pos := t * float64(len(anchors)-1)
	lower := int(pos)
	upper := lower + 1
	if upper >= len(anchors) {
		upper = len(anchors) - 1
	}
	frac := pos - float64(lower)
	a, b := anchors[lower], anchors[upper]
	return rgb{
		r: uint8(float64(a.r) + frac*(float64(b.r)-float64(a.r))),
		g: uint8(float64(a.g) + frac*(float64(b.g)-float64(a.g))),
		b: uint8(float64(a.b) + frac*(float64(b.b)-float64(a.b))),
	}
}

// Numeric generates n evenly spaced levels i/n for i = 1..n. The first
// value is 1/n, never 0, so the smallest mark stays visible.
func Numeric(n int) []Mark {
	marks := make([]Mark, n)
	for i := range marks {
		marks[i] = Mark{Level: float64(i+1) / float64(n)}
	}
	return marks
}

// Random generates n independently drawn RGB colors, each channel
// uniform over [0, 255].
func Random(n int) []Mark {
	marks := make([]Mark, n)
	for i := range marks {
		c := rgb{
			r: uint8(rand.Intn(256)),
			g: uint8(rand.Intn(256)),
			b: uint8(rand.Intn(256)),
		}
		marks[i] = Mark{Hex: c.hex()}
	}
	return marks
}

// Names returns all palette names in the catalog, sorted, with the
// continuous scales in lowercase form.
func Names() []string {
	names := make([]string, 0, len(discrete)+len(continuous))
	for name := range discrete {
		names = append(names, name)
	}
	for name := range continuous {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
