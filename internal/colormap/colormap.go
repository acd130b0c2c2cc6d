// Package colormap maps raw attribute value sequences onto palette marks.
//
// A ColorMap is constructed fresh per draw call per channel. Mapping
// preserves input order and length; distinct values are assigned palette
// entries in ascending sorted order so identical inputs always produce
// identical output across runs. When the number of distinct numeric
// values exceeds the configured budget, the input is binned to evenly
// spaced anchors spanning [min, max] before mapping.
package colormap

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/graphplot/graphplot/internal/palette"
)

// Palette selector names handled outside the catalog.
const (
	PaletteNumeric = "numeric"
	PaletteRandom  = "random"
)

// ConfigurationError is the single error kind raised by this package.
// It is fatal to the current draw: no partial results are returned.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return e.Msg + "\n" + remediationHint()
}

// IsConfigurationError reports whether err is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

func configErrorf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// remediationHint enumerates valid palette names and the binning escape
// hatch. Appended to every ConfigurationError.
func remediationHint() string {
	return fmt.Sprintf(`Ensure the styled attribute and palette are valid.

Available palettes with up to %d colors:
  %s
Special selectors: %q (opacity/size levels), %q (random colors).

For attributes with more than %d categories, set max_colors to a value
0 < max_colors <= %d to bin numeric values into that many anchors.`,
		palette.MaxSize,
		strings.Join(palette.Names(), ", "),
		PaletteNumeric, PaletteRandom,
		palette.MaxSize, palette.MaxSize)
}

// ColorMap maps a value sequence onto the marks of one palette.
type ColorMap struct {
	paletteName string
	maxColors   int
	anchors     []float64 // set when Map binned the input
}

// New creates a ColorMap for the given palette selector and category
// budget. maxColors = -1 means unbounded (up to 256 distinct marks).
// Budgets above 256 fail for every selector except numeric.
func New(paletteName string, maxColors int) (*ColorMap, error) {
	if maxColors > palette.MaxSize && paletteName != PaletteNumeric {
		return nil, configErrorf("max number of colors is %d", palette.MaxSize)
	}
	return &ColorMap{paletteName: paletteName, maxColors: maxColors}, nil
}

// MaxColors returns the current effective category budget. Map updates
// it to the number of distinct (possibly binned) values it saw.
func (c *ColorMap) MaxColors() int {
	return c.maxColors
}

// Anchors returns the binning anchors of the last Map call, or nil if
// no binning occurred.
func (c *ColorMap) Anchors() []float64 {
	return c.anchors
}

// CreatePalette returns the ordered mark sequence for the current
// effective budget.
func (c *ColorMap) CreatePalette() ([]palette.Mark, error) {
	n := c.maxColors
	if n <= 0 {
		return nil, configErrorf(
			"palette size is unresolved: set max_colors > 0 or call Map first")
	}

	switch {
	case c.paletteName == PaletteNumeric:
		return palette.Numeric(n), nil

	case c.paletteName == PaletteRandom:
		if n > palette.MaxSize {
			return nil, configErrorf("max number of colors is %d", palette.MaxSize)
		}
		return palette.Random(n), nil

	case palette.IsContinuous(c.paletteName):
		marks, ok := palette.Continuous(c.paletteName, n)
		if !ok {
			return nil, configErrorf(
				"palette %q does not support %d colors", c.paletteName, n)
		}
		return marks, nil

	case palette.IsDiscrete(c.paletteName):
		if n <= 2 {
			// Binary distinctions take the first and last entry of the
			// 3-color variant for maximal contrast.
			base, ok := palette.Discrete(c.paletteName, palette.MinDiscreteSize)
			if !ok {
				return nil, configErrorf(
					"palette %q does not support %d colors", c.paletteName, n)
			}
			if n == 1 {
				return base[:1], nil
			}
			return []palette.Mark{base[0], base[len(base)-1]}, nil
		}
		marks, ok := palette.Discrete(c.paletteName, n)
		if !ok {
			return nil, configErrorf(
				"palette %q does not exist or support %d colors", c.paletteName, n)
		}
		return marks, nil

	default:
		return nil, configErrorf("palette %q does not exist", c.paletteName)
	}
}

// Map turns a raw value sequence into a same-length, same-order mark
// sequence. Distinct values are assigned palette entries in ascending
// order; duplicates share the same mark.
func (c *ColorMap) Map(values []any) ([]palette.Mark, error) {
	if len(values) == 0 {
		return nil, nil
	}
	canonical := make([]any, len(values))
	for i, v := range values {
		if !comparableValue(v) {
			return nil, configErrorf(
				"cannot use attribute value of type %T as a category: use scalar attribute values", v)
		}
		canonical[i] = canon(v)
	}

	categories := distinct(canonical)
	n := len(categories)

	switch {
	case c.maxColors > 0:
		if n > c.maxColors {
			binned, err := c.reduceCategories(canonical, c.maxColors)
			if err != nil {
				return nil, err
			}
			canonical = binned
			categories = distinct(canonical)
		}
		c.maxColors = len(categories)

	case n <= palette.MaxSize || c.paletteName == PaletteNumeric:
		c.maxColors = n

	default:
		return nil, configErrorf(
			"too many categories in attribute (%d): set max_colors to a value 0 < max_colors <= %d",
			n, palette.MaxSize)
	}

	marks, err := c.CreatePalette()
	if err != nil {
		return nil, err
	}

	sortValues(categories)
	mapping := make(map[any]palette.Mark, len(categories))
	for i, cat := range categories {
		mapping[cat] = marks[i]
	}

	out := make([]palette.Mark, len(canonical))
	for i, v := range canonical {
		out[i] = mapping[v]
	}
	return out, nil
}

// reduceCategories snaps each value to the nearest of steps evenly
// spaced anchors spanning [min, max]. Requires numeric input.
func (c *ColorMap) reduceCategories(values []any, steps int) ([]any, error) {
	nums := make([]float64, len(values))
	for i, v := range values {
		f, ok := toFloat(v)
		if !ok {
			return nil, configErrorf(
				"cannot bin non-numeric attribute value %v: remove max_colors or use a numeric attribute", v)
		}
		nums[i] = f
	}

	lo, hi := nums[0], nums[0]
	for _, f := range nums[1:] {
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}

	c.anchors = make([]float64, steps)
	for i := range c.anchors {
		if steps == 1 {
			c.anchors[i] = lo
			continue
		}
		c.anchors[i] = lo + (hi-lo)*float64(i)/float64(steps-1)
	}

	out := make([]any, len(nums))
	for i, f := range nums {
		out[i] = nearest(c.anchors, f)
	}
	return out, nil
}

// nearest returns the anchor closest to v. Anchors are sorted ascending.
func nearest(anchors []float64, v float64) float64 {
	best := anchors[0]
	bestDist := math.Abs(v - best)
	for _, a := range anchors[1:] {
		d := math.Abs(v - a)
		if d < bestDist {
			best = a
			bestDist = d
		}
	}
	return best
}

// distinct returns the unique values of a sequence in first-seen order.
func distinct(values []any) []any {
	seen := make(map[any]bool, len(values))
	var out []any
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// comparableValue reports whether v can serve as a category map key.
// JSON attribute values may be slices or maps, which cannot be hashed.
func comparableValue(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

// canon normalizes numeric kinds to float64 so 1 and 1.0 are one category.
func canon(v any) any {
	if f, ok := toFloat(v); ok {
		return f
	}
	return v
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}

// sortValues orders mixed-kind values deterministically: booleans before
// numbers before strings before everything else, each group ascending.
func sortValues(values []any) {
	sort.SliceStable(values, func(i, j int) bool {
		return less(values[i], values[j])
	})
}

func less(a, b any) bool {
	ra, rb := kindRank(a), kindRank(b)
	if ra != rb {
		return ra < rb
	}
	switch ra {
	case 0:
		return !a.(bool) && b.(bool)
	case 1:
		fa, _ := toFloat(a)
		fb, _ := toFloat(b)
		return fa < fb
	case 2:
		return a.(string) < b.(string)
	default:
		return fmt.Sprint(a) < fmt.Sprint(b)
	}
}

func kindRank(v any) int {
	switch v.(type) {
	case bool:
		return 0
	case string:
		return 2
	default:
		if _, ok := toFloat(v); ok {
			return 1
		}
		return 3
	}
}
