// Package params normalizes draw parameters into per-level channel
// bindings.
//
// A caller may pass a visual channel as a single literal, a graph
// attribute name, or a two-entry pair (one per bipartite partition
// level). Normalization happens once, up front: pairs become explicit
// PerLevel values and each slot is classified as a literal or an
// attribute reference against the graph's observed attribute-name sets.
package params

// PerLevel holds one value per bipartite partition level.
type PerLevel[T any] struct {
	Level0 T
	Level1 T
}

// Broadcast duplicates a single value into both level slots.
func Broadcast[T any](v T) PerLevel[T] {
	return PerLevel[T]{Level0: v, Level1: v}
}

// FromPair builds a PerLevel from two explicit values.
func FromPair[T any](level0, level1 T) PerLevel[T] {
	return PerLevel[T]{Level0: level0, Level1: level1}
}

// At returns the slot for a partition level. Level 0 selects Level0,
// anything else Level1.
func (p PerLevel[T]) At(level int) T {
	if level == 0 {
		return p.Level0
	}
	return p.Level1
}

// Normalize converts a raw channel input into a per-level pair.
// Slices are treated as already paired; strings and scalars are
// broadcast into both slots. Strings are never split.
func Normalize(v any) PerLevel[any] {
	switch x := v.(type) {
	case []any:
		switch len(x) {
		case 0:
			return Broadcast[any](nil)
		case 1:
			return Broadcast(x[0])
		default:
			return FromPair(x[0], x[1])
		}
	case [2]any:
		return FromPair(x[0], x[1])
	default:
		return Broadcast(v)
	}
}

// BindingKind distinguishes literal channel values from attribute
// references.
type BindingKind int

const (
	// Literal marks a value applied uniformly to every entity.
	Literal BindingKind = iota
	// AttrRef marks a graph attribute name to be resolved per entity
	// and mapped through a ColorMap.
	AttrRef
)

// Binding is one resolved channel slot.
type Binding struct {
	Kind  BindingKind
	Value any    // the literal value (also set to the name for AttrRef)
	Attr  string // attribute name when Kind == AttrRef
}

// Resolver classifies channel inputs against a graph's observed
// node and edge attribute-name sets. Construct one per draw call.
type Resolver struct {
	nodeAttrs map[string]bool
	edgeAttrs map[string]bool
}

// NewResolver creates a resolver over the observed attribute-name sets.
func NewResolver(nodeAttrs, edgeAttrs map[string]bool) *Resolver {
	return &Resolver{nodeAttrs: nodeAttrs, edgeAttrs: edgeAttrs}
}

// IsNodeAttribute reports, per partition level, whether the input names
// a known node attribute. Literal sequences are never attribute names:
// a pair is unpacked first and each slot judged on its own.
func (r *Resolver) IsNodeAttribute(v any) PerLevel[bool] {
	pair := Normalize(v)
	return FromPair(
		isAttr(pair.Level0, r.nodeAttrs),
		isAttr(pair.Level1, r.nodeAttrs),
	)
}

// IsEdgeAttribute reports whether the input names a known edge
// attribute. Edges are never partitioned, so the answer is a single
// boolean.
func (r *Resolver) IsEdgeAttribute(v any) bool {
	return isAttr(v, r.edgeAttrs)
}

// ResolveNode normalizes a node channel input into per-level bindings.
func (r *Resolver) ResolveNode(v any) PerLevel[Binding] {
	pair := Normalize(v)
	return FromPair(
		bind(pair.Level0, r.nodeAttrs),
		bind(pair.Level1, r.nodeAttrs),
	)
}

// ResolveEdge normalizes an edge channel input into a single binding.
func (r *Resolver) ResolveEdge(v any) Binding {
	return bind(v, r.edgeAttrs)
}

func isAttr(v any, attrs map[string]bool) bool {
	s, ok := v.(string)
	return ok && attrs[s]
}

func bind(v any, attrs map[string]bool) Binding {
	if s, ok := v.(string); ok && attrs[s] {
		return Binding{Kind: AttrRef, Value: s, Attr: s}
	}
	return Binding{Kind: Literal, Value: v}
}
