package params

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want PerLevel[any]
	}{
		{name: "scalar broadcast", in: 9.0, want: PerLevel[any]{Level0: 9.0, Level1: 9.0}},
		{name: "string broadcast", in: "degree", want: PerLevel[any]{Level0: "degree", Level1: "degree"}},
		{name: "nil broadcast", in: nil, want: PerLevel[any]{}},
		{name: "pair", in: []any{"age", "food"}, want: PerLevel[any]{Level0: "age", Level1: "food"}},
		{name: "array pair", in: [2]any{1, 2}, want: PerLevel[any]{Level0: 1, Level1: 2}},
		{name: "single element slice", in: []any{"x"}, want: PerLevel[any]{Level0: "x", Level1: "x"}},
		{name: "empty slice", in: []any{}, want: PerLevel[any]{}},
		{name: "extra entries ignored", in: []any{1, 2, 3}, want: PerLevel[any]{Level0: 1, Level1: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPerLevelAt(t *testing.T) {
	p := FromPair("a", "b")
	if p.At(0) != "a" {
		t.Errorf("At(0) = %q, want a", p.At(0))
	}
	if p.At(1) != "b" {
		t.Errorf("At(1) = %q, want b", p.At(1))
	}
}

func TestIsNodeAttribute(t *testing.T) {
	r := NewResolver(
		map[string]bool{"degree": true, "age": true, "food": true},
		map[string]bool{"weight": true},
	)

	tests := []struct {
		name string
		in   any
		want PerLevel[bool]
	}{
		{name: "known name", in: "degree", want: Broadcast(true)},
		{name: "unknown name", in: "firebrick", want: Broadcast(false)},
		{name: "edge attr is not a node attr", in: "weight", want: Broadcast(false)},
		{name: "number", in: 12, want: Broadcast(false)},
		{name: "mixed pair", in: []any{"age", "steelblue"}, want: FromPair(true, false)},
		{name: "attr pair", in: []any{"age", "food"}, want: FromPair(true, true)},
		{name: "pair is unpacked before lookup", in: []any{"degree", "degree"}, want: Broadcast(true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.IsNodeAttribute(tt.in)
			if got != tt.want {
				t.Errorf("IsNodeAttribute(%v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsEdgeAttribute(t *testing.T) {
	r := NewResolver(
		map[string]bool{"degree": true},
		map[string]bool{"weight": true},
	)

	if !r.IsEdgeAttribute("weight") {
		t.Error("weight should be an edge attribute")
	}
	if r.IsEdgeAttribute("degree") {
		t.Error("node attribute leaked into edge lookup")
	}
	if r.IsEdgeAttribute(0.6) {
		t.Error("numbers are never attribute names")
	}
}

func TestResolveNode(t *testing.T) {
	r := NewResolver(map[string]bool{"age": true}, nil)

	got := r.ResolveNode([]any{"age", "firebrick"})
	if got.Level0.Kind != AttrRef || got.Level0.Attr != "age" {
		t.Errorf("level 0 = %+v, want attr ref to age", got.Level0)
	}
	if got.Level1.Kind != Literal || got.Level1.Value != "firebrick" {
		t.Errorf("level 1 = %+v, want literal firebrick", got.Level1)
	}

	got = r.ResolveNode(7.5)
	if got.Level0.Kind != Literal || got.Level0.Value != 7.5 {
		t.Errorf("scalar = %+v, want broadcast literal", got.Level0)
	}
	if got.Level0 != got.Level1 {
		t.Errorf("scalar did not broadcast: %+v vs %+v", got.Level0, got.Level1)
	}
}

func TestResolveEdge(t *testing.T) {
	r := NewResolver(nil, map[string]bool{"weight": true})

	got := r.ResolveEdge("weight")
	if got.Kind != AttrRef || got.Attr != "weight" {
		t.Errorf("ResolveEdge(weight) = %+v, want attr ref", got)
	}

	got = r.ResolveEdge("navy")
	if got.Kind != Literal || got.Value != "navy" {
		t.Errorf("ResolveEdge(navy) = %+v, want literal", got)
	}
}
