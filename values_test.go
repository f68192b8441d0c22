package transtree

import (
	"reflect"
	"testing"
)

func TestCollectValues(t *testing.T) {
	c := NewCodec(WithReporter(nil))

	tests := []struct {
		name     string
		children []Node
		want     map[string]any
	}{
		{
			name:     "flat entries",
			children: []Node{Var("a", 1), Text("x"), Var("b", 2)},
			want:     map[string]any{"a": 1, "b": 2},
		},
		{
			name: "nested entries",
			children: []Node{
				&Element{Tag: "p", Children: []Node{
					Text("count: "),
					Var("count", 7),
				}},
			},
			want: map[string]any{"count": 7},
		},
		{
			name:     "later entries win",
			children: []Node{Var("k", "first"), Var("k", "second")},
			want:     map[string]any{"k": "second"},
		},
		{
			name:     "malformed interpolation entries still collected",
			children: []Node{&Interpolation{Entries: map[string]any{"a": 1, "b": 2}}},
			want:     map[string]any{"a": 1, "b": 2},
		},
		{
			name: "component maps and raw values skipped",
			children: []Node{
				ComponentMap{"bold": &Element{Tag: "strong"}},
				Raw{Value: 42},
				Text("x"),
			},
			want: map[string]any{},
		},
		{
			name:     "nil children tolerated",
			children: []Node{nil, (*Element)(nil), (*Interpolation)(nil)},
			want:     map[string]any{},
		},
		{
			name:     "empty",
			children: nil,
			want:     map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.CollectValues(tt.children)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCollectValues_FormatNotCollected(t *testing.T) {
	c := NewCodec(WithReporter(nil))

	got := c.CollectValues([]Node{Var("price", 9.99, "currency")})
	want := map[string]any{"price": 9.99}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
}
