package transtree

import (
	"strings"
	"testing"
)

func TestSerialize(t *testing.T) {
	c := NewCodec(WithReporter(nil))

	tests := []struct {
		name     string
		children []Node
		want     string
	}{
		{
			name:     "plain text",
			children: []Node{Text("hello world")},
			want:     "hello world",
		},
		{
			name:     "empty children",
			children: []Node{},
			want:     "",
		},
		{
			name: "element becomes indexed tag",
			children: []Node{
				Text("a"),
				&Element{Tag: "b", Children: []Node{Text("bold")}},
			},
			want: "a<1>bold</1>",
		},
		{
			name: "index follows array position",
			children: []Node{
				Text("one"),
				&Element{Tag: "x", Children: []Node{Text("two")}},
				Text("three"),
				&Element{Tag: "y", Children: []Node{Text("four")}},
			},
			want: "one<1>two</1>three<3>four</3>",
		},
		{
			name:     "childless keep-list element stays literal",
			children: []Node{Text("x"), &Element{Tag: "br"}},
			want:     "x<br/>",
		},
		{
			name: "keep-list element with single text child stays literal",
			children: []Node{
				&Element{Tag: "strong", Children: []Node{Text("bold")}},
			},
			want: "<strong>bold</strong>",
		},
		{
			name: "keep-list element with attributes becomes indexed",
			children: []Node{
				&Element{Tag: "strong", Attrs: map[string]any{"class": "x"}, Children: []Node{Text("bold")}},
			},
			want: "<0>bold</0>",
		},
		{
			name: "keep-list element with element child becomes indexed",
			children: []Node{
				&Element{Tag: "strong", Children: []Node{&Element{Tag: "br"}}},
			},
			want: "<0><br/></0>",
		},
		{
			name: "keep-list element with several children becomes indexed",
			children: []Node{
				&Element{Tag: "strong", Children: []Node{Text("a"), Text("b")}},
			},
			want: "<0>ab</0>",
		},
		{
			name:     "childless element becomes empty indexed tag",
			children: []Node{&Element{Tag: "div"}},
			want:     "<0></0>",
		},
		{
			name: "dynamic list collapses to empty tag",
			children: []Node{
				&Element{Tag: "ul", DynamicList: true, Children: []Node{
					&Element{Tag: "li", Children: []Node{Text("a")}},
					&Element{Tag: "li", Children: []Node{Text("b")}},
					&Element{Tag: "li", Children: []Node{Text("c")}},
				}},
			},
			want: "<0></0>",
		},
		{
			name:     "childless dynamic keep-list element stays literal",
			children: []Node{&Element{Tag: "br", DynamicList: true}},
			want:     "<br/>",
		},
		{
			name:     "interpolation",
			children: []Node{Var("count", 5)},
			want:     "{{count}}",
		},
		{
			name:     "interpolation with format",
			children: []Node{Var("count", 5, "number")},
			want:     "{{count, number}}",
		},
		{
			name: "nested elements number per level",
			children: []Node{
				&Element{Tag: "section", Children: []Node{
					Text("x"),
					&Element{Tag: "em", Children: []Node{Text("y")}},
				}},
			},
			want: "<0>x<1>y</1></0>",
		},
		{
			name: "mixed text markup and variable",
			children: []Node{
				Text("lorem "),
				&Element{Tag: "br"},
				Text(" ipsum "),
				Var("count", 2),
			},
			want: "lorem <br/> ipsum {{count}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Serialize(tt.children)
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSerialize_SupportBasicHTMLNodesDisabled(t *testing.T) {
	c := NewCodec(WithSupportBasicHTMLNodes(false), WithReporter(nil))

	got := c.Serialize([]Node{Text("x"), &Element{Tag: "br"}})
	if got != "x<1></1>" {
		t.Fatalf("Expected x<1></1>, got %q", got)
	}
}

func TestSerialize_CustomKeepList(t *testing.T) {
	c := NewCodec(WithKeepBasicHTMLNodesFor("em"), WithReporter(nil))

	got := c.Serialize([]Node{
		&Element{Tag: "em", Children: []Node{Text("hi")}},
		&Element{Tag: "br"},
	})
	if got != "<em>hi</em><1></1>" {
		t.Fatalf("Expected <em>hi</em><1></1>, got %q", got)
	}
}

func TestSerialize_MalformedInterpolation(t *testing.T) {
	tests := []struct {
		name  string
		child Node
	}{
		{"no entries", &Interpolation{}},
		{"two entries", &Interpolation{Entries: map[string]any{"a": 1, "b": 2}}},
		{"nil interpolation", (*Interpolation)(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var warnings []Warning
			c := NewCodec(WithReporter(CollectReporter(&warnings)))

			got := c.Serialize([]Node{tt.child})
			if got != "" {
				t.Errorf("Expected empty output, got %q", got)
			}
			if len(warnings) != 1 {
				t.Fatalf("Expected 1 warning, got %d", len(warnings))
			}
			if warnings[0].Code != WarnMalformedInterpolation {
				t.Errorf("Expected code %s, got %s", WarnMalformedInterpolation, warnings[0].Code)
			}
		})
	}
}

func TestSerialize_NilChild(t *testing.T) {
	var warnings []Warning
	c := NewCodec(WithReporter(CollectReporter(&warnings)))

	got := c.Serialize([]Node{Text("a"), nil, Text("b")})
	if got != "ab" {
		t.Fatalf("Expected ab, got %q", got)
	}
	if len(warnings) != 1 || warnings[0].Code != WarnNullChild {
		t.Fatalf("Expected one null_child warning, got %v", warnings)
	}
}

func TestSerialize_NilElement(t *testing.T) {
	var warnings []Warning
	c := NewCodec(WithReporter(CollectReporter(&warnings)))

	got := c.Serialize([]Node{(*Element)(nil)})
	if got != "" {
		t.Fatalf("Expected empty output, got %q", got)
	}
	if len(warnings) != 1 || warnings[0].Code != WarnNullChild {
		t.Fatalf("Expected one null_child warning, got %v", warnings)
	}
}

func TestSerialize_BareScalar(t *testing.T) {
	var warnings []Warning
	c := NewCodec(WithReporter(CollectReporter(&warnings)))

	got := c.Serialize(From(42))
	if got != "" {
		t.Fatalf("Expected empty output, got %q", got)
	}
	if len(warnings) != 1 || warnings[0].Code != WarnBadInterpolationUsage {
		t.Fatalf("Expected one bad_interpolation_usage warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0].Message, "interpolation") {
		t.Errorf("Expected message to point at interpolation usage, got %q", warnings[0].Message)
	}
}

func TestSerialize_ComponentMapDropped(t *testing.T) {
	var warnings []Warning
	c := NewCodec(WithReporter(CollectReporter(&warnings)))

	got := c.Serialize([]Node{Text("a"), ComponentMap{"bold": &Element{Tag: "strong"}}})
	if got != "a" {
		t.Fatalf("Expected a, got %q", got)
	}
	if len(warnings) != 1 || warnings[0].Code != WarnDroppedComponentMap {
		t.Fatalf("Expected one dropped_component_map warning, got %v", warnings)
	}
}
