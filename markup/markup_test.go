package markup

import (
	"reflect"
	"testing"
)

func TestParse_NumericTags(t *testing.T) {
	nodes := Parse("lorem <0>bold</0> ipsum")

	if len(nodes) != 3 {
		t.Fatalf("Expected 3 nodes, got %d", len(nodes))
	}

	if nodes[0] != Text("lorem ") {
		t.Errorf("Expected leading text, got %#v", nodes[0])
	}

	tag, ok := nodes[1].(*Tag)
	if !ok {
		t.Fatalf("Expected tag node, got %#v", nodes[1])
	}
	if tag.Name != "0" {
		t.Errorf("Expected tag name 0, got %q", tag.Name)
	}
	if tag.Void {
		t.Error("Expected paired tag, got void")
	}
	if len(tag.Children) != 1 || tag.Children[0] != Text("bold") {
		t.Errorf("Expected single text child, got %#v", tag.Children)
	}

	if nodes[2] != Text(" ipsum") {
		t.Errorf("Expected trailing text, got %#v", nodes[2])
	}
}

func TestParse_Nesting(t *testing.T) {
	nodes := Parse("<0>a<1>b</1>c</0>")

	if len(nodes) != 1 {
		t.Fatalf("Expected 1 root node, got %d", len(nodes))
	}
	outer := nodes[0].(*Tag)
	if len(outer.Children) != 3 {
		t.Fatalf("Expected 3 children, got %d", len(outer.Children))
	}
	inner, ok := outer.Children[1].(*Tag)
	if !ok || inner.Name != "1" {
		t.Fatalf("Expected nested tag 1, got %#v", outer.Children[1])
	}
	if len(inner.Children) != 1 || inner.Children[0] != Text("b") {
		t.Errorf("Expected text child b, got %#v", inner.Children)
	}
}

func TestParse_Attributes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		attrs map[string]string
	}{
		{"double quoted", `<0 title="hello world">x</0>`, map[string]string{"title": "hello world"}},
		{"single quoted", `<0 title='hi'>x</0>`, map[string]string{"title": "hi"}},
		{"bare", `<0 id=main>x</0>`, map[string]string{"id": "main"}},
		{"valueless", `<0 hidden>x</0>`, map[string]string{"hidden": ""}},
		{"multiple", `<0 a="1" b="2">x</0>`, map[string]string{"a": "1", "b": "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := Parse(tt.input)
			if len(nodes) != 1 {
				t.Fatalf("Expected 1 node, got %d", len(nodes))
			}
			tag := nodes[0].(*Tag)
			if !reflect.DeepEqual(tag.Attrs, tt.attrs) {
				t.Errorf("Expected attrs %v, got %v", tt.attrs, tag.Attrs)
			}
		})
	}
}

func TestParse_VoidElements(t *testing.T) {
	nodes := Parse("a<br/>b<hr>c<0/>")

	if len(nodes) != 6 {
		t.Fatalf("Expected 6 nodes, got %d", len(nodes))
	}
	br := nodes[1].(*Tag)
	if !br.Void {
		t.Error("Expected <br/> to be void")
	}
	hr := nodes[3].(*Tag)
	if !hr.Void {
		t.Error("Expected bare <hr> to be void")
	}
	if len(hr.Children) != 0 {
		t.Errorf("Expected void tag to stay childless, got %#v", hr.Children)
	}
	selfClosed := nodes[5].(*Tag)
	if !selfClosed.Void || selfClosed.Name != "0" {
		t.Errorf("Expected self-closed numeric tag, got %#v", selfClosed)
	}
}

func TestParse_LiteralAngleBrackets(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"5 < 3 items", "5 < 3 items"},
		{"i <3 go", "i <3 go"},
		{"a < b > c", "a < b > c"},
		{"trailing <", "trailing <"},
	}

	for _, tt := range tests {
		nodes := Parse(tt.input)
		if len(nodes) != 1 {
			t.Fatalf("Parse(%q): expected 1 text node, got %#v", tt.input, nodes)
		}
		if nodes[0] != Text(tt.want) {
			t.Errorf("Parse(%q): expected %q, got %#v", tt.input, tt.want, nodes[0])
		}
	}
}

func TestParse_StrayCloseTagIgnored(t *testing.T) {
	nodes := Parse("a</0>b")

	if len(nodes) != 1 || nodes[0] != Text("ab") {
		t.Errorf("Expected merged text ab, got %#v", nodes)
	}
}

func TestParse_UnclosedTagClosesAtEOF(t *testing.T) {
	nodes := Parse("<0>dangling")

	if len(nodes) != 1 {
		t.Fatalf("Expected 1 node, got %d", len(nodes))
	}
	tag := nodes[0].(*Tag)
	if tag.Name != "0" {
		t.Errorf("Expected tag 0, got %q", tag.Name)
	}
	if len(tag.Children) != 1 || tag.Children[0] != Text("dangling") {
		t.Errorf("Expected dangling text child, got %#v", tag.Children)
	}
}

func TestParse_MismatchedCloseAutoCloses(t *testing.T) {
	// </0> closes both the inner <1> and the outer <0>.
	nodes := Parse("<0><1>a</0>b")

	if len(nodes) != 2 {
		t.Fatalf("Expected 2 root nodes, got %#v", nodes)
	}
	outer := nodes[0].(*Tag)
	inner := outer.Children[0].(*Tag)
	if inner.Name != "1" || inner.Children[0] != Text("a") {
		t.Errorf("Expected inner tag 1 with text a, got %#v", inner)
	}
	if nodes[1] != Text("b") {
		t.Errorf("Expected trailing text at root, got %#v", nodes[1])
	}
}

func TestParse_CommentsDropped(t *testing.T) {
	nodes := Parse("a<!-- note -->b")

	if len(nodes) != 1 || nodes[0] != Text("ab") {
		t.Errorf("Expected comment stripped, got %#v", nodes)
	}
}

func TestParse_WhitespacePreserved(t *testing.T) {
	nodes := Parse("  <0> x </0>  ")

	if nodes[0] != Text("  ") {
		t.Errorf("Expected leading whitespace preserved, got %#v", nodes[0])
	}
	tag := nodes[1].(*Tag)
	if tag.Children[0] != Text(" x ") {
		t.Errorf("Expected inner whitespace preserved, got %#v", tag.Children[0])
	}
	if nodes[2] != Text("  ") {
		t.Errorf("Expected trailing whitespace preserved, got %#v", nodes[2])
	}
}

func TestParse_EntitiesLeftRaw(t *testing.T) {
	nodes := Parse("x &amp; y")

	if len(nodes) != 1 || nodes[0] != Text("x &amp; y") {
		t.Errorf("Expected entities untouched, got %#v", nodes)
	}
}

func TestRender_RoundTrip(t *testing.T) {
	inputs := []string{
		"lorem <0>bold</0> ipsum",
		"<0>a<1>b</1>c</0>",
		"a<br/>b",
		"plain text",
		"{{count}} items",
	}

	for _, input := range inputs {
		if got := Render(Parse(input)); got != input {
			t.Errorf("Render(Parse(%q)) = %q", input, got)
		}
	}
}

func TestRender_SortsAttributes(t *testing.T) {
	tag := &Tag{Name: "0", Attrs: map[string]string{"z": "1", "a": "2"}}

	got := Render([]Node{tag})
	want := `<0 a="2" z="1"></0>`
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
