package transtree

// Node is a single child in a renderable tree: a Text leaf, an *Element, an
// *Interpolation, a ComponentMap or a Raw value. A nil Node is tolerated
// everywhere and reported as a warning by the Serializer.
type Node interface {
	isNode()
}

// Text is a literal text child. It serializes verbatim.
type Text string

func (Text) isNode() {}

// Element is a structural child: a tag with attributes and nested children.
// The Serializer encodes elements as numbered placeholder tags (or literal
// tags for the keep-list); the Reconciler re-attaches them by position.
type Element struct {
	Tag         string
	Attrs       map[string]any
	Children    []Node
	DynamicList bool   // children vary at runtime; kept opaque to translators
	Key         string // set on clones produced by the Reconciler
}

func (*Element) isNode() {}

// Interpolation is a named value slot, serialized as {{name}} or
// {{name, format}}. Exactly one entry is required for serialization;
// Format rides along and never counts as an entry.
type Interpolation struct {
	Entries map[string]any
	Format  string
}

func (*Interpolation) isNode() {}

// ComponentMap names original elements so translated strings can address
// them as <name>...</name> instead of by position. It is honored only as
// the sole entry of the original children slice.
type ComponentMap map[string]Node

func (ComponentMap) isNode() {}

// Raw wraps a child value the tree model does not allow, such as a bare
// number. The Serializer reports it and emits nothing for it.
type Raw struct {
	Value any
}

func (Raw) isNode() {}

// Var builds a single-entry Interpolation. An optional format name selects
// the {{name, format}} form.
func Var(name string, value any, format ...string) *Interpolation {
	v := &Interpolation{Entries: map[string]any{name: value}}
	if len(format) > 0 {
		v.Format = format[0]
	}
	return v
}

// From converts loosely typed children into nodes: strings become Text,
// maps become Interpolations, existing nodes pass through, and anything
// else is wrapped in Raw so the Serializer can report it.
func From(values ...any) []Node {
	nodes := make([]Node, 0, len(values))
	for _, v := range values {
		nodes = append(nodes, nodeFrom(v))
	}
	return nodes
}

func nodeFrom(v any) Node {
	switch v := v.(type) {
	case nil:
		return nil
	case Node:
		return v
	case string:
		return Text(v)
	case map[string]any:
		return &Interpolation{Entries: v}
	default:
		return Raw{Value: v}
	}
}
