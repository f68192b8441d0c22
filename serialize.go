package transtree

import (
	"fmt"
	"strconv"
	"strings"
)

// Serialize flattens children into the placeholder string shown to
// translators: text stays verbatim, elements become numbered placeholder
// tags or literal keep-list tags, interpolations become {{name}} slots.
// Invalid children are reported and dropped.
func (c *Codec) Serialize(children []Node) string {
	var b strings.Builder
	c.serializeInto(&b, children)
	return b.String()
}

func (c *Codec) serializeInto(b *strings.Builder, children []Node) {
	for i, child := range children {
		c.serializeChild(b, child, i)
	}
}

func (c *Codec) serializeChild(b *strings.Builder, child Node, index int) {
	switch child := child.(type) {
	case nil:
		c.warn(WarnNullChild, "nil child dropped from serialization")
	case Text:
		b.WriteString(string(child))
	case *Element:
		if child == nil {
			c.warn(WarnNullChild, "nil element dropped from serialization")
			return
		}
		c.serializeElement(b, child, index)
	case *Interpolation:
		c.serializeInterpolation(b, child)
	case ComponentMap:
		c.warn(WarnDroppedComponentMap, "component map is only valid as the sole root child; dropped")
	default:
		c.warn(WarnBadInterpolationUsage, fmt.Sprintf("bare %T child cannot be serialized; wrap values in an interpolation", child))
	}
}

func (c *Codec) serializeElement(b *strings.Builder, el *Element, index int) {
	keepBare := c.supportBasicHTMLNodes && c.keepTag(el.Tag) && len(el.Attrs) == 0

	if len(el.Children) == 0 {
		if keepBare {
			b.WriteString("<")
			b.WriteString(el.Tag)
			b.WriteString("/>")
			return
		}
		writeIndexTag(b, index, "")
		return
	}

	if el.DynamicList {
		// Runtime-generated children stay opaque to translators.
		writeIndexTag(b, index, "")
		return
	}

	if keepBare && len(el.Children) == 1 {
		if text, ok := el.Children[0].(Text); ok {
			b.WriteString("<")
			b.WriteString(el.Tag)
			b.WriteString(">")
			b.WriteString(string(text))
			b.WriteString("</")
			b.WriteString(el.Tag)
			b.WriteString(">")
			return
		}
	}

	var inner strings.Builder
	c.serializeInto(&inner, el.Children)
	writeIndexTag(b, index, inner.String())
}

func (c *Codec) serializeInterpolation(b *strings.Builder, v *Interpolation) {
	if v == nil || len(v.Entries) != 1 {
		n := 0
		if v != nil {
			n = len(v.Entries)
		}
		c.warn(WarnMalformedInterpolation, fmt.Sprintf("interpolation must carry exactly one entry, got %d", n))
		return
	}
	var name string
	for k := range v.Entries {
		name = k
	}
	if v.Format != "" {
		fmt.Fprintf(b, "{{%s, %s}}", name, v.Format)
		return
	}
	fmt.Fprintf(b, "{{%s}}", name)
}

func writeIndexTag(b *strings.Builder, index int, content string) {
	name := strconv.Itoa(index)
	b.WriteString("<")
	b.WriteString(name)
	b.WriteString(">")
	b.WriteString(content)
	b.WriteString("</")
	b.WriteString(name)
	b.WriteString(">")
}
