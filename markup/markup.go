// Package markup parses the lenient placeholder markup used inside
// translation strings.
//
// The grammar is a permissive subset of HTML: tag names may be numeric
// (<0>, <1>) or alphabetic (<strong>), attributes use double quotes, single
// quotes or no quotes, and self-closing syntax plus the HTML void-element
// set mark tags as childless. Parsing never fails: stray close tags are
// dropped, unclosed tags close at end of input, and a "<" that never forms
// a tag stays literal text. Entities are not decoded.
package markup

import (
	"sort"
	"strings"
)

// Node is a parsed markup node: either a *Tag or a Text leaf.
type Node interface {
	isNode()
}

// Text is a literal text segment between tags.
type Text string

func (Text) isNode() {}

// Tag is a markup element with a name, attributes and child nodes.
type Tag struct {
	Name     string
	Attrs    map[string]string
	Children []Node
	Void     bool // self-closed or an HTML void element
}

func (*Tag) isNode() {}

// voidElements never take children even without self-closing syntax.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Parse parses s into a node forest.
func Parse(s string) []Node {
	p := &parser{input: s}
	return p.parse()
}

type parser struct {
	input string
	pos   int
	root  []Node
	stack []*Tag
}

func (p *parser) parse() []Node {
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			p.append(Text(text.String()))
			text.Reset()
		}
	}
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c != '<' {
			text.WriteByte(c)
			p.pos++
			continue
		}
		if strings.HasPrefix(p.input[p.pos:], "<!--") {
			if end := strings.Index(p.input[p.pos+4:], "-->"); end >= 0 {
				p.pos += 4 + end + 3
				continue
			}
		}
		start := p.pos
		if tag, closing, ok := p.readTag(); ok {
			switch {
			case closing:
				// Unmatched closers vanish without splitting the text
				// around them.
				if p.isOpen(tag.Name) {
					flush()
					p.close(tag.Name)
				}
			case tag.Void:
				flush()
				p.append(tag)
			default:
				flush()
				p.append(tag)
				p.stack = append(p.stack, tag)
			}
			continue
		}
		// Not a tag after all; the "<" is literal text.
		p.pos = start + 1
		text.WriteByte('<')
	}
	flush()
	return p.root
}

func (p *parser) append(n Node) {
	if len(p.stack) == 0 {
		p.root = append(p.root, n)
		return
	}
	top := p.stack[len(p.stack)-1]
	top.Children = append(top.Children, n)
}

// close pops the stack down to the nearest open tag with the given name.
func (p *parser) close(name string) {
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].Name == name {
			p.stack = p.stack[:i]
			return
		}
	}
}

func (p *parser) isOpen(name string) bool {
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].Name == name {
			return true
		}
	}
	return false
}

// readTag parses one tag starting at p.pos, which must point at '<'. It
// reports whether a well-formed tag was found; only then is the position
// advanced past the final '>'.
func (p *parser) readTag() (tag *Tag, closing, ok bool) {
	i := p.pos + 1
	if i < len(p.input) && p.input[i] == '/' {
		closing = true
		i++
	}
	nameStart := i
	for i < len(p.input) && isNameByte(p.input[i]) {
		i++
	}
	if i == nameStart {
		return nil, false, false
	}
	tag = &Tag{Name: p.input[nameStart:i]}
	for {
		for i < len(p.input) && isSpace(p.input[i]) {
			i++
		}
		if i >= len(p.input) {
			return nil, false, false
		}
		switch p.input[i] {
		case '>':
			p.pos = i + 1
			tag.Void = !closing && voidElements[tag.Name]
			return tag, closing, true
		case '/':
			if i+1 < len(p.input) && p.input[i+1] == '>' {
				p.pos = i + 2
				tag.Void = true
				return tag, closing, true
			}
			i++
		default:
			if closing {
				// Junk inside a closing tag; skip to '>'.
				i++
				continue
			}
			var attrOK bool
			i, attrOK = p.readAttr(tag, i)
			if !attrOK {
				return nil, false, false
			}
		}
	}
}

// readAttr parses one attribute starting at i and returns the position
// after it. It fails only when the input ends inside the attribute.
func (p *parser) readAttr(tag *Tag, i int) (int, bool) {
	start := i
	for i < len(p.input) && !isSpace(p.input[i]) && p.input[i] != '=' &&
		p.input[i] != '>' && p.input[i] != '/' {
		i++
	}
	if i == start {
		return i + 1, true
	}
	name := p.input[start:i]
	for i < len(p.input) && isSpace(p.input[i]) {
		i++
	}
	if i >= len(p.input) || p.input[i] != '=' {
		tag.setAttr(name, "")
		return i, true
	}
	i++
	for i < len(p.input) && isSpace(p.input[i]) {
		i++
	}
	if i >= len(p.input) {
		return 0, false
	}
	if q := p.input[i]; q == '"' || q == '\'' {
		end := strings.IndexByte(p.input[i+1:], q)
		if end < 0 {
			return 0, false
		}
		tag.setAttr(name, p.input[i+1:i+1+end])
		return i + 2 + end, true
	}
	start = i
	for i < len(p.input) && !isSpace(p.input[i]) && p.input[i] != '>' {
		i++
	}
	tag.setAttr(name, p.input[start:i])
	return i, true
}

func (t *Tag) setAttr(name, value string) {
	if t.Attrs == nil {
		t.Attrs = make(map[string]string)
	}
	t.Attrs[name] = value
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Render writes nodes back out as markup text. Attributes are emitted in
// sorted order so output is stable.
func Render(nodes []Node) string {
	var b strings.Builder
	renderTo(&b, nodes)
	return b.String()
}

func renderTo(b *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case Text:
			b.WriteString(string(n))
		case *Tag:
			b.WriteByte('<')
			b.WriteString(n.Name)
			for _, k := range sortedKeys(n.Attrs) {
				b.WriteByte(' ')
				b.WriteString(k)
				b.WriteString(`="`)
				b.WriteString(n.Attrs[k])
				b.WriteByte('"')
			}
			if n.Void && len(n.Children) == 0 {
				b.WriteString("/>")
				continue
			}
			b.WriteByte('>')
			renderTo(b, n.Children)
			b.WriteString("</")
			b.WriteString(n.Name)
			b.WriteByte('>')
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
