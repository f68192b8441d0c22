package transtree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ZaguanLabs/transtree/markup"
)

// ReconcileRequest carries one reconciliation of a translated placeholder
// string against the original children it was serialized from.
type ReconcileRequest struct {
	Original       []Node         // original children; a sole ComponentMap enables named addressing
	Translated     string         // translator-edited placeholder string
	Values         map[string]any // extra interpolation values, merged over the collected ones
	Locale         string         // passed through to the interpolation engine
	ShouldUnescape bool           // decode entities in text leaves after interpolation
}

// Reconcile rebuilds a node tree from a translated placeholder string:
// numbered tags re-attach original elements by index, named tags resolve
// through a ComponentMap or the keep-list, text leaves run through the
// interpolation engine. Translators may reorder, duplicate, nest or drop
// placeholders; the result is always a well-formed tree.
func (c *Codec) Reconcile(req ReconcileRequest) ([]Node, error) {
	if req.Translated == "" {
		return []Node{}, nil
	}

	passthrough := c.detectPassthrough(req.Translated)
	if len(req.Original) == 0 && !passthrough && !req.ShouldUnescape {
		return []Node{Text(req.Translated)}, nil
	}

	values := c.CollectValues(req.Original)
	for k, v := range req.Values {
		values[k] = v
	}

	// The synthetic wrap keeps leading text out of the parser's way; only
	// the first root is walked, so a stray </0> cannot smuggle content out.
	parsed, err := c.parser.Parse("<0>" + req.Translated + "</0>")
	if err != nil {
		return nil, err
	}
	wrap, ok := first(parsed)
	if !ok {
		return []Node{Text(req.Translated)}, nil
	}

	r := &reconciler{
		codec:       c,
		values:      values,
		locale:      req.Locale,
		unescape:    req.ShouldUnescape,
		passthrough: passthrough,
		root:        req.Original,
	}
	mapped := r.mapNodes(req.Original, wrap.Children)
	if allElements(req.Original) && len(mapped) == 0 {
		// The translation mapped nothing renderable; keep the originals.
		return req.Original, nil
	}
	return mapped, nil
}

func first(nodes []markup.Node) (*markup.Tag, bool) {
	if len(nodes) == 0 {
		return nil, false
	}
	tag, ok := nodes[0].(*markup.Tag)
	return tag, ok
}

type reconciler struct {
	codec       *Codec
	values      map[string]any
	locale      string
	unescape    bool
	passthrough bool
	root        []Node // outermost original children; numbered tags resolve here
}

// mapNodes walks markup nodes and original nodes in lockstep. local is the
// original slice at the current nesting depth; numbered tags still resolve
// against the root slice so a moved placeholder binds to the element it
// was numbered for.
func (r *reconciler) mapNodes(local []Node, astNodes []markup.Node) []Node {
	var result []Node
	for i, mn := range astNodes {
		switch mn := mn.(type) {
		case markup.Text:
			result = append(result, r.textNode(string(mn), i))
		case *markup.Tag:
			r.mapTag(&result, mn, local, i)
		}
	}
	return result
}

func (r *reconciler) textNode(content string, i int) Node {
	value := r.interpolate(content)
	if r.unescape && r.codec.unescape != nil {
		value = r.codec.unescape(value)
	}
	if wrap := r.codec.wrapTextNodes; wrap != "" {
		return &Element{Tag: wrap, Key: fmt.Sprintf("%s-%d", wrap, i), Children: []Node{Text(value)}}
	}
	return Text(value)
}

func (r *reconciler) mapTag(result *[]Node, tag *markup.Tag, local []Node, i int) {
	idx, numeric := tagIndex(tag.Name)

	var cand Node
	if numeric && idx < len(r.root) {
		cand = r.root[idx]
	}
	known := false
	if cand == nil {
		if cm, ok := r.componentMap(); ok {
			v, exists := cm[tag.Name]
			if exists && v != nil {
				cand = v
				_, known = v.(*Element)
			}
		}
	}
	cand = normalize(cand)

	if len(tag.Attrs) > 0 {
		if el, ok := cand.(*Element); ok {
			cand = el.withMergedAttrs(tag.Attrs)
		}
	}

	if txt, ok := cand.(Text); ok {
		// A plain-string candidate wins over whatever the tag contains.
		*result = append(*result, Text(r.interpolate(string(txt))))
		return
	}

	el, isElement := cand.(*Element)
	tagHasChildren := len(tag.Children) > 0

	switch {
	case isElement && (len(el.Children) > 0 || (tagHasChildren && !tag.Void)):
		inner := r.renderInner(el, tag)
		pushClone(result, el, inner, strconv.Itoa(i), false)

	case cand == nil && numeric && r.passthrough:
		// A numbered placeholder with no original behind it: rebuild its
		// content against the root slice and splice it in.
		*result = append(*result, r.mapNodes(r.root, tag.Children)...)

	case !numeric:
		r.mapNamedTag(result, tag, cand, known, local, i)

	case !isElement:
		// Structural placeholder without a real element behind it; keep
		// any literal text the translator put inside.
		if content, ok := r.tagContent(tag); ok {
			*result = append(*result, Text(content))
		}

	default:
		// Childless element candidate: reuse it, adopting tag text when it
		// is the tag's single child.
		content, ok := r.tagContent(tag)
		void := len(tag.Children) != 1 || !ok || content == ""
		var inner []Node
		if !void {
			inner = []Node{Text(content)}
		}
		pushClone(result, el, inner, strconv.Itoa(i), void)
	}
}

// mapNamedTag handles tags whose name is not an index: known components,
// keep-list passthrough, and literal fallbacks for everything else.
func (r *reconciler) mapNamedTag(result *[]Node, tag *markup.Tag, cand Node, known bool, local []Node, i int) {
	name := tag.Name
	switch {
	case known:
		el := cand.(*Element)
		if tag.Void {
			pushClone(result, el, nil, strconv.Itoa(i), true)
			return
		}
		inner := r.renderInner(el, tag)
		pushClone(result, el, inner, strconv.Itoa(i), false)

	case r.codec.supportBasicHTMLNodes && r.codec.keepTag(name):
		key := fmt.Sprintf("%s-%d", name, i)
		if tag.Void {
			*result = append(*result, &Element{Tag: name, Key: key})
			return
		}
		inner := r.mapNodes(local, tag.Children)
		*result = append(*result, &Element{Tag: name, Children: inner, Key: key})

	case tag.Void:
		*result = append(*result, Text(fmt.Sprintf("<%s />", name)))

	default:
		inner := r.mapNodes(local, tag.Children)
		*result = append(*result, Text(fmt.Sprintf("<%s>%s</%s>", name, textify(inner), name)))
	}
}

// renderInner reconciles a candidate element's children against the tag's
// children. Dynamic lists and translations that mapped nothing out of
// element-only children fall back to the original children verbatim.
func (r *reconciler) renderInner(el *Element, tag *markup.Tag) []Node {
	mapped := r.mapNodes(el.Children, tag.Children)
	if (allElements(el.Children) && len(mapped) == 0) || el.DynamicList {
		return el.Children
	}
	return mapped
}

// tagContent returns the interpolated text of the tag's first child when
// that child is a text leaf.
func (r *reconciler) tagContent(tag *markup.Tag) (string, bool) {
	if len(tag.Children) == 0 {
		return "", false
	}
	leaf, ok := tag.Children[0].(markup.Text)
	if !ok || leaf == "" {
		return "", false
	}
	return r.interpolate(string(leaf)), true
}

func (r *reconciler) interpolate(text string) string {
	if r.codec.interp == nil {
		return text
	}
	return r.codec.interp.Interpolate(text, r.values, r.locale)
}

func (r *reconciler) componentMap() (ComponentMap, bool) {
	if len(r.root) != 1 {
		return nil, false
	}
	cm, ok := r.root[0].(ComponentMap)
	return cm, ok
}

func pushClone(result *[]Node, el *Element, children []Node, key string, void bool) {
	clone := &Element{
		Tag:         el.Tag,
		Attrs:       copyAttrs(el.Attrs),
		DynamicList: el.DynamicList,
		Key:         key,
	}
	if !void {
		clone.Children = children
	}
	*result = append(*result, clone)
}

// withMergedAttrs clones the element with the markup tag's attributes laid
// over its own; children and identity are preserved.
func (e *Element) withMergedAttrs(attrs map[string]string) *Element {
	merged := make(map[string]any, len(e.Attrs)+len(attrs))
	for k, v := range e.Attrs {
		merged[k] = v
	}
	for k, v := range attrs {
		merged[k] = v
	}
	clone := *e
	clone.Attrs = merged
	return &clone
}

func copyAttrs(attrs map[string]any) map[string]any {
	if attrs == nil {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

// normalize collapses typed nil pointers into untyped nil so candidate
// checks stay simple.
func normalize(n Node) Node {
	switch v := n.(type) {
	case *Element:
		if v == nil {
			return nil
		}
	case *Interpolation:
		if v == nil {
			return nil
		}
	}
	return n
}

func allElements(children []Node) bool {
	for _, child := range children {
		if el, ok := child.(*Element); !ok || el == nil {
			return false
		}
	}
	return true
}

func tagIndex(name string) (int, bool) {
	n, err := strconv.Atoi(name)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// textify flattens reconciled nodes to plain text for the literal-tag
// fallback output.
func textify(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		switch n := n.(type) {
		case Text:
			b.WriteString(string(n))
		case *Element:
			if n == nil {
				continue
			}
			if len(n.Children) == 0 {
				fmt.Fprintf(&b, "<%s/>", n.Tag)
				continue
			}
			fmt.Fprintf(&b, "<%s>%s</%s>", n.Tag, textify(n.Children), n.Tag)
		case *Interpolation:
			if n != nil && len(n.Entries) == 1 {
				for k := range n.Entries {
					fmt.Fprintf(&b, "{{%s}}", k)
				}
			}
		}
	}
	return b.String()
}
