// Package htmltree converts HTML fragments to and from Node trees.
//
// Parse turns a fragment into the children slice a Codec serializes, so
// static markup can enter the placeholder string pipeline; Render turns a
// reconciled tree back into HTML. Select extracts subtrees by CSS selector
// for batch extraction.
package htmltree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/transtree"
	"golang.org/x/net/html"
)

// DynamicListAttr marks an element whose children vary at runtime. Parse
// strips it from the attribute map and sets Element.DynamicList instead;
// Render writes it back.
const DynamicListAttr = "data-i18n-dynamic-list"

// skippedTags never contribute nodes to a parsed tree.
var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// ParseError indicates an HTML fragment could not be parsed or rendered.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("htmltree: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("htmltree: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Parse converts an HTML fragment into a children slice. Element nodes
// become *Element with their attributes copied, text nodes become Text,
// and comments, scripts and styles are dropped. Whitespace-only text
// between elements is dropped; whitespace inside mixed text is kept.
func Parse(fragment string) ([]transtree.Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, &ParseError{Message: "failed to parse fragment", Cause: err}
	}

	body := doc.Find("body")
	if len(body.Nodes) == 0 {
		return nil, nil
	}
	return convertChildren(body.Nodes[0]), nil
}

// Select parses the fragment and converts every element matching the CSS
// selector, in document order.
func Select(fragment, selector string) ([]transtree.Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, &ParseError{Message: "failed to parse fragment", Cause: err}
	}

	var nodes []transtree.Node
	doc.Find(selector).Each(func(i int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			if converted := convertNode(n); converted != nil {
				nodes = append(nodes, converted)
			}
		}
	})
	return nodes, nil
}

func convertChildren(parent *html.Node) []transtree.Node {
	var nodes []transtree.Node
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if n := convertNode(c); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func convertNode(n *html.Node) transtree.Node {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return transtree.Text(n.Data)

	case html.ElementNode:
		if skippedTags[strings.ToLower(n.Data)] {
			return nil
		}

		el := &transtree.Element{Tag: n.Data}
		for _, attr := range n.Attr {
			if attr.Key == DynamicListAttr {
				el.DynamicList = true
				continue
			}
			if el.Attrs == nil {
				el.Attrs = make(map[string]any)
			}
			el.Attrs[attr.Key] = attr.Val
		}
		el.Children = convertChildren(n)
		return el

	default:
		// Comments and doctypes carry no renderable content.
		return nil
	}
}

// Option configures rendering.
type Option func(*renderer)

// WithDirAttrs stamps dir and lang attributes on top-level elements for the
// given locale, using the package language tables.
func WithDirAttrs(locale string) Option {
	return func(r *renderer) {
		r.dir = transtree.GetDirection(locale)
		r.lang = transtree.ToHTMLLang(locale)
	}
}

type renderer struct {
	dir  string
	lang string
}

// Render serializes a node tree back to HTML markup. Interpolations render
// as their canonical {{name}} placeholder text, Raw values render via
// fmt.Sprint, and component maps and nil children are skipped.
func Render(nodes []transtree.Node, opts ...Option) (string, error) {
	r := &renderer{}
	for _, opt := range opts {
		opt(r)
	}

	var b strings.Builder
	for _, node := range nodes {
		hn := r.buildNode(node, true)
		if hn == nil {
			continue
		}
		if err := html.Render(&b, hn); err != nil {
			return "", &ParseError{Message: "failed to render node", Cause: err}
		}
	}
	return b.String(), nil
}

func (r *renderer) buildNode(node transtree.Node, topLevel bool) *html.Node {
	switch node := node.(type) {
	case nil:
		return nil

	case transtree.Text:
		return &html.Node{Type: html.TextNode, Data: string(node)}

	case *transtree.Element:
		if node == nil {
			return nil
		}
		hn := &html.Node{Type: html.ElementNode, Data: node.Tag}

		keys := make([]string, 0, len(node.Attrs))
		for k := range node.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			hn.Attr = append(hn.Attr, html.Attribute{Key: k, Val: fmt.Sprint(node.Attrs[k])})
		}
		if node.DynamicList {
			hn.Attr = append(hn.Attr, html.Attribute{Key: DynamicListAttr, Val: "true"})
		}
		if topLevel && r.dir != "" {
			hn.Attr = append(hn.Attr,
				html.Attribute{Key: "dir", Val: r.dir},
				html.Attribute{Key: "lang", Val: r.lang})
		}

		for _, c := range node.Children {
			if child := r.buildNode(c, false); child != nil {
				hn.AppendChild(child)
			}
		}
		return hn

	case *transtree.Interpolation:
		name, ok := interpName(node)
		if !ok {
			return nil
		}
		text := "{{" + name + "}}"
		if node.Format != "" {
			text = "{{" + name + ", " + node.Format + "}}"
		}
		return &html.Node{Type: html.TextNode, Data: text}

	case transtree.Raw:
		return &html.Node{Type: html.TextNode, Data: fmt.Sprint(node.Value)}

	default:
		return nil
	}
}

func interpName(v *transtree.Interpolation) (string, bool) {
	if v == nil || len(v.Entries) != 1 {
		return "", false
	}
	for k := range v.Entries {
		return k, true
	}
	return "", false
}
