package transtree

import (
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/ZaguanLabs/transtree/interp"
	"github.com/ZaguanLabs/transtree/markup"
)

// Interpolator substitutes named values into translated text. The engine is
// opaque to the codec; interp.New provides the shipped implementation.
type Interpolator interface {
	Interpolate(text string, values map[string]any, locale string) string
}

// MarkupParser parses placeholder markup out of translated strings. The
// shipped parser (markup.Parse) never fails; injected parsers may, and the
// error aborts the reconcile.
type MarkupParser interface {
	Parse(s string) ([]markup.Node, error)
}

// DefaultKeepBasicHTMLNodesFor lists the tags that stay literal in
// serialized strings by default.
var DefaultKeepBasicHTMLNodesFor = []string{"br", "strong", "i", "p"}

// Codec converts between node trees and the flat placeholder strings
// translators edit. A single codec is safe for concurrent use once built.
type Codec struct {
	supportBasicHTMLNodes bool
	keepBasicHTMLNodesFor []string
	wrapTextNodes         string
	unescape              func(string) string
	report                Reporter
	interp                Interpolator
	parser                MarkupParser
}

// Option configures a Codec.
type Option func(*Codec)

// WithSupportBasicHTMLNodes toggles literal passthrough of keep-list tags.
// When disabled, every element serializes as a numbered placeholder.
func WithSupportBasicHTMLNodes(enabled bool) Option {
	return func(c *Codec) {
		c.supportBasicHTMLNodes = enabled
	}
}

// WithKeepBasicHTMLNodesFor replaces the keep-list of tags that serialize
// literally (e.g. <br/>) instead of as numbered placeholders.
func WithKeepBasicHTMLNodesFor(tags ...string) Option {
	return func(c *Codec) {
		c.keepBasicHTMLNodesFor = append([]string(nil), tags...)
	}
}

// WithWrapTextNodes wraps every reconciled text leaf in an element with the
// given tag. Empty disables wrapping.
func WithWrapTextNodes(tag string) Option {
	return func(c *Codec) {
		c.wrapTextNodes = tag
	}
}

// WithUnescape replaces the entity decoder applied to text leaves when a
// reconcile requests unescaping. The default is html.UnescapeString.
func WithUnescape(fn func(string) string) Option {
	return func(c *Codec) {
		c.unescape = fn
	}
}

// WithReporter replaces the warning sink. The default reports through
// slog.Default.
func WithReporter(r Reporter) Option {
	return func(c *Codec) {
		c.report = r
	}
}

// WithInterpolator replaces the interpolation engine.
func WithInterpolator(i Interpolator) Option {
	return func(c *Codec) {
		c.interp = i
	}
}

// WithMarkupParser replaces the placeholder markup parser.
func WithMarkupParser(p MarkupParser) Option {
	return func(c *Codec) {
		c.parser = p
	}
}

// NewCodec creates a codec with the default surface: br/strong/i/p kept
// literal, entity unescaping from x/net/html, the shipped markup parser and
// interpolation engine, and warnings going to slog.Default.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{
		supportBasicHTMLNodes: true,
		keepBasicHTMLNodesFor: append([]string(nil), DefaultKeepBasicHTMLNodesFor...),
		unescape:              html.UnescapeString,
		report:                SlogReporter(slog.Default()),
		interp:                interp.New(),
		parser:                defaultParser{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type defaultParser struct{}

func (defaultParser) Parse(s string) ([]markup.Node, error) {
	return markup.Parse(s), nil
}

func (c *Codec) warn(code WarningCode, message string) {
	if c.report != nil {
		c.report(Warning{Code: code, Message: message})
	}
}

func (c *Codec) keepTag(name string) bool {
	for _, tag := range c.keepBasicHTMLNodesFor {
		if tag == name {
			return true
		}
	}
	return false
}

// detectPassthrough reports whether the translated string contains literal
// keep-list tags that need converting back into elements. An empty
// keep-list never detects anything.
func (c *Codec) detectPassthrough(s string) bool {
	if !c.supportBasicHTMLNodes {
		return false
	}
	for _, tag := range c.keepBasicHTMLNodesFor {
		if strings.Contains(s, "<"+tag) {
			return true
		}
	}
	return false
}
