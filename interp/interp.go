// Package interp implements the {{name}} interpolation engine applied to
// translated text.
//
// Slots take the form {{name}} or {{name, format}}. Names may be dotted
// paths into nested maps. Unknown placeholders are left literal so that
// untranslated strings round-trip unchanged; a present-but-nil value
// substitutes the empty string. The engine is a no-op on text without
// placeholders.
package interp

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"golang.org/x/net/html"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders a value for one named format, e.g. {{count, number}}.
type Formatter func(value any, locale string) string

// Engine substitutes named values into text. A single engine is safe for
// concurrent use once built.
type Engine struct {
	prefix      string
	suffix      string
	escapeValue bool
	formats     map[string]Formatter
}

// Option configures an Engine.
type Option func(*Engine)

// WithDelimiters replaces the {{ and }} slot delimiters.
func WithDelimiters(prefix, suffix string) Option {
	return func(e *Engine) {
		e.prefix = prefix
		e.suffix = suffix
	}
}

// WithEscapeValue HTML-escapes substituted values. Off by default: callers
// rendering through html/template would otherwise double-escape.
func WithEscapeValue(enabled bool) Option {
	return func(e *Engine) {
		e.escapeValue = enabled
	}
}

// WithFormat registers a named format, replacing any built-in of the same
// name.
func WithFormat(name string, f Formatter) Option {
	return func(e *Engine) {
		e.formats[name] = f
	}
}

// New creates an engine with {{ }} delimiters and the built-in formats
// number and percent (locale-aware grouping), upper, lower and datetime.
func New(opts ...Option) *Engine {
	e := &Engine{
		prefix: "{{",
		suffix: "}}",
		formats: map[string]Formatter{
			"number":   formatNumber,
			"percent":  formatPercent,
			"upper":    func(v any, _ string) string { return strings.ToUpper(plain(v)) },
			"lower":    func(v any, _ string) string { return strings.ToLower(plain(v)) },
			"datetime": formatDatetime,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Interpolate substitutes every known placeholder in text.
func (e *Engine) Interpolate(text string, values map[string]any, locale string) string {
	if !strings.Contains(text, e.prefix) {
		return text
	}
	var b strings.Builder
	rest := text
	for {
		start := strings.Index(rest, e.prefix)
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.Index(rest[start+len(e.prefix):], e.suffix)
		if end < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:start])
		inner := rest[start+len(e.prefix) : start+len(e.prefix)+end]
		rest = rest[start+len(e.prefix)+end+len(e.suffix):]
		b.WriteString(e.expand(inner, values, locale))
	}
	return b.String()
}

func (e *Engine) expand(raw string, values map[string]any, locale string) string {
	name := strings.TrimSpace(raw)
	format := ""
	if comma := strings.Index(name, ","); comma >= 0 {
		format = strings.TrimSpace(name[comma+1:])
		name = strings.TrimSpace(name[:comma])
	}
	value, ok := lookup(values, name)
	if !ok {
		return e.prefix + raw + e.suffix
	}
	s := e.stringify(value, format, locale)
	if e.escapeValue {
		s = html.EscapeString(s)
	}
	return s
}

func (e *Engine) stringify(value any, format, locale string) string {
	if format != "" {
		if f, ok := e.formats[format]; ok {
			return f(value, locale)
		}
	}
	return plain(value)
}

func lookup(values map[string]any, name string) (any, bool) {
	if v, ok := values[name]; ok {
		return v, true
	}
	parts := strings.Split(name, ".")
	if len(parts) == 1 {
		return nil, false
	}
	var cur any = values
	for _, part := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func plain(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func formatNumber(v any, locale string) string {
	p := message.NewPrinter(ParseTag(locale))
	return p.Sprintf("%v", v)
}

func formatPercent(v any, locale string) string {
	p := message.NewPrinter(ParseTag(locale))
	return p.Sprintf("%v%%", v)
}

func formatDatetime(v any, _ string) string {
	if t, ok := v.(time.Time); ok {
		return t.Format("Jan 2, 2006 15:04")
	}
	return plain(v)
}

// ParseTag parses a locale like "en", "pt-BR" or "es_ES" into a language
// tag, falling back to English.
func ParseTag(locale string) language.Tag {
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return language.English
	}
	return tag
}

// ValuesFrom converts a struct or map into interpolation values using
// mapstructure decoding; struct field names can be overridden with
// `mapstructure:"name"` tags.
func ValuesFrom(v any) (map[string]any, error) {
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	var out map[string]any
	if err := mapstructure.Decode(v, &out); err != nil {
		return nil, err
	}
	return out, nil
}
