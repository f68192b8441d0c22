package transtree

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Backend resolves a translation key to the translated placeholder string.
// Implementations decide candidate order, plural forms and locale fallback;
// the Translator treats the result as an opaque string source.
type Backend interface {
	Lookup(ctx context.Context, req LookupRequest) (string, bool)
}

// LookupRequest carries one key resolution.
type LookupRequest struct {
	Key          string
	Locale       string
	Namespace    string
	DefaultValue string
	Count        *int           // plural selector, nil when not counting
	Context      string         // context suffix, e.g. "male" for key_male
	Values       map[string]any // interpolation values, for backends that interpolate
}

// Saver persists a missing translation. Backends that also implement Saver
// receive machine-translated strings when save-missing is enabled.
type Saver interface {
	Save(ctx context.Context, locale, ns, key, value string) error
}

// Provider is a machine-translation backend used to fill strings the Backend
// does not have.
type Provider interface {
	Translate(ctx context.Context, req TranslateRequest) ([]string, error)
}

// TranslateRequest contains the parameters for a machine-translation request.
type TranslateRequest struct {
	Texts         []string
	TargetLang    string
	SourceLang    string
	ExcludedTerms []string
	Context       string
}

// Translator glues the codec to a lookup backend: it serializes children to
// the canonical placeholder string, resolves the translated string through
// the backend (optionally machine-translating misses), and reconciles the
// result back into a node tree.
type Translator struct {
	backend     Backend
	codec       *Codec
	provider    Provider
	sourceLang  string
	defaultNS   string
	saveMissing bool
	report      Reporter
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithCodec replaces the codec used for serialization and reconciliation.
func WithCodec(c *Codec) TranslatorOption {
	return func(t *Translator) {
		t.codec = c
	}
}

// WithProvider sets a machine-translation provider for missing strings.
func WithProvider(p Provider) TranslatorOption {
	return func(t *Translator) {
		t.provider = p
	}
}

// WithSourceLang sets the source language of the authored content.
func WithSourceLang(lang string) TranslatorOption {
	return func(t *Translator) {
		t.sourceLang = lang
	}
}

// WithDefaultNamespace replaces the namespace used when a render request
// names none.
func WithDefaultNamespace(ns string) TranslatorOption {
	return func(t *Translator) {
		t.defaultNS = ns
	}
}

// WithSaveMissing persists machine-translated strings back to the backend
// when it implements Saver.
func WithSaveMissing(enabled bool) TranslatorOption {
	return func(t *Translator) {
		t.saveMissing = enabled
	}
}

// WithTranslatorReporter replaces the warning sink for orchestration-level
// warnings (structure damage, provider failures).
func WithTranslatorReporter(r Reporter) TranslatorOption {
	return func(t *Translator) {
		t.report = r
	}
}

// NewTranslator creates a Translator over the given lookup backend.
func NewTranslator(backend Backend, opts ...TranslatorOption) *Translator {
	t := &Translator{
		backend:    backend,
		sourceLang: "en",
		defaultNS:  "translation",
		report:     SlogReporter(slog.Default()),
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.codec == nil {
		t.codec = NewCodec(WithReporter(t.report))
	}

	return t
}

// RenderRequest describes one tree translation.
type RenderRequest struct {
	Children   []Node          // original children the key was serialized from
	Components map[string]Node // named elements for <name>…</name> addressing; wins over Children for reconciliation
	Key        string          // translation key; derived from the serialized children when empty
	Locale     string          // target locale
	Namespace  string          // resource namespace; Translator default when empty
	Count      *int            // plural count; also injected as the "count" value
	Context    string          // context suffix for the lookup, e.g. "male"
	Values     map[string]any  // explicit interpolation values, win over collected ones

	// DefaultValue overrides the serialized string as the fallback (and
	// machine-translation source) when the backend has no translation.
	DefaultValue string

	// ShouldUnescape decodes HTML entities in reconciled text leaves.
	ShouldUnescape bool
}

// Render resolves and reconciles one tree translation. A missing
// translation never fails the render: the default value (optionally
// machine-translated) is reconciled instead.
func (t *Translator) Render(ctx context.Context, req RenderRequest) ([]Node, error) {
	canonical := t.codec.Serialize(req.Children)

	defaultValue := req.DefaultValue
	if defaultValue == "" {
		defaultValue = canonical
	}
	key := req.Key
	if key == "" {
		key = canonical
	}
	if key == "" {
		key = defaultValue
	}

	ns := req.Namespace
	if ns == "" {
		ns = t.defaultNS
	}

	values := make(map[string]any, len(req.Values)+1)
	for k, v := range req.Values {
		values[k] = v
	}
	if req.Count != nil {
		values["count"] = *req.Count
	}

	translated := t.resolve(ctx, key, ns, defaultValue, values, req)

	original := req.Children
	if len(req.Components) > 0 {
		original = []Node{ComponentMap(req.Components)}
	}

	return t.codec.Reconcile(ReconcileRequest{
		Original:       original,
		Translated:     translated,
		Values:         values,
		Locale:         req.Locale,
		ShouldUnescape: req.ShouldUnescape,
	})
}

// resolve looks the key up and falls back to the (optionally
// machine-translated) default value on a miss.
func (t *Translator) resolve(ctx context.Context, key, ns, defaultValue string, values map[string]any, req RenderRequest) string {
	if t.backend != nil {
		if translated, ok := t.backend.Lookup(ctx, LookupRequest{
			Key:          key,
			Locale:       req.Locale,
			Namespace:    ns,
			DefaultValue: defaultValue,
			Count:        req.Count,
			Context:      req.Context,
			Values:       values,
		}); ok {
			return translated
		}
	}

	if t.provider == nil || defaultValue == "" || t.isSourceLang(req.Locale) {
		return defaultValue
	}

	results, err := t.provider.Translate(ctx, TranslateRequest{
		Texts:      []string{defaultValue},
		TargetLang: req.Locale,
		SourceLang: t.sourceLang,
		Context:    req.Context,
	})
	if err != nil || len(results) != 1 {
		t.warn(WarnProviderFailure, fmt.Sprintf("machine translation of %q failed: %v", key, err))
		return defaultValue
	}

	translated := results[0]
	if issues := t.codec.Lint(defaultValue, translated); len(issues) > 0 {
		t.warn(WarnStructureMismatch, fmt.Sprintf("machine translation of %q damaged placeholders: %v", key, issues))
		return defaultValue
	}

	if t.saveMissing {
		if saver, ok := t.backend.(Saver); ok {
			// Persisting is best-effort; the render proceeds either way.
			_ = saver.Save(ctx, req.Locale, ns, key, translated)
		}
	}

	return translated
}

// isSourceLang checks if target matches source (no translation needed).
func (t *Translator) isSourceLang(locale string) bool {
	target := strings.SplitN(NormalizeLocale(locale), "_", 2)[0]
	source := strings.SplitN(NormalizeLocale(t.sourceLang), "_", 2)[0]
	return strings.EqualFold(target, source)
}

func (t *Translator) warn(code WarningCode, message string) {
	if t.report != nil {
		t.report(Warning{Code: code, Message: message})
	}
}

// Codec returns the codec used by this translator.
func (t *Translator) Codec() *Codec {
	return t.codec
}

// SourceLang returns the source language.
func (t *Translator) SourceLang() string {
	return t.sourceLang
}

// DefaultNamespace returns the namespace used when requests name none.
func (t *Translator) DefaultNamespace() string {
	return t.defaultNS
}
