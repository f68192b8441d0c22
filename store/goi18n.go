package store

import (
	"context"
	"encoding/json"
	"io/fs"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/ZaguanLabs/transtree"
)

// GoI18n adapts a go-i18n bundle to the Translator's Backend interface, for
// applications that already keep their message catalogs in go-i18n files.
//
// Catalog messages use go-template syntax ({{.name}}), so interpolation and
// plural selection happen inside the bundle; the codec's own interpolation
// pass leaves the substituted text alone. A lookup miss stays a miss here
// rather than rendering a default, so that save-missing and machine
// translation keep working upstream.
type GoI18n struct {
	bundle   *i18n.Bundle
	fallback string
}

// NewGoI18n creates a backend over a fresh bundle with JSON, YAML and TOML
// unmarshalers registered. The default locale ends every fallback chain.
func NewGoI18n(defaultLocale string) *GoI18n {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yml", yaml.Unmarshal)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	return &GoI18n{bundle: bundle, fallback: tag.String()}
}

// NewGoI18nFromBundle wraps an existing bundle; the fallback locale ends
// every lookup's language list.
func NewGoI18nFromBundle(bundle *i18n.Bundle, fallbackLocale string) *GoI18n {
	return &GoI18n{bundle: bundle, fallback: fallbackLocale}
}

// LoadMessageFile loads a go-i18n message file; the locale is inferred from
// the file name (e.g. active.es.toml).
func (g *GoI18n) LoadMessageFile(path string) error {
	if _, err := g.bundle.LoadMessageFile(path); err != nil {
		return &transtree.StoreError{Message: "load message file", Cause: err}
	}
	return nil
}

// LoadMessageFS is LoadMessageFile over an fs.FS, for embedded catalogs.
func (g *GoI18n) LoadMessageFS(fsys fs.FS, path string) error {
	if _, err := g.bundle.LoadMessageFileFS(fsys, path); err != nil {
		return &transtree.StoreError{Message: "load message file", Cause: err}
	}
	return nil
}

// Lookup localizes the key (and its context variant) for the requested
// locale. Plural forms come from go-i18n's own CLDR rules via PluralCount.
func (g *GoI18n) Lookup(ctx context.Context, req transtree.LookupRequest) (string, bool) {
	languages := make([]string, 0, 2)
	if req.Locale != "" {
		languages = append(languages, req.Locale)
	}
	languages = append(languages, g.fallback)
	localizer := i18n.NewLocalizer(g.bundle, languages...)

	ids := []string{req.Key}
	if req.Context != "" {
		ids = []string{req.Key + "_" + req.Context, req.Key}
	}

	for _, id := range ids {
		cfg := &i18n.LocalizeConfig{MessageID: id}
		if req.Count != nil {
			cfg.PluralCount = *req.Count
		}
		if len(req.Values) > 0 {
			cfg.TemplateData = req.Values
		}
		msg, err := localizer.Localize(cfg)
		if err != nil || msg == "" {
			continue
		}
		return msg, true
	}
	return "", false
}

var _ transtree.Backend = (*GoI18n)(nil)
