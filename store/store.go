// Package store provides translation lookup backends for the Translator:
// an in-memory resource store, a Redis-backed store and an adapter over
// go-i18n bundles.
//
// Memory and Redis resolve keys the same way: candidate keys are tried
// from most to least specific (key_context_plural, key_context,
// key_plural, key) across the locale fallback chain, e.g. pt-BR, pt, then
// the configured fallback locale.
package store

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/ZaguanLabs/transtree"
)

// DefaultFallbackLocale ends the fallback chain when a store is built
// without an explicit one.
const DefaultFallbackLocale = "en"

// canonicalLocale normalizes a locale to its BCP 47 form: "pt_br" and
// "PT-BR" both become "pt-BR". Unparseable codes keep their hyphenated
// spelling so writes and reads stay consistent.
func canonicalLocale(locale string) string {
	s := strings.ReplaceAll(locale, "_", "-")
	tag, err := language.Parse(s)
	if err != nil {
		return s
	}
	return tag.String()
}

// localeChain returns the locales to try in order: the locale itself, its
// successive truncations, then the fallback and its truncations.
func localeChain(locale, fallback string) []string {
	seen := make(map[string]bool)
	var chain []string
	add := func(loc string) {
		for _, l := range truncations(canonicalLocale(loc)) {
			if !seen[l] {
				seen[l] = true
				chain = append(chain, l)
			}
		}
	}
	if locale != "" {
		add(locale)
	}
	if fallback != "" {
		add(fallback)
	}
	return chain
}

// truncations peels subtags off one at a time: zh-Hant-TW yields
// [zh-Hant-TW zh-Hant zh].
func truncations(locale string) []string {
	var out []string
	for locale != "" {
		out = append(out, locale)
		i := strings.LastIndex(locale, "-")
		if i < 0 {
			break
		}
		locale = locale[:i]
	}
	return out
}

// candidateKeys returns the key variants to try for one lookup, most
// specific first. The plural suffix depends on the locale being tried, not
// the requested one: a pt-BR request falling back to an en resource still
// wants en's plural form.
func candidateKeys(req transtree.LookupRequest, locale string) []string {
	keys := make([]string, 0, 4)
	plural := ""
	if req.Count != nil {
		plural = PluralCategory(locale, *req.Count)
	}
	if req.Context != "" && plural != "" {
		keys = append(keys, req.Key+"_"+req.Context+"_"+plural)
	}
	if req.Context != "" {
		keys = append(keys, req.Key+"_"+req.Context)
	}
	if plural != "" {
		keys = append(keys, req.Key+"_"+plural)
	}
	return append(keys, req.Key)
}
