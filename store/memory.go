package store

import (
	"context"
	"encoding/json"
	"io/fs"
	"sync"

	"github.com/ZaguanLabs/transtree"
)

// Memory is a thread-safe in-memory resource store: locale → namespace →
// key → translated string. It backs tests, tooling and small deployments,
// and doubles as the save target for machine-translated strings.
type Memory struct {
	mu        sync.RWMutex
	resources map[string]map[string]map[string]string
	fallback  string
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithFallback sets the locale that ends every fallback chain.
func WithFallback(locale string) MemoryOption {
	return func(m *Memory) {
		m.fallback = locale
	}
}

// NewMemory creates an empty store falling back to "en".
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		resources: make(map[string]map[string]map[string]string),
		fallback:  DefaultFallbackLocale,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddResource stores one translation.
func (m *Memory) AddResource(locale, ns, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.namespace(locale, ns)[key] = value
}

// AddResources merges a flat resource map into one locale and namespace.
func (m *Memory) AddResources(locale, ns string, resource map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	target := m.namespace(locale, ns)
	for key, value := range resource {
		target[key] = value
	}
}

// namespace returns the key map for a locale and namespace, creating it if
// needed. Callers must hold the write lock.
func (m *Memory) namespace(locale, ns string) map[string]string {
	locale = canonicalLocale(locale)
	byNS, ok := m.resources[locale]
	if !ok {
		byNS = make(map[string]map[string]string)
		m.resources[locale] = byNS
	}
	keys, ok := byNS[ns]
	if !ok {
		keys = make(map[string]string)
		byNS[ns] = keys
	}
	return keys
}

// Lookup resolves a key through the candidate-key order and the locale
// fallback chain.
func (m *Memory) Lookup(ctx context.Context, req transtree.LookupRequest) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, locale := range localeChain(req.Locale, m.fallback) {
		byNS, ok := m.resources[locale]
		if !ok {
			continue
		}
		keys, ok := byNS[req.Namespace]
		if !ok {
			continue
		}
		for _, key := range candidateKeys(req, locale) {
			if value, ok := keys[key]; ok {
				return value, true
			}
		}
	}
	return "", false
}

// Save stores a missing translation; it satisfies the Translator's Saver.
func (m *Memory) Save(ctx context.Context, locale, ns, key, value string) error {
	m.AddResource(locale, ns, key, value)
	return nil
}

// LoadFile merges a resource file (.json, .yaml, .yml or .toml) into one
// locale and namespace.
func (m *Memory) LoadFile(path, locale, ns string) error {
	resource, err := ReadResourceFile(path)
	if err != nil {
		return err
	}
	m.AddResources(locale, ns, resource)
	return nil
}

// LoadFS is LoadFile over an fs.FS, for embedded resources.
func (m *Memory) LoadFS(fsys fs.FS, path, locale, ns string) error {
	resource, err := ReadResourceFS(fsys, path)
	if err != nil {
		return err
	}
	m.AddResources(locale, ns, resource)
	return nil
}

// Resource returns a copy of one locale and namespace's flat resource map.
func (m *Memory) Resource(locale, ns string) map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]string)
	if byNS, ok := m.resources[canonicalLocale(locale)]; ok {
		for key, value := range byNS[ns] {
			out[key] = value
		}
	}
	return out
}

// Export dumps one locale and namespace as a pretty-printed JSON resource.
func (m *Memory) Export(locale, ns string) ([]byte, error) {
	data, err := json.MarshalIndent(m.Resource(locale, ns), "", "  ")
	if err != nil {
		return nil, &transtree.StoreError{Message: "export resource", Cause: err}
	}
	return append(data, '\n'), nil
}

var _ transtree.Backend = (*Memory)(nil)
var _ transtree.Saver = (*Memory)(nil)
