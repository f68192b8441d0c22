package provider

import (
	"context"
	"fmt"
)

// MockProvider is a mock machine-translation provider for testing.
type MockProvider struct {
	Translations map[string]string // Map of source string to translation
	Err          error             // Returned by Translate when set
	CallCount    int               // Number of times Translate was called
	LastRequest  *TranslateRequest // Last request received
}

// NewMockProvider creates a new mock provider with default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"Hello":                  "Hola",
			"Hello World":            "Hola Mundo",
			"hello <1>world</1>":     "hola <1>mundo</1>",
			"{{count}} new messages": "{{count}} mensajes nuevos",
		},
	}
}

// Translate returns mock translations. Unknown strings come back bracketed
// so tests can tell a fabricated translation from a configured one.
func (m *MockProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	m.CallCount++
	m.LastRequest = &req

	if m.Err != nil {
		return nil, m.Err
	}

	results := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		if translation, ok := m.Translations[text]; ok {
			results[i] = translation
		} else {
			results[i] = fmt.Sprintf("[%s]", text)
		}
	}

	return results, nil
}

// Reset resets the call count and last request.
func (m *MockProvider) Reset() {
	m.CallCount = 0
	m.LastRequest = nil
}

// Verify MockProvider implements Provider
var _ Provider = (*MockProvider)(nil)
