// Package provider implements machine-translation backends used to fill
// missing catalog entries.
package provider

import "github.com/ZaguanLabs/transtree"

// Provider is the interface for machine-translation backends.
// This is an alias to the main package interface for convenience.
type Provider = transtree.Provider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = transtree.TranslateRequest
