package transtree

import "sort"

// DiffResult represents the difference between two versions of a source
// resource (key → serialized placeholder string).
type DiffResult struct {
	// Added contains keys that are new (not in the previous version).
	Added []string

	// Removed contains keys that were removed (not in the new version).
	Removed []string

	// Changed contains keys present in both versions whose source string
	// changed, invalidating any existing translation.
	Changed []string

	// Unchanged contains keys whose source string is identical in both
	// versions.
	Unchanged []string
}

// Stats returns summary statistics for the diff.
func (d *DiffResult) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Changed:   len(d.Changed),
		Unchanged: len(d.Unchanged),
	}
}

// DiffStats contains summary statistics for a diff.
type DiffStats struct {
	Added     int
	Removed   int
	Changed   int
	Unchanged int
}

// HasChanges returns true if there are any differences.
func (d *DiffResult) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Changed) > 0
}

// NeedsTranslation returns the keys that need to be (re)translated.
// This includes new keys and keys whose source string changed.
func (d *DiffResult) NeedsTranslation() []string {
	result := make([]string, 0, len(d.Added)+len(d.Changed))
	result = append(result, d.Added...)
	result = append(result, d.Changed...)
	sort.Strings(result)
	return result
}

// DiffResources compares two versions of a source resource and returns the
// differences. This is useful for incremental retranslation - only
// retranslate what changed. All key slices come back sorted.
func DiffResources(oldResource, newResource map[string]string) *DiffResult {
	result := &DiffResult{}

	for key, oldValue := range oldResource {
		newValue, exists := newResource[key]
		switch {
		case !exists:
			result.Removed = append(result.Removed, key)
		case newValue != oldValue:
			result.Changed = append(result.Changed, key)
		default:
			result.Unchanged = append(result.Unchanged, key)
		}
	}

	for key := range newResource {
		if _, exists := oldResource[key]; !exists {
			result.Added = append(result.Added, key)
		}
	}

	sort.Strings(result.Added)
	sort.Strings(result.Removed)
	sort.Strings(result.Changed)
	sort.Strings(result.Unchanged)

	return result
}
