package transtree

import "log/slog"

// WarningCode classifies a recoverable rendering problem.
type WarningCode string

const (
	// WarnMalformedInterpolation flags an Interpolation without exactly one entry.
	WarnMalformedInterpolation WarningCode = "malformed_interpolation"
	// WarnNullChild flags a nil child inside a children slice.
	WarnNullChild WarningCode = "null_child"
	// WarnBadInterpolationUsage flags a bare scalar child where an
	// interpolation object was expected.
	WarnBadInterpolationUsage WarningCode = "bad_interpolation_usage"
	// WarnDroppedComponentMap flags a ComponentMap in a position where only
	// renderable children are valid.
	WarnDroppedComponentMap WarningCode = "dropped_component_map"
	// WarnStructureMismatch flags machine-translated text whose placeholders
	// no longer line up with the source string.
	WarnStructureMismatch WarningCode = "structure_mismatch"
	// WarnProviderFailure flags a machine-translation call that failed; the
	// render falls back to the untranslated default.
	WarnProviderFailure WarningCode = "provider_failure"
)

// Warning describes a recoverable problem found while serializing,
// reconciling or translating. Warnings never abort a render.
type Warning struct {
	Code    WarningCode
	Message string
}

// Reporter receives warnings.
type Reporter func(Warning)

// SlogReporter reports warnings to a structured logger at warn level.
func SlogReporter(logger *slog.Logger) Reporter {
	return func(w Warning) {
		logger.Warn(w.Message, "code", string(w.Code))
	}
}

// CollectReporter appends warnings to dst. Intended for tests and batch
// tooling; it is not safe for concurrent use.
func CollectReporter(dst *[]Warning) Reporter {
	return func(w Warning) {
		*dst = append(*dst, w)
	}
}
