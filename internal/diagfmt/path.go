package diagfmt

import (
	"path/filepath"
	"strings"
)

// FormatPath renders path for display according to mode.
func FormatPath(path string, mode PathMode, base string) string {
	if path == "" {
		return ""
	}
	switch mode {
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	case PathModeRelative:
		return relative(path, base, true)
	default:
		return relative(path, base, false)
	}
}

// relative makes path relative to base; when always is false paths that
// would need "../" stay absolute.
func relative(path, base string, always bool) string {
	if base == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	if !always && (rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
		return path
	}
	return rel
}
