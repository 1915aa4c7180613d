package diag

import (
	"fmt"
	"strings"
)

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevNotice is for unused/deprecated style findings; never fails a run.
	SevNotice Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevNotice:
		return "NOTICE"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label returns the lower-case name used by short and JSON output.
func (s Severity) Label() string {
	return strings.ToLower(s.String())
}

// ParseSeverity converts notice|warning|error into a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "notice", "info":
		return SevNotice, nil
	case "warning", "warn":
		return SevWarning, nil
	case "error":
		return SevError, nil
	default:
		return SevNotice, fmt.Errorf("invalid severity %q (expected notice|warning|error)", s)
	}
}
