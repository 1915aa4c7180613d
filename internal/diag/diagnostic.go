package diag

import (
	"plint/internal/source"
)

type Note struct {
	Loc source.Location
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Location
	Notes    []Note
}

// Counts holds per-severity totals. They stay authoritative even when a Bag
// drops diagnostics over its limit.
type Counts struct {
	Errors   int
	Warnings int
	Notices  int
}

func (c *Counts) add(sev Severity) {
	switch sev {
	case SevError:
		c.Errors++
	case SevWarning:
		c.Warnings++
	default:
		c.Notices++
	}
}

func (c *Counts) remove(sev Severity) {
	switch sev {
	case SevError:
		c.Errors--
	case SevWarning:
		c.Warnings--
	default:
		c.Notices--
	}
}

// Failed reports the pass/fail verdict: any error fails, warnings fail only
// when strict is set.
func (c Counts) Failed(strict bool) bool {
	if c.Errors > 0 {
		return true
	}
	return strict && c.Warnings > 0
}
