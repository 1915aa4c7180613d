package diag

import "plint/internal/source"

// New builds a diagnostic without notes. Use it where no Reporter is at
// hand, e.g. when a fatal scanner fault is turned into a Bag entry.
func New(sev Severity, code Code, primary source.Location, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

func NewError(code Code, primary source.Location, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// WithNote returns a copy of d with one more note at loc.
func (d Diagnostic) WithNote(loc source.Location, msg string) Diagnostic {
	d.Notes = append(d.Notes[:len(d.Notes):len(d.Notes)], Note{Loc: loc, Msg: msg})
	return d
}
