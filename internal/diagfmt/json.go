package diagfmt

import (
	"encoding/json"
	"io"

	"plint/internal/diag"
	"plint/internal/report"
	"plint/internal/source"
)

// LocationJSON is a position in a file.
type LocationJSON struct {
	File string `json:"file" msgpack:"file"`
	Line uint32 `json:"line,omitempty" msgpack:"line,omitempty"`
	Col  uint32 `json:"col,omitempty" msgpack:"col,omitempty"`
}

// NoteJSON is an extra location attached to a diagnostic.
type NoteJSON struct {
	Message  string       `json:"message" msgpack:"message"`
	Location LocationJSON `json:"location" msgpack:"location"`
}

// DiagnosticJSON is one diagnostic.
type DiagnosticJSON struct {
	Severity string       `json:"severity" msgpack:"severity"`
	Code     string       `json:"code" msgpack:"code"`
	Title    string       `json:"title" msgpack:"title"`
	Message  string       `json:"message" msgpack:"message"`
	Location LocationJSON `json:"location" msgpack:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty" msgpack:"notes,omitempty"`
}

// PackageJSON is one line of the package list.
type PackageJSON struct {
	Path       string        `json:"path" msgpack:"path"`
	Module     bool          `json:"module,omitempty" msgpack:"module,omitempty"`
	Library    bool          `json:"library" msgpack:"library"`
	Reason     string        `json:"reason,omitempty" msgpack:"reason,omitempty"`
	ReasonAt   *LocationJSON `json:"reason_at,omitempty" msgpack:"reason_at,omitempty"`
	Autoloaded bool          `json:"autoloaded,omitempty" msgpack:"autoloaded,omitempty"`
	Used       int           `json:"used" msgpack:"used"`
	Requires   []string      `json:"requires,omitempty" msgpack:"requires,omitempty"`
}

// FileOutput is the result of one entry file.
type FileOutput struct {
	Path        string           `json:"path" msgpack:"path"`
	Errors      int              `json:"errors" msgpack:"errors"`
	Warnings    int              `json:"warnings" msgpack:"warnings"`
	Notices     int              `json:"notices" msgpack:"notices"`
	Diagnostics []DiagnosticJSON `json:"diagnostics" msgpack:"diagnostics"`
	Packages    []PackageJSON    `json:"packages,omitempty" msgpack:"packages,omitempty"`
}

// Output is the root of JSON and msgpack documents.
type Output struct {
	Files    []FileOutput `json:"files" msgpack:"files"`
	Errors   int          `json:"errors" msgpack:"errors"`
	Warnings int          `json:"warnings" msgpack:"warnings"`
	Notices  int          `json:"notices" msgpack:"notices"`
}

// Entry is what the structured formats need from one checked file.
type Entry struct {
	Path    string
	Bag     *diag.Bag
	Summary *report.Summary // nil omits the package list
}

func makeLocation(loc source.Location, opts JSONOpts) LocationJSON {
	return LocationJSON{
		File: FormatPath(loc.File, opts.PathMode, opts.BaseDir),
		Line: loc.Line,
		Col:  loc.Col,
	}
}

// BuildFileOutput converts one entry without serialising it.
func BuildFileOutput(e Entry, opts JSONOpts) FileOutput {
	counts := e.Bag.Counts()
	out := FileOutput{
		Path:        FormatPath(e.Path, opts.PathMode, opts.BaseDir),
		Errors:      counts.Errors,
		Warnings:    counts.Warnings,
		Notices:     counts.Notices,
		Diagnostics: make([]DiagnosticJSON, 0, e.Bag.Len()),
	}
	items := e.Bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for _, d := range items {
		dj := DiagnosticJSON{
			Severity: d.Severity.Label(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, opts),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Location: makeLocation(n.Loc, opts)})
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	if e.Summary != nil {
		for _, p := range e.Summary.Packages {
			pj := PackageJSON{
				Path:       p.Path,
				Module:     p.Module,
				Library:    p.Library,
				Reason:     p.Reason,
				Autoloaded: p.Autoloaded,
				Used:       p.Used,
				Requires:   p.Requires,
			}
			if !p.Module {
				pj.Path = FormatPath(p.Path, opts.PathMode, opts.BaseDir)
			}
			if p.Reason != "" && p.ReasonLoc.Known() {
				loc := makeLocation(p.ReasonLoc, opts)
				pj.ReasonAt = &loc
			}
			out.Packages = append(out.Packages, pj)
		}
	}
	return out
}

// BuildOutput converts all entries and sums their counts.
func BuildOutput(entries []Entry, opts JSONOpts) Output {
	out := Output{Files: make([]FileOutput, 0, len(entries))}
	for _, e := range entries {
		f := BuildFileOutput(e, opts)
		out.Errors += f.Errors
		out.Warnings += f.Warnings
		out.Notices += f.Notices
		out.Files = append(out.Files, f)
	}
	return out
}

// JSON writes entries as one indented JSON document.
func JSON(w io.Writer, entries []Entry, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildOutput(entries, opts))
}
