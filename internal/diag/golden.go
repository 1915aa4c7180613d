package diag

import (
	"fmt"
	"slices"
	"strings"

	"plint/internal/source"
)

type goldenLine struct {
	sev  string
	code string
	path string
	line uint32
	col  uint32
	msg  string
}

// FormatGolden renders diagnostics one per line in a stable order for
// comparison in tests. Paths are made relative to baseDir; locations in
// built-in modules, whose paths start with '<', are dropped.
func FormatGolden(diags []Diagnostic, baseDir string, includeNotes bool) string {
	lines := make([]goldenLine, 0, len(diags))
	add := func(sev string, code Code, loc source.Location, msg string) {
		if strings.HasPrefix(loc.File, "<") {
			return
		}
		lines = append(lines, goldenLine{
			sev:  sev,
			code: code.ID(),
			path: goldenPath(loc.File, baseDir),
			line: loc.Line,
			col:  loc.Col,
			msg:  strings.Join(strings.Fields(msg), " "),
		})
	}
	for _, d := range diags {
		add(d.Severity.Label(), d.Code, d.Primary, d.Message)
		if includeNotes {
			for _, n := range d.Notes {
				add("note", d.Code, n.Loc, n.Msg)
			}
		}
	}
	slices.SortStableFunc(lines, func(a, b goldenLine) int {
		switch {
		case a.path != b.path:
			return strings.Compare(a.path, b.path)
		case a.line != b.line:
			return int(a.line) - int(b.line)
		case a.col != b.col:
			return int(a.col) - int(b.col)
		}
		return 0
	})

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.line, l.col, l.msg)
	}
	return b.String()
}

func goldenPath(path, baseDir string) string {
	if path == "" {
		return "?"
	}
	if baseDir != "" {
		if rel, err := source.RelativePath(path, baseDir); err == nil {
			return rel
		}
	}
	return path
}
