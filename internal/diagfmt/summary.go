package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"plint/internal/diag"
	"plint/internal/report"
)

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// Totals prints the closing line of a run.
func Totals(w io.Writer, files int, c diag.Counts, opts PrettyOpts) {
	p := newPalette(opts.Color)
	errs := plural(c.Errors, "error")
	if c.Errors > 0 {
		errs = p.err.Sprint(errs)
	}
	warns := plural(c.Warnings, "warning")
	if c.Warnings > 0 {
		warns = p.warn.Sprint(warns)
	}
	fmt.Fprintf(w, "%s checked: %s, %s, %s\n", plural(files, "file"), errs, warns, plural(c.Notices, "notice"))
}

// Packages prints the package list of one entry file: every loaded file
// or module, whether it may be required as a library and what it requires.
func Packages(w io.Writer, sum report.Summary, opts PrettyOpts) {
	p := newPalette(opts.Color)
	fmt.Fprintf(w, "packages of %s:\n", p.loc.Sprint(FormatPath(sum.Entry, opts.PathMode, opts.BaseDir)))
	for _, pkg := range sum.Packages {
		name := pkg.Path
		if !pkg.Module {
			name = FormatPath(pkg.Path, opts.PathMode, opts.BaseDir)
		}
		var flags []string
		if pkg.Autoloaded {
			flags = append(flags, "autoloaded")
		}
		if pkg.Library {
			flags = append(flags, "library")
		} else {
			flags = append(flags, p.warn.Sprint("not a library")+": "+pkg.Reason)
		}
		fmt.Fprintf(w, "  %s (%s)\n", name, strings.Join(flags, ", "))
		for _, req := range pkg.Requires {
			if !strings.HasPrefix(req, "module ") {
				req = FormatPath(req, opts.PathMode, opts.BaseDir)
			}
			fmt.Fprintf(w, "    requires %s\n", req)
		}
	}
}
