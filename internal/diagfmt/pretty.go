package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"plint/internal/diag"
	"plint/internal/source"
)

type palette struct {
	err, warn, notice, code, loc, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		notice: color.New(color.FgCyan),
		code:   color.New(color.Faint),
		loc:    color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgMagenta),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.notice, p.code, p.loc, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.notice
	}
}

// Pretty prints every diagnostic of bag as
//
//	path:line:col: error SEM3002: message
//	   3 | echo foo();
//	     |      ^
//
// followed by its notes. The bag is expected to be sorted already.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.loc.Sprint(locString(d.Primary, opts.PathMode, opts.BaseDir)),
			p.severity(d.Severity).Sprint(d.Severity.Label()),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		excerpt(w, d.Primary, opts.TabWidth, p)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), locString(n.Loc, opts.PathMode, opts.BaseDir), n.Msg)
			excerpt(w, n.Loc, opts.TabWidth, p)
		}
	}
}

func locString(loc source.Location, mode PathMode, base string) string {
	loc.File = FormatPath(loc.File, mode, base)
	return loc.String()
}

// excerpt prints the source line of loc with a caret under its column.
func excerpt(w io.Writer, loc source.Location, tabWidth int, p palette) {
	if !loc.HasLine() || strings.TrimSpace(loc.Text) == "" {
		return
	}
	line, caret := ExpandLine(loc.Text, int(loc.Col), tabWidth)
	num := strconv.FormatUint(uint64(loc.Line), 10)
	pad := strings.Repeat(" ", len(num))
	fmt.Fprintf(w, " %s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), line)
	if caret >= 0 {
		fmt.Fprintf(w, " %s %s %s%s\n", pad, p.gutter.Sprint("|"), strings.Repeat(" ", caret), p.caret.Sprint("^"))
	}
}

// ExpandLine replaces tabs in text with spaces up to the next multiple of
// tabWidth and returns the display column of the 1-based byte column col,
// or -1 when col is unknown. Wide runes count for their terminal width.
func ExpandLine(text string, col, tabWidth int) (string, int) {
	if tabWidth <= 0 {
		tabWidth = 8
	}
	caret := -1
	var b strings.Builder
	width := 0
	for i, r := range text {
		if col > 0 && i == col-1 {
			caret = width
		}
		if r == '\t' {
			n := tabWidth - width%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			width += n
			continue
		}
		b.WriteRune(r)
		width += runewidth.RuneWidth(r)
	}
	if col > 0 && caret < 0 && col-1 >= len(text) {
		caret = width
	}
	return b.String(), caret
}
