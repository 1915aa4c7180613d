package lexer

import (
	"fmt"

	"plint/internal/diag"
	"plint/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil: ошибки игнорируются, сканирование продолжается
}

func (lx *Lexer) report(code diag.Code, sev diag.Severity, loc source.Location, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, sev, loc, msg, nil)
	}
}

func (lx *Lexer) errorf(code diag.Code, loc source.Location, format string, args ...any) {
	lx.report(code, diag.SevError, loc, fmt.Sprintf(format, args...))
}

// Fatal is raised (via panic) when the current file cannot be scanned any
// further: unterminated literals and comments, illegal bytes, read errors.
type Fatal struct {
	Code diag.Code
	Loc  source.Location
	Msg  string
}

func (f *Fatal) Error() string {
	return fmt.Sprintf("%s: %s", f.Loc, f.Msg)
}

func (lx *Lexer) fatal(code diag.Code, loc source.Location, format string, args ...any) {
	panic(&Fatal{Code: code, Loc: loc, Msg: fmt.Sprintf(format, args...)})
}

// Catch runs fn and returns the Fatal it raised, if any. Other panics are
// propagated unchanged.
func Catch(fn func()) (f *Fatal) {
	defer func() {
		if r := recover(); r != nil {
			if ff, ok := r.(*Fatal); ok {
				f = ff
				return
			}
			panic(r)
		}
	}()
	fn()
	return nil
}
