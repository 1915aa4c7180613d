package lexer

import (
	"strings"

	"plint/internal/diag"
	"plint/internal/source"
	"plint/internal/token"
)

// Mode is the lexical sub-language the scanner is currently in.
type Mode uint8

const (
	// ModeText is markup outside the code tags.
	ModeText Mode = iota
	// ModeCode is ordinary program text.
	ModeCode
	// ModeAnnotation is the inside of a /*. ... .*/ comment.
	ModeAnnotation
	// ModeInterpolatedVar expects the variable of an interpolated string.
	ModeInterpolatedVar
	// ModeInterpolatedTail scans the literal rest of an interpolated string.
	ModeInterpolatedTail
)

func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeCode:
		return "code"
	case ModeAnnotation:
		return "annotation"
	case ModeInterpolatedVar:
		return "interpolated-var"
	case ModeInterpolatedTail:
		return "interpolated-tail"
	default:
		return "mode?"
	}
}

type Lexer struct {
	cur  Cursor
	opts Options
	mode Mode
	look *token.Token  // 1 элементный буфер для Peek
	pend []token.Token // токены, уже собранные сканером строки

	str     strState
	annOpen source.Location
	shebang bool
}

func New(r source.Reader, opts Options) *Lexer {
	return &Lexer{
		cur:  NewCursor(r),
		opts: opts,
		mode: ModeText,
	}
}

// Mode returns the current scanning mode.
func (lx *Lexer) Mode() Mode { return lx.mode }

// HadBOM reports whether the first line started with a byte order mark.
func (lx *Lexer) HadBOM() bool { return lx.cur.bom }

// HadShebang reports whether the first line was a #! line.
func (lx *Lexer) HadShebang() bool { return lx.shebang }

// Path returns the path of the scanned file.
func (lx *Lexer) Path() string { return lx.cur.line.Path }

// Loc returns the current scan position.
func (lx *Lexer) Loc() source.Location { return lx.cur.Loc() }

// Next returns the next token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	if len(lx.pend) > 0 {
		tok := lx.pend[0]
		lx.pend = lx.pend[1:]
		return tok
	}
	for {
		var (
			tok token.Token
			ok  bool
		)
		switch lx.mode {
		case ModeText:
			tok, ok = lx.scanText()
		case ModeInterpolatedVar:
			tok, ok = lx.scanInterpolatedVar()
		case ModeInterpolatedTail:
			tok, ok = lx.scanInterpolatedTail()
		default:
			tok, ok = lx.scanCode()
		}
		if ok {
			return tok
		}
		if len(lx.pend) > 0 {
			tok = lx.pend[0]
			lx.pend = lx.pend[1:]
			return tok
		}
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) eof() token.Token {
	return token.Token{Kind: token.EOF, Loc: source.Location{File: lx.cur.line.Path, Line: lx.cur.line.No}}
}

// scanText collects inline markup up to the next open tag.
func (lx *Lexer) scanText() (token.Token, bool) {
	if !lx.cur.Started() {
		if !lx.cur.Load() {
			return lx.eof(), true
		}
		if lx.cur.HasPrefix("#!") {
			lx.shebang = true
			lx.cur.Skip(len(lx.cur.Rest()))
		}
	}
	var (
		b     strings.Builder
		start source.Location
	)
	for {
		if lx.cur.EOL() {
			if !lx.cur.Load() {
				if b.Len() > 0 {
					return token.Token{Kind: token.InlineHTML, Loc: start, Text: b.String()}, true
				}
				return lx.eof(), true
			}
		}
		if lx.cur.Peek() == '<' && lx.cur.PeekAt(1) == '?' {
			if tok, ok := lx.scanOpenTag(); ok {
				if b.Len() > 0 {
					lx.pend = append(lx.pend, tok)
					return token.Token{Kind: token.InlineHTML, Loc: start, Text: b.String()}, true
				}
				return tok, true
			}
		}
		if b.Len() == 0 {
			start = lx.cur.Loc()
		}
		b.WriteByte(lx.cur.Bump())
	}
}

func (lx *Lexer) scanOpenTag() (token.Token, bool) {
	loc := lx.cur.Loc()
	m := lx.cur.Mark()
	switch {
	case lx.cur.HasPrefix("<?="):
		lx.cur.Skip(3)
		lx.mode = ModeCode
		return token.Token{Kind: token.OpenTagEcho, Loc: loc, Text: "<?="}, true
	case len(lx.cur.Rest()) >= 5 && strings.EqualFold(string(lx.cur.Rest()[:5]), "<?php"):
		lx.cur.Skip(5)
		next := lx.cur.Peek()
		if next != 0 && !isSpace(next) {
			// "<?phpx" is not a tag
			lx.cur.Reset(m)
			return token.Token{}, false
		}
		lx.eatOneBlank()
	default:
		next := lx.cur.PeekAt(2)
		if next != 0 && !isSpace(next) {
			// "<?xml" and friends stay markup
			return token.Token{}, false
		}
		lx.cur.Skip(2)
	}
	lx.mode = ModeCode
	return token.Token{Kind: token.OpenTag, Loc: loc, Text: lx.cur.Text(m)}, true
}

// eatOneBlank consumes a single blank or line terminator after a tag.
func (lx *Lexer) eatOneBlank() {
	switch lx.cur.Peek() {
	case ' ', '\t', '\n':
		lx.cur.Bump()
	case '\r':
		lx.cur.Bump()
		lx.cur.Eat('\n')
	}
}

// skipBlanks moves over whitespace and plain comments, across lines.
// It reports false at end of input.
func (lx *Lexer) skipBlanks() bool {
	for {
		if lx.cur.EOL() {
			if !lx.cur.Load() {
				return false
			}
			continue
		}
		b := lx.cur.Peek()
		switch {
		case isSpace(b):
			lx.cur.Bump()
		case b == '#' || (b == '/' && lx.cur.PeekAt(1) == '/'):
			lx.skipLineComment()
		case b == '/' && lx.cur.PeekAt(1) == '*' && !lx.atDocOrAnnotation():
			lx.skipBlockComment()
		default:
			return true
		}
	}
}

// scanCode scans one token in code or annotation mode.
func (lx *Lexer) scanCode() (token.Token, bool) {
	if !lx.skipBlanks() {
		if lx.mode == ModeAnnotation {
			lx.fatal(diag.LexUnterminatedAnnotation, lx.annOpen, "unterminated annotation, missing '.*/'")
		}
		return lx.eof(), true
	}
	ch := lx.cur.Peek()
	loc := lx.cur.Loc()

	if lx.mode == ModeAnnotation {
		if lx.cur.HasPrefix(".*/") {
			lx.cur.Skip(3)
			lx.mode = ModeCode
			return token.Token{Kind: token.AnnotationClose, Loc: loc, Text: ".*/"}, true
		}
		if lx.cur.HasPrefix("*/") {
			lx.errorf(diag.LexUnterminatedAnnotation, loc, "annotation must be closed by '.*/'")
			lx.cur.Skip(2)
			lx.mode = ModeCode
			return token.Token{Kind: token.AnnotationClose, Loc: loc, Text: "*/"}, true
		}
	}

	switch {
	case ch == '/' && lx.cur.PeekAt(1) == '*':
		return lx.scanDocOrAnnotation(), true
	case ch == '?' && lx.cur.PeekAt(1) == '>' && lx.mode == ModeCode:
		lx.cur.Skip(2)
		lx.eatNewline()
		lx.mode = ModeText
		return token.Token{Kind: token.CloseTag, Loc: loc, Text: "?>"}, true
	case ch == '$':
		return lx.scanVariable(), true
	case isIDStart(ch):
		return lx.scanName(), true
	case ch == '\\' && isIDStart(lx.cur.PeekAt(1)):
		return lx.scanName(), true
	case isDec(ch):
		return lx.scanNumber(), true
	case ch == '.' && isDec(lx.cur.PeekAt(1)):
		return lx.scanNumber(), true
	case ch == '\'':
		return lx.scanSingleQuoted(), true
	case ch == '"':
		return lx.scanDoubleQuoted(), true
	case ch == '<' && lx.cur.HasPrefix("<<<"):
		if tok, ok := lx.scanHeredoc(); ok {
			return tok, true
		}
	case ch == '(':
		if tok, ok := lx.scanCast(); ok {
			return tok, true
		}
	case ch == '`':
		lx.fatal(diag.LexUnknownChar, loc, "backtick shell execution is not supported")
	case isIllegal(ch):
		lx.fatal(diag.LexControlChar, loc, "illegal control character 0x%02X", ch)
	}
	return lx.scanOperatorOrPunct(), true
}

// eatNewline consumes a single line terminator directly after "?>".
func (lx *Lexer) eatNewline() {
	switch lx.cur.Peek() {
	case '\n':
		lx.cur.Bump()
	case '\r':
		lx.cur.Bump()
		lx.cur.Eat('\n')
	}
}

// Tokenize scans the whole input. A fatal condition stops the scan; the
// tokens read so far are returned together with it.
func Tokenize(r source.Reader, opts Options) (toks []token.Token, fatal *Fatal) {
	lx := New(r, opts)
	fatal = Catch(func() {
		for {
			tok := lx.Next()
			toks = append(toks, tok)
			if tok.Kind == token.EOF {
				return
			}
		}
	})
	return toks, fatal
}
