package lexer

import (
	"bytes"
	"math/big"
	"strings"
	"unicode/utf8"

	"plint/internal/diag"
	"plint/internal/source"
	"plint/internal/token"
)

type strKind uint8

const (
	strDouble strKind = iota
	strHeredoc
)

// strState describes the interpolated string being scanned.
type strState struct {
	kind strKind
	id   string // heredoc terminator
	open source.Location
	ret  Mode // mode to restore after the string
}

type bodyStop uint8

const (
	stopEnd bodyStop = iota // closing quote or terminator consumed
	stopVar                 // cursor at '$' of an interpolated variable
)

// scanSingleQuoted scans '...'. Only \\ and \' are escapes.
func (lx *Lexer) scanSingleQuoted() token.Token {
	loc := lx.cur.Loc()
	lx.cur.Bump()
	var b strings.Builder
	for {
		if lx.cur.EOL() {
			if !lx.cur.Load() {
				lx.fatal(diag.LexUnterminatedString, loc, "unterminated string literal")
			}
			continue
		}
		c := lx.cur.Bump()
		switch {
		case c == '\'':
			return token.Token{Kind: token.StringLit, Loc: loc, Text: b.String()}
		case c == '\\' && (lx.cur.Peek() == '\\' || lx.cur.Peek() == '\''):
			b.WriteByte(lx.cur.Bump())
		default:
			b.WriteByte(c)
		}
	}
}

// scanDoubleQuoted scans "...". A string without interpolation becomes a
// single StringLit, otherwise DQStart is returned and the scanner switches
// to the interpolation modes.
func (lx *Lexer) scanDoubleQuoted() token.Token {
	loc := lx.cur.Loc()
	lx.cur.Bump()
	lx.str = strState{kind: strDouble, open: loc, ret: lx.mode}
	text, partLoc, stop := lx.scanBody()
	if stop == stopEnd {
		return token.Token{Kind: token.StringLit, Loc: loc, Text: text}
	}
	if text != "" {
		lx.pend = append(lx.pend, token.Token{Kind: token.StringPart, Loc: partLoc, Text: text})
	}
	lx.mode = ModeInterpolatedVar
	return token.Token{Kind: token.DQStart, Loc: loc, Text: `"`}
}

// scanHeredoc scans <<<ID, <<<"ID" and <<<'ID' (nowdoc). It reports false,
// leaving the cursor untouched, when the opener is malformed.
func (lx *Lexer) scanHeredoc() (token.Token, bool) {
	loc := lx.cur.Loc()
	m := lx.cur.Mark()
	lx.cur.Skip(3)
	lx.skipInlineBlanks()
	quote := byte(0)
	if q := lx.cur.Peek(); q == '\'' || q == '"' {
		quote = lx.cur.Bump()
	}
	if !isIDStart(lx.cur.Peek()) {
		lx.cur.Reset(m)
		return token.Token{}, false
	}
	id := lx.scanIdent()
	if quote != 0 && !lx.cur.Eat(quote) {
		lx.cur.Reset(m)
		return token.Token{}, false
	}
	if len(bytes.TrimRight(lx.cur.Rest(), " \t\r\n")) != 0 {
		lx.cur.Reset(m)
		return token.Token{}, false
	}
	lx.cur.Skip(len(lx.cur.Rest()))
	lx.str = strState{kind: strHeredoc, id: id, open: loc, ret: lx.mode}

	if quote == '\'' {
		return token.Token{Kind: token.StringLit, Loc: loc, Text: lx.scanNowdoc()}, true
	}
	text, partLoc, stop := lx.scanBody()
	if stop == stopEnd {
		return token.Token{Kind: token.StringLit, Loc: loc, Text: text}, true
	}
	if text != "" {
		lx.pend = append(lx.pend, token.Token{Kind: token.StringPart, Loc: partLoc, Text: text})
	}
	lx.mode = ModeInterpolatedVar
	return token.Token{Kind: token.HeredocStart, Loc: loc, Text: "<<<" + id}, true
}

// scanNowdoc collects raw lines up to the terminator.
func (lx *Lexer) scanNowdoc() string {
	var b strings.Builder
	for {
		if !lx.cur.Load() {
			lx.fatal(diag.LexUnterminatedHeredoc, lx.str.open, "unterminated nowdoc, missing %s", lx.str.id)
		}
		if lx.atTerminator() {
			return trimFinalNewline(b.String())
		}
		b.Write(lx.cur.Rest())
		lx.cur.Skip(len(lx.cur.Rest()))
	}
}

// atTerminator checks a freshly loaded line for the heredoc terminator and
// consumes it. The terminator may be indented; trailing blanks after it are
// fatal.
func (lx *Lexer) atTerminator() bool {
	raw := lx.cur.Rest()
	i := 0
	for i < len(raw) && (raw[i] == ' ' || raw[i] == '\t') {
		i++
	}
	id := lx.str.id
	if !bytes.HasPrefix(raw[i:], []byte(id)) {
		return false
	}
	j := i + len(id)
	if j < len(raw) && isIDCont(raw[j]) {
		return false
	}
	tail := bytes.TrimRight(raw[j:], "\r\n")
	if len(tail) > 0 && len(bytes.Trim(tail, " \t")) == 0 {
		lx.fatal(diag.LexHeredocTrailingSpace, lx.cur.LocOf(Mark(j)), "heredoc terminator %s is followed by trailing blanks", id)
	}
	lx.cur.Skip(j)
	return true
}

func trimFinalNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// scanBody scans the literal part of a double-quoted or heredoc string up
// to its end or the next interpolated variable.
func (lx *Lexer) scanBody() (text string, loc source.Location, stop bodyStop) {
	var b strings.Builder
	loc = lx.cur.Loc()
	for {
		if lx.cur.EOL() {
			if !lx.cur.Load() {
				if lx.str.kind == strHeredoc {
					lx.fatal(diag.LexUnterminatedHeredoc, lx.str.open, "unterminated heredoc, missing %s", lx.str.id)
				}
				lx.fatal(diag.LexUnterminatedString, lx.str.open, "unterminated string literal")
			}
			if b.Len() == 0 {
				loc = lx.cur.Loc()
			}
			if lx.str.kind == strHeredoc && lx.atTerminator() {
				return trimFinalNewline(b.String()), loc, stopEnd
			}
			continue
		}
		c := lx.cur.Peek()
		switch {
		case c == '"' && lx.str.kind == strDouble:
			lx.cur.Bump()
			return b.String(), loc, stopEnd
		case c == '\\':
			lx.escape(&b)
		case c == '$' && isIDStart(lx.cur.PeekAt(1)):
			return b.String(), loc, stopVar
		case (c == '{' && lx.cur.PeekAt(1) == '$') || (c == '$' && lx.cur.PeekAt(1) == '{'):
			lx.errorf(diag.LexBracedInterpolation, lx.cur.Loc(), "braced interpolation is not supported, use concatenation")
			lx.skipBraced()
		default:
			b.WriteByte(lx.cur.Bump())
		}
	}
}

// escape decodes one escape sequence of a double-quoted or heredoc string.
// Unknown sequences are kept verbatim.
func (lx *Lexer) escape(b *strings.Builder) {
	loc := lx.cur.Loc()
	lx.cur.Bump() // '\\'
	c := lx.cur.Peek()
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'v':
		b.WriteByte('\v')
	case 'e':
		b.WriteByte(0x1b)
	case 'f':
		b.WriteByte('\f')
	case '\\':
		b.WriteByte('\\')
	case '$':
		b.WriteByte('$')
	case '"':
		if lx.str.kind == strHeredoc {
			b.WriteByte('\\')
		}
		b.WriteByte('"')
	case '0', '1', '2', '3', '4', '5', '6', '7':
		v := 0
		for n := 0; n < 3 && isOct(lx.cur.Peek()); n++ {
			v = v*8 + int(lx.cur.Bump()-'0')
		}
		b.WriteByte(byte(v & 0xff))
		return
	case 'x':
		if !isHex(lx.cur.PeekAt(1)) {
			b.WriteString(`\`)
			return
		}
		lx.cur.Bump()
		v := 0
		for n := 0; n < 2 && isHex(lx.cur.Peek()); n++ {
			v = v*16 + hexVal(lx.cur.Bump())
		}
		b.WriteByte(byte(v))
		return
	case 'u':
		if lx.cur.PeekAt(1) != '{' {
			b.WriteString(`\`)
			return
		}
		lx.escapeUnicode(b, loc)
		return
	default:
		b.WriteByte('\\')
		return
	}
	lx.cur.Bump()
}

// escapeUnicode decodes \u{H+}; the cursor is at 'u'.
func (lx *Lexer) escapeUnicode(b *strings.Builder, loc source.Location) {
	m := lx.cur.Mark()
	lx.cur.Skip(2)
	v := 0
	digits := 0
	for isHex(lx.cur.Peek()) {
		v = v*16 + hexVal(lx.cur.Bump())
		digits++
		if v > utf8.MaxRune {
			break
		}
	}
	if digits == 0 || !lx.cur.Eat('}') || v > utf8.MaxRune {
		lx.errorf(diag.LexBadEscape, loc, "invalid unicode escape sequence")
		lx.cur.Reset(m)
		b.WriteString(`\`)
		return
	}
	b.WriteRune(rune(v))
}

// scanInterpolatedVar scans $name with an optional [index] or ->prop.
func (lx *Lexer) scanInterpolatedVar() (token.Token, bool) {
	loc := lx.cur.Loc()
	lx.cur.Bump() // '$'
	v := token.Token{Kind: token.Variable, Loc: loc, Text: lx.scanIdent()}
	lx.mode = ModeInterpolatedTail

	switch {
	case lx.cur.Peek() == '[':
		lx.pend = append(lx.pend, token.Token{Kind: token.LBracket, Loc: lx.cur.Loc(), Text: "["})
		lx.cur.Bump()
		lx.scanInterpolatedIndex()
		if lx.cur.Peek() != ']' {
			lx.errorf(diag.SynUnexpectedToken, lx.cur.Loc(), "expected ']' in interpolated array index")
			return v, true
		}
		lx.pend = append(lx.pend, token.Token{Kind: token.RBracket, Loc: lx.cur.Loc(), Text: "]"})
		lx.cur.Bump()
	case lx.cur.Peek() == '-' && lx.cur.PeekAt(1) == '>' && isIDStart(lx.cur.PeekAt(2)):
		lx.pend = append(lx.pend, token.Token{Kind: token.Arrow, Loc: lx.cur.Loc(), Text: "->"})
		lx.cur.Skip(2)
		ploc := lx.cur.Loc()
		lx.pend = append(lx.pend, token.Token{Kind: token.Ident, Loc: ploc, Text: lx.scanIdent()})
	}
	return v, true
}

// scanInterpolatedIndex scans the index of "$a[...]": a variable, an
// integer or a bare word taken as a string key.
func (lx *Lexer) scanInterpolatedIndex() {
	loc := lx.cur.Loc()
	c := lx.cur.Peek()
	switch {
	case c == '$' && isIDStart(lx.cur.PeekAt(1)):
		lx.cur.Bump()
		lx.pend = append(lx.pend, token.Token{Kind: token.Variable, Loc: loc, Text: lx.scanIdent()})
	case isDec(c) || (c == '-' && isDec(lx.cur.PeekAt(1))):
		m := lx.cur.Mark()
		lx.cur.Bump()
		for isDec(lx.cur.Peek()) {
			lx.cur.Bump()
		}
		lit := lx.cur.Text(m)
		v, ok := new(big.Int).SetString(lit, 10)
		if !ok {
			v = new(big.Int)
		}
		lx.pend = append(lx.pend, token.Token{Kind: token.IntLit, Loc: loc, Text: lit, Int: v})
	case isIDStart(c):
		lx.pend = append(lx.pend, token.Token{Kind: token.StringLit, Loc: loc, Text: lx.scanIdent()})
	default:
		lx.errorf(diag.SynUnexpectedToken, loc, "invalid interpolated array index")
	}
}

// scanInterpolatedTail scans the literal part after an interpolated
// variable up to the next variable or the end of the string.
func (lx *Lexer) scanInterpolatedTail() (token.Token, bool) {
	text, loc, stop := lx.scanBody()
	var part token.Token
	if text != "" {
		part = token.Token{Kind: token.StringPart, Loc: loc, Text: text}
	}
	if stop == stopVar {
		lx.mode = ModeInterpolatedVar
		return part, text != ""
	}
	end := token.Token{Kind: token.DQEnd, Loc: lx.endLoc(), Text: `"`}
	if lx.str.kind == strHeredoc {
		end = token.Token{Kind: token.HeredocEnd, Loc: lx.endLoc(), Text: lx.str.id}
	}
	lx.mode = lx.str.ret
	if text == "" {
		return end, true
	}
	lx.pend = append(lx.pend, end)
	return part, true
}

// endLoc is the location of the byte just consumed by scanBody.
func (lx *Lexer) endLoc() source.Location {
	off := lx.cur.Off - 1
	if lx.str.kind == strHeredoc {
		off = lx.cur.Off - len(lx.str.id)
	}
	if off < 0 {
		off = 0
	}
	return lx.cur.LocOf(Mark(off))
}
