package parser

import (
	"fmt"

	"plint/internal/diag"
	"plint/internal/source"
	"plint/internal/token"
)

// fill loads n tokens of lookahead. Doc comments never reach the grammar:
// they are stashed as they are scanned.
func (pk *Package) fill(n int) {
	for len(pk.buf) < n {
		t := pk.lx.Next()
		if t.Kind == token.DocComment {
			pk.stashDoc(t)
			continue
		}
		pk.buf = append(pk.buf, t)
	}
}

// peek: текущий токен без продвижения.
func (pk *Package) peek() token.Token {
	pk.fill(1)
	return pk.buf[0]
}

// peek2: токен после текущего.
func (pk *Package) peek2() token.Token {
	pk.fill(2)
	return pk.buf[1]
}

// advance: съедает текущий токен и обновляет last.
func (pk *Package) advance() token.Token {
	pk.fill(1)
	t := pk.buf[0]
	copy(pk.buf, pk.buf[1:])
	pk.buf = pk.buf[:len(pk.buf)-1]
	if t.Kind != token.EOF {
		pk.last = t.Loc
		pk.read++
	}
	return t
}

func (pk *Package) at(k token.Kind) bool { return pk.peek().Kind == k }

func (pk *Package) atAny(kinds ...token.Kind) bool {
	return pk.peek().Is(kinds...)
}

// accept consumes the current token when it has kind k.
func (pk *Package) accept(k token.Kind) bool {
	if pk.at(k) {
		pk.advance()
		return true
	}
	return false
}

// expect: ожидаем конкретный токен. Если нет: репортим и возвращаем (invalid,false).
func (pk *Package) expect(k token.Kind, what string) (token.Token, bool) {
	if pk.at(k) {
		return pk.advance(), true
	}
	t := pk.peek()
	pk.errorf(diag.SynUnexpectedToken, t.Loc, "expected %s, found %s", what, describe(t))
	return token.Token{Kind: token.Invalid, Loc: t.Loc}, false
}

// expectSemicolon ends a statement: ';' or a closing tag, which is left
// for the statement loop.
func (pk *Package) expectSemicolon() {
	switch pk.peek().Kind {
	case token.Semicolon:
		pk.advance()
	case token.CloseTag, token.EOF:
	default:
		t := pk.peek()
		pk.errorf(diag.SynExpectSemicolon, t.Loc, "expected ';', found %s", describe(t))
		pk.resync()
	}
}

// resync skips to the end of the current statement: past a ';', or up to
// a '}', a closing tag or the end of input.
func (pk *Package) resync() {
	depth := 0
	for {
		switch pk.peek().Kind {
		case token.EOF, token.CloseTag:
			return
		case token.Semicolon:
			if depth == 0 {
				pk.advance()
				return
			}
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		}
		pk.advance()
	}
}

// name consumes an identifier. Keywords are accepted where a member name
// is expected.
func (pk *Package) name(what string, keywords bool) (token.Token, bool) {
	t := pk.peek()
	if t.Kind == token.Ident || (keywords && t.IsNameLike() && t.Kind != token.Name) {
		return pk.advance(), true
	}
	pk.errorf(diag.SynExpectIdentifier, t.Loc, "expected %s, found %s", what, describe(t))
	return token.Token{Kind: token.Invalid, Loc: t.Loc}, false
}

func (pk *Package) errorf(code diag.Code, loc source.Location, format string, args ...any) {
	diag.ReportError(pk.rep, code, loc, fmt.Sprintf(format, args...)).Emit()
}

func (pk *Package) warnf(code diag.Code, loc source.Location, format string, args ...any) {
	diag.ReportWarning(pk.rep, code, loc, fmt.Sprintf(format, args...)).Emit()
}

func (pk *Package) noticef(code diag.Code, loc source.Location, format string, args ...any) {
	diag.ReportNotice(pk.rep, code, loc, fmt.Sprintf(format, args...)).Emit()
}

// unsupported reports a construct outside the grammar and abandons the file.
func (pk *Package) unsupported(t token.Token, what string) {
	panic(&bailout{code: diag.SynUnsupported, loc: t.Loc, msg: what + " is not supported"})
}

func describe(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.Name:
		return fmt.Sprintf("identifier %s", t.Text)
	case token.Variable:
		return "$" + t.Text
	case token.IntLit, token.FloatLit:
		return "number " + t.Text
	case token.StringLit:
		return "string literal"
	case token.InlineHTML:
		return "text"
	case token.AnnotationOpen:
		return "'/*.'"
	default:
		return fmt.Sprintf("'%s'", t.Kind)
	}
}
