package lexer

import (
	"plint/internal/diag"
	"plint/internal/token"
)

// scanIdent consumes [id-start][id-continue]* and returns its text.
func (lx *Lexer) scanIdent() string {
	m := lx.cur.Mark()
	for isIDCont(lx.cur.Peek()) {
		lx.cur.Bump()
	}
	return lx.cur.Text(m)
}

// scanName сканирует идентификатор, ключевое слово или имя с '\'.
// Keywords are matched case-insensitively; inside annotations the
// annotation words are recognized as well. "namespace\X" stays a relative
// Name.
func (lx *Lexer) scanName() token.Token {
	loc := lx.cur.Loc()
	m := lx.cur.Mark()
	qualified := false
	if lx.cur.Peek() == '\\' {
		lx.cur.Bump()
		qualified = true
	}
	lx.scanIdent()
	for lx.cur.Peek() == '\\' && isIDStart(lx.cur.PeekAt(1)) {
		lx.cur.Bump()
		lx.scanIdent()
		qualified = true
	}
	text := lx.cur.Text(m)
	if lx.cur.Peek() == '\\' {
		lx.errorf(diag.SynExpectIdentifier, lx.cur.Loc(), "expected identifier after '\\' in %q", text+"\\")
		lx.cur.Bump()
	}
	if qualified {
		return token.Token{Kind: token.Name, Loc: loc, Text: text}
	}

	lookup := token.LookupKeyword
	if lx.mode == ModeAnnotation {
		lookup = token.LookupMeta
	}
	if k, ok := lookup(text); ok {
		return token.Token{Kind: k, Loc: loc, Text: text}
	}
	return token.Token{Kind: token.Ident, Loc: loc, Text: text}
}

// scanVariable scans $name. Variable variables ($$x) are reported and the
// inner variable is returned.
func (lx *Lexer) scanVariable() token.Token {
	loc := lx.cur.Loc()
	lx.cur.Bump() // '$'
	if lx.cur.Peek() == '$' {
		lx.errorf(diag.LexVariableVariable, loc, "variable variables are not supported")
		for lx.cur.Peek() == '$' {
			lx.cur.Bump()
		}
	}
	if lx.cur.Peek() == '{' {
		lx.errorf(diag.LexVariableVariable, loc, "variable variables are not supported")
		lx.skipBraced()
		return token.Token{Kind: token.Invalid, Loc: loc, Text: "${"}
	}
	if !isIDStart(lx.cur.Peek()) {
		lx.errorf(diag.LexUnknownChar, loc, "expected variable name after '$'")
		return token.Token{Kind: token.Invalid, Loc: loc, Text: "$"}
	}
	name := lx.scanIdent()
	return token.Token{Kind: token.Variable, Loc: loc, Text: name}
}

// skipBraced skips a {...} group on the current line, honouring nesting.
// It stops at end of line when the group is not closed there.
func (lx *Lexer) skipBraced() {
	depth := 0
	for !lx.cur.EOL() {
		switch lx.cur.Bump() {
		case '{':
			depth++
		case '}':
			depth--
			if depth <= 0 {
				return
			}
		}
	}
}
