package lexer

import (
	"plint/internal/diag"
	"plint/internal/token"
)

// scanOperatorOrPunct scans operators greedily: 3-byte forms first, then
// 2-byte forms, then single bytes.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	loc := lx.cur.Loc()
	m := lx.cur.Mark()
	emit := func(k token.Kind) token.Token {
		return token.Token{Kind: k, Loc: loc, Text: lx.cur.Text(m)}
	}

	switch {
	case lx.try3('*', '*', '='):
		return emit(token.StarStarAssign)
	case lx.try3('.', '.', '.'):
		return emit(token.Ellipsis)
	case lx.try3('<', '<', '='):
		return emit(token.ShlAssign)
	case lx.try3('>', '>', '='):
		return emit(token.ShrAssign)
	case lx.try3('=', '=', '='):
		return emit(token.EqEqEq)
	case lx.try3('!', '=', '='):
		return emit(token.BangEqEq)
	case lx.try3('<', '=', '>'):
		return emit(token.Spaceship)
	case lx.try3('?', '?', '='):
		return emit(token.CoalesceAssign)
	}

	switch {
	case lx.try2('*', '*'):
		return emit(token.StarStar)
	case lx.try2('+', '='):
		return emit(token.PlusAssign)
	case lx.try2('-', '='):
		return emit(token.MinusAssign)
	case lx.try2('*', '='):
		return emit(token.StarAssign)
	case lx.try2('/', '='):
		return emit(token.SlashAssign)
	case lx.try2('%', '='):
		return emit(token.PercentAssign)
	case lx.try2('.', '='):
		return emit(token.DotAssign)
	case lx.try2('&', '='):
		return emit(token.AmpAssign)
	case lx.try2('|', '='):
		return emit(token.PipeAssign)
	case lx.try2('^', '='):
		return emit(token.CaretAssign)
	case lx.try2('=', '='):
		return emit(token.EqEq)
	case lx.try2('!', '='), lx.try2('<', '>'):
		return emit(token.BangEq)
	case lx.try2('<', '='):
		return emit(token.LtEq)
	case lx.try2('>', '='):
		return emit(token.GtEq)
	case lx.try2('&', '&'):
		return emit(token.AndAnd)
	case lx.try2('|', '|'):
		return emit(token.OrOr)
	case lx.try2('<', '<'):
		return emit(token.Shl)
	case lx.try2('>', '>'):
		return emit(token.Shr)
	case lx.try2('+', '+'):
		return emit(token.PlusPlus)
	case lx.try2('-', '-'):
		return emit(token.MinusMinus)
	case lx.try2('?', '?'):
		return emit(token.Coalesce)
	case lx.try2(':', ':'):
		return emit(token.ColonColon)
	case lx.try2('-', '>'):
		return emit(token.Arrow)
	case lx.try2('=', '>'):
		return emit(token.FatArrow)
	}

	// односимвольные
	ch := lx.cur.Bump()
	switch ch {
	case '+':
		return emit(token.Plus)
	case '-':
		return emit(token.Minus)
	case '*':
		return emit(token.Star)
	case '/':
		return emit(token.Slash)
	case '%':
		return emit(token.Percent)
	case '.':
		return emit(token.Dot)
	case '=':
		return emit(token.Assign)
	case '!':
		return emit(token.Bang)
	case '<':
		return emit(token.Lt)
	case '>':
		return emit(token.Gt)
	case '&':
		return emit(token.Amp)
	case '|':
		return emit(token.Pipe)
	case '^':
		return emit(token.Caret)
	case '~':
		return emit(token.Tilde)
	case '?':
		return emit(token.Question)
	case ':':
		return emit(token.Colon)
	case ';':
		return emit(token.Semicolon)
	case ',':
		return emit(token.Comma)
	case '(':
		return emit(token.LParen)
	case ')':
		return emit(token.RParen)
	case '{':
		return emit(token.LBrace)
	case '}':
		return emit(token.RBrace)
	case '[':
		return emit(token.LBracket)
	case ']':
		return emit(token.RBracket)
	case '@':
		return emit(token.At)
	case '\\':
		return emit(token.Backslash)
	default:
		// неизвестный символ
		lx.errorf(diag.LexUnknownChar, loc, "unexpected character %q", ch)
		return emit(token.Invalid)
	}
}

// scanCast recognizes "(" blanks word blanks ")" where word names a cast.
// The cursor is left untouched when the parenthesis is not a cast.
func (lx *Lexer) scanCast() (token.Token, bool) {
	loc := lx.cur.Loc()
	m := lx.cur.Mark()
	lx.cur.Bump() // '('
	lx.skipInlineBlanks()
	if !isIDStart(lx.cur.Peek()) {
		lx.cur.Reset(m)
		return token.Token{}, false
	}
	word := lx.scanIdent()
	lx.skipInlineBlanks()
	if lx.cur.Peek() != ')' {
		lx.cur.Reset(m)
		return token.Token{}, false
	}
	k, ok := token.LookupCast(word)
	if !ok {
		lx.cur.Reset(m)
		return token.Token{}, false
	}
	lx.cur.Bump()
	return token.Token{Kind: k, Loc: loc, Text: lx.cur.Text(m)}, true
}
