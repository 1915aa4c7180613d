package lexer

import (
	"errors"
	"math/big"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"plint/internal/diag"
	"plint/internal/source"
	"plint/internal/token"
)

// scanNumber scans integer and float literals.
// Поддержка: 123, 0x1F, 0b101, 0755 (octal), 0o755, 1.5, .5, 1., 1e3, 1.5E-3.
// Integers are accumulated in a big.Int so range checks done by callers
// never see silent truncation. There is no digit separator: '_' inside a
// number is reported at its position and skipped.
func (lx *Lexer) scanNumber() token.Token {
	loc := lx.cur.Loc()
	var text strings.Builder

	if lx.cur.Peek() == '0' {
		switch lx.cur.PeekAt(1) {
		case 'x', 'X':
			return lx.scanRadix(loc, 16, "0x")
		case 'b', 'B':
			return lx.scanRadix(loc, 2, "0b")
		case 'o', 'O':
			return lx.scanRadix(loc, 8, "0o")
		}
	}

	isFloat := false
	lx.scanDigits(&text)
	if lx.cur.Peek() == '.' {
		next := lx.cur.PeekAt(1)
		if next != '.' && next != '=' && !isIDStart(next) {
			isFloat = true
			text.WriteByte(lx.cur.Bump())
			lx.scanDigits(&text)
		}
	}
	if b := lx.cur.Peek(); b == 'e' || b == 'E' {
		m := lx.cur.Mark()
		lx.cur.Bump()
		sign := byte(0)
		if s := lx.cur.Peek(); s == '+' || s == '-' {
			sign = lx.cur.Bump()
		}
		if isDec(lx.cur.Peek()) {
			isFloat = true
			text.WriteByte('e')
			if sign != 0 {
				text.WriteByte(sign)
			}
			lx.scanDigits(&text)
		} else {
			// "1e" or "1e+": the 'e' starts the next token
			lx.cur.Reset(m)
		}
	}

	lit := text.String()
	if isFloat {
		return lx.floatToken(loc, lit)
	}
	if len(lit) > 1 && lit[0] == '0' {
		return lx.octalToken(loc, lit)
	}
	v, _ := new(big.Int).SetString(lit, 10)
	if v == nil {
		v = new(big.Int)
	}
	return token.Token{Kind: token.IntLit, Loc: loc, Text: lit, Int: v}
}

// scanDigits consumes decimal digits into text. Separators are reported.
func (lx *Lexer) scanDigits(text *strings.Builder) {
	for {
		b := lx.cur.Peek()
		switch {
		case isDec(b):
			text.WriteByte(lx.cur.Bump())
		case b == '_' && isDec(lx.cur.PeekAt(1)):
			lx.separator()
		default:
			return
		}
	}
}

func (lx *Lexer) separator() {
	lx.errorf(diag.LexDigitSeparator, lx.cur.Loc(), "unexpected '_' in number: digit separators are not supported")
	lx.cur.Bump()
}

func (lx *Lexer) scanRadix(loc source.Location, base int, prefix string) token.Token {
	lx.cur.Skip(2)
	v := new(big.Int)
	bigBase := big.NewInt(int64(base))
	digits := 0
	var text strings.Builder
	text.WriteString(prefix)
	for {
		b := lx.cur.Peek()
		if b == '_' && isHex(lx.cur.PeekAt(1)) {
			lx.separator()
			continue
		}
		d := hexVal(b)
		if d < 0 || d >= base {
			if base < 16 && isHex(b) && !(base == 2 && isIDStart(b)) {
				// digit outside the radix, e.g. 0b102
				lx.errorf(diag.LexBadNumber, lx.cur.Loc(), "invalid digit %q in base %d literal", b, base)
				lx.cur.Bump()
				continue
			}
			break
		}
		text.WriteByte(lx.cur.Bump())
		v.Mul(v, bigBase)
		v.Add(v, big.NewInt(int64(d)))
		digits++
	}
	if digits == 0 {
		lx.errorf(diag.LexBadNumber, loc, "missing digits after %s", prefix)
	}
	return token.Token{Kind: token.IntLit, Loc: loc, Text: text.String(), Int: v}
}

// octalToken evaluates a leading-zero literal. An invalid digit (8 or 9) is
// reported once; the value keeps the digits before it.
func (lx *Lexer) octalToken(loc source.Location, lit string) token.Token {
	v := new(big.Int)
	eight := big.NewInt(8)
	for i := 1; i < len(lit); i++ {
		d := lit[i]
		if !isOct(d) {
			off, err := safecast.Conv[uint32](i)
			if err != nil {
				off = 0
			}
			lx.errorf(diag.LexBadOctal, loc.At(loc.Col+off), "invalid digit %q in octal literal %s", d, lit)
			break
		}
		v.Mul(v, eight)
		v.Add(v, big.NewInt(int64(d-'0')))
	}
	return token.Token{Kind: token.IntLit, Loc: loc, Text: lit, Int: v}
}

func (lx *Lexer) floatToken(loc source.Location, lit string) token.Token {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		// out-of-range values keep the ±Inf/0 returned by ParseFloat
		if !errors.Is(err, strconv.ErrRange) {
			lx.errorf(diag.LexBadNumber, loc, "malformed floating point literal %s", lit)
		}
	}
	return token.Token{Kind: token.FloatLit, Loc: loc, Text: lit, Float: f}
}
