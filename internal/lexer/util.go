package lexer

// try2/try3 пробуют "съесть" 2/3 байта, если совпадает.
func (lx *Lexer) try3(a, b, c byte) bool {
	b0, b1, b2, ok := lx.cur.Peek3()
	if !ok || b0 != a || b1 != b || b2 != c {
		return false
	}
	lx.cur.Skip(3)
	return true
}

func (lx *Lexer) try2(a, b byte) bool {
	b0, b1, ok := lx.cur.Peek2()
	if !ok || b0 != a || b1 != b {
		return false
	}
	lx.cur.Skip(2)
	return true
}

// skipInlineBlanks skips spaces and tabs without leaving the line.
func (lx *Lexer) skipInlineBlanks() {
	for lx.cur.Peek() == ' ' || lx.cur.Peek() == '\t' {
		lx.cur.Bump()
	}
}
