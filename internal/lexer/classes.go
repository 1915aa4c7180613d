package lexer

// Byte classes. Every byte of the input is classified once through the table.
const (
	clsASCII uint8 = 1 << iota
	clsControl
	clsDigit
	clsSpace
	clsOct
	clsHex
	clsIDStart
	clsIDCont
)

var byteClass [256]uint8

func init() {
	for i := 0; i < 256; i++ {
		b := byte(i)
		var c uint8
		if b < 0x80 {
			c |= clsASCII
		}
		if b < 0x20 || b == 0x7f {
			c |= clsControl
		}
		switch b {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			c |= clsSpace
		}
		if b >= '0' && b <= '9' {
			c |= clsDigit | clsHex | clsIDCont
			if b <= '7' {
				c |= clsOct
			}
		}
		if (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F') {
			c |= clsHex
		}
		// bytes above 0x7f are accepted in names, as the host runtime does
		if b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80 {
			c |= clsIDStart | clsIDCont
		}
		byteClass[i] = c
	}
}

func is(b byte, cls uint8) bool { return byteClass[b]&cls != 0 }

func isDec(b byte) bool     { return is(b, clsDigit) }
func isOct(b byte) bool     { return is(b, clsOct) }
func isHex(b byte) bool     { return is(b, clsHex) }
func isSpace(b byte) bool   { return is(b, clsSpace) }
func isIDStart(b byte) bool { return is(b, clsIDStart) }
func isIDCont(b byte) bool  { return is(b, clsIDCont) }

// isIllegal reports control bytes that cannot appear between tokens.
func isIllegal(b byte) bool { return is(b, clsControl) && !is(b, clsSpace) }

func hexVal(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	default:
		return -1
	}
}
