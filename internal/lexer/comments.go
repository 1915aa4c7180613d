package lexer

import (
	"strings"

	"plint/internal/diag"
	"plint/internal/token"
)

// atDocOrAnnotation reports whether the "/*" at the cursor opens a doc
// comment ("/**" followed by a blank) or, in code, an annotation ("/*.").
func (lx *Lexer) atDocOrAnnotation() bool {
	b2 := lx.cur.PeekAt(2)
	if b2 == '*' {
		b3 := lx.cur.PeekAt(3)
		return b3 == 0 || isSpace(b3)
	}
	return b2 == '.' && lx.mode == ModeCode
}

// skipLineComment skips "//" or "#" comments. In code the comment ends
// before "?>".
func (lx *Lexer) skipLineComment() {
	for !lx.cur.EOL() {
		if lx.mode == ModeCode && lx.cur.Peek() == '?' && lx.cur.PeekAt(1) == '>' {
			return
		}
		lx.cur.Bump()
	}
}

func (lx *Lexer) skipBlockComment() {
	loc := lx.cur.Loc()
	lx.cur.Skip(2)
	for {
		if lx.cur.EOL() {
			if !lx.cur.Load() {
				lx.fatal(diag.LexUnterminatedComment, loc, "unterminated comment")
			}
			continue
		}
		if lx.cur.Peek() == '*' && lx.cur.PeekAt(1) == '/' {
			lx.cur.Skip(2)
			return
		}
		lx.cur.Bump()
	}
}

func (lx *Lexer) scanDocOrAnnotation() token.Token {
	loc := lx.cur.Loc()
	if lx.cur.PeekAt(2) == '.' {
		lx.cur.Skip(3)
		lx.mode = ModeAnnotation
		lx.annOpen = loc
		return token.Token{Kind: token.AnnotationOpen, Loc: loc, Text: "/*."}
	}

	var b strings.Builder
	b.WriteString("/**")
	lx.cur.Skip(3)
	for {
		if lx.cur.EOL() {
			if !lx.cur.Load() {
				lx.fatal(diag.LexUnterminatedComment, loc, "unterminated doc comment")
			}
			continue
		}
		if lx.cur.Peek() == '*' && lx.cur.PeekAt(1) == '/' {
			lx.cur.Skip(2)
			b.WriteString("*/")
			return token.Token{Kind: token.DocComment, Loc: loc, Text: b.String()}
		}
		b.WriteByte(lx.cur.Bump())
	}
}
