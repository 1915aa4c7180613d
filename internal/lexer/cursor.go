package lexer

import (
	"errors"
	"io"

	"plint/internal/diag"
	"plint/internal/source"
)

// Cursor walks the input one line at a time. Offsets and marks are only
// meaningful inside the current line.
type Cursor struct {
	r    source.Reader
	line source.Line
	Off  int

	loaded bool
	eof    bool
	bom    bool
}

// NewCursor creates a cursor positioned before the first line of r.
func NewCursor(r source.Reader) Cursor {
	return Cursor{r: r, line: source.Line{Path: r.Path()}}
}

// Load reads the next line and reports false at end of input. A read
// failure is fatal for the file.
func (c *Cursor) Load() bool {
	if c.eof {
		return false
	}
	raw, err := c.r.ReadLine()
	if err != nil {
		c.eof = true
		c.line.Raw = nil
		c.Off = 0
		if errors.Is(err, io.EOF) {
			return false
		}
		panic(&Fatal{Code: diag.IOReadError, Loc: source.Location{File: c.r.Path(), Line: c.line.No}, Msg: "read error: " + err.Error()})
	}
	if !c.loaded && source.HasBOM(raw) {
		c.bom = true
		raw = raw[3:]
	}
	c.loaded = true
	c.line.No = c.r.LineNo()
	c.line.Raw = raw
	c.Off = 0
	return true
}

// EOL reports whether the current line is consumed (terminator included).
func (c *Cursor) EOL() bool { return c.Off >= len(c.line.Raw) }

// EOF reports whether the input is exhausted.
func (c *Cursor) EOF() bool { return c.eof }

// Started reports whether at least one line was read.
func (c *Cursor) Started() bool { return c.loaded }

// Peek returns the current byte or 0 at end of line.
func (c *Cursor) Peek() byte {
	if c.EOL() {
		return 0
	}
	return c.line.Raw[c.Off]
}

// PeekAt returns the byte n positions ahead or 0 past end of line.
func (c *Cursor) PeekAt(n int) byte {
	if c.Off+n >= len(c.line.Raw) {
		return 0
	}
	return c.line.Raw[c.Off+n]
}

// Peek2 reads the current and the next byte.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= len(c.line.Raw) {
		return 0, 0, false
	}
	return c.line.Raw[c.Off], c.line.Raw[c.Off+1], true
}

// Peek3 reads three bytes starting at the current one.
func (c *Cursor) Peek3() (b0, b1, b2 byte, ok bool) {
	if c.Off+2 >= len(c.line.Raw) {
		return 0, 0, 0, false
	}
	return c.line.Raw[c.Off], c.line.Raw[c.Off+1], c.line.Raw[c.Off+2], true
}

// HasPrefix reports whether the rest of the line starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	if c.Off+len(s) > len(c.line.Raw) {
		return false
	}
	return string(c.line.Raw[c.Off:c.Off+len(s)]) == s
}

// Bump advances by one byte and returns it.
func (c *Cursor) Bump() byte {
	if c.EOL() {
		return 0
	}
	b := c.line.Raw[c.Off]
	c.Off++
	return b
}

// Skip advances by n bytes, stopping at end of line.
func (c *Cursor) Skip(n int) {
	c.Off += n
	if c.Off > len(c.line.Raw) {
		c.Off = len(c.line.Raw)
	}
}

// Eat consumes the next byte if it matches b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOL() && c.line.Raw[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// Mark is a position inside the current line.
type Mark int

// Mark saves the current offset.
func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// Reset moves the cursor back to a mark on the same line.
func (c *Cursor) Reset(m Mark) { c.Off = int(m) }

// Text returns the bytes consumed since m.
func (c *Cursor) Text(m Mark) string { return string(c.line.Raw[int(m):c.Off]) }

// Rest returns the unconsumed part of the current line.
func (c *Cursor) Rest() []byte {
	if c.EOL() {
		return nil
	}
	return c.line.Raw[c.Off:]
}

// Loc returns the location of the current byte.
func (c *Cursor) Loc() source.Location {
	if !c.loaded {
		return source.Location{File: c.line.Path, Line: 1, Col: 1}
	}
	return c.line.Loc(c.Off)
}

// LocOf returns the location of a mark.
func (c *Cursor) LocOf(m Mark) source.Location {
	return c.line.Loc(int(m))
}

// LineNo returns the number of the current line.
func (c *Cursor) LineNo() uint32 { return c.line.No }
