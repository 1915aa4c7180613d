package source

import (
	"fmt"
	"strings"
)

// Location is an immutable coordinate stamping a diagnostic.
// Line and Col are 1-based; zero means "unknown".
type Location struct {
	File string
	Line uint32
	Col  uint32
	Text string // raw text of the line, without the line terminator
}

// NoLocation is the fully unknown location.
var NoLocation = Location{}

// Known reports whether the location carries at least a file name.
func (l Location) Known() bool {
	return l.File != ""
}

// HasLine reports whether the line number is known.
func (l Location) HasLine() bool {
	return l.Line != 0
}

// At returns a copy of the location moved to another column of the same line.
func (l Location) At(col uint32) Location {
	l.Col = col
	return l
}

// Before reports whether l precedes other in the same file.
func (l Location) Before(other Location) bool {
	if l.File != other.File {
		return l.File < other.File
	}
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Col < other.Col
}

func (l Location) String() string {
	switch {
	case l.File == "" && l.Line == 0:
		return "?"
	case l.Line == 0:
		return l.File
	case l.Col == 0:
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
	}
}

// Short renders the location relative to another file: the path is omitted
// when both locations share it.
func (l Location) Short(from string) string {
	if l.File == from && l.Line != 0 {
		return fmt.Sprintf("line %d", l.Line)
	}
	return l.String()
}

// lineText trims the line terminator from a raw line.
func lineText(raw []byte) string {
	s := string(raw)
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s
}
