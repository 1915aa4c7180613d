package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Reader is the sequential, line oriented access to one source file.
// ReadLine returns the next line including its terminator and io.EOF once
// the input is exhausted. Any other error is fatal for the file.
type Reader interface {
	Path() string
	ReadLine() ([]byte, error)
	LineNo() uint32
	Close() error
}

// Encoding names accepted by OpenFile.
const (
	EncodingUTF8        = "utf-8"
	EncodingISO88591    = "iso-8859-1"
	EncodingWindows1252 = "windows-1252"
)

type lineReader struct {
	path   string
	br     *bufio.Reader
	closer io.Closer
	line   uint32
	done   bool
}

// NewReader wraps an arbitrary io.Reader. The path is only used for messages.
func NewReader(path string, r io.Reader) Reader {
	lr := &lineReader{path: path, br: bufio.NewReaderSize(r, 64*1024)}
	if c, ok := r.(io.Closer); ok {
		lr.closer = c
	}
	return lr
}

// NewStringReader is a convenience for tests and virtual files.
func NewStringReader(path, text string) Reader {
	return NewReader(path, strings.NewReader(text))
}

// OpenFile opens path for reading, decoding it to UTF-8 when a legacy
// single byte encoding is configured.
func OpenFile(path, enc string) (Reader, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	decoder, err := decoderFor(enc)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	var r io.Reader = f
	if decoder != nil {
		r = decoder.Reader(f)
	}
	return &lineReader{
		path:   normalizePath(path),
		br:     bufio.NewReaderSize(r, 64*1024),
		closer: f,
	}, nil
}

// CheckEncoding reports whether OpenFile accepts enc.
func CheckEncoding(enc string) error {
	_, err := decoderFor(enc)
	return err
}

func decoderFor(enc string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "", EncodingUTF8, "utf8":
		return nil, nil
	case EncodingISO88591, "latin1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case EncodingWindows1252, "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported source encoding %q", enc)
	}
}

func (r *lineReader) Path() string { return r.path }

func (r *lineReader) LineNo() uint32 { return r.line }

func (r *lineReader) ReadLine() ([]byte, error) {
	if r.done {
		return nil, io.EOF
	}
	line, err := r.br.ReadBytes('\n')
	if len(line) > 0 {
		r.line++
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return line, nil
	}
	r.done = true
	if err == nil || errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	return nil, err
}

func (r *lineReader) Close() error {
	r.done = true
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// Line binds a raw line to its number so that the scanner can stamp
// locations without keeping the whole file in memory.
type Line struct {
	Path string
	No   uint32
	Raw  []byte
}

// Loc returns the location of a byte offset inside the line.
func (l *Line) Loc(off int) Location {
	col, err := safecast.Conv[uint32](off + 1)
	if err != nil {
		panic(fmt.Errorf("column overflow: %w", err))
	}
	return Location{File: l.Path, Line: l.No, Col: col, Text: lineText(l.Raw)}
}

// HasBOM reports whether a raw first line starts with the UTF-8 byte order mark.
func HasBOM(raw []byte) bool {
	return bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
}
