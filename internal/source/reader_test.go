package source

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestStringReaderLines(t *testing.T) {
	r := NewStringReader("virt.php", "a\nbb\r\nccc")
	want := []string{"a\n", "bb\r\n", "ccc"}
	for i, w := range want {
		line, err := r.ReadLine()
		if err != nil {
			t.Fatalf("line %d: unexpected error %v", i+1, err)
		}
		if string(line) != w {
			t.Fatalf("line %d: got %q, want %q", i+1, line, w)
		}
		if r.LineNo() != uint32(i+1) {
			t.Fatalf("line number: got %d, want %d", r.LineNo(), i+1)
		}
	}
	if _, err := r.ReadLine(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	if _, err := r.ReadLine(); !errors.Is(err, io.EOF) {
		t.Fatalf("EOF must be sticky, got %v", err)
	}
}

func TestOpenFileLatin1(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "latin.php")
	// "caf\xe9" в ISO-8859-1
	if err := os.WriteFile(path, []byte("caf\xe9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := OpenFile(path, EncodingISO88591)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer r.Close()
	line, err := r.ReadLine()
	if err != nil {
		t.Fatal(err)
	}
	if string(line) != "café\n" {
		t.Fatalf("got %q", line)
	}
}

func TestOpenFileUnknownEncoding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.php")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFile(path, "ebcdic"); err == nil {
		t.Fatal("expected error for unsupported encoding")
	}
}

func TestLineLoc(t *testing.T) {
	l := Line{Path: "a.php", No: 3, Raw: []byte("  $x = 1;\r\n")}
	loc := l.Loc(2)
	if loc.Line != 3 || loc.Col != 3 || loc.Text != "  $x = 1;" {
		t.Fatalf("unexpected location %+v", loc)
	}
	if loc.String() != "a.php:3:3" {
		t.Fatalf("String() = %q", loc.String())
	}
}

func TestLocationUnknown(t *testing.T) {
	if NoLocation.Known() || NoLocation.HasLine() {
		t.Fatal("NoLocation must be unknown")
	}
	if NoLocation.String() != "?" {
		t.Fatalf("got %q", NoLocation.String())
	}
	l := Location{File: "b.php", Line: 7}
	if l.Short("b.php") != "line 7" {
		t.Fatalf("Short same file: %q", l.Short("b.php"))
	}
	if l.Short("c.php") != "b.php:7" {
		t.Fatalf("Short other file: %q", l.Short("c.php"))
	}
}

func TestHasBOM(t *testing.T) {
	if !HasBOM([]byte("\xEF\xBB\xBF<?php")) {
		t.Fatal("BOM not detected")
	}
	if HasBOM([]byte("<?php")) {
		t.Fatal("false BOM")
	}
}

func TestResolveRelative(t *testing.T) {
	got := ResolveRelative("lib/a.php", "b.php")
	if got != "lib/b.php" {
		t.Fatalf("got %q", got)
	}
	got = ResolveRelative("lib/a.php", "../c.php")
	if got != "c.php" {
		t.Fatalf("got %q", got)
	}
}
