package fuzztests

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"plint/internal/diag"
	"plint/internal/modules"
	"plint/internal/parser"
	"plint/internal/report"
	"plint/internal/source"
	"plint/internal/symbols"
)

// parseTimeout is the maximum time allowed for checking a single input.
// Longer runs point to a loop in error recovery.
const parseTimeout = 5 * time.Second

// FuzzCheckNoHang parses and reports on arbitrary input with the core
// module loaded. Syntax errors must stay inside the file: no panic
// escapes and the run ends.
func FuzzCheckNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("<?php\nfunction f() { while (true) { if ($x) break 3; } }\n"))
	f.Add([]byte("<?php\nclass A { function m( { } }\n"))
	f.Add([]byte("<?php\n$a = [1, 2,, 3];\n"))
	f.Add([]byte("<?php\necho ((((((((1))))))));\n"))

	f.Fuzz(func(t *testing.T, input []byte) {
		path := filepath.Join(t.TempDir(), "fuzz.php")
		if err := os.WriteFile(path, clampInput(input), 0o644); err != nil {
			t.Fatal(err)
		}

		done := make(chan any, 1)
		go func() {
			defer func() { done <- recover() }()
			bag := diag.NewBag(128)
			ctx := symbols.NewContext(diag.BagReporter{Bag: bag}, symbols.Options{})
			p := parser.New(ctx, parser.Options{Modules: modules.New("").Lookup})
			p.LoadModule("core", true, source.Location{File: path})
			report.Run(ctx, p.ParseFile(path, 0))
		}()

		select {
		case r := <-done:
			if r != nil {
				t.Fatalf("panic on input %q: %v", truncateForLog(input, 200), r)
			}
		case <-time.After(parseTimeout):
			t.Fatalf("check hang detected: took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
