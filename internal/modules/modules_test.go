package modules_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"plint/internal/diag"
	"plint/internal/modules"
	"plint/internal/parser"
	"plint/internal/source"
	"plint/internal/symbols"
)

func TestNames(t *testing.T) {
	require.Equal(t, []string{"core", "spl", "standard"}, modules.Names())
}

func TestLookupEmbedded(t *testing.T) {
	src := modules.New("")
	p, text, ok := src.Lookup("Core")
	require.True(t, ok)
	require.True(t, strings.HasPrefix(p, modules.EmbeddedPrefix))
	require.Contains(t, text, "class Exception")

	_, _, ok = src.Lookup("../core")
	require.False(t, ok)
	_, _, ok = src.Lookup("missing")
	require.False(t, ok)
}

func TestLookupOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.php"), []byte("<?php\n"), 0o644))
	p, text, ok := modules.New(dir).Lookup("core")
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "core.php"), p)
	require.Equal(t, "<?php\n", text)

	// modules missing from the directory still come from the binary
	_, _, ok = modules.New(dir).Lookup("spl")
	require.True(t, ok)
}

// Every embedded prototype must load cleanly, dependencies included.
func TestPrototypesParse(t *testing.T) {
	for _, name := range modules.Names() {
		t.Run(name, func(t *testing.T) {
			bag := diag.NewBag(0)
			ctx := symbols.NewContext(diag.BagReporter{Bag: bag}, symbols.Options{})
			p := parser.New(ctx, parser.Options{Modules: modules.New("").Lookup})
			_, ok := p.LoadModule(name, true, source.Location{})
			require.True(t, ok)
			require.False(t, bag.HasErrors() || bag.HasWarnings(), "diagnostics in module %s: %v", name, bag.Items())
			require.True(t, p.IsModuleLoaded(name))
		})
	}
}
