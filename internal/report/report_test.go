package report_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"plint/internal/diag"
	"plint/internal/parser"
	"plint/internal/report"
	"plint/internal/symbols"
)

func analyse(t *testing.T, files map[string]string) (report.Summary, *diag.Bag) {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644))
	}
	bag := diag.NewBag(0)
	ctx := symbols.NewContext(diag.BagReporter{Bag: bag}, symbols.Options{})
	entry := parser.New(ctx, parser.Options{}).ParseFile(filepath.Join(dir, "main.php"), 0)
	return report.Run(ctx, entry), bag
}

func count(bag *diag.Bag, code diag.Code) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}

func TestUnusedPrivateEntities(t *testing.T) {
	_, bag := analyse(t, map[string]string{"main.php": `<?php
/*. private .*/ const A = 1;
/*. private .*/ function unusedHelper() { }
/*. private .*/ function usedHelper() { }
usedHelper();

class C {
	private $p = 1;
	private function m() { }
	private function __construct() { }
}
$g = 1;
`})
	require.Equal(t, 4, count(bag, diag.SemaUnusedSymbol))
	require.Equal(t, 1, count(bag, diag.SemaUnusedVariable))
}

func TestPackageList(t *testing.T) {
	sum, bag := analyse(t, map[string]string{
		"main.php":   "<?php\nrequire_once 'unused.php';\nrequire_once 'b.php';\nc();\n",
		"unused.php": "<?php\nfunction u() { }\n",
		"b.php":      "<?php\nrequire_once 'c.php';\nfunction b() { c(); }\n",
		"c.php":      "<?php\nfunction c() { }\n",
	})
	require.Equal(t, 2, count(bag, diag.SemaUnusedPackage), "main requires unused.php and b.php without using them")
	require.Equal(t, 1, count(bag, diag.SemaPackageNotRequired), "main uses c.php without requiring it")
	require.Len(t, sum.Packages, 4)
	for _, p := range sum.Packages {
		require.True(t, p.Library, p.Path)
	}
}
