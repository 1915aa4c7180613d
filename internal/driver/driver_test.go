package driver

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"plint/internal/config"
	"plint/internal/diag"
	"plint/internal/token"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	}
	return dir
}

func defaultOptions() Options {
	return Options{Analysis: config.Default().Analysis}
}

func codes(bag *diag.Bag, code diag.Code) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}

func TestCollectFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.php":            "<?php\n",
		"lib/b.php":        "<?php\n",
		"lib/view.tpl.php": "<?php\n",
		"vendor/x/c.php":   "<?php\n",
		".git/hooks/d.php": "<?php\n",
		"notes.txt":        "text\n",
		"lib/nested/E.PHP": "<?php\n",
	})
	cfg := config.Default()
	cfg.Files.Exclude = []string{"vendor/**", "**/*.tpl.php"}
	ex, err := cfg.Excluder()
	require.NoError(t, err)

	explicit := filepath.Join(dir, "vendor", "x", "c.php")
	files, err := CollectFiles([]string{dir, explicit, filepath.Join(dir, "a.php")}, ex)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "a.php"),
		filepath.Join(dir, "lib", "b.php"),
		filepath.Join(dir, "lib", "nested", "E.PHP"),
		explicit,
	}, files)

	_, err = CollectFiles([]string{filepath.Join(dir, "missing.php")}, ex)
	require.Error(t, err)
}

func TestCheckEntriesAreIndependent(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"one.php": "<?php\nfunction helper() { return 1; }\necho helper();\n",
		"two.php": "<?php\nfunction helper() { return 2; }\necho helper();\n",
		"bad.php": "<?php\necho $missing;\n",
	})
	files, err := CollectFiles([]string{dir}, nil)
	require.NoError(t, err)

	var mu sync.Mutex
	var done []string
	var totals []int
	opts := defaultOptions()
	opts.Jobs = 2
	opts.Progress = func(ev ProgressEvent) {
		if ev.Status != ProgressDone {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		totals = append(totals, ev.Total)
		done = append(done, filepath.Base(ev.Path))
	}

	results, err := Check(context.Background(), files, opts)
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.ElementsMatch(t, []string{"bad.php", "one.php", "two.php"}, done)
	require.Equal(t, []int{3, 3, 3}, totals)

	// results follow the sorted file order: bad, one, two
	require.True(t, results[0].Failed(false))
	require.Equal(t, 1, codes(results[0].Bag, diag.SemaUndefinedVariable))
	for _, r := range results[1:] {
		require.False(t, r.Failed(false), "%s: %v", r.Path, r.Bag.Items())
		require.Zero(t, codes(r.Bag, diag.SemaDuplicateDecl))
	}
	require.Equal(t, 1, Totals(results).Errors)
}

func TestCheckSeesBuiltinModules(t *testing.T) {
	dir := writeTree(t, map[string]string{"main.php": `<?php
/*. int .*/ function size(/*. string .*/ $s) { return strlen(trim($s)); }

/*. void .*/ function fail() /*. throws InvalidArgumentException .*/
{
	throw new InvalidArgumentException("bad", 1);
}

try {
	echo size("x"), PHP_EOL;
	fail();
}
catch (Exception $e) {
	echo $e->getMessage();
}
`})
	res := CheckFile(context.Background(), filepath.Join(dir, "main.php"), defaultOptions())
	require.False(t, res.Bag.HasErrors(), "%v", res.Bag.Items())

	var modules int
	for _, p := range res.Summary.Packages {
		if p.Module {
			modules++
		}
	}
	require.Equal(t, 3, modules)
}

func TestCheckAutoload(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.php": `<?php
function load_class(/*. string .*/ $name) { }
spl_autoload_register("load_class");
$w = new Acme\Widget();
echo $w->name;
`,
		"classes/Acme/Widget.php": "<?php\nnamespace Acme;\nclass Widget { public $name = \"w\"; }\n",
	})
	opts := defaultOptions()
	opts.Analysis.AutoloadBase = filepath.Join(dir, "classes")
	res := CheckFile(context.Background(), filepath.Join(dir, "main.php"), opts)
	require.False(t, res.Bag.HasErrors(), "%v", res.Bag.Items())

	var autoloaded bool
	for _, p := range res.Summary.Packages {
		autoloaded = autoloaded || p.Autoloaded
	}
	require.True(t, autoloaded)

	opts.Analysis.AutoloadBase = ""
	res = CheckFile(context.Background(), filepath.Join(dir, "main.php"), opts)
	require.Equal(t, 1, codes(res.Bag, diag.SemaUnresolvedClass), "%v", res.Bag.Items())
}

func TestWarningsAsErrors(t *testing.T) {
	dir := writeTree(t, map[string]string{"main.php": "<?php\ntrigger_error(\"top level\");\n"})
	path := filepath.Join(dir, "main.php")

	opts := defaultOptions()
	res := CheckFile(context.Background(), path, opts)
	require.False(t, res.Failed(false))
	require.True(t, res.Failed(true))

	opts.Analysis.WarningsAsErrors = true
	res = CheckFile(context.Background(), path, opts)
	require.True(t, res.Bag.HasErrors())
}

func TestCacheReuseAndInvalidation(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.php": "<?php\nrequire_once 'lib.php';\necho lib();\n",
		"lib.php":  "<?php\nfunction lib() { return 1; }\n",
	})
	cache, err := OpenCache(t.TempDir())
	require.NoError(t, err)
	opts := defaultOptions()
	opts.Cache = cache
	path := filepath.Join(dir, "main.php")

	first := CheckFile(context.Background(), path, opts)
	require.False(t, first.Cached)
	require.False(t, first.Bag.HasErrors(), "%v", first.Bag.Items())

	second := CheckFile(context.Background(), path, opts)
	require.True(t, second.Cached)
	require.Equal(t, first.Bag.Items(), second.Bag.Items())
	require.Equal(t, first.Summary, second.Summary)

	// a change in a required file invalidates the entry
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.php"), []byte("<?php\n"), 0o644))
	third := CheckFile(context.Background(), path, opts)
	require.False(t, third.Cached)
	require.Equal(t, 1, codes(third.Bag, diag.SemaUnresolvedFunction))

	// other settings use another entry
	opts.Analysis.Sandbox = true
	require.False(t, CheckFile(context.Background(), path, opts).Cached)

	require.NoError(t, cache.Clear())
	opts.Analysis.Sandbox = false
	require.False(t, CheckFile(context.Background(), path, opts).Cached)
}

func TestTokenize(t *testing.T) {
	dir := writeTree(t, map[string]string{"t.php": "<?php echo 1;\n"})
	res, err := Tokenize(filepath.Join(dir, "t.php"), "", 0)
	require.NoError(t, err)
	require.Empty(t, res.Bag.Items())
	require.Equal(t, token.EOF, res.Tokens[len(res.Tokens)-1].Kind)

	_, err = Tokenize(filepath.Join(dir, "none.php"), "", 0)
	require.Error(t, err)
}
