package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"plint/internal/diag"
	"plint/internal/symbols"
)

type fixture struct {
	t   *testing.T
	dir string
	bag *diag.Bag
	p   *Parser
}

// newFixture writes files into a temporary directory and prepares a
// parser over a fresh context.
func newFixture(t *testing.T, files map[string]string, opts Options) *fixture {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	}
	bag := diag.NewBag(0)
	ctx := symbols.NewContext(diag.BagReporter{Bag: bag}, symbols.Options{})
	return &fixture{t: t, dir: dir, bag: bag, p: New(ctx, opts)}
}

func (f *fixture) parse(name string) *symbols.Package {
	f.t.Helper()
	return f.p.ParseFile(filepath.Join(f.dir, name), 0)
}

func (f *fixture) count(code diag.Code) int {
	n := 0
	for _, d := range f.bag.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}

func (f *fixture) dump() string {
	return diag.FormatGolden(f.bag.Items(), f.dir, true)
}

func (f *fixture) requireCode(code diag.Code, n int) {
	f.t.Helper()
	require.Equal(f.t, n, f.count(code), "diagnostics:\n%s", f.dump())
}

func (f *fixture) requireNoErrors() {
	f.t.Helper()
	require.False(f.t, f.bag.HasErrors(), "diagnostics:\n%s", f.dump())
}

func parseOne(t *testing.T, text string) (*fixture, *symbols.Package) {
	t.Helper()
	f := newFixture(t, map[string]string{"main.php": text}, Options{})
	return f, f.parse("main.php")
}

const exceptionClasses = `<?php
class Exception {}
class FooException extends Exception {}
class BarException extends Exception {}
`

func TestNoCodeFound(t *testing.T) {
	f, pkg := parseOne(t, "just some text\n")
	f.requireCode(diag.SemaNoCode, 1)
	require.False(t, pkg.IsLibrary())
	require.Equal(t, "text before the opening tag", pkg.NotLibrary)
}

func TestUndeclaredExceptionAtCallSite(t *testing.T) {
	src := exceptionClasses + `
/*. void .*/ function bar() /*. throws BarException .*/
{
	throw new BarException();
}

/*. void .*/ function foo() /*. throws FooException .*/
{
	bar();
}
`
	f, _ := parseOne(t, src)
	f.requireCode(diag.SemaUncaughtException, 1)
	require.Equal(t, 1, f.bag.Counts().Errors, "diagnostics:\n%s", f.dump())
}

func TestDeclaredExceptionAtCallSite(t *testing.T) {
	src := exceptionClasses + `
/*. void .*/ function bar() /*. throws BarException .*/
{
	throw new BarException();
}

/*. void .*/ function foo() /*. throws FooException, BarException .*/
{
	bar();
}
`
	f, _ := parseOne(t, src)
	f.requireNoErrors()
}

func TestCatchAbsorbsSubclasses(t *testing.T) {
	src := exceptionClasses + `
function f()
{
	try {
		throw new FooException();
	} catch (Exception $e) {
	}
}
`
	f, _ := parseOne(t, src)
	f.requireNoErrors()
}

func TestMultiCatchLeavesUncaught(t *testing.T) {
	src := exceptionClasses + `
class BazException extends Exception {}

function f()
{
	try {
		throw new FooException();
		throw new BazException();
	} catch (FooException | BarException $e) {
	}
}
`
	f, _ := parseOne(t, src)
	f.requireCode(diag.SemaUncaughtException, 1)
	f.requireCode(diag.SemaUnreachable, 1)
}

func TestPrivateFunctionAcrossFiles(t *testing.T) {
	f := newFixture(t, map[string]string{
		"lib.php": "<?php\n/*. private .*/ function helper() { return 1; }\n",
		"main.php": `<?php
require_once 'lib.php';
echo helper();
`,
	}, Options{})
	main := f.parse("main.php")
	f.requireCode(diag.SemaPrivateAccess, 1)
	require.Len(t, main.Requires, 1)
}

func TestUnreachableStatement(t *testing.T) {
	f, _ := parseOne(t, `<?php
function f() { return 1; echo "x"; echo "y"; }
`)
	f.requireCode(diag.SemaUnreachable, 1)
}

func TestMissingReturn(t *testing.T) {
	f, _ := parseOne(t, `<?php
/*. int .*/ function f(/*. bool .*/ $x) { if ($x) { return 1; } }
/*. int .*/ function g(/*. bool .*/ $x) { if ($x) { return 1; } else { return 2; } }
`)
	f.requireCode(diag.SemaMissingReturn, 1)
}

func TestInfiniteLoopNeedsNoReturn(t *testing.T) {
	f, _ := parseOne(t, `<?php
/*. int .*/ function f() { while (true) { } }
`)
	f.requireCode(diag.SemaMissingReturn, 0)
}

func TestForwardDeclaration(t *testing.T) {
	f, _ := parseOne(t, `<?php
/*. forward int function f(int $a); .*/
/*. forward int function g(int $a); .*/

function f(/*. int .*/ $a) { return $a; }
function g($a, $b) { return 1; }
`)
	f.requireCode(diag.SemaForwardMismatch, 1)
}

func TestOverrideCompatibility(t *testing.T) {
	f, _ := parseOne(t, `<?php
class A {
	/*. int .*/ function m(/*. int .*/ $x) { return $x; }
	final function n() { }
}
class B extends A {
	/*. string .*/ function m(/*. int .*/ $x) { return "s"; }
	function n() { }
}
`)
	f.requireCode(diag.SemaIncompatibleSignature, 1)
	f.requireCode(diag.SemaFinalOverride, 1)
}

func TestRequireNonLibrary(t *testing.T) {
	f := newFixture(t, map[string]string{
		"lib.php":  "<?php\ntrigger_error(\"boom\");\n",
		"main.php": "<?php\nrequire_once 'lib.php';\n",
	}, Options{})
	f.parse("main.php")
	f.requireCode(diag.SemaTopLevelThrow, 1)
	f.requireCode(diag.ProjBadDependency, 1)
}

func TestTopLevelThrowDemotes(t *testing.T) {
	f, pkg := parseOne(t, `<?php
class Exception {}
throw new Exception();
`)
	f.requireNoErrors()
	f.requireCode(diag.SemaTopLevelThrow, 1)
	require.Contains(t, pkg.NotLibrary, "uncaught exception")
}

func TestSilencedTrigger(t *testing.T) {
	f, _ := parseOne(t, `<?php
function quiet() { @trigger_error("quiet"); }
function loud() { trigger_error("loud"); }
function declared() /*. triggers E_USER_NOTICE .*/ { trigger_error("fine"); }
`)
	f.requireCode(diag.SemaUndeclaredTrigger, 1)
}

func TestAssignmentTypes(t *testing.T) {
	f, _ := parseOne(t, `<?php
$a = 1;
$a = "s";
$list = array(1, 2);
$list[] = "x";
echo $missing;
`)
	f.requireCode(diag.SemaTypeMismatch, 2)
	f.requireCode(diag.SemaUndefinedVariable, 1)
}

func TestUnusedResult(t *testing.T) {
	f, _ := parseOne(t, `<?php
$a = 1;
$a + 1;
`)
	f.requireCode(diag.SemaUnusedResult, 1)
}

func TestBreakOutsideLoop(t *testing.T) {
	f, _ := parseOne(t, `<?php
function f() {
	while (true) { break 2; }
	break;
}
`)
	f.requireCode(diag.SemaBreakOutsideLoop, 2)
}

func TestRequireModule(t *testing.T) {
	modules := func(name string) (string, string, bool) {
		if name != "core" {
			return "", "", false
		}
		return "core.php", "<?php\ndefine('PHP_EOL', \"\\n\");\n", true
	}
	f := newFixture(t, map[string]string{
		"main.php": `<?php
/*. require_module 'core'; .*/
/*. require_module 'nope'; .*/
echo PHP_EOL;
`,
	}, Options{Modules: modules})
	f.parse("main.php")
	f.requireCode(diag.ProjModuleNotFound, 1)
	f.requireCode(diag.SemaUnresolvedConstant, 0)
	require.True(t, f.p.IsModuleLoaded("CORE"))
}

func TestAbstractInstantiation(t *testing.T) {
	f, _ := parseOne(t, `<?php
abstract class Shape { abstract function area(); }
class Square extends Shape { }
$s = new Shape();
`)
	f.requireCode(diag.SemaAbstractInstantiation, 1)
	f.requireCode(diag.SemaMissingImplementation, 1)
}

func TestSpreadArgumentSkipsFormals(t *testing.T) {
	f, _ := parseOne(t, `<?php
function add(int $a, int $b) { return $a + $b; }
$args = array(1, 2);
echo add(...$args);
echo add(1, ...array(2));
`)
	f.requireCode(diag.SemaArgumentType, 0)
	f.requireCode(diag.SemaArgumentCount, 0)
}

func TestUnknownOperandInConcatenation(t *testing.T) {
	f, _ := parseOne(t, `<?php
echo $undefined . NULL;
`)
	f.requireCode(diag.SemaUndefinedVariable, 1)
	f.requireCode(diag.SemaBadOperand, 0)
}

func TestPrivateMemberAccess(t *testing.T) {
	f := newFixture(t, map[string]string{
		"counter.php": `<?php
class Counter {
	private $n = 0;
	function bump() { $this->n++; return $this->n; }
	private function reset() { $this->n = 0; }
}
$c = new Counter();
echo $c->bump();
$c->reset();
`,
		"main.php": `<?php
require_once 'counter.php';
$d = new Counter();
echo $d->bump();
$d->reset();
`,
	}, Options{})
	f.parse("counter.php")
	// inside the class: allowed; outside it, in the declaring file too: error
	f.requireCode(diag.SemaPrivateAccess, 1)
	f.parse("main.php")
	f.requireCode(diag.SemaPrivateAccess, 2)
}
