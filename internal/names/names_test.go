package names

import (
	"testing"

	"plint/internal/diag"
	"plint/internal/source"
)

func TestFQNCaseRules(t *testing.T) {
	if !New(`A\B`, "foo", false).Equal(New(`a\b`, "FOO", false)) {
		t.Fatal("functions and classes compare case-insensitively")
	}
	if New(`A`, "FOO", true).Equal(New(`A`, "foo", true)) {
		t.Fatal("constant local names are case-sensitive")
	}
	if !New(`A`, "FOO", true).Equal(New(`a`, "FOO", true)) {
		t.Fatal("constant namespaces are case-insensitive")
	}
	f := Parse(`\Foo\Bar\baz`, false)
	if f.Namespace() != `Foo\Bar` || f.Name() != "baz" || f.Absolute() != `\Foo\Bar\baz` {
		t.Fatalf("unexpected parse: %q %q", f.Namespace(), f.Name())
	}
	if f.Hash() != Parse(`foo\bar\BAZ`, false).Hash() {
		t.Fatal("hash must follow the normalized key")
	}
}

func TestResolveRules(t *testing.T) {
	r := NewResolver(nil)
	r.Open(`App\Models`)
	loc := source.Location{File: "a.php", Line: 2}
	r.AddUse(`Vendor\Lib\Client`, "", loc)
	r.AddUse(`Vendor\Util`, "U", loc)

	cases := []struct {
		name           string
		isConst, isCls bool
		want           string
	}{
		{`\Top\Name`, false, true, `Top\Name`},
		{`namespace\Sub\X`, false, true, `App\Models\Sub\X`},
		{`U\Str`, false, true, `Vendor\Util\Str`},
		{`u\str`, false, false, `Vendor\Util\str`},
		{`Client`, false, true, `Vendor\Lib\Client`},
		{`Client`, false, false, `App\Models\Client`},
		{`Client`, true, false, `App\Models\Client`},
		{`Other\X`, false, true, `App\Models\Other\X`},
		{`strlen`, false, false, `App\Models\strlen`},
	}
	for _, tc := range cases {
		got := r.Resolve(tc.name, tc.isConst, tc.isCls)
		if got.String() != tc.want {
			t.Fatalf("Resolve(%q, const=%v, class=%v) = %q, want %q", tc.name, tc.isConst, tc.isCls, got, tc.want)
		}
	}
}

func TestResolveGlobalNamespace(t *testing.T) {
	r := NewResolver(nil)
	if got := r.Resolve("Foo", false, true); got.String() != "Foo" || !got.IsGlobal() {
		t.Fatalf("got %q", got)
	}
}

func TestResolveRoundTrip(t *testing.T) {
	r := NewResolver(nil)
	r.Open("Some\\Where")
	r.AddUse(`X\Y`, "Foo", source.NoLocation)
	for _, name := range []string{`\Foo\Bar`, `\a\B\c`, `\Single`} {
		f := r.Resolve(name, false, true)
		again := r.Resolve(f.Absolute(), false, true)
		if !f.Equal(again) || !f.SameSpelling(again) {
			t.Fatalf("round trip of %q: %q != %q", name, f, again)
		}
	}
}

func TestCloseReportsUnusedAliases(t *testing.T) {
	bag := diag.NewBag(0)
	r := NewResolver(diag.BagReporter{Bag: bag})
	r.AddUse(`A\Used`, "", source.Location{File: "x.php", Line: 1})
	r.AddUse(`A\Unused`, "", source.Location{File: "x.php", Line: 2})
	r.Resolve("Used", false, true)
	r.Close()
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaUnusedAlias || items[0].Severity != diag.SevNotice {
		t.Fatalf("expected one unused-alias notice, got %+v", items)
	}
	if items[0].Primary.Line != 2 {
		t.Fatalf("notice on line %d, want 2", items[0].Primary.Line)
	}
	if len(r.Aliases()) != 0 {
		t.Fatal("close must clear the table")
	}
}

func TestDuplicateAlias(t *testing.T) {
	bag := diag.NewBag(0)
	r := NewResolver(diag.BagReporter{Bag: bag})
	r.AddUse(`A\X`, "", source.Location{File: "x.php", Line: 1})
	r.AddUse(`B\X`, "", source.Location{File: "x.php", Line: 2})
	if !bag.HasErrors() || bag.Items()[0].Code != diag.SemaDuplicateDecl {
		t.Fatalf("expected duplicate alias error, got %+v", bag.Items())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatal("duplicate must point at the previous use")
	}
}

func TestOpenClosesPreviousNamespace(t *testing.T) {
	bag := diag.NewBag(0)
	r := NewResolver(diag.BagReporter{Bag: bag})
	r.Open("A")
	r.AddUse(`Lib\Thing`, "", source.NoLocation)
	r.Open("B")
	if bag.Len() != 1 {
		t.Fatalf("switching namespace must close the aliases, got %d diagnostics", bag.Len())
	}
	if got := r.Resolve("Thing", false, true); got.String() != `B\Thing` {
		t.Fatalf("alias leaked into next namespace: %q", got)
	}
}
