package symbols

import (
	"testing"

	"plint/internal/diag"
	"plint/internal/names"
	"plint/internal/source"
	"plint/internal/types"
)

func newTestContext(t *testing.T) (*Context, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(0)
	return NewContext(diag.BagReporter{Bag: bag}, Options{}), bag
}

func at(file string, line uint32) source.Location {
	return source.Location{File: file, Line: line, Col: 1}
}

func declareClass(ctx *Context, name string, parent types.ClassID, pkg PackageID, ifaces ...types.ClassID) *Class {
	c := ctx.DeclareClass(&Class{
		Decl:       Decl{Name: names.Parse(name, false), Loc: at("a.php", 1), Package: pkg},
		Parent:     parent,
		Interfaces: ifaces,
	})
	return c
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestHierarchy(t *testing.T) {
	ctx, _ := newTestContext(t)
	iface := ctx.DeclareClass(&Class{Decl: Decl{Name: names.Parse("Countable", false)}, Flags: ClassInterface})
	base := declareClass(ctx, "Base", 0, 0, iface.ID)
	mid := declareClass(ctx, "Mid", base.ID, 0)
	leaf := declareClass(ctx, `App\Leaf`, mid.ID, 0)
	other := declareClass(ctx, "Other", 0, 0)

	if !ctx.Classes.IsSubclassOf(leaf.ID, base.ID) || !ctx.Classes.IsSubclassOf(leaf.ID, iface.ID) {
		t.Fatal("subclass relation must be transitive through parents and interfaces")
	}
	if ctx.Classes.IsSubclassOf(base.ID, leaf.ID) || ctx.Classes.IsSubclassOf(leaf.ID, other.ID) {
		t.Fatal("unrelated or reversed classes are not subclasses")
	}
	in := ctx.Types
	if !in.Assignable(in.Class(leaf.ID), in.Class(base.ID), ctx.Classes) {
		t.Fatal("Leaf is assignable to Base")
	}
	if in.Assignable(in.Class(other.ID), in.Class(base.ID), ctx.Classes) {
		t.Fatal("Other is not assignable to Base")
	}
	if got := ctx.Classes.ClassName(leaf.ID); got != `App\Leaf` {
		t.Fatalf("ClassName = %q", got)
	}
	if got := ctx.Classes.Ancestors(leaf.ID); len(got) != 2 || got[0] != mid.ID || got[1] != base.ID {
		t.Fatalf("Ancestors = %v", got)
	}
}

func TestUncheckedExceptions(t *testing.T) {
	ctx, _ := newTestContext(t)
	exc := declareClass(ctx, "Exception", 0, 0)
	logic := declareClass(ctx, "LogicException", exc.ID, 0)
	domain := declareClass(ctx, "DomainException", logic.ID, 0)
	runtime := declareClass(ctx, "RuntimeException", exc.ID, 0)

	if !ctx.Classes.IsUnchecked(domain.ID) {
		t.Fatal("descendants of LogicException are unchecked")
	}
	if ctx.Classes.IsUnchecked(runtime.ID) {
		t.Fatal("RuntimeException is checked")
	}
}

func TestMemberLookupWalksParents(t *testing.T) {
	ctx, _ := newTestContext(t)
	base := declareClass(ctx, "Base", 0, 0)
	base.AddMethod(&Method{Member: Member{Name: "__toString"}, Sig: NewSignature()})
	base.AddProp(&Property{Member: Member{Name: "x"}, Type: types.Int})
	child := declareClass(ctx, "Child", base.ID, 0)

	if m, ok := ctx.Classes.FindMethod(child.ID, "__TOSTRING"); !ok || m.Class != base.ID {
		t.Fatal("methods are found case-insensitively along the parent chain")
	}
	if _, ok := ctx.Classes.FindProp(child.ID, "X"); ok {
		t.Fatal("properties are case-sensitive")
	}
	if !ctx.Classes.HasStringConversion(child.ID) {
		t.Fatal("inherited __toString counts")
	}
	if !child.AddMethod(&Method{Member: Member{Name: "f"}}) || child.AddMethod(&Method{Member: Member{Name: "F"}}) {
		t.Fatal("duplicate method must be refused")
	}
}

func TestAbstractMethods(t *testing.T) {
	ctx, _ := newTestContext(t)
	iface := ctx.DeclareClass(&Class{Decl: Decl{Name: names.Parse("Shape", false)}, Flags: ClassInterface})
	iface.AddMethod(&Method{Member: Member{Name: "area"}, Abstract: true})
	iface.AddMethod(&Method{Member: Member{Name: "name"}, Abstract: true})
	base := declareClass(ctx, "Base", 0, 0, iface.ID)
	base.AddMethod(&Method{Member: Member{Name: "name"}})

	left := ctx.Classes.AbstractMethods(base.ID)
	if len(left) != 1 || left[0].Name != "area" {
		t.Fatalf("abstract left = %v", left)
	}
}

func TestVariablesSlotMap(t *testing.T) {
	vs := NewVariables()
	if _, ok := vs.Lookup("_SERVER"); !ok {
		t.Fatal("superglobals are predeclared")
	}
	g := vs.Declare("config", at("a.php", 1), 1, types.String)
	if vs.Get(g).Scope != ScopeGlobal {
		t.Fatal("top level variables are global")
	}

	vs.Enter()
	if _, ok := vs.Lookup("config"); ok {
		t.Fatal("globals are not visible in functions")
	}
	if _, ok := vs.Lookup("_GET"); !ok {
		t.Fatal("superglobals are visible in functions")
	}
	vs.Bind("config", g)
	local := vs.Declare("i", at("a.php", 3), 1, types.Int)
	exited := vs.Exit()
	if len(exited) != 1 || exited[0].Name != "i" {
		t.Fatalf("exited = %v", exited)
	}
	if vs.Get(local) != nil {
		t.Fatal("handle of an exited variable must not resolve")
	}
	if vs.Get(g) == nil {
		t.Fatal("bound global survives the frame")
	}

	vs.Enter()
	reused := vs.Declare("j", at("a.php", 9), 1, types.Int)
	if vs.Get(local) != nil || vs.Get(reused).Name != "j" {
		t.Fatal("slot reuse must not resurrect stale handles")
	}
	vs.Exit()

	if globals := vs.Globals(); len(globals) != 1 || globals[0].Name != "config" {
		t.Fatalf("Globals = %v", globals)
	}
}

func TestDuplicateDeclarations(t *testing.T) {
	ctx, bag := newTestContext(t)
	fn := &Function{Decl: Decl{Name: names.Parse("f", false), Loc: at("a.php", 1)}, Sig: NewSignature()}
	ctx.DeclareFunction(fn)
	again := ctx.DeclareFunction(&Function{Decl: Decl{Name: names.Parse("F", false), Loc: at("a.php", 5)}, Sig: NewSignature()})
	if again != fn {
		t.Fatal("the first declaration wins")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SemaDuplicateDecl || len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
	if declareClass(ctx, "C", 0, 0) == nil || declareClass(ctx, "c", 0, 0) != nil {
		t.Fatal("class names are case-insensitive")
	}
}

func TestForwardDeclaration(t *testing.T) {
	ctx, bag := newTestContext(t)
	fwdSig := NewSignature()
	fwdSig.Return = types.Int
	fwd := ctx.DeclareFunction(&Function{Decl: Decl{Name: names.Parse("g", false), Loc: at("a.php", 1)}, Sig: fwdSig, Forward: true})
	fwd.Used = 2

	sig := NewSignature()
	sig.Return = types.String
	got := ctx.DeclareFunction(&Function{Decl: Decl{Name: names.Parse("g", false), Loc: at("a.php", 4)}, Sig: sig})
	if got != fwd || got.Forward || got.Used != 2 {
		t.Fatal("the definition replaces the forward declaration in place")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SemaForwardMismatch {
		t.Fatalf("diagnostics = %v", codes(bag))
	}
}

func TestSearchFallbackAndCase(t *testing.T) {
	ctx, bag := newTestContext(t)
	ctx.DeclareFunction(&Function{Decl: Decl{Name: names.Parse("strlen", false)}, Sig: NewSignature()})
	ctx.DeclareConstant(&Constant{Decl: Decl{Name: names.Parse(`App\LIMIT`, true)}})

	res := names.NewResolver(nil)
	res.Open("App")

	f, _ := ctx.SearchFunction(res, "strlen", at("b.php", 2))
	if f == nil {
		t.Fatal("bare function names fall back to the global namespace")
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	f, _ = ctx.SearchFunction(res, "StrLen", at("b.php", 3))
	if f == nil || bag.Len() != 1 || bag.Items()[0].Code != diag.SemaCaseMismatch {
		t.Fatalf("case mismatch must be found and warned: %v", codes(bag))
	}

	if c, _ := ctx.SearchConstant(res, "LIMIT", at("b.php", 4)); c == nil {
		t.Fatal("constant in the current namespace")
	}
	if c, fqn := ctx.SearchConstant(res, "limit", at("b.php", 5)); c != nil || fqn.String() != `App\limit` {
		t.Fatal("constant names are case-sensitive")
	}
}

func TestSearchClassThroughAlias(t *testing.T) {
	ctx, _ := newTestContext(t)
	declareClass(ctx, `Lib\Util\Stack`, 0, 0)
	res := names.NewResolver(nil)
	res.Open("App")
	res.AddUse(`Lib\Util`, "", at("b.php", 2))

	if c, _ := ctx.SearchClass(res, `Util\Stack`, at("b.php", 3)); c == nil {
		t.Fatal("qualified name through alias")
	}
	if res.Aliases()[0].Used != 1 {
		t.Fatal("alias use is counted")
	}
}

func TestPrivateMemberAccess(t *testing.T) {
	ctx, bag := newTestContext(t)
	lib, _ := ctx.Packages.Register("lib.php", false)
	app, _ := ctx.Packages.Register("app.php", false)
	c := declareClass(ctx, "Account", 0, lib.ID)
	c.AddProp(&Property{Member: Member{Name: "balance", Visibility: Private, Loc: at("lib.php", 3)}, Type: types.Int})
	p, _ := ctx.Classes.FindProp(c.ID, "balance")

	ctx.AccessMember("property", &p.Member, c.ID, lib.ID, at("lib.php", 7))
	if bag.Counts().Errors != 0 {
		t.Fatalf("access from inside the class: %v", bag.Items())
	}

	ctx.AccessMember("property", &p.Member, types.NoClassID, app.ID, at("app.php", 4))
	if bag.Counts().Errors != 1 || bag.Items()[0].Code != diag.SemaPrivateAccess {
		t.Fatalf("access from another file: %v", codes(bag))
	}
	if p.Used != 2 || lib.Used != 1 {
		t.Fatalf("usage counters: member %d package %d", p.Used, lib.Used)
	}
	if _, ok := app.Uses[lib.ID]; !ok {
		t.Fatal("cross-file use is recorded")
	}
}

func TestProtectedMemberAccess(t *testing.T) {
	ctx, bag := newTestContext(t)
	base := declareClass(ctx, "Base", 0, 1)
	base.AddMethod(&Method{Member: Member{Name: "hook", Visibility: Protected}, Sig: NewSignature()})
	child := declareClass(ctx, "Child", base.ID, 1)
	m, _ := ctx.Classes.FindMethod(child.ID, "hook")

	ctx.AccessMember("method", &m.Member, child.ID, 1, at("a.php", 9))
	if bag.Len() != 0 {
		t.Fatal("subclass may call a protected method")
	}
	ctx.AccessMember("method", &m.Member, types.NoClassID, 1, at("a.php", 12))
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SemaProtectedAccess {
		t.Fatalf("diagnostics = %v", codes(bag))
	}
}

func TestPrivateFunctionAndDeprecation(t *testing.T) {
	ctx, bag := newTestContext(t)
	lib, _ := ctx.Packages.Register("lib.php", false)
	fn := ctx.DeclareFunction(&Function{
		Decl: Decl{Name: names.Parse("helper", false), Package: lib.ID, Visibility: Private, Deprecated: "use helper2()"},
		Sig:  NewSignature(),
	})
	ctx.AccessFunction(fn, lib.ID+1, at("app.php", 1))
	got := codes(bag)
	if len(got) != 2 || got[0] != diag.SemaPrivateAccess || got[1] != diag.SemaDeprecated {
		t.Fatalf("diagnostics = %v", got)
	}
}

func TestPackagesRegister(t *testing.T) {
	ps := NewPackages()
	a, existed := ps.Register("a.php", false)
	if existed || a.ID != 1 {
		t.Fatal("first registration")
	}
	again, existed := ps.Register("a.php", false)
	if !existed || again != a {
		t.Fatal("re-registering a path is a no-op")
	}
	a.Demote("leading text", at("a.php", 1))
	a.Demote("BOM", at("a.php", 1))
	if a.IsLibrary() || a.NotLibrary != "leading text" {
		t.Fatal("first demotion reason is kept")
	}
	m, _ := ps.Register("module:core", true)
	m.Demote("x", source.Location{})
	if !m.IsLibrary() {
		t.Fatal("modules are never demoted")
	}
}
