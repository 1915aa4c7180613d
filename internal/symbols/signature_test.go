package symbols

import (
	"strings"
	"testing"

	"plint/internal/result"
	"plint/internal/throws"
	"plint/internal/types"
)

func sig(ret types.TypeID, args ...FormalArgument) *Signature {
	s := NewSignature()
	s.Return = ret
	for _, a := range args {
		s.AddArg(a)
	}
	return s
}

func arg(name string, t types.TypeID, mandatory bool) FormalArgument {
	return FormalArgument{Name: name, Type: t, Mandatory: mandatory}
}

func TestSignatureSelfCompatible(t *testing.T) {
	ctx, _ := newTestContext(t)
	s := sig(types.Int, arg("a", types.String, true), arg("b", types.Int, false))
	if why := s.CallCompatible(s, ctx.Types, ctx.Classes); why != "" {
		t.Fatalf("a signature is compatible with itself: %s", why)
	}
}

func TestSignatureChecksInOrder(t *testing.T) {
	ctx, _ := newTestContext(t)
	in := ctx.Types
	base := sig(types.Int, arg("a", types.String, true))

	tests := []struct {
		name string
		s    *Signature
		want string
	}{
		{"by-ref return", func() *Signature { s := sig(types.Int, arg("a", types.String, true)); s.ByRefReturn = true; return s }(), "by reference"},
		{"return type", sig(types.String, arg("a", types.String, true)), "return type"},
		{"variadic", func() *Signature { s := sig(types.Int, arg("a", types.String, true)); s.Variadic = true; return s }(), "variable number"},
		{"more mandatory", sig(types.Int, arg("a", types.String, true), arg("b", types.Int, true)), "mandatory arguments"},
		{"fewer args", sig(types.Int), "at least"},
		{"arg type", sig(types.Int, arg("a", types.Int, true)), "incompatible"},
		{"extra optional ok", sig(types.Int, arg("a", types.String, false), arg("b", types.Int, false)), ""},
	}
	for _, tt := range tests {
		why := tt.s.CallCompatible(base, in, ctx.Classes)
		if (tt.want == "" && why != "") || (tt.want != "" && !strings.Contains(why, tt.want)) {
			t.Errorf("%s: got %q, want %q", tt.name, why, tt.want)
		}
	}
}

func TestSignatureReturnCovariant(t *testing.T) {
	ctx, _ := newTestContext(t)
	base := declareClass(ctx, "Base", 0, 0)
	child := declareClass(ctx, "Child", base.ID, 0)
	in := ctx.Types

	over := sig(in.Class(child.ID))
	parent := sig(in.Class(base.ID))
	if why := over.CallCompatible(parent, in, ctx.Classes); why != "" {
		t.Fatalf("covariant return: %s", why)
	}
	if why := parent.CallCompatible(over, in, ctx.Classes); why == "" {
		t.Fatal("widening the return type is incompatible")
	}

	// class arguments are contravariant
	a := sig(types.Void, arg("x", in.Class(base.ID), true))
	b := sig(types.Void, arg("x", in.Class(child.ID), true))
	if why := a.CallCompatible(b, in, ctx.Classes); why != "" {
		t.Fatalf("contravariant argument: %s", why)
	}
	if why := b.CallCompatible(a, in, ctx.Classes); why == "" {
		t.Fatal("narrowing an argument is incompatible")
	}
}

func TestSignatureByRefArgumentInvariant(t *testing.T) {
	ctx, _ := newTestContext(t)
	base := declareClass(ctx, "Base", 0, 0)
	child := declareClass(ctx, "Child", base.ID, 0)
	in := ctx.Types
	a := sig(types.Void, FormalArgument{Name: "x", ByRef: true, Type: in.Class(base.ID), Mandatory: true})
	b := sig(types.Void, FormalArgument{Name: "x", ByRef: true, Type: in.Class(child.ID), Mandatory: true})
	if why := a.CallCompatible(b, in, ctx.Classes); !strings.Contains(why, "by reference") {
		t.Fatalf("by-reference arguments are invariant: %q", why)
	}
}

func TestSignatureThrowsAndTriggers(t *testing.T) {
	ctx, _ := newTestContext(t)
	exc := declareClass(ctx, "Exception", 0, 0)
	foo := declareClass(ctx, "FooException", exc.ID, 0)
	bar := declareClass(ctx, "BarException", exc.ID, 0)

	declared := sig(types.Void)
	declared.Exceptions.Put(foo.ID)
	declared.Close()

	impl := sig(types.Void)
	impl.Exceptions.Put(bar.ID)
	if why := impl.CallCompatible(declared, ctx.Types, ctx.Classes); !strings.Contains(why, "BarException") {
		t.Fatalf("undeclared BarException: %q", why)
	}

	impl.Errors.Put(throws.EUserWarning)
	if why := impl.CallCompatible(declared, ctx.Types, ctx.Classes); !strings.Contains(why, "E_USER_WARNING") {
		t.Fatalf("undeclared trigger is checked before exceptions: %q", why)
	}
}

func TestSignatureFormat(t *testing.T) {
	ctx, _ := newTestContext(t)
	exc := declareClass(ctx, `App\IOException`, 0, 0)
	s := sig(types.Int, arg("path", types.String, true))
	s.AddArg(FormalArgument{Name: "n", ByRef: true, Type: types.Int, Default: result.Int(0)})
	s.Variadic = true
	s.Exceptions.Put(exc.ID)
	got := s.Format(ctx.Types, ctx.Classes)
	want := `int(string $path, int &$n = 0, ...) throws App\IOException`
	if got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
}
