package types

import "testing"

// fakeHierarchy: A <- B <- C, I implemented by B, D unrelated.
type fakeHierarchy struct {
	parent map[ClassID][]ClassID
	names  map[ClassID]string
}

func (h *fakeHierarchy) IsSubclassOf(child, parent ClassID) bool {
	if child == parent {
		return true
	}
	for _, p := range h.parent[child] {
		if h.IsSubclassOf(p, parent) {
			return true
		}
	}
	return false
}

func (h *fakeHierarchy) ClassName(id ClassID) string { return h.names[id] }

const (
	clsA ClassID = iota + 1
	clsB
	clsC
	clsI
	clsD
)

func newHierarchy() *fakeHierarchy {
	return &fakeHierarchy{
		parent: map[ClassID][]ClassID{
			clsB: {clsA, clsI},
			clsC: {clsB},
		},
		names: map[ClassID]string{clsA: "A", clsB: "B", clsC: "C", clsI: "I", clsD: "D"},
	}
}

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	for id, k := range map[TypeID]Kind{
		Void: KindVoid, Null: KindNull, Boolean: KindBool, Int: KindInt, Float: KindFloat,
		String: KindString, Mixed: KindMixed, Resource: KindResource, Unknown: KindUnknown,
		EmptyArray: KindArray,
	} {
		if got := in.Kind(id); got != k {
			t.Fatalf("builtin %d: kind %v, want %v", id, got, k)
		}
	}
	if in.Intern(Type{Kind: KindInt}) != Int {
		t.Fatal("interning a scalar must return its fixed id")
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	a1 := in.Array(Int, String)
	a2 := in.Array(Int, String)
	if a1 != a2 {
		t.Fatal("array types should be deduplicated")
	}
	if a1 == in.Array(String, String) {
		t.Fatal("different keys must give different types")
	}
	if in.Class(clsA) != in.Class(clsA) || in.Class(clsA) == in.Class(clsB) {
		t.Fatal("class types must be interned per class")
	}
	if in.Array(NoTypeID, Int) != in.Array(Unknown, Int) {
		t.Fatal("missing key must default to unknown")
	}
}

func TestUnknownAssignableEverywhere(t *testing.T) {
	in := NewInterner()
	h := newHierarchy()
	all := []TypeID{Void, Null, Boolean, Int, Float, String, Mixed, Resource, Unknown, EmptyArray,
		in.Array(Int, String), in.Class(clsA)}
	for _, a := range all {
		if !in.Assignable(Unknown, a, h) || !in.Assignable(a, Unknown, h) {
			t.Fatalf("unknown must be assignable to/from %s", in.Format(a, h))
		}
	}
}

func TestScalarsAreNotWidened(t *testing.T) {
	in := NewInterner()
	if in.Assignable(Int, Float, nil) {
		t.Fatal("int must not widen to float")
	}
	if in.Assignable(Boolean, Int, nil) || in.Assignable(String, Int, nil) {
		t.Fatal("distinct scalars are not assignable")
	}
	if !in.Assignable(Int, Int, nil) {
		t.Fatal("identical scalars are assignable")
	}
	if !in.Assignable(Int, Mixed, nil) || !in.Assignable(in.Class(clsA), Mixed, nil) {
		t.Fatal("anything is assignable to mixed")
	}
	if in.Assignable(Void, Mixed, nil) {
		t.Fatal("void is not a value")
	}
}

func TestNullAssignability(t *testing.T) {
	in := NewInterner()
	ok := []TypeID{Null, String, Resource, Mixed, EmptyArray, in.Array(Int, Int), in.Class(clsA)}
	for _, to := range ok {
		if !in.Assignable(Null, to, nil) {
			t.Fatalf("null must be assignable to %s", in.Format(to, nil))
		}
	}
	for _, to := range []TypeID{Boolean, Int, Float} {
		if in.Assignable(Null, to, nil) {
			t.Fatalf("null must not be assignable to %s", in.Format(to, nil))
		}
	}
}

func TestArrayAssignability(t *testing.T) {
	in := NewInterner()
	intStr := in.Array(Int, String)
	if !in.Assignable(EmptyArray, intStr, nil) {
		t.Fatal("empty array literal is assignable to any array")
	}
	if in.Assignable(intStr, EmptyArray, nil) {
		t.Fatal("a typed array is not an empty-array literal")
	}
	if in.Assignable(intStr, in.Array(String, String), nil) {
		t.Fatal("keys must match")
	}
	if in.Assignable(in.Array(Int, Int), in.Array(Int, Mixed), nil) {
		t.Fatal("array values are invariant")
	}
	if !in.Assignable(intStr, in.Array(Unknown, String), nil) {
		t.Fatal("unknown key matches anything")
	}
	if in.Assignable(String, intStr, nil) {
		t.Fatal("string is not an array")
	}
}

func TestClassAssignabilityIsTransitive(t *testing.T) {
	in := NewInterner()
	h := newHierarchy()
	a, b, c, i, d := in.Class(clsA), in.Class(clsB), in.Class(clsC), in.Class(clsI), in.Class(clsD)
	for _, x := range []TypeID{a, b, c, d} {
		if !in.Assignable(x, x, h) {
			t.Fatalf("%s must be assignable to itself", in.Format(x, h))
		}
	}
	if !in.Assignable(c, a, h) || !in.Assignable(c, i, h) || !in.Assignable(b, a, h) {
		t.Fatal("subclasses must be assignable to ancestors and interfaces")
	}
	if in.Assignable(a, c, h) {
		t.Fatal("ancestors are not assignable to subclasses")
	}
	if in.Assignable(d, a, h) || in.Assignable(a, d, h) {
		t.Fatal("unrelated classes are not assignable")
	}
	if in.Assignable(c, a, nil) {
		t.Fatal("without hierarchy only identical classes match")
	}
}

func TestFormat(t *testing.T) {
	in := NewInterner()
	h := newHierarchy()
	cases := []struct {
		id   TypeID
		want string
	}{
		{Int, "int"},
		{Boolean, "boolean"},
		{EmptyArray, "array()"},
		{in.Array(Int, String), "array[int]string"},
		{in.Array(Unknown, in.Class(clsB)), "array[]B"},
		{in.Array(String, in.Array(Int, Float)), "array[string]array[int]float"},
		{in.Class(clsC), "C"},
	}
	for _, tc := range cases {
		if got := in.Format(tc.id, h); got != tc.want {
			t.Fatalf("Format = %q, want %q", got, tc.want)
		}
	}
}

func TestFamilyOf(t *testing.T) {
	in := NewInterner()
	if in.FamilyOf(Int)&FamilyNumeric == 0 || in.FamilyOf(String)&FamilyNumeric != 0 {
		t.Fatal("numeric family is wrong")
	}
	if in.FamilyOf(in.Class(clsA)) != FamilyObject || in.FamilyOf(EmptyArray) != FamilyArray {
		t.Fatal("composite families are wrong")
	}
}
