package token

import "testing"

func TestLookupKeyword_CaseInsensitive(t *testing.T) {
	cases := map[string]Kind{
		"function":     KwFunction,
		"FUNCTION":     KwFunction,
		"Class":        KwClass,
		"require_once": KwRequireOnce,
		"die":          KwExit,
		"NULL":         KwNull,
		"__Class__":    MagicClass,
	}
	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok || got != want {
			t.Fatalf("LookupKeyword(%q) = %v,%v want %v", lexeme, got, ok, want)
		}
	}
}

func TestLookupKeyword_Negative(t *testing.T) {
	for _, s := range []string{"int", "string", "throws", "self", "parent", "strlen"} {
		if k, ok := LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) = %v, want identifier", s, k)
		}
	}
}

func TestLookupMeta(t *testing.T) {
	cases := map[string]Kind{
		"int":            MetaInt,
		"Boolean":        MetaBool,
		"double":         MetaFloat,
		"throws":         MetaThrows,
		"require_module": MetaRequireModule,
		"array":          KwArray,
		"public":         KwPublic,
	}
	for lexeme, want := range cases {
		got, ok := LookupMeta(lexeme)
		if !ok || got != want {
			t.Fatalf("LookupMeta(%q) = %v,%v want %v", lexeme, got, ok, want)
		}
	}
	if _, ok := LookupMeta("Exception"); ok {
		t.Fatal("class names are identifiers inside annotations")
	}
}

func TestLookupCast(t *testing.T) {
	if k, ok := LookupCast("INTEGER"); !ok || k != CastInt {
		t.Fatalf("got %v,%v", k, ok)
	}
	if _, ok := LookupCast("void"); ok {
		t.Fatal("void is not a cast")
	}
}
