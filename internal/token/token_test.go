package token_test

import (
	"testing"

	"plint/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{token.IntLit, token.FloatLit, token.StringLit, token.DQStart, token.HeredocStart}
	for _, k := range lits {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwClass, token.Plus, token.LParen, token.StringPart}
	for _, k := range non {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestIsPunctOrOp(t *testing.T) {
	ops := []token.Kind{
		token.Plus, token.Dot, token.DotAssign, token.CoalesceAssign,
		token.EqEqEq, token.Spaceship, token.Arrow, token.FatArrow,
		token.Semicolon, token.Ellipsis, token.Backslash,
	}
	for _, k := range ops {
		if !tok(k).IsPunctOrOp() {
			t.Fatalf("%v should be punct/op", k)
		}
	}
	if tok(token.CastInt).IsPunctOrOp() || tok(token.Variable).IsPunctOrOp() {
		t.Fatal("casts and variables are not operators")
	}
}

func TestKindClasses(t *testing.T) {
	if !token.KwYield.IsKeyword() || token.MagicLine.IsKeyword() {
		t.Fatal("keyword range is wrong")
	}
	if !token.MetaThrows.IsMeta() || token.KwFunction.IsMeta() {
		t.Fatal("meta range is wrong")
	}
	if !token.CastUnset.IsCast() || token.LParen.IsCast() {
		t.Fatal("cast range is wrong")
	}
	if !token.CoalesceAssign.IsAssign() || token.EqEq.IsAssign() {
		t.Fatal("assign range is wrong")
	}
}

func TestKindString(t *testing.T) {
	cases := map[token.Kind]string{
		token.EOF:            "EOF",
		token.KwRequireOnce:  "require_once",
		token.MagicNamespace: "__NAMESPACE__",
		token.CastBool:       "(bool)",
		token.Spaceship:      "<=>",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", k, got, want)
		}
	}
}
