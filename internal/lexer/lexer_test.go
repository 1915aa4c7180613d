package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"plint/internal/diag"
	"plint/internal/lexer"
	"plint/internal/source"
	"plint/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Location, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func (r *testReporter) messages() string {
	parts := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		parts = append(parts, fmt.Sprintf("[%s] %s %s", d.Code.ID(), d.Primary, d.Message))
	}
	return strings.Join(parts, "\n")
}

func scan(t *testing.T, src string) ([]token.Token, *testReporter) {
	t.Helper()
	rep := &testReporter{}
	toks, fatal := lexer.Tokenize(source.NewStringReader("test.php", src), lexer.Options{Reporter: rep})
	if fatal != nil {
		t.Fatalf("unexpected fatal: %v", fatal)
	}
	return toks, rep
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tk := range toks {
		out = append(out, tk.Kind)
	}
	return out
}

func expectKinds(t *testing.T, toks []token.Token, want ...token.Kind) {
	t.Helper()
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("kinds mismatch:\nwant %v\ngot  %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kind #%d: want %v, got %v (all: %v)", i, want[i], got[i], got)
		}
	}
}

func TestHexLiteral(t *testing.T) {
	toks, rep := scan(t, "<?php $x = 0x1F;")
	expectKinds(t, toks, token.OpenTag, token.Variable, token.Assign, token.IntLit, token.Semicolon, token.EOF)
	if toks[1].Text != "x" {
		t.Fatalf("variable text = %q", toks[1].Text)
	}
	if toks[3].Int.Int64() != 31 {
		t.Fatalf("0x1F = %s, want 31", toks[3].Int)
	}
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", rep.messages())
	}
}

func TestIntegerForms(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"<?php 123;", "123"},
		{"<?php 0b101;", "5"},
		{"<?php 0755;", "493"},
		{"<?php 0o17;", "15"},
		{"<?php 0;", "0"},
		{"<?php 99999999999999999999999;", "99999999999999999999999"},
	}
	for _, tc := range cases {
		toks, rep := scan(t, tc.src)
		if toks[1].Kind != token.IntLit || toks[1].Int.String() != tc.want {
			t.Fatalf("%q: got %v %v", tc.src, toks[1].Kind, toks[1].Int)
		}
		if len(rep.diagnostics) != 0 {
			t.Fatalf("%q: unexpected diagnostics:\n%s", tc.src, rep.messages())
		}
	}
}

func TestDigitSeparatorIsError(t *testing.T) {
	toks, rep := scan(t, "<?php 1_000;")
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexDigitSeparator {
		t.Fatalf("expected one separator error, got:\n%s", rep.messages())
	}
	if col := rep.diagnostics[0].Primary.Col; col != 8 {
		t.Fatalf("separator reported at column %d, want 8", col)
	}
	if toks[1].Kind != token.IntLit {
		t.Fatalf("expected IntLit, got %v", toks[1].Kind)
	}
}

func TestInvalidOctalKeepsPartialValue(t *testing.T) {
	toks, rep := scan(t, "<?php 0128;")
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexBadOctal {
		t.Fatalf("expected octal error, got:\n%s", rep.messages())
	}
	if toks[1].Int.Int64() != 10 {
		t.Fatalf("partial value = %s, want 10", toks[1].Int)
	}
}

func TestFloats(t *testing.T) {
	cases := map[string]float64{
		"<?php 1.5;":    1.5,
		"<?php .5;":     0.5,
		"<?php 1e3;":    1000,
		"<?php 1.5E-3;": 0.0015,
		"<?php 2.;":     2,
	}
	for src, want := range cases {
		toks, _ := scan(t, src)
		if toks[1].Kind != token.FloatLit || toks[1].Float != want {
			t.Fatalf("%q: got %v %v", src, toks[1].Kind, toks[1].Float)
		}
	}
	toks, _ := scan(t, "<?php 1e;")
	expectKinds(t, toks, token.OpenTag, token.IntLit, token.Ident, token.Semicolon, token.EOF)
}

func TestNoCode(t *testing.T) {
	toks, _ := scan(t, "<?php ?>")
	expectKinds(t, toks, token.OpenTag, token.CloseTag, token.EOF)
}

func TestTextMode(t *testing.T) {
	toks, _ := scan(t, "hello <?php echo 1; ?>\nworld\n<?xml?>")
	expectKinds(t, toks,
		token.InlineHTML, token.OpenTag, token.KwEcho, token.IntLit, token.Semicolon,
		token.CloseTag, token.InlineHTML, token.EOF)
	if toks[0].Text != "hello " {
		t.Fatalf("leading text = %q", toks[0].Text)
	}
	// the newline right after ?> belongs to the tag
	if toks[6].Text != "world\n<?xml?>" {
		t.Fatalf("trailing text = %q", toks[6].Text)
	}
}

func TestOpenTagEcho(t *testing.T) {
	toks, _ := scan(t, "<?= $a ?>")
	expectKinds(t, toks, token.OpenTagEcho, token.Variable, token.CloseTag, token.EOF)
}

func TestLineCommentStopsAtCloseTag(t *testing.T) {
	toks, _ := scan(t, "<?php // comment ?>x")
	expectKinds(t, toks, token.OpenTag, token.CloseTag, token.InlineHTML, token.EOF)
}

func TestNamesAndKeywords(t *testing.T) {
	toks, _ := scan(t, `<?php FUNCTION foo \Foo\Bar A\B namespace\Baz int __CLASS__;`)
	expectKinds(t, toks,
		token.OpenTag, token.KwFunction, token.Ident, token.Name, token.Name, token.Name,
		token.Ident, token.MagicClass, token.Semicolon, token.EOF)
	if toks[3].Text != `\Foo\Bar` || toks[5].Text != `namespace\Baz` {
		t.Fatalf("unexpected names %q %q", toks[3].Text, toks[5].Text)
	}
}

func TestVariableVariableIsError(t *testing.T) {
	toks, rep := scan(t, "<?php $$x;")
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexVariableVariable {
		t.Fatalf("expected variable-variable error, got:\n%s", rep.messages())
	}
	if toks[1].Kind != token.Variable || toks[1].Text != "x" {
		t.Fatalf("got %v %q", toks[1].Kind, toks[1].Text)
	}
}

func TestStrings(t *testing.T) {
	toks, rep := scan(t, `<?php 'a\'b\\c\n'; "x\x41\u{263A}\101\t\$y";`)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", rep.messages())
	}
	if toks[1].Kind != token.StringLit || toks[1].Text != `a'b\c\n` {
		t.Fatalf("single quoted = %v %q", toks[1].Kind, toks[1].Text)
	}
	if toks[3].Kind != token.StringLit || toks[3].Text != "xA☺A\t$y" {
		t.Fatalf("double quoted = %v %q", toks[3].Kind, toks[3].Text)
	}
}

func TestInterpolation(t *testing.T) {
	toks, rep := scan(t, `<?php "a $b[0] c $d->e f $g[k]";`)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", rep.messages())
	}
	expectKinds(t, toks,
		token.OpenTag, token.DQStart,
		token.StringPart, token.Variable, token.LBracket, token.IntLit, token.RBracket,
		token.StringPart, token.Variable, token.Arrow, token.Ident,
		token.StringPart, token.Variable, token.LBracket, token.StringLit, token.RBracket,
		token.DQEnd, token.Semicolon, token.EOF)
	if toks[2].Text != "a " || toks[7].Text != " c " || toks[14].Text != "k" {
		t.Fatalf("unexpected parts %q %q %q", toks[2].Text, toks[7].Text, toks[14].Text)
	}
}

func TestBracedInterpolationUnsupported(t *testing.T) {
	toks, rep := scan(t, `<?php "a {$b->c} d";`)
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexBracedInterpolation {
		t.Fatalf("expected braced interpolation error, got:\n%s", rep.messages())
	}
	if toks[1].Kind != token.StringLit || toks[1].Text != "a  d" {
		t.Fatalf("got %v %q", toks[1].Kind, toks[1].Text)
	}
}

func TestHeredoc(t *testing.T) {
	src := "<?php\n$s = <<<EOT\nHello $name!\n  line2\n  EOT;\n"
	toks, rep := scan(t, src)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", rep.messages())
	}
	expectKinds(t, toks,
		token.OpenTag, token.Variable, token.Assign,
		token.HeredocStart, token.StringPart, token.Variable, token.StringPart, token.HeredocEnd,
		token.Semicolon, token.EOF)
	if toks[6].Text != "!\n  line2" {
		t.Fatalf("tail = %q", toks[6].Text)
	}
}

func TestNowdoc(t *testing.T) {
	toks, _ := scan(t, "<?php\nf(<<<'X'\nraw $v \\n\nX);\n")
	expectKinds(t, toks, token.OpenTag, token.Ident, token.LParen, token.StringLit, token.RParen, token.Semicolon, token.EOF)
	if toks[3].Text != `raw $v \n` {
		t.Fatalf("nowdoc = %q", toks[3].Text)
	}
}

func TestHeredocTrailingBlanksIsFatal(t *testing.T) {
	_, fatal := lexer.Tokenize(source.NewStringReader("t.php", "<?php\n$s = <<<EOT\nx\nEOT  \n"), lexer.Options{})
	if fatal == nil || fatal.Code != diag.LexHeredocTrailingSpace {
		t.Fatalf("expected trailing blank fatal, got %v", fatal)
	}
	if fatal.Loc.Line != 4 {
		t.Fatalf("fatal at line %d, want 4", fatal.Loc.Line)
	}
}

func TestUnterminatedIsFatal(t *testing.T) {
	cases := map[string]diag.Code{
		"<?php 'abc":        diag.LexUnterminatedString,
		"<?php \"abc\n":     diag.LexUnterminatedString,
		"<?php /* x":        diag.LexUnterminatedComment,
		"<?php <<<E\nx\n":   diag.LexUnterminatedHeredoc,
		"<?php /*. int x\n": diag.LexUnterminatedAnnotation,
		"<?php \x01":        diag.LexControlChar,
	}
	for src, want := range cases {
		toks, fatal := lexer.Tokenize(source.NewStringReader("t.php", src), lexer.Options{})
		if fatal == nil || fatal.Code != want {
			t.Fatalf("%q: expected fatal %v, got %v", src, want, fatal)
		}
		if len(toks) == 0 || toks[0].Kind != token.OpenTag {
			t.Fatalf("%q: tokens before the fault must be kept", src)
		}
	}
}

func TestAnnotationMode(t *testing.T) {
	toks, _ := scan(t, "<?php /*. int .*/ $x; int")
	expectKinds(t, toks,
		token.OpenTag, token.AnnotationOpen, token.MetaInt, token.AnnotationClose,
		token.Variable, token.Semicolon, token.Ident, token.EOF)
}

func TestAnnotationThrows(t *testing.T) {
	toks, _ := scan(t, "<?php /*. void .*/ function f() /*. throws FooException .*/ {}")
	expectKinds(t, toks,
		token.OpenTag, token.AnnotationOpen, token.MetaVoid, token.AnnotationClose,
		token.KwFunction, token.Ident, token.LParen, token.RParen,
		token.AnnotationOpen, token.MetaThrows, token.Ident, token.AnnotationClose,
		token.LBrace, token.RBrace, token.EOF)
}

func TestDocComment(t *testing.T) {
	toks, _ := scan(t, "<?php\n/**\n * @return int\n */\nfunction f(){} /* plain */ /**/")
	if toks[1].Kind != token.DocComment {
		t.Fatalf("expected DocComment, got %v", toks[1].Kind)
	}
	if !strings.Contains(toks[1].Text, "@return int") {
		t.Fatalf("doc text = %q", toks[1].Text)
	}
	if toks[len(toks)-1].Kind != token.EOF || toks[len(toks)-2].Kind != token.RBrace {
		t.Fatalf("plain comments must be skipped: %v", kinds(toks))
	}
}

func TestCasts(t *testing.T) {
	toks, _ := scan(t, "<?php ( int )$a; (Boolean)$b; (foo)")
	expectKinds(t, toks,
		token.OpenTag, token.CastInt, token.Variable, token.Semicolon,
		token.CastBool, token.Variable, token.Semicolon,
		token.LParen, token.Ident, token.RParen, token.EOF)
}

func TestOperators(t *testing.T) {
	toks, _ := scan(t, "<?php === !== <=> ??= ** .= -> => :: ... <> ?? @")
	expectKinds(t, toks,
		token.OpenTag, token.EqEqEq, token.BangEqEq, token.Spaceship, token.CoalesceAssign,
		token.StarStar, token.DotAssign, token.Arrow, token.FatArrow, token.ColonColon,
		token.Ellipsis, token.BangEq, token.Coalesce, token.At, token.EOF)
}

func TestBOMAndShebang(t *testing.T) {
	rep := &testReporter{}
	lx := lexer.New(source.NewStringReader("t.php", "\xEF\xBB\xBF<?php 1;"), lexer.Options{Reporter: rep})
	if tok := lx.Next(); tok.Kind != token.OpenTag {
		t.Fatalf("expected OpenTag after BOM, got %v", tok.Kind)
	}
	if !lx.HadBOM() {
		t.Fatal("BOM not detected")
	}

	lx = lexer.New(source.NewStringReader("t.php", "#!/usr/bin/env php\n<?php 1;"), lexer.Options{Reporter: rep})
	if tok := lx.Next(); tok.Kind != token.OpenTag {
		t.Fatalf("expected OpenTag after shebang, got %v", tok.Kind)
	}
	if !lx.HadShebang() {
		t.Fatal("shebang not detected")
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx := lexer.New(source.NewStringReader("t.php", "<?php a b"), lexer.Options{})
	lx.Next()
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("next after peek = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("next = %q", n.Text)
	}
	if lx.Next().Kind != token.EOF || lx.Next().Kind != token.EOF {
		t.Fatal("EOF must be sticky")
	}
}

func TestLocations(t *testing.T) {
	toks, _ := scan(t, "<?php\n  $abc = 1;\n")
	v := toks[1]
	if v.Loc.Line != 2 || v.Loc.Col != 3 {
		t.Fatalf("variable at %s, want line 2 col 3", v.Loc)
	}
	if v.Loc.Text != "  $abc = 1;" {
		t.Fatalf("line text = %q", v.Loc.Text)
	}
}
