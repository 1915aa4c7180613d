package diag

import (
	"testing"

	"plint/internal/source"
)

func TestFormatGolden(t *testing.T) {
	user := "/workspace/testdata/golden/sample.php"

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Location{File: user, Line: 1, Col: 1},
			Notes: []Note{
				{Loc: source.Location{File: "<builtin>/core.php", Line: 1, Col: 1}, Msg: "skip me"},
				{Loc: source.Location{File: user, Line: 2, Col: 1}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     SemaUnresolvedConstant,
			Message:  "another",
			Primary:  source.Location{File: user, Line: 2, Col: 1},
		},
	}

	expected := "error SYN2001 testdata/golden/sample.php:1:1 first line second\n" +
		"note SYN2001 testdata/golden/sample.php:2:1 note line\n" +
		"warning SEM3001 testdata/golden/sample.php:2:1 another"

	if got := FormatGolden(diags, "/workspace", true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestBagCountsSurviveLimit(t *testing.T) {
	bag := NewBag(1)
	r := BagReporter{Bag: bag}
	r.Report(SemaTypeMismatch, SevError, source.NoLocation, "a", nil)
	r.Report(SemaTypeMismatch, SevError, source.NoLocation, "b", nil)
	r.Report(SemaDeprecated, SevWarning, source.NoLocation, "c", nil)

	if bag.Len() != 1 {
		t.Fatalf("expected 1 stored diagnostic, got %d", bag.Len())
	}
	c := bag.Counts()
	if c.Errors != 2 || c.Warnings != 1 {
		t.Fatalf("unexpected counts %+v", c)
	}
	if !c.Failed(false) {
		t.Fatal("errors must fail the run")
	}
}

func TestCountsFailedStrict(t *testing.T) {
	c := Counts{Warnings: 1}
	if c.Failed(false) {
		t.Fatal("warnings alone must not fail a non-strict run")
	}
	if !c.Failed(true) {
		t.Fatal("warnings must fail a strict run")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	loc := source.Location{File: "a.php", Line: 3, Col: 2}
	r.Report(SemaUnresolvedClass, SevError, loc, "unresolved class Foo", nil)
	r.Report(SemaUnresolvedClass, SevError, loc, "unresolved class Foo", nil)
	r.Report(SemaUnresolvedClass, SevError, loc.At(5), "unresolved class Foo", nil)
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
}

func TestTransformMovesCounters(t *testing.T) {
	bag := NewBag(0)
	bag.Add(New(SevWarning, SemaDeprecated, source.NoLocation, "w"))
	bag.Transform(func(d Diagnostic) Diagnostic {
		if d.Severity == SevWarning {
			d.Severity = SevError
		}
		return d
	})
	if c := bag.Counts(); c.Errors != 1 || c.Warnings != 0 {
		t.Fatalf("unexpected counts %+v", c)
	}
}

func TestSortOrder(t *testing.T) {
	bag := NewBag(0)
	bag.Add(New(SevNotice, SemaUnusedVariable, source.Location{File: "b.php", Line: 1}, "n"))
	bag.Add(New(SevWarning, SemaDeprecated, source.Location{File: "a.php", Line: 5}, "w"))
	bag.Add(New(SevError, SemaTypeMismatch, source.Location{File: "a.php", Line: 5}, "e"))
	bag.Sort()
	items := bag.Items()
	if items[0].Message != "e" || items[1].Message != "w" || items[2].Message != "n" {
		t.Fatalf("unexpected order: %q %q %q", items[0].Message, items[1].Message, items[2].Message)
	}
}
