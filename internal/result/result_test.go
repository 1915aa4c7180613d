package result

import (
	"math"
	"math/big"
	"testing"

	"plint/internal/diag"
	"plint/internal/source"
	"plint/internal/token"
	"plint/internal/types"
)

type fakeClasses struct {
	parent   map[types.ClassID]types.ClassID
	toString map[types.ClassID]bool
}

func (c fakeClasses) IsSubclassOf(child, parent types.ClassID) bool {
	for id := child; id != types.NoClassID; id = c.parent[id] {
		if id == parent {
			return true
		}
	}
	return false
}

func (c fakeClasses) ClassName(id types.ClassID) string {
	return map[types.ClassID]string{1: "Base", 2: "Child", 3: "Printable"}[id]
}

func (c fakeClasses) HasStringConversion(id types.ClassID) bool { return c.toString[id] }

func newEval(t *testing.T) (*Evaluator, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(0)
	classes := fakeClasses{
		parent:   map[types.ClassID]types.ClassID{2: 1},
		toString: map[types.ClassID]bool{3: true},
	}
	return NewEvaluator(types.NewInterner(), classes, diag.BagReporter{Bag: bag}), bag
}

var loc = source.Location{File: "t.php", Line: 1, Col: 1}

func requireCode(t *testing.T, bag *diag.Bag, code diag.Code) {
	t.Helper()
	for _, d := range bag.Items() {
		if d.Code == code {
			return
		}
	}
	t.Fatalf("expected %s, got %v", code, bag.Items())
}

func TestIntArithmetic(t *testing.T) {
	ev, bag := newEval(t)
	pairs := [][2]int64{{1, 2}, {-7, 3}, {math.MaxInt64 - 5, 5}, {0, 0}, {123456789, -987654321}}
	for _, p := range pairs {
		got := ev.Binary(token.Plus, Int(p[0]), Int(p[1]), loc)
		v, ok := got.IntValue()
		if !ok || v != p[0]+p[1] {
			t.Fatalf("%d + %d = %v (%s)", p[0], p[1], got.Text(), ev.TypeName(got))
		}
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestDivisionIsAlwaysFloat(t *testing.T) {
	ev, _ := newEval(t)
	for _, x := range []Result{Int(6), Float(1.5), UnknownInt} {
		for _, y := range []Result{Int(3), Float(0.5), UnknownFloat} {
			if got := ev.Binary(token.Slash, x, y, loc); got.Type() != types.Float {
				t.Fatalf("%s / %s has type %s", ev.TypeName(x), ev.TypeName(y), ev.TypeName(got))
			}
		}
	}
	if f, _ := ev.Binary(token.Slash, Int(6), Int(3), loc).FloatValue(); f != 2 {
		t.Fatalf("6/3 = %v", f)
	}
}

func TestOverflowPromotesToFloat(t *testing.T) {
	ev, bag := newEval(t)
	got := ev.Binary(token.Plus, Int(math.MaxInt64), Int(1), loc)
	if got.Type() != types.Float {
		t.Fatalf("overflow result type %s", ev.TypeName(got))
	}
	requireCode(t, bag, diag.SemaIntegerOverflow)

	bag2 := diag.NewBag(0)
	ev.Rep = diag.BagReporter{Bag: bag2}
	if got := ev.Binary(token.Star, Int(math.MinInt64), Int(-1), loc); got.Type() != types.Float {
		t.Fatal("MinInt64 * -1 must overflow")
	}
	requireCode(t, bag2, diag.SemaIntegerOverflow)
}

func TestIntLiteralOutOfRange(t *testing.T) {
	ev, bag := newEval(t)
	v, _ := new(big.Int).SetString("9223372036854775808", 10)
	if got := ev.IntLiteral(v, loc); got.Type() != types.Float {
		t.Fatal("literal above MaxInt64 must become float")
	}
	requireCode(t, bag, diag.SemaIntegerOverflow)
}

func TestModulus(t *testing.T) {
	ev, bag := newEval(t)
	if v, _ := ev.Binary(token.Percent, Int(7), Int(3), loc).IntValue(); v != 1 {
		t.Fatalf("7 %% 3 = %d", v)
	}
	if got := ev.Binary(token.Percent, Float(7), Int(3), loc); got.Type() != types.Int {
		t.Fatal("modulus result is int even on error")
	}
	requireCode(t, bag, diag.SemaBadOperand)
	ev.Binary(token.Percent, Int(1), Int(0), loc)
	requireCode(t, bag, diag.SemaDivisionByZero)
}

func TestFloatPromotion(t *testing.T) {
	ev, _ := newEval(t)
	got := ev.Binary(token.Minus, Int(3), Float(0.5), loc)
	if f, ok := got.FloatValue(); !ok || f != 2.5 {
		t.Fatalf("3 - 0.5 = %s", got.Text())
	}
}

func TestConcat(t *testing.T) {
	ev, bag := newEval(t)
	got := ev.Binary(token.Dot, String("n="), Int(4), loc)
	if s, ok := got.StringValue(); !ok || s != "n=4" {
		t.Fatalf("concat = %s", got.Text())
	}
	ev.Binary(token.Dot, String("x"), True, loc)
	requireCode(t, bag, diag.SemaBoolToString)

	in := ev.Types
	if got := ev.Binary(token.Dot, Of(in.Class(3)), String("!"), loc); got.Type() != types.String {
		t.Fatal("class with __toString concatenates")
	}
	ev.Binary(token.Dot, Of(in.Class(1)), String("!"), loc)
	requireCode(t, bag, diag.SemaBadOperand)
}

func TestUnknownAbsorbsDiagnostics(t *testing.T) {
	ev, bag := newEval(t)
	ev.Binary(token.Plus, Unknown, String("x"), loc)
	ev.Binary(token.Dot, Unknown, Null, loc)
	ev.Unary(token.Bang, Unknown, loc)
	ev.Binary(token.Lt, Unknown, True, loc)
	if bag.Len() != 0 {
		t.Fatalf("unknown operands must not be reported: %v", bag.Items())
	}
}

func TestStrictComparisonNeverFolded(t *testing.T) {
	ev, bag := newEval(t)
	a := Of(ev.Types.Class(1))
	if got := ev.Binary(token.EqEqEq, a, a, loc); got != UnknownBool {
		t.Fatalf("=== folded to %s", got.Text())
	}
	if got := ev.Binary(token.BangEqEq, Int(1), Int(1), loc); got != UnknownBool {
		t.Fatalf("!== folded to %s", got.Text())
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestWeakComparisonTable(t *testing.T) {
	ev, bag := newEval(t)
	obj := Of(ev.Types.Class(1))

	if got := ev.Binary(token.EqEq, obj, Null, loc); got.Type() != types.Boolean {
		t.Fatal("object == null yields boolean")
	}
	requireCode(t, bag, diag.SemaComparisonHint)
	if bag.Counts().Errors != 0 {
		t.Fatal("object == null is accepted")
	}

	// same pair, operands swapped
	ev.Binary(token.EqEq, Null, obj, loc)
	if bag.Counts().Errors != 0 {
		t.Fatal("null == object is accepted")
	}

	ev.Binary(token.Lt, String("a"), String("b"), loc)
	requireCode(t, bag, diag.SemaBadOperand)
}

func TestComparisonFolding(t *testing.T) {
	ev, _ := newEval(t)
	tests := []struct {
		op   token.Kind
		x, y Result
		want bool
	}{
		{token.Lt, Int(1), Int(2), true},
		{token.Gt, Float(1.5), Int(2), false},
		{token.GtEq, Int(2), Float(1.5), true},
		{token.EqEq, True, False, false},
		{token.BangEq, Int(3), Int(3), false},
	}
	for _, tt := range tests {
		got, ok := ev.Binary(tt.op, tt.x, tt.y, loc).BoolValue()
		if !ok || got != tt.want {
			t.Errorf("%s %s %s = %v (known %v)", tt.x.Text(), tt.op, tt.y.Text(), got, ok)
		}
	}
	if v, _ := ev.Binary(token.Spaceship, Float(2), Int(1), loc).IntValue(); v != 1 {
		t.Fatalf("2.0 <=> 1 = %d", v)
	}
	if v, _ := ev.Binary(token.Spaceship, Int(1), Float(2), loc).IntValue(); v != -1 {
		t.Fatalf("1 <=> 2.0 = %d", v)
	}
}

func TestLogicalRequiresBoolean(t *testing.T) {
	ev, bag := newEval(t)
	if got := ev.Binary(token.AndAnd, False, UnknownBool, loc); got != False {
		t.Fatal("false && x is false")
	}
	if got := ev.Binary(token.OrOr, Int(1), True, loc); got.Type() != types.Boolean {
		t.Fatal("logical result is boolean")
	}
	requireCode(t, bag, diag.SemaBadOperand)
}

func TestUnary(t *testing.T) {
	ev, bag := newEval(t)
	if v, _ := ev.Unary(token.Minus, Int(5), loc).IntValue(); v != -5 {
		t.Fatal("-5")
	}
	if got := ev.Unary(token.Minus, Int(math.MinInt64), loc); got.Type() != types.Float {
		t.Fatal("-MinInt64 overflows")
	}
	if v, _ := ev.Unary(token.Tilde, Int(0), loc).IntValue(); v != -1 {
		t.Fatal("~0")
	}
	if got := ev.Unary(token.Bang, Int(1), loc); got != UnknownBool {
		t.Fatal("!int is an error with an unknown boolean")
	}
	requireCode(t, bag, diag.SemaBadOperand)
}

func TestValueCast(t *testing.T) {
	ev, bag := newEval(t)
	if v, _ := ev.ValueCast(token.CastInt, Float(3.9), types.NoClassID, loc).IntValue(); v != 3 {
		t.Fatal("(int)3.9")
	}
	if s, _ := ev.ValueCast(token.CastString, Float(0.5), types.NoClassID, loc).StringValue(); s != "0.5" {
		t.Fatalf("(string)0.5 = %q", s)
	}
	if v, _ := ev.ValueCast(token.CastBool, String("0"), types.NoClassID, loc).BoolValue(); v {
		t.Fatal(`(bool)"0" is false`)
	}
	got := ev.ValueCast(token.CastArray, String("x"), types.NoClassID, loc)
	if ev.TypeName(got) != "array[int]string" {
		t.Fatalf("(array)string = %s", ev.TypeName(got))
	}
	if got := ev.ValueCast(token.CastString, Of(ev.Types.Array(types.Int, types.Int)), types.NoClassID, loc); !got.IsUnknown() {
		t.Fatal("(string)array is an error")
	}
	requireCode(t, bag, diag.SemaBadCast)
}

func TestDeclarativeCast(t *testing.T) {
	ev, bag := newEval(t)
	in := ev.Types
	strs := in.Array(types.Int, types.String)

	if got := ev.DeclarativeCast(strs, EmptyArray, loc); got.Type() != strs {
		t.Fatal("empty array to array[int]string")
	}
	if got := ev.DeclarativeCast(in.Class(2), Of(in.Class(1)), loc); got.Type() != in.Class(2) {
		t.Fatal("downcast Base to Child")
	}
	if got := ev.DeclarativeCast(types.String, Null, loc); got.Type() != types.String {
		t.Fatal("null to string")
	}
	if bag.Counts().Errors != 0 {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if got := ev.DeclarativeCast(types.Int, Null, loc); !got.IsUnknown() {
		t.Fatal("null to int is refused")
	}
	requireCode(t, bag, diag.SemaBadCast)
}

func TestText(t *testing.T) {
	tests := []struct {
		r    Result
		want string
	}{
		{Int(-3), "-3"},
		{Float(1e20), "1.0E+20"},
		{Float(0.1 + 0.2), "0.3"},
		{True, "TRUE"},
		{Null, "NULL"},
		{String(`a"b`), `"a\"b"`},
		{UnknownInt, ""},
	}
	for _, tt := range tests {
		if got := tt.r.Text(); got != tt.want {
			t.Errorf("Text = %q, want %q", got, tt.want)
		}
	}
}
