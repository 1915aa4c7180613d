package result

import (
	"fmt"

	"plint/internal/diag"
	"plint/internal/source"
	"plint/internal/token"
	"plint/internal/types"
)

type cmpVerdict uint8

const (
	cmpError cmpVerdict = iota
	cmpOK
	cmpHint // accepted, with a notice
)

// weakRule covers one unordered pair of operand kinds. eq applies to == and
// !=, ord to < <= > >= <=>.
type weakRule struct {
	eq, ord cmpVerdict
	eqHint  string
	ordHint string
}

type kindPair [2]types.Kind

const (
	hintStrictNull = "comparison with NULL: use === or !== to check for the null value"
	hintNoOrder    = "values of this type have no natural ordering"
)

// Only the half with pair[0] <= pair[1] is stored; compare swaps the
// operands and flips the operator to get there.
var weakTable = map[kindPair]weakRule{
	{types.KindNull, types.KindNull}:     {eq: cmpHint, eqHint: hintStrictNull, ordHint: hintNoOrder},
	{types.KindNull, types.KindString}:   {eq: cmpHint, eqHint: hintStrictNull, ordHint: hintNoOrder},
	{types.KindNull, types.KindResource}: {eq: cmpHint, eqHint: hintStrictNull, ordHint: hintNoOrder},
	{types.KindNull, types.KindArray}:    {eq: cmpHint, eqHint: hintStrictNull, ordHint: hintNoOrder},
	{types.KindNull, types.KindClass}:    {eq: cmpHint, eqHint: hintStrictNull, ordHint: hintNoOrder},
	{types.KindBool, types.KindBool}:     {eq: cmpOK, ordHint: "booleans have no ordering"},
	{types.KindInt, types.KindInt}:       {eq: cmpOK, ord: cmpOK},
	{types.KindInt, types.KindFloat}:     {eq: cmpOK, ord: cmpOK},
	{types.KindFloat, types.KindFloat}:   {eq: cmpOK, ord: cmpOK},
	{types.KindString, types.KindString}: {
		eq:      cmpHint,
		eqHint:  "weak comparison of strings may compare them as numbers: use === or strcmp()",
		ordHint: "use strcmp() to compare strings",
	},
	{types.KindResource, types.KindResource}: {eq: cmpOK, ordHint: hintNoOrder},
	{types.KindArray, types.KindArray}:       {eq: cmpOK, ordHint: "arrays have no natural ordering"},
	{types.KindClass, types.KindClass}:       {eq: cmpOK, ordHint: "objects have no natural ordering, compare a property or use a comparison method"},
}

func flip(op token.Kind) token.Kind {
	switch op {
	case token.Lt:
		return token.Gt
	case token.Gt:
		return token.Lt
	case token.LtEq:
		return token.GtEq
	case token.GtEq:
		return token.LtEq
	}
	return op
}

func isEquality(op token.Kind) bool { return op == token.EqEq || op == token.BangEq }

func compareResultType(op token.Kind) Result {
	if op == token.Spaceship {
		return UnknownInt
	}
	return UnknownBool
}

// compare evaluates a weak comparison.
func (ev *Evaluator) compare(op token.Kind, x, y Result, loc source.Location) Result {
	if x.IsUnknown() || y.IsUnknown() {
		return compareResultType(op)
	}
	kx, ky := ev.Types.Kind(x.Type()), ev.Types.Kind(y.Type())
	swapped := false
	if kx > ky {
		x, y = y, x
		kx, ky = ky, kx
		op = flip(op)
		swapped = true
	}
	rule, ok := weakTable[kindPair{kx, ky}]
	verdict, hint := rule.ord, rule.ordHint
	if isEquality(op) {
		verdict, hint = rule.eq, rule.eqHint
	}
	if !ok {
		hint = "convert one operand explicitly or use ==="
		if kx == types.KindMixed || ky == types.KindMixed {
			hint = "the mixed operand must be cast to a specific type first"
		}
	}
	switch verdict {
	case cmpError:
		a, b := ev.TypeName(x), ev.TypeName(y)
		if swapped {
			a, b = b, a
		}
		msg := fmt.Sprintf("cannot compare %s with %s using %s", a, b, op)
		if hint != "" {
			msg += ": " + hint
		}
		diag.ReportError(ev.Rep, diag.SemaBadOperand, loc, msg).Emit()
		return compareResultType(op)
	case cmpHint:
		diag.ReportNotice(ev.Rep, diag.SemaComparisonHint, loc, hint).Emit()
	}
	if v, ok := foldCompare(op, x, y); ok {
		if swapped && op == token.Spaceship {
			return Int(-v)
		}
		if op == token.Spaceship {
			return Int(v)
		}
		return Bool(verdictOf(op, v))
	}
	return compareResultType(op)
}

// foldCompare returns -1, 0 or 1 for known numeric or boolean operands.
func foldCompare(op token.Kind, x, y Result) (int64, bool) {
	if a, ok := x.BoolValue(); ok {
		b, ok := y.BoolValue()
		if !ok || !isEquality(op) {
			return 0, false
		}
		if a == b {
			return 0, true
		}
		return 1, true
	}
	if x.Type() == types.Null && y.Type() == types.Null && isEquality(op) {
		return 0, true
	}
	if ai, ok := x.IntValue(); ok {
		if bi, ok := y.IntValue(); ok {
			return sign(ai, bi), true
		}
	}
	a, aok := asFloat(x)
	b, bok := asFloat(y)
	if !aok || !bok {
		return 0, false
	}
	switch {
	case a < b:
		return -1, true
	case a > b:
		return 1, true
	case a == b:
		return 0, true
	}
	// NaN
	return 0, false
}

func sign(a, b int64) int64 {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func verdictOf(op token.Kind, c int64) bool {
	switch op {
	case token.EqEq:
		return c == 0
	case token.BangEq:
		return c != 0
	case token.Lt:
		return c < 0
	case token.LtEq:
		return c <= 0
	case token.Gt:
		return c > 0
	default: // token.GtEq
		return c >= 0
	}
}
