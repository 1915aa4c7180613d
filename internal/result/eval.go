package result

import (
	"fmt"
	"math"
	"math/big"

	"plint/internal/diag"
	"plint/internal/source"
	"plint/internal/token"
	"plint/internal/types"
)

// Classes is the view of the class table the evaluator needs.
type Classes interface {
	types.Hierarchy
	// HasStringConversion reports whether instances convert to string
	// (the class or an ancestor defines __toString).
	HasStringConversion(id types.ClassID) bool
}

// Evaluator folds operators over Results and reports misuse.
type Evaluator struct {
	Types   *types.Interner
	Classes Classes
	Rep     diag.Reporter
}

// NewEvaluator builds an evaluator. classes may be nil when no class values
// are evaluated.
func NewEvaluator(in *types.Interner, classes Classes, rep diag.Reporter) *Evaluator {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	return &Evaluator{Types: in, Classes: classes, Rep: rep}
}

func (ev *Evaluator) hierarchy() types.Hierarchy {
	if ev.Classes == nil {
		return nil
	}
	return ev.Classes
}

// TypeName renders the static type of r for messages.
func (ev *Evaluator) TypeName(r Result) string {
	return ev.Types.Format(r.Type(), ev.hierarchy())
}

// IntLiteral converts a scanned integer. Values outside the int64 range are
// reported and become floats.
func (ev *Evaluator) IntLiteral(v *big.Int, loc source.Location) Result {
	if v == nil {
		return UnknownInt
	}
	if v.IsInt64() {
		return Int(v.Int64())
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	diag.ReportWarning(ev.Rep, diag.SemaIntegerOverflow, loc,
		fmt.Sprintf("integer literal %s exceeds the int range and is converted to float", v.String())).Emit()
	return Float(f)
}

// Unary applies +, -, ~ or ! to x.
func (ev *Evaluator) Unary(op token.Kind, x Result, loc source.Location) Result {
	spec, ok := unarySpecTable[op]
	if !ok {
		panic(fmt.Sprintf("result: %s is not a unary operator", op))
	}
	if x.IsUnknown() {
		return fallback(spec.Result)
	}
	if ev.Types.FamilyOf(x.Type())&spec.Operand == 0 {
		diag.ReportError(ev.Rep, diag.SemaBadOperand, loc,
			fmt.Sprintf("operator %s cannot be applied to %s", op, ev.TypeName(x))).Emit()
		return fallback(spec.Result)
	}
	switch op {
	case token.Plus:
		return x
	case token.Minus:
		if i, ok := x.IntValue(); ok {
			if i == math.MinInt64 {
				ev.overflow(loc, op)
				return Float(-float64(i))
			}
			return Int(-i)
		}
		if f, ok := x.FloatValue(); ok {
			return Float(-f)
		}
		return x.Forget()
	case token.Tilde:
		if i, ok := x.IntValue(); ok {
			return Int(^i)
		}
		return UnknownInt
	default: // token.Bang
		if b, ok := x.BoolValue(); ok {
			return Bool(!b)
		}
		return UnknownBool
	}
}

// Binary applies a binary operator. Strict comparisons are accepted for any
// operands and never folded.
func (ev *Evaluator) Binary(op token.Kind, x, y Result, loc source.Location) Result {
	switch {
	case op == token.Dot:
		return ev.concat(x, y, loc)
	case isStrict(op):
		return UnknownBool
	case isComparison(op):
		return ev.compare(op, x, y, loc)
	}
	specs, ok := binarySpecTable[op]
	if !ok {
		panic(fmt.Sprintf("result: %s is not a binary operator", op))
	}
	want := specs[0].Result
	if x.IsUnknown() || y.IsUnknown() {
		return fallback(want)
	}
	fx, fy := ev.Types.FamilyOf(x.Type()), ev.Types.FamilyOf(y.Type())
	for _, s := range specs {
		if fx&s.Left == 0 || fy&s.Right == 0 {
			continue
		}
		if s.Flags&BinaryFlagSameType != 0 && !ev.sameShape(x, y) {
			continue
		}
		return ev.apply(op, s, x, y, loc)
	}
	diag.ReportError(ev.Rep, diag.SemaBadOperand, loc,
		fmt.Sprintf("operator %s cannot be applied to %s and %s", op, ev.TypeName(x), ev.TypeName(y))).Emit()
	return fallback(want)
}

func (ev *Evaluator) sameShape(x, y Result) bool {
	h := ev.hierarchy()
	return ev.Types.Assignable(x.Type(), y.Type(), h) || ev.Types.Assignable(y.Type(), x.Type(), h)
}

func fallback(r BinaryResult) Result {
	switch r {
	case BinaryResultBool:
		return UnknownBool
	case BinaryResultFloat:
		return UnknownFloat
	case BinaryResultInt:
		return UnknownInt
	case BinaryResultString:
		return UnknownString
	default:
		return Unknown
	}
}

func (ev *Evaluator) apply(op token.Kind, s BinarySpec, x, y Result, loc source.Location) Result {
	if s.Flags&BinaryFlagZeroCheck != 0 && isZero(y) {
		diag.ReportError(ev.Rep, diag.SemaDivisionByZero, loc, fmt.Sprintf("division by zero in operator %s", op)).Emit()
		return fallback(s.Result)
	}
	switch s.Result {
	case BinaryResultBool:
		return logical(op, x, y)
	case BinaryResultLeft:
		// array union
		if x.Type() == types.EmptyArray {
			return y.Forget()
		}
		return x.Forget()
	case BinaryResultFloat:
		a, aok := asFloat(x)
		b, bok := asFloat(y)
		if aok && bok {
			return Float(a / b)
		}
		return UnknownFloat
	case BinaryResultInt:
		return ev.intOp(op, x, y, loc)
	default:
		return ev.numeric(op, x, y, loc)
	}
}

func isZero(r Result) bool {
	if i, ok := r.IntValue(); ok {
		return i == 0
	}
	if f, ok := r.FloatValue(); ok {
		return f == 0
	}
	return false
}

func asFloat(r Result) (float64, bool) {
	if i, ok := r.IntValue(); ok {
		return float64(i), true
	}
	return r.FloatValue()
}

func logical(op token.Kind, x, y Result) Result {
	a, aok := x.BoolValue()
	b, bok := y.BoolValue()
	switch op {
	case token.AndAnd, token.KwAnd:
		if (aok && !a) || (bok && !b) {
			return False
		}
		if aok && bok {
			return True
		}
	case token.OrOr, token.KwOr:
		if (aok && a) || (bok && b) {
			return True
		}
		if aok && bok {
			return False
		}
	case token.KwXor:
		if aok && bok {
			return Bool(a != b)
		}
	}
	return UnknownBool
}

// numeric handles + - * ** : int op int stays int unless it overflows, any
// float operand makes the result float.
func (ev *Evaluator) numeric(op token.Kind, x, y Result, loc source.Location) Result {
	if x.Type() == types.Int && y.Type() == types.Int {
		a, aok := x.IntValue()
		b, bok := y.IntValue()
		if !aok || !bok {
			if op == token.StarStar && bok && b < 0 {
				return UnknownFloat
			}
			return UnknownInt
		}
		var (
			v    int64
			good bool
		)
		switch op {
		case token.Plus:
			v, good = addInt(a, b)
		case token.Minus:
			v, good = subInt(a, b)
		case token.Star:
			v, good = mulInt(a, b)
		case token.StarStar:
			if b < 0 {
				return Float(math.Pow(float64(a), float64(b)))
			}
			v, good = powInt(a, b)
		}
		if good {
			return Int(v)
		}
		ev.overflow(loc, op)
		return Float(floatOp(op, float64(a), float64(b)))
	}
	a, aok := asFloat(x)
	b, bok := asFloat(y)
	if aok && bok {
		return Float(floatOp(op, a, b))
	}
	return UnknownFloat
}

func floatOp(op token.Kind, a, b float64) float64 {
	switch op {
	case token.Plus:
		return a + b
	case token.Minus:
		return a - b
	case token.Star:
		return a * b
	default:
		return math.Pow(a, b)
	}
}

func (ev *Evaluator) intOp(op token.Kind, x, y Result, loc source.Location) Result {
	a, aok := x.IntValue()
	b, bok := y.IntValue()
	if bok && b < 0 && (op == token.Shl || op == token.Shr) {
		diag.ReportError(ev.Rep, diag.SemaBadOperand, loc, fmt.Sprintf("negative shift count %d", b)).Emit()
		return UnknownInt
	}
	if !aok || !bok {
		return UnknownInt
	}
	switch op {
	case token.Percent:
		return Int(a % b)
	case token.Amp:
		return Int(a & b)
	case token.Pipe:
		return Int(a | b)
	case token.Caret:
		return Int(a ^ b)
	case token.Shl:
		if b >= 64 {
			return Int(0)
		}
		return Int(a << uint(b))
	default: // token.Shr
		if b >= 64 {
			if a < 0 {
				return Int(-1)
			}
			return Int(0)
		}
		return Int(a >> uint(b))
	}
}

func (ev *Evaluator) overflow(loc source.Location, op token.Kind) {
	diag.ReportWarning(ev.Rep, diag.SemaIntegerOverflow, loc,
		fmt.Sprintf("integer overflow in operator %s, the result is converted to float", op)).Emit()
}

// concat implements the "." operator.
func (ev *Evaluator) concat(x, y Result, loc source.Location) Result {
	if x.IsUnknown() || y.IsUnknown() {
		return UnknownString
	}
	a, aknown, aok := ev.stringOperand(x, loc)
	b, bknown, bok := ev.stringOperand(y, loc)
	if !aok || !bok {
		return UnknownString
	}
	if aknown && bknown {
		return String(a + b)
	}
	return UnknownString
}

// stringOperand converts an operand of "." to string. ok is false when the
// operand cannot be converted; the error is already reported.
func (ev *Evaluator) stringOperand(r Result, loc source.Location) (s string, known, ok bool) {
	switch ev.Types.Kind(r.Type()) {
	case types.KindUnknown:
		return "", false, false
	case types.KindString, types.KindInt, types.KindFloat:
		s, known = r.literal()
		return s, known, true
	case types.KindBool:
		diag.ReportNotice(ev.Rep, diag.SemaBoolToString, loc,
			"boolean converted to string gives \"1\" or \"\"; use an explicit conditional").Emit()
		s, known = r.literal()
		return s, known, true
	case types.KindClass:
		id, _ := ev.Types.ClassOf(r.Type())
		if ev.Classes != nil && ev.Classes.HasStringConversion(id) {
			return "", false, true
		}
		diag.ReportError(ev.Rep, diag.SemaBadOperand, loc,
			fmt.Sprintf("object of class %s cannot be converted to string, it does not implement __toString()", ev.TypeName(r))).Emit()
		return "", false, false
	}
	diag.ReportError(ev.Rep, diag.SemaBadOperand, loc,
		fmt.Sprintf("cannot convert %s to string in concatenation", ev.TypeName(r))).Emit()
	return "", false, false
}

func addInt(a, b int64) (int64, bool) {
	c := a + b
	return c, (c > a) == (b > 0)
}

func subInt(a, b int64) (int64, bool) {
	c := a - b
	return c, (c < a) == (b > 0)
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	c := a * b
	return c, c/b == a
}

func powInt(a, e int64) (int64, bool) {
	switch a {
	case 0, 1:
		if e == 0 {
			return 1, true
		}
		return a, true
	case -1:
		if e%2 == 0 {
			return 1, true
		}
		return -1, true
	}
	r := int64(1)
	for ; e > 0; e-- {
		var ok bool
		if r, ok = mulInt(r, a); !ok {
			return 0, false
		}
	}
	return r, true
}
