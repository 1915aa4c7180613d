package result

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"plint/internal/diag"
	"plint/internal/source"
	"plint/internal/token"
	"plint/internal/types"
)

// ValueCast performs a runtime conversion: (int), (float), (string),
// (bool), (array), (object) or (unset). stdClass is the class produced by
// (object); NoClassID when it is not loaded.
func (ev *Evaluator) ValueCast(cast token.Kind, x Result, stdClass types.ClassID, loc source.Location) Result {
	if x.IsUnknown() {
		return castFallback(cast)
	}
	k := ev.Types.Kind(x.Type())
	bad := func() Result {
		diag.ReportError(ev.Rep, diag.SemaBadCast, loc,
			fmt.Sprintf("cannot convert %s with %s", ev.TypeName(x), cast)).Emit()
		return Unknown
	}
	redundant := func() {
		diag.ReportNotice(ev.Rep, diag.SemaRedundantCast, loc,
			fmt.Sprintf("redundant cast %s of a %s value", cast, ev.TypeName(x))).Emit()
	}
	switch cast {
	case token.CastInt:
		switch k {
		case types.KindInt:
			redundant()
			return x
		case types.KindFloat:
			if f, ok := x.FloatValue(); ok {
				if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
					diag.ReportWarning(ev.Rep, diag.SemaIntegerOverflow, loc,
						fmt.Sprintf("float %s is out of the int range", formatFloat(f))).Emit()
					return UnknownInt
				}
				return Int(int64(f))
			}
			return UnknownInt
		case types.KindBool, types.KindNull:
			if v, ok := x.truth(); ok {
				if v {
					return Int(1)
				}
				return Int(0)
			}
			return UnknownInt
		case types.KindString:
			if s, ok := x.StringValue(); ok {
				if v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
					return Int(v)
				}
			}
			return UnknownInt
		case types.KindMixed:
			return UnknownInt
		}
		return bad()
	case token.CastFloat:
		switch k {
		case types.KindFloat:
			redundant()
			return x
		case types.KindInt:
			if i, ok := x.IntValue(); ok {
				return Float(float64(i))
			}
			return UnknownFloat
		case types.KindBool, types.KindNull:
			if v, ok := x.truth(); ok {
				if v {
					return Float(1)
				}
				return Float(0)
			}
			return UnknownFloat
		case types.KindString:
			if s, ok := x.StringValue(); ok {
				if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
					return Float(v)
				}
			}
			return UnknownFloat
		case types.KindMixed:
			return UnknownFloat
		}
		return bad()
	case token.CastString:
		switch k {
		case types.KindString:
			redundant()
			return x
		case types.KindBool:
			diag.ReportNotice(ev.Rep, diag.SemaBoolToString, loc,
				"boolean converted to string gives \"1\" or \"\"").Emit()
			fallthrough
		case types.KindInt, types.KindFloat, types.KindNull:
			if s, ok := x.literal(); ok {
				return String(s)
			}
			return UnknownString
		case types.KindMixed:
			return UnknownString
		case types.KindClass:
			id, _ := ev.Types.ClassOf(x.Type())
			if ev.Classes != nil && ev.Classes.HasStringConversion(id) {
				return UnknownString
			}
		}
		return bad()
	case token.CastBool:
		switch k {
		case types.KindBool:
			redundant()
			return x
		case types.KindInt, types.KindFloat, types.KindString, types.KindNull, types.KindArray, types.KindMixed:
			if v, ok := x.truth(); ok {
				return Bool(v)
			}
			return UnknownBool
		}
		return bad()
	case token.CastArray:
		switch k {
		case types.KindArray:
			redundant()
			return x
		case types.KindNull:
			return EmptyArray
		case types.KindMixed:
			return Of(ev.Types.Array(types.Mixed, types.Mixed))
		case types.KindBool, types.KindInt, types.KindFloat, types.KindString:
			return Of(ev.Types.Array(types.Int, x.Type()))
		}
		return bad()
	case token.CastObject:
		switch k {
		case types.KindClass:
			redundant()
			return x
		case types.KindNull, types.KindArray, types.KindMixed:
			return Of(ev.Types.Class(stdClass))
		}
		return bad()
	case token.CastUnset:
		diag.ReportWarning(ev.Rep, diag.SemaBadCast, loc, "(unset) cast is deprecated, use NULL").Emit()
		return Null
	}
	panic(fmt.Sprintf("result: %s is not a cast", cast))
}

func castFallback(cast token.Kind) Result {
	switch cast {
	case token.CastInt:
		return UnknownInt
	case token.CastFloat:
		return UnknownFloat
	case token.CastString:
		return UnknownString
	case token.CastBool:
		return UnknownBool
	case token.CastUnset:
		return Null
	}
	return Unknown
}

// DeclarativeCast reinterprets the static type of x as to without changing
// its value. It is accepted only where the runtime value already fits:
//   - null to any type that accepts null;
//   - an empty array to any array type;
//   - mixed to any type but void;
//   - an array with unknown or mixed components to a specific array type;
//   - an object to one of its subclasses.
func (ev *Evaluator) DeclarativeCast(to types.TypeID, x Result, loc source.Location) Result {
	if x.IsUnknown() || to == types.Unknown {
		return Of(to)
	}
	from := x.Type()
	if from == to {
		diag.ReportNotice(ev.Rep, diag.SemaRedundantCast, loc,
			fmt.Sprintf("redundant formal cast to %s", ev.Types.Format(to, ev.hierarchy()))).Emit()
		return x
	}
	h := ev.hierarchy()
	ok := false
	switch {
	case to == types.Void:
	case from == types.Null:
		ok = ev.Types.Assignable(types.Null, to, h)
	case from == types.Mixed:
		ok = true
	case from == types.EmptyArray:
		ok = ev.Types.IsArray(to)
	case ev.Types.IsArray(from) && ev.Types.IsArray(to):
		ok = looseComponent(ev.Types.ArrayKey(from), ev.Types.ArrayKey(to)) &&
			looseComponent(ev.Types.ArrayValue(from), ev.Types.ArrayValue(to))
	case ev.Types.IsClass(from) && ev.Types.IsClass(to):
		a, _ := ev.Types.ClassOf(from)
		b, _ := ev.Types.ClassOf(to)
		ok = h != nil && (h.IsSubclassOf(b, a) || h.IsSubclassOf(a, b))
	}
	if !ok {
		diag.ReportError(ev.Rep, diag.SemaBadCast, loc,
			fmt.Sprintf("formal cast from %s to %s is not allowed", ev.TypeName(x), ev.Types.Format(to, h))).Emit()
		return Unknown
	}
	return Of(to)
}

func looseComponent(from, to types.TypeID) bool {
	return from == to || from == types.Mixed || from == types.Unknown
}
