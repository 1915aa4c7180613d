// Package result evaluates literal and constant expressions at analysis
// time. A Result is a static type plus, when the value is known, the value
// itself. Operators never wrap silently: integer overflow is flagged and the
// result becomes a float.
package result

import (
	"math"
	"strconv"
	"strings"

	"plint/internal/types"
)

// Result is an immutable (type, optional value) pair.
type Result struct {
	typ   types.TypeID
	known bool
	b     bool
	i     int64
	f     float64
	s     string
}

// Canonical results.
var (
	Void          = Result{typ: types.Void}
	Null          = Result{typ: types.Null, known: true}
	True          = Result{typ: types.Boolean, known: true, b: true}
	False         = Result{typ: types.Boolean, known: true}
	UnknownBool   = Result{typ: types.Boolean}
	UnknownInt    = Result{typ: types.Int}
	UnknownFloat  = Result{typ: types.Float}
	UnknownString = Result{typ: types.String}
	UnknownMixed  = Result{typ: types.Mixed}
	Unknown       = Result{typ: types.Unknown}
	EmptyArray    = Result{typ: types.EmptyArray, known: true}
)

// Bool returns the canonical boolean result.
func Bool(v bool) Result {
	if v {
		return True
	}
	return False
}

// Int returns a known integer.
func Int(v int64) Result { return Result{typ: types.Int, known: true, i: v} }

// Float returns a known float.
func Float(v float64) Result { return Result{typ: types.Float, known: true, f: v} }

// String returns a known string.
func String(v string) Result { return Result{typ: types.String, known: true, s: v} }

// Of returns a result of type t whose value is not known.
func Of(t types.TypeID) Result {
	switch t {
	case types.Boolean:
		return UnknownBool
	case types.Int:
		return UnknownInt
	case types.Float:
		return UnknownFloat
	case types.String:
		return UnknownString
	case types.Mixed:
		return UnknownMixed
	case types.Void:
		return Void
	case types.Null:
		return Null
	case types.EmptyArray:
		return EmptyArray
	case types.NoTypeID:
		return Unknown
	}
	return Result{typ: t}
}

// Type returns the static type.
func (r Result) Type() types.TypeID {
	if r.typ == types.NoTypeID {
		return types.Unknown
	}
	return r.typ
}

// Known reports whether the value is statically known.
func (r Result) Known() bool { return r.known }

// IsUnknown reports whether the type is Unknown. Unknown results come from
// earlier errors and are never reported again.
func (r Result) IsUnknown() bool { return r.Type() == types.Unknown }

// BoolValue returns the value of a known boolean.
func (r Result) BoolValue() (v, ok bool) {
	return r.b, r.known && r.typ == types.Boolean
}

// IntValue returns the value of a known integer.
func (r Result) IntValue() (int64, bool) {
	return r.i, r.known && r.typ == types.Int
}

// FloatValue returns the value of a known float.
func (r Result) FloatValue() (float64, bool) {
	return r.f, r.known && r.typ == types.Float
}

// StringValue returns the value of a known string.
func (r Result) StringValue() (string, bool) {
	return r.s, r.known && r.typ == types.String
}

// Forget drops the value, keeping the type.
func (r Result) Forget() Result {
	if r.typ == types.Null || r.typ == types.EmptyArray {
		return r
	}
	return Of(r.typ)
}

// Retype returns the same value seen under another static type.
func (r Result) Retype(t types.TypeID) Result {
	if r.typ == t {
		return r
	}
	return Of(t)
}

// Text renders a known value the way the runtime prints it. Unknown values
// render as "".
func (r Result) Text() string {
	if !r.known {
		return ""
	}
	switch r.typ {
	case types.Null:
		return "NULL"
	case types.Boolean:
		if r.b {
			return "TRUE"
		}
		return "FALSE"
	case types.Int:
		return strconv.FormatInt(r.i, 10)
	case types.Float:
		return formatFloat(r.f)
	case types.String:
		return strconv.Quote(r.s)
	case types.EmptyArray:
		return "array()"
	}
	return ""
}

// literal is the string conversion of a known scalar value, as produced by
// a (string) cast or a concatenation.
func (r Result) literal() (string, bool) {
	if !r.known {
		return "", false
	}
	switch r.typ {
	case types.Null:
		return "", true
	case types.Boolean:
		if r.b {
			return "1", true
		}
		return "", true
	case types.Int:
		return strconv.FormatInt(r.i, 10), true
	case types.Float:
		return formatFloat(r.f), true
	case types.String:
		return r.s, true
	}
	return "", false
}

// truth reports the boolean conversion of a known value.
func (r Result) truth() (v, ok bool) {
	if !r.known {
		return false, false
	}
	switch r.typ {
	case types.Null:
		return false, true
	case types.Boolean:
		return r.b, true
	case types.Int:
		return r.i != 0, true
	case types.Float:
		return r.f != 0, true
	case types.String:
		return r.s != "" && r.s != "0", true
	case types.EmptyArray:
		return false, true
	}
	return false, false
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	case math.IsNaN(f):
		return "NAN"
	}
	s := strconv.FormatFloat(f, 'G', 14, 64)
	// 1E+20 -> 1.0E+20
	if i := strings.IndexByte(s, 'E'); i >= 0 && !strings.Contains(s[:i], ".") {
		s = s[:i] + ".0" + s[i:]
	}
	return s
}
