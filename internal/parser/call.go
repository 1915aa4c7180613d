package parser

import (
	"plint/internal/diag"
	"plint/internal/result"
	"plint/internal/source"
	"plint/internal/symbols"
	"plint/internal/throws"
	"plint/internal/token"
	"plint/internal/types"
)

// call checks the arguments of a call to sig and returns its result.
func (pk *Package) call(sig *symbols.Signature, loc source.Location, what string) result.Result {
	pk.arguments(sig, what, loc)
	pk.callEffects(sig, loc)
	if sig.Return == types.NoTypeID {
		// return type of a function still being inferred
		return result.Unknown
	}
	return result.Of(sig.Return)
}

// arguments parses "(a, b, ...)" and checks it against sig. A nil sig
// parses the arguments without checking them, and so does a spread
// argument for itself and everything after it.
func (pk *Package) arguments(sig *symbols.Signature, what string, loc source.Location) {
	if _, ok := pk.expect(token.LParen, "'('"); !ok {
		return
	}
	n, spread := 0, false
	for !pk.atAny(token.RParen, token.EOF) {
		if pk.accept(token.Ellipsis) {
			spread = true
		}
		x := pk.binary(precLogicalOr)
		var formal *symbols.FormalArgument
		if sig != nil && !spread {
			formal = sig.Arg(n)
		}
		// after "..." the positions of the formals are unknown
		pk.argument(x, formal, n, what)
		n++
		if !pk.accept(token.Comma) {
			break
		}
	}
	end, _ := pk.expect(token.RParen, "')'")
	if sig == nil || spread {
		return
	}
	switch {
	case n < sig.Mandatory:
		pk.errorf(diag.SemaArgumentCount, loc, "too few arguments to %s: %d given, %d required", what, n, sig.Mandatory)
	case n > len(sig.Args) && !sig.Variadic:
		pk.errorf(diag.SemaArgumentCount, end.Loc, "too many arguments to %s: %d given, at most %d accepted", what, n, len(sig.Args))
	}
}

// argument checks one actual argument against its formal, if any.
func (pk *Package) argument(x operand, formal *symbols.FormalArgument, i int, what string) {
	if formal == nil {
		pk.rvalue(x)
		return
	}
	if formal.ByRef {
		if x.kind == opValue {
			pk.errorf(diag.SemaByRefArgument, x.loc, "argument %d of %s is passed by reference and must be a variable", i+1, what)
			return
		}
		if formal.RefAssigned {
			pk.store(x, result.Of(formal.Type), x.loc)
			pk.markUsed(x)
			return
		}
	}
	v := pk.rvalue(x)
	if !pk.assignable(v, formal.Type) {
		pk.errorf(diag.SemaArgumentType, x.loc, "argument %d ($%s) of %s: found %s, expected %s",
			i+1, formal.Name, what, pk.p.ev.TypeName(v), pk.ctx.FormatType(formal.Type))
	}
	if formal.ByRef {
		pk.markAssigned(x)
	}
}

// markUsed marks the variable under an lvalue as read.
func (pk *Package) markUsed(x operand) {
	for x.kind == opIndex {
		x = *x.base
	}
	if x.kind != opVar {
		return
	}
	if id, ok := pk.ctx.Vars.Lookup(x.name); ok {
		pk.ctx.Vars.Get(id).Used = true
	}
}

// callEffects propagates what the callee may throw and trigger.
func (pk *Package) callEffects(sig *symbols.Signature, loc source.Location) {
	pk.effects++
	for _, e := range sig.Exceptions.Members() {
		pk.thrown(e, loc)
	}
	for _, k := range sig.Errors.Kinds() {
		pk.triggered(k, loc)
	}
}

// userErrorKinds are the levels trigger_error accepts.
var userErrorKinds = map[throws.ErrorKind]bool{
	throws.EUserError:      true,
	throws.EUserWarning:    true,
	throws.EUserNotice:     true,
	throws.EUserDeprecated: true,
}

// triggerCall handles trigger_error(msg [, level]). The level must be a
// constant user level; the default is E_USER_NOTICE.
func (pk *Package) triggerCall(t token.Token) result.Result {
	pk.expect(token.LParen, "'('")
	msgLoc := pk.peek().Loc
	msg := pk.rvalue(pk.binary(precAssignment))
	if !msg.IsUnknown() && msg.Type() != types.String {
		pk.errorf(diag.SemaArgumentType, msgLoc, "trigger_error() message must be a string, found %s", pk.p.ev.TypeName(msg))
	}
	kind, known := throws.EUserNotice, true
	if pk.accept(token.Comma) {
		levelLoc := pk.peek().Loc
		level := pk.rvalue(pk.binary(precAssignment))
		v, ok := level.IntValue()
		k, valid := throws.ErrorKindOf(v)
		switch {
		case !ok:
			known = false
			if !level.IsUnknown() {
				pk.errorf(diag.SemaArgumentType, levelLoc, "trigger_error() level must be a constant int")
			}
		case !valid || !userErrorKinds[k]:
			known = false
			pk.errorf(diag.SemaArgumentType, levelLoc, "invalid trigger_error() level %d, expected one of E_USER_*", v)
		default:
			kind = k
		}
	}
	pk.expect(token.RParen, "')'")
	pk.effects++
	if known {
		pk.triggered(kind, t.Loc)
	}
	return result.UnknownBool
}
