package parser

import (
	"math"
	"math/big"

	"plint/internal/diag"
	"plint/internal/result"
	"plint/internal/source"
	"plint/internal/symbols"
	"plint/internal/token"
	"plint/internal/types"
)

type opKind uint8

const (
	opValue      opKind = iota // computed value, not assignable
	opVar                      // $name
	opIndex                    // base[key] or base[]
	opProp                     // $obj->name
	opStaticProp               // C::$name
)

// operand is a parsed expression that may still become an assignment
// target. Reading it goes through rvalue, writing through store.
type operand struct {
	kind opKind
	res  result.Result
	loc  source.Location
	name string
	base *operand
	key  result.Result
	push bool
	prop *symbols.Property
}

func valueOf(r result.Result, loc source.Location) operand {
	return operand{kind: opValue, res: r, loc: loc}
}

// parseExpr parses a full expression and returns its value.
func (pk *Package) parseExpr() result.Result {
	return pk.rvalue(pk.binary(precLogicalOr))
}

// binary is a precedence climber over the operator table.
func (pk *Package) binary(min int) operand {
	left := pk.unary()
	for {
		t := pk.peek()
		prec, right := binaryPrec(t.Kind)
		if prec == precNone || prec < min {
			return left
		}
		pk.advance()
		switch t.Kind {
		case token.Question:
			left = pk.ternary(left, t)
			continue
		case token.Coalesce:
			l := pk.quiet(left)
			r := pk.rvalue(pk.binary(prec))
			left = valueOf(pk.merge(l, r, t.Loc), left.loc)
			continue
		case token.KwInstanceof:
			pk.rvalue(left)
			pk.instanceofTarget()
			left = valueOf(result.UnknownBool, left.loc)
			continue
		}
		l := pk.rvalue(left)
		next := prec + 1
		if right {
			next = prec
		}
		r := pk.rvalue(pk.binary(next))
		left = valueOf(pk.p.ev.Binary(t.Kind, l, r, t.Loc), left.loc)
	}
}

// ternary parses the rest of "cond ? a : b" and "cond ?: b".
func (pk *Package) ternary(cond operand, q token.Token) operand {
	if pk.accept(token.Colon) {
		l := pk.rvalue(cond)
		r := pk.rvalue(pk.binary(precTernary + 1))
		return valueOf(pk.merge(l, r, q.Loc), cond.loc)
	}
	c := pk.condition(pk.rvalue(cond), q.Loc, "?:")
	a := pk.parseExpr()
	pk.expect(token.Colon, "':'")
	b := pk.rvalue(pk.binary(precTernary + 1))
	if v, ok := c.BoolValue(); ok {
		if v {
			return valueOf(a, cond.loc)
		}
		return valueOf(b, cond.loc)
	}
	return valueOf(pk.merge(a, b, q.Loc), cond.loc)
}

// merge is the type of a value that may come from either branch.
func (pk *Package) merge(a, b result.Result, loc source.Location) result.Result {
	ta, tb := a.Type(), b.Type()
	switch {
	case ta == tb:
		return a.Forget()
	case a.IsUnknown():
		return b.Forget()
	case b.IsUnknown():
		return a.Forget()
	case pk.ctx.Types.Assignable(ta, tb, pk.ctx.Classes):
		return result.Of(tb)
	case pk.ctx.Types.Assignable(tb, ta, pk.ctx.Classes):
		return result.Of(ta)
	}
	pk.errorf(diag.SemaTypeMismatch, loc, "branches have incompatible types %s and %s",
		pk.ctx.FormatType(ta), pk.ctx.FormatType(tb))
	return result.Unknown
}

// condition checks that r can drive a branch.
func (pk *Package) condition(r result.Result, loc source.Location, what string) result.Result {
	if !r.IsUnknown() && r.Type() != types.Boolean {
		pk.errorf(diag.SemaTypeMismatch, loc, "%s condition must be boolean, found %s", what, pk.p.ev.TypeName(r))
	}
	return r
}

func (pk *Package) instanceofTarget() {
	t := pk.peek()
	switch t.Kind {
	case token.Ident, token.Name, token.KwStatic:
		pk.advance()
		pk.lookupClass(t.Text, t.Loc)
	case token.Variable:
		pk.rvalue(pk.primary())
	default:
		pk.errorf(diag.SynExpectIdentifier, t.Loc, "expected class name after instanceof, found %s", describe(t))
	}
}

var minInt64Magnitude = new(big.Int).Neg(big.NewInt(math.MinInt64))

// unary parses prefix operators, casts, new, clone, print and formal casts.
func (pk *Package) unary() operand {
	t := pk.peek()
	switch {
	case t.Kind == token.Bang:
		pk.advance()
		x := pk.rvalue(pk.binary(precInstanceof))
		return valueOf(pk.p.ev.Unary(token.Bang, x, t.Loc), t.Loc)
	case t.Kind == token.Minus || t.Kind == token.Plus || t.Kind == token.Tilde:
		pk.advance()
		if lit := pk.peek(); t.Kind == token.Minus && lit.Kind == token.IntLit && lit.Int != nil && lit.Int.Cmp(minInt64Magnitude) == 0 {
			pk.advance()
			return valueOf(result.Int(math.MinInt64), t.Loc)
		}
		x := pk.rvalue(pk.binary(precUnary))
		return valueOf(pk.p.ev.Unary(t.Kind, x, t.Loc), t.Loc)
	case t.Kind == token.At:
		pk.advance()
		pk.silence++
		r := pk.rvalue(pk.binary(precUnary))
		pk.silence--
		return valueOf(r, t.Loc)
	case t.Kind.IsCast():
		pk.advance()
		x := pk.rvalue(pk.binary(precUnary))
		return valueOf(pk.p.ev.ValueCast(t.Kind, x, pk.stdClass(), t.Loc), t.Loc)
	case t.Kind == token.PlusPlus || t.Kind == token.MinusMinus:
		pk.advance()
		return pk.increment(pk.postfix(pk.primary()), t)
	case t.Kind == token.KwNew:
		return pk.postfix(pk.newExpression())
	case t.Kind == token.KwClone:
		pk.advance()
		x := pk.rvalue(pk.binary(precUnary))
		if !x.IsUnknown() && !pk.ctx.Types.IsClass(x.Type()) {
			pk.errorf(diag.SemaBadOperand, t.Loc, "clone requires an object, found %s", pk.p.ev.TypeName(x))
			return valueOf(result.Unknown, t.Loc)
		}
		pk.effects++
		return valueOf(x.Forget(), t.Loc)
	case t.Kind == token.KwPrint:
		pk.advance()
		x := pk.rvalue(pk.binary(precAssignment))
		pk.stringify(x, t.Loc)
		pk.effects++
		return valueOf(result.Int(1), t.Loc)
	case t.Kind == token.AnnotationOpen:
		return pk.formalCast()
	}
	return pk.postfix(pk.primary())
}

// increment applies ++ or -- to an lvalue.
func (pk *Package) increment(x operand, op token.Token) operand {
	if x.kind == opValue {
		pk.errorf(diag.SynInvalidAssignment, op.Loc, "operator %s requires a variable", op.Kind)
		return valueOf(result.Unknown, op.Loc)
	}
	pk.effects++
	v := pk.rvalue(x)
	if !v.IsUnknown() && !types.IsNumeric(v.Type()) {
		pk.errorf(diag.SemaBadOperand, op.Loc, "operator %s cannot be applied to %s", op.Kind, pk.p.ev.TypeName(v))
		return valueOf(result.Unknown, op.Loc)
	}
	pk.store(x, v.Forget(), op.Loc)
	return valueOf(v.Forget(), op.Loc)
}

// postfix parses indexing, member access, calls and assignments after a
// primary expression.
func (pk *Package) postfix(x operand) operand {
	for {
		t := pk.peek()
		switch {
		case t.Kind == token.LBracket:
			pk.advance()
			base := x
			if pk.accept(token.RBracket) {
				x = operand{kind: opIndex, base: &base, push: true, loc: t.Loc}
				continue
			}
			k := pk.parseExpr()
			pk.expect(token.RBracket, "']'")
			x = operand{kind: opIndex, base: &base, key: k, loc: t.Loc}
		case t.Kind == token.Arrow:
			pk.advance()
			x = pk.dereference(x, t)
		case t.Kind == token.ColonColon && x.kind != opValue:
			pk.advance()
			pk.errorf(diag.SemaNotCallable, t.Loc, "dynamic class access is not supported")
			pk.rvalue(x)
			if pk.peek().IsNameLike() || pk.at(token.Variable) {
				pk.advance()
			}
			x = valueOf(result.Unknown, t.Loc)
		case t.Kind == token.PlusPlus || t.Kind == token.MinusMinus:
			pk.advance()
			return pk.increment(x, t)
		case t.Kind == token.LParen:
			pk.errorf(diag.SemaNotCallable, t.Loc, "dynamic calls cannot be checked")
			pk.rvalue(x)
			pk.arguments(nil, "", t.Loc)
			pk.effects++
			x = valueOf(result.Unknown, t.Loc)
		case t.Kind.IsAssign():
			pk.advance()
			return pk.assignment(x, t)
		default:
			return x
		}
	}
}

// assignment parses the right side of =, op= or ??= and stores it.
func (pk *Package) assignment(target operand, op token.Token) operand {
	if target.kind == opValue {
		pk.errorf(diag.SynInvalidAssignment, op.Loc, "cannot assign to this expression")
		pk.rvalue(pk.binary(precAssignment))
		return valueOf(result.Unknown, op.Loc)
	}
	pk.effects++
	switch op.Kind {
	case token.Assign:
		pk.accept(token.Amp)
		v := pk.rvalue(pk.binary(precAssignment))
		pk.store(target, v, op.Loc)
		return valueOf(v, target.loc)
	case token.CoalesceAssign:
		cur := pk.quiet(target)
		v := pk.rvalue(pk.binary(precAssignment))
		if !cur.IsUnknown() {
			v = pk.merge(cur, v, op.Loc)
		}
		pk.store(target, v, op.Loc)
		return valueOf(v, target.loc)
	}
	bin, _ := result.CompoundOperator(op.Kind)
	cur := pk.rvalue(target)
	v := pk.rvalue(pk.binary(precAssignment))
	r := pk.p.ev.Binary(bin, cur, v, op.Loc)
	pk.store(target, r, op.Loc)
	return valueOf(r, target.loc)
}

// rvalue reads an operand. Reading an undefined variable is an error; the
// variable is then declared with the Unknown type so it is reported once.
func (pk *Package) rvalue(x operand) result.Result {
	switch x.kind {
	case opVar:
		id, ok := pk.ctx.Vars.Lookup(x.name)
		if !ok {
			pk.errorf(diag.SemaUndefinedVariable, x.loc, "undefined variable $%s", x.name)
			v := pk.ctx.Vars.Get(pk.ctx.Vars.Declare(x.name, x.loc, pk.sym.ID, types.Unknown))
			v.Assigned, v.Used = true, true
			return result.Unknown
		}
		v := pk.ctx.Vars.Get(id)
		v.Used = true
		return result.Of(v.Type)
	case opIndex:
		if x.push {
			pk.errorf(diag.SemaBadOperand, x.loc, "cannot read from []")
			pk.rvalue(*x.base)
			return result.Unknown
		}
		return pk.indexValue(pk.rvalue(*x.base), x.key, x.loc)
	case opProp, opStaticProp:
		if x.prop == nil {
			return result.Unknown
		}
		return result.Of(x.prop.Type)
	default:
		return x.res
	}
}

// quiet reads an operand the way isset, empty and ?? do: an undefined
// variable is not an error.
func (pk *Package) quiet(x operand) result.Result {
	switch x.kind {
	case opVar:
		id, ok := pk.ctx.Vars.Lookup(x.name)
		if !ok {
			return result.Unknown
		}
		v := pk.ctx.Vars.Get(id)
		v.Used = true
		return result.Of(v.Type)
	case opIndex:
		if x.push {
			return pk.rvalue(x)
		}
		return pk.indexValue(pk.quiet(*x.base), x.key, x.loc)
	default:
		return pk.rvalue(x)
	}
}

// indexValue is the value of base[key].
func (pk *Package) indexValue(base, key result.Result, loc source.Location) result.Result {
	t := base.Type()
	switch {
	case base.IsUnknown():
		return result.Unknown
	case pk.ctx.Types.IsArray(t):
		pk.checkKey(key, pk.ctx.Types.ArrayKey(t), loc)
		return result.Of(pk.ctx.Types.ArrayValue(t))
	case t == types.String:
		if !key.IsUnknown() && key.Type() != types.Int {
			pk.errorf(diag.SemaTypeMismatch, loc, "string offset must be int, found %s", pk.p.ev.TypeName(key))
		}
		return result.UnknownString
	default:
		pk.errorf(diag.SemaBadOperand, loc, "cannot index a value of type %s", pk.p.ev.TypeName(base))
		return result.Unknown
	}
}

// checkKey reports an index whose type does not fit the key type of an
// array.
func (pk *Package) checkKey(key result.Result, want types.TypeID, loc source.Location) {
	kt := key.Type()
	switch {
	case key.IsUnknown():
	case !types.IsValidKey(kt):
		pk.errorf(diag.SemaTypeMismatch, loc, "invalid array index of type %s, expected int or string", pk.p.ev.TypeName(key))
	case want == types.Unknown || want == types.Mixed || kt == types.Mixed:
	case kt != want:
		pk.errorf(diag.SemaTypeMismatch, loc, "array index of type %s, expected %s", pk.p.ev.TypeName(key), pk.ctx.FormatType(want))
	}
}

// store assigns v to an lvalue.
func (pk *Package) store(x operand, v result.Result, loc source.Location) {
	if v.Type() == types.Void {
		pk.errorf(diag.SemaTypeMismatch, loc, "cannot assign a void value")
		v = result.Unknown
	}
	switch x.kind {
	case opVar:
		if x.name == "this" {
			pk.errorf(diag.SynInvalidAssignment, x.loc, "cannot assign to $this")
			return
		}
		id, ok := pk.ctx.Vars.Lookup(x.name)
		if !ok {
			nv := pk.ctx.Vars.Get(pk.ctx.Vars.Declare(x.name, x.loc, pk.sym.ID, pk.valueType(v)))
			nv.Assigned = true
			return
		}
		cur := pk.ctx.Vars.Get(id)
		if cur.Type == types.Unknown && !v.IsUnknown() && v.Type() != types.Null {
			cur.Type = pk.valueType(v)
		} else {
			pk.checkStore(v, cur.Type, loc, "$"+x.name)
		}
		cur.Assigned = true
	case opIndex:
		pk.storeIndex(x, v, loc)
	case opProp, opStaticProp:
		if x.prop != nil {
			pk.checkStore(v, x.prop.Type, loc, "property $"+x.prop.Name)
		}
	default:
		pk.errorf(diag.SynInvalidAssignment, loc, "cannot assign to this expression")
	}
}

func (pk *Package) checkStore(v result.Result, to types.TypeID, loc source.Location, what string) {
	if !pk.assignable(v, to) {
		pk.errorf(diag.SemaTypeMismatch, loc, "cannot assign %s to %s of type %s",
			pk.p.ev.TypeName(v), what, pk.ctx.FormatType(to))
	}
}

// storeIndex assigns to base[key] or base[]. An undefined or untyped base
// becomes an array; an array with open components is refined.
func (pk *Package) storeIndex(x operand, v result.Result, loc source.Location) {
	keyT := types.Int
	if !x.push {
		keyT = x.key.Type()
		if !types.IsValidKey(keyT) && !x.key.IsUnknown() {
			pk.errorf(diag.SemaTypeMismatch, x.loc, "invalid array index of type %s, expected int or string", pk.p.ev.TypeName(x.key))
			keyT = types.Unknown
		}
	}
	elem := pk.valueType(v)
	base := *x.base
	cur := pk.currentType(base)

	switch {
	case cur == types.NoTypeID || cur == types.Unknown:
		pk.store(base, result.Of(pk.ctx.Types.Array(keyT, elem)), loc)
	case cur == types.EmptyArray:
		pk.store(base, result.Of(pk.ctx.Types.Array(keyT, elem)), loc)
	case pk.ctx.Types.IsArray(cur):
		k, val := pk.ctx.Types.ArrayKey(cur), pk.ctx.Types.ArrayValue(cur)
		if !x.push {
			pk.checkKey(x.key, k, x.loc)
		} else if k == types.String {
			pk.errorf(diag.SemaTypeMismatch, x.loc, "[] appends an int key to an array with string keys")
		}
		if val != types.Unknown && !pk.assignable(v, val) {
			pk.errorf(diag.SemaTypeMismatch, loc, "cannot store %s in an array of %s", pk.p.ev.TypeName(v), pk.ctx.FormatType(val))
		}
		if (k == types.Unknown || val == types.Unknown) && base.kind == opVar {
			if k == types.Unknown {
				k = keyT
			}
			if val == types.Unknown {
				val = elem
			}
			pk.setVarType(base.name, pk.ctx.Types.Array(k, val))
		}
		pk.markAssigned(base)
	case cur == types.String:
		if !x.push && !x.key.IsUnknown() && x.key.Type() != types.Int {
			pk.errorf(diag.SemaTypeMismatch, x.loc, "string offset must be int, found %s", pk.p.ev.TypeName(x.key))
		}
		if !v.IsUnknown() && v.Type() != types.String {
			pk.errorf(diag.SemaTypeMismatch, loc, "cannot store %s in a string offset", pk.p.ev.TypeName(v))
		}
		pk.markAssigned(base)
	default:
		pk.errorf(diag.SemaBadOperand, x.loc, "cannot index a value of type %s", pk.ctx.FormatType(cur))
	}
}

// currentType is the static type of an lvalue without reading it;
// NoTypeID for a variable not declared yet.
func (pk *Package) currentType(x operand) types.TypeID {
	switch x.kind {
	case opVar:
		id, ok := pk.ctx.Vars.Lookup(x.name)
		if !ok {
			return types.NoTypeID
		}
		return pk.ctx.Vars.Get(id).Type
	case opIndex:
		bt := pk.currentType(*x.base)
		if bt == types.NoTypeID {
			return types.NoTypeID
		}
		if pk.ctx.Types.IsArray(bt) {
			return pk.ctx.Types.ArrayValue(bt)
		}
		return types.Unknown
	case opProp, opStaticProp:
		if x.prop == nil {
			return types.Unknown
		}
		return x.prop.Type
	default:
		return x.res.Type()
	}
}

func (pk *Package) setVarType(name string, t types.TypeID) {
	if id, ok := pk.ctx.Vars.Lookup(name); ok {
		v := pk.ctx.Vars.Get(id)
		v.Type, v.Assigned = t, true
	}
}

func (pk *Package) markAssigned(x operand) {
	for x.kind == opIndex {
		x = *x.base
	}
	if x.kind != opVar {
		return
	}
	if id, ok := pk.ctx.Vars.Lookup(x.name); ok {
		pk.ctx.Vars.Get(id).Assigned = true
	}
}

// stringify checks that r converts to a string, as echo and print do.
func (pk *Package) stringify(r result.Result, loc source.Location) result.Result {
	return pk.p.ev.Binary(token.Dot, result.String(""), r, loc)
}

// stdClass is the class produced by an (object) cast.
func (pk *Package) stdClass() types.ClassID {
	if c, ok := pk.ctx.Classes.Lookup(stdClassName); ok {
		return c.ID
	}
	return types.NoClassID
}
