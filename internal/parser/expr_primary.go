package parser

import (
	"path/filepath"
	"strings"

	"plint/internal/diag"
	"plint/internal/names"
	"plint/internal/result"
	"plint/internal/symbols"
	"plint/internal/token"
	"plint/internal/types"
)

var stdClassName = names.New("", "stdClass", false)

// primary parses an operand: variables, literals, names, parenthesized
// expressions and the expression-like keywords.
func (pk *Package) primary() operand {
	t := pk.peek()
	switch t.Kind {
	case token.Variable:
		pk.advance()
		return pk.variable(t)
	case token.IntLit:
		pk.advance()
		return valueOf(pk.p.ev.IntLiteral(t.Int, t.Loc), t.Loc)
	case token.FloatLit:
		pk.advance()
		return valueOf(result.Float(t.Float), t.Loc)
	case token.StringLit:
		pk.advance()
		return valueOf(result.String(t.Text), t.Loc)
	case token.DQStart, token.HeredocStart:
		return pk.interpolated()
	case token.KwTrue:
		pk.advance()
		return valueOf(result.True, t.Loc)
	case token.KwFalse:
		pk.advance()
		return valueOf(result.False, t.Loc)
	case token.KwNull:
		pk.advance()
		return valueOf(result.Null, t.Loc)
	case token.KwArray:
		pk.advance()
		if _, ok := pk.expect(token.LParen, "'(' after array"); !ok {
			return valueOf(result.Unknown, t.Loc)
		}
		return pk.arrayLiteral(t, token.RParen)
	case token.LBracket:
		pk.advance()
		return pk.arrayLiteral(t, token.RBracket)
	case token.LParen:
		pk.advance()
		r := pk.parseExpr()
		pk.expect(token.RParen, "')'")
		return valueOf(r, t.Loc)
	case token.KwIsset:
		return pk.isset()
	case token.KwEmpty:
		pk.advance()
		pk.expect(token.LParen, "'('")
		pk.quiet(pk.binary(precLogicalOr))
		pk.expect(token.RParen, "')'")
		return valueOf(result.UnknownBool, t.Loc)
	case token.KwExit:
		pk.advance()
		if pk.accept(token.LParen) {
			if !pk.at(token.RParen) {
				pk.parseExpr()
			}
			pk.expect(token.RParen, "')'")
		}
		pk.effects++
		return valueOf(result.Unknown, t.Loc)
	case token.KwList:
		pk.unsupported(t, "list()")
	case token.KwFunction, token.KwFn:
		pk.unsupported(t, "anonymous function")
	case token.KwMatch:
		pk.unsupported(t, "match")
	case token.KwYield:
		pk.unsupported(t, "yield")
	case token.KwInclude, token.KwIncludeOnce, token.KwRequire, token.KwRequireOnce:
		return pk.includeExpr()
	case token.KwStatic:
		if pk.peek2().Kind == token.ColonColon {
			return pk.staticAccess()
		}
	case token.Ident, token.Name:
		switch pk.peek2().Kind {
		case token.ColonColon:
			return pk.staticAccess()
		case token.LParen:
			pk.advance()
			return pk.functionCall(t)
		}
		pk.advance()
		return pk.constant(t)
	case token.MagicLine, token.MagicFile, token.MagicDir, token.MagicFunction,
		token.MagicClass, token.MagicMethod, token.MagicNamespace:
		pk.advance()
		return valueOf(pk.magic(t), t.Loc)
	}
	pk.errorf(diag.SynExpectExpression, t.Loc, "expected expression, found %s", describe(t))
	return valueOf(result.Unknown, t.Loc)
}

// variable turns a consumed $name into an operand. $this is valid in
// instance methods only.
func (pk *Package) variable(t token.Token) operand {
	if t.Text == "this" && (pk.fn == nil || pk.fn.method == nil || pk.fn.method.Static) {
		pk.errorf(diag.SemaThisOutsideMethod, t.Loc, "$this used outside of an instance method")
		return valueOf(result.Unknown, t.Loc)
	}
	return operand{kind: opVar, name: t.Text, loc: t.Loc}
}

// interpolated folds a "..." or heredoc string with embedded variables.
func (pk *Package) interpolated() operand {
	open := pk.advance()
	end := token.DQEnd
	if open.Kind == token.HeredocStart {
		end = token.HeredocEnd
	}
	acc := result.String("")
	for !pk.atAny(end, token.EOF) {
		t := pk.peek()
		var part result.Result
		switch t.Kind {
		case token.StringPart:
			pk.advance()
			part = result.String(t.Text)
		case token.Variable:
			part = pk.rvalue(pk.embedded())
		default:
			pk.errorf(diag.SynUnexpectedToken, t.Loc, "unexpected %s in string", describe(t))
			pk.advance()
			continue
		}
		acc = pk.p.ev.Binary(token.Dot, acc, part, t.Loc)
	}
	pk.expect(end, "end of string")
	return valueOf(acc, open.Loc)
}

// embedded parses $v, $v[key] or $v->prop inside a string.
func (pk *Package) embedded() operand {
	x := pk.variable(pk.advance())
	switch {
	case pk.at(token.LBracket):
		open := pk.advance()
		var key result.Result
		switch k := pk.advance(); k.Kind {
		case token.Variable:
			key = pk.rvalue(pk.variable(k))
		case token.IntLit:
			key = pk.p.ev.IntLiteral(k.Int, k.Loc)
		case token.StringLit:
			key = result.String(k.Text)
		default:
			pk.errorf(diag.SynUnexpectedToken, k.Loc, "unexpected %s in string index", describe(k))
			key = result.Unknown
		}
		pk.expect(token.RBracket, "']'")
		base := x
		return operand{kind: opIndex, base: &base, key: key, loc: open.Loc}
	case pk.at(token.Arrow) && pk.peek2().Kind == token.Ident:
		return pk.dereference(x, pk.advance())
	}
	return x
}

// arrayLiteral parses the elements of array(...) or [...]; the opening
// token is consumed already. Mixed component types widen to mixed.
func (pk *Package) arrayLiteral(open token.Token, end token.Kind) operand {
	key, value := types.NoTypeID, types.NoTypeID
	for !pk.atAny(end, token.EOF) {
		pk.accept(token.Amp)
		loc := pk.peek().Loc
		v := pk.parseExpr()
		kt := types.Int
		if pk.accept(token.FatArrow) {
			kt = v.Type()
			switch {
			case v.IsUnknown():
				kt = types.Unknown
			case !types.IsValidKey(kt):
				pk.errorf(diag.SemaTypeMismatch, loc, "invalid array key of type %s, expected int or string", pk.p.ev.TypeName(v))
				kt = types.Unknown
			}
			pk.accept(token.Amp)
			v = pk.parseExpr()
		}
		key = pk.mergeComponent(key, kt)
		value = pk.mergeComponent(value, pk.valueType(v))
		if !pk.accept(token.Comma) {
			break
		}
	}
	pk.expect(end, "end of array")
	if key == types.NoTypeID {
		return valueOf(result.EmptyArray, open.Loc)
	}
	return valueOf(result.Of(pk.ctx.Types.Array(key, value)), open.Loc)
}

func (pk *Package) mergeComponent(cur, t types.TypeID) types.TypeID {
	switch {
	case cur == types.NoTypeID || cur == types.Unknown:
		return t
	case t == types.Unknown || t == cur:
		return cur
	case pk.ctx.Types.Assignable(t, cur, pk.ctx.Classes):
		return cur
	case pk.ctx.Types.Assignable(cur, t, pk.ctx.Classes):
		return t
	default:
		return types.Mixed
	}
}

// isset parses isset($a, $b[k], ...). Undefined operands are not errors.
func (pk *Package) isset() operand {
	kw := pk.advance()
	pk.expect(token.LParen, "'('")
	for !pk.atAny(token.RParen, token.EOF) {
		x := pk.binary(precLogicalOr)
		if x.kind == opValue {
			pk.errorf(diag.SemaBadOperand, x.loc, "isset() requires variables")
		}
		pk.quiet(x)
		if !pk.accept(token.Comma) {
			break
		}
	}
	pk.expect(token.RParen, "')'")
	return valueOf(result.UnknownBool, kw.Loc)
}

// constant resolves a bare name used as a value.
func (pk *Package) constant(t token.Token) operand {
	c, fqn := pk.ctx.SearchConstant(pk.res, t.Text, t.Loc)
	if c == nil {
		pk.errorf(diag.SemaUnresolvedConstant, t.Loc, "unknown constant %s", fqn.Absolute())
		return valueOf(result.Unknown, t.Loc)
	}
	pk.ctx.AccessConstant(c, pk.sym.ID, t.Loc)
	return valueOf(c.Value, t.Loc)
}

func (pk *Package) magic(t token.Token) result.Result {
	switch t.Kind {
	case token.MagicLine:
		return result.Int(int64(t.Loc.Line))
	case token.MagicFile:
		return result.String(pk.sym.Path)
	case token.MagicDir:
		return result.String(filepath.Dir(pk.sym.Path))
	case token.MagicFunction:
		if pk.fn == nil {
			return result.String("")
		}
		return result.String(pk.fn.name)
	case token.MagicClass:
		if pk.class == nil {
			return result.String("")
		}
		return result.String(pk.class.Name.String())
	case token.MagicMethod:
		switch {
		case pk.fn == nil:
			return result.String("")
		case pk.class == nil:
			return result.String(pk.fn.name)
		default:
			return result.String(pk.class.Name.String() + "::" + pk.fn.name)
		}
	default:
		return result.String(pk.res.Namespace())
	}
}

// staticAccess parses C::$prop, C::CONST, C::method() and C::class.
func (pk *Package) staticAccess() operand {
	t := pk.advance()
	pk.advance()
	c := pk.lookupClass(t.Text, t.Loc)
	n := pk.peek()
	switch {
	case n.Kind == token.Variable:
		pk.advance()
		x := operand{kind: opStaticProp, loc: n.Loc}
		if c == nil {
			return x
		}
		p, ok := pk.ctx.Classes.FindProp(c.ID, n.Text)
		if !ok || !p.Static {
			pk.errorf(diag.SemaUnresolvedMember, n.Loc, "unknown static property %s::$%s", c.Name.Absolute(), n.Text)
			return x
		}
		pk.ctx.AccessMember("property", &p.Member, pk.scopeClass(), pk.sym.ID, n.Loc)
		x.prop = p
		return x
	case n.Kind == token.KwClass:
		pk.advance()
		if c == nil {
			return valueOf(result.UnknownString, n.Loc)
		}
		return valueOf(result.String(c.Name.String()), n.Loc)
	case n.IsNameLike():
		pk.advance()
		if pk.at(token.LParen) {
			return valueOf(pk.staticCall(c, n), n.Loc)
		}
		if c == nil {
			return valueOf(result.Unknown, n.Loc)
		}
		k, ok := pk.ctx.Classes.FindConst(c.ID, n.Text)
		if !ok {
			pk.errorf(diag.SemaUnresolvedMember, n.Loc, "unknown class constant %s::%s", c.Name.Absolute(), n.Text)
			return valueOf(result.Unknown, n.Loc)
		}
		pk.ctx.AccessMember("constant", &k.Member, pk.scopeClass(), pk.sym.ID, n.Loc)
		return valueOf(k.Value, n.Loc)
	}
	pk.errorf(diag.SynExpectIdentifier, n.Loc, "expected member name after '::', found %s", describe(n))
	return valueOf(result.Unknown, n.Loc)
}

// staticCall checks C::m(...). An instance method may be called this way
// only from an instance method of C or of a subclass, as in parent::m().
func (pk *Package) staticCall(c *symbols.Class, n token.Token) result.Result {
	if c == nil {
		pk.arguments(nil, "", n.Loc)
		pk.effects++
		return result.Unknown
	}
	m, ok := pk.ctx.Classes.FindMethod(c.ID, n.Text)
	if !ok {
		pk.errorf(diag.SemaUnresolvedMember, n.Loc, "unknown method %s::%s", c.Name.Absolute(), n.Text)
		pk.arguments(nil, "", n.Loc)
		pk.effects++
		return result.Unknown
	}
	if !m.Static {
		inInstance := pk.fn != nil && pk.fn.method != nil && !pk.fn.method.Static &&
			pk.class != nil && pk.ctx.Classes.IsSubclassOf(pk.class.ID, c.ID)
		if !inInstance {
			pk.errorf(diag.SemaNotCallable, n.Loc, "non-static method %s::%s cannot be called statically",
				pk.ctx.Classes.ClassName(m.Class), m.Name)
		}
	}
	pk.ctx.AccessMember("method", &m.Member, pk.scopeClass(), pk.sym.ID, n.Loc)
	return pk.call(m.Sig, n.Loc, "method "+pk.ctx.Classes.ClassName(m.Class)+"::"+m.Name)
}

// dereference parses what follows "->": a property or a method call.
func (pk *Package) dereference(x operand, arrow token.Token) operand {
	obj := pk.rvalue(x)
	n, ok := pk.name("property or method name", true)
	if !ok {
		return valueOf(result.Unknown, arrow.Loc)
	}
	var c *symbols.Class
	if !obj.IsUnknown() {
		if id, isClass := pk.ctx.Types.ClassOf(obj.Type()); isClass {
			c = pk.ctx.Classes.Get(id)
		} else {
			pk.errorf(diag.SemaBadOperand, arrow.Loc, "'->' applied to a value of type %s", pk.p.ev.TypeName(obj))
		}
	}

	if pk.at(token.LParen) {
		if c == nil {
			pk.arguments(nil, "", n.Loc)
			pk.effects++
			return valueOf(result.Unknown, n.Loc)
		}
		m, found := pk.ctx.Classes.FindMethod(c.ID, n.Text)
		if !found {
			pk.errorf(diag.SemaUnresolvedMember, n.Loc, "unknown method %s::%s", c.Name.Absolute(), n.Text)
			pk.arguments(nil, "", n.Loc)
			pk.effects++
			return valueOf(result.Unknown, n.Loc)
		}
		pk.ctx.AccessMember("method", &m.Member, pk.scopeClass(), pk.sym.ID, n.Loc)
		return valueOf(pk.call(m.Sig, n.Loc, "method "+pk.ctx.Classes.ClassName(m.Class)+"::"+m.Name), n.Loc)
	}

	prop := operand{kind: opProp, loc: n.Loc}
	if c == nil {
		return prop
	}
	p, found := pk.ctx.Classes.FindProp(c.ID, n.Text)
	if !found || p.Static {
		pk.errorf(diag.SemaUnresolvedMember, n.Loc, "unknown property %s::$%s", c.Name.Absolute(), n.Text)
		return prop
	}
	pk.ctx.AccessMember("property", &p.Member, pk.scopeClass(), pk.sym.ID, n.Loc)
	prop.prop = p
	return prop
}

// newExpression parses "new C(...)".
func (pk *Package) newExpression() operand {
	kw := pk.advance()
	pk.effects++
	t := pk.peek()
	var c *symbols.Class
	switch t.Kind {
	case token.Ident, token.Name, token.KwStatic:
		pk.advance()
		c = pk.lookupClass(t.Text, t.Loc)
	case token.KwClass:
		pk.unsupported(t, "anonymous class")
	case token.Variable:
		pk.errorf(diag.SemaNotCallable, t.Loc, "dynamic class names cannot be checked")
		pk.rvalue(pk.variable(pk.advance()))
	default:
		pk.errorf(diag.SynExpectIdentifier, t.Loc, "expected class name after new, found %s", describe(t))
	}
	if c == nil {
		if pk.at(token.LParen) {
			pk.arguments(nil, "", kw.Loc)
		}
		return valueOf(result.Unknown, kw.Loc)
	}
	if c.IsAbstract() {
		pk.errorf(diag.SemaAbstractInstantiation, t.Loc, "cannot instantiate %s %s", c.Kind(), c.Name.Absolute())
	}

	sig := emptySignature
	if m, ok := pk.ctx.Classes.FindMethod(c.ID, "__construct"); ok {
		pk.ctx.AccessMember("constructor", &m.Member, pk.scopeClass(), pk.sym.ID, t.Loc)
		sig = m.Sig
	}
	what := "constructor of " + c.Name.Absolute()
	if pk.at(token.LParen) {
		pk.arguments(sig, what, t.Loc)
	} else if sig.Mandatory > 0 {
		pk.errorf(diag.SemaArgumentCount, t.Loc, "too few arguments to %s: %d required", what, sig.Mandatory)
	}
	pk.callEffects(sig, t.Loc)
	return valueOf(result.Of(pk.ctx.Types.Class(c.ID)), kw.Loc)
}

var emptySignature = func() *symbols.Signature {
	s := symbols.NewSignature()
	s.Close()
	return s
}()

// functionCall parses a call to a named function; the name is consumed.
func (pk *Package) functionCall(t token.Token) operand {
	switch strings.ToLower(strings.TrimPrefix(t.Text, `\`)) {
	case "define":
		return valueOf(pk.defineCall(t), t.Loc)
	case "trigger_error", "user_error":
		return valueOf(pk.triggerCall(t), t.Loc)
	case "spl_autoload_register":
		pk.ctx.AutoloadSeen = true
	}
	f, fqn := pk.ctx.SearchFunction(pk.res, t.Text, t.Loc)
	if f == nil {
		pk.errorf(diag.SemaUnresolvedFunction, t.Loc, "unknown function %s", fqn.Absolute())
		pk.arguments(nil, "", t.Loc)
		pk.effects++
		return valueOf(result.Unknown, t.Loc)
	}
	pk.ctx.AccessFunction(f, pk.sym.ID, t.Loc)
	return valueOf(pk.call(f.Sig, t.Loc, "function "+f.Name.Absolute()), t.Loc)
}
