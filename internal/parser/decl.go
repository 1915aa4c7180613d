package parser

import (
	"strings"

	"plint/internal/diag"
	"plint/internal/flow"
	"plint/internal/names"
	"plint/internal/result"
	"plint/internal/source"
	"plint/internal/symbols"
	"plint/internal/token"
	"plint/internal/types"
)

// paramDecl is a parameter as it appears in the body scope.
type paramDecl struct {
	name string
	loc  source.Location
	typ  types.TypeID
}

// parameters parses "(" [param {"," param}] ")" into sig. meta selects the
// annotation syntax of forward declarations, where types are written
// without comment delimiters.
func (pk *Package) parameters(sig *symbols.Signature, meta bool, d *docComment) []paramDecl {
	var out []paramDecl
	if _, ok := pk.expect(token.LParen, "'('"); !ok {
		return nil
	}
	for !pk.atAny(token.RParen, token.EOF, token.LBrace) {
		if sig.Variadic {
			t := pk.peek()
			pk.errorf(diag.SynUnexpectedToken, t.Loc, "no parameter may follow a variadic one")
		}
		if p, ok := pk.parameter(sig, meta, d); ok && p.name != "" {
			out = append(out, p)
		}
		if !pk.accept(token.Comma) {
			break
		}
	}
	pk.expect(token.RParen, "')'")
	return out
}

// parameter parses one formal argument. The type is taken from, in order:
// an annotation, the native hint, the doc comment, the default value.
func (pk *Package) parameter(sig *symbols.Signature, meta bool, d *docComment) (paramDecl, bool) {
	var (
		a        *annotation
		hint     = types.NoTypeID
		nullable bool
	)
	if meta {
		if pk.accept(token.MetaArgs) {
			sig.Variadic = true
			return paramDecl{}, true
		}
		a = &annotation{}
		if pk.accept(token.KwReturn) {
			a.out = true
		}
		if startsAnnotationType(pk.peek()) {
			a.typ = pk.annotationType()
		}
	} else {
		if pk.at(token.AnnotationOpen) && pk.peek2().Kind == token.MetaArgs {
			pk.advance()
			pk.advance()
			pk.closeAnnotation()
			sig.Variadic = true
			return paramDecl{}, true
		}
		if pk.at(token.AnnotationOpen) {
			a = pk.inlineAnnotation()
		}
		if !pk.atAny(token.Variable, token.Amp, token.Ellipsis) && startsHint(pk.peek()) {
			hint, nullable = pk.hintType()
		}
	}
	byRef := pk.accept(token.Amp)
	variadic := pk.accept(token.Ellipsis)
	v, ok := pk.expect(token.Variable, "parameter name")
	if !ok {
		for !pk.atAny(token.Comma, token.RParen, token.EOF, token.LBrace) {
			pk.advance()
		}
		return paramDecl{}, false
	}

	typ := types.NoTypeID
	switch {
	case a != nil && a.typ != types.NoTypeID:
		typ = a.typ
	case hint != types.NoTypeID:
		typ = hint
	case d != nil && d.params[v.Text] != "":
		typ = pk.docType(d.params[v.Text], d.loc)
	}

	arg := symbols.FormalArgument{Name: v.Text, ByRef: byRef, Mandatory: true}
	if a != nil && a.out {
		if !byRef {
			pk.errorf(diag.SynBadAnnotation, a.loc, "return applies to parameters passed by reference only")
		}
		arg.RefAssigned = byRef
	}
	if pk.accept(token.Assign) {
		arg.Mandatory = false
		if !pk.atAny(token.Comma, token.RParen) {
			loc := pk.peek().Loc
			def := pk.parseExpr()
			arg.Default = def
			switch {
			case typ == types.NoTypeID:
				typ = pk.valueType(def)
				if def.Type() == types.Null {
					typ = types.Mixed
				}
			case def.Type() == types.Null && nullable:
			case !pk.assignable(def, typ):
				pk.errorf(diag.SemaTypeMismatch, loc, "default value of $%s has type %s, expected %s",
					v.Text, pk.p.ev.TypeName(def), pk.ctx.FormatType(typ))
			}
		}
	}
	if typ == types.NoTypeID {
		typ = types.Mixed
	}
	arg.Type = typ

	if variadic {
		sig.Variadic = true
		return paramDecl{name: v.Text, loc: v.Loc, typ: pk.ctx.Types.Array(types.Int, typ)}, true
	}
	sig.AddArg(arg)
	return paramDecl{name: v.Text, loc: v.Loc, typ: typ}, true
}

// signature parses the parameter list and the return type of a function or
// method. infer reports that no return type was given.
func (pk *Package) signature(a *annotation, d *docComment) (sig *symbols.Signature, params []paramDecl, infer bool) {
	sig = symbols.NewSignature()
	params = pk.parameters(sig, false, d)

	ret := types.NoTypeID
	for {
		if pk.at(token.AnnotationOpen) {
			trailer := pk.inlineAnnotation()
			if trailer.typ != types.NoTypeID && ret == types.NoTypeID {
				ret = trailer.typ
			}
			pk.applyThrows(sig, trailer, nil)
			continue
		}
		if pk.accept(token.Colon) {
			t, _ := pk.hintType()
			ret = t
			continue
		}
		break
	}
	switch {
	case ret != types.NoTypeID:
	case a != nil && a.typ != types.NoTypeID:
		ret = a.typ
	case d != nil && d.ret != "":
		ret = pk.docType(d.ret, d.loc)
	}
	pk.applyThrows(sig, a, d)
	if ret == types.NoTypeID {
		sig.Return = types.NoTypeID
		return sig, params, true
	}
	sig.Return = ret
	return sig, params, false
}

// functionDeclaration parses "function [&] name (params) [: T] { body }".
func (pk *Package) functionDeclaration() flow.Flow {
	kw := pk.advance()
	a, d := pk.takeAnnotation(), pk.takeDoc()
	if pk.fn != nil || pk.nesting > 0 || pk.class != nil {
		pk.errorf(diag.SynMisplacedDirective, kw.Loc, "functions must be declared at top level")
	}
	byRef := pk.accept(token.Amp)
	nameTok, ok := pk.name("function name", false)
	if !ok {
		pk.resync()
		return flow.Next
	}
	fqn := names.New(pk.res.Namespace(), nameTok.Text, false)
	if strings.EqualFold(nameTok.Text, "__autoload") {
		pk.ctx.AutoloadSeen = true
	}

	sig, params, infer := pk.signature(a, d)
	sig.ByRefReturn = byRef
	if prev, ok := pk.ctx.Function(fqn); ok && prev.Forward && infer {
		sig.Return, infer = prev.Sig.Return, false
	}
	// on a duplicate the body is still checked against its own signature
	pk.ctx.DeclareFunction(&symbols.Function{Decl: pk.decl(fqn, nameTok.Loc, a, d), Sig: sig})
	pk.callableBody(&callable{what: "function " + fqn.Absolute(), name: nameTok.Text, sig: sig, infer: infer}, params, false)
	return flow.Next
}

// callableBody parses the body of a function or method and runs the
// end-of-body checks: missing return, unused locals.
func (pk *Package) callableBody(c *callable, params []paramDecl, abstract bool) {
	if pk.at(token.Semicolon) {
		t := pk.advance()
		if !abstract && !pk.sym.Module {
			pk.errorf(diag.SynUnexpectedToken, t.Loc, "missing body of %s", c.what)
		}
		if c.infer {
			c.sig.Return = types.Void
		}
		c.sig.Close()
		return
	}
	if abstract {
		pk.errorf(diag.SynUnexpectedToken, pk.peek().Loc, "abstract %s cannot have a body", c.what)
	}

	savedFn, savedLoops, savedSwitches, savedTries := pk.fn, pk.loops, pk.switches, pk.tries
	pk.fn, pk.loops, pk.switches, pk.tries = c, 0, 0, nil
	defer func() {
		pk.fn, pk.loops, pk.switches, pk.tries = savedFn, savedLoops, savedSwitches, savedTries
	}()

	pk.ctx.Vars.Enter()
	for _, p := range params {
		v := pk.ctx.Vars.Get(pk.ctx.Vars.Declare(p.name, p.loc, pk.sym.ID, p.typ))
		v.Assigned, v.Used = true, true
	}
	if c.method != nil && !c.method.Static && pk.class != nil {
		v := pk.ctx.Vars.Get(pk.ctx.Vars.Declare("this", c.method.Loc, pk.sym.ID, pk.ctx.Types.Class(pk.class.ID)))
		v.Assigned, v.Used = true, true
	}

	if _, ok := pk.expect(token.LBrace, "'{'"); !ok {
		pk.ctx.Vars.Exit()
		c.sig.Close()
		return
	}
	body := pk.statementList(token.RBrace)
	end, _ := pk.expect(token.RBrace, "'}'")

	if c.infer && c.sig.Return == types.NoTypeID {
		c.sig.Return = types.Void
	}
	if flow.Body(body, c.sig.Return == types.Void) == flow.BodyMissingReturn {
		pk.errorf(diag.SemaMissingReturn, end.Loc, "missing return statement at the end of %s", c.what)
	}
	for _, v := range pk.ctx.Vars.Exit() {
		if v.Assigned && !v.Used {
			pk.noticef(diag.SemaUnusedVariable, v.Loc, "variable $%s is assigned but never used", v.Name)
		}
	}
	c.sig.Close()
}

// statementList parses statements up to one of the end tokens, which is
// left in place.
func (pk *Package) statementList(end ...token.Kind) flow.Flow {
	seq := flow.NewSequence()
	for !pk.atAny(end...) && !pk.at(token.EOF) {
		pk.statementInto(seq)
	}
	return seq.Flow()
}

// returnStatement parses "return [expr];". Outside a callable it ends the
// file.
func (pk *Package) returnStatement() flow.Flow {
	kw := pk.advance()
	c := pk.fn
	if pk.atAny(token.Semicolon, token.CloseTag, token.EOF) {
		pk.expectSemicolon()
		if c == nil {
			return flow.Return
		}
		switch {
		case c.sig.Return == types.NoTypeID:
			c.sig.Return = types.Void
		case c.sig.Return != types.Void && c.sig.Return != types.Unknown:
			pk.errorf(diag.SemaBadReturn, kw.Loc, "missing return value: %s returns %s", c.what, pk.ctx.FormatType(c.sig.Return))
		}
		return flow.Return
	}
	v := pk.parseExpr()
	pk.expectSemicolon()
	if c == nil {
		return flow.Return
	}
	switch {
	case c.sig.Return == types.NoTypeID:
		if v.Type() == types.Void {
			pk.errorf(diag.SemaBadReturn, kw.Loc, "cannot return a void value")
			c.sig.Return = types.Unknown
			break
		}
		c.sig.Return = pk.valueType(v)
		if v.Type() == types.Null {
			c.sig.Return = types.Mixed
		}
	case c.sig.Return == types.Void:
		pk.errorf(diag.SemaBadReturn, kw.Loc, "%s is void and cannot return a value", c.what)
	case !pk.assignable(v, c.sig.Return):
		pk.errorf(diag.SemaBadReturn, kw.Loc, "cannot return %s from %s declared to return %s",
			pk.p.ev.TypeName(v), c.what, pk.ctx.FormatType(c.sig.Return))
	}
	return flow.Return
}

// constStatement parses "const NAME = expr {, NAME = expr};".
func (pk *Package) constStatement() flow.Flow {
	kw := pk.advance()
	a, d := pk.takeAnnotation(), pk.takeDoc()
	if pk.fn != nil || pk.nesting > 0 {
		pk.errorf(diag.SynMisplacedDirective, kw.Loc, "constants must be declared at top level")
	}
	for {
		nameTok, ok := pk.name("constant name", false)
		if !ok {
			pk.resync()
			return flow.Next
		}
		pk.expect(token.Assign, "'='")
		v := pk.parseExpr()
		pk.declareConstant(names.New(pk.res.Namespace(), nameTok.Text, true), nameTok.Loc, v, a, d)
		if !pk.accept(token.Comma) {
			break
		}
	}
	pk.expectSemicolon()
	return flow.Next
}

func (pk *Package) declareConstant(fqn names.FQN, loc source.Location, v result.Result, a *annotation, d *docComment) {
	if !v.Known() && !v.IsUnknown() && !pk.ctx.Types.IsArray(v.Type()) {
		pk.warnf(diag.SemaTypeMismatch, loc, "value of constant %s is not statically known", fqn.Absolute())
	}
	pk.ctx.DeclareConstant(&symbols.Constant{Decl: pk.decl(fqn, loc, a, d), Value: v})
}

// defineCall handles define('NAME', value): the name must be a static
// string and the call must be at top level.
func (pk *Package) defineCall(t token.Token) result.Result {
	pk.expect(token.LParen, "'('")
	nameLoc := pk.peek().Loc
	n := pk.rvalue(pk.binary(precAssignment))
	pk.expect(token.Comma, "','")
	v := pk.rvalue(pk.binary(precAssignment))
	if pk.accept(token.Comma) {
		pk.rvalue(pk.binary(precAssignment))
	}
	pk.expect(token.RParen, "')'")
	pk.effects++

	s, ok := n.StringValue()
	if !ok {
		if !n.IsUnknown() {
			pk.errorf(diag.SemaArgumentType, nameLoc, "define() requires a constant string as name")
		}
		return result.UnknownBool
	}
	if pk.fn != nil {
		pk.errorf(diag.SynMisplacedDirective, t.Loc, "define() must be called at top level")
	}
	pk.declareConstant(names.Parse(s, true), nameLoc, v, pk.takeAnnotation(), pk.takeDoc())
	return result.UnknownBool
}

// valueType is the type a variable gets from its first value. null and
// the empty array carry too little information and stay open.
func (pk *Package) valueType(v result.Result) types.TypeID {
	switch v.Type() {
	case types.Null:
		return types.Unknown
	case types.EmptyArray:
		return pk.ctx.Types.Array(types.Unknown, types.Unknown)
	default:
		return v.Type()
	}
}

func (pk *Package) assignable(v result.Result, to types.TypeID) bool {
	return pk.ctx.Types.Assignable(v.Type(), to, pk.ctx.Classes)
}
