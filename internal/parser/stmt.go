package parser

import (
	"strings"

	"plint/internal/diag"
	"plint/internal/flow"
	"plint/internal/result"
	"plint/internal/token"
	"plint/internal/types"
)

// statement parses one statement and returns how control may leave it.
func (pk *Package) statement() flow.Flow {
	t := pk.peek()
	switch t.Kind {
	case token.OpenTag, token.CloseTag, token.InlineHTML, token.Semicolon:
		pk.advance()
		return flow.Next
	case token.AnnotationOpen:
		return pk.annotationStatement()
	case token.OpenTagEcho:
		pk.advance()
		pk.code = true
		return pk.echoList()
	}

	pk.code = true
	switch t.Kind {
	case token.LBrace:
		return pk.block()
	case token.KwNamespace:
		if pk.peek2().Kind != token.Backslash {
			return pk.namespaceStatement()
		}
	case token.KwUse:
		return pk.useStatement()
	case token.KwConst:
		return pk.constStatement()
	case token.KwFunction:
		if pk.peek2().Kind != token.LParen {
			return pk.functionDeclaration()
		}
	case token.KwClass, token.KwInterface, token.KwAbstract, token.KwFinal:
		return pk.classDeclaration()
	case token.KwTrait:
		pk.unsupported(t, "trait")
	case token.KwIf:
		return pk.ifStatement()
	case token.KwWhile:
		return pk.whileStatement()
	case token.KwDo:
		return pk.doStatement()
	case token.KwFor:
		return pk.forStatement()
	case token.KwForeach:
		return pk.foreachStatement()
	case token.KwSwitch:
		return pk.switchStatement()
	case token.KwBreak, token.KwContinue:
		return pk.jumpStatement()
	case token.KwReturn:
		return pk.returnStatement()
	case token.KwThrow:
		return pk.throwStatement()
	case token.KwTry:
		return pk.tryStatement()
	case token.KwGlobal:
		return pk.globalStatement()
	case token.KwStatic:
		if pk.peek2().Kind == token.Variable {
			return pk.staticStatement()
		}
	case token.KwEcho:
		pk.advance()
		return pk.echoList()
	case token.KwUnset:
		return pk.unsetStatement()
	case token.KwDeclare:
		return pk.declareStatement()
	case token.KwGoto:
		pk.unsupported(t, "goto")
	case token.Ident:
		if pk.peek2().Kind == token.Colon {
			pk.unsupported(t, "goto label")
		}
	}
	return pk.expressionStatement()
}

// expressionStatement parses "expr;". A result with no side effect is
// reported.
func (pk *Package) expressionStatement() flow.Flow {
	t := pk.peek()
	if t.Kind == token.Variable && pk.typedVariable(t) && pk.peek2().Kind == token.Semicolon {
		pk.advance()
		pk.advance()
		return flow.Next
	}
	before := pk.effects
	pk.rvalue(pk.binary(precLogicalOr))
	if pk.effects == before {
		pk.noticef(diag.SemaUnusedResult, t.Loc, "expression result is not used")
	}
	pk.expectSemicolon()
	if t.Kind == token.KwExit {
		return flow.None
	}
	return flow.Next
}

// typedVariable declares the variable t with the type given by a pending
// annotation or @var comment. It reports whether a type was applied.
func (pk *Package) typedVariable(t token.Token) bool {
	typ := types.NoTypeID
	switch {
	case pk.ann != nil && pk.ann.typ != types.NoTypeID:
		typ = pk.takeAnnotation().typ
	case pk.doc != nil && pk.doc.varType != "" && (pk.doc.varName == "" || pk.doc.varName == t.Text):
		d := pk.takeDoc()
		typ = pk.docType(d.varType, d.loc)
	default:
		return false
	}
	if id, ok := pk.ctx.Vars.Lookup(t.Text); ok {
		v := pk.ctx.Vars.Get(id)
		if v.Type != types.Unknown && v.Type != typ {
			pk.errorf(diag.SemaDuplicateDecl, t.Loc, "variable $%s already has type %s", t.Text, pk.ctx.FormatType(v.Type))
			return true
		}
		v.Type = typ
		return true
	}
	pk.ctx.Vars.Declare(t.Text, t.Loc, pk.sym.ID, typ)
	return true
}

func (pk *Package) block() flow.Flow {
	pk.advance()
	pk.nesting++
	f := pk.statementList(token.RBrace)
	pk.nesting--
	pk.expect(token.RBrace, "'}'")
	return f
}

// branchBody parses the single statement governed by if, else or a loop.
func (pk *Package) branchBody() flow.Flow {
	if pk.at(token.Colon) {
		pk.unsupported(pk.peek(), "alternative syntax")
	}
	pk.nesting++
	seq := flow.NewSequence()
	pk.statementInto(seq)
	pk.nesting--
	return seq.Flow()
}

// parenCondition parses "(expr)" of if, while and do.
func (pk *Package) parenCondition(what string) result.Result {
	open, _ := pk.expect(token.LParen, "'('")
	r := pk.condition(pk.parseExpr(), open.Loc, what)
	pk.expect(token.RParen, "')'")
	return r
}

func (pk *Package) namespaceStatement() flow.Flow {
	kw := pk.advance()
	if pk.fn != nil || pk.nesting > 0 || pk.class != nil {
		pk.errorf(diag.SynMisplacedDirective, kw.Loc, "namespace must be declared at top level")
	}
	name := ""
	if pk.atAny(token.Ident, token.Name) {
		name = pk.advance().Text
	}
	pk.res.Open(name)
	if pk.accept(token.LBrace) {
		f := pk.statementList(token.RBrace)
		pk.expect(token.RBrace, "'}'")
		pk.res.Open("")
		return f
	}
	pk.expectSemicolon()
	return flow.Next
}

// useStatement registers class aliases. "use function" and "use const"
// are skipped.
func (pk *Package) useStatement() flow.Flow {
	kw := pk.advance()
	if pk.fn != nil || pk.nesting > 0 {
		pk.errorf(diag.SynMisplacedDirective, kw.Loc, "use must appear at top level")
	}
	if pk.atAny(token.KwFunction, token.KwConst) {
		t := pk.advance()
		pk.warnf(diag.SynUnsupported, t.Loc, "use %s is not checked", t.Text)
		pk.resync()
		return flow.Next
	}
	for {
		n, ok := pk.expectName("name to import")
		if !ok {
			pk.resync()
			return flow.Next
		}
		if pk.at(token.LBrace) {
			pk.unsupported(pk.peek(), "group use")
		}
		alias := ""
		if pk.accept(token.KwAs) {
			if a, ok := pk.name("alias", false); ok {
				alias = a.Text
			}
		}
		pk.res.AddUse(n.Text, alias, n.Loc)
		if !pk.accept(token.Comma) {
			break
		}
	}
	pk.expectSemicolon()
	return flow.Next
}

func (pk *Package) ifStatement() flow.Flow {
	pk.advance()
	var arms []flow.Flow
	for {
		pk.parenCondition("if")
		arms = append(arms, pk.branchBody())
		switch {
		case pk.accept(token.KwElseif):
			continue
		case pk.at(token.KwElse):
			pk.advance()
			if pk.accept(token.KwIf) {
				continue
			}
			arms = append(arms, pk.branchBody())
			return flow.Branch(arms...)
		}
		return flow.Branch(append(arms, flow.Next)...)
	}
}

func isTrue(r result.Result) bool {
	v, ok := r.BoolValue()
	return ok && v
}

func (pk *Package) whileStatement() flow.Flow {
	pk.advance()
	c := pk.parenCondition("while")
	pk.loops++
	body := pk.branchBody()
	pk.loops--
	return flow.Loop(body, isTrue(c))
}

// doStatement parses do-while; the body runs at least once.
func (pk *Package) doStatement() flow.Flow {
	pk.advance()
	pk.loops++
	body := pk.branchBody()
	pk.loops--
	pk.expect(token.KwWhile, "'while'")
	c := pk.parenCondition("do-while")
	pk.expectSemicolon()
	f := flow.Loop(body, isTrue(c))
	if body&(flow.Next|flow.Continue|flow.Break) == 0 {
		f &^= flow.Next
	}
	return f
}

func (pk *Package) forStatement() flow.Flow {
	pk.advance()
	pk.expect(token.LParen, "'('")
	pk.exprList(token.Semicolon)
	pk.expect(token.Semicolon, "';'")
	infinite := pk.at(token.Semicolon)
	if !infinite {
		loc := pk.peek().Loc
		c := pk.condition(pk.exprList(token.Semicolon), loc, "for")
		infinite = isTrue(c)
	}
	pk.expect(token.Semicolon, "';'")
	pk.exprList(token.RParen)
	pk.expect(token.RParen, "')'")
	pk.loops++
	body := pk.branchBody()
	pk.loops--
	return flow.Loop(body, infinite)
}

// exprList parses "a, b, ..." up to end and returns the last value.
func (pk *Package) exprList(end token.Kind) result.Result {
	last := result.Unknown
	for !pk.atAny(end, token.EOF) {
		last = pk.parseExpr()
		if !pk.accept(token.Comma) {
			break
		}
	}
	return last
}

func (pk *Package) foreachStatement() flow.Flow {
	kw := pk.advance()
	pk.expect(token.LParen, "'('")
	arr := pk.parseExpr()
	pk.expect(token.KwAs, "'as'")

	keyT, valT := types.Unknown, types.Unknown
	switch t := arr.Type(); {
	case arr.IsUnknown():
	case pk.ctx.Types.IsArray(t):
		keyT, valT = pk.ctx.Types.ArrayKey(t), pk.ctx.Types.ArrayValue(t)
	case pk.ctx.Types.IsClass(t), t == types.Mixed:
	default:
		pk.errorf(diag.SemaBadOperand, kw.Loc, "foreach requires an array, found %s", pk.p.ev.TypeName(arr))
	}

	pk.accept(token.Amp)
	first := pk.postfix(pk.primary())
	if pk.accept(token.FatArrow) {
		pk.accept(token.Amp)
		second := pk.postfix(pk.primary())
		pk.store(first, result.Of(keyT), first.loc)
		pk.store(second, result.Of(valT), second.loc)
	} else {
		pk.store(first, result.Of(valT), first.loc)
	}
	pk.expect(token.RParen, "')'")

	pk.loops++
	body := pk.branchBody()
	pk.loops--
	return flow.Loop(body, false)
}

// switchStatement: break leaves the switch, a case falling off its end
// runs into the next one.
func (pk *Package) switchStatement() flow.Flow {
	pk.advance()
	pk.expect(token.LParen, "'('")
	subject := pk.parseExpr()
	pk.expect(token.RParen, "')'")
	if _, ok := pk.expect(token.LBrace, "'{'"); !ok {
		return flow.Next
	}
	pk.switches++
	pk.nesting++
	defer func() {
		pk.switches--
		pk.nesting--
	}()

	var out flow.Flow
	last := flow.Next
	hasDefault, cases := false, 0
	for !pk.atAny(token.RBrace, token.EOF) {
		t := pk.advance()
		switch t.Kind {
		case token.KwCase:
			label := pk.parseExpr()
			pk.p.ev.Binary(token.EqEq, subject, label, t.Loc)
		case token.KwDefault:
			if hasDefault {
				pk.errorf(diag.SemaDuplicateDecl, t.Loc, "duplicate default in switch")
			}
			hasDefault = true
		default:
			pk.errorf(diag.SynUnexpectedToken, t.Loc, "expected case or default, found %s", describe(t))
			continue
		}
		if !pk.accept(token.Semicolon) {
			pk.expect(token.Colon, "':'")
		}
		cases++
		body := pk.statementList(token.KwCase, token.KwDefault, token.RBrace)
		out |= body &^ (flow.Next | flow.Break)
		if body&flow.Break != 0 {
			out |= flow.Next
		}
		last = body
	}
	pk.expect(token.RBrace, "'}'")
	if cases == 0 || last&flow.Next != 0 || !hasDefault {
		out |= flow.Next
	}
	return out
}

// jumpStatement parses break and continue with an optional level.
func (pk *Package) jumpStatement() flow.Flow {
	kw := pk.advance()
	level := int64(1)
	if pk.at(token.IntLit) {
		lit := pk.advance()
		if lit.Int == nil || !lit.Int.IsInt64() || lit.Int.Int64() < 1 {
			pk.errorf(diag.SemaBreakOutsideLoop, lit.Loc, "%s level must be a positive integer", kw.Kind)
		} else {
			level = lit.Int.Int64()
		}
	}
	pk.expectSemicolon()
	depth := pk.loops
	if kw.Kind == token.KwBreak {
		depth += pk.switches
	}
	if level > int64(depth) {
		pk.errorf(diag.SemaBreakOutsideLoop, kw.Loc, "%s %d outside of an enclosing loop", kw.Kind, level)
		return flow.Next
	}
	if kw.Kind == token.KwBreak {
		return flow.Break
	}
	return flow.Continue
}

func (pk *Package) throwStatement() flow.Flow {
	kw := pk.advance()
	loc := pk.peek().Loc
	v := pk.parseExpr()
	pk.expectSemicolon()
	pk.effects++
	if v.IsUnknown() {
		return flow.None
	}
	id, ok := pk.ctx.Types.ClassOf(v.Type())
	switch {
	case !ok:
		pk.errorf(diag.SemaNotThrowable, loc, "throw requires an exception object, found %s", pk.p.ev.TypeName(v))
	case !pk.isThrowable(id):
		pk.errorf(diag.SemaNotThrowable, loc, "class %s is not an exception", pk.ctx.Classes.ClassName(id))
	default:
		pk.thrown(id, kw.Loc)
	}
	return flow.None
}

// tryStatement collects what the try block throws, removes what the
// catch clauses absorb and passes the rest on.
func (pk *Package) tryStatement() flow.Flow {
	kw := pk.advance()
	frame := pk.pushTry()
	out := pk.braced()
	pk.popTry()

	caught := false
	for pk.at(token.KwCatch) {
		caught = true
		pk.advance()
		pk.expect(token.LParen, "'('")
		var ids []types.ClassID
		for {
			n, ok := pk.expectName("exception class")
			if ok {
				if id := pk.exceptionClass(n.Text, n.Loc); id != types.NoClassID {
					ids = append(ids, id)
					frame.set.RemoveWithSubclasses(id, pk.ctx.Classes)
				}
			}
			if !pk.accept(token.Pipe) {
				break
			}
		}
		if v := pk.peek(); v.Kind == token.Variable {
			pk.advance()
			typ := types.Unknown
			if len(ids) == 1 {
				typ = pk.ctx.Types.Class(ids[0])
			}
			x := pk.variable(v)
			pk.store(x, result.Of(typ), v.Loc)
			pk.markUsed(x)
		}
		pk.expect(token.RParen, "')'")
		out |= pk.braced()
	}
	for _, e := range frame.set.Members() {
		pk.thrown(e, frame.locs[e])
	}

	if pk.accept(token.KwFinally) {
		fin := pk.braced()
		if fin&flow.Next == 0 {
			return fin
		}
		return out | fin&^flow.Next
	}
	if !caught {
		pk.errorf(diag.SynUnexpectedToken, kw.Loc, "try without catch or finally")
	}
	return out
}

// braced parses "{ statements }" as a nested block.
func (pk *Package) braced() flow.Flow {
	if _, ok := pk.expect(token.LBrace, "'{'"); !ok {
		return flow.Next
	}
	pk.nesting++
	f := pk.statementList(token.RBrace)
	pk.nesting--
	pk.expect(token.RBrace, "'}'")
	return f
}

// globalStatement binds global variables into the current function.
func (pk *Package) globalStatement() flow.Flow {
	kw := pk.advance()
	if pk.fn == nil {
		pk.noticef(diag.SynMisplacedDirective, kw.Loc, "global has no effect at top level")
	}
	for {
		v, ok := pk.expect(token.Variable, "variable")
		if !ok {
			pk.resync()
			return flow.Next
		}
		if pk.fn != nil {
			if id, found := pk.ctx.Vars.LookupGlobal(v.Text); found {
				pk.ctx.Vars.Bind(v.Text, id)
				pk.ctx.Vars.Get(id).Used = true
			} else {
				pk.errorf(diag.SemaUndefinedVariable, v.Loc, "global variable $%s is not defined", v.Text)
				nv := pk.ctx.Vars.Get(pk.ctx.Vars.Declare(v.Text, v.Loc, pk.sym.ID, types.Unknown))
				nv.Assigned, nv.Used = true, true
			}
		}
		if !pk.accept(token.Comma) {
			break
		}
	}
	pk.expectSemicolon()
	return flow.Next
}

// staticStatement declares function-local static variables.
func (pk *Package) staticStatement() flow.Flow {
	kw := pk.advance()
	if pk.fn == nil {
		pk.noticef(diag.SynMisplacedDirective, kw.Loc, "static variables have no effect at top level")
	}
	for {
		v, ok := pk.expect(token.Variable, "variable")
		if !ok {
			pk.resync()
			return flow.Next
		}
		x := pk.variable(v)
		if pk.accept(token.Assign) {
			loc := pk.peek().Loc
			init := pk.parseExpr()
			if !init.Known() && !init.IsUnknown() && init.Type() != types.EmptyArray && !pk.ctx.Types.IsArray(init.Type()) {
				pk.warnf(diag.SemaTypeMismatch, loc, "initial value of static $%s is not statically known", v.Text)
			}
			pk.store(x, init, v.Loc)
		} else {
			pk.store(x, result.Null, v.Loc)
		}
		if !pk.accept(token.Comma) {
			break
		}
	}
	pk.expectSemicolon()
	return flow.Next
}

// echoList parses the arguments of echo or of an echo tag.
func (pk *Package) echoList() flow.Flow {
	for {
		loc := pk.peek().Loc
		pk.stringify(pk.parseExpr(), loc)
		if !pk.accept(token.Comma) {
			break
		}
	}
	pk.effects++
	pk.expectSemicolon()
	return flow.Next
}

func (pk *Package) unsetStatement() flow.Flow {
	kw := pk.advance()
	pk.expect(token.LParen, "'('")
	for !pk.atAny(token.RParen, token.EOF) {
		x := pk.binary(precLogicalOr)
		if x.kind == opValue {
			pk.errorf(diag.SemaBadOperand, kw.Loc, "unset() requires variables")
		} else {
			pk.quiet(x)
		}
		if !pk.accept(token.Comma) {
			break
		}
	}
	pk.expect(token.RParen, "')'")
	pk.expectSemicolon()
	return flow.Next
}

// declareStatement accepts declare(name=value, ...) followed by ';' or a
// statement.
func (pk *Package) declareStatement() flow.Flow {
	pk.advance()
	pk.expect(token.LParen, "'('")
	for !pk.atAny(token.RParen, token.EOF) {
		n, ok := pk.name("directive name", false)
		if ok && !isKnownDirective(n.Text) {
			pk.warnf(diag.SynUnsupported, n.Loc, "unknown declare directive %s", n.Text)
		}
		pk.expect(token.Assign, "'='")
		pk.parseExpr()
		if !pk.accept(token.Comma) {
			break
		}
	}
	pk.expect(token.RParen, "')'")
	if pk.atAny(token.Semicolon, token.CloseTag, token.EOF) {
		pk.expectSemicolon()
		return flow.Next
	}
	return pk.branchBody()
}

func isKnownDirective(name string) bool {
	switch strings.ToLower(name) {
	case "ticks", "encoding", "strict_types":
		return true
	default:
		return false
	}
}
