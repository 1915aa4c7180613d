package parser

import (
	"plint/internal/diag"
	"plint/internal/flow"
	"plint/internal/names"
	"plint/internal/source"
	"plint/internal/symbols"
	"plint/internal/throws"
	"plint/internal/token"
	"plint/internal/types"
)

// annotation is the content of a /*. ... .*/ comment that applies to the
// next declaration.
type annotation struct {
	loc    source.Location
	typ    types.TypeID
	vis    symbols.Visibility
	hasVis bool
	// out marks a by-reference parameter the callee assigns ("return").
	out      bool
	throws   []thrownRef
	triggers []throws.ErrorKind
}

type thrownRef struct {
	id  types.ClassID
	loc source.Location
}

// annotationStatement handles an annotation found where a statement may
// start: a directive runs at once, anything else is stashed.
func (pk *Package) annotationStatement() flow.Flow {
	open := pk.advance()
	switch pk.peek().Kind {
	case token.MetaForward:
		pk.advance()
		pk.forward(open.Loc)
	case token.MetaRequireModule:
		pk.advance()
		pk.requireModules()
	case token.MetaPragma:
		pk.advance()
		pk.skipAnnotation()
		return flow.Next
	default:
		a := pk.annotationBody(open.Loc)
		pk.closeAnnotation()
		if pk.ann != nil {
			pk.unusedAnnotation()
		}
		pk.ann = a
		return flow.Next
	}
	pk.closeAnnotation()
	return flow.Next
}

// inlineAnnotation parses a complete annotation in a parameter list or a
// class body.
func (pk *Package) inlineAnnotation() *annotation {
	open := pk.advance()
	a := pk.annotationBody(open.Loc)
	pk.closeAnnotation()
	return a
}

// annotationBody parses: {modifier} [type] {throws C,... | triggers E,...}.
func (pk *Package) annotationBody(loc source.Location) *annotation {
	a := &annotation{loc: loc}
	for done := false; !done; {
		t := pk.peek()
		switch t.Kind {
		case token.KwPublic, token.KwProtected, token.KwPrivate:
			pk.advance()
			if a.hasVis {
				pk.errorf(diag.SynDuplicateModifier, t.Loc, "duplicate visibility modifier %s", t.Text)
			}
			a.vis, a.hasVis = visibilityOf(t.Kind), true
		case token.KwReturn:
			pk.advance()
			a.out = true
		default:
			done = true
		}
	}
	if startsAnnotationType(pk.peek()) {
		a.typ = pk.annotationType()
	}
	pk.throwsClauses(a)
	return a
}

// throwsClauses parses any sequence of "throws C, D" and "triggers E_X".
func (pk *Package) throwsClauses(a *annotation) {
	for {
		switch {
		case pk.accept(token.MetaThrows):
			for {
				t, ok := pk.expectName("exception class")
				if !ok {
					break
				}
				if id := pk.exceptionClass(t.Text, t.Loc); id != types.NoClassID {
					a.throws = append(a.throws, thrownRef{id: id, loc: t.Loc})
				}
				if !pk.accept(token.Comma) {
					break
				}
			}
		case pk.accept(token.MetaTriggers):
			for {
				t, ok := pk.expectName("error level")
				if !ok {
					break
				}
				if k, ok := throws.ParseErrorKind(t.Text); ok {
					a.triggers = append(a.triggers, k)
				} else {
					pk.errorf(diag.SynBadAnnotation, t.Loc, "unknown error level %s", t.Text)
				}
				if !pk.accept(token.Comma) {
					break
				}
			}
		default:
			return
		}
	}
}

// expectName consumes an identifier or qualified name.
func (pk *Package) expectName(what string) (token.Token, bool) {
	if pk.atAny(token.Ident, token.Name) {
		return pk.advance(), true
	}
	t := pk.peek()
	pk.errorf(diag.SynExpectIdentifier, t.Loc, "expected %s, found %s", what, describe(t))
	return t, false
}

// closeAnnotation expects '.*/'; on anything else it reports and skips to
// the end of the annotation.
func (pk *Package) closeAnnotation() {
	if pk.accept(token.AnnotationClose) {
		return
	}
	t := pk.peek()
	pk.errorf(diag.SynBadAnnotation, t.Loc, "unexpected %s in annotation", describe(t))
	pk.skipAnnotation()
}

func (pk *Package) skipAnnotation() {
	for !pk.atAny(token.AnnotationClose, token.EOF) {
		pk.advance()
	}
	pk.accept(token.AnnotationClose)
}

// exceptionClass resolves a class named in a throws clause.
func (pk *Package) exceptionClass(name string, loc source.Location) types.ClassID {
	c := pk.lookupClass(name, loc)
	if c == nil {
		return types.NoClassID
	}
	if !pk.isThrowable(c.ID) {
		pk.errorf(diag.SemaNotThrowable, loc, "class %s is not an exception", c.Name.Absolute())
		return types.NoClassID
	}
	return c.ID
}

var throwableRoots = []string{"Throwable", "Exception", "Error"}

// isThrowable reports whether id descends from one of the exception roots.
// Without any root declared every class qualifies.
func (pk *Package) isThrowable(id types.ClassID) bool {
	seen := false
	for _, name := range throwableRoots {
		root, ok := pk.ctx.Classes.Lookup(names.Parse(name, false))
		if !ok {
			continue
		}
		seen = true
		if pk.ctx.Classes.IsSubclassOf(id, root.ID) {
			return true
		}
	}
	return !seen
}

// applyThrows adds the throws and triggers of an annotation and a doc
// comment to sig.
func (pk *Package) applyThrows(sig *symbols.Signature, a *annotation, d *docComment) {
	if a != nil {
		for _, r := range a.throws {
			sig.Exceptions.Put(r.id)
		}
		for _, k := range a.triggers {
			sig.Errors.Put(k)
		}
	}
	if d == nil {
		return
	}
	for _, name := range d.throws {
		if id := pk.exceptionClass(name, d.loc); id != types.NoClassID {
			sig.Exceptions.Put(id)
		}
	}
	for _, name := range d.triggers {
		if k, ok := throws.ParseErrorKind(name); ok {
			sig.Errors.Put(k)
		} else {
			pk.errorf(diag.SynBadAnnotation, d.loc, "unknown error level %s in @triggers", name)
		}
	}
}

// formalCast parses /*. (T) .*/ expr: a declarative cast that changes the
// static type only.
func (pk *Package) formalCast() operand {
	open := pk.advance()
	to := types.Unknown
	t := pk.peek()
	switch {
	case t.Kind.IsCast():
		pk.advance()
		to = pk.castType(t.Kind)
	case t.Kind == token.LParen:
		pk.advance()
		to = pk.annotationType()
		pk.expect(token.RParen, "')'")
	default:
		pk.errorf(diag.SynBadAnnotation, t.Loc, "expected (type) in formal cast, found %s", describe(t))
	}
	pk.closeAnnotation()
	x := pk.rvalue(pk.binary(precUnary))
	return valueOf(pk.p.ev.DeclarativeCast(to, x, open.Loc), open.Loc)
}

func (pk *Package) castType(k token.Kind) types.TypeID {
	switch k {
	case token.CastInt:
		return types.Int
	case token.CastFloat:
		return types.Float
	case token.CastString:
		return types.String
	case token.CastBool:
		return types.Boolean
	case token.CastArray:
		return pk.ctx.Types.Array(types.Unknown, types.Unknown)
	case token.CastUnset:
		return types.Null
	default:
		return types.Mixed
	}
}

// forward parses "forward function ...;" or "forward class ... { }".
func (pk *Package) forward(loc source.Location) {
	if pk.fn != nil || pk.nesting > 0 {
		pk.errorf(diag.SynMisplacedDirective, loc, "forward declarations must be at top level")
	}
	a := pk.annotationBody(loc)
	switch pk.peek().Kind {
	case token.KwFunction:
		pk.forwardFunction(a)
	case token.KwClass, token.KwInterface, token.KwAbstract, token.KwFinal:
		pk.forwardClass(a)
	default:
		t := pk.peek()
		pk.errorf(diag.SynBadAnnotation, t.Loc, "expected function or class after forward, found %s", describe(t))
	}
}

func (pk *Package) forwardFunction(a *annotation) {
	pk.advance()
	byRef := pk.accept(token.Amp)
	nameTok, ok := pk.name("function name", false)
	if !ok {
		return
	}
	sig := pk.forwardSignature(a, byRef)
	fqn := names.New(pk.res.Namespace(), nameTok.Text, false)
	pk.ctx.DeclareFunction(&symbols.Function{Decl: pk.decl(fqn, nameTok.Loc, a, nil), Sig: sig, Forward: true})
}

// forwardSignature parses "(params) [throws ...] ;" in annotation syntax.
func (pk *Package) forwardSignature(a *annotation, byRef bool) *symbols.Signature {
	sig := symbols.NewSignature()
	sig.ByRefReturn = byRef
	if a.typ != types.NoTypeID {
		sig.Return = a.typ
	}
	pk.parameters(sig, true, nil)
	trailer := &annotation{}
	pk.throwsClauses(trailer)
	pk.applyThrows(sig, trailer, nil)
	pk.expect(token.Semicolon, "';'")
	sig.Close()
	return sig
}

func (pk *Package) forwardClass(a *annotation) {
	var flags symbols.ClassFlags
	for pk.atAny(token.KwAbstract, token.KwFinal) {
		if pk.advance().Kind == token.KwAbstract {
			flags |= symbols.ClassAbstract
		} else {
			flags |= symbols.ClassFinal
		}
	}
	kw := pk.advance()
	if kw.Kind == token.KwInterface {
		flags |= symbols.ClassInterface
	}
	nameTok, ok := pk.name("class name", false)
	if !ok {
		pk.skipAnnotationBody()
		return
	}
	parent, ifaces := pk.inheritance(kw.Kind == token.KwInterface)
	fqn := names.New(pk.res.Namespace(), nameTok.Text, false)
	c := symbols.NewClass(pk.decl(fqn, nameTok.Loc, a, nil), flags)
	c.Forward = true
	decl := pk.ctx.DeclareClass(c)
	if decl == nil {
		decl = c
	}
	decl.Parent, decl.Interfaces = parent, ifaces

	pk.expect(token.LBrace, "'{'")
	for !pk.atAny(token.RBrace, token.AnnotationClose, token.EOF) {
		start := pk.read
		pk.forwardMethod(decl)
		if pk.read == start {
			pk.advance()
		}
	}
	pk.expect(token.RBrace, "'}'")
}

// forwardMethod parses "[modifiers] [T] function name(params) [throws];".
func (pk *Package) forwardMethod(c *symbols.Class) {
	loc := pk.peek().Loc
	mods := pk.modifiers()
	a := pk.annotationBody(loc)
	if a.hasVis && !mods.hasVis {
		mods.vis, mods.hasVis = a.vis, true
	}
	if _, ok := pk.expect(token.KwFunction, "function"); !ok {
		pk.skipAnnotationBody()
		return
	}
	byRef := pk.accept(token.Amp)
	nameTok, ok := pk.name("method name", true)
	if !ok {
		return
	}
	m := &symbols.Method{
		Member:   symbols.Member{Name: nameTok.Text, Loc: nameTok.Loc, Visibility: mods.vis},
		Sig:      pk.forwardSignature(a, byRef),
		Static:   mods.static,
		Abstract: mods.abstract || c.IsInterface(),
		Final:    mods.final,
	}
	if !c.AddMethod(m) {
		pk.errorf(diag.SemaDuplicateDecl, nameTok.Loc, "method %s::%s already declared", c.Name.Name(), nameTok.Text)
	}
}

// skipAnnotationBody skips to the closing brace of a forward class.
func (pk *Package) skipAnnotationBody() {
	for !pk.atAny(token.RBrace, token.AnnotationClose, token.EOF) {
		pk.advance()
	}
}

// requireModules handles "require_module 'name' [, 'name'] ;".
func (pk *Package) requireModules() {
	for {
		t, ok := pk.expect(token.StringLit, "module name")
		if !ok {
			break
		}
		pk.requireModule(t.Text, t.Loc)
		if !pk.accept(token.Comma) {
			break
		}
	}
	pk.expect(token.Semicolon, "';'")
}

func (pk *Package) requireModule(name string, loc source.Location) {
	if pk.fn != nil || pk.nesting > 0 {
		pk.errorf(diag.SynMisplacedDirective, loc, "require_module must be at top level")
		return
	}
	if !pk.p.IsModuleLoaded(name) && pk.sym.Depth > 0 && pk.p.opts.Sandbox {
		pk.errorf(diag.ProjSandboxRefused, loc, "require_module '%s' refused: new modules may only be required by the top-level file", name)
		return
	}
	mod, ok := pk.p.LoadModule(name, false, loc)
	if ok && mod.ID != pk.sym.ID {
		pk.sym.Require(mod.ID, loc)
	}
}

// decl builds the common part of a top-level declaration from its
// annotation and doc comment.
func (pk *Package) decl(fqn names.FQN, loc source.Location, a *annotation, d *docComment) symbols.Decl {
	decl := symbols.Decl{Name: fqn, Loc: loc, Package: pk.sym.ID}
	if a != nil && a.hasVis {
		if a.vis == symbols.Protected {
			pk.errorf(diag.SynBadAnnotation, a.loc, "protected applies to class members only")
		} else {
			decl.Visibility = a.vis
		}
	}
	if d != nil {
		if d.private {
			decl.Visibility = symbols.Private
		}
		decl.Deprecated = d.deprecation()
	}
	return decl
}

func visibilityOf(k token.Kind) symbols.Visibility {
	switch k {
	case token.KwPrivate:
		return symbols.Private
	case token.KwProtected:
		return symbols.Protected
	default:
		return symbols.Public
	}
}
