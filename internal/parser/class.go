package parser

import (
	"fmt"
	"slices"
	"strings"

	"plint/internal/diag"
	"plint/internal/flow"
	"plint/internal/names"
	"plint/internal/source"
	"plint/internal/symbols"
	"plint/internal/token"
	"plint/internal/types"
)

// modifiers collected before a class member.
type modifiers struct {
	loc      source.Location
	vis      symbols.Visibility
	hasVis   bool
	static   bool
	abstract bool
	final    bool
}

func (pk *Package) modifiers() modifiers {
	m := modifiers{loc: pk.peek().Loc}
	for {
		t := pk.peek()
		var dup bool
		switch t.Kind {
		case token.KwPublic, token.KwProtected, token.KwPrivate, token.KwVar:
			dup = m.hasVis
			m.vis, m.hasVis = visibilityOf(t.Kind), true
		case token.KwStatic:
			dup, m.static = m.static, true
		case token.KwAbstract:
			dup, m.abstract = m.abstract, true
		case token.KwFinal:
			dup, m.final = m.final, true
		default:
			return m
		}
		pk.advance()
		if dup {
			pk.errorf(diag.SynDuplicateModifier, t.Loc, "duplicate modifier %s", t.Text)
		}
	}
}

// classDeclaration parses "[abstract|final] class C [extends P]
// [implements I, ...] { members }" and "interface I [extends J, ...] { }".
func (pk *Package) classDeclaration() flow.Flow {
	start := pk.peek()
	a, d := pk.takeAnnotation(), pk.takeDoc()
	if pk.fn != nil || pk.nesting > 0 || pk.class != nil {
		pk.errorf(diag.SynMisplacedDirective, start.Loc, "classes must be declared at top level")
	}
	var flags symbols.ClassFlags
	for pk.atAny(token.KwAbstract, token.KwFinal) {
		if pk.advance().Kind == token.KwAbstract {
			flags |= symbols.ClassAbstract
		} else {
			flags |= symbols.ClassFinal
		}
	}
	if flags == symbols.ClassAbstract|symbols.ClassFinal {
		pk.errorf(diag.SynDuplicateModifier, start.Loc, "a class cannot be both abstract and final")
	}
	kw := pk.advance()
	isInterface := kw.Kind == token.KwInterface
	switch {
	case isInterface && flags != 0:
		pk.errorf(diag.SynUnexpectedToken, start.Loc, "an interface cannot be abstract or final")
		flags = symbols.ClassInterface
	case isInterface:
		flags = symbols.ClassInterface
	case kw.Kind != token.KwClass:
		pk.errorf(diag.SynUnexpectedToken, kw.Loc, "expected class, found %s", describe(kw))
		pk.resync()
		return flow.Next
	}

	nameTok, ok := pk.name(kw.Text+" name", false)
	if !ok {
		pk.resync()
		return flow.Next
	}
	fqn := names.New(pk.res.Namespace(), nameTok.Text, false)
	parent, ifaces := pk.inheritance(isInterface)

	decl := pk.decl(fqn, nameTok.Loc, a, d)
	c := pk.ctx.DeclareClass(symbols.NewClass(decl, flags))
	if c == nil {
		// duplicate: check the body against a detached class
		c = symbols.NewClass(decl, flags)
	}
	c.Parent, c.Interfaces = parent, ifaces

	saved := pk.class
	pk.class = c
	defer func() { pk.class = saved }()

	pk.expect(token.LBrace, "'{'")
	for !pk.atAny(token.RBrace, token.EOF) {
		before := pk.read
		pk.member(c)
		if pk.read == before {
			t := pk.advance()
			pk.errorf(diag.SynUnexpectedToken, t.Loc, "unexpected %s in %s body", describe(t), c.Kind())
		}
	}
	pk.expect(token.RBrace, "'}'")
	pk.finishClass(c)
	return flow.Next
}

// inheritance parses the extends and implements clauses.
func (pk *Package) inheritance(isInterface bool) (parent types.ClassID, ifaces []types.ClassID) {
	if pk.accept(token.KwExtends) {
		if isInterface {
			ifaces = pk.interfaceList()
		} else if t, ok := pk.expectName("parent class"); ok {
			if pc := pk.lookupClass(t.Text, t.Loc); pc != nil {
				switch {
				case pc.IsInterface():
					pk.errorf(diag.SemaBadInheritance, t.Loc, "a class cannot extend interface %s, use implements", pc.Name.Absolute())
				case pc.IsFinal():
					pk.errorf(diag.SemaFinalOverride, t.Loc, "cannot extend final class %s", pc.Name.Absolute())
				default:
					parent = pc.ID
				}
			}
		}
	}
	if pk.at(token.KwImplements) {
		t := pk.advance()
		if isInterface {
			pk.errorf(diag.SemaBadInheritance, t.Loc, "an interface cannot implement, use extends")
		}
		ifaces = append(ifaces, pk.interfaceList()...)
	}
	return parent, ifaces
}

func (pk *Package) interfaceList() []types.ClassID {
	var out []types.ClassID
	for {
		t, ok := pk.expectName("interface name")
		if !ok {
			return out
		}
		if ic := pk.lookupClass(t.Text, t.Loc); ic != nil {
			if ic.IsInterface() {
				out = append(out, ic.ID)
			} else {
				pk.errorf(diag.SemaBadInheritance, t.Loc, "%s is a class, not an interface", ic.Name.Absolute())
			}
		}
		if !pk.accept(token.Comma) {
			return out
		}
	}
}

// member parses one class member: constant, property or method. The
// annotation may precede or follow the modifiers.
func (pk *Package) member(c *symbols.Class) {
	d := pk.takeDoc()
	var a *annotation
	if pk.at(token.AnnotationOpen) {
		a = pk.inlineAnnotation()
	}
	mods := pk.modifiers()
	if a == nil && pk.at(token.AnnotationOpen) {
		a = pk.inlineAnnotation()
	}
	if a != nil && a.hasVis {
		if mods.hasVis && mods.vis != a.vis {
			pk.errorf(diag.SynDuplicateModifier, a.loc, "visibility %s conflicts with %s", a.vis, mods.vis)
		}
		if !mods.hasVis {
			mods.vis, mods.hasVis = a.vis, true
		}
	}
	if d != nil && d.private && !mods.hasVis {
		mods.vis = symbols.Private
	}

	t := pk.peek()
	switch t.Kind {
	case token.KwConst:
		pk.classConst(c, mods, d)
	case token.KwFunction:
		pk.method(c, mods, a, d)
	case token.KwUse:
		pk.unsupported(t, "trait use")
	case token.Variable, token.Question, token.Ident, token.Name, token.KwArray:
		pk.property(c, mods, a, d)
	default:
		if mods.hasVis || mods.static || mods.abstract || mods.final || a != nil {
			pk.errorf(diag.SynUnexpectedToken, t.Loc, "expected member declaration, found %s", describe(t))
			pk.resync()
		}
	}
}

func (pk *Package) classConst(c *symbols.Class, mods modifiers, d *docComment) {
	kw := pk.advance()
	if mods.static || mods.abstract || mods.final {
		pk.errorf(diag.SynUnexpectedToken, kw.Loc, "class constants take no static, abstract or final modifier")
	}
	for {
		nameTok, ok := pk.name("constant name", true)
		if !ok {
			pk.resync()
			return
		}
		pk.expect(token.Assign, "'='")
		loc := pk.peek().Loc
		v := pk.parseExpr()
		if !v.Known() && !v.IsUnknown() && !pk.ctx.Types.IsArray(v.Type()) {
			pk.warnf(diag.SemaTypeMismatch, loc, "value of constant %s::%s is not statically known", c.Name.Name(), nameTok.Text)
		}
		k := &symbols.ClassConst{
			Member: symbols.Member{Name: nameTok.Text, Loc: nameTok.Loc, Visibility: mods.vis, Deprecated: d.deprecation()},
			Value:  v,
		}
		if !c.AddConst(k) {
			pk.errorf(diag.SemaDuplicateDecl, nameTok.Loc, "constant %s::%s already declared", c.Name.Name(), nameTok.Text)
		}
		if !pk.accept(token.Comma) {
			break
		}
	}
	pk.expectSemicolon()
}

// property parses "[T] $name [= value] {, $name [= value]};". The type is
// taken from the annotation, the doc comment, the hint, the initial value.
func (pk *Package) property(c *symbols.Class, mods modifiers, a *annotation, d *docComment) {
	if c.IsInterface() {
		pk.errorf(diag.SemaBadInheritance, pk.peek().Loc, "interfaces cannot declare properties")
	}
	if mods.abstract || mods.final {
		pk.errorf(diag.SynUnexpectedToken, mods.loc, "properties cannot be abstract or final")
	}
	hint, nullable := types.NoTypeID, false
	if !pk.at(token.Variable) {
		hint, nullable = pk.hintType()
	}
	for {
		v, ok := pk.expect(token.Variable, "property name")
		if !ok {
			pk.resync()
			return
		}
		typ := types.NoTypeID
		switch {
		case a != nil && a.typ != types.NoTypeID:
			typ = a.typ
		case d != nil && d.varType != "":
			typ = pk.docType(d.varType, d.loc)
		case hint != types.NoTypeID:
			typ = hint
		}
		if pk.accept(token.Assign) {
			loc := pk.peek().Loc
			init := pk.parseExpr()
			switch {
			case typ == types.NoTypeID:
				typ = pk.valueType(init)
				if init.Type() == types.Null {
					typ = types.Mixed
				}
			case init.Type() == types.Null && nullable:
			case !pk.assignable(init, typ):
				pk.errorf(diag.SemaTypeMismatch, loc, "initial value of $%s has type %s, expected %s",
					v.Text, pk.p.ev.TypeName(init), pk.ctx.FormatType(typ))
			}
		}
		if typ == types.NoTypeID {
			typ = types.Mixed
		}
		p := &symbols.Property{
			Member: symbols.Member{Name: v.Text, Loc: v.Loc, Visibility: mods.vis, Deprecated: d.deprecation()},
			Type:   typ,
			Static: mods.static,
		}
		if !c.AddProp(p) {
			pk.errorf(diag.SemaDuplicateDecl, v.Loc, "property %s::$%s already declared", c.Name.Name(), v.Text)
		}
		if !pk.accept(token.Comma) {
			break
		}
	}
	pk.expectSemicolon()
}

// method parses a method declaration and checks it against the overridden
// methods and the forward declaration of the class.
func (pk *Package) method(c *symbols.Class, mods modifiers, a *annotation, d *docComment) {
	pk.advance()
	byRef := pk.accept(token.Amp)
	nameTok, ok := pk.name("method name", true)
	if !ok {
		pk.resync()
		return
	}
	what := fmt.Sprintf("method %s::%s", c.Name.Name(), nameTok.Text)
	abstract := mods.abstract || c.IsInterface()
	switch {
	case mods.abstract && !c.IsAbstract():
		pk.errorf(diag.SemaMissingImplementation, nameTok.Loc, "abstract %s in non-abstract class %s", what, c.Name.Name())
	case mods.abstract && mods.final:
		pk.errorf(diag.SynDuplicateModifier, mods.loc, "%s cannot be both abstract and final", what)
	case c.IsInterface() && mods.vis != symbols.Public:
		pk.errorf(diag.SynUnexpectedToken, mods.loc, "interface %s must be public", what)
	}

	sig, params, infer := pk.signature(a, d)
	sig.ByRefReturn = byRef
	key := strings.ToLower(nameTok.Text)
	if key == "__construct" || key == "__destruct" {
		if !infer && sig.Return != types.Void {
			pk.errorf(diag.SemaBadReturn, nameTok.Loc, "%s cannot return a value", what)
		}
		sig.Return, infer = types.Void, false
	}
	if fm, ok := c.ForwardMethods[key]; ok && infer {
		sig.Return, infer = fm.Sig.Return, false
	}

	m := &symbols.Method{
		Member:   symbols.Member{Name: nameTok.Text, Loc: nameTok.Loc, Visibility: mods.vis, Deprecated: d.deprecation()},
		Sig:      sig,
		Static:   mods.static,
		Abstract: abstract,
		Final:    mods.final,
	}
	if !c.AddMethod(m) {
		pk.errorf(diag.SemaDuplicateDecl, nameTok.Loc, "%s already declared", what)
	}
	pk.callableBody(&callable{what: what, name: nameTok.Text, sig: sig, method: m, infer: infer}, params, abstract)
	pk.checkOverride(c, m)
	pk.checkForwardMethod(c, m)
}

// checkOverride compares m with the methods it overrides or implements.
func (pk *Package) checkOverride(c *symbols.Class, m *symbols.Method) {
	var bases []*symbols.Method
	if c.Parent != types.NoClassID {
		if bm, ok := pk.ctx.Classes.FindMethod(c.Parent, m.Name); ok && bm.Visibility != symbols.Private {
			bases = append(bases, bm)
		}
	}
	for _, iface := range c.Interfaces {
		if bm, ok := pk.ctx.Classes.FindMethod(iface, m.Name); ok && !slices.Contains(bases, bm) {
			bases = append(bases, bm)
		}
	}
	ctor := strings.EqualFold(m.Name, "__construct")
	for _, base := range bases {
		proto := fmt.Sprintf("%s::%s", pk.ctx.Classes.ClassName(base.Class), base.Name)
		if base.Final {
			diag.ReportError(pk.rep, diag.SemaFinalOverride, m.Loc, "cannot override final method "+proto).
				WithNote(base.Loc, "declared final here").
				Emit()
			continue
		}
		if ctor && !base.Abstract {
			continue
		}
		why := ""
		switch {
		case m.Visibility > base.Visibility:
			why = fmt.Sprintf("visibility reduced from %s to %s", base.Visibility, m.Visibility)
		case m.Static != base.Static:
			why = "static modifier differs"
		default:
			why = m.Sig.CallCompatible(base.Sig, pk.ctx.Types, pk.ctx.Classes)
		}
		if why != "" {
			diag.ReportError(pk.rep, diag.SemaIncompatibleSignature, m.Loc,
				fmt.Sprintf("method %s::%s is not compatible with %s: %s", c.Name.Name(), m.Name, proto, why)).
				WithNote(base.Loc, "overridden prototype: "+base.Sig.Format(pk.ctx.Types, pk.ctx.Classes)).
				Emit()
		}
	}
}

// checkForwardMethod compares m with its forward declaration, if any.
func (pk *Package) checkForwardMethod(c *symbols.Class, m *symbols.Method) {
	key := strings.ToLower(m.Name)
	fm, ok := c.ForwardMethods[key]
	if !ok {
		return
	}
	delete(c.ForwardMethods, key)
	why := ""
	switch {
	case m.Visibility != fm.Visibility:
		why = fmt.Sprintf("visibility is %s, forward declaration says %s", m.Visibility, fm.Visibility)
	case m.Static != fm.Static:
		why = "static modifier differs"
	default:
		why = m.Sig.CallCompatible(fm.Sig, pk.ctx.Types, pk.ctx.Classes)
	}
	if why != "" {
		diag.ReportError(pk.rep, diag.SemaForwardMismatch, m.Loc,
			fmt.Sprintf("method %s::%s does not match its forward declaration: %s", c.Name.Name(), m.Name, why)).
			WithNote(fm.Loc, "forward declaration: "+fm.Sig.Format(pk.ctx.Types, pk.ctx.Classes)).
			Emit()
	}
}

// finishClass runs the checks that need the complete class body.
func (pk *Package) finishClass(c *symbols.Class) {
	if !c.IsAbstract() && c.ID != types.NoClassID {
		for _, m := range pk.ctx.Classes.AbstractMethods(c.ID) {
			diag.ReportError(pk.rep, diag.SemaMissingImplementation, c.Loc,
				fmt.Sprintf("class %s must implement %s::%s", c.Name.Name(), pk.ctx.Classes.ClassName(m.Class), m.Name)).
				WithNote(m.Loc, "declared here").
				Emit()
		}
	}
	if len(c.ForwardMethods) > 0 {
		keys := make([]string, 0, len(c.ForwardMethods))
		for k := range c.ForwardMethods {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fm := c.ForwardMethods[k]
			pk.errorf(diag.SemaForwardMismatch, fm.Loc, "method %s::%s declared forward but not implemented", c.Name.Name(), fm.Name)
		}
	}
	c.ForwardMethods = nil
}
