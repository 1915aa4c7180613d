package parser

import (
	"fmt"

	"plint/internal/diag"
	"plint/internal/flow"
	"plint/internal/lexer"
	"plint/internal/names"
	"plint/internal/source"
	"plint/internal/symbols"
	"plint/internal/throws"
	"plint/internal/token"
	"plint/internal/types"
)

// Package: состояние разбора одного файла. It lives for the duration of
// the parse; what outlives it is recorded in the symbols.Package.
type Package struct {
	p   *Parser
	ctx *symbols.Context
	rep diag.Reporter
	lx  *lexer.Lexer
	res *names.Resolver
	sym *symbols.Package

	buf  []token.Token   // lookahead, at most two tokens
	last source.Location // location of the last consumed token
	read int             // tokens consumed, for progress checks

	ann     *annotation
	doc     *docComment
	code    bool // a statement other than tags and markup was seen
	nesting int  // statement blocks around the current statement

	fn    *callable
	class *symbols.Class

	// counters that must be back to zero at end of file
	loops    int
	switches int
	tries    []*tryFrame
	silence  int

	varsDepth int
	effects   int // side-effecting expressions parsed, for unused results
}

// callable is the function or method whose body is being parsed.
type callable struct {
	what   string // "function f" or "method C::m"
	name   string
	sig    *symbols.Signature
	method *symbols.Method
	// inferred return type: set by the first return statement
	infer bool
}

// tryFrame collects what is thrown inside one try block.
type tryFrame struct {
	set  *throws.ExceptionsSet
	locs map[types.ClassID]source.Location
}

func newPackage(p *Parser, r source.Reader, sym *symbols.Package) *Package {
	return &Package{
		p:         p,
		ctx:       p.ctx,
		rep:       p.ctx.Rep,
		lx:        lexer.New(r, lexer.Options{Reporter: p.ctx.Rep}),
		res:       names.NewResolver(p.ctx.Rep),
		sym:       sym,
		varsDepth: p.ctx.Vars.Depth(),
	}
}

// parseSafely runs the parse and turns a scanner fatal or a bailout into a
// diagnostic. Scopes left open by the aborted file are closed.
func (pk *Package) parseSafely() {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch f := r.(type) {
		case *lexer.Fatal:
			diag.ReportError(pk.rep, f.Code, f.Loc, f.Msg).Emit()
		case *bailout:
			diag.ReportError(pk.rep, f.code, f.loc, f.msg).Emit()
		default:
			panic(r)
		}
		pk.sym.Demote("parse aborted", pk.last)
		for pk.ctx.Vars.Depth() > pk.varsDepth {
			pk.ctx.Vars.Exit()
		}
	}()
	pk.parseFile()
}

// parseFile is the top-level loop.
func (pk *Package) parseFile() {
	first := pk.peek()
	if pk.lx.HadBOM() {
		pk.sym.Demote("byte order mark", source.Location{File: pk.sym.Path, Line: 1, Col: 1})
	}
	if pk.lx.HadShebang() {
		pk.sym.Demote("shebang line", source.Location{File: pk.sym.Path, Line: 1, Col: 1})
	}
	if first.Kind == token.InlineHTML {
		pk.sym.Demote("text before the opening tag", first.Loc)
	}

	seq := flow.NewSequence()
	for !pk.at(token.EOF) {
		pk.statementInto(seq)
	}
	pk.flushStash()
	pk.res.Close()

	if !pk.code && !pk.sym.Module {
		diag.ReportNotice(pk.rep, diag.SemaNoCode, pk.last, "no code found").Emit()
		pk.sym.Demote("no code", pk.last)
	}
	pk.assertBalanced()
}

// statementInto parses one statement and adds its flow to seq, flagging
// the first statement that cannot be reached.
func (pk *Package) statementInto(seq *flow.Sequence) {
	t := pk.peek()
	start := pk.read
	pendingAnn, pendingDoc := pk.ann, pk.doc

	if isStructural(t.Kind) || pk.startsDeclaration() {
		pk.statement()
	} else if seq.Add(pk.statement()) {
		diag.ReportError(pk.rep, diag.SemaUnreachable, t.Loc, "unreachable statement").Emit()
	}

	if t.Kind != token.AnnotationOpen {
		if pk.ann != nil && pk.ann == pendingAnn {
			pk.unusedAnnotation()
		}
		if pk.doc != nil && pk.doc == pendingDoc {
			pk.unusedDoc()
		}
	}
	if pk.read == start {
		pk.errorf(diag.SynUnexpectedToken, t.Loc, "unexpected %s", describe(t))
		pk.advance()
	}
}

func isStructural(k token.Kind) bool {
	switch k {
	case token.OpenTag, token.CloseTag, token.InlineHTML, token.AnnotationOpen, token.Semicolon:
		return true
	default:
		return false
	}
}

// startsDeclaration reports whether the next statement declares a
// function, class or interface; declarations are never unreachable.
func (pk *Package) startsDeclaration() bool {
	switch pk.peek().Kind {
	case token.KwClass, token.KwInterface, token.KwAbstract, token.KwFinal:
		return true
	case token.KwFunction:
		return pk.peek2().Kind != token.LParen
	default:
		return false
	}
}

func (pk *Package) unusedAnnotation() {
	diag.ReportError(pk.rep, diag.SynUnusedAnnotation, pk.ann.loc, "unused annotation").Emit()
	pk.ann = nil
}

func (pk *Package) unusedDoc() {
	diag.ReportNotice(pk.rep, diag.SynUnusedAnnotation, pk.doc.loc, "unused documentation comment").Emit()
	pk.doc = nil
}

// flushStash reports a stash left at end of file.
func (pk *Package) flushStash() {
	if pk.ann != nil {
		pk.unusedAnnotation()
	}
	if pk.doc != nil {
		pk.unusedDoc()
	}
}

// takeAnnotation hands the pending annotation to a declaration.
func (pk *Package) takeAnnotation() *annotation {
	a := pk.ann
	pk.ann = nil
	return a
}

// takeDoc hands the pending doc comment to a declaration.
func (pk *Package) takeDoc() *docComment {
	d := pk.doc
	pk.doc = nil
	return d
}

func (pk *Package) assertBalanced() {
	if pk.loops != 0 || pk.switches != 0 || len(pk.tries) != 0 || pk.silence != 0 {
		panic(&bailout{
			code: diag.SemaInternal,
			loc:  pk.last,
			msg: fmt.Sprintf("internal error: unbalanced counters at end of file (loops=%d switches=%d tries=%d silence=%d)",
				pk.loops, pk.switches, len(pk.tries), pk.silence),
		})
	}
}

// scopeClass is the class whose private and protected members the current
// code may access.
func (pk *Package) scopeClass() types.ClassID {
	if pk.class == nil {
		return types.NoClassID
	}
	return pk.class.ID
}
