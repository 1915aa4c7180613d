package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"plint/internal/diag"
	"plint/internal/names"
	"plint/internal/result"
	"plint/internal/source"
	"plint/internal/symbols"
	"plint/internal/trace"
)

// DefaultMaxDepth bounds nested requires and autoloads.
const DefaultMaxDepth = 32

// ModuleSource returns the declarations of a built-in module by name.
type ModuleSource func(name string) (path, text string, ok bool)

// Options configure a Parser.
type Options struct {
	// Encoding of the analysed files; "" means UTF-8.
	Encoding string
	// Modules resolves the names given to require_module.
	Modules ModuleSource
	// Sandbox refuses require_module of a module not loaded yet in files
	// below the top level.
	Sandbox  bool
	MaxDepth int

	Tracer trace.Tracer
	// SpanID is the parent of the per-file spans.
	SpanID uint64
}

// Parser drives one analysis run: it parses files into the shared
// Context, recursing into required and autoloaded files.
type Parser struct {
	ctx  *symbols.Context
	opts Options
	ev   *result.Evaluator
}

// New returns a parser filling ctx.
func New(ctx *symbols.Context, opts Options) *Parser {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	return &Parser{
		ctx:  ctx,
		opts: opts,
		ev:   result.NewEvaluator(ctx.Types, ctx.Classes, ctx.Rep),
	}
}

// Context returns the context the parser fills.
func (p *Parser) Context() *symbols.Context { return p.ctx }

// bailout aborts the parse of the current file; it is recovered at the
// file boundary like a scanner fatal.
type bailout struct {
	code diag.Code
	loc  source.Location
	msg  string
}

// ParseFile parses the file at path. A path already loaded is not parsed
// again: its package is returned as is.
func (p *Parser) ParseFile(path string, depth int) *symbols.Package {
	if abs, err := source.AbsolutePath(path); err == nil {
		path = abs
	}
	if pkg, ok := p.ctx.Packages.ByPath(path); ok {
		return pkg
	}
	sym, _ := p.ctx.Packages.Register(path, false)
	sym.Depth = depth

	r, err := source.OpenFile(path, p.opts.Encoding)
	if err != nil {
		code := diag.IOReadError
		if errors.Is(err, fs.ErrNotExist) {
			code = diag.IOFileNotFound
		}
		diag.ReportError(p.ctx.Rep, code, source.Location{File: path}, err.Error()).Emit()
		sym.Demote("cannot be read", source.Location{File: path})
		sym.Done = true
		return sym
	}
	defer func() { _ = r.Close() }()
	p.parse(r, sym)
	return sym
}

// LoadModule parses the built-in module name once and returns its package.
func (p *Parser) LoadModule(name string, implicit bool, loc source.Location) (*symbols.Package, bool) {
	key := "module:" + strings.ToLower(name)
	if pkg, ok := p.ctx.Packages.ByPath(key); ok {
		return pkg, true
	}
	if p.opts.Modules == nil {
		diag.ReportError(p.ctx.Rep, diag.ProjModuleNotFound, loc, fmt.Sprintf("module %q not found: no module source configured", name)).Emit()
		return nil, false
	}
	path, text, ok := p.opts.Modules(name)
	if !ok {
		diag.ReportError(p.ctx.Rep, diag.ProjModuleNotFound, loc, fmt.Sprintf("module %q not found", name)).Emit()
		return nil, false
	}
	sym, _ := p.ctx.Packages.Register(key, true)
	sym.Implicit = implicit
	p.parse(source.NewStringReader(path, text), sym)
	return sym, true
}

// IsModuleLoaded reports whether the named module was parsed already.
func (p *Parser) IsModuleLoaded(name string) bool {
	_, ok := p.ctx.Packages.ByPath("module:" + strings.ToLower(name))
	return ok
}

func (p *Parser) parse(r source.Reader, sym *symbols.Package) {
	span := trace.Begin(p.opts.Tracer, trace.ScopeFile, "parse", p.opts.SpanID).WithExtra("path", sym.Path)
	pk := newPackage(p, r, sym)
	pk.parseSafely()
	sym.Done = true
	span.End(fmt.Sprintf("depth=%d", sym.Depth))
}

// autoload asks the context for the file declaring name and parses it.
// It reports whether a file was parsed.
func (p *Parser) autoload(name names.FQN, from *Package, loc source.Location) bool {
	path, ok := p.ctx.ResolveMissingClass(name)
	if !ok {
		return false
	}
	if !filepath.IsAbs(path) {
		path = source.ResolveRelative(from.sym.Path, path)
	}
	if _, loaded := p.ctx.Packages.ByPath(path); loaded {
		return false
	}
	depth := from.sym.Depth + 1
	if depth > p.opts.MaxDepth {
		diag.ReportError(p.ctx.Rep, diag.ProjDepthExceeded, loc,
			fmt.Sprintf("autoloading %s exceeds the nesting limit of %d", name.Absolute(), p.opts.MaxDepth)).Emit()
		return false
	}
	trace.Point(p.opts.Tracer, trace.ScopeDetail, "autoload", name.Absolute()+" -> "+path, p.opts.SpanID)
	dep := p.ParseFile(path, depth)
	dep.Autoloaded = true
	from.sym.Require(dep.ID, loc)
	return true
}
