package parser

import (
	"fmt"

	"plint/internal/diag"
	"plint/internal/result"
	"plint/internal/source"
	"plint/internal/symbols"
	"plint/internal/token"
)

// includeExpr parses include, include_once, require and require_once.
// Only require with a static path is followed.
func (pk *Package) includeExpr() operand {
	kw := pk.advance()
	pk.effects++
	loc := pk.peek().Loc
	v := pk.rvalue(pk.binary(precAssignment))
	if kw.Kind == token.KwRequire || kw.Kind == token.KwRequireOnce {
		pk.requireFile(kw, v, loc)
	}
	return valueOf(result.Unknown, kw.Loc)
}

// requireFile parses the required file, if not loaded yet, and records
// the dependency.
func (pk *Package) requireFile(kw token.Token, v result.Result, loc source.Location) {
	if pk.fn != nil {
		pk.errorf(diag.SynMisplacedDirective, kw.Loc, "%s inside a function is not followed", kw.Kind)
		return
	}
	path, ok := v.StringValue()
	if !ok {
		pk.warnf(diag.SynMisplacedDirective, loc, "cannot follow %s: the path is not a static string", kw.Kind)
		return
	}
	path = source.ResolveRelative(pk.sym.Path, path)
	if abs, err := source.AbsolutePath(path); err == nil {
		path = abs
	}

	if dep, loaded := pk.ctx.Packages.ByPath(path); loaded {
		if !dep.Done {
			pk.warnf(diag.ProjDependencyCycle, kw.Loc, "circular require of %s", path)
			return
		}
		pk.checkDependency(dep, kw.Loc)
		return
	}
	depth := pk.sym.Depth + 1
	if depth > pk.p.opts.MaxDepth {
		pk.errorf(diag.ProjDepthExceeded, kw.Loc, "requiring %s exceeds the nesting limit of %d", path, pk.p.opts.MaxDepth)
		return
	}
	pk.checkDependency(pk.p.ParseFile(path, depth), kw.Loc)
}

// checkDependency records that the current file requires dep, which must
// be library-eligible.
func (pk *Package) checkDependency(dep *symbols.Package, loc source.Location) {
	if dep.ID == pk.sym.ID {
		return
	}
	pk.sym.Require(dep.ID, loc)
	if dep.IsLibrary() {
		return
	}
	diag.ReportError(pk.rep, diag.ProjBadDependency, loc,
		fmt.Sprintf("%s cannot be required as a library: %s", dep.Path, dep.NotLibrary)).
		WithNote(dep.NotLibraryLoc, "reason found here").
		Emit()
}
