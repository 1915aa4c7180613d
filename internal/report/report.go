// Package report produces the end-of-run findings that need the whole
// program: unused private entities of the entry file and the list of
// loaded packages with their dependencies.
package report

import (
	"fmt"
	"slices"
	"strings"

	"plint/internal/diag"
	"plint/internal/source"
	"plint/internal/symbols"
)

// PackageInfo is one line of the package list.
type PackageInfo struct {
	Path       string
	Module     bool
	Library    bool
	Reason     string // why the file is not a library
	ReasonLoc  source.Location
	Autoloaded bool
	Used       int
	Requires   []string
}

// Summary is what Run found besides the diagnostics it emits.
type Summary struct {
	Entry    string
	Packages []PackageInfo
}

// Run reports unused entities declared in entry and checks the
// dependencies of every loaded package.
func Run(ctx *symbols.Context, entry *symbols.Package) Summary {
	r := &reporter{ctx: ctx, entry: entry}
	r.constants()
	r.functions()
	r.classes()
	r.globals()
	r.dependencies()
	return Summary{Entry: entry.Path, Packages: r.packageList()}
}

type reporter struct {
	ctx   *symbols.Context
	entry *symbols.Package
}

func (r *reporter) unused(loc source.Location, format string, args ...any) {
	diag.ReportNotice(r.ctx.Rep, diag.SemaUnusedSymbol, loc, fmt.Sprintf(format, args...)).Emit()
}

func (r *reporter) owned(d *symbols.Decl) bool {
	return d.Package == r.entry.ID
}

func (r *reporter) constants() {
	for _, c := range r.ctx.Constants() {
		if r.owned(&c.Decl) && c.IsPrivate() && c.Used == 0 {
			r.unused(c.Loc, "unused private constant %s", c.Name.Absolute())
		}
	}
}

func (r *reporter) functions() {
	for _, f := range r.ctx.Functions() {
		if r.owned(&f.Decl) && f.IsPrivate() && f.Used == 0 {
			r.unused(f.Loc, "unused private function %s", f.Name.Absolute())
		}
	}
}

// classes reports unused private classes and, in every class of the entry
// file, private members nothing refers to. Magic methods are exempt.
func (r *reporter) classes() {
	for _, c := range r.ctx.Classes.All() {
		if !r.owned(&c.Decl) {
			continue
		}
		if c.IsPrivate() && c.Used == 0 {
			r.unused(c.Loc, "unused private %s %s", c.Kind(), c.Name.Absolute())
		}
		for _, name := range c.ConstOrder {
			if k := c.Consts[name]; k.Visibility == symbols.Private && k.Used == 0 {
				r.unused(k.Loc, "unused private constant %s::%s", c.Name.Name(), k.Name)
			}
		}
		for _, name := range c.PropOrder {
			if p := c.Props[name]; p.Visibility == symbols.Private && p.Used == 0 {
				r.unused(p.Loc, "unused private property %s::$%s", c.Name.Name(), p.Name)
			}
		}
		for _, key := range c.MethodOrder {
			m := c.Methods[key]
			if m.Visibility == symbols.Private && m.Used == 0 && !strings.HasPrefix(key, "__") {
				r.unused(m.Loc, "unused private method %s::%s", c.Name.Name(), m.Name)
			}
		}
	}
}

// globals reports global variables of the entry file that were assigned
// but never read.
func (r *reporter) globals() {
	for _, v := range r.ctx.Vars.Globals() {
		if v.Package != r.entry.ID || v.Scope != symbols.ScopeGlobal {
			continue
		}
		if v.Assigned && !v.Used {
			diag.ReportNotice(r.ctx.Rep, diag.SemaUnusedVariable, v.Loc,
				fmt.Sprintf("global variable $%s is assigned but never used", v.Name)).Emit()
		}
	}
}

// dependencies compares what each file requires with what it uses.
// Implicit modules and autoloaded files need no require.
func (r *reporter) dependencies() {
	for _, p := range r.ctx.Packages.All() {
		if p.Module {
			continue
		}
		for _, id := range sortedIDs(p.Requires) {
			dep := r.ctx.Packages.Get(id)
			if dep == nil {
				continue
			}
			if _, used := p.Uses[id]; !used {
				diag.ReportNotice(r.ctx.Rep, diag.SemaUnusedPackage, p.Requires[id],
					fmt.Sprintf("%s is required but nothing from it is used", displayName(dep))).Emit()
			}
		}
		for _, id := range sortedIDs(p.Uses) {
			dep := r.ctx.Packages.Get(id)
			if dep == nil || dep.Implicit || dep.Autoloaded {
				continue
			}
			if _, required := p.Requires[id]; !required {
				diag.ReportWarning(r.ctx.Rep, diag.SemaPackageNotRequired, p.Uses[id],
					fmt.Sprintf("%s is used but not required", displayName(dep))).Emit()
			}
		}
	}
}

func (r *reporter) packageList() []PackageInfo {
	all := r.ctx.Packages.All()
	out := make([]PackageInfo, 0, len(all))
	for _, p := range all {
		info := PackageInfo{
			Path:       displayName(p),
			Module:     p.Module,
			Library:    p.IsLibrary(),
			Reason:     p.NotLibrary,
			ReasonLoc:  p.NotLibraryLoc,
			Autoloaded: p.Autoloaded,
			Used:       p.Used,
		}
		for _, id := range sortedIDs(p.Requires) {
			if dep := r.ctx.Packages.Get(id); dep != nil {
				info.Requires = append(info.Requires, displayName(dep))
			}
		}
		out = append(out, info)
	}
	return out
}

func displayName(p *symbols.Package) string {
	if p.Module {
		return "module " + strings.TrimPrefix(p.Path, "module:")
	}
	return p.Path
}

func sortedIDs[V any](m map[symbols.PackageID]V) []symbols.PackageID {
	ids := make([]symbols.PackageID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
