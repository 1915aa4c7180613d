package symbols

import (
	"fmt"

	"plint/internal/diag"
	"plint/internal/source"
	"plint/internal/types"
)

// AccessConstant records a use of c from package from.
func (ctx *Context) AccessConstant(c *Constant, from PackageID, loc source.Location) {
	ctx.accessDecl("constant", &c.Decl, from, loc)
}

// AccessFunction records a call of f from package from.
func (ctx *Context) AccessFunction(f *Function, from PackageID, loc source.Location) {
	ctx.accessDecl("function", &f.Decl, from, loc)
}

// AccessClass records a use of c from package from.
func (ctx *Context) AccessClass(c *Class, from PackageID, loc source.Location) {
	ctx.accessDecl(c.Kind(), &c.Decl, from, loc)
}

// accessDecl checks visibility and deprecation of a top-level entity and
// counts the use. Private entities are private to their file.
func (ctx *Context) accessDecl(kind string, d *Decl, from PackageID, loc source.Location) {
	if d.IsPrivate() && d.Package != from {
		diag.ReportError(ctx.Rep, diag.SemaPrivateAccess, loc,
			fmt.Sprintf("%s %s is private to %s", kind, d.Name.Absolute(), ctx.packagePath(d.Package))).
			WithNote(d.Loc, "declared here").
			Emit()
	}
	if d.Deprecated != "" {
		diag.ReportWarning(ctx.Rep, diag.SemaDeprecated, loc,
			fmt.Sprintf("%s %s is deprecated: %s", kind, d.Name.Absolute(), d.Deprecated)).Emit()
	}
	d.Used++
	ctx.countUse(d.Package, from, loc)
}

// countUse increments the usage of the owning package when the access
// crosses files.
func (ctx *Context) countUse(owner, from PackageID, loc source.Location) {
	if owner == from || !owner.IsValid() {
		return
	}
	if p := ctx.Packages.Get(owner); p != nil {
		p.Used++
	}
	if p := ctx.Packages.Get(from); p != nil {
		if _, ok := p.Uses[owner]; !ok {
			p.Uses[owner] = loc
		}
	}
}

func (ctx *Context) packagePath(id PackageID) string {
	if p := ctx.Packages.Get(id); p != nil {
		return p.Path
	}
	return "?"
}

// AccessMember checks and counts an access to a class member from code
// inside class scope (NoClassID outside any class) of package from.
// Private members are private to their class; protected members are
// visible along the hierarchy.
func (ctx *Context) AccessMember(kind string, m *Member, scope types.ClassID, from PackageID, loc source.Location) {
	owner := ctx.Classes.Get(m.Class)
	ownerName := ctx.Classes.ClassName(m.Class)
	switch m.Visibility {
	case Private:
		if scope != m.Class {
			diag.ReportError(ctx.Rep, diag.SemaPrivateAccess, loc,
				fmt.Sprintf("%s %s::%s is private", kind, ownerName, m.Name)).
				WithNote(m.Loc, "declared here").
				Emit()
		}
	case Protected:
		if scope == types.NoClassID ||
			!(ctx.Classes.IsSubclassOf(scope, m.Class) || ctx.Classes.IsSubclassOf(m.Class, scope)) {
			diag.ReportError(ctx.Rep, diag.SemaProtectedAccess, loc,
				fmt.Sprintf("%s %s::%s is protected", kind, ownerName, m.Name)).
				WithNote(m.Loc, "declared here").
				Emit()
		}
	}
	if m.Deprecated != "" {
		diag.ReportWarning(ctx.Rep, diag.SemaDeprecated, loc,
			fmt.Sprintf("%s %s::%s is deprecated: %s", kind, ownerName, m.Name, m.Deprecated)).Emit()
	}
	m.Used++
	if owner != nil {
		ctx.countUse(owner.Package, from, loc)
	}
}
