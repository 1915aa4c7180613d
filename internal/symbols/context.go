package symbols

import (
	"fmt"

	"plint/internal/diag"
	"plint/internal/names"
	"plint/internal/source"
	"plint/internal/types"
)

// DefaultUnchecked lists the exception roots that never need a throws
// declaration.
var DefaultUnchecked = []string{"Error", "LogicException"}

// Options configure a Context.
type Options struct {
	// Unchecked exception roots by name; nil means DefaultUnchecked.
	Unchecked []string
	// ResolveMissingClass maps an unknown class to the file expected to
	// declare it. nil disables autoloading.
	ResolveMissingClass func(name names.FQN) (path string, ok bool)
}

// Context is the state of one analysis run: the registries of constants,
// functions and classes, the variables, the loaded packages and the
// reporter. Nothing in it is shared between runs.
type Context struct {
	Types    *types.Interner
	Classes  *Classes
	Vars     *Variables
	Packages *Packages
	Rep      diag.Reporter

	constants map[string]*Constant
	functions map[string]*Function
	constList []*Constant
	funcList  []*Function

	resolveMissing func(names.FQN) (string, bool)
	// AutoloadSeen is set once the program installs an autoload hook.
	AutoloadSeen bool
}

// NewContext builds an empty context.
func NewContext(rep diag.Reporter, opts Options) *Context {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	list := opts.Unchecked
	if list == nil {
		list = DefaultUnchecked
	}
	unchecked := make([]names.FQN, 0, len(list))
	for _, n := range list {
		unchecked = append(unchecked, names.Parse(n, false))
	}
	return &Context{
		Types:          types.NewInterner(),
		Classes:        NewClasses(unchecked),
		Vars:           NewVariables(),
		Packages:       NewPackages(),
		Rep:            rep,
		constants:      make(map[string]*Constant),
		functions:      make(map[string]*Function),
		resolveMissing: opts.ResolveMissingClass,
	}
}

// ResolveMissingClass asks the injected capability where name should be
// declared. It reports false when no autoload hook was seen or no
// capability was configured.
func (ctx *Context) ResolveMissingClass(name names.FQN) (string, bool) {
	if !ctx.AutoloadSeen || ctx.resolveMissing == nil {
		return "", false
	}
	return ctx.resolveMissing(name)
}

// FormatType renders t for messages.
func (ctx *Context) FormatType(t types.TypeID) string {
	return ctx.Types.Format(t, ctx.Classes)
}

func (ctx *Context) duplicate(kind string, name names.FQN, loc, prev source.Location) {
	diag.ReportError(ctx.Rep, diag.SemaDuplicateDecl, loc,
		fmt.Sprintf("%s %s already declared", kind, name.Absolute())).
		WithNote(prev, "previous declaration here").
		Emit()
}

// DeclareConstant registers c. A duplicate is reported and the existing
// constant is returned.
func (ctx *Context) DeclareConstant(c *Constant) *Constant {
	if prev, ok := ctx.constants[c.Name.Key()]; ok {
		ctx.duplicate("constant", c.Name, c.Loc, prev.Loc)
		return prev
	}
	ctx.constants[c.Name.Key()] = c
	ctx.constList = append(ctx.constList, c)
	return c
}

// DeclareFunction registers fn. A definition following a forward
// declaration must be call-compatible with it and takes its place; any
// other clash is a duplicate.
func (ctx *Context) DeclareFunction(fn *Function) *Function {
	prev, ok := ctx.functions[fn.Name.Key()]
	if !ok {
		ctx.functions[fn.Name.Key()] = fn
		ctx.funcList = append(ctx.funcList, fn)
		return fn
	}
	if prev.Forward && !fn.Forward {
		if why := fn.Sig.CallCompatible(prev.Sig, ctx.Types, ctx.Classes); why != "" {
			diag.ReportError(ctx.Rep, diag.SemaForwardMismatch, fn.Loc,
				fmt.Sprintf("function %s does not match its forward declaration: %s", fn.Name, why)).
				WithNote(prev.Loc, "forward declaration: "+prev.Sig.Format(ctx.Types, ctx.Classes)).
				Emit()
		}
		used := prev.Used
		*prev = *fn
		prev.Used = used
		return prev
	}
	ctx.duplicate("function", fn.Name, fn.Loc, prev.Loc)
	return prev
}

// DeclareClass registers c and returns the class to fill in. A class
// following its forward declaration keeps the forward ID; the forward
// methods move to ForwardMethods so the parser can check them.
func (ctx *Context) DeclareClass(c *Class) *Class {
	prev, ok := ctx.Classes.Lookup(c.Name)
	if !ok {
		ctx.Classes.New(c)
		return c
	}
	if prev.Forward && !c.Forward {
		prev.ForwardMethods = prev.Methods
		newClassBody(prev)
		prev.Forward = false
		prev.Loc = c.Loc
		prev.Package = c.Package
		prev.Flags = c.Flags
		prev.Visibility = c.Visibility
		prev.Deprecated = c.Deprecated
		return prev
	}
	ctx.duplicate(c.Kind(), c.Name, c.Loc, prev.Loc)
	return nil
}

// Constant returns the constant registered under name, without fallback.
func (ctx *Context) Constant(name names.FQN) (*Constant, bool) {
	c, ok := ctx.constants[name.Key()]
	return c, ok
}

// Function returns the function registered under name, without fallback.
func (ctx *Context) Function(name names.FQN) (*Function, bool) {
	f, ok := ctx.functions[name.Key()]
	return f, ok
}

// Constants returns all constants in declaration order.
func (ctx *Context) Constants() []*Constant { return ctx.constList }

// Functions returns all functions in declaration order.
func (ctx *Context) Functions() []*Function { return ctx.funcList }
