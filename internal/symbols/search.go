package symbols

import (
	"fmt"
	"strings"

	"plint/internal/diag"
	"plint/internal/names"
	"plint/internal/source"
)

// The Search* functions resolve a name as written in the source. The
// resolver is applied first; when nothing is registered under the result
// the lookup falls back to the current namespace, then to the global
// namespace, then to the alias targets. A match spelled differently only
// by letter case is reported.

// SearchConstant finds the constant name refers to. The resolved name is
// returned even when nothing was found, for the error message.
func (ctx *Context) SearchConstant(res *names.Resolver, name string, loc source.Location) (*Constant, names.FQN) {
	fqn := res.Resolve(name, true, false)
	found, written := search(func(key string) (*Constant, bool) {
		c, ok := ctx.constants[key]
		return c, ok
	}, res, name, fqn, true)
	if found == nil {
		return nil, fqn
	}
	ctx.checkSpelling("constant", written, found.Name, loc, found.Loc)
	return found, found.Name
}

// SearchFunction finds the function name refers to.
func (ctx *Context) SearchFunction(res *names.Resolver, name string, loc source.Location) (*Function, names.FQN) {
	fqn := res.Resolve(name, false, false)
	found, written := search(func(key string) (*Function, bool) {
		f, ok := ctx.functions[key]
		return f, ok
	}, res, name, fqn, false)
	if found == nil {
		return nil, fqn
	}
	ctx.checkSpelling("function", written, found.Name, loc, found.Loc)
	return found, found.Name
}

// SearchClass finds the class or interface name refers to.
func (ctx *Context) SearchClass(res *names.Resolver, name string, loc source.Location) (*Class, names.FQN) {
	fqn := res.Resolve(name, false, true)
	found, written := search(func(key string) (*Class, bool) {
		id, ok := ctx.Classes.byKey[key]
		if !ok {
			return nil, false
		}
		return ctx.Classes.Get(id), true
	}, res, name, fqn, false)
	if found == nil {
		return nil, fqn
	}
	ctx.checkSpelling(found.Kind(), written, found.Name, loc, found.Loc)
	return found, found.Name
}

func search[T any](lookup func(key string) (T, bool), res *names.Resolver, name string, fqn names.FQN, constant bool) (T, names.FQN) {
	var zero T
	if v, ok := lookup(fqn.Key()); ok {
		return v, fqn
	}
	qualified := strings.Contains(name, `\`)
	if !qualified && res.InNamespace() {
		local := names.New(res.Namespace(), name, constant)
		if v, ok := lookup(local.Key()); ok {
			return v, local
		}
	}
	if !strings.HasPrefix(name, `\`) {
		global := names.Parse(name, constant)
		if v, ok := lookup(global.Key()); ok {
			return v, global
		}
	}
	if !qualified {
		if a, ok := res.AliasTarget(name); ok {
			target := names.Parse(a.Target, constant)
			if v, ok := lookup(target.Key()); ok {
				res.MarkUsed(a)
				return v, target
			}
		}
	}
	return zero, fqn
}

func (ctx *Context) checkSpelling(kind string, written, declared names.FQN, loc, declLoc source.Location) {
	if written.SameSpelling(declared) {
		return
	}
	diag.ReportWarning(ctx.Rep, diag.SemaCaseMismatch, loc,
		fmt.Sprintf("%s %s is declared as %s", kind, written.Absolute(), declared.Absolute())).
		WithNote(declLoc, "declared here").
		Emit()
}
