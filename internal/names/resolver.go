package names

import (
	"fmt"
	"strings"

	"plint/internal/diag"
	"plint/internal/source"
)

// Alias is one "use target [as alias]" entry.
type Alias struct {
	Target string // fully qualified, no leading separator
	Name   string // alias as written
	Loc    source.Location
	Used   int
}

// Resolver maps names written in a file to fully qualified names, given the
// current namespace and the aliases in effect.
type Resolver struct {
	ns      string
	aliases []*Alias
	byName  map[string]*Alias
	rep     diag.Reporter
}

// NewResolver returns a resolver for the global namespace.
func NewResolver(rep diag.Reporter) *Resolver {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	return &Resolver{rep: rep, byName: make(map[string]*Alias)}
}

// Open starts a namespace. Aliases of the previous namespace are closed.
func (r *Resolver) Open(ns string) {
	r.Close()
	r.ns = strings.Trim(ns, `\`)
}

// Namespace returns the current namespace, "" for global.
func (r *Resolver) Namespace() string { return r.ns }

// InNamespace reports whether a non-global namespace is open.
func (r *Resolver) InNamespace() bool { return r.ns != "" }

// AddUse registers "use target [as alias]". An empty alias defaults to the
// last segment of target. A duplicate alias is an error.
func (r *Resolver) AddUse(target, alias string, loc source.Location) {
	target = strings.Trim(target, `\`)
	if alias == "" {
		alias = lastSegment(target)
	}
	key := strings.ToLower(alias)
	if prev, ok := r.byName[key]; ok {
		diag.ReportError(r.rep, diag.SemaDuplicateDecl, loc,
			fmt.Sprintf("alias %s already defined for %s", alias, prev.Target)).
			WithNote(prev.Loc, "previous use here").
			Emit()
		return
	}
	a := &Alias{Target: target, Name: alias, Loc: loc}
	r.aliases = append(r.aliases, a)
	r.byName[key] = a
}

// Resolve returns the fully qualified name of name.
//   - "\A\B" is taken verbatim;
//   - "namespace\X" is relative to the current namespace;
//   - in "A\B" only the leading segment is matched against aliases;
//   - a bare identifier consults aliases only when resolving a class;
//   - anything unmatched gets the current namespace prefixed.
func (r *Resolver) Resolve(name string, isConstant, isClass bool) FQN {
	if strings.HasPrefix(name, `\`) {
		return Parse(name, isConstant)
	}
	if len(name) > 10 && strings.EqualFold(name[:10], `namespace\`) {
		return r.prefix(name[10:], isConstant)
	}
	if i := strings.IndexByte(name, '\\'); i >= 0 {
		if a, ok := r.byName[strings.ToLower(name[:i])]; ok {
			a.Used++
			return Parse(a.Target+name[i:], isConstant)
		}
		return r.prefix(name, isConstant)
	}
	if isClass {
		if a, ok := r.byName[strings.ToLower(name)]; ok {
			a.Used++
			return Parse(a.Target, false)
		}
	}
	return r.prefix(name, isConstant)
}

func (r *Resolver) prefix(name string, isConstant bool) FQN {
	if r.ns == "" {
		return Parse(name, isConstant)
	}
	return Parse(r.ns+`\`+name, isConstant)
}

// AliasTarget looks up a bare name among the aliases without counting a
// use; see MarkUsed.
func (r *Resolver) AliasTarget(name string) (*Alias, bool) {
	a, ok := r.byName[strings.ToLower(name)]
	return a, ok
}

// MarkUsed counts a use of an alias found through AliasTarget.
func (r *Resolver) MarkUsed(a *Alias) {
	if a != nil {
		a.Used++
	}
}

// Aliases returns the aliases in declaration order.
func (r *Resolver) Aliases() []*Alias { return r.aliases }

// Close reports every alias that was never used and clears the table.
func (r *Resolver) Close() {
	for _, a := range r.aliases {
		if a.Used == 0 {
			diag.ReportNotice(r.rep, diag.SemaUnusedAlias, a.Loc,
				fmt.Sprintf("unused alias %s (use %s)", a.Name, a.Target)).Emit()
		}
	}
	r.aliases = nil
	r.byName = make(map[string]*Alias)
}

func lastSegment(s string) string {
	if i := strings.LastIndexByte(s, '\\'); i >= 0 {
		return s[i+1:]
	}
	return s
}
