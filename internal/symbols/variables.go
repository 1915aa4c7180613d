package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"plint/internal/source"
	"plint/internal/types"
)

// VarScope tags where a variable lives.
type VarScope uint8

const (
	ScopeSuperglobal VarScope = iota
	ScopeGlobal
	ScopeLocal
)

func (s VarScope) String() string {
	switch s {
	case ScopeSuperglobal:
		return "superglobal"
	case ScopeGlobal:
		return "global"
	default:
		return "local"
	}
}

// Superglobals are visible in every scope without a global statement.
var Superglobals = []string{
	"GLOBALS", "_SERVER", "_GET", "_POST", "_COOKIE", "_FILES", "_ENV", "_REQUEST", "_SESSION",
}

// Variable is one program variable.
type Variable struct {
	Name     string
	Scope    VarScope
	Loc      source.Location
	Package  PackageID
	Assigned bool
	Used     bool
	Type     types.TypeID
}

type varSlot struct {
	v    Variable
	gen  uint32
	live bool
}

type varFrame struct {
	names map[string]VarID
	// owned are the slots allocated by this frame; bound globals are not
	// freed on exit.
	owned []VarID
}

// Variables is a generational slot map plus a stack of name frames. Frame 0
// is the global scope. Exiting a frame frees its slots; their handles stop
// resolving because the generation moves on.
type Variables struct {
	slots  []varSlot
	free   []uint32
	frames []varFrame
	super  map[string]VarID
}

// NewVariables returns a map with the global frame open and the
// superglobals declared.
func NewVariables() *Variables {
	vs := &Variables{super: make(map[string]VarID)}
	vs.frames = append(vs.frames, varFrame{names: make(map[string]VarID)})
	for _, name := range Superglobals {
		id := vs.alloc(Variable{
			Name:     name,
			Scope:    ScopeSuperglobal,
			Assigned: true,
			Used:     true,
			Type:     types.Mixed,
		})
		vs.super[name] = id
	}
	return vs
}

func (vs *Variables) alloc(v Variable) VarID {
	if n := len(vs.free); n > 0 {
		idx := vs.free[n-1]
		vs.free = vs.free[:n-1]
		s := &vs.slots[idx]
		s.gen++
		s.v = v
		s.live = true
		return VarID{index: idx, gen: s.gen}
	}
	idx, err := safecast.Conv[uint32](len(vs.slots))
	if err != nil {
		panic(fmt.Errorf("variables slot map overflow: %w", err))
	}
	vs.slots = append(vs.slots, varSlot{v: v, gen: 1, live: true})
	return VarID{index: idx, gen: 1}
}

// Depth returns the number of open frames; 1 means global scope.
func (vs *Variables) Depth() int { return len(vs.frames) }

// InFunction reports whether a local frame is open.
func (vs *Variables) InFunction() bool { return len(vs.frames) > 1 }

// Enter opens a local frame.
func (vs *Variables) Enter() {
	vs.frames = append(vs.frames, varFrame{names: make(map[string]VarID)})
}

// Exit closes the innermost local frame and returns copies of the variables
// it owned, for unused-variable reporting.
func (vs *Variables) Exit() []Variable {
	if len(vs.frames) <= 1 {
		panic("variables: exit from the global frame")
	}
	top := vs.frames[len(vs.frames)-1]
	vs.frames = vs.frames[:len(vs.frames)-1]
	out := make([]Variable, 0, len(top.owned))
	for _, id := range top.owned {
		s := &vs.slots[id.index]
		if !s.live || s.gen != id.gen {
			continue
		}
		out = append(out, s.v)
		s.live = false
		s.v = Variable{}
		vs.free = append(vs.free, id.index)
	}
	return out
}

// Declare adds name to the innermost frame.
func (vs *Variables) Declare(name string, loc source.Location, pkg PackageID, t types.TypeID) VarID {
	scope := ScopeLocal
	if len(vs.frames) == 1 {
		scope = ScopeGlobal
	}
	id := vs.alloc(Variable{Name: name, Scope: scope, Loc: loc, Package: pkg, Type: t})
	f := &vs.frames[len(vs.frames)-1]
	f.names[name] = id
	f.owned = append(f.owned, id)
	return id
}

// Lookup finds name in the innermost frame, then among the superglobals.
func (vs *Variables) Lookup(name string) (VarID, bool) {
	if id, ok := vs.frames[len(vs.frames)-1].names[name]; ok && vs.Get(id) != nil {
		return id, true
	}
	if id, ok := vs.super[name]; ok {
		return id, true
	}
	return NoVarID, false
}

// LookupGlobal finds name in the global frame.
func (vs *Variables) LookupGlobal(name string) (VarID, bool) {
	id, ok := vs.frames[0].names[name]
	return id, ok && vs.Get(id) != nil
}

// Bind makes name in the innermost frame refer to an existing variable
// (the global statement).
func (vs *Variables) Bind(name string, id VarID) {
	vs.frames[len(vs.frames)-1].names[name] = id
}

// Get resolves a handle; nil when the handle is stale or invalid.
func (vs *Variables) Get(id VarID) *Variable {
	if !id.IsValid() || int(id.index) >= len(vs.slots) {
		return nil
	}
	s := &vs.slots[id.index]
	if !s.live || s.gen != id.gen {
		return nil
	}
	return &s.v
}

// Globals returns the variables of the global frame in declaration order.
func (vs *Variables) Globals() []*Variable {
	out := make([]*Variable, 0, len(vs.frames[0].owned))
	for _, id := range vs.frames[0].owned {
		if v := vs.Get(id); v != nil {
			out = append(out, v)
		}
	}
	return out
}
