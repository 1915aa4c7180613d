package symbols

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"plint/internal/names"
	"plint/internal/types"
)

// maxHierarchyDepth bounds walks over parent/interface chains. Cycles are
// rejected at declaration time; the bound only protects against bugs.
const maxHierarchyDepth = 256

// Classes stores all classes in a slice-based arena. ClassIDs are indices.
type Classes struct {
	data  []*Class // index 0 reserved for NoClassID
	byKey map[string]types.ClassID

	unchecked []names.FQN
}

// NewClasses creates an arena. unchecked lists the exception roots that
// never need to be declared.
func NewClasses(unchecked []names.FQN) *Classes {
	return &Classes{
		data:      make([]*Class, 1, 64),
		byKey:     make(map[string]types.ClassID),
		unchecked: unchecked,
	}
}

// New allocates c in the arena and returns its ID.
func (cs *Classes) New(c *Class) types.ClassID {
	if c == nil {
		panic("classes.New: nil class")
	}
	value, err := safecast.Conv[uint32](len(cs.data))
	if err != nil {
		panic(fmt.Errorf("classes arena overflow: %w", err))
	}
	id := types.ClassID(value)
	c.ID = id
	if c.Consts == nil {
		newClassBody(c)
	}
	cs.data = append(cs.data, c)
	cs.byKey[c.Name.Key()] = id
	return id
}

// Get returns the class or nil for an invalid ID.
func (cs *Classes) Get(id types.ClassID) *Class {
	if id == types.NoClassID || int(id) >= len(cs.data) {
		return nil
	}
	return cs.data[id]
}

// Lookup finds a class by name.
func (cs *Classes) Lookup(name names.FQN) (*Class, bool) {
	id, ok := cs.byKey[name.Key()]
	if !ok {
		return nil, false
	}
	return cs.data[id], true
}

// All returns the classes in declaration order.
func (cs *Classes) All() []*Class { return cs.data[1:] }

// Len reports the number of classes.
func (cs *Classes) Len() int { return len(cs.data) - 1 }

// ClassName implements types.Hierarchy.
func (cs *Classes) ClassName(id types.ClassID) string {
	if c := cs.Get(id); c != nil {
		return c.Name.String()
	}
	return "?"
}

// IsSubclassOf implements types.Hierarchy: child is parent, extends it or
// implements it, transitively.
func (cs *Classes) IsSubclassOf(child, parent types.ClassID) bool {
	return cs.isSubclass(child, parent, 0)
}

func (cs *Classes) isSubclass(child, parent types.ClassID, depth int) bool {
	if child == parent {
		return child != types.NoClassID
	}
	if depth > maxHierarchyDepth {
		return false
	}
	c := cs.Get(child)
	if c == nil {
		return false
	}
	if c.Parent != types.NoClassID && cs.isSubclass(c.Parent, parent, depth+1) {
		return true
	}
	for _, iface := range c.Interfaces {
		if cs.isSubclass(iface, parent, depth+1) {
			return true
		}
	}
	return false
}

// IsUnchecked implements throws.Classes.
func (cs *Classes) IsUnchecked(id types.ClassID) bool {
	for _, root := range cs.unchecked {
		if rid, ok := cs.byKey[root.Key()]; ok && cs.IsSubclassOf(id, rid) {
			return true
		}
	}
	return false
}

// HasStringConversion implements result.Classes.
func (cs *Classes) HasStringConversion(id types.ClassID) bool {
	_, ok := cs.FindMethod(id, "__toString")
	return ok
}

// Ancestors returns the parent chain of id, nearest first.
func (cs *Classes) Ancestors(id types.ClassID) []types.ClassID {
	var out []types.ClassID
	c := cs.Get(id)
	for depth := 0; c != nil && c.Parent != types.NoClassID && depth < maxHierarchyDepth; depth++ {
		out = append(out, c.Parent)
		c = cs.Get(c.Parent)
	}
	return out
}

// FindMethod looks a method up along the parent chain, then the interfaces.
func (cs *Classes) FindMethod(id types.ClassID, name string) (*Method, bool) {
	key := strings.ToLower(name)
	var found *Method
	cs.walk(id, func(c *Class) bool {
		if m, ok := c.Methods[key]; ok {
			found = m
			return true
		}
		return false
	})
	return found, found != nil
}

// FindProp looks a property up along the parent chain.
func (cs *Classes) FindProp(id types.ClassID, name string) (*Property, bool) {
	var found *Property
	cs.walk(id, func(c *Class) bool {
		if p, ok := c.Props[name]; ok {
			found = p
			return true
		}
		return false
	})
	return found, found != nil
}

// FindConst looks a class constant up along the parent chain and the
// interfaces.
func (cs *Classes) FindConst(id types.ClassID, name string) (*ClassConst, bool) {
	var found *ClassConst
	cs.walk(id, func(c *Class) bool {
		if k, ok := c.Consts[name]; ok {
			found = k
			return true
		}
		return false
	})
	return found, found != nil
}

// walk visits id, its ancestors and then all implemented interfaces until
// visit returns true.
func (cs *Classes) walk(id types.ClassID, visit func(*Class) bool) bool {
	seen := make(map[types.ClassID]bool)
	var rec func(id types.ClassID, depth int) bool
	rec = func(id types.ClassID, depth int) bool {
		c := cs.Get(id)
		if c == nil || seen[id] || depth > maxHierarchyDepth {
			return false
		}
		seen[id] = true
		if visit(c) {
			return true
		}
		if c.Parent != types.NoClassID && rec(c.Parent, depth+1) {
			return true
		}
		for _, iface := range c.Interfaces {
			if rec(iface, depth+1) {
				return true
			}
		}
		return false
	}
	return rec(id, 0)
}

// AbstractMethods returns the methods of id that remain abstract: declared
// abstract (or in an interface) and not implemented by a concrete method
// found earlier in the lookup order.
func (cs *Classes) AbstractMethods(id types.ClassID) []*Method {
	concrete := make(map[string]bool)
	var out []*Method
	seenAbstract := make(map[string]bool)
	cs.walk(id, func(c *Class) bool {
		for _, key := range c.MethodOrder {
			m := c.Methods[key]
			if m.Abstract || c.IsInterface() {
				if !concrete[key] && !seenAbstract[key] {
					seenAbstract[key] = true
					out = append(out, m)
				}
				continue
			}
			concrete[key] = true
		}
		return false
	})
	return out
}
