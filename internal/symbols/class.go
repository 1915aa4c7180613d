package symbols

import (
	"strings"

	"plint/internal/types"
)

// ClassFlags encode the kind and modifiers of a class.
type ClassFlags uint8

const (
	ClassInterface ClassFlags = 1 << iota
	ClassAbstract
	ClassFinal
)

// Class is one class or interface. Methods are keyed by their lower-case
// name; constants and properties are case-sensitive.
type Class struct {
	Decl
	ID         types.ClassID
	Parent     types.ClassID
	Interfaces []types.ClassID
	Flags      ClassFlags
	// Forward is set while only a forward declaration has been seen.
	Forward bool
	// ForwardMethods keeps the prototypes of a forward declaration until
	// the real declaration implements them.
	ForwardMethods map[string]*Method

	Consts  map[string]*ClassConst
	Props   map[string]*Property
	Methods map[string]*Method

	// declaration order, for deterministic reports
	ConstOrder  []string
	PropOrder   []string
	MethodOrder []string
}

// NewClass returns a class with empty member tables. It is not registered
// until passed to Context.DeclareClass.
func NewClass(d Decl, flags ClassFlags) *Class {
	c := &Class{Decl: d, Flags: flags}
	newClassBody(c)
	return c
}

func newClassBody(c *Class) {
	c.Consts = make(map[string]*ClassConst)
	c.Props = make(map[string]*Property)
	c.Methods = make(map[string]*Method)
	c.ConstOrder, c.PropOrder, c.MethodOrder = nil, nil, nil
}

// IsInterface reports whether c is an interface.
func (c *Class) IsInterface() bool { return c.Flags&ClassInterface != 0 }

// IsAbstract reports whether c is abstract (interfaces included).
func (c *Class) IsAbstract() bool { return c.Flags&(ClassAbstract|ClassInterface) != 0 }

// IsFinal reports whether c is final.
func (c *Class) IsFinal() bool { return c.Flags&ClassFinal != 0 }

// Kind returns "class" or "interface" for messages.
func (c *Class) Kind() string {
	if c.IsInterface() {
		return "interface"
	}
	return "class"
}

// AddConst adds a class constant; it reports false on a duplicate.
func (c *Class) AddConst(k *ClassConst) bool {
	if _, dup := c.Consts[k.Name]; dup {
		return false
	}
	k.Class = c.ID
	c.Consts[k.Name] = k
	c.ConstOrder = append(c.ConstOrder, k.Name)
	return true
}

// AddProp adds a property; it reports false on a duplicate.
func (c *Class) AddProp(p *Property) bool {
	if _, dup := c.Props[p.Name]; dup {
		return false
	}
	p.Class = c.ID
	c.Props[p.Name] = p
	c.PropOrder = append(c.PropOrder, p.Name)
	return true
}

// AddMethod adds a method; it reports false on a duplicate.
func (c *Class) AddMethod(m *Method) bool {
	key := strings.ToLower(m.Name)
	if _, dup := c.Methods[key]; dup {
		return false
	}
	m.Class = c.ID
	c.Methods[key] = m
	c.MethodOrder = append(c.MethodOrder, key)
	return true
}
