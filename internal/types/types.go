package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Pre-interned types. Their ids are identical in every Interner, so scalar
// equality is id equality.
const (
	Void TypeID = iota + 1
	Null
	Boolean
	Int
	Float
	String
	Mixed
	Resource
	Unknown
	// EmptyArray is the type of the array() / [] literal.
	EmptyArray

	firstDynamic
)

// ClassID is a stable handle into the class table owned by the symbol layer.
type ClassID uint32

// NoClassID marks the absence of a class.
const NoClassID ClassID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindMixed
	KindResource
	KindUnknown
	KindArray
	KindClass
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindMixed:
		return "mixed"
	case KindResource:
		return "resource"
	case KindUnknown:
		return "unknown"
	case KindArray:
		return "array"
	case KindClass:
		return "class"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind  Kind
	Key   TypeID  // arrays; NoTypeID for the empty-array literal
	Value TypeID  // arrays; NoTypeID for the empty-array literal
	Class ClassID // classes
}

// Hierarchy answers class relationship questions for assignability and
// formatting. It is implemented by the class table of the symbol layer.
type Hierarchy interface {
	// IsSubclassOf reports whether child equals parent or transitively
	// extends or implements it.
	IsSubclassOf(child, parent ClassID) bool
	// ClassName returns the declared spelling of the class name.
	ClassName(id ClassID) string
}
