package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Interner provides stable TypeIDs by hashing structural descriptors.
type Interner struct {
	types []Type
	index map[Type]TypeID
}

// NewInterner constructs an interner seeded with the built-in types.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[Type]TypeID, 64),
	}
	in.internRaw(Type{Kind: KindInvalid}) // reserve 0 as invalid sentinel
	seed := []Type{
		Void:       {Kind: KindVoid},
		Null:       {Kind: KindNull},
		Boolean:    {Kind: KindBool},
		Int:        {Kind: KindInt},
		Float:      {Kind: KindFloat},
		String:     {Kind: KindString},
		Mixed:      {Kind: KindMixed},
		Resource:   {Kind: KindResource},
		Unknown:    {Kind: KindUnknown},
		EmptyArray: {Kind: KindArray},
	}
	for id := Void; id < firstDynamic; id++ {
		if got := in.internRaw(seed[id]); got != id {
			panic(fmt.Sprintf("types: builtin %v interned as %d", seed[id].Kind, got))
		}
	}
	return in
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Array interns Array(key, value). An invalid key or value is replaced by
// Unknown.
func (in *Interner) Array(key, value TypeID) TypeID {
	if key == NoTypeID {
		key = Unknown
	}
	if value == NoTypeID {
		value = Unknown
	}
	return in.Intern(Type{Kind: KindArray, Key: key, Value: value})
}

// Class interns the type of instances of the class.
func (in *Interner) Class(id ClassID) TypeID {
	if id == NoClassID {
		return Unknown
	}
	return in.Intern(Type{Kind: KindClass, Class: id})
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Kind returns the kind of id, KindInvalid for unknown ids.
func (in *Interner) Kind(id TypeID) Kind {
	tt, _ := in.Lookup(id)
	return tt.Kind
}

// IsArray reports whether id is an array type, the empty-array literal
// included.
func (in *Interner) IsArray(id TypeID) bool { return in.Kind(id) == KindArray }

// IsClass reports whether id is a class type.
func (in *Interner) IsClass(id TypeID) bool { return in.Kind(id) == KindClass }

// ClassOf returns the class of a class type.
func (in *Interner) ClassOf(id TypeID) (ClassID, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindClass {
		return NoClassID, false
	}
	return tt.Class, true
}

// ArrayKey returns the key type of an array, Unknown for the empty-array
// literal and for non-array types.
func (in *Interner) ArrayKey(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindArray || tt.Key == NoTypeID {
		return Unknown
	}
	return tt.Key
}

// ArrayValue returns the element type of an array, Unknown for the
// empty-array literal and for non-array types.
func (in *Interner) ArrayValue(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindArray || tt.Value == NoTypeID {
		return Unknown
	}
	return tt.Value
}

// IsValidKey reports whether t may be used as an array key type.
func IsValidKey(t TypeID) bool {
	switch t {
	case Int, String, Mixed, Unknown:
		return true
	default:
		return false
	}
}

// IsScalar reports whether t is boolean, int, float or string.
func IsScalar(t TypeID) bool {
	switch t {
	case Boolean, Int, Float, String:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether t is int or float.
func IsNumeric(t TypeID) bool { return t == Int || t == Float }
