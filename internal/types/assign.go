package types

// Equal reports structural equality. Types are interned, so this is id
// equality.
func (in *Interner) Equal(a, b TypeID) bool { return a == b }

// Assignable reports whether a value of type from may be stored where type
// to is expected. h resolves class relationships and may be nil when no
// classes are involved.
func (in *Interner) Assignable(from, to TypeID, h Hierarchy) bool {
	if from == to {
		return true
	}
	if from == Unknown || to == Unknown || from == NoTypeID || to == NoTypeID {
		return true
	}
	if to == Mixed {
		return from != Void
	}

	ft, _ := in.Lookup(from)
	tt, _ := in.Lookup(to)

	if from == Null {
		switch tt.Kind {
		case KindString, KindArray, KindResource, KindClass:
			return true
		default:
			return false
		}
	}

	switch tt.Kind {
	case KindArray:
		if ft.Kind != KindArray {
			return false
		}
		if from == EmptyArray {
			return true
		}
		if to == EmptyArray {
			return false
		}
		return componentMatch(ft.Key, tt.Key) && componentMatch(ft.Value, tt.Value)
	case KindClass:
		if ft.Kind != KindClass {
			return false
		}
		if ft.Class == tt.Class {
			return true
		}
		return h != nil && h.IsSubclassOf(ft.Class, tt.Class)
	default:
		// distinct scalars: no numeric widening at this layer
		return false
	}
}

// componentMatch compares array keys or values: invariant, with Unknown
// matching anything.
func componentMatch(a, b TypeID) bool {
	return a == b || a == Unknown || b == Unknown
}

// Family describes broad categories of types an operator accepts.
type Family uint16

const (
	FamilyNone Family = 0
	FamilyBool Family = 1 << iota
	FamilyInt
	FamilyFloat
	FamilyString
	FamilyArray
	FamilyObject
	FamilyNull
	FamilyResource
	FamilyMixed
	FamilyUnknown
	FamilyVoid
)

const FamilyNumeric = FamilyInt | FamilyFloat

// FamilyOf classifies a type for operator tables.
func (in *Interner) FamilyOf(id TypeID) Family {
	switch in.Kind(id) {
	case KindVoid:
		return FamilyVoid
	case KindNull:
		return FamilyNull
	case KindBool:
		return FamilyBool
	case KindInt:
		return FamilyInt
	case KindFloat:
		return FamilyFloat
	case KindString:
		return FamilyString
	case KindMixed:
		return FamilyMixed
	case KindResource:
		return FamilyResource
	case KindArray:
		return FamilyArray
	case KindClass:
		return FamilyObject
	default:
		return FamilyUnknown
	}
}
