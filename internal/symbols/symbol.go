package symbols

import (
	"plint/internal/names"
	"plint/internal/result"
	"plint/internal/source"
	"plint/internal/types"
)

// Visibility of a declaration.
type Visibility uint8

const (
	Public Visibility = iota
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "public"
	}
}

// Decl is the part shared by top-level constants, functions and classes.
type Decl struct {
	Name       names.FQN
	Loc        source.Location
	Package    PackageID
	Visibility Visibility
	// Deprecated holds the deprecation text; empty when not deprecated.
	Deprecated string
	Used       int
}

// IsPrivate reports whether the declaration is private to its file.
func (d *Decl) IsPrivate() bool { return d.Visibility == Private }

// Constant is a global constant declared with const or define().
type Constant struct {
	Decl
	Value result.Result
}

// Function is a global function. Forward is set while only a forward
// declaration has been seen.
type Function struct {
	Decl
	Sig     *Signature
	Forward bool
}

// Member is the part shared by class constants, properties and methods.
type Member struct {
	Name       string
	Class      types.ClassID
	Loc        source.Location
	Visibility Visibility
	Deprecated string
	Used       int
}

// ClassConst is a class constant.
type ClassConst struct {
	Member
	Value result.Result
}

// Property is a class property.
type Property struct {
	Member
	Type   types.TypeID
	Static bool
}

// Method is a class method.
type Method struct {
	Member
	Sig      *Signature
	Static   bool
	Abstract bool
	Final    bool
}
