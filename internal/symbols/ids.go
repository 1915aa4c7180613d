package symbols

// PackageID identifies a loaded file in the Packages registry.
type PackageID uint32

const (
	// NoPackageID marks the absence of a package reference.
	NoPackageID PackageID = 0
)

// IsValid reports whether the package ID refers to a registered package.
func (id PackageID) IsValid() bool { return id != NoPackageID }

// VarID is a stable handle into the variable slot map. A handle whose slot
// was freed and reused no longer resolves.
type VarID struct {
	index uint32
	gen   uint32
}

// NoVarID marks the absence of a variable.
var NoVarID = VarID{}

// IsValid reports whether the handle was ever issued.
func (id VarID) IsValid() bool { return id.gen != 0 }
