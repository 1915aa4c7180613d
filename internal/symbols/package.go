package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"plint/internal/source"
)

// Package is the record of one loaded file. It outlives the parse of the
// file and feeds the final report.
type Package struct {
	ID     PackageID
	Path   string
	Module bool // built-in module stub, not a user file
	// Implicit packages (modules loaded by configuration) are available to
	// every file without a require.
	Implicit   bool
	Autoloaded bool
	Depth      int
	Done       bool

	// library eligibility
	NotLibrary    string
	NotLibraryLoc source.Location

	Doc string

	Requires map[PackageID]source.Location
	Uses     map[PackageID]source.Location
	// Used counts accesses from other packages.
	Used int
}

// IsLibrary reports whether the file may be required by another file.
func (p *Package) IsLibrary() bool { return p.NotLibrary == "" }

// Demote marks the file as not library-eligible. Only the first reason is
// kept. Modules are never demoted.
func (p *Package) Demote(reason string, loc source.Location) {
	if p.Module || p.NotLibrary != "" {
		return
	}
	p.NotLibrary = reason
	p.NotLibraryLoc = loc
}

// Require records that p requires dep.
func (p *Package) Require(dep PackageID, loc source.Location) {
	if _, ok := p.Requires[dep]; !ok {
		p.Requires[dep] = loc
	}
}

// Packages registers loaded files by path.
type Packages struct {
	data   []*Package // index 0 reserved for NoPackageID
	byPath map[string]PackageID
}

// NewPackages creates an empty registry.
func NewPackages() *Packages {
	return &Packages{
		data:   make([]*Package, 1, 16),
		byPath: make(map[string]PackageID),
	}
}

// Register returns the package for path, creating it when needed. existed
// reports whether the path was already loaded.
func (ps *Packages) Register(path string, module bool) (pkg *Package, existed bool) {
	if id, ok := ps.byPath[path]; ok {
		return ps.data[id], true
	}
	value, err := safecast.Conv[uint32](len(ps.data))
	if err != nil {
		panic(fmt.Errorf("packages arena overflow: %w", err))
	}
	pkg = &Package{
		ID:       PackageID(value),
		Path:     path,
		Module:   module,
		Requires: make(map[PackageID]source.Location),
		Uses:     make(map[PackageID]source.Location),
	}
	ps.data = append(ps.data, pkg)
	ps.byPath[path] = pkg.ID
	return pkg, false
}

// Get returns the package or nil for an invalid id.
func (ps *Packages) Get(id PackageID) *Package {
	if !id.IsValid() || int(id) >= len(ps.data) {
		return nil
	}
	return ps.data[id]
}

// ByPath looks a package up by its path.
func (ps *Packages) ByPath(path string) (*Package, bool) {
	id, ok := ps.byPath[path]
	if !ok {
		return nil, false
	}
	return ps.data[id], true
}

// All returns the packages in load order.
func (ps *Packages) All() []*Package {
	return ps.data[1:]
}

// Len reports the number of registered packages.
func (ps *Packages) Len() int { return len(ps.data) - 1 }
