// Package modules provides the prototypes of the built-in library: the
// constants, functions and classes a program may use without declaring
// them. The prototypes ship inside the binary and may be overridden by a
// directory of files with the same names.
package modules

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

//go:embed stubs/*.php
var stubs embed.FS

// EmbeddedPrefix marks locations inside the embedded prototypes.
const EmbeddedPrefix = "<builtin>/"

// Default lists the modules every file sees without a require_module.
var Default = []string{"core", "standard", "spl"}

// FS exposes the embedded prototypes, one <name>.php per module.
func FS() fs.FS {
	sub, err := fs.Sub(stubs, "stubs")
	if err != nil {
		panic(err)
	}
	return sub
}

// Names lists the embedded modules in alphabetical order.
func Names() []string {
	entries, err := fs.ReadDir(FS(), ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".php"); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Source finds module prototypes.
type Source struct {
	dir string
}

// New returns a Source that looks in dir before the embedded copies.
// An empty dir means embedded only.
func New(dir string) *Source {
	return &Source{dir: dir}
}

// Lookup returns the file name and text of module name. Its signature
// matches parser.ModuleSource.
func (s *Source) Lookup(name string) (string, string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !validName(name) {
		return "", "", false
	}
	file := name + ".php"
	if s != nil && s.dir != "" {
		p := filepath.Join(s.dir, file)
		if data, err := os.ReadFile(p); err == nil {
			return p, string(data), true
		}
	}
	data, err := fs.ReadFile(FS(), file)
	if err != nil {
		return "", "", false
	}
	return path.Join(EmbeddedPrefix, file), string(data), true
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
