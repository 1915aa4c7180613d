package names

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// FQN is a fully qualified name: namespace plus local name, both without
// leading or trailing separators. The zero value is the empty name.
type FQN struct {
	ns       string
	name     string
	key      string
	hash     uint64
	constant bool
}

// New builds a name from its parts. Constants keep the local part
// case-sensitive; everything else compares case-insensitively.
func New(ns, name string, constant bool) FQN {
	ns = strings.Trim(ns, `\`)
	f := FQN{ns: ns, name: name, constant: constant}
	local := name
	if !constant {
		local = strings.ToLower(name)
	}
	if ns == "" {
		f.key = local
	} else {
		f.key = strings.ToLower(ns) + `\` + local
	}
	f.hash = xxhash.Sum64String(f.key)
	return f
}

// Parse splits a fully qualified spelling ("\A\B\c" or "A\B\c").
func Parse(full string, constant bool) FQN {
	full = strings.TrimPrefix(full, `\`)
	i := strings.LastIndexByte(full, '\\')
	if i < 0 {
		return New("", full, constant)
	}
	return New(full[:i], full[i+1:], constant)
}

// Namespace returns the namespace part in its declared spelling.
func (f FQN) Namespace() string { return f.ns }

// Name returns the local part in its declared spelling.
func (f FQN) Name() string { return f.name }

// Key returns the normalized form used as registry key.
func (f FQN) Key() string { return f.key }

// Hash returns the cached hash of the key.
func (f FQN) Hash() uint64 { return f.hash }

// IsZero reports whether the name is empty.
func (f FQN) IsZero() bool { return f.name == "" }

// IsGlobal reports whether the name lives in the global namespace.
func (f FQN) IsGlobal() bool { return f.ns == "" }

// Constant reports whether the name follows constant case rules.
func (f FQN) Constant() bool { return f.constant }

// Equal compares normalized forms.
func (f FQN) Equal(other FQN) bool {
	return f.hash == other.hash && f.key == other.key
}

// SameSpelling reports whether both names are spelled identically, letter
// case included.
func (f FQN) SameSpelling(other FQN) bool {
	return f.ns == other.ns && f.name == other.name
}

// String returns "A\B\c" or "c" for global names.
func (f FQN) String() string {
	if f.ns == "" {
		return f.name
	}
	return f.ns + `\` + f.name
}

// Absolute returns the name with a leading separator: "\A\B\c".
func (f FQN) Absolute() string {
	return `\` + f.String()
}

// InGlobal returns the same local name moved to the global namespace.
func (f FQN) InGlobal() FQN {
	if f.ns == "" {
		return f
	}
	return New("", f.name, f.constant)
}
