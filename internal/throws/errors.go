package throws

import (
	"fmt"
	"math/bits"
	"strings"
)

// ErrorKind is one of the E_* error levels. The values match the runtime
// constants so a literal level can be mapped directly.
type ErrorKind uint16

const (
	EError            ErrorKind = 1 << iota // E_ERROR
	EWarning                                // E_WARNING
	EParse                                  // E_PARSE
	ENotice                                 // E_NOTICE
	ECoreError                              // E_CORE_ERROR
	ECoreWarning                            // E_CORE_WARNING
	ECompileError                           // E_COMPILE_ERROR
	ECompileWarning                         // E_COMPILE_WARNING
	EUserError                              // E_USER_ERROR
	EUserWarning                            // E_USER_WARNING
	EUserNotice                             // E_USER_NOTICE
	EStrict                                 // E_STRICT
	ERecoverableError                       // E_RECOVERABLE_ERROR
	EDeprecated                             // E_DEPRECATED
	EUserDeprecated                         // E_USER_DEPRECATED
)

var errorKindNames = map[ErrorKind]string{
	EError:            "E_ERROR",
	EWarning:          "E_WARNING",
	EParse:            "E_PARSE",
	ENotice:           "E_NOTICE",
	ECoreError:        "E_CORE_ERROR",
	ECoreWarning:      "E_CORE_WARNING",
	ECompileError:     "E_COMPILE_ERROR",
	ECompileWarning:   "E_COMPILE_WARNING",
	EUserError:        "E_USER_ERROR",
	EUserWarning:      "E_USER_WARNING",
	EUserNotice:       "E_USER_NOTICE",
	EStrict:           "E_STRICT",
	ERecoverableError: "E_RECOVERABLE_ERROR",
	EDeprecated:       "E_DEPRECATED",
	EUserDeprecated:   "E_USER_DEPRECATED",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", uint16(k))
}

// ParseErrorKind maps "E_USER_WARNING" (any letter case) to its kind.
func ParseErrorKind(name string) (ErrorKind, bool) {
	up := strings.ToUpper(name)
	for k, s := range errorKindNames {
		if s == up {
			return k, true
		}
	}
	return 0, false
}

// ErrorKindOf maps a runtime level value to its kind; only single levels
// are accepted.
func ErrorKindOf(v int64) (ErrorKind, bool) {
	if v <= 0 || v > int64(EUserDeprecated) || v&(v-1) != 0 {
		return 0, false
	}
	return ErrorKind(v), true
}

// ErrorsSet is a set of error kinds stored as a bit mask.
type ErrorsSet struct {
	bits   uint16
	closed bool
}

// EmptyErrors is the shared, closed empty set.
var EmptyErrors = &ErrorsSet{closed: true}

// NewErrors returns an empty open set.
func NewErrors() *ErrorsSet { return &ErrorsSet{} }

// Put adds k; mutating a closed set panics.
func (s *ErrorsSet) Put(k ErrorKind) {
	if s.closed {
		panic("throws: mutation of a closed errors set")
	}
	s.bits |= uint16(k)
}

// Union adds every member of other.
func (s *ErrorsSet) Union(other *ErrorsSet) {
	if other == nil {
		return
	}
	if s.closed {
		panic("throws: mutation of a closed errors set")
	}
	s.bits |= other.bits
}

// Contains reports membership of k.
func (s *ErrorsSet) Contains(k ErrorKind) bool {
	return s != nil && s.bits&uint16(k) != 0
}

// SubsetOf reports whether every member of s is in other.
func (s *ErrorsSet) SubsetOf(other *ErrorsSet) bool {
	return s.Difference(other).IsEmpty()
}

// Difference returns the members of s missing from other as a new open set.
func (s *ErrorsSet) Difference(other *ErrorsSet) *ErrorsSet {
	if s == nil {
		return NewErrors()
	}
	var ob uint16
	if other != nil {
		ob = other.bits
	}
	return &ErrorsSet{bits: s.bits &^ ob}
}

// Close freezes the set.
func (s *ErrorsSet) Close() *ErrorsSet {
	s.closed = true
	return s
}

// IsClosed reports whether the set is frozen.
func (s *ErrorsSet) IsClosed() bool { return s == nil || s.closed }

// IsEmpty reports whether the set has no members.
func (s *ErrorsSet) IsEmpty() bool { return s == nil || s.bits == 0 }

// Len returns the number of members.
func (s *ErrorsSet) Len() int {
	if s == nil {
		return 0
	}
	return bits.OnesCount16(s.bits)
}

// Kinds returns the members in ascending level order.
func (s *ErrorsSet) Kinds() []ErrorKind {
	if s == nil {
		return nil
	}
	var out []ErrorKind
	for k := EError; k != 0 && k <= EUserDeprecated; k <<= 1 {
		if s.bits&uint16(k) != 0 {
			out = append(out, k)
		}
	}
	return out
}

func (s *ErrorsSet) String() string {
	kinds := s.Kinds()
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = k.String()
	}
	return strings.Join(parts, ", ")
}
