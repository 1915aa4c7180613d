package throws

import (
	"sort"
	"strings"

	"plint/internal/types"
)

// Classes is the view of the class table the sets need: ancestry, names
// and which exceptions are unchecked.
type Classes interface {
	types.Hierarchy
	IsUnchecked(id types.ClassID) bool
}

// ExceptionsSet is a finite set of exception classes. Once closed it is
// immutable; mutating a closed set is a programming fault and panics.
type ExceptionsSet struct {
	members []types.ClassID
	closed  bool
}

// EmptyExceptions is the shared, closed empty set.
var EmptyExceptions = &ExceptionsSet{closed: true}

// NewExceptions returns an empty open set.
func NewExceptions() *ExceptionsSet { return &ExceptionsSet{} }

func (s *ExceptionsSet) mustBeOpen() {
	if s.closed {
		panic("throws: mutation of a closed exceptions set")
	}
}

// Put adds e to the set.
func (s *ExceptionsSet) Put(e types.ClassID) {
	s.mustBeOpen()
	if e == types.NoClassID || s.Has(e) {
		return
	}
	s.members = append(s.members, e)
}

// Union adds every member of other.
func (s *ExceptionsSet) Union(other *ExceptionsSet) {
	s.mustBeOpen()
	if other == nil {
		return
	}
	for _, e := range other.members {
		s.Put(e)
	}
}

// Close freezes the set.
func (s *ExceptionsSet) Close() *ExceptionsSet {
	s.closed = true
	return s
}

// IsClosed reports whether the set is frozen.
func (s *ExceptionsSet) IsClosed() bool { return s == nil || s.closed }

// IsEmpty reports whether the set has no members.
func (s *ExceptionsSet) IsEmpty() bool { return s == nil || len(s.members) == 0 }

// Len returns the number of members.
func (s *ExceptionsSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.members)
}

// Members returns a copy of the members in insertion order.
func (s *ExceptionsSet) Members() []types.ClassID {
	if s == nil {
		return nil
	}
	return append([]types.ClassID(nil), s.members...)
}

// Has reports exact membership.
func (s *ExceptionsSet) Has(e types.ClassID) bool {
	if s == nil {
		return false
	}
	for _, m := range s.members {
		if m == e {
			return true
		}
	}
	return false
}

// Includes reports whether e or one of its ancestors is a member.
func (s *ExceptionsSet) Includes(e types.ClassID, h types.Hierarchy) bool {
	if s == nil {
		return false
	}
	for _, m := range s.members {
		if m == e || (h != nil && h.IsSubclassOf(e, m)) {
			return true
		}
	}
	return false
}

// CallCompatibleWith reports whether a callable throwing s may stand in for
// one declared to throw other: every member of s is unchecked or included
// in other.
func (s *ExceptionsSet) CallCompatibleWith(other *ExceptionsSet, c Classes) bool {
	return len(s.Uncovered(other, c)) == 0
}

// Uncovered returns the checked members of s not included in other.
func (s *ExceptionsSet) Uncovered(other *ExceptionsSet, c Classes) []types.ClassID {
	if s == nil {
		return nil
	}
	var out []types.ClassID
	for _, m := range s.members {
		if c != nil && c.IsUnchecked(m) {
			continue
		}
		if !other.Includes(m, c) {
			out = append(out, m)
		}
	}
	return out
}

// RemoveWithSubclasses drops e and every member descending from it, as a
// catch clause for e does.
func (s *ExceptionsSet) RemoveWithSubclasses(e types.ClassID, h types.Hierarchy) {
	s.mustBeOpen()
	kept := s.members[:0]
	for _, m := range s.members {
		if m == e || (h != nil && h.IsSubclassOf(m, e)) {
			continue
		}
		kept = append(kept, m)
	}
	s.members = kept
}

// Difference returns a new open set with the members of s not included in
// other.
func (s *ExceptionsSet) Difference(other *ExceptionsSet, h types.Hierarchy) *ExceptionsSet {
	out := NewExceptions()
	if s == nil {
		return out
	}
	for _, m := range s.members {
		if !other.Includes(m, h) {
			out.members = append(out.members, m)
		}
	}
	return out
}

// Clone returns an open copy.
func (s *ExceptionsSet) Clone() *ExceptionsSet {
	return &ExceptionsSet{members: s.Members()}
}

// Format renders the members sorted by name, comma separated.
func (s *ExceptionsSet) Format(h types.Hierarchy) string {
	return FormatClasses(s.Members(), h)
}

// FormatClasses renders class ids sorted by name.
func FormatClasses(ids []types.ClassID, h types.Hierarchy) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if h != nil {
			names = append(names, h.ClassName(id))
		}
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
