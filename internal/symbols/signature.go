package symbols

import (
	"fmt"
	"strings"

	"plint/internal/result"
	"plint/internal/throws"
	"plint/internal/types"
)

// FormalArgument is one declared parameter of a callable.
type FormalArgument struct {
	Name  string
	ByRef bool
	// RefAssigned marks an output parameter: assigned by the callee on
	// return, so the argument need not be initialized.
	RefAssigned bool
	Type        types.TypeID
	Mandatory   bool
	Default     result.Result
}

// Signature is the contract of a function or method.
type Signature struct {
	Return      types.TypeID
	ByRefReturn bool
	Args        []FormalArgument
	Mandatory   int
	// Variadic allows unlimited extra arguments.
	Variadic   bool
	Errors     *throws.ErrorsSet
	Exceptions *throws.ExceptionsSet
}

// NewSignature returns an open signature returning void.
func NewSignature() *Signature {
	return &Signature{
		Return:     types.Void,
		Errors:     throws.NewErrors(),
		Exceptions: throws.NewExceptions(),
	}
}

// AddArg appends a parameter and keeps Mandatory in sync.
func (s *Signature) AddArg(a FormalArgument) {
	s.Args = append(s.Args, a)
	if a.Mandatory {
		s.Mandatory = len(s.Args)
	}
}

// Arg returns the parameter at i, or nil.
func (s *Signature) Arg(i int) *FormalArgument {
	if i < 0 || i >= len(s.Args) {
		return nil
	}
	return &s.Args[i]
}

// Close freezes the thrown and triggered sets. Published signatures are
// always closed.
func (s *Signature) Close() {
	s.Errors.Close()
	s.Exceptions.Close()
}

// IsClosed reports whether both sets are frozen.
func (s *Signature) IsClosed() bool {
	return s.Errors.IsClosed() && s.Exceptions.IsClosed()
}

// Compatible reports why a cannot stand in for other at the same position,
// or "" when it can. Types are invariant for references and contravariant
// for classes.
func (a *FormalArgument) Compatible(other *FormalArgument, in *types.Interner, h types.Hierarchy) string {
	if a.ByRef != other.ByRef {
		if a.ByRef {
			return fmt.Sprintf("argument $%s is passed by reference", a.Name)
		}
		return fmt.Sprintf("argument $%s is not passed by reference", a.Name)
	}
	if a.ByRef {
		if a.Type != other.Type && a.Type != types.Unknown && other.Type != types.Unknown {
			return fmt.Sprintf("argument $%s by reference has type %s, expected %s",
				a.Name, in.Format(a.Type, h), in.Format(other.Type, h))
		}
	} else if !argTypeCompatible(a.Type, other.Type, in, h) {
		return fmt.Sprintf("argument $%s has type %s, incompatible with %s",
			a.Name, in.Format(a.Type, h), in.Format(other.Type, h))
	}
	if a.Mandatory && !other.Mandatory {
		return fmt.Sprintf("argument $%s is mandatory, but optional in the other prototype", a.Name)
	}
	return ""
}

func argTypeCompatible(mine, theirs types.TypeID, in *types.Interner, h types.Hierarchy) bool {
	if mine == theirs || mine == types.Unknown || theirs == types.Unknown {
		return true
	}
	if in.IsClass(mine) && in.IsClass(theirs) {
		// contravariance: what the other prototype accepts, this one must too
		return in.Assignable(theirs, mine, h)
	}
	return false
}

// CallCompatible reports why s cannot replace other (an overridden method
// or a forward declaration), or "" when it can. The first failing check
// wins.
func (s *Signature) CallCompatible(other *Signature, in *types.Interner, c throws.Classes) string {
	if s.ByRefReturn != other.ByRefReturn {
		return "return by reference differs"
	}
	if s.ByRefReturn {
		if s.Return != other.Return {
			return fmt.Sprintf("returns by reference %s, expected %s", in.Format(s.Return, c), in.Format(other.Return, c))
		}
	} else if !(s.Return == types.Void && other.Return == types.Void) && !in.Assignable(s.Return, other.Return, c) {
		return fmt.Sprintf("return type %s is not assignable to %s", in.Format(s.Return, c), in.Format(other.Return, c))
	}
	if s.Variadic && !other.Variadic {
		return "accepts a variable number of arguments, the other prototype does not"
	}
	if s.Mandatory > other.Mandatory {
		return fmt.Sprintf("requires %d mandatory arguments, expected at most %d", s.Mandatory, other.Mandatory)
	}
	if len(s.Args) < len(other.Args) {
		return fmt.Sprintf("has %d arguments, expected at least %d", len(s.Args), len(other.Args))
	}
	for i := range other.Args {
		if why := s.Args[i].Compatible(&other.Args[i], in, c); why != "" {
			return why
		}
	}
	if !s.Errors.SubsetOf(other.Errors) {
		return "triggers errors not declared by the other prototype: " + s.Errors.Difference(other.Errors).String()
	}
	if !s.Exceptions.CallCompatibleWith(other.Exceptions, c) {
		return "throws exceptions not declared by the other prototype: " +
			throws.FormatClasses(s.Exceptions.Uncovered(other.Exceptions, c), c)
	}
	return ""
}

// Format renders the prototype, e.g. "int(string $s, int &$n = 0, ...) throws E".
func (s *Signature) Format(in *types.Interner, h types.Hierarchy) string {
	var b strings.Builder
	if s.ByRefReturn {
		b.WriteByte('&')
	}
	b.WriteString(in.Format(s.Return, h))
	b.WriteByte('(')
	for i, a := range s.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(in.Format(a.Type, h))
		b.WriteByte(' ')
		if a.RefAssigned {
			b.WriteString("return ")
		}
		if a.ByRef {
			b.WriteByte('&')
		}
		b.WriteByte('$')
		b.WriteString(a.Name)
		if !a.Mandatory {
			b.WriteString(" =")
			if t := a.Default.Text(); t != "" {
				b.WriteByte(' ')
				b.WriteString(t)
			}
		}
	}
	if s.Variadic {
		if len(s.Args) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("...")
	}
	b.WriteByte(')')
	if !s.Errors.IsEmpty() {
		b.WriteString(" triggers ")
		b.WriteString(s.Errors.String())
	}
	if !s.Exceptions.IsEmpty() {
		b.WriteString(" throws ")
		b.WriteString(s.Exceptions.Format(h))
	}
	return b.String()
}
