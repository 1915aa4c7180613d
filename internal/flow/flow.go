// Package flow models the static outcome of statements: whether control can
// fall through to the next statement, leave a loop with break or continue,
// or return from the enclosing callable.
package flow

import "strings"

// Flow is a bit set of the ways control may leave a statement.
type Flow uint8

const (
	Next Flow = 1 << iota
	Break
	Continue
	Return

	// None means control never leaves normally, e.g. after throw or exit.
	None Flow = 0
)

// Has reports whether all bits of x are set in f.
func (f Flow) Has(x Flow) bool { return f&x == x }

// Reaches reports whether control can fall through to the next statement.
func (f Flow) Reaches() bool { return f&Next != 0 }

func (f Flow) String() string {
	if f == None {
		return "none"
	}
	var parts []string
	if f&Next != 0 {
		parts = append(parts, "next")
	}
	if f&Break != 0 {
		parts = append(parts, "break")
	}
	if f&Continue != 0 {
		parts = append(parts, "continue")
	}
	if f&Return != 0 {
		parts = append(parts, "return")
	}
	return strings.Join(parts, "|")
}

// Sequence folds the outcomes of consecutive statements and remembers the
// first statement that cannot be reached.
type Sequence struct {
	flow        Flow
	unreachable bool
}

// NewSequence starts an empty sequence, which falls through.
func NewSequence() *Sequence {
	return &Sequence{flow: Next}
}

// Reachable reports whether the next statement added would be reachable.
func (s *Sequence) Reachable() bool { return s.flow&Next != 0 }

// Add appends the outcome of one statement. It returns true only for the
// first unreachable statement of the sequence, so the caller reports one
// diagnostic per sequence.
func (s *Sequence) Add(f Flow) (firstUnreachable bool) {
	if s.flow&Next == 0 {
		if s.unreachable {
			return false
		}
		s.unreachable = true
		return true
	}
	s.flow = (s.flow &^ Next) | f
	return false
}

// Flow returns the combined outcome so far.
func (s *Sequence) Flow() Flow { return s.flow }

// HasUnreachable reports whether an unreachable statement was added.
func (s *Sequence) HasUnreachable() bool { return s.unreachable }

// Loop converts the outcome of a loop body into the outcome of the loop
// statement. break and continue are absorbed into Next. When the loop
// condition is a constant true (infinite loop) the loop only falls through
// if the body can break.
func Loop(body Flow, infinite bool) Flow {
	out := body &^ (Break | Continue | Next)
	if !infinite || body&Break != 0 {
		out |= Next
	}
	return out
}

// Branch combines the arms of a conditional. A conditional without an
// else arm must include Next for the missing arm.
func Branch(arms ...Flow) Flow {
	var out Flow
	for _, a := range arms {
		out |= a
	}
	return out
}

// BodyError describes a problem with the outcome of a callable body.
type BodyError uint8

const (
	BodyOK BodyError = iota
	// BodyMissingReturn: a non-void callable may fall off its end.
	BodyMissingReturn
)

// Body checks the outcome of a callable body. Break and Continue must
// have been absorbed by loops already; escaping the body is an internal
// fault of the caller.
func Body(f Flow, void bool) BodyError {
	if f&(Break|Continue) != 0 {
		panic("flow: break/continue escapes callable body: " + f.String())
	}
	if void {
		return BodyOK
	}
	if f&Next != 0 {
		return BodyMissingReturn
	}
	return BodyOK
}
