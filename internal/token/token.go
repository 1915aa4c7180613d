package token

import (
	"math/big"

	"plint/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Loc  source.Location
	// Text is the lexeme as written, except for Variable (name without '$'),
	// StringLit/StringPart (decoded value) and DocComment (full comment).
	Text string
	// Int holds the value of an IntLit; it may exceed the int range.
	Int *big.Int
	// Float holds the value of a FloatLit.
	Float float64
}

// IsLiteral reports whether the token is a numeric or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, DQStart, HeredocStart:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	return t.Kind >= Plus && t.Kind <= Backslash
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsNameLike reports whether the token can start a name: an identifier, a
// qualified name, or a keyword used as a member name after -> or ::.
func (t Token) IsNameLike() bool {
	return t.Kind == Ident || t.Kind == Name || t.Kind.IsKeyword() || t.Kind.IsMeta()
}

// Is reports whether the token kind matches any of the given kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}
