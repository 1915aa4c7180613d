package result

import (
	"plint/internal/token"
	"plint/internal/types"
)

// BinaryResult describes how the result type of an operator is derived.
type BinaryResult uint8

const (
	BinaryResultUnknown BinaryResult = iota
	BinaryResultLeft
	BinaryResultBool
	BinaryResultNumeric // int if both int, else float
	BinaryResultFloat
	BinaryResultInt
	BinaryResultString
)

// BinaryFlags annotate special handling for binary operators.
type BinaryFlags uint8

const (
	BinaryFlagNone     BinaryFlags = 0
	BinaryFlagSameType BinaryFlags = 1 << iota
	BinaryFlagZeroCheck
)

// BinarySpec lists operand families and the expected result of an operator.
type BinarySpec struct {
	Left   types.Family
	Right  types.Family
	Result BinaryResult
	Flags  BinaryFlags
}

var binarySpecTable = map[token.Kind][]BinarySpec{
	token.Plus: {
		{Left: types.FamilyNumeric, Right: types.FamilyNumeric, Result: BinaryResultNumeric},
		{Left: types.FamilyArray, Right: types.FamilyArray, Result: BinaryResultLeft, Flags: BinaryFlagSameType},
	},
	token.Minus:    {{Left: types.FamilyNumeric, Right: types.FamilyNumeric, Result: BinaryResultNumeric}},
	token.Star:     {{Left: types.FamilyNumeric, Right: types.FamilyNumeric, Result: BinaryResultNumeric}},
	token.StarStar: {{Left: types.FamilyNumeric, Right: types.FamilyNumeric, Result: BinaryResultNumeric}},
	token.Slash:    {{Left: types.FamilyNumeric, Right: types.FamilyNumeric, Result: BinaryResultFloat, Flags: BinaryFlagZeroCheck}},
	token.Percent:  {{Left: types.FamilyInt, Right: types.FamilyInt, Result: BinaryResultInt, Flags: BinaryFlagZeroCheck}},
	token.Amp:      {{Left: types.FamilyInt, Right: types.FamilyInt, Result: BinaryResultInt}},
	token.Pipe:     {{Left: types.FamilyInt, Right: types.FamilyInt, Result: BinaryResultInt}},
	token.Caret:    {{Left: types.FamilyInt, Right: types.FamilyInt, Result: BinaryResultInt}},
	token.Shl:      {{Left: types.FamilyInt, Right: types.FamilyInt, Result: BinaryResultInt}},
	token.Shr:      {{Left: types.FamilyInt, Right: types.FamilyInt, Result: BinaryResultInt}},
	token.AndAnd:   {{Left: types.FamilyBool, Right: types.FamilyBool, Result: BinaryResultBool}},
	token.OrOr:     {{Left: types.FamilyBool, Right: types.FamilyBool, Result: BinaryResultBool}},
	token.KwAnd:    {{Left: types.FamilyBool, Right: types.FamilyBool, Result: BinaryResultBool}},
	token.KwOr:     {{Left: types.FamilyBool, Right: types.FamilyBool, Result: BinaryResultBool}},
	token.KwXor:    {{Left: types.FamilyBool, Right: types.FamilyBool, Result: BinaryResultBool}},
}

// UnarySpec describes operand expectations for unary operators.
type UnarySpec struct {
	Operand types.Family
	Result  BinaryResult
}

var unarySpecTable = map[token.Kind]UnarySpec{
	token.Plus:  {Operand: types.FamilyNumeric, Result: BinaryResultLeft},
	token.Minus: {Operand: types.FamilyNumeric, Result: BinaryResultLeft},
	token.Tilde: {Operand: types.FamilyInt, Result: BinaryResultInt},
	token.Bang:  {Operand: types.FamilyBool, Result: BinaryResultBool},
}

// CompoundOperator maps a compound assignment to its binary operator.
func CompoundOperator(op token.Kind) (token.Kind, bool) {
	switch op {
	case token.PlusAssign:
		return token.Plus, true
	case token.MinusAssign:
		return token.Minus, true
	case token.StarAssign:
		return token.Star, true
	case token.SlashAssign:
		return token.Slash, true
	case token.PercentAssign:
		return token.Percent, true
	case token.StarStarAssign:
		return token.StarStar, true
	case token.DotAssign:
		return token.Dot, true
	case token.AmpAssign:
		return token.Amp, true
	case token.PipeAssign:
		return token.Pipe, true
	case token.CaretAssign:
		return token.Caret, true
	case token.ShlAssign:
		return token.Shl, true
	case token.ShrAssign:
		return token.Shr, true
	}
	return token.Invalid, false
}

func isComparison(op token.Kind) bool {
	switch op {
	case token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq, token.Spaceship:
		return true
	}
	return false
}

func isStrict(op token.Kind) bool {
	return op == token.EqEqEq || op == token.BangEqEq
}
