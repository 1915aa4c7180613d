package parser

import "plint/internal/token"

// Таблица приоритетов бинарных операторов, от слабого к сильному.
// Assignment is not in the table: it is recognized after an lvalue.
const (
	precNone           = iota
	precLogicalOr      // or
	precLogicalXor     // xor
	precLogicalAnd     // and
	precAssignment     // = += ... (правая ассоциативность)
	precTernary        // ?:
	precCoalesce       // ?? (правая)
	precOrOr           // ||
	precAndAnd         // &&
	precBitOr          // |
	precBitXor         // ^
	precBitAnd         // &
	precEquality       // == != === !== <>  <=>
	precRelational     // < <= > >=
	precShift          // << >>
	precConcat         // .
	precAdditive       // + -
	precMultiplicative // * / %
	precInstanceof     // instanceof
	precUnary          // ! ~ -x casts @
	precPow            // ** (правая)
)

// binaryPrec returns the precedence of a binary operator and whether it
// associates to the right. Zero means k is not a binary operator.
func binaryPrec(k token.Kind) (prec int, right bool) {
	switch k {
	case token.KwOr:
		return precLogicalOr, false
	case token.KwXor:
		return precLogicalXor, false
	case token.KwAnd:
		return precLogicalAnd, false
	case token.Question:
		return precTernary, false
	case token.Coalesce:
		return precCoalesce, true
	case token.OrOr:
		return precOrOr, false
	case token.AndAnd:
		return precAndAnd, false
	case token.Pipe:
		return precBitOr, false
	case token.Caret:
		return precBitXor, false
	case token.Amp:
		return precBitAnd, false
	case token.EqEq, token.BangEq, token.EqEqEq, token.BangEqEq, token.Spaceship:
		return precEquality, false
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precRelational, false
	case token.Shl, token.Shr:
		return precShift, false
	case token.Dot:
		return precConcat, false
	case token.Plus, token.Minus:
		return precAdditive, false
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative, false
	case token.KwInstanceof:
		return precInstanceof, false
	case token.StarStar:
		return precPow, true
	default:
		return precNone, false
	}
}
