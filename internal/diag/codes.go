package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo                   Code = 1000
	LexUnknownChar            Code = 1001
	LexUnterminatedString     Code = 1002
	LexUnterminatedComment    Code = 1003
	LexBadNumber              Code = 1004
	LexDigitSeparator         Code = 1005
	LexBadEscape              Code = 1006
	LexUnterminatedHeredoc    Code = 1007
	LexHeredocTrailingSpace   Code = 1008
	LexUnterminatedAnnotation Code = 1009
	LexVariableVariable       Code = 1010
	LexBracedInterpolation    Code = 1011
	LexBadOctal               Code = 1012
	LexControlChar            Code = 1013

	// Синтаксические
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectSemicolon    Code = 2002
	SynUnclosedBlock      Code = 2003
	SynUnsupported        Code = 2004
	SynBadAnnotation      Code = 2005
	SynUnusedAnnotation   Code = 2006
	SynMisplacedDirective Code = 2007
	SynExpectExpression   Code = 2008
	SynExpectType         Code = 2009
	SynInvalidAssignment  Code = 2010
	SynExpectIdentifier   Code = 2011
	SynDuplicateModifier  Code = 2012

	// Семантические
	SemaInternal              Code = 3000
	SemaUnresolvedConstant    Code = 3001
	SemaUnresolvedFunction    Code = 3002
	SemaUnresolvedClass       Code = 3003
	SemaUnresolvedMember      Code = 3004
	SemaUndefinedVariable     Code = 3005
	SemaDuplicateDecl         Code = 3006
	SemaTypeMismatch          Code = 3007
	SemaPrivateAccess         Code = 3008
	SemaProtectedAccess       Code = 3009
	SemaDeprecated            Code = 3010
	SemaCaseMismatch          Code = 3011
	SemaUncaughtException     Code = 3012
	SemaUndeclaredTrigger     Code = 3013
	SemaUnreachable           Code = 3014
	SemaMissingReturn         Code = 3015
	SemaBadReturn             Code = 3016
	SemaIncompatibleSignature Code = 3017
	SemaForwardMismatch       Code = 3018
	SemaBadOperand            Code = 3019
	SemaDivisionByZero        Code = 3020
	SemaIntegerOverflow       Code = 3021
	SemaBoolToString          Code = 3022
	SemaComparisonHint        Code = 3023
	SemaBadCast               Code = 3024
	SemaRedundantCast         Code = 3025
	SemaArgumentCount         Code = 3026
	SemaArgumentType          Code = 3027
	SemaByRefArgument         Code = 3028
	SemaUnusedAlias           Code = 3029
	SemaUnusedSymbol          Code = 3030
	SemaUnusedVariable        Code = 3031
	SemaNotLibrary            Code = 3032
	SemaTopLevelThrow         Code = 3033
	SemaAbstractInstantiation Code = 3034
	SemaMissingImplementation Code = 3035
	SemaFinalOverride         Code = 3036
	SemaBreakOutsideLoop      Code = 3037
	SemaNotThrowable          Code = 3038
	SemaThisOutsideMethod     Code = 3039
	SemaUnusedPackage         Code = 3040
	SemaPackageNotRequired    Code = 3041
	SemaNoCode                Code = 3042
	SemaLibraryDemoted        Code = 3043
	SemaBadInheritance        Code = 3044
	SemaNotCallable           Code = 3045
	SemaUnusedResult          Code = 3046

	// Ввод-вывод
	IOInfo         Code = 4000
	IOReadError    Code = 4001
	IOFileNotFound Code = 4002

	// Проект / загрузка
	ProjInfo            Code = 5000
	ProjModuleNotFound  Code = 5001
	ProjSandboxRefused  Code = 5002
	ProjDepthExceeded   Code = 5003
	ProjAutoloadFailed  Code = 5004
	ProjBadDependency   Code = 5005
	ProjDependencyCycle Code = 5006
)

var (
	codeDescription = map[Code]string{
		UnknownCode: "Unknown error",

		LexInfo:                   "Lexical information",
		LexUnknownChar:            "Illegal character",
		LexUnterminatedString:     "Unterminated string literal",
		LexUnterminatedComment:    "Unterminated comment",
		LexBadNumber:              "Malformed number literal",
		LexDigitSeparator:         "Digit separators are not supported",
		LexBadEscape:              "Invalid escape sequence",
		LexUnterminatedHeredoc:    "Unterminated heredoc",
		LexHeredocTrailingSpace:   "Heredoc terminator followed by blanks",
		LexUnterminatedAnnotation: "Unterminated annotation comment",
		LexVariableVariable:       "Variable variables are not supported",
		LexBracedInterpolation:    "Braced interpolation is not supported",
		LexBadOctal:               "Invalid digit in octal literal",
		LexControlChar:            "Control character in source",

		SynInfo:               "Syntax information",
		SynUnexpectedToken:    "Unexpected token",
		SynExpectSemicolon:    "Expected ';'",
		SynUnclosedBlock:      "Unclosed block",
		SynUnsupported:        "Unsupported construct",
		SynBadAnnotation:      "Malformed annotation",
		SynUnusedAnnotation:   "Annotation not bound to a declaration",
		SynMisplacedDirective: "Directive not allowed here",
		SynExpectExpression:   "Expected expression",
		SynExpectType:         "Expected type",
		SynInvalidAssignment:  "Invalid assignment target",
		SynExpectIdentifier:   "Expected identifier",
		SynDuplicateModifier:  "Duplicate modifier",

		SemaInternal:              "Internal analyzer fault",
		SemaUnresolvedConstant:    "Unresolved constant",
		SemaUnresolvedFunction:    "Unresolved function",
		SemaUnresolvedClass:       "Unresolved class",
		SemaUnresolvedMember:      "Unresolved class member",
		SemaUndefinedVariable:     "Undefined variable",
		SemaDuplicateDecl:         "Duplicate declaration",
		SemaTypeMismatch:          "Type mismatch",
		SemaPrivateAccess:         "Access to private entity",
		SemaProtectedAccess:       "Access to protected member",
		SemaDeprecated:            "Use of deprecated entity",
		SemaCaseMismatch:          "Name differs only by letter case",
		SemaUncaughtException:     "Exception not declared",
		SemaUndeclaredTrigger:     "Triggered error not declared",
		SemaUnreachable:           "Unreachable statement",
		SemaMissingReturn:         "Missing return",
		SemaBadReturn:             "Invalid return",
		SemaIncompatibleSignature: "Incompatible signature",
		SemaForwardMismatch:       "Forward declaration mismatch",
		SemaBadOperand:            "Invalid operand",
		SemaDivisionByZero:        "Division by zero",
		SemaIntegerOverflow:       "Integer overflow",
		SemaBoolToString:          "Boolean converted to string",
		SemaComparisonHint:        "Questionable comparison",
		SemaBadCast:               "Invalid cast",
		SemaRedundantCast:         "Redundant cast",
		SemaArgumentCount:         "Wrong number of arguments",
		SemaArgumentType:          "Wrong argument type",
		SemaByRefArgument:         "Argument must be a variable",
		SemaUnusedAlias:           "Unused use-alias",
		SemaUnusedSymbol:          "Unused declaration",
		SemaUnusedVariable:        "Unused variable",
		SemaNotLibrary:            "Dependency is not a library",
		SemaTopLevelThrow:         "Uncaught exception at top level",
		SemaAbstractInstantiation: "Cannot instantiate",
		SemaMissingImplementation: "Abstract method not implemented",
		SemaFinalOverride:         "Cannot override final",
		SemaBreakOutsideLoop:      "break/continue outside loop",
		SemaNotThrowable:          "Value is not throwable",
		SemaThisOutsideMethod:     "$this outside method",
		SemaUnusedPackage:         "Required package not used",
		SemaPackageNotRequired:    "Package used but not required",
		SemaNoCode:                "No code found",
		SemaLibraryDemoted:        "Package not usable as library",
		SemaBadInheritance:        "Invalid inheritance",
		SemaNotCallable:           "Value is not callable",
		SemaUnusedResult:          "Expression result not used",

		IOInfo:         "I/O information",
		IOReadError:    "Read error",
		IOFileNotFound: "File not found",

		ProjInfo:            "Project information",
		ProjModuleNotFound:  "Module not found",
		ProjSandboxRefused:  "Directive refused by sandbox",
		ProjDepthExceeded:   "Inclusion too deep",
		ProjAutoloadFailed:  "Autoload failed",
		ProjBadDependency:   "Invalid dependency",
		ProjDependencyCycle: "Dependency cycle",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
