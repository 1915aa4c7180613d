package token

import "fmt"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// InlineHTML is text outside the code tags.
	InlineHTML
	OpenTag     // <?php or <?
	OpenTagEcho // <?=
	CloseTag    // ?>

	// DocComment carries the full text of a /** ... */ comment.
	DocComment
	// AnnotationOpen starts an analyzer annotation /*. ... .*/
	AnnotationOpen
	AnnotationClose

	// Ident is a bare identifier (no namespace separator).
	Ident
	// Name is a qualified (A\B), fully qualified (\A\B) or relative (namespace\A) name.
	Name
	// Variable is $name; Text holds the name without '$'.
	Variable

	IntLit
	FloatLit
	// StringLit is a complete literal without interpolation; Text holds the decoded value.
	StringLit
	DQStart     // opening " of an interpolated string
	DQEnd       // closing " of an interpolated string
	HeredocStart
	HeredocEnd
	StringPart // literal chunk inside an interpolated string

	// keywords (case-insensitive)
	KwAbstract
	KwAnd
	KwArray
	KwAs
	KwBreak
	KwCase
	KwCatch
	KwClass
	KwClone
	KwConst
	KwContinue
	KwDeclare
	KwDefault
	KwDo
	KwEcho
	KwElse
	KwElseif
	KwEmpty
	KwEndDeclare
	KwEndFor
	KwEndForeach
	KwEndIf
	KwEndSwitch
	KwEndWhile
	KwExit
	KwExtends
	KwFalse
	KwFinal
	KwFinally
	KwFn
	KwFor
	KwForeach
	KwFunction
	KwGlobal
	KwGoto
	KwIf
	KwImplements
	KwInclude
	KwIncludeOnce
	KwInstanceof
	KwInsteadof
	KwInterface
	KwIsset
	KwList
	KwMatch
	KwNamespace
	KwNew
	KwNull
	KwOr
	KwPrint
	KwPrivate
	KwProtected
	KwPublic
	KwRequire
	KwRequireOnce
	KwReturn
	KwStatic
	KwSwitch
	KwThrow
	KwTrait
	KwTrue
	KwTry
	KwUnset
	KwUse
	KwVar
	KwWhile
	KwXor
	KwYield

	// magic constants
	MagicLine
	MagicFile
	MagicDir
	MagicFunction
	MagicClass
	MagicMethod
	MagicNamespace

	// annotation-only words
	MetaVoid
	MetaBool
	MetaInt
	MetaFloat
	MetaString
	MetaMixed
	MetaResource
	MetaObject
	MetaThrows
	MetaTriggers
	MetaForward
	MetaRequireModule
	MetaPragma
	MetaArgs

	// casts
	CastInt
	CastFloat
	CastString
	CastBool
	CastArray
	CastObject
	CastUnset

	// operators
	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	StarStar   // **
	Dot        // .
	Assign     // =
	PlusAssign // +=
	MinusAssign
	StarAssign
	SlashAssign
	PercentAssign
	StarStarAssign
	DotAssign
	AmpAssign
	PipeAssign
	CaretAssign
	ShlAssign
	ShrAssign
	CoalesceAssign // ??=
	EqEq           // ==
	BangEq         // != or <>
	EqEqEq         // ===
	BangEqEq       // !==
	Lt
	LtEq
	Gt
	GtEq
	Spaceship // <=>
	AndAnd
	OrOr
	Bang
	Amp
	Pipe
	Caret
	Tilde
	Shl
	Shr
	PlusPlus
	MinusMinus
	Question
	Coalesce // ??
	Colon
	ColonColon
	Arrow    // ->
	FatArrow // =>
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Semicolon
	Comma
	At       // @ silencer
	Ellipsis // ...
	Backslash

	kindCount
)

var kindNames = [...]string{
	Invalid:           "Invalid",
	EOF:               "EOF",
	InlineHTML:        "InlineHTML",
	OpenTag:           "OpenTag",
	OpenTagEcho:       "OpenTagEcho",
	CloseTag:          "CloseTag",
	DocComment:        "DocComment",
	AnnotationOpen:    "AnnotationOpen",
	AnnotationClose:   "AnnotationClose",
	Ident:             "Ident",
	Name:              "Name",
	Variable:          "Variable",
	IntLit:            "IntLit",
	FloatLit:          "FloatLit",
	StringLit:         "StringLit",
	DQStart:           "DQStart",
	DQEnd:             "DQEnd",
	HeredocStart:      "HeredocStart",
	HeredocEnd:        "HeredocEnd",
	StringPart:        "StringPart",
	KwAbstract:        "abstract",
	KwAnd:             "and",
	KwArray:           "array",
	KwAs:              "as",
	KwBreak:           "break",
	KwCase:            "case",
	KwCatch:           "catch",
	KwClass:           "class",
	KwClone:           "clone",
	KwConst:           "const",
	KwContinue:        "continue",
	KwDeclare:         "declare",
	KwDefault:         "default",
	KwDo:              "do",
	KwEcho:            "echo",
	KwElse:            "else",
	KwElseif:          "elseif",
	KwEmpty:           "empty",
	KwEndDeclare:      "enddeclare",
	KwEndFor:          "endfor",
	KwEndForeach:      "endforeach",
	KwEndIf:           "endif",
	KwEndSwitch:       "endswitch",
	KwEndWhile:        "endwhile",
	KwExit:            "exit",
	KwExtends:         "extends",
	KwFalse:           "false",
	KwFinal:           "final",
	KwFinally:         "finally",
	KwFn:              "fn",
	KwFor:             "for",
	KwForeach:         "foreach",
	KwFunction:        "function",
	KwGlobal:          "global",
	KwGoto:            "goto",
	KwIf:              "if",
	KwImplements:      "implements",
	KwInclude:         "include",
	KwIncludeOnce:     "include_once",
	KwInstanceof:      "instanceof",
	KwInsteadof:       "insteadof",
	KwInterface:       "interface",
	KwIsset:           "isset",
	KwList:            "list",
	KwMatch:           "match",
	KwNamespace:       "namespace",
	KwNew:             "new",
	KwNull:            "null",
	KwOr:              "or",
	KwPrint:           "print",
	KwPrivate:         "private",
	KwProtected:       "protected",
	KwPublic:          "public",
	KwRequire:         "require",
	KwRequireOnce:     "require_once",
	KwReturn:          "return",
	KwStatic:          "static",
	KwSwitch:          "switch",
	KwThrow:           "throw",
	KwTrait:           "trait",
	KwTrue:            "true",
	KwTry:             "try",
	KwUnset:           "unset",
	KwUse:             "use",
	KwVar:             "var",
	KwWhile:           "while",
	KwXor:             "xor",
	KwYield:           "yield",
	MagicLine:         "__LINE__",
	MagicFile:         "__FILE__",
	MagicDir:          "__DIR__",
	MagicFunction:     "__FUNCTION__",
	MagicClass:        "__CLASS__",
	MagicMethod:       "__METHOD__",
	MagicNamespace:    "__NAMESPACE__",
	MetaVoid:          "void",
	MetaBool:          "bool",
	MetaInt:           "int",
	MetaFloat:         "float",
	MetaString:        "string",
	MetaMixed:         "mixed",
	MetaResource:      "resource",
	MetaObject:        "object",
	MetaThrows:        "throws",
	MetaTriggers:      "triggers",
	MetaForward:       "forward",
	MetaRequireModule: "require_module",
	MetaPragma:        "pragma",
	MetaArgs:          "args",
	CastInt:           "(int)",
	CastFloat:         "(float)",
	CastString:        "(string)",
	CastBool:          "(bool)",
	CastArray:         "(array)",
	CastObject:        "(object)",
	CastUnset:         "(unset)",
	Plus:              "+",
	Minus:             "-",
	Star:              "*",
	Slash:             "/",
	Percent:           "%",
	StarStar:          "**",
	Dot:               ".",
	Assign:            "=",
	PlusAssign:        "+=",
	MinusAssign:       "-=",
	StarAssign:        "*=",
	SlashAssign:       "/=",
	PercentAssign:     "%=",
	StarStarAssign:    "**=",
	DotAssign:         ".=",
	AmpAssign:         "&=",
	PipeAssign:        "|=",
	CaretAssign:       "^=",
	ShlAssign:         "<<=",
	ShrAssign:         ">>=",
	CoalesceAssign:    "??=",
	EqEq:              "==",
	BangEq:            "!=",
	EqEqEq:            "===",
	BangEqEq:          "!==",
	Lt:                "<",
	LtEq:              "<=",
	Gt:                ">",
	GtEq:              ">=",
	Spaceship:         "<=>",
	AndAnd:            "&&",
	OrOr:              "||",
	Bang:              "!",
	Amp:               "&",
	Pipe:              "|",
	Caret:             "^",
	Tilde:             "~",
	Shl:               "<<",
	Shr:               ">>",
	PlusPlus:          "++",
	MinusMinus:        "--",
	Question:          "?",
	Coalesce:          "??",
	Colon:             ":",
	ColonColon:        "::",
	Arrow:             "->",
	FatArrow:          "=>",
	LParen:            "(",
	RParen:            ")",
	LBracket:          "[",
	RBracket:          "]",
	LBrace:            "{",
	RBrace:            "}",
	Semicolon:         ";",
	Comma:             ",",
	At:                "@",
	Ellipsis:          "...",
	Backslash:         "\\",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsKeyword reports whether the kind is a code keyword.
func (k Kind) IsKeyword() bool {
	return k >= KwAbstract && k <= KwYield
}

// IsMeta reports whether the kind is only produced inside annotations.
func (k Kind) IsMeta() bool {
	return k >= MetaVoid && k <= MetaArgs
}

// IsCast reports whether the kind is a (type) cast operator.
func (k Kind) IsCast() bool {
	return k >= CastInt && k <= CastUnset
}

// IsAssign reports whether the kind is = or a compound assignment.
func (k Kind) IsAssign() bool {
	return k >= Assign && k <= CoalesceAssign
}

// IsMagic reports whether the kind is a magic constant.
func (k Kind) IsMagic() bool {
	return k >= MagicLine && k <= MagicNamespace
}
