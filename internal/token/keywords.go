package token

import "strings"

var keywords = map[string]Kind{
	"abstract":     KwAbstract,
	"and":          KwAnd,
	"array":        KwArray,
	"as":           KwAs,
	"break":        KwBreak,
	"case":         KwCase,
	"catch":        KwCatch,
	"class":        KwClass,
	"clone":        KwClone,
	"const":        KwConst,
	"continue":     KwContinue,
	"declare":      KwDeclare,
	"default":      KwDefault,
	"die":          KwExit,
	"do":           KwDo,
	"echo":         KwEcho,
	"else":         KwElse,
	"elseif":       KwElseif,
	"empty":        KwEmpty,
	"enddeclare":   KwEndDeclare,
	"endfor":       KwEndFor,
	"endforeach":   KwEndForeach,
	"endif":        KwEndIf,
	"endswitch":    KwEndSwitch,
	"endwhile":     KwEndWhile,
	"exit":         KwExit,
	"extends":      KwExtends,
	"false":        KwFalse,
	"final":        KwFinal,
	"finally":      KwFinally,
	"fn":           KwFn,
	"for":          KwFor,
	"foreach":      KwForeach,
	"function":     KwFunction,
	"global":       KwGlobal,
	"goto":         KwGoto,
	"if":           KwIf,
	"implements":   KwImplements,
	"include":      KwInclude,
	"include_once": KwIncludeOnce,
	"instanceof":   KwInstanceof,
	"insteadof":    KwInsteadof,
	"interface":    KwInterface,
	"isset":        KwIsset,
	"list":         KwList,
	"match":        KwMatch,
	"namespace":    KwNamespace,
	"new":          KwNew,
	"null":         KwNull,
	"or":           KwOr,
	"print":        KwPrint,
	"private":      KwPrivate,
	"protected":    KwProtected,
	"public":       KwPublic,
	"require":      KwRequire,
	"require_once": KwRequireOnce,
	"return":       KwReturn,
	"static":       KwStatic,
	"switch":       KwSwitch,
	"throw":        KwThrow,
	"trait":        KwTrait,
	"true":         KwTrue,
	"try":          KwTry,
	"unset":        KwUnset,
	"use":          KwUse,
	"var":          KwVar,
	"while":        KwWhile,
	"xor":          KwXor,
	"yield":        KwYield,

	"__line__":      MagicLine,
	"__file__":      MagicFile,
	"__dir__":       MagicDir,
	"__function__":  MagicFunction,
	"__class__":     MagicClass,
	"__method__":    MagicMethod,
	"__namespace__": MagicNamespace,
}

// Words recognized only between /*. and .*/. They shadow identifiers there.
var metaWords = map[string]Kind{
	"void":           MetaVoid,
	"bool":           MetaBool,
	"boolean":        MetaBool,
	"int":            MetaInt,
	"integer":        MetaInt,
	"float":          MetaFloat,
	"double":         MetaFloat,
	"real":           MetaFloat,
	"string":         MetaString,
	"mixed":          MetaMixed,
	"resource":       MetaResource,
	"object":         MetaObject,
	"throws":         MetaThrows,
	"triggers":       MetaTriggers,
	"forward":        MetaForward,
	"require_module": MetaRequireModule,
	"pragma":         MetaPragma,
	"args":           MetaArgs,
}

var casts = map[string]Kind{
	"int":     CastInt,
	"integer": CastInt,
	"float":   CastFloat,
	"double":  CastFloat,
	"real":    CastFloat,
	"string":  CastString,
	"binary":  CastString,
	"bool":    CastBool,
	"boolean": CastBool,
	"array":   CastArray,
	"object":  CastObject,
	"unset":   CastUnset,
}

// LookupKeyword reports the keyword kind for ident. Keywords and magic
// constants are case-insensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[strings.ToLower(ident)]
	return k, ok
}

// LookupMeta reports the annotation word kind for ident. Code keywords are
// also valid inside annotations and are checked first.
func LookupMeta(ident string) (Kind, bool) {
	lower := strings.ToLower(ident)
	if k, ok := keywords[lower]; ok {
		return k, true
	}
	k, ok := metaWords[lower]
	return k, ok
}

// LookupCast maps the word between parentheses of a cast, e.g. "int" in
// "( int )", to its cast kind.
func LookupCast(word string) (Kind, bool) {
	k, ok := casts[strings.ToLower(word)]
	return k, ok
}
