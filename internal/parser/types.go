package parser

import (
	"strings"

	"plint/internal/diag"
	"plint/internal/source"
	"plint/internal/symbols"
	"plint/internal/token"
	"plint/internal/types"
)

// scalarNames maps the spelling of a built-in type to its type. Plain
// "array" accepts any array; "object" and "callable" have no static
// counterpart and read as mixed.
var scalarNames = map[string]types.TypeID{
	"void":     types.Void,
	"null":     types.Null,
	"bool":     types.Boolean,
	"boolean":  types.Boolean,
	"false":    types.Boolean,
	"true":     types.Boolean,
	"int":      types.Int,
	"integer":  types.Int,
	"float":    types.Float,
	"double":   types.Float,
	"string":   types.String,
	"mixed":    types.Mixed,
	"resource": types.Resource,
	"object":   types.Mixed,
	"callable": types.Mixed,
}

// builtinType resolves a type word that is not a class name.
func (pk *Package) builtinType(word string) (types.TypeID, bool) {
	lower := strings.ToLower(word)
	if t, ok := scalarNames[lower]; ok {
		return t, true
	}
	if lower == "array" || lower == "iterable" {
		return pk.ctx.Types.Array(types.Unknown, types.Unknown), true
	}
	return types.NoTypeID, false
}

// startsAnnotationType reports whether t can begin a type inside /*. .*/.
func startsAnnotationType(t token.Token) bool {
	switch t.Kind {
	case token.MetaVoid, token.MetaBool, token.MetaInt, token.MetaFloat, token.MetaString,
		token.MetaMixed, token.MetaResource, token.MetaObject,
		token.KwArray, token.KwNull, token.KwFalse, token.KwTrue, token.Ident, token.Name:
		return true
	default:
		return false
	}
}

// annotationType parses a type written inside an annotation:
// int, array[int]string, string[], ClassName ...
func (pk *Package) annotationType() types.TypeID {
	t := pk.advance()
	var base types.TypeID
	switch t.Kind {
	case token.MetaVoid, token.MetaBool, token.MetaInt, token.MetaFloat, token.MetaString,
		token.MetaMixed, token.MetaResource, token.MetaObject, token.KwNull, token.KwFalse, token.KwTrue:
		base, _ = pk.builtinType(t.Text)
	case token.KwArray:
		base = pk.annotationArray()
	case token.Ident, token.Name:
		if b, ok := pk.builtinType(t.Text); ok {
			base = b
		} else {
			base = pk.classType(t.Text, t.Loc)
		}
	default:
		pk.errorf(diag.SynExpectType, t.Loc, "expected type, found %s", describe(t))
		return types.Unknown
	}
	// T[] и T[K]
	for pk.at(token.LBracket) {
		base = pk.ctx.Types.Array(pk.annotationKey(), base)
	}
	return base
}

// annotationArray parses what follows "array": nothing, or [K] V.
func (pk *Package) annotationArray() types.TypeID {
	if !pk.at(token.LBracket) {
		return pk.ctx.Types.Array(types.Unknown, types.Unknown)
	}
	key := pk.annotationKey()
	value := types.Unknown
	if startsAnnotationType(pk.peek()) {
		value = pk.annotationType()
	}
	return pk.ctx.Types.Array(key, value)
}

// annotationKey parses "[" [K] "]".
func (pk *Package) annotationKey() types.TypeID {
	open := pk.advance()
	key := types.Unknown
	if !pk.at(token.RBracket) {
		key = pk.annotationType()
		if !types.IsValidKey(key) {
			pk.errorf(diag.SynExpectType, open.Loc, "invalid array key type %s, expected int or string", pk.ctx.FormatType(key))
			key = types.Unknown
		}
	}
	pk.expect(token.RBracket, "']'")
	return key
}

// hintType parses a native type declaration: ?int, array, self, Foo\Bar.
// It reports whether the hint was nullable.
func (pk *Package) hintType() (types.TypeID, bool) {
	nullable := pk.accept(token.Question)
	t := pk.advance()
	var typ types.TypeID
	switch t.Kind {
	case token.KwArray, token.KwNull, token.KwFalse, token.KwTrue:
		typ, _ = pk.builtinType(t.Text)
	case token.KwStatic:
		typ = pk.classType("static", t.Loc)
	case token.Ident, token.Name:
		if b, ok := pk.builtinType(t.Text); ok {
			typ = b
		} else {
			typ = pk.classType(t.Text, t.Loc)
		}
	default:
		pk.errorf(diag.SynExpectType, t.Loc, "expected type, found %s", describe(t))
		return types.Unknown, nullable
	}
	if pk.at(token.Pipe) {
		p := pk.advance()
		pk.warnf(diag.SynUnsupported, p.Loc, "union types are not checked, using mixed")
		for {
			pk.hintType()
			if !pk.accept(token.Pipe) {
				break
			}
		}
		return types.Mixed, nullable
	}
	return typ, nullable
}

// startsHint reports whether t can begin a native type declaration.
func startsHint(t token.Token) bool {
	switch t.Kind {
	case token.Question, token.KwArray, token.KwStatic, token.Ident, token.Name, token.KwNull:
		return true
	default:
		return false
	}
}

// classType resolves a class name used as a type.
func (pk *Package) classType(name string, loc source.Location) types.TypeID {
	c := pk.lookupClass(name, loc)
	if c == nil {
		return types.Unknown
	}
	return pk.ctx.Types.Class(c.ID)
}

// lookupClass resolves a class name written at loc. An unknown class is
// autoloaded once when an autoload hook is installed.
func (pk *Package) lookupClass(name string, loc source.Location) *symbols.Class {
	switch strings.ToLower(name) {
	case "self", "static":
		if pk.class == nil {
			pk.errorf(diag.SemaUnresolvedClass, loc, "%s used outside of a class", name)
			return nil
		}
		return pk.class
	case "parent":
		if pk.class == nil || pk.class.Parent == types.NoClassID {
			pk.errorf(diag.SemaUnresolvedClass, loc, "parent used in a class without parent")
			return nil
		}
		return pk.ctx.Classes.Get(pk.class.Parent)
	}
	c, fqn := pk.ctx.SearchClass(pk.res, name, loc)
	if c == nil && pk.p.autoload(fqn, pk, loc) {
		c, _ = pk.ctx.SearchClass(pk.res, name, loc)
	}
	if c == nil {
		pk.errorf(diag.SemaUnresolvedClass, loc, "unknown class %s", fqn.Absolute())
		return nil
	}
	pk.ctx.AccessClass(c, pk.sym.ID, loc)
	return c
}

// docType parses the type of a doc comment tag: int, string[],
// array[int]string, Foo|null ...
func (pk *Package) docType(text string, loc source.Location) types.TypeID {
	var kept []string
	nullable := false
	for _, part := range strings.Split(text, "|") {
		part = strings.TrimSpace(part)
		if strings.EqualFold(part, "null") {
			nullable = true
			continue
		}
		if part != "" {
			kept = append(kept, part)
		}
	}
	switch len(kept) {
	case 0:
		if nullable {
			return types.Null
		}
		return types.Unknown
	case 1:
		return pk.docSingle(kept[0], loc)
	default:
		return types.Mixed
	}
}

func (pk *Package) docSingle(s string, loc source.Location) types.TypeID {
	s = strings.TrimPrefix(s, "?")
	if inner, ok := strings.CutSuffix(s, "[]"); ok {
		return pk.ctx.Types.Array(types.Unknown, pk.docSingle(inner, loc))
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "array[") {
		end := strings.IndexByte(s, ']')
		if end < 0 {
			pk.errorf(diag.SynBadAnnotation, loc, "malformed array type %q", s)
			return types.Unknown
		}
		key := types.Unknown
		if k := s[len("array["):end]; k != "" {
			key = pk.docSingle(k, loc)
		}
		value := types.Unknown
		if v := s[end+1:]; v != "" {
			value = pk.docSingle(v, loc)
		}
		return pk.ctx.Types.Array(key, value)
	}
	if t, ok := pk.builtinType(s); ok {
		return t
	}
	return pk.classType(s, loc)
}
