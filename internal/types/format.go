package types

import "strings"

// Format renders a type the way annotations spell it: int, string,
// array[int]string, array[]Foo, ClassName.
func (in *Interner) Format(id TypeID, h Hierarchy) string {
	var b strings.Builder
	in.format(&b, id, h)
	return b.String()
}

func (in *Interner) format(b *strings.Builder, id TypeID, h Hierarchy) {
	tt, ok := in.Lookup(id)
	if !ok {
		b.WriteString("?")
		return
	}
	switch tt.Kind {
	case KindArray:
		if id == EmptyArray {
			b.WriteString("array()")
			return
		}
		b.WriteString("array[")
		if tt.Key != Unknown {
			in.format(b, tt.Key, h)
		}
		b.WriteString("]")
		in.format(b, tt.Value, h)
	case KindClass:
		if h != nil {
			if name := h.ClassName(tt.Class); name != "" {
				b.WriteString(name)
				return
			}
		}
		b.WriteString("object")
	default:
		b.WriteString(tt.Kind.String())
	}
}
