package parser

import (
	"strings"

	"plint/internal/source"
	"plint/internal/token"
)

// docComment is a parsed /** ... */ block. Types stay textual until a
// declaration consumes the comment, because class names resolve against
// the namespace in effect there.
type docComment struct {
	loc  source.Location
	text string

	params     map[string]string // parameter name (without $) -> type
	ret        string
	varType    string
	varName    string
	throws     []string
	triggers   []string
	deprecated bool
	why        string // deprecation text
	private    bool
	pkgName    string
}

func parseDoc(t token.Token) *docComment {
	d := &docComment{loc: t.Loc, text: t.Text, params: make(map[string]string)}
	body := strings.TrimSuffix(strings.TrimPrefix(t.Text, "/**"), "*/")
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		if !strings.HasPrefix(line, "@") {
			continue
		}
		fields := strings.Fields(line)
		tag, args := strings.ToLower(fields[0]), fields[1:]
		switch tag {
		case "@param":
			d.param(args)
		case "@return", "@returns":
			if len(args) > 0 {
				d.ret = args[0]
			}
		case "@var":
			if len(args) > 0 {
				d.varType = args[0]
			}
			if len(args) > 1 && strings.HasPrefix(args[1], "$") {
				d.varName = args[1][1:]
			}
		case "@throws", "@exception":
			if len(args) > 0 {
				d.throws = append(d.throws, args[0])
			}
		case "@triggers":
			if len(args) > 0 {
				d.triggers = append(d.triggers, args[0])
			}
		case "@deprecated":
			d.deprecated = true
			d.why = strings.Join(args, " ")
		case "@access":
			d.private = len(args) > 0 && strings.EqualFold(args[0], "private")
		case "@package":
			d.pkgName = "-"
			if len(args) > 0 {
				d.pkgName = args[0]
			}
		}
	}
	return d
}

// param accepts "@param T $name", "@param $name" and "@param T & $name".
func (d *docComment) param(args []string) {
	typ := ""
	for _, a := range args {
		a = strings.TrimPrefix(a, "&")
		if strings.HasPrefix(a, "$") || strings.HasPrefix(a, "...$") {
			d.params[strings.TrimPrefix(strings.TrimPrefix(a, "..."), "$")] = typ
			return
		}
		if typ == "" && a != "" {
			typ = a
		}
	}
}

// deprecation returns the deprecation text to record, "" when the comment
// does not deprecate.
func (d *docComment) deprecation() string {
	if d == nil || !d.deprecated {
		return ""
	}
	if d.why == "" {
		return "deprecated"
	}
	return d.why
}

// stashDoc keeps a doc comment for the next declaration. A comment naming
// the package is captured at once.
func (pk *Package) stashDoc(t token.Token) {
	d := parseDoc(t)
	if d.pkgName != "" {
		if pk.sym.Doc == "" {
			pk.sym.Doc = d.text
		}
		return
	}
	if pk.doc != nil {
		pk.unusedDoc()
	}
	pk.doc = d
}
