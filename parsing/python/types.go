package python

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/tree"
)

var builtins = map[string]func() ir.Type{
	"int":   ir.I64,
	"float": ir.F64,
	"bool":  ir.Boolean,
	"str":   ir.StringType,
}

// annotation maps a type hint to a type. Generic arguments are dropped and
// forms other than a dotted name are Opaque. None maps to nil.
func (sp *scopeParser) annotation(n *sitter.Node) ir.Type {
	if n == nil {
		return ir.Opaque()
	}
	return annotationType(sp.text(n))
}

func annotationType(hint string) ir.Type {
	hint = strings.Trim(strings.TrimSpace(hint), `"'`)
	if i := strings.IndexByte(hint, '['); i >= 0 {
		hint = strings.TrimSpace(hint[:i])
	}
	if hint == "None" {
		return nil
	}
	if ctor, ok := builtins[hint]; ok {
		return ctor()
	}
	if !isDottedName(hint) {
		return ir.Opaque()
	}
	return ir.PathType{Path: tree.ParsePath(hint)}
}

func isDottedName(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return false
		}
		for i, r := range part {
			if r != '_' && !unicode.IsLetter(r) && (i == 0 || !unicode.IsDigit(r)) {
				return false
			}
		}
	}
	return true
}
