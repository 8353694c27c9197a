package rust

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/teranos/bindgen/ir"
)

// attribute converts `#[name]`, `#[name = lit]` and `#[name(args)]`
func (mp *moduleParser) attribute(item *sitter.Node) ir.Attribute {
	var attr *sitter.Node
	for i := 0; i < int(item.NamedChildCount()); i++ {
		if c := item.NamedChild(i); c.Type() == "attribute" {
			attr = c
			break
		}
	}
	if attr == nil || attr.NamedChildCount() == 0 {
		return nil
	}
	name := strings.ReplaceAll(mp.text(attr.NamedChild(0)), " ", "")

	if value := attr.ChildByFieldName("value"); value != nil {
		return ir.NewNamed(name, ir.ParseLiteral(mp.text(value)))
	}
	if args := attr.ChildByFieldName("arguments"); args != nil {
		return ir.NewGroup(name, mp.tokenTree(args)...)
	}
	return ir.NewFlag(name)
}

func isDelimiter(t string) bool {
	switch t {
	case "(", ")", "[", "]", "{", "}":
		return true
	}
	return false
}

// tokenTree reads comma separated attribute arguments:
// `a`, `a = lit` and `a(nested...)`
func (mp *moduleParser) tokenTree(tt *sitter.Node) ir.Attributes {
	var out ir.Attributes
	var name strings.Builder
	assigning := false

	flush := func() {
		if name.Len() > 0 {
			out = append(out, ir.NewFlag(name.String()))
		}
		name.Reset()
		assigning = false
	}

	count := int(tt.ChildCount())
	for i := 0; i < count; i++ {
		c := tt.Child(i)
		t := c.Type()
		if (i == 0 || i == count-1) && isDelimiter(t) {
			continue
		}
		switch {
		case t == ",":
			flush()
		case t == "=":
			assigning = true
		case t == "token_tree":
			nested := mp.tokenTree(c)
			if name.Len() > 0 && !assigning {
				out = append(out, ir.NewGroup(name.String(), nested...))
				name.Reset()
			} else {
				out = append(out, nested...)
			}
		case assigning:
			out = append(out, ir.NewNamed(name.String(), ir.ParseLiteral(mp.text(c))))
			name.Reset()
			assigning = false
		default:
			name.WriteString(mp.text(c))
		}
	}
	flush()
	return out
}
