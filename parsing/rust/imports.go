package rust

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/tree"
)

// imports flattens a use tree into one Import per leaf
func (mp *moduleParser) imports(n *sitter.Node, attrs ir.Attributes) []ir.Import {
	vis := mp.visibility(n)
	var out []ir.Import
	mp.useClause(n.ChildByFieldName("argument"), tree.Path{}, func(path tree.Path, renaming *tree.Identifier) {
		out = append(out, ir.Import{
			Attributes: attrs,
			Visibility: vis,
			Renaming:   renaming,
			Path:       path,
		})
	})
	return out
}

func (mp *moduleParser) usePath(n *sitter.Node) tree.Path {
	return tree.ParsePath(mp.text(n))
}

func (mp *moduleParser) useClause(n *sitter.Node, prefix tree.Path, emit func(tree.Path, *tree.Identifier)) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "use_as_clause":
		alias := tree.NewIdentifier(mp.text(n.ChildByFieldName("alias")))
		emit(joinUse(prefix, mp.usePath(n.ChildByFieldName("path"))), &alias)
	case "use_list":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c.Type() == "line_comment" || c.Type() == "block_comment" {
				continue
			}
			mp.useClause(c, prefix, emit)
		}
	case "scoped_use_list":
		p := prefix
		if path := n.ChildByFieldName("path"); path != nil {
			p = prefix.JoinPath(mp.usePath(path))
		}
		mp.useClause(n.ChildByFieldName("list"), p, emit)
	case "use_wildcard":
		p := prefix
		if n.NamedChildCount() > 0 {
			p = p.JoinPath(mp.usePath(n.NamedChild(0)))
		}
		emit(p.Join(tree.NewIdentifier(tree.Wildcard)), nil)
	default:
		emit(joinUse(prefix, mp.usePath(n)), nil)
	}
}

// joinUse resolves `self` inside a braced list to the list's prefix
func joinUse(prefix, path tree.Path) tree.Path {
	if !prefix.IsEmpty() && path.Len() == 1 && path.First().Kind == tree.KindSelf {
		return prefix
	}
	return prefix.JoinPath(path)
}
