package python

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/tree"
)

// imports reads `import a.b` and `import a.b as c`
func (sp *scopeParser) imports(n *sitter.Node) []ir.Import {
	var out []ir.Import
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if imp, ok := sp.importName(n.NamedChild(i), tree.Path{}); ok {
			out = append(out, imp)
		}
	}
	return out
}

// fromImports reads `from m import a, b as c` and `from m import *`.
// Relative modules start with self, each extra dot adds a super.
func (sp *scopeParser) fromImports(n *sitter.Node) []ir.Import {
	module := n.ChildByFieldName("module_name")
	if module == nil {
		return nil
	}
	prefix := modulePath(sp.text(module))

	var out []ir.Import
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.StartByte() == module.StartByte() && c.EndByte() == module.EndByte() {
			continue
		}
		if c.Type() == "wildcard_import" {
			out = append(out, ir.Import{
				Visibility: ir.Private,
				Path:       prefix.Join(tree.NewIdentifier(tree.Wildcard)),
			})
			continue
		}
		if imp, ok := sp.importName(c, prefix); ok {
			out = append(out, imp)
		}
	}
	return out
}

func (sp *scopeParser) importName(n *sitter.Node, prefix tree.Path) (ir.Import, bool) {
	imp := ir.Import{Visibility: ir.Private}
	switch n.Type() {
	case "dotted_name":
		imp.Path = prefix.JoinPath(tree.ParsePath(sp.text(n)))
	case "aliased_import":
		imp.Path = prefix.JoinPath(tree.ParsePath(sp.text(n.ChildByFieldName("name"))))
		alias := tree.NewIdentifier(sp.text(n.ChildByFieldName("alias")))
		imp.Renaming = &alias
	default:
		return imp, false
	}
	return imp, !imp.Path.IsEmpty()
}

// modulePath converts a possibly relative module name to a path
func modulePath(name string) tree.Path {
	dots := len(name) - len(strings.TrimLeft(name, "."))
	rest := name[dots:]
	var path tree.Path
	if dots > 0 {
		path = tree.NewPath(tree.SelfRef())
		for i := 1; i < dots; i++ {
			path = path.Join(tree.SuperRef())
		}
	}
	if rest != "" {
		path = path.JoinPath(tree.ParsePath(rest))
	}
	return path
}
