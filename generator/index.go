package generator

import (
	"strings"

	"github.com/teranos/bindgen/output"
	"github.com/teranos/bindgen/tree"
)

// FileIndex arranges files by directory under a root named after g's base path.
// Files sit on the leaves; directory nodes hold nil.
func FileIndex(g Generator, files *output.FileSet) *tree.Tree[*output.File] {
	root := tree.NewTree[*output.File](tree.Identifier{Name: g.BasePath(), Kind: tree.KindOther}, nil)
	for _, f := range files.Files() {
		root.Insert(tree.PathOf(strings.Split(f.Path, "/")...), f)
	}
	return root
}
