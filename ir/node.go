package ir

import (
	"github.com/teranos/bindgen/tree"
)

// Node is any IR entity that takes part in tree navigation:
// *Library, *Module, *Object, *Function and *Parameter.
type Node interface {
	tree.Branching[Node]
	isNode()
}

// Visitor is a path-aware wrapper around an IR node
type Visitor = tree.Visitor[Node]

func (*Library) isNode()   {}
func (*Module) isNode()    {}
func (*Object) isNode()    {}
func (*Function) isNode()  {}
func (*Parameter) isNode() {}

func (l *Library) Identifier() tree.Identifier   { return l.ID }
func (m *Module) Identifier() tree.Identifier    { return m.ID }
func (f *Function) Identifier() tree.Identifier  { return f.ID }
func (p *Parameter) Identifier() tree.Identifier { return p.ID }

// Identifier is the definition name, or the last path segment before a definition is known
func (o *Object) Identifier() tree.Identifier {
	if o.Definition != nil {
		return o.Definition.Identifier()
	}
	return o.Path.Last()
}

func (l *Library) Branches() []Node {
	if l.RootModule == nil {
		return nil
	}
	return []Node{l.RootModule}
}

// Branches lists submodules, then objects, then functions
func (m *Module) Branches() []Node {
	out := make([]Node, 0, len(m.Modules)+len(m.Objects)+len(m.Functions))
	for _, child := range m.Modules {
		out = append(out, child)
	}
	for _, obj := range m.Objects {
		out = append(out, obj)
	}
	for _, fn := range m.Functions {
		out = append(out, fn)
	}
	return out
}

func (o *Object) Branches() []Node {
	methods := o.Methods()
	out := make([]Node, 0, len(methods))
	for _, fn := range methods {
		out = append(out, fn)
	}
	return out
}

func (f *Function) Branches() []Node {
	out := make([]Node, 0, len(f.Inputs))
	for i := range f.Inputs {
		out = append(out, &f.Inputs[i])
	}
	return out
}

func (p *Parameter) Branches() []Node { return nil }

// NewLibraryVisitor returns a root visitor over the library's root module.
// Its path is the library identifier, so "crate::a::B" resolves from any
// descendant and generated paths start with the library name.
func NewLibraryVisitor(l *Library) *Visitor {
	root := l.RootModule
	if root == nil {
		root = &Module{ID: l.ID}
	}
	return tree.NewVisitor[Node](root, nil, tree.NewPath(l.ID))
}
