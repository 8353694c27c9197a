package ir

import (
	"github.com/teranos/bindgen/tree"
)

// Import brings a path into scope, optionally under another name
type Import struct {
	Attributes Attributes
	Visibility Visibility
	Renaming   *tree.Identifier
	Path       tree.Path
}

// IsWildcard reports whether the import ends in the glob marker
func (i *Import) IsWildcard() bool { return i.Path.IsWildcard() }

// ImportedIdentifier is the name the import introduces into scope
func (i *Import) ImportedIdentifier() tree.Identifier {
	if i.Renaming != nil {
		return *i.Renaming
	}
	return i.Path.Last()
}

func (i *Import) String() string {
	s := "use " + i.Path.String()
	if i.Renaming != nil {
		s += " as " + i.Renaming.Name
	}
	return s
}

// Module is a namespace of imports, submodules, functions and objects
type Module struct {
	Attributes Attributes
	Visibility Visibility
	ID         tree.Identifier
	Imports    []Import
	Modules    []*Module
	Functions  []*Function
	Objects    []*Object
}

// NewModule creates an empty module
func NewModule(name string) *Module {
	return &Module{ID: tree.NewIdentifier(name)}
}

// IsIgnored reports whether the module carries an ignore attribute group
func (m *Module) IsIgnored() bool { return m.Attributes.IsIgnored() }

// AddBranch inserts child unless a module with the same identifier exists,
// and returns the stored module either way.
func (m *Module) AddBranch(child *Module) *Module {
	for _, existing := range m.Modules {
		if existing.ID == child.ID {
			return existing
		}
	}
	m.Modules = append(m.Modules, child)
	return child
}

// FindModule descends through child modules along a relative path.
// The empty path is m itself.
func (m *Module) FindModule(path tree.Path) (*Module, bool) {
	current := m
	for _, seg := range path.Segments {
		var next *Module
		for _, child := range current.Modules {
			if child.ID == seg {
				next = child
				break
			}
		}
		if next == nil {
			return nil, false
		}
		current = next
	}
	return current, true
}

// FindObject resolves module::Object relative to m
func (m *Module) FindObject(path tree.Path) (*Object, bool) {
	name, modulePath, ok := path.PopBack()
	if !ok {
		return nil, false
	}
	module, ok := m.FindModule(modulePath)
	if !ok {
		return nil, false
	}
	for _, obj := range module.Objects {
		if obj.Identifier() == name {
			return obj, true
		}
	}
	return nil, false
}

// FindDefinition resolves the type definition at a path relative to m
func (m *Module) FindDefinition(path tree.Path) (TypeDefinition, bool) {
	obj, ok := m.FindObject(path)
	if !ok || obj.Definition == nil {
		return nil, false
	}
	return obj.Definition, true
}

// FindFunction resolves module::function relative to m
func (m *Module) FindFunction(path tree.Path) (*Function, bool) {
	name, modulePath, ok := path.PopBack()
	if !ok {
		return nil, false
	}
	module, ok := m.FindModule(modulePath)
	if !ok {
		return nil, false
	}
	for _, fn := range module.Functions {
		if fn.ID == name {
			return fn, true
		}
	}
	return nil, false
}

// ReplaceSelfWithExplicitNames rewrites Self inside every implementation of
// m and its submodules to the implementing type. Running it twice is a no-op.
func (m *Module) ReplaceSelfWithExplicitNames() {
	for _, child := range m.Modules {
		child.ReplaceSelfWithExplicitNames()
	}
	for _, obj := range m.Objects {
		for i := range obj.Implementations {
			obj.Implementations[i].ReplaceSelfWithExplicitNames()
		}
	}
}

// ReplaceWildcardImports expands every "path::*" import into one import per
// public object and per public re-export of the target module. Submodules are
// expanded first so re-exports chain through in a single pass. Targets are
// resolved relative to the importing module; self, super and crate prefixes
// are honored. A wildcard whose target cannot be resolved is dropped.
func (m *Module) ReplaceWildcardImports() {
	m.replaceWildcardImports([]*Module{m})
}

// scope is the chain of modules from the root to the current one
func (m *Module) replaceWildcardImports(scope []*Module) {
	for _, child := range m.Modules {
		childScope := append(append([]*Module(nil), scope...), child)
		child.replaceWildcardImports(childScope)
	}

	var wildcards []Import
	var imports []Import
	for _, imp := range m.Imports {
		if imp.IsWildcard() {
			wildcards = append(wildcards, imp)
		} else {
			imports = append(imports, imp)
		}
	}
	if len(wildcards) == 0 {
		return
	}

	for _, wildcard := range wildcards {
		modulePath := wildcard.Path.WithoutLast()
		target, ok := resolveModule(scope, modulePath)
		if !ok {
			continue
		}
		for _, obj := range target.Objects {
			if !obj.IsPublic() {
				continue
			}
			imports = append(imports, expandedImport(wildcard, modulePath.Join(obj.Identifier())))
		}
		for _, reexport := range target.Imports {
			if reexport.Visibility != Public || reexport.IsWildcard() {
				continue
			}
			imports = append(imports, expandedImport(wildcard, modulePath.Join(reexport.ImportedIdentifier())))
		}
	}
	m.Imports = imports
}

func expandedImport(wildcard Import, path tree.Path) Import {
	return Import{
		Attributes: wildcard.Attributes,
		Visibility: wildcard.Visibility,
		Renaming:   wildcard.Renaming,
		Path:       path,
	}
}

// resolveModule follows path from the last module in scope
func resolveModule(scope []*Module, path tree.Path) (*Module, bool) {
	stack := scope
	for _, seg := range path.Segments {
		switch seg.Kind {
		case tree.KindRoot:
			stack = stack[:1]
		case tree.KindSelf:
		case tree.KindSuper:
			if len(stack) < 2 {
				return nil, false
			}
			stack = stack[:len(stack)-1]
		default:
			child, ok := stack[len(stack)-1].FindModule(tree.NewPath(seg))
			if !ok {
				return nil, false
			}
			stack = append(append([]*Module(nil), stack...), child)
		}
	}
	return stack[len(stack)-1], true
}
