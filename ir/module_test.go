package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bindgen/tree"
)

func publicObject(name string) *Object { return object(name, publicStruct(name)) }

func privateObject(name string) *Object {
	return object(name, &Structure{Visibility: Inherited, ID: id(name)})
}

func use(vis Visibility, path string) Import {
	return Import{Visibility: vis, Path: tree.ParsePath(path)}
}

func importPaths(m *Module) []string {
	var out []string
	for _, imp := range m.Imports {
		out = append(out, imp.Path.String())
	}
	return out
}

func TestReplaceWildcardImportsSubmodule(t *testing.T) {
	sub := &Module{ID: id("sub"), Objects: []*Object{publicObject("Foo"), publicObject("Bar")}}
	SortObjects(sub.Objects)
	parent := &Module{
		ID:      id("parent"),
		Imports: []Import{use(Inherited, "sub::*")},
		Modules: []*Module{sub},
	}

	parent.ReplaceWildcardImports()

	assert.Equal(t, []string{"sub::Bar", "sub::Foo"}, importPaths(parent))
	for _, imp := range parent.Imports {
		assert.False(t, imp.IsWildcard())
	}
}

func TestReplaceWildcardImportsKeepsMetadata(t *testing.T) {
	sub := &Module{ID: id("sub"), Objects: []*Object{publicObject("Foo")}}
	attrs := Attributes{NewFlag("doc")}
	parent := &Module{
		ID:      id("parent"),
		Imports: []Import{{Attributes: attrs, Visibility: Public, Path: tree.ParsePath("sub::*")}},
		Modules: []*Module{sub},
	}

	parent.ReplaceWildcardImports()

	require.Len(t, parent.Imports, 1)
	assert.Equal(t, Public, parent.Imports[0].Visibility)
	assert.True(t, attrs.Equal(parent.Imports[0].Attributes))
}

// nestedModule mirrors a crate with chained glob re-exports
func nestedModule() *Module {
	renamed := id("ObjectTen")
	deeper := &Module{ID: id("deeper"), Objects: []*Object{publicObject("Object5"), publicObject("Object6"), privateObject("Object7")}}
	deeper2 := &Module{ID: id("deeper2"), Objects: []*Object{publicObject("Object8"), publicObject("Object9"), publicObject("ObjectA")}}
	objects := &Module{
		ID:      id("objects"),
		Objects: []*Object{publicObject("Object2"), publicObject("Object3"), privateObject("Object4")},
		Modules: []*Module{deeper, deeper2},
		Imports: []Import{
			use(Public, "deeper::*"),
			use(Public, "deeper2::Object8"),
			use(Inherited, "deeper2::Object9"),
			{Visibility: Public, Renaming: &renamed, Path: tree.ParsePath("deeper2::ObjectA")},
		},
	}
	return &Module{
		ID:      id("root"),
		Modules: []*Module{{ID: id("object"), Objects: []*Object{publicObject("Object1")}}, objects},
		Imports: []Import{use(Public, "object::Object1"), use(Public, "objects::*")},
	}
}

func TestReplaceWildcardImportsBottomUp(t *testing.T) {
	root := nestedModule()
	root.ReplaceWildcardImports()

	objects, ok := root.FindModule(tree.PathOf("objects"))
	require.True(t, ok)
	assert.Equal(t, []string{
		"deeper2::Object8",
		"deeper2::Object9",
		"deeper2::ObjectA",
		"deeper::Object5",
		"deeper::Object6",
	}, importPaths(objects))

	assert.Equal(t, []string{
		"object::Object1",
		"objects::Object2",
		"objects::Object3",
		"objects::Object8",
		"objects::ObjectTen",
		"objects::Object5",
		"objects::Object6",
	}, importPaths(root))
}

func TestReplaceWildcardImportsIsIdempotent(t *testing.T) {
	once := nestedModule()
	once.ReplaceWildcardImports()

	twice := nestedModule()
	twice.ReplaceWildcardImports()
	twice.ReplaceWildcardImports()

	assert.Equal(t, once, twice)
}

func TestReplaceWildcardImportsRelativePrefixes(t *testing.T) {
	shapes := &Module{ID: id("shapes"), Objects: []*Object{publicObject("Circle")}}
	inner := &Module{
		ID: id("inner"),
		Imports: []Import{
			use(Inherited, "super::shapes::*"),
			use(Inherited, "crate::shapes::*"),
			use(Inherited, "self::missing::*"),
			use(Inherited, "super::super::*"),
		},
	}
	root := &Module{ID: id("crate_root"), Modules: []*Module{shapes, inner}}

	root.ReplaceWildcardImports()

	assert.Equal(t, []string{"super::shapes::Circle", "crate::shapes::Circle"}, importPaths(inner))
}

func TestReplaceWildcardImportsUnresolvedContributesNothing(t *testing.T) {
	m := &Module{ID: id("m"), Imports: []Import{use(Public, "nowhere::*"), use(Public, "a::B")}}
	m.ReplaceWildcardImports()
	assert.Equal(t, []string{"a::B"}, importPaths(m))
}

func TestReplaceSelfWithExplicitNames(t *testing.T) {
	fn := Function{
		ID:     id("new"),
		Inputs: []Parameter{{ID: id("other"), Type: NewReference(Borrow, Constant, NamedType("Self"))}},
		Output: NamedType("Self"),
	}
	child := &Module{
		ID: id("geometry"),
		Objects: []*Object{object("Point", pointDefinition(), Implementation{
			Self: NamedType("Point"),
			Items: []ImplementationItem{
				NewMethod(fn, NamedType("Self")),
				AssociatedConstant{ID: id("ZERO"), Type: NamedType("Self")},
			},
		})},
	}
	root := &Module{ID: id("lib"), Modules: []*Module{child}}

	root.ReplaceSelfWithExplicitNames()
	root.ReplaceSelfWithExplicitNames()

	impl := child.Objects[0].Implementations[0]
	method := impl.Methods()[0]
	assert.Equal(t, "&Point", method.Inputs[0].Type.String())
	assert.Equal(t, "Point", method.Output.String())
	assert.Equal(t, "Point", method.Method.Owner.String())
	assert.Equal(t, "Point", impl.Constants()[0].Type.String())
}

func TestModuleLookups(t *testing.T) {
	lib := sampleLibrary()
	root := lib.RootModule

	geometry, ok := root.FindModule(tree.PathOf("geometry"))
	require.True(t, ok)
	assert.Equal(t, "geometry", geometry.ID.Name)

	self, ok := root.FindModule(tree.Path{})
	require.True(t, ok)
	assert.Same(t, root, self)

	_, ok = root.FindModule(tree.PathOf("nope"))
	assert.False(t, ok)

	def, ok := root.FindDefinition(tree.PathOf("geometry", "Shape"))
	require.True(t, ok)
	assert.IsType(t, &Enumeration{}, def)

	_, ok = root.FindObject(tree.PathOf("geometry", "Nope"))
	assert.False(t, ok)

	fn, ok := root.FindFunction(tree.PathOf("fetch"))
	require.True(t, ok)
	assert.True(t, fn.IsAsync())
}

func TestModuleAddBranch(t *testing.T) {
	m := NewModule("lib")
	a := m.AddBranch(NewModule("a"))
	again := m.AddBranch(NewModule("a"))

	assert.Same(t, a, again)
	assert.Len(t, m.Modules, 1)

	got, ok := tree.Get[Node](m, id("a"))
	require.True(t, ok)
	assert.Same(t, a, got)
}

func TestModuleIsIgnored(t *testing.T) {
	m := NewModule("internal")
	assert.False(t, m.IsIgnored())
	m.Attributes = Attributes{NewGroup("bindgen", NewFlag("ignore"))}
	assert.True(t, m.IsIgnored())
}

func TestImportedIdentifier(t *testing.T) {
	renamed := id("Alias")
	imp := Import{Path: tree.PathOf("a", "B"), Renaming: &renamed}
	assert.Equal(t, "Alias", imp.ImportedIdentifier().Name)
	assert.Equal(t, "use a::B as Alias", imp.String())

	imp.Renaming = nil
	assert.Equal(t, "B", imp.ImportedIdentifier().Name)
}

func TestLibraryNormalize(t *testing.T) {
	lib := NewLibrary("lib")
	sub := lib.RootModule.AddBranch(&Module{ID: id("sub"), Visibility: Public, Objects: []*Object{publicObject("Foo")}})
	require.NotNil(t, sub)
	lib.RootModule.Imports = []Import{use(Public, "sub::*")}

	lib.Normalize()
	assert.Equal(t, []string{"sub::Foo"}, importPaths(lib.RootModule))
	assert.Equal(t, 1, lib.CountObjects())
}

func TestMetadataSemVer(t *testing.T) {
	v, err := Metadata{Version: "1.2.3"}.SemVer()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v.Minor())

	v, err = Metadata{}.SemVer()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0", v.String())

	_, err = Metadata{Version: "not-a-version"}.SemVer()
	assert.Error(t, err)
}
