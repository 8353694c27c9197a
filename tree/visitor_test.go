package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bindgen/errors"
)

func TestVisitorChildPath(t *testing.T) {
	root := NewRootVisitor(sampleTree())
	a, _ := GetByName(root.Value(), "a")
	child := root.Child(a)

	assert.Equal(t, "lib::a", child.Path().String())
	parent, ok := child.Parent()
	require.True(t, ok)
	assert.Same(t, root, parent)
	assert.Equal(t, 1, child.Depth())

	_, ok = root.Parent()
	assert.False(t, ok)
}

func TestVisitorRootOfChainedChildren(t *testing.T) {
	// a deep chain: every child() keeps the original root reachable
	root := NewTree(NewIdentifier("lib"), 0)
	current := root
	for i := 0; i < 20; i++ {
		current = current.AddBranch(NewTree(NewIdentifier("n"), i))
	}

	v := NewRootVisitor(root)
	for depth := 0; depth < 20; depth++ {
		assert.Same(t, v.Root().Value(), root)
		v = v.Child(v.Value().Branches()[0])
	}
	assert.Same(t, root, v.Root().Value())
	assert.Len(t, v.Ancestors(), 20)
}

func TestVisitorRelative(t *testing.T) {
	root := NewRootVisitor(sampleTree())
	a, _ := root.Relative(PathOf("a"))
	x, ok := a.Relative(PathOf("x"))
	require.True(t, ok)

	tests := []struct {
		name string
		from *Visitor[*Tree[int]]
		path Path
		want string
		ok   bool
	}{
		{"empty path is current", x, Path{}, "lib::a::x", true},
		{"self is skipped", x, PathOf("self"), "lib::a::x", true},
		{"super moves up", x, PathOf("super"), "lib::a", true},
		{"super then sibling", x, PathOf("super", "y"), "lib::a::y", true},
		{"root jumps then continues", x, PathOf("root", "b"), "lib::b", true},
		{"crate behaves as root", x, PathOf("crate", "a", "y"), "lib::a::y", true},
		{"super past the root fails", root, PathOf("super"), "", false},
		{"missing branch fails", a, PathOf("z"), "", false},
		{"stops at first failure", a, PathOf("z", "super"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.from.Relative(tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				require.NotNil(t, got)
				assert.Equal(t, tt.want, got.Path().String())
			}
		})
	}
}

func TestVisitorSelfPrefixIsTransparent(t *testing.T) {
	root := NewRootVisitor(sampleTree())
	for _, name := range []string{"a", "b", "missing"} {
		plain, okPlain := root.Relative(PathOf(name))
		viaSelf, okSelf := root.Relative(PathOf("self", name))
		assert.Equal(t, okPlain, okSelf, name)
		if okPlain {
			assert.Equal(t, plain.Path(), viaSelf.Path())
			assert.Same(t, plain.Value(), viaSelf.Value())
		}
	}
}

func TestVisitorResolveError(t *testing.T) {
	root := NewRootVisitor(sampleTree())

	_, err := root.Resolve(PathOf("super"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnresolvable))
	assert.True(t, errors.IsResolutionError(err))

	_, err = root.Resolve(PathOf("a", "nope"))
	require.Error(t, err)
	assert.Contains(t, errors.FlattenDetails(err), "nope")

	found, err := root.Resolve(PathOf("a", "x"))
	require.NoError(t, err)
	assert.Equal(t, 1, found.Value().Value)
}

func TestVisitorChildren(t *testing.T) {
	root := NewRootVisitor(sampleTree())
	children := root.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "lib::a", children[0].Path().String())
	assert.Equal(t, "lib::b", children[1].Path().String())
}
