package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bindgen/tree"
)

func TestSectionWrite(t *testing.T) {
	s := NewSection("root")
	s.Write("a")
	s.Writeln("b")
	s.Writef("%d-%s", 3, "c")

	assert.Equal(t, "ab\n3-c", s.String())
	assert.Equal(t, 3, s.Len())
}

func TestSectionIndexedWrite(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		expected string
	}{
		{"front", 0, "xab"},
		{"middle", 1, "axb"},
		{"end", 2, "abx"},
		{"negative clamps to front", -5, "xab"},
		{"past end clamps to back", 99, "abx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSection("root")
			s.Write("a")
			s.Write("b")
			s.IndexedWrite(tt.index, "x")
			assert.Equal(t, tt.expected, s.String())
		})
	}
}

func TestSectionIndexedWriteln(t *testing.T) {
	s := NewSection("root")
	s.Write("tail")
	s.IndexedWriteln(0, "head")
	assert.Equal(t, "head\ntail", s.String())
}

func TestSectionNested(t *testing.T) {
	root := NewSection("root")
	root.Write("<")
	inner := root.Branch("inner")
	root.Write(">")

	inner.Write("1")
	inner.Branch("deep").Write("2")
	inner.Write("3")

	assert.Equal(t, "<123>", root.String())
	assert.Equal(t, 1, root.IndexOf("inner"))
	assert.Equal(t, -1, root.IndexOf("missing"))

	// Branch returns the existing section instead of appending another
	assert.Same(t, inner, root.Branch("inner"))
	assert.Len(t, root.Branches(), 1)

	deep, ok := root.PathGet("inner", "deep")
	require.True(t, ok)
	assert.Equal(t, "2", deep.String())

	_, ok = root.PathGet("inner", "nope")
	assert.False(t, ok)

	found, ok := root.Find("deep")
	require.True(t, ok)
	assert.Same(t, deep, found)

	// Editing after insertion is visible through the parent
	deep.Write("!")
	assert.Equal(t, "<12!3>", root.String())
}

func TestSectionGetReturnsFirstMatch(t *testing.T) {
	root := NewSection("root")
	first := root.AddBranch(NewSection("dup"))
	root.AddBranch(NewSection("dup"))

	got, ok := root.Get("dup")
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestSectionTreeProtocol(t *testing.T) {
	root := NewSection("root")
	root.Branch("a").Branch("b")

	assert.Equal(t, tree.NewIdentifier("root"), root.Identifier())

	b, ok := tree.PathGet(root, tree.PathOf("a", "b"))
	require.True(t, ok)
	assert.Equal(t, "b", b.Name)

	var names []string
	tree.Walk(root, func(s *Section) bool {
		names = append(names, s.Name)
		return true
	})
	assert.Equal(t, []string{"root", "a", "b"}, names)
}

func TestSectionWriteTo(t *testing.T) {
	s := NewSection("root")
	s.Writeln("hello")

	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
	assert.Equal(t, "hello\n", buf.String())
}
