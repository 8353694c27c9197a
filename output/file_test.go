package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSection(t *testing.T) {
	f := NewFile("include/lib.h")
	f.Writeln("#pragma once")
	f.Root.Branch("types").Writeln("typedef int x;")

	s, ok := f.Section("types")
	require.True(t, ok)
	assert.Equal(t, "typedef int x;\n", s.String())

	_, ok = f.Section("missing")
	assert.False(t, ok)

	assert.Equal(t, "#pragma once\ntypedef int x;\n", f.Content())
}

func TestFileSetEntry(t *testing.T) {
	fs := NewFileSet()
	a := fs.Entry("b/file.rs")
	a.Write("one")

	// Same path, normalized, returns the same file
	again := fs.Entry("b/./file.rs")
	assert.Same(t, a, again)
	assert.Equal(t, 1, fs.Len())

	fs.Entry("a/file.rs")
	paths := []string{}
	for _, f := range fs.Files() {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"a/file.rs", "b/file.rs"}, paths)

	got, ok := fs.Get("b/file.rs")
	require.True(t, ok)
	assert.Equal(t, "one", got.Content())

	_, ok = fs.Get("c")
	assert.False(t, ok)
}

func TestFileSetAddReplaces(t *testing.T) {
	fs := NewFileSet()
	fs.Entry("x.h").Write("old")

	replacement := NewFile("x.h")
	replacement.Write("new")
	fs.Add(replacement)

	assert.Equal(t, 1, fs.Len())
	got, _ := fs.Get("x.h")
	assert.Equal(t, "new", got.Content())
}

func TestFileSetSave(t *testing.T) {
	afs := afero.NewMemMapFs()
	fs := NewFileSet()
	fs.Entry("include/lib.h").Writeln("#pragma once")
	fs.Entry("src/lib.rs").Writeln("// generated")

	require.NoError(t, fs.Save(afs, "/out"))

	data, err := afero.ReadFile(afs, "/out/include/lib.h")
	require.NoError(t, err)
	assert.Equal(t, "#pragma once\n", string(data))

	data, err = afero.ReadFile(afs, "/out/src/lib.rs")
	require.NoError(t, err)
	assert.Equal(t, "// generated\n", string(data))
}

func TestFileSetSaveReadOnlyFails(t *testing.T) {
	afs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	fs := NewFileSet()
	fs.Entry("a.h").Write("x")

	err := fs.Save(afs, "/out")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/out")
}

func TestFileSetSaveToDisk(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileSet()
	fs.Entry("nested/dir/out.cs").Write("class X {}")

	require.NoError(t, fs.SaveToDisk(dir))

	data, err := os.ReadFile(filepath.Join(dir, "nested", "dir", "out.cs"))
	require.NoError(t, err)
	assert.Equal(t, "class X {}", string(data))
}
