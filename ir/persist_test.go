package ir

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/tree"
)

func TestLibraryRoundTrip(t *testing.T) {
	for _, path := range []string{"out/lib.yaml", "out/lib.yml", "out/lib.json", "out/lib.toml"} {
		t.Run(path, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			lib := sampleLibrary()

			require.NoError(t, lib.SaveFs(fs, path))
			loaded, err := LoadLibraryFs(fs, path)
			require.NoError(t, err)

			assert.Equal(t, lib, loaded)
		})
	}
}

func TestLibraryRoundTripAfterNormalize(t *testing.T) {
	fs := afero.NewMemMapFs()
	lib := sampleLibrary()
	lib.Normalize()

	require.NoError(t, lib.SaveFs(fs, "lib.yaml"))
	loaded, err := LoadLibraryFs(fs, "lib.yaml")
	require.NoError(t, err)
	assert.Equal(t, lib, loaded)
}

func TestLibraryRoundTripOnDisk(t *testing.T) {
	path := t.TempDir() + "/nested/lib.json"
	lib := sampleLibrary()

	require.NoError(t, lib.Save(path))
	loaded, err := LoadLibrary(path)
	require.NoError(t, err)
	assert.Equal(t, lib, loaded)
}

func TestRoundTripKeepsDottedSegmentsAndCodePoints(t *testing.T) {
	lib := NewLibrary("geo")
	lib.RootModule.Imports = []Import{{Visibility: Private, Path: tree.PathOf("github.com", "acme", "geo")}}
	lib.RootModule.Attributes = Attributes{
		Named{ID: tree.NewIdentifier("sep"), Literal: CharacterLiteral(0xD800)},
		Named{ID: tree.NewIdentifier("arrow"), Literal: CharacterLiteral('→')},
	}

	for _, format := range []Format{FormatYAML, FormatJSON, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := lib.Encode(format)
			require.NoError(t, err)
			decoded, err := DecodeLibrary(data, format)
			require.NoError(t, err)

			require.Len(t, decoded.RootModule.Imports, 1)
			assert.Equal(t, 3, decoded.RootModule.Imports[0].Path.Len())
			assert.Equal(t, lib.RootModule.Imports[0].Path, decoded.RootModule.Imports[0].Path)
			assert.Equal(t, lib.RootModule.Attributes, decoded.RootModule.Attributes)
		})
	}
}

func TestEmptyLibraryRoundTrip(t *testing.T) {
	lib := NewLibrary("empty")
	for _, format := range []Format{FormatYAML, FormatJSON, FormatTOML} {
		data, err := lib.Encode(format)
		require.NoError(t, err)
		decoded, err := DecodeLibrary(data, format)
		require.NoError(t, err)
		assert.Equal(t, lib, decoded, string(format))
	}
}

func TestYAMLIsHumanReadable(t *testing.T) {
	data, err := sampleLibrary().Encode(FormatYAML)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "identifier: mylib")
	assert.Contains(t, text, "root_module:")
	assert.Contains(t, text, "kind: structure")
	assert.Contains(t, text, "crate::geometry::Shape")
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		err  bool
	}{
		{"lib.yaml", FormatYAML, false},
		{"lib.YML", FormatYAML, false},
		{"lib", FormatYAML, false},
		{"lib.json", FormatJSON, false},
		{"lib.toml", FormatTOML, false},
		{"lib.xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.err {
				assert.True(t, errors.Is(err, errors.ErrUnsupportedFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadLibraryErrors(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := LoadLibraryFs(fs, "missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")

	require.NoError(t, afero.WriteFile(fs, "bad.json", []byte("{not json"), 0o644))
	_, err = LoadLibraryFs(fs, "bad.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")

	doc := "identifier: x\nroot_module:\n  identifier: x\n  visibility: public\n  objects:\n    - path: P\n      definition:\n        kind: union\n"
	require.NoError(t, afero.WriteFile(fs, "bad.yaml", []byte(doc), 0o644))
	_, err = LoadLibraryFs(fs, "bad.yaml")
	assert.True(t, errors.Is(err, errors.ErrMissingDefinition))
}

func TestEncodeRejectsObjectWithoutDefinition(t *testing.T) {
	lib := NewLibrary("lib")
	lib.RootModule.Objects = []*Object{{Path: tree.PathOf("Ghost")}}

	_, err := lib.Encode(FormatYAML)
	assert.True(t, errors.Is(err, errors.ErrMissingDefinition))
}
