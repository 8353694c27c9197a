package generator

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/generator/generatortest"
	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/output"
)

// listing writes one line per function into <library>.txt
type listing struct {
	lang string
	fail error
}

func (l listing) Language() string      { return l.lang }
func (l listing) FileExtension() string { return "txt" }
func (l listing) BasePath() string      { return l.lang }

func (l listing) GenerateFiles(lib *ir.Library, files *output.FileSet) error {
	if l.fail != nil {
		return l.fail
	}
	file := files.Entry(lib.ID.Name + ".txt")
	return VisitFunctions(lib, func(v *ir.Visitor, f *ir.Function) error {
		file.Writeln(v.Path().String())
		return nil
	})
}

func TestGenerate(t *testing.T) {
	fs := afero.NewMemMapFs()
	files, err := Generate(listing{lang: "list"}, generatortest.Library(), fs, "out")
	require.NoError(t, err)
	assert.Equal(t, 1, files.Len())

	data, err := afero.ReadFile(fs, filepath.Join("out", "list", "geometry.txt"))
	require.NoError(t, err)
	assert.Equal(t, `geometry::Handle::open
geometry::Handle::close
geometry::Point::new
geometry::Point::len
geometry::Point::scale
geometry::add
geometry::reset
geometry::shapes::Circle::area
`, string(data))
}

func TestGenerateWrapsFailure(t *testing.T) {
	boom := errors.New("boom")
	_, err := Generate(listing{lang: "list", fail: boom}, generatortest.Library(), afero.NewMemMapFs(), "out")
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "list generator failed")
}

func TestGenerateAll(t *testing.T) {
	fs := afero.NewMemMapFs()
	gens := []Generator{listing{lang: "a"}, listing{lang: "b"}}
	require.NoError(t, GenerateAll(gens, generatortest.Library(), fs, "out"))

	for _, lang := range []string{"a", "b"} {
		exists, err := afero.Exists(fs, filepath.Join("out", lang, "geometry.txt"))
		require.NoError(t, err)
		assert.True(t, exists, lang)
	}
}

func TestHeader(t *testing.T) {
	lib := generatortest.Library()
	assert.Equal(t,
		"// Code generated by bindgen from geometry. DO NOT EDIT.\n// Source version: 0.3.0\n",
		Header(lib, "//"))

	lib.Metadata.Version = ""
	assert.Equal(t, "# Code generated by bindgen from geometry. DO NOT EDIT.\n", Header(lib, "#"))
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register(listing{lang: "c"}, "h")
	reg.Register(listing{lang: "rust"}, "rs")
	reg.Register(listing{lang: "csharp"}, "cs", "c#")

	assert.Equal(t, []string{"c", "csharp", "rust"}, reg.Languages())

	tests := []struct {
		name    string
		targets []string
		want    []string
		wantErr bool
	}{
		{"single", []string{"rust"}, []string{"rust"}, false},
		{"alias", []string{"RS"}, []string{"rust"}, false},
		{"comma separated", []string{"h,cs"}, []string{"c", "csharp"}, false},
		{"duplicates dropped", []string{"c", "h", "c"}, []string{"c"}, false},
		{"all", []string{"all"}, []string{"c", "csharp", "rust"}, false},
		{"all after explicit keeps first mention", []string{"rust", "all"}, []string{"rust", "c", "csharp"}, false},
		{"unknown", []string{"java"}, nil, true},
		{"empty", []string{" , "}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gens, err := reg.Resolve(tt.targets)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrNotFound))
				return
			}
			require.NoError(t, err)
			var got []string
			for _, g := range gens {
				got = append(got, g.Language())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistryGetHint(t *testing.T) {
	reg := NewRegistry()
	reg.Register(listing{lang: "c"})

	_, err := reg.Get("go")
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "available targets: c")
}
