package golang

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/parsing"
	"github.com/teranos/bindgen/tree"
)

const geometry = `package geometry

import (
	"fmt"
	str "strings"
	_ "embed"
	. "math"
)

type Color uint8

const (
	Red Color = iota
	Green
	blue
)

const Unrelated = 3

type Point struct {
	X, Y  float64
	Label string
	next  *Point
	fmt.Stringer
}

type Labels []string

type Handler func()

func (h Handler) Serve() {}

func (p Point) Norm() float64 { return 0 }

func (p *Point) Move(dx, dy float64) {}

func (p *Point) Parse(s string) (int, error) { return 0, nil }

func (p *point) hidden() {}

type point struct{}

func Distance(a, b Point) float64 { return 0 }

func Pair() (int, string) { return 0, "" }

func Sum(xs ...int) int { return 0 }

func Close() error { return nil }

func Lookup(m map[string]int, _ []byte, ptr *Point) (p Point, err error) { return }

func internal() {}
`

func TestRegistered(t *testing.T) {
	p, ok := parsing.DefaultRegistry.ForExtension(".go")
	require.True(t, ok)
	assert.Equal(t, Language, p.Language())
}

func TestParseSource(t *testing.T) {
	mod, err := ParseSource("geometry.go", []byte(geometry), parsing.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "geometry", mod.ID.Name)

	var imports []string
	for _, imp := range mod.Imports {
		imports = append(imports, imp.String())
	}
	assert.Equal(t, []string{"use fmt", "use strings as str", "use math::*"}, imports)

	require.Len(t, mod.Objects, 2)
	color, point := mod.Objects[0], mod.Objects[1]

	enum, ok := color.Definition.(*ir.Enumeration)
	require.True(t, ok)
	require.Len(t, enum.Variants, 2)
	assert.Equal(t, "Red", enum.Variants[0].ID.Name)
	assert.Equal(t, "Green", enum.Variants[1].ID.Name)

	fields := point.Fields()
	require.Len(t, fields, 4)
	assert.Equal(t, "X", fields[0].ID.Name)
	assert.Equal(t, "Y", fields[1].ID.Name)
	assert.True(t, ir.TypeEqual(ir.F64(), fields[1].Type))
	assert.True(t, ir.IsString(fields[2].Type))
	assert.Equal(t, ir.Private, fields[3].Visibility)
	assert.True(t, ir.TypeEqual(ir.NewReference(ir.Pointer, ir.Mutable, ir.NamedType("Point")), fields[3].Type))

	methods := point.Methods()
	require.Len(t, methods, 3)
	assert.Equal(t, "Norm", methods[0].ID.Name)
	assert.Equal(t, ir.Constant, methods[0].Method.Mutability)
	assert.Empty(t, methods[0].Inputs)
	assert.Equal(t, "Move", methods[1].ID.Name)
	assert.Equal(t, ir.Mutable, methods[1].Method.Mutability)
	require.Len(t, methods[1].Inputs, 2)
	assert.Equal(t, "dy", methods[1].Inputs[1].ID.Name)
	assert.True(t, ir.TypeEqual(ir.ISize(), methods[2].Output))

	var names []string
	for _, fn := range mod.Functions {
		names = append(names, fn.ID.Name)
	}
	assert.Equal(t, []string{"Distance", "Pair", "Close", "Lookup"}, names)

	assert.True(t, ir.IsOpaque(mod.Functions[1].Output))
	assert.Nil(t, mod.Functions[2].Output)

	lookup := mod.Functions[3]
	require.Len(t, lookup.Inputs, 3)
	assert.True(t, ir.TypeEqual(ir.NamedType("Map"), lookup.Inputs[0].Type))
	assert.Equal(t, "arg1", lookup.Inputs[1].ID.Name)
	assert.True(t, ir.TypeEqual(ir.NamedType("Slice"), lookup.Inputs[1].Type))
	assert.True(t, ir.TypeEqual(ir.NamedType("Point"), lookup.Output))
}

func TestParsedImportsSurvivePersistence(t *testing.T) {
	src := "package shapes\n\nimport (\n\t\"github.com/acme/geo\"\n\tv2 \"gopkg.in/yaml.v3\"\n)\n\nfunc Area(side float64) float64 { return 0 }\n"
	mod, err := ParseSource("shapes.go", []byte(src), parsing.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, mod.Imports, 2)
	assert.Equal(t, []string{"github.com", "acme", "geo"}, mod.Imports[0].Path.Names())

	lib := ir.NewLibrary("shapes")
	lib.RootModule = mod
	for _, format := range []ir.Format{ir.FormatYAML, ir.FormatJSON, ir.FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := lib.Encode(format)
			require.NoError(t, err)
			decoded, err := ir.DecodeLibrary(data, format)
			require.NoError(t, err)

			imports := decoded.RootModule.Imports
			require.Len(t, imports, 2)
			for i, imp := range mod.Imports {
				assert.Equal(t, imp.Path, imports[i].Path)
				assert.Equal(t, imp.Renaming, imports[i].Renaming)
			}
			assert.Equal(t, []string{"gopkg.in", "yaml.v3"}, imports[1].Path.Names())
		})
	}
}

func TestParseSourceSyntaxError(t *testing.T) {
	_, err := ParseSource("bad.go", []byte("package bad\nfunc {"), nil)
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		src  string
		want ir.Type
	}{
		{"bool", ir.Boolean()},
		{"byte", ir.U8()},
		{"rune", ir.Character()},
		{"uintptr", ir.USize()},
		{"time.Duration", ir.NamedType("time::Duration")},
		{"*int32", ir.NewReference(ir.Pointer, ir.Mutable, ir.I32())},
		{"[4]int", ir.NamedType("Array")},
		{"List[int]", ir.NamedType("List")},
		{"chan int", ir.Opaque()},
		{"any", ir.Opaque()},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			mod, err := ParseSource("x.go", []byte("package x\nfunc F(v "+tt.src+") {}\n"), nil)
			require.NoError(t, err)
			require.Len(t, mod.Functions, 1)
			got := mod.Functions[0].Inputs[0].Type
			assert.True(t, ir.TypeEqual(tt.want, got), "got %v", got)
		})
	}
}

func TestParseLibrary(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/proj/go.mod":                "module example.com/geo/v2\n\ngo 1.22\n",
		"/proj/geo.go":                "package geo\n\ntype Point struct{ X int }\n",
		"/proj/geo_test.go":           "package geo\n\ntype Fixture struct{}\n",
		"/proj/shapes/square.go":      "package shapes\n\nfunc Area(side float64) float64 { return 0 }\n",
		"/proj/internal/util/util.go": "package util\n\nfunc Clamp(v int) int { return v }\n",
		"/proj/cmd/tool/main.go":      "package main\n\nfunc Run() {}\n",
		"/proj/testdata/fixture.go":   "package fixture\n\nfunc Fixture() {}\n",
		"/proj/docs/readme.md":        "# docs\n",
	}
	for path, code := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(code), 0o644))
	}

	lib, err := NewParserFs(fs).ParseLibrary(context.Background(), "", "/proj", nil)
	require.NoError(t, err)
	assert.Equal(t, "geo", lib.ID.Name)
	assert.Equal(t, "https://example.com/geo/v2", lib.Metadata.Homepage)

	root := lib.RootModule
	assert.Equal(t, "geo", root.ID.Name)
	require.Len(t, root.Objects, 1)

	var names []string
	for _, m := range root.Modules {
		names = append(names, m.ID.Name)
	}
	assert.Equal(t, []string{"internal", "shapes"}, names)

	util, ok := root.FindModule(tree.PathOf("internal", "util"))
	require.True(t, ok)
	require.Len(t, util.Functions, 1)
	assert.Equal(t, ir.Private, root.Modules[0].Visibility)
}

func TestParsePackage(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages through the go tool")
	}
	lib, err := ParsePackage(context.Background(), "testdata/shapes", ".", nil)
	require.NoError(t, err)
	assert.Equal(t, "shapes", lib.ID.Name)

	square, ok := lib.RootModule.FindObject(tree.PathOf("Square"))
	require.True(t, ok)
	assert.Len(t, square.Fields(), 2)
	assert.Len(t, square.Methods(), 2)

	kind, ok := lib.RootModule.FindObject(tree.PathOf("Kind"))
	require.True(t, ok)
	_, isEnum := kind.Definition.(*ir.Enumeration)
	assert.True(t, isEnum)

	require.Len(t, lib.RootModule.Functions, 1)
	assert.Equal(t, "NewSquare", lib.RootModule.Functions[0].ID.Name)
}
