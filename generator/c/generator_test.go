package c

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/generator"
	"github.com/teranos/bindgen/generator/generatortest"
	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/output"
	"github.com/teranos/bindgen/template"
	"github.com/teranos/bindgen/tree"
)

const geometryHeader = `// Code generated by bindgen from geometry. DO NOT EDIT.
// Source version: 0.3.0

#ifndef GEOMETRY_H
#define GEOMETRY_H

#include <stdbool.h>
#include <stdint.h>

#ifdef __cplusplus
extern "C" {
#endif

typedef struct Handle Handle;

typedef struct Point {
    float x;
    float y;
} Point;
static const float Point_ORIGIN = 0.0;

typedef struct Circle {
    double radius;
} Circle;

Handle* Handle_open(const char* path);
void Handle_close(Handle* self);
Point Point_new(float x, float y);
float Point_len(const Point* self);
void Point_scale(Point* self, float factor);
float add(float a, float b);
void reset(void);
double Circle_area(const Circle* self);

#ifdef __cplusplus
}
#endif

#endif /* GEOMETRY_H */
`

func TestRegistered(t *testing.T) {
	g, err := generator.DefaultRegistry.Get("h")
	require.NoError(t, err)
	assert.Equal(t, Language, g.Language())
}

func TestGenerateFiles(t *testing.T) {
	files := output.NewFileSet()
	require.NoError(t, New().GenerateFiles(generatortest.Library(), files))

	require.Equal(t, 1, files.Len())
	file, ok := files.Get("geometry.h")
	require.True(t, ok)
	assert.Equal(t, geometryHeader, file.Content())

	// Sections stay addressable after rendering
	point, ok := file.Section("Point")
	require.True(t, ok)
	fields, ok := point.Get("fields")
	require.True(t, ok)
	assert.Equal(t, "    float x;\n    float y;\n", fields.String())
}

func TestGenerateEnumeration(t *testing.T) {
	lib := ir.NewLibrary("my-lib")
	lib.RootModule.Objects = []*ir.Object{{
		Path: tree.PathOf("Kind"),
		Definition: &ir.Enumeration{
			Visibility: ir.Public,
			ID:         tree.NewIdentifier("Kind"),
			Variants:   []ir.Variant{{ID: tree.NewIdentifier("Square")}, {ID: tree.NewIdentifier("Circle")}},
		},
	}}

	files := output.NewFileSet()
	require.NoError(t, New().GenerateFiles(lib, files))
	file, ok := files.Get("my_lib.h")
	require.True(t, ok)

	content := file.Content()
	assert.Contains(t, content, "#ifndef MY_LIB_H")
	assert.Contains(t, content, "typedef enum Kind {\n    Kind_Square,\n    Kind_Circle\n} Kind;\n")
	assert.NotContains(t, content, "// Source version")
}

func TestMarshaller(t *testing.T) {
	m := NewMarshaller(generatortest.Library())

	tests := []struct {
		in   ir.Type
		want string
	}{
		{ir.I32(), "int32_t"},
		{ir.USize(), "uintptr_t"},
		{ir.Boolean(), "bool"},
		{ir.Opaque(), "void*"},
		{ir.NewReference(ir.Borrow, ir.Constant, ir.StringType()), "const char*"},
		{ir.NewReference(ir.Pointer, ir.Mutable, ir.U8()), "uint8_t*"},
		{ir.NewReference(ir.Borrow, ir.Constant, ir.NamedType("Point")), "const Point*"},
		{ir.NamedType("Handle"), "Handle*"},
		{ir.NamedType("std::time::Instant"), "void*"},
		{nil, "void"},
	}

	for _, tt := range tests {
		t.Run(ir.TypeString(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, m.Spell(tt.in))
		})
	}
}

func TestGenerateSaves(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := generator.Generate(New(), generatortest.Library(), fs, "out")
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, filepath.Join("out", "c", "geometry.h"))
	require.NoError(t, err)
	assert.Equal(t, geometryHeader, string(data))
}

func TestFunctionTemplateMissingParameters(t *testing.T) {
	lib := generatortest.Library()
	tmpl := template.New()
	tmpl.Register("function", "{{.Output}} {{.Symbol}}();\n")

	var err error
	require.NoError(t, generator.VisitFunctions(lib, func(v *ir.Visitor, f *ir.Function) error {
		if err == nil {
			_, err = functionSection(tmpl, NewMarshaller(lib), v, f)
		}
		return nil
	}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownTemplate))
	assert.Contains(t, err.Error(), `"parameters"`)
}
