package csharp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bindgen/generator"
	"github.com/teranos/bindgen/generator/generatortest"
	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/output"
	"github.com/teranos/bindgen/tree"
)

const banner = `// Code generated by bindgen from geometry. DO NOT EDIT.
// Source version: 0.3.0

namespace Geometry
{
	using System;
	using System.Runtime.InteropServices;
`

const pointFile = banner + `
	[StructLayout(LayoutKind.Sequential, Pack = 1)]
	public struct Point
	{
		public readonly float x;
		public readonly float y;

		public Point(float x, float y)
		{
			this.x = x;
			this.y = y;
		}
	}

	public static class PointNative
	{
		public const float ORIGIN = 0.0f;

		[DllImport("geometry_ffi", EntryPoint = "Point_new")]
		public static extern Point New(float x, float y);

		[DllImport("geometry_ffi", EntryPoint = "Point_len")]
		public static extern float Len(in Point self);

		[DllImport("geometry_ffi", EntryPoint = "Point_scale")]
		public static extern void Scale(ref Point self, float factor);
	}
}
`

const handleFile = banner + `
	public static class HandleNative
	{
		[DllImport("geometry_ffi", EntryPoint = "Handle_open")]
		public static extern IntPtr Open(string path);

		[DllImport("geometry_ffi", EntryPoint = "Handle_close")]
		public static extern void Close(IntPtr self);
	}
}
`

const nativeMethodsFile = banner + `
	public static class NativeMethods
	{
		[DllImport("geometry_ffi", EntryPoint = "add")]
		public static extern float Add(float a, float b);

		[DllImport("geometry_ffi", EntryPoint = "reset")]
		public static extern void Reset();
	}
}
`

func TestRegistered(t *testing.T) {
	for _, alias := range []string{"csharp", "cs", "C#"} {
		g, err := generator.DefaultRegistry.Get(alias)
		require.NoError(t, err, alias)
		assert.Equal(t, Language, g.Language())
	}
}

func TestGenerateFiles(t *testing.T) {
	files := output.NewFileSet()
	require.NoError(t, New().GenerateFiles(generatortest.Library(), files))

	var paths []string
	for _, f := range files.Files() {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"Handle.cs", "NativeMethods.cs", "Point.cs", "shapes/Circle.cs"}, paths)

	tests := []struct {
		path string
		want string
	}{
		{"Point.cs", pointFile},
		{"Handle.cs", handleFile},
		{"NativeMethods.cs", nativeMethodsFile},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			file, ok := files.Get(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.want, file.Content())
		})
	}

	circle, ok := files.Get("shapes/Circle.cs")
	require.True(t, ok)
	assert.Contains(t, circle.Content(), "namespace Geometry.Shapes\n")
	assert.Contains(t, circle.Content(), "public static extern double Area(in Circle self);")
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
	file, ok := files.Get("Kind.cs")
	require.True(t, ok)

	content := file.Content()
	assert.Contains(t, content, "namespace MyLib\n")
	assert.Contains(t, content, "\tpublic enum Kind\n\t{\n\t\tSquare,\n\t\tCircle,\n\t}\n")
	assert.NotContains(t, content, "StructLayout")
}

func TestNamespace(t *testing.T) {
	assert.Equal(t, "MyLib.SubModule", Namespace(tree.PathOf("my-lib", "sub_module")))
	assert.Equal(t, "shapes/Circle.cs", filePath(tree.PathOf("geometry", "shapes"), "Circle"))
	assert.Equal(t, "Point.cs", filePath(tree.PathOf("geometry"), "Point"))
}
