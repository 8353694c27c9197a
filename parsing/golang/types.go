package golang

import (
	"go/ast"

	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/tree"
)

var basicTypes = map[string]func() ir.Type{
	"bool":    ir.Boolean,
	"string":  ir.StringType,
	"int":     ir.ISize,
	"int8":    ir.I8,
	"int16":   ir.I16,
	"int32":   ir.I32,
	"int64":   ir.I64,
	"uint":    ir.USize,
	"uint8":   ir.U8,
	"byte":    ir.U8,
	"uint16":  ir.U16,
	"uint32":  ir.U32,
	"uint64":  ir.U64,
	"uintptr": ir.USize,
	"rune":    ir.Character,
	"float32": ir.F32,
	"float64": ir.F64,
}

// typeOf maps a Go type expression. Pointers are mutable raw pointers;
// slices, arrays and maps become Slice, Array and Map paths. Function,
// channel and interface types are Opaque.
func typeOf(expr ast.Expr) ir.Type {
	switch t := expr.(type) {
	case *ast.Ident:
		if ctor, ok := basicTypes[t.Name]; ok {
			return ctor()
		}
		if t.Name == "any" {
			return ir.Opaque()
		}
		return ir.PathType{Path: tree.PathOf(t.Name)}
	case *ast.SelectorExpr:
		if pkg, ok := t.X.(*ast.Ident); ok {
			return ir.PathType{Path: tree.PathOf(pkg.Name, t.Sel.Name)}
		}
	case *ast.StarExpr:
		return ir.NewReference(ir.Pointer, ir.Mutable, typeOf(t.X))
	case *ast.ArrayType:
		if t.Len == nil {
			return ir.NamedType("Slice")
		}
		return ir.NamedType("Array")
	case *ast.MapType:
		return ir.NamedType("Map")
	case *ast.IndexExpr:
		return typeOf(t.X)
	case *ast.IndexListExpr:
		return typeOf(t.X)
	case *ast.ParenExpr:
		return typeOf(t.X)
	}
	return ir.Opaque()
}
