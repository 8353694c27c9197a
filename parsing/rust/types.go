package rust

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/tree"
)

// primitives maps Rust primitive spellings to canonical IR types
var primitives = map[string]func() ir.Type{
	"i8":    ir.I8,
	"i16":   ir.I16,
	"i32":   ir.I32,
	"i64":   ir.I64,
	"i128":  ir.I128,
	"isize": ir.ISize,
	"u8":    ir.U8,
	"u16":   ir.U16,
	"u32":   ir.U32,
	"u64":   ir.U64,
	"u128":  ir.U128,
	"usize": ir.USize,
	"f32":   ir.F32,
	"f64":   ir.F64,
	"bool":  ir.Boolean,
	"char":  ir.Character,
	"str":   ir.StringType,
}

// namedType resolves a bare type name; String is canonical
func namedType(name string) ir.Type {
	if ctor, ok := primitives[name]; ok {
		return ctor()
	}
	if name == "String" {
		return ir.StringType()
	}
	return ir.PathType{Path: tree.ParsePath(name)}
}

// typeOf converts a type node. Generic arguments are dropped, the unit
// type is nil and forms with no IR counterpart (tuples, arrays, fn
// pointers, trait objects) become Opaque.
func (mp *moduleParser) typeOf(n *sitter.Node) ir.Type {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "primitive_type", "type_identifier":
		return namedType(mp.text(n))
	case "scoped_type_identifier":
		return ir.PathType{Path: tree.ParsePath(mp.text(n))}
	case "generic_type":
		return mp.typeOf(n.ChildByFieldName("type"))
	case "reference_type":
		return ir.NewReference(ir.Borrow, mp.mutability(n), mp.typeOf(n.ChildByFieldName("type")))
	case "pointer_type":
		return ir.NewReference(ir.Pointer, mp.mutability(n), mp.typeOf(n.ChildByFieldName("type")))
	case "unit_type":
		return nil
	default:
		return ir.Opaque()
	}
}

// mutability looks for a direct mutable_specifier child
func (mp *moduleParser) mutability(n *sitter.Node) ir.Mutability {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "mutable_specifier" {
			return ir.Mutable
		}
	}
	return ir.Constant
}
