// Package generatortest provides a normalized sample library for backend tests.
package generatortest

import (
	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/tree"
)

func id(name string) tree.Identifier { return tree.NewIdentifier(name) }

func receiver(owner string, mut ir.Mutability) ir.Parameter {
	return ir.Parameter{ID: tree.SelfRef(), Type: ir.NewReference(ir.Borrow, mut, ir.NamedType(owner))}
}

func param(name string, t ir.Type) ir.Parameter {
	return ir.Parameter{ID: id(name), Type: t}
}

func method(owner string, fn ir.Function) ir.ImplementationItem {
	fn.Visibility = ir.Public
	return ir.NewMethod(fn, ir.NamedType(owner))
}

func structure(name string, fields ...ir.Field) *ir.Structure {
	return &ir.Structure{Visibility: ir.Public, ID: id(name), Fields: fields}
}

func field(name string, t ir.Type) ir.Field {
	return ir.Field{Visibility: ir.Public, ID: id(name), Type: t}
}

func ignored() ir.Attributes {
	return ir.Attributes{ir.NewGroup("bindgen", ir.NewFlag("ignore"))}
}

// Library returns the "geometry" library:
//
//	geometry                       #![bindgen(ffi(Handle(opaque = true)))]
//	  struct Point { x: F32, y: F32 }
//	    fn new(x: F32, y: F32) -> Point
//	    fn len(&self) -> F32
//	    fn scale(&mut self, factor: F32)
//	    const ORIGIN: F32 = 0.0
//	  struct Handle
//	    fn open(path: &String) -> Handle
//	    fn close(&mut self)
//	  fn add(a: F32, b: F32) -> F32
//	  fn reset()
//	  fn debug()                   ignored
//	  mod shapes
//	    struct Circle { radius: F64 }
//	      fn area(&self) -> F64
//	  mod internal                 ignored
//	    fn secret()
func Library() *ir.Library {
	point := &ir.Object{
		Path:       tree.PathOf("Point"),
		Definition: structure("Point", field("x", ir.F32()), field("y", ir.F32())),
		Implementations: []ir.Implementation{{
			Self: ir.NamedType("Point"),
			Items: []ir.ImplementationItem{
				method("Point", ir.Function{
					ID:     id("new"),
					Inputs: []ir.Parameter{param("x", ir.F32()), param("y", ir.F32())},
					Output: ir.NamedType("Point"),
				}),
				method("Point", ir.Function{
					ID:     id("len"),
					Inputs: []ir.Parameter{receiver("Point", ir.Constant)},
					Output: ir.F32(),
				}),
				method("Point", ir.Function{
					ID:     id("scale"),
					Inputs: []ir.Parameter{receiver("Point", ir.Mutable), param("factor", ir.F32())},
				}),
				ir.AssociatedConstant{ID: id("ORIGIN"), Type: ir.F32(), Literal: ir.FloatLiteral(0)},
			},
		}},
	}

	handle := &ir.Object{
		Path:       tree.PathOf("Handle"),
		Definition: structure("Handle"),
		Implementations: []ir.Implementation{{
			Self: ir.NamedType("Handle"),
			Items: []ir.ImplementationItem{
				method("Handle", ir.Function{
					ID:     id("open"),
					Inputs: []ir.Parameter{param("path", ir.NewReference(ir.Borrow, ir.Constant, ir.StringType()))},
					Output: ir.NamedType("Handle"),
				}),
				method("Handle", ir.Function{
					ID:     id("close"),
					Inputs: []ir.Parameter{receiver("Handle", ir.Mutable)},
				}),
			},
		}},
	}

	circle := &ir.Object{
		Path:       tree.PathOf("Circle"),
		Definition: structure("Circle", field("radius", ir.F64())),
		Implementations: []ir.Implementation{{
			Self: ir.NamedType("Circle"),
			Items: []ir.ImplementationItem{
				method("Circle", ir.Function{
					ID:     id("area"),
					Inputs: []ir.Parameter{receiver("Circle", ir.Constant)},
					Output: ir.F64(),
				}),
			},
		}},
	}

	root := &ir.Module{
		Attributes: ir.Attributes{
			ir.NewGroup("bindgen", ir.NewGroup("ffi", ir.NewGroup("Handle",
				ir.NewNamed("opaque", ir.BooleanLiteral(true))))),
		},
		Visibility: ir.Public,
		ID:         id("geometry"),
		Objects:    []*ir.Object{handle, point},
		Functions: []*ir.Function{
			{
				Visibility: ir.Public,
				ID:         id("add"),
				Inputs:     []ir.Parameter{param("a", ir.F32()), param("b", ir.F32())},
				Output:     ir.F32(),
			},
			{Visibility: ir.Public, ID: id("reset")},
			{Attributes: ignored(), Visibility: ir.Public, ID: id("debug")},
		},
		Modules: []*ir.Module{
			{
				Visibility: ir.Public,
				ID:         id("shapes"),
				Objects:    []*ir.Object{circle},
			},
			{
				Attributes: ignored(),
				ID:         id("internal"),
				Functions:  []*ir.Function{{ID: id("secret")}},
			},
		},
	}

	return &ir.Library{
		ID:         id("geometry"),
		Metadata:   ir.Metadata{Version: "0.3.0", Description: "2D shapes"},
		RootModule: root,
	}
}
