package ir

import (
	"github.com/teranos/bindgen/tree"
)

func id(name string) tree.Identifier { return tree.NewIdentifier(name) }

func publicStruct(name string, fields ...Field) *Structure {
	return &Structure{Visibility: Public, ID: id(name), Fields: fields}
}

func object(name string, def TypeDefinition, impls ...Implementation) *Object {
	return &Object{Path: tree.PathOf(name), Definition: def, Implementations: impls}
}

// pointLen is "fn len(&self) -> i32" as a frontend hands it over, receiver included
func pointLen() Function {
	return Function{
		Visibility: Public,
		ID:         id("len"),
		Inputs: []Parameter{
			{ID: tree.SelfRef(), Type: NewReference(Borrow, Constant, NamedType(SelfTypeName))},
		},
		Output: I32(),
	}
}

// sampleLibrary exercises every variant of every sum type
func sampleLibrary() *Library {
	renamed := id("Renamed")
	root := &Module{
		Attributes: Attributes{
			NewGroup("bindgen", NewFlag("attribute"), NewNamed("version", StringLiteral("1.0"))),
		},
		Visibility: Public,
		ID:         id("mylib"),
		Imports: []Import{
			{Visibility: Public, Path: tree.PathOf("geometry", "Point")},
			{Visibility: Private, Renaming: &renamed, Path: tree.PathOf("crate", "geometry", "Shape")},
		},
		Functions: []*Function{
			{
				Visibility: Public,
				Synchrony:  Asynchronous,
				ID:         id("fetch"),
				Inputs: []Parameter{
					{Attributes: Attributes{NewFlag("nonnull")}, ID: id("buffer"), Type: NewReference(Pointer, Mutable, U8())},
					{ID: id("len"), Type: USize()},
				},
				Output: Boolean(),
			},
			{Visibility: Inherited, ID: id("noop")},
		},
	}

	geometry := &Module{
		Visibility: Public,
		ID:         id("geometry"),
		Objects: []*Object{
			object("Point",
				publicStruct("Point",
					Field{Visibility: Public, ID: id("x"), Type: F64()},
					Field{Visibility: Public, ID: id("y"), Type: F64()},
					Field{Visibility: Private, Type: NewReference(Borrow, Constant, StringType())},
				),
				Implementation{
					Attributes: Attributes{NewNamed("doc", StringLiteral("geometry"))},
					Self:       NamedType("Point"),
					Items: []ImplementationItem{
						NewMethod(pointLen(), NamedType("Point")),
						AssociatedConstant{ID: id("ORIGIN_X"), Type: F64(), Literal: FloatLiteral(0.25)},
						AssociatedConstant{ID: id("MAX"), Type: U64(), Literal: UnsignedIntegerLiteral(1 << 63)},
						AssociatedConstant{ID: id("MIN"), Type: I64(), Literal: IntegerLiteral(-7)},
						AssociatedConstant{ID: id("SEP"), Type: Character(), Literal: CharacterLiteral('λ')},
						AssociatedConstant{ID: id("ENABLED"), Type: Boolean(), Literal: BooleanLiteral(true)},
					},
				},
			),
			object("Shape", &Enumeration{
				Attributes: Attributes{NewGroup("bindgen", NewGroup("ffi", NewGroup("Shape", NewFlag("opaque"))))},
				Visibility: Public,
				ID:         id("Shape"),
				Variants: []Variant{
					{ID: id("Circle")},
					{Attributes: Attributes{NewFlag("default")}, ID: id("Square")},
				},
			}),
		},
	}
	root.Modules = []*Module{geometry}

	return &Library{
		ID: id("mylib"),
		Metadata: Metadata{
			Version:     "1.2.3",
			Description: "sample library",
			Authors:     []string{"Ada", "Grace"},
			Keywords:    []string{"ffi"},
			Homepage:    "https://example.com",
			License:     "MIT",
		},
		RootModule: root,
	}
}
