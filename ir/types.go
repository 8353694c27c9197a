package ir

import (
	"github.com/teranos/bindgen/tree"
)

// Type is a named type path or a reference to another type. The set of variants is closed.
type Type interface {
	isType()
	String() string
}

// PathType names a type by its path
type PathType struct {
	Path tree.Path
}

// Reference is a borrow (&T, &mut T) or a raw pointer (*const T, *mut T)
type Reference struct {
	Kind       ReferenceKind
	Mutability Mutability
	Type       Type
}

func (PathType) isType()  {}
func (Reference) isType() {}

func (t PathType) String() string { return t.Path.String() }

func (t Reference) String() string {
	inner := "?"
	if t.Type != nil {
		inner = t.Type.String()
	}
	switch {
	case t.Kind == Pointer && t.Mutability == Mutable:
		return "*mut " + inner
	case t.Kind == Pointer:
		return "*const " + inner
	case t.Mutability == Mutable:
		return "&mut " + inner
	default:
		return "&" + inner
	}
}

// NamedType builds a PathType from a "a::b" or "a.b" path string
func NamedType(path string) PathType {
	return PathType{Path: tree.ParsePath(path)}
}

// NewReference wraps inner in a reference
func NewReference(kind ReferenceKind, mutability Mutability, inner Type) Reference {
	return Reference{Kind: kind, Mutability: mutability, Type: inner}
}

// SelfTypeName is the placeholder for the implementing type inside an impl block
const SelfTypeName = "Self"

// Canonical type names. Frontends map source primitives onto these.
const (
	OpaqueName    = "Opaque"
	BooleanName   = "Boolean"
	CharacterName = "Character"
	StringName    = "String"
)

func canonical(name string) Type { return PathType{Path: tree.PathOf(name)} }

func Opaque() Type     { return canonical(OpaqueName) }
func Boolean() Type    { return canonical(BooleanName) }
func Character() Type  { return canonical(CharacterName) }
func StringType() Type { return canonical(StringName) }
func I8() Type         { return canonical("I8") }
func I16() Type        { return canonical("I16") }
func I32() Type        { return canonical("I32") }
func I64() Type        { return canonical("I64") }
func I128() Type       { return canonical("I128") }
func ISize() Type      { return canonical("ISize") }
func U8() Type         { return canonical("U8") }
func U16() Type        { return canonical("U16") }
func U32() Type        { return canonical("U32") }
func U64() Type        { return canonical("U64") }
func U128() Type       { return canonical("U128") }
func USize() Type      { return canonical("USize") }
func F16() Type        { return canonical("F16") }
func F32() Type        { return canonical("F32") }
func F64() Type        { return canonical("F64") }
func F128() Type       { return canonical("F128") }

var (
	integerTypes  = []Type{I8(), I16(), I32(), I64(), I128(), ISize()}
	unsignedTypes = []Type{U8(), U16(), U32(), U64(), U128(), USize()}
	floatTypes    = []Type{F16(), F32(), F64(), F128()}
)

// TypeEqual compares types structurally
func TypeEqual(a, b Type) bool {
	switch x := a.(type) {
	case PathType:
		y, ok := b.(PathType)
		return ok && x.Path.Equal(y.Path)
	case Reference:
		y, ok := b.(Reference)
		return ok && x.Kind == y.Kind && x.Mutability == y.Mutability && TypeEqual(x.Type, y.Type)
	}
	return a == nil && b == nil
}

func isOneOf(t Type, candidates []Type) bool {
	for _, c := range candidates {
		if TypeEqual(t, c) {
			return true
		}
	}
	return false
}

func IsBoolean(t Type) bool         { return TypeEqual(t, Boolean()) }
func IsCharacter(t Type) bool       { return TypeEqual(t, Character()) }
func IsString(t Type) bool          { return TypeEqual(t, StringType()) }
func IsOpaque(t Type) bool          { return TypeEqual(t, Opaque()) }
func IsInteger(t Type) bool         { return isOneOf(t, integerTypes) }
func IsUnsignedInteger(t Type) bool { return isOneOf(t, unsignedTypes) }
func IsFloat(t Type) bool           { return isOneOf(t, floatTypes) }
func IsNumber(t Type) bool          { return IsInteger(t) || IsUnsignedInteger(t) || IsFloat(t) }
func IsPrimitive(t Type) bool       { return IsBoolean(t) || IsCharacter(t) || IsNumber(t) }

func IsReference(t Type) bool {
	_, ok := t.(Reference)
	return ok
}

func IsMutableReference(t Type) bool {
	r, ok := t.(Reference)
	return ok && r.Mutability == Mutable
}

// DropReference strips one reference layer
func DropReference(t Type) Type {
	if r, ok := t.(Reference); ok {
		return r.Type
	}
	return t
}

// TypePath returns the innermost named path of t
func TypePath(t Type) tree.Path {
	for {
		switch x := t.(type) {
		case PathType:
			return x.Path
		case Reference:
			t = x.Type
		default:
			return tree.Path{}
		}
	}
}

// TypeString renders t for display; nil is the unit type "()"
func TypeString(t Type) string {
	if t == nil {
		return "()"
	}
	return t.String()
}

// ReplaceSelf substitutes self for every Self path inside t
func ReplaceSelf(t Type, self Type) Type {
	switch x := t.(type) {
	case PathType:
		if id, ok := x.Path.Identifier(); ok && id.Name == SelfTypeName {
			return self
		}
		return x
	case Reference:
		x.Type = ReplaceSelf(x.Type, self)
		return x
	}
	return t
}
