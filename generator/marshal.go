package generator

import (
	"strings"

	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/tree"
)

// OpaqueGroups are the attribute groups searched for opaque markers, as in
// #![bindgen(ffi(Handle(opaque = true)))] on the root module.
var OpaqueGroups = []string{"bindgen", "ligen"}

const (
	ffiGroup   = "ffi"
	opaqueFlag = "opaque"
)

type override struct {
	from ir.Type
	to   ir.Type
}

// Marshaller spells IR types in a target language. Overrides swap a source
// type for another before spelling, separately for inputs and outputs.
type Marshaller struct {
	// TypeMapping maps canonical type paths ("I32", "String", "Opaque") to target spellings
	TypeMapping map[string]string

	// ReferenceFormat spells a reference given its already spelled inner type.
	// When nil the inner spelling is used unchanged.
	ReferenceFormat func(ref ir.Reference, inner string) string

	// OpaqueFormat spells an opaque type from its spelled name, e.g. "*mut Handle".
	// When nil opaque types are spelled like any other.
	OpaqueFormat func(name string) string

	// PathFormat spells an unmapped path. Defaults to its last segment.
	PathFormat func(path tree.Path) string

	// UnknownType replaces unmapped paths that are not library objects.
	// Empty keeps PathFormat's spelling.
	UnknownType string

	// VoidType spells a missing output
	VoidType string

	root    *ir.Module
	objects map[string]tree.Path
	opaque  map[string]bool
	inputs  []override
	outputs []override
}

// NewMarshaller creates a marshaller that knows lib's objects and opaque markers.
// lib may be nil.
func NewMarshaller(lib *ir.Library) *Marshaller {
	m := &Marshaller{
		TypeMapping: make(map[string]string),
		objects:     make(map[string]tree.Path),
		opaque:      make(map[string]bool),
	}
	if lib == nil {
		return m
	}
	m.root = lib.RootModule
	_ = VisitObjects(lib, func(v *ir.Visitor, obj *ir.Object) error {
		name := obj.Identifier().Name
		m.objects[name] = v.Path()
		if obj.Definition != nil && markedOpaque(obj.Definition.GetAttributes(), name) {
			m.opaque[name] = true
		}
		return nil
	})
	return m
}

// AddInputMarshalling spells parameters of type from as type to
func (m *Marshaller) AddInputMarshalling(from, to ir.Type) {
	m.inputs = append(m.inputs, override{from: from, to: to})
}

// AddOutputMarshalling spells results of type from as type to
func (m *Marshaller) AddOutputMarshalling(from, to ir.Type) {
	m.outputs = append(m.outputs, override{from: from, to: to})
}

func apply(overrides []override, t ir.Type) ir.Type {
	for _, o := range overrides {
		if ir.TypeEqual(o.from, t) {
			return o.to
		}
	}
	return t
}

// MarshalInput applies the input overrides to t
func (m *Marshaller) MarshalInput(t ir.Type) ir.Type { return apply(m.inputs, t) }

// MarshalOutput applies the output overrides to t
func (m *Marshaller) MarshalOutput(t ir.Type) ir.Type { return apply(m.outputs, t) }

// Input spells t as a parameter type
func (m *Marshaller) Input(t ir.Type) string { return m.Spell(m.MarshalInput(t)) }

// Output spells t as a result type; nil is VoidType
func (m *Marshaller) Output(t ir.Type) string {
	if t == nil {
		return m.VoidType
	}
	return m.Spell(m.MarshalOutput(t))
}

// ObjectPath returns the library path of the object called name
func (m *Marshaller) ObjectPath(name string) (tree.Path, bool) {
	p, ok := m.objects[name]
	return p, ok
}

// IsOpaque reports whether t's named type is marked opaque, either on the
// root module or on the object's own definition
func (m *Marshaller) IsOpaque(t ir.Type) bool {
	path := ir.TypePath(t)
	if path.IsEmpty() {
		return false
	}
	name := path.Last().Name
	if m.opaque[name] {
		return true
	}
	return m.root != nil && markedOpaque(m.root.Attributes, name)
}

func markedOpaque(attrs ir.Attributes, name string) bool {
	for _, group := range OpaqueGroups {
		attr, ok := attrs.Find(tree.PathOf(group, ffiGroup, name, opaqueFlag))
		if ok && isTrue(attr) {
			return true
		}
	}
	return false
}

// isTrue accepts a bare flag or a literal true
func isTrue(attr ir.Attribute) bool {
	switch a := attr.(type) {
	case ir.Flag:
		return true
	case ir.Named:
		return a.Literal != nil && strings.Trim(a.Literal.String(), `"`) == "true"
	}
	return false
}

// Spell renders t in the target language. Opaque types lose their reference
// layer and go through OpaqueFormat.
func (m *Marshaller) Spell(t ir.Type) string {
	if t == nil {
		return m.VoidType
	}
	if m.OpaqueFormat != nil && m.IsOpaque(t) {
		return m.OpaqueFormat(m.spellPath(ir.TypePath(t)))
	}
	switch x := t.(type) {
	case ir.Reference:
		inner := m.Spell(x.Type)
		if m.ReferenceFormat == nil {
			return inner
		}
		return m.ReferenceFormat(x, inner)
	case ir.PathType:
		return m.spellPath(x.Path)
	}
	return t.String()
}

func (m *Marshaller) spellPath(path tree.Path) string {
	if mapped, ok := m.TypeMapping[path.String()]; ok {
		return mapped
	}
	if _, known := m.objects[path.Last().Name]; m.UnknownType != "" && !known {
		return m.UnknownType
	}
	if m.PathFormat != nil {
		return m.PathFormat(path)
	}
	return path.Last().Name
}
