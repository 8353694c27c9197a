// Package c generates a C header declaring the library's FFI surface.
package c

import (
	"embed"
	"strings"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/generator"
	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/naming"
	"github.com/teranos/bindgen/output"
	"github.com/teranos/bindgen/template"
)

// Language is the target name
const Language = "c"

//go:embed templates/*.tmpl
var templateFS embed.FS

var includes = []string{"stdbool.h", "stdint.h"}

var typeMapping = map[string]string{
	ir.OpaqueName:    "void*",
	ir.BooleanName:   "bool",
	ir.CharacterName: "uint32_t",
	ir.StringName:    "const char*",
	"I8":             "int8_t",
	"I16":            "int16_t",
	"I32":            "int32_t",
	"I64":            "int64_t",
	"I128":           "__int128",
	"ISize":          "intptr_t",
	"U8":             "uint8_t",
	"U16":            "uint16_t",
	"U32":            "uint32_t",
	"U64":            "uint64_t",
	"U128":           "unsigned __int128",
	"USize":          "uintptr_t",
	"F32":            "float",
	"F64":            "double",
}

func init() {
	generator.Register(New(), "h")
}

// Generator writes <library>.h
type Generator struct{}

// New creates the C generator
func New() *Generator { return &Generator{} }

func (g *Generator) Language() string      { return Language }
func (g *Generator) FileExtension() string { return "h" }
func (g *Generator) BasePath() string      { return "c" }

type headerData struct {
	Banner string
	Guard  string
}

type objectData struct {
	Name   string
	Opaque bool
	Enum   bool
}

type functionData struct {
	Output string
	Symbol string
}

// NewMarshaller spells IR types as C types. Opaque objects become pointers
// to incomplete structs; references become pointers.
func NewMarshaller(lib *ir.Library) *generator.Marshaller {
	m := generator.NewMarshaller(lib)
	for k, v := range typeMapping {
		m.TypeMapping[k] = v
	}
	m.VoidType = "void"
	m.UnknownType = "void*"
	m.OpaqueFormat = func(name string) string { return name + "*" }
	m.ReferenceFormat = func(ref ir.Reference, inner string) string {
		if ir.IsString(ref.Type) {
			return inner
		}
		if ref.Mutability == ir.Mutable {
			return inner + "*"
		}
		return "const " + inner + "*"
	}
	return m
}

// GenerateFiles renders the header for lib
func (g *Generator) GenerateFiles(lib *ir.Library, files *output.FileSet) error {
	tmpl := template.New()
	if err := tmpl.RegisterFS(templateFS, "templates"); err != nil {
		return err
	}
	m := NewMarshaller(lib)

	name := naming.Snake.Apply(lib.ID.Name)
	header, err := tmpl.RenderSections("header", headerData{
		Banner: generator.Header(lib, "//"),
		Guard:  naming.ScreamingSnake.Apply(name) + "_H",
	})
	if err != nil {
		return err
	}
	file := files.Entry(name + "." + g.FileExtension())
	file.Root.AddBranch(header)

	incl, err := generator.RequireSection(file.Root, "includes")
	if err != nil {
		return err
	}
	for _, h := range includes {
		incl.Writeln("#include <" + h + ">")
	}

	types, err := generator.RequireSection(file.Root, "types")
	if err != nil {
		return err
	}
	err = generator.VisitObjects(lib, func(v *ir.Visitor, obj *ir.Object) error {
		section, err := objectSection(tmpl, m, obj)
		if err != nil {
			return errors.Wrapf(err, "object %s", v.Path())
		}
		types.AddBranch(section)
		return nil
	})
	if err != nil {
		return err
	}

	functions, err := generator.RequireSection(file.Root, "functions")
	if err != nil {
		return err
	}
	count := 0
	err = generator.VisitFunctions(lib, func(v *ir.Visitor, f *ir.Function) error {
		section, err := functionSection(tmpl, m, v, f)
		if err != nil {
			return errors.Wrapf(err, "function %s", v.Path())
		}
		functions.AddBranch(section)
		count++
		return nil
	})
	if err != nil {
		return err
	}

	logger.Debugw("Rendered C header", logger.FieldFile, file.Path, logger.FieldCount, count)
	return nil
}

func objectSection(tmpl *template.Template, m *generator.Marshaller, obj *ir.Object) (*output.Section, error) {
	name := obj.Identifier().Name
	data := objectData{Name: name}
	switch def := obj.Definition.(type) {
	case *ir.Enumeration:
		data.Enum = true
	case *ir.Structure:
		data.Opaque = len(def.Fields) == 0 || m.IsOpaque(ir.NamedType(name))
	}

	section, err := tmpl.RenderSections("object", data)
	if err != nil {
		return nil, err
	}
	section.Name = name

	if fields, ok := section.Get("fields"); ok {
		for _, f := range obj.Fields() {
			if f.ID.IsEmpty() || f.Visibility == ir.Private {
				continue
			}
			fields.Writef("    %s %s;\n", m.Spell(f.Type), f.ID.Name)
		}
	}
	if variants, ok := section.Get("variants"); ok {
		def := obj.Definition.(*ir.Enumeration)
		for i, v := range def.Variants {
			line := "    " + name + "_" + v.ID.Name
			if i < len(def.Variants)-1 {
				line += ","
			}
			variants.Writeln(line)
		}
	}
	if constants, ok := section.Get("constants"); ok {
		for _, c := range obj.Constants() {
			if c.Literal == nil {
				continue
			}
			constants.Writef("static const %s %s_%s = %s;\n", m.Spell(c.Type), name, c.ID.Name, c.Literal)
		}
	}
	return section, nil
}

func functionSection(tmpl *template.Template, m *generator.Marshaller, v *ir.Visitor, f *ir.Function) (*output.Section, error) {
	section, err := tmpl.RenderSections("function", functionData{
		Output: m.Output(f.Output),
		Symbol: generator.Symbol(v, f),
	})
	if err != nil {
		return nil, err
	}
	section.Name = f.ID.Name

	params, err := generator.RequireSection(section, "parameters")
	if err != nil {
		return nil, err
	}
	inputs := make([]string, 0, len(f.Inputs))
	for _, p := range f.Inputs {
		inputs = append(inputs, m.Input(p.Type)+" "+p.ID.Name)
	}
	params.Write(strings.Join(inputs, ", "))

	if f.Method != nil && !f.Method.Static {
		self := m.Spell(ir.NewReference(ir.Borrow, f.Method.Mutability, f.Method.Owner)) + " self"
		if len(inputs) > 0 {
			self += ", "
		}
		params.IndexedWrite(0, self)
	} else if len(inputs) == 0 {
		params.IndexedWrite(0, "void")
	}
	return section, nil
}
