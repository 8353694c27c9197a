// Package csharp generates C# structs and P/Invoke declarations for the
// symbols exported by the Rust shim.
package csharp

import (
	"embed"
	"path"
	"strings"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/generator"
	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/naming"
	"github.com/teranos/bindgen/output"
	"github.com/teranos/bindgen/template"
	"github.com/teranos/bindgen/tree"
)

// Language is the target name
const Language = "csharp"

//go:embed templates/*.tmpl
var templateFS embed.FS

var typeMapping = map[string]string{
	ir.OpaqueName:    "IntPtr",
	ir.BooleanName:   "bool",
	ir.CharacterName: "char",
	ir.StringName:    "string",
	"I8":             "sbyte",
	"I16":            "short",
	"I32":            "int",
	"I64":            "long",
	"ISize":          "IntPtr",
	"U8":             "byte",
	"U16":            "ushort",
	"U32":            "uint",
	"U64":            "ulong",
	"USize":          "UIntPtr",
	"F32":            "float",
	"F64":            "double",
}

func init() {
	generator.Register(New(), "cs", "c#")
}

// Generator writes one .cs file per object plus NativeMethods.cs per module
// with free functions
type Generator struct{}

// New creates the C# generator
func New() *Generator { return &Generator{} }

func (g *Generator) Language() string      { return Language }
func (g *Generator) FileExtension() string { return "cs" }
func (g *Generator) BasePath() string      { return "csharp" }

type fileData struct {
	Banner    string
	Namespace string
	Name      string
	Opaque    bool
	Enum      bool
}

// NewMarshaller spells IR types as C# interop types. Borrows become in/ref
// parameters; raw pointers and opaque objects become IntPtr.
func NewMarshaller(lib *ir.Library) *generator.Marshaller {
	m := generator.NewMarshaller(lib)
	for k, v := range typeMapping {
		m.TypeMapping[k] = v
	}
	m.VoidType = "void"
	m.UnknownType = "IntPtr"
	m.OpaqueFormat = func(string) string { return "IntPtr" }
	m.ReferenceFormat = func(ref ir.Reference, inner string) string {
		switch {
		case ir.IsString(ref.Type):
			return inner
		case ref.Kind == ir.Pointer:
			return "IntPtr"
		case ref.Mutability == ir.Mutable:
			return "ref " + inner
		default:
			return "in " + inner
		}
	}
	return m
}

// DllName is the native library the shim crate builds
func DllName(lib *ir.Library) string {
	return naming.Snake.Apply(lib.ID.Name) + "_ffi"
}

// Namespace spells a module path as a C# namespace
func Namespace(modulePath tree.Path) string {
	names := modulePath.Names()
	for i, name := range names {
		names[i] = naming.Pascal.Apply(name)
	}
	return strings.Join(names, ".")
}

// filePath places name.cs in the directory of its module, relative to the library root
func filePath(modulePath tree.Path, name string) string {
	return path.Join(append(modulePath.WithoutFirst().Names(), name+".cs")...)
}

// GenerateFiles renders every object and module file for lib
func (g *Generator) GenerateFiles(lib *ir.Library, files *output.FileSet) error {
	tmpl := template.New()
	if err := tmpl.RegisterFS(templateFS, "templates"); err != nil {
		return err
	}
	gen := &fileGenerator{
		tmpl:    tmpl,
		m:       NewMarshaller(lib),
		files:   files,
		banner:  generator.Header(lib, "//"),
		dllName: DllName(lib),
	}

	err := generator.VisitObjects(lib, func(v *ir.Visitor, obj *ir.Object) error {
		return errors.Wrapf(gen.object(v, obj), "object %s", v.Path())
	})
	if err != nil {
		return err
	}
	err = generator.VisitModules(lib, func(v *ir.Visitor, m *ir.Module) error {
		return errors.Wrapf(gen.module(v, m), "module %s", v.Path())
	})
	if err != nil {
		return err
	}

	logger.Debugw("Rendered C# bindings", logger.FieldLibrary, lib.ID.Name, logger.FieldCount, files.Len())
	return nil
}

type fileGenerator struct {
	tmpl    *template.Template
	m       *generator.Marshaller
	files   *output.FileSet
	banner  string
	dllName string
}

func (gen *fileGenerator) object(v *ir.Visitor, obj *ir.Object) error {
	modulePath := v.Path().WithoutLast()
	name := obj.Identifier().Name
	data := fileData{
		Banner:    gen.banner,
		Namespace: Namespace(modulePath),
		Name:      name,
		Opaque:    gen.m.IsOpaque(ir.NamedType(name)),
	}
	enum, isEnum := obj.Definition.(*ir.Enumeration)
	data.Enum = isEnum

	section, err := gen.tmpl.RenderSections("object", data)
	if err != nil {
		return err
	}
	file := gen.files.Entry(filePath(modulePath, name))
	file.Root.AddBranch(section)

	if isEnum {
		variants, err := generator.RequireSection(section, "variants")
		if err != nil {
			return err
		}
		for _, variant := range enum.Variants {
			variants.Writef("\t\t%s,\n", variant.ID.Name)
		}
	}
	if fields, ok := section.Get("fields"); ok {
		if err := gen.structure(section, fields, obj); err != nil {
			return err
		}
	}

	var members []string
	if constants := gen.constants(obj); constants != "" {
		members = append(members, constants)
	}
	for _, method := range obj.Methods() {
		if method.IsIgnored() {
			continue
		}
		members = append(members, gen.extern(v.Child(method), method))
	}
	membersSection, err := generator.RequireSection(section, "members")
	if err != nil {
		return err
	}
	membersSection.Write(strings.Join(members, "\n"))
	return nil
}

// structure fills the field list and the constructor that sets every field
func (gen *fileGenerator) structure(section, fields *output.Section, obj *ir.Object) error {
	params, err := generator.RequireSection(section, "parameters")
	if err != nil {
		return err
	}
	assignments, err := generator.RequireSection(section, "assignments")
	if err != nil {
		return err
	}

	var args []string
	for _, f := range obj.Fields() {
		if f.ID.IsEmpty() {
			continue
		}
		t := gen.m.Spell(ir.DropReference(f.Type))
		fields.Writef("\t\tpublic readonly %s %s;\n", t, f.ID.Name)
		args = append(args, t+" "+f.ID.Name)
		assignments.Writef("\t\t\tthis.%s = %s;\n", f.ID.Name, f.ID.Name)
	}
	params.Write(strings.Join(args, ", "))
	return nil
}

// constants renders associated constants of primitive or string type
func (gen *fileGenerator) constants(obj *ir.Object) string {
	var b strings.Builder
	for _, c := range obj.Constants() {
		if c.Literal == nil || !(ir.IsPrimitive(c.Type) || ir.IsString(c.Type)) {
			continue
		}
		literal := c.Literal.String()
		if ir.TypeEqual(c.Type, ir.F32()) {
			literal += "f"
		}
		b.WriteString("\t\tpublic const " + gen.m.Spell(c.Type) + " " + c.ID.Name + " = " + literal + ";\n")
	}
	return b.String()
}

func (gen *fileGenerator) module(v *ir.Visitor, m *ir.Module) error {
	var members []string
	for _, f := range m.Functions {
		if f.IsIgnored() {
			continue
		}
		members = append(members, gen.extern(v.Child(f), f))
	}
	if len(members) == 0 {
		return nil
	}

	section, err := gen.tmpl.RenderSections("functions", fileData{
		Banner:    gen.banner,
		Namespace: Namespace(v.Path()),
	})
	if err != nil {
		return err
	}
	file := gen.files.Entry(filePath(v.Path(), "NativeMethods"))
	file.Root.AddBranch(section)
	membersSection, err := generator.RequireSection(section, "members")
	if err != nil {
		return err
	}
	membersSection.Write(strings.Join(members, "\n"))
	return nil
}

// extern declares the P/Invoke entry point for a function or method
func (gen *fileGenerator) extern(v *ir.Visitor, f *ir.Function) string {
	var params []string
	if f.Method != nil && !f.Method.Static {
		self := ir.NewReference(ir.Borrow, f.Method.Mutability, f.Method.Owner)
		params = append(params, gen.m.Spell(self)+" self")
	}
	for _, p := range f.Inputs {
		params = append(params, gen.m.Input(p.Type)+" "+p.ID.Name)
	}

	var b strings.Builder
	b.WriteString("\t\t[DllImport(\"" + gen.dllName + "\", EntryPoint = \"" + generator.Symbol(v, f) + "\")]\n")
	b.WriteString("\t\tpublic static extern " + gen.m.Output(ir.DropReference(f.Output)) + " ")
	b.WriteString(naming.Pascal.Apply(f.ID.Name) + "(" + strings.Join(params, ", ") + ");\n")
	return b.String()
}
