// Package rust generates the extern "C" shim crate that exposes a Rust
// library through the C ABI.
package rust

import (
	"embed"
	"fmt"

	"github.com/pelletier/go-toml/v2"

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
const Language = "rust"

//go:embed templates/*.tmpl
var templateFS embed.FS

var typeMapping = map[string]string{
	ir.OpaqueName:    "*mut std::ffi::c_void",
	ir.BooleanName:   "bool",
	ir.CharacterName: "char",
	ir.StringName:    "*const std::os::raw::c_char",
	"I8":             "i8",
	"I16":            "i16",
	"I32":            "i32",
	"I64":            "i64",
	"I128":           "i128",
	"ISize":          "isize",
	"U8":             "u8",
	"U16":            "u16",
	"U32":            "u32",
	"U64":            "u64",
	"U128":           "u128",
	"USize":          "usize",
	"F32":            "f32",
	"F64":            "f64",
}

func init() {
	generator.Register(New(), "rs")
}

// Generator writes src/lib.rs and Cargo.toml
type Generator struct {
	configure func(m *generator.Marshaller)
}

// New creates the Rust generator
func New() *Generator { return &Generator{} }

// WithMarshalling returns a generator whose marshaller is adjusted by fn,
// e.g. to add input or output overrides
func (g *Generator) WithMarshalling(fn func(m *generator.Marshaller)) *Generator {
	return &Generator{configure: fn}
}

func (g *Generator) Language() string      { return Language }
func (g *Generator) FileExtension() string { return "rs" }
func (g *Generator) BasePath() string      { return "rust" }

type projectData struct {
	Banner string
}

// functionData feeds function.tmpl; Output is spelled there by marshal_type
type functionData struct {
	Symbol string
	Output ir.Type
	Call   string
	Return string
}

// CrateName is the library name as a Rust crate identifier
func CrateName(lib *ir.Library) string {
	return naming.Snake.Apply(lib.ID.Name)
}

// cratePath spells a library path, replacing the library segment with the crate name
func cratePath(lib *ir.Library, path tree.Path) string {
	return tree.NewPath(tree.NewIdentifier(CrateName(lib))).JoinPath(path.WithoutFirst()).Format("::")
}

// NewMarshaller spells IR types as Rust FFI types. Library objects are
// spelled by their crate path; opaque objects cross the boundary as raw pointers.
func NewMarshaller(lib *ir.Library) *generator.Marshaller {
	m := generator.NewMarshaller(lib)
	for k, v := range typeMapping {
		m.TypeMapping[k] = v
	}
	m.ReferenceFormat = func(ref ir.Reference, inner string) string {
		switch {
		case ir.IsString(ref.Type):
			return inner
		case ref.Kind == ir.Pointer && ref.Mutability == ir.Mutable:
			return "*mut " + inner
		case ref.Kind == ir.Pointer:
			return "*const " + inner
		case ref.Mutability == ir.Mutable:
			return "&mut " + inner
		default:
			return "&" + inner
		}
	}
	m.OpaqueFormat = func(name string) string { return "*mut " + name }
	m.PathFormat = func(path tree.Path) string {
		if objectPath, ok := m.ObjectPath(path.Last().Name); ok {
			return cratePath(lib, objectPath)
		}
		return path.Format("::")
	}
	return m
}

// GenerateFiles renders the shim crate for lib
func (g *Generator) GenerateFiles(lib *ir.Library, files *output.FileSet) error {
	tmpl := template.New()
	if err := tmpl.RegisterFS(templateFS, "templates"); err != nil {
		return err
	}
	m := NewMarshaller(lib)
	if g.configure != nil {
		g.configure(m)
	}
	generator.RegisterHelpers(tmpl, m)

	project, err := tmpl.RenderSections("project", projectData{Banner: generator.Header(lib, "//")})
	if err != nil {
		return err
	}
	file := files.Entry("src/lib.rs")
	file.Root.AddBranch(project)

	functions, err := generator.RequireSection(file.Root, "functions")
	if err != nil {
		return err
	}
	count := 0
	err = generator.VisitFunctions(lib, func(v *ir.Visitor, f *ir.Function) error {
		section, err := functionSection(tmpl, m, lib, v, f)
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

	manifest, err := cargoManifest(lib)
	if err != nil {
		return err
	}
	files.Entry("Cargo.toml").Write(manifest)

	logger.Debugw("Rendered Rust shim", logger.FieldFile, file.Path, logger.FieldCount, count)
	return nil
}

func functionSection(tmpl *template.Template, m *generator.Marshaller, lib *ir.Library, v *ir.Visitor, f *ir.Function) (*output.Section, error) {
	data := functionData{
		Symbol: generator.Symbol(v, f),
		Call:   cratePath(lib, v.Path()),
		Return: "result.into()",
	}
	if f.Output != nil {
		data.Output = f.Output
		if m.IsOpaque(f.Output) {
			data.Return = "Box::into_raw(Box::new(result))"
		}
	}

	section, err := tmpl.RenderSections("function", data)
	if err != nil {
		return nil, err
	}
	section.Name = f.ID.Name

	params, err := generator.RequireSection(section, "parameters")
	if err != nil {
		return nil, err
	}
	args, err := generator.RequireSection(section, "arguments")
	if err != nil {
		return nil, err
	}
	for _, p := range f.Inputs {
		params.Writef("%s: %s, ", p.ID.Name, m.Input(p.Type))
		args.Write(argument(m, p.ID.Name, p.Type) + ", ")
	}

	if f.Method != nil && !f.Method.Static {
		self := ir.NewReference(ir.Borrow, f.Method.Mutability, f.Method.Owner)
		params.IndexedWrite(0, fmt.Sprintf("%s: %s, ", selfParam, m.Spell(self)))
		args.IndexedWrite(0, argument(m, selfParam, self)+", ")
	}
	return section, nil
}

// selfParam names the receiver; self is reserved outside impl blocks
const selfParam = "self_"

// argument converts an FFI parameter into the type the library expects
func argument(m *generator.Marshaller, name string, t ir.Type) string {
	if !m.IsOpaque(t) {
		return name + ".into()"
	}
	switch {
	case ir.IsMutableReference(t):
		return "unsafe { &mut *" + name + " }"
	case ir.IsReference(t):
		return "unsafe { &*" + name + " }"
	default:
		return "unsafe { *Box::from_raw(" + name + ") }"
	}
}

type manifest struct {
	Package      manifestPackage   `toml:"package"`
	Lib          manifestLib       `toml:"lib"`
	Dependencies map[string]string `toml:"dependencies"`
}

type manifestPackage struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Edition     string `toml:"edition"`
	Description string `toml:"description,omitempty"`
}

type manifestLib struct {
	CrateType []string `toml:"crate-type"`
}

// cargoManifest builds the shim crate's Cargo.toml, depending on the library
// at its own version
func cargoManifest(lib *ir.Library) (string, error) {
	version := lib.Metadata.Version
	if version == "" {
		version = "0.1.0"
	}
	crate := naming.Kebab.Apply(lib.ID.Name)
	doc := manifest{
		Package: manifestPackage{
			Name:        crate + "-ffi",
			Version:     version,
			Edition:     "2021",
			Description: lib.Metadata.Description,
		},
		Lib:          manifestLib{CrateType: []string{"cdylib", "staticlib"}},
		Dependencies: map[string]string{crate: version},
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode Cargo.toml")
	}
	return string(data), nil
}
