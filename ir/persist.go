package ir

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/tree"
)

// Format is a persisted IR encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the encoding from a file extension. No extension means YAML.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case "", ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.Wrapf(errors.ErrUnsupportedFormat, "IR file %s", path)
}

// Save writes the library to path on the OS filesystem
func (l *Library) Save(path string) error {
	return l.SaveFs(afero.NewOsFs(), path)
}

// SaveFs writes the library to path on fs, creating parent directories
func (l *Library) SaveFs(fs afero.Fs, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := l.Encode(format)
	if err != nil {
		return errors.Wrapf(err, "failed to encode library %s", l.ID)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create directory %s", dir)
		}
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// LoadLibrary reads a library from path on the OS filesystem
func LoadLibrary(path string) (*Library, error) {
	return LoadLibraryFs(afero.NewOsFs(), path)
}

// LoadLibraryFs reads a library from path on fs
func LoadLibraryFs(fs afero.Fs, path string) (*Library, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	lib, err := DecodeLibrary(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	return lib, nil
}

// Encode serializes the library in the given format
func (l *Library) Encode(format Format) ([]byte, error) {
	doc, err := libraryToDoc(l)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, errors.Wrap(err, "yaml encode")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "yaml encode")
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "json encode")
		}
		return append(data, '\n'), nil
	case FormatTOML:
		data, err := toml.Marshal(doc)
		if err != nil {
			return nil, errors.Wrap(err, "toml encode")
		}
		return data, nil
	}
	return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "format %q", format)
}

// DecodeLibrary parses a library in the given format
func DecodeLibrary(data []byte, format Format) (*Library, error) {
	var doc libraryDoc
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return docToLibrary(&doc)
}

// The document schema mirrors the entity model. Sum types carry a kind
// discriminator. Literal values are stored as strings so every format keeps
// them exact.

type libraryDoc struct {
	Identifier string      `yaml:"identifier" json:"identifier" toml:"identifier"`
	Metadata   metadataDoc `yaml:"metadata,omitempty" json:"metadata" toml:"metadata"`
	RootModule *moduleDoc  `yaml:"root_module,omitempty" json:"root_module,omitempty" toml:"root_module,omitempty"`
}

type metadataDoc struct {
	Version     string   `yaml:"version,omitempty" json:"version,omitempty" toml:"version,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
	Authors     []string `yaml:"authors,omitempty" json:"authors,omitempty" toml:"authors,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty" json:"keywords,omitempty" toml:"keywords,omitempty"`
	Homepage    string   `yaml:"homepage,omitempty" json:"homepage,omitempty" toml:"homepage,omitempty"`
	License     string   `yaml:"license,omitempty" json:"license,omitempty" toml:"license,omitempty"`
}

type moduleDoc struct {
	Identifier string         `yaml:"identifier" json:"identifier" toml:"identifier"`
	Visibility string         `yaml:"visibility" json:"visibility" toml:"visibility"`
	Attributes []attributeDoc `yaml:"attributes,omitempty" json:"attributes,omitempty" toml:"attributes,omitempty"`
	Imports    []importDoc    `yaml:"imports,omitempty" json:"imports,omitempty" toml:"imports,omitempty"`
	Modules    []*moduleDoc   `yaml:"modules,omitempty" json:"modules,omitempty" toml:"modules,omitempty"`
	Functions  []functionDoc  `yaml:"functions,omitempty" json:"functions,omitempty" toml:"functions,omitempty"`
	Objects    []objectDoc    `yaml:"objects,omitempty" json:"objects,omitempty" toml:"objects,omitempty"`
}

type importDoc struct {
	Path       string         `yaml:"path" json:"path" toml:"path"`
	Renaming   string         `yaml:"renaming,omitempty" json:"renaming,omitempty" toml:"renaming,omitempty"`
	Visibility string         `yaml:"visibility" json:"visibility" toml:"visibility"`
	Attributes []attributeDoc `yaml:"attributes,omitempty" json:"attributes,omitempty" toml:"attributes,omitempty"`
}

type objectDoc struct {
	Path            string              `yaml:"path" json:"path" toml:"path"`
	Definition      definitionDoc       `yaml:"definition" json:"definition" toml:"definition"`
	Implementations []implementationDoc `yaml:"implementations,omitempty" json:"implementations,omitempty" toml:"implementations,omitempty"`
}

type definitionDoc struct {
	Kind       string         `yaml:"kind" json:"kind" toml:"kind"`
	Identifier string         `yaml:"identifier" json:"identifier" toml:"identifier"`
	Visibility string         `yaml:"visibility" json:"visibility" toml:"visibility"`
	Attributes []attributeDoc `yaml:"attributes,omitempty" json:"attributes,omitempty" toml:"attributes,omitempty"`
	Fields     []fieldDoc     `yaml:"fields,omitempty" json:"fields,omitempty" toml:"fields,omitempty"`
	Variants   []variantDoc   `yaml:"variants,omitempty" json:"variants,omitempty" toml:"variants,omitempty"`
}

type fieldDoc struct {
	Identifier string         `yaml:"identifier,omitempty" json:"identifier,omitempty" toml:"identifier,omitempty"`
	Visibility string         `yaml:"visibility" json:"visibility" toml:"visibility"`
	Attributes []attributeDoc `yaml:"attributes,omitempty" json:"attributes,omitempty" toml:"attributes,omitempty"`
	Type       *typeDoc       `yaml:"type,omitempty" json:"type,omitempty" toml:"type,omitempty"`
}

type variantDoc struct {
	Identifier string         `yaml:"identifier" json:"identifier" toml:"identifier"`
	Attributes []attributeDoc `yaml:"attributes,omitempty" json:"attributes,omitempty" toml:"attributes,omitempty"`
}

type implementationDoc struct {
	Attributes []attributeDoc `yaml:"attributes,omitempty" json:"attributes,omitempty" toml:"attributes,omitempty"`
	Self       *typeDoc       `yaml:"self,omitempty" json:"self,omitempty" toml:"self,omitempty"`
	Items      []itemDoc      `yaml:"items,omitempty" json:"items,omitempty" toml:"items,omitempty"`
}

type itemDoc struct {
	Kind     string       `yaml:"kind" json:"kind" toml:"kind"`
	Method   *functionDoc `yaml:"method,omitempty" json:"method,omitempty" toml:"method,omitempty"`
	Constant *constantDoc `yaml:"constant,omitempty" json:"constant,omitempty" toml:"constant,omitempty"`
}

type constantDoc struct {
	Identifier string      `yaml:"identifier" json:"identifier" toml:"identifier"`
	Type       *typeDoc    `yaml:"type,omitempty" json:"type,omitempty" toml:"type,omitempty"`
	Literal    *literalDoc `yaml:"literal,omitempty" json:"literal,omitempty" toml:"literal,omitempty"`
}

type functionDoc struct {
	Identifier string         `yaml:"identifier" json:"identifier" toml:"identifier"`
	Visibility string         `yaml:"visibility" json:"visibility" toml:"visibility"`
	Synchrony  string         `yaml:"synchrony" json:"synchrony" toml:"synchrony"`
	Attributes []attributeDoc `yaml:"attributes,omitempty" json:"attributes,omitempty" toml:"attributes,omitempty"`
	Method     *methodDoc     `yaml:"method,omitempty" json:"method,omitempty" toml:"method,omitempty"`
	Inputs     []parameterDoc `yaml:"inputs,omitempty" json:"inputs,omitempty" toml:"inputs,omitempty"`
	Output     *typeDoc       `yaml:"output,omitempty" json:"output,omitempty" toml:"output,omitempty"`
}

type methodDoc struct {
	Mutability string   `yaml:"mutability" json:"mutability" toml:"mutability"`
	Owner      *typeDoc `yaml:"owner,omitempty" json:"owner,omitempty" toml:"owner,omitempty"`
	Static     bool     `yaml:"static,omitempty" json:"static,omitempty" toml:"static,omitempty"`
}

type parameterDoc struct {
	Identifier string         `yaml:"identifier" json:"identifier" toml:"identifier"`
	Attributes []attributeDoc `yaml:"attributes,omitempty" json:"attributes,omitempty" toml:"attributes,omitempty"`
	Type       *typeDoc       `yaml:"type,omitempty" json:"type,omitempty" toml:"type,omitempty"`
}

type typeDoc struct {
	Kind       string   `yaml:"kind" json:"kind" toml:"kind"`
	Path       string   `yaml:"path,omitempty" json:"path,omitempty" toml:"path,omitempty"`
	Reference  string   `yaml:"reference,omitempty" json:"reference,omitempty" toml:"reference,omitempty"`
	Mutability string   `yaml:"mutability,omitempty" json:"mutability,omitempty" toml:"mutability,omitempty"`
	Type       *typeDoc `yaml:"type,omitempty" json:"type,omitempty" toml:"type,omitempty"`
}

type attributeDoc struct {
	Kind       string         `yaml:"kind" json:"kind" toml:"kind"`
	Identifier string         `yaml:"identifier" json:"identifier" toml:"identifier"`
	Literal    *literalDoc    `yaml:"literal,omitempty" json:"literal,omitempty" toml:"literal,omitempty"`
	Attributes []attributeDoc `yaml:"attributes,omitempty" json:"attributes,omitempty" toml:"attributes,omitempty"`
}

type literalDoc struct {
	Kind  string `yaml:"kind" json:"kind" toml:"kind"`
	Value string `yaml:"value" json:"value" toml:"value"`
}

const (
	kindStructure   = "structure"
	kindEnumeration = "enumeration"
	kindMethod      = "method"
	kindConstant    = "constant"
	kindPath        = "path"
	kindReference   = "reference"
	kindFlag        = "flag"
	kindNamed       = "named"
	kindGroup       = "group"
)

// Encoding

func libraryToDoc(l *Library) (*libraryDoc, error) {
	doc := &libraryDoc{
		Identifier: l.ID.Name,
		Metadata: metadataDoc{
			Version:     l.Metadata.Version,
			Description: l.Metadata.Description,
			Authors:     l.Metadata.Authors,
			Keywords:    l.Metadata.Keywords,
			Homepage:    l.Metadata.Homepage,
			License:     l.Metadata.License,
		},
	}
	if l.RootModule != nil {
		root, err := moduleToDoc(l.RootModule)
		if err != nil {
			return nil, err
		}
		doc.RootModule = root
	}
	return doc, nil
}

func moduleToDoc(m *Module) (*moduleDoc, error) {
	doc := &moduleDoc{
		Identifier: m.ID.Name,
		Visibility: m.Visibility.String(),
		Attributes: attributesToDoc(m.Attributes),
	}
	for _, imp := range m.Imports {
		d := importDoc{
			Path:       imp.Path.String(),
			Visibility: imp.Visibility.String(),
			Attributes: attributesToDoc(imp.Attributes),
		}
		if imp.Renaming != nil {
			d.Renaming = imp.Renaming.Name
		}
		doc.Imports = append(doc.Imports, d)
	}
	for _, child := range m.Modules {
		c, err := moduleToDoc(child)
		if err != nil {
			return nil, err
		}
		doc.Modules = append(doc.Modules, c)
	}
	for _, fn := range m.Functions {
		doc.Functions = append(doc.Functions, functionToDoc(fn))
	}
	for _, obj := range m.Objects {
		o, err := objectToDoc(obj)
		if err != nil {
			return nil, err
		}
		doc.Objects = append(doc.Objects, o)
	}
	return doc, nil
}

func objectToDoc(o *Object) (objectDoc, error) {
	doc := objectDoc{Path: o.Path.String()}
	switch def := o.Definition.(type) {
	case *Structure:
		doc.Definition = definitionDoc{
			Kind:       kindStructure,
			Identifier: def.ID.Name,
			Visibility: def.Visibility.String(),
			Attributes: attributesToDoc(def.Attributes),
		}
		for _, f := range def.Fields {
			doc.Definition.Fields = append(doc.Definition.Fields, fieldDoc{
				Identifier: f.ID.Name,
				Visibility: f.Visibility.String(),
				Attributes: attributesToDoc(f.Attributes),
				Type:       typeToDoc(f.Type),
			})
		}
	case *Enumeration:
		doc.Definition = definitionDoc{
			Kind:       kindEnumeration,
			Identifier: def.ID.Name,
			Visibility: def.Visibility.String(),
			Attributes: attributesToDoc(def.Attributes),
		}
		for _, v := range def.Variants {
			doc.Definition.Variants = append(doc.Definition.Variants, variantDoc{
				Identifier: v.ID.Name,
				Attributes: attributesToDoc(v.Attributes),
			})
		}
	default:
		return doc, errors.Wrapf(errors.ErrMissingDefinition, "object %s", o.Path)
	}
	for _, impl := range o.Implementations {
		d := implementationDoc{
			Attributes: attributesToDoc(impl.Attributes),
			Self:       typeToDoc(impl.Self),
		}
		for _, item := range impl.Items {
			switch x := item.(type) {
			case *Function:
				fn := functionToDoc(x)
				d.Items = append(d.Items, itemDoc{Kind: kindMethod, Method: &fn})
			case AssociatedConstant:
				d.Items = append(d.Items, itemDoc{Kind: kindConstant, Constant: &constantDoc{
					Identifier: x.ID.Name,
					Type:       typeToDoc(x.Type),
					Literal:    literalToDoc(x.Literal),
				}})
			}
		}
		doc.Implementations = append(doc.Implementations, d)
	}
	return doc, nil
}

func functionToDoc(f *Function) functionDoc {
	doc := functionDoc{
		Identifier: f.ID.Name,
		Visibility: f.Visibility.String(),
		Synchrony:  f.Synchrony.String(),
		Attributes: attributesToDoc(f.Attributes),
		Output:     typeToDoc(f.Output),
	}
	if f.Method != nil {
		doc.Method = &methodDoc{
			Mutability: f.Method.Mutability.String(),
			Owner:      typeToDoc(f.Method.Owner),
			Static:     f.Method.Static,
		}
	}
	for _, p := range f.Inputs {
		doc.Inputs = append(doc.Inputs, parameterDoc{
			Identifier: p.ID.Name,
			Attributes: attributesToDoc(p.Attributes),
			Type:       typeToDoc(p.Type),
		})
	}
	return doc
}

func typeToDoc(t Type) *typeDoc {
	switch x := t.(type) {
	case PathType:
		return &typeDoc{Kind: kindPath, Path: x.Path.String()}
	case Reference:
		return &typeDoc{
			Kind:       kindReference,
			Reference:  x.Kind.String(),
			Mutability: x.Mutability.String(),
			Type:       typeToDoc(x.Type),
		}
	}
	return nil
}

func attributesToDoc(as Attributes) []attributeDoc {
	if len(as) == 0 {
		return nil
	}
	out := make([]attributeDoc, 0, len(as))
	for _, a := range as {
		switch x := a.(type) {
		case Flag:
			out = append(out, attributeDoc{Kind: kindFlag, Identifier: x.ID.Name})
		case Named:
			out = append(out, attributeDoc{Kind: kindNamed, Identifier: x.ID.Name, Literal: literalToDoc(x.Literal)})
		case Group:
			out = append(out, attributeDoc{Kind: kindGroup, Identifier: x.ID.Name, Attributes: attributesToDoc(x.Attributes)})
		}
	}
	return out
}

func literalToDoc(l Literal) *literalDoc {
	switch x := l.(type) {
	case StringLiteral:
		return &literalDoc{Kind: "string", Value: string(x)}
	case BooleanLiteral:
		return &literalDoc{Kind: "boolean", Value: strconv.FormatBool(bool(x))}
	case IntegerLiteral:
		return &literalDoc{Kind: "integer", Value: strconv.FormatInt(int64(x), 10)}
	case UnsignedIntegerLiteral:
		return &literalDoc{Kind: "unsigned_integer", Value: strconv.FormatUint(uint64(x), 10)}
	case FloatLiteral:
		return &literalDoc{Kind: "float", Value: strconv.FormatFloat(float64(x), 'g', -1, 64)}
	case CharacterLiteral:
		return &literalDoc{Kind: "character", Value: strconv.FormatInt(int64(x), 10)}
	}
	return nil
}

// Decoding

func docToLibrary(doc *libraryDoc) (*Library, error) {
	lib := &Library{
		ID: tree.NewIdentifier(doc.Identifier),
		Metadata: Metadata{
			Version:     doc.Metadata.Version,
			Description: doc.Metadata.Description,
			Authors:     nonEmpty(doc.Metadata.Authors),
			Keywords:    nonEmpty(doc.Metadata.Keywords),
			Homepage:    doc.Metadata.Homepage,
			License:     doc.Metadata.License,
		},
	}
	if doc.RootModule != nil {
		root, err := docToModule(doc.RootModule)
		if err != nil {
			return nil, err
		}
		lib.RootModule = root
	}
	return lib, nil
}

func docToModule(doc *moduleDoc) (*Module, error) {
	vis, err := ParseVisibility(doc.Visibility)
	if err != nil {
		return nil, err
	}
	attrs, err := docToAttributes(doc.Attributes)
	if err != nil {
		return nil, err
	}
	m := &Module{ID: tree.NewIdentifier(doc.Identifier), Visibility: vis, Attributes: attrs}

	for _, d := range doc.Imports {
		imp, err := docToImport(d)
		if err != nil {
			return nil, errors.Wrapf(err, "module %s", doc.Identifier)
		}
		m.Imports = append(m.Imports, imp)
	}
	for _, d := range doc.Modules {
		if d == nil {
			continue
		}
		child, err := docToModule(d)
		if err != nil {
			return nil, err
		}
		m.Modules = append(m.Modules, child)
	}
	for i := range doc.Functions {
		fn, err := docToFunction(&doc.Functions[i])
		if err != nil {
			return nil, errors.Wrapf(err, "module %s", doc.Identifier)
		}
		m.Functions = append(m.Functions, fn)
	}
	for i := range doc.Objects {
		obj, err := docToObject(&doc.Objects[i])
		if err != nil {
			return nil, errors.Wrapf(err, "module %s", doc.Identifier)
		}
		m.Objects = append(m.Objects, obj)
	}
	return m, nil
}

func docToImport(d importDoc) (Import, error) {
	vis, err := ParseVisibility(d.Visibility)
	if err != nil {
		return Import{}, err
	}
	attrs, err := docToAttributes(d.Attributes)
	if err != nil {
		return Import{}, err
	}
	imp := Import{Attributes: attrs, Visibility: vis, Path: tree.ParseCanonical(d.Path)}
	if d.Renaming != "" {
		id := tree.NewIdentifier(d.Renaming)
		imp.Renaming = &id
	}
	return imp, nil
}

func docToObject(d *objectDoc) (*Object, error) {
	obj := &Object{Path: tree.ParseCanonical(d.Path)}
	vis, err := ParseVisibility(d.Definition.Visibility)
	if err != nil {
		return nil, err
	}
	attrs, err := docToAttributes(d.Definition.Attributes)
	if err != nil {
		return nil, err
	}
	id := tree.NewIdentifier(d.Definition.Identifier)

	switch d.Definition.Kind {
	case kindStructure:
		s := &Structure{Attributes: attrs, Visibility: vis, ID: id}
		for _, fd := range d.Definition.Fields {
			f, err := docToField(fd)
			if err != nil {
				return nil, errors.Wrapf(err, "object %s", d.Path)
			}
			s.Fields = append(s.Fields, f)
		}
		obj.Definition = s
	case kindEnumeration:
		e := &Enumeration{Attributes: attrs, Visibility: vis, ID: id}
		for _, vd := range d.Definition.Variants {
			vattrs, err := docToAttributes(vd.Attributes)
			if err != nil {
				return nil, err
			}
			e.Variants = append(e.Variants, Variant{Attributes: vattrs, ID: tree.NewIdentifier(vd.Identifier)})
		}
		obj.Definition = e
	default:
		return nil, errors.Wrapf(errors.ErrMissingDefinition, "object %s: definition kind %q", d.Path, d.Definition.Kind)
	}

	for _, implDoc := range d.Implementations {
		impl, err := docToImplementation(implDoc)
		if err != nil {
			return nil, errors.Wrapf(err, "object %s", d.Path)
		}
		obj.Implementations = append(obj.Implementations, impl)
	}
	return obj, nil
}

func docToField(d fieldDoc) (Field, error) {
	vis, err := ParseVisibility(d.Visibility)
	if err != nil {
		return Field{}, err
	}
	attrs, err := docToAttributes(d.Attributes)
	if err != nil {
		return Field{}, err
	}
	t, err := docToType(d.Type)
	if err != nil {
		return Field{}, err
	}
	f := Field{Attributes: attrs, Visibility: vis, Type: t}
	if d.Identifier != "" {
		f.ID = tree.NewIdentifier(d.Identifier)
	}
	return f, nil
}

func docToImplementation(d implementationDoc) (Implementation, error) {
	attrs, err := docToAttributes(d.Attributes)
	if err != nil {
		return Implementation{}, err
	}
	self, err := docToType(d.Self)
	if err != nil {
		return Implementation{}, err
	}
	impl := Implementation{Attributes: attrs, Self: self}
	for _, item := range d.Items {
		switch item.Kind {
		case kindMethod:
			if item.Method == nil {
				return impl, errors.New("method item without a method")
			}
			fn, err := docToFunction(item.Method)
			if err != nil {
				return impl, err
			}
			impl.Items = append(impl.Items, fn)
		case kindConstant:
			if item.Constant == nil {
				return impl, errors.New("constant item without a constant")
			}
			t, err := docToType(item.Constant.Type)
			if err != nil {
				return impl, err
			}
			lit, err := docToLiteral(item.Constant.Literal)
			if err != nil {
				return impl, err
			}
			impl.Items = append(impl.Items, AssociatedConstant{
				ID:      tree.NewIdentifier(item.Constant.Identifier),
				Type:    t,
				Literal: lit,
			})
		default:
			return impl, errors.Newf("unknown implementation item kind %q", item.Kind)
		}
	}
	return impl, nil
}

func docToFunction(d *functionDoc) (*Function, error) {
	vis, err := ParseVisibility(d.Visibility)
	if err != nil {
		return nil, err
	}
	sync, err := ParseSynchrony(d.Synchrony)
	if err != nil {
		return nil, err
	}
	attrs, err := docToAttributes(d.Attributes)
	if err != nil {
		return nil, err
	}
	output, err := docToType(d.Output)
	if err != nil {
		return nil, err
	}
	fn := &Function{
		Attributes: attrs,
		Visibility: vis,
		Synchrony:  sync,
		ID:         tree.NewIdentifier(d.Identifier),
		Output:     output,
	}
	if d.Method != nil {
		mut, err := ParseMutability(d.Method.Mutability)
		if err != nil {
			return nil, err
		}
		owner, err := docToType(d.Method.Owner)
		if err != nil {
			return nil, err
		}
		fn.Method = &Method{Mutability: mut, Owner: owner, Static: d.Method.Static}
	}
	for _, p := range d.Inputs {
		pattrs, err := docToAttributes(p.Attributes)
		if err != nil {
			return nil, err
		}
		t, err := docToType(p.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %s of %s", p.Identifier, d.Identifier)
		}
		fn.Inputs = append(fn.Inputs, Parameter{Attributes: pattrs, ID: tree.NewIdentifier(p.Identifier), Type: t})
	}
	return fn, nil
}

func docToType(d *typeDoc) (Type, error) {
	if d == nil {
		return nil, nil
	}
	switch d.Kind {
	case kindPath:
		return PathType{Path: tree.ParseCanonical(d.Path)}, nil
	case kindReference:
		kind, err := ParseReferenceKind(d.Reference)
		if err != nil {
			return nil, err
		}
		mut, err := ParseMutability(d.Mutability)
		if err != nil {
			return nil, err
		}
		inner, err := docToType(d.Type)
		if err != nil {
			return nil, err
		}
		return Reference{Kind: kind, Mutability: mut, Type: inner}, nil
	}
	return nil, errors.Newf("unknown type kind %q", d.Kind)
}

func docToAttributes(docs []attributeDoc) (Attributes, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	out := make(Attributes, 0, len(docs))
	for _, d := range docs {
		id := tree.NewIdentifier(d.Identifier)
		switch d.Kind {
		case kindFlag:
			out = append(out, Flag{ID: id})
		case kindNamed:
			lit, err := docToLiteral(d.Literal)
			if err != nil {
				return nil, err
			}
			out = append(out, Named{ID: id, Literal: lit})
		case kindGroup:
			nested, err := docToAttributes(d.Attributes)
			if err != nil {
				return nil, err
			}
			out = append(out, Group{ID: id, Attributes: nested})
		default:
			return nil, errors.Newf("unknown attribute kind %q", d.Kind)
		}
	}
	return out, nil
}

func docToLiteral(d *literalDoc) (Literal, error) {
	if d == nil {
		return nil, nil
	}
	switch d.Kind {
	case "string":
		return StringLiteral(d.Value), nil
	case "boolean":
		b, err := strconv.ParseBool(d.Value)
		return BooleanLiteral(b), errors.Wrap(err, "boolean literal")
	case "integer":
		i, err := strconv.ParseInt(d.Value, 10, 64)
		return IntegerLiteral(i), errors.Wrap(err, "integer literal")
	case "unsigned_integer":
		u, err := strconv.ParseUint(d.Value, 10, 64)
		return UnsignedIntegerLiteral(u), errors.Wrap(err, "unsigned integer literal")
	case "float":
		f, err := strconv.ParseFloat(d.Value, 64)
		return FloatLiteral(f), errors.Wrap(err, "float literal")
	case "character":
		// code point, not text
		r, err := strconv.ParseInt(d.Value, 10, 32)
		return CharacterLiteral(r), errors.Wrap(err, "character literal")
	}
	return nil, errors.Newf("unknown literal kind %q", d.Kind)
}

func nonEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
