package golang

import (
	"go/ast"
	"go/token"
	"strconv"
	"strings"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/parsing"
	"github.com/teranos/bindgen/tree"
)

// packageBuilder merges the declarations of every file of one package
type packageBuilder struct {
	mod       *ir.Module
	collector *ir.ObjectCollector
	// enums lists `type X <basic>` declarations waiting for constants
	enums    []string
	variants map[string][]ir.Variant
	impls    map[string]*ir.Implementation
	implKeys []string
	defined  map[string]bool
}

func buildModule(name string, files []*ast.File) (*ir.Module, error) {
	b := &packageBuilder{
		mod:       ir.NewModule(name),
		collector: ir.NewObjectCollector(),
		variants:  map[string][]ir.Variant{},
		impls:     map[string]*ir.Implementation{},
		defined:   map[string]bool{},
	}
	b.mod.Visibility = ir.Public
	for _, file := range files {
		b.file(file)
	}
	return b.finish()
}

func (b *packageBuilder) skip(item string, err error) {
	logger.Debugw("Skipping item",
		logger.FieldLanguage, Language,
		logger.FieldModule, b.mod.ID.Name,
		logger.FieldItem, item,
		logger.FieldError, err)
}

func (b *packageBuilder) file(f *ast.File) {
	for _, imp := range f.Imports {
		if i, ok := importOf(imp); ok {
			b.mod.Imports = append(b.mod.Imports, i)
		}
	}
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			switch d.Tok {
			case token.TYPE:
				for _, spec := range d.Specs {
					b.typeSpec(spec.(*ast.TypeSpec))
				}
			case token.CONST:
				b.constBlock(d)
			}
		case *ast.FuncDecl:
			b.funcDecl(d)
		}
	}
}

func (b *packageBuilder) typeSpec(spec *ast.TypeSpec) {
	if !spec.Name.IsExported() || spec.Assign.IsValid() {
		return
	}
	name := spec.Name.Name
	switch t := spec.Type.(type) {
	case *ast.StructType:
		def := &ir.Structure{
			ID:         tree.NewIdentifier(name),
			Visibility: ir.Public,
			Fields:     fields(t),
		}
		b.collector.AddDefinition(tree.PathOf(name), def)
		b.defined[name] = true
	case *ast.Ident:
		if _, ok := basicTypes[t.Name]; ok {
			b.enums = append(b.enums, name)
		}
	}
}

// fields skips embedded fields since they have no name to bind
func fields(t *ast.StructType) []ir.Field {
	var out []ir.Field
	for _, f := range t.Fields.List {
		typ := typeOf(f.Type)
		for _, n := range f.Names {
			vis := ir.Private
			if n.IsExported() {
				vis = ir.Public
			}
			out = append(out, ir.Field{ID: tree.NewIdentifier(n.Name), Visibility: vis, Type: typ})
		}
	}
	return out
}

// constBlock assigns exported constants to their declared named type. Within
// a block an untyped spec repeats the previous type, as iota blocks do.
func (b *packageBuilder) constBlock(d *ast.GenDecl) {
	var current string
	for _, spec := range d.Specs {
		vs := spec.(*ast.ValueSpec)
		switch {
		case vs.Type != nil:
			current = ""
			if ident, ok := vs.Type.(*ast.Ident); ok {
				current = ident.Name
			}
		case len(vs.Values) > 0:
			current = ""
		}
		if current == "" {
			continue
		}
		for _, n := range vs.Names {
			if n.IsExported() {
				b.variants[current] = append(b.variants[current], ir.Variant{ID: tree.NewIdentifier(n.Name)})
			}
		}
	}
}

func (b *packageBuilder) funcDecl(d *ast.FuncDecl) {
	if !d.Name.IsExported() {
		return
	}
	fn, err := function(d)
	if err != nil {
		b.skip(d.Name.Name, err)
		return
	}
	if d.Recv == nil || len(d.Recv.List) == 0 {
		b.mod.Functions = append(b.mod.Functions, fn)
		return
	}

	recv := d.Recv.List[0].Type
	mutability := ir.Constant
	if star, ok := recv.(*ast.StarExpr); ok {
		mutability = ir.Mutable
		recv = star.X
	}
	owner := receiverName(recv)
	if owner == "" || !token.IsExported(owner) {
		return
	}
	self := ir.PathType{Path: tree.PathOf(owner)}
	fn.Inputs = append([]ir.Parameter{{
		ID:   tree.SelfRef(),
		Type: ir.NewReference(ir.Borrow, mutability, ir.NamedType(ir.SelfTypeName)),
	}}, fn.Inputs...)

	impl, ok := b.impls[owner]
	if !ok {
		impl = &ir.Implementation{Self: self}
		b.impls[owner] = impl
		b.implKeys = append(b.implKeys, owner)
	}
	impl.Items = append(impl.Items, ir.NewMethod(*fn, self))
}

// receiverName drops type parameters from generic receivers
func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	}
	return ""
}

// function reads a signature. A trailing error result is dropped; other
// multi-value results are Opaque.
func function(d *ast.FuncDecl) (*ir.Function, error) {
	fn := &ir.Function{
		ID:         tree.NewIdentifier(d.Name.Name),
		Visibility: ir.Public,
		Synchrony:  ir.Synchronous,
	}
	params := d.Type.Params.List
	for _, f := range params {
		if _, ok := f.Type.(*ast.Ellipsis); ok {
			return nil, parsing.NewParseError(Language, d.Name.Name, "variadic parameter")
		}
		typ := typeOf(f.Type)
		if len(f.Names) == 0 {
			fn.Inputs = append(fn.Inputs, ir.Parameter{ID: tree.NewIdentifier("arg" + strconv.Itoa(len(fn.Inputs))), Type: typ})
			continue
		}
		for _, n := range f.Names {
			name := n.Name
			if name == "_" {
				name = "arg" + strconv.Itoa(len(fn.Inputs))
			}
			fn.Inputs = append(fn.Inputs, ir.Parameter{ID: tree.Identifier{Name: name}, Type: typ})
		}
	}

	var results []ast.Expr
	if d.Type.Results != nil {
		for _, f := range d.Type.Results.List {
			n := max(len(f.Names), 1)
			for range n {
				results = append(results, f.Type)
			}
		}
	}
	if len(results) > 0 && isError(results[len(results)-1]) {
		results = results[:len(results)-1]
	}
	switch len(results) {
	case 0:
	case 1:
		fn.Output = typeOf(results[0])
	default:
		fn.Output = ir.Opaque()
	}
	return fn, nil
}

func isError(expr ast.Expr) bool {
	ident, ok := expr.(*ast.Ident)
	return ok && ident.Name == "error"
}

func importOf(spec *ast.ImportSpec) (ir.Import, bool) {
	path, err := strconv.Unquote(spec.Path.Value)
	if err != nil {
		return ir.Import{}, false
	}
	imp := ir.Import{Visibility: ir.Private, Path: tree.PathOf(strings.Split(path, "/")...)}
	if spec.Name != nil {
		switch spec.Name.Name {
		case "_":
			return ir.Import{}, false
		case ".":
			imp.Path = imp.Path.Join(tree.NewIdentifier(tree.Wildcard))
		default:
			alias := tree.NewIdentifier(spec.Name.Name)
			imp.Renaming = &alias
		}
	}
	return imp, true
}

// finish turns named basic types with constants into enumerations and
// attaches methods to their objects.
func (b *packageBuilder) finish() (*ir.Module, error) {
	for _, name := range b.enums {
		variants := b.variants[name]
		if len(variants) == 0 {
			b.skip(name, errors.New("named type without constants"))
			continue
		}
		b.collector.AddDefinition(tree.PathOf(name), &ir.Enumeration{
			ID:         tree.NewIdentifier(name),
			Visibility: ir.Public,
			Variants:   variants,
		})
		b.defined[name] = true
	}
	// methods of interfaces, func types and aliases have nothing to attach to
	for _, owner := range b.implKeys {
		if !b.defined[owner] {
			continue
		}
		b.collector.AddImplementation(tree.PathOf(owner), *b.impls[owner])
	}

	objects, err := b.collector.Finalize()
	if err != nil {
		return nil, errors.Wrapf(err, "package %s", b.mod.ID)
	}
	b.mod.Objects = objects
	return b.mod, nil
}
