package python

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/parsing"
	"github.com/teranos/bindgen/tree"
)

// scope is what one block of statements declares
type scope struct {
	imports   []ir.Import
	functions []*ir.Function
	objects   []*ir.Object
}

// join appends other's declarations after s's
func (s *scope) join(other scope) {
	s.imports = append(s.imports, other.imports...)
	s.functions = append(s.functions, other.functions...)
	s.objects = append(s.objects, other.objects...)
}

type scopeParser struct {
	cfg  *parsing.Config
	src  []byte
	path string
}

func (sp *scopeParser) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(sp.src)
}

func (sp *scopeParser) skip(item string, err error) {
	logger.Debugw("Skipping item",
		logger.FieldLanguage, Language,
		logger.FieldItem, item,
		logger.FieldPath, sp.path,
		logger.FieldError, err)
}

// scope collects the declarations of a module or block. Conditional and
// try blocks declare into the enclosing scope.
func (sp *scopeParser) scope(block *sitter.Node) scope {
	var s scope
	if block == nil {
		return s
	}
	for i := 0; i < int(block.NamedChildCount()); i++ {
		n := block.NamedChild(i)
		var decorators []string
		if n.Type() == "decorated_definition" {
			decorators = sp.decorators(n)
			n = n.ChildByFieldName("definition")
			if n == nil {
				continue
			}
		}
		switch n.Type() {
		case "class_definition":
			obj, err := sp.class(n)
			if err != nil {
				sp.skip("class", err)
				continue
			}
			s.objects = append(s.objects, obj)
		case "function_definition":
			fn, err := sp.function(n, decorators, false)
			if err != nil {
				sp.skip("def", err)
				continue
			}
			s.functions = append(s.functions, fn)
		case "import_statement":
			s.imports = append(s.imports, sp.imports(n)...)
		case "import_from_statement":
			s.imports = append(s.imports, sp.fromImports(n)...)
		case "if_statement", "try_statement":
			s.join(sp.subScopes(n))
		}
	}
	return s
}

// subScopes joins every block of an if or try statement
func (sp *scopeParser) subScopes(n *sitter.Node) scope {
	var s scope
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "block":
			s.join(sp.scope(c))
		case "elif_clause", "else_clause", "except_clause", "finally_clause":
			s.join(sp.subScopes(c))
		}
	}
	return s
}

func (sp *scopeParser) decorators(n *sitter.Node) []string {
	var out []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "decorator" {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(sp.text(c), "@"))
		if idx := strings.IndexByte(name, '('); idx >= 0 {
			name = name[:idx]
		}
		out = append(out, name)
	}
	return out
}

// class builds a structure from the annotated class-level assignments and
// an implementation from the defs in the body.
func (sp *scopeParser) class(n *sitter.Node) (*ir.Object, error) {
	name := sp.text(n.ChildByFieldName("name"))
	if name == "" {
		return nil, parsing.NewParseError(Language, "class", "missing name")
	}
	id := tree.NewIdentifier(name)
	def := &ir.Structure{ID: id, Visibility: nameVisibility(name)}
	self := ir.PathType{Path: tree.NewPath(id)}
	impl := ir.Implementation{Self: self}

	body := n.ChildByFieldName("body")
	for i := 0; body != nil && i < int(body.NamedChildCount()); i++ {
		item := body.NamedChild(i)
		var decorators []string
		if item.Type() == "decorated_definition" {
			decorators = sp.decorators(item)
			item = item.ChildByFieldName("definition")
			if item == nil {
				continue
			}
		}
		switch item.Type() {
		case "expression_statement":
			if field, ok := sp.field(item); ok {
				def.Fields = append(def.Fields, field)
			}
		case "function_definition":
			fn, err := sp.function(item, decorators, true)
			if err != nil {
				sp.skip("def", err)
				continue
			}
			impl.Items = append(impl.Items, ir.NewMethod(*fn, self))
		}
	}

	obj := &ir.Object{Path: tree.NewPath(id), Definition: def}
	if len(impl.Items) > 0 {
		obj.Implementations = []ir.Implementation{impl}
	}
	return obj, nil
}

// field reads `name: T` or `name: T = value` at class level
func (sp *scopeParser) field(stmt *sitter.Node) (ir.Field, bool) {
	if stmt.NamedChildCount() == 0 {
		return ir.Field{}, false
	}
	assign := stmt.NamedChild(0)
	if assign.Type() != "assignment" {
		return ir.Field{}, false
	}
	left, annotation := assign.ChildByFieldName("left"), assign.ChildByFieldName("type")
	if left == nil || annotation == nil || left.Type() != "identifier" {
		return ir.Field{}, false
	}
	name := sp.text(left)
	return ir.Field{
		ID:         tree.NewIdentifier(name),
		Visibility: nameVisibility(name),
		Type:       sp.annotation(annotation),
	}, true
}

// function reads a def. Inside a class a leading self parameter becomes
// the receiver unless the def is a staticmethod or classmethod.
func (sp *scopeParser) function(n *sitter.Node, decorators []string, inClass bool) (*ir.Function, error) {
	name := sp.text(n.ChildByFieldName("name"))
	if name == "" {
		return nil, parsing.NewParseError(Language, "def", "missing name")
	}
	bind := bindNone
	switch {
	case inClass && hasDecorator(decorators, "classmethod"):
		bind = bindClass
	case inClass && !hasDecorator(decorators, "staticmethod"):
		bind = bindSelf
	}
	inputs, err := sp.parameters(n.ChildByFieldName("parameters"), bind)
	if err != nil {
		return nil, errors.Wrapf(err, "def %s", name)
	}
	fn := &ir.Function{
		ID:         tree.NewIdentifier(name),
		Visibility: nameVisibility(name),
		Synchrony:  ir.Synchronous,
		Inputs:     inputs,
	}
	if isAsync(n) {
		fn.Synchrony = ir.Asynchronous
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		fn.Output = sp.annotation(ret)
	}
	return fn, nil
}

func hasDecorator(decorators []string, name string) bool {
	for _, d := range decorators {
		if d == name {
			return true
		}
	}
	return false
}

// binding is how the first parameter of a def is bound
type binding int

const (
	bindNone binding = iota
	bindSelf
	bindClass
)

func isAsync(n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == "async" {
			return true
		}
		if c.Type() == "def" {
			return false
		}
	}
	return false
}

// parameters reads the parameter list. Splats are rejected since they have
// no fixed arity. Keyword and positional separators are dropped.
func (sp *scopeParser) parameters(n *sitter.Node, b binding) ([]ir.Parameter, error) {
	if n == nil {
		return nil, nil
	}
	var out []ir.Parameter
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		var name string
		var typ ir.Type = ir.Opaque()
		switch c.Type() {
		case "identifier":
			name = sp.text(c)
		case "typed_parameter":
			if c.NamedChildCount() > 0 {
				name = sp.text(c.NamedChild(0))
			}
			typ = sp.annotation(c.ChildByFieldName("type"))
		case "default_parameter":
			name = sp.text(c.ChildByFieldName("name"))
		case "typed_default_parameter":
			name = sp.text(c.ChildByFieldName("name"))
			typ = sp.annotation(c.ChildByFieldName("type"))
		case "list_splat_pattern", "dictionary_splat_pattern":
			return nil, parsing.NewParseError(Language, "parameter", "variadic parameter %s", sp.text(c))
		default:
			continue
		}
		if name == "" {
			continue
		}
		if len(out) == 0 && b == bindSelf && name == tree.SelfName {
			out = append(out, ir.Parameter{ID: tree.SelfRef(), Type: ir.NamedType(ir.SelfTypeName)})
			continue
		}
		// cls is bound implicitly on classmethods
		if len(out) == 0 && b == bindClass && name == "cls" {
			continue
		}
		out = append(out, ir.Parameter{ID: tree.Identifier{Name: name}, Type: typ})
	}
	return out, nil
}
