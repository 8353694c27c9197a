package rust

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/parsing"
	"github.com/teranos/bindgen/tree"
)

// innerMacroGroups maps module-level attribute macros to the group they add
var innerMacroGroups = map[string]string{
	"inner_bindgen": "bindgen",
	"inner_ligen":   "ligen",
}

// moduleParser walks the items of one source file
type moduleParser struct {
	parser *Parser
	ctx    context.Context
	cfg    *parsing.Config
	src    []byte
	path   string
}

func (mp *moduleParser) text(n *sitter.Node) string {
	return content(n, mp.src)
}

func (mp *moduleParser) skip(item string, err error) {
	logger.Debugw("Skipping item",
		logger.FieldLanguage, Language,
		logger.FieldItem, item,
		logger.FieldPath, mp.path,
		logger.FieldError, err)
}

// parseItems fills mod from the items of body (a source_file or declaration_list).
// Outer attributes precede their item as siblings and are carried forward.
func (mp *moduleParser) parseItems(mod *ir.Module, body *sitter.Node, dir string) error {
	collector := ir.NewObjectCollector()
	var pending ir.Attributes

	for i := 0; i < int(body.NamedChildCount()); i++ {
		n := body.NamedChild(i)
		switch n.Type() {
		case "attribute_item":
			if attr := mp.attribute(n); attr != nil {
				pending = append(pending, attr)
			}
			continue
		case "line_comment", "block_comment":
			continue
		case "inner_attribute_item":
			if attr := mp.attribute(n); attr != nil {
				mod.Attributes = append(mod.Attributes, attr)
			}
		case "struct_item":
			def, err := mp.structure(n, pending)
			if err != nil {
				mp.skip("struct", err)
				break
			}
			collector.AddDefinition(tree.NewPath(def.ID), def)
		case "enum_item":
			def, err := mp.enumeration(n, pending)
			if err != nil {
				mp.skip("enum", err)
				break
			}
			collector.AddDefinition(tree.NewPath(def.ID), def)
		case "impl_item":
			if n.ChildByFieldName("trait") != nil {
				break
			}
			impl := mp.implementation(n, pending)
			collector.AddImplementation(ir.TypePath(impl.Self), impl)
		case "function_item":
			fn, err := mp.function(n, pending)
			if err != nil {
				mp.skip("fn", err)
				break
			}
			mod.Functions = append(mod.Functions, fn)
		case "mod_item":
			sub, err := mp.module(n, pending, dir)
			if err != nil {
				if !errors.IsParseError(err) {
					return err
				}
				mp.skip("mod", err)
				break
			}
			if sub != nil {
				mod.AddBranch(sub)
			}
		case "use_declaration":
			mod.Imports = append(mod.Imports, mp.imports(n, pending)...)
		case "macro_invocation":
			mp.innerMacro(mod, n)
		case "expression_statement":
			if n.NamedChildCount() > 0 && n.NamedChild(0).Type() == "macro_invocation" {
				mp.innerMacro(mod, n.NamedChild(0))
			}
		}
		pending = nil
	}

	objects, err := collector.Finalize()
	if err != nil {
		return errors.Wrapf(err, "module %s", mod.ID)
	}
	mod.Objects = objects
	return nil
}

// module parses an inline `mod x { ... }` or loads `mod x;` from disk.
// Ignored modules return nil without being read.
func (mp *moduleParser) module(n *sitter.Node, attrs ir.Attributes, dir string) (*ir.Module, error) {
	rawName := mp.text(n.ChildByFieldName("name"))
	if rawName == "" {
		return nil, parsing.NewParseError(Language, "mod", "missing name")
	}
	if mp.cfg.Ignored(attrs) {
		return nil, nil
	}

	var sub *ir.Module
	if body := n.ChildByFieldName("body"); body != nil {
		sub = ir.NewModule(rawName)
		if err := mp.parseItems(sub, body, filepath.Join(dir, rawName)); err != nil {
			return nil, err
		}
	} else {
		loaded, err := mp.parser.loadModuleFile(mp.ctx, rawName, dir, mp.cfg)
		if err != nil {
			return nil, err
		}
		sub = loaded
	}

	sub.ID = tree.NewIdentifier(mp.cfg.ModuleName(rawName))
	sub.Visibility = mp.visibility(n)
	if len(attrs) > 0 {
		sub.Attributes = append(append(ir.Attributes(nil), attrs...), sub.Attributes...)
	}
	if mp.cfg.Ignored(sub.Attributes) {
		return nil, nil
	}
	return sub, nil
}

func (mp *moduleParser) innerMacro(mod *ir.Module, n *sitter.Node) {
	group, ok := innerMacroGroups[mp.text(n.ChildByFieldName("macro"))]
	if !ok {
		return
	}
	var args ir.Attributes
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "token_tree" {
			args = mp.tokenTree(c)
		}
	}
	mod.Attributes = append(mod.Attributes, ir.NewGroup(group, args...))
}

// visibility reads the visibility_modifier child: pub and pub(crate) are
// Public, pub(self) is Private and no modifier is Inherited
func (mp *moduleParser) visibility(n *sitter.Node) ir.Visibility {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "visibility_modifier" {
			continue
		}
		if strings.ReplaceAll(mp.text(c), " ", "") == "pub(self)" {
			return ir.Private
		}
		return ir.Public
	}
	return ir.Inherited
}

func (mp *moduleParser) structure(n *sitter.Node, attrs ir.Attributes) (*ir.Structure, error) {
	name := mp.text(n.ChildByFieldName("name"))
	if name == "" {
		return nil, parsing.NewParseError(Language, "struct", "missing name")
	}
	s := &ir.Structure{
		Attributes: attrs,
		Visibility: mp.visibility(n),
		ID:         tree.NewIdentifier(name),
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		return s, nil
	}
	switch body.Type() {
	case "field_declaration_list":
		s.Fields = mp.namedFields(body)
	case "ordered_field_declaration_list":
		s.Fields = mp.tupleFields(body)
	}
	return s, nil
}

func (mp *moduleParser) namedFields(body *sitter.Node) []ir.Field {
	var fields []ir.Field
	var pending ir.Attributes
	for i := 0; i < int(body.NamedChildCount()); i++ {
		c := body.NamedChild(i)
		switch c.Type() {
		case "attribute_item":
			if attr := mp.attribute(c); attr != nil {
				pending = append(pending, attr)
			}
		case "field_declaration":
			fields = append(fields, ir.Field{
				Attributes: pending,
				Visibility: mp.visibility(c),
				ID:         tree.NewIdentifier(mp.text(c.ChildByFieldName("name"))),
				Type:       mp.typeOf(c.ChildByFieldName("type")),
			})
			pending = nil
		}
	}
	return fields
}

// tupleFields reads `(pub A, #[x] B)`: attributes and visibility precede each type
func (mp *moduleParser) tupleFields(body *sitter.Node) []ir.Field {
	var fields []ir.Field
	var pending ir.Attributes
	vis := ir.Inherited
	for i := 0; i < int(body.NamedChildCount()); i++ {
		c := body.NamedChild(i)
		switch c.Type() {
		case "attribute_item":
			if attr := mp.attribute(c); attr != nil {
				pending = append(pending, attr)
			}
		case "visibility_modifier":
			vis = ir.Public
		case "line_comment", "block_comment":
		default:
			fields = append(fields, ir.Field{Attributes: pending, Visibility: vis, Type: mp.typeOf(c)})
			pending = nil
			vis = ir.Inherited
		}
	}
	return fields
}

func (mp *moduleParser) enumeration(n *sitter.Node, attrs ir.Attributes) (*ir.Enumeration, error) {
	name := mp.text(n.ChildByFieldName("name"))
	if name == "" {
		return nil, parsing.NewParseError(Language, "enum", "missing name")
	}
	e := &ir.Enumeration{
		Attributes: attrs,
		Visibility: mp.visibility(n),
		ID:         tree.NewIdentifier(name),
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		return e, nil
	}
	var pending ir.Attributes
	for i := 0; i < int(body.NamedChildCount()); i++ {
		c := body.NamedChild(i)
		switch c.Type() {
		case "attribute_item":
			if attr := mp.attribute(c); attr != nil {
				pending = append(pending, attr)
			}
		case "enum_variant":
			e.Variants = append(e.Variants, ir.Variant{
				Attributes: pending,
				ID:         tree.NewIdentifier(mp.text(c.ChildByFieldName("name"))),
			})
			pending = nil
		}
	}
	return e, nil
}

// implementation reads an inherent impl block. Items that fail to parse are skipped.
func (mp *moduleParser) implementation(n *sitter.Node, attrs ir.Attributes) ir.Implementation {
	self := mp.typeOf(n.ChildByFieldName("type"))
	impl := ir.Implementation{Attributes: attrs, Self: self}

	body := n.ChildByFieldName("body")
	if body == nil {
		return impl
	}
	var pending ir.Attributes
	for i := 0; i < int(body.NamedChildCount()); i++ {
		c := body.NamedChild(i)
		switch c.Type() {
		case "attribute_item":
			if attr := mp.attribute(c); attr != nil {
				pending = append(pending, attr)
			}
			continue
		case "line_comment", "block_comment":
			continue
		case "function_item":
			fn, err := mp.function(c, pending)
			if err != nil {
				mp.skip("impl fn", err)
				break
			}
			impl.Items = append(impl.Items, ir.NewMethod(*fn, self))
		case "const_item":
			impl.Items = append(impl.Items, ir.AssociatedConstant{
				ID:      tree.NewIdentifier(mp.text(c.ChildByFieldName("name"))),
				Type:    mp.typeOf(c.ChildByFieldName("type")),
				Literal: ir.ParseLiteral(mp.text(c.ChildByFieldName("value"))),
			})
		}
		pending = nil
	}
	return impl
}

func (mp *moduleParser) function(n *sitter.Node, attrs ir.Attributes) (*ir.Function, error) {
	name := mp.text(n.ChildByFieldName("name"))
	if name == "" {
		return nil, parsing.NewParseError(Language, "fn", "missing name")
	}
	fn := &ir.Function{
		Attributes: attrs,
		Visibility: mp.visibility(n),
		ID:         tree.NewIdentifier(name),
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == "function_modifiers" && strings.Contains(mp.text(c), "async") {
			fn.Synchrony = ir.Asynchronous
		}
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		inputs, err := mp.parameters(params)
		if err != nil {
			return nil, errors.Wrapf(err, "fn %s", name)
		}
		fn.Inputs = inputs
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		fn.Output = mp.typeOf(ret)
	}
	return fn, nil
}

func (mp *moduleParser) parameters(n *sitter.Node) ([]ir.Parameter, error) {
	var params []ir.Parameter
	var pending ir.Attributes
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "attribute_item":
			if attr := mp.attribute(c); attr != nil {
				pending = append(pending, attr)
			}
			continue
		case "self_parameter":
			params = append(params, ir.Parameter{Attributes: pending, ID: tree.SelfRef(), Type: mp.receiver(c)})
		case "parameter":
			pattern := c.ChildByFieldName("pattern")
			if pattern == nil || pattern.Type() != "identifier" {
				return nil, parsing.NewParseError(Language, mp.text(c), "only identifier patterns are supported")
			}
			params = append(params, ir.Parameter{
				Attributes: pending,
				ID:         tree.NewIdentifier(mp.text(pattern)),
				Type:       mp.typeOf(c.ChildByFieldName("type")),
			})
		case "variadic_parameter":
			return nil, parsing.NewParseError(Language, mp.text(c), "variadic parameters are not supported")
		}
		pending = nil
	}
	return params, nil
}

// receiver maps self, &self and &mut self to Self, &Self and &mut Self
func (mp *moduleParser) receiver(n *sitter.Node) ir.Type {
	self := ir.Type(ir.NamedType(ir.SelfTypeName))
	borrowed, mutable := false, false
	for i := 0; i < int(n.ChildCount()); i++ {
		switch n.Child(i).Type() {
		case "&":
			borrowed = true
		case "mutable_specifier":
			mutable = true
		}
	}
	if !borrowed {
		return self
	}
	m := ir.Constant
	if mutable {
		m = ir.Mutable
	}
	return ir.NewReference(ir.Borrow, m, self)
}
