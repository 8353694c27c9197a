package ir

import (
	"slices"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/tree"
)

// Field of a structure. Tuple fields have an empty ID.
type Field struct {
	Attributes Attributes
	Visibility Visibility
	ID         tree.Identifier
	Type       Type
}

// Variant of an enumeration
type Variant struct {
	Attributes Attributes
	ID         tree.Identifier
}

// TypeDefinition is a Structure or an Enumeration. The set of variants is closed.
type TypeDefinition interface {
	isTypeDefinition()
	Identifier() tree.Identifier
	GetVisibility() Visibility
	GetAttributes() Attributes
}

// Structure is a record type with fields
type Structure struct {
	Attributes Attributes
	Visibility Visibility
	ID         tree.Identifier
	Fields     []Field
}

// Enumeration is a type with named variants
type Enumeration struct {
	Attributes Attributes
	Visibility Visibility
	ID         tree.Identifier
	Variants   []Variant
}

func (*Structure) isTypeDefinition()   {}
func (*Enumeration) isTypeDefinition() {}

func (s *Structure) Identifier() tree.Identifier   { return s.ID }
func (s *Structure) GetVisibility() Visibility     { return s.Visibility }
func (s *Structure) GetAttributes() Attributes     { return s.Attributes }
func (e *Enumeration) Identifier() tree.Identifier { return e.ID }
func (e *Enumeration) GetVisibility() Visibility   { return e.Visibility }
func (e *Enumeration) GetAttributes() Attributes   { return e.Attributes }

// AssociatedConstant is a constant declared inside an implementation block
type AssociatedConstant struct {
	ID      tree.Identifier
	Type    Type
	Literal Literal
}

// ImplementationItem is a method (*Function) or an AssociatedConstant. The set of variants is closed.
type ImplementationItem interface {
	isImplementationItem()
}

func (*Function) isImplementationItem()          {}
func (AssociatedConstant) isImplementationItem() {}

// Implementation is a method container for Self
type Implementation struct {
	Attributes Attributes
	Self       Type
	Items      []ImplementationItem
}

// Methods returns the function items in declaration order
func (impl *Implementation) Methods() []*Function {
	var out []*Function
	for _, item := range impl.Items {
		if fn, ok := item.(*Function); ok {
			out = append(out, fn)
		}
	}
	return out
}

// Constants returns the constant items in declaration order
func (impl *Implementation) Constants() []AssociatedConstant {
	var out []AssociatedConstant
	for _, item := range impl.Items {
		if c, ok := item.(AssociatedConstant); ok {
			out = append(out, c)
		}
	}
	return out
}

// ReplaceSelfWithExplicitNames rewrites every Self path to impl.Self
func (impl *Implementation) ReplaceSelfWithExplicitNames() {
	for i, item := range impl.Items {
		switch x := item.(type) {
		case *Function:
			x.replaceSelf(impl.Self)
		case AssociatedConstant:
			x.Type = ReplaceSelf(x.Type, impl.Self)
			impl.Items[i] = x
		}
	}
}

// Object merges one type definition with every implementation block for it
type Object struct {
	Path            tree.Path
	Definition      TypeDefinition
	Implementations []Implementation
}

// Methods returns every method across all implementation blocks
func (o *Object) Methods() []*Function {
	var out []*Function
	for i := range o.Implementations {
		out = append(out, o.Implementations[i].Methods()...)
	}
	return out
}

// Constants returns every associated constant across all implementation blocks
func (o *Object) Constants() []AssociatedConstant {
	var out []AssociatedConstant
	for i := range o.Implementations {
		out = append(out, o.Implementations[i].Constants()...)
	}
	return out
}

// Fields returns the structure fields, or nil for enumerations
func (o *Object) Fields() []Field {
	if s, ok := o.Definition.(*Structure); ok {
		return s.Fields
	}
	return nil
}

// IsPublic reports whether the definition is declared public
func (o *Object) IsPublic() bool {
	return o.Definition != nil && o.Definition.GetVisibility() == Public
}

// IsIgnored reports whether the definition carries an ignore attribute group
func (o *Object) IsIgnored() bool {
	return o.Definition != nil && o.Definition.GetAttributes().IsIgnored()
}

// ObjectCollector merges definitions and implementations keyed by path.
// Insertion order is kept so results never depend on map iteration.
type ObjectCollector struct {
	order   []string
	entries map[string]*Object
}

// NewObjectCollector creates an empty collector
func NewObjectCollector() *ObjectCollector {
	return &ObjectCollector{entries: make(map[string]*Object)}
}

func (c *ObjectCollector) entry(path tree.Path) *Object {
	key := path.String()
	if obj, ok := c.entries[key]; ok {
		return obj
	}
	obj := &Object{Path: path}
	c.entries[key] = obj
	c.order = append(c.order, key)
	return obj
}

// AddDefinition sets the definition for path; a later definition replaces an earlier one
func (c *ObjectCollector) AddDefinition(path tree.Path, def TypeDefinition) {
	c.entry(path).Definition = def
}

// AddImplementation appends an implementation block for path
func (c *ObjectCollector) AddImplementation(path tree.Path, impl Implementation) {
	obj := c.entry(path)
	obj.Implementations = append(obj.Implementations, impl)
}

// Len returns the number of distinct paths seen
func (c *ObjectCollector) Len() int { return len(c.order) }

// Finalize returns the merged objects sorted by path. An object that never
// received a definition fails the whole collection.
func (c *ObjectCollector) Finalize() ([]*Object, error) {
	if len(c.order) == 0 {
		return nil, nil
	}
	out := make([]*Object, 0, len(c.order))
	for _, key := range c.order {
		obj := c.entries[key]
		if obj.Definition == nil {
			return nil, errors.WithHint(
				errors.Wrapf(errors.ErrMissingDefinition, "object %s", obj.Path),
				"an implementation block was found without a matching struct or enum")
		}
		out = append(out, obj)
	}
	SortObjects(out)
	return out, nil
}

// SortObjects orders objects by path
func SortObjects(objects []*Object) {
	slices.SortStableFunc(objects, func(a, b *Object) int {
		return a.Path.Compare(b.Path)
	})
}

// DeduplicateObjects keeps one object per identifier. Scanning runs from the
// end, so the last declaration wins. The result is sorted by path.
func DeduplicateObjects(objects []*Object) []*Object {
	if len(objects) == 0 {
		return nil
	}
	seen := make(map[tree.Identifier]bool, len(objects))
	out := make([]*Object, 0, len(objects))
	for i := len(objects) - 1; i >= 0; i-- {
		id := objects[i].Identifier()
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, objects[i])
	}
	SortObjects(out)
	return out
}
