package ir

import (
	"strings"

	"github.com/teranos/bindgen/tree"
)

// Attribute is decorator or metadata syntax: a bare flag, a named literal or
// a group of nested attributes. The set of variants is closed.
type Attribute interface {
	isAttribute()
	Identifier() tree.Identifier
	String() string
}

// Flag is a bare attribute: #[name]
type Flag struct {
	ID tree.Identifier
}

// Named pairs an identifier with a literal: #[name = "value"]
type Named struct {
	ID      tree.Identifier
	Literal Literal
}

// Group nests attributes: #[name(a, b = 1)]
type Group struct {
	ID         tree.Identifier
	Attributes Attributes
}

func (Flag) isAttribute()  {}
func (Named) isAttribute() {}
func (Group) isAttribute() {}

func (a Flag) Identifier() tree.Identifier  { return a.ID }
func (a Named) Identifier() tree.Identifier { return a.ID }
func (a Group) Identifier() tree.Identifier { return a.ID }

func (a Flag) String() string  { return a.ID.Name }
func (a Named) String() string { return a.ID.Name + " = " + a.Literal.String() }
func (a Group) String() string { return a.ID.Name + "(" + a.Attributes.String() + ")" }

// NewFlag builds a Flag from a name
func NewFlag(name string) Flag { return Flag{ID: tree.NewIdentifier(name)} }

// NewNamed builds a Named attribute from a name
func NewNamed(name string, literal Literal) Named {
	return Named{ID: tree.NewIdentifier(name), Literal: literal}
}

// NewGroup builds a Group from a name
func NewGroup(name string, attributes ...Attribute) Group {
	g := Group{ID: tree.NewIdentifier(name)}
	if len(attributes) > 0 {
		g.Attributes = append(Attributes(nil), attributes...)
	}
	return g
}

// AttributeEqual compares attributes structurally
func AttributeEqual(a, b Attribute) bool {
	switch x := a.(type) {
	case Flag:
		y, ok := b.(Flag)
		return ok && x.ID == y.ID
	case Named:
		y, ok := b.(Named)
		return ok && x.ID == y.ID && x.Literal == y.Literal
	case Group:
		y, ok := b.(Group)
		return ok && x.ID == y.ID && x.Attributes.Equal(y.Attributes)
	}
	return a == nil && b == nil
}

// Attributes is an ordered attribute list
type Attributes []Attribute

// IgnoreGroups are the attribute groups whose ignore flag excludes an entity from generation
var IgnoreGroups = []string{"bindgen", "ligen"}

// IgnoreFlag is the flag inside an ignore group
const IgnoreFlag = "ignore"

func (as Attributes) IsEmpty() bool { return len(as) == 0 }

// Equal compares two lists element-wise
func (as Attributes) Equal(other Attributes) bool {
	if len(as) != len(other) {
		return false
	}
	for i := range as {
		if !AttributeEqual(as[i], other[i]) {
			return false
		}
	}
	return true
}

// Contains reports whether an attribute equal to a is present
func (as Attributes) Contains(a Attribute) bool {
	for _, x := range as {
		if AttributeEqual(x, a) {
			return true
		}
	}
	return false
}

// Get returns the first attribute named id
func (as Attributes) Get(id tree.Identifier) (Attribute, bool) {
	for _, a := range as {
		if a.Identifier() == id {
			return a, true
		}
	}
	return nil, false
}

// Find descends through groups along path, e.g. bindgen::ffi::Foo::opaque.
// Every group with a matching name is searched, not only the first.
func (as Attributes) Find(path tree.Path) (Attribute, bool) {
	first, rest, ok := path.PopFront()
	if !ok {
		return nil, false
	}
	for _, a := range as {
		if a.Identifier() != first {
			continue
		}
		if rest.IsEmpty() {
			return a, true
		}
		if g, isGroup := a.(Group); isGroup {
			if found, ok := g.Attributes.Find(rest); ok {
				return found, true
			}
		}
	}
	return nil, false
}

// Has reports whether Find succeeds
func (as Attributes) Has(path tree.Path) bool {
	_, ok := as.Find(path)
	return ok
}

// IsIgnored reports whether an ignore group such as #[bindgen(ignore)] is present
func (as Attributes) IsIgnored() bool {
	for _, group := range IgnoreGroups {
		if as.Has(tree.PathOf(group, IgnoreFlag)) {
			return true
		}
	}
	return false
}

func (as Attributes) String() string {
	parts := make([]string, len(as))
	for i, a := range as {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}
