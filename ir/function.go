package ir

import (
	"strings"

	"github.com/teranos/bindgen/tree"
)

// Parameter is one function input
type Parameter struct {
	Attributes Attributes
	ID         tree.Identifier
	Type       Type
}

// Mutability is Mutable iff the parameter type is a mutable reference
func (p *Parameter) Mutability() Mutability {
	if IsMutableReference(p.Type) {
		return Mutable
	}
	return Constant
}

func (p *Parameter) String() string {
	return p.ID.Name + ": " + TypeString(p.Type)
}

// Method marks a function as bound to an owner type
type Method struct {
	Mutability Mutability
	Owner      Type
	// Static marks an associated function that takes no receiver
	Static bool
}

// Function is a free function or, when Method is set, a method
type Function struct {
	Attributes Attributes
	Visibility Visibility
	Method     *Method
	Synchrony  Synchrony
	ID         tree.Identifier
	Inputs     []Parameter
	// Output is nil for functions returning nothing
	Output Type
}

func (f *Function) IsMethod() bool { return f.Method != nil }
func (f *Function) IsAsync() bool  { return f.Synchrony == Asynchronous }

// IsIgnored reports whether the function carries an ignore attribute group
func (f *Function) IsIgnored() bool { return f.Attributes.IsIgnored() }

// Signature renders the function for display, e.g. "fn len(&self) -> I32"
func (f *Function) Signature() string {
	var b strings.Builder
	if f.IsAsync() {
		b.WriteString("async ")
	}
	b.WriteString("fn ")
	b.WriteString(f.ID.Name)
	b.WriteString("(")
	var params []string
	if f.Method != nil && !f.Method.Static {
		if f.Method.Mutability == Mutable {
			params = append(params, "&mut self")
		} else {
			params = append(params, "&self")
		}
	}
	for i := range f.Inputs {
		params = append(params, f.Inputs[i].String())
	}
	b.WriteString(strings.Join(params, ", "))
	b.WriteString(")")
	if f.Output != nil {
		b.WriteString(" -> ")
		b.WriteString(f.Output.String())
	}
	return b.String()
}

// NewMethod binds fn to owner. A leading self parameter is stripped and its
// type decides the receiver mutability (Mutable iff it is a mutable reference).
// Without a receiver the method is an associated function with Constant mutability.
func NewMethod(fn Function, owner Type) *Function {
	m := &Method{Mutability: Constant, Owner: owner, Static: true}
	inputs := fn.Inputs
	if len(inputs) > 0 && inputs[0].ID.Kind == tree.KindSelf {
		if IsMutableReference(inputs[0].Type) {
			m.Mutability = Mutable
		}
		m.Static = false
		inputs = inputs[1:]
	}
	if len(inputs) == 0 {
		inputs = nil
	} else {
		inputs = append([]Parameter(nil), inputs...)
	}
	fn.Inputs = inputs
	fn.Method = m
	return &fn
}

// replaceSelf substitutes self in every input, the output and the owner
func (f *Function) replaceSelf(self Type) {
	for i := range f.Inputs {
		f.Inputs[i].Type = ReplaceSelf(f.Inputs[i].Type, self)
	}
	if f.Output != nil {
		f.Output = ReplaceSelf(f.Output, self)
	}
	if f.Method != nil && f.Method.Owner != nil {
		f.Method.Owner = ReplaceSelf(f.Method.Owner, self)
	}
}
