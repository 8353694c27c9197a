package generator

import (
	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/output"
	"github.com/teranos/bindgen/template"
)

// RequireSection returns the section called name under parent. A template
// that no longer declares the placeholder yields ErrUnknownTemplate.
func RequireSection(parent *output.Section, name string) (*output.Section, error) {
	if s, ok := parent.Find(name); ok {
		return s, nil
	}
	return nil, errors.Wrapf(errors.ErrUnknownTemplate, "section %q missing from %q", name, parent.Name)
}

// RegisterHelpers exposes the marshaller to tmpl:
//
//	marshal_type  spells a result type, after output overrides
//	marshal_input spells a parameter type, after input overrides
func RegisterHelpers(tmpl *template.Template, m *Marshaller) {
	tmpl.RegisterFunction("marshal_type", m.Output)
	tmpl.RegisterFunction("marshal_input", m.Input)
}
