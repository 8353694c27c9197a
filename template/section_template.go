package template

import (
	"slices"
	"strings"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/output"
)

// SectionTemplate is raw template text bound to the registry its
// placeholders are resolved against
type SectionTemplate struct {
	Name    string
	Content string

	registry *Template
}

// NewSectionTemplate creates a standalone template with no siblings
func NewSectionTemplate(name, content string) *SectionTemplate {
	return &SectionTemplate{Name: name, Content: content}
}

// Get returns the sibling template called name
func (t *SectionTemplate) Get(name string) (*SectionTemplate, bool) {
	if t.registry == nil {
		return nil, false
	}
	src, ok := t.registry.sources[name]
	if !ok {
		return nil, false
	}
	return &SectionTemplate{Name: name, Content: src, registry: t.registry}, true
}

// Ranges returns the span of every placeholder in text order
func (t *SectionTemplate) Ranges() ([]Range, error) {
	nodes, err := parse(t.Content)
	if err != nil {
		return nil, errors.Wrapf(err, "template %q", t.Name)
	}
	var ranges []Range
	for _, n := range nodes {
		if n.placeholder {
			ranges = append(ranges, n.span)
		}
	}
	return ranges, nil
}

// Build expands the template into a section tree. Placeholders naming a
// sibling expand recursively; unknown names become empty sections.
func (t *SectionTemplate) Build() (*output.Section, error) {
	b := &builder{lookup: func(name string) (string, bool, error) {
		sibling, ok := t.Get(name)
		if !ok {
			return "", false, nil
		}
		return sibling.Content, true, nil
	}}
	return b.build(t.Name, t.Content)
}

// builder expands templates while tracking the chain being expanded
type builder struct {
	lookup func(name string) (string, bool, error)
	stack  []string
}

func (b *builder) build(name, content string) (*output.Section, error) {
	if slices.Contains(b.stack, name) {
		return nil, errors.WithDetailf(errors.ErrTemplateCycle,
			"%s -> %s", strings.Join(b.stack, " -> "), name)
	}
	b.stack = append(b.stack, name)
	defer func() { b.stack = b.stack[:len(b.stack)-1] }()

	nodes, err := parse(content)
	if err != nil {
		return nil, errors.Wrapf(err, "template %q", name)
	}

	section := output.NewSection(name)
	for _, n := range nodes {
		if !n.placeholder {
			section.Write(n.text)
			continue
		}
		src, ok, err := b.lookup(n.text)
		if err != nil {
			return nil, err
		}
		if !ok {
			section.AddBranch(output.NewSection(n.text))
			continue
		}
		child, err := b.build(n.text, src)
		if err != nil {
			return nil, err
		}
		section.AddBranch(child)
	}
	return section, nil
}
