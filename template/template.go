// Package template keeps named template sources, renders them with
// text/template and expands [section(name)] placeholders into output
// section trees that generators edit by name.
package template

import (
	"bytes"
	"io/fs"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/naming"
	"github.com/teranos/bindgen/output"
)

// Extension is the suffix RegisterFS looks for
const Extension = ".tmpl"

// Template is a registry of named template sources and helper functions
type Template struct {
	sources map[string]string
	funcs   template.FuncMap

	// compiled is rebuilt after any registration
	compiled *template.Template
}

// New creates a registry preloaded with the naming helpers
func New() *Template {
	t := &Template{
		sources: make(map[string]string),
		funcs:   template.FuncMap{},
	}
	for _, c := range naming.Conventions {
		t.funcs[string(c)] = c.Apply
	}
	t.funcs["join"] = strings.Join
	return t
}

// Register stores src under name, replacing any previous source
func (t *Template) Register(name, src string) {
	t.sources[name] = src
	t.compiled = nil
}

// RegisterFS registers every *.tmpl file under dir; the name is the file stem
func (t *Template) RegisterFS(fsys fs.FS, dir string) error {
	pattern := path.Join(dir, "**", "*"+Extension)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return errors.Wrapf(err, "failed to list templates in %s", dir)
	}
	sort.Strings(matches)
	for _, m := range matches {
		data, err := fs.ReadFile(fsys, m)
		if err != nil {
			return errors.Wrapf(err, "failed to read template %s", m)
		}
		name := strings.TrimSuffix(path.Base(m), Extension)
		t.Register(name, string(data))
		logger.Debugw("Registered template", logger.FieldTemplate, name, logger.FieldPath, m)
	}
	return nil
}

// RegisterFunction exposes fn to every template under name
func (t *Template) RegisterFunction(name string, fn any) {
	t.funcs[name] = fn
	t.compiled = nil
}

// Has reports whether a template called name is registered
func (t *Template) Has(name string) bool {
	_, ok := t.sources[name]
	return ok
}

// Names returns the registered template names, sorted
func (t *Template) Names() []string {
	names := make([]string, 0, len(t.sources))
	for name := range t.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Section returns the template called name bound to this registry.
// An unregistered name yields an empty template.
func (t *Template) Section(name string) *SectionTemplate {
	return &SectionTemplate{Name: name, Content: t.sources[name], registry: t}
}

// Sections expands the raw source of name into a section tree
func (t *Template) Sections(name string) (*output.Section, error) {
	if !t.Has(name) {
		return nil, errors.WithDetailf(errors.ErrUnknownTemplate, "template %q", name)
	}
	return t.Section(name).Build()
}

func (t *Template) compile() (*template.Template, error) {
	if t.compiled != nil {
		return t.compiled, nil
	}
	root := template.New("").Funcs(t.funcs)
	for _, name := range t.Names() {
		if _, err := root.New(name).Parse(t.sources[name]); err != nil {
			return nil, errors.Wrapf(err, "failed to parse template %q", name)
		}
	}
	t.compiled = root
	return root, nil
}

// Render executes the template called name against value. Sibling
// templates are callable with {{template "name" .}}.
func (t *Template) Render(name string, value any) (string, error) {
	if !t.Has(name) {
		return "", errors.WithDetailf(errors.ErrUnknownTemplate, "template %q", name)
	}
	compiled, err := t.compile()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := compiled.ExecuteTemplate(&buf, name, value); err != nil {
		return "", errors.Wrapf(err, "failed to render template %q", name)
	}
	return buf.String(), nil
}

// RenderSections renders name against value and expands its placeholders.
// Each reachable sibling is rendered against the same value before expansion.
func (t *Template) RenderSections(name string, value any) (*output.Section, error) {
	content, err := t.Render(name, value)
	if err != nil {
		return nil, err
	}
	b := &builder{lookup: func(sibling string) (string, bool, error) {
		if !t.Has(sibling) {
			return "", false, nil
		}
		rendered, err := t.Render(sibling, value)
		if err != nil {
			return "", false, err
		}
		return rendered, true, nil
	}}
	return b.build(name, content)
}
