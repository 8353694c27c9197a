package python

import (
	"fmt"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/logger"
)

// pyproject is the subset of pyproject.toml the frontend reads. PEP 621
// [project] tables win over [tool.poetry].
type pyproject struct {
	Project struct {
		Name        string         `toml:"name"`
		Version     string         `toml:"version"`
		Description string         `toml:"description"`
		Authors     []any          `toml:"authors"`
		Keywords    []string       `toml:"keywords"`
		License     any            `toml:"license"`
		URLs        map[string]any `toml:"urls"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name        string   `toml:"name"`
			Version     string   `toml:"version"`
			Description string   `toml:"description"`
			Authors     []any    `toml:"authors"`
			Keywords    []string `toml:"keywords"`
			License     any      `toml:"license"`
			Homepage    string   `toml:"homepage"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// projectMetadata is the merged view of pyproject.toml
type projectMetadata struct {
	Name string
	ir.Metadata
}

func (m projectMetadata) metadata() ir.Metadata { return m.Metadata }

// readProject returns the metadata of root/pyproject.toml, or zero values
// when the file is absent or malformed.
func (p *Parser) readProject(root string) projectMetadata {
	path := filepath.Join(root, "pyproject.toml")
	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return projectMetadata{}
	}
	var doc pyproject
	if err := toml.Unmarshal(data, &doc); err != nil {
		logger.Warnw("Ignoring malformed pyproject.toml", logger.FieldPath, path, logger.FieldError, err)
		return projectMetadata{}
	}

	pr, po := doc.Project, doc.Tool.Poetry
	meta := projectMetadata{
		Name: firstNonEmpty(pr.Name, po.Name),
		Metadata: ir.Metadata{
			Version:     firstNonEmpty(pr.Version, po.Version),
			Description: firstNonEmpty(pr.Description, po.Description),
			Authors:     authors(pr.Authors),
			Keywords:    pr.Keywords,
			Homepage:    firstNonEmpty(urlString(pr.URLs, "Homepage", "homepage"), po.Homepage),
			License:     firstNonEmpty(license(pr.License), license(po.License)),
		},
	}
	if meta.Authors == nil {
		meta.Authors = authors(po.Authors)
	}
	if meta.Keywords == nil {
		meta.Keywords = po.Keywords
	}
	return meta
}

// authors accepts both "Name <email>" strings and {name, email} tables
func authors(list []any) []string {
	var out []string
	for _, item := range list {
		switch a := item.(type) {
		case string:
			out = append(out, a)
		case map[string]any:
			name, _ := a["name"].(string)
			email, _ := a["email"].(string)
			switch {
			case name != "" && email != "":
				out = append(out, fmt.Sprintf("%s <%s>", name, email))
			case name != "":
				out = append(out, name)
			case email != "":
				out = append(out, email)
			}
		}
	}
	return out
}

// license accepts an SPDX string or a {text = ...} table
func license(v any) string {
	switch l := v.(type) {
	case string:
		return l
	case map[string]any:
		s, _ := l["text"].(string)
		return s
	}
	return ""
}

func urlString(urls map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := urls[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
