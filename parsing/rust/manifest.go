package rust

import (
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/ir"
)

// cargoManifest is the subset of Cargo.toml the frontend reads.
// Workspace-inherited fields (`version.workspace = true`) decode as tables
// and are ignored.
type cargoManifest struct {
	Package struct {
		Name        string `toml:"name"`
		Version     any    `toml:"version"`
		Description any    `toml:"description"`
		Authors     any    `toml:"authors"`
		Keywords    any    `toml:"keywords"`
		Homepage    any    `toml:"homepage"`
		License     any    `toml:"license"`
	} `toml:"package"`
	Lib struct {
		Name string `toml:"name"`
		Path string `toml:"path"`
	} `toml:"lib"`
}

func readManifest(fs afero.Fs, path string) (cargoManifest, error) {
	var m cargoManifest
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return m, errors.Wrapf(err, "failed to read %s", path)
	}
	if err := toml.Unmarshal(data, &m); err != nil {
		return m, errors.Wrapf(err, "failed to parse %s", path)
	}
	if m.Lib.Name != "" {
		m.Package.Name = m.Lib.Name
	}
	return m, nil
}

func (m cargoManifest) metadata() ir.Metadata {
	return ir.Metadata{
		Version:     asString(m.Package.Version),
		Description: asString(m.Package.Description),
		Authors:     asStrings(m.Package.Authors),
		Keywords:    asStrings(m.Package.Keywords),
		Homepage:    asString(m.Package.Homepage),
		License:     asString(m.Package.License),
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStrings(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
