package parsing

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/teranos/bindgen/errors"
)

// Source is one file handed to a frontend
type Source struct {
	// Name is the module name the source becomes
	Name string
	// Path locates the file; frontends resolve sibling files against it
	Path string
	Code []byte
}

// ReadSource loads path from fs. The module name defaults to the file stem.
func ReadSource(fs afero.Fs, path string) (Source, error) {
	code, err := afero.ReadFile(fs, path)
	if err != nil {
		return Source{}, errors.Wrapf(err, "failed to read %s", path)
	}
	base := filepath.Base(path)
	return Source{
		Name: strings.TrimSuffix(base, filepath.Ext(base)),
		Path: path,
		Code: code,
	}, nil
}
