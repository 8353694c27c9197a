// Package generator defines the backend contract and the shared helpers
// backends use to turn a normalized ir.Library into an output.FileSet.
package generator

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/output"
)

// Generator produces the bindings for one target language.
// Each target (C, Rust, C#) implements this interface.
type Generator interface {
	// Language returns the target name (e.g., "c", "rust", "csharp")
	Language() string

	// FileExtension returns the extension of generated files (e.g., "h", "rs", "cs")
	FileExtension() string

	// BasePath is the directory under the output root the files are written to
	BasePath() string

	// GenerateFiles adds the library's bindings to files. Paths are relative to BasePath.
	GenerateFiles(lib *ir.Library, files *output.FileSet) error
}

// Generate runs g against lib and saves the files under outputDir/BasePath.
// The library is expected to be normalized already.
func Generate(g Generator, lib *ir.Library, afs afero.Fs, outputDir string) (*output.FileSet, error) {
	start := time.Now()
	files, err := Render(g, lib)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(outputDir, g.BasePath())
	if err := files.Save(afs, dir); err != nil {
		return nil, err
	}

	logger.Infow("Generated bindings",
		logger.FieldLanguage, g.Language(),
		logger.FieldLibrary, lib.ID.Name,
		logger.FieldCount, files.Len(),
		logger.FieldPath, dir,
		logger.FieldDuration, time.Since(start).Milliseconds())
	return files, nil
}

// Render runs g against lib in memory
func Render(g Generator, lib *ir.Library) (*output.FileSet, error) {
	files := output.NewFileSet()
	if err := g.GenerateFiles(lib, files); err != nil {
		return nil, errors.Wrapf(err, "%s generator failed", g.Language())
	}
	return files, nil
}

// GenerateAll runs every generator in order and stops at the first failure
func GenerateAll(gens []Generator, lib *ir.Library, afs afero.Fs, outputDir string) error {
	for _, g := range gens {
		if _, err := Generate(g, lib, afs, outputDir); err != nil {
			return err
		}
	}
	return nil
}

// SourceVersionPrefix starts the header line that carries the library version.
// CompareDirectories can ignore it so a version bump alone is not a difference.
const SourceVersionPrefix = "Source version:"

// Header renders the banner placed at the top of generated files,
// one line per entry, each starting with comment.
func Header(lib *ir.Library, comment string) string {
	lines := []string{
		fmt.Sprintf("%s Code generated by bindgen from %s. DO NOT EDIT.", comment, lib.ID.Name),
	}
	if lib.Metadata.Version != "" {
		lines = append(lines, fmt.Sprintf("%s %s %s", comment, SourceVersionPrefix, lib.Metadata.Version))
	}
	return strings.Join(lines, "\n") + "\n"
}
