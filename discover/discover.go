// Package discover finds parseable source files in a source tree.
package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/afero"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/parsing"
)

// FileEntry is one discovered source file
type FileEntry struct {
	Path     string // relative to the root, slash separated
	Language string
}

var skipDirs = map[string]struct{}{
	"__pycache__":   {},
	"node_modules":  {},
	"vendor":        {},
	"target":        {},
	"venv":          {},
	"env":           {},
	"build":         {},
	"dist":          {},
	"testdata":      {},
	"site-packages": {},
	"egg-info":      {},
}

// Finder walks a filesystem with a frontend registry
type Finder struct {
	Fs       afero.Fs
	Registry *parsing.Registry
}

// Files discovers files under root on the OS filesystem with the default registry
func Files(root string, patterns, languages []string) ([]FileEntry, error) {
	f := Finder{Fs: afero.NewOsFs(), Registry: parsing.DefaultRegistry}
	return f.Files(root, patterns, languages)
}

// Files discovers parseable files under root. Hidden entries, build
// directories and .gitignore matches are skipped. Patterns are doublestar
// globs over the relative path; a leading "!" excludes. Without include
// patterns every file passes. If languages is non-empty only those
// frontends are considered. The result is sorted by path.
func (f Finder) Files(root string, patterns, languages []string) ([]FileEntry, error) {
	reg := f.Registry
	if reg == nil {
		reg = parsing.DefaultRegistry
	}
	langSet := make(map[string]struct{}, len(languages))
	for _, l := range languages {
		if _, err := reg.ForLanguage(l); err != nil {
			return nil, err
		}
		langSet[strings.ToLower(l)] = struct{}{}
	}
	includes, excludes, err := splitPatterns(patterns)
	if err != nil {
		return nil, err
	}
	gi := f.loadGitignore(root)

	var results []FileEntry
	err = afero.Walk(f.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		name := info.Name()
		if info.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if gi != nil && gi.MatchesPath(relPath(root, path)+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || info.Mode()&os.ModeSymlink != 0 {
			return nil
		}

		rel := relPath(root, path)
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if !matches(rel, includes, excludes) {
			return nil
		}
		p, ok := reg.ForExtension(filepath.Ext(name))
		if !ok {
			return nil
		}
		if len(langSet) > 0 {
			if _, ok := langSet[p.Language()]; !ok {
				return nil
			}
		}
		results = append(results, FileEntry{Path: rel, Language: p.Language()})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", root)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	logger.Debugw("Discovered sources", logger.FieldPath, root, logger.FieldCount, len(results))
	return results, nil
}

// Languages returns the distinct languages of entries, sorted
func Languages(entries []FileEntry) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, e := range entries {
		if _, ok := seen[e.Language]; !ok {
			seen[e.Language] = struct{}{}
			out = append(out, e.Language)
		}
	}
	sort.Strings(out)
	return out
}

func splitPatterns(patterns []string) (includes, excludes []string, err error) {
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		exclude := strings.HasPrefix(p, "!")
		p = strings.TrimPrefix(p, "!")
		if !doublestar.ValidatePattern(p) {
			return nil, nil, errors.WithHint(
				errors.Newf("invalid pattern %q", p),
				"patterns use doublestar syntax, e.g. src/**/*.rs")
		}
		if exclude {
			excludes = append(excludes, p)
		} else {
			includes = append(includes, p)
		}
	}
	return includes, excludes, nil
}

func matches(rel string, includes, excludes []string) bool {
	for _, p := range excludes {
		if ok, _ := doublestar.Match(p, rel); ok {
			return false
		}
	}
	if len(includes) == 0 {
		return true
	}
	for _, p := range includes {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (f Finder) loadGitignore(root string) *ignore.GitIgnore {
	data, err := afero.ReadFile(f.Fs, filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return ignore.CompileIgnoreLines(strings.Split(string(data), "\n")...)
}
